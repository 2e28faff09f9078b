package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dpshade/format-weaver/internal/models"
)

// EnvDir overrides the library directory when set
const EnvDir = "FORMAT_WEAVER_DIR"

const configFile = "config.yaml"

// Config holds user-level settings loaded from the library's
// config.yaml. Every field is optional; zero values fall back to
// defaults.
type Config struct {
	LibraryDir string `yaml:"library_dir,omitempty"`
	Plan       string `yaml:"plan,omitempty"`
	LogLevel   string `yaml:"log_level,omitempty"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Plan:     string(models.PlanFree),
		LogLevel: "info",
	}
}

// Load reads configuration from the library directory. The directory
// is resolved in order from the FORMAT_WEAVER_DIR environment
// variable, the config file's own library_dir field, and finally
// ~/.format-weaver. A missing config file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	dir := os.Getenv(EnvDir)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".format-weaver")
	}

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.LibraryDir = dir
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// The environment variable and the file's location win over a
	// stale library_dir recorded inside the file.
	cfg.LibraryDir = dir
	if cfg.Plan == "" {
		cfg.Plan = string(models.PlanFree)
	}
	return cfg, nil
}

// Save writes the configuration to config.yaml in the library directory
func (c *Config) Save() error {
	if c.LibraryDir == "" {
		return fmt.Errorf("library directory is not set")
	}
	if err := os.MkdirAll(c.LibraryDir, 0755); err != nil {
		return fmt.Errorf("failed to create library directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.LibraryDir, configFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SubscriptionPlan maps the configured plan string onto a known tier.
// Unknown values fall back to the free plan.
func (c *Config) SubscriptionPlan() models.SubscriptionPlan {
	switch strings.ToLower(c.Plan) {
	case "pro":
		return models.PlanPro
	case "team":
		return models.PlanTeam
	default:
		return models.PlanFree
	}
}

// SlogLevel maps the configured log level onto a slog level
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
