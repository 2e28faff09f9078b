// Package storage persists workspaces, folders and templates as plain
// JSON documents under a library directory. Templates are one file
// each and only ever written whole; workspaces and folders live in
// versioned list files. All writes are atomic so a crash never leaves
// a half-written record.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/dpshade/format-weaver/internal/models"
)

// Storage handles all file system operations for the template library
type Storage struct {
	rootPath string
	cache    *MetadataCache
}

// NewStorage creates a new storage instance rooted at rootPath,
// defaulting to ~/.format-weaver.
func NewStorage(rootPath string) (*Storage, error) {
	if rootPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		rootPath = filepath.Join(homeDir, ".format-weaver")
	}

	cache := NewMetadataCache(rootPath)
	if err := cache.Load(); err != nil {
		// Cache is optional; listing falls back to full reads
		fmt.Fprintf(os.Stderr, "Warning: failed to load metadata cache: %v\n", err)
	}

	return &Storage{rootPath: rootPath, cache: cache}, nil
}

// InitLibrary creates the directory structure for a template library
func (s *Storage) InitLibrary() error {
	dirs := []string{
		s.rootPath,
		filepath.Join(s.rootPath, "templates"),
		filepath.Join(s.rootPath, ".format-weaver"),
		filepath.Join(s.rootPath, ".format-weaver", "cache"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetBaseDir returns the root path of the storage
func (s *Storage) GetBaseDir() string {
	return s.rootPath
}

// templatePath maps a template id to its file
func (s *Storage) templatePath(id string) string {
	return filepath.Join(s.rootPath, "templates", id+".json")
}

// SaveTemplate writes a template record as one JSON document. The
// token sequence and variable set round-trip losslessly; the tagged
// token encoding keeps each variant's discriminant.
func (s *Storage) SaveTemplate(t *models.SavedTemplate) error {
	dir := filepath.Dir(s.templatePath(t.ID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize template: %w", err)
	}

	if err := atomic.WriteFile(s.templatePath(t.ID), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write template file: %w", err)
	}

	s.cache.Invalidate(relTemplatePath(t.ID))
	return nil
}

// LoadTemplate reads one template record by id
func (s *Storage) LoadTemplate(id string) (*models.SavedTemplate, error) {
	data, err := os.ReadFile(s.templatePath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	var t models.SavedTemplate
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &t, nil
}

// DeleteTemplate removes a template record from the library
func (s *Storage) DeleteTemplate(id string) error {
	path := s.templatePath(id)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("template file does not exist: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete template file: %w", err)
	}
	s.cache.Invalidate(relTemplatePath(id))
	return nil
}

// ListTemplates returns every template in the library, using the
// metadata cache to skip parsing files that have not changed. Tokens
// and variables of cached entries are loaded on demand via
// LoadTemplate.
func (s *Storage) ListTemplates() ([]*models.SavedTemplate, error) {
	templatesDir := filepath.Join(s.rootPath, "templates")
	if _, err := os.Stat(templatesDir); os.IsNotExist(err) {
		return []*models.SavedTemplate{}, nil
	}

	var templates []*models.SavedTemplate
	existingFiles := make(map[string]bool)
	cacheModified := false

	err := filepath.Walk(templatesDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}

		relPath, _ := filepath.Rel(s.rootPath, path)
		existingFiles[relPath] = true

		if cached, valid := s.cache.Get(relPath, info); valid {
			templates = append(templates, cached.ToTemplate())
			return nil
		}

		id := strings.TrimSuffix(filepath.Base(path), ".json")
		t, err := s.LoadTemplate(id)
		if err != nil {
			// Skip unreadable records but keep walking
			fmt.Fprintf(os.Stderr, "Warning: failed to load template %s: %v\n", relPath, err)
			return nil
		}

		s.cache.Set(relPath, info, t)
		cacheModified = true
		templates = append(templates, t)
		return nil
	})

	s.cache.Cleanup(existingFiles)
	if cacheModified {
		if err := s.cache.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save metadata cache: %v\n", err)
		}
	}

	return templates, err
}

func relTemplatePath(id string) string {
	return filepath.Join("templates", id+".json")
}
