package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dpshade/format-weaver/internal/models"
)

// TemplateMetadata is the cached listing view of a template: enough to
// browse and search without parsing the full token sequence. Tokens
// and variables are loaded on demand.
type TemplateMetadata struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	WorkspaceID   string    `json:"workspace_id"`
	FolderID      *string   `json:"folder_id"`
	VariableCount int       `json:"variable_count"`
	CreatedAt     time.Time `json:"created_at"`
	FilePath      string    `json:"file_path"`
	ModTime       time.Time `json:"mod_time"`
}

// MetadataCache handles caching of template metadata keyed by relative
// file path, validated against file modification times.
type MetadataCache struct {
	cacheDir  string
	cacheFile string
	metadata  map[string]*TemplateMetadata
	mu        sync.RWMutex // Protects metadata map from concurrent access
}

// NewMetadataCache creates a new metadata cache under baseDir
func NewMetadataCache(baseDir string) *MetadataCache {
	cacheDir := filepath.Join(baseDir, ".format-weaver", "cache")
	return &MetadataCache{
		cacheDir:  cacheDir,
		cacheFile: filepath.Join(cacheDir, "metadata.json"),
		metadata:  make(map[string]*TemplateMetadata),
	}
}

// Load loads the metadata cache from disk
func (c *MetadataCache) Load() error {
	if err := os.MkdirAll(c.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if _, err := os.Stat(c.cacheFile); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(c.cacheFile)
	if err != nil {
		return fmt.Errorf("failed to read cache file: %w", err)
	}

	c.mu.Lock()
	if err := json.Unmarshal(data, &c.metadata); err != nil {
		// Corrupted cache starts fresh
		c.metadata = make(map[string]*TemplateMetadata)
	}
	c.mu.Unlock()

	return nil
}

// Save saves the metadata cache to disk
func (c *MetadataCache) Save() error {
	c.mu.RLock()
	data, err := json.MarshalIndent(c.metadata, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(c.cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// Get retrieves metadata for a file if the cache entry is still valid
func (c *MetadataCache) Get(relPath string, fileInfo os.FileInfo) (*TemplateMetadata, bool) {
	c.mu.RLock()
	cached, exists := c.metadata[relPath]
	c.mu.RUnlock()
	if !exists {
		return nil, false
	}
	if !fileInfo.ModTime().Equal(cached.ModTime) {
		return nil, false
	}
	return cached, true
}

// Set stores metadata for a freshly parsed template
func (c *MetadataCache) Set(relPath string, fileInfo os.FileInfo, t *models.SavedTemplate) {
	c.mu.Lock()
	c.metadata[relPath] = &TemplateMetadata{
		ID:            t.ID,
		Name:          t.Name,
		WorkspaceID:   t.WorkspaceID,
		FolderID:      t.FolderID,
		VariableCount: len(t.Variables),
		CreatedAt:     t.CreatedAt,
		FilePath:      relPath,
		ModTime:       fileInfo.ModTime(),
	}
	c.mu.Unlock()
}

// Invalidate drops the cache entry for a path after a write or delete
func (c *MetadataCache) Invalidate(relPath string) {
	c.mu.Lock()
	delete(c.metadata, relPath)
	c.mu.Unlock()
}

// Cleanup removes cache entries for files that no longer exist
func (c *MetadataCache) Cleanup(existingFiles map[string]bool) {
	c.mu.Lock()
	for path := range c.metadata {
		if !existingFiles[path] {
			delete(c.metadata, path)
		}
	}
	c.mu.Unlock()
}

// ToTemplate converts cached metadata back to a template record with
// tokens and variables left empty for on-demand loading.
func (m *TemplateMetadata) ToTemplate() *models.SavedTemplate {
	return &models.SavedTemplate{
		ID:          m.ID,
		Name:        m.Name,
		WorkspaceID: m.WorkspaceID,
		FolderID:    m.FolderID,
		CreatedAt:   m.CreatedAt,
	}
}
