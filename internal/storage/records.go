package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/dpshade/format-weaver/internal/models"
)

const (
	workspacesFile = "workspaces.json"
	foldersFile    = "folders.json"
)

// WorkspacesData represents the JSON structure for the workspace list
type WorkspacesData struct {
	Workspaces []models.Workspace `json:"workspaces"`
	Version    string             `json:"version"`
}

// FoldersData represents the JSON structure for the folder list
type FoldersData struct {
	Folders []models.Folder `json:"folders"`
	Version string          `json:"version"`
}

// LoadWorkspaces loads all workspaces from disk
func (s *Storage) LoadWorkspaces() ([]models.Workspace, error) {
	path := filepath.Join(s.rootPath, workspacesFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return []models.Workspace{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspaces file: %w", err)
	}

	var wsData WorkspacesData
	if err := json.Unmarshal(data, &wsData); err != nil {
		return nil, fmt.Errorf("failed to parse workspaces JSON: %w", err)
	}

	return wsData.Workspaces, nil
}

// SaveWorkspaces saves all workspaces to disk
func (s *Storage) SaveWorkspaces(workspaces []models.Workspace) error {
	data := WorkspacesData{
		Workspaces: workspaces,
		Version:    "1.0",
	}
	return s.writeListFile(workspacesFile, data, "workspaces")
}

// LoadFolders loads all folders from disk
func (s *Storage) LoadFolders() ([]models.Folder, error) {
	path := filepath.Join(s.rootPath, foldersFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return []models.Folder{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read folders file: %w", err)
	}

	var fData FoldersData
	if err := json.Unmarshal(data, &fData); err != nil {
		return nil, fmt.Errorf("failed to parse folders JSON: %w", err)
	}

	return fData.Folders, nil
}

// SaveFolders saves all folders to disk
func (s *Storage) SaveFolders(folders []models.Folder) error {
	data := FoldersData{
		Folders: folders,
		Version: "1.0",
	}
	return s.writeListFile(foldersFile, data, "folders")
}

func (s *Storage) writeListFile(name string, v interface{}, label string) error {
	if err := os.MkdirAll(s.rootPath, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", label, err)
	}

	path := filepath.Join(s.rootPath, name)
	if err := atomic.WriteFile(path, bytes.NewReader(jsonData)); err != nil {
		return fmt.Errorf("failed to write %s file: %w", label, err)
	}

	return nil
}
