package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	apperrors "github.com/dpshade/format-weaver/internal/errors"
	"github.com/dpshade/format-weaver/internal/models"
	"github.com/dpshade/format-weaver/internal/storage"
)

// DefaultWorkspaceName is the workspace created on first init
const DefaultWorkspaceName = "Personal"

// Service provides business logic for template library management:
// saved templates, folders, workspaces and plan limits.
type Service struct {
	storage    *storage.Storage
	templates  []*models.SavedTemplate // Cached template metadata for fast access
	workspaces []models.Workspace
	folders    []models.Folder
	plan       models.SubscriptionPlan
}

// NewService creates a new service instance rooted at libraryDir
// (empty means the default library location).
func NewService(libraryDir string, plan models.SubscriptionPlan) (*Service, error) {
	store, err := storage.NewStorage(libraryDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if plan == "" {
		plan = models.PlanFree
	}

	svc := &Service{
		storage: store,
		plan:    plan,
	}

	// Workspaces and folders are small list files, load them eagerly.
	// Templates are loaded on demand.
	if err := svc.loadRecords(); err != nil {
		return nil, err
	}

	return svc, nil
}

// InitLibrary initializes a new template library
func (s *Service) InitLibrary() error {
	if err := s.storage.InitLibrary(); err != nil {
		return err
	}
	return s.ensureDefaultWorkspace()
}

// GetBaseDir returns the library root directory
func (s *Service) GetBaseDir() string {
	return s.storage.GetBaseDir()
}

// Plan returns the active subscription plan
func (s *Service) Plan() models.SubscriptionPlan {
	return s.plan
}

// SetPlan switches the active subscription plan
func (s *Service) SetPlan(plan models.SubscriptionPlan) {
	s.plan = plan
}

func (s *Service) limits() models.PlanLimits {
	return models.LimitsFor(s.plan)
}

func (s *Service) loadRecords() error {
	workspaces, err := s.storage.LoadWorkspaces()
	if err != nil {
		return err
	}
	folders, err := s.storage.LoadFolders()
	if err != nil {
		return err
	}
	s.workspaces = workspaces
	s.folders = folders
	return nil
}

func (s *Service) ensureDefaultWorkspace() error {
	if len(s.workspaces) > 0 {
		return nil
	}
	ws := models.Workspace{
		ID:        uuid.NewString(),
		Name:      DefaultWorkspaceName,
		CreatedAt: time.Now(),
	}
	s.workspaces = append(s.workspaces, ws)
	return s.storage.SaveWorkspaces(s.workspaces)
}

// loadTemplates loads all template metadata into memory for fast access
func (s *Service) loadTemplates() error {
	templates, err := s.storage.ListTemplates()
	if err != nil {
		return err
	}
	s.templates = templates
	return nil
}

// ListTemplates returns all saved templates
func (s *Service) ListTemplates() ([]*models.SavedTemplate, error) {
	if s.templates == nil {
		if err := s.loadTemplates(); err != nil {
			return nil, err
		}
	}
	return s.templates, nil
}

// ListTemplatesInWorkspace returns templates belonging to a workspace
func (s *Service) ListTemplatesInWorkspace(workspaceID string) ([]*models.SavedTemplate, error) {
	templates, err := s.ListTemplates()
	if err != nil {
		return nil, err
	}

	var filtered []*models.SavedTemplate
	for _, t := range templates {
		if t.WorkspaceID == workspaceID {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// SearchTemplates searches saved templates by query string
func (s *Service) SearchTemplates(query string) ([]*models.SavedTemplate, error) {
	templates, err := s.ListTemplates()
	if err != nil {
		return nil, err
	}

	if query == "" {
		return templates, nil
	}

	var searchStrings []string
	for _, t := range templates {
		searchStrings = append(searchStrings, fmt.Sprintf("%s %s", t.Name, t.ID))
	}

	matches := fuzzy.Find(query, searchStrings)

	var results []*models.SavedTemplate
	for _, match := range matches {
		results = append(results, templates[match.Index])
	}
	return results, nil
}

// GetTemplate returns a template by ID with tokens and variables loaded
func (s *Service) GetTemplate(id string) (*models.SavedTemplate, error) {
	templates, err := s.ListTemplates()
	if err != nil {
		return nil, err
	}

	for _, t := range templates {
		if t.ID == id {
			// Cached entries carry metadata only, load the full record
			if t.Tokens == nil {
				return s.storage.LoadTemplate(id)
			}
			return t, nil
		}
	}

	return nil, apperrors.NotFoundError(fmt.Sprintf("template %q", id))
}

// SaveTemplate saves a template (create or update). New templates are
// subject to the plan's template limit.
func (s *Service) SaveTemplate(t *models.SavedTemplate) error {
	if strings.TrimSpace(t.Name) == "" {
		return apperrors.ValidationError("template name cannot be empty")
	}

	templates, err := s.ListTemplates()
	if err != nil {
		return err
	}

	if t.WorkspaceID == "" {
		ws, err := s.defaultWorkspace()
		if err != nil {
			return err
		}
		t.WorkspaceID = ws.ID
	} else if _, err := s.GetWorkspace(t.WorkspaceID); err != nil {
		return err
	}
	if t.FolderID != nil {
		if _, err := s.GetFolder(*t.FolderID); err != nil {
			return err
		}
	}

	existing := false
	for _, cached := range templates {
		if cached.ID == t.ID {
			existing = true
			t.CreatedAt = cached.CreatedAt
			break
		}
	}

	if !existing {
		if !s.limits().AllowsTemplate(len(templates)) {
			return apperrors.PlanLimitError("templates")
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		t.CreatedAt = time.Now()
	}

	if err := s.storage.SaveTemplate(t); err != nil {
		return err
	}
	return s.loadTemplates()
}

// RenameTemplate changes a template's display name
func (s *Service) RenameTemplate(id, name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.ValidationError("template name cannot be empty")
	}
	t, err := s.GetTemplate(id)
	if err != nil {
		return err
	}
	t.Name = name
	if err := s.storage.SaveTemplate(t); err != nil {
		return err
	}
	return s.loadTemplates()
}

// MoveTemplate moves a template into a folder (nil means workspace root)
func (s *Service) MoveTemplate(id string, folderID *string) error {
	t, err := s.GetTemplate(id)
	if err != nil {
		return err
	}
	if folderID != nil {
		folder, err := s.GetFolder(*folderID)
		if err != nil {
			return err
		}
		if folder.WorkspaceID != t.WorkspaceID {
			return apperrors.ValidationError("folder belongs to a different workspace")
		}
	}
	t.FolderID = folderID
	if err := s.storage.SaveTemplate(t); err != nil {
		return err
	}
	return s.loadTemplates()
}

// DeleteTemplate deletes a template by ID
func (s *Service) DeleteTemplate(id string) error {
	if _, err := s.GetTemplate(id); err != nil {
		return err
	}
	if err := s.storage.DeleteTemplate(id); err != nil {
		return err
	}
	return s.loadTemplates()
}

// Workspace methods

// ListWorkspaces returns all workspaces
func (s *Service) ListWorkspaces() []models.Workspace {
	return s.workspaces
}

// GetWorkspace retrieves a workspace by ID
func (s *Service) GetWorkspace(id string) (*models.Workspace, error) {
	for i := range s.workspaces {
		if s.workspaces[i].ID == id {
			return &s.workspaces[i], nil
		}
	}
	return nil, apperrors.NotFoundError(fmt.Sprintf("workspace %q", id))
}

func (s *Service) defaultWorkspace() (*models.Workspace, error) {
	if err := s.ensureDefaultWorkspace(); err != nil {
		return nil, err
	}
	return &s.workspaces[0], nil
}

// CreateWorkspace creates a new workspace, subject to the plan's
// workspace limit.
func (s *Service) CreateWorkspace(name string) (*models.Workspace, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.ValidationError("workspace name cannot be empty")
	}
	for _, ws := range s.workspaces {
		if ws.Name == name {
			return nil, apperrors.AlreadyExistsError(fmt.Sprintf("workspace %q", name))
		}
	}
	if !s.limits().AllowsWorkspace(len(s.workspaces)) {
		return nil, apperrors.PlanLimitError("workspaces")
	}

	ws := models.Workspace{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	s.workspaces = append(s.workspaces, ws)
	if err := s.storage.SaveWorkspaces(s.workspaces); err != nil {
		return nil, err
	}
	return &s.workspaces[len(s.workspaces)-1], nil
}

// RenameWorkspace changes a workspace's name
func (s *Service) RenameWorkspace(id, name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.ValidationError("workspace name cannot be empty")
	}
	ws, err := s.GetWorkspace(id)
	if err != nil {
		return err
	}
	ws.Name = name
	return s.storage.SaveWorkspaces(s.workspaces)
}

// DeleteWorkspace removes a workspace along with its folders and
// templates
func (s *Service) DeleteWorkspace(id string) error {
	if _, err := s.GetWorkspace(id); err != nil {
		return err
	}
	if len(s.workspaces) == 1 {
		return apperrors.ValidationError("cannot delete the last workspace")
	}

	templates, err := s.ListTemplates()
	if err != nil {
		return err
	}
	for _, t := range templates {
		if t.WorkspaceID == id {
			if err := s.storage.DeleteTemplate(t.ID); err != nil {
				return err
			}
		}
	}

	var keptFolders []models.Folder
	for _, f := range s.folders {
		if f.WorkspaceID != id {
			keptFolders = append(keptFolders, f)
		}
	}
	s.folders = keptFolders
	if err := s.storage.SaveFolders(s.folders); err != nil {
		return err
	}

	for i, ws := range s.workspaces {
		if ws.ID == id {
			s.workspaces = append(s.workspaces[:i], s.workspaces[i+1:]...)
			break
		}
	}
	if err := s.storage.SaveWorkspaces(s.workspaces); err != nil {
		return err
	}
	return s.loadTemplates()
}

// Folder methods

// ListFolders returns all folders in a workspace
func (s *Service) ListFolders(workspaceID string) []models.Folder {
	var folders []models.Folder
	for _, f := range s.folders {
		if f.WorkspaceID == workspaceID {
			folders = append(folders, f)
		}
	}
	return folders
}

// GetFolder retrieves a folder by ID
func (s *Service) GetFolder(id string) (*models.Folder, error) {
	for i := range s.folders {
		if s.folders[i].ID == id {
			return &s.folders[i], nil
		}
	}
	return nil, apperrors.NotFoundError(fmt.Sprintf("folder %q", id))
}

// CreateFolder creates a folder inside a workspace, optionally nested
// under a parent folder.
func (s *Service) CreateFolder(name, workspaceID string, parentID *string) (*models.Folder, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.ValidationError("folder name cannot be empty")
	}
	if _, err := s.GetWorkspace(workspaceID); err != nil {
		return nil, err
	}
	if parentID != nil {
		parent, err := s.GetFolder(*parentID)
		if err != nil {
			return nil, err
		}
		if parent.WorkspaceID != workspaceID {
			return nil, apperrors.ValidationError("parent folder belongs to a different workspace")
		}
	}

	folder := models.Folder{
		ID:          uuid.NewString(),
		Name:        name,
		WorkspaceID: workspaceID,
		ParentID:    parentID,
		CreatedAt:   time.Now(),
	}
	s.folders = append(s.folders, folder)
	if err := s.storage.SaveFolders(s.folders); err != nil {
		return nil, err
	}
	return &s.folders[len(s.folders)-1], nil
}

// RenameFolder changes a folder's name
func (s *Service) RenameFolder(id, name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.ValidationError("folder name cannot be empty")
	}
	folder, err := s.GetFolder(id)
	if err != nil {
		return err
	}
	folder.Name = name
	return s.storage.SaveFolders(s.folders)
}

// DeleteFolder removes a folder, its nested folders and every template
// stored inside them.
func (s *Service) DeleteFolder(id string) error {
	if _, err := s.GetFolder(id); err != nil {
		return err
	}

	// Breadth-first walk collecting the folder and all descendants
	doomed := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, f := range s.folders {
			if f.ParentID != nil && *f.ParentID == current && !doomed[f.ID] {
				doomed[f.ID] = true
				queue = append(queue, f.ID)
			}
		}
	}

	templates, err := s.ListTemplates()
	if err != nil {
		return err
	}
	for _, t := range templates {
		if t.FolderID != nil && doomed[*t.FolderID] {
			if err := s.storage.DeleteTemplate(t.ID); err != nil {
				return err
			}
		}
	}

	var kept []models.Folder
	for _, f := range s.folders {
		if !doomed[f.ID] {
			kept = append(kept, f)
		}
	}
	s.folders = kept
	if err := s.storage.SaveFolders(s.folders); err != nil {
		return err
	}
	return s.loadTemplates()
}
