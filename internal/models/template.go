package models

import "time"

// SavedTemplate is the persisted form of a template: its ordered token
// sequence plus the variable set the tokens reference. Templates are
// only ever written as a whole; there are no partial edits on disk.
type SavedTemplate struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	WorkspaceID string     `json:"workspace_id"`
	FolderID    *string    `json:"folder_id"`
	Tokens      []Token    `json:"tokens"`
	Variables   []Variable `json:"variables"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Folder groups templates within a workspace. A nil ParentID means the
// folder sits at the workspace root.
type Folder struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	WorkspaceID string    `json:"workspace_id"`
	ParentID    *string   `json:"parent_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Workspace is the top-level container for folders and templates
type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SubscriptionPlan names a billing tier. Limits are looked up by the
// service layer; the engine itself never inspects plans.
type SubscriptionPlan string

const (
	PlanFree SubscriptionPlan = "Free"
	PlanPro  SubscriptionPlan = "Pro"
	PlanTeam SubscriptionPlan = "Team"
)

// PlanLimits caps resource counts per subscription plan. A negative
// cap means unlimited.
type PlanLimits struct {
	Templates  int
	Workspaces int
	Team       bool
}

// LimitsFor returns the caps for a plan; unknown plans get Free limits
func LimitsFor(plan SubscriptionPlan) PlanLimits {
	switch plan {
	case PlanPro:
		return PlanLimits{Templates: -1, Workspaces: -1}
	case PlanTeam:
		return PlanLimits{Templates: -1, Workspaces: -1, Team: true}
	default:
		return PlanLimits{Templates: 5, Workspaces: 1}
	}
}

// allows reports whether n existing items leave room under limit
func allows(n, limit int) bool {
	return limit < 0 || n < limit
}

// AllowsTemplate reports whether one more template fits under the plan
func (l PlanLimits) AllowsTemplate(existing int) bool {
	return allows(existing, l.Templates)
}

// AllowsWorkspace reports whether one more workspace fits under the plan
func (l PlanLimits) AllowsWorkspace(existing int) bool {
	return allows(existing, l.Workspaces)
}
