package service

import (
	"testing"

	apperrors "github.com/dpshade/format-weaver/internal/errors"
	"github.com/dpshade/format-weaver/internal/models"
)

func newTestService(t *testing.T, plan models.SubscriptionPlan) *Service {
	t.Helper()
	svc, err := NewService(t.TempDir(), plan)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.InitLibrary(); err != nil {
		t.Fatal(err)
	}
	return svc
}

func simpleTemplate(name string) *models.SavedTemplate {
	return &models.SavedTemplate{
		Name:   name,
		Tokens: []models.Token{models.Literal("Hello")},
	}
}

func TestInitCreatesDefaultWorkspace(t *testing.T) {
	svc := newTestService(t, models.PlanFree)
	workspaces := svc.ListWorkspaces()
	if len(workspaces) != 1 {
		t.Fatalf("got %d workspaces, want 1", len(workspaces))
	}
	if workspaces[0].Name != DefaultWorkspaceName {
		t.Errorf("default workspace name = %q", workspaces[0].Name)
	}
}

func TestSaveAndGetTemplate(t *testing.T) {
	svc := newTestService(t, models.PlanFree)

	tpl := simpleTemplate("greeting")
	if err := svc.SaveTemplate(tpl); err != nil {
		t.Fatalf("SaveTemplate failed: %v", err)
	}
	if tpl.ID == "" {
		t.Fatal("expected minted template ID")
	}
	if tpl.WorkspaceID == "" {
		t.Fatal("expected default workspace assignment")
	}

	got, err := svc.GetTemplate(tpl.ID)
	if err != nil {
		t.Fatalf("GetTemplate failed: %v", err)
	}
	if got.Name != "greeting" {
		t.Errorf("name = %q", got.Name)
	}
	if len(got.Tokens) == 0 {
		t.Error("tokens not loaded")
	}
}

func TestSaveTemplateUpdateKeepsCreationTime(t *testing.T) {
	svc := newTestService(t, models.PlanFree)
	tpl := simpleTemplate("original")
	if err := svc.SaveTemplate(tpl); err != nil {
		t.Fatal(err)
	}
	created := tpl.CreatedAt

	tpl.Name = "renamed"
	if err := svc.SaveTemplate(tpl); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !tpl.CreatedAt.Equal(created) {
		t.Error("update changed creation time")
	}

	got, _ := svc.GetTemplate(tpl.ID)
	if got.Name != "renamed" {
		t.Errorf("name after update = %q", got.Name)
	}
}

func TestFreePlanTemplateLimit(t *testing.T) {
	svc := newTestService(t, models.PlanFree)

	for i := 0; i < 5; i++ {
		if err := svc.SaveTemplate(simpleTemplate("t")); err != nil {
			t.Fatalf("template %d rejected: %v", i, err)
		}
	}
	err := svc.SaveTemplate(simpleTemplate("one too many"))
	if !apperrors.HasCode(err, apperrors.ErrCodePlanLimit) {
		t.Errorf("expected PLAN_LIMIT, got %v", err)
	}

	// Updates to existing templates are not new creations.
	templates, _ := svc.ListTemplates()
	existing, err := svc.GetTemplate(templates[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.SaveTemplate(existing); err != nil {
		t.Errorf("updating at the limit should succeed: %v", err)
	}
}

func TestProPlanUnlimitedTemplates(t *testing.T) {
	svc := newTestService(t, models.PlanPro)
	for i := 0; i < 7; i++ {
		if err := svc.SaveTemplate(simpleTemplate("t")); err != nil {
			t.Fatalf("template %d rejected on Pro: %v", i, err)
		}
	}
}

func TestFreePlanWorkspaceLimit(t *testing.T) {
	svc := newTestService(t, models.PlanFree)
	_, err := svc.CreateWorkspace("Second")
	if !apperrors.HasCode(err, apperrors.ErrCodePlanLimit) {
		t.Errorf("expected PLAN_LIMIT, got %v", err)
	}

	svc.SetPlan(models.PlanTeam)
	if _, err := svc.CreateWorkspace("Second"); err != nil {
		t.Errorf("Team plan workspace rejected: %v", err)
	}
}

func TestDeleteTemplate(t *testing.T) {
	svc := newTestService(t, models.PlanFree)
	tpl := simpleTemplate("doomed")
	svc.SaveTemplate(tpl)

	if err := svc.DeleteTemplate(tpl.ID); err != nil {
		t.Fatalf("DeleteTemplate failed: %v", err)
	}
	if _, err := svc.GetTemplate(tpl.ID); !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND after delete, got %v", err)
	}
}

func TestRenameAndMoveTemplate(t *testing.T) {
	svc := newTestService(t, models.PlanFree)
	tpl := simpleTemplate("old")
	svc.SaveTemplate(tpl)

	if err := svc.RenameTemplate(tpl.ID, "new"); err != nil {
		t.Fatalf("RenameTemplate failed: %v", err)
	}
	got, _ := svc.GetTemplate(tpl.ID)
	if got.Name != "new" {
		t.Errorf("name = %q", got.Name)
	}

	ws := svc.ListWorkspaces()[0]
	folder, err := svc.CreateFolder("Events", ws.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.MoveTemplate(tpl.ID, &folder.ID); err != nil {
		t.Fatalf("MoveTemplate failed: %v", err)
	}
	got, _ = svc.GetTemplate(tpl.ID)
	if got.FolderID == nil || *got.FolderID != folder.ID {
		t.Errorf("folder = %v", got.FolderID)
	}

	if err := svc.MoveTemplate(tpl.ID, nil); err != nil {
		t.Fatalf("move to root failed: %v", err)
	}
	got, _ = svc.GetTemplate(tpl.ID)
	if got.FolderID != nil {
		t.Error("template still in a folder")
	}
}

func TestSearchTemplates(t *testing.T) {
	svc := newTestService(t, models.PlanPro)
	svc.SaveTemplate(simpleTemplate("Party Invitation"))
	svc.SaveTemplate(simpleTemplate("Status Report"))

	results, err := svc.SearchTemplates("invit")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Name != "Party Invitation" {
		t.Errorf("results = %+v", results)
	}

	all, err := svc.SearchTemplates("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("empty query returned %d templates", len(all))
	}
}

func TestDeleteFolderCascades(t *testing.T) {
	svc := newTestService(t, models.PlanPro)
	ws := svc.ListWorkspaces()[0]

	parent, err := svc.CreateFolder("Parent", ws.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	child, err := svc.CreateFolder("Child", ws.ID, &parent.ID)
	if err != nil {
		t.Fatal(err)
	}

	inParent := simpleTemplate("in parent")
	inParent.FolderID = &parent.ID
	svc.SaveTemplate(inParent)

	inChild := simpleTemplate("in child")
	inChild.FolderID = &child.ID
	svc.SaveTemplate(inChild)

	outside := simpleTemplate("outside")
	svc.SaveTemplate(outside)

	if err := svc.DeleteFolder(parent.ID); err != nil {
		t.Fatalf("DeleteFolder failed: %v", err)
	}

	if len(svc.ListFolders(ws.ID)) != 0 {
		t.Error("nested folder survived cascade")
	}
	templates, _ := svc.ListTemplates()
	if len(templates) != 1 || templates[0].Name != "outside" {
		t.Errorf("surviving templates = %+v", templates)
	}
}

func TestDeleteWorkspace(t *testing.T) {
	svc := newTestService(t, models.PlanTeam)
	first := svc.ListWorkspaces()[0]

	second, err := svc.CreateWorkspace("Second")
	if err != nil {
		t.Fatal(err)
	}

	tpl := simpleTemplate("in second")
	tpl.WorkspaceID = second.ID
	svc.SaveTemplate(tpl)

	secondID := second.ID
	if err := svc.DeleteWorkspace(secondID); err != nil {
		t.Fatalf("DeleteWorkspace failed: %v", err)
	}
	if len(svc.ListWorkspaces()) != 1 {
		t.Errorf("got %d workspaces", len(svc.ListWorkspaces()))
	}
	templates, _ := svc.ListTemplates()
	if len(templates) != 0 {
		t.Errorf("workspace templates survived: %+v", templates)
	}

	if err := svc.DeleteWorkspace(first.ID); !apperrors.HasCode(err, apperrors.ErrCodeValidation) {
		t.Errorf("deleting the last workspace should be rejected, got %v", err)
	}
}

func TestMoveTemplateAcrossWorkspacesRejected(t *testing.T) {
	svc := newTestService(t, models.PlanTeam)
	other, err := svc.CreateWorkspace("Other")
	if err != nil {
		t.Fatal(err)
	}
	folder, err := svc.CreateFolder("Elsewhere", other.ID, nil)
	if err != nil {
		t.Fatal(err)
	}

	tpl := simpleTemplate("home")
	svc.SaveTemplate(tpl)

	if err := svc.MoveTemplate(tpl.ID, &folder.ID); !apperrors.HasCode(err, apperrors.ErrCodeValidation) {
		t.Errorf("cross-workspace move should be rejected, got %v", err)
	}
}
