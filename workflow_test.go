package workflow_test

import (
	"context"
	"sync"
	"testing"
	"time"

	workflow "github.com/contentforge/go-workflow"
	"github.com/contentforge/go-workflow/pkg/interfaces"
)

type captureNotifier struct {
	mu            sync.Mutex
	notifications []interfaces.WorkflowNotification
}

func (n *captureNotifier) Notify(ctx context.Context, notification interfaces.WorkflowNotification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification)
}

func (n *captureNotifier) levels() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var levels []string
	for _, notification := range n.notifications {
		levels = append(levels, notification.Level)
	}
	return levels
}

type adminRoles struct{}

func (adminRoles) RequesterRole(ctx context.Context) (interfaces.Role, error) {
	return "admin", nil
}

func (adminRoles) IsElevatedRole(role interfaces.Role) bool {
	return role == "admin"
}

func testConfig() workflow.Config {
	cfg := workflow.DefaultConfig()
	cfg.Logging.Enabled = false
	cfg.Workflow.RefreshDelay = 10 * time.Millisecond
	return cfg
}

func TestModuleEndToEndApprovalCycle(t *testing.T) {
	notifier := &captureNotifier{}
	module, err := workflow.New(testConfig(),
		workflow.WithRoleProvider(adminRoles{}),
		workflow.WithNotifier(notifier),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer module.Close()

	ctx := context.Background()
	record, err := module.Resources().Create(ctx, workflow.CreateResourceRequest{
		Type:  "page",
		Title: "Summer Campaign",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	controller := module.Controller()

	actions := controller.ResolveActions(ctx, "page", record.ID, "draft", workflow.Requester{})
	if len(actions) != 3 {
		t.Fatalf("draft should expose submit, publish and archive to an admin, got %v", actions)
	}

	disposition, _, err := controller.RequestAction(ctx, "submit", "page", record.ID, workflow.Requester{})
	if err != nil {
		t.Fatalf("request submit failed: %v", err)
	}
	if disposition != workflow.DispositionAwaitingFeedback {
		t.Fatalf("submit collects a change summary, got disposition %v", disposition)
	}

	controller.SetChangeSummary("first draft of the summer campaign page")
	disposition, result, err := controller.SubmitFeedback(ctx)
	if err != nil {
		t.Fatalf("submit feedback failed: %v", err)
	}
	if disposition != workflow.DispositionExecuted || result.Status != "in_review" {
		t.Fatalf("unexpected submit outcome: %v %+v", disposition, result)
	}

	for _, action := range []workflow.Action{"review", "approve", "publish"} {
		disposition, result, err = controller.RequestAction(ctx, action, "page", record.ID, workflow.Requester{})
		if err != nil {
			t.Fatalf("%s failed: %v", action, err)
		}
		if disposition != workflow.DispositionExecuted {
			t.Fatalf("%s disposition: %v", action, disposition)
		}
	}
	if result.Status != "published" {
		t.Fatalf("expected published, got %s", result.Status)
	}

	updated, err := module.Resources().Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if updated.Status != "published" {
		t.Fatalf("store should reflect the published status, got %s", updated.Status)
	}

	history, err := module.Resources().History(ctx, record.ID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("expected 4 transitions, got %d", len(history))
	}

	for _, level := range notifier.levels() {
		if level != "success" {
			t.Fatalf("expected only success notifications, got %v", notifier.levels())
		}
	}
}

func TestModuleUnpublishWarnsAndGates(t *testing.T) {
	notifier := &captureNotifier{}
	module, err := workflow.New(testConfig(),
		workflow.WithRoleProvider(adminRoles{}),
		workflow.WithNotifier(notifier),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer module.Close()

	ctx := context.Background()
	record, err := module.Resources().Create(ctx, workflow.CreateResourceRequest{
		Type:  "page",
		Title: "Pricing",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	controller := module.Controller()
	if _, _, err := controller.RequestAction(ctx, "publish", "page", record.ID, workflow.Requester{}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	// An editor sees no restricted controls on published content.
	actions := controller.ResolveActions(ctx, "page", record.ID, "published", workflow.Requester{Role: "editor"})
	if len(actions) != 0 {
		t.Fatalf("editor should see no actions on published content, got %v", actions)
	}

	disposition, result, err := controller.RequestAction(ctx, "unpublish", "page", record.ID, workflow.Requester{})
	if err != nil {
		t.Fatalf("unpublish failed: %v", err)
	}
	if disposition != workflow.DispositionExecuted || result.Status != "draft" {
		t.Fatalf("unexpected unpublish outcome: %v %+v", disposition, result)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("unpublish should carry the navigation warning, got %v", result.Warnings)
	}

	warned := false
	for _, level := range notifier.levels() {
		if level == "warning" {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("expected a warning notification, got %v", notifier.levels())
	}
}

func TestModuleRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Driver = "postgres"
	if _, err := workflow.New(cfg); err == nil {
		t.Fatalf("expected configuration error")
	}
}
