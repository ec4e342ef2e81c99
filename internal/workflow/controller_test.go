package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/contentforge/go-workflow/internal/domain"
	"github.com/contentforge/go-workflow/pkg/interfaces"
)

type stubRoleProvider struct {
	role     interfaces.Role
	roleErr  error
	elevated map[interfaces.Role]bool
}

func (s *stubRoleProvider) RequesterRole(ctx context.Context) (interfaces.Role, error) {
	return s.role, s.roleErr
}

func (s *stubRoleProvider) IsElevatedRole(role interfaces.Role) bool {
	return s.elevated[role]
}

func TestController_ResolveActionsGatesByRole(t *testing.T) {
	api := &stubAPI{options: &interfaces.TransitionOptions{
		CurrentStatus:    "published",
		AvailableTargets: []interfaces.WorkflowStatus{"draft", "archived"},
	}}
	controller, err := NewController(api)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer controller.Close()

	id := uuid.New()

	got := controller.ResolveActions(context.Background(), domain.ResourceTypePage, id, domain.StatusPublished, domain.Requester{Role: "editor"})
	if len(got) != 0 {
		t.Fatalf("editor on published content should see no actions, got %v", got)
	}

	got = controller.ResolveActions(context.Background(), domain.ResourceTypePage, id, domain.StatusPublished, domain.Requester{Role: "admin"})
	want := []domain.Action{domain.ActionUnpublish, domain.ActionArchive}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i, action := range want {
		if got[i] != action {
			t.Fatalf("action %d: got %s, want %s", i, got[i], action)
		}
	}
}

func TestController_ResolveActionsIncludesRevertOnApprovalQueue(t *testing.T) {
	api := &stubAPI{options: &interfaces.TransitionOptions{
		CurrentStatus: "pending_approval",
		AvailableTargets: []interfaces.WorkflowStatus{
			"pending_publish", "changes_requested", "in_review",
		},
	}}
	controller, err := NewController(api)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer controller.Close()

	got := controller.ResolveActions(context.Background(), domain.ResourceTypePage, uuid.New(), domain.StatusPendingApproval, domain.Requester{Role: "admin"})
	want := []domain.Action{domain.ActionApprove, domain.ActionReject, domain.ActionRevert}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i, action := range want {
		if got[i] != action {
			t.Fatalf("action %d: got %s, want %s", i, got[i], action)
		}
	}
}

func TestController_RequestActionExecutesDirectActions(t *testing.T) {
	api := &stubAPI{outcome: successOutcome("pending_publish", "content approved")}

	var completed []domain.Action
	controller, err := NewController(api,
		WithCompletion(func(action domain.Action, result *ExecuteResult) {
			completed = append(completed, action)
		}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer controller.Close()

	disposition, result, err := controller.RequestAction(context.Background(), domain.ActionApprove, domain.ResourceTypePage, uuid.New(), domain.Requester{Role: "admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if disposition != DispositionExecuted {
		t.Fatalf("expected DispositionExecuted, got %v", disposition)
	}
	if result == nil || result.Status != domain.StatusPendingPublish {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(completed) != 1 || completed[0] != domain.ActionApprove {
		t.Fatalf("completion callback: got %v", completed)
	}
}

func TestController_FeedbackRoundTrip(t *testing.T) {
	api := &stubAPI{outcome: successOutcome("changes_requested", "changes requested")}
	controller, err := NewController(api)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer controller.Close()

	id := uuid.New()
	disposition, _, err := controller.RequestAction(context.Background(), domain.ActionRequestChanges, domain.ResourceTypePage, id, domain.Requester{Role: "admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if disposition != DispositionAwaitingFeedback {
		t.Fatalf("expected DispositionAwaitingFeedback, got %v", disposition)
	}
	if api.executions() != 0 {
		t.Fatalf("no API call may happen before feedback is submitted")
	}

	controller.SetFeedback("short")
	disposition, _, err = controller.SubmitFeedback(context.Background())
	if err == nil {
		t.Fatalf("expected validation failure for short feedback")
	}
	if disposition != DispositionAwaitingFeedback {
		t.Fatalf("validation failure must keep the flow awaiting feedback, got %v", disposition)
	}

	controller.SetFeedback("the third paragraph contradicts the headline")
	disposition, result, err := controller.SubmitFeedback(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if disposition != DispositionExecuted {
		t.Fatalf("expected DispositionExecuted, got %v", disposition)
	}
	if result.Status != domain.StatusChangesRequested {
		t.Fatalf("unexpected status %s", result.Status)
	}
	if api.lastExec.Payload.Feedback != "the third paragraph contradicts the headline" {
		t.Fatalf("feedback did not reach the API: %+v", api.lastExec.Payload)
	}
}

func TestController_CancelFeedbackDropsPendingAction(t *testing.T) {
	api := &stubAPI{outcome: successOutcome("changes_requested", "changes requested")}
	controller, err := NewController(api)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer controller.Close()

	_, _, err = controller.RequestAction(context.Background(), domain.ActionReject, domain.ResourceTypePage, uuid.New(), domain.Requester{Role: "admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	controller.CancelFeedback()

	if _, _, err := controller.SubmitFeedback(context.Background()); !errors.Is(err, ErrCollectorClosed) {
		t.Fatalf("expected ErrCollectorClosed, got %v", err)
	}
	if api.executions() != 0 {
		t.Fatalf("cancelled action must not reach the API")
	}
}

func TestController_ConcurrentRequestReportsBusy(t *testing.T) {
	api := &stubAPI{
		outcome: successOutcome("published", "content published"),
		block:   make(chan struct{}),
	}
	controller, err := NewController(api)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer controller.Close()

	id := uuid.New()
	done := make(chan struct{})
	go func() {
		defer close(done)
		controller.RequestAction(context.Background(), domain.ActionPublish, domain.ResourceTypePage, id, domain.Requester{Role: "admin"})
	}()

	deadline := time.After(time.Second)
	for api.executions() == 0 {
		select {
		case <-deadline:
			t.Fatalf("first request never reached the API")
		case <-time.After(time.Millisecond):
		}
	}

	disposition, result, err := controller.RequestAction(context.Background(), domain.ActionPublish, domain.ResourceTypePage, id, domain.Requester{Role: "admin"})
	if err != nil {
		t.Fatalf("busy must not surface an error, got %v", err)
	}
	if disposition != DispositionBusy {
		t.Fatalf("expected DispositionBusy, got %v", disposition)
	}
	if result != nil {
		t.Fatalf("busy must not carry a result, got %+v", result)
	}

	close(api.block)
	<-done
}

func TestController_RoleProviderFillsMissingRole(t *testing.T) {
	api := &stubAPI{options: &interfaces.TransitionOptions{
		CurrentStatus:    "published",
		AvailableTargets: []interfaces.WorkflowStatus{"draft", "archived"},
	}}
	roles := &stubRoleProvider{
		role:     "reviewer",
		elevated: map[interfaces.Role]bool{"reviewer": true},
	}
	controller, err := NewController(api, WithRoleProvider(roles))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer controller.Close()

	got := controller.ResolveActions(context.Background(), domain.ResourceTypePage, uuid.New(), domain.StatusPublished, domain.Requester{})
	if len(got) != 2 {
		t.Fatalf("elevated provider role should pass the gate, got %v", got)
	}
}

func TestController_RejectionSurfacesToCaller(t *testing.T) {
	api := &stubAPI{outcome: &interfaces.TransitionOutcome{
		Success: false,
		Message: "cannot archive while in_review",
	}}
	controller, err := NewController(api)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer controller.Close()

	_, _, err = controller.RequestAction(context.Background(), domain.ActionPublish, domain.ResourceTypePage, uuid.New(), domain.Requester{Role: "admin"})
	var rejection *RejectionError
	if !errors.As(err, &rejection) {
		t.Fatalf("expected RejectionError, got %v", err)
	}

	// The guard is released; the same action may be retried.
	api.outcome = successOutcome("published", "content published")
	disposition, _, err := controller.RequestAction(context.Background(), domain.ActionPublish, domain.ResourceTypePage, uuid.New(), domain.Requester{Role: "admin"})
	if err != nil || disposition != DispositionExecuted {
		t.Fatalf("retry failed: disposition %v, err %v", disposition, err)
	}
}
