package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WorkflowStatus represents a lifecycle stage reported by the workflow API.
type WorkflowStatus string

// Role identifies the tier a requester acts under.
type Role string

// TransitionOptions lists the statuses a resource can legally move to,
// as reported by the authoritative workflow collaborator.
type TransitionOptions struct {
	CurrentStatus    WorkflowStatus
	AvailableTargets []WorkflowStatus
}

// TransitionPayload carries the supplementary text some transitions require.
type TransitionPayload struct {
	Feedback      string
	ChangeSummary string
}

// ExecuteTransitionRequest captures a single transition invocation.
type ExecuteTransitionRequest struct {
	Action       string
	ResourceType string
	ResourceID   uuid.UUID
	ActorID      uuid.UUID
	Payload      TransitionPayload
}

// TransitionOutcome describes the server's verdict on a transition call.
// Success=false carries a user-facing rejection message; infrastructure
// failures travel as errors instead.
type TransitionOutcome struct {
	Success  bool
	Message  string
	Warnings []string
	Status   WorkflowStatus
	Data     map[string]any
}

// WorkflowAPI is the authoritative collaborator for workflow state. The
// client-side resolver and executor never decide transitions on their own;
// they reconcile and relay.
type WorkflowAPI interface {
	ListAvailableTransitions(ctx context.Context, resourceType string, resourceID uuid.UUID) (*TransitionOptions, error)
	ExecuteTransition(ctx context.Context, req ExecuteTransitionRequest) (*TransitionOutcome, error)
}

// ResourceSnapshot is the read model returned by refresh fetches.
type ResourceSnapshot struct {
	ID        uuid.UUID
	Type      string
	Slug      string
	Status    WorkflowStatus
	OwnerID   uuid.UUID
	UpdatedAt time.Time
}

// ResourceFetcher re-reads a resource's authoritative state after a
// transition. Owned by the CRUD collaborators, consumed here for refresh.
type ResourceFetcher interface {
	FetchResource(ctx context.Context, resourceType string, resourceID uuid.UUID) (*ResourceSnapshot, error)
}

// RoleProvider resolves the requester's role and its tier. Implementations
// typically wrap the host application's session or token state.
type RoleProvider interface {
	RequesterRole(ctx context.Context) (Role, error)
	IsElevatedRole(role Role) bool
}

// WorkflowNotification is a user-facing message emitted after a transition.
type WorkflowNotification struct {
	Level   string
	Message string
	Data    map[string]any
}

// Notifier receives transition outcome notifications for display.
type Notifier interface {
	Notify(ctx context.Context, notification WorkflowNotification)
}
