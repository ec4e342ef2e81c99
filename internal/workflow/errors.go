package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrWorkflowAPIRequired indicates a component was constructed without
	// the authoritative workflow collaborator.
	ErrWorkflowAPIRequired = errors.New("workflow: workflow API required")
	// ErrActionUnknown indicates the requested action is not in the closed set.
	ErrActionUnknown = errors.New("workflow: unknown action")
	// ErrActionNotExecutable indicates the action has no workflow API endpoint.
	ErrActionNotExecutable = errors.New("workflow: action not executable")
	// ErrResourceIDRequired indicates the resource has not been persisted yet.
	ErrResourceIDRequired = errors.New("workflow: resource id required")
	// ErrExecutionInFlight indicates a transition for the same resource is
	// already running. Callers treat this as busy, not as a failure.
	ErrExecutionInFlight = errors.New("workflow: transition already in flight")
	// ErrExecutorClosed indicates the executor was shut down.
	ErrExecutorClosed = errors.New("workflow: executor closed")
	// ErrCollectorClosed indicates feedback was submitted without opening the
	// collector first.
	ErrCollectorClosed = errors.New("workflow: feedback collector not open")
	// ErrCollectorOpen indicates the collector is already gathering feedback
	// for another action.
	ErrCollectorOpen = errors.New("workflow: feedback collector already open")
	// ErrFeedbackNotRequired indicates the collector was opened for an action
	// that takes no supplementary text.
	ErrFeedbackNotRequired = errors.New("workflow: action does not collect feedback")
)

// RejectionError carries the server's user-facing message when a transition
// is refused: stale status, insufficient permission, or a concurrent change.
type RejectionError struct {
	Action  string
	Message string
}

func (e *RejectionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("workflow: transition %q rejected", e.Action)
	}
	return fmt.Sprintf("workflow: transition %q rejected: %s", e.Action, e.Message)
}

// IsRejection reports whether the error is a server-side transition refusal,
// as opposed to a transport failure.
func IsRejection(err error) bool {
	var rejection *RejectionError
	return errors.As(err, &rejection)
}
