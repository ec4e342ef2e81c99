package workflow

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/contentforge/go-workflow/internal/domain"
	"github.com/contentforge/go-workflow/internal/logging"
	"github.com/contentforge/go-workflow/pkg/interfaces"
)

const (
	defaultRefreshDelay = 2 * time.Second

	transitionFailedCode   = "WORKFLOW_TRANSITION_FAILED"
	transitionRejectedCode = "WORKFLOW_TRANSITION_REJECTED"
)

// ExecuteRequest captures a single transition invocation.
type ExecuteRequest struct {
	ResourceType domain.ResourceType
	ResourceID   uuid.UUID
	Action       domain.Action
	Payload      domain.FeedbackPayload
	Requester    domain.Requester
}

// ExecuteResult conveys a successful transition outcome.
type ExecuteResult struct {
	Action   domain.Action
	Status   domain.Status
	Message  string
	Warnings []string
	Data     map[string]any
}

// RefreshFunc re-reads a resource's authoritative state. Invoked once
// immediately after a successful transition and once more after a short
// fixed delay to absorb eventual-consistency lag in the backing store.
type RefreshFunc func(ctx context.Context, resourceType domain.ResourceType, resourceID uuid.UUID)

// Executor performs exactly one workflow transition per invocation and
// drives the post-transition refresh cycle. While a request for a resource
// is in flight, a second one for the same resource is refused as busy, not
// queued.
type Executor struct {
	api          interfaces.WorkflowAPI
	logger       interfaces.Logger
	notifier     interfaces.Notifier
	refresh      RefreshFunc
	refreshDelay time.Duration
	limits       FeedbackLimits

	mu       sync.Mutex
	inflight map[inflightKey]struct{}
	timers   map[*time.Timer]struct{}
	closed   bool
}

type inflightKey struct {
	resourceType domain.ResourceType
	resourceID   uuid.UUID
}

// ExecutorOption configures the executor.
type ExecutorOption func(*Executor)

// WithExecutorLogger injects the logger used for execution telemetry.
func WithExecutorLogger(logger interfaces.Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithNotifier wires the sink for success and warning notifications.
func WithNotifier(notifier interfaces.Notifier) ExecutorOption {
	return func(e *Executor) {
		e.notifier = notifier
	}
}

// WithRefreshFunc wires the post-transition refresh callback.
func WithRefreshFunc(refresh RefreshFunc) ExecutorOption {
	return func(e *Executor) {
		e.refresh = refresh
	}
}

// WithRefreshDelay overrides the delayed-refresh interval.
func WithRefreshDelay(delay time.Duration) ExecutorOption {
	return func(e *Executor) {
		if delay > 0 {
			e.refreshDelay = delay
		}
	}
}

// WithExecutorLimits overrides the feedback length bounds re-checked before
// dispatch.
func WithExecutorLimits(limits FeedbackLimits) ExecutorOption {
	return func(e *Executor) {
		e.limits = limits
	}
}

// NewExecutor constructs an executor backed by the workflow API.
func NewExecutor(api interfaces.WorkflowAPI, opts ...ExecutorOption) (*Executor, error) {
	if api == nil {
		return nil, ErrWorkflowAPIRequired
	}
	executor := &Executor{
		api:          api,
		logger:       logging.NoOp(),
		refreshDelay: defaultRefreshDelay,
		limits:       DefaultFeedbackLimits(),
		inflight:     make(map[inflightKey]struct{}),
		timers:       make(map[*time.Timer]struct{}),
	}
	for _, opt := range opts {
		opt(executor)
	}
	return executor, nil
}

// Execute dispatches the transition to the workflow API endpoint named after
// the action. On success it notifies and schedules the two-phase refresh; on
// rejection or transport failure the in-flight guard is released so the user
// may retry, and no local state is mutated.
func (e *Executor) Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error) {
	if req.ResourceID == uuid.Nil {
		return nil, ErrResourceIDRequired
	}
	if !req.Action.Known() {
		return nil, ErrActionUnknown
	}
	if !req.Action.Executable() {
		return nil, ErrActionNotExecutable
	}
	if err := ValidatePayload(req.Action, req.Payload, e.limits); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "transition payload invalid").
			WithTextCode(transitionFailedCode)
	}

	key := inflightKey{resourceType: req.ResourceType, resourceID: req.ResourceID}
	if err := e.acquire(key); err != nil {
		return nil, err
	}
	defer e.release(key)

	logger := logging.WithFields(e.logger, map[string]any{
		"action":        string(req.Action),
		"resource_type": string(req.ResourceType),
		"resource_id":   req.ResourceID.String(),
	})
	logger.Debug("workflow.execute.start")

	outcome, err := e.api.ExecuteTransition(ctx, interfaces.ExecuteTransitionRequest{
		Action:       string(req.Action),
		ResourceType: string(req.ResourceType),
		ResourceID:   req.ResourceID,
		ActorID:      req.Requester.UserID,
		Payload: interfaces.TransitionPayload{
			Feedback:      req.Payload.Feedback,
			ChangeSummary: req.Payload.ChangeSummary,
		},
	})
	if err != nil {
		logger.Error("workflow.execute.failed", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryCommand, "workflow transition failed").
			WithTextCode(transitionFailedCode)
	}

	if outcome == nil || !outcome.Success {
		message := ""
		if outcome != nil {
			message = outcome.Message
		}
		logger.Warn("workflow.execute.rejected", "message", message)
		e.notify(ctx, interfaces.WorkflowNotification{Level: "error", Message: message})
		return nil, &RejectionError{Action: string(req.Action), Message: message}
	}

	result := &ExecuteResult{
		Action:   req.Action,
		Status:   domain.NormalizeStatus(string(outcome.Status)),
		Message:  outcome.Message,
		Warnings: append([]string(nil), outcome.Warnings...),
		Data:     outcome.Data,
	}

	e.notify(ctx, interfaces.WorkflowNotification{Level: "success", Message: outcome.Message, Data: outcome.Data})
	for _, warning := range outcome.Warnings {
		e.notify(ctx, interfaces.WorkflowNotification{Level: "warning", Message: warning})
	}

	e.runRefresh(ctx, req.ResourceType, req.ResourceID)
	e.scheduleDelayedRefresh(req.ResourceType, req.ResourceID)

	logger.Info("workflow.execute.success", "status", string(result.Status))
	return result, nil
}

// Close suppresses pending delayed refreshes and refuses further executions.
// An in-flight transition call is not cancelled mid-flight; its result is
// simply discarded by the disposed caller.
func (e *Executor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	for timer := range e.timers {
		timer.Stop()
	}
	e.timers = make(map[*time.Timer]struct{})
}

func (e *Executor) acquire(key inflightKey) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrExecutorClosed
	}
	if _, busy := e.inflight[key]; busy {
		return ErrExecutionInFlight
	}
	e.inflight[key] = struct{}{}
	return nil
}

func (e *Executor) release(key inflightKey) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inflight, key)
}

func (e *Executor) notify(ctx context.Context, notification interfaces.WorkflowNotification) {
	if e.notifier == nil || notification.Message == "" {
		return
	}
	e.notifier.Notify(ctx, notification)
}

func (e *Executor) runRefresh(ctx context.Context, resourceType domain.ResourceType, resourceID uuid.UUID) {
	if e.refresh == nil {
		return
	}
	e.refresh(ctx, resourceType, resourceID)
}

func (e *Executor) scheduleDelayedRefresh(resourceType domain.ResourceType, resourceID uuid.UUID) {
	if e.refresh == nil {
		return
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	var timer *time.Timer
	timer = time.AfterFunc(e.refreshDelay, func() {
		e.mu.Lock()
		closed := e.closed
		delete(e.timers, timer)
		e.mu.Unlock()
		if closed {
			return
		}
		e.refresh(context.Background(), resourceType, resourceID)
	})
	e.timers[timer] = struct{}{}
	e.mu.Unlock()
}
