package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/contentforge/go-workflow/internal/domain"
	"github.com/contentforge/go-workflow/internal/logging"
	"github.com/contentforge/go-workflow/pkg/interfaces"
)

// Disposition reports how a requested action was handled.
type Disposition int

const (
	// DispositionExecuted means the transition ran to completion.
	DispositionExecuted Disposition = iota
	// DispositionAwaitingFeedback means the feedback collector opened and
	// the transition waits on a validated submission.
	DispositionAwaitingFeedback
	// DispositionBusy means a transition for the same resource was already
	// in flight and the request was dropped, not queued.
	DispositionBusy
)

// CompletionFunc observes successful transitions so the caller can refresh
// its own view.
type CompletionFunc func(action domain.Action, result *ExecuteResult)

// Controller composes the resolver, permission gate, feedback collector and
// executor behind the surface the UI consumes: resolve the visible actions,
// request one, and feed the collector when the action needs text.
type Controller struct {
	resolver  *Resolver
	gate      *Gate
	collector *Collector
	executor  *Executor
	roles     interfaces.RoleProvider
	logger    interfaces.Logger

	onComplete CompletionFunc

	mu      sync.Mutex
	pending *ExecuteRequest
}

// ControllerOption configures the controller.
type ControllerOption func(*controllerConfig)

type controllerConfig struct {
	graph        *Graph
	gate         *Gate
	limits       FeedbackLimits
	logger       interfaces.Logger
	notifier     interfaces.Notifier
	refresh      RefreshFunc
	refreshDelay time.Duration
	roles        interfaces.RoleProvider
	onComplete   CompletionFunc
}

// WithGraph overrides the status graph shared by resolver and executor.
func WithGraph(graph *Graph) ControllerOption {
	return func(c *controllerConfig) {
		if graph != nil {
			c.graph = graph
		}
	}
}

// WithGate overrides the permission gate.
func WithGate(gate *Gate) ControllerOption {
	return func(c *controllerConfig) {
		if gate != nil {
			c.gate = gate
		}
	}
}

// WithFeedbackLimits overrides the collector's length bounds.
func WithFeedbackLimits(limits FeedbackLimits) ControllerOption {
	return func(c *controllerConfig) {
		c.limits = limits
	}
}

// WithLogger injects the logger shared by the controller's components.
func WithLogger(logger interfaces.Logger) ControllerOption {
	return func(c *controllerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithControllerNotifier wires the notification sink.
func WithControllerNotifier(notifier interfaces.Notifier) ControllerOption {
	return func(c *controllerConfig) {
		c.notifier = notifier
	}
}

// WithRefresh wires the post-transition refresh callback.
func WithRefresh(refresh RefreshFunc) ControllerOption {
	return func(c *controllerConfig) {
		c.refresh = refresh
	}
}

// WithControllerRefreshDelay overrides the delayed-refresh interval.
func WithControllerRefreshDelay(delay time.Duration) ControllerOption {
	return func(c *controllerConfig) {
		c.refreshDelay = delay
	}
}

// WithRoleProvider wires the permission collaborator used when callers do
// not supply an explicit requester role.
func WithRoleProvider(roles interfaces.RoleProvider) ControllerOption {
	return func(c *controllerConfig) {
		c.roles = roles
	}
}

// WithCompletion registers the callback fired after each successful
// transition.
func WithCompletion(fn CompletionFunc) ControllerOption {
	return func(c *controllerConfig) {
		c.onComplete = fn
	}
}

// NewController assembles the workflow surface over the authoritative API.
func NewController(api interfaces.WorkflowAPI, opts ...ControllerOption) (*Controller, error) {
	if api == nil {
		return nil, ErrWorkflowAPIRequired
	}

	cfg := &controllerConfig{
		graph:  DefaultGraph(),
		limits: DefaultFeedbackLimits(),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	gate := cfg.gate
	if gate == nil {
		gateOpts := []GateOption{}
		if cfg.roles != nil {
			gateOpts = append(gateOpts, WithElevationCheck(cfg.roles.IsElevatedRole))
		}
		gate = NewGate(gateOpts...)
	}

	resolver, err := NewResolver(api,
		WithResolverGraph(cfg.graph),
		WithResolverLogger(cfg.logger),
	)
	if err != nil {
		return nil, err
	}

	executorOpts := []ExecutorOption{
		WithExecutorLogger(cfg.logger),
		WithExecutorLimits(cfg.limits),
	}
	if cfg.notifier != nil {
		executorOpts = append(executorOpts, WithNotifier(cfg.notifier))
	}
	if cfg.refresh != nil {
		executorOpts = append(executorOpts, WithRefreshFunc(cfg.refresh))
	}
	if cfg.refreshDelay > 0 {
		executorOpts = append(executorOpts, WithRefreshDelay(cfg.refreshDelay))
	}
	executor, err := NewExecutor(api, executorOpts...)
	if err != nil {
		return nil, err
	}

	return &Controller{
		resolver:   resolver,
		gate:       gate,
		collector:  NewCollector(cfg.limits),
		executor:   executor,
		roles:      cfg.roles,
		logger:     cfg.logger,
		onComplete: cfg.onComplete,
	}, nil
}

// ResolveActions returns the gated list of actions the requester may see for
// the resource. Resolution failures degrade to an empty list.
func (c *Controller) ResolveActions(ctx context.Context, resourceType domain.ResourceType, resourceID uuid.UUID, currentStatus domain.Status, requester domain.Requester) []domain.Action {
	requester = c.resolveRequester(ctx, requester)
	actions := c.resolver.Resolve(ctx, resourceType, resourceID, currentStatus)
	return c.gate.Apply(actions, requester, resourceType)
}

// RequestAction triggers the named action. Actions that collect text open
// the feedback collector and wait for SubmitFeedback; everything else
// executes immediately. A concurrent invocation for the same resource is
// reported as busy, never as an error.
func (c *Controller) RequestAction(ctx context.Context, action domain.Action, resourceType domain.ResourceType, resourceID uuid.UUID, requester domain.Requester) (Disposition, *ExecuteResult, error) {
	if !action.Known() {
		return DispositionExecuted, nil, ErrActionUnknown
	}

	requester = c.resolveRequester(ctx, requester)
	req := ExecuteRequest{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
		Requester:    requester,
	}

	if action.RequiresFeedback() || action.RequiresChangeSummary() {
		if err := c.collector.Open(action); err != nil {
			return DispositionExecuted, nil, err
		}
		c.mu.Lock()
		c.pending = &req
		c.mu.Unlock()
		return DispositionAwaitingFeedback, nil, nil
	}

	return c.execute(ctx, req)
}

// SetFeedback forwards entered feedback text to the open collector.
func (c *Controller) SetFeedback(text string) {
	c.collector.SetFeedback(text)
}

// SetChangeSummary forwards entered change summary text to the open
// collector.
func (c *Controller) SetChangeSummary(text string) {
	c.collector.SetChangeSummary(text)
}

// SubmitFeedback validates the collected text and, when it passes, executes
// the pending action. Validation failures keep the collector open.
func (c *Controller) SubmitFeedback(ctx context.Context) (Disposition, *ExecuteResult, error) {
	c.mu.Lock()
	pending := c.pending
	c.mu.Unlock()
	if pending == nil {
		return DispositionExecuted, nil, ErrCollectorClosed
	}

	payload, err := c.collector.Submit()
	if err != nil {
		return DispositionAwaitingFeedback, nil, err
	}

	req := *pending
	req.Payload = payload
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()

	return c.execute(ctx, req)
}

// CancelFeedback discards the collector state and the pending action.
func (c *Controller) CancelFeedback() {
	c.collector.Cancel()
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

// Close disposes the controller: pending delayed refreshes are suppressed
// and further executions are refused.
func (c *Controller) Close() {
	c.executor.Close()
	c.CancelFeedback()
}

func (c *Controller) execute(ctx context.Context, req ExecuteRequest) (Disposition, *ExecuteResult, error) {
	result, err := c.executor.Execute(ctx, req)
	if err != nil {
		if errors.Is(err, ErrExecutionInFlight) {
			c.logger.Debug("workflow.request.busy",
				"action", string(req.Action),
				"resource_id", req.ResourceID.String(),
			)
			return DispositionBusy, nil, nil
		}
		return DispositionExecuted, nil, err
	}

	if c.onComplete != nil {
		c.onComplete(req.Action, result)
	}
	return DispositionExecuted, result, nil
}

func (c *Controller) resolveRequester(ctx context.Context, requester domain.Requester) domain.Requester {
	if requester.Role != "" || c.roles == nil {
		return requester
	}
	role, err := c.roles.RequesterRole(ctx)
	if err != nil {
		c.logger.Warn("workflow.requester.role_lookup_failed", "error", err)
		return requester
	}
	requester.Role = string(role)
	return requester
}
