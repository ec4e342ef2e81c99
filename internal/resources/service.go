package resources

import (
	"context"
	"fmt"
	"time"

	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/contentforge/go-workflow/internal/domain"
	"github.com/contentforge/go-workflow/internal/identity"
	"github.com/contentforge/go-workflow/internal/logging"
	"github.com/contentforge/go-workflow/internal/workflow"
	"github.com/contentforge/go-workflow/pkg/interfaces"
)

// Service exposes resource management use-cases and implements the workflow
// API and refresh contracts. It is the authoritative side of the transition
// protocol: every call re-validates the edge, the role, and the payload
// regardless of what the client displayed.
type Service interface {
	interfaces.WorkflowAPI
	interfaces.ResourceFetcher

	Create(ctx context.Context, req CreateResourceRequest) (*Resource, error)
	Get(ctx context.Context, id uuid.UUID) (*Resource, error)
	List(ctx context.Context, resourceType string) ([]*Resource, error)
	History(ctx context.Context, resourceID uuid.UUID) ([]*ResourceTransition, error)
}

// CreateResourceRequest captures the information required to register a
// resource with the workflow.
type CreateResourceRequest struct {
	Type    string
	Title   string
	Slug    string
	Status  string
	OwnerID uuid.UUID
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithGraph overrides the status graph. Defaults to the standard content
// workflow graph.
func WithGraph(graph *workflow.Graph) ServiceOption {
	return func(s *service) {
		if graph != nil {
			s.graph = graph
		}
	}
}

// WithRoleProvider wires the permission collaborator used to enforce
// restricted actions server-side.
func WithRoleProvider(roles interfaces.RoleProvider) ServiceOption {
	return func(s *service) {
		s.roles = roles
	}
}

// WithLogger injects the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFeedbackLimits overrides the payload bounds enforced on transitions.
func WithFeedbackLimits(limits workflow.FeedbackLimits) ServiceOption {
	return func(s *service) {
		s.limits = limits
	}
}

type service struct {
	repo   Repository
	graph  *workflow.Graph
	roles  interfaces.RoleProvider
	logger interfaces.Logger
	limits workflow.FeedbackLimits
	now    func() time.Time
}

// NewService constructs the resource service over the supplied repository.
func NewService(repo Repository, opts ...ServiceOption) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("resources: repository required")
	}
	svc := &service{
		repo:   repo,
		graph:  workflow.DefaultGraph(),
		logger: logging.NoOp(),
		limits: workflow.DefaultFeedbackLimits(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

func (s *service) Create(ctx context.Context, req CreateResourceRequest) (*Resource, error) {
	resourceType := string(domain.NormalizeResourceType(req.Type))
	if resourceType == "" {
		return nil, ErrResourceTypeRequired
	}

	source := req.Slug
	if source == "" {
		source = req.Title
	}
	normalized, err := slug.Normalize(source)
	if err != nil || normalized == "" {
		return nil, ErrSlugRequired
	}

	if _, err := s.repo.GetBySlug(ctx, resourceType, normalized); err == nil {
		return nil, ErrSlugExists
	}

	now := s.now()
	record := &Resource{
		ID:        identity.ResourceUUID(resourceType, normalized),
		Type:      resourceType,
		Slug:      normalized,
		Title:     req.Title,
		Status:    string(domain.NormalizeStatus(req.Status)),
		OwnerID:   req.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.repo.Create(ctx, record)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Resource, error) {
	if id == uuid.Nil {
		return nil, ErrResourceIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, resourceType string) ([]*Resource, error) {
	return s.repo.List(ctx, string(domain.NormalizeResourceType(resourceType)))
}

func (s *service) History(ctx context.Context, resourceID uuid.UUID) ([]*ResourceTransition, error) {
	if resourceID == uuid.Nil {
		return nil, ErrResourceIDRequired
	}
	return s.repo.ListTransitions(ctx, resourceID)
}

// ListAvailableTransitions reports the statuses the resource can legally
// move to from its current status.
func (s *service) ListAvailableTransitions(ctx context.Context, resourceType string, resourceID uuid.UUID) (*interfaces.TransitionOptions, error) {
	if resourceID == uuid.Nil {
		return nil, ErrResourceIDRequired
	}
	record, err := s.repo.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	current := domain.NormalizeStatus(record.Status)
	targets := s.graph.TargetsFrom(current)
	options := &interfaces.TransitionOptions{
		CurrentStatus:    interfaces.WorkflowStatus(current),
		AvailableTargets: make([]interfaces.WorkflowStatus, 0, len(targets)),
	}
	for _, target := range targets {
		options.AvailableTargets = append(options.AvailableTargets, interfaces.WorkflowStatus(target))
	}
	return options, nil
}

// ExecuteTransition applies one workflow edge. Business refusals come back
// as unsuccessful outcomes with a user-facing message; only infrastructure
// failures surface as errors.
func (s *service) ExecuteTransition(ctx context.Context, req interfaces.ExecuteTransitionRequest) (*interfaces.TransitionOutcome, error) {
	if req.ResourceID == uuid.Nil {
		return nil, ErrResourceIDRequired
	}

	action := domain.NormalizeAction(req.Action)
	if !action.Known() || !action.Executable() {
		return reject(fmt.Sprintf("action %q is not available", req.Action)), nil
	}

	record, err := s.repo.GetByID(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}

	current := domain.NormalizeStatus(record.Status)
	transition, ok := s.graph.TransitionFor(current, action)
	if !ok {
		return reject(fmt.Sprintf("cannot %s while %s", action, current)), nil
	}

	if action.Restricted() && s.roles != nil {
		role, err := s.roles.RequesterRole(ctx)
		if err != nil {
			return nil, fmt.Errorf("resources: role lookup failed: %w", err)
		}
		if !s.roles.IsElevatedRole(role) {
			return reject(fmt.Sprintf("you do not have permission to %s", action)), nil
		}
	}

	payload := domain.FeedbackPayload{
		Feedback:      req.Payload.Feedback,
		ChangeSummary: req.Payload.ChangeSummary,
	}
	if err := workflow.ValidatePayload(action, payload, s.limits); err != nil {
		return reject(err.Error()), nil
	}

	now := s.now()
	record.Status = string(transition.To)
	record.UpdatedAt = now
	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.ListTransitions(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	entry := &ResourceTransition{
		ID:         identity.TransitionUUID(record.ID, len(history)+1),
		ResourceID: record.ID,
		Action:     string(action),
		FromStatus: string(transition.From),
		ToStatus:   string(transition.To),
		ActorID:    req.ActorID,
		CreatedAt:  now,
	}
	if payload.Feedback != "" {
		feedback := payload.Feedback
		entry.Feedback = &feedback
	}
	if payload.ChangeSummary != "" {
		summary := payload.ChangeSummary
		entry.ChangeSummary = &summary
	}
	if _, err := s.repo.CreateTransition(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("resources.transition.applied",
		"resource_id", record.ID.String(),
		"action", string(action),
		"from", string(transition.From),
		"to", string(transition.To),
	)

	outcome := &interfaces.TransitionOutcome{
		Success: true,
		Message: transitionMessage(action, updated),
		Status:  interfaces.WorkflowStatus(transition.To),
	}
	if action == domain.ActionUnpublish {
		outcome.Warnings = append(outcome.Warnings,
			fmt.Sprintf("%q may still be linked from navigation and is no longer published; update navigation", updated.Title))
	}
	return outcome, nil
}

// FetchResource returns the read model used by post-transition refreshes.
func (s *service) FetchResource(ctx context.Context, resourceType string, resourceID uuid.UUID) (*interfaces.ResourceSnapshot, error) {
	record, err := s.Get(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	return &interfaces.ResourceSnapshot{
		ID:        record.ID,
		Type:      record.Type,
		Slug:      record.Slug,
		Status:    interfaces.WorkflowStatus(domain.NormalizeStatus(record.Status)),
		OwnerID:   record.OwnerID,
		UpdatedAt: record.UpdatedAt,
	}, nil
}

func reject(message string) *interfaces.TransitionOutcome {
	return &interfaces.TransitionOutcome{Success: false, Message: message}
}

func transitionMessage(action domain.Action, record *Resource) string {
	switch action {
	case domain.ActionSubmit:
		return fmt.Sprintf("%q submitted for review", record.Title)
	case domain.ActionReview:
		return fmt.Sprintf("%q marked as reviewed", record.Title)
	case domain.ActionRequestChanges:
		return fmt.Sprintf("changes requested on %q", record.Title)
	case domain.ActionApprove:
		return fmt.Sprintf("%q approved", record.Title)
	case domain.ActionReject:
		return fmt.Sprintf("%q rejected", record.Title)
	case domain.ActionPublish:
		return fmt.Sprintf("%q published", record.Title)
	case domain.ActionUnpublish:
		return fmt.Sprintf("%q unpublished", record.Title)
	case domain.ActionArchive:
		return fmt.Sprintf("%q archived", record.Title)
	case domain.ActionRestore:
		return fmt.Sprintf("%q restored to draft", record.Title)
	default:
		return fmt.Sprintf("%q updated", record.Title)
	}
}
