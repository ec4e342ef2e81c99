package workflow

import (
	"context"

	"github.com/contentforge/go-workflow/internal/domain"
	"github.com/contentforge/go-workflow/internal/logging"
	"github.com/contentforge/go-workflow/pkg/interfaces"
	"github.com/google/uuid"
)

// Resolver reconciles the authoritative transition list reported by the
// workflow API against the status graph, yielding the de-duplicated, ordered
// list of actions available right now.
type Resolver struct {
	api    interfaces.WorkflowAPI
	graph  *Graph
	logger interfaces.Logger
}

// ResolverOption configures the resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger injects the logger used for degraded resolutions.
func WithResolverLogger(logger interfaces.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithResolverGraph overrides the status graph. Defaults to DefaultGraph.
func WithResolverGraph(graph *Graph) ResolverOption {
	return func(r *Resolver) {
		if graph != nil {
			r.graph = graph
		}
	}
}

// NewResolver constructs a resolver backed by the authoritative workflow API.
func NewResolver(api interfaces.WorkflowAPI, opts ...ResolverOption) (*Resolver, error) {
	if api == nil {
		return nil, ErrWorkflowAPIRequired
	}
	resolver := &Resolver{
		api:    api,
		graph:  DefaultGraph(),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(resolver)
	}
	return resolver, nil
}

// Resolve computes the actions currently available for the resource. Unsaved
// resources (nil id) resolve to an empty list without calling the API. Any
// failure contacting the API degrades to an empty list and is logged; the
// workflow controls hide rather than crash the page.
func (r *Resolver) Resolve(ctx context.Context, resourceType domain.ResourceType, resourceID uuid.UUID, currentStatus domain.Status) []domain.Action {
	if resourceID == uuid.Nil {
		return nil
	}

	options, err := r.api.ListAvailableTransitions(ctx, string(resourceType), resourceID)
	if err != nil {
		r.logger.Error("workflow.resolve.failed",
			"resource_type", string(resourceType),
			"resource_id", resourceID.String(),
			"error", err,
		)
		return nil
	}
	if options == nil {
		return nil
	}

	current := domain.NormalizeStatus(string(currentStatus))
	if reported := domain.NormalizeStatus(string(options.CurrentStatus)); options.CurrentStatus != "" {
		current = reported
	}

	seen := make(map[domain.Action]struct{}, len(options.AvailableTargets))
	actions := make([]domain.Action, 0, len(options.AvailableTargets))
	for _, target := range options.AvailableTargets {
		action, ok := r.graph.ActionFor(current, domain.NormalizeStatus(string(target)))
		if !ok {
			continue
		}
		if _, dup := seen[action]; dup {
			continue
		}
		seen[action] = struct{}{}
		actions = append(actions, action)
	}
	return actions
}
