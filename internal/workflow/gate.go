package workflow

import (
	"github.com/contentforge/go-workflow/internal/domain"
	"github.com/contentforge/go-workflow/pkg/interfaces"
)

// Gate is the client-side permission filter applied after the server has
// already returned the authoritative action set. The server independently
// validates role and ownership on every transition call; this filter only
// avoids presenting controls a non-privileged user's transition would have
// been rejected for.
type Gate struct {
	elevated   func(interfaces.Role) bool
	restricted map[domain.ResourceType][]domain.Action
	fallback   []domain.Action
}

// GateOption configures the gate.
type GateOption func(*Gate)

// WithElevatedRoles declares which roles bypass the restricted-action filter.
func WithElevatedRoles(roles ...interfaces.Role) GateOption {
	set := make(map[interfaces.Role]struct{}, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return func(g *Gate) {
		g.elevated = func(role interfaces.Role) bool {
			_, ok := set[role]
			return ok
		}
	}
}

// WithElevationCheck delegates the elevation decision to the host's role
// collaborator.
func WithElevationCheck(check func(interfaces.Role) bool) GateOption {
	return func(g *Gate) {
		if check != nil {
			g.elevated = check
		}
	}
}

// WithRestrictedActions overrides the restricted set for a resource type.
// The default set applies to every type without an override.
func WithRestrictedActions(resourceType domain.ResourceType, actions ...domain.Action) GateOption {
	return func(g *Gate) {
		g.restricted[resourceType] = append([]domain.Action(nil), actions...)
	}
}

// WithDefaultRestrictedActions replaces the uniform restricted set.
func WithDefaultRestrictedActions(actions ...domain.Action) GateOption {
	return func(g *Gate) {
		g.fallback = append([]domain.Action(nil), actions...)
	}
}

// NewGate constructs a gate with the standard restricted set of
// archive and unpublish.
func NewGate(opts ...GateOption) *Gate {
	gate := &Gate{
		elevated: func(role interfaces.Role) bool {
			return role == "admin" || role == "superadmin"
		},
		restricted: make(map[domain.ResourceType][]domain.Action),
		fallback:   []domain.Action{domain.ActionArchive, domain.ActionUnpublish},
	}
	for _, opt := range opts {
		opt(gate)
	}
	return gate
}

// Apply filters the resolved actions for the requester. Elevated roles pass
// through unfiltered; everyone else loses the restricted actions. The filter
// is pure and idempotent.
func (g *Gate) Apply(actions []domain.Action, requester domain.Requester, resourceType domain.ResourceType) []domain.Action {
	if g.elevated(interfaces.Role(requester.Role)) {
		return append([]domain.Action(nil), actions...)
	}

	restricted := g.restrictedFor(resourceType)
	result := make([]domain.Action, 0, len(actions))
	for _, action := range actions {
		if _, blocked := restricted[action]; blocked {
			continue
		}
		result = append(result, action)
	}
	return result
}

func (g *Gate) restrictedFor(resourceType domain.ResourceType) map[domain.Action]struct{} {
	source := g.fallback
	if override, ok := g.restricted[resourceType]; ok {
		source = override
	}
	set := make(map[domain.Action]struct{}, len(source))
	for _, action := range source {
		set[action] = struct{}{}
	}
	return set
}
