package workflow

import (
	"github.com/contentforge/go-workflow/internal/domain"
)

// Transition declares a legal status-to-status edge labelled with an action.
type Transition struct {
	From   domain.Status
	To     domain.Status
	Action domain.Action
}

// Graph is the compiled, immutable status graph. The edge set is fixed: the
// mapping from a (from, to) pair to an action is a pure function with at most
// one action per edge.
type Graph struct {
	edges  map[edge]domain.Action
	byFrom map[domain.Status][]Transition
}

type edge struct {
	from domain.Status
	to   domain.Status
}

// DefaultGraph returns the content workflow status graph. No other edges are
// legal.
func DefaultGraph() *Graph {
	return compileGraph([]Transition{
		{From: domain.StatusDraft, To: domain.StatusInReview, Action: domain.ActionSubmit},
		{From: domain.StatusDraft, To: domain.StatusPublished, Action: domain.ActionPublish},
		{From: domain.StatusDraft, To: domain.StatusArchived, Action: domain.ActionArchive},
		{From: domain.StatusInReview, To: domain.StatusPendingApproval, Action: domain.ActionReview},
		{From: domain.StatusInReview, To: domain.StatusChangesRequested, Action: domain.ActionRequestChanges},
		{From: domain.StatusInReview, To: domain.StatusDraft, Action: domain.ActionRevert},
		{From: domain.StatusChangesRequested, To: domain.StatusInReview, Action: domain.ActionSubmit},
		{From: domain.StatusChangesRequested, To: domain.StatusDraft, Action: domain.ActionRevert},
		{From: domain.StatusPendingApproval, To: domain.StatusPendingPublish, Action: domain.ActionApprove},
		{From: domain.StatusPendingApproval, To: domain.StatusChangesRequested, Action: domain.ActionReject},
		{From: domain.StatusPendingApproval, To: domain.StatusInReview, Action: domain.ActionRevert},
		{From: domain.StatusPendingPublish, To: domain.StatusPublished, Action: domain.ActionPublish},
		{From: domain.StatusPendingPublish, To: domain.StatusChangesRequested, Action: domain.ActionRequestChanges},
		{From: domain.StatusPublished, To: domain.StatusDraft, Action: domain.ActionUnpublish},
		{From: domain.StatusPublished, To: domain.StatusArchived, Action: domain.ActionArchive},
		{From: domain.StatusArchived, To: domain.StatusDraft, Action: domain.ActionRestore},
	})
}

func compileGraph(transitions []Transition) *Graph {
	graph := &Graph{
		edges:  make(map[edge]domain.Action, len(transitions)),
		byFrom: make(map[domain.Status][]Transition),
	}
	for _, t := range transitions {
		key := edge{from: t.From, to: t.To}
		if _, exists := graph.edges[key]; exists {
			continue
		}
		graph.edges[key] = t.Action
		graph.byFrom[t.From] = append(graph.byFrom[t.From], t)
	}
	return graph
}

// ActionFor maps a (from, to) pair to its action. Pairs outside the table
// report false; unknown edges must never produce a fabricated action.
func (g *Graph) ActionFor(from, to domain.Status) (domain.Action, bool) {
	action, ok := g.edges[edge{from: from, to: to}]
	return action, ok
}

// TransitionFor resolves the edge an action drives from the supplied status.
func (g *Graph) TransitionFor(from domain.Status, action domain.Action) (Transition, bool) {
	for _, t := range g.byFrom[from] {
		if t.Action == action {
			return t, true
		}
	}
	return Transition{}, false
}

// TransitionsFrom returns the edges leaving the supplied status in
// declaration order.
func (g *Graph) TransitionsFrom(from domain.Status) []Transition {
	transitions := g.byFrom[from]
	result := make([]Transition, len(transitions))
	copy(result, transitions)
	return result
}

// TargetsFrom returns the statuses reachable from the supplied status in
// declaration order.
func (g *Graph) TargetsFrom(from domain.Status) []domain.Status {
	transitions := g.byFrom[from]
	targets := make([]domain.Status, 0, len(transitions))
	for _, t := range transitions {
		targets = append(targets, t.To)
	}
	return targets
}
