package resources

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory resource store for scaffolding and tests.
type MemoryRepository struct {
	mu          sync.RWMutex
	records     map[uuid.UUID]*Resource
	slugIndex   map[string]uuid.UUID
	transitions map[uuid.UUID][]*ResourceTransition
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:     make(map[uuid.UUID]*Resource),
		slugIndex:   make(map[string]uuid.UUID),
		transitions: make(map[uuid.UUID][]*ResourceTransition),
	}
}

// Create inserts the supplied resource.
func (m *MemoryRepository) Create(_ context.Context, record *Resource) (*Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := slugKey(record.Type, record.Slug)
	if _, exists := m.slugIndex[key]; exists {
		return nil, ErrSlugExists
	}
	copied := cloneResource(record)
	m.records[copied.ID] = copied
	m.slugIndex[key] = copied.ID
	return cloneResource(copied), nil
}

// GetByID retrieves a resource by identifier.
func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Resource: "resource", Key: id.String()}
	}
	return cloneResource(record), nil
}

// GetBySlug retrieves a resource by type and slug.
func (m *MemoryRepository) GetBySlug(_ context.Context, resourceType, slug string) (*Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.slugIndex[slugKey(resourceType, slug)]
	if !ok {
		return nil, &NotFoundError{Resource: "resource", Key: slug}
	}
	return cloneResource(m.records[id]), nil
}

// List returns resources of the supplied type, or every resource when the
// type is empty. Results are ordered by slug for deterministic output.
func (m *MemoryRepository) List(_ context.Context, resourceType string) ([]*Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*Resource, 0, len(m.records))
	for _, record := range m.records {
		if resourceType != "" && record.Type != resourceType {
			continue
		}
		result = append(result, cloneResource(record))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Slug < result[j].Slug
	})
	return result, nil
}

// Update replaces the stored resource.
func (m *MemoryRepository) Update(_ context.Context, record *Resource) (*Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.records[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "resource", Key: record.ID.String()}
	}
	delete(m.slugIndex, slugKey(existing.Type, existing.Slug))
	copied := cloneResource(record)
	m.records[copied.ID] = copied
	m.slugIndex[slugKey(copied.Type, copied.Slug)] = copied.ID
	return cloneResource(copied), nil
}

// CreateTransition appends a transition history record.
func (m *MemoryRepository) CreateTransition(_ context.Context, record *ResourceTransition) (*ResourceTransition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneTransition(record)
	m.transitions[copied.ResourceID] = append(m.transitions[copied.ResourceID], copied)
	return cloneTransition(copied), nil
}

// ListTransitions returns the transition history for a resource in
// chronological order.
func (m *MemoryRepository) ListTransitions(_ context.Context, resourceID uuid.UUID) ([]*ResourceTransition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records := m.transitions[resourceID]
	result := make([]*ResourceTransition, 0, len(records))
	for _, record := range records {
		result = append(result, cloneTransition(record))
	}
	return result, nil
}

func slugKey(resourceType, slug string) string {
	return strings.ToLower(strings.TrimSpace(resourceType)) + "::" + strings.ToLower(strings.TrimSpace(slug))
}

func cloneResource(record *Resource) *Resource {
	if record == nil {
		return nil
	}
	copied := *record
	copied.Transitions = nil
	if record.DeletedAt != nil {
		deleted := *record.DeletedAt
		copied.DeletedAt = &deleted
	}
	return &copied
}

func cloneTransition(record *ResourceTransition) *ResourceTransition {
	if record == nil {
		return nil
	}
	copied := *record
	if record.Feedback != nil {
		feedback := *record.Feedback
		copied.Feedback = &feedback
	}
	if record.ChangeSummary != nil {
		summary := *record.ChangeSummary
		copied.ChangeSummary = &summary
	}
	return &copied
}
