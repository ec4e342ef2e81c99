package resources

import (
	"context"
	"errors"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	// ErrResourceTypeRequired indicates a resource lacks its type.
	ErrResourceTypeRequired = errors.New("resources: resource type is required")
	// ErrSlugRequired indicates a resource lacks a slug.
	ErrSlugRequired = errors.New("resources: slug is required")
	// ErrSlugExists indicates the slug is already taken for the type.
	ErrSlugExists = errors.New("resources: slug already exists")
	// ErrResourceIDRequired indicates a lookup without an identifier.
	ErrResourceIDRequired = errors.New("resources: resource id required")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// Repository abstracts storage for workflow resources and their transition
// history.
type Repository interface {
	Create(ctx context.Context, record *Resource) (*Resource, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Resource, error)
	GetBySlug(ctx context.Context, resourceType, slug string) (*Resource, error)
	List(ctx context.Context, resourceType string) ([]*Resource, error)
	Update(ctx context.Context, record *Resource) (*Resource, error)
	CreateTransition(ctx context.Context, record *ResourceTransition) (*ResourceTransition, error)
	ListTransitions(ctx context.Context, resourceID uuid.UUID) ([]*ResourceTransition, error)
}

// NewResourceRepository builds the go-repository-bun handlers for resources.
func NewResourceRepository(db *bun.DB) repository.Repository[*Resource] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Resource]{
		NewRecord: func() *Resource { return &Resource{} },
		GetID: func(r *Resource) uuid.UUID {
			return r.ID
		},
		SetID: func(r *Resource, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(r *Resource) string {
			return r.Slug
		},
	})
}

// NewResourceTransitionRepository builds the handlers for transition records.
func NewResourceTransitionRepository(db *bun.DB) repository.Repository[*ResourceTransition] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ResourceTransition]{
		NewRecord: func() *ResourceTransition { return &ResourceTransition{} },
		GetID: func(rt *ResourceTransition) uuid.UUID {
			return rt.ID
		},
		SetID: func(rt *ResourceTransition, id uuid.UUID) {
			rt.ID = id
		},
		GetIdentifier: func() string {
			return ""
		},
		GetIdentifierValue: func(*ResourceTransition) string {
			return ""
		},
	})
}
