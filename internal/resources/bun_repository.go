package resources

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository persists resources through bun.
type BunRepository struct {
	db          *bun.DB
	repo        repository.Repository[*Resource]
	transitions repository.Repository[*ResourceTransition]
}

// NewBunRepository constructs a Repository backed by bun.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a Repository backed by bun with
// optional read caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	return &BunRepository{
		db:          db,
		repo:        wrapWithCache(NewResourceRepository(db), cacheService, keySerializer),
		transitions: wrapWithCache(NewResourceTransitionRepository(db), cacheService, keySerializer),
	}
}

func (r *BunRepository) Create(ctx context.Context, record *Resource) (*Resource, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "resource", record.Slug)
	}
	return created, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Resource, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "resource", id.String())
	}
	return result, nil
}

func (r *BunRepository) GetBySlug(ctx context.Context, resourceType, slug string) (*Resource, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.resource_type = ?", resourceType).
				Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "resource", slug)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "resource", Key: slug}
	}
	return records[0], nil
}

func (r *BunRepository) List(ctx context.Context, resourceType string) ([]*Resource, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		if resourceType == "" {
			return q
		}
		return q.Where("?TableAlias.resource_type = ?", resourceType)
	}))
	if err != nil {
		return nil, mapRepositoryError(err, "resource", resourceType)
	}
	return records, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Resource) (*Resource, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"title",
			"status",
			"updated_at",
			"deleted_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "resource", record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) CreateTransition(ctx context.Context, record *ResourceTransition) (*ResourceTransition, error) {
	created, err := r.transitions.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "resource transition", record.ResourceID.String())
	}
	return created, nil
}

func (r *BunRepository) ListTransitions(ctx context.Context, resourceID uuid.UUID) ([]*ResourceTransition, error) {
	records, _, err := r.transitions.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.resource_id = ?", resourceID).
			Order("created_at ASC")
	}))
	if err != nil {
		return nil, mapRepositoryError(err, "resource transition", resourceID.String())
	}
	return records, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
