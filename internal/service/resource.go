package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/postboard-server/internal/apperrors"
	"github.com/dtroode/postboard-server/internal/logger"
	"github.com/dtroode/postboard-server/internal/model"
)

// Policy decides whether actor may modify item.
type Policy[T model.Owned] func(actor uuid.UUID, item T) error

// OwnerOnly allows modifications by the owner of the item only.
func OwnerOnly[T model.Owned](noun string) Policy[T] {
	return func(actor uuid.UUID, item T) error {
		if actor == uuid.Nil || item.OwnerID() != actor {
			return apperrors.NewErrForbidden(fmt.Sprintf("you can only modify your own %s", noun))
		}
		return nil
	}
}

// Resource implements list/get/create/update/delete over a ResourceStore,
// delegating modification rights to a Policy.
type Resource[T model.Owned, F any] struct {
	store     model.ResourceStore[T, F]
	noun      string
	canModify Policy[T]
	logger    *logger.Logger
	now       func() time.Time
}

func NewResource[T model.Owned, F any](store model.ResourceStore[T, F], noun string, policy Policy[T], logger *logger.Logger) *Resource[T, F] {
	if policy == nil {
		policy = OwnerOnly[T](noun)
	}
	return &Resource[T, F]{
		store:     store,
		noun:      noun,
		canModify: policy,
		logger:    logger,
		now:       time.Now,
	}
}

func (r *Resource[T, F]) List(ctx context.Context, filter F) ([]T, error) {
	items, err := r.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.noun, err)
	}
	return items, nil
}

func (r *Resource[T, F]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	item, err := r.store.GetByID(ctx, id)
	if err != nil {
		var zero T
		return zero, r.mapError(err, "get")
	}
	return item, nil
}

func (r *Resource[T, F]) Create(ctx context.Context, item T) (T, error) {
	created, err := r.store.Create(ctx, item)
	if err != nil {
		var zero T
		return zero, r.mapError(err, "create")
	}

	r.logger.Debug("Resource service: created", "resource", r.noun, "owner", created.OwnerID())
	return created, nil
}

// Update loads the item, checks the policy, lets apply mutate a copy and
// stores the result.
func (r *Resource[T, F]) Update(ctx context.Context, actor, id uuid.UUID, apply func(*T) error) (T, error) {
	var zero T

	item, err := r.store.GetByID(ctx, id)
	if err != nil {
		return zero, r.mapError(err, "get")
	}

	if err := r.canModify(actor, item); err != nil {
		r.logger.Info("Resource service: update denied", "resource", r.noun, "id", id, "actor", actor)
		return zero, err
	}

	if err := apply(&item); err != nil {
		return zero, err
	}

	updated, err := r.store.Update(ctx, item)
	if err != nil {
		return zero, r.mapError(err, "update")
	}

	r.logger.Debug("Resource service: updated", "resource", r.noun, "id", id)
	return updated, nil
}

func (r *Resource[T, F]) Delete(ctx context.Context, actor, id uuid.UUID) (T, error) {
	var zero T

	item, err := r.store.GetByID(ctx, id)
	if err != nil {
		return zero, r.mapError(err, "get")
	}

	if err := r.canModify(actor, item); err != nil {
		r.logger.Info("Resource service: delete denied", "resource", r.noun, "id", id, "actor", actor)
		return zero, err
	}

	deleted, err := r.store.Delete(ctx, id)
	if err != nil {
		return zero, r.mapError(err, "delete")
	}

	r.logger.Debug("Resource service: deleted", "resource", r.noun, "id", id)
	return deleted, nil
}

func (r *Resource[T, F]) mapError(err error, op string) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return apperrors.NewErrNotFound(r.noun)
	case errors.Is(err, model.ErrConflict):
		return apperrors.NewErrBadRequest(fmt.Sprintf("%s already exists", r.noun))
	default:
		return fmt.Errorf("failed to %s %s: %w", op, r.noun, err)
	}
}
