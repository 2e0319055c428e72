package repository

import (
	"context"
	"fmt"

	"github.com/jaekwang-park/todo-items/internal/store"
)

// Mapper converts between an entity and its store document. Fields owned by
// the store (id, timestamps) flow only from document to entity.
type Mapper[T any] interface {
	ToFields(entity T) map[string]string
	FromDocument(doc store.Document) T
}

// Repository is a thin typed wrapper over a store collection.
type Repository[T any] struct {
	coll   store.Collection
	mapper Mapper[T]
}

func New[T any](coll store.Collection, mapper Mapper[T]) *Repository[T] {
	return &Repository[T]{coll: coll, mapper: mapper}
}

func (r *Repository[T]) Save(ctx context.Context, entity T) (T, error) {
	doc, err := r.coll.Insert(ctx, r.mapper.ToFields(entity))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to save: %w", err)
	}
	return r.mapper.FromDocument(doc), nil
}

func (r *Repository[T]) FindOne(ctx context.Context, filter store.Filter) (T, error) {
	doc, err := r.coll.FindOne(ctx, filter)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to find: %w", err)
	}
	return r.mapper.FromDocument(doc), nil
}

func (r *Repository[T]) GetAll(ctx context.Context, filter store.Filter) ([]T, error) {
	docs, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get all: %w", err)
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		out = append(out, r.mapper.FromDocument(d))
	}
	return out, nil
}

func (r *Repository[T]) Update(ctx context.Context, filter store.Filter, update map[string]string) (T, error) {
	doc, err := r.coll.Update(ctx, filter, update)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to update: %w", err)
	}
	return r.mapper.FromDocument(doc), nil
}

func (r *Repository[T]) DeleteMany(ctx context.Context, filter store.Filter) (int64, error) {
	n, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete: %w", err)
	}
	return n, nil
}
