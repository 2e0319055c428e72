package repository

import (
	"context"

	"github.com/jaekwang-park/todo-items/internal/model"
	"github.com/jaekwang-park/todo-items/internal/store"
)

// FieldTitle is the persisted name of TodoItem.Title.
const FieldTitle = "title"

type TodoRepository interface {
	Save(ctx context.Context, item model.TodoItem) (model.TodoItem, error)
	FindOne(ctx context.Context, filter store.Filter) (model.TodoItem, error)
	GetAll(ctx context.Context, filter store.Filter) ([]model.TodoItem, error)
	Update(ctx context.Context, filter store.Filter, update map[string]string) (model.TodoItem, error)
	DeleteMany(ctx context.Context, filter store.Filter) (int64, error)
}

type todoMapper struct{}

func (todoMapper) ToFields(t model.TodoItem) map[string]string {
	return map[string]string{FieldTitle: t.Title}
}

func (todoMapper) FromDocument(d store.Document) model.TodoItem {
	return model.TodoItem{
		ID:        d.ID,
		Title:     d.Fields[FieldTitle],
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func NewTodoRepository(coll store.Collection) *Repository[model.TodoItem] {
	return New[model.TodoItem](coll, todoMapper{})
}

// ensure compile-time interface compliance
var _ TodoRepository = (*Repository[model.TodoItem])(nil)
