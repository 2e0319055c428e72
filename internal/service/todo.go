package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jaekwang-park/todo-items/internal/model"
	"github.com/jaekwang-park/todo-items/internal/repository"
	"github.com/jaekwang-park/todo-items/internal/store"
	"github.com/jaekwang-park/todo-items/internal/validator"
)

// TodoService performs exactly one repository call per operation. Input has
// already passed the route's validator chain.
type TodoService struct {
	repo repository.TodoRepository
}

func NewTodoService(repo repository.TodoRepository) *TodoService {
	return &TodoService{repo: repo}
}

// Matches reports whether any item matches filter. Validators use it for
// duplicate and existence checks.
func (s *TodoService) Matches(ctx context.Context, filter store.Filter) (bool, error) {
	return validator.Found(s.repo.FindOne)(ctx, filter)
}

func (s *TodoService) Create(ctx context.Context, title string) (model.TodoItem, error) {
	item, err := s.repo.Save(ctx, model.TodoItem{Title: title})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return model.TodoItem{}, duplicateTitle()
		}
		return model.TodoItem{}, fmt.Errorf("failed to create todo item: %w", err)
	}
	return item, nil
}

func (s *TodoService) GetByID(ctx context.Context, id string) (model.TodoItem, error) {
	item, err := s.repo.FindOne(ctx, store.ByID(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.TodoItem{}, ErrNotFound
		}
		return model.TodoItem{}, fmt.Errorf("failed to get todo item: %w", err)
	}
	return item, nil
}

func (s *TodoService) Update(ctx context.Context, id, title string) (model.TodoItem, error) {
	item, err := s.repo.Update(ctx, store.ByID(id), map[string]string{repository.FieldTitle: title})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return model.TodoItem{}, ErrNotFound
		case errors.Is(err, store.ErrDuplicate):
			return model.TodoItem{}, duplicateTitle()
		}
		return model.TodoItem{}, fmt.Errorf("failed to update todo item: %w", err)
	}
	return item, nil
}

// Delete removes every item with id. Zero matches is not an error; the
// delete validator has already asserted existence.
func (s *TodoService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.DeleteMany(ctx, store.ByID(id)); err != nil {
		return fmt.Errorf("failed to delete todo item: %w", err)
	}
	return nil
}

func (s *TodoService) List(ctx context.Context) ([]model.TodoItem, error) {
	items, err := s.repo.GetAll(ctx, store.All())
	if err != nil {
		return nil, fmt.Errorf("failed to list todo items: %w", err)
	}
	return items, nil
}

// duplicateTitle reports a unique-index violation the same way the create
// validator reports a duplicate it can see.
func duplicateTitle() error {
	return validator.NewError(validator.Failure{Field: "title", Message: validator.MsgDuplicateEntry})
}
