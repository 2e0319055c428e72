package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jaekwang-park/todo-items/internal/model"
	"github.com/jaekwang-park/todo-items/internal/repository"
	"github.com/jaekwang-park/todo-items/internal/store"
)

func newTodoRepo(t *testing.T) *repository.Repository[model.TodoItem] {
	t.Helper()
	return repository.NewTodoRepository(store.NewMemoryStore().Collection("todoItems"))
}

func TestTodoRepository_SaveAndFindOne(t *testing.T) {
	ctx := context.Background()
	repo := newTodoRepo(t)

	saved, err := repo.Save(ctx, model.TodoItem{Title: "Fetching an item"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected store-assigned id")
	}
	if saved.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	got, err := repo.FindOne(ctx, store.ByID(saved.ID))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != saved {
		t.Errorf("got %+v, want %+v", got, saved)
	}
}

func TestTodoRepository_FindOne_NotFound(t *testing.T) {
	repo := newTodoRepo(t)

	_, err := repo.FindOne(context.Background(), store.ByField(repository.FieldTitle, "missing"))
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected wrapped store.ErrNotFound, got %v", err)
	}
}

func TestTodoRepository_GetAll(t *testing.T) {
	ctx := context.Background()
	repo := newTodoRepo(t)

	items, err := repo.GetAll(ctx, store.All())
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", items)
	}

	for _, title := range []string{"a", "b"} {
		if _, err := repo.Save(ctx, model.TodoItem{Title: title}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	items, err = repo.GetAll(ctx, store.All())
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(items) != 2 || items[0].Title != "a" || items[1].Title != "b" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestTodoRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTodoRepo(t)

	saved, err := repo.Save(ctx, model.TodoItem{Title: "Update TODO"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	updated, err := repo.Update(ctx, store.ByID(saved.ID), map[string]string{repository.FieldTitle: "Item Updated"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != saved.ID || updated.Title != "Item Updated" {
		t.Errorf("unexpected update result: %+v", updated)
	}

	n, err := repo.DeleteMany(ctx, store.ByID(saved.ID))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}

	_, err = repo.Update(ctx, store.ByID(saved.ID), map[string]string{repository.FieldTitle: "gone"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected store.ErrNotFound after delete, got %v", err)
	}
}

func TestAccountRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewAccountRepository(store.NewMemoryStore().Collection("accounts"))

	saved, err := repo.Save(ctx, model.Account{Email: "user@example.com", Subject: "sub-1"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.FindOne(ctx, store.ByField(repository.FieldSubject, "sub-1"))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != saved.ID || got.Email != "user@example.com" {
		t.Errorf("unexpected account: %+v", got)
	}
}
