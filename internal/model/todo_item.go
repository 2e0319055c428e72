package model

import "time"

// TodoItem is a titled entry in the todo collection. ID and the timestamps
// are assigned by the store.
type TodoItem struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoItemView is the public JSON shape of a TodoItem.
type TodoItemView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (t TodoItem) Serialize() TodoItemView {
	return TodoItemView{ID: t.ID, Title: t.Title}
}

// SerializeTodoItems never returns nil, so an empty list encodes as [].
func SerializeTodoItems(items []TodoItem) []TodoItemView {
	out := make([]TodoItemView, 0, len(items))
	for _, it := range items {
		out = append(out, it.Serialize())
	}
	return out
}
