package handler

import (
	"net/http"
	"strings"

	"github.com/jaekwang-park/todo-items/internal/model"
	"github.com/jaekwang-park/todo-items/internal/service"
	"github.com/jaekwang-park/todo-items/internal/validator"
)

type TodoHandler struct {
	svc    *service.TodoService
	prefix string

	create validator.Chain
	fetch  validator.Chain
	update validator.Chain
	remove validator.Chain
}

// NewTodoHandler serves basePath/todos and basePath/todos/{id}.
func NewTodoHandler(svc *service.TodoService, basePath string) *TodoHandler {
	return &TodoHandler{
		svc:    svc,
		prefix: strings.TrimRight(basePath, "/") + "/todos",
		create: validator.CreateTodo(svc.Matches),
		fetch:  validator.FetchTodo(),
		update: validator.UpdateTodo(),
		remove: validator.DeleteTodo(svc.Matches),
	}
}

func (h *TodoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, h.prefix)
	id := strings.TrimPrefix(path, "/")

	if strings.Contains(id, "/") {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
		return
	}

	// {prefix}/{id}
	if id != "" {
		switch r.Method {
		case http.MethodGet:
			h.handleGetByID(w, r, id)
		case http.MethodPut:
			h.handleUpdate(w, r, id)
		case http.MethodDelete:
			h.handleDelete(w, r, id)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
		return
	}

	// {prefix}
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

func (h *TodoHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if err := h.create.Validate(r.Context(), validator.Input{Body: body}); err != nil {
		handleServiceError(w, r, err)
		return
	}

	item, err := h.svc.Create(r.Context(), body["title"].(string))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, item.Serialize())
}

func (h *TodoHandler) handleGetByID(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.fetch.Validate(r.Context(), validator.Input{ID: id}); err != nil {
		handleServiceError(w, r, err)
		return
	}

	item, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, item.Serialize())
}

func (h *TodoHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	body, err := decodeBody(w, r)
	if err != nil {
		handleServiceError(w, r, withIDFailures(r, h.fetch, id, err))
		return
	}
	if err := h.update.Validate(r.Context(), validator.Input{ID: id, Body: body}); err != nil {
		handleServiceError(w, r, err)
		return
	}

	item, err := h.svc.Update(r.Context(), id, body["title"].(string))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, item.Serialize())
}

func (h *TodoHandler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.remove.Validate(r.Context(), validator.Input{ID: id}); err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TodoHandler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, model.SerializeTodoItems(items))
}
