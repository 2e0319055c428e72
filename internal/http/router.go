package http

import (
	"net/http"
	"strings"

	"github.com/jaekwang-park/todo-items/internal/http/handler"
	"github.com/jaekwang-park/todo-items/internal/service"
)

// Deps are the collaborators the routes are served from.
type Deps struct {
	BasePath string
	Todos    *service.TodoService
	Accounts *service.AccountService
	Store    handler.Pinger
}

func (d Deps) base() string {
	return strings.TrimRight(d.BasePath, "/")
}

// PublicPaths lists the routes that never require credentials besides /health.
func (d Deps) PublicPaths() []string {
	return []string{d.base() + "/accounts", d.base() + "/access-tokens"}
}

func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	// Health check stays outside the base path for load balancer probes
	mux.Handle("/health", handler.NewHealthHandler(deps.Store))

	base := deps.base()

	todoHandler := handler.NewTodoHandler(deps.Todos, base)
	mux.Handle(base+"/todos", todoHandler)
	mux.Handle(base+"/todos/", todoHandler)

	accountHandler := handler.NewAccountHandler(deps.Accounts, base)
	for _, p := range deps.PublicPaths() {
		mux.Handle(p, accountHandler)
		mux.Handle(p+"/", accountHandler)
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handler.WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	})

	return mux
}
