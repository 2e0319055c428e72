package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jaekwang-park/todo-items/internal/middleware"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer wires the routes behind the middleware chain. A nil auth leaves
// every route open.
func NewServer(port string, logger *slog.Logger, deps Deps, auth *middleware.Auth) *Server {
	var h http.Handler = NewRouter(deps)
	if auth != nil {
		h = auth.Middleware(h)
	}

	// request id -> recovery -> logging -> auth -> router
	h = middleware.RequestID(middleware.Recovery(logger)(middleware.Logging(logger)(h)))

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      h,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}
