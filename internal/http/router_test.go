package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	todohttp "github.com/jaekwang-park/todo-items/internal/http"
	"github.com/jaekwang-park/todo-items/internal/repository"
	"github.com/jaekwang-park/todo-items/internal/service"
	"github.com/jaekwang-park/todo-items/internal/store"
)

func newTestDeps(basePath string) todohttp.Deps {
	s := store.NewMemoryStore()
	return todohttp.Deps{
		BasePath: basePath,
		Todos:    service.NewTodoService(repository.NewTodoRepository(s.Collection("todoItems"))),
		Accounts: service.NewAccountService(nil, repository.NewAccountRepository(s.Collection("accounts"))),
		Store:    s,
	}
}

func TestRouter_HealthEndpoint(t *testing.T) {
	router := todohttp.NewRouter(newTestDeps("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", result["status"])
	}
}

func TestRouter_Routes(t *testing.T) {
	tests := []struct {
		name       string
		basePath   string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"list todos", "/api/v1", http.MethodGet, "/api/v1/todos", "", http.StatusOK},
		{"create todo", "/api/v1", http.MethodPost, "/api/v1/todos", `{"title":"Todo Item"}`, http.StatusCreated},
		{"fetch todo", "/api/v1", http.MethodGet, "/api/v1/todos/605bb3efc93d78b7f4388c2c", "", http.StatusNotFound},
		{"accounts registered", "/api/v1", http.MethodPost, "/api/v1/accounts", `{"email":"a@example.com","password":"x"}`, http.StatusServiceUnavailable},
		{"access tokens registered", "/api/v1", http.MethodPost, "/api/v1/access-tokens", `{"email":"a@example.com","password":"x"}`, http.StatusServiceUnavailable},
		{"root base path", "", http.MethodGet, "/todos", "", http.StatusOK},
		{"trailing slash base path", "/v2/", http.MethodGet, "/v2/todos", "", http.StatusOK},
		{"unknown route", "/api/v1", http.MethodGet, "/unknown", "", http.StatusNotFound},
		{"todos outside base path", "/api/v1", http.MethodGet, "/todos", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := todohttp.NewRouter(newTestDeps(tt.basePath))

			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON response, got %s", ct)
			}
		})
	}
}

func TestDeps_PublicPaths(t *testing.T) {
	got := newTestDeps("/api/v1/").PublicPaths()
	if len(got) != 2 || got[0] != "/api/v1/accounts" || got[1] != "/api/v1/access-tokens" {
		t.Errorf("unexpected public paths: %v", got)
	}
}
