package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jaekwang-park/todo-items/internal/cognito"
	"github.com/jaekwang-park/todo-items/internal/http/handler"
	"github.com/jaekwang-park/todo-items/internal/model"
	"github.com/jaekwang-park/todo-items/internal/repository"
	"github.com/jaekwang-park/todo-items/internal/service"
	"github.com/jaekwang-park/todo-items/internal/store"
	"github.com/jaekwang-park/todo-items/internal/validator"
)

// mockProvider for handler tests
type mockProvider struct {
	signUpFn func(ctx context.Context, email, password string) (cognito.SignUpOutput, error)
	loginFn  func(ctx context.Context, email, password string) (cognito.Tokens, error)
}

func (m *mockProvider) SignUp(ctx context.Context, email, password string) (cognito.SignUpOutput, error) {
	return m.signUpFn(ctx, email, password)
}
func (m *mockProvider) Login(ctx context.Context, email, password string) (cognito.Tokens, error) {
	return m.loginFn(ctx, email, password)
}

func newAccountHandler(t *testing.T, provider cognito.Client) (*handler.AccountHandler, repository.AccountRepository) {
	t.Helper()
	repo := repository.NewAccountRepository(store.NewMemoryStore().Collection("accounts"))
	return handler.NewAccountHandler(service.NewAccountService(provider, repo), basePath), repo
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, basePath+path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAccountHandler_CreateAccount(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		signUpErr  error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			body:       `{"email":"user@example.com","password":"Secret123!"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid email",
			body:       `{"email":"not-an-email","password":"Secret123!"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "provider reports existing account",
			body:       `{"email":"user@example.com","password":"Secret123!"}`,
			signUpErr:  fmt.Errorf("User already exists: %w", cognito.ErrAccountExists),
			wantStatus: http.StatusConflict,
			wantCode:   "ACCOUNT_EXISTS",
		},
		{
			name:       "provider failure",
			body:       `{"email":"user@example.com","password":"Secret123!"}`,
			signUpErr:  fmt.Errorf("cognito: network unreachable"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockProvider{
				signUpFn: func(ctx context.Context, email, password string) (cognito.SignUpOutput, error) {
					return cognito.SignUpOutput{Subject: "sub-1"}, tt.signUpErr
				},
			}
			h, _ := newAccountHandler(t, provider)

			w := post(h, "/accounts", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantCode != "" {
				if result := decodeError(t, w); result.Code != tt.wantCode {
					t.Errorf("expected code=%s, got %s", tt.wantCode, result.Code)
				}
				return
			}
			var view model.AccountView
			if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
				t.Fatalf("failed to decode account: %v", err)
			}
			if view.Email != "user@example.com" || view.ID == "" {
				t.Errorf("unexpected account: %+v", view)
			}
		})
	}
}

func TestAccountHandler_CreateAccount_EmailTaken(t *testing.T) {
	provider := &mockProvider{
		signUpFn: func(ctx context.Context, email, password string) (cognito.SignUpOutput, error) {
			return cognito.SignUpOutput{Subject: "sub-1"}, nil
		},
	}
	h, repo := newAccountHandler(t, provider)
	if _, err := repo.Save(context.Background(), model.Account{Email: "user@example.com", Subject: "sub-0"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := post(h, "/accounts", `{"email":"user@example.com","password":"Secret123!"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if result := decodeError(t, w); len(result.Failures) != 1 || result.Failures[0].Message != validator.MsgEmailTaken {
		t.Errorf("unexpected failures: %+v", result.Failures)
	}
}

func TestAccountHandler_CreateToken(t *testing.T) {
	provider := &mockProvider{
		loginFn: func(ctx context.Context, email, password string) (cognito.Tokens, error) {
			if password != "Secret123!" {
				return cognito.Tokens{}, fmt.Errorf("Incorrect username or password.: %w", cognito.ErrNotAuthorized)
			}
			return cognito.Tokens{AccessToken: "access", IDToken: "id", RefreshToken: "refresh", ExpiresIn: 3600, TokenType: "Bearer"}, nil
		},
	}
	h, _ := newAccountHandler(t, provider)

	w := post(h, "/access-tokens", `{"email":"user@example.com","password":"Secret123!"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var token service.AccessToken
	if err := json.NewDecoder(w.Body).Decode(&token); err != nil {
		t.Fatalf("failed to decode token: %v", err)
	}
	if token.AccessToken != "access" || token.ExpiresIn != 3600 {
		t.Errorf("unexpected token: %+v", token)
	}

	w = post(h, "/access-tokens", `{"email":"user@example.com","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}

	w = post(h, "/access-tokens", `{"email":"user@example.com","password":""}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestAccountHandler_NoProvider(t *testing.T) {
	h, _ := newAccountHandler(t, nil)

	for _, path := range []string{"/accounts", "/access-tokens"} {
		t.Run(path, func(t *testing.T) {
			w := post(h, path, `{"email":"user@example.com","password":"Secret123!"}`)
			if w.Code != http.StatusServiceUnavailable {
				t.Fatalf("expected status 503, got %d", w.Code)
			}
			if result := decodeError(t, w); result.Code != "AUTH_UNAVAILABLE" {
				t.Errorf("expected code=AUTH_UNAVAILABLE, got %s", result.Code)
			}
		})
	}
}

func TestAccountHandler_Routing(t *testing.T) {
	h, _ := newAccountHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, basePath+"/accounts", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}

	w = post(h, "/accounts/extra", `{}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}
