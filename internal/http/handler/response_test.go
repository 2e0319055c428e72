package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jaekwang-park/todo-items/internal/http/handler"
	"github.com/jaekwang-park/todo-items/internal/validator"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"status": "ok"}

	handler.WriteJSON(w, http.StatusOK, data)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", result["status"])
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	handler.WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "failures") {
		t.Errorf("expected failures to be omitted, got %s", w.Body.String())
	}

	var result handler.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Code != "NOT_FOUND" {
		t.Errorf("expected code=NOT_FOUND, got %s", result.Code)
	}
	if result.Message != "resource not found" {
		t.Errorf("expected message='resource not found', got %s", result.Message)
	}
}

func TestWriteValidationError(t *testing.T) {
	w := httptest.NewRecorder()

	handler.WriteValidationError(w, validator.NewError(
		validator.Failure{Field: "id", Message: validator.MsgInvalidID},
		validator.Failure{Field: "title", Message: validator.MsgEmptyTitle},
	))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var result handler.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Code != "VALIDATION_FAILED" || result.Message != validator.MsgValidationFailed {
		t.Errorf("unexpected envelope: %+v", result)
	}
	if len(result.Failures) != 2 || result.Failures[0].Field != "id" || result.Failures[1].Field != "title" {
		t.Errorf("unexpected failures: %+v", result.Failures)
	}
}
