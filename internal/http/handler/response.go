package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jaekwang-park/todo-items/internal/validator"
)

type ErrorResponse struct {
	Code     string              `json:"code"`
	Message  string              `json:"message"`
	Failures []validator.Failure `json:"failures,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// WriteValidationError renders a failed validator chain as a 400.
func WriteValidationError(w http.ResponseWriter, err *validator.Error) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:     "VALIDATION_FAILED",
		Message:  err.Message,
		Failures: err.Failures,
	})
}
