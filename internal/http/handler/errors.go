package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/jaekwang-park/todo-items/internal/cognito"
	"github.com/jaekwang-park/todo-items/internal/service"
	"github.com/jaekwang-park/todo-items/internal/validator"
)

const maxBodySize = 1 << 20 // 1 MB

var errBodyTooLarge = errors.New("request body too large")

// decodeBody reads a body holding exactly one JSON object. Anything else is
// reported as a validation failure on "body", except a body over
// maxBodySize, which returns errBodyTooLarge.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)

	var body map[string]any
	if err := dec.Decode(&body); err != nil || body == nil {
		return nil, bodyError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, bodyError(err)
	}
	return body, nil
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errBodyTooLarge
	}
	return validator.NewError(validator.Failure{Field: "body", Message: validator.MsgInvalidBody})
}

// withIDFailures reports the identifier failures of chain ahead of a rejected
// body, so a bad id is not hidden by a bad body.
func withIDFailures(r *http.Request, chain validator.Chain, id string, bodyErr error) error {
	var vErr *validator.Error
	if !errors.As(bodyErr, &vErr) {
		return bodyErr
	}
	failures, err := chain.Run(r.Context(), validator.Input{ID: id})
	if err != nil {
		return err
	}
	return validator.NewError(append(failures, vErr.Failures...)...)
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *validator.Error
	if errors.As(err, &vErr) {
		WriteValidationError(w, vErr)
		return
	}
	if info, ok := cognito.LookupError(err); ok {
		WriteError(w, info.Status, info.Code, err.Error())
		return
	}

	switch {
	case errors.Is(err, errBodyTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body exceeds 1 MB")
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrAuthUnavailable):
		WriteError(w, http.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "authentication is not configured")
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
