package cognito

import (
	"errors"
	"net/http"
)

var (
	ErrAccountExists       = errors.New("account already exists")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountNotConfirmed = errors.New("account not confirmed")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrNotAuthorized       = errors.New("not authorized")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInvalidParameter    = errors.New("invalid parameter")
)

// ErrorInfo is the HTTP rendering of a provider error.
type ErrorInfo struct {
	Status int
	Code   string
}

var errorMap = []struct {
	err  error
	info ErrorInfo
}{
	{ErrAccountExists, ErrorInfo{http.StatusConflict, "ACCOUNT_EXISTS"}},
	// Unknown email and wrong password look the same to callers.
	{ErrAccountNotFound, ErrorInfo{http.StatusUnauthorized, "NOT_AUTHORIZED"}},
	{ErrAccountNotConfirmed, ErrorInfo{http.StatusForbidden, "ACCOUNT_NOT_CONFIRMED"}},
	{ErrInvalidPassword, ErrorInfo{http.StatusBadRequest, "INVALID_PASSWORD"}},
	{ErrNotAuthorized, ErrorInfo{http.StatusUnauthorized, "NOT_AUTHORIZED"}},
	{ErrTooManyRequests, ErrorInfo{http.StatusTooManyRequests, "TOO_MANY_REQUESTS"}},
	{ErrInvalidParameter, ErrorInfo{http.StatusBadRequest, "INVALID_PARAMETER"}},
}

// LookupError reports the HTTP status and code for a provider error, or
// false if err is not one.
func LookupError(err error) (ErrorInfo, bool) {
	for _, e := range errorMap {
		if errors.Is(err, e.err) {
			return e.info, true
		}
	}
	return ErrorInfo{}, false
}
