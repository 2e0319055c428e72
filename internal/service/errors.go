package service

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrAuthUnavailable means no identity provider is configured.
	ErrAuthUnavailable = errors.New("authentication unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
)
