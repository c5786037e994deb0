// Package common defines shared constants and sentinel errors used across
// the server and the CLI client. Callers should match them with errors.Is.
package common

import (
	"errors"
	"sort"
	"strings"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("invalid registration secret")
	ErrConflict           = errors.New("email already registered")
	ErrUnauthorized       = errors.New("unauthorized")

	// Token errors: malformed or tampered vs. naturally expired.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ValidationError reports per-field input problems. Fields maps the JSON
// field name to a human readable message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for field. The first message for a field wins.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// OrNil returns e when at least one field failed, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}
