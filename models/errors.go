package models

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotFound is returned by id lookups that miss.
var ErrNotFound = errors.New("not found")

// ValidationError carries per-field messages for a rejected create/update.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, ", ")
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}
