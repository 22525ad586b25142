package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain error kinds. Handlers translate these to HTTP status codes.
// ErrForbidden is distinct from ErrNotFound even though both map to 404 on
// the wire: callers probing someone else's booking must not learn that it
// exists.
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrBadParameter  = errors.New("bad parameter")
	ErrAlreadyExists = errors.New("already exists")
)

// ValidationError collects every violated field of a request at once
// instead of failing on the first one.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = msg
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
