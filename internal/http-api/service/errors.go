package service

import (
	"errors"
	"sort"
	"strings"

	"moviereviews/internal/access"
	"moviereviews/internal/http-api/repository"
)

// Errors the HTTP layer maps to status codes. NotFound and the two access
// errors are shared with the packages that produce them so errors.Is works
// across layers.
var (
	ErrNotFound           = repository.ErrNotFound
	ErrUnauthenticated    = access.ErrUnauthenticated
	ErrForbidden          = access.ErrForbidden
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
	ErrInvalidToken       = errors.New("token is invalid or expired")
	ErrInvalidPage        = errors.New("invalid page")
)

// ValidationError reports bad input. Fields maps a field name to its
// messages; Detail is used for errors that are not tied to a field.
type ValidationError struct {
	Fields map[string][]string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message against field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Err returns e when anything was recorded, nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 && e.Detail == "" {
		return nil
	}
	return e
}

// ConflictError is a uniqueness violation reported against a field, e.g. a
// second review of the same movie or a taken username.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string { return e.Field + ": " + e.Message }

func (e *ConflictError) Unwrap() error { return ErrConflict }

const (
	msgDuplicateReview = "You have already reviewed this movie."
	msgRatingRange     = "Rating must be between 1 and 5."
	msgBlank           = "This field may not be blank."
	msgTitleRequired   = "Provide ?title=<movie title>."
)

// staleActor turns a foreign key failure on the acting user into
// ErrUnauthenticated. The token outlived the account it was issued for.
func staleActor(err error) error {
	var ref *repository.ReferenceError
	if errors.As(err, &ref) && ref.MissingUser() {
		return ErrUnauthenticated
	}
	return err
}
