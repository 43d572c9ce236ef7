// Package repository is the gorm/Postgres persistence layer. Errors that
// callers need to tell apart are returned as the sentinels below, wrapped
// with context via %w.
package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert or update hits a unique index.
	ErrDuplicate = errors.New("duplicate")
)

// Postgres SQLSTATE codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// DuplicateError carries the name of the unique constraint that was hit so
// the service can tell a duplicate username from a duplicate email.
type DuplicateError struct {
	Constraint string
}

func (e *DuplicateError) Error() string { return "duplicate key: " + e.Constraint }

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }

// ReferenceError is a foreign key violation. The referenced row is gone, so
// it unwraps to ErrNotFound.
type ReferenceError struct {
	Constraint string
	Detail     string
}

func (e *ReferenceError) Error() string { return "missing reference: " + e.Constraint }

func (e *ReferenceError) Unwrap() error { return ErrNotFound }

// MissingUser reports whether the violated key points at the users table,
// which happens when an account is deleted while its tokens are still live.
func (e *ReferenceError) MissingUser() bool {
	return strings.HasSuffix(e.Constraint, "_user") || strings.Contains(e.Detail, `table "users"`)
}

// translate maps driver errors onto the package sentinels. Anything it does
// not recognise is returned unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return &DuplicateError{Constraint: pgErr.ConstraintName}
		case foreignKeyViolation:
			return &ReferenceError{Constraint: pgErr.ConstraintName, Detail: pgErr.Detail}
		}
	}
	return err
}
