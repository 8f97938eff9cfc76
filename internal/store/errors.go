package store

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")
	// ErrStaleRecord is returned when a compare-and-set update matched no row.
	ErrStaleRecord = errors.New("stale record")
)

// ConstraintError carries the violated constraint next to its kind.
type ConstraintError struct {
	Kind       error
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return e.Kind.Error() + " on " + e.Constraint + ": " + e.Err.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *ConstraintError) Is(target error) bool {
	return target == e.Kind
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// TranslateError maps driver errors from postgres and sqlite onto the store sentinels.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUniqueViolation) || errors.Is(err, ErrForeignKeyViolation) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &ConstraintError{Kind: ErrUniqueViolation, Constraint: pgErr.ConstraintName, Err: err}
		case pgForeignKeyViolation:
			return &ConstraintError{Kind: ErrForeignKeyViolation, Constraint: pgErr.ConstraintName, Err: err}
		}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ConstraintError{Kind: ErrUniqueViolation, Err: err}
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return &ConstraintError{Kind: ErrForeignKeyViolation, Err: err}
	}

	// sqlite reports constraints only through the message text
	msg := err.Error()
	if idx := strings.Index(msg, "UNIQUE constraint failed:"); idx >= 0 {
		constraint := strings.TrimSpace(msg[idx+len("UNIQUE constraint failed:"):])
		return &ConstraintError{Kind: ErrUniqueViolation, Constraint: constraint, Err: err}
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return &ConstraintError{Kind: ErrForeignKeyViolation, Err: err}
	}

	return err
}

// ViolatedConstraint returns the constraint name or column list of a translated violation.
func ViolatedConstraint(err error) string {
	var cErr *ConstraintError
	if errors.As(err, &cErr) {
		return cErr.Constraint
	}
	return ""
}
