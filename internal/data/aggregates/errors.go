package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/authz"
)

var (
	// ErrValidation indicates caller input validation failure.
	ErrValidation = errors.New("aggregate validation")
	// ErrInvariant indicates invariant rule violation.
	ErrInvariant = errors.New("aggregate invariant violation")
	// ErrConflict indicates a duplicate membership, edge or key.
	ErrConflict = errors.New("aggregate conflict")
	// ErrNotFound indicates a referenced entity or membership is absent.
	ErrNotFound = errors.New("aggregate not found")
	// ErrRetryable indicates transient retryable failure.
	ErrRetryable = errors.New("aggregate retryable")
)

type fieldError struct {
	field string
	msg   string
}

func (e *fieldError) Error() string { return e.msg }

// ValidationError tags an error as validation failure.
func ValidationError(msg string) error {
	return errors.Join(ErrValidation, errors.New(strings.TrimSpace(msg)))
}

// FieldError tags a validation failure with the offending input field.
func FieldError(field, msg string) error {
	return errors.Join(ErrValidation, &fieldError{field: strings.TrimSpace(field), msg: strings.TrimSpace(msg)})
}

// InvariantError tags an error as invariant violation.
func InvariantError(msg string) error {
	return errors.Join(ErrInvariant, errors.New(strings.TrimSpace(msg)))
}

// ConflictError tags an error as conflict failure.
func ConflictError(msg string) error {
	return errors.Join(ErrConflict, errors.New(strings.TrimSpace(msg)))
}

// NotFoundError tags an error as a missing entity or membership.
func NotFoundError(msg string) error {
	return errors.Join(ErrNotFound, errors.New(strings.TrimSpace(msg)))
}

// RetryableError tags an error as retryable failure.
func RetryableError(msg string) error {
	return errors.Join(ErrRetryable, errors.New(strings.TrimSpace(msg)))
}

// MapError maps infrastructure/domain failures into aggregate error codes.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*domainagg.Error); ok {
		return err
	}
	switch {
	case errors.Is(err, ErrValidation):
		return tagged(domainagg.CodeValidation, op, err, ErrValidation)
	case errors.Is(err, ErrInvariant):
		return tagged(domainagg.CodeInvariantViolation, op, err, ErrInvariant)
	case errors.Is(err, ErrConflict):
		return tagged(domainagg.CodeConflict, op, err, ErrConflict)
	case errors.Is(err, ErrNotFound):
		return tagged(domainagg.CodeNotFound, op, err, ErrNotFound)
	case errors.Is(err, ErrRetryable):
		return tagged(domainagg.CodeRetryable, op, err, ErrRetryable)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainagg.Wrap(domainagg.CodeNotFound, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return domainagg.Wrap(domainagg.CodeValidation, op, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domainagg.Wrap(domainagg.CodePreconditionFailed, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return domainagg.Wrap(domainagg.CodeConflict, op, err) // unique_violation
		case "23514":
			return domainagg.Wrap(domainagg.CodeValidation, op, err) // check_violation
		case "23503":
			return domainagg.Wrap(domainagg.CodePreconditionFailed, op, err) // foreign_key_violation
		case "40001", "40P01", "55P03":
			return domainagg.Wrap(domainagg.CodeRetryable, op, err) // serialization/deadlock/lock_not_available
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint"),
		strings.Contains(msg, "already exists"):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	case strings.Contains(msg, "check constraint"):
		return domainagg.Wrap(domainagg.CodeValidation, op, err)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "temporar"):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	default:
		return domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
}

// IsUniqueViolation reports whether err came from a unique index.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// tagged strips the sentinel out of a joined error so the caller sees only
// the detail message.
func tagged(code domainagg.ErrorCode, op string, err error, sentinel error) error {
	out := &domainagg.Error{Code: code, Op: strings.TrimSpace(op), Cause: err}
	var fe *fieldError
	if errors.As(err, &fe) {
		out.Field = fe.field
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		out.Message = err.Error()
		return out
	}
	var parts []string
	for _, e := range joined.Unwrap() {
		if e == nil || e == sentinel {
			continue
		}
		parts = append(parts, e.Error())
	}
	out.Message = strings.Join(parts, "; ")
	return out
}

// denied turns a negative authorization decision into an aggregate error.
func denied(op string, d authz.Decision) error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case authz.ReasonUnauthenticated:
		return domainagg.NewError(domainagg.CodeUnauthenticated, op, "authentication credentials were not provided", nil)
	default:
		return domainagg.NewError(domainagg.CodePermissionDenied, op, "you do not have permission to perform this action", nil)
	}
}
