package services

import (
	"errors"
	"fmt"
	"strings"

	"pmdashboard/apperr"
	"pmdashboard/model"

	"gorm.io/gorm"
)

// classify converts a persistence error into an apperr code. Errors that are
// already classified pass through unchanged.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return apperr.Wrap(apperr.CodeUniquenessViolation, op+": duplicate value", err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Wrap(apperr.CodeNotFound, op+": not found", err)
	default:
		return apperr.Wrap(apperr.CodeStorageFailure, op, err)
	}
}

// isUniqueViolation recognises driver messages when error translation is off.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry")
}

func notFound(kind string, id int) error {
	return apperr.New(apperr.CodeNotFound, fmt.Sprintf("%s %d not found", kind, id))
}

func invalid(format string, args ...any) error {
	return apperr.New(apperr.CodeInvalidInput, fmt.Sprintf(format, args...))
}

func requireRole(actor model.Session, allowed ...model.Role) error {
	if !actor.HasRole(allowed...) {
		return apperr.New(apperr.CodeForbidden, fmt.Sprintf("role %q may not perform this operation", actor.Role))
	}
	return nil
}
