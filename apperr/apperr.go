// Package apperr provides the structured error type shared by the store,
// the workflow operations and the HTTP layer.
package apperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Code identifies a class of failure.
type Code string

const (
	CodeUniquenessViolation Code = "UNIQUENESS_VIOLATION"
	CodeStorageFailure      Code = "STORAGE_FAILURE"
	CodeNotFound            Code = "NOT_FOUND"
	CodeConflict            Code = "CONFLICT"
	CodeForbidden           Code = "FORBIDDEN"
	CodeInvalidInput        Code = "INVALID_INPUT"
	CodeCyclicDependency    Code = "CYCLIC_DEPENDENCY"
	CodeRejected            Code = "REJECTED"
)

// Category groups codes for HTTP status mapping.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryNotFound
	CategoryBadRequest
	CategoryConflict
	CategoryForbidden
	CategoryUnauthorized
	CategoryUnprocessable
	CategoryInternal
)

var codeCategories = map[Code]Category{
	CodeUniquenessViolation: CategoryConflict,
	CodeStorageFailure:      CategoryInternal,
	CodeNotFound:            CategoryNotFound,
	CodeConflict:            CategoryConflict,
	CodeForbidden:           CategoryForbidden,
	CodeInvalidInput:        CategoryBadRequest,
	CodeCyclicDependency:    CategoryUnprocessable,
	CodeRejected:            CategoryUnauthorized,
}

// HTTPStatus returns the HTTP status code for a category.
func (c Category) HTTPStatus() int {
	switch c {
	case CategoryNotFound:
		return http.StatusNotFound
	case CategoryBadRequest:
		return http.StatusBadRequest
	case CategoryConflict:
		return http.StatusConflict
	case CategoryForbidden:
		return http.StatusForbidden
	case CategoryUnauthorized:
		return http.StatusUnauthorized
	case CategoryUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Error is the structured error type.
type Error struct {
	Code  Code   `json:"code"`
	What  string `json:"what"`
	Cause error  `json:"-"`
}

// Sentinels for errors.Is matching. Only the code is compared.
var (
	ErrUniquenessViolation = &Error{Code: CodeUniquenessViolation, What: "a record with the same unique value already exists"}
	ErrStorageFailure      = &Error{Code: CodeStorageFailure, What: "storage failure"}
	ErrNotFound            = &Error{Code: CodeNotFound, What: "record not found"}
	ErrConflict            = &Error{Code: CodeConflict, What: "record was modified by someone else"}
	ErrForbidden           = &Error{Code: CodeForbidden, What: "operation not permitted for this role"}
	ErrInvalidInput        = &Error{Code: CodeInvalidInput, What: "invalid input"}
	ErrCyclicDependency    = &Error{Code: CodeCyclicDependency, What: "task dependencies form a cycle"}
	ErrRejected            = &Error{Code: CodeRejected, What: "invalid username or password"}
)

// New returns an error with the given code and message.
func New(code Code, what string) *Error {
	return &Error{Code: code, What: what}
}

// Wrap returns an error with the given code, message and cause.
func Wrap(code Code, what string, cause error) *Error {
	return &Error{Code: code, What: what, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.What)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Category returns the error category for HTTP status mapping.
func (e *Error) Category() Category {
	if cat, ok := codeCategories[e.Code]; ok {
		return cat
	}
	return CategoryUnknown
}

// MarshalJSON implements json.Marshaler. The cause is never exposed.
func (e *Error) MarshalJSON() ([]byte, error) {
	type alias Error
	return json.Marshal((*alias)(e))
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// HTTPStatus maps any error to an HTTP status. Errors outside this package
// map to 500.
func HTTPStatus(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Category().HTTPStatus()
	}
	return http.StatusInternalServerError
}

// Message returns the client-facing message for err. Causes from outside
// this package, such as driver errors, are never included.
func Message(err error) string {
	var ae *Error
	if !errors.As(err, &ae) {
		return "internal error"
	}
	var inner *Error
	if ae.Code != CodeStorageFailure && errors.As(ae.Cause, &inner) {
		return ae.What + ": " + Message(inner)
	}
	return ae.What
}
