package apperr

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")
var ErrDuplicateName = errors.New("duplicate name")

// ErrUnavailable means the backing store could not be reached.
var ErrUnavailable = errors.New("store unavailable")

// ValidationError reports a required field that is missing or blank.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Field + " is required"
}

func Required(field string) error {
	return &ValidationError{Field: field}
}

func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("name %q is already in use", e.Name)
}

func (e *DuplicateNameError) Is(target error) bool { return target == ErrDuplicateName }

func Duplicate(name string) error {
	return &DuplicateNameError{Name: name}
}

// IsValidation reports whether err (or anything it wraps) is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
