package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound the referenced client, invoice or item does not exist
	ErrNotFound = errors.New("not_found")
	// ErrConflict the record was changed by someone else since it was read
	ErrConflict = errors.New("record changed, please retry")
	// ErrValidation input rejected, see the wrapping ValidationError
	ErrValidation = errors.New("validation failed")
	// ErrInvalidLineInput negative hours, rate or tax rate given to the line engine
	ErrInvalidLineInput = errors.New("invalid invoice line input")
	// ErrClientHasInvoices a client cannot be deleted while invoices reference it
	ErrClientHasInvoices = errors.New("client has invoices")
)

// ValidationError wraps a sentinel with the offending field
type ValidationError struct {
	Err   error
	Field string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err.Error())
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{
		Err:   fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...)),
		Field: field,
	}
}

// IsValidation reports whether err is a caller input error
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrValidation) || errors.Is(err, ErrInvalidLineInput)
}
