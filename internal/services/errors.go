// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to handlers. Match them with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("product not found")
	ErrUpload     = errors.New("upload failed")
	ErrStore      = errors.New("store operation failed")
)

type CatalogError struct {
	Op   string
	Kind error
	Err  error
}

func (e *CatalogError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *CatalogError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op string, kind, err error) *CatalogError {
	return &CatalogError{Op: op, Kind: kind, Err: err}
}

// validationError carries a message safe to return to clients.
func validationError(op, message string) *CatalogError {
	return newError(op, ErrValidation, errors.New(message))
}

// Detail returns the innermost message of a CatalogError for client display.
func Detail(err error) string {
	var catalogErr *CatalogError
	if errors.As(err, &catalogErr) && catalogErr.Err != nil {
		return catalogErr.Err.Error()
	}
	return ""
}
