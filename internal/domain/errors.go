package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input that blocks the operation
	ValidationError struct {
		Message string
	}

	// StorageError indicates a persistence failure. The underlying cause is
	// logged but callers only see the generic failure.
	StorageError struct {
		Message string
	}

	// ExternalServiceError indicates an AI collaborator call failed. The
	// underlying message is surfaced so a human can retry manually; there
	// is no automatic retry.
	ExternalServiceError struct {
		Service string
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *StorageError) Error() string      { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

func (e *ExternalServiceError) Error() string {
	return e.Service + ": " + e.Message
}

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int        { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int      { return http.StatusBadRequest }
func (e *StorageError) StatusCode() int         { return http.StatusInternalServerError }
func (e *ExternalServiceError) StatusCode() int { return http.StatusBadGateway }
func (e *UnauthorizedError) StatusCode() int    { return http.StatusUnauthorized }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrStorage         = errors.New("operation failed")
	ErrExternalService = errors.New("external service failed")
	ErrUnauthorized    = errors.New("unauthorized")
)

// Is allows errors.Is() to match typed errors against their sentinels.
func (e *NotFoundError) Is(target error) bool        { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool      { return target == ErrValidation }
func (e *StorageError) Is(target error) bool         { return target == ErrStorage }
func (e *ExternalServiceError) Is(target error) bool { return target == ErrExternalService }
func (e *UnauthorizedError) Is(target error) bool    { return target == ErrUnauthorized }
