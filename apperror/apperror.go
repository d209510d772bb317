// Package apperror defines a centralized system for application-specific errors.
// Every handler converts failures into one of the types below at its boundary,
// which keeps HTTP status codes and the JSON error envelope consistent across
// the API and ensures no raw error ever crosses the HTTP boundary.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType defines the type of application error.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the database
	DatabaseError
	// ConfigError represents an error related to application configuration
	ConfigError
	// AuthError represents an authentication error (e.g. invalid credentials)
	AuthError
	// NotFoundError represents a resource not found error
	NotFoundError
	// ValidationError represents an input validation error
	ValidationError
	// BadRequestError represents a generic bad request
	BadRequestError
	// InternalError represents a generic internal server error
	InternalError
	// ExternalServiceError represents a failure calling the ML microservice
	ExternalServiceError
	// MigrationError represents an error during database migrations
	MigrationError
	// ConflictError represents a conflict, e.g., username already taken
	ConflictError
	// RateLimitedError represents a request rejected by the chat cooldown
	RateLimitedError
)

// AppError is a custom error type for the application.
// It allows wrapping an underlying error (`Err`) for more detailed debugging;
// only the user-facing Message is ever serialized to clients.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error // Underlying error
}

// Error returns the string representation of the error, satisfying the `error` interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error, allowing `errors.Is` and `errors.As`
// to inspect the chain of wrapped errors.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case DatabaseError:
		return http.StatusInternalServerError
	case ConfigError:
		return http.StatusInternalServerError
	case AuthError:
		return http.StatusUnauthorized
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError:
		return http.StatusBadRequest
	case BadRequestError:
		return http.StatusBadRequest
	case InternalError:
		return http.StatusInternalServerError
	case ExternalServiceError:
		// The ML service is an internal collaborator; its unavailability is
		// reported as a plain server failure, not a gateway error.
		return http.StatusInternalServerError
	case MigrationError:
		return http.StatusInternalServerError
	case ConflictError:
		// The API contract reports a duplicate username as a 400, not a 409.
		return http.StatusBadRequest
	case RateLimitedError:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new AppError. This is a generic constructor, useful
// when the error type is determined dynamically.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// Constructor functions for specific error types.
// These provide a more readable and type-safe way to create common `AppError` types.

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewAuthError creates a new AuthError
func NewAuthError(message string, underlyingError error) *AppError {
	return NewAppError(AuthError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewValidationError creates a new ValidationError
func NewValidationError(message string, underlyingError error) *AppError {
	return NewAppError(ValidationError, message, underlyingError)
}

// NewBadRequestError creates a new BadRequestError
func NewBadRequestError(message string, underlyingError error) *AppError {
	return NewAppError(BadRequestError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// NewExternalServiceError creates a new ExternalServiceError
func NewExternalServiceError(message string, underlyingError error) *AppError {
	return NewAppError(ExternalServiceError, message, underlyingError)
}

// NewMigrationError creates a new MigrationError
func NewMigrationError(message string, underlyingError error) *AppError {
	return NewAppError(MigrationError, message, underlyingError)
}

// NewConflictError creates a new ConflictError
func NewConflictError(message string, underlyingError error) *AppError {
	return NewAppError(ConflictError, message, underlyingError)
}

// NewRateLimitedError creates a new RateLimitedError
func NewRateLimitedError(message string, underlyingError error) *AppError {
	return NewAppError(RateLimitedError, message, underlyingError)
}

// ErrorResponse is the JSON envelope returned to clients for every failure.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"A description of the error"`
}

// ToResponse converts an AppError to an ErrorResponse suitable for API responses.
// Only the user-facing `Message` is included, never the underlying `Err` details.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Success: false, Message: e.Message}
}

// FromError attempts to convert a generic error to an *AppError.
// It returns the *AppError and true if successful, otherwise nil and false.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Helper functions to check error types.
// These use `errors.As`, which is more robust than a direct type assertion
// when errors might be wrapped.

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}

// IsAuthError checks if an error is an AuthError
func IsAuthError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == AuthError
}

// IsConflictError checks if an error is a Conflict error
func IsConflictError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ConflictError
}

// IsRateLimited checks if an error is a RateLimited error
func IsRateLimited(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == RateLimitedError
}

// IsExternalServiceError checks if an error is an ExternalService error
func IsExternalServiceError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ExternalServiceError
}
