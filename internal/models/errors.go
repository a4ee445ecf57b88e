package models

import "fmt"

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error codes for the selection, metadata, and reconciliation failure modes.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeValidation        = "VALIDATION_ERROR"
	CodeRangeTooMany      = "RANGE_TOO_MANY"
	CodeRangeOutOfBounds  = "RANGE_OUT_OF_BOUNDS"
	CodeRangeEmpty        = "RANGE_EMPTY"
	CodeMetadataUnavail   = "METADATA_UNAVAILABLE"
	CodeReconcileConflict = "RECONCILIATION_CONFLICT"
	CodeInternal          = "INTERNAL_ERROR"
)

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewMetadataUnavailableError(err error) *AppError {
	return &AppError{
		Code:    CodeMetadataUnavail,
		Message: "could not resolve this content",
		Err:     err,
	}
}

func NewReconciliationConflictError(err error) *AppError {
	return &AppError{
		Code:    CodeReconcileConflict,
		Message: "reconciliation could not acquire isolation",
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// CodeOf returns the AppError code, or CodeInternal for foreign errors.
func CodeOf(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}
