package service

import (
	"errors"
	"fmt"
)

// Common service errors. Callers match them with errors.Is; the API layer
// maps them to HTTP status codes.
var (
	// ErrSmartSortUnavailable is returned when no folder suggester is configured.
	ErrSmartSortUnavailable = errors.New("smart sort is not configured")

	// ErrSortJobNotFound is returned for an unknown sort job id.
	ErrSortJobNotFound = errors.New("sort job not found")

	// ErrSortJobNotReady is returned when applying a job that has no suggestions.
	ErrSortJobNotReady = errors.New("sort job has no suggestions to apply")

	// ErrSortJobApplied is returned when applying a job a second time.
	ErrSortJobApplied = errors.New("sort job already applied")

	// ErrIncompleteBackup is returned when a backup lacks cards, user or folders.
	ErrIncompleteBackup = errors.New("backup must contain cards, user and folders")

	// ErrInvalidBackup is returned when a backup contains unusable data.
	ErrInvalidBackup = errors.New("invalid backup")

	// ErrUnsupportedFormat is returned for an unknown backup encoding.
	ErrUnsupportedFormat = errors.New("unsupported backup format")

	// ErrInvalidStatsRange is returned for a stats window other than 7 or 30 days.
	ErrInvalidStatsRange = errors.New("stats range must be 7 or 30 days")
)

// ServiceError carries the failed operation alongside the underlying error.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
