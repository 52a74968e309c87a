package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrCardNotFound is returned when a card id does not exist in the collection.
	ErrCardNotFound = errors.New("card not found")

	// ErrFolderNotFound is returned when a folder id does not exist.
	ErrFolderNotFound = errors.New("folder not found")

	// ErrDefaultFolderImmutable is returned when deleting the default folder.
	ErrDefaultFolderImmutable = errors.New("default folder cannot be deleted")
)
