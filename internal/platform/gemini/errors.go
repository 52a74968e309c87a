package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrInvalidConfig is returned when the sorter cannot be constructed.
	ErrInvalidConfig = errors.New("invalid gemini configuration")

	// ErrInvalidResponse is returned when the model answer cannot be used.
	ErrInvalidResponse = errors.New("invalid response from gemini")

	// ErrContentBlocked is returned when the model refused to answer.
	ErrContentBlocked = errors.New("content blocked by safety filters")

	// ErrNoCards is returned when Suggest is called with nothing to sort.
	ErrNoCards = errors.New("no cards to sort")
)
