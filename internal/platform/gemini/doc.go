// Package gemini implements the smart sort folder suggester on top of
// Google's Gemini API.
//
// The Sorter renders a prompt from an embedded template listing the cards and
// the existing folders, asks the model for a JSON answer constrained by a
// response schema, and converts that answer into domain.SortSuggestion values.
// Each request is made once with its own timeout; failures are reported to the
// caller and never retried.
package gemini
