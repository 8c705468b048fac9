package shared

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Service response classifications
	ErrConflict   = fmt.Errorf("already exists")
	ErrNotFound   = fmt.Errorf("not found")
	ErrAPIRequest = fmt.Errorf("API request failed")
	ErrTransport  = fmt.Errorf("service unreachable")

	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Caller preconditions, refused before any request is made
	ErrEmptySelection  = fmt.Errorf("at least one watchlist must be selected")
	ErrNotWatched      = fmt.Errorf("rating and liked can only be changed for watched movies")
	ErrStatusUnchanged = fmt.Errorf("movie already has this status")
	ErrInvalidStatus   = fmt.Errorf("invalid status")
	ErrInvalidRating   = fmt.Errorf("rating must be between 1 and 10")
	ErrItemNotFound    = fmt.Errorf("item not in local ordering")
	ErrSortActive      = fmt.Errorf("items cannot be moved while a display sort is active")
	ErrPendingReorder  = fmt.Errorf("unsaved order changes; save or refresh before sorting")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrNoUserSelected  = fmt.Errorf("no user selected")
)

// APIError is a non-success response from the catalog/library service.
//
// It unwraps to the classification sentinel, so callers test it with errors.Is:
// [ErrConflict] for 409, [ErrNotFound] for 404, [ErrAPIRequest] for anything else.
type APIError struct {
	StatusCode int
	Message    string
	Path       string
}

// NewAPIError builds an [APIError], falling back to a generic message when the service sent none.
func NewAPIError(status int, message, path string) *APIError {
	if message == "" {
		message = "Request failed"
	}
	return &APIError{StatusCode: status, Message: message, Path: path}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusConflict:
		return ErrConflict
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrAPIRequest
	}
}

// IsConflict reports whether err is the service's duplicate/already-exists signal.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
