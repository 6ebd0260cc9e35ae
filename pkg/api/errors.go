package api

import "fmt"

// APIError represents a well-formed response with a non-success status code.
// The body is read in full and carried as text; this package does not
// interpret it.
type APIError struct {
	// Status is the numeric HTTP status code.
	Status int

	// Reason is the canonical reason phrase for Status, or "Unknown" when
	// no canonical phrase exists.
	Reason string

	// Body is the full response body text.
	Body string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Reason, e.Body)
}

// Is implements errors.Is support for APIError.
// This allows errors.Is(err, &APIError{}) to work with wrapped errors.
func (e *APIError) Is(target error) bool {
	_, ok := target.(*APIError)
	return ok
}
