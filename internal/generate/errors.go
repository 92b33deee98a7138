package generate

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrGenerationFailed is wrapped by every error Generate returns after a
	// request was attempted.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrNoBaseURL indicates the client has no service URL configured.
	ErrNoBaseURL = errors.New("no generation service URL configured")

	// ErrEmptyPrompt indicates an empty or whitespace-only prompt.
	ErrEmptyPrompt = errors.New("prompt is empty")
)

// StatusError is returned when the service answers with a non-success status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

// StatusText returns the HTTP status line, e.g. "502 Bad Gateway".
func (e *StatusError) StatusText() string {
	if e.Status != "" {
		return e.Status
	}
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Error() string {
	status := e.StatusText()
	if e.Body != "" {
		return fmt.Sprintf("service returned %s: %s", status, e.Body)
	}
	return "service returned " + status
}

// Unwrap makes errors.Is(err, ErrGenerationFailed) hold for status errors.
func (e *StatusError) Unwrap() error {
	return ErrGenerationFailed
}
