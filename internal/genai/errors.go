package genai

import (
	"errors"
	"fmt"
)

var (
	// response carried no inline image or video
	ErrNoMedia = errors.New("no media in model response")

	// the key's project has no access to the requested model
	ErrModelNotFound = errors.New("model not found or not enabled for this API key")
)

// non-2xx response from the API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API request failed with status %d: %s", e.StatusCode, e.Body)
}
