package fabric

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformed wraps responses whose body could not be decoded.
var ErrMalformed = errors.New("malformed response")

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	// Message is the body's "error" field, empty when the body had none.
	Message string
	Op      string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s status %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
}

// ServerMessage returns the message the server supplied, if any.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsConnectivity reports whether err means the service could not be reached
// at all (no HTTP response).
func IsConnectivity(err error) bool {
	if err == nil || IsCanceled(err) || errors.Is(err, ErrMalformed) {
		return false
	}
	var apiErr *APIError
	return !errors.As(err, &apiErr)
}

// IsCanceled reports whether err stems from a cancelled request.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
