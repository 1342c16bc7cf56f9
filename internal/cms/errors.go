package cms

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable indicates the CMS could not be reached.
	ErrUnavailable = errors.New("cms unavailable")

	// ErrTimeout indicates the request exceeded its deadline or the CMS
	// answered 504.
	ErrTimeout = errors.New("cms request timed out")

	// ErrUnauthenticated indicates an authenticated endpoint was called
	// without a session token.
	ErrUnauthenticated = errors.New("no session token")

	// ErrInvalidResponse indicates a 2xx body that could not be decoded.
	ErrInvalidResponse = errors.New("invalid cms response")
)

// HTTPError is a non-2xx answer from the CMS.
type HTTPError struct {
	Status int
	// Message is the body's "message" field when present.
	Message string
	Body    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("cms returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("cms returned %d", e.Status)
}

// Is makes a 504 match ErrTimeout.
func (e *HTTPError) Is(target error) bool {
	return target == ErrTimeout && e.Status == http.StatusGatewayTimeout
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}

// MessageOf returns the server message carried by err, or "".
func MessageOf(err error) string {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Message
	}
	return ""
}
