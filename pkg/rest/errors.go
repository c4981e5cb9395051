package rest

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedMethod matches *UnsupportedMethodError.
	ErrUnsupportedMethod = errors.New("unsupported method")

	// ErrDecode matches *DecodeError.
	ErrDecode = errors.New("failed to decode response")
)

// maxErrorBody caps how much of a response body an error message carries.
const maxErrorBody = 256

// UnsupportedMethodError is returned for a request whose method is not GET,
// POST or PUT. No request is sent.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("unsupported method %q", e.Method)
}

func (e *UnsupportedMethodError) Is(target error) bool {
	return target == ErrUnsupportedMethod
}

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.URL, e.StatusCode, body)
}

// DecodeError is returned when a response body does not have the expected
// shape.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
