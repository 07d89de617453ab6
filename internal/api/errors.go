package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL means the base URL, path and query could not form a
	// valid request URL.
	ErrInvalidURL = errors.New("invalid request url")
	// ErrInvalidResponse means the server reply was not usable HTTP.
	ErrInvalidResponse = errors.New("invalid server response")
)

// TransportError wraps a network-level failure (connection refused, DNS,
// timeouts that are not caller cancellation).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is returned for responses outside the 2xx range. The raw body
// is retained so callers can decode the provider's error envelope.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server responded with status %d", e.Code)
}

// errorResponse is the provider's error body: { status, code, message }.
type errorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Message renders a user-facing string for the failed response. Status codes
// with a known meaning for this provider get a specific message; otherwise
// the provider's own message is used when the body decodes.
func (e *StatusError) Message() string {
	switch e.Code {
	case 400:
		return "Scope of search is too broad."
	case 429:
		return "Reached the request limit for this API key."
	}

	var body errorResponse
	if err := json.Unmarshal(e.Body, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return fmt.Sprintf("Server responded with status code %d.", e.Code)
}

// DecodeError means the response body did not match the expected schema.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
