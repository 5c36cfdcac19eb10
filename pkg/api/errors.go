package api

import "fmt"

// ValidationError means the input was rejected before or by the server;
// the operation was never performed and local state is untouched.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RequestError is a transport or server failure. The message is meant to be
// shown to the user as-is.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
}

// NotFoundError means the target vanished server-side. Callers should drop
// the stale item from local state rather than retry.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}
