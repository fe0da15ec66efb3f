package upstream

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// UnreachableError reports a network level failure: DNS, refused
// connection, timeout, or a body that could not be read.
type UnreachableError struct {
	Method string
	URL    string
	Err    error
}

func (e *UnreachableError) Error() string {
	cause := e.Err
	var urlErr *url.Error
	if errors.As(cause, &urlErr) {
		cause = urlErr.Err
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, cause)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// RejectedError reports a non-2xx upstream status. 4xx and 5xx are not
// treated differently.
type RejectedError struct {
	StatusCode int
	URL        string
}

func (e *RejectedError) Error() string {
	kind := "Server"
	if e.StatusCode < 500 {
		kind = "Client"
	}
	return fmt.Sprintf("%d %s Error: %s for url: %s", e.StatusCode, kind, http.StatusText(e.StatusCode), e.URL)
}

// ShapeMismatchError reports a successful upstream response whose body the
// response shaper could not use.
type ShapeMismatchError struct {
	Endpoint string
	Err      error
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("unexpected response from %s: %v", e.Endpoint, e.Err)
}

func (e *ShapeMismatchError) Unwrap() error { return e.Err }
