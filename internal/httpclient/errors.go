package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"
)

// TimeoutError indicates that no response arrived within the request deadline.
// The in-flight connection is aborted by the transport when the deadline fires.
type TimeoutError struct {
	URL string
	// Limit is the effective deadline the request ran against, whether it
	// came from the caller's context or the client's configured timeout.
	Limit time.Duration
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out after %s", e.URL, e.Limit.Round(time.Millisecond))
}

// Timeout reports that this error is a timeout, matching net.Error conventions
func (e *TimeoutError) Timeout() bool { return true }

// Temporary completes the net.Error interface; timeouts are conventionally
// temporary, matching context.DeadlineExceeded.
func (e *TimeoutError) Temporary() bool { return true }

// NetworkError indicates a connection-level failure (refused connection,
// DNS failure, reset, etc.) as opposed to an HTTP-level error status.
type NetworkError struct {
	URL string
	Err error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error { return e.Err }

// classifyError maps a transport error onto the client's error taxonomy.
// limit is the effective deadline the request ran against.
func classifyError(reqURL string, limit time.Duration, err error) error {
	// Unwrap *url.Error so the net.Error timeout check sees the real cause
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return &TimeoutError{URL: reqURL, Limit: limit}
		}
		err = urlErr.Err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{URL: reqURL, Limit: limit}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{URL: reqURL, Limit: limit}
	}

	return &NetworkError{URL: reqURL, Err: err}
}

// IsTimeout returns true if err is a request timeout
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
