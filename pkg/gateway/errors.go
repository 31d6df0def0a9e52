package gateway

import (
	"errors"
	"fmt"
	"time"
)

// TimeoutError reports that the payment service did not answer in time.
// The transfer may or may not have happened.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out after %s", e.URL, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// HTTPError reports that the payment service answered with a non-2xx status.
// The service has refused the transfer.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("payment service answered with status %d: %s", e.StatusCode, e.Body)
}

// UnexpectedError covers transport and decoding failures.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected payment service error: %v", e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }

// IsTransportFailure reports whether err leaves the outcome of the transfer unknown.
func IsTransportFailure(err error) bool {
	var timeoutErr *TimeoutError
	var unexpectedErr *UnexpectedError
	return errors.As(err, &timeoutErr) || errors.As(err, &unexpectedErr)
}
