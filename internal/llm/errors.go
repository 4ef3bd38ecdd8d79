package llm

import (
	"fmt"
	"time"
)

// TimeoutError means the per-call deadline elapsed before the provider
// answered.
type TimeoutError struct {
	Provider string
	Timeout  time.Duration
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s call timed out after %s", e.Provider, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// ResponseError means the provider answered with a non-2xx status.
type ResponseError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s responded with status %d: %v", e.Provider, e.StatusCode, e.Err)
}

func (e *ResponseError) Unwrap() error { return e.Err }

// ContentError means the provider answered 2xx but the expected text was
// missing or unparseable.
type ContentError struct {
	Provider string
	Reason   string
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("%s returned unusable content: %s", e.Provider, e.Reason)
}
