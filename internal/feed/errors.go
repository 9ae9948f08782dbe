package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means the feed API answered with a non-success status.
	ErrUnavailable = errors.New("feed unavailable")

	// ErrMalformed means the feed API response could not be decoded.
	ErrMalformed = errors.New("feed malformed")
)

// StatusError carries the HTTP status of a failed feed request.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("moltbook api error: %d", e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnavailable
}

type malformedError struct {
	err error
}

func (e *malformedError) Error() string {
	return fmt.Sprintf("decode posts: %v", e.err)
}

func (e *malformedError) Unwrap() []error {
	return []error{ErrMalformed, e.err}
}
