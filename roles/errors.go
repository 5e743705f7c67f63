package roles

import (
	"errors"
	"fmt"
	"time"
)

// PanicError is what the Recover role returns in place of a panic.
type PanicError struct {
	Value any
	Stack []byte // nil when stack capture is disabled
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// TimeoutError is what the Timeout role returns when the deadline passes
// before the handler finishes.
type TimeoutError struct {
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

// ThrottleError is what the Throttle role returns once a client exhausts
// its window.
type ThrottleError struct {
	Limit  int64
	Window time.Duration
}

func (e *ThrottleError) Error() string {
	return fmt.Sprintf("rate limit exceeded: %d requests per %s", e.Limit, e.Window)
}

// StatusCode makes the default error handler render ThrottleError as 429.
func (e *ThrottleError) StatusCode() int {
	return 429
}

// IsPanicError reports whether err is (or wraps) a PanicError.
func IsPanicError(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}

// IsTimeoutError reports whether err is (or wraps) a TimeoutError.
func IsTimeoutError(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsThrottleError reports whether err is (or wraps) a ThrottleError.
func IsThrottleError(err error) bool {
	var te *ThrottleError
	return errors.As(err, &te)
}
