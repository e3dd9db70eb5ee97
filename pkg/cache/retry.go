package cache

import (
	"context"
	"errors"
	"time"
)

// ErrBackend is wrapped around failures talking to a remote cache backend.
var ErrBackend = errors.New("cache backend error")

// transientError marks a backend failure worth another attempt.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Retryable marks err as transient. A nil error stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsRetryable reports whether err, or anything it wraps, was marked with
// Retryable.
func IsRetryable(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// Backoff retries an operation a fixed number of times, doubling the pause
// between attempts.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// DefaultBackoff is used by the Redis backend.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 100 * time.Millisecond}

// Do calls fn until it succeeds, returns an error not marked Retryable,
// or runs out of attempts. Cancelling ctx during a pause returns ctx.Err().
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	pause := b.Delay

	var err error
	for n := 1; ; n++ {
		err = fn()
		if err == nil || !IsRetryable(err) || n == attempts {
			return err
		}

		timer := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		pause *= 2
	}
}

// RetryWithBackoff runs fn under DefaultBackoff.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Do(ctx, fn)
}
