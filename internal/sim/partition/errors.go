package partition

import "errors"

var (
	// ErrConfiguration is returned for an unsupported player count or a malformed policy. Never retried.
	ErrConfiguration = errors.New("configuration error")
	// ErrResourceExhausted means a category pool ran dry before its minimum quotas were met.
	ErrResourceExhausted = errors.New("resource exhausted")
	// ErrSearchExhausted means no exact-sum subset exists for a player from the remaining tiles.
	ErrSearchExhausted = errors.New("search exhausted")
	// ErrRetriesExhausted is returned when every attempt failed.
	ErrRetriesExhausted = errors.New("retries exhausted")
	// ErrInvariant signals a logic defect (double allocation, broken partition).
	ErrInvariant = errors.New("invariant violation")
)

// retryable reports whether an attempt failure should be discarded and retried.
func retryable(err error) bool {
	return errors.Is(err, ErrResourceExhausted) || errors.Is(err, ErrSearchExhausted)
}
