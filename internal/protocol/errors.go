package protocol

import (
	"context"
	"errors"

	"tiledeal.ai/internal/sim/partition"
)

const (
	// Catalog or policy table rejected before any attempt ran.
	ErrConfig = "E_CONFIG"

	// Attempt-level failures. Retried by the generator.
	ErrResourceExhausted = "E_RESOURCE_EXHAUSTED"
	ErrSearchExhausted   = "E_SEARCH_EXHAUSTED"

	// Terminal.
	ErrRetriesExhausted = "E_RETRIES_EXHAUSTED"
	ErrInvariant        = "E_INVARIANT"
	ErrCanceled         = "E_CANCELED"
	ErrInternal         = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrConfig:            {},
	ErrResourceExhausted: {},
	ErrSearchExhausted:   {},
	ErrRetriesExhausted:  {},
	ErrInvariant:         {},
	ErrCanceled:          {},
	ErrInternal:          {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}

// CodeFor maps a generator error to its wire code. nil maps to "".
func CodeFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, partition.ErrConfiguration):
		return ErrConfig
	case errors.Is(err, partition.ErrRetriesExhausted):
		return ErrRetriesExhausted
	case errors.Is(err, partition.ErrResourceExhausted):
		return ErrResourceExhausted
	case errors.Is(err, partition.ErrSearchExhausted):
		return ErrSearchExhausted
	case errors.Is(err, partition.ErrInvariant):
		return ErrInvariant
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCanceled
	default:
		return ErrInternal
	}
}
