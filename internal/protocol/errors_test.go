package protocol

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"tiledeal.ai/internal/sim/partition"
)

func TestIsKnownCode(t *testing.T) {
	cases := []string{
		"",
		ErrConfig,
		ErrResourceExhausted,
		ErrSearchExhausted,
		ErrRetriesExhausted,
		ErrInvariant,
		ErrCanceled,
		ErrInternal,
	}
	for _, c := range cases {
		if !IsKnownCode(c) {
			t.Fatalf("expected known code: %q", c)
		}
	}
	if IsKnownCode("E_NOT_DEFINED") {
		t.Fatalf("expected unknown code rejected")
	}
}

func TestCodeFor(t *testing.T) {
	cases := map[string]error{
		"":                   nil,
		ErrConfig:            fmt.Errorf("%w: players 3", partition.ErrConfiguration),
		ErrResourceExhausted: fmt.Errorf("player 1 min anomalies 2: %w", partition.ErrResourceExhausted),
		ErrSearchExhausted:   fmt.Errorf("%w: player 0", partition.ErrSearchExhausted),
		ErrInvariant:         partition.ErrInvariant,
		ErrCanceled:          fmt.Errorf("deal canceled after 3 attempts: %w", context.Canceled),
		ErrInternal:          errors.New("boom"),
		// Exhaustion wins over the wrapped cause of the last attempt.
		ErrRetriesExhausted: fmt.Errorf("%w: last: %w", partition.ErrRetriesExhausted, partition.ErrSearchExhausted),
	}
	for want, err := range cases {
		assert.Equal(t, want, CodeFor(err), "%v", err)
		assert.True(t, IsKnownCode(CodeFor(err)))
	}
}
