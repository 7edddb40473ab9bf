package partition

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiledeal.ai/internal/sim/catalogs"
	"tiledeal.ai/internal/sim/tuning"
)

func dealSix(t *testing.T) (*catalogs.Catalog, tuning.Policy, *Result) {
	t.Helper()
	cat := catalogs.Default()
	table := tuning.Defaults()
	policy, err := table.Lookup(6)
	require.NoError(t, err)
	r, err := NewGenerator(cat, table).Deal(context.Background(), 6, 11)
	require.NoError(t, err)
	return cat, policy, r
}

func TestVerify_DetectsTampering(t *testing.T) {
	cases := map[string]func(r *Result){
		"duplicate tile": func(r *Result) {
			r.Hands[0].Tiles[0] = r.Hands[1].Tiles[0]
		},
		"missing tile": func(r *Result) {
			r.Shared.Tiles = r.Shared.Tiles[1:]
		},
		"out of range": func(r *Result) {
			r.Shared.Tiles = append(r.Shared.Tiles, 99)
		},
		"budget mismatch": func(r *Result) {
			r.Hands[2].Budget.Resource++
		},
		"reported totals": func(r *Result) {
			r.Hands[3].Influence++
		},
		"quota": func(r *Result) {
			r.Hands[4].Quota.MinBlanks = 5
		},
		"hand count": func(r *Result) {
			r.Hands = r.Hands[:5]
		},
	}
	for name, tamper := range cases {
		cat, policy, r := dealSix(t)
		require.NoError(t, r.Verify(cat, policy))
		tamper(r)
		err := r.Verify(cat, policy)
		assert.True(t, errors.Is(err, ErrInvariant), "%s: %v", name, err)
	}
}

func TestVerify_WrongTileCount(t *testing.T) {
	cat, policy, r := dealSix(t)
	policy.TilesPerPlayer = 4
	assert.True(t, errors.Is(r.Verify(cat, policy), ErrInvariant))
}

func TestResult_JSONShape(t *testing.T) {
	_, _, r := dealSix(t)
	b, err := json.Marshal(r)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.EqualValues(t, 6, doc["players"])
	assert.EqualValues(t, 11, doc["seed"])
	hands := doc["hands"].([]any)
	require.Len(t, hands, 6)
	h0 := hands[0].(map[string]any)
	for _, k := range []string{"tiles", "resource", "influence", "budget", "quota"} {
		assert.Contains(t, h0, k)
	}

	d := r.Digest()
	r.Attempts++
	assert.NotEqual(t, d, r.Digest())
}
