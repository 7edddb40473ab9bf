package tuning

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoad_PoliciesYAMLMatchesDefaults(t *testing.T) {
	tab, err := Load("../../../configs/policies.yaml")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), tab)
	assert.Equal(t, []int{4, 5, 6}, tab.PlayerCounts())
	assert.Equal(t, 100, tab.MaxAttempts)
}

func TestLoadDir(t *testing.T) {
	tab, err := LoadDir("../../../configs")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), tab)

	// Missing file falls back to the built-in table.
	tab, err = LoadDir(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), tab)

	// A present but broken file is an error, not a fallback.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "policies.yaml"), []byte("policies: [\n"), 0o644))
	_, err = LoadDir(dir)
	assert.ErrorContains(t, err, "policies.yaml")
}

func TestDefaults_Validate(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestLookup_Unsupported(t *testing.T) {
	_, err := Defaults().Lookup(3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedPlayers))

	p, err := Defaults().Lookup(5)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Players)
	assert.Equal(t, 6, p.TilesPerPlayer)
	assert.Equal(t, 1, p.SharedLowValue)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		t.Helper()
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.True(t, os.IsNotExist(err))

	_, err = Load(write("short_budget.yaml", `
policies:
  2:
    tiles_per_player: 3
    budgets: [[1], [2, 2]]
    specials_shuffled: [[0, 0, 0], [0, 0, 0]]
`))
	assert.ErrorContains(t, err, "budget")

	_, err = Load(write("count_mismatch.yaml", `
policies:
  3:
    tiles_per_player: 3
    budgets: [[1, 1], [2, 2]]
    specials_shuffled: [[0, 0, 0], [0, 0, 0], [0, 0, 0]]
`))
	assert.ErrorContains(t, err, "budgets: want 3")

	_, err = Load(write("empty.yaml", "max_attempts: 5\n"))
	assert.ErrorContains(t, err, "policies must not be empty")

	tab, err := Load(write("default_attempts.yaml", `
policies:
  2:
    tiles_per_player: 1
    budgets: [[1, 1], [2, 2]]
    specials_shuffled: [[0, 0, 0], [0, 0, 0]]
`))
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxAttempts, tab.MaxAttempts)
}

func TestPolicyValidate(t *testing.T) {
	base := func() Policy {
		return Policy{
			Players:          2,
			TilesPerPlayer:   2,
			Budgets:          []Budget{{1, 1}, {1, 1}},
			SpecialsShuffled: []Quota{{}, {}},
		}
	}
	require.NoError(t, base().Validate())

	p := base()
	p.TilesPerPlayer = 0
	assert.Error(t, p.Validate())

	p = base()
	p.SharedLowValue = -1
	assert.Error(t, p.Validate())

	p = base()
	p.SpecialsFixed = []Quota{{}}
	assert.Error(t, p.Validate())

	p = base()
	p.SpecialsShuffled[1].MinBlanks = -1
	assert.Error(t, p.Validate())

	// Over-subscribed quotas are structurally fine.
	p = base()
	p.SpecialsShuffled = []Quota{{5, 5, 0}, {5, 5, 0}}
	assert.NoError(t, p.Validate())
}

func TestQuotas_FixedStayPinned(t *testing.T) {
	p, err := Defaults().Lookup(5)
	require.NoError(t, err)

	for seed := int64(1); seed <= 20; seed++ {
		q := p.Quotas(rand.New(rand.NewSource(seed)))
		require.Len(t, q, 5)
		// Seat 5 always gets the fixed blank on top of a shuffled quota.
		assert.GreaterOrEqual(t, q[4].MinBlanks, 1)
		total := Quota{}
		for _, x := range q {
			total = total.Add(x)
		}
		assert.Equal(t, Quota{Total: 9, MinAnomalies: 5, MinBlanks: 4}, total)
	}
}

func TestShuffledBudgets_Permutation(t *testing.T) {
	p, err := Defaults().Lookup(6)
	require.NoError(t, err)
	got := p.ShuffledBudgets(rand.New(rand.NewSource(7)))
	assert.ElementsMatch(t, p.Budgets, got)
	// The policy itself is never reordered.
	assert.Equal(t, Budget{7, 9}, p.Budgets[5])
}

func TestBudgetQuota_YAMLRoundTrip(t *testing.T) {
	out, err := yaml.Marshal(Policy{Budgets: []Budget{{3, 4}}, SpecialsShuffled: []Quota{{1, 2, 3}}})
	require.NoError(t, err)
	var back Policy
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, []Budget{{3, 4}}, back.Budgets)
	assert.Equal(t, []Quota{{1, 2, 3}}, back.SpecialsShuffled)
}
