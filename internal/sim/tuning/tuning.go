package tuning

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

const DefaultMaxAttempts = 100

var ErrUnsupportedPlayers = errors.New("unsupported player count")

// Budget is the exact resource/influence total a player's tiles must reach.
// YAML form: [resource, influence].
type Budget struct {
	Resource  int `json:"resource"`
	Influence int `json:"influence"`
}

func (b *Budget) UnmarshalYAML(n *yaml.Node) error {
	var v []int
	if err := n.Decode(&v); err != nil {
		return err
	}
	if len(v) != 2 {
		return fmt.Errorf("line %d: budget wants [resource, influence], got %d values", n.Line, len(v))
	}
	b.Resource, b.Influence = v[0], v[1]
	return nil
}

func (b Budget) MarshalYAML() (any, error) {
	return []int{b.Resource, b.Influence}, nil
}

// Quota is a per-player special-tile requirement. YAML form:
// [total, min_anomalies, min_blanks].
type Quota struct {
	Total        int `json:"total"`
	MinAnomalies int `json:"min_anomalies"`
	MinBlanks    int `json:"min_blanks"`
}

func (q *Quota) UnmarshalYAML(n *yaml.Node) error {
	var v []int
	if err := n.Decode(&v); err != nil {
		return err
	}
	if len(v) != 3 {
		return fmt.Errorf("line %d: quota wants [total, min_anomalies, min_blanks], got %d values", n.Line, len(v))
	}
	q.Total, q.MinAnomalies, q.MinBlanks = v[0], v[1], v[2]
	return nil
}

func (q Quota) MarshalYAML() (any, error) {
	return []int{q.Total, q.MinAnomalies, q.MinBlanks}, nil
}

func (q Quota) Add(o Quota) Quota {
	return Quota{
		Total:        q.Total + o.Total,
		MinAnomalies: q.MinAnomalies + o.MinAnomalies,
		MinBlanks:    q.MinBlanks + o.MinBlanks,
	}
}

type Policy struct {
	Players          int      `yaml:"-"`
	TilesPerPlayer   int      `yaml:"tiles_per_player"`
	SharedLowValue   int      `yaml:"shared_low_value"`
	Budgets          []Budget `yaml:"budgets"`
	SpecialsShuffled []Quota  `yaml:"specials_shuffled"`
	SpecialsFixed    []Quota  `yaml:"specials_fixed,omitempty"`
}

type Table struct {
	MaxAttempts int            `yaml:"max_attempts"`
	Policies    map[int]Policy `yaml:"policies"`
}

func Load(path string) (Table, error) {
	var t Table
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("policies.yaml: %w", err)
	}
	t.normalize()
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("policies.yaml: %w", err)
	}
	return t, nil
}

// LoadDir reads policies.yaml from configDir, falling back to Defaults when
// the file does not exist.
func LoadDir(configDir string) (Table, error) {
	t, err := Load(filepath.Join(configDir, "policies.yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	return t, err
}

func (t *Table) normalize() {
	if t.MaxAttempts <= 0 {
		t.MaxAttempts = DefaultMaxAttempts
	}
	for n, p := range t.Policies {
		p.Players = n
		t.Policies[n] = p
	}
}

func (t Table) Validate() error {
	if len(t.Policies) == 0 {
		return fmt.Errorf("policies must not be empty")
	}
	if t.MaxAttempts <= 0 {
		return fmt.Errorf("max_attempts must be > 0")
	}
	for _, n := range t.PlayerCounts() {
		if err := t.Policies[n].Validate(); err != nil {
			return fmt.Errorf("players %d: %w", n, err)
		}
	}
	return nil
}

// Lookup returns the policy for the given player count.
func (t Table) Lookup(players int) (Policy, error) {
	p, ok := t.Policies[players]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %d (supported: %v)", ErrUnsupportedPlayers, players, t.PlayerCounts())
	}
	return p, nil
}

func (t Table) PlayerCounts() []int {
	out := make([]int, 0, len(t.Policies))
	for n := range t.Policies {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Validate checks the policy's shape. It does not compare quotas against
// any catalog: an over-subscribed policy is a runtime failure, not a load error.
func (p Policy) Validate() error {
	if p.Players <= 0 {
		return fmt.Errorf("player count must be > 0")
	}
	if p.TilesPerPlayer <= 0 {
		return fmt.Errorf("tiles_per_player must be > 0")
	}
	if p.SharedLowValue < 0 {
		return fmt.Errorf("shared_low_value must be >= 0")
	}
	if len(p.Budgets) != p.Players {
		return fmt.Errorf("budgets: want %d entries, got %d", p.Players, len(p.Budgets))
	}
	for i, b := range p.Budgets {
		if b.Resource < 0 || b.Influence < 0 {
			return fmt.Errorf("budgets[%d] must be >= 0", i)
		}
	}
	if len(p.SpecialsShuffled) != p.Players {
		return fmt.Errorf("specials_shuffled: want %d entries, got %d", p.Players, len(p.SpecialsShuffled))
	}
	if len(p.SpecialsFixed) != 0 && len(p.SpecialsFixed) != p.Players {
		return fmt.Errorf("specials_fixed: want 0 or %d entries, got %d", p.Players, len(p.SpecialsFixed))
	}
	for i, q := range append(append([]Quota(nil), p.SpecialsShuffled...), p.SpecialsFixed...) {
		if q.Total < 0 || q.MinAnomalies < 0 || q.MinBlanks < 0 {
			return fmt.Errorf("specials[%d] must be >= 0", i)
		}
	}
	return nil
}

// ShuffledBudgets returns the budget pairs in a random seat order.
func (p Policy) ShuffledBudgets(rng *rand.Rand) []Budget {
	out := append([]Budget(nil), p.Budgets...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Quotas shuffles the shuffled specials across seats and adds the fixed
// specials, which stay pinned to their seat.
func (p Policy) Quotas(rng *rand.Rand) []Quota {
	out := append([]Quota(nil), p.SpecialsShuffled...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	for i := range out {
		if i < len(p.SpecialsFixed) {
			out[i] = out[i].Add(p.SpecialsFixed[i])
		}
	}
	return out
}

// Defaults returns the reference table, identical to configs/policies.yaml.
func Defaults() Table {
	t := Table{
		MaxAttempts: DefaultMaxAttempts,
		Policies: map[int]Policy{
			4: {
				TilesPerPlayer: 8,
				Budgets:        []Budget{{11, 13}, {11, 12}, {12, 12}, {12, 12}},
				SpecialsShuffled: []Quota{
					{3, 1, 1}, {3, 1, 1}, {2, 1, 1}, {2, 1, 1},
				},
			},
			5: {
				TilesPerPlayer: 6,
				SharedLowValue: 1,
				Budgets:        []Budget{{9, 10}, {9, 10}, {9, 10}, {9, 9}, {9, 9}},
				SpecialsShuffled: []Quota{
					{2, 1, 1}, {2, 1, 1}, {2, 1, 1}, {1, 1, 0}, {1, 1, 0},
				},
				SpecialsFixed: []Quota{
					{}, {}, {}, {}, {1, 0, 1},
				},
			},
			6: {
				TilesPerPlayer: 5,
				Budgets:        []Budget{{8, 8}, {8, 8}, {8, 8}, {8, 8}, {7, 8}, {7, 9}},
				SpecialsShuffled: []Quota{
					{1, 1, 0}, {1, 1, 0}, {1, 1, 0}, {1, 0, 1}, {1, 0, 1}, {1, 0, 1},
				},
				SpecialsFixed: []Quota{
					{}, {}, {}, {}, {1, 1, 0}, {1, 1, 0},
				},
			},
		},
	}
	t.normalize()
	return t
}
