package partition

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"tiledeal.ai/internal/sim/catalogs"
	"tiledeal.ai/internal/sim/tuning"
)

// Pile is an ordered list of tile ids with its value totals.
type Pile struct {
	Tiles     []int `json:"tiles"`
	Resource  int   `json:"resource"`
	Influence int   `json:"influence"`
}

// Hand is one player's share of the partition.
type Hand struct {
	Pile
	Budget tuning.Budget `json:"budget"`
	Quota  tuning.Quota  `json:"quota"`
}

// Result is a complete, verified partition.
type Result struct {
	Players  int    `json:"players"`
	Seed     int64  `json:"seed"`
	Attempts int    `json:"attempts"`
	Shared   Pile   `json:"shared"`
	Hands    []Hand `json:"hands"`
}

func newPile(cat *catalogs.Catalog, ids []int) Pile {
	r, i := cat.Totals(ids)
	return Pile{Tiles: append([]int(nil), ids...), Resource: r, Influence: i}
}

func (s *State) result() *Result {
	r := &Result{
		Players: s.numPlayers(),
		Shared:  newPile(s.cat, s.shared),
		Hands:   make([]Hand, s.numPlayers()),
	}
	for p := range s.players {
		r.Hands[p] = Hand{
			Pile:   newPile(s.cat, s.players[p]),
			Budget: s.budgets[p],
			Quota:  s.quotas[p],
		}
	}
	return r
}

// Digest is the sha256 of the result's JSON encoding. Two deals with the
// same inputs and seed have the same digest.
func (r *Result) Digest() string {
	b, err := json.Marshal(r)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Verify checks the result against the catalog and policy: every tile
// appears exactly once, every hand has the policy's tile count, matches its
// budget exactly, and meets its anomaly and blank minimums.
func (r *Result) Verify(cat *catalogs.Catalog, p tuning.Policy) error {
	if len(r.Hands) != p.Players {
		return fmt.Errorf("%w: %d hands for %d players", ErrInvariant, len(r.Hands), p.Players)
	}
	seen := make([]int, cat.Len())
	mark := func(ids []int) error {
		for _, id := range ids {
			if id < 0 || id >= cat.Len() {
				return fmt.Errorf("%w: tile %d out of range", ErrInvariant, id)
			}
			seen[id]++
		}
		return nil
	}
	if err := mark(r.Shared.Tiles); err != nil {
		return err
	}
	for pi, h := range r.Hands {
		if err := mark(h.Tiles); err != nil {
			return err
		}
		if len(h.Tiles) != p.TilesPerPlayer {
			return fmt.Errorf("%w: player %d holds %d tiles, want %d", ErrInvariant, pi, len(h.Tiles), p.TilesPerPlayer)
		}
		res, inf := cat.Totals(h.Tiles)
		if res != h.Budget.Resource || inf != h.Budget.Influence {
			return fmt.Errorf("%w: player %d totals %d/%d, budget %d/%d",
				ErrInvariant, pi, res, inf, h.Budget.Resource, h.Budget.Influence)
		}
		if res != h.Resource || inf != h.Influence {
			return fmt.Errorf("%w: player %d reported totals %d/%d, actual %d/%d",
				ErrInvariant, pi, h.Resource, h.Influence, res, inf)
		}
		var anomalies, blanks int
		for _, id := range h.Tiles {
			t := cat.Tile(id)
			if t.Has(catalogs.FlagAnomaly) {
				anomalies++
			}
			if t.Has(catalogs.FlagBlank) {
				blanks++
			}
		}
		if anomalies < h.Quota.MinAnomalies || blanks < h.Quota.MinBlanks {
			return fmt.Errorf("%w: player %d has %d anomalies/%d blanks, quota %d/%d",
				ErrInvariant, pi, anomalies, blanks, h.Quota.MinAnomalies, h.Quota.MinBlanks)
		}
	}
	for id, n := range seen {
		if n != 1 {
			return fmt.Errorf("%w: tile %d (%s) assigned %d times", ErrInvariant, id, cat.Tile(id).Name, n)
		}
	}
	return nil
}
