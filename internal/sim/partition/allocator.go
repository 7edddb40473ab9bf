package partition

import (
	"fmt"
	"math/rand"

	"tiledeal.ai/internal/sim/tuning"
)

// allocateCategories seeds a fresh state before any budget search runs:
// center tiles and low-value tiles go to the shared pool, budgets are dealt,
// then wormholes, anomalies and blanks are placed by quota.
func allocateCategories(s *State, p tuning.Policy, rng *rand.Rand) error {
	cat := s.cat

	for _, id := range cat.Center() {
		if err := s.allocate(id, sharedSeat); err != nil {
			return err
		}
	}

	low := cat.LowestValue()
	rng.Shuffle(len(low), func(i, j int) { low[i], low[j] = low[j], low[i] })
	lowPool := newPool("lowest-value", low)
	for i := 0; i < p.SharedLowValue; i++ {
		id, err := lowPool.take(s)
		if err != nil {
			return err
		}
		if err := s.allocate(id, sharedSeat); err != nil {
			return err
		}
	}

	for player, b := range p.ShuffledBudgets(rng) {
		s.setBudget(player, b)
	}

	// Wormholes go round-robin in catalog order.
	n := s.numPlayers()
	for i, id := range cat.Wormholes() {
		if s.used[id] {
			continue
		}
		if err := s.allocate(id, i%n); err != nil {
			return err
		}
	}

	quotas := p.Quotas(rng)
	copy(s.quotas, quotas)
	remaining := make([]int, n)
	for player, q := range quotas {
		remaining[player] = q.Total
	}

	anomalies := cat.Anomalies()
	rng.Shuffle(len(anomalies), func(i, j int) { anomalies[i], anomalies[j] = anomalies[j], anomalies[i] })
	anomalyPool := newPool("anomaly", anomalies)
	for player, q := range quotas {
		if err := dealFrom(s, anomalyPool, player, q.MinAnomalies); err != nil {
			return fmt.Errorf("player %d min anomalies %d: %w", player, q.MinAnomalies, err)
		}
		remaining[player] -= q.MinAnomalies
	}

	blankPool := newPool("blank", cat.Blanks())
	for player, q := range quotas {
		if err := dealFrom(s, blankPool, player, q.MinBlanks); err != nil {
			return fmt.Errorf("player %d min blanks %d: %w", player, q.MinBlanks, err)
		}
		remaining[player] -= q.MinBlanks
	}

	leftover := dedupe(append(anomalyPool.rest(s), blankPool.rest(s)...))
	rng.Shuffle(len(leftover), func(i, j int) { leftover[i], leftover[j] = leftover[j], leftover[i] })
	leftoverPool := newPool("special", leftover)
	for player := range quotas {
		n := min(remaining[player], len(leftoverPool.rest(s)))
		if err := dealFrom(s, leftoverPool, player, n); err != nil {
			return fmt.Errorf("player %d remaining specials %d: %w", player, n, err)
		}
	}
	for _, id := range leftoverPool.rest(s) {
		if err := s.allocate(id, sharedSeat); err != nil {
			return err
		}
	}
	return nil
}

// dealFrom moves count tiles from pool to player. A non-positive count deals nothing.
func dealFrom(s *State, from *pool, player, count int) error {
	for k := 0; k < count; k++ {
		id, err := from.take(s)
		if err != nil {
			return err
		}
		if err := s.allocate(id, player); err != nil {
			return err
		}
	}
	return nil
}

func dedupe(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
