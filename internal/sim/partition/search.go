package partition

import (
	"fmt"
	"math/rand"

	"tiledeal.ai/internal/sim/catalogs"
)

/*

Budget search

Each player still needs some number of tiles whose values add up to exactly
the player's remaining resource and influence. The search is a plain
depth-first walk over a shuffled list of unused tiles:

1. If no tiles are needed, succeed when both budgets are zero, fail otherwise.

2. Drop every candidate whose resource or influence exceeds what is left.
   Those tiles can never fit anywhere below this level.

3. Try the surviving candidates in order. For each one, recurse with the
   tile taken, both budgets reduced, one fewer tile needed, and only the
   candidates after it. Restricting to the suffix visits every subset once.

4. Return the first path that succeeds.

Nothing is written to the state until a full path is found, so a failed
search leaves the attempt exactly as it was.

*/

// fillPlayer finds and commits the rest of a player's tiles.
func fillPlayer(s *State, player int, rng *rand.Rand) error {
	candidates := s.unused()
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	need := s.tilesPerPlayer - len(s.players[player])
	resource, influence := s.resourceLeft[player], s.influenceLeft[player]
	chosen, ok := search(s.cat, candidates, resource, influence, need, make([]int, 0, max(need, 0)))
	if !ok {
		return fmt.Errorf("%w: player %d needs %d tiles for %d/%d from %d candidates",
			ErrSearchExhausted, player, need, resource, influence, len(candidates))
	}
	for _, id := range chosen {
		if err := s.allocate(id, player); err != nil {
			return err
		}
	}
	if s.resourceLeft[player] != 0 || s.influenceLeft[player] != 0 || len(s.players[player]) != s.tilesPerPlayer {
		return fmt.Errorf("%w: player %d left at %d/%d with %d tiles",
			ErrInvariant, player, s.resourceLeft[player], s.influenceLeft[player], len(s.players[player]))
	}
	return nil
}

func search(cat *catalogs.Catalog, candidates []int, resource, influence, count int, path []int) ([]int, bool) {
	if count < 0 {
		return nil, false
	}
	if count == 0 {
		return path, resource == 0 && influence == 0
	}

	feasible := make([]int, 0, len(candidates))
	for _, id := range candidates {
		t := cat.Tile(id)
		if t.Resource <= resource && t.Influence <= influence {
			feasible = append(feasible, id)
		}
	}

	for i, id := range feasible {
		t := cat.Tile(id)
		if got, ok := search(cat, feasible[i+1:], resource-t.Resource, influence-t.Influence, count-1, append(path, id)); ok {
			return got, true
		}
	}
	return nil, false
}
