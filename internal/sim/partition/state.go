package partition

import (
	"fmt"

	"tiledeal.ai/internal/sim/catalogs"
	"tiledeal.ai/internal/sim/tuning"
)

// sharedSeat is the seat index used for the shared pool.
const sharedSeat = -1

// State is the mutable partition for one attempt. It is owned by that
// attempt and dropped when the attempt fails.
type State struct {
	cat            *catalogs.Catalog
	tilesPerPlayer int

	used          []bool
	shared        []int
	players       [][]int
	resourceLeft  []int
	influenceLeft []int

	budgets []tuning.Budget
	quotas  []tuning.Quota
}

func newState(cat *catalogs.Catalog, p tuning.Policy) *State {
	s := &State{
		cat:            cat,
		tilesPerPlayer: p.TilesPerPlayer,
		used:           make([]bool, cat.Len()),
		shared:         make([]int, 0, cat.Len()),
		players:        make([][]int, p.Players),
		resourceLeft:   make([]int, p.Players),
		influenceLeft:  make([]int, p.Players),
		budgets:        make([]tuning.Budget, p.Players),
		quotas:         make([]tuning.Quota, p.Players),
	}
	for i := range s.players {
		s.players[i] = make([]int, 0, p.TilesPerPlayer)
	}
	return s
}

func (s *State) numPlayers() int { return len(s.players) }

func (s *State) setBudget(player int, b tuning.Budget) {
	s.budgets[player] = b
	s.resourceLeft[player] = b.Resource
	s.influenceLeft[player] = b.Influence
}

// allocate marks tile as used and gives it to seat (sharedSeat for the
// shared pool). Player tiles are charged against the player's budget.
func (s *State) allocate(tile, seat int) error {
	if tile < 0 || tile >= len(s.used) {
		return fmt.Errorf("%w: tile %d out of range", ErrInvariant, tile)
	}
	if s.used[tile] {
		return fmt.Errorf("%w: tile %d (%s) allocated twice", ErrInvariant, tile, s.cat.Tile(tile).Name)
	}
	if seat == sharedSeat {
		s.used[tile] = true
		s.shared = append(s.shared, tile)
		return nil
	}
	if seat < 0 || seat >= len(s.players) {
		return fmt.Errorf("%w: seat %d out of range", ErrInvariant, seat)
	}
	if len(s.players[seat]) >= s.tilesPerPlayer {
		return fmt.Errorf("%w: player %d already holds %d tiles", ErrInvariant, seat, s.tilesPerPlayer)
	}
	t := s.cat.Tile(tile)
	s.used[tile] = true
	s.players[seat] = append(s.players[seat], tile)
	s.resourceLeft[seat] -= t.Resource
	s.influenceLeft[seat] -= t.Influence
	return nil
}

// unused lists tiles not yet allocated, in catalog order.
func (s *State) unused() []int {
	out := make([]int, 0, len(s.used))
	for id, u := range s.used {
		if !u {
			out = append(out, id)
		}
	}
	return out
}

// sweep moves every unallocated tile into the shared pool.
func (s *State) sweep() error {
	for _, id := range s.unused() {
		if err := s.allocate(id, sharedSeat); err != nil {
			return err
		}
	}
	return nil
}
