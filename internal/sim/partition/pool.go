package partition

import "fmt"

// pool hands out tiles from a fixed list through a cursor. Tiles that were
// allocated elsewhere since the pool was built are skipped.
type pool struct {
	name  string
	tiles []int
	next  int
}

func newPool(name string, tiles []int) *pool {
	return &pool{name: name, tiles: tiles}
}

func (p *pool) take(s *State) (int, error) {
	for p.next < len(p.tiles) {
		id := p.tiles[p.next]
		p.next++
		if !s.used[id] {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %s pool empty", ErrResourceExhausted, p.name)
}

// rest returns the tiles the pool has not handed out and nobody else has used.
func (p *pool) rest(s *State) []int {
	var out []int
	for _, id := range p.tiles[p.next:] {
		if !s.used[id] {
			out = append(out, id)
		}
	}
	return out
}
