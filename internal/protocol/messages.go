package protocol

import (
	"github.com/google/uuid"

	"tiledeal.ai/internal/sim/catalogs"
	"tiledeal.ai/internal/sim/encoding"
	"tiledeal.ai/internal/sim/partition"
)

// DEAL: a finished partition.
type DealMsg struct {
	Type            string    `json:"type"`
	ProtocolVersion string    `json:"protocol_version"`
	DealID          string    `json:"deal_id"`
	CatalogDigest   string    `json:"catalog_digest"`
	Players         int       `json:"players"`
	Seed            int64     `json:"seed"`
	Attempts        int       `json:"attempts"`
	Digest          string    `json:"digest"` // sha256 hex of the result
	Layout          string    `json:"layout"` // owner seat per tile id, see encoding.EncodeLayout
	Shared          PileMsg   `json:"shared"`
	Hands           []HandMsg `json:"hands"`
}

type PileMsg struct {
	Tiles     []TileRef `json:"tiles"`
	Resource  int       `json:"resource"`
	Influence int       `json:"influence"`
}

type HandMsg struct {
	Seat int `json:"seat"` // 1-based
	PileMsg
	Budget [2]int `json:"budget"`
}

type TileRef struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Resource  int      `json:"resource"`
	Influence int      `json:"influence"`
	Flags     []string `json:"flags,omitempty"`
}

// ERROR: a deal that could not be produced.
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	DealID          string `json:"deal_id"`
	Players         int    `json:"players"`
	Seed            int64  `json:"seed"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}

// NewDealID returns a fresh identifier for a deal and its trace.
func NewDealID() string { return uuid.NewString() }

func NewDealMsg(dealID string, cat *catalogs.Catalog, r *partition.Result) DealMsg {
	m := DealMsg{
		Type:            TypeDeal,
		ProtocolVersion: Version,
		DealID:          dealID,
		CatalogDigest:   cat.Digest(),
		Players:         r.Players,
		Seed:            r.Seed,
		Attempts:        r.Attempts,
		Digest:          r.Digest(),
		Layout:          encoding.EncodeLayout(Owners(cat.Len(), r)),
		Shared:          pileMsg(cat, r.Shared),
		Hands:           make([]HandMsg, 0, len(r.Hands)),
	}
	for i, h := range r.Hands {
		m.Hands = append(m.Hands, HandMsg{
			Seat:    i + 1,
			PileMsg: pileMsg(cat, h.Pile),
			Budget:  [2]int{h.Budget.Resource, h.Budget.Influence},
		})
	}
	return m
}

// Owners returns the seat holding each tile id: 0 for the shared pool,
// 1..N for players.
func Owners(numTiles int, r *partition.Result) []uint16 {
	out := make([]uint16, numTiles)
	for i, h := range r.Hands {
		for _, id := range h.Tiles {
			out[id] = uint16(i + 1)
		}
	}
	return out
}

func NewErrorMsg(dealID string, players int, seed int64, err error) ErrorMsg {
	return ErrorMsg{
		Type:            TypeError,
		ProtocolVersion: Version,
		DealID:          dealID,
		Players:         players,
		Seed:            seed,
		Code:            CodeFor(err),
		Message:         err.Error(),
	}
}

func pileMsg(cat *catalogs.Catalog, p partition.Pile) PileMsg {
	out := PileMsg{
		Tiles:     make([]TileRef, 0, len(p.Tiles)),
		Resource:  p.Resource,
		Influence: p.Influence,
	}
	for _, id := range p.Tiles {
		out.Tiles = append(out.Tiles, tileRef(cat.Tile(id)))
	}
	return out
}

func tileRef(t catalogs.Tile) TileRef {
	ref := TileRef{ID: t.ID, Name: t.Name, Resource: t.Resource, Influence: t.Influence}
	for _, f := range []catalogs.Flag{catalogs.FlagWormhole, catalogs.FlagAnomaly, catalogs.FlagBlank} {
		if t.Has(f) {
			ref.Flags = append(ref.Flags, f.String())
		}
	}
	return ref
}
