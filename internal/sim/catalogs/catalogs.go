package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Flag marks a tile as belonging to a special category. Flags are
// independent bits; a tile may carry any combination.
type Flag uint8

const (
	FlagWormhole Flag = 1 << iota
	FlagAnomaly
	FlagBlank
)

var flagNames = map[string]Flag{
	"WORMHOLE": FlagWormhole,
	"ANOMALY":  FlagAnomaly,
	"BLANK":    FlagBlank,
}

func (f Flag) String() string {
	var parts []string
	if f&FlagWormhole != 0 {
		parts = append(parts, "WORMHOLE")
	}
	if f&FlagAnomaly != 0 {
		parts = append(parts, "ANOMALY")
	}
	if f&FlagBlank != 0 {
		parts = append(parts, "BLANK")
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

type Tile struct {
	ID        int
	Name      string
	Resource  int
	Influence int
	Flags     Flag
	Center    bool
}

func (t Tile) Has(f Flag) bool { return t.Flags&f != 0 }

// TileDef is the on-disk form of a tile. The tile id is its position in the file.
type TileDef struct {
	Name      string   `json:"name"`
	Resource  int      `json:"resource"`
	Influence int      `json:"influence"`
	Flags     []string `json:"flags,omitempty"`
	Center    bool     `json:"center,omitempty"`
}

// Catalog is the immutable tile inventory plus the index lists derived from
// it. Index lists are in catalog order.
type Catalog struct {
	tiles       []Tile
	wormholes   []int
	anomalies   []int
	blanks      []int
	lowestValue []int
	center      []int
	digest      string
}

const tilesSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["name", "resource", "influence"],
    "additionalProperties": false,
    "properties": {
      "name": {"type": "string", "minLength": 1},
      "resource": {"type": "integer", "minimum": 0},
      "influence": {"type": "integer", "minimum": 0},
      "flags": {
        "type": "array",
        "uniqueItems": true,
        "items": {"enum": ["WORMHOLE", "ANOMALY", "BLANK"]}
      },
      "center": {"type": "boolean"}
    }
  }
}`

var tilesSchema = jsonschema.MustCompileString("tiles.schema.json", tilesSchemaJSON)

// Load reads <configDir>/tiles.json.
func Load(configDir string) (*Catalog, error) {
	raw, err := os.ReadFile(filepath.Join(configDir, "tiles.json"))
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse validates raw tiles.json content against the tile schema and builds a catalog.
func Parse(raw []byte) (*Catalog, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("tiles.json: %w", err)
	}
	if err := tilesSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("tiles.json: %w", err)
	}
	var defs []TileDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("tiles.json: %w", err)
	}
	c, err := New(defs)
	if err != nil {
		return nil, fmt.Errorf("tiles.json: %w", err)
	}
	return c, nil
}

// New builds a catalog from tile definitions. The digest covers the
// canonical JSON encoding of defs.
func New(defs []TileDef) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("catalog must not be empty")
	}
	c := &Catalog{tiles: make([]Tile, 0, len(defs))}
	for i, d := range defs {
		if strings.TrimSpace(d.Name) == "" {
			return nil, fmt.Errorf("tile %d: empty name", i)
		}
		if d.Resource < 0 || d.Influence < 0 {
			return nil, fmt.Errorf("tile %d (%s): negative value", i, d.Name)
		}
		var flags Flag
		for _, name := range d.Flags {
			f, ok := flagNames[name]
			if !ok {
				return nil, fmt.Errorf("tile %d (%s): unknown flag %q", i, d.Name, name)
			}
			flags |= f
		}
		t := Tile{
			ID:        i,
			Name:      d.Name,
			Resource:  d.Resource,
			Influence: d.Influence,
			Flags:     flags,
			Center:    d.Center,
		}
		c.tiles = append(c.tiles, t)

		if t.Has(FlagWormhole) {
			c.wormholes = append(c.wormholes, i)
		}
		if t.Has(FlagAnomaly) {
			c.anomalies = append(c.anomalies, i)
		}
		if t.Has(FlagBlank) {
			c.blanks = append(c.blanks, i)
		}
		if t.Resource == 1 && t.Influence == 1 {
			c.lowestValue = append(c.lowestValue, i)
		}
		if t.Center {
			c.center = append(c.center, i)
		}
	}
	canon, err := json.Marshal(defs)
	if err != nil {
		return nil, err
	}
	c.digest = sha256Hex(canon)
	return c, nil
}

func (c *Catalog) Len() int { return len(c.tiles) }

func (c *Catalog) Tile(id int) Tile { return c.tiles[id] }

// Tiles returns a copy of the ordered tile list.
func (c *Catalog) Tiles() []Tile { return append([]Tile(nil), c.tiles...) }

func (c *Catalog) Wormholes() []int   { return cloneInts(c.wormholes) }
func (c *Catalog) Anomalies() []int   { return cloneInts(c.anomalies) }
func (c *Catalog) Blanks() []int      { return cloneInts(c.blanks) }
func (c *Catalog) LowestValue() []int { return cloneInts(c.lowestValue) }
func (c *Catalog) Center() []int      { return cloneInts(c.center) }

// Digest is the sha256 of the canonical tile definitions. Formatting of
// tiles.json does not affect it.
func (c *Catalog) Digest() string { return c.digest }

// Totals sums resource and influence over the given tile ids.
func (c *Catalog) Totals(ids []int) (resource, influence int) {
	for _, id := range ids {
		resource += c.tiles[id].Resource
		influence += c.tiles[id].Influence
	}
	return resource, influence
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func cloneInts(in []int) []int {
	if in == nil {
		return nil
	}
	return append([]int(nil), in...)
}
