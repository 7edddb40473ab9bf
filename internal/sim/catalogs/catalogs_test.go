package catalogs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_TilesJSONMatchesDefault(t *testing.T) {
	c, err := Load("../../../configs")
	require.NoError(t, err)
	def := Default()

	require.Equal(t, def.Len(), c.Len())
	assert.Equal(t, def.Tiles(), c.Tiles())
	assert.Len(t, c.Digest(), 64)
	assert.Equal(t, def.Digest(), c.Digest())
}

func TestDefault_IndexLists(t *testing.T) {
	c := Default()
	require.Equal(t, 33, c.Len())

	assert.Equal(t, []int{0}, c.Center())
	assert.Equal(t, []int{7, 13, 21, 22}, c.Wormholes())
	assert.Equal(t, []int{23, 24, 25, 26, 27}, c.Anomalies())
	assert.Equal(t, []int{28, 29, 30, 31, 32}, c.Blanks())
	assert.Equal(t, []int{19, 20}, c.LowestValue())

	r, i := c.Totals([]int{1, 2})
	assert.Equal(t, 10, r)
	assert.Equal(t, 4, i)
}

func TestCatalog_IndexListsAreCopies(t *testing.T) {
	c := Default()
	w := c.Wormholes()
	w[0] = 99
	assert.Equal(t, 7, c.Wormholes()[0])
}

func TestNew_OverlappingFlags(t *testing.T) {
	c, err := New([]TileDef{
		{Name: "plain", Resource: 1, Influence: 1},
		{Name: "odd", Flags: []string{"ANOMALY", "BLANK"}},
	})
	require.NoError(t, err)
	assert.True(t, c.Tile(1).Has(FlagAnomaly))
	assert.True(t, c.Tile(1).Has(FlagBlank))
	assert.False(t, c.Tile(1).Has(FlagWormhole))
	assert.Equal(t, []int{1}, c.Anomalies())
	assert.Equal(t, []int{1}, c.Blanks())
	assert.Equal(t, "ANOMALY|BLANK", c.Tile(1).Flags.String())
	assert.Equal(t, "NONE", c.Tile(0).Flags.String())
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New([]TileDef{{Name: " "}})
	assert.Error(t, err)

	_, err = New([]TileDef{{Name: "x", Resource: -1}})
	assert.Error(t, err)

	_, err = New([]TileDef{{Name: "x", Flags: []string{"NEBULA"}}})
	assert.Error(t, err)
}

func TestParse_SchemaValidation(t *testing.T) {
	_, err := Parse([]byte(`[{"name":"x","resource":1,"influence":1}]`))
	require.NoError(t, err)

	cases := map[string]string{
		"not an array":   `{"name":"x"}`,
		"missing value":  `[{"name":"x","resource":1}]`,
		"negative":       `[{"name":"x","resource":-1,"influence":0}]`,
		"unknown flag":   `[{"name":"x","resource":0,"influence":0,"flags":["NEBULA"]}]`,
		"unknown field":  `[{"name":"x","resource":0,"influence":0,"planet":true}]`,
		"fractional":     `[{"name":"x","resource":1.5,"influence":0}]`,
		"empty catalog":  `[]`,
		"malformed json": `[{`,
	}
	for name, raw := range cases {
		_, err := Parse([]byte(raw))
		assert.Error(t, err, name)
	}
}

func TestParse_DigestTracksContent(t *testing.T) {
	a, err := Parse([]byte(`[{"name":"x","resource":1,"influence":1}]`))
	require.NoError(t, err)
	b, err := Parse([]byte(`[{"name":"x","resource":1,"influence":2}]`))
	require.NoError(t, err)
	assert.NotEqual(t, a.Digest(), b.Digest())

	spaced, err := Parse([]byte("[\n  {\"name\": \"x\", \"influence\": 1, \"resource\": 1}\n]"))
	require.NoError(t, err)
	assert.Equal(t, a.Digest(), spaced.Digest())
}
