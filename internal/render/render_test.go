package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiledeal.ai/internal/protocol"
)

func sampleDeal() protocol.DealMsg {
	return protocol.DealMsg{
		Type:            protocol.TypeDeal,
		ProtocolVersion: protocol.Version,
		DealID:          "d1",
		Players:         2,
		Seed:            7,
		Attempts:        3,
		Digest:          "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		Shared: protocol.PileMsg{
			Tiles:     []protocol.TileRef{{ID: 0, Name: "Mecatol Rex", Resource: 1, Influence: 6}},
			Resource:  1,
			Influence: 6,
		},
		Hands: []protocol.HandMsg{
			{Seat: 1, Budget: [2]int{3, 1}, PileMsg: protocol.PileMsg{
				Tiles:     []protocol.TileRef{{ID: 7, Name: "Lodor", Resource: 3, Influence: 1, Flags: []string{"WORMHOLE"}}},
				Resource:  3,
				Influence: 1,
			}},
			{Seat: 2, Budget: [2]int{0, 0}, PileMsg: protocol.PileMsg{
				Tiles: []protocol.TileRef{
					{ID: 23, Name: "Nebula <x>", Flags: []string{"ANOMALY"}},
					{ID: 28, Name: "Empty", Flags: []string{"ANOMALY", "BLANK"}},
				},
			}},
		},
	}
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sampleDeal()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Tile deal for 2 players\n"))
	shared := strings.Index(out, "\nShared\n")
	p1 := strings.Index(out, "\nPlayer 1\n")
	p2 := strings.Index(out, "\nPlayer 2\n")
	require.True(t, shared >= 0 && p1 > shared && p2 > p1, out)

	assert.Contains(t, out, "  Mecatol Rex            1/6\n")
	assert.Contains(t, out, "  Lodor                  3/1  W\n")
	assert.Contains(t, out, "  Empty                  0/0  AB\n")
	assert.Contains(t, out, "Number of systems 1, total resource 1, total influence 6")
	assert.Contains(t, out, "Number of systems 2, total resource 0, total influence 0")
	assert.Contains(t, out, "seed 7, 3 attempt(s), digest 0123456789ab\n")
}

func TestHTML_EscapesNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, sampleDeal()))
	out := buf.String()

	assert.Contains(t, out, "<h2>Player 2</h2>")
	assert.Contains(t, out, "Nebula &lt;x&gt;")
	assert.NotContains(t, out, "Nebula <x>")
	assert.Contains(t, out, "<td>AB</td>")
}

func TestRender(t *testing.T) {
	assert.Equal(t, []string{"html", "json", "text"}, Formats())
	assert.True(t, Supported(FormatHTML))
	assert.False(t, Supported("xml"))

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatJSON, sampleDeal()))
	var got protocol.DealMsg
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleDeal(), got)

	err := Render(&buf, "xml", sampleDeal())
	assert.ErrorContains(t, err, `unknown format "xml"`)
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONError(&buf, protocol.ErrorMsg{Type: protocol.TypeError, Code: protocol.ErrConfig}))
	m, err := protocol.DecodeBase(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, protocol.TypeError, m.Type)
}
