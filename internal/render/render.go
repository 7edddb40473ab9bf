// Package render formats a finished deal for people: a plain text listing
// for terminals and a standalone HTML page.
package render

import (
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"io"
	"sort"
	"strings"
	"text/template"

	"tiledeal.ai/internal/protocol"
)

const (
	FormatText = "text"
	FormatHTML = "html"
	FormatJSON = "json"
)

func Formats() []string {
	out := make([]string, 0, len(renderers))
	for name := range renderers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

var renderers = map[string]func(io.Writer, protocol.DealMsg) error{
	FormatText: Text,
	FormatHTML: HTML,
	FormatJSON: JSON,
}

func Supported(format string) bool {
	_, ok := renderers[format]
	return ok
}

// Render writes m in the named format.
func Render(w io.Writer, format string, m protocol.DealMsg) error {
	fn, ok := renderers[format]
	if !ok {
		return fmt.Errorf("unknown format %q (supported: %s)", format, strings.Join(Formats(), ", "))
	}
	return fn(w, m)
}

// section is one titled pile: the shared pool or a player's hand.
type section struct {
	Title     string
	Tiles     []protocol.TileRef
	Resource  int
	Influence int
}

type page struct {
	Title    string
	Sections []section
	Footer   string
}

func newPage(m protocol.DealMsg) page {
	p := page{
		Title:  fmt.Sprintf("Tile deal for %d players", m.Players),
		Footer: fmt.Sprintf("seed %d, %d attempt(s), digest %s", m.Seed, m.Attempts, shortDigest(m.Digest)),
	}
	p.Sections = append(p.Sections, section{
		Title:     "Shared",
		Tiles:     m.Shared.Tiles,
		Resource:  m.Shared.Resource,
		Influence: m.Shared.Influence,
	})
	for _, h := range m.Hands {
		p.Sections = append(p.Sections, section{
			Title:     fmt.Sprintf("Player %d", h.Seat),
			Tiles:     h.Tiles,
			Resource:  h.Resource,
			Influence: h.Influence,
		})
	}
	return p
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}

// markers abbreviates tile flags: W wormhole, A anomaly, B blank.
func markers(flags []string) string {
	var b strings.Builder
	for _, f := range flags {
		if f != "" {
			b.WriteByte(f[0])
		}
	}
	return b.String()
}

var funcs = map[string]any{
	"markers": markers,
}

var textTemplate = template.Must(template.New("text").Funcs(funcs).Parse(
	`{{.Title}}
{{range .Sections}}
{{.Title}}
{{- range .Tiles}}
  {{printf "%-22s %d/%d" .Name .Resource .Influence}}{{with markers .Flags}}  {{.}}{{end}}
{{- end}}
  Number of systems {{len .Tiles}}, total resource {{.Resource}}, total influence {{.Influence}}
{{end}}
{{.Footer}}
`))

func Text(w io.Writer, m protocol.DealMsg) error {
	return textTemplate.Execute(w, newPage(m))
}

var htmlTemplate = htmltemplate.Must(htmltemplate.New("html").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; }
table { border-collapse: collapse; margin-bottom: 1em; }
td, th { padding: 2px 8px; text-align: left; }
td.num { text-align: right; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Sections}}
<h2>{{.Title}}</h2>
<table>
<tr><th>System</th><th>Resource</th><th>Influence</th><th></th></tr>
{{- range .Tiles}}
<tr><td>{{.Name}}</td><td class="num">{{.Resource}}</td><td class="num">{{.Influence}}</td><td>{{markers .Flags}}</td></tr>
{{- end}}
</table>
<p>Number of systems {{len .Tiles}}, total resource {{.Resource}}, total influence {{.Influence}}</p>
{{end}}
<footer>{{.Footer}}</footer>
</body>
</html>
`))

func HTML(w io.Writer, m protocol.DealMsg) error {
	return htmlTemplate.Execute(w, newPage(m))
}

func JSON(w io.Writer, m protocol.DealMsg) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// JSONError writes a failed deal in the same encoding as JSON.
func JSONError(w io.Writer, m protocol.ErrorMsg) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
