package casegraph

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ToDOT emits Graphviz source with every node pinned at its generated position, for the
// neato engine. Graphviz y grows upwards, so y is negated.
func ToDOT(g *Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=12, width=2.4, height=0.9, fixedsize=true];\n")
	buf.WriteString("  edge [arrowsize=0.6, color=\"#94a3b8\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		attrs := []string{
			fmt.Sprintf("label=%s", dotQuote(n.Data.Title+"\n"+n.Data.Primary+"\n"+n.Data.Secondary)),
			fmt.Sprintf("pos=\"%g,%g!\"", n.Position.X, flipY(n.Position.Y)),
		}
		if n.Color != "" {
			attrs = append(attrs, fmt.Sprintf("color=%s", dotQuote(n.Color)), "penwidth=2")
		}
		if n.Level == LevelCase {
			attrs = append(attrs, "fillcolor=\"#e2e8f0\"")
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", dotQuote(n.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		attrs := []string{fmt.Sprintf("penwidth=%g", e.StrokeWidth)}
		if e.Color != "" {
			attrs = append(attrs, fmt.Sprintf("color=%s", dotQuote(e.Color)))
		}
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", dotQuote(e.Source), dotQuote(e.Target), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG lays out dot with neato, which honours pinned positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// flipY avoids printing -0 for the top row.
func flipY(y float64) float64 {
	if y == 0 {
		return 0
	}
	return -y
}

// dotQuote DOT double-quoted string; newlines become centred line breaks.
func dotQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}
