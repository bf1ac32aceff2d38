package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/MalanSathya/terraformcoder-ai/pkg/diagram"
	"github.com/MalanSathya/terraformcoder-ai/pkg/errors"
)

// GraphvizEngine renders diagrams locally: the diagram text is parsed into
// a component graph, converted to DOT, and laid out by Graphviz. It needs
// no network or credentials, which makes it the CLI default and the
// fallback when no render proxy is configured.
type GraphvizEngine struct{}

// NewGraphvizEngine creates a local rendering engine.
func NewGraphvizEngine() *GraphvizEngine {
	return &GraphvizEngine{}
}

// Render parses spec.RawText and lays the graph out as SVG.
func (e *GraphvizEngine) Render(ctx context.Context, spec diagram.Spec) ([]byte, error) {
	g := diagram.Parse(spec.RawText)
	if len(g.Components) == 0 && len(g.Connections) == 0 {
		return nil, errors.New(errors.ErrCodeRenderFailed, "diagram text contains no components or connections")
	}

	dot := ToDOT(g, spec.Theme)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render")
	}
	return buf.Bytes(), nil
}

// categoryColors fills nodes by inferred category so the local rendering
// carries the same visual hints the live editor themes provide.
var categoryColors = map[diagram.Category]string{
	diagram.CategoryCompute:      "#d0e6fb",
	diagram.CategoryNetwork:      "#d7f5dd",
	diagram.CategoryDatabase:     "#fde2cf",
	diagram.CategoryLoadBalancer: "#e8dcf7",
	diagram.CategoryStorage:      "#fbf3c9",
	diagram.CategorySecurity:     "#f9d3d3",
	diagram.CategoryOther:        "#ececec",
}

// ToDOT converts a parsed diagram graph to Graphviz DOT. Connections whose
// endpoints were never declared as components are emitted as plain nodes so
// dangling references stay visible rather than being dropped.
func ToDOT(g diagram.Graph, theme diagram.Theme) string {
	fontcolor := "black"
	bgcolor := "transparent"
	if theme == diagram.ThemeDark {
		fontcolor = "#e6e6e6"
		bgcolor = "#1e1e1e"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", bgcolor)
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	declared := make(map[string]bool, len(g.Components))
	for _, c := range g.Components {
		declared[c.Label] = true
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", c.Label, c.Label, categoryColors[c.Category])
	}

	buf.WriteString("\n")
	for _, conn := range g.Connections {
		from := g.Resolve(conn.From)
		to := g.Resolve(conn.To)
		for _, endpoint := range []string{from, to} {
			if !declared[endpoint] {
				declared[endpoint] = true
				fmt.Fprintf(&buf, "  %q [fillcolor=%q];\n", endpoint, categoryColors[diagram.CategoryOther])
			}
		}
		if conn.Kind != diagram.KindOther && conn.Kind != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q, fontcolor=%q];\n", from, to, string(conn.Kind), fontcolor)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", from, to)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

var _ Engine = (*GraphvizEngine)(nil)
