// Package tree renders a document's layer hierarchy as a Graphviz diagram,
// which helps when checking which layers count as direct children.
package tree

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/spacemark/pkg/scene"
)

// Options configures [ToDOT].
type Options struct {
	// Frames adds each layer's frame to its label.
	Frames bool
}

// ToDOT converts the layer tree of doc to DOT. Pages are clusters,
// selected layers are highlighted and layers eligible for children
// annotations are drawn as folders.
func ToDOT(doc *scene.Document, opts Options) string {
	selected := make(map[string]bool, len(doc.Selection))
	for _, id := range doc.Selection {
		selected[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph layers {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=12];\n")

	for i, p := range doc.Pages {
		if p == nil {
			continue
		}
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", pageLabel(p))
		var visit func(parent *scene.Layer, ls []*scene.Layer)
		visit = func(parent *scene.Layer, ls []*scene.Layer) {
			for _, l := range ls {
				fmt.Fprintf(&buf, "    %q [%s];\n", l.ID, strings.Join(attrs(l, selected[l.ID], opts), ", "))
				if parent != nil {
					fmt.Fprintf(&buf, "    %q -> %q;\n", parent.ID, l.ID)
				}
				visit(l, l.Layers)
			}
		}
		visit(nil, p.Layers)
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func pageLabel(p *scene.Page) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

func attrs(l *scene.Layer, selected bool, opts Options) []string {
	label := fmt.Sprintf("%s\n%s", l.DisplayName(), l.Type)
	if opts.Frames {
		label += "\n" + l.Frame.String()
	}
	out := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case l.Type.IsArtboard():
		out = append(out, "shape=box3d")
	case l.Type.HasChildren():
		out = append(out, "shape=folder")
	}
	if selected {
		out = append(out, "fillcolor=\"#FFE3E0\"", "penwidth=2")
	}
	return out
}

// RenderSVG lays out a DOT graph with Graphviz and returns SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

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
