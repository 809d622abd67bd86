package render

import (
	"bytes"
	"fmt"
	"strings"

	svg "github.com/ajstarks/svgo/float"

	"github.com/matzehuels/spacemark/pkg/annotate"
	"github.com/matzehuels/spacemark/pkg/scene"
)

const borderWidth = 1.0

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// escapeXML makes s safe inside an attribute value.
func escapeXML(s string) string { return xmlEscaper.Replace(s) }

// RenderSVG draws the annotations of one artboard over a white canvas.
// Fill shapes have no stroke and border shapes no fill. Zero-thickness
// borders become lines.
func RenderSVG(doc *scene.Document, anns []annotate.Annotation, opts ...Option) ([]byte, error) {
	v := buildView(doc, anns, newConfig(opts))

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(v.width, v.height, fmt.Sprintf(`viewBox="0 0 %g %g"`, v.width, v.height))
	canvas.Title(v.title)
	canvas.Rect(0, 0, v.width, v.height, "fill:"+backgroundColor)

	if len(v.layers) > 0 {
		canvas.Gid("layers")
		for _, l := range v.layers {
			canvas.Rect(l.frame.X, l.frame.Y, l.frame.Width, l.frame.Height,
				fmt.Sprintf(`id="layer-%s" style="fill:none;stroke:%s;stroke-width:0.5"`, escapeXML(l.id), layerColor))
		}
		canvas.Gend()
	}

	canvas.Gid("annotations")
	group := ""
	for i, m := range v.shapes {
		if m.group != group {
			if i > 0 {
				canvas.Gend()
			}
			canvas.Group(fmt.Sprintf(`class="annotation" data-name="%s"`, escapeXML(m.group)))
			group = m.group
		}
		drawMark(canvas, m)
	}
	if len(v.shapes) > 0 {
		canvas.Gend()
	}
	canvas.Gend()
	canvas.End()
	return buf.Bytes(), nil
}

func drawMark(canvas *svg.SVG, m mark) {
	r := m.frame
	if m.paint == annotate.Fill {
		canvas.Rect(r.X, r.Y, r.Width, r.Height, "fill:"+m.color+";stroke:none")
		return
	}
	stroke := fmt.Sprintf("stroke:%s;stroke-width:%g", m.color, borderWidth)
	if r.Width == 0 || r.Height == 0 {
		canvas.Line(r.X, r.Y, r.MaxX(), r.MaxY(), stroke)
		return
	}
	canvas.Rect(r.X, r.Y, r.Width, r.Height, "fill:none;"+stroke)
}
