package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/spacemark/pkg/annotate"
	"github.com/matzehuels/spacemark/pkg/errors"
	"github.com/matzehuels/spacemark/pkg/scene"
)

// MaxPixels bounds the PNG canvas area.
const MaxPixels = 1 << 26

// RenderPNG rasterizes the same preview as [RenderSVG] at the configured
// scale (default [DefaultScale]).
func RenderPNG(doc *scene.Document, anns []annotate.Annotation, opts ...Option) ([]byte, error) {
	c := newConfig(opts)
	v := buildView(doc, anns, c)

	fw, fh := math.Ceil(v.width*c.scale), math.Ceil(v.height*c.scale)
	if fw*fh > MaxPixels {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"canvas %gx%g at scale %g exceeds %d pixels", v.width, v.height, c.scale, MaxPixels)
	}
	w, h := int(fw), int(fh)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty canvas %gx%g", v.width, v.height)
	}

	dc := gg.NewContext(w, h)
	dc.Scale(c.scale, c.scale)
	dc.SetHexColor(backgroundColor)
	dc.Clear()

	dc.SetHexColor(layerColor)
	dc.SetLineWidth(0.5)
	for _, l := range v.layers {
		dc.DrawRectangle(l.frame.X, l.frame.Y, l.frame.Width, l.frame.Height)
		dc.Stroke()
	}

	dc.SetLineWidth(borderWidth)
	for _, m := range v.shapes {
		r := m.frame
		dc.SetHexColor(m.color)
		switch {
		case m.paint == annotate.Fill:
			dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
			dc.Fill()
		case r.Width == 0 || r.Height == 0:
			dc.DrawLine(r.X, r.Y, r.MaxX(), r.MaxY())
			dc.Stroke()
		default:
			dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
			dc.Stroke()
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
