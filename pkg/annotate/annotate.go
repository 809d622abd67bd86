package annotate

import (
	"fmt"

	"github.com/matzehuels/spacemark/pkg/geom"
)

// BandWidth is the thickness of a gap band across the analysis axis.
const BandWidth = 24.0

// Paint selects how a shape is drawn.
type Paint int

const (
	// Fill draws a filled rectangle without a border.
	Fill Paint = iota
	// Border draws an unfilled outline.
	Border
)

func (p Paint) String() string {
	if p == Border {
		return "border"
	}
	return "fill"
}

func (p Paint) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Paint) UnmarshalText(b []byte) error {
	switch string(b) {
	case "fill":
		*p = Fill
	case "border":
		*p = Border
	default:
		return fmt.Errorf("invalid paint: %q", b)
	}
	return nil
}

// Shape is one rectangle for the host to draw.
type Shape struct {
	Frame geom.Rect `json:"frame"`
	Paint Paint     `json:"paint"`
	Style Style     `json:"style"`
}

// GapRectangle is the band drawn over one gap.
type GapRectangle struct {
	Frame geom.Rect
	Style Style
}

// Shape converts g to a borderless fill shape.
func (g GapRectangle) Shape() Shape {
	return Shape{Frame: g.Frame, Paint: Fill, Style: g.Style}
}

// CrossAxisOffset centers a [BandWidth] band inside a container whose size
// across the analysis axis is containerCross.
func CrossAxisOffset(containerCross float64) float64 {
	return containerCross/2 - BandWidth/2
}

// BuildGapRectangles maps each gap to a rectangle spanning the gap along
// axis and [crossAxisOffset, crossAxisOffset+crossAxisSize] across it.
// Negative gap widths are kept.
func BuildGapRectangles(gaps []geom.Interval, crossAxisOffset, crossAxisSize float64, axis geom.Axis, style Style) []GapRectangle {
	across := geom.Interval{Start: crossAxisOffset, End: crossAxisOffset + crossAxisSize}
	rects := make([]GapRectangle, len(gaps))
	for i, g := range gaps {
		rects[i] = GapRectangle{Frame: geom.FromIntervals(axis, g, across), Style: style}
	}
	return rects
}

// Outline returns a single border around frame.
func Outline(frame geom.Rect, style Style) []Shape {
	return []Shape{{Frame: frame, Paint: Border, Style: style}}
}

// Edges returns four zero-thickness borders along the sides of frame.
//
// The top and bottom edges carry widthStyle and the left and right edges
// carry its opposite. Vertical edges overhang the frame by half a point
// at each end so the corners close. Shapes come back in drawing order:
// top, bottom, left, right.
func Edges(frame geom.Rect, widthStyle Style) []Shape {
	side := widthStyle.Opposite()
	return []Shape{
		{Frame: geom.Rect{X: frame.X, Y: frame.Y + frame.Height, Width: frame.Width}, Paint: Border, Style: widthStyle},
		{Frame: geom.Rect{X: frame.X, Y: frame.Y, Width: frame.Width}, Paint: Border, Style: widthStyle},
		{Frame: geom.Rect{X: frame.X + frame.Width, Y: frame.Y - 0.5, Height: frame.Height + 1}, Paint: Border, Style: side},
		{Frame: geom.Rect{X: frame.X, Y: frame.Y - 0.5, Height: frame.Height + 1}, Paint: Border, Style: side},
	}
}
