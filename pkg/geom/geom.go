// Package geom holds the 1-D and 2-D value types shared by the resolver,
// the descriptor builder and the scene model.
//
// Coordinates follow the host convention: X grows to the right, Y grows
// downward, and a [Rect] is anchored at its top-left corner.
package geom

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/spacemark/pkg/errors"
)

// Interval is the extent of something along one axis.
// Start <= End is expected but not enforced.
type Interval struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Width returns End - Start. It is negative for inverted intervals.
func (i Interval) Width() float64 { return i.End - i.Start }

// IsZero reports whether the interval has no width.
func (i Interval) IsZero() bool { return i.Start == i.End }

// Contains reports whether other lies strictly inside i.
// Shared endpoints do not count as containment.
func (i Interval) Contains(other Interval) bool {
	return other.Start > i.Start && other.End < i.End
}

func (i Interval) String() string {
	return fmt.Sprintf("(%g, %g)", i.Start, i.End)
}

// Axis selects the dimension a 1-D analysis runs along.
type Axis int

const (
	// Horizontal analyses the X axis.
	Horizontal Axis = iota
	// Vertical analyses the Y axis.
	Vertical
)

// Perpendicular returns the other axis.
func (a Axis) Perpendicular() Axis {
	if a == Horizontal {
		return Vertical
	}
	return Horizontal
}

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// ParseAxis accepts "horizontal"/"x" and "vertical"/"y" in any case.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "x", "h":
		return Horizontal, nil
	case "vertical", "y", "v":
		return Vertical, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidAxis, "invalid axis: %q (must be 'horizontal' or 'vertical')", s)
}

// Rect is a frame anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// CenterX returns the horizontal center point.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterY returns the vertical center point.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Project returns the extent of r along a.
func (r Rect) Project(a Axis) Interval {
	if a == Vertical {
		return Interval{Start: r.Y, End: r.MaxY()}
	}
	return Interval{Start: r.X, End: r.MaxX()}
}

// Span returns the size of r along a.
func (r Rect) Span(a Axis) float64 {
	if a == Vertical {
		return r.Height
	}
	return r.Width
}

// Cross returns the extent of r perpendicular to a.
func (r Rect) Cross(a Axis) Interval { return r.Project(a.Perpendicular()) }

// CrossSpan returns the size of r perpendicular to a.
func (r Rect) CrossSpan(a Axis) float64 { return r.Span(a.Perpendicular()) }

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// FromIntervals builds a rect from an interval along a and one across it.
func FromIntervals(a Axis, along, across Interval) Rect {
	if a == Vertical {
		along, across = across, along
	}
	return Rect{X: along.Start, Y: across.Start, Width: along.Width(), Height: across.Width()}
}

// Normalize flips negative sizes so the rect can be drawn.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Union returns the smallest rect covering r and o.
func (r Rect) Union(o Rect) Rect {
	r, o = r.Normalize(), o.Normalize()
	minX, minY := min(r.X, o.X), min(r.Y, o.Y)
	maxX, maxY := max(r.MaxX(), o.MaxX()), max(r.MaxY(), o.MaxY())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// IsFinite reports whether every field of r is a finite number.
func (r Rect) IsFinite() bool {
	for _, v := range [...]float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

func (r Rect) String() string {
	return fmt.Sprintf("{x:%g y:%g w:%g h:%g}", r.X, r.Y, r.Width, r.Height)
}
