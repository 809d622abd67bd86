package scene

import (
	"slices"

	"github.com/matzehuels/spacemark/pkg/geom"
)

// Type is the host class of a layer.
type Type string

const (
	TypeGroup          Type = "Group"
	TypeSymbolInstance Type = "SymbolInstance"
	TypeSymbolMaster   Type = "SymbolMaster"
	TypeArtboard       Type = "Artboard"
	TypeText           Type = "Text"
	TypeShape          Type = "Shape"
	TypeShapePath      Type = "ShapePath"
	TypeRectangle      Type = "Rectangle"
	TypeOval           Type = "Oval"
	TypeTriangle       Type = "Triangle"
	TypeStar           Type = "Star"
	TypePolygon        Type = "Polygon"
	TypeBitmap         Type = "Bitmap"
	TypeSlice          Type = "Slice"
	TypeHotspot        Type = "Hotspot"
	TypePage           Type = "Page"
)

var knownTypes = []Type{
	TypeGroup, TypeSymbolInstance, TypeSymbolMaster, TypeArtboard, TypeText,
	TypeShape, TypeShapePath, TypeRectangle, TypeOval, TypeTriangle, TypeStar,
	TypePolygon, TypeBitmap, TypeSlice, TypeHotspot, TypePage,
}

// selectable lists the types an annotation may start from.
var selectable = []Type{
	TypeShape, TypeRectangle, TypeOval, TypeTriangle, TypeShapePath, TypeStar,
	TypePolygon, TypeHotspot, TypeText, TypeGroup, TypeArtboard,
	TypeSymbolMaster, TypeBitmap, TypeSlice, TypeSymbolInstance,
}

// Known reports whether t is a recognized layer type.
func (t Type) Known() bool { return slices.Contains(knownTypes, t) }

// AllowedSelection reports whether a layer of type t may be annotated.
func AllowedSelection(t Type) bool { return slices.Contains(selectable, t) }

// HasChildren reports whether children annotations apply to t.
func (t Type) HasChildren() bool { return t == TypeGroup || t == TypeSymbolInstance }

// IsArtboard reports whether t is a top-level frame.
func (t Type) IsArtboard() bool { return t == TypeArtboard || t == TypeSymbolMaster }

// Layer is one node of the layer tree.
type Layer struct {
	ID        string      `json:"id" yaml:"id"`
	Name      string      `json:"name,omitempty" yaml:"name,omitempty"`
	Type      Type        `json:"type" yaml:"type"`
	Frame     geom.Rect   `json:"frame" yaml:"frame"`
	Fragments []geom.Rect `json:"fragments,omitempty" yaml:"fragments,omitempty"`
	Layers    []*Layer    `json:"layers,omitempty" yaml:"layers,omitempty"`
}

// Bounds returns the layer's own rectangle in local coordinates.
func (l *Layer) Bounds() geom.Rect {
	return geom.Rect{Width: l.Frame.Width, Height: l.Frame.Height}
}

// LineFragments returns the layer's fragments, or its bounds when it has
// none.
func (l *Layer) LineFragments() []geom.Rect {
	if len(l.Fragments) > 0 {
		return l.Fragments
	}
	return []geom.Rect{l.Bounds()}
}

// DisplayName returns Name, or ID when the layer is unnamed.
func (l *Layer) DisplayName() string {
	if l.Name != "" {
		return l.Name
	}
	return l.ID
}

// Page holds top-level layers.
type Page struct {
	ID     string   `json:"id" yaml:"id"`
	Name   string   `json:"name,omitempty" yaml:"name,omitempty"`
	Layers []*Layer `json:"layers,omitempty" yaml:"layers,omitempty"`
}

// Document is a design file with its selection.
type Document struct {
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	Pages     []*Page  `json:"pages" yaml:"pages"`
	Selection []string `json:"selection,omitempty" yaml:"selection,omitempty"`

	index *Index
}

// Index returns the lookup index, building it on first use.
// Documents built by hand should not be mutated after the first call.
func (d *Document) Index() *Index {
	if d.index == nil {
		d.index = buildIndex(d)
	}
	return d.index
}

// Walk visits every layer depth-first in document order. Returning false
// from fn stops descent into that layer's children.
func (d *Document) Walk(fn func(l *Layer, depth int) bool) {
	var visit func(ls []*Layer, depth int)
	visit = func(ls []*Layer, depth int) {
		for _, l := range ls {
			if fn(l, depth) {
				visit(l.Layers, depth+1)
			}
		}
	}
	for _, p := range d.Pages {
		if p != nil {
			visit(p.Layers, 0)
		}
	}
}
