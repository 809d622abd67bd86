package annotate

import (
	"github.com/google/uuid"

	"github.com/matzehuels/spacemark/pkg/geom"
)

// Annotation is one group of shapes placed next to an annotated layer.
//
// Frame is in the coordinate space of the layer's parent, the way the host
// positions the group. Shapes are relative to Frame. ArtboardFrame is
// Frame expressed in the enclosing artboard's space, for previews.
type Annotation struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Command       string          `json:"command"`
	LayerID       string          `json:"layer_id"`
	ArtboardID    string          `json:"artboard_id,omitempty"`
	Frame         geom.Rect       `json:"frame"`
	ArtboardFrame geom.Rect       `json:"artboard_frame"`
	Shapes        []Shape         `json:"shapes"`
	Gaps          []geom.Interval `json:"gaps,omitempty"`
}

// Fit sets a.Frame to the bounding box of shapes given in parent
// coordinates and rebases the shapes onto it. An empty shape list leaves
// Frame unchanged.
func (a *Annotation) Fit(shapes []Shape) {
	if len(shapes) == 0 {
		a.Shapes = []Shape{}
		return
	}
	bounds := shapes[0].Frame.Normalize()
	for _, s := range shapes[1:] {
		bounds = bounds.Union(s.Frame)
	}
	a.Frame = bounds
	a.Shapes = make([]Shape, len(shapes))
	for i, s := range shapes {
		s.Frame = s.Frame.Translate(-bounds.X, -bounds.Y)
		a.Shapes[i] = s
	}
}

// Absolute returns s positioned in artboard coordinates.
func (a *Annotation) Absolute(s Shape) geom.Rect {
	return s.Frame.Translate(a.ArtboardFrame.X, a.ArtboardFrame.Y)
}
