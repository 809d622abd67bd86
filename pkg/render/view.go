package render

import (
	"github.com/matzehuels/spacemark/pkg/annotate"
	"github.com/matzehuels/spacemark/pkg/geom"
	"github.com/matzehuels/spacemark/pkg/scene"
)

const (
	backgroundColor = "#FFFFFF"
	layerColor      = "#C8C8C8"
)

// view is the renderer-neutral drawing list shared by SVG and PNG.
type view struct {
	title  string
	width  float64
	height float64
	layers []outline
	shapes []mark
}

type outline struct {
	id    string
	frame geom.Rect
}

type mark struct {
	group string
	frame geom.Rect
	paint annotate.Paint
	color string
}

// buildView lays out the annotations of one artboard. Coordinates are
// shifted so the canvas origin is (0, 0).
func buildView(doc *scene.Document, anns []annotate.Annotation, c config) view {
	var v view
	boardID := c.artboardID
	if boardID == "" && len(anns) > 0 {
		boardID = anns[0].ArtboardID
	}

	var board *scene.Layer
	var ix *scene.Index
	if doc != nil {
		ix = doc.Index()
		board, _ = ix.Find(boardID)
	}

	var selected []annotate.Annotation
	for _, a := range anns {
		if a.ArtboardID == boardID {
			selected = append(selected, a)
		}
	}

	var offX, offY float64
	if board != nil {
		v.title = board.DisplayName()
		v.width, v.height = board.Frame.Width, board.Frame.Height
	} else {
		bounds, ok := annotationBounds(selected)
		if ok {
			offX, offY = c.padding-bounds.X, c.padding-bounds.Y
			v.width, v.height = bounds.Width+2*c.padding, bounds.Height+2*c.padding
		} else {
			v.width, v.height = 2*c.padding, 2*c.padding
		}
		v.title = "annotations"
	}

	if board != nil && c.showLayers {
		var visit func(ls []*scene.Layer)
		visit = func(ls []*scene.Layer) {
			for _, l := range ls {
				v.layers = append(v.layers, outline{id: l.ID, frame: ix.ToArtboard(l, l.Bounds())})
				visit(l.Layers)
			}
		}
		visit(board.Layers)
	}

	for _, a := range selected {
		for _, s := range a.Shapes {
			v.shapes = append(v.shapes, mark{
				group: a.Name,
				frame: a.Absolute(s).Translate(offX, offY).Normalize(),
				paint: s.Paint,
				color: c.palette.Color(s.Style),
			})
		}
	}
	return v
}

func annotationBounds(anns []annotate.Annotation) (geom.Rect, bool) {
	var out geom.Rect
	found := false
	for _, a := range anns {
		for _, s := range a.Shapes {
			r := a.Absolute(s).Normalize()
			if !found {
				out, found = r, true
				continue
			}
			out = out.Union(r)
		}
	}
	return out, found
}
