package render

import (
	"encoding/json"

	"github.com/matzehuels/spacemark/pkg/annotate"
	"github.com/matzehuels/spacemark/pkg/scene"
)

type jsonDocument struct {
	Document    string           `json:"document,omitempty"`
	Annotations []jsonAnnotation `json:"annotations"`
}

type jsonAnnotation struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Command    string       `json:"command"`
	LayerID    string       `json:"layer_id"`
	ArtboardID string       `json:"artboard_id,omitempty"`
	Frame      jsonRect     `json:"frame"`
	Shapes     []jsonShape  `json:"shapes"`
	Gaps       [][2]float64 `json:"gaps,omitempty"`
}

type jsonRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonShape struct {
	jsonRect
	Paint string `json:"paint"`
	Style string `json:"style"`
	Color string `json:"color"`
}

// RenderJSON returns the indented descriptor list. Shape frames are
// relative to their annotation frame and keep negative sizes.
func RenderJSON(doc *scene.Document, anns []annotate.Annotation, opts ...Option) ([]byte, error) {
	c := newConfig(opts)
	out := jsonDocument{Annotations: make([]jsonAnnotation, len(anns))}
	if doc != nil {
		out.Document = doc.Name
	}

	for i, a := range anns {
		ja := jsonAnnotation{
			ID:         a.ID.String(),
			Name:       a.Name,
			Command:    a.Command,
			LayerID:    a.LayerID,
			ArtboardID: a.ArtboardID,
			Frame:      jsonRect(a.Frame),
			Shapes:     make([]jsonShape, len(a.Shapes)),
		}
		for j, s := range a.Shapes {
			ja.Shapes[j] = jsonShape{
				jsonRect: jsonRect(s.Frame),
				Paint:    s.Paint.String(),
				Style:    s.Style.String(),
				Color:    c.palette.Color(s.Style),
			}
		}
		for _, g := range a.Gaps {
			ja.Gaps = append(ja.Gaps, [2]float64{g.Start, g.End})
		}
		out.Annotations[i] = ja
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
