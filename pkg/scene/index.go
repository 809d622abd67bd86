package scene

import (
	"github.com/matzehuels/spacemark/pkg/errors"
	"github.com/matzehuels/spacemark/pkg/geom"
)

// Index answers structural queries over a [Document].
type Index struct {
	doc    *Document
	byID   map[string]*Layer
	parent map[*Layer]*Layer
	page   map[*Layer]*Page
	dups   []string
}

func buildIndex(d *Document) *Index {
	ix := &Index{
		doc:    d,
		byID:   make(map[string]*Layer),
		parent: make(map[*Layer]*Layer),
		page:   make(map[*Layer]*Page),
	}
	var visit func(p *Page, parent *Layer, ls []*Layer)
	visit = func(p *Page, parent *Layer, ls []*Layer) {
		for _, l := range ls {
			if l == nil {
				continue
			}
			if _, dup := ix.byID[l.ID]; dup {
				ix.dups = append(ix.dups, l.ID)
			} else {
				ix.byID[l.ID] = l
			}
			ix.page[l] = p
			if parent != nil {
				ix.parent[l] = parent
			}
			visit(p, l, l.Layers)
		}
	}
	for _, p := range d.Pages {
		if p != nil {
			visit(p, nil, p.Layers)
		}
	}
	return ix
}

// Len returns the number of distinct layers.
func (ix *Index) Len() int { return len(ix.byID) }

// Find returns the layer with the given ID.
func (ix *Index) Find(id string) (*Layer, bool) {
	l, ok := ix.byID[id]
	return l, ok
}

// Parent returns the layer enclosing l, or nil when l sits directly on a
// page.
func (ix *Index) Parent(l *Layer) *Layer { return ix.parent[l] }

// Page returns the page l belongs to.
func (ix *Index) Page(l *Layer) *Page { return ix.page[l] }

// Selected returns the selected layers in selection order. IDs that do not
// resolve are skipped.
func (ix *Index) Selected() []*Layer {
	out := make([]*Layer, 0, len(ix.doc.Selection))
	for _, id := range ix.doc.Selection {
		if l, ok := ix.byID[id]; ok {
			out = append(out, l)
		}
	}
	return out
}

// Artboard returns the nearest artboard enclosing l, l itself included.
func (ix *Index) Artboard(l *Layer) *Layer {
	for cur := l; cur != nil; cur = ix.parent[cur] {
		if cur.Type.IsArtboard() {
			return cur
		}
	}
	return nil
}

// LocalToParent maps r from l's coordinate space into its parent's.
func (ix *Index) LocalToParent(l *Layer, r geom.Rect) geom.Rect {
	return r.Translate(l.Frame.X, l.Frame.Y)
}

// ToArtboard maps r from l's coordinate space into the space of l's
// artboard. Without an artboard the result is in page coordinates.
func (ix *Index) ToArtboard(l *Layer, r geom.Rect) geom.Rect {
	for cur := l; cur != nil && !cur.Type.IsArtboard(); cur = ix.parent[cur] {
		r = ix.LocalToParent(cur, r)
	}
	return r
}

// Children returns the direct children of l.
func (ix *Index) Children(l *Layer) []*Layer { return l.Layers }

func (ix *Index) check() error {
	if len(ix.dups) > 0 {
		return errors.New(errors.ErrCodeInvalidScene, "duplicate layer id %q", ix.dups[0])
	}
	return nil
}
