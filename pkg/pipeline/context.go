package pipeline

import (
	"github.com/matzehuels/spacemark/pkg/scene"
)

// Context is the explicit state a command runs against.
type Context struct {
	Document  *scene.Document
	Index     *scene.Index
	Selection []*scene.Layer
}

// NewContext resolves the document's selection.
func NewContext(doc *scene.Document) Context {
	ix := doc.Index()
	return Context{Document: doc, Index: ix, Selection: ix.Selected()}
}
