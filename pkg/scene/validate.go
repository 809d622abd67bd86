package scene

import (
	"github.com/matzehuels/spacemark/pkg/errors"
)

// Selection check messages shown to the user.
const (
	MsgEmptySelection    = "Please select at least one element."
	MsgNoArtboard        = "Please select an element inside an Artboard."
	MsgLayerNotAllowed   = "Currently %s selection is not allowed."
	MsgMultipleSelection = "Please select single layer"
)

// Validate checks that the document's selection can be annotated.
//
// Only the first selected layer is inspected for an artboard and an
// allowed type. A multi-layer selection that passes those checks returns an
// [errors.ErrCodeMultipleSelection] error; callers treat it as a warning.
func Validate(d *Document) error {
	ix := d.Index()
	sel := ix.Selected()
	if len(sel) == 0 {
		return errors.New(errors.ErrCodeEmptySelection, MsgEmptySelection)
	}

	first := sel[0]
	if ix.Artboard(first) == nil {
		return errors.New(errors.ErrCodeNoArtboard, MsgNoArtboard)
	}
	if !AllowedSelection(first.Type) {
		return errors.New(errors.ErrCodeLayerNotAllowed, MsgLayerNotAllowed, first.Type)
	}
	if len(sel) > 1 {
		return errors.New(errors.ErrCodeMultipleSelection, MsgMultipleSelection)
	}
	return nil
}

// IsWarning reports whether a [Validate] error still allows annotating.
func IsWarning(err error) bool {
	return errors.Is(err, errors.ErrCodeMultipleSelection)
}
