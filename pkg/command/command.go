// Package command is the typed command set a host panel can invoke.
//
// Each [Command] maps to one [Spec] in a single table: what kind of
// annotation it builds, along which axis, in which style, and which host
// identifier triggers it. Handlers look commands up here instead of
// branching on event strings.
package command

import (
	"fmt"
	"strings"

	"github.com/matzehuels/spacemark/pkg/annotate"
	"github.com/matzehuels/spacemark/pkg/errors"
	"github.com/matzehuels/spacemark/pkg/geom"
)

// Kind separates annotations drawn around a layer from annotations drawn
// between its children.
type Kind int

const (
	Container Kind = iota
	Children
)

func (k Kind) String() string {
	if k == Children {
		return "Children"
	}
	return "Container"
}

// Command identifies one annotation action.
type Command int

const (
	AllFixed Command = iota
	AllDynamic
	WidthFixed
	HeightFixed
	HorizontalFixed
	HorizontalDynamic
	VerticalFixed
	VerticalDynamic
)

// Spec describes how a command is carried out.
type Spec struct {
	Command Command
	Kind    Kind
	Axis    geom.Axis
	Style   annotate.Style
	Label   string
}

// ID returns the host event identifier, e.g. "[Children] Vertical Fixed".
func (s Spec) ID() string {
	return fmt.Sprintf("[%s] %s", s.Kind, s.Label)
}

// Slug returns a lower-case, dash-separated name for URLs and flags.
func (s Spec) Slug() string {
	return slug(s.Label)
}

// Edges reports whether a container command draws the four side edges
// rather than a single outline.
func (s Spec) Edges() bool {
	return s.Command == WidthFixed || s.Command == HeightFixed
}

// table lists every command in panel order.
var table = []Spec{
	{Command: AllFixed, Kind: Container, Axis: geom.Horizontal, Style: annotate.Fixed, Label: "All Fixed"},
	{Command: AllDynamic, Kind: Container, Axis: geom.Horizontal, Style: annotate.Dynamic, Label: "All Dynamic"},
	{Command: WidthFixed, Kind: Container, Axis: geom.Horizontal, Style: annotate.Fixed, Label: "Width Fixed"},
	{Command: HeightFixed, Kind: Container, Axis: geom.Horizontal, Style: annotate.Dynamic, Label: "Height Fixed"},
	{Command: HorizontalFixed, Kind: Children, Axis: geom.Horizontal, Style: annotate.Fixed, Label: "Horizontal Fixed"},
	{Command: HorizontalDynamic, Kind: Children, Axis: geom.Horizontal, Style: annotate.Dynamic, Label: "Horizontal Dynamic"},
	{Command: VerticalFixed, Kind: Children, Axis: geom.Vertical, Style: annotate.Fixed, Label: "Vertical Fixed"},
	{Command: VerticalDynamic, Kind: Children, Axis: geom.Vertical, Style: annotate.Dynamic, Label: "Vertical Dynamic"},
}

// All returns every command spec in panel order.
func All() []Spec {
	out := make([]Spec, len(table))
	copy(out, table)
	return out
}

// Lookup returns the spec for c.
func Lookup(c Command) (Spec, bool) {
	if c < 0 || int(c) >= len(table) {
		return Spec{}, false
	}
	return table[c], true
}

func (c Command) String() string {
	if s, ok := Lookup(c); ok {
		return s.Label
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// Parse resolves a host identifier ("[Children] Horizontal Fixed"), a bare
// label ("Horizontal Fixed") or a slug ("horizontal-fixed").
func Parse(id string) (Spec, error) {
	if err := errors.ValidateIdentifier("command", id); err != nil {
		return Spec{}, errors.Wrap(errors.ErrCodeInvalidCommand, err, "invalid command identifier")
	}
	want := strings.TrimSpace(id)
	for _, s := range table {
		if want == s.ID() || strings.EqualFold(want, s.Label) || strings.EqualFold(want, s.Slug()) {
			return s, nil
		}
	}
	return Spec{}, errors.New(errors.ErrCodeInvalidCommand, "unknown command: %q", id)
}

func slug(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-"))
}
