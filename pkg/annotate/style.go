// Package annotate turns resolved geometry into rectangle descriptors that
// a host renderer draws as spacing annotations.
//
// Gap annotations are filled bands of [BandWidth] centered across the
// analysis axis; container annotations are unfilled borders around a frame
// or along its edges. Descriptors only carry geometry, a [Paint] and a
// [Style]; mapping a style to a host color happens in the renderer.
package annotate

import (
	"fmt"
	"strings"

	"github.com/matzehuels/spacemark/pkg/errors"
)

// Style tags whether a spacing relationship stays constant or scales with
// its container.
type Style int

const (
	// Fixed spacing keeps its size when the container resizes.
	Fixed Style = iota
	// Dynamic spacing stretches with the container.
	Dynamic
)

// Default colors used by the host for each style.
const (
	FixedColor   = "#FF5544"
	DynamicColor = "#0AF"
)

// Opposite returns the other style.
func (s Style) Opposite() Style {
	if s == Fixed {
		return Dynamic
	}
	return Fixed
}

// Color returns the default host color for s.
func (s Style) Color() string {
	if s == Dynamic {
		return DynamicColor
	}
	return FixedColor
}

func (s Style) String() string {
	switch s {
	case Fixed:
		return "fixed"
	case Dynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

// ParseStyle accepts "fixed" or "dynamic" in any case.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed":
		return Fixed, nil
	case "dynamic":
		return Dynamic, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be 'fixed' or 'dynamic')", s)
}

// MarshalText encodes s as its lowercase name.
func (s Style) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a name accepted by [ParseStyle].
func (s *Style) UnmarshalText(b []byte) error {
	v, err := ParseStyle(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Palette maps styles to colors. The zero value uses the default colors.
type Palette struct {
	Fixed   string `json:"fixed,omitempty" toml:"fixed"`
	Dynamic string `json:"dynamic,omitempty" toml:"dynamic"`
}

// Color returns the palette color for s, falling back to [Style.Color].
func (p Palette) Color(s Style) string {
	if s == Dynamic && p.Dynamic != "" {
		return p.Dynamic
	}
	if s == Fixed && p.Fixed != "" {
		return p.Fixed
	}
	return s.Color()
}
