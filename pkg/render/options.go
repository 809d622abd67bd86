package render

import (
	"github.com/matzehuels/spacemark/pkg/annotate"
)

// DefaultScale is the PNG pixel density.
const DefaultScale = 2.0

// Option configures a renderer.
type Option func(*config)

type config struct {
	palette    annotate.Palette
	showLayers bool
	artboardID string
	scale      float64
	padding    float64
}

func newConfig(opts []Option) config {
	c := config{scale: DefaultScale, padding: 16}
	for _, opt := range opts {
		opt(&c)
	}
	if c.scale <= 0 {
		c.scale = DefaultScale
	}
	return c
}

// WithPalette overrides the style colors.
func WithPalette(p annotate.Palette) Option { return func(c *config) { c.palette = p } }

// WithLayers outlines every layer of the previewed artboard.
func WithLayers() Option { return func(c *config) { c.showLayers = true } }

// WithArtboard previews the given artboard instead of the first
// annotation's.
func WithArtboard(id string) Option { return func(c *config) { c.artboardID = id } }

// WithScale sets the PNG scale factor.
func WithScale(s float64) Option { return func(c *config) { c.scale = s } }

// WithPadding sets the margin around a preview without an artboard.
func WithPadding(p float64) Option { return func(c *config) { c.padding = p } }
