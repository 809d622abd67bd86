package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/spacemark/pkg/observability"
	"github.com/matzehuels/spacemark/pkg/render"
	"github.com/matzehuels/spacemark/pkg/scene"
)

// Render draws annotations in every format of opts.
func Render(ctx context.Context, doc *scene.Document, anns []Annotation, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderFormats(doc, anns, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(doc *scene.Document, anns []Annotation, opts Options) (map[string][]byte, error) {
	ropts := renderOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(doc, anns, format, ropts...)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat renders a single format.
func RenderFormat(doc *scene.Document, anns []Annotation, format string, opts ...render.Option) ([]byte, error) {
	switch format {
	case FormatJSON:
		return render.RenderJSON(doc, anns, opts...)
	case FormatSVG:
		return render.RenderSVG(doc, anns, opts...)
	case FormatPNG:
		return render.RenderPNG(doc, anns, opts...)
	case FormatPDF:
		svg, err := render.RenderSVG(doc, anns, opts...)
		if err != nil {
			return nil, err
		}
		return render.ToPDF(svg)
	}
	return nil, ValidateFormat(format)
}

func renderOptions(opts Options) []render.Option {
	ro := []render.Option{
		render.WithPalette(opts.Palette),
		render.WithScale(opts.Scale),
	}
	if opts.ShowLayers {
		ro = append(ro, render.WithLayers())
	}
	return ro
}
