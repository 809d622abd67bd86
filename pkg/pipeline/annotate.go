package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/spacemark/pkg/annotate"
	"github.com/matzehuels/spacemark/pkg/command"
	"github.com/matzehuels/spacemark/pkg/errors"
	"github.com/matzehuels/spacemark/pkg/gaps"
	"github.com/matzehuels/spacemark/pkg/geom"
	"github.com/matzehuels/spacemark/pkg/observability"
	"github.com/matzehuels/spacemark/pkg/scene"
)

// Annotate validates the selection and builds the annotations for the
// command in opts. Results follow selection order; layers the command does
// not apply to are skipped.
func Annotate(ctx context.Context, c Context, opts Options) ([]Annotation, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if _, err := checkSelection(c, opts.Logger); err != nil {
		return nil, err
	}
	return annotateLayers(ctx, c, &opts)
}

// checkSelection runs [scene.Validate]. A multiple-selection result is
// logged and returned as a warning message.
func checkSelection(c Context, logger *log.Logger) (string, error) {
	err := scene.Validate(c.Document)
	if err == nil {
		return "", nil
	}
	if scene.IsWarning(err) {
		msg := errors.UserMessage(err)
		logger.Warn(msg, "layers", len(c.Selection))
		return msg, nil
	}
	return "", err
}

func annotateLayers(ctx context.Context, c Context, opts *Options) ([]Annotation, error) {
	spec := opts.Spec()
	hooks := observability.Pipeline()
	hooks.OnAnnotateStart(ctx, spec.ID(), len(c.Selection))
	start := time.Now()

	results := make([]*Annotation, len(c.Selection))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, layer := range c.Selection {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if a, ok := annotateLayer(c.Index, layer, spec, opts.Logger); ok {
				results[i] = &a
			}
			return nil
		})
	}
	err := g.Wait()

	var out []Annotation
	if err == nil {
		out = make([]Annotation, 0, len(results))
		for _, a := range results {
			if a != nil {
				out = append(out, *a)
			}
		}
	}
	hooks.OnAnnotateComplete(ctx, spec.ID(), len(out), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func annotateLayer(ix *scene.Index, l *scene.Layer, spec command.Spec, logger *log.Logger) (Annotation, bool) {
	if spec.Kind == command.Children {
		if !l.Type.HasChildren() {
			logger.Debug("skipping layer without children semantics", "layer", l.ID, "type", l.Type)
			return Annotation{}, false
		}
		return childrenAnnotation(ix, l, spec), true
	}
	return containerAnnotation(ix, l, spec), true
}

// GroupName returns the host group name for an annotation.
func GroupName(spec command.Spec) string {
	if spec.Kind == command.Children {
		return fmt.Sprintf("[Child] %s Fragments", spec.Label)
	}
	return fmt.Sprintf("[Pico Annotation] %s Line Fragments", spec.Label)
}

// containerAnnotation outlines each line fragment of l, or its bounds.
func containerAnnotation(ix *scene.Index, l *scene.Layer, spec command.Spec) Annotation {
	var shapes []annotate.Shape
	for _, frag := range l.LineFragments() {
		rect := ix.LocalToParent(l, frag)
		if spec.Edges() {
			shapes = append(shapes, annotate.Edges(rect, spec.Style)...)
		} else {
			shapes = append(shapes, annotate.Outline(rect, spec.Style)...)
		}
	}

	a := newAnnotation(ix, l, spec)
	a.Frame = l.Frame
	a.Fit(shapes)
	a.ArtboardFrame = toArtboardSpace(ix, l, a.Frame)
	return a
}

// childrenAnnotation places bands over the gaps between l's direct
// children along the command axis.
func childrenAnnotation(ix *scene.Index, l *scene.Layer, spec command.Spec) Annotation {
	children := ix.Children(l)
	intervals := make([]geom.Interval, len(children))
	for i, child := range children {
		intervals[i] = child.Frame.Project(spec.Axis)
	}
	resolved := gaps.Resolve(intervals, l.Frame.Span(spec.Axis))
	offset := annotate.CrossAxisOffset(l.Frame.CrossSpan(spec.Axis))
	rects := annotate.BuildGapRectangles(resolved, offset, annotate.BandWidth, spec.Axis, spec.Style)

	a := newAnnotation(ix, l, spec)
	a.Frame = l.Frame
	a.ArtboardFrame = toArtboardSpace(ix, l, a.Frame)
	a.Gaps = resolved
	a.Shapes = make([]annotate.Shape, len(rects))
	for i, r := range rects {
		a.Shapes[i] = r.Shape()
	}
	return a
}

func newAnnotation(ix *scene.Index, l *scene.Layer, spec command.Spec) Annotation {
	a := Annotation{
		ID:      uuid.New(),
		Name:    GroupName(spec),
		Command: spec.ID(),
		LayerID: l.ID,
	}
	if ab := ix.Artboard(l); ab != nil {
		a.ArtboardID = ab.ID
	}
	return a
}

// toArtboardSpace maps r, given in the coordinate space of l's parent, into
// the space of l's artboard.
func toArtboardSpace(ix *scene.Index, l *scene.Layer, r geom.Rect) geom.Rect {
	if l.Type.IsArtboard() {
		return r.Translate(-l.Frame.X, -l.Frame.Y)
	}
	if parent := ix.Parent(l); parent != nil {
		return ix.ToArtboard(parent, r)
	}
	return r
}
