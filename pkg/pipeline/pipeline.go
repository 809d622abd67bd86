// Package pipeline runs spacing annotation commands against a scene.
//
// It is shared by the CLI, the HTTP bridge and the panel so that every
// entry point validates the selection, computes annotations and renders
// them the same way.
//
// # Stages
//
//  1. Annotate: validate the selection, then build one [Annotation] group
//     per selected layer (container commands) or per selected Group and
//     SymbolInstance (children commands)
//  2. Render: draw the annotations in the requested formats
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Command: "[Children] Horizontal Fixed",
//	    Formats: []string{"json", "svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// Or without caching:
//
//	anns, err := pipeline.Annotate(ctx, pipeline.NewContext(doc), opts)
package pipeline

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spacemark/pkg/annotate"
	"github.com/matzehuels/spacemark/pkg/cache"
	"github.com/matzehuels/spacemark/pkg/command"
	"github.com/matzehuels/spacemark/pkg/errors"
)

// Annotation is one annotation group.
type Annotation = annotate.Annotation

// Output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats lists supported formats in display order.
var ValidFormats = []string{FormatJSON, FormatSVG, FormatPNG, FormatPDF}

const (
	// DefaultFormat is used when no format is requested.
	DefaultFormat = FormatJSON
	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
	// MaxConcurrency caps per-layer workers.
	MaxConcurrency = 64
)

// Options configures one pipeline run. It is JSON-serializable for bridge
// requests.
type Options struct {
	// Command is a host identifier, label or slug accepted by
	// [command.Parse].
	Command    string           `json:"command"`
	Formats    []string         `json:"formats,omitempty"`
	Scale      float64          `json:"scale,omitempty"`
	Palette    annotate.Palette `json:"palette,omitempty"`
	ShowLayers bool             `json:"show_layers,omitempty"`
	// Concurrency bounds parallel layer workers. Zero means GOMAXPROCS.
	Concurrency int  `json:"concurrency,omitempty"`
	Refresh     bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	spec      command.Spec
	validated bool
}

// Result is the output of [Runner.Execute].
type Result struct {
	Command     command.Spec
	SceneHash   string
	Annotations []Annotation
	Artifacts   map[string][]byte
	// Warning holds a non-fatal selection message, e.g. multiple layers
	// selected.
	Warning   string
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds timing and size information.
type Stats struct {
	Layers       int
	Annotations  int
	Shapes       int
	AnnotateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	AnnotateHit bool
	RenderHit   bool
}

// ValidateFormat checks a single format name.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults resolves the command, checks formats and fills in
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Command == "" {
		return errors.New(errors.ErrCodeInvalidCommand, "command is required")
	}
	spec, err := command.Parse(o.Command)
	if err != nil {
		return err
	}
	o.spec = spec

	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	if o.Concurrency <= 0 {
		o.Concurrency = runtime.GOMAXPROCS(0)
	}
	o.Concurrency = min(o.Concurrency, MaxConcurrency)
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Spec returns the resolved command. Valid after
// [Options.ValidateAndSetDefaults].
func (o *Options) Spec() command.Spec { return o.spec }

// AnnotationsKeyOpts returns the cache key inputs for annotations.
func (o *Options) AnnotationsKeyOpts() cache.AnnotationsKeyOpts {
	return cache.AnnotationsKeyOpts{Command: o.spec.ID()}
}

// ArtifactKeyOpts returns the cache key inputs for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Command:      o.spec.ID(),
		Format:       format,
		FixedColor:   o.Palette.Fixed,
		DynamicColor: o.Palette.Dynamic,
		ShowLayers:   o.ShowLayers,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func (r Result) String() string {
	return fmt.Sprintf("%s: %d annotations, %d shapes", r.Command.ID(), r.Stats.Annotations, r.Stats.Shapes)
}
