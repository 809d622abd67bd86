package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/spacemark/pkg/cache"
	"github.com/matzehuels/spacemark/pkg/observability"
	"github.com/matzehuels/spacemark/pkg/scene"
)

// Runner executes the pipeline with caching. It keeps no per-run state,
// so one Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means [cache.DefaultKeyer] and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute validates the selection, then annotates and renders with a
// cache lookup per stage.
func (r *Runner) Execute(ctx context.Context, doc *scene.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	c := NewContext(doc)
	warning, err := checkSelection(c, opts.Logger)
	if err != nil {
		return nil, err
	}

	sceneHash, err := scene.Hash(doc)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Command:   opts.Spec(),
		SceneHash: sceneHash,
		Warning:   warning,
	}
	result.Stats.Layers = len(c.Selection)

	annotateStart := time.Now()
	anns, hit, err := r.AnnotateWithCacheInfo(ctx, c, result.SceneHash, opts)
	if err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}
	result.Annotations = anns
	result.Stats.AnnotateTime = time.Since(annotateStart)
	result.Stats.Annotations = len(anns)
	for _, a := range anns {
		result.Stats.Shapes += len(a.Shapes)
	}
	result.CacheInfo.AnnotateHit = hit

	r.Logger.Info("annotated layers",
		"command", result.Command.ID(),
		"layers", result.Stats.Layers,
		"annotations", result.Stats.Annotations,
		"duration", result.Stats.AnnotateTime)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, doc, result.SceneHash, anns, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// AnnotateWithCacheInfo returns the annotations for c and whether they
// came from the cache. The selection is not re-validated.
func (r *Runner) AnnotateWithCacheInfo(ctx context.Context, c Context, sceneHash string, opts Options) ([]Annotation, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.AnnotationsKey(sceneHash, opts.AnnotationsKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var anns []Annotation
			if err := json.Unmarshal(data, &anns); err == nil {
				hooks.OnCacheHit(ctx, "annotations")
				for i := range anns {
					anns[i].ID = uuid.New()
				}
				return anns, true, nil
			}
		}
		hooks.OnCacheMiss(ctx, "annotations")
	}

	anns, err := annotateLayers(ctx, c, &opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(anns); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLAnnotations); err != nil {
			r.Logger.Debug("cache write failed", "key", key, "err", err)
		} else {
			hooks.OnCacheSet(ctx, "annotations", len(data))
		}
	}
	return anns, false, nil
}

// RenderWithCacheInfo renders every requested format, reusing cached
// artifacts per format. JSON embeds the annotation IDs and is always
// rendered. The returned hit is true when at least one format is cacheable
// and every cacheable format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *scene.Document, sceneHash string, anns []Annotation, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	cacheable := 0
	for _, format := range opts.Formats {
		if !cacheableFormat(format) {
			missing = append(missing, format)
			continue
		}
		cacheable++
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, "artifact")
			missing = append(missing, format)
			continue
		}
		hooks.OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	hit := cacheable > 0 && len(artifacts) == cacheable
	if len(missing) == 0 {
		return artifacts, hit, nil
	}

	ropts := opts
	ropts.Formats = missing
	rendered, err := Render(ctx, doc, anns, ropts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		if !cacheableFormat(format) {
			continue
		}
		key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, hit, nil
}

func cacheableFormat(format string) bool { return format != FormatJSON }

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
