// Package cache stores computed annotation artifacts.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for
// bridge instances sharing state, and [NullCache] when caching is off.
// Keys come from a [Keyer] so every caller derives identical keys for
// identical inputs.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Default lifetimes per entry kind.
const (
	TTLAnnotations = 24 * time.Hour
	TTLArtifact    = 7 * 24 * time.Hour
	TTLHTTP        = 24 * time.Hour
)

// Keyer derives cache keys.
type Keyer interface {
	// HTTPKey keys a downloaded document.
	HTTPKey(namespace, key string) string
	// AnnotationsKey keys the annotations computed for a scene.
	AnnotationsKey(sceneHash string, opts AnnotationsKeyOpts) string
	// ArtifactKey keys one rendered output format.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// AnnotationsKeyOpts lists the inputs that change computed annotations.
type AnnotationsKeyOpts struct {
	Command string `json:"command"`
}

// ArtifactKeyOpts lists the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Command      string  `json:"command"`
	Format       string  `json:"format"`
	Scale        float64 `json:"scale,omitempty"`
	FixedColor   string  `json:"fixed_color,omitempty"`
	DynamicColor string  `json:"dynamic_color,omitempty"`
	ShowLayers   bool    `json:"show_layers,omitempty"`
}

// DefaultKeyer builds keys of the form "kind:sha256(inputs)".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// AnnotationsKey hashes the scene hash with opts.
func (DefaultKeyer) AnnotationsKey(sceneHash string, opts AnnotationsKeyOpts) string {
	return hashKey("annotations", sceneHash, opts)
}

// ArtifactKey hashes the scene hash with opts.
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}

var _ Keyer = DefaultKeyer{}
