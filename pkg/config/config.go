// Package config loads spacemark settings.
//
// Sources, later ones winning:
//
//  1. built-in defaults
//  2. config.toml in $XDG_CONFIG_HOME/spacemark (or ~/.config/spacemark)
//  3. user.config, the plugin's JSON settings file, next to config.toml
//  4. a .env file in the working directory
//  5. SPACEMARK_* environment variables
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/spacemark/pkg/annotate"
	"github.com/matzehuels/spacemark/pkg/errors"
	"github.com/matzehuels/spacemark/pkg/pipeline"
)

const (
	appName = "spacemark"
	// FileName is the TOML config file name.
	FileName = "config.toml"
	// UserConfigName is the plugin's JSON settings file.
	UserConfigName = "user.config"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config holds every setting.
type Config struct {
	Colors      annotate.Palette `toml:"colors"`
	Formats     []string         `toml:"formats"`
	Scale       float64          `toml:"scale"`
	ShowLayers  bool             `toml:"show_layers"`
	Concurrency int              `toml:"concurrency"`
	Cache       CacheConfig      `toml:"cache"`
	Server      ServerConfig     `toml:"server"`
	Plugin      PluginConfig     `toml:"plugin"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend string `toml:"backend"`
	// Dir overrides the file cache directory.
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
	// Scope prefixes every cache key, keeping deployments that share one
	// cache apart.
	Scope string `toml:"scope"`
}

// ServerConfig configures the HTTP bridge.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// PluginConfig names the generated plugin manifest.
type PluginConfig struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Colors:  annotate.Palette{Fixed: annotate.FixedColor, Dynamic: annotate.DynamicColor},
		Formats: []string{pipeline.DefaultFormat},
		Scale:   pipeline.DefaultScale,
		Cache:   CacheConfig{Backend: CacheFile, Prefix: appName + ":"},
		Server:  ServerConfig{Addr: "127.0.0.1:7878"},
		Plugin:  PluginConfig{Name: appName},
	}
}

var hexColor = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// Validate checks value ranges.
func (c *Config) Validate() error {
	for _, col := range []string{c.Colors.Fixed, c.Colors.Dynamic} {
		if col != "" && !hexColor.MatchString(col) {
			return errors.New(errors.ErrCodeInvalidConfig, "invalid color %q (want #RGB or #RRGGBB)", col)
		}
	}
	if err := pipeline.ValidateFormats(c.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "formats")
	}
	if c.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be positive, got %g", c.Scale)
	}
	if c.Concurrency < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "concurrency must not be negative")
	}
	if !slices.Contains([]string{CacheFile, CacheRedis, CacheNone}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "redis cache requires redis_addr")
	}
	return nil
}

// Apply fills unset fields of opts from c.
func (c *Config) Apply(opts *pipeline.Options) {
	if len(opts.Formats) == 0 {
		opts.Formats = slices.Clone(c.Formats)
	}
	if opts.Scale == 0 {
		opts.Scale = c.Scale
	}
	if opts.Palette.Fixed == "" {
		opts.Palette.Fixed = c.Colors.Fixed
	}
	if opts.Palette.Dynamic == "" {
		opts.Palette.Dynamic = c.Colors.Dynamic
	}
	if opts.Concurrency == 0 {
		opts.Concurrency = c.Concurrency
	}
	opts.ShowLayers = opts.ShowLayers || c.ShowLayers
}

// Dir returns the config directory.
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// CacheDir returns the file cache directory (~/.cache/spacemark).
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Write saves c as TOML at path.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
