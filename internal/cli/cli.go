// Package cli implements the spacemark command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spacemark/pkg/buildinfo"
	"github.com/matzehuels/spacemark/pkg/cache"
	"github.com/matzehuels/spacemark/pkg/config"
	"github.com/matzehuels/spacemark/pkg/observability"
	"github.com/matzehuels/spacemark/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "spacemark"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by --config; empty means the XDG default.
	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Spacemark annotates the spacing between design layers",
		Long: `Spacemark measures the empty space between sibling layers of a design
scene and turns it into colored annotation rectangles, the way the
spacing plugin does inside the design tool.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/spacemark/config.toml)")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.annotateCommand())
	root.AddCommand(c.commandsCommand())
	root.AddCommand(c.panelCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.manifestCommand())
	root.AddCommand(c.layersCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads configuration once per process.
func (c *CLI) loadConfig() error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := config.Loader{Path: c.configPath}.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	observability.NewLogHooks(c.Logger).Register()
	c.Logger.Debug("config loaded", "cache", cfg.Cache.Backend, "formats", cfg.Formats)
	return nil
}

// config returns the loaded configuration, or the defaults when a command
// runs without the root pre-run (tests).
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, c.newKeyer(), c.Logger), nil
}

// newKeyer scopes cache keys when the config names a scope.
func (c *CLI) newKeyer() cache.Keyer {
	if scope := c.config().Cache.Scope; scope != "" {
		return cache.NewScopedKeyer(nil, scope+":")
	}
	return cache.NewDefaultKeyer()
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.config()
	if noCache || cfg.Cache.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.Backend == config.CacheRedis {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			Prefix:   cfg.Cache.Prefix,
		})
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory: the configured one, or the
// XDG default (~/.cache/spacemark/).
func (c *CLI) cacheDir() (string, error) {
	if dir := c.config().Cache.Dir; dir != "" {
		return filepath.Clean(dir), nil
	}
	return config.CacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// Empty means the configured default.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
