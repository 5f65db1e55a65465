// Package cli implements the swarmcheck command-line interface.
//
// The CLI wraps pkg/api's pure operations in an [api.Runner] for caching
// and run persistence (internal/cli/runner.go). Every command supports
// --verbose for debug-level logging, reported through charmbracelet/log.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swarmcheck/internal/config"
	"github.com/matzehuels/swarmcheck/pkg/buildinfo"
	"github.com/matzehuels/swarmcheck/pkg/cache"
	"github.com/matzehuels/swarmcheck/pkg/runcache"
)

// appName is the application name used for directories and display.
const appName = "swarmcheck"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config
}

// New creates a new CLI instance with a default logger and the on-disk
// configuration (or built-in defaults, if no config file exists).
func New(w io.Writer, level log.Level) *CLI {
	cfg := config.Default()
	if path, err := config.DefaultPath(); err == nil {
		if loaded, err := config.Load(path); err == nil {
			cfg = loaded
		}
	}
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		Config: cfg,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "swarmcheck analyzes choreographic swarm protocols",
		Long:         `swarmcheck decides whether a set of interfacing swarm protocols compose into a well-formed distributed workflow, infers well-formed subscriptions, and projects per-role client state machines.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.inferCommand())
	root.AddCommand(c.composeCommand())
	root.AddCommand(c.projectCommand())
	root.AddCommand(c.projectCombineCommand())
	root.AddCommand(c.projectionInfoCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newCache builds the cache backend selected by c.Config.Cache, falling
// back to [cache.NewNullCache] on any construction error so a broken
// cache backend degrades to uncached operation rather than failing the
// whole command.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache || c.Config.Cache.Backend == "none" {
		return cache.NewNullCache()
	}
	if c.Config.Cache.Backend == "redis" {
		rc, err := runcache.New(ctx, runcache.Config{Addr: c.Config.Cache.Addr})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, falling back to uncached", "err", err)
			return cache.NewNullCache()
		}
		return rc
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache()
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// cacheDir returns the cache directory using XDG standard (~/.cache/swarmcheck/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
