// Package cli implements the smilesdraw command-line interface.
//
// The CLI is built with cobra and wraps the same pipeline runner the HTTP
// server uses, so a depiction rendered here is cached for the server and
// the other way round when both share a cache backend.
//
// # Commands
//
//   - render: draw a SMILES string to SVG, PNG, PDF, JSON or DOT
//   - info: print formula, counts and ring classes
//   - rings: tabulate the smallest set of smallest rings
//   - inspect: browse atoms and rings interactively
//   - batch: render every line of a .smi file
//   - serve: run the HTTP API
//   - cache: clear the cache or print its location
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to the command context and retrieved with loggerFromContext.
//
// # Configuration
//
// Settings come from $XDG_CONFIG_HOME/smilesdraw/config.toml, or the file
// named by --config. Flags override the file.
package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/smilesdraw/pkg/buildinfo"
	"github.com/matzehuels/smilesdraw/pkg/cache"
	"github.com/matzehuels/smilesdraw/pkg/config"
	"github.com/matzehuels/smilesdraw/pkg/graph"
	"github.com/matzehuels/smilesdraw/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = config.AppName

	// defaultBaseName names output files when neither -o nor --name is set.
	defaultBaseName = "molecule"
)

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

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the loaded configuration.
func (c *CLI) Config() config.Config { return c.cfg }

// RootCommand creates the root cobra command with all subcommands registered.
// The --config flag is read before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "smilesdraw draws 2D structure diagrams from SMILES",
		Long:         `smilesdraw parses SMILES strings, lays the molecule out in 2D with ring perception and overlap resolution, and renders structure diagrams as SVG, PNG, PDF, JSON or Graphviz DOT.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/smilesdraw/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.ringsCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use over the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, c.cfg.Cache.Keyer(), c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	ch, err := cache.Open(ctx, c.cfg.Cache)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without it", "backend", c.cfg.Cache.Backend, "error", err)
		return cache.NewNullCache(), nil
	}
	return ch, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions seeds pipeline options from the configuration.
func (c *CLI) baseOptions() pipeline.Options {
	lo := c.cfg.Layout
	return pipeline.Options{
		Layout:   &lo,
		Formats:  append([]string(nil), c.cfg.Render.Formats...),
		Theme:    c.cfg.Render.Theme,
		Scale:    c.cfg.Render.Scale,
		Pseudo:   c.cfg.Render.Pseudo,
		Graphviz: c.cfg.Render.Graphviz,
		Logger:   c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{graph.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// basePath derives the base output path. An empty output falls back to the
// molecule name, then to "molecule"; a known format extension is stripped.
func basePath(output, name string) string {
	if output == "" {
		if name == "" {
			return defaultBaseName
		}
		return name
	}
	ext := filepath.Ext(output)
	if graph.IsFormat(strings.TrimPrefix(ext, ".")) || ext == ".gv" {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
