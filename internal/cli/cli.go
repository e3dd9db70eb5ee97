package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/crumbtrail/internal/config"
	"github.com/matzehuels/crumbtrail/pkg/breadcrumb"
	"github.com/matzehuels/crumbtrail/pkg/buildinfo"
	"github.com/matzehuels/crumbtrail/pkg/cache"
	"github.com/matzehuels/crumbtrail/pkg/errors"
	"github.com/matzehuels/crumbtrail/pkg/pipeline"
	"github.com/matzehuels/crumbtrail/pkg/render"
	"github.com/matzehuels/crumbtrail/pkg/source"
	"github.com/matzehuels/crumbtrail/pkg/source/file"
	"github.com/matzehuels/crumbtrail/pkg/source/mongo"
	"github.com/matzehuels/crumbtrail/pkg/source/sqlite"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "crumbtrail"
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

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "crumbtrail",
		Short:         "crumbtrail builds breadcrumb trails from navigation trees",
		Long:          `crumbtrail resolves the root-to-current trail of a page from a flat list of navigation nodes and renders it as HTML, text, JSON, Graphviz or terminal output.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			c.Logger.Debug("loaded config", "path", c.configPath, "source", cfg.Source.Kind, "cache", cfg.Cache.Backend)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/crumbtrail/config.toml)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner[source.ID], error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}

	var fallback render.Renderer
	if c.Config.TemplatesDir != "" {
		fallback = render.NewTemplateRenderer(os.DirFS(c.Config.TemplatesDir))
	}

	runner := pipeline.NewRunner[source.ID](ch, c.keyer(), render.NewRegistry(fallback), c.Logger)
	runner.TTL = c.Config.Cache.TTL
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	switch c.Config.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, c.Config.Redis)
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return cache.NewFileCache(c.cacheDir())
	}
}

// keyer namespaces keys in shared backends.
func (c *CLI) keyer() cache.Keyer {
	if c.Config.Cache.Backend == config.CacheRedis {
		return cache.NewScopedKeyer(nil, appName+":")
	}
	return cache.NewDefaultKeyer()
}

// =============================================================================
// Sources
// =============================================================================

// sourceFlags selects a node source on the command line. An empty path
// falls back to the [source] section of the config file.
type sourceFlags struct {
	path  string
	table string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.table, "table", "", "SQLite table (default nodes)")
}

// openSource opens the node source named by path or the config file.
// Files ending in .json or .toml are node documents; .db, .sqlite and
// .sqlite3 are SQLite databases. The returned func releases the source.
func (c *CLI) openSource(ctx context.Context, f sourceFlags) (source.Source[source.ID], func(), error) {
	kind, path, table := c.Config.Source.Kind, c.Config.Source.Path, c.Config.Source.Table
	if f.path != "" {
		path = f.path
		kind = kindForPath(path)
	}
	if f.table != "" {
		table = f.table
	}
	noop := func() {}

	switch kind {
	case config.SourceFile:
		if path == "" {
			return nil, noop, errors.New(errors.ErrCodeInvalidInput, "no node source: pass a file or set [source] path")
		}
		return file.New[source.ID](path), noop, nil

	case config.SourceSQLite:
		src, err := sqlite.Open[source.ID](ctx, path, table)
		if err != nil {
			return nil, noop, err
		}
		return src, func() { _ = src.Close() }, nil

	case config.SourceMongo:
		src, err := mongo.Connect[source.ID](ctx, c.Config.Mongo)
		if err != nil {
			return nil, noop, err
		}
		ch, err := c.newCache(ctx, false)
		if err != nil {
			_ = src.Close(context.Background())
			return nil, noop, err
		}
		cached := source.NewCached[source.ID](src, ch, c.keyer())
		cached.Selector = src.Selector()
		return cached, func() {
			_ = ch.Close()
			_ = src.Close(context.Background())
		}, nil

	default:
		return nil, noop, errors.New(errors.ErrCodeInvalidConfig, "unknown source kind %q", kind)
	}
}

// loadNodes opens the source and loads its nodes, showing a spinner for
// stores that may be slow to answer.
func (c *CLI) loadNodes(ctx context.Context, f sourceFlags) ([]breadcrumb.Node[source.ID], error) {
	src, closeSrc, err := c.openSource(ctx, f)
	if err != nil {
		return nil, err
	}
	defer closeSrc()

	var s *spinner
	if _, local := src.(*file.Source[source.ID]); !local && c.Logger.GetLevel() > log.DebugLevel {
		s = newSpinner(ctx, os.Stderr, "Loading nodes from "+src.Name())
		s.Start()
	}

	prog := newProgress(c.Logger)
	nodes, err := src.Load(ctx)
	if s != nil {
		s.Stop()
	}
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Loaded %d nodes from %s", len(nodes), src.Name()))
	return nodes, nil
}

func kindForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return config.SourceSQLite
	default:
		return config.SourceFile
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/crumbtrail/).
func (c *CLI) cacheDir() string {
	if c.Config != nil && c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir
	}
	return cacheDir()
}

// cacheDir returns the cache directory under the XDG cache home.
func cacheDir() string {
	xdg.Reload()
	return filepath.Join(xdg.CacheHome, appName)
}
