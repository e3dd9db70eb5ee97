package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/crumbtrail/internal/config"
	"github.com/matzehuels/crumbtrail/internal/server"
	"github.com/matzehuels/crumbtrail/pkg/errors"
	"github.com/matzehuels/crumbtrail/pkg/observability"
	"github.com/matzehuels/crumbtrail/pkg/source"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	src     sourceFlags
	addr    string
	noCache bool
}

// serveCommand creates the serve command. Without a node source only the
// POST endpoint is available.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [source]",
		Short: "Serve breadcrumb trails over HTTP",
		Example: `  crumbtrail serve nav.db --addr :9000
  curl 'localhost:9000/v1/breadcrumb?path=/shop/shoes&template=json'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.src.path = args[0]
			}
			return c.runServe(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, "+config.DefaultServerAddr+")")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the content cache")
	opts.src.register(cmd)

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts *serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	addr := c.Config.Server.Addr
	if opts.addr != "" {
		addr = opts.addr
	}
	if err := errors.ValidateURLPrefix(c.Config.URLPrefix); err != nil {
		return err
	}

	var src source.Source[source.ID]
	if c.hasSource(opts.src) {
		s, closeSrc, err := c.openSource(ctx, opts.src)
		if err != nil {
			return err
		}
		defer closeSrc()
		src = s
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(runner, src, server.Defaults{
		URLPrefix: c.Config.URLPrefix,
		Connector: c.Config.Connector,
		Template:  c.Config.Template,
	}, logger)
	srv.Stats = &observability.Counters{}
	srv.Stats.Register()
	defer observability.Reset()

	printKeyValue("Address", addr)
	if src != nil {
		printKeyValue("Source", src.Name())
	} else {
		printInfo("No node source configured; GET /v1/breadcrumb is disabled")
	}
	return srv.ListenAndServe(ctx, addr)
}

// hasSource reports whether a node source was named on the command line
// or in the config file.
func (c *CLI) hasSource(f sourceFlags) bool {
	if f.path != "" || c.Config.Source.Kind == config.SourceMongo {
		return true
	}
	return c.Config.Source.Path != ""
}
