package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/matzehuels/crumbtrail/pkg/breadcrumb"
	"github.com/matzehuels/crumbtrail/pkg/errors"
	"github.com/matzehuels/crumbtrail/pkg/pipeline"
	"github.com/matzehuels/crumbtrail/pkg/source"
)

// pipelineFlags are shared by every command that renders a trail. Flags the
// user did not set fall back to the config file.
type pipelineFlags struct {
	urlPrefix string // prefix for relative paths
	connector string // separator handed to templates
	template  string // template file or format name
	refresh   bool   // bypass the content cache on read
	noCache   bool   // disable caching entirely
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.urlPrefix, "prefix", "", "URL prefix for relative paths (default from config)")
	cmd.Flags().StringVar(&f.connector, "connector", "", "separator between crumbs (default \"/\")")
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "template file or format: json, dot, svg, term (default breadcrumb.html.tmpl)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached content")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the content cache")
}

// params builds pipeline params from the config file and explicit flags.
func (c *CLI) params(cmd *cobra.Command, f pipelineFlags, nodes []breadcrumb.Node[source.ID], path string) (pipeline.Params[source.ID], error) {
	p := pipeline.Params[source.ID]{
		Nodes:       nodes,
		CurrentPath: path,
		URLPrefix:   c.Config.URLPrefix,
		Connector:   c.Config.Connector,
		Template:    c.Config.Template,
		Refresh:     f.refresh,
	}
	if cmd.Flags().Changed("prefix") {
		p.URLPrefix = f.urlPrefix
	}
	if cmd.Flags().Changed("connector") {
		p.Connector = f.connector
	}
	if cmd.Flags().Changed("template") {
		p.Template = f.template
	}

	if err := errors.ValidateURLPrefix(p.URLPrefix); err != nil {
		return p, err
	}
	if err := errors.ValidateTemplateName(p.Template); err != nil {
		return p, err
	}
	return p, nil
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	src         sourceFlags
	pipe        pipelineFlags
	currentPath string // path of the page being viewed
	output      string // output file; stdout when empty
	open        bool   // open the output file with the system viewer
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [source]",
		Short: "Render the breadcrumb trail for a page",
		Long: `Render the breadcrumb trail leading to --path.

Without --path the nodes must already form a single chain, which is
rendered in the order given. The source is a JSON or TOML node file or a
SQLite database. Without a source argument the [source] section of the
config file is used.`,
		Example: `  crumbtrail render nav.json --path /shop/shoes
  crumbtrail render nav.db --path /docs --template json
  crumbtrail render trail.json -t breadcrumb.txt.tmpl
  crumbtrail render --path /about --prefix https://example.com -o crumbs.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.src.path = args[0]
			}
			return c.runRender(cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.currentPath, "path", "p", "", "path of the current page (omit to render the whole chain)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.open, "open", false, "open the output file when done (requires -o)")
	opts.src.register(cmd)
	opts.pipe.register(cmd)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if err := errors.ValidateCurrentPath(opts.currentPath); err != nil {
		return err
	}
	if opts.open && opts.output == "" {
		return errors.New(errors.ErrCodeInvalidInput, "--open requires --output")
	}

	nodes, err := c.loadNodes(ctx, opts.src)
	if err != nil {
		return err
	}

	p, err := c.params(cmd, opts.pipe, nodes, opts.currentPath)
	if err != nil {
		return err
	}

	res, err := c.execute(ctx, opts.pipe.noCache, p)
	if err != nil {
		return err
	}
	if res.Content == "" {
		printWarning("No node has path %q", opts.currentPath)
		return nil
	}
	logger.Debug("rendered trail", "crumbs", res.Chain.Len(), "cached", res.CacheHit)

	if opts.output == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), res.Content)
		return err
	}
	if err := os.WriteFile(opts.output, []byte(res.Content), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", opts.output)
	}
	printSuccess("Rendered %s (%s)", p.Template, humanize.Bytes(uint64(len(res.Content))))
	printStats(res.Chain.Len(), res.CacheHit)
	printFile(opts.output)

	if opts.open {
		if err := open.Run(opts.output); err != nil {
			printWarning("Could not open %s: %v", opts.output, err)
		}
	}
	return nil
}

// execute runs the pipeline with a runner scoped to one command.
func (c *CLI) execute(ctx context.Context, noCache bool, p pipeline.Params[source.ID]) (*pipeline.Result[source.ID], error) {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()
	return runner.Execute(ctx, p)
}
