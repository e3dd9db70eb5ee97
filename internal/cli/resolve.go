package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/crumbtrail/pkg/breadcrumb"
	"github.com/matzehuels/crumbtrail/pkg/errors"
	"github.com/matzehuels/crumbtrail/pkg/render"
	"github.com/matzehuels/crumbtrail/pkg/source"
)

// resolveOpts holds the command-line flags for the resolve command.
type resolveOpts struct {
	src         sourceFlags
	pipe        pipelineFlags
	currentPath string
}

// resolveCommand creates the resolve command, which prints the chain for a
// path as a table instead of rendering it.
func (c *CLI) resolveCommand() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:     "resolve [source]",
		Short:   "Print the resolved chain for a page as a table",
		Long:    "Print the chain leading to --path as a table. Without --path the nodes must already form a single chain.",
		Example: `  crumbtrail resolve nav.json --path /shop/shoes --prefix https://example.com
  crumbtrail resolve trail.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.src.path = args[0]
			}
			return c.runResolve(cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.currentPath, "path", "p", "", "path of the current page (omit to check the whole chain)")
	opts.src.register(cmd)
	opts.pipe.register(cmd)

	return cmd
}

func (c *CLI) runResolve(cmd *cobra.Command, opts *resolveOpts) error {
	ctx := cmd.Context()

	if err := errors.ValidateCurrentPath(opts.currentPath); err != nil {
		return err
	}
	nodes, err := c.loadNodes(ctx, opts.src)
	if err != nil {
		return err
	}
	p, err := c.params(cmd, opts.pipe, nodes, opts.currentPath)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	chain, err := runner.Resolve(ctx, p)
	if err != nil {
		return err
	}
	if chain.Empty() {
		printWarning("No node has path %q", opts.currentPath)
		return nil
	}

	w := cmd.OutOrStdout()
	writeChainTable(w, chain)

	trail, err := runner.Render(ctx, render.NameTerm, chain, p.Connector)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, "\n"+trail)
	return err
}

// writeChainTable prints one row per chain node, root first.
func writeChainTable(w io.Writer, chain breadcrumb.Chain[source.ID]) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	last := chain.Len() - 1

	rows := make([][]string, len(chain))
	for i, n := range chain {
		rows[i] = []string{strconv.Itoa(i + 1), n.ID.String(), n.ParentID.String(), n.Label(), n.Path}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "ID", "Parent", "Name", "Path").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == last:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			case col == 0 || col == 2:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	fmt.Fprintln(w, t.Render())
}
