package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/crumbtrail/pkg/render"
)

// browseOpts holds the command-line flags for the browse command.
type browseOpts struct {
	src  sourceFlags
	pipe pipelineFlags
}

// browseCommand creates the browse command: pick a page from the node list
// and render its trail. The terminal renderer is used unless --template is
// given.
func (c *CLI) browseCommand() *cobra.Command {
	var opts browseOpts

	cmd := &cobra.Command{
		Use:   "browse [source]",
		Short: "Pick a page interactively and render its trail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.src.path = args[0]
			}
			return c.runBrowse(cmd, &opts)
		},
	}

	opts.src.register(cmd)
	opts.pipe.register(cmd)

	return cmd
}

func (c *CLI) runBrowse(cmd *cobra.Command, opts *browseOpts) error {
	ctx := cmd.Context()

	nodes, err := c.loadNodes(ctx, opts.src)
	if err != nil {
		return err
	}
	p, err := c.params(cmd, opts.pipe, nodes, "")
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("template") {
		p.Template = render.NameTerm
	}

	final, err := tea.NewProgram(
		NewNodeListModel(nodes, p.Connector),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
	).Run()
	if err != nil {
		return fmt.Errorf("node picker: %w", err)
	}

	m, ok := final.(NodeListModel)
	if !ok || m.Selected == nil || m.Selected.Path == "" {
		return nil
	}
	p.CurrentPath = m.Selected.Path

	res, err := c.execute(ctx, opts.pipe.noCache, p)
	if err != nil {
		return err
	}
	if res.Content == "" {
		printWarning("No node has path %q", p.CurrentPath)
		return nil
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), res.Content)
	return err
}
