package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand writes shell completion scripts to stdout.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for crumbtrail.

  bash:        source <(crumbtrail completion bash)
  zsh:         crumbtrail completion zsh > "${fpath[1]}/_crumbtrail"
  fish:        crumbtrail completion fish > ~/.config/fish/completions/crumbtrail.fish
  powershell:  crumbtrail completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, w := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			default:
				return root.GenPowerShellCompletionWithDesc(w)
			}
		},
	}
}
