package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:       "completion [bash|zsh|fish]",
	Short:     "Generate the shell completion script for the specified shell",
	ValidArgs: []string{"bash", "zsh", "fish"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Long: `To load completions:

Bash:

  $ source <(selectors completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ selectors completion bash > /etc/bash_completion.d/selectors
  # macOS:
  $ selectors completion bash > $(brew --prefix)/etc/bash_completion.d/selectors

Zsh:

  $ selectors completion zsh > "${fpath[1]}/_selectors"

Fish:

  $ selectors completion fish > ~/.config/fish/completions/selectors.fish`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var err error
		switch args[0] {
		case "bash":
			err = cmd.Root().GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			err = cmd.Root().GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			err = cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		}
		if err != nil {
			return fmt.Errorf("unable to generate a %s completion: %w", args[0], err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
