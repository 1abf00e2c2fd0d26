package commands

import (
	"github.com/spf13/cobra"

	"github.com/banktotal-dev/banktotal/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
// Run without arguments it performs a balance update.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "banktotal",
		Short:   "Bank balance summary from SMS and notifications",
		Version: buildinfo.String(),
		Args:    cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd)
		},
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newHistoryCommand())
	rootCmd.AddCommand(newRunsCommand())

	return rootCmd
}
