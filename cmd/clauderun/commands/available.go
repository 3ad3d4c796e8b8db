package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/claudelocal/provider"
)

func newAvailableCmd(root *rootOptions) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "available",
		Short: "Report whether a CLI command can be resolved",
		Long: `Report whether a CLI command can be resolved. No process is started.
Exits non-zero when nothing resolves.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := root.newProvider()
			if err != nil {
				return err
			}
			if !p.IsAvailable(cmd.Context(), provider.CommandParams{}) {
				if !quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "unavailable")
				}
				return ErrSilent
			}
			if !quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "available")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only set the exit status")
	return cmd
}
