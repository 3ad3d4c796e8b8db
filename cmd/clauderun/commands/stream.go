package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/claudelocal/provider"
)

func newStreamCmd(root *rootOptions) *cobra.Command {
	var system string

	cmd := &cobra.Command{
		Use:   "stream [prompt...]",
		Short: "Send a prompt and print the reply as it arrives",
		Long: `Send a prompt and print each line of the reply as the CLI writes it.
Ctrl-C stops the CLI process.

Examples:
  clauderun stream "Write a haiku about goroutines"
  cat notes.md | clauderun stream --system "Summarize." -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sp, err := root.newStreamingProvider()
			if err != nil {
				return err
			}
			req, err := textRequest(cmd.InOrStdin(), system, args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			chunks, result, err := sp.StreamText(ctx, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for chunk := range chunks {
				if chunk.Error != nil {
					break
				}
				fmt.Fprint(out, chunk.Content)
			}

			_, err = result.Wait(context.Background())
			if errors.Is(err, provider.ErrCancelled) {
				fmt.Fprintln(cmd.ErrOrStderr(), "interrupted")
				return ErrSilent
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&system, "system", "s", "", "System prompt")
	return cmd
}
