package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/claudelocal/claude"
	"github.com/randalmurphal/claudelocal/provider"
)

func newResolveCmd(root *rootOptions) *cobra.Command {
	var (
		parsed bool
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the command line that would start the CLI",
		Long: `Print the command line that would start the CLI, including the
--model flag when a model is configured.

With --watch, the command is printed again whenever one of the RC files
on the search path changes.

Examples:
  clauderun resolve
  clauderun resolve --model sonnet --parsed
  clauderun resolve --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return runResolveWatch(ctx, out, root, parsed)
			}

			p, err := root.newProvider()
			if err != nil {
				return err
			}
			if !printResolved(out, p, parsed) {
				return fmt.Errorf("no claude CLI command could be resolved; set --command, CLAUDE_CODE_COMMAND or command= in ~/.clauderc")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&parsed, "parsed", false, "Print the executable and arguments as JSON")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-resolve when an RC file changes")
	return cmd
}

// printResolved writes the resolved command and reports whether one was found.
func printResolved(w io.Writer, p *claude.Provider, parsed bool) bool {
	if parsed {
		c, ok := p.ResolveCommandParsed(provider.CommandParams{})
		if !ok {
			fmt.Fprintln(w, "null")
			return false
		}
		enc := json.NewEncoder(w)
		if err := enc.Encode(c); err != nil {
			slog.Error("encode command", "error", err)
			return false
		}
		return true
	}

	line, ok := p.ResolveCommand(provider.CommandParams{})
	if !ok {
		fmt.Fprintln(w, "(unresolved)")
		return false
	}
	fmt.Fprintln(w, line)
	return true
}

func runResolveWatch(ctx context.Context, w io.Writer, root *rootOptions, parsed bool) error {
	p, err := root.newProvider()
	if err != nil {
		return err
	}
	printResolved(w, p, parsed)

	return watchFiles(ctx, p.Resolver().RCSearchPaths(), func(path string) {
		// A fresh provider re-reads the RC file.
		next, err := root.newProvider()
		if err != nil {
			slog.Warn("reload failed", "path", path, "error", err)
			return
		}
		slog.Info("rc file changed", "path", path)
		printResolved(w, next, parsed)
	})
}
