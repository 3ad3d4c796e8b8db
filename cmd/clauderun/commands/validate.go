package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/claudelocal/provider"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the CLI with a live round-trip",
		Long: `Resolve the command, check the executable and CLI version, and send a
trivial prompt. Each failure is classified with a suggested fix.

Exits non-zero when validation fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := root.newProvider()
			if err != nil {
				return err
			}
			result := p.Validate(cmd.Context(), provider.CommandParams{})

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else {
				printValidation(out, result)
			}

			if !result.IsValid {
				return ErrSilent
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func printValidation(w io.Writer, result *provider.ValidationResult) {
	var (
		ok    = color.New(color.FgGreen, color.Bold)
		bad   = color.New(color.FgRed, color.Bold)
		warn  = color.New(color.FgYellow)
		faint = color.New(color.FgHiBlack)
	)

	if result.Command != "" {
		fmt.Fprintf(w, "%s %s\n", faint.Sprint("command:"), result.Command)
	}
	if result.Version != "" {
		fmt.Fprintf(w, "%s %s\n", faint.Sprint("version:"), result.Version)
	}
	for _, msg := range result.Warnings {
		fmt.Fprintln(w, warn.Sprintf("warning: %s", msg))
	}
	for _, issue := range result.Errors {
		fmt.Fprintf(w, "%s [%s] %s\n", bad.Sprint("✗"), issue.Type, issue.Message)
		if issue.Fix != "" {
			fmt.Fprintf(w, "  %s %s\n", faint.Sprint("fix:"), issue.Fix)
		}
	}
	if result.IsValid {
		fmt.Fprintln(w, ok.Sprint("✓ claude CLI is ready"))
	}
}
