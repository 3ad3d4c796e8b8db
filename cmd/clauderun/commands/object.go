package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/claudelocal/provider"
)

func newObjectCmd(root *rootOptions) *cobra.Command {
	var (
		system     string
		schemaFile string
		retries    int
	)

	cmd := &cobra.Command{
		Use:   "object [prompt...]",
		Short: "Ask for a JSON object and print it",
		Long: `Ask the CLI for a JSON object and print the extracted object.

Code fences and prose around the object are ignored. With --schema, the
JSON Schema in the file is included in the instruction.

Examples:
  clauderun object "Describe Go as {name, year, typed}"
  clauderun object --schema task.schema.json "Create a task for writing docs"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := root.newProvider()
			if err != nil {
				return err
			}
			textReq, err := textRequest(cmd.InOrStdin(), system, args)
			if err != nil {
				return err
			}
			req := provider.ObjectRequest{Messages: textReq.Messages}
			if schemaFile != "" {
				data, err := os.ReadFile(schemaFile)
				if err != nil {
					return fmt.Errorf("read schema: %w", err)
				}
				req.SchemaJSON = data
			}

			var resp *provider.ObjectResponse
			err = withRetries(cmd.Context(), retries, func() error {
				var genErr error
				resp, genErr = p.GenerateObject(cmd.Context(), req)
				return genErr
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp.Object)
		},
	}

	cmd.Flags().StringVarP(&system, "system", "s", "", "System prompt")
	cmd.Flags().StringVar(&schemaFile, "schema", "", "JSON Schema file describing the object")
	cmd.Flags().IntVar(&retries, "retries", 0, "Retry transient failures up to this many times")
	return cmd
}
