package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/claudelocal/provider"
)

// Retry tuning for --retries.
var (
	retryInitialInterval = 2 * time.Second
	retryMaxInterval     = 30 * time.Second
)

func newGenerateCmd(root *rootOptions) *cobra.Command {
	var (
		system  string
		retries int
	)

	cmd := &cobra.Command{
		Use:   "generate [prompt...]",
		Short: "Send a prompt and print the reply",
		Long: `Send a prompt to the CLI and print the reply.

The prompt is read from the arguments, or from stdin when there are none
or the only argument is "-".

Examples:
  clauderun generate "Explain context.Context in one paragraph"
  git diff | clauderun generate --system "You review diffs." -
  clauderun generate --retries 3 "Name a prime number"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := root.newProvider()
			if err != nil {
				return err
			}
			req, err := textRequest(cmd.InOrStdin(), system, args)
			if err != nil {
				return err
			}

			var resp *provider.TextResponse
			err = withRetries(cmd.Context(), retries, func() error {
				var genErr error
				resp, genErr = p.GenerateText(cmd.Context(), req)
				return genErr
			})
			if err != nil {
				return err
			}

			slog.Debug("generated", "request_id", resp.RequestID, "response_time", resp.ResponseTime)
			fmt.Fprintln(cmd.OutOrStdout(), resp.Text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&system, "system", "s", "", "System prompt")
	cmd.Flags().IntVar(&retries, "retries", 0, "Retry transient failures up to this many times")
	return cmd
}

// textRequest builds a request from an optional system prompt and the user
// prompt taken from args or in.
func textRequest(in io.Reader, system string, args []string) (provider.TextRequest, error) {
	prompt := strings.Join(args, " ")
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(in)
		if err != nil {
			return provider.TextRequest{}, fmt.Errorf("read prompt: %w", err)
		}
		prompt = string(data)
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return provider.TextRequest{}, fmt.Errorf("prompt is empty")
	}

	var msgs []provider.Message
	if system != "" {
		msgs = append(msgs, provider.NewTextMessage(provider.RoleSystem, system))
	}
	msgs = append(msgs, provider.NewTextMessage(provider.RoleUser, prompt))
	return provider.TextRequest{Messages: msgs}, nil
}

// withRetries runs fn, retrying errors marked retryable with exponential
// backoff. Other errors are returned at once.
func withRetries(ctx context.Context, retries int, fn func() error) error {
	if retries <= 0 {
		return fn()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitialInterval
	b.MaxInterval = retryMaxInterval
	b.MaxElapsedTime = 0
	b.Reset()

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
	return backoff.RetryNotify(func() error {
		err := fn()
		if err != nil && !provider.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		slog.Warn("retrying after transient failure", "error", err, "wait", wait)
	})
}
