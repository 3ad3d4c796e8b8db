// Package commands provides the CLI commands for clauderun.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/claudelocal/claude"
)

// Version information set at build time.
var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

// ErrSilent marks a failure whose explanation was already printed.
var ErrSilent = errors.New("command failed")

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	command    string
	model      string
	rcPath     string
	configFile string
	envFile    string
	workDir    string
	logLevel   string
	timeout    time.Duration
}

// NewRootCommand builds the clauderun command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "clauderun",
		Short: "Run the locally installed Claude CLI",
		Long: `clauderun resolves, checks and drives the locally installed Claude CLI.

The command line is taken from --command, CLAUDE_CODE_COMMAND, the
"command" variable of a .clauderc file, or auto-detection, in that order.

Examples:
  clauderun resolve --model opus
  clauderun generate "Summarize README.md"
  echo "List three colors" | clauderun stream
  clauderun validate`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd.ErrOrStderr(), opts.logLevel)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.command, "command", "", "Command line that starts the CLI")
	flags.StringVarP(&opts.model, "model", "m", "", "Model id, short name (opus, sonnet, haiku) or RC alias")
	flags.StringVar(&opts.rcPath, "rc", "", "RC file checked before the default search paths")
	flags.StringVar(&opts.configFile, "config", "", "Provider config file (.yaml, .toml or .json)")
	flags.StringVar(&opts.envFile, "env-file", "", "Dotenv file with variables for the CLI process")
	flags.StringVar(&opts.workDir, "workdir", "", "Directory the CLI runs in")
	flags.StringVar(&opts.logLevel, "log-level", "WARN", "Log level (DEBUG|INFO|WARN|ERROR)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Limit for one CLI invocation (default 5m)")

	rootCmd.SetVersionTemplate(fmt.Sprintf("clauderun %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(
		newResolveCmd(opts),
		newAvailableCmd(opts),
		newGenerateCmd(opts),
		newObjectCmd(opts),
		newStreamCmd(opts),
		newValidateCmd(opts),
		newRCCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

func setupLogging(w io.Writer, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// config merges the config file, the environment and the flags, in
// increasing order of precedence.
func (o *rootOptions) config() (claude.Config, error) {
	cfg := claude.DefaultConfig()
	if o.configFile != "" {
		var err error
		if cfg, err = claude.LoadConfigFile(o.configFile); err != nil {
			return claude.Config{}, err
		}
	}
	cfg.LoadFromEnv()

	if o.command != "" {
		cfg.Command = o.command
	}
	if o.model != "" {
		cfg.Model = o.model
	}
	if o.rcPath != "" {
		cfg.RCPath = o.rcPath
	}
	if o.workDir != "" {
		cfg.WorkDir = o.workDir
	}
	if o.timeout > 0 {
		cfg.Timeout = o.timeout
	}

	if o.envFile != "" {
		vars, err := godotenv.Read(o.envFile)
		if err != nil {
			return claude.Config{}, fmt.Errorf("read env file: %w", err)
		}
		merged := make(map[string]string, len(cfg.Env)+len(vars))
		for k, v := range cfg.Env {
			merged[k] = v
		}
		for k, v := range vars {
			merged[k] = v
		}
		cfg.Env = merged
	}

	if err := cfg.Validate(); err != nil {
		return claude.Config{}, err
	}
	return cfg, nil
}

func (o *rootOptions) newProvider() (*claude.Provider, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	return claude.NewProvider(cfg.ToOptions()...), nil
}

func (o *rootOptions) newStreamingProvider() (*claude.StreamingProvider, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	return claude.NewStreamingProvider(cfg.ToOptions()...), nil
}
