package commands

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/claudelocal/claude"
	"github.com/randalmurphal/claudelocal/rcfile"
)

// rcReport is the YAML document printed by the rc command.
type rcReport struct {
	SearchPaths []string               `yaml:"search_paths"`
	Effective   claude.EffectiveConfig `yaml:"effective"`
	Detected    string                 `yaml:"detected,omitempty"`
	RC          *rcfile.Config         `yaml:"rc,omitempty"`
}

func newRCCmd(root *rootOptions) *cobra.Command {
	var detect bool

	cmd := &cobra.Command{
		Use:   "rc",
		Short: "Show the RC file merged with the environment",
		Long: `Print the RC search path, the RC file that was loaded and the effective
configuration (RC values overlaid with CLAUDE_CODE_* variables) as YAML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := root.newProvider()
			if err != nil {
				return err
			}
			r := p.Resolver()
			report := rcReport{
				SearchPaths: r.RCSearchPaths(),
				Effective:   r.Effective(),
				RC:          r.RC(),
			}
			if detect {
				report.Detected, _ = r.Detected()
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(report); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.Flags().BoolVar(&detect, "detect", false, "Also run auto-detection")
	return cmd
}
