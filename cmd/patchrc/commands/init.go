package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/pkg/builtin"
	"github.com/walteh/patchrc/pkg/config"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// NewInitCmd creates a new init command. It writes a starter config carrying
// the built-in media-path rule so the fix can be applied without hand-writing
// the pattern.
func NewInitCmd(configFile *string) *cobra.Command {
	var (
		target          string
		startLine       int
		percentFallback bool
		force           bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config with the built-in media-path rule",
		Long: `Init writes a config file containing the shipped rule that switches
media://file/ path decoding from percent-decoding to base64.

By default the rule locates the block with a pattern match. Pass --start-line
to pin it to a fixed position instead; the anchor line is then verified before
anything is rewritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if _, err := os.Stat(*configFile); err == nil {
					return errors.Errorf("%s already exists (use --force to overwrite)", *configFile)
				}
			}

			rule := builtin.MediaPathPatternRule(percentFallback)
			if startLine > 0 {
				rule = builtin.MediaPathLineRule(startLine, percentFallback)
			}

			cfg := &config.Config{
				Targets: []string{target},
				Rules:   []config.Rule{rule},
			}
			if err := cfg.Validate(); err != nil {
				return errors.Errorf("building starter config: %w", err)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return errors.Errorf("marshaling config: %w", err)
			}
			if err := os.WriteFile(*configFile, data, 0o644); err != nil {
				return errors.Errorf("writing %s: %w", *configFile, err)
			}

			cmd.Printf("wrote %s\n", *configFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "electron/main.ts", "file the rule patches")
	cmd.Flags().IntVar(&startLine, "start-line", 0, "pin the rule to a 1-based line instead of pattern matching")
	cmd.Flags().BoolVar(&percentFallback, "percent-fallback", true, "keep percent-decoding for media:// paths without the /file/ prefix")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")

	return cmd
}
