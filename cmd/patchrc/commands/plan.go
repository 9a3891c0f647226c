package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewPlanCmd creates a new plan command
func NewPlanCmd(ropts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview the pending changes without modifying any file",
		Long: `Plan runs the same locate and substitute stages as apply, entirely in
memory, and prints the resulting diff per target. No target is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "plan").Logger().WithContext(ctx)

			op := operation.NewPlanOperation(operation.Options{
				Config:   ropts.Config,
				Reporter: ropts.Reporter,
			})
			runner := operation.NewRunner(zerolog.Ctx(ctx), false)
			if err := runner.Run(ctx, op); err != nil {
				return errors.Errorf("planning patches: %w", err)
			}

			return nil
		},
	}

	return cmd
}
