package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(ropts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Locate each rule's region and rewrite it in place",
		Long: `Apply runs every configured rule against every target file.
It will:
1. Load each target into memory
2. Locate the rule's region (pattern match or verified line anchor)
3. Substitute the replacement block, keeping the file's line endings
4. Write the result back atomically

Any locate failure (no match, ambiguous match, anchor mismatch) aborts the
run before the file is touched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "apply").Logger().WithContext(ctx)

			op := operation.NewApplyOperation(operation.Options{
				Config:   ropts.Config,
				Reporter: ropts.Reporter,
			})
			runner := operation.NewRunner(zerolog.Ctx(ctx), ropts.Config.Async)
			if err := runner.Run(ctx, op); err != nil {
				return errors.Errorf("applying patches: %w", err)
			}

			return nil
		},
	}

	return cmd
}
