package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/commands"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	debug      bool
	asyncFlag  bool
)

// NewRootCmd creates the patchrc root command
func NewRootCmd() *cobra.Command {
	ropts := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:          "patchrc",
		Short:        "Apply known source patches to files in place",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()

			// init and version run without an existing config
			switch cmd.Name() {
			case "init", "version":
				return nil
			}

			cfg, err := config.Load(cmd.Context(), configFile)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}
			if cmd.Flags().Changed("async") {
				cfg.Async = asyncFlag
			}

			ropts.Config = cfg
			ropts.Reporter = status.NewConsoleReporter()
			return nil
		},
	}

	addRootFlags(cmd)
	cmd.AddCommand(commands.NewApplyCmd(ropts))
	cmd.AddCommand(commands.NewPlanCmd(ropts))
	cmd.AddCommand(commands.NewInitCmd(&configFile))
	cmd.AddCommand(commands.NewVersionCmd())

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", ".patchrc.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&asyncFlag, "async", false, "patch targets concurrently")
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// TODO(dr.methodical): 🧪 Add tests for config loading across subcommands
