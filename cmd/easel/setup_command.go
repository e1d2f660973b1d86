package main

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"easel/internal/bootstrap"
	"easel/internal/logging"
)

func newSetupCommand(ctx *commandContext) *cobra.Command {
	var nonInteractive bool
	var skipInstall bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Provision the workspace, virtual environment, and credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			interactive := !nonInteractive && stdinIsTerminal()
			runner, err := bootstrap.NewRunner(cfg, logger,
				bootstrap.WithOutput(cmd.OutOrStdout()),
				bootstrap.WithInteractive(interactive),
				bootstrap.WithSkipInstall(skipInstall),
				bootstrap.WithColor(ctx.colorize(os.Stdout)),
				bootstrap.WithSmokeTest(func(runCtx context.Context) error {
					return runSmoke(runCtx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
				}),
			)
			if err != nil {
				return err
			}

			_, err = runner.Run(cmd.Context())
			return err
		},
	}

	cmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "Never prompt; skip credential entry and the component test offer")
	cmd.Flags().BoolVar(&skipInstall, "skip-install", false, "Skip Python dependency installation")
	return cmd
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
