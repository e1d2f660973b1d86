package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"easel/internal/deps"
	"easel/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report workspace readiness without changing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := ctx.colorize(os.Stdout)

			printSection(out, "Configuration", colorize)
			fmt.Fprintln(out, renderStatusLine("Workspace", statusInfo, cfg.Paths.WorkspaceRoot, colorize))
			fmt.Fprintln(out, renderStatusLine("Virtualenv", statusInfo, cfg.Python.VenvDir, colorize))
			fmt.Fprintln(out, renderStatusLine("API probe", statusInfo, yesNo(cfg.Gemini.CheckAPI), colorize))
			fmt.Fprintln(out)

			printSection(out, "System dependencies", colorize)
			for _, status := range preflight.CheckSystemDeps(cfg) {
				fmt.Fprintln(out, renderDepLine(status, colorize))
			}
			fmt.Fprintln(out)

			printSection(out, "Environment checks", colorize)
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusError
				if result.Passed {
					kind = statusOK
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			return nil
		},
	}
}

func printSection(out io.Writer, title string, colorize bool) {
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(out, line)
	}
}

func renderDepLine(status deps.Status, colorize bool) string {
	kind := statusOK
	message := status.Command
	if !status.Available {
		message = status.Detail
		kind = statusError
		if status.Optional {
			kind = statusWarn
		}
	}
	return renderStatusLine(status.Name, kind, message, colorize)
}
