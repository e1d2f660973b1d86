package main

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"easel/internal/config"
	"easel/internal/fileutil"
	"easel/internal/venv"
)

func newSmokeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "smoke",
		Short: "Run the pipeline's component test inside the virtual environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runSmoke(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// runSmoke executes the component-test entry point with the provisioned
// interpreter, streaming its output. The Python side owns the test's
// semantics; here it is an opaque script.
func runSmoke(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	env := venv.New(cfg.Python.VenvDir)
	if !env.Exists() {
		return fmt.Errorf("virtual environment not found at %s; run `easel setup` first", cfg.Python.VenvDir)
	}

	script := filepath.Join(cfg.Paths.WorkspaceRoot, "demo.py")
	if !fileutil.Exists(script) {
		return fmt.Errorf("component test script %s not found", script)
	}

	cmd := exec.CommandContext(ctx, env.PythonPath(), script)
	cmd.Dir = cfg.Paths.WorkspaceRoot
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("component test failed: %w", err)
	}
	return nil
}
