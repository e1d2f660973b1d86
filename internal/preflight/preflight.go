package preflight

import (
	"context"

	"easel/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks report; they never mutate the workspace.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckPython(ctx, cfg.Python.Binary, cfg.Python.MinVersion))
	results = append(results, CheckDirectoryAccess("Workspace root", cfg.Paths.WorkspaceRoot))
	results = append(results, CheckVirtualenv(cfg.Python.VenvDir))
	results = append(results, CheckFixture(cfg.Workspace.SamplePDF))
	results = append(results, CheckCredential(cfg.Gemini.EnvVar))

	if cfg.Gemini.CheckAPI {
		results = append(results, CheckGemini(ctx, cfg))
	}

	return results
}
