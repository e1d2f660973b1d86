package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	"easel/internal/config"
	"easel/internal/deps"
	"easel/internal/fileutil"
	"easel/internal/fixture"
	"easel/internal/preflight"
	"easel/internal/secrets"
	"easel/internal/venv"
)

func (r *Runner) stepPython(ctx context.Context) Outcome {
	major, minor, err := config.ParseVersion(r.cfg.Python.MinVersion)
	if err != nil {
		return Fatal(fmt.Errorf("invalid python.min_version: %w", err), "")
	}
	interp, err := deps.ResolvePython(ctx, r.cfg.Python.Binary)
	if err != nil {
		return Fatal(err, deps.PythonInstallHint)
	}
	if !interp.Meets(major, minor) {
		return Fatal(
			fmt.Errorf("%s is older than required %s", interp, r.cfg.Python.MinVersion),
			deps.PythonInstallHint,
		)
	}
	r.interp = interp
	return OK(interp.String())
}

func (r *Runner) stepFFmpeg(context.Context) Outcome {
	statuses := deps.CheckBinaries([]deps.Requirement{{
		Name:        "FFmpeg",
		Command:     r.cfg.Tools.FFmpegBinary,
		Description: "Required for video assembly",
	}})
	status := statuses[0]
	if !status.Available {
		return Fatal(errors.New(status.Detail), deps.FFmpegInstallHint)
	}
	return OK(status.Command)
}

func (r *Runner) stepDirectories(context.Context) Outcome {
	for _, dir := range r.cfg.WorkspaceDirs() {
		if err := fileutil.EnsureDir(dir); err != nil {
			return Fatal(err, "")
		}
	}
	return OK(fmt.Sprintf("%d directories ensured under %s", len(r.cfg.WorkspaceDirs()), r.cfg.Paths.WorkspaceRoot))
}

func (r *Runner) stepVirtualenv(ctx context.Context) Outcome {
	env := r.venv()
	if env.Exists() {
		return Skipped("already present; not recreated")
	}
	if err := env.Create(ctx, r.interp.Path); err != nil {
		return Fatal(err, "")
	}
	return OK(env.Dir())
}

func (r *Runner) stepDependencies(ctx context.Context) Outcome {
	if r.skipInstall {
		return Skipped("installation disabled (--skip-install)")
	}
	manifest := r.cfg.Python.Requirements
	if !fileutil.Exists(manifest) {
		return Warn(fmt.Sprintf("%s not found; nothing to install", manifest))
	}
	if err := r.venv().InstallRequirements(ctx, manifest); err != nil {
		return Fatal(err, "Fix the reported package error and re-run setup; the virtual environment is kept.")
	}
	return OK("dependencies installed into " + r.cfg.Python.VenvDir)
}

func (r *Runner) stepCredential(context.Context) Outcome {
	envVar := r.cfg.Gemini.EnvVar
	if err := secrets.LoadDotenv(r.cfg.Paths.WorkspaceRoot); err != nil {
		r.logger.Warn("load .env", "error", err)
	}
	if secrets.Detect(envVar) {
		return OK(envVar + " already configured")
	}
	if !r.interactive {
		return Warn(fmt.Sprintf("%s not set; skipped (non-interactive)", envVar))
	}

	answer, err := r.input.ReadLine("Enter your Gemini API key (or press Enter to skip): ")
	if err != nil {
		return Warn(fmt.Sprintf("could not read key: %v", err))
	}
	if answer == "" {
		return Warn(fmt.Sprintf("%s not set; you can export it later", envVar))
	}

	if err := os.Setenv(envVar, answer); err != nil {
		return Warn(fmt.Sprintf("set %s for this session: %v", envVar, err))
	}

	profilePath := r.cfg.Profile.Path
	if profilePath == "" {
		profilePath, err = secrets.DefaultProfilePath()
		if err != nil {
			return Warn(fmt.Sprintf("%s set for this session only: %v", envVar, err))
		}
	}
	wrote, err := secrets.EnsureExport(profilePath, envVar, answer)
	if err != nil {
		return Warn(fmt.Sprintf("%s set for this session only: %v", envVar, err))
	}
	if !wrote {
		return OK(fmt.Sprintf("%s set; %s already exports it", envVar, profilePath))
	}
	return OK(fmt.Sprintf("%s set and persisted to %s", envVar, profilePath))
}

func (r *Runner) stepFixture(context.Context) Outcome {
	path := r.cfg.Workspace.SamplePDF
	created, err := fixture.EnsureSample(path)
	if err != nil {
		return Warn(fmt.Sprintf("create sample document: %v", err))
	}
	if !created {
		return Skipped(path + " already exists; left untouched")
	}
	return OK("created " + path)
}

func (r *Runner) stepSelfCheck(ctx context.Context) Outcome {
	// Informational only. The API probe stays off here so setup never
	// touches the network outside package installation.
	cfg := *r.cfg
	cfg.Gemini.CheckAPI = false

	results := preflight.RunAll(ctx, &cfg)
	for _, status := range preflight.CheckSystemDeps(&cfg) {
		result := preflight.Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
		if status.Available {
			result.Detail = status.Command
		}
		results = append(results, result)
	}

	passed := 0
	for _, result := range results {
		kind := StatusWarn
		if result.Passed {
			kind = StatusOK
			passed++
		}
		r.printCheck(result.Name, kind, result.Detail)
	}
	return OK(fmt.Sprintf("%d/%d checks passed", passed, len(results)))
}

func (r *Runner) venv() *venv.Env {
	opts := []venv.Option{}
	if r.venvRunner != nil {
		opts = append(opts, venv.WithRunner(r.venvRunner))
	}
	return venv.New(r.cfg.Python.VenvDir, opts...)
}
