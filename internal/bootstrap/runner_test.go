package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"easel/internal/config"
	"easel/internal/journal"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeStub(t *testing.T, dir, name, script string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
}

// stubPath puts fake python3/ffmpeg binaries on PATH so the dependency
// checks resolve without touching the host toolchain.
func stubPath(t *testing.T, binaries ...string) {
	t.Helper()
	dir := t.TempDir()
	for _, name := range binaries {
		script := "exit 0"
		if strings.HasPrefix(name, "python") {
			script = `echo "Python 3.12.1"`
		}
		writeStub(t, dir, name, script)
	}
	t.Setenv("PATH", dir)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkspaceRoot = root
	cfg.Paths.LogDir = filepath.Join(root, ".logs")
	cfg.Paths.CacheDir = filepath.Join(root, ".cache")
	cfg.Workspace.AgentsDir = filepath.Join(root, "agents")
	cfg.Workspace.TempDir = filepath.Join(root, "temp_processing")
	cfg.Workspace.OutputDir = filepath.Join(root, "output_videos")
	cfg.Workspace.SamplePDF = filepath.Join(root, "example.pdf")
	cfg.Python.VenvDir = filepath.Join(root, "venv")
	cfg.Python.Requirements = filepath.Join(root, "requirements.txt")
	cfg.Profile.Path = filepath.Join(root, ".profile")
	cfg.Journal.Enabled = false
	return &cfg
}

type execCall struct {
	name string
	args []string
}

// recordingRunner collects venv/pip invocations instead of executing them.
// With failInstall set, the requirements install fails while environment
// creation and the pip upgrade still succeed.
type recordingRunner struct {
	calls       []execCall
	failInstall bool
}

func (r *recordingRunner) run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, execCall{name: name, args: args})
	if r.failInstall && len(args) >= 2 && args[len(args)-2] == "-r" {
		return []byte("ERROR: No matching distribution found for nonexistent-package"), fmt.Errorf("exit status 1")
	}
	return nil, nil
}

func newTestRunner(t *testing.T, cfg *config.Config, exec *recordingRunner, opts ...Option) (*Runner, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	base := []Option{
		WithOutput(out),
		WithInteractive(false),
		WithVenvRunner(exec.run),
	}
	runner, err := NewRunner(cfg, testLogger(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return runner, out
}

func resultFor(t *testing.T, report Report, name string) Outcome {
	t.Helper()
	for _, result := range report.Results {
		if result.Name == name {
			return result.Outcome
		}
	}
	t.Fatalf("no result recorded for step %q", name)
	return Outcome{}
}

func TestRunFreshWorkspace(t *testing.T) {
	stubPath(t, "python3", "ffmpeg", "ffprobe")
	t.Setenv("GEMINI_API_KEY", "")
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.Python.Requirements, []byte("requests\n"), 0o644); err != nil {
		t.Fatalf("write requirements: %v", err)
	}

	exec := &recordingRunner{}
	runner, out := newTestRunner(t, cfg, exec)

	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, dir := range cfg.WorkspaceDirs() {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %s not provisioned: %v", dir, err)
		}
	}
	if _, err := os.Stat(cfg.Workspace.SamplePDF); err != nil {
		t.Errorf("sample document missing: %v", err)
	}

	if len(exec.calls) != 3 {
		t.Fatalf("expected venv create + pip upgrade + pip install, got %d calls: %v", len(exec.calls), exec.calls)
	}
	if got := exec.calls[0].args; len(got) != 3 || got[0] != "-m" || got[1] != "venv" {
		t.Errorf("unexpected venv creation args: %v", got)
	}
	last := exec.calls[2].args
	if want := []string{"-m", "pip", "install", "-r", cfg.Python.Requirements}; strings.Join(last, " ") != strings.Join(want, " ") {
		t.Errorf("unexpected install args: %v", last)
	}

	// credential was skipped non-interactively, so the run degrades to warning
	if got := report.Outcome(); got != journal.OutcomeWarning {
		t.Errorf("expected warning outcome, got %s", got)
	}
	if !strings.Contains(out.String(), "Setup complete.") {
		t.Errorf("summary missing from output:\n%s", out.String())
	}
}

func TestRunSecondPassSkipsProvisionedResources(t *testing.T) {
	stubPath(t, "python3", "ffmpeg")
	t.Setenv("GEMINI_API_KEY", "token-from-environment")
	cfg := testConfig(t)

	exec := &recordingRunner{}
	runner, _ := newTestRunner(t, cfg, exec)
	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// the fake executor never builds the venv tree, so mark it provisioned
	if err := os.MkdirAll(cfg.Python.VenvDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.Python.VenvDir, "pyvenv.cfg"), []byte("home = /usr/bin\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	original, err := os.ReadFile(cfg.Workspace.SamplePDF)
	if err != nil {
		t.Fatalf("read sample after first run: %v", err)
	}

	second := &recordingRunner{}
	runner, _ = newTestRunner(t, cfg, second)
	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if got := resultFor(t, report, "virtualenv"); got.Status != StatusSkipped {
		t.Errorf("virtualenv should be skipped on rerun, got %s (%s)", got.Status, got.Detail)
	}
	if got := resultFor(t, report, "sample-pdf"); got.Status != StatusSkipped {
		t.Errorf("sample-pdf should be skipped on rerun, got %s (%s)", got.Status, got.Detail)
	}
	for _, call := range second.calls {
		if len(call.args) >= 2 && call.args[1] == "venv" {
			t.Errorf("virtual environment recreated on rerun: %v", call)
		}
	}

	after, err := os.ReadFile(cfg.Workspace.SamplePDF)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(original, after) {
		t.Error("sample document was rewritten on rerun")
	}
}

func TestRunHaltsWhenFFmpegMissing(t *testing.T) {
	stubPath(t, "python3") // no ffmpeg stub
	cfg := testConfig(t)

	exec := &recordingRunner{}
	runner, out := newTestRunner(t, cfg, exec)
	report, err := runner.Run(context.Background())
	if err == nil {
		t.Fatal("expected error when ffmpeg is missing")
	}
	if report.FatalStep != "ffmpeg" {
		t.Errorf("fatal step = %q, want ffmpeg", report.FatalStep)
	}
	if len(exec.calls) != 0 {
		t.Errorf("no venv or pip commands should run after a fatal check, got %v", exec.calls)
	}
	if dirs := cfg.WorkspaceDirs(); fileExists(dirs[0]) {
		t.Errorf("directories should not be provisioned after a fatal check")
	}
	if !strings.Contains(out.String(), "ffmpeg") {
		t.Errorf("halt output should mention ffmpeg:\n%s", out.String())
	}
}

func TestRunPythonBelowFloorIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeStub(t, dir, "python3", `echo "Python 3.8.10"`)
	writeStub(t, dir, "ffmpeg", "exit 0")
	t.Setenv("PATH", dir)
	cfg := testConfig(t)

	runner, _ := newTestRunner(t, cfg, &recordingRunner{})
	report, err := runner.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for interpreter below the version floor")
	}
	if report.FatalStep != "python" {
		t.Errorf("fatal step = %q, want python", report.FatalStep)
	}
	if !strings.Contains(err.Error(), "3.10") {
		t.Errorf("error should name the required floor: %v", err)
	}
}

func TestCredentialAlreadySetSkipsPrompt(t *testing.T) {
	stubPath(t, "python3", "ffmpeg")
	t.Setenv("GEMINI_API_KEY", "token-from-environment")
	cfg := testConfig(t)

	runner, _ := newTestRunner(t, cfg, &recordingRunner{},
		WithInteractive(true),
		WithInput(StaticInput()), // any prompt would read an empty answer
	)
	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := resultFor(t, report, "credential"); got.Status != StatusOK {
		t.Errorf("credential step = %s (%s), want ok without prompting", got.Status, got.Detail)
	}
	if fileExists(cfg.Profile.Path) {
		t.Error("profile must not be touched when the credential is already set")
	}
}

func TestCredentialEmptyAnswerLeavesStateUntouched(t *testing.T) {
	stubPath(t, "python3", "ffmpeg")
	t.Setenv("GEMINI_API_KEY", "")
	cfg := testConfig(t)

	runner, _ := newTestRunner(t, cfg, &recordingRunner{},
		WithInteractive(true),
		WithInput(StaticInput("", "n")),
	)
	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := resultFor(t, report, "credential"); got.Status != StatusWarn {
		t.Errorf("credential step = %s, want warn on skipped prompt", got.Status)
	}
	if os.Getenv("GEMINI_API_KEY") != "" {
		t.Error("environment variable must stay unset after an empty answer")
	}
	if fileExists(cfg.Profile.Path) {
		t.Error("profile must not be written after an empty answer")
	}
}

func TestCredentialAnswerPersistsToProfile(t *testing.T) {
	stubPath(t, "python3", "ffmpeg")
	t.Setenv("GEMINI_API_KEY", "")
	cfg := testConfig(t)

	runner, out := newTestRunner(t, cfg, &recordingRunner{},
		WithInteractive(true),
		WithInput(StaticInput("entered-key", "n")),
	)
	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := resultFor(t, report, "credential"); got.Status != StatusOK {
		t.Errorf("credential step = %s (%s), want ok", got.Status, got.Detail)
	}
	if os.Getenv("GEMINI_API_KEY") != "entered-key" {
		t.Error("environment variable not set for the current session")
	}
	profile, err := os.ReadFile(cfg.Profile.Path)
	if err != nil {
		t.Fatalf("read profile: %v", err)
	}
	if !strings.Contains(string(profile), `export GEMINI_API_KEY="entered-key"`) {
		t.Errorf("profile missing export line:\n%s", profile)
	}
	if strings.Contains(out.String(), "entered-key") {
		t.Error("credential value must never appear in status output")
	}
}

func TestRunSkipInstall(t *testing.T) {
	stubPath(t, "python3", "ffmpeg")
	t.Setenv("GEMINI_API_KEY", "token-from-environment")
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.Python.Requirements, []byte("requests\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	exec := &recordingRunner{}
	runner, _ := newTestRunner(t, cfg, exec, WithSkipInstall(true))
	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := resultFor(t, report, "dependencies"); got.Status != StatusSkipped {
		t.Errorf("dependencies step = %s, want skipped", got.Status)
	}
	for _, call := range exec.calls {
		if len(call.args) >= 2 && call.args[1] == "pip" {
			t.Errorf("pip invoked despite --skip-install: %v", call)
		}
	}
}

func TestRunInstallFailureIsFatal(t *testing.T) {
	stubPath(t, "python3", "ffmpeg")
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.Python.Requirements, []byte("nonexistent-package\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	runner, _ := newTestRunner(t, cfg, &recordingRunner{failInstall: true})
	report, err := runner.Run(context.Background())
	if err == nil {
		t.Fatal("expected error when installation fails")
	}
	if report.FatalStep != "dependencies" {
		t.Errorf("fatal step = %q, want dependencies", report.FatalStep)
	}
	if !strings.Contains(err.Error(), "install requirements") {
		t.Errorf("error should carry the installer failure: %v", err)
	}
}

func TestRunRefusesConcurrentSetup(t *testing.T) {
	stubPath(t, "python3", "ffmpeg")
	cfg := testConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	holder := flock.New(cfg.LockPath())
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquire lock for test: locked=%v err=%v", locked, err)
	}
	defer holder.Unlock()

	runner, _ := newTestRunner(t, cfg, &recordingRunner{})
	_, err = runner.Run(context.Background())
	if err != ErrAlreadyRunning {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestRunRecordsJournal(t *testing.T) {
	stubPath(t, "python3", "ffmpeg")
	t.Setenv("GEMINI_API_KEY", "token-from-environment")
	cfg := testConfig(t)
	cfg.Journal.Enabled = true
	cfg.Journal.Path = filepath.Join(cfg.Paths.CacheDir, "journal.db")

	runner, _ := newTestRunner(t, cfg, &recordingRunner{})
	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	runs, err := store.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one journaled run, got %d", len(runs))
	}
	if runs[0].Outcome != report.Outcome() {
		t.Errorf("journal outcome = %q, want %q", runs[0].Outcome, report.Outcome())
	}
	steps, err := store.RunSteps(ctx, runs[0].ID)
	if err != nil {
		t.Fatalf("RunSteps: %v", err)
	}
	if len(steps) != len(report.Results) {
		t.Errorf("journaled %d steps, want %d", len(steps), len(report.Results))
	}
}

func TestOfferSmokeTestRunsOnYes(t *testing.T) {
	stubPath(t, "python3", "ffmpeg")
	t.Setenv("GEMINI_API_KEY", "token-from-environment")
	cfg := testConfig(t)

	ran := false
	runner, _ := newTestRunner(t, cfg, &recordingRunner{},
		WithInteractive(true),
		WithInput(StaticInput("y")),
		WithSmokeTest(func(context.Context) error {
			ran = true
			return nil
		}),
	)
	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !ran {
		t.Error("component test should run after a y answer")
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
