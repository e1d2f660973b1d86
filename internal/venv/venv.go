package venv

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"easel/internal/fileutil"
)

// Runner executes an external command and returns its combined output.
// Extracted so tests can observe invocations without spawning interpreters.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Env represents an isolated Python package environment rooted at Dir.
type Env struct {
	dir string
	run Runner
}

// Option customizes the environment handle.
type Option func(*Env)

// WithRunner overrides how external commands are executed.
func WithRunner(run Runner) Option {
	return func(e *Env) {
		if run != nil {
			e.run = run
		}
	}
}

// New returns a handle for the virtual environment at dir.
func New(dir string, opts ...Option) *Env {
	env := &Env{dir: dir, run: defaultRunner}
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// Dir returns the environment directory.
func (e *Env) Dir() string {
	return e.dir
}

// Exists reports whether a virtual environment is already present. The
// pyvenv.cfg marker is what the venv module itself writes, so a bare
// directory with the right name does not count.
func (e *Env) Exists() bool {
	return fileutil.Exists(filepath.Join(e.dir, "pyvenv.cfg"))
}

// PythonPath returns the environment's interpreter path.
func (e *Env) PythonPath() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(e.dir, "Scripts", "python.exe")
	}
	return filepath.Join(e.dir, "bin", "python")
}

// Create builds the virtual environment with the given base interpreter.
// Callers are expected to have checked Exists first; an existing environment
// is never recreated here.
func (e *Env) Create(ctx context.Context, python string) error {
	if e.Exists() {
		return fmt.Errorf("virtual environment already exists at %s", e.dir)
	}
	out, err := e.run(ctx, python, "-m", "venv", e.dir)
	if err != nil {
		return fmt.Errorf("create virtual environment: %w: %s", err, firstLines(out, 5))
	}
	return nil
}

// InstallRequirements upgrades pip, then installs the dependency manifest
// into the environment. Failures carry the installer's trailing output since
// pip prints the actionable error last.
func (e *Env) InstallRequirements(ctx context.Context, manifest string) error {
	python := e.PythonPath()

	if out, err := e.run(ctx, python, "-m", "pip", "install", "--upgrade", "pip"); err != nil {
		return fmt.Errorf("upgrade pip: %w: %s", err, lastLines(out, 5))
	}
	if out, err := e.run(ctx, python, "-m", "pip", "install", "-r", manifest); err != nil {
		return fmt.Errorf("install requirements from %s: %w: %s", manifest, err, lastLines(out, 10))
	}
	return nil
}

func firstLines(out []byte, n int) string {
	lines := splitTrimmed(out)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, " | ")
}

func lastLines(out []byte, n int) string {
	lines := splitTrimmed(out)
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}

func splitTrimmed(out []byte) []string {
	raw := strings.Split(strings.TrimSpace(string(out)), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
