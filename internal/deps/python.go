package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Interpreter describes a resolved Python interpreter.
type Interpreter struct {
	Path    string
	Major   int
	Minor   int
	Version string
}

// String renders the interpreter for status output.
func (i Interpreter) String() string {
	if i.Version == "" {
		return i.Path
	}
	return fmt.Sprintf("%s (%s)", i.Path, i.Version)
}

// Meets reports whether the interpreter satisfies a major.minor floor.
func (i Interpreter) Meets(major, minor int) bool {
	if i.Major != major {
		return i.Major > major
	}
	return i.Minor >= minor
}

// ResolvePython locates a usable Python interpreter and probes its version.
// When configured is non-empty only that binary is considered; otherwise
// python3 is preferred and python accepted as a fallback.
func ResolvePython(ctx context.Context, configured string) (Interpreter, error) {
	candidates := []string{"python3", "python"}
	if trimmed := strings.TrimSpace(configured); trimmed != "" {
		candidates = []string{trimmed}
	}

	var lastErr error
	for _, candidate := range candidates {
		resolved, err := exec.LookPath(candidate)
		if err != nil {
			lastErr = err
			continue
		}
		interp, err := probeVersion(ctx, resolved)
		if err != nil {
			lastErr = err
			continue
		}
		return interp, nil
	}
	if lastErr != nil {
		return Interpreter{}, fmt.Errorf("no usable python interpreter (tried %s): %w", strings.Join(candidates, ", "), lastErr)
	}
	return Interpreter{}, fmt.Errorf("no usable python interpreter (tried %s)", strings.Join(candidates, ", "))
}

// probeVersion runs `<binary> --version` and parses "Python X.Y[.Z]".
func probeVersion(ctx context.Context, binary string) (Interpreter, error) {
	out, err := exec.CommandContext(ctx, binary, "--version").CombinedOutput()
	if err != nil {
		return Interpreter{}, fmt.Errorf("probe %s: %w", binary, err)
	}
	version, major, minor, err := parsePythonVersion(string(out))
	if err != nil {
		return Interpreter{}, fmt.Errorf("probe %s: %w", binary, err)
	}
	return Interpreter{Path: binary, Major: major, Minor: minor, Version: version}, nil
}

func parsePythonVersion(output string) (string, int, int, error) {
	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) < 2 || !strings.EqualFold(fields[0], "python") {
		return "", 0, 0, fmt.Errorf("unexpected version output %q", strings.TrimSpace(output))
	}
	version := fields[1]
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return "", 0, 0, fmt.Errorf("unexpected version %q", version)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", 0, 0, fmt.Errorf("unexpected version %q", version)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("unexpected version %q", version)
	}
	return version, major, minor, nil
}
