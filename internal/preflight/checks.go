package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"easel/internal/config"
	"easel/internal/deps"
	"easel/internal/secrets"
	"easel/internal/services/gemini"
	"easel/internal/venv"
)

// CheckPython resolves the interpreter and verifies the version floor.
func CheckPython(ctx context.Context, configured, minVersion string) Result {
	const name = "Python"

	major, minor, err := config.ParseVersion(minVersion)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("invalid min_version %q", minVersion)}
	}
	interp, err := deps.ResolvePython(ctx, configured)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if !interp.Meets(major, minor) {
		return Result{Name: name, Detail: fmt.Sprintf("%s is older than required %s", interp, minVersion)}
	}
	return Result{Name: name, Passed: true, Detail: interp.String()}
}

// CheckGemini verifies that the Gemini API is reachable and the key is valid.
// Single attempt under a 10-second cap; a missing key fails fast without
// touching the network.
func CheckGemini(ctx context.Context, cfg *config.Config) Result {
	const name = "Gemini API"

	key := os.Getenv(cfg.Gemini.EnvVar)
	if key == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := gemini.NewClient(gemini.Config{
		APIKey:         key,
		BaseURL:        cfg.Gemini.BaseURL,
		Model:          cfg.Gemini.Model,
		TimeoutSeconds: cfg.Gemini.TimeoutSeconds,
	})
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeGeminiError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable, key accepted"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckVirtualenv reports whether the isolated environment is provisioned.
func CheckVirtualenv(dir string) Result {
	const name = "Virtualenv"
	env := venv.New(dir)
	if !env.Exists() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (not created; run `easel setup`)", dir)}
	}
	return Result{Name: name, Passed: true, Detail: dir}
}

// CheckFixture reports whether the sample input document is present.
func CheckFixture(path string) Result {
	const name = "Sample PDF"
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (not created; run `easel setup`)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckCredential reports whether the API key variable is set. The value is
// never included in the result.
func CheckCredential(envVar string) Result {
	const name = "Credential"
	if !secrets.Detect(envVar) {
		return Result{Name: name, Detail: fmt.Sprintf("%s is not set", envVar)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s is set", envVar)}
}

// CheckSystemDeps evaluates all system-level binary dependencies for the
// given config. Both setup and status use this to avoid duplicating the
// requirements list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Tools.FFmpegBinary,
			Description: "Required for video assembly",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Tools.FFprobeBinary,
			Description: "Used for media validation",
			Optional:    true,
		},
	}
	return deps.CheckBinaries(requirements)
}

// summarizeGeminiError produces a human-readable summary for health check failures.
func summarizeGeminiError(err error) string {
	if errors.Is(err, gemini.ErrInvalidKey) {
		return "API key rejected"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (Gemini API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (Gemini API unreachable)"
	}
	return err.Error()
}
