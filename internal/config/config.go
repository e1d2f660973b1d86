package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration outside the workspace tree.
type Paths struct {
	WorkspaceRoot string `toml:"workspace_root"`
	LogDir        string `toml:"log_dir"`
	CacheDir      string `toml:"cache_dir"`
}

// Workspace describes the directory layout provisioned inside the workspace root.
type Workspace struct {
	AgentsDir string `toml:"agents_dir"`
	TempDir   string `toml:"temp_dir"`
	OutputDir string `toml:"output_dir"`
	SamplePDF string `toml:"sample_pdf"`
}

// Python contains interpreter and virtual environment settings.
type Python struct {
	// Binary overrides interpreter discovery. When empty, python3 then
	// python are resolved from PATH.
	Binary       string `toml:"binary"`
	MinVersion   string `toml:"min_version"`
	VenvDir      string `toml:"venv_dir"`
	Requirements string `toml:"requirements"`
}

// Tools contains external media binary names.
type Tools struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Gemini contains settings for the Gemini API credential and reachability probe.
type Gemini struct {
	EnvVar         string `toml:"env_var"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	// CheckAPI enables the status command's reachability probe when a key
	// is present. Setup never talks to the API.
	CheckAPI bool `toml:"check_api"`
}

// Profile contains shell profile persistence settings.
type Profile struct {
	// Path overrides shell profile detection ($SHELL based) when set.
	Path string `toml:"path"`
}

// Journal contains configuration for the bootstrap run journal.
type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for easel.
//
// Configuration sections by concern:
//   - Paths: workspace root plus log/cache directories
//   - Workspace: provisioned directory layout and sample fixture
//   - Python: interpreter discovery and virtual environment
//   - Tools: external media binaries
//   - Gemini: API credential env var and probe settings
//   - Profile: shell profile used for credential persistence
//   - Journal: bootstrap run journal store
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Workspace Workspace `toml:"workspace"`
	Python    Python    `toml:"python"`
	Tools     Tools     `toml:"tools"`
	Gemini    Gemini    `toml:"gemini"`
	Profile   Profile   `toml:"profile"`
	Journal   Journal   `toml:"journal"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/easel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("easel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// WorkspaceDirs returns the ordered directory set the bootstrap provisions.
// Parents precede children so the creation order stays predictable.
func (c *Config) WorkspaceDirs() []string {
	return []string{
		c.Workspace.AgentsDir,
		c.Workspace.TempDir,
		filepath.Join(c.Workspace.TempDir, "visuals"),
		filepath.Join(c.Workspace.TempDir, "audio"),
		filepath.Join(c.Workspace.TempDir, "video"),
		c.Workspace.OutputDir,
		c.Paths.CacheDir,
	}
}

// EnsureDirectories creates the directories easel itself writes to (logs,
// cache). Workspace provisioning happens as a bootstrap step instead so the
// status command can report on an unprovisioned tree without mutating it.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.CacheDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath returns the path of the setup single-instance lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.CacheDir, "easel-setup.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
