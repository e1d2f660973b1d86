package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeWorkspace(); err != nil {
		return err
	}
	if err := c.normalizePython(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeGemini()
	if err := c.normalizeProfile(); err != nil {
		return err
	}
	c.normalizeJournal()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	root := strings.TrimSpace(c.Paths.WorkspaceRoot)
	if root == "" {
		root = defaultWorkspaceRoot
	}
	if c.Paths.WorkspaceRoot, err = expandPath(root); err != nil {
		return fmt.Errorf("paths.workspace_root: %w", err)
	}
	logDir := strings.TrimSpace(c.Paths.LogDir)
	if logDir == "" {
		logDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(logDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	cacheDir := strings.TrimSpace(c.Paths.CacheDir)
	if cacheDir == "" {
		c.Paths.CacheDir = filepath.Join(c.Paths.WorkspaceRoot, defaultCacheDirName)
		return nil
	}
	if c.Paths.CacheDir, err = expandPath(cacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeWorkspace() error {
	var err error
	if c.Workspace.AgentsDir, err = c.workspaceRelative("workspace.agents_dir", c.Workspace.AgentsDir, defaultAgentsDir); err != nil {
		return err
	}
	if c.Workspace.TempDir, err = c.workspaceRelative("workspace.temp_dir", c.Workspace.TempDir, defaultTempDir); err != nil {
		return err
	}
	if c.Workspace.OutputDir, err = c.workspaceRelative("workspace.output_dir", c.Workspace.OutputDir, defaultOutputDir); err != nil {
		return err
	}
	if c.Workspace.SamplePDF, err = c.workspaceRelative("workspace.sample_pdf", c.Workspace.SamplePDF, defaultSamplePDF); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizePython() error {
	var err error
	c.Python.Binary = strings.TrimSpace(c.Python.Binary)
	if c.Python.MinVersion = strings.TrimSpace(c.Python.MinVersion); c.Python.MinVersion == "" {
		c.Python.MinVersion = defaultMinVersion
	}
	if c.Python.VenvDir, err = c.workspaceRelative("python.venv_dir", c.Python.VenvDir, defaultVenvDir); err != nil {
		return err
	}
	if c.Python.Requirements, err = c.workspaceRelative("python.requirements", c.Python.Requirements, defaultRequirements); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeTools() {
	if c.Tools.FFmpegBinary = strings.TrimSpace(c.Tools.FFmpegBinary); c.Tools.FFmpegBinary == "" {
		c.Tools.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Tools.FFprobeBinary = strings.TrimSpace(c.Tools.FFprobeBinary); c.Tools.FFprobeBinary == "" {
		c.Tools.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeGemini() {
	if c.Gemini.EnvVar = strings.TrimSpace(c.Gemini.EnvVar); c.Gemini.EnvVar == "" {
		c.Gemini.EnvVar = defaultGeminiEnvVar
	}
	c.Gemini.BaseURL = strings.TrimRight(strings.TrimSpace(c.Gemini.BaseURL), "/")
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = defaultGeminiBaseURL
	}
	if c.Gemini.Model = strings.TrimSpace(c.Gemini.Model); c.Gemini.Model == "" {
		c.Gemini.Model = defaultGeminiModel
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		c.Gemini.TimeoutSeconds = defaultGeminiTimeout
	}
}

func (c *Config) normalizeProfile() error {
	path := strings.TrimSpace(c.Profile.Path)
	if path == "" {
		c.Profile.Path = ""
		return nil
	}
	expanded, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("profile.path: %w", err)
	}
	c.Profile.Path = expanded
	return nil
}

func (c *Config) normalizeJournal() {
	path := strings.TrimSpace(c.Journal.Path)
	if path == "" {
		c.Journal.Path = filepath.Join(c.Paths.CacheDir, defaultJournalDBName)
		return
	}
	if expanded, err := expandPath(path); err == nil {
		c.Journal.Path = expanded
	}
}

func (c *Config) normalizeLogging() {
	if c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format)); c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level)); c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// workspaceRelative expands value, treating relative paths as rooted at the
// workspace root rather than the process working directory.
func (c *Config) workspaceRelative(field, value, fallback string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = fallback
	}
	if strings.HasPrefix(trimmed, "~") {
		expanded, err := expandPath(trimmed)
		if err != nil {
			return "", fmt.Errorf("%s: %w", field, err)
		}
		return expanded, nil
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed), nil
	}
	return filepath.Join(c.Paths.WorkspaceRoot, trimmed), nil
}
