package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWorkspace(); err != nil {
		return err
	}
	if err := c.validatePython(); err != nil {
		return err
	}
	if err := c.validateGemini(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWorkspace() error {
	if c.Workspace.AgentsDir == "" {
		return errors.New("workspace.agents_dir must be set")
	}
	if c.Workspace.TempDir == "" {
		return errors.New("workspace.temp_dir must be set")
	}
	if c.Workspace.OutputDir == "" {
		return errors.New("workspace.output_dir must be set")
	}
	if c.Workspace.SamplePDF == "" {
		return errors.New("workspace.sample_pdf must be set")
	}
	return nil
}

func (c *Config) validatePython() error {
	if c.Python.VenvDir == "" {
		return errors.New("python.venv_dir must be set")
	}
	if _, _, err := ParseVersion(c.Python.MinVersion); err != nil {
		return fmt.Errorf("python.min_version: %w", err)
	}
	return nil
}

func (c *Config) validateGemini() error {
	if strings.ContainsAny(c.Gemini.EnvVar, " =") {
		return fmt.Errorf("gemini.env_var %q is not a valid environment variable name", c.Gemini.EnvVar)
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		return errors.New("gemini.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

// ParseVersion parses a "major.minor" version string such as "3.10".
func ParseVersion(value string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ".", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("expected major.minor, got %q", value)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid major version in %q", value)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minor version in %q", value)
	}
	if major < 0 || minor < 0 {
		return 0, 0, fmt.Errorf("version components must be non-negative in %q", value)
	}
	return major, minor, nil
}
