package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotenv loads a workspace .env file into the process environment.
// Variables already set in the environment are never overwritten, matching
// godotenv's default behavior. A missing .env is not an error.
func LoadDotenv(workspaceRoot string) error {
	path := filepath.Join(workspaceRoot, ".env")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Detect reports whether the credential environment variable carries a
// non-empty value.
func Detect(envVar string) bool {
	return strings.TrimSpace(os.Getenv(envVar)) != ""
}

// DefaultProfilePath picks the shell profile that receives the export line,
// based on $SHELL. Unknown shells fall back to ~/.profile.
func DefaultProfilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	shell := filepath.Base(strings.TrimSpace(os.Getenv("SHELL")))
	switch shell {
	case "zsh":
		return filepath.Join(home, ".zshrc"), nil
	case "bash":
		return filepath.Join(home, ".bashrc"), nil
	default:
		return filepath.Join(home, ".profile"), nil
	}
}

// ExportLine renders the shell export statement persisted to the profile.
func ExportLine(envVar, value string) string {
	return fmt.Sprintf("export %s=%q", envVar, value)
}

// EnsureExport appends an export line for envVar to the profile unless the
// profile already exports it. The guard is the `export NAME=` marker rather
// than the full line so an existing setting with a different value is left
// alone instead of being shadowed by a duplicate. Returns true when the
// profile was modified.
func EnsureExport(profilePath, envVar, value string) (bool, error) {
	marker := "export " + envVar + "="

	existing, err := os.ReadFile(profilePath)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("read profile %s: %w", profilePath, err)
	}
	if containsMarker(string(existing), marker) {
		return false, nil
	}

	file, err := os.OpenFile(profilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return false, fmt.Errorf("open profile %s: %w", profilePath, err)
	}
	defer file.Close()

	entry := ExportLine(envVar, value) + "\n"
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		entry = "\n" + entry
	}
	if _, err := file.WriteString(entry); err != nil {
		return false, fmt.Errorf("append to profile %s: %w", profilePath, err)
	}
	return true, nil
}

// containsMarker checks line by line so a commented-out export still counts
// as "user has dealt with this" only when it is the active statement.
func containsMarker(content, marker string) bool {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), marker) {
			return true
		}
	}
	return false
}
