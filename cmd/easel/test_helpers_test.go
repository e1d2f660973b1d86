package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	root       string
	configPath string
}

// setupCLITestEnv isolates HOME and the working directory, stubs the
// external binaries, and writes a config pointing at a throwaway workspace.
func setupCLITestEnv(t *testing.T) cliTestEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)

	root := t.TempDir()
	t.Chdir(root)

	stubs := t.TempDir()
	for name, script := range map[string]string{
		"python3": `echo "Python 3.12.1"`,
		"ffmpeg":  "exit 0",
		"ffprobe": "exit 0",
	} {
		path := filepath.Join(stubs, name)
		if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}
	t.Setenv("PATH", stubs)

	configPath := filepath.Join(root, "easel.toml")
	content := fmt.Sprintf(`[paths]
workspace_root = %q
log_dir = %q

[gemini]
check_api = false
`, root, filepath.Join(home, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return cliTestEnv{root: root, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()

	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}

	cmd := newRootCommand()
	cmd.SetArgs(args)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}
