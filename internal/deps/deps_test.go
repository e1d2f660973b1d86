package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatal("expected detail message for missing binary")
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected result for blank command: %#v", results[2])
	}
}

func TestResolvePythonConfiguredStub(t *testing.T) {
	stub := writePythonStub(t, "Python 3.12.1")

	interp, err := ResolvePython(context.Background(), stub)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if interp.Major != 3 || interp.Minor != 12 {
		t.Fatalf("parsed %d.%d, want 3.12", interp.Major, interp.Minor)
	}
	if interp.Version != "3.12.1" {
		t.Fatalf("version = %s", interp.Version)
	}
	if !interp.Meets(3, 10) {
		t.Fatal("3.12 should satisfy a 3.10 floor")
	}
	if interp.Meets(3, 13) {
		t.Fatal("3.12 should not satisfy a 3.13 floor")
	}
}

func TestResolvePythonFromPath(t *testing.T) {
	binDir := t.TempDir()
	stub := filepath.Join(binDir, "python3")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho 'Python 3.11.4'\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir)

	interp, err := ResolvePython(context.Background(), "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if interp.Path != stub {
		t.Fatalf("resolved %s, want %s", interp.Path, stub)
	}
}

func TestResolvePythonMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if _, err := ResolvePython(context.Background(), ""); err == nil {
		t.Fatal("expected resolution failure with empty PATH")
	}
}

func TestResolvePythonRejectsGarbageOutput(t *testing.T) {
	stub := writePythonStub(t, "not a version banner")
	if _, err := ResolvePython(context.Background(), stub); err == nil {
		t.Fatal("expected parse failure for garbage banner")
	}
}

func TestInterpreterMeetsMajorBoundary(t *testing.T) {
	interp := Interpreter{Major: 4, Minor: 0}
	if !interp.Meets(3, 10) {
		t.Fatal("4.0 should satisfy a 3.10 floor")
	}
}

func writePythonStub(t *testing.T, banner string) string {
	t.Helper()
	stub := filepath.Join(t.TempDir(), "python-stub")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho '"+banner+"'\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return stub
}
