package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"easel/internal/deps"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Python", statusError, "not found", false)
	want := fmt.Sprintf("  %-*s %s", statusLabelWidth, "Python:", "[ERROR] not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Python", statusOK, "3.12.1", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestRenderDepLine(t *testing.T) {
	cases := []struct {
		status deps.Status
		want   string
	}{
		{deps.Status{Name: "FFmpeg", Available: true, Command: "/usr/bin/ffmpeg"}, "[OK] /usr/bin/ffmpeg"},
		{deps.Status{Name: "FFmpeg", Available: false, Detail: `binary "ffmpeg" not found`}, "[ERROR]"},
		{deps.Status{Name: "FFprobe", Available: false, Optional: true, Detail: "not found"}, "[WARN]"},
	}
	for _, tc := range cases {
		line := renderDepLine(tc.status, false)
		if !strings.Contains(line, tc.want) {
			t.Errorf("renderDepLine(%+v) = %q, want substring %q", tc.status, line, tc.want)
		}
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatal("expected non-file writer to disable color")
	}
}
