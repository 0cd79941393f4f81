package log

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"trace", LevelTrace},
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLevelSplitRouting(t *testing.T) {
	var normal, errors bytes.Buffer

	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	logger := slog.New(fanout{handlers: []slog.Handler{
		levelSplit{pass: func(l slog.Level) bool { return l < slog.LevelError }, h: slog.NewTextHandler(&normal, opts)},
		levelSplit{pass: func(l slog.Level) bool { return l >= slog.LevelError }, h: slog.NewTextHandler(&errors, opts)},
	}})

	logger.Info("progress")
	logger.Error("boom")

	if !strings.Contains(normal.String(), "progress") || strings.Contains(normal.String(), "boom") {
		t.Errorf("normal stream wrong: %q", normal.String())
	}
	if !strings.Contains(errors.String(), "boom") || strings.Contains(errors.String(), "progress") {
		t.Errorf("error stream wrong: %q", errors.String())
	}
}

func TestFanoutEnabled(t *testing.T) {
	var buf bytes.Buffer
	h := fanout{handlers: []slog.Handler{
		slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: LevelTrace}),
	}}
	if !h.Enabled(context.Background(), LevelTrace) {
		t.Error("fanout should be enabled when any handler accepts the level")
	}
}

func TestSetupLoggerWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	logger, closers, err := SetupLogger("debug", path)
	if err != nil {
		t.Fatalf("SetupLogger: %v", err)
	}
	logger.Debug("hello from the test")
	for _, c := range closers {
		if err := c.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from the test") {
		t.Errorf("log file missing record: %q", string(data))
	}
}

func TestSetupLoggerBadFile(t *testing.T) {
	_, _, err := SetupLogger("info", filepath.Join(t.TempDir(), "missing", "run.log"))
	if err == nil {
		t.Error("expected an error for an unwritable log file path")
	}
}

func TestEmitTrace(t *testing.T) {
	var buf bytes.Buffer
	tr := NewEmitTrace(&buf)
	tr.Line(0, 0, "namespace Interop")
	tr.Line(1, 2, "int x;")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "namespace Interop") {
		t.Errorf("first record wrong: %q", lines[0])
	}
	if !strings.Contains(lines[1], "    int x;") {
		t.Errorf("depth marker missing: %q", lines[1])
	}
}

func TestEmitTraceNilWriter(t *testing.T) {
	tr := NewEmitTrace(nil)
	// Must not panic.
	tr.Line(0, 0, "anything")
}
