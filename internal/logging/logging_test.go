package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConsoleText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, closer := New(&buf, Options{Level: "debug"})
	defer closer.Close()

	logger.Debug("encoded", slog.Int("lines", 3))
	out := buf.String()
	if !strings.Contains(out, "msg=encoded") || !strings.Contains(out, "lines=3") {
		t.Fatalf("unexpected console output: %q", out)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, closer := New(&buf, Options{Level: "warn"})
	defer closer.Close()

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered at warn level, got %q", buf.String())
	}
	logger.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn record, got %q", buf.String())
	}
}

func TestNewConsoleJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, closer := New(&buf, Options{Level: "info", Format: "JSON"})
	defer closer.Close()

	logger.Info("hello", slog.String("k", "v"))
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("console output is not JSON: %v (%q)", err, buf.String())
	}
	if m["msg"] != "hello" || m["k"] != "v" {
		t.Fatalf("unexpected JSON record: %v", m)
	}
}

func TestNewWritesRotatingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "yarn-indent.log")
	var buf bytes.Buffer
	logger, closer := New(&buf, Options{Level: "debug", File: path})

	logger.With(slog.String("component", "cli")).Info("file record", slog.Int("n", 1))
	if err := closer.Close(); err != nil {
		t.Fatalf("close log file: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	scanner := bufio.NewScanner(bytes.NewReader(b))
	var last string
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			last = s
		}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, last)
	}
	if m["msg"] != "file record" || m["component"] != "cli" {
		t.Fatalf("unexpected file record: %v", m)
	}
	if !strings.Contains(buf.String(), "file record") {
		t.Fatalf("expected console copy of the record, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	if Discard().Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("expected discard logger to be disabled")
	}
}
