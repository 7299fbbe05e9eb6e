package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitAt_WritesFileAndMirror(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := filepath.Join(t.TempDir(), "logs")
	var mirror bytes.Buffer

	logger, err := InitAt(dir, slog.LevelDebug, &mirror)
	if err != nil {
		t.Fatalf("InitAt failed: %v", err)
	}

	logger.With("board_id", "123").Debug("fetching page", "cursor", "abc")

	data, err := os.ReadFile(filepath.Join(dir, "boardframe.log"))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	for _, out := range []string{string(data), mirror.String()} {
		if !strings.Contains(out, "fetching page") || !strings.Contains(out, "board_id=123") {
			t.Errorf("Expected record with attrs, got %q", out)
		}
	}
	if slog.Default() != logger {
		t.Error("Expected InitAt to install the default logger")
	}
}

func TestInitAt_LevelFilters(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := t.TempDir()
	var mirror bytes.Buffer

	logger, err := InitAt(dir, slog.LevelInfo, &mirror)
	if err != nil {
		t.Fatalf("InitAt failed: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")

	if strings.Contains(mirror.String(), "hidden") {
		t.Error("Debug record should be filtered at info level")
	}
	if !strings.Contains(mirror.String(), "shown") {
		t.Error("Info record should be written")
	}
}

func TestDiscard(t *testing.T) {
	if Discard().Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard logger should not be enabled for any level")
	}
}
