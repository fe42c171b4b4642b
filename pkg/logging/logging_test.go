package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}

func TestCLIModeWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelDebug, &buf)

	Info("api", "fetched %d devboxes", 3)

	output := buf.String()
	if !strings.Contains(output, "fetched 3 devboxes") {
		t.Errorf("Expected formatted message, got: %q", output)
	}
	if !strings.Contains(output, "subsystem=api") {
		t.Errorf("Expected subsystem attribute, got: %q", output)
	}
}

func TestCLIModeFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelWarn, &buf)

	Debug("api", "noise")
	Info("api", "still noise")
	Warn("api", "important")

	output := buf.String()
	if strings.Contains(output, "noise") {
		t.Errorf("Expected debug/info to be filtered, got: %q", output)
	}
	if !strings.Contains(output, "important") {
		t.Errorf("Expected warning to pass, got: %q", output)
	}
}

func TestTUIModeDeliversEntriesOnChannel(t *testing.T) {
	ch := Init("tui", LevelDebug, nil, 8)
	defer CloseTUIChannel()
	defer func() { isTuiMode = false; tuiLogChannel = nil }()

	Warn("cache", "listing cache unavailable: %s", "locked")

	entry := <-ch
	if entry.Level != LevelWarn {
		t.Errorf("Expected warn level, got %v", entry.Level)
	}
	if entry.Subsystem != "cache" {
		t.Errorf("Expected cache subsystem, got %s", entry.Subsystem)
	}
	if !strings.Contains(entry.Message, "locked") {
		t.Errorf("Expected formatted message, got: %q", entry.Message)
	}
}
