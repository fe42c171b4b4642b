package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLogEntry(t *testing.T) {
	cmd := "npm start"
	msg := "listening on :3000"
	exit := 127
	ts := int64(1700000000000)

	tests := []struct {
		name     string
		entry    DevboxLogEntry
		expected string
	}{
		{
			name:     "command",
			entry:    DevboxLogEntry{TimestampMs: ts, Source: "entrypoint", Cmd: &cmd},
			expected: "[entrypoint] -> npm start",
		},
		{
			name:     "message",
			entry:    DevboxLogEntry{TimestampMs: ts, Source: "entrypoint", Message: &msg},
			expected: "[entrypoint]  listening on :3000",
		},
		{
			name:     "exit code",
			entry:    DevboxLogEntry{TimestampMs: ts, Source: "entrypoint", ExitCode: &exit},
			expected: "[entrypoint] -> exit_code=127",
		},
		{
			name:     "empty entry keeps the source tag",
			entry:    DevboxLogEntry{TimestampMs: ts, Source: "setup_commands"},
			expected: "[setup_commands]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := FormatLogEntry(tt.entry)
			assert.Contains(t, line, tt.expected)
			// Timestamp prefix with millisecond precision.
			assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3} `, line)
		})
	}
}

func TestFormatLogEntryOmitsEmptySource(t *testing.T) {
	msg := "booting"
	line := FormatLogEntry(DevboxLogEntry{TimestampMs: 1700000000000, Message: &msg})
	assert.NotContains(t, line, "[")
	assert.Contains(t, line, "  booting")
}

func TestFormatLogEntryOmitsZeroTimestamp(t *testing.T) {
	cmd := "make"
	line := FormatLogEntry(DevboxLogEntry{Source: "shell", Cmd: &cmd})
	assert.Equal(t, " [shell] -> make", line)
	assert.NotContains(t, line, "1970")
}

func TestFormatLogEntryPrefersCmdOverMessage(t *testing.T) {
	cmd := "make"
	msg := "ignored"
	entry := DevboxLogEntry{TimestampMs: 1700000000000, Source: "shell", Cmd: &cmd, Message: &msg}
	assert.Contains(t, FormatLogEntry(entry), "-> make")
}
