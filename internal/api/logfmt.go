package api

import (
	"fmt"
	"time"
)

// FormatLogEntry renders one devbox log entry the way the dashboard
// does: commands get a "-> " marker, exit codes ride on their own line,
// and plain output keeps the source tag.
func FormatLogEntry(entry DevboxLogEntry) string {
	var prefix string
	if entry.TimestampMs != 0 {
		prefix = time.UnixMilli(entry.TimestampMs).Format("2006-01-02 15:04:05.000")
	}
	if entry.Source != "" {
		prefix += fmt.Sprintf(" [%s]", entry.Source)
	}
	switch {
	case entry.Cmd != nil:
		return prefix + " -> " + *entry.Cmd
	case entry.Message != nil:
		return prefix + "  " + *entry.Message
	case entry.ExitCode != nil:
		return fmt.Sprintf("%s -> exit_code=%d", prefix, *entry.ExitCode)
	default:
		return prefix
	}
}
