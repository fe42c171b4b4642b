package tui

import (
	"time"

	"github.com/runloopai/rl-cli-sub001/pkg/logging"
)

// pageLoadedMsg delivers one fetched list page.
type pageLoadedMsg struct {
	kind    string
	cursor  string
	page    kindPage
	fetched time.Time
	err     error
}

// cachedPageMsg delivers a locally cached first page, painted while the
// real fetch is in flight.
type cachedPageMsg struct {
	kind    string
	rows    []rowData
	fetched time.Time
}

// detailLoadedMsg delivers the detail fields of one resource.
type detailLoadedMsg struct {
	kind string
	id   string
	data []detailField
	err  error
}

// devboxLogsMsg delivers one poll of a devbox's log tail.
type devboxLogsMsg struct {
	id    string
	lines []string
	err   error
}

// blueprintLogsMsg delivers a blueprint's build log.
type blueprintLogsMsg struct {
	id    string
	lines []string
	err   error
}

// actionDoneMsg reports a lifecycle or delete action finishing.
type actionDoneMsg struct {
	kind string
	id   string
	verb string
	err  error
}

// refreshTickMsg drives the periodic re-fetch of the visible page.
type refreshTickMsg struct{}

// logTickMsg drives the log view poll.
type logTickMsg struct{}

// statusExpiredMsg clears a transient status bar message.
type statusExpiredMsg struct{ seq int }

// clipboardResultMsg reports the 'c' copy action.
type clipboardResultMsg struct {
	text string
	err  error
}

// browserOpenedMsg reports the 'o' open action.
type browserOpenedMsg struct {
	url string
	err error
}

// appLogMsg carries one application log entry drained from the logging
// channel, shown in the status area for warnings and errors.
type appLogMsg struct {
	entry logging.LogEntry
}
