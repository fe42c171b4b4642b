package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/runloopai/rl-cli-sub001/internal/api"
	"github.com/runloopai/rl-cli-sub001/internal/cache"
	"github.com/runloopai/rl-cli-sub001/internal/platform"
)

const fetchTimeout = 15 * time.Second

// fetchPageCmd fetches one page of a resource kind and, for first
// pages, refreshes the local listing cache.
func fetchPageCmd(client *api.Client, store *cache.Cache, kind resourceKind, cursor string, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		page, err := kind.Fetch(ctx, client, api.ListOptions{Limit: limit, StartingAfter: cursor})
		if err != nil {
			return pageLoadedMsg{kind: kind.Name, cursor: cursor, err: err}
		}
		if store != nil && cursor == "" {
			// Best effort; a stale cache is harmless.
			_ = store.PutListing(kind.Name, page.Rows)
		}
		return pageLoadedMsg{kind: kind.Name, cursor: cursor, page: page, fetched: time.Now()}
	}
}

// loadCachedPageCmd paints the last cached first page, if any.
func loadCachedPageCmd(store *cache.Cache, kind resourceKind) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		var rows []rowData
		fetchedAt, ok, err := store.GetListing(kind.Name, &rows)
		if err != nil || !ok {
			return nil
		}
		return cachedPageMsg{kind: kind.Name, rows: rows, fetched: fetchedAt}
	}
}

// fetchDetailCmd fetches the detail fields for one resource.
func fetchDetailCmd(client *api.Client, kind resourceKind, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		data, err := kind.Detail(ctx, client, id)
		return detailLoadedMsg{kind: kind.Name, id: id, data: data, err: err}
	}
}

// fetchDevboxLogsCmd fetches a devbox's current log tail.
func fetchDevboxLogsCmd(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		entries, err := client.Devboxes.Logs(ctx, id)
		if err != nil {
			return devboxLogsMsg{id: id, err: err}
		}
		lines := make([]string, 0, len(entries))
		for _, entry := range entries {
			lines = append(lines, api.FormatLogEntry(entry))
		}
		return devboxLogsMsg{id: id, lines: lines}
	}
}

// fetchBlueprintLogsCmd fetches a blueprint's build log.
func fetchBlueprintLogsCmd(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		entries, err := client.Blueprints.Logs(ctx, id)
		if err != nil {
			return blueprintLogsMsg{id: id, err: err}
		}
		lines := make([]string, 0, len(entries))
		for _, entry := range entries {
			ts := time.UnixMilli(entry.TimestampMs).Format("15:04:05")
			lines = append(lines, ts+" ["+entry.Level+"] "+entry.Message)
		}
		return blueprintLogsMsg{id: id, lines: lines}
	}
}

// runActionCmd runs one lifecycle or delete action against a resource.
func runActionCmd(client *api.Client, kind resourceKind, id, verb string,
	action func(context.Context, *api.Client, string) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		err := action(ctx, client, id)
		return actionDoneMsg{kind: kind.Name, id: id, verb: verb, err: err}
	}
}

// refreshTickCmd schedules the next background page refresh.
func refreshTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

// logTickCmd schedules the next log view poll.
func logTickCmd() tea.Cmd {
	return tea.Tick(logPollInterval, func(time.Time) tea.Msg {
		return logTickMsg{}
	})
}

// expireStatusCmd clears the status bar message once its TTL passes.
func expireStatusCmd(seq int) tea.Cmd {
	return tea.Tick(statusMessageTTL, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}

// copyToClipboardCmd copies text and reports the outcome.
func copyToClipboardCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardResultMsg{text: text, err: platform.CopyToClipboard(text)}
	}
}

// openInBrowserCmd opens url in the default browser.
func openInBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		return browserOpenedMsg{url: url, err: platform.OpenBrowser(url)}
	}
}
