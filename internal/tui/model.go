// Package tui implements the interactive resource browser behind
// `rl browse`: tabbed lists of platform resources with cursor
// pagination, detail pages, log viewers, and lifecycle actions.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runloopai/rl-cli-sub001/internal/api"
	"github.com/runloopai/rl-cli-sub001/internal/cache"
	"github.com/runloopai/rl-cli-sub001/pkg/logging"
)

type screen int

const (
	screenList screen = iota
	screenDetail
	screenLogs
)

// confirmState is an armed destructive action awaiting y/n.
type confirmState struct {
	prompt string
	cmd    tea.Cmd
}

// Options configure the browser.
type Options struct {
	DashboardURL    string
	PageSize        int
	RefreshInterval time.Duration
	LogChan         <-chan logging.LogEntry
}

type model struct {
	client *api.Client
	store  *cache.Cache
	opts   Options

	kinds     []resourceKind
	kindIndex int

	table     table.Model
	pagers    map[string]*pager
	rows      []rowData
	stale     bool
	fetchedAt time.Time
	loading   bool
	listErr   error

	screen       screen
	detailID     string
	detailFields []detailField
	detailErr    error

	logID       string
	logIsDevbox bool
	logLines    []string
	logErr      error
	logView     viewport.Model

	confirm *confirmState

	statusMsg   string
	statusIsErr bool
	statusSeq   int

	width    int
	height   int
	ready    bool
	quitting bool
}

// New builds the browser model.
func New(client *api.Client, store *cache.Cache, opts Options) tea.Model {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = defaultRefreshInterval
	}

	kinds := resourceKinds()
	pagers := make(map[string]*pager, len(kinds))
	for _, k := range kinds {
		pagers[k.Name] = newPager()
	}

	t := table.New(table.WithFocused(true))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	styles.Selected = styles.Selected.Bold(true)
	t.SetStyles(styles)

	return model{
		client:  client,
		store:   store,
		opts:    opts,
		kinds:   kinds,
		pagers:  pagers,
		table:   t,
		logView: viewport.New(0, 0),
		loading: true,
	}
}

// Run starts the browser in the alternate screen and blocks until the
// user quits.
func Run(m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m model) currentKind() resourceKind {
	return m.kinds[m.kindIndex]
}

func (m model) currentPager() *pager {
	return m.pagers[m.currentKind().Name]
}

func (m model) selectedRow() (rowData, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return rowData{}, false
	}
	return m.rows[idx], true
}

func (m model) Init() tea.Cmd {
	kind := m.currentKind()
	cmds := []tea.Cmd{
		fetchPageCmd(m.client, m.store, kind, "", m.opts.PageSize),
		refreshTickCmd(m.opts.RefreshInterval),
	}
	if cached := loadCachedPageCmd(m.store, kind); cached != nil {
		cmds = append(cmds, cached)
	}
	if m.opts.LogChan != nil {
		cmds = append(cmds, waitForLogEntry(m.opts.LogChan))
	}
	return tea.Batch(cmds...)
}

// waitForLogEntry blocks on the logging channel and forwards one entry.
func waitForLogEntry(ch <-chan logging.LogEntry) tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return nil
		}
		return appLogMsg{entry: entry}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeTable()
		// One line for the title, the viewport takes the rest.
		heights := allocateHeights(m.contentHeight(), []sectionSpec{{Min: 1}, {Min: 3, Weight: 1}})
		m.logView.Width = m.width - 4
		m.logView.Height = heights[1]
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pageLoadedMsg:
		return m.handlePageLoaded(msg)

	case cachedPageMsg:
		// Only paint the cache while the first real fetch is pending.
		if msg.kind == m.currentKind().Name && m.loading && len(m.rows) == 0 {
			m.rows = msg.rows
			m.stale = true
			m.fetchedAt = msg.fetched
			m.syncTableRows()
		}
		return m, nil

	case detailLoadedMsg:
		if m.screen == screenDetail && msg.id == m.detailID {
			m.detailFields = msg.data
			m.detailErr = msg.err
		}
		return m, nil

	case devboxLogsMsg:
		if m.screen == screenLogs && m.logIsDevbox && msg.id == m.logID {
			m.applyLogLines(msg.lines, msg.err)
		}
		return m, nil

	case blueprintLogsMsg:
		if m.screen == screenLogs && !m.logIsDevbox && msg.id == m.logID {
			m.applyLogLines(msg.lines, msg.err)
		}
		return m, nil

	case logTickMsg:
		if m.screen != screenLogs {
			return m, nil
		}
		cmd := fetchBlueprintLogsCmd(m.client, m.logID)
		if m.logIsDevbox {
			cmd = fetchDevboxLogsCmd(m.client, m.logID)
		}
		return m, tea.Batch(cmd, logTickCmd())

	case refreshTickMsg:
		cmds := []tea.Cmd{refreshTickCmd(m.opts.RefreshInterval)}
		if m.screen == screenList && !m.loading {
			kind := m.currentKind()
			cmds = append(cmds, fetchPageCmd(m.client, m.store, kind, m.currentPager().Current(), m.opts.PageSize))
		}
		return m, tea.Batch(cmds...)

	case actionDoneMsg:
		return m.handleActionDone(msg)

	case clipboardResultMsg:
		if msg.err != nil {
			return m.setStatus(fmt.Sprintf("Copy failed: %v", msg.err), true)
		}
		return m.setStatus(fmt.Sprintf("Copied %s", msg.text), false)

	case browserOpenedMsg:
		if msg.err != nil {
			return m.setStatus(fmt.Sprintf("Open failed: %v", msg.err), true)
		}
		return m.setStatus("Opened in browser", false)

	case statusExpiredMsg:
		if msg.seq == m.statusSeq {
			m.statusMsg = ""
		}
		return m, nil

	case appLogMsg:
		var cmd tea.Cmd
		if m.opts.LogChan != nil {
			cmd = waitForLogEntry(m.opts.LogChan)
		}
		if msg.entry.Level >= logging.LevelWarn {
			next, statusCmd := m.setStatus(msg.entry.Message, msg.entry.Level >= logging.LevelError)
			return next, tea.Batch(statusCmd, cmd)
		}
		return m, cmd
	}

	return m, nil
}

func (m model) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.kind != m.currentKind().Name || msg.cursor != m.currentPager().Current() {
		// Stale fetch from a kind or page we already left.
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		m.listErr = msg.err
		return m, nil
	}
	m.listErr = nil
	m.stale = false
	m.rows = msg.page.Rows
	m.fetchedAt = msg.fetched
	m.currentPager().SetResult(msg.page.NextCursor, msg.page.TotalCount)
	m.syncTableRows()
	return m, nil
}

func (m model) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m.setStatus(fmt.Sprintf("%s %s failed: %v", msg.verb, msg.id, msg.err), true)
	}
	next, statusCmd := m.setStatus(fmt.Sprintf("%s %s: ok", msg.verb, msg.id), false)
	nm := next.(model)
	kind := nm.currentKind()
	refresh := fetchPageCmd(nm.client, nm.store, kind, nm.currentPager().Current(), nm.opts.PageSize)
	return nm, tea.Batch(statusCmd, refresh)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An armed confirmation swallows everything except y/n.
	if m.confirm != nil {
		switch msg.String() {
		case "y", "Y":
			cmd := m.confirm.cmd
			m.confirm = nil
			return m, cmd
		case "n", "N", "esc":
			m.confirm = nil
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		if m.screen != screenList && msg.String() == "q" {
			return m.popScreen()
		}
		m.quitting = true
		return m, tea.Quit

	case "esc":
		if m.screen != screenList {
			return m.popScreen()
		}
		return m, nil
	}

	switch m.screen {
	case screenList:
		return m.handleListKey(msg)
	case screenDetail:
		return m.handleDetailKey(msg)
	case screenLogs:
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kind := m.currentKind()

	switch msg.String() {
	case "tab", "]":
		return m.switchKind((m.kindIndex + 1) % len(m.kinds))
	case "shift+tab", "[":
		return m.switchKind((m.kindIndex - 1 + len(m.kinds)) % len(m.kinds))

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		if idx < len(m.kinds) {
			return m.switchKind(idx)
		}
		return m, nil

	case "n", "right":
		if cursor, ok := m.currentPager().Next(); ok {
			m.loading = true
			return m, fetchPageCmd(m.client, m.store, kind, cursor, m.opts.PageSize)
		}
		return m, nil

	case "p", "left":
		if cursor, ok := m.currentPager().Prev(); ok {
			m.loading = true
			return m, fetchPageCmd(m.client, m.store, kind, cursor, m.opts.PageSize)
		}
		return m, nil

	case "r":
		m.loading = true
		return m, fetchPageCmd(m.client, m.store, kind, m.currentPager().Current(), m.opts.PageSize)

	case "enter":
		if row, ok := m.selectedRow(); ok {
			m.screen = screenDetail
			m.detailID = row.ID
			m.detailFields = nil
			m.detailErr = nil
			return m, fetchDetailCmd(m.client, kind, row.ID)
		}
		return m, nil

	case "c":
		if row, ok := m.selectedRow(); ok {
			return m, copyToClipboardCmd(row.ID)
		}
		return m, nil

	case "o":
		if row, ok := m.selectedRow(); ok && m.opts.DashboardURL != "" {
			url := strings.TrimRight(m.opts.DashboardURL, "/") + "/" + kind.DashboardPath + "/" + row.ID
			return m, openInBrowserCmd(url)
		}
		return m, nil

	case "l":
		if row, ok := m.selectedRow(); ok && kind.HasLogs {
			return m.openLogs(kind, row.ID)
		}
		return m, nil

	case "s":
		if row, ok := m.selectedRow(); ok && kind.Suspend != nil {
			return m, runActionCmd(m.client, kind, row.ID, "suspend", kind.Suspend)
		}
		return m, nil

	case "u":
		if row, ok := m.selectedRow(); ok && kind.Resume != nil {
			return m, runActionCmd(m.client, kind, row.ID, "resume", kind.Resume)
		}
		return m, nil

	case "x":
		if row, ok := m.selectedRow(); ok {
			switch {
			case kind.Shutdown != nil:
				m.confirm = &confirmState{
					prompt: fmt.Sprintf("Shut down %s?", row.ID),
					cmd:    runActionCmd(m.client, kind, row.ID, "shutdown", kind.Shutdown),
				}
			case kind.Delete != nil:
				m.confirm = &confirmState{
					prompt: fmt.Sprintf("Delete %s?", row.ID),
					cmd:    runActionCmd(m.client, kind, row.ID, "delete", kind.Delete),
				}
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kind := m.currentKind()
	switch msg.String() {
	case "c":
		return m, copyToClipboardCmd(m.detailID)
	case "o":
		if m.opts.DashboardURL != "" {
			url := strings.TrimRight(m.opts.DashboardURL, "/") + "/" + kind.DashboardPath + "/" + m.detailID
			return m, openInBrowserCmd(url)
		}
	case "l":
		if kind.HasLogs {
			return m.openLogs(kind, m.detailID)
		}
	case "r":
		return m, fetchDetailCmd(m.client, kind, m.detailID)
	}
	return m, nil
}

func (m model) openLogs(kind resourceKind, id string) (tea.Model, tea.Cmd) {
	m.screen = screenLogs
	m.logID = id
	m.logIsDevbox = kind.Name == "devboxes"
	m.logLines = nil
	m.logErr = nil
	m.logView.SetContent(spinnerLabelStyle.Render("Fetching logs..."))
	cmd := fetchBlueprintLogsCmd(m.client, id)
	if m.logIsDevbox {
		cmd = fetchDevboxLogsCmd(m.client, id)
	}
	return m, tea.Batch(cmd, logTickCmd())
}

func (m model) popScreen() (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenLogs:
		// Logs opened from detail go back to detail, otherwise to list.
		if m.detailID == m.logID && m.detailFields != nil {
			m.screen = screenDetail
		} else {
			m.screen = screenList
		}
	case screenDetail:
		m.screen = screenList
		m.detailID = ""
		m.detailFields = nil
	}
	return m, nil
}

func (m model) switchKind(idx int) (tea.Model, tea.Cmd) {
	if idx == m.kindIndex {
		return m, nil
	}
	m.kindIndex = idx
	m.rows = nil
	m.stale = false
	m.listErr = nil
	m.loading = true
	m.currentPager().Reset()
	m.resizeTable()
	m.syncTableRows()

	kind := m.currentKind()
	cmds := []tea.Cmd{fetchPageCmd(m.client, m.store, kind, "", m.opts.PageSize)}
	if cached := loadCachedPageCmd(m.store, kind); cached != nil {
		cmds = append(cmds, cached)
	}
	return m, tea.Batch(cmds...)
}

func (m *model) setStatusInPlace(text string, isErr bool) tea.Cmd {
	m.statusMsg = text
	m.statusIsErr = isErr
	m.statusSeq++
	return expireStatusCmd(m.statusSeq)
}

func (m model) setStatus(text string, isErr bool) (tea.Model, tea.Cmd) {
	cmd := m.setStatusInPlace(text, isErr)
	return m, cmd
}

func (m *model) applyLogLines(lines []string, err error) {
	atBottom := m.logView.AtBottom()
	m.logErr = err
	if err == nil {
		m.logLines = lines
	}
	m.logView.SetContent(m.renderLogContent())
	if atBottom {
		m.logView.GotoBottom()
	}
}
