package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Fixed rows around the content area: header, tabs, footer, status.
const chromeHeight = 4

func (m model) contentHeight() int {
	h := m.height - chromeHeight
	if h < 3 {
		h = 3
	}
	return h
}

// resolveColumns turns the kind's column specs into concrete widths,
// letting the single zero-width column absorb the leftover space.
func resolveColumns(cols []column, total int) []table.Column {
	// Each bubbles table cell carries one space of padding either side.
	avail := total - 2*len(cols)
	fixed := 0
	flexIdx := -1
	for i, c := range cols {
		if c.Width == 0 {
			flexIdx = i
			continue
		}
		fixed += c.Width
	}

	out := make([]table.Column, len(cols))
	for i, c := range cols {
		w := c.Width
		if i == flexIdx {
			w = avail - fixed
			if w < 8 {
				w = 8
			}
		}
		out[i] = table.Column{Title: c.Title, Width: w}
	}
	return out
}

func (m *model) resizeTable() {
	if !m.ready {
		return
	}
	m.table.SetColumns(resolveColumns(m.currentKind().Columns, m.width))
	m.table.SetWidth(m.width)
	m.table.SetHeight(m.contentHeight())
}

// statusColumnIndex finds the column that carries the row status, -1
// when the kind has none.
func statusColumnIndex(cols []column) int {
	for i, c := range cols {
		if c.Title == "Status" || c.Title == "State" {
			return i
		}
	}
	return -1
}

func (m *model) syncTableRows() {
	cols := m.currentKind().Columns
	statusIdx := statusColumnIndex(cols)
	rows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		cells := make(table.Row, len(cols))
		for i := range cols {
			if i >= len(r.Cells) {
				continue
			}
			cells[i] = r.Cells[i]
			if i == statusIdx && r.Status != "" {
				cells[i] = statusCellStyle(r.Status).Render(r.Cells[i])
			}
		}
		rows = append(rows, cells)
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return spinnerLabelStyle.Render("Loading...")
	}

	var body string
	switch m.screen {
	case screenDetail:
		body = m.renderDetail()
	case screenLogs:
		body = m.renderLogs()
	default:
		body = m.renderList()
	}

	sections := []string{
		m.renderHeader(),
		m.renderTabs(),
		body,
		m.renderFooter(),
		m.renderStatus(),
	}
	view := appStyle.Render(strings.Join(sections, "\n"))

	if m.confirm != nil {
		popup := confirmOverlayStyle.Render(m.confirm.prompt + "\n\n" + footerStyle.Render("y confirm · n cancel"))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popup)
	}
	return view
}

func (m model) renderHeader() string {
	title := "rl · " + m.currentKind().Title
	return headerStyle.Width(m.width).Render(title)
}

func (m model) renderTabs() string {
	parts := make([]string, 0, len(m.kinds))
	for i, k := range m.kinds {
		label := fmt.Sprintf("%d %s", i+1, k.Title)
		if i == m.kindIndex {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return truncate(lipgloss.JoinHorizontal(lipgloss.Top, parts...), m.width)
}

func (m model) renderList() string {
	if m.listErr != nil {
		msg := errorStyle.Render(fmt.Sprintf("Error: %v", m.listErr)) + "\n" +
			footerStyle.Render("r retry")
		return lipgloss.NewStyle().Height(m.contentHeight()).Render(msg)
	}
	if m.loading && len(m.rows) == 0 {
		return lipgloss.NewStyle().Height(m.contentHeight()).Render(
			spinnerLabelStyle.Render("Fetching " + m.currentKind().Title + "..."))
	}
	if len(m.rows) == 0 {
		return lipgloss.NewStyle().Height(m.contentHeight()).Render(
			footerStyle.Render("No " + strings.ToLower(m.currentKind().Title) + " found."))
	}
	view := m.table.View()
	if m.stale {
		view += "\n" + staleListingStyle.Render("cached · refreshing...")
	}
	return view
}

func (m model) renderDetail() string {
	kind := m.currentKind()
	height := m.contentHeight()

	var body strings.Builder
	body.WriteString(detailLabelStyle.Render(kind.Title+" / ") + detailValueStyle.Render(m.detailID) + "\n\n")

	switch {
	case m.detailErr != nil:
		body.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.detailErr)))
	case m.detailFields == nil:
		body.WriteString(spinnerLabelStyle.Render("Fetching..."))
	default:
		labelWidth := 0
		for _, f := range m.detailFields {
			if len(f.Label) > labelWidth {
				labelWidth = len(f.Label)
			}
		}
		for _, f := range m.detailFields {
			label := detailLabelStyle.Render(fmt.Sprintf("%-*s", labelWidth, f.Label))
			value := f.Value
			if f.Label == "Status" {
				value = statusCellStyle(f.Value).Render(f.Value)
			}
			body.WriteString(label + "  " + detailValueStyle.Render(value) + "\n")
		}
	}

	return detailPanelStyle.Width(m.width - 2).Height(height - 2).Render(body.String())
}

func (m model) renderLogs() string {
	title := detailLabelStyle.Render("Logs / ") + detailValueStyle.Render(m.logID)
	return title + "\n" + m.logView.View()
}

func (m model) renderLogContent() string {
	if m.logErr != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.logErr))
	}
	if len(m.logLines) == 0 {
		return spinnerLabelStyle.Render("No log entries yet.")
	}
	styled := make([]string, len(m.logLines))
	for i, line := range m.logLines {
		if strings.Contains(line, "] -> ") {
			styled[i] = logCommandStyle.Render(line)
		} else {
			styled[i] = line
		}
	}
	return strings.Join(styled, "\n")
}

func (m model) renderFooter() string {
	var hints []string
	switch m.screen {
	case screenList:
		kind := m.currentKind()
		hints = append(hints, "enter detail", "tab switch", "n/p page", "r refresh", "c copy", "o open")
		if kind.HasLogs {
			hints = append(hints, "l logs")
		}
		if kind.Suspend != nil {
			hints = append(hints, "s suspend", "u resume")
		}
		if kind.Shutdown != nil {
			hints = append(hints, "x shutdown")
		} else if kind.Delete != nil {
			hints = append(hints, "x delete")
		}
		hints = append(hints, "q quit")
	case screenDetail:
		hints = append(hints, "esc back", "c copy", "o open", "r refresh")
		if m.currentKind().HasLogs {
			hints = append(hints, "l logs")
		}
	case screenLogs:
		hints = append(hints, "esc back", "↑/↓ scroll")
	}

	left := footerStyle.Render(strings.Join(hints, " · "))

	pg := m.currentPager()
	info := fmt.Sprintf("page %d", pg.PageNumber())
	if total := pg.TotalCount(); total > 0 {
		info += fmt.Sprintf(" · %d total", total)
	}
	right := pageInfoStyle.Render(info)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return truncate(left, m.width)
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m model) renderStatus() string {
	if m.statusMsg == "" {
		return ""
	}
	if m.statusIsErr {
		return errorStyle.Render(truncate(m.statusMsg, m.width))
	}
	return successStyle.Render(truncate(m.statusMsg, m.width))
}
