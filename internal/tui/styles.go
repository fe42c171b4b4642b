package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Constants for browser behavior.
const (
	// defaultPageSize is how many rows a list page requests when the
	// config does not say otherwise.
	defaultPageSize = 20
	// defaultRefreshInterval is how often the visible list page is
	// re-fetched in the background.
	defaultRefreshInterval = 5 * time.Second
	// logPollInterval is how often an open execution log view re-fetches.
	logPollInterval = 2 * time.Second
	// statusMessageTTL is how long transient status bar messages stay up.
	statusMessageTTL = 4 * time.Second
)

// Styles for the browser, defined using the lipgloss library.
var (
	appStyle = lipgloss.NewStyle().Margin(0, 0)

	// headerStyle is for the title bar at the top of the browser.
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}).
			Background(lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#303030"}).
			Padding(0, 2)

	// tabStyle and activeTabStyle render the resource selector row.
	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.AdaptiveColor{Light: "#606060", Dark: "#909090"})
	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}).
			Background(lipgloss.AdaptiveColor{Light: "#E8F4FF", Dark: "#2A3450"})

	// panelStyle is the base style for rectangular panels.
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	// detailPanelStyle frames the detail body.
	detailPanelStyle = panelStyle.Copy().
				BorderForeground(lipgloss.AdaptiveColor{Light: "#606060", Dark: "#A0A0A0"})

	// footerStyle renders the key hint line at the bottom.
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#606060", Dark: "#909090"})

	// pageInfoStyle renders the "page 2 · 37 total" fragment.
	pageInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#303030", Dark: "#C0C0C0"})

	// errorStyle is for error messages with high contrast in both modes.
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B30000", Dark: "#FF6B6B"})

	// successStyle is for confirmations in the status bar.
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#005500", Dark: "#8AE234"}).Bold(true)

	// confirmOverlayStyle frames the confirmation popup.
	confirmOverlayStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.AdaptiveColor{Light: "#B30000", Dark: "#FF6B6B"}).
				Background(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E1E"}).
				Padding(1, 2)

	// statusRunningStyle etc. color the status cell in list rows.
	statusRunningStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#004400", Dark: "#8AE234"})
	statusStoppedStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#553300", Dark: "#FFB86C"})
	statusFailureStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#880000", Dark: "#FF8787"})
	statusNeutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#303030", Dark: "#E0E0E0"})
	statusPendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000080", Dark: "#82B0FF"})
	logCommandStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"})
	spinnerLabelStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.AdaptiveColor{Light: "#606060", Dark: "#909090"})
	detailLabelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#303030", Dark: "#C0C0C0"})
	detailValueStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"})
	staleListingStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.AdaptiveColor{Light: "#A07000", Dark: "#FFD066"})
)

// statusCellStyle picks the style for a resource status string.
func statusCellStyle(status string) lipgloss.Style {
	switch status {
	case "running", "build_complete", "complete", "completed", "read_only":
		return statusRunningStyle
	case "suspended", "shutdown", "canceled":
		return statusStoppedStyle
	case "failure", "build_failed", "error":
		return statusFailureStyle
	case "provisioning", "initializing", "pending", "in_progress", "building", "queued", "uploading":
		return statusPendingStyle
	default:
		return statusNeutralStyle
	}
}
