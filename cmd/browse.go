package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/runloopai/rl-cli-sub001/internal/cache"
	"github.com/runloopai/rl-cli-sub001/internal/tui"
	"github.com/runloopai/rl-cli-sub001/pkg/logging"
)

var browseDebug bool

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse platform resources interactively",
	Long: `Open the interactive resource browser.

Tabs cover devboxes, blueprints, snapshots, objects, network policies,
benchmarks, invocations, and configuration resources. Lists paginate
with n/p, refresh automatically, and fall back to the last cached page
while a fetch is in flight. Enter opens a detail page, 'l' a log
viewer, and 'x'/'s'/'u' drive lifecycle actions.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().BoolVar(&browseDebug, "debug", false, "Show debug log entries in the status area")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	client, cfg, err := clientFromConfig()
	if err != nil {
		return err
	}

	level := logging.LevelInfo
	if browseDebug {
		level = logging.LevelDebug
	}
	logChan := logging.InitForTUI(level)
	defer logging.CloseTUIChannel()

	// The listing cache is an optimization; browsing works without it.
	store, err := cache.OpenDefault()
	if err != nil {
		logging.Warn("cache", "listing cache unavailable: %v", err)
		store = nil
	} else {
		defer store.Close() //nolint:errcheck
	}

	model := tui.New(client, store, tui.Options{
		DashboardURL:    cfg.DashboardURL,
		PageSize:        cfg.Browse.PageSize,
		RefreshInterval: time.Duration(cfg.Browse.RefreshSeconds) * time.Second,
		LogChan:         logChan,
	})
	return tui.Run(model)
}
