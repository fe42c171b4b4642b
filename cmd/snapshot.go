package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runloopai/rl-cli-sub001/internal/api"
)

var (
	snapshotListDevbox string
	snapshotListLimit  int
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage disk snapshots",
	Long: `Manage disk snapshots taken from devboxes.

Snapshots are created with 'rl devbox snapshot' and can seed new
devboxes via 'rl devbox create --snapshot-id'.`,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List disk snapshots",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotList,
}

var snapshotStatusCmd = &cobra.Command{
	Use:   "status <snapshot-id>",
	Short: "Get a snapshot's status",
	Long:  `Print a snapshot as JSON, including its in_progress/complete/error state.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotStatus,
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <snapshot-id>",
	Short: "Delete a disk snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotDelete,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotStatusCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)

	snapshotListCmd.Flags().StringVar(&snapshotListDevbox, "devbox-id", "", "Only snapshots taken from this devbox")
	snapshotListCmd.Flags().IntVar(&snapshotListLimit, "limit", 0, "Page size (server default when 0)")
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	page, err := client.Devboxes.ListDiskSnapshots(cmd.Context(), api.SnapshotListOptions{
		ListOptions: api.ListOptions{Limit: snapshotListLimit},
		DevboxID:    snapshotListDevbox,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd, page.Items)
}

func runSnapshotStatus(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	snapshot, err := client.Devboxes.SnapshotStatus(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, snapshot)
}

func runSnapshotDelete(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	if err := client.Devboxes.DeleteDiskSnapshot(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot %s\n", args[0])
	return nil
}
