package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/runloopai/rl-cli-sub001/internal/cache"
)

// githubRepoSlug is the repository releases are fetched from.
const githubRepoSlug = "runloopai/rl"

func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "self-update",
		Short: "Update rl to the latest version",
		Long: `Checks for the latest release of rl on GitHub and, if a newer
version is available, downloads it and replaces the current binary.`,
		RunE: runSelfUpdate,
	}
}

func runSelfUpdate(cmd *cobra.Command, args []string) error {
	version := rootCmd.Version
	if version == "" || version == "dev" {
		return fmt.Errorf("cannot self-update a development version; install a released build first")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(githubRepoSlug))
	if err != nil {
		return fmt.Errorf("checking for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", githubRepoSlug)
	}

	recordUpdateCheck(latest.Version())

	if latest.LessOrEqual(version) {
		fmt.Printf("rl %s is already the latest version\n", version)
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating current executable: %w", err)
	}

	fmt.Printf("Updating rl %s -> %s\n", version, latest.Version())
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("updating binary: %w", err)
	}

	fmt.Printf("Successfully updated to rl %s\n", latest.Version())
	return nil
}

// recordUpdateCheck stamps the local cache so background version checks
// know when we last looked. Failures are ignored; the stamp is advisory.
func recordUpdateCheck(latestVersion string) {
	store, err := cache.OpenDefault()
	if err != nil {
		return
	}
	defer store.Close() //nolint:errcheck
	_ = store.SaveUpdateCheck(&cache.UpdateCheck{
		CheckedAt:     time.Now(),
		LatestVersion: latestVersion,
	})
}
