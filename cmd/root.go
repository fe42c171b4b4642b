package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/runloopai/rl-cli-sub001/internal/api"
	"github.com/runloopai/rl-cli-sub001/internal/config"
	"github.com/runloopai/rl-cli-sub001/pkg/logging"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rl",
	Short: "Manage Runloop devboxes, blueprints, and platform resources",
	Long: `rl is the command line interface for the Runloop platform.
It creates and manages devboxes (remote sandboxed compute), builds
blueprints, takes disk snapshots, moves files, opens ssh sessions and
tunnels, and browses every resource interactively with 'rl browse'.

Authentication uses the RUNLOOP_API_KEY environment variable or the
apiKey field in ~/.config/rl/config.yaml. Set RUNLOOP_ENV=dev to target
the development environment.`,
	// SilenceUsage prevents printing the usage message on errors we
	// already report ourselves (bad arguments, failed API calls).
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// CLI mode logs to stderr; browse re-initializes for TUI mode.
		level := logging.LevelWarn
		if rootVerbose {
			level = logging.LevelDebug
		}
		logging.InitForCLI(level, os.Stderr)
	},
}

var rootVerbose bool

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "rl version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())

	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable debug logging")
}

// loadConfig is a package variable so tests can substitute a fixed
// configuration.
var loadConfig = config.Load

// newAPIClient builds the API client from the loaded configuration.
// Package variable for the same reason.
var newAPIClient = func(cfg config.Config) (*api.Client, error) {
	opts := []api.Option{api.WithUserAgent("rl/" + rootCmd.Version)}
	if cfg.Env == "dev" {
		opts = append(opts, api.WithBaseURL(api.DevBaseURL))
	}
	return api.NewClient(cfg.APIKey, opts...)
}

// clientFromConfig loads the configuration and builds a client in one
// step, the common preamble of every API-backed command.
func clientFromConfig() (*api.Client, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, config.Config{}, err
	}
	client, err := newAPIClient(cfg)
	if err != nil {
		return nil, config.Config{}, err
	}
	return client, cfg, nil
}

// sshProxyHost picks the ssh proxy endpoint for the configured
// environment.
func sshProxyHost(cfg config.Config) string {
	if cfg.Env == "dev" {
		return api.DevSSHProxy
	}
	return api.ProdSSHProxy
}

// printJSON renders v as indented JSON on the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
