package cmd

import (
	"github.com/spf13/cobra"

	"github.com/runloopai/rl-cli-sub001/internal/api"
)

var (
	settingsMCPLimit     int
	settingsGatewayLimit int
)

// settingsCmd represents the settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect platform configuration resources",
	Long: `Inspect account-level configuration resources: MCP gateway
configurations and HTTP gateway configurations.`,
}

var settingsMCPCmd = &cobra.Command{
	Use:   "mcp [config-id]",
	Short: "List or get MCP configurations",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsMCP,
}

var settingsGatewayCmd = &cobra.Command{
	Use:   "gateway [config-id]",
	Short: "List or get gateway configurations",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsGateway,
}

func init() {
	rootCmd.AddCommand(settingsCmd)

	settingsCmd.AddCommand(settingsMCPCmd)
	settingsCmd.AddCommand(settingsGatewayCmd)

	settingsMCPCmd.Flags().IntVar(&settingsMCPLimit, "limit", 0, "Page size (server default when 0)")
	settingsGatewayCmd.Flags().IntVar(&settingsGatewayLimit, "limit", 0, "Page size (server default when 0)")
}

func runSettingsMCP(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg, err := client.MCPConfigs.Retrieve(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, cfg)
	}
	page, err := client.MCPConfigs.List(cmd.Context(), api.ListOptions{Limit: settingsMCPLimit})
	if err != nil {
		return err
	}
	return printJSON(cmd, page.Items)
}

func runSettingsGateway(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg, err := client.GatewayConfigs.Retrieve(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, cfg)
	}
	page, err := client.GatewayConfigs.List(cmd.Context(), api.ListOptions{Limit: settingsGatewayLimit})
	if err != nil {
		return err
	}
	return printJSON(cmd, page.Items)
}
