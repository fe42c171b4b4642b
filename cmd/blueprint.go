package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/runloopai/rl-cli-sub001/internal/api"
)

var (
	blueprintDockerfile     string
	blueprintDockerfilePath string
	blueprintSetupCommands  []string
	blueprintResources      string
	blueprintArchitecture   string
	blueprintPorts          []int
	blueprintRunAsRoot      bool
	blueprintUser           string

	blueprintListName  string
	blueprintListLimit int
)

// blueprintCmd represents the blueprint command
var blueprintCmd = &cobra.Command{
	Use:   "blueprint",
	Short: "Manage blueprints",
	Long: `Manage blueprints: build templates devboxes launch from.

A blueprint is a Dockerfile plus system setup commands, built once and
reused across devboxes.`,
}

var blueprintCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create and build a blueprint",
	Long: `Create a blueprint and start its build.

The Dockerfile comes from --dockerfile (inline) or --dockerfile-path
(local file). Follow the build with 'rl blueprint logs'.`,
	Args: cobra.ExactArgs(1),
	RunE: runBlueprintCreate,
}

var blueprintPreviewCmd = &cobra.Command{
	Use:   "preview <name>",
	Short: "Preview the Dockerfile a blueprint would build",
	Long: `Print the effective Dockerfile the platform would build for the
given parameters, without starting a build.`,
	Args: cobra.ExactArgs(1),
	RunE: runBlueprintPreview,
}

var blueprintListCmd = &cobra.Command{
	Use:   "list",
	Short: "List blueprints",
	Args:  cobra.NoArgs,
	RunE:  runBlueprintList,
}

var blueprintGetCmd = &cobra.Command{
	Use:   "get <blueprint-id>",
	Short: "Get a blueprint",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlueprintGet,
}

var blueprintLogsCmd = &cobra.Command{
	Use:   "logs <blueprint-id>",
	Short: "Print a blueprint's build log",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlueprintLogs,
}

var blueprintDeleteCmd = &cobra.Command{
	Use:   "delete <blueprint-id>",
	Short: "Delete a blueprint",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlueprintDelete,
}

func init() {
	rootCmd.AddCommand(blueprintCmd)

	blueprintCmd.AddCommand(blueprintCreateCmd)
	blueprintCmd.AddCommand(blueprintPreviewCmd)
	blueprintCmd.AddCommand(blueprintListCmd)
	blueprintCmd.AddCommand(blueprintGetCmd)
	blueprintCmd.AddCommand(blueprintLogsCmd)
	blueprintCmd.AddCommand(blueprintDeleteCmd)

	for _, c := range []*cobra.Command{blueprintCreateCmd, blueprintPreviewCmd} {
		c.Flags().StringVar(&blueprintDockerfile, "dockerfile", "", "Inline Dockerfile contents")
		c.Flags().StringVar(&blueprintDockerfilePath, "dockerfile-path", "", "Path to a local Dockerfile")
		c.Flags().StringArrayVar(&blueprintSetupCommands, "system-setup-command", nil, "System setup command (repeatable)")
		c.Flags().StringVar(&blueprintResources, "resources", "", "Resource size for devboxes built from this blueprint")
		c.Flags().StringVar(&blueprintArchitecture, "architecture", "", "CPU architecture (x86_64 or arm64)")
		c.Flags().IntSliceVar(&blueprintPorts, "available-port", nil, "Port exposed by devboxes built from this blueprint (repeatable)")
		c.Flags().BoolVar(&blueprintRunAsRoot, "root", false, "Run devbox commands as root")
		c.Flags().StringVar(&blueprintUser, "user", "", "Run devbox commands as this user")
	}

	blueprintListCmd.Flags().StringVar(&blueprintListName, "name", "", "Filter by name")
	blueprintListCmd.Flags().IntVar(&blueprintListLimit, "limit", 0, "Page size (server default when 0)")
}

// buildCreateBlueprintRequest assembles the request shared by create
// and preview.
func buildCreateBlueprintRequest(name string) (api.CreateBlueprintRequest, error) {
	if blueprintRunAsRoot && blueprintUser != "" {
		return api.CreateBlueprintRequest{}, fmt.Errorf("--root and --user are mutually exclusive")
	}

	dockerfile := blueprintDockerfile
	if blueprintDockerfilePath != "" {
		if dockerfile != "" {
			return api.CreateBlueprintRequest{}, fmt.Errorf("--dockerfile and --dockerfile-path are mutually exclusive")
		}
		data, err := os.ReadFile(blueprintDockerfilePath)
		if err != nil {
			return api.CreateBlueprintRequest{}, fmt.Errorf("reading %s: %w", blueprintDockerfilePath, err)
		}
		dockerfile = string(data)
	}

	req := api.CreateBlueprintRequest{
		Name:                name,
		Dockerfile:          dockerfile,
		SystemSetupCommands: blueprintSetupCommands,
	}

	lp := &api.LaunchParameters{
		ResourceSizeRequest: blueprintResources,
		Architecture:        blueprintArchitecture,
		AvailablePorts:      blueprintPorts,
	}
	if blueprintRunAsRoot {
		lp.UserParameters = &api.UserParameters{Username: "root", UID: 0}
	} else if blueprintUser != "" {
		lp.UserParameters = &api.UserParameters{Username: blueprintUser}
	}
	if lp.ResourceSizeRequest != "" || lp.Architecture != "" || len(lp.AvailablePorts) > 0 || lp.UserParameters != nil {
		req.LaunchParameters = lp
	}
	return req, nil
}

func runBlueprintCreate(cmd *cobra.Command, args []string) error {
	req, err := buildCreateBlueprintRequest(args[0])
	if err != nil {
		return err
	}
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	blueprint, err := client.Blueprints.Create(cmd.Context(), req)
	if err != nil {
		return err
	}
	return printJSON(cmd, blueprint)
}

func runBlueprintPreview(cmd *cobra.Command, args []string) error {
	req, err := buildCreateBlueprintRequest(args[0])
	if err != nil {
		return err
	}
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	blueprint, err := client.Blueprints.Preview(cmd.Context(), req)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), blueprint.Dockerfile)
	return nil
}

func runBlueprintList(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	page, err := client.Blueprints.List(cmd.Context(), api.BlueprintListOptions{
		ListOptions: api.ListOptions{Limit: blueprintListLimit},
		Name:        blueprintListName,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd, page.Items)
}

func runBlueprintGet(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	blueprint, err := client.Blueprints.Retrieve(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, blueprint)
}

func runBlueprintLogs(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	entries, err := client.Blueprints.Logs(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	for _, entry := range entries {
		ts := time.UnixMilli(entry.TimestampMs).Format("2006-01-02 15:04:05.000")
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ts, entry.Level, entry.Message)
	}
	return nil
}

func runBlueprintDelete(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	if err := client.Blueprints.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted blueprint %s\n", args[0])
	return nil
}
