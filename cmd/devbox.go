package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runloopai/rl-cli-sub001/internal/api"
)

var (
	devboxName           string
	devboxEntrypoint     string
	devboxEnvVars        []string
	devboxSetupCommands  []string
	devboxLaunchCommands []string
	devboxBlueprintID    string
	devboxBlueprintName  string
	devboxSnapshotID     string
	devboxResources      string
	devboxArchitecture   string
	devboxIdleTime       int
	devboxIdleAction     string
	devboxRunAsRoot      bool

	devboxListStatus string
	devboxListLimit  int
	devboxListAll    bool

	devboxExecCommand string
	devboxExecShell   string

	devboxWriteFile    string
	devboxReadOutput   string
	devboxSnapshotName string
)

// devboxCmd represents the devbox command
var devboxCmd = &cobra.Command{
	Use:   "devbox",
	Short: "Manage devboxes",
	Long: `Manage devboxes: remote sandboxed compute instances.

Devboxes are created from a base image, a blueprint, or a disk
snapshot, and expose command execution, file transfer, ssh access,
and lifecycle control (suspend, resume, shutdown).`,
}

var devboxCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a devbox",
	Long: `Create a devbox and print it as JSON.

The devbox starts from the default base image unless --blueprint-id,
--blueprint-name, or --snapshot-id selects a different source.
--architecture cannot be combined with a blueprint, since blueprints
fix the architecture at build time.`,
	Args: cobra.NoArgs,
	RunE: runDevboxCreate,
}

var devboxListCmd = &cobra.Command{
	Use:   "list",
	Short: "List devboxes",
	Long: `List devboxes as JSON, optionally filtered by status.

One page is printed by default; --all follows the cursor until the
listing is exhausted.`,
	Args: cobra.NoArgs,
	RunE: runDevboxList,
}

var devboxGetCmd = &cobra.Command{
	Use:   "get <devbox-id>",
	Short: "Get a devbox",
	Args:  cobra.ExactArgs(1),
	RunE:  runDevboxGet,
}

var devboxExecCmd = &cobra.Command{
	Use:   "exec <devbox-id>",
	Short: "Run a command on a devbox and wait for it",
	Long: `Run a command on a devbox synchronously.

Stdout and stderr are relayed, and the command's exit status becomes
rl's exit status. --shell-name runs the command inside a named
persistent shell, preserving state across invocations.`,
	Args: cobra.ExactArgs(1),
	RunE: runDevboxExec,
}

var devboxExecAsyncCmd = &cobra.Command{
	Use:   "exec-async <devbox-id>",
	Short: "Start a command on a devbox without waiting",
	Long: `Start a command asynchronously and print the execution as JSON.

Use 'rl devbox async-status' with the printed execution id to poll for
completion and collect output.`,
	Args: cobra.ExactArgs(1),
	RunE: runDevboxExecAsync,
}

var devboxAsyncStatusCmd = &cobra.Command{
	Use:   "async-status <devbox-id> <execution-id>",
	Short: "Get the status of an async execution",
	Args:  cobra.ExactArgs(2),
	RunE:  runDevboxAsyncStatus,
}

var devboxLogsCmd = &cobra.Command{
	Use:   "logs <devbox-id>",
	Short: "Print the devbox activity log",
	Args:  cobra.ExactArgs(1),
	RunE:  runDevboxLogs,
}

var devboxSuspendCmd = &cobra.Command{
	Use:   "suspend <devbox-id>",
	Short: "Suspend a running devbox",
	Long:  `Suspend a running devbox, preserving its disk and memory state.`,
	Args:  cobra.ExactArgs(1),
	RunE:  devboxLifecycleRun(func(ctx context.Context, c *api.Client, id string) (*api.Devbox, error) { return c.Devboxes.Suspend(ctx, id) }),
}

var devboxResumeCmd = &cobra.Command{
	Use:   "resume <devbox-id>",
	Short: "Resume a suspended devbox",
	Args:  cobra.ExactArgs(1),
	RunE:  devboxLifecycleRun(func(ctx context.Context, c *api.Client, id string) (*api.Devbox, error) { return c.Devboxes.Resume(ctx, id) }),
}

var devboxShutdownCmd = &cobra.Command{
	Use:   "shutdown <devbox-id>",
	Short: "Shut down a devbox permanently",
	Args:  cobra.ExactArgs(1),
	RunE:  devboxLifecycleRun(func(ctx context.Context, c *api.Client, id string) (*api.Devbox, error) { return c.Devboxes.Shutdown(ctx, id) }),
}

var devboxReadCmd = &cobra.Command{
	Use:   "read <devbox-id> <remote-path>",
	Short: "Read a file from the devbox filesystem",
	Long: `Read a text file from the devbox filesystem over the API.

The contents go to stdout unless --output names a local file.`,
	Args: cobra.ExactArgs(2),
	RunE: runDevboxRead,
}

var devboxWriteCmd = &cobra.Command{
	Use:   "write <devbox-id> <remote-path>",
	Short: "Write a file onto the devbox filesystem",
	Long: `Write a text file onto the devbox filesystem over the API.

Contents come from --file, or from stdin when --file is omitted.`,
	Args: cobra.ExactArgs(2),
	RunE: runDevboxWrite,
}

var devboxUploadCmd = &cobra.Command{
	Use:   "upload <devbox-id> <local-path> <remote-path>",
	Short: "Upload a local file to the devbox",
	Args:  cobra.ExactArgs(3),
	RunE:  runDevboxUpload,
}

var devboxDownloadCmd = &cobra.Command{
	Use:   "download <devbox-id> <remote-path> [local-path]",
	Short: "Download a file from the devbox",
	Long: `Download a file from the devbox filesystem.

The local path defaults to the remote file's base name in the current
directory.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runDevboxDownload,
}

var devboxSnapshotCmd = &cobra.Command{
	Use:   "snapshot <devbox-id>",
	Short: "Take a disk snapshot of a devbox",
	Long: `Start an asynchronous disk snapshot and print it as JSON.

Use 'rl snapshot status' to follow its progress.`,
	Args: cobra.ExactArgs(1),
	RunE: runDevboxSnapshot,
}

func init() {
	rootCmd.AddCommand(devboxCmd)

	devboxCmd.AddCommand(devboxCreateCmd)
	devboxCmd.AddCommand(devboxListCmd)
	devboxCmd.AddCommand(devboxGetCmd)
	devboxCmd.AddCommand(devboxExecCmd)
	devboxCmd.AddCommand(devboxExecAsyncCmd)
	devboxCmd.AddCommand(devboxAsyncStatusCmd)
	devboxCmd.AddCommand(devboxLogsCmd)
	devboxCmd.AddCommand(devboxSuspendCmd)
	devboxCmd.AddCommand(devboxResumeCmd)
	devboxCmd.AddCommand(devboxShutdownCmd)
	devboxCmd.AddCommand(devboxReadCmd)
	devboxCmd.AddCommand(devboxWriteCmd)
	devboxCmd.AddCommand(devboxUploadCmd)
	devboxCmd.AddCommand(devboxDownloadCmd)
	devboxCmd.AddCommand(devboxSnapshotCmd)

	devboxCreateCmd.Flags().StringVar(&devboxName, "name", "", "Devbox name")
	devboxCreateCmd.Flags().StringVar(&devboxEntrypoint, "entrypoint", "", "Command run when the devbox starts")
	devboxCreateCmd.Flags().StringArrayVar(&devboxEnvVars, "env", nil, "Environment variable as key=value (repeatable)")
	devboxCreateCmd.Flags().StringArrayVar(&devboxSetupCommands, "setup-command", nil, "Setup command run before the entrypoint (repeatable)")
	devboxCreateCmd.Flags().StringArrayVar(&devboxLaunchCommands, "launch-command", nil, "Launch command (repeatable)")
	devboxCreateCmd.Flags().StringVar(&devboxBlueprintID, "blueprint-id", "", "Build from this blueprint id")
	devboxCreateCmd.Flags().StringVar(&devboxBlueprintName, "blueprint-name", "", "Build from the latest blueprint with this name")
	devboxCreateCmd.Flags().StringVar(&devboxSnapshotID, "snapshot-id", "", "Restore from this disk snapshot id")
	devboxCreateCmd.Flags().StringVar(&devboxResources, "resources", "", "Resource size (SMALL, MEDIUM, LARGE, X_LARGE, XX_LARGE)")
	devboxCreateCmd.Flags().StringVar(&devboxArchitecture, "architecture", "", "CPU architecture (x86_64 or arm64)")
	devboxCreateCmd.Flags().IntVar(&devboxIdleTime, "idle-time-seconds", 0, "Idle seconds before --idle-action triggers")
	devboxCreateCmd.Flags().StringVar(&devboxIdleAction, "idle-action", "", "Action on idle (shutdown or suspend)")
	devboxCreateCmd.Flags().BoolVar(&devboxRunAsRoot, "root", false, "Run commands as root")

	devboxListCmd.Flags().StringVar(&devboxListStatus, "status", "", "Filter by status")
	devboxListCmd.Flags().IntVar(&devboxListLimit, "limit", 0, "Page size (server default when 0)")
	devboxListCmd.Flags().BoolVar(&devboxListAll, "all", false, "Follow the cursor through every page")

	devboxExecCmd.Flags().StringVar(&devboxExecCommand, "command", "", "Command to run")
	devboxExecCmd.Flags().StringVar(&devboxExecShell, "shell-name", "", "Run inside this named persistent shell")
	_ = devboxExecCmd.MarkFlagRequired("command")

	devboxExecAsyncCmd.Flags().StringVar(&devboxExecCommand, "command", "", "Command to run")
	devboxExecAsyncCmd.Flags().StringVar(&devboxExecShell, "shell-name", "", "Run inside this named persistent shell")
	_ = devboxExecAsyncCmd.MarkFlagRequired("command")

	devboxReadCmd.Flags().StringVarP(&devboxReadOutput, "output", "o", "", "Write contents to this local file instead of stdout")
	devboxWriteCmd.Flags().StringVar(&devboxWriteFile, "file", "", "Local file to read contents from (stdin when omitted)")
	devboxSnapshotCmd.Flags().StringVar(&devboxSnapshotName, "name", "", "Snapshot name")
}

// buildCreateDevboxRequest assembles the creation request from the
// command flags, enforcing the flag combinations the API would reject.
func buildCreateDevboxRequest() (api.CreateDevboxRequest, error) {
	req := api.CreateDevboxRequest{
		Name:          devboxName,
		Entrypoint:    devboxEntrypoint,
		SetupCommands: devboxSetupCommands,
		BlueprintID:   devboxBlueprintID,
		BlueprintName: devboxBlueprintName,
		SnapshotID:    devboxSnapshotID,
	}

	if len(devboxEnvVars) > 0 {
		req.EnvironmentVariables = make(map[string]string, len(devboxEnvVars))
		for _, kv := range devboxEnvVars {
			key, value, found := strings.Cut(kv, "=")
			if !found || key == "" {
				return req, fmt.Errorf("invalid --env %q: expected key=value", kv)
			}
			req.EnvironmentVariables[key] = value
		}
	}

	if (devboxIdleTime > 0) != (devboxIdleAction != "") {
		return req, fmt.Errorf("--idle-time-seconds and --idle-action must be set together")
	}
	if devboxIdleAction != "" && devboxIdleAction != "shutdown" && devboxIdleAction != "suspend" {
		return req, fmt.Errorf("invalid --idle-action %q: must be shutdown or suspend", devboxIdleAction)
	}

	lp := &api.LaunchParameters{
		LaunchCommands:      devboxLaunchCommands,
		ResourceSizeRequest: devboxResources,
		Architecture:        devboxArchitecture,
	}
	if devboxIdleAction != "" {
		lp.AfterIdle = &api.AfterIdle{IdleTimeSeconds: devboxIdleTime, OnIdle: devboxIdleAction}
	}
	if devboxRunAsRoot {
		lp.UserParameters = &api.UserParameters{Username: "root", UID: 0}
	}
	if len(lp.LaunchCommands) > 0 || lp.ResourceSizeRequest != "" || lp.Architecture != "" ||
		lp.AfterIdle != nil || lp.UserParameters != nil {
		req.LaunchParameters = lp
	}
	return req, nil
}

func runDevboxCreate(cmd *cobra.Command, args []string) error {
	req, err := buildCreateDevboxRequest()
	if err != nil {
		return err
	}
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	devbox, err := client.Devboxes.Create(cmd.Context(), req)
	if err != nil {
		return err
	}
	return printJSON(cmd, devbox)
}

func runDevboxList(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}

	opts := api.DevboxListOptions{
		ListOptions: api.ListOptions{Limit: devboxListLimit},
		Status:      devboxListStatus,
	}
	if devboxListAll {
		all, err := api.CollectAll(cmd.Context(), opts.ListOptions,
			func(ctx context.Context, lo api.ListOptions) (api.Page[api.Devbox], error) {
				return client.Devboxes.List(ctx, api.DevboxListOptions{ListOptions: lo, Status: devboxListStatus})
			})
		if err != nil {
			return err
		}
		return printJSON(cmd, all)
	}

	page, err := client.Devboxes.List(cmd.Context(), opts)
	if err != nil {
		return err
	}
	return printJSON(cmd, page.Items)
}

func runDevboxGet(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	devbox, err := client.Devboxes.Retrieve(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, devbox)
}

func runDevboxExec(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	execution, err := client.Devboxes.ExecuteSync(cmd.Context(), args[0], api.ExecuteRequest{
		Command:   devboxExecCommand,
		ShellName: devboxExecShell,
	})
	if err != nil {
		return err
	}
	if execution.Stdout != "" {
		fmt.Fprint(cmd.OutOrStdout(), execution.Stdout)
	}
	if execution.Stderr != "" {
		fmt.Fprint(cmd.ErrOrStderr(), execution.Stderr)
	}
	if execution.ExitStatus != nil && *execution.ExitStatus != 0 {
		return fmt.Errorf("command exited with status %d", *execution.ExitStatus)
	}
	return nil
}

func runDevboxExecAsync(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	execution, err := client.Devboxes.ExecuteAsync(cmd.Context(), args[0], api.ExecuteRequest{
		Command:   devboxExecCommand,
		ShellName: devboxExecShell,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd, execution)
}

func runDevboxAsyncStatus(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	execution, err := client.Devboxes.RetrieveExecution(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	return printJSON(cmd, execution)
}

func runDevboxLogs(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	entries, err := client.Devboxes.Logs(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	for _, entry := range entries {
		fmt.Fprintln(cmd.OutOrStdout(), api.FormatLogEntry(entry))
	}
	return nil
}

// devboxLifecycleRun builds a RunE for the suspend/resume/shutdown
// commands, which differ only in the service call.
func devboxLifecycleRun(call func(context.Context, *api.Client, string) (*api.Devbox, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		client, _, err := clientFromConfig()
		if err != nil {
			return err
		}
		devbox, err := call(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, devbox)
	}
}

func runDevboxRead(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	contents, err := client.Devboxes.ReadFileContents(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	if devboxReadOutput != "" {
		return os.WriteFile(devboxReadOutput, []byte(contents), 0644)
	}
	fmt.Fprint(cmd.OutOrStdout(), contents)
	return nil
}

func runDevboxWrite(cmd *cobra.Command, args []string) error {
	var contents []byte
	var err error
	if devboxWriteFile != "" {
		contents, err = os.ReadFile(devboxWriteFile)
	} else {
		contents, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("reading contents: %w", err)
	}

	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	if err := client.Devboxes.WriteFileContents(cmd.Context(), args[0], args[1], string(contents)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[1])
	return nil
}

func runDevboxUpload(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[1], err)
	}
	defer file.Close() //nolint:errcheck

	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	if err := client.Devboxes.UploadFile(cmd.Context(), args[0], args[2], filepath.Base(args[1]), file); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s to %s\n", args[1], args[2])
	return nil
}

func runDevboxDownload(cmd *cobra.Command, args []string) error {
	localPath := filepath.Base(args[1])
	if len(args) == 3 {
		localPath = args[2]
	}

	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	body, err := client.Devboxes.DownloadFile(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	defer body.Close() //nolint:errcheck

	if dir := filepath.Dir(localPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", localPath, err)
	}
	defer out.Close() //nolint:errcheck

	written, err := io.Copy(out, body)
	if err != nil {
		return fmt.Errorf("writing %s: %w", localPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %s (%d bytes)\n", localPath, written)
	return nil
}

func runDevboxSnapshot(cmd *cobra.Command, args []string) error {
	client, _, err := clientFromConfig()
	if err != nil {
		return err
	}
	snapshot, err := client.Devboxes.SnapshotDisk(cmd.Context(), args[0], devboxSnapshotName)
	if err != nil {
		return err
	}
	return printJSON(cmd, snapshot)
}
