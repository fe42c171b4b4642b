package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/runloopai/rl-cli-sub001/internal/api"
	"github.com/runloopai/rl-cli-sub001/internal/config"
	"github.com/runloopai/rl-cli-sub001/internal/sshx"
	"github.com/runloopai/rl-cli-sub001/pkg/logging"
)

var (
	sshNoWait     bool
	sshConfigOnly bool
	rsyncFlags    []string
)

// runSSHProcess launches the external ssh/scp/rsync process with the
// terminal attached. Package variable for mocking in tests.
var runSSHProcess = func(argv []string) error {
	proc := exec.Command(argv[0], argv[1:]...)
	proc.Stdin = os.Stdin
	proc.Stdout = os.Stdout
	proc.Stderr = os.Stderr
	return proc.Run()
}

var devboxSSHCmd = &cobra.Command{
	Use:   "ssh <devbox-id> [-- ssh-args...]",
	Short: "Open an ssh session to a devbox",
	Long: `Open an interactive ssh session to a devbox.

A fresh key is minted through the API and written under the configured
key directory (default ~/.runloop/ssh_keys) with 0600 permissions. The
connection is proxied through the platform's TLS ssh endpoint via an
openssl s_client ProxyCommand, so no inbound ports are needed.

The devbox is polled until it reports running before connecting;
--no-wait skips the poll. --config-only prints an ssh_config Host
block instead of connecting, for use with plain 'ssh <devbox-id>'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDevboxSSH,
}

var devboxSCPCmd = &cobra.Command{
	Use:   "scp <devbox-id> <path>...",
	Short: "Copy files to or from a devbox with scp",
	Long: `Copy files between the local machine and a devbox using scp.

Paths with a leading ':' refer to the devbox side, e.g.

  rl devbox scp dbx_123 local.txt :/home/user/remote.txt
  rl devbox scp dbx_123 :/var/log/app.log .`,
	Args: cobra.MinimumNArgs(2),
	RunE: runDevboxSCP,
}

var devboxRsyncCmd = &cobra.Command{
	Use:   "rsync <devbox-id> <path>...",
	Short: "Sync files with a devbox using rsync",
	Long: `Sync files between the local machine and a devbox using rsync
over the proxied ssh transport. The ':' remote-path convention matches
scp; --flag passes options through to rsync:

  rl devbox rsync dbx_123 --flag -az --flag --delete ./src :/home/user/src`,
	Args: cobra.MinimumNArgs(2),
	RunE: runDevboxRsync,
}

var devboxTunnelCmd = &cobra.Command{
	Use:   "tunnel <devbox-id> <local:remote>",
	Short: "Forward a local port to a devbox port",
	Long: `Forward a local TCP port to a port on the devbox.

The port spec is local:remote, e.g. '8080:3000' serves the devbox's
port 3000 on localhost:8080. The tunnel runs until interrupted.`,
	Args: cobra.ExactArgs(2),
	RunE: runDevboxTunnel,
}

func init() {
	devboxCmd.AddCommand(devboxSSHCmd)
	devboxCmd.AddCommand(devboxSCPCmd)
	devboxCmd.AddCommand(devboxRsyncCmd)
	devboxCmd.AddCommand(devboxTunnelCmd)

	devboxSSHCmd.Flags().BoolVar(&sshNoWait, "no-wait", false, "Connect immediately without waiting for the devbox to be running")
	devboxSSHCmd.Flags().BoolVar(&sshConfigOnly, "config-only", false, "Print an ssh_config Host block instead of connecting")
	devboxSCPCmd.Flags().BoolVar(&sshNoWait, "no-wait", false, "Skip the readiness wait")
	devboxRsyncCmd.Flags().BoolVar(&sshNoWait, "no-wait", false, "Skip the readiness wait")
	devboxRsyncCmd.Flags().StringArrayVar(&rsyncFlags, "flag", nil, "Flag passed through to rsync (repeatable)")
	devboxTunnelCmd.Flags().BoolVar(&sshNoWait, "no-wait", false, "Skip the readiness wait")
}

// prepareSSHTarget mints connection material for a devbox: waits for it
// to be running, creates a key, writes it to disk, and resolves the
// username the devbox runs commands as.
func prepareSSHTarget(ctx context.Context, client *api.Client, cfg config.Config, devboxID string) (sshx.Target, error) {
	devbox, err := client.Devboxes.Retrieve(ctx, devboxID)
	if err != nil {
		return sshx.Target{}, err
	}

	if !sshNoWait && devbox.Status != api.DevboxStatusRunning {
		poll := time.Duration(cfg.SSH.PollIntervalSeconds) * time.Second
		timeout := time.Duration(cfg.SSH.WaitTimeoutSeconds) * time.Second
		logging.Info("ssh", "waiting for devbox %s to be running (status: %s)", devboxID, devbox.Status)
		err := client.Devboxes.AwaitRunning(ctx, devboxID, poll, timeout,
			func(status string, elapsed, remaining time.Duration) {
				fmt.Fprintf(os.Stderr, "devbox %s: %s (%s remaining)\n", devboxID, status, remaining.Round(time.Second))
			})
		if err != nil {
			return sshx.Target{}, err
		}
	}

	key, err := client.Devboxes.CreateSSHKey(ctx, devboxID)
	if err != nil {
		return sshx.Target{}, fmt.Errorf("creating ssh key: %w", err)
	}
	keyFile, err := sshx.WriteKey(cfg.SSH.KeyDir, devboxID, key.SSHPrivateKey)
	if err != nil {
		return sshx.Target{}, err
	}

	return sshx.Target{
		DevboxID:  devboxID,
		URL:       key.URL,
		Username:  devbox.Username(),
		KeyFile:   keyFile,
		ProxyHost: sshProxyHost(cfg),
	}, nil
}

func runDevboxSSH(cmd *cobra.Command, args []string) error {
	client, cfg, err := clientFromConfig()
	if err != nil {
		return err
	}
	target, err := prepareSSHTarget(cmd.Context(), client, cfg, args[0])
	if err != nil {
		return err
	}

	if sshConfigOnly {
		fmt.Fprint(cmd.OutOrStdout(), sshx.ConfigBlock(target))
		return nil
	}
	return runSSHProcess(sshx.SSHArgs(target, args[1:]))
}

func runDevboxSCP(cmd *cobra.Command, args []string) error {
	client, cfg, err := clientFromConfig()
	if err != nil {
		return err
	}
	target, err := prepareSSHTarget(cmd.Context(), client, cfg, args[0])
	if err != nil {
		return err
	}
	return runSSHProcess(sshx.SCPArgs(target, args[1:]))
}

func runDevboxRsync(cmd *cobra.Command, args []string) error {
	client, cfg, err := clientFromConfig()
	if err != nil {
		return err
	}
	target, err := prepareSSHTarget(cmd.Context(), client, cfg, args[0])
	if err != nil {
		return err
	}
	return runSSHProcess(sshx.RsyncArgs(target, rsyncFlags, args[1:]))
}

func runDevboxTunnel(cmd *cobra.Command, args []string) error {
	client, cfg, err := clientFromConfig()
	if err != nil {
		return err
	}
	target, err := prepareSSHTarget(cmd.Context(), client, cfg, args[0])
	if err != nil {
		return err
	}
	argv, err := sshx.TunnelArgs(target, args[1])
	if err != nil {
		return err
	}
	local, remote, _ := sshx.ParsePortSpec(args[1])
	fmt.Fprintf(cmd.OutOrStdout(), "Forwarding localhost:%d -> %s:%d (Ctrl+C to stop)\n", local, args[0], remote)
	return runSSHProcess(argv)
}
