package sshx

import (
	"fmt"
	"strconv"
	"strings"
)

// ProxyCommand builds the ssh ProxyCommand that tunnels the connection
// through the platform's TLS ssh proxy. %h expands to the devbox id.
func ProxyCommand(proxyHost string) string {
	return fmt.Sprintf("openssl s_client -quiet -verify_quiet -servername %%h -connect %s", proxyHost)
}

// Target describes one devbox ssh endpoint. URL is the hostname the
// key-creation API hands back (e.g. dbx_123.ssh.runloop.ai); the devbox
// id alone does not resolve.
type Target struct {
	DevboxID  string
	URL       string
	Username  string
	KeyFile   string
	ProxyHost string
}

func (t Target) host() string {
	if t.URL != "" {
		return t.URL
	}
	return t.DevboxID
}

func (t Target) destination() string {
	return t.Username + "@" + t.host()
}

func (t Target) baseOptions() []string {
	return []string{
		"-i", t.KeyFile,
		"-o", "ProxyCommand=" + ProxyCommand(t.ProxyHost),
		"-o", "StrictHostKeyChecking=no",
		"-o", "UserKnownHostsFile=/dev/null",
	}
}

// SSHArgs builds the argv for an interactive ssh session, argv[0]
// included. extra is appended verbatim after the destination.
func SSHArgs(t Target, extra []string) []string {
	args := append([]string{"ssh"}, t.baseOptions()...)
	args = append(args, t.destination())
	return append(args, extra...)
}

// SCPArgs builds the argv for scp. Paths with a leading ':' refer to
// the devbox and are rewritten to user@id:path; everything else is
// passed through as a local path or flag.
func SCPArgs(t Target, paths []string) []string {
	args := append([]string{"scp"}, t.baseOptions()...)
	for _, p := range paths {
		if strings.HasPrefix(p, ":") {
			p = t.destination() + p
		}
		args = append(args, p)
	}
	return args
}

// RsyncArgs builds the argv for rsync, connecting over the same proxied
// ssh transport via -e. The ':' remote prefix convention matches SCPArgs.
func RsyncArgs(t Target, flags, paths []string) []string {
	transport := strings.Join(append([]string{"ssh"}, t.baseOptions()...), " ")
	args := append([]string{"rsync", "-e", transport}, flags...)
	for _, p := range paths {
		if strings.HasPrefix(p, ":") {
			p = t.destination() + p
		}
		args = append(args, p)
	}
	return args
}

// TunnelArgs builds the argv for a port-forwarding ssh session
// (-N, no remote command). spec is "local:remote".
func TunnelArgs(t Target, spec string) ([]string, error) {
	local, remote, err := ParsePortSpec(spec)
	if err != nil {
		return nil, err
	}
	args := append([]string{"ssh"}, t.baseOptions()...)
	args = append(args,
		"-N",
		"-L", fmt.Sprintf("%d:localhost:%d", local, remote),
		t.destination(),
	)
	return args, nil
}

// ParsePortSpec splits a "local:remote" tunnel spec into its two ports.
func ParsePortSpec(spec string) (local, remote int, err error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid port spec %q: expected local:remote", spec)
	}
	local, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid local port %q: %w", parts[0], err)
	}
	remote, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid remote port %q: %w", parts[1], err)
	}
	if local <= 0 || local > 65535 || remote <= 0 || remote > 65535 {
		return 0, 0, fmt.Errorf("invalid port spec %q: ports must be 1-65535", spec)
	}
	return local, remote, nil
}

// ConfigBlock renders an ssh_config Host block for a devbox, for users
// who prefer plain `ssh <id>` once the block is installed.
func ConfigBlock(t Target) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Host %s\n", t.DevboxID)
	fmt.Fprintf(&b, "  HostName %s\n", t.host())
	fmt.Fprintf(&b, "  User %s\n", t.Username)
	fmt.Fprintf(&b, "  IdentityFile %s\n", t.KeyFile)
	fmt.Fprintf(&b, "  ProxyCommand %s\n", ProxyCommand(t.ProxyHost))
	fmt.Fprintf(&b, "  StrictHostKeyChecking no\n")
	fmt.Fprintf(&b, "  UserKnownHostsFile /dev/null\n")
	return b.String()
}
