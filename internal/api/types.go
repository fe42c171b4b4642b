package api

// Devbox statuses as reported by the platform. The client treats these as
// opaque strings for display; only the lifecycle helpers interpret them.
const (
	DevboxStatusProvisioning = "provisioning"
	DevboxStatusInitializing = "initializing"
	DevboxStatusRunning      = "running"
	DevboxStatusSuspending   = "suspending"
	DevboxStatusSuspended    = "suspended"
	DevboxStatusResuming     = "resuming"
	DevboxStatusFailure      = "failure"
	DevboxStatusShutdown     = "shutdown"
)

// UserParameters selects the account a devbox or blueprint runs under.
type UserParameters struct {
	Username string `json:"username,omitempty"`
	UID      int    `json:"uid,omitempty"`
}

// AfterIdle configures what happens once a devbox has been idle for the
// configured duration.
type AfterIdle struct {
	IdleTimeSeconds int    `json:"idle_time_seconds"`
	OnIdle          string `json:"on_idle"` // "shutdown" or "suspend"
}

// LaunchParameters describe how a devbox (or the devboxes built from a
// blueprint) should be provisioned.
type LaunchParameters struct {
	AfterIdle           *AfterIdle      `json:"after_idle,omitempty"`
	LaunchCommands      []string        `json:"launch_commands,omitempty"`
	ResourceSizeRequest string          `json:"resource_size_request,omitempty"`
	Architecture        string          `json:"architecture,omitempty"`
	AvailablePorts      []int           `json:"available_ports,omitempty"`
	UserParameters      *UserParameters `json:"user_parameters,omitempty"`
}

// CodeMountParameters describe a repository mounted into a devbox at launch.
type CodeMountParameters struct {
	RepoName       string `json:"repo_name"`
	RepoOwner      string `json:"repo_owner"`
	Token          string `json:"token,omitempty"`
	InstallCommand string `json:"install_command,omitempty"`
}

// Devbox is a remotely provisioned sandboxed compute instance.
type Devbox struct {
	ID                   string                `json:"id"`
	Name                 string                `json:"name,omitempty"`
	Status               string                `json:"status"`
	BlueprintID          string                `json:"blueprint_id,omitempty"`
	SnapshotID           string                `json:"snapshot_id,omitempty"`
	Entrypoint           string                `json:"entrypoint,omitempty"`
	EnvironmentVariables map[string]string     `json:"environment_variables,omitempty"`
	SetupCommands        []string              `json:"setup_commands,omitempty"`
	LaunchParameters     LaunchParameters      `json:"launch_parameters"`
	CodeMounts           []CodeMountParameters `json:"code_mounts,omitempty"`
	CreateTimeMs         int64                 `json:"create_time_ms,omitempty"`
	EndTimeMs            int64                 `json:"end_time_ms,omitempty"`
	FailureReason        string                `json:"failure_reason,omitempty"`
	ShutdownReason       string                `json:"shutdown_reason,omitempty"`
	Capabilities         []string              `json:"capabilities,omitempty"`
}

// Username returns the account commands run under, defaulting to "user"
// when no explicit user parameters were set at launch.
func (d *Devbox) Username() string {
	if d.LaunchParameters.UserParameters != nil && d.LaunchParameters.UserParameters.Username != "" {
		return d.LaunchParameters.UserParameters.Username
	}
	return "user"
}

// Execution is a command run on a devbox, synchronously or asynchronously.
type Execution struct {
	ExecutionID string `json:"execution_id,omitempty"`
	DevboxID    string `json:"devbox_id,omitempty"`
	Status      string `json:"status,omitempty"` // queued, running, completed
	Stdout      string `json:"stdout,omitempty"`
	Stderr      string `json:"stderr,omitempty"`
	ExitStatus  *int   `json:"exit_status,omitempty"`
	ShellName   string `json:"shell_name,omitempty"`
}

// Done reports whether the execution reached a terminal state.
func (e *Execution) Done() bool {
	return e.Status == "completed"
}

// DevboxLogEntry is one line of devbox activity. At most one of Cmd,
// Message, or ExitCode is expected to be populated.
type DevboxLogEntry struct {
	TimestampMs int64   `json:"timestamp_ms,omitempty"`
	Source      string  `json:"source,omitempty"`
	Level       string  `json:"level,omitempty"`
	Cmd         *string `json:"cmd,omitempty"`
	Message     *string `json:"message,omitempty"`
	ExitCode    *int    `json:"exit_code,omitempty"`
}

// SSHKey is the connection material minted for a devbox.
type SSHKey struct {
	SSHPrivateKey string `json:"ssh_private_key"`
	URL           string `json:"url"`
}

// Snapshot is a saved disk state of a devbox.
type Snapshot struct {
	ID           string            `json:"id"`
	DevboxID     string            `json:"source_devbox_id,omitempty"`
	Name         string            `json:"name,omitempty"`
	Status       string            `json:"status,omitempty"` // in_progress, complete, error
	ErrorDetails string            `json:"error_details,omitempty"`
	CreateTimeMs int64             `json:"create_time_ms,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Blueprint is a build template (Dockerfile plus setup commands) used to
// produce devbox images.
type Blueprint struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	Status              string           `json:"status,omitempty"` // provisioning, building, build_complete, failed
	Dockerfile          string           `json:"dockerfile,omitempty"`
	SystemSetupCommands []string         `json:"system_setup_commands,omitempty"`
	LaunchParameters    LaunchParameters `json:"launch_parameters"`
	CreateTimeMs        int64            `json:"create_time_ms,omitempty"`
	BuildFinishTimeMs   int64            `json:"build_finish_time_ms,omitempty"`
	FailureReason       string           `json:"failure_reason,omitempty"`
}

// BlueprintBuildLog is one line of blueprint build output.
type BlueprintBuildLog struct {
	TimestampMs int64  `json:"timestamp_ms,omitempty"`
	Level       string `json:"level,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Object is a stored blob addressable through the storage API.
type Object struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ContentType  string `json:"content_type,omitempty"`
	SizeBytes    int64  `json:"size_bytes,omitempty"`
	State        string `json:"state,omitempty"` // uploading, read_only, deleted
	IsPublic     bool   `json:"is_public,omitempty"`
	CreateTimeMs int64  `json:"create_time_ms,omitempty"`
}

// ObjectDownloadURL carries a presigned URL for fetching object contents.
type ObjectDownloadURL struct {
	DownloadURL string `json:"download_url"`
}

// NetworkPolicy restricts the egress a devbox is allowed.
type NetworkPolicy struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	AllowedHosts []string `json:"allowed_hosts,omitempty"`
	DeniedHosts  []string `json:"denied_hosts,omitempty"`
	CreateTimeMs int64    `json:"create_time_ms,omitempty"`
}

// Benchmark is a suite of scenarios runnable against devboxes.
type Benchmark struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	ScenarioIDs  []string          `json:"scenario_ids,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreateTimeMs int64             `json:"create_time_ms,omitempty"`
}

// BenchmarkRun is a single invocation of a benchmark.
type BenchmarkRun struct {
	ID          string   `json:"id"`
	BenchmarkID string   `json:"benchmark_id,omitempty"`
	Status      string   `json:"status,omitempty"` // running, completed, failed, canceled
	StartTimeMs int64    `json:"start_time_ms,omitempty"`
	EndTimeMs   int64    `json:"end_time_ms,omitempty"`
	Score       *float64 `json:"score,omitempty"`
}

// MCPConfig is a hosted MCP gateway configuration resource.
type MCPConfig struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Transport    string `json:"transport,omitempty"`
	Endpoint     string `json:"endpoint,omitempty"`
	CreateTimeMs int64  `json:"create_time_ms,omitempty"`
}

// GatewayConfig is an HTTP gateway configuration resource.
type GatewayConfig struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	UpstreamURL  string `json:"upstream_url,omitempty"`
	CreateTimeMs int64  `json:"create_time_ms,omitempty"`
}
