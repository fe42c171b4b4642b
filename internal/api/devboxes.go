package api

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"
)

// DevboxService calls the /v1/devboxes endpoints.
type DevboxService struct {
	client *Client
}

// CreateDevboxRequest are the parameters accepted by devbox creation.
type CreateDevboxRequest struct {
	Name                 string                `json:"name,omitempty"`
	Entrypoint           string                `json:"entrypoint,omitempty"`
	EnvironmentVariables map[string]string     `json:"environment_variables,omitempty"`
	SetupCommands        []string              `json:"setup_commands,omitempty"`
	BlueprintID          string                `json:"blueprint_id,omitempty"`
	BlueprintName        string                `json:"blueprint_name,omitempty"`
	SnapshotID           string                `json:"snapshot_id,omitempty"`
	CodeMounts           []CodeMountParameters `json:"code_mounts,omitempty"`
	LaunchParameters     *LaunchParameters     `json:"launch_parameters,omitempty"`
}

// Validate enforces the parameter combinations the server would reject
// anyway, so the user gets a fast local error.
func (r *CreateDevboxRequest) Validate() error {
	usesBlueprint := r.BlueprintID != "" || r.BlueprintName != ""
	if r.LaunchParameters != nil && r.LaunchParameters.Architecture != "" && usesBlueprint {
		return fmt.Errorf("architecture cannot be specified when using a blueprint (blueprint id or blueprint name)")
	}
	return nil
}

// Create provisions a new devbox.
func (s *DevboxService) Create(ctx context.Context, req CreateDevboxRequest) (*Devbox, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out Devbox
	if err := s.client.post(ctx, "/v1/devboxes", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DevboxListOptions extend the shared cursor options with a status filter.
type DevboxListOptions struct {
	ListOptions
	Status string
}

type devboxListResponse struct {
	Devboxes   []Devbox `json:"devboxes"`
	HasMore    bool     `json:"has_more"`
	TotalCount int64    `json:"total_count"`
}

// List returns one page of devboxes.
func (s *DevboxService) List(ctx context.Context, opts DevboxListOptions) (Page[Devbox], error) {
	q := opts.query()
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	var resp devboxListResponse
	if err := s.client.get(ctx, "/v1/devboxes", q, &resp); err != nil {
		return Page[Devbox]{}, err
	}
	return newPage(resp.Devboxes, resp.HasMore, resp.TotalCount, func(d Devbox) string { return d.ID }), nil
}

// Retrieve fetches a single devbox by id.
func (s *DevboxService) Retrieve(ctx context.Context, id string) (*Devbox, error) {
	var out Devbox
	if err := s.client.get(ctx, "/v1/devboxes/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExecuteRequest runs a command on a devbox, optionally inside a named
// persistent shell.
type ExecuteRequest struct {
	Command   string `json:"command"`
	ShellName string `json:"shell_name,omitempty"`
}

// ExecuteSync runs a command and blocks until it finishes.
func (s *DevboxService) ExecuteSync(ctx context.Context, id string, req ExecuteRequest) (*Execution, error) {
	var out Execution
	if err := s.client.post(ctx, "/v1/devboxes/"+id+"/execute_sync", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExecuteAsync starts a command and returns immediately with an execution id.
func (s *DevboxService) ExecuteAsync(ctx context.Context, id string, req ExecuteRequest) (*Execution, error) {
	var out Execution
	if err := s.client.post(ctx, "/v1/devboxes/"+id+"/execute_async", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RetrieveExecution fetches the current state of an async execution.
func (s *DevboxService) RetrieveExecution(ctx context.Context, devboxID, executionID string) (*Execution, error) {
	var out Execution
	if err := s.client.get(ctx, "/v1/devboxes/"+devboxID+"/executions/"+executionID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type devboxLogsResponse struct {
	Logs []DevboxLogEntry `json:"logs"`
}

// Logs returns the devbox activity log.
func (s *DevboxService) Logs(ctx context.Context, id string) ([]DevboxLogEntry, error) {
	var resp devboxLogsResponse
	if err := s.client.get(ctx, "/v1/devboxes/"+id+"/logs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Logs, nil
}

// Suspend pauses a running devbox, preserving its disk and memory state.
func (s *DevboxService) Suspend(ctx context.Context, id string) (*Devbox, error) {
	return s.lifecycle(ctx, id, "suspend")
}

// Resume restarts a suspended devbox.
func (s *DevboxService) Resume(ctx context.Context, id string) (*Devbox, error) {
	return s.lifecycle(ctx, id, "resume")
}

// Shutdown terminates a devbox permanently.
func (s *DevboxService) Shutdown(ctx context.Context, id string) (*Devbox, error) {
	return s.lifecycle(ctx, id, "shutdown")
}

func (s *DevboxService) lifecycle(ctx context.Context, id, verb string) (*Devbox, error) {
	var out Devbox
	if err := s.client.post(ctx, "/v1/devboxes/"+id+"/"+verb, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSSHKey mints ssh connection material for a devbox.
func (s *DevboxService) CreateSSHKey(ctx context.Context, id string) (*SSHKey, error) {
	var out SSHKey
	if err := s.client.post(ctx, "/v1/devboxes/"+id+"/create_ssh_key", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type fileContentsRequest struct {
	FilePath string `json:"file_path"`
	Contents string `json:"contents,omitempty"`
}

// ReadFileContents reads a text file from the devbox filesystem.
func (s *DevboxService) ReadFileContents(ctx context.Context, id, filePath string) (string, error) {
	resp, err := s.client.raw(ctx, "POST", "/v1/devboxes/"+id+"/read_file_contents", nil,
		jsonBody(fileContentsRequest{FilePath: filePath}), "application/json")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //nolint:errcheck
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading file contents response: %w", err)
	}
	return string(data), nil
}

// WriteFileContents writes a text file onto the devbox filesystem.
func (s *DevboxService) WriteFileContents(ctx context.Context, id, filePath, contents string) error {
	return s.client.post(ctx, "/v1/devboxes/"+id+"/write_file_contents",
		fileContentsRequest{FilePath: filePath, Contents: contents}, nil)
}

// UploadFile streams a local file to a path on the devbox.
func (s *DevboxService) UploadFile(ctx context.Context, id, remotePath, fileName string, contents io.Reader) error {
	return s.client.postMultipart(ctx, "/v1/devboxes/"+id+"/upload_file",
		map[string]string{"path": remotePath}, fileName, contents, nil)
}

// DownloadFile streams a file off the devbox. The caller must close the
// returned reader.
func (s *DevboxService) DownloadFile(ctx context.Context, id, remotePath string) (io.ReadCloser, error) {
	q := url.Values{}
	q.Set("path", remotePath)
	resp, err := s.client.raw(ctx, "POST", "/v1/devboxes/"+id+"/download_file", q, nil, "")
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// SnapshotDisk kicks off an asynchronous disk snapshot.
func (s *DevboxService) SnapshotDisk(ctx context.Context, id string, name string) (*Snapshot, error) {
	body := struct {
		Name string `json:"name,omitempty"`
	}{Name: name}
	var out Snapshot
	if err := s.client.post(ctx, "/v1/devboxes/"+id+"/snapshot_disk_async", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type snapshotListResponse struct {
	Snapshots  []Snapshot `json:"snapshots"`
	HasMore    bool       `json:"has_more"`
	TotalCount int64      `json:"total_count"`
}

// SnapshotListOptions optionally scope the listing to one source devbox.
type SnapshotListOptions struct {
	ListOptions
	DevboxID string
}

// ListDiskSnapshots returns one page of disk snapshots.
func (s *DevboxService) ListDiskSnapshots(ctx context.Context, opts SnapshotListOptions) (Page[Snapshot], error) {
	q := opts.query()
	if opts.DevboxID != "" {
		q.Set("devbox_id", opts.DevboxID)
	}
	var resp snapshotListResponse
	if err := s.client.get(ctx, "/v1/devboxes/disk_snapshots", q, &resp); err != nil {
		return Page[Snapshot]{}, err
	}
	return newPage(resp.Snapshots, resp.HasMore, resp.TotalCount, func(sn Snapshot) string { return sn.ID }), nil
}

// SnapshotStatus reports the progress of an in-flight snapshot.
func (s *DevboxService) SnapshotStatus(ctx context.Context, snapshotID string) (*Snapshot, error) {
	var out Snapshot
	if err := s.client.get(ctx, "/v1/devboxes/disk_snapshots/"+snapshotID+"/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDiskSnapshot removes a stored snapshot.
func (s *DevboxService) DeleteDiskSnapshot(ctx context.Context, snapshotID string) error {
	return s.client.delete(ctx, "/v1/devboxes/disk_snapshots/"+snapshotID)
}

// AwaitProgress is invoked after each poll while waiting for a devbox to
// come up, with the latest observed status and the time spent so far.
type AwaitProgress func(status string, elapsed, remaining time.Duration)

// AwaitRunning polls the devbox until it reports running. A devbox that
// lands in failure, shutdown, or suspended will never become ready, so
// those states fail immediately. Transient retrieve errors are retried
// until the deadline.
func (s *DevboxService) AwaitRunning(ctx context.Context, id string, pollInterval, timeout time.Duration, progress AwaitProgress) error {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	if timeout <= 0 {
		timeout = 180 * time.Second
	}
	start := time.Now()
	for {
		db, err := s.Retrieve(ctx, id)
		elapsed := time.Since(start)
		switch {
		case err != nil:
			if elapsed >= timeout {
				return fmt.Errorf("timed out after %s waiting for devbox %s: %w", timeout, id, err)
			}
		case db.Status == DevboxStatusRunning:
			return nil
		case db.Status == DevboxStatusFailure:
			return fmt.Errorf("devbox %s failed to start", id)
		case db.Status == DevboxStatusShutdown || db.Status == DevboxStatusSuspended:
			return fmt.Errorf("devbox %s is not running (status: %s)", id, db.Status)
		default:
			if progress != nil {
				progress(db.Status, elapsed, timeout-elapsed)
			}
			if elapsed >= timeout {
				return fmt.Errorf("timed out after %s waiting for devbox %s (status: %s)", timeout, id, db.Status)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}
