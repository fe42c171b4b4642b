package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevboxListPagination(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/devboxes", r.URL.Path)
		switch r.URL.Query().Get("starting_after") {
		case "":
			assert.Equal(t, "2", r.URL.Query().Get("limit"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"devboxes":    []Devbox{{ID: "dbx_1"}, {ID: "dbx_2"}},
				"has_more":    true,
				"total_count": 3,
			})
		case "dbx_2":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"devboxes": []Devbox{{ID: "dbx_3"}},
				"has_more": false,
			})
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("starting_after"))
		}
	})

	page, err := c.Devboxes.List(context.Background(), DevboxListOptions{ListOptions: ListOptions{Limit: 2}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Equal(t, "dbx_2", page.NextCursor())

	all, err := CollectAll(context.Background(), ListOptions{Limit: 2},
		func(ctx context.Context, opts ListOptions) (Page[Devbox], error) {
			return c.Devboxes.List(ctx, DevboxListOptions{ListOptions: opts})
		})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestPageNeverTrustsHasMoreWithoutCursor(t *testing.T) {
	p := newPage([]Devbox{}, true, 10, func(d Devbox) string { return d.ID })
	assert.Empty(t, p.NextCursor())
}

func TestDevboxListStatusFilter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "running", r.URL.Query().Get("status"))
		_ = json.NewEncoder(w).Encode(map[string]any{"devboxes": []Devbox{{ID: "dbx_1", Status: "running"}}})
	})

	page, err := c.Devboxes.List(context.Background(), DevboxListOptions{Status: "running"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "running", page.Items[0].Status)
}

func TestDevboxCreateRejectsArchitectureWithBlueprint(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	})

	_, err := c.Devboxes.Create(context.Background(), CreateDevboxRequest{
		BlueprintID:      "bpt_1",
		LaunchParameters: &LaunchParameters{Architecture: "arm64"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "architecture cannot be specified")
}

func TestDevboxLifecycleEndpoints(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		_ = json.NewEncoder(w).Encode(Devbox{ID: "dbx_1"})
	})

	ctx := context.Background()
	_, err := c.Devboxes.Suspend(ctx, "dbx_1")
	require.NoError(t, err)
	_, err = c.Devboxes.Resume(ctx, "dbx_1")
	require.NoError(t, err)
	_, err = c.Devboxes.Shutdown(ctx, "dbx_1")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /v1/devboxes/dbx_1/suspend",
		"POST /v1/devboxes/dbx_1/resume",
		"POST /v1/devboxes/dbx_1/shutdown",
	}, paths)
}

func TestDevboxExecuteSync(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/devboxes/dbx_1/execute_sync", r.URL.Path)
		var req ExecuteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "echo hello", req.Command)
		assert.Equal(t, "main", req.ShellName)
		exit := 0
		_ = json.NewEncoder(w).Encode(Execution{Status: "completed", Stdout: "hello\n", ExitStatus: &exit})
	})

	exec, err := c.Devboxes.ExecuteSync(context.Background(), "dbx_1", ExecuteRequest{Command: "echo hello", ShellName: "main"})
	require.NoError(t, err)
	assert.True(t, exec.Done())
	assert.Equal(t, "hello\n", exec.Stdout)
}

func TestDevboxFileContents(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/devboxes/dbx_1/read_file_contents":
			var req struct {
				FilePath string `json:"file_path"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "/tmp/out.txt", req.FilePath)
			_, _ = w.Write([]byte("file body"))
		case "/v1/devboxes/dbx_1/write_file_contents":
			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(body), `"contents":"new body"`)
			_, _ = w.Write([]byte(`{}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	ctx := context.Background()
	contents, err := c.Devboxes.ReadFileContents(ctx, "dbx_1", "/tmp/out.txt")
	require.NoError(t, err)
	assert.Equal(t, "file body", contents)

	require.NoError(t, c.Devboxes.WriteFileContents(ctx, "dbx_1", "/tmp/in.txt", "new body"))
}

func TestDevboxUploadFileIsMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "/data/in.bin", r.FormValue("path"))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close() //nolint:errcheck
		assert.Equal(t, "in.bin", hdr.Filename)
		data, _ := io.ReadAll(f)
		assert.Equal(t, "payload", string(data))
		_, _ = w.Write([]byte(`{}`))
	})

	err := c.Devboxes.UploadFile(context.Background(), "dbx_1", "/data/in.bin", "in.bin",
		strings.NewReader("payload"))
	require.NoError(t, err)
}

func TestAwaitRunning(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		status := DevboxStatusProvisioning
		if calls.Add(1) >= 3 {
			status = DevboxStatusRunning
		}
		_ = json.NewEncoder(w).Encode(Devbox{ID: "dbx_1", Status: status})
	})

	var seen []string
	err := c.Devboxes.AwaitRunning(context.Background(), "dbx_1", time.Millisecond, time.Second,
		func(status string, elapsed, remaining time.Duration) { seen = append(seen, status) })
	require.NoError(t, err)
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
	assert.Contains(t, seen, DevboxStatusProvisioning)
}

func TestAwaitRunningTerminalStates(t *testing.T) {
	for _, status := range []string{DevboxStatusFailure, DevboxStatusShutdown, DevboxStatusSuspended} {
		t.Run(status, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(Devbox{ID: "dbx_1", Status: status})
			})
			err := c.Devboxes.AwaitRunning(context.Background(), "dbx_1", time.Millisecond, time.Second, nil)
			assert.Error(t, err)
		})
	}
}

func TestAwaitRunningTimesOut(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Devbox{ID: "dbx_1", Status: DevboxStatusInitializing})
	})
	err := c.Devboxes.AwaitRunning(context.Background(), "dbx_1", time.Millisecond, 10*time.Millisecond, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestSnapshotEndpoints(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/devboxes/dbx_1/snapshot_disk_async":
			_ = json.NewEncoder(w).Encode(Snapshot{ID: "snp_1", DevboxID: "dbx_1", Status: "in_progress"})
		case r.URL.Path == "/v1/devboxes/disk_snapshots/snp_1/status":
			_ = json.NewEncoder(w).Encode(Snapshot{ID: "snp_1", Status: "complete"})
		case r.URL.Path == "/v1/devboxes/disk_snapshots" && r.Method == http.MethodGet:
			assert.Equal(t, "dbx_1", r.URL.Query().Get("devbox_id"))
			_ = json.NewEncoder(w).Encode(map[string]any{"snapshots": []Snapshot{{ID: "snp_1"}}})
		case r.URL.Path == "/v1/devboxes/disk_snapshots/snp_1" && r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	ctx := context.Background()
	snap, err := c.Devboxes.SnapshotDisk(ctx, "dbx_1", "")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", snap.Status)

	status, err := c.Devboxes.SnapshotStatus(ctx, "snp_1")
	require.NoError(t, err)
	assert.Equal(t, "complete", status.Status)

	page, err := c.Devboxes.ListDiskSnapshots(ctx, SnapshotListOptions{DevboxID: "dbx_1"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	require.NoError(t, c.Devboxes.DeleteDiskSnapshot(ctx, "snp_1"))
}

func TestDevboxUsername(t *testing.T) {
	d := &Devbox{}
	assert.Equal(t, "user", d.Username())

	d.LaunchParameters.UserParameters = &UserParameters{Username: "root", UID: 0}
	assert.Equal(t, "root", d.Username())
}
