package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/runloopai/rl-cli-sub001/internal/api"
	"github.com/runloopai/rl-cli-sub001/internal/config"
	"github.com/spf13/cobra"
)

// withTestClient points clientFromConfig at a local test server for the
// duration of one test.
func withTestClient(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)

	originalLoad := loadConfig
	originalFactory := newAPIClient
	loadConfig = func() (config.Config, error) {
		cfg := config.DefaultConfig()
		cfg.APIKey = "test-key"
		return cfg, nil
	}
	newAPIClient = func(cfg config.Config) (*api.Client, error) {
		return api.NewClient(cfg.APIKey, api.WithBaseURL(srv.URL))
	}
	t.Cleanup(func() {
		loadConfig = originalLoad
		newAPIClient = originalFactory
		srv.Close()
	})
	return srv
}

func resetCreateFlags() {
	devboxName = ""
	devboxEntrypoint = ""
	devboxEnvVars = nil
	devboxSetupCommands = nil
	devboxLaunchCommands = nil
	devboxBlueprintID = ""
	devboxBlueprintName = ""
	devboxSnapshotID = ""
	devboxResources = ""
	devboxArchitecture = ""
	devboxIdleTime = 0
	devboxIdleAction = ""
	devboxRunAsRoot = false
}

func TestBuildCreateDevboxRequestEnvParsing(t *testing.T) {
	resetCreateFlags()
	defer resetCreateFlags()

	devboxEnvVars = []string{"FOO=bar", "EMPTY=", "EQ=a=b"}
	req, err := buildCreateDevboxRequest()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if req.EnvironmentVariables["FOO"] != "bar" {
		t.Errorf("Expected FOO=bar, got %q", req.EnvironmentVariables["FOO"])
	}
	if req.EnvironmentVariables["EMPTY"] != "" {
		t.Errorf("Expected EMPTY to be empty, got %q", req.EnvironmentVariables["EMPTY"])
	}
	// Only the first '=' splits key from value.
	if req.EnvironmentVariables["EQ"] != "a=b" {
		t.Errorf("Expected EQ=a=b, got %q", req.EnvironmentVariables["EQ"])
	}
}

func TestBuildCreateDevboxRequestRejectsBadEnv(t *testing.T) {
	resetCreateFlags()
	defer resetCreateFlags()

	devboxEnvVars = []string{"missing-equals"}
	_, err := buildCreateDevboxRequest()
	if err == nil || !strings.Contains(err.Error(), "expected key=value") {
		t.Errorf("Expected key=value error, got: %v", err)
	}
}

func TestBuildCreateDevboxRequestIdleFlagsMustPair(t *testing.T) {
	resetCreateFlags()
	defer resetCreateFlags()

	devboxIdleTime = 300
	_, err := buildCreateDevboxRequest()
	if err == nil || !strings.Contains(err.Error(), "must be set together") {
		t.Errorf("Expected pairing error, got: %v", err)
	}

	devboxIdleTime = 0
	devboxIdleAction = "suspend"
	_, err = buildCreateDevboxRequest()
	if err == nil || !strings.Contains(err.Error(), "must be set together") {
		t.Errorf("Expected pairing error, got: %v", err)
	}

	devboxIdleTime = 300
	req, err := buildCreateDevboxRequest()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if req.LaunchParameters == nil || req.LaunchParameters.AfterIdle == nil {
		t.Fatal("Expected after_idle launch parameters")
	}
	if req.LaunchParameters.AfterIdle.IdleTimeSeconds != 300 || req.LaunchParameters.AfterIdle.OnIdle != "suspend" {
		t.Errorf("Unexpected after_idle: %+v", req.LaunchParameters.AfterIdle)
	}
}

func TestBuildCreateDevboxRequestRejectsBadIdleAction(t *testing.T) {
	resetCreateFlags()
	defer resetCreateFlags()

	devboxIdleTime = 60
	devboxIdleAction = "hibernate"
	_, err := buildCreateDevboxRequest()
	if err == nil || !strings.Contains(err.Error(), "shutdown or suspend") {
		t.Errorf("Expected idle action error, got: %v", err)
	}
}

func TestBuildCreateDevboxRequestRootUser(t *testing.T) {
	resetCreateFlags()
	defer resetCreateFlags()

	devboxRunAsRoot = true
	req, err := buildCreateDevboxRequest()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	up := req.LaunchParameters.UserParameters
	if up == nil || up.Username != "root" || up.UID != 0 {
		t.Errorf("Expected root user parameters, got %+v", up)
	}
}

func TestBuildCreateDevboxRequestNoLaunchParamsWhenUnset(t *testing.T) {
	resetCreateFlags()
	defer resetCreateFlags()

	devboxName = "plain"
	req, err := buildCreateDevboxRequest()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if req.LaunchParameters != nil {
		t.Errorf("Expected no launch parameters, got %+v", req.LaunchParameters)
	}
}

func TestArchitectureRejectedWithBlueprint(t *testing.T) {
	resetCreateFlags()
	defer resetCreateFlags()

	devboxArchitecture = "arm64"
	devboxBlueprintID = "bpt_1"
	req, err := buildCreateDevboxRequest()
	if err != nil {
		t.Fatalf("Unexpected build error: %v", err)
	}
	if err := req.Validate(); err == nil {
		t.Error("Expected validation error for architecture with blueprint")
	}
}

func TestRunDevboxGet(t *testing.T) {
	withTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/devboxes/dbx_123" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Unexpected authorization header: %s", auth)
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "dbx_123", "status": "running"})
	}))

	testCmd := &cobra.Command{Use: "test"}
	testCmd.SetContext(context.Background())
	var buf bytes.Buffer
	testCmd.SetOut(&buf)

	if err := runDevboxGet(testCmd, []string{"dbx_123"}); err != nil {
		t.Fatalf("runDevboxGet failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, `"id": "dbx_123"`) {
		t.Errorf("Expected devbox JSON, got: %q", output)
	}
}

func TestRunDevboxExecRelaysOutputAndExitStatus(t *testing.T) {
	exitStatus := 3
	withTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/devboxes/dbx_123/execute_sync" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"devbox_id":   "dbx_123",
			"status":      "completed",
			"stdout":      "hello\n",
			"stderr":      "warning\n",
			"exit_status": exitStatus,
		})
	}))

	devboxExecCommand = "exit 3"
	defer func() { devboxExecCommand = "" }()

	testCmd := &cobra.Command{Use: "test"}
	testCmd.SetContext(context.Background())
	var out, errOut bytes.Buffer
	testCmd.SetOut(&out)
	testCmd.SetErr(&errOut)

	err := runDevboxExec(testCmd, []string{"dbx_123"})
	if err == nil || !strings.Contains(err.Error(), "exited with status 3") {
		t.Errorf("Expected exit status error, got: %v", err)
	}
	if out.String() != "hello\n" {
		t.Errorf("Expected stdout relay, got: %q", out.String())
	}
	if errOut.String() != "warning\n" {
		t.Errorf("Expected stderr relay, got: %q", errOut.String())
	}
}

func TestRunDevboxLogsFormatsEntries(t *testing.T) {
	withTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"logs": []map[string]any{
				{"timestamp_ms": 1700000000000, "source": "entrypoint", "cmd": "npm start"},
				{"timestamp_ms": 1700000001000, "source": "entrypoint", "message": "listening on :3000"},
				{"timestamp_ms": 1700000002000, "source": "entrypoint", "exit_code": 0},
			},
		})
	}))

	testCmd := &cobra.Command{Use: "test"}
	testCmd.SetContext(context.Background())
	var buf bytes.Buffer
	testCmd.SetOut(&buf)

	if err := runDevboxLogs(testCmd, []string{"dbx_123"}); err != nil {
		t.Fatalf("runDevboxLogs failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "[entrypoint] -> npm start") {
		t.Errorf("Expected command line rendering, got: %q", output)
	}
	if !strings.Contains(output, "[entrypoint]  listening on :3000") {
		t.Errorf("Expected message rendering, got: %q", output)
	}
	if !strings.Contains(output, "-> exit_code=0") {
		t.Errorf("Expected exit code rendering, got: %q", output)
	}
}

func TestRunDevboxListAllFollowsCursor(t *testing.T) {
	var calls []string
	withTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Query().Get("starting_after"))
		if len(calls) == 1 {
			json.NewEncoder(w).Encode(map[string]any{
				"devboxes": []map[string]any{{"id": "dbx_1", "status": "running"}},
				"has_more": true,
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"devboxes": []map[string]any{{"id": "dbx_2", "status": "running"}},
			"has_more": false,
		})
	}))

	devboxListAll = true
	defer func() { devboxListAll = false }()

	testCmd := &cobra.Command{Use: "test"}
	testCmd.SetContext(context.Background())
	var buf bytes.Buffer
	testCmd.SetOut(&buf)

	if err := runDevboxList(testCmd, nil); err != nil {
		t.Fatalf("runDevboxList failed: %v", err)
	}

	if len(calls) != 2 || calls[0] != "" || calls[1] != "dbx_1" {
		t.Errorf("Expected cursor follow, got calls: %v", calls)
	}
	if !strings.Contains(buf.String(), "dbx_2") {
		t.Errorf("Expected both pages in output, got: %q", buf.String())
	}
}
