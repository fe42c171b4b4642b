package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetBlueprintFlags() {
	blueprintDockerfile = ""
	blueprintDockerfilePath = ""
	blueprintSetupCommands = nil
	blueprintResources = ""
	blueprintArchitecture = ""
	blueprintPorts = nil
	blueprintRunAsRoot = false
	blueprintUser = ""
}

func TestBuildCreateBlueprintRequestRejectsRootWithUser(t *testing.T) {
	resetBlueprintFlags()
	defer resetBlueprintFlags()

	blueprintRunAsRoot = true
	blueprintUser = "builder"
	_, err := buildCreateBlueprintRequest("test")
	if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Errorf("Expected mutual exclusion error, got: %v", err)
	}
}

func TestBuildCreateBlueprintRequestRejectsBothDockerfileSources(t *testing.T) {
	resetBlueprintFlags()
	defer resetBlueprintFlags()

	blueprintDockerfile = "FROM ubuntu"
	blueprintDockerfilePath = "/tmp/Dockerfile"
	_, err := buildCreateBlueprintRequest("test")
	if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Errorf("Expected mutual exclusion error, got: %v", err)
	}
}

func TestBuildCreateBlueprintRequestReadsDockerfilePath(t *testing.T) {
	resetBlueprintFlags()
	defer resetBlueprintFlags()

	path := filepath.Join(t.TempDir(), "Dockerfile")
	if err := os.WriteFile(path, []byte("FROM alpine\n"), 0644); err != nil {
		t.Fatal(err)
	}

	blueprintDockerfilePath = path
	req, err := buildCreateBlueprintRequest("test")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if req.Dockerfile != "FROM alpine\n" {
		t.Errorf("Expected Dockerfile contents, got %q", req.Dockerfile)
	}
}

func TestBuildCreateBlueprintRequestUserParameters(t *testing.T) {
	resetBlueprintFlags()
	defer resetBlueprintFlags()

	blueprintUser = "builder"
	req, err := buildCreateBlueprintRequest("test")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	up := req.LaunchParameters.UserParameters
	if up == nil || up.Username != "builder" {
		t.Errorf("Expected builder user parameters, got %+v", up)
	}

	resetBlueprintFlags()
	blueprintRunAsRoot = true
	req, err = buildCreateBlueprintRequest("test")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	up = req.LaunchParameters.UserParameters
	if up == nil || up.Username != "root" || up.UID != 0 {
		t.Errorf("Expected root user parameters, got %+v", up)
	}
}

func TestBuildCreateBlueprintRequestRequiresName(t *testing.T) {
	resetBlueprintFlags()
	defer resetBlueprintFlags()

	req, err := buildCreateBlueprintRequest("")
	if err != nil {
		t.Fatalf("Unexpected build error: %v", err)
	}
	if err := req.Validate(); err == nil {
		t.Error("Expected validation error for empty name")
	}
}
