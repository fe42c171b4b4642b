package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestSetVersion(t *testing.T) {
	originalVersion := rootCmd.Version
	defer func() { rootCmd.Version = originalVersion }()

	testVersion := "1.2.3-test"
	SetVersion(testVersion)

	if rootCmd.Version != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, rootCmd.Version)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "rl" {
		t.Errorf("Expected Use to be 'rl', got %s", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}

	if rootCmd.Long == "" {
		t.Error("Expected Long description to be set")
	}

	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}
	testCmd.SetVersionTemplate(`{{printf "rl version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})

	err := testCmd.Execute()
	if err != nil {
		t.Fatalf("Error executing version command: %v", err)
	}

	output := buf.String()
	expected := "rl version 1.0.0\n"
	if output != expected {
		t.Errorf("Expected version output %q, got %q", expected, output)
	}
}

func TestSubcommands(t *testing.T) {
	commands := rootCmd.Commands()

	expectedCommands := []string{
		"version", "self-update", "devbox", "blueprint", "snapshot",
		"object", "netpolicy", "benchmark", "invocation", "settings",
		"browse", "mcp",
	}
	foundCommands := make(map[string]bool)

	for _, cmd := range commands {
		foundCommands[cmd.Name()] = true
	}

	for _, expected := range expectedCommands {
		if !foundCommands[expected] {
			t.Errorf("Expected subcommand %s to be registered", expected)
		}
	}
}

func TestDevboxSubcommands(t *testing.T) {
	expectedCommands := []string{
		"create", "list", "get", "exec", "exec-async", "async-status",
		"logs", "suspend", "resume", "shutdown", "read", "write",
		"upload", "download", "snapshot", "ssh", "scp", "rsync", "tunnel",
	}
	foundCommands := make(map[string]bool)

	for _, cmd := range devboxCmd.Commands() {
		foundCommands[cmd.Name()] = true
	}

	for _, expected := range expectedCommands {
		if !foundCommands[expected] {
			t.Errorf("Expected devbox subcommand %s to be registered", expected)
		}
	}
}

func TestPrintJSON(t *testing.T) {
	testCmd := &cobra.Command{Use: "test"}
	var buf bytes.Buffer
	testCmd.SetOut(&buf)

	err := printJSON(testCmd, map[string]string{"id": "dbx_123"})
	if err != nil {
		t.Fatalf("printJSON failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, `"id": "dbx_123"`) {
		t.Errorf("Expected JSON output with id field, got: %q", output)
	}
	if !strings.HasPrefix(output, "{\n    ") {
		t.Errorf("Expected 4-space indented JSON, got: %q", output)
	}
}

func TestCommandUseStringsHaveNoTrailingSpace(t *testing.T) {
	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		if cmd.Use != strings.TrimSpace(cmd.Use) {
			t.Errorf("Command %q has surrounding whitespace in its use string: %q", cmd.Name(), cmd.Use)
		}
		for _, sub := range cmd.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}
