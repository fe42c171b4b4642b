package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/runloopai/rl-cli-sub001/internal/api"
)

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleDevboxList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := api.DevboxListOptions{Status: request.GetString("status", "")}
	page, err := s.client.Devboxes.List(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Listing devboxes failed: %v", err)), nil
	}
	if len(page.Items) == 0 {
		return mcp.NewToolResultText("No devboxes found"), nil
	}
	return jsonResult(page.Items)
}

func (s *Server) handleDevboxGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	devbox, err := s.client.Devboxes.Retrieve(ctx, id)
	if err != nil {
		if api.IsNotFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("Devbox not found: %s", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Fetching devbox failed: %v", err)), nil
	}
	return jsonResult(devbox)
}

func (s *Server) handleDevboxCreate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := api.CreateDevboxRequest{
		Name:        request.GetString("name", ""),
		BlueprintID: request.GetString("blueprint_id", ""),
		SnapshotID:  request.GetString("snapshot_id", ""),
	}
	devbox, err := s.client.Devboxes.Create(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Creating devbox failed: %v", err)), nil
	}
	if err := s.client.Devboxes.AwaitRunning(ctx, devbox.ID, 3*time.Second, 180*time.Second, nil); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Devbox %s did not reach running: %v", devbox.ID, err)), nil
	}
	devbox, err = s.client.Devboxes.Retrieve(ctx, devbox.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Fetching devbox failed: %v", err)), nil
	}
	return jsonResult(devbox)
}

func (s *Server) handleDevboxExec(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	command, err := request.RequireString("command")
	if err != nil {
		return mcp.NewToolResultError("command parameter is required"), nil
	}

	exec, err := s.client.Devboxes.ExecuteSync(ctx, id, api.ExecuteRequest{Command: command})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Execution failed: %v", err)), nil
	}

	var out strings.Builder
	if exec.Stdout != "" {
		out.WriteString(exec.Stdout)
	}
	if exec.Stderr != "" {
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		out.WriteString(exec.Stderr)
	}
	if exec.ExitStatus != nil && *exec.ExitStatus != 0 {
		return mcp.NewToolResultError(fmt.Sprintf("Command exited with status %d:\n%s", *exec.ExitStatus, out.String())), nil
	}
	if out.Len() == 0 {
		return mcp.NewToolResultText("(no output)"), nil
	}
	return mcp.NewToolResultText(out.String()), nil
}

func (s *Server) handleDevboxLogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	logs, err := s.client.Devboxes.Logs(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Fetching logs failed: %v", err)), nil
	}
	if len(logs) == 0 {
		return mcp.NewToolResultText("No logs available"), nil
	}
	lines := make([]string, 0, len(logs))
	for _, entry := range logs {
		lines = append(lines, api.FormatLogEntry(entry))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) handleDevboxShutdown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	devbox, err := s.client.Devboxes.Shutdown(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Shutdown failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Devbox %s is now %s", devbox.ID, devbox.Status)), nil
}

func (s *Server) handleBlueprintList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := api.BlueprintListOptions{Name: request.GetString("name", "")}
	page, err := s.client.Blueprints.List(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Listing blueprints failed: %v", err)), nil
	}
	if len(page.Items) == 0 {
		return mcp.NewToolResultText("No blueprints found"), nil
	}
	return jsonResult(page.Items)
}

func (s *Server) handleSnapshotList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := api.SnapshotListOptions{DevboxID: request.GetString("devbox_id", "")}
	page, err := s.client.Devboxes.ListDiskSnapshots(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Listing snapshots failed: %v", err)), nil
	}
	if len(page.Items) == 0 {
		return mcp.NewToolResultText("No snapshots found"), nil
	}
	return jsonResult(page.Items)
}
