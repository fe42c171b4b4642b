// Package mcpserver exposes devbox operations as MCP tools over stdio,
// so agents and editors can drive the platform through `rl mcp`.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/runloopai/rl-cli-sub001/internal/api"
	"github.com/runloopai/rl-cli-sub001/pkg/logging"
)

// Server wraps an MCP server bound to one API client.
type Server struct {
	client  *api.Client
	version string
	mcp     *server.MCPServer
}

// NewServer creates the MCP server and registers all devbox tools.
func NewServer(client *api.Client, version string) *Server {
	s := &Server{
		client:  client,
		version: version,
	}

	mcpServer := server.NewMCPServer(
		"rl",
		version,
		server.WithToolCapabilities(true),
	)

	for _, reg := range s.toolRegistrations() {
		mcpServer.AddTool(reg.tool, reg.handler)
	}

	s.mcp = mcpServer
	return s
}

type toolRegistration struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

func (s *Server) toolRegistrations() []toolRegistration {
	return []toolRegistration{
		{
			tool: mcp.NewTool("devbox_list",
				mcp.WithDescription("List devboxes, optionally filtered by status"),
				mcp.WithString("status",
					mcp.Description("Filter by status: running, suspended, shutdown, failure"),
				),
			),
			handler: s.handleDevboxList,
		},
		{
			tool: mcp.NewTool("devbox_get",
				mcp.WithDescription("Get a single devbox by id"),
				mcp.WithString("id",
					mcp.Required(),
					mcp.Description("Devbox id"),
				),
			),
			handler: s.handleDevboxGet,
		},
		{
			tool: mcp.NewTool("devbox_create",
				mcp.WithDescription("Create a devbox and wait until it is running"),
				mcp.WithString("name",
					mcp.Description("Devbox name"),
				),
				mcp.WithString("blueprint_id",
					mcp.Description("Blueprint to boot from"),
				),
				mcp.WithString("snapshot_id",
					mcp.Description("Disk snapshot to boot from"),
				),
			),
			handler: s.handleDevboxCreate,
		},
		{
			tool: mcp.NewTool("devbox_exec",
				mcp.WithDescription("Run a shell command on a devbox and return its output"),
				mcp.WithString("id",
					mcp.Required(),
					mcp.Description("Devbox id"),
				),
				mcp.WithString("command",
					mcp.Required(),
					mcp.Description("Shell command to run"),
				),
			),
			handler: s.handleDevboxExec,
		},
		{
			tool: mcp.NewTool("devbox_logs",
				mcp.WithDescription("Fetch the log tail of a devbox"),
				mcp.WithString("id",
					mcp.Required(),
					mcp.Description("Devbox id"),
				),
			),
			handler: s.handleDevboxLogs,
		},
		{
			tool: mcp.NewTool("devbox_shutdown",
				mcp.WithDescription("Shut a devbox down"),
				mcp.WithString("id",
					mcp.Required(),
					mcp.Description("Devbox id"),
				),
			),
			handler: s.handleDevboxShutdown,
		},
		{
			tool: mcp.NewTool("blueprint_list",
				mcp.WithDescription("List blueprints"),
				mcp.WithString("name",
					mcp.Description("Filter by blueprint name"),
				),
			),
			handler: s.handleBlueprintList,
		},
		{
			tool: mcp.NewTool("snapshot_list",
				mcp.WithDescription("List disk snapshots"),
				mcp.WithString("devbox_id",
					mcp.Description("Filter by source devbox"),
				),
			),
			handler: s.handleSnapshotList,
		},
	}
}

// ServeStdio blocks, serving MCP over stdin/stdout until the peer
// disconnects.
func (s *Server) ServeStdio() error {
	logging.Info("MCP", "Serving MCP tools over stdio")
	return server.ServeStdio(s.mcp)
}
