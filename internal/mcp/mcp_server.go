// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/sprintlens/sprintlens/internal/contract"
)

// NewMCPServer initializes and configures the Sprintlens MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.JiraClient, store contract.SnapshotStore, log zerolog.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"Sprintlens Analytics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		store:   store,
		log:     log,
	}

	// --- 1. Tool: get_sprint_report ---
	s.AddTool(mcp.NewTool("get_sprint_report",
		mcp.WithDescription("Build a sprint story-point report: totals, per-bucket breakdown, velocity and health."),
		mcp.WithString("sprint", mcp.Description("Sprint label to report on (defaults to the configured sprint).")),
		mcp.WithString("by", mcp.Description("Aggregation dimension (category, assignee, type, fixversion, team). Defaults to 'category'."), mcp.Enum("category", "assignee", "type", "fixversion", "team")),
		mcp.WithString("jql", mcp.Description("Raw JQL override for the issue filter.")),
		mcp.WithNumber("max_results", mcp.Description("Limit the number of issues fetched.")),
	), h.handleGetSprintReport)

	// --- 2. Tool: get_burndown ---
	s.AddTool(mcp.NewTool("get_burndown",
		mcp.WithDescription("Build the S-curve daily burn plan and overrun projection for a sprint. Requires the sprint calendar."),
		mcp.WithString("sprint", mcp.Description("Sprint label to project (defaults to the configured sprint).")),
		mcp.WithString("sprint_start", mcp.Description("First day of the sprint (YYYY-MM-DD).")),
		mcp.WithString("sprint_end", mcp.Description("Deadline of the sprint (YYYY-MM-DD).")),
		mcp.WithString("jql", mcp.Description("Raw JQL override for the issue filter.")),
	), h.handleGetBurndown)

	return s
}

// StartMCPServer starts the Sprintlens MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.JiraClient, store contract.SnapshotStore, log zerolog.Logger) error {
	s := NewMCPServer(baseCfg, client, store, log)
	return server.ServeStdio(s)
}
