package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/sprintlens/sprintlens/core"
	"github.com/sprintlens/sprintlens/internal/contract"
	"github.com/sprintlens/sprintlens/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.JiraClient
	store   contract.SnapshotStore
	log     zerolog.Logger
}

func (h *toolHandler) handleGetSprintReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if s := request.GetString("sprint", ""); s != "" {
		cfg.Sprint = s
		cfg.JQL = fmt.Sprintf("sprint = %q", s)
	}
	if d := request.GetString("by", ""); d != "" {
		dim := schema.Dimension(d)
		if _, ok := schema.ValidDimensions[dim]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown dimension %q", d)), nil
		}
		cfg.Dimension = dim
	}
	if q := request.GetString("jql", ""); q != "" {
		cfg.JQL = q
	}
	if m := request.GetInt("max_results", 0); m > 0 && m <= contract.MaxResults {
		cfg.MaxResults = m
	}

	report, err := core.BuildSprintReport(ctx, h.client, h.store, cfg, time.Now().UTC(), h.log)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetBurndown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if s := request.GetString("sprint", ""); s != "" {
		cfg.Sprint = s
		cfg.JQL = fmt.Sprintf("sprint = %q", s)
	}
	if q := request.GetString("jql", ""); q != "" {
		cfg.JQL = q
	}
	if d := request.GetString("sprint_start", ""); d != "" {
		start, err := time.Parse(contract.DateFormat, d)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid sprint_start %q: use YYYY-MM-DD", d)), nil
		}
		cfg.SprintStart = start
	}
	if d := request.GetString("sprint_end", ""); d != "" {
		end, err := time.Parse(contract.DateFormat, d)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid sprint_end %q: use YYYY-MM-DD", d)), nil
		}
		cfg.SprintEnd = end
	}

	report, err := core.BuildBurndownReport(ctx, h.client, cfg, time.Now().UTC(), h.log)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("burndown failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
