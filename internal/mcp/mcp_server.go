// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/vvasiu/strides/internal/contract"
)

// NewMCPServer initializes and configures the Strides MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.WorkoutStore) *server.MCPServer {
	s := server.NewMCPServer(
		"Strides Workout Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
	}

	// --- 1. Tool: get_recent_workouts ---
	s.AddTool(mcp.NewTool("get_recent_workouts",
		mcp.WithDescription("List the most recent stored workouts with their summary metrics, newest first."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of workouts returned.")),
	), h.handleGetRecentWorkouts)

	// --- 2. Tool: get_store_status ---
	s.AddTool(mcp.NewTool("get_store_status",
		mcp.WithDescription("Report workout store health: backend, row counts per table, workout time range and schema capabilities."),
	), h.handleGetStoreStatus)

	// --- 3. Tool: classify_activity ---
	s.AddTool(mcp.NewTool("classify_activity",
		mcp.WithDescription("Classify an activity as indoor or outdoor from its sport key and title."),
		mcp.WithString("sport", mcp.Description("The sport key of the activity (e.g. 'running', 'treadmill_running')."), mcp.Required()),
		mcp.WithString("title", mcp.Description("The activity title.")),
	), h.handleClassifyActivity)

	return s
}

// StartMCPServer starts the Strides MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.WorkoutStore) error {
	s := NewMCPServer(baseCfg, store)
	return server.ServeStdio(s)
}
