package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/vvasiu/strides/core"
	"github.com/vvasiu/strides/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.WorkoutStore
}

func (h *toolHandler) handleGetRecentWorkouts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := h.baseCfg.ActivityLimit
	if l := request.GetInt("limit", 0); l > 0 {
		limit = l
	}

	workouts, err := h.store.RecentWorkouts(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing workouts failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(workouts, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetStoreStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.store.GetStatus(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status query failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleClassifyActivity(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sport := request.GetString("sport", "")
	if sport == "" {
		return mcp.NewToolResultError("sport is required"), nil
	}
	title := request.GetString("title", "")

	result := map[string]any{
		"sport":     sport,
		"title":     title,
		"is_indoor": core.IsIndoorActivity(sport, title),
	}
	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
