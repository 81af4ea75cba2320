package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/episense/episense/core"
	"github.com/episense/episense/internal/contract"
	"github.com/episense/episense/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

func (h *toolHandler) handleGetRiskTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("input_path", ""); p != "" {
		cfg.InputPath = p
	}
	if s := request.GetString("scorer", ""); s != "" {
		cfg.Scorer = schema.ScorerKind(s)
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	if y := request.GetInt("start_year", 0); y > 0 {
		cfg.StartYear = y
	}
	if y := request.GetInt("end_year", 0); y > 0 {
		cfg.EndYear = y
	}

	if err := contract.RevalidateScorer(cfg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scorer parameters: %v", err)), nil
	}
	if err := contract.RevalidateYearRange(cfg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid year parameters: %v", err)), nil
	}

	ranked, _, err := core.GetRiskTableResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	enriched := schema.EnrichRows(ranked)
	jsonData, _ := json.MarshalIndent(enriched, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCountryAlerts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("input_path", ""); p != "" {
		cfg.InputPath = p
	}
	if y := request.GetInt("year", 0); y > 0 {
		cfg.Year = y
	}
	if th := request.GetFloat("threshold", 0); th > 0 {
		cfg.AlertThreshold = th
	}

	if err := contract.RevalidateAlerts(cfg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid alert parameters: %v", err)), nil
	}

	result, _, err := core.GetAlertsResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("alert analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCountryTimeseries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Country = strings.ToUpper(strings.TrimSpace(request.GetString("country", "")))
	if p := request.GetString("input_path", ""); p != "" {
		cfg.InputPath = p
	}

	// Re-validate specifically for the country selection
	if err := contract.RevalidateCountry(cfg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid timeseries parameters: %v", err)), nil
	}

	result, _, err := core.GetTimeseriesResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("timeseries analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
