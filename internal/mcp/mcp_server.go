// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/episense/episense/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the EpiSense MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"EpiSense Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_risk_table ---
	s.AddTool(mcp.NewTool("get_risk_table",
		mcp.WithDescription("Score per-country/per-year dengue indicator rows and return the ranked risk table."),
		mcp.WithString("input_path", mcp.Description("Path to the long-format indicator CSV (defaults to the configured input).")),
		mcp.WithString("scorer", mcp.Description("Anomaly scorer (forest, zscore, remote). Defaults to 'forest'."), mcp.Enum("forest", "zscore", "remote")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of rows returned.")),
		mcp.WithNumber("start_year", mcp.Description("Inclusive lower bound on years.")),
		mcp.WithNumber("end_year", mcp.Description("Inclusive upper bound on years.")),
	), h.handleGetRiskTable)

	// --- 2. Tool: get_country_alerts ---
	s.AddTool(mcp.NewTool("get_country_alerts",
		mcp.WithDescription("Return countries whose risk score clears the alert threshold for one year."),
		mcp.WithString("input_path", mcp.Description("Path to the long-format indicator CSV.")),
		mcp.WithNumber("year", mcp.Description("Year to evaluate (defaults to the latest year in the table).")),
		mcp.WithNumber("threshold", mcp.Description("Alert threshold on the 0-100 risk score. Defaults to 50.")),
	), h.handleGetCountryAlerts)

	// --- 3. Tool: get_country_timeseries ---
	s.AddTool(mcp.NewTool("get_country_timeseries",
		mcp.WithDescription("Return the year-by-year scored series for one country."),
		mcp.WithString("country", mcp.Description("ISO3 code of the country to analyze."), mcp.Required()),
		mcp.WithString("input_path", mcp.Description("Path to the long-format indicator CSV.")),
	), h.handleGetCountryTimeseries)

	return s
}

// StartMCPServer starts the EpiSense MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
