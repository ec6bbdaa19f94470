// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Shared tool arguments.
var (
	repoPathArg = mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to the configured repository)."))
	branchArg   = mcp.WithString("branch", mcp.Description("Branch or ref to scan. Defaults to HEAD."))
	allArg      = mcp.WithBoolean("all_branches", mcp.Description("Scan every ref instead of a single branch."))
	authorsArg  = mcp.WithString("authors", mcp.Description("Comma-separated author keys or emails to keep."))
	monthsArg   = mcp.WithNumber("months", mcp.Description("Only keep the last N months before the newest commit."))
	startArg    = mcp.WithString("start", mcp.Description("Inclusive start day (YYYY-MM-DD, ISO8601 or 'N units ago')."))
	endArg      = mcp.WithString("end", mcp.Description("Inclusive end day (YYYY-MM-DD, ISO8601 or 'N units ago')."))
	metricArg   = mcp.WithString("metric", mcp.Description("Metric to aggregate. Defaults to 'commits'."),
		mcp.Enum("commits", "churn", "net", "added", "deleted", "files", "binary_files"))
)

// NewMCPServer initializes and configures the gitpulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	return newServer(baseCfg, mgr, func(cfg *contract.Config) contract.GitClient {
		return core.NewGitClient(cfg.GitBackend, cfg.GitTimeout)
	})
}

func newServer(baseCfg *contract.Config, mgr contract.CacheManager, clientFor func(*contract.Config) contract.GitClient) *server.MCPServer {
	s := server.NewMCPServer(
		"gitpulse Contributor Analytics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:   baseCfg,
		mgr:       mgr,
		clientFor: clientFor,
	}

	// --- 1. Tool: get_leaderboard ---
	s.AddTool(mcp.NewTool("get_leaderboard",
		mcp.WithDescription("Rank the authors of a repository by contribution score, with headline KPIs."),
		repoPathArg, branchArg, allArg, authorsArg, monthsArg, startArg, endArg,
		mcp.WithNumber("limit", mcp.Description("Limit the number of authors returned.")),
	), h.handleGetLeaderboard)

	// --- 2. Tool: get_weekly_series ---
	s.AddTool(mcp.NewTool("get_weekly_series",
		mcp.WithDescription("Sum a metric per author per ISO week (weeks start on Monday, UTC)."),
		repoPathArg, branchArg, allArg, authorsArg, monthsArg, startArg, endArg, metricArg,
	), h.handleGetWeeklySeries)

	// --- 3. Tool: get_calendar_heatmap ---
	s.AddTool(mcp.NewTool("get_calendar_heatmap",
		mcp.WithDescription("Daily activity of one author laid out as a Monday-first calendar grid."),
		mcp.WithString("author", mcp.Description("Author key or email. Defaults to the top-ranked author.")),
		repoPathArg, branchArg, allArg, monthsArg, startArg, endArg, metricArg,
	), h.handleGetCalendarHeatmap)

	// --- 4. Tool: list_branches ---
	s.AddTool(mcp.NewTool("list_branches",
		mcp.WithDescription("List local branches, current branch first."),
		repoPathArg,
	), h.handleListBranches)

	// --- 5. Tool: get_summary ---
	s.AddTool(mcp.NewTool("get_summary",
		mcp.WithDescription("Commits, authors, churn, net lines and average churn of the selected history."),
		repoPathArg, branchArg, allArg, authorsArg, monthsArg, startArg, endArg,
	), h.handleGetSummary)

	return s
}

// StartMCPServer starts the gitpulse MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
