package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg   *contract.Config
	mgr       contract.CacheManager
	clientFor func(*contract.Config) contract.GitClient
}

// prepare clones the base config and applies the request arguments to it.
func (h *toolHandler) prepare(ctx context.Context, request mcp.CallToolRequest) (*contract.Config, contract.GitClient, error) {
	cfg := h.baseCfg.Clone()
	client := h.clientFor(cfg)

	if p := request.GetString("repo_path", ""); p != "" {
		repoPath, err := contract.ResolveRepoPath(ctx, client, p)
		if err != nil {
			return nil, nil, err
		}
		cfg.RepoPath = repoPath
	}
	if b := request.GetString("branch", ""); b != "" {
		if err := contract.ValidateBranch(b); err != nil {
			return nil, nil, err
		}
		cfg.Scan.Branch = b
	}
	if request.GetBool("all_branches", false) {
		cfg.Scan.AllBranches = true
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}
	if m := request.GetString("metric", ""); m != "" {
		metric, err := schema.ParseMetric(m)
		if err != nil {
			return nil, nil, err
		}
		cfg.Metric = metric
	}
	if a := request.GetString("author", ""); a != "" {
		cfg.Author = a
	}
	if err := applyFilter(cfg, request, time.Now()); err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}

func applyFilter(cfg *contract.Config, request mcp.CallToolRequest, now time.Time) error {
	if authors := request.GetString("authors", ""); authors != "" {
		cfg.Filter.Authors = nil
		for a := range strings.SplitSeq(authors, ",") {
			if a = strings.TrimSpace(a); a != "" {
				cfg.Filter.Authors = append(cfg.Filter.Authors, a)
			}
		}
	}
	if months := request.GetInt("months", 0); months != 0 {
		if months < 0 {
			return fmt.Errorf("months must be positive")
		}
		cfg.Filter.Months = months
	}
	start, err := contract.ParseTimeBound(request.GetString("start", ""), now)
	if err != nil {
		return err
	}
	end, err := contract.ParseTimeBound(request.GetString("end", ""), now)
	if err != nil {
		return err
	}
	if !start.IsZero() {
		cfg.Filter.Start = start
	}
	if !end.IsZero() {
		cfg.Filter.End = end
	}
	if !cfg.Filter.Start.IsZero() && !cfg.Filter.End.IsZero() && cfg.Filter.Start.After(cfg.Filter.End) {
		return fmt.Errorf("start %s is after end %s", cfg.Filter.Start.Format(contract.DateFormat), cfg.Filter.End.Format(contract.DateFormat))
	}
	return nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func invalidParams(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err))
}

func (h *toolHandler) handleGetLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, client, err := h.prepare(ctx, request)
	if err != nil {
		return invalidParams(err), nil
	}
	result, _, err := core.GetLeaderboardResults(core.WithSuppressHeader(ctx), cfg, client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("leaderboard failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetWeeklySeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, client, err := h.prepare(ctx, request)
	if err != nil {
		return invalidParams(err), nil
	}
	points, err := core.GetWeeklyResults(core.WithSuppressHeader(ctx), cfg, client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("weekly series failed: %v", err)), nil
	}
	return jsonResult(points)
}

func (h *toolHandler) handleGetCalendarHeatmap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, client, err := h.prepare(ctx, request)
	if err != nil {
		return invalidParams(err), nil
	}
	result, err := core.GetHeatmapResults(core.WithSuppressHeader(ctx), cfg, client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("heatmap failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleListBranches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, client, err := h.prepare(ctx, request)
	if err != nil {
		return invalidParams(err), nil
	}
	branches, err := core.GetBranchesResults(ctx, cfg, client)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing branches failed: %v", err)), nil
	}
	return jsonResult(branches)
}

func (h *toolHandler) handleGetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, client, err := h.prepare(ctx, request)
	if err != nil {
		return invalidParams(err), nil
	}
	summary, err := core.GetSummaryResults(core.WithSuppressHeader(ctx), cfg, client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	return jsonResult(summary)
}
