// Package core wires extraction, derivation and aggregation into the
// projections served by the CLI and the MCP server.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/gitpulse/core/agg"
	"github.com/huangsam/gitpulse/core/extract"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/gogit"
	"github.com/huangsam/gitpulse/internal/outwriter"
	"github.com/huangsam/gitpulse/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error

// NewGitClient returns the GitClient for the configured backend.
func NewGitClient(backend schema.GitBackend, timeout time.Duration) contract.GitClient {
	if backend == schema.GoGitGitBackend {
		return gogit.NewClient(timeout)
	}
	return contract.NewLocalGitClient(timeout)
}

// GetLeaderboardResults ranks the authors of the filtered history.
// Rows are capped at cfg.ResultLimit; the summary covers the whole selection.
func GetLeaderboardResults(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (schema.LeaderboardResult, time.Duration, error) {
	start := time.Now()
	selection, err := loadSelection(ctx, cfg, client, mgr)
	if err != nil {
		return schema.LeaderboardResult{}, 0, err
	}
	rows := agg.Leaderboard(selection, cfg.Metrics)
	if cfg.ResultLimit > 0 && len(rows) > cfg.ResultLimit {
		rows = rows[:cfg.ResultLimit]
	}
	result := schema.LeaderboardResult{
		Summary: agg.Summarize(selection),
		Rows:    schema.EnrichLeaderboard(rows),
	}
	return result, time.Since(start), nil
}

// GetSummaryResults computes the headline KPIs of the filtered history.
func GetSummaryResults(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (schema.Summary, error) {
	selection, err := loadSelection(ctx, cfg, client, mgr)
	if err != nil {
		return schema.Summary{}, err
	}
	return agg.Summarize(selection), nil
}

// GetWeeklyResults computes the per-author weekly series of cfg.Metric.
func GetWeeklyResults(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) ([]schema.WeeklyPoint, error) {
	selection, err := loadSelection(ctx, cfg, client, mgr)
	if err != nil {
		return nil, err
	}
	return agg.WeeklySeries(selection, cfg.Metric), nil
}

// GetHeatmapResults computes the calendar heatmap of cfg.Author.
// Without an author the top-ranked one is used.
func GetHeatmapResults(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (schema.HeatmapResult, error) {
	selection, err := loadSelection(ctx, cfg, client, mgr)
	if err != nil {
		return schema.HeatmapResult{}, err
	}

	key, err := heatmapAuthor(selection, cfg)
	if err != nil {
		return schema.HeatmapResult{}, err
	}
	cells := agg.CalendarHeatmap(selection, key, cfg.Metric)
	return schema.HeatmapResult{
		AuthorKey:   key,
		AuthorLabel: labelOf(selection, key),
		Metric:      cfg.Metric,
		Cells:       cells,
		Grid:        agg.HeatmapGrid(cells),
	}, nil
}

func heatmapAuthor(selection []schema.DerivedCommit, cfg *contract.Config) (string, error) {
	if cfg.Author == "" {
		rows := agg.Leaderboard(selection, cfg.Metrics)
		if len(rows) == 0 {
			return "", fmt.Errorf("no commits to build a heatmap from")
		}
		return rows[0].AuthorKey, nil
	}
	key, ok := agg.ResolveAuthor(selection, cfg.Author)
	if !ok {
		return "", fmt.Errorf("author %q not found in the selected history", cfg.Author)
	}
	return key, nil
}

// labelOf returns the modal display label of an author.
func labelOf(commits []schema.DerivedCommit, key string) string {
	var labels []string
	for _, c := range commits {
		if c.AuthorKey == key {
			labels = append(labels, c.AuthorLabel)
		}
	}
	return agg.ModalLabel(labels)
}

// GetCommitsResults lists the filtered commits, newest first.
func GetCommitsResults(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) ([]schema.CommitRow, error) {
	selection, err := loadSelection(ctx, cfg, client, mgr)
	if err != nil {
		return nil, err
	}
	return schema.ToCommitRows(agg.NewestFirst(selection)), nil
}

// GetBranchesResults lists local branches with the current one first.
func GetBranchesResults(ctx context.Context, cfg *contract.Config, client contract.GitClient) ([]schema.BranchInfo, error) {
	if !extract.IsRepository(ctx, client, cfg.RepoPath) {
		return nil, &contract.RepositoryError{Path: cfg.RepoPath, Op: "branches", Detail: "not a git repository"}
	}
	return extract.Branches(ctx, client, cfg.RepoPath), nil
}

// ExecuteScan rescans the repository, refreshes the cache and prints the KPIs.
func ExecuteScan(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		contract.LogScanHeader(os.Stderr, cfg)
	}
	derived, err := ScanAndCache(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	contract.LogInfo("Scanned %d commits in %v (cache key %s)", len(derived), time.Since(start).Round(time.Millisecond), CacheKey(cfg.RepoPath, cfg.Scan))
	return outwriter.PrintSummary(agg.Summarize(agg.FilterRecords(derived, cfg.Filter)), cfg)
}

// ExecuteLeaderboard prints the ranked authors and the KPI line.
func ExecuteLeaderboard(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error {
	result, duration, err := GetLeaderboardResults(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintLeaderboard(result, cfg, duration)
}

// ExecuteWeekly prints the weekly series.
func ExecuteWeekly(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error {
	points, err := GetWeeklyResults(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintWeeklySeries(points, cfg)
}

// ExecuteHeatmap prints the calendar heatmap of one author.
func ExecuteHeatmap(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error {
	result, err := GetHeatmapResults(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintHeatmap(result, cfg)
}

// ExecuteCommits prints the filtered commits.
func ExecuteCommits(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error {
	rows, err := GetCommitsResults(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintCommits(rows, cfg)
}

// ExecuteBranches prints the local branches.
func ExecuteBranches(ctx context.Context, cfg *contract.Config, client contract.GitClient, _ contract.CacheManager) error {
	branches, err := GetBranchesResults(ctx, cfg, client)
	if err != nil {
		return err
	}
	return outwriter.PrintBranches(branches, cfg)
}
