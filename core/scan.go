package core

import (
	"context"
	"os"
	"time"

	"github.com/huangsam/gitpulse/core/agg"
	"github.com/huangsam/gitpulse/core/derive"
	"github.com/huangsam/gitpulse/core/extract"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// LoadOrScan returns the derived history of cfg.RepoPath for cfg.Scan.
// A usable cache entry is re-derived with cfg.Metrics; otherwise the
// repository is scanned and the cache refreshed. The second value
// reports whether the cache served the request.
func LoadOrScan(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) ([]schema.DerivedCommit, bool, error) {
	if !shouldSuppressHeader(ctx) {
		contract.LogScanHeader(os.Stderr, cfg)
	}

	if store := activityStore(mgr); store != nil && !cfg.Refresh {
		key := CacheKey(cfg.RepoPath, cfg.Scan)
		if records, ok := loadCached(store, key, cfg.Scan); ok {
			return derive.DeriveFields(records, cfg.Metrics), true, nil
		}
	}

	derived, err := ScanAndCache(ctx, cfg, client, mgr)
	if err != nil {
		return nil, false, err
	}
	return derived, false, nil
}

// ScanAndCache always reads the repository, derives the commits, replaces
// the cache entry and records the run in the history store.
func ScanAndCache(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) ([]schema.DerivedCommit, error) {
	start := time.Now()
	history := historyStore(mgr)

	var runID string
	if history != nil {
		var err error
		runID, err = history.BeginScan(cfg.RepoPath, cfg.Scan.BranchLabel(), start, scanParams(cfg))
		if err != nil {
			contract.LogWarn("Scan history initialization failed", err)
		}
	}

	records, err := extract.ScanCommits(ctx, client, cfg.RepoPath, cfg.Scan)
	if err != nil {
		return nil, err
	}
	derived := derive.DeriveFields(records, cfg.Metrics)

	if store := activityStore(mgr); store != nil {
		if err := storeCached(store, CacheKey(cfg.RepoPath, cfg.Scan), cfg.Scan, derived); err != nil {
			contract.LogWarn("Failed to write scan cache", err)
		}
	}

	if history != nil && runID != "" {
		recordScan(history, runID, cfg, derived)
	}
	return derived, nil
}

// recordScan stores the leaderboard snapshot and closes the run.
func recordScan(history contract.HistoryStore, runID string, cfg *contract.Config, derived []schema.DerivedCommit) {
	now := time.Now()
	rows := agg.Leaderboard(derived, cfg.Metrics)
	if err := history.RecordAuthorScores(runID, now, rows); err != nil {
		contract.LogWarn("Failed to record author scores", err)
	}
	if err := history.EndScan(runID, now, len(derived)); err != nil {
		contract.LogWarn("Failed to finalize scan history", err)
	}
}

// scanParams is the configuration snapshot stored with each run.
func scanParams(cfg *contract.Config) map[string]any {
	th := cfg.Metrics.Thresholds
	return map[string]any{
		"branch":          cfg.Scan.BranchLabel(),
		"include_merges":  cfg.Scan.IncludeMerges,
		"small_threshold": th.Small,
		"tiny_threshold":  th.Tiny,
		"big_threshold":   th.Big,
		"weights":         cfg.Metrics.Weights,
		"git_backend":     string(cfg.GitBackend),
	}
}

// loadSelection loads the history and applies cfg.Filter.
func loadSelection(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) ([]schema.DerivedCommit, error) {
	derived, _, err := LoadOrScan(ctx, cfg, client, mgr)
	if err != nil {
		return nil, err
	}
	return agg.FilterRecords(derived, cfg.Filter), nil
}
