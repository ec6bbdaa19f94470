package core

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/gitpulse/core/derive"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// currentCacheVersion defines the version of the cache payload
const currentCacheVersion = 1

// cacheKeyLength is the number of hex characters kept from the digest.
const cacheKeyLength = 16

// cachePayload is what gets persisted per (repository, branch).
// Derived columns are stored for inspection but always recomputed on load.
type cachePayload struct {
	Options schema.ScanOptions     `json:"options"`
	Commits []schema.DerivedCommit `json:"commits"`
}

// CacheKey identifies the cached history of a repository and branch.
func CacheKey(repoPath string, opts schema.ScanOptions) string {
	sum := sha1.Sum([]byte(repoPath + "|" + opts.BranchLabel()))
	return hex.EncodeToString(sum[:])[:cacheKeyLength]
}

// loadCached returns the cached records for key, or false on any kind of miss.
func loadCached(store contract.CacheStore, key string, opts schema.ScanOptions) ([]schema.CommitRecord, bool) {
	data, version, _, err := store.Get(key)
	if err != nil || version != currentCacheVersion {
		return nil, false
	}
	var payload cachePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, false
	}
	if payload.Options != opts || len(payload.Commits) == 0 {
		return nil, false
	}
	return derive.Records(payload.Commits), true
}

// storeCached replaces the cache entry for key wholesale.
func storeCached(store contract.CacheStore, key string, opts schema.ScanOptions, commits []schema.DerivedCommit) error {
	if commits == nil {
		commits = []schema.DerivedCommit{}
	}
	data, err := json.Marshal(cachePayload{Options: opts, Commits: commits})
	if err != nil {
		return fmt.Errorf("failed to encode cache payload: %w", err)
	}
	return store.Set(key, data, currentCacheVersion, time.Now().Unix())
}

// activityStore returns the cache store of mgr, or nil when caching is off.
func activityStore(mgr contract.CacheManager) contract.CacheStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetActivityStore()
}

// historyStore returns the history store of mgr, or nil when tracking is off.
func historyStore(mgr contract.CacheManager) contract.HistoryStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetHistoryStore()
}
