package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/episense/episense/core/prep"
	"github.com/episense/episense/internal/contract"
	"github.com/episense/episense/schema"
)

// currentCacheVersion defines the version of the cached feature-table payload
const currentCacheVersion = 1

// cachedFeatureTable returns the aligned feature table for the input,
// consulting the feature store first unless caching is disabled.
func cachedFeatureTable(cfg *contract.Config, mgr contract.CacheManager) ([]schema.FeatureRow, error) {
	store := mgr.GetFeatureStore()
	if cfg.NoCache || store == nil {
		// Fallback to direct computation
		return buildFeatureTable(cfg.InputPath)
	}

	key, err := generateCacheKey(cfg.InputPath)
	if err != nil {
		// Unreadable input; let the loader surface the real problem
		return buildFeatureTable(cfg.InputPath)
	}

	// Check for cache hit
	if rows := checkCacheHit(store, key); rows != nil {
		return rows, nil
	}

	// Cache miss: compute and store
	return computeAndStore(cfg.InputPath, store, key)
}

// buildFeatureTable runs the normalizer and aligner over the raw input.
func buildFeatureTable(path string) ([]schema.FeatureRow, error) {
	records, err := prep.LoadIndicatorRecords(path)
	if err != nil {
		return nil, err
	}
	return prep.BuildFeatureTable(records), nil
}

// checkCacheHit attempts to retrieve and validate a cached feature table
func checkCacheHit(store contract.CacheStore, key string) []schema.FeatureRow {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= contract.CacheStaleAfter {
			var rows []schema.FeatureRow
			if err := json.Unmarshal(data, &rows); err == nil {
				return rows // Cache hit
			}
		}
	}

	return nil // Cache miss (stale or version mismatch)
}

// computeAndStore computes the feature table and stores it in cache
func computeAndStore(path string, store contract.CacheStore, key string) ([]schema.FeatureRow, error) {
	rows, err := buildFeatureTable(path)
	if err != nil {
		return nil, err
	}

	// Store in cache
	if data, err := json.Marshal(rows); err == nil {
		_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}

	return rows, nil
}

// generateCacheKey creates a unique key from the input path and its
// fingerprint so edits to the file invalidate earlier entries. The
// feature table depends only on the raw input, never on scorer knobs,
// so none of those participate in the key.
func generateCacheKey(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s:%d:%d", path, info.Size(), info.ModTime().Unix())
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key))), nil
}
