// Package iocache persists feature tables and analysis runs across invocations.
package iocache

import (
	"sync"

	"github.com/episense/episense/internal/contract"
)

// CacheStoreManager manages the feature cache and analysis store instances.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	features     contract.CacheStore
	analysis     contract.AnalysisStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetFeatureStore returns the feature table CacheStore.
func (mgr *CacheStoreManager) GetFeatureStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.features
}

// GetAnalysisStore returns the analysis AnalysisStore.
func (mgr *CacheStoreManager) GetAnalysisStore() contract.AnalysisStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.analysis
}
