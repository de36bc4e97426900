package datastore

import (
	"sync"

	"github.com/rs/zerolog"
)

// DomainMutexManager hands out per-domain mutexes so that concurrent passes
// (an on-demand trigger overlapping a scheduled one) cannot interleave the
// current-to-latest snapshot promotion for the same domain.
type DomainMutexManager struct {
	mutexes map[string]*sync.Mutex
	mapLock sync.RWMutex
	logger  zerolog.Logger
}

// NewDomainMutexManager creates a new domain mutex manager
func NewDomainMutexManager(logger zerolog.Logger) *DomainMutexManager {
	return &DomainMutexManager{
		mutexes: make(map[string]*sync.Mutex),
		logger:  logger.With().Str("component", "DomainMutexManager").Logger(),
	}
}

// GetMutex returns the mutex for the given domain, creating it on first use.
func (dm *DomainMutexManager) GetMutex(domain string) *sync.Mutex {
	dm.mapLock.RLock()
	mutex, exists := dm.mutexes[domain]
	dm.mapLock.RUnlock()

	if exists {
		return mutex
	}

	dm.mapLock.Lock()
	defer dm.mapLock.Unlock()

	// Double-check after acquiring write lock
	if mutex, exists := dm.mutexes[domain]; exists {
		return mutex
	}

	mutex = &sync.Mutex{}
	dm.mutexes[domain] = mutex
	return mutex
}
