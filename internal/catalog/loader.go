package catalog

import (
	"sync"

	"go.uber.org/zap"
)

// Loader caches the parsed catalog together with its tier index. The first
// Get loads from disk; later calls share the cached result until Reload.
// Safe for concurrent use.
type Loader struct {
	path string
	log  *zap.Logger

	mu     sync.Mutex
	loaded bool
	cat    Catalog
	index  TierIndex
}

// NewLoader returns a loader for the catalog file at path.
func NewLoader(path string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{path: path, log: log}
}

// Path returns the catalog file location the loader reads from.
func (l *Loader) Path() string {
	return l.path
}

// Get returns the cached catalog and tier index, loading them on first use.
func (l *Loader) Get() (Catalog, TierIndex) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.loaded {
		l.reloadLocked()
	}
	return l.cat, l.index
}

// Reload rereads the catalog from disk and rebuilds the tier index.
func (l *Loader) Reload() (Catalog, TierIndex) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reloadLocked()
	return l.cat, l.index
}

func (l *Loader) reloadLocked() {
	cat, err := Load(l.path)
	if err != nil {
		l.log.Warn("preset catalog unavailable, continuing with empty catalog",
			zap.String("path", l.path), zap.Error(err))
	}
	l.cat = cat
	l.index = BuildIndex(cat)
	l.loaded = true
}
