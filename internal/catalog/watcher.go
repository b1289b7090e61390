package catalog

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 300 * time.Millisecond

// Watcher reloads the catalog whenever its file changes on disk and hands
// the rebuilt catalog to subscribers. Editors that replace the file on save
// emit bursts of events, hence the debounce.
type Watcher struct {
	loader  *Loader
	watcher *fsnotify.Watcher
	log     *zap.Logger

	mu      sync.Mutex
	running bool

	stopCh  chan struct{}
	doneCh  chan struct{}
	updates chan Catalog
}

// NewWatcher returns a watcher bound to the loader's catalog file.
func NewWatcher(loader *Loader, log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		loader:  loader,
		watcher: fsw,
		log:     log,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		updates: make(chan Catalog, 1),
	}, nil
}

// Updates delivers each freshly reloaded catalog. The channel holds one
// pending update; stale ones are dropped in favor of the newest.
func (w *Watcher) Updates() <-chan Catalog {
	return w.updates
}

// Start begins watching the catalog file's directory. Watching the directory
// rather than the file survives rename-and-replace saves.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.loader.Path())
	if err := w.watcher.Add(dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		w.watcher.Close()
		return err
	}
	w.log.Info("watching preset catalog", zap.String("dir", dir))
	go w.run()
	return nil
}

// Stop halts the watcher, waits for its goroutine to exit, and releases the
// underlying fsnotify handle. Safe to call whether or not Start succeeded.
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	w.watcher.Close()
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	target := filepath.Base(w.loader.Path())

	// Trailing debounce: each event resets the timer, and the reload fires
	// only once the file has been quiet for the whole window. Reloading on
	// the first event of a burst would read a half-written file and drop
	// the writes that follow.
	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := false

	for {
		select {
		case <-w.stopCh:
			debounce.Stop()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if pending && !debounce.Stop() {
				<-debounce.C
			}
			debounce.Reset(watchDebounce)
			pending = true
		case <-debounce.C:
			pending = false
			cat, _ := w.loader.Reload()
			w.log.Info("preset catalog reloaded",
				zap.String("file", target), zap.Int("presets", cat.PresetCount()))
			select {
			case w.updates <- cat:
			default:
				// drop the stale pending update
				select {
				case <-w.updates:
				default:
				}
				w.updates <- cat
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("catalog watcher error", zap.Error(err))
		}
	}
}
