package file

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/fiches/internal/logger"
)

// DefaultDebounce groups the burst of events an editor emits on save.
const DefaultDebounce = 200 * time.Millisecond

// MappingWatcher reloads mapping files in a MappingStore when they change.
// Parent directories are watched so files replaced by rename are seen.
type MappingWatcher struct {
	store    *MappingStore
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	files   map[string]bool
	pending map[string]time.Time
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	// onReload is called after every reload attempt, for tests.
	onReload func(path string, err error)
}

// NewMappingWatcher creates a watcher for store.
func NewMappingWatcher(store *MappingStore, debounce time.Duration) (*MappingWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &MappingWatcher{
		store:    store,
		watcher:  w,
		debounce: debounce,
		files:    make(map[string]bool),
		pending:  make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch adds a mapping file. The file is loaded into the store first.
// The built-in mapping has no file and is ignored.
func (mw *MappingWatcher) Watch(location string) error {
	if location == "" || location == BuiltinMappingName {
		return nil
	}
	path, err := filepath.Abs(location)
	if err != nil {
		return err
	}
	if _, err := mw.store.Load(path); err != nil {
		return err
	}
	if err := mw.watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	mw.mu.Lock()
	mw.files[path] = true
	mw.mu.Unlock()
	logger.Debug("Watching mapping %s", path)
	return nil
}

// Start processes events in a goroutine until ctx is done or Stop is called.
func (mw *MappingWatcher) Start(ctx context.Context) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	if mw.running {
		return
	}
	mw.running = true
	go mw.run(ctx)
}

// Stop ends event processing and releases the watcher.
func (mw *MappingWatcher) Stop() error {
	mw.mu.Lock()
	running := mw.running
	mw.running = false
	mw.mu.Unlock()

	if running {
		close(mw.stopCh)
		<-mw.doneCh
	}
	return mw.watcher.Close()
}

func (mw *MappingWatcher) run(ctx context.Context) {
	defer close(mw.doneCh)

	tick := time.NewTicker(mw.debounce / 4)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-mw.stopCh:
			return
		case ev, ok := <-mw.watcher.Events:
			if !ok {
				return
			}
			mw.handle(ev)
		case err, ok := <-mw.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Mapping watcher: %v", err)
		case <-tick.C:
			mw.flush()
		}
	}
}

func (mw *MappingWatcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	path, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}
	mw.mu.Lock()
	defer mw.mu.Unlock()
	if mw.files[path] {
		mw.pending[path] = time.Now()
	}
}

// flush reloads files whose last event is older than the debounce window.
func (mw *MappingWatcher) flush() {
	now := time.Now()
	var due []string
	mw.mu.Lock()
	for path, at := range mw.pending {
		if now.Sub(at) >= mw.debounce {
			due = append(due, path)
			delete(mw.pending, path)
		}
	}
	mw.mu.Unlock()

	for _, path := range due {
		err := mw.store.Reload(path)
		if err != nil {
			logger.Warn("Keeping previous mapping %s: %v", path, err)
		}
		if mw.onReload != nil {
			mw.onReload(path, err)
		}
	}
}
