package input

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDebounce coalesces editor save bursts into one reload
const DefaultReloadDebounce = 100 * time.Millisecond

// Watcher re-parses the binding file when it changes on disk
// The directory is watched so atomic rename saves are seen
type Watcher struct {
	config   *ConfigManager
	watcher  *fsnotify.Watcher
	onReload func(*Bindings)
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher starts watching the binding file of cfg
// onReload runs on the watcher goroutine with each successfully parsed table set
func NewWatcher(cfg *ConfigManager, onReload func(*Bindings), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(cfg.Path())); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		config:   cfg,
		watcher:  fsw,
		onReload: onReload,
		debounce: DefaultReloadDebounce,
		logger:   logger,
		closeCh:  make(chan struct{}),
	}

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Close stops the watcher and waits for its goroutine
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()
	return w.watcher.Close()
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	target := filepath.Clean(w.config.Path())
	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("binding watcher error", "error", err)
		}
	}
}

// schedule restarts the debounce timer
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	b, err := w.config.ParseConfig()
	if err != nil {
		// Keep the current tables
		return
	}
	w.logger.Info("bindings reloaded", "path", w.config.Path(), "bindings", b.Len())
	w.onReload(b)
}
