package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses editor save bursts into one reload.
const DefaultDebounce = 300 * time.Millisecond

// ReloadFunc receives a freshly loaded config.
type ReloadFunc func(*Config)

// Watcher reloads the config file when it changes on disk. The parent directory is
// watched so editors that save via rename are seen too.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onReload ReloadFunc
	debounce time.Duration
	log      *zap.SugaredLogger

	mu       sync.Mutex
	timer    *time.Timer
	ownWrite bool
	done     chan struct{}
}

// Watch starts watching path. Call Stop to release the watcher.
func Watch(path string, debounce time.Duration, log *zap.SugaredLogger, fn ReloadFunc) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "watch %s", filepath.Dir(path))
	}

	w := &Watcher{
		path:     filepath.Clean(path),
		watcher:  fw,
		onReload: fn,
		debounce: debounce,
		log:      log,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// MarkOwnWrite skips the next change event, used around our own Save.
func (w *Watcher) MarkOwnWrite() {
	w.mu.Lock()
	w.ownWrite = true
	w.mu.Unlock()
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warnw("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ownWrite {
		w.ownWrite = false
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	if _, err := os.Stat(w.path); err != nil {
		// mid-rename; the create event follows
		return
	}
	cfg, err := LoadFile(w.path)
	if err != nil {
		w.log.Warnw("config reload failed", "path", w.path, "error", err)
		return
	}
	w.log.Infow("config reloaded", "path", w.path)
	if w.onReload != nil {
		w.onReload(cfg)
	}
}

// Stop ends watching and cancels a pending reload.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	err := w.watcher.Close()
	<-w.done
	return err
}
