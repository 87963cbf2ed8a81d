package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"soundgrip/internal/eventbus"
	"soundgrip/internal/log"
)

// ErrAlreadyWatching is returned by Start on a running watcher.
var ErrAlreadyWatching = errors.New("watcher already running")

// DefaultDebounce groups bursts of file events (a copy of a folder, an
// editor's save dance) into one reload.
const DefaultDebounce = 300 * time.Millisecond

// Watcher publishes a CatalogChangedEvent when sample files under a directory
// are created, removed or renamed.
type Watcher struct {
	root     string
	exts     []string
	bus      eventbus.EventBus
	debounce time.Duration

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewWatcher creates a watcher for root. Only files matching exts (and
// directory changes) trigger a reload.
func NewWatcher(root string, exts []string, bus eventbus.EventBus) *Watcher {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	return &Watcher{
		root:     root,
		exts:     exts,
		bus:      bus,
		debounce: DefaultDebounce,
	}
}

// SetDebounce changes the quiet period before a change is published.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// Start adds root and every non-hidden subdirectory and begins watching.
// The watcher runs until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return ErrAlreadyWatching
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fs watcher: %w", err)
	}
	if err := addTree(fsw, w.root); err != nil {
		_ = fsw.Close()
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.fsw = fsw
	w.cancel = cancel
	w.running = true

	w.wg.Add(1)
	go w.loop(watchCtx, fsw, w.debounce)

	log.Info(log.CatCatalog, "watching sample directory", "root", w.root)
	return nil
}

// Stop ends watching and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.cancel()
	fsw := w.fsw
	w.running = false
	w.mu.Unlock()

	w.wg.Wait()
	return fsw.Close()
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, debounce time.Duration) {
	defer w.wg.Done()

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(fsw, ev) {
				continue
			}
			rel, err := filepath.Rel(w.root, ev.Name)
			if err != nil {
				rel = ev.Name
			}
			pending[filepath.ToSlash(rel)] = struct{}{}
			timer.Reset(debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatCatalog, "fs watcher error", err, "root", w.root)
			w.bus.Publish(eventbus.ErrorEvent{Message: "watching samples failed", Err: err})

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = make(map[string]struct{})

			log.Debug(log.CatCatalog, "sample directory changed", "paths", len(paths))
			w.bus.Publish(eventbus.CatalogChangedEvent{Root: w.root, Paths: paths})
		}
	}
}

// relevant filters events down to sample files and directories. New
// directories are added to the watch list since fsnotify is not recursive.
func (w *Watcher) relevant(fsw *fsnotify.Watcher, ev fsnotify.Event) bool {
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return false
	}
	if ev.Op == fsnotify.Chmod {
		return false
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := addTree(fsw, ev.Name); err != nil {
				log.ErrorErr(log.CatCatalog, "failed to watch new directory", err, "path", ev.Name)
			}
			return true
		}
	}

	if HasExtension(ev.Name, w.exts) {
		return true
	}
	// A removed or renamed directory can no longer be stat'ed; any
	// extensionless path going away may have held samples.
	return (ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)) && filepath.Ext(ev.Name) == ""
}

func addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return fmt.Errorf("watching %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fsw.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}
