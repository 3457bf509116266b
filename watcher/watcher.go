// Package watcher reports changed TypeScript sources under a directory,
// debouncing bursts of filesystem events into one callback.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/ts2swift/errors"
	"github.com/teranos/ts2swift/logger"
)

// DefaultDebounce is the quiet period after the last event before the
// callback runs
const DefaultDebounce = 500 * time.Millisecond

// Options configure a Watcher
type Options struct {
	// Extensions select watched sources, e.g. [".ts"]
	Extensions []string

	// Exclude lists directory basename patterns that are not watched
	Exclude []string

	// Files are extra paths watched exactly, such as config files
	Files []string

	Debounce time.Duration
}

// ChangeFunc receives the sorted, de-duplicated paths changed during one
// debounce window
type ChangeFunc func(paths []string)

// Watcher watches a source tree with fsnotify
type Watcher struct {
	root     string
	opts     Options
	onChange ChangeFunc
	fs       *fsnotify.Watcher
	files    map[string]bool
	logger   *zap.SugaredLogger

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
}

// New watches root and every directory below it that is not excluded.
// A file root watches the tree of its directory, where its relative
// imports usually live.
func New(root string, opts Options, onChange ChangeFunc) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to watch %s", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	root = filepath.Clean(root)
	if !info.IsDir() {
		root = filepath.Dir(root)
	}

	w := &Watcher{
		root:     root,
		opts:     opts,
		onChange: onChange,
		fs:       fsw,
		files:    map[string]bool{},
		logger:   logger.ComponentLogger("watcher"),
		pending:  map[string]bool{},
	}

	if err := w.addTree(w.root); err != nil {
		fsw.Close()
		return nil, err
	}

	for _, f := range opts.Files {
		f = filepath.Clean(f)
		w.files[f] = true
		if err := fsw.Add(filepath.Dir(f)); err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", f)
		}
	}
	return w, nil
}

// addTree watches dir and its non-excluded subdirectories. Sources that
// already exist below a newly created directory are reported, since they
// may have been written before the watch was in place.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.excluded(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return errors.Wrapf(err, "failed to watch %s", path)
		}
		return nil
	})
}

// Run processes events until ctx is done. Pending changes are dropped on
// return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stopTimer()

	w.logger.Infow("Watching for changes", logger.FieldFile, w.root)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

// Close releases the fsnotify watcher
func (w *Watcher) Close() error {
	w.stopTimer()
	return w.fs.Close()
}

func (w *Watcher) handle(event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	if event.Has(fsnotify.Create) && w.underRoot(path) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if w.excluded(filepath.Base(path)) {
				return
			}
			if err := w.addTree(path); err != nil {
				w.logger.Warnw("Failed to watch new directory", logger.FieldFile, path, logger.FieldError, err)
			}
			w.scheduleExisting(path)
			return
		}
	}

	if event.Op == fsnotify.Chmod || !w.relevant(path) {
		return
	}
	w.logger.Debugw("Change detected", logger.FieldFile, path, "op", event.Op.String())
	w.schedule(path)
}

func (w *Watcher) scheduleExisting(dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && w.excluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if w.relevant(path) {
			w.schedule(path)
		}
		return nil
	})
}

// schedule adds path to the pending set and restarts the debounce timer
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = map[string]bool{}
	w.timer = nil
	w.mu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)
	w.onChange(paths)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// relevant reports whether a change to path should be reported: an exactly
// watched file, or a source below root outside excluded directories
func (w *Watcher) relevant(path string) bool {
	if w.files[path] {
		return true
	}
	if !w.underRoot(path) || !w.hasExtension(path) {
		return false
	}
	rel, err := filepath.Rel(w.root, filepath.Dir(path))
	if err != nil {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part != "." && w.excluded(part) {
			return false
		}
	}
	return true
}

func (w *Watcher) underRoot(path string) bool {
	return path == w.root || strings.HasPrefix(path, w.root+string(filepath.Separator))
}

func (w *Watcher) hasExtension(path string) bool {
	if len(w.opts.Extensions) == 0 {
		return true
	}
	for _, ext := range w.opts.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func (w *Watcher) excluded(name string) bool {
	for _, pattern := range w.opts.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
