package watch

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
)

// debounceWindow is the quiet period after the last raw notification before
// a logical change fires. Writers flush transcripts line by line; the
// window coalesces a burst into one downstream read.
const debounceWindow = 50 * time.Millisecond

// watcher is the resource the registry holds per entry. The production
// implementation wraps fsnotify; tests substitute a counting double.
type watcher interface {
	Close() error
}

// watcherFactory builds the watch resource for one transcript path.
// onChange fires once per debounced burst of raw notifications.
type watcherFactory func(path string, onChange func()) (watcher, error)

// =============================================================================
// FSNOTIFY-BACKED FILE WATCHER
// =============================================================================

// fileWatcher watches one transcript file through its parent directory, so
// a transcript created after subscribe is still picked up on its first
// write. Events for sibling files are filtered out.
type fileWatcher struct {
	path string
	fsw  *fsnotify.Watcher
	log  *slog.Logger
	done chan struct{}
	once sync.Once
}

// newFSWatcherFactory returns the production watcherFactory.
func newFSWatcherFactory(log *slog.Logger) watcherFactory {
	return func(path string, onChange func()) (watcher, error) {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, err
		}
		if err := fsw.Add(filepath.Dir(path)); err != nil {
			fsw.Close()
			return nil, err
		}

		w := &fileWatcher{
			path: filepath.Clean(path),
			fsw:  fsw,
			log:  log,
			done: make(chan struct{}),
		}
		go w.run(onChange)
		return w, nil
	}
}

// run processes raw notifications until the watcher closes. Watcher-level
// errors are logged per file and never tear the watch down; the session
// simply stops receiving live updates until the condition clears.
func (w *fileWatcher) run(onChange func()) {
	fire := debounce.New(debounceWindow)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fire(onChange)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watch error", "path", w.path, "error", err)
		}
	}
}

// Close releases the OS watch. Safe to call more than once.
func (w *fileWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}
