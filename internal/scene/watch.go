package scene

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned when using a closed Watcher.
var ErrWatcherClosed = errors.New("selection watcher already closed")

// SelectionChanged is emitted whenever the selection file changes. Names is
// the new selection; Err is set when the file could not be read.
type SelectionChanged struct {
	Names []string
	Err   error
}

// Watcher fires a SelectionChanged for every change to a selection file.
//
// The parent directory is watched rather than the file itself so that
// editors that save by rename, and files created after the watch starts, are
// still observed.
type Watcher struct {
	path    string
	fs      *fsnotify.Watcher
	changes chan SelectionChanged

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewWatcher starts watching the selection file at path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving selection path %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating selection watcher: %w", err)
	}
	if err = fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:    abs,
		fs:      fsw,
		changes: make(chan SelectionChanged, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Changes returns the channel of selection changes. It is closed by Close.
func (w *Watcher) Changes() <-chan SelectionChanged {
	return w.changes
}

// Path is the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run forwards changes to fn until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, fn func(SelectionChanged)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c, ok := <-w.changes:
			if !ok {
				return nil
			}
			fn(c)
		}
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
		close(w.changes)
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case e, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			if !e.Has(fsnotify.Create) && !e.Has(fsnotify.Write) &&
				!e.Has(fsnotify.Remove) && !e.Has(fsnotify.Rename) {
				continue
			}
			names, err := ReadSelectionFile(w.path)
			w.emit(SelectionChanged{Names: names, Err: err})
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.emit(SelectionChanged{Err: err})
		}
	}
}

// emit replaces any pending, unconsumed change: only the latest selection
// matters.
func (w *Watcher) emit(c SelectionChanged) {
	for {
		select {
		case <-w.done:
			return
		case w.changes <- c:
			return
		default:
		}
		select {
		case <-w.changes:
		default:
		}
	}
}
