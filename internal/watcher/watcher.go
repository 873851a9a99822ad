// Package watcher delivers debounced change notifications for a single
// file. It watches the file's directory rather than the file itself so
// that editors and tools that replace the file by rename are still
// observed.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned by operations on a closed watcher.
var ErrWatcherClosed = errors.New("watcher is closed")

// Watcher watches one file and coalesces bursts of filesystem events
// into single notifications.
type Watcher struct {
	mu sync.Mutex

	fsw      *fsnotify.Watcher
	name     string // base name of the watched file
	debounce time.Duration

	changes chan struct{}
	errs    chan error

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// New starts watching path. Notifications arriving within the debounce
// window are coalesced into one.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		name:     filepath.Base(abs),
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		errs:     make(chan error, 1),
		closeCh:  make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Changes returns the notification channel. It carries at most one
// pending notification; slow consumers never block the watcher.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Errors returns the error channel.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Close stops the watcher and releases its resources. It is idempotent.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// loop filters events for the watched name and debounces them.
func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != w.name {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-fire:
			timer = nil
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default: // a notification is already pending
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}
