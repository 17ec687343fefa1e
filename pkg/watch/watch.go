// Package watch reports changes to a legend file.
//
// The directory of the file is watched, so editors that replace the file
// on save are handled. Bursts of events are coalesced: an [Event] is sent
// once no further change was seen for the configured delay.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/macropower/pagelegend/pkg/log"
)

// DefaultDelay is the default quiet period before a change is reported.
const DefaultDelay = 200 * time.Millisecond

// Event reports a change to the watched file, or a watcher error.
type Event struct {
	Err  error
	Path string
	Op   fsnotify.Op
}

// Watcher watches a single file.
type Watcher struct {
	watcher   *fsnotify.Watcher
	path      string
	listeners []chan<- Event
	delay     time.Duration
}

// Opt configures a [Watcher].
type Opt func(*Watcher)

// WithDelay sets the quiet period before a change is reported.
func WithDelay(d time.Duration) Opt {
	return func(w *Watcher) {
		w.delay = d
	}
}

// New creates a [Watcher] for the file at path.
func New(path string, opts ...Opt) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watcher: fw,
		path:    absPath,
		delay:   DefaultDelay,
	}
	for _, opt := range opts {
		opt(w)
	}

	err = fw.Add(filepath.Dir(absPath))
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("add path to watcher: %w", err),
			fw.Close(),
		)
	}

	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Subscribe registers a channel to receive events. It must be called before
// [Watcher.Run].
func (w *Watcher) Subscribe(ch chan<- Event) {
	w.listeners = append(w.listeners, ch)
}

// Run forwards events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	logger := log.WithContext(ctx)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending Event
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != w.path {
				continue
			}

			// Ignore events that are not related to file content changes.
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
				continue
			}

			logger.DebugContext(ctx, "file event",
				slog.String("path", evt.Name),
				slog.String("op", evt.Op.String()),
			)

			pending = Event{Path: w.path, Op: evt.Op}

			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}

			timerC = timer.C

		case <-timerC:
			timerC = nil
			w.broadcast(ctx, pending)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			w.broadcast(ctx, Event{Path: w.path, Err: err})
		}
	}
}

func (w *Watcher) broadcast(ctx context.Context, evt Event) {
	for _, ch := range w.listeners {
		select {
		case ch <- evt:
		case <-ctx.Done():
			return
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}
