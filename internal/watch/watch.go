// Package watch re-renders a Markdown file every time its content changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-marky"
)

// Options configures a Watcher.
type Options struct {
	// Debounce collapses events closer than this into one recompile.
	// Zero recompiles on every event.
	Debounce time.Duration

	// Logger receives per-cycle errors. Nil uses slog.Default().
	Logger *slog.Logger
}

// Watcher observes one file. It watches the file's directory so that
// editors saving through a rename keep being followed.
type Watcher struct {
	path     string
	dir      string
	name     string
	options  marky.RenderOptions
	sink     Sink
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a Watcher for path. Every recompile builds a new Document
// from the file content and opts.
func New(path string, opts marky.RenderOptions, sink Sink, o Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", marky.ErrIO, err)
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     abs,
		dir:      filepath.Dir(abs),
		name:     filepath.Base(abs),
		options:  opts,
		sink:     sink,
		debounce: o.Debounce,
		logger:   logger.With("file", abs),
	}, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Recompile reads the file and hands a new Document to the sink.
func (w *Watcher) Recompile(ctx context.Context) error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return fmt.Errorf("%w: %v", marky.ErrIO, err)
	}
	doc := marky.NewDocument(string(data), w.options).WithSourceDir(w.dir)
	return w.sink.Deliver(ctx, doc)
}

// Run recompiles once, then after every content change, until ctx ends.
// Errors of a single cycle are logged and do not stop the loop. Run fails
// only when the directory cannot be watched.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: creating watcher: %v", marky.ErrIO, err)
	}
	defer func() { _ = fsw.Close() }()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("%w: watching %s: %v", marky.ErrIO, w.dir, err)
	}
	w.logger.Debug("watching", "dir", w.dir, "debounce", w.debounce)

	w.cycle(ctx)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("change detected", "op", event.Op.String())
			if w.debounce <= 0 {
				w.cycle(ctx)
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.cycle(ctx)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// relevant keeps content changes of the watched file. Create covers
// editors that write a new file and rename it over the old one.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != w.name {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (w *Watcher) cycle(ctx context.Context) {
	start := time.Now()
	if err := w.Recompile(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		w.logger.Error("recompile failed", "error", err, "kind", marky.KindOf(err).String())
		return
	}
	w.logger.Debug("recompiled", "duration", time.Since(start))
}
