// Package docwatch re-applies a configuration document whenever the file
// holding it changes on disk.
package docwatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/MeKo-Tech/scanbridge/internal/bridge"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the bursts of events editors produce on save.
const DefaultDebounce = 200 * time.Millisecond

// ErrClosed is returned by Run on a watcher that was already run.
var ErrClosed = errors.New("docwatch: watcher closed")

// Caller is the part of a bridge the watcher needs.
type Caller interface {
	Call(ctx context.Context, method bridge.Method, args bridge.Args) (any, error)
}

// Watcher applies the document at path through configureBarkoder.
type Watcher struct {
	path     string
	target   Caller
	debounce time.Duration
	fs       *fsnotify.Watcher

	applied atomic.Uint64
	failed  atomic.Uint64
	onApply func(error)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period after the last change before applying.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithApplyHook registers fn to run after every apply attempt.
func WithApplyHook(fn func(error)) Option {
	return func(w *Watcher) { w.onApply = fn }
}

// New creates a watcher for path. The parent directory is watched so that
// editors that save by renaming a temporary file over path are seen.
func New(path string, target Caller, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve document path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("document %s: %w", abs, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{path: abs, target: target, debounce: DefaultDebounce, fs: fsw}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute document path.
func (w *Watcher) Path() string { return w.path }

// Stats returns the number of successful and failed applies.
func (w *Watcher) Stats() (applied, failed uint64) {
	return w.applied.Load(), w.failed.Load()
}

// Apply reads the document and sends it to the bridge once.
func (w *Watcher) Apply(ctx context.Context) error {
	data, err := os.ReadFile(w.path)
	if err == nil {
		_, err = w.target.Call(ctx, bridge.ConfigureBarkoder, bridge.String(data))
	}
	if err != nil {
		w.failed.Add(1)
		err = fmt.Errorf("apply %s: %w", w.path, err)
	} else {
		w.applied.Add(1)
	}
	if w.onApply != nil {
		w.onApply(err)
	}
	return err
}

// Run watches until ctx ends or the bridge is disposed. Apply failures are
// logged and do not stop the watcher. Run closes the watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fs.Close() }()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return ErrClosed
			}
			if !w.relevant(ev) {
				continue
			}
			slog.Debug("Document changed", "path", w.path, "op", ev.Op.String())
			timer.Reset(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return ErrClosed
			}
			slog.Warn("File watcher error", "path", w.path, "error", err)
		case <-timer.C:
			err := w.Apply(ctx)
			switch {
			case err == nil:
				slog.Info("Configuration document applied", "path", w.path)
			case errors.Is(err, bridge.ErrDisposed):
				slog.Info("Bridge disposed, stopping document watcher", "path", w.path)
				return nil
			default:
				slog.Warn("Configuration document rejected", "path", w.path, "error", err)
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}
