// Package bridge dispatches named control-channel commands to the
// configuration store, the process-wide settings and the scanning engine,
// and forwards scan results to the event stream.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/MeKo-Tech/scanbridge/internal/engine"
	"github.com/MeKo-Tech/scanbridge/internal/events"
	"github.com/MeKo-Tech/scanbridge/internal/global"
	"github.com/MeKo-Tech/scanbridge/internal/scanconfig"
	"github.com/MeKo-Tech/scanbridge/internal/utils"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

var (
	ErrNoEngine           = errors.New("engine is required")
	ErrLicenseKeyRequired = errors.New("license key is required")
)

// CreationParams are the values a bridge is created with.
type CreationParams struct {
	LicenseKey string
	// Document is an optional bulk configuration applied once at creation.
	Document string
}

// Options wires a bridge to shared collaborators. Nil fields get a private
// instance owned by the bridge.
type Options struct {
	Globals *global.Settings
	Stream  *events.Stream
	// OnDispose runs after the event stream is released and before the
	// engine is torn down.
	OnDispose func()
}

// Bridge is one configured pairing of a command channel, an event stream
// and an engine.
type Bridge struct {
	id         string
	licenseKey string
	engine     engine.Engine
	store      *scanconfig.Store
	globals    *global.Settings
	ownGlobals bool
	stream     *events.Stream
	onDispose  func()

	// ctx scopes asynchronous engine work to the bridge lifetime.
	ctx    context.Context
	cancel context.CancelFunc

	disposed    atomic.Bool
	disposeOnce sync.Once
}

// New creates a bridge around eng.
func New(eng engine.Engine, params CreationParams, opts Options) (*Bridge, error) {
	if eng == nil {
		return nil, ErrNoEngine
	}
	if params.LicenseKey == "" {
		return nil, ErrLicenseKeyRequired
	}

	b := &Bridge{
		id:         uuid.NewString(),
		licenseKey: params.LicenseKey,
		engine:     eng,
		store:      scanconfig.NewStore(nil),
		globals:    opts.Globals,
		stream:     opts.Stream,
		onDispose:  opts.OnDispose,
	}
	if b.globals == nil {
		g, err := global.Init(global.Defaults())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize global settings: %w", err)
		}
		b.globals, b.ownGlobals = g, true
	}
	if b.stream == nil {
		b.stream = events.NewStream()
	}

	if params.Document != "" {
		rep, err := b.store.ApplyDocument(params.Document)
		if err != nil {
			return nil, fmt.Errorf("failed to apply initial configuration: %w", err)
		}
		slog.Info("Applied initial configuration", "applied", len(rep.Applied), "skipped", len(rep.Skipped))
	}

	b.ctx, b.cancel = context.WithCancel(context.Background())
	slog.Debug("Bridge created", "bridge", b.id)
	return b, nil
}

// ID returns the instance identifier.
func (b *Bridge) ID() string { return b.id }

// Store returns the configuration store.
func (b *Bridge) Store() *scanconfig.Store { return b.store }

// Stream returns the result event stream.
func (b *Bridge) Stream() *events.Stream { return b.stream }

// Globals returns the process-wide settings the bridge uses.
func (b *Bridge) Globals() *global.Settings { return b.globals }

// Disposed reports whether Dispose has been called.
func (b *Bridge) Disposed() bool { return b.disposed.Load() }

// Dispatch decodes a JSON argument and runs method. reply is invoked exactly
// once, possibly later and from another goroutine.
func (b *Bridge) Dispatch(ctx context.Context, method string, args []byte, reply func(Response)) {
	m := Method(method)
	r := newResponder(m, reply)
	h, ok := b.lookup(m, r)
	if !ok {
		return
	}
	var v gjson.Result
	if len(args) > 0 {
		v = gjson.ParseBytes(args)
	}
	a, err := h.decode(v)
	if err != nil {
		r.Fail(classify(err, InvalidArguments))
		return
	}
	b.run(ctx, m, h, a, r)
}

// Submit runs method with typed arguments and returns its pending answer.
// A nil args is treated as NoArgs.
func (b *Bridge) Submit(ctx context.Context, method Method, args Args) *Pending {
	p := newPending()
	r := newResponder(method, p.complete)
	if h, ok := b.lookup(method, r); ok {
		if args == nil {
			args = NoArgs{}
		}
		b.run(ctx, method, h, args, r)
	}
	return p
}

// Call runs method and waits for its answer. Failures are returned as
// *Failure; unknown methods as ErrNotImplemented.
func (b *Bridge) Call(ctx context.Context, method Method, args Args) (any, error) {
	resp, err := b.Submit(ctx, method, args).Wait(ctx)
	if err != nil {
		return nil, err
	}
	switch resp.Status {
	case StatusError:
		return nil, resp.Err
	case StatusNotImplemented:
		return nil, fmt.Errorf("%w: %s", ErrNotImplemented, method)
	}
	return resp.Value, nil
}

func (b *Bridge) lookup(m Method, r *Responder) (handler, bool) {
	if b.disposed.Load() {
		r.Fail(ErrDisposed)
		return handler{}, false
	}
	h, ok := commands[m]
	if !ok {
		r.NotImplemented()
		return handler{}, false
	}
	return h, true
}

func (b *Bridge) run(ctx context.Context, m Method, h handler, a Args, r *Responder) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Command panicked", "method", string(m), "bridge", b.id, "panic", rec)
			r.Fail(NewFailure(EngineFailure, fmt.Sprint(rec)))
		}
	}()
	if b.logsEnabled() {
		slog.Debug("Dispatching command", "method", string(m), "bridge", b.id)
	}
	h.run(ctx, b, a, r)
}

func (b *Bridge) logsEnabled() bool { return b.globals.Load().LogsEnabled }

// Dispose releases the event stream and the dispatch registration, then
// stops and closes the engine. Safe to call more than once.
func (b *Bridge) Dispose() {
	b.disposeOnce.Do(func() {
		b.stream.Close()
		b.disposed.Store(true)
		if b.onDispose != nil {
			b.onDispose()
		}
		b.cancel()
		if err := b.engine.StopScanning(); err != nil && !errors.Is(err, engine.ErrClosed) {
			slog.Warn("Failed to stop scanning", "bridge", b.id, "error", err)
		}
		if err := b.engine.Close(); err != nil {
			slog.Warn("Failed to close engine", "bridge", b.id, "error", err)
		}
		if b.ownGlobals {
			b.globals.Teardown()
		}
		slog.Debug("Bridge disposed", "bridge", b.id)
	})
}

// onBatch runs on the engine goroutine and must not block.
func (b *Bridge) onBatch(batch engine.Batch) {
	if b.disposed.Load() {
		return
	}
	ev := b.toEvent(batch)
	if !b.stream.Publish(ev) && b.logsEnabled() {
		slog.Debug("Dropped scan result", "bridge", b.id, "results", len(ev.Results))
	}
}

func (b *Bridge) toEvent(batch engine.Batch) events.Event {
	charset := b.store.Snapshot().Decoder.EncodingCharacterSet
	ev := events.Event{
		Results:      make([]events.Result, 0, len(batch.Results)),
		SessionEnded: batch.SessionEnded,
	}
	for _, r := range batch.Results {
		ev.Results = append(ev.Results, events.NewResult(int(r.Type), r.Type.String(), r.Text, nil, charset, r.Extra))
	}
	for _, img := range batch.Thumbnails {
		s, err := utils.EncodePNGBase64(img)
		if err != nil {
			slog.Warn("Failed to encode thumbnail", "error", err)
		}
		ev.Thumbnails = append(ev.Thumbnails, s)
	}
	if batch.Image != nil {
		s, err := utils.EncodePNGBase64(batch.Image)
		if err != nil {
			slog.Warn("Failed to encode result image", "error", err)
		}
		ev.ResultImage = s
	}
	return ev
}
