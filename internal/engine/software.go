package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/MeKo-Tech/scanbridge/internal/barcode"
	"github.com/MeKo-Tech/scanbridge/internal/global"
	"github.com/MeKo-Tech/scanbridge/internal/scanconfig"
	"github.com/MeKo-Tech/scanbridge/internal/version"
)

const (
	DefaultFrameInterval = 100 * time.Millisecond
	DefaultMaxZoom       = 5.0
	DefaultThumbnailSize = 128
)

// Options configures a Software engine.
type Options struct {
	Source         FrameSource
	Backend        barcode.Backend
	Globals        *global.Settings
	FrameInterval  time.Duration
	MaxZoom        float64
	FlashAvailable bool
	ThumbnailSize  int
	Now            func() time.Time
}

// Status is a point-in-time view of the engine state.
type Status struct {
	CameraStarted           bool
	Scanning                bool
	Paused                  bool
	Frozen                  bool
	Zoom                    float64
	FlashEnabled            bool
	Camera                  scanconfig.CameraPosition
	DynamicExposure         int
	CentricFocusAndExposure bool
	VideoStabilization      bool
}

type session struct {
	cfg      ConfigSource
	onResult ResultFunc
	cancel   context.CancelFunc
	done     chan struct{}
	capture  chan struct{}
	window   dedupWindow // owned by the session goroutine
}

// Software is an Engine that pulls frames from a FrameSource and decodes
// them with a barcode.Backend. It stands in for a device camera engine.
type Software struct {
	opts    Options
	proc    processor
	limiter *limiter

	mu        sync.Mutex
	closed    bool
	session   *session
	status    Status
	lastFrame image.Image
}

var _ Engine = (*Software)(nil)

// NewSoftware creates a software engine. Source may be nil when only
// ScanImage is used.
func NewSoftware(opts Options) *Software {
	if opts.Backend == nil {
		opts.Backend = barcode.NewBackend()
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if opts.MaxZoom < 1 {
		opts.MaxZoom = DefaultMaxZoom
	}
	if opts.ThumbnailSize <= 0 {
		opts.ThumbnailSize = DefaultThumbnailSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Software{
		opts:    opts,
		proc:    processor{backend: opts.Backend, thumbSize: opts.ThumbnailSize, now: opts.Now},
		limiter: newLimiter(),
		status:  Status{Zoom: 1},
	}
}

// Status returns the current engine state.
func (e *Software) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

func (e *Software) threads() int {
	if e.opts.Globals == nil {
		return 1
	}
	return e.opts.Globals.Load().ThreadsLimit
}

// dedupFor is the longer of the per-session duplicate threshold and the
// process-wide multicode cache duration.
func (e *Software) dedupFor(cfg *scanconfig.Config) time.Duration {
	d := time.Duration(cfg.ThresholdBetweenDuplicatesScans) * time.Second
	if e.opts.Globals != nil {
		if g := e.opts.Globals.Load(); g.MulticodeCachingEnabled {
			d = max(d, g.MulticodeCachingDuration)
		}
	}
	return d
}

func (e *Software) StartCamera(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.status.CameraStarted = true
	return nil
}

// StartScanning starts a session, replacing any active one. The camera is
// started implicitly.
func (e *Software) StartScanning(cfg ConfigSource, onResult ResultFunc) error {
	if cfg == nil || onResult == nil {
		return errors.New("engine: config source and result callback are required")
	}
	if e.opts.Source == nil {
		return fmt.Errorf("%w: no frame source configured", ErrNoFrame)
	}
	if err := e.StopScanning(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		cfg:      cfg,
		onResult: onResult,
		cancel:   cancel,
		done:     make(chan struct{}),
		capture:  make(chan struct{}, 1),
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		cancel()
		return ErrClosed
	}
	e.session = s
	e.status.CameraStarted = true
	e.status.Scanning = true
	e.status.Paused = false
	e.status.Frozen = false
	e.mu.Unlock()

	slog.Debug("Scanning session started", "interval", e.opts.FrameInterval)
	go e.run(ctx, s)
	return nil
}

// StopScanning ends the active session, waits for its goroutine and then
// delivers an empty batch marked SessionEnded. It is a no-op without a
// session, including after Close.
func (e *Software) StopScanning() error {
	e.mu.Lock()
	s := e.session
	e.session = nil
	e.status.Scanning = false
	e.status.Paused = false
	e.status.Frozen = false
	e.mu.Unlock()

	if s != nil {
		s.cancel()
		<-s.done
		s.onResult(Batch{SessionEnded: true})
		slog.Debug("Scanning session stopped")
	}
	return nil
}

func (e *Software) withSession(fn func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.session == nil {
		return ErrNotScanning
	}
	fn()
	return nil
}

// PauseScanning keeps the session but stops decoding frames.
func (e *Software) PauseScanning() error {
	return e.withSession(func() { e.status.Paused = true })
}

// FreezeScanning holds the current frame; nothing is decoded while frozen.
func (e *Software) FreezeScanning() error {
	return e.withSession(func() { e.status.Frozen = true })
}

func (e *Software) UnfreezeScanning() error {
	return e.withSession(func() { e.status.Frozen = false })
}

// CaptureImage decodes the current frame once and delivers it together with
// the frame, even when nothing was found.
func (e *Software) CaptureImage() error {
	var s *session
	if err := e.withSession(func() { s = e.session }); err != nil {
		return err
	}
	select {
	case s.capture <- struct{}{}:
	default: // a capture is already pending
	}
	return nil
}

func (e *Software) run(ctx context.Context, s *session) {
	defer close(s.done)
	ticker := time.NewTicker(e.opts.FrameInterval)
	defer ticker.Stop()
	for {
		capture := false
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-s.capture:
			capture = true
		}
		if !e.scanFrame(ctx, s, capture) {
			return
		}
	}
}

// scanFrame handles one tick and reports whether the session continues.
func (e *Software) scanFrame(ctx context.Context, s *session, capture bool) bool {
	e.mu.Lock()
	paused, frozen, img := e.status.Paused, e.status.Frozen, e.lastFrame
	e.mu.Unlock()

	if !frozen {
		next, err := e.opts.Source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			slog.Warn("Failed to read frame", "error", err)
			return true
		}
		img = next
		e.mu.Lock()
		e.lastFrame = next
		e.mu.Unlock()
	}
	if img == nil || ((paused || frozen) && !capture) {
		return true
	}

	cfg := s.cfg.Snapshot()
	release := e.limiter.acquire(e.threads())
	batch, err := e.proc.process(ctx, img, cfg, &s.window, e.dedupFor(cfg))
	release()
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		slog.Warn("Frame decode failed", "error", err)
		return true
	}
	if capture && batch.Image == nil {
		batch.Image = img
	}
	if len(batch.Results) == 0 && !capture {
		return true
	}

	end := len(batch.Results) > 0 && cfg.CloseSessionOnResultEnabled
	batch.SessionEnded = end
	if ctx.Err() != nil {
		return false
	}
	s.onResult(batch)
	if end {
		e.mu.Lock()
		if e.session == s {
			e.session = nil
			e.status.Scanning = false
			e.status.Paused = false
			e.status.Frozen = false
		}
		e.mu.Unlock()
		slog.Debug("Scanning session closed on result", "results", len(batch.Results))
		return false
	}
	return true
}

// ScanImage decodes img once on a worker goroutine and delivers exactly one
// batch, marked as a finished session, even when nothing was found.
func (e *Software) ScanImage(ctx context.Context, img image.Image, cfg *scanconfig.Config, onResult ResultFunc) error {
	if img == nil || cfg == nil || onResult == nil {
		return errors.New("engine: image, config and result callback are required")
	}
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return ErrClosed
	}
	go func() {
		release := e.limiter.acquire(e.threads())
		batch, err := e.proc.process(ctx, img, cfg, nil, 0)
		release()
		if err != nil {
			slog.Warn("Image decode failed", "error", err)
			batch = Batch{}
		}
		batch.SessionEnded = true
		onResult(batch)
	}()
	return nil
}

func (e *Software) SetZoomFactor(f float64) error {
	if f < 1 || f > e.opts.MaxZoom {
		return fmt.Errorf("%w: %v (must be between 1 and %v)", ErrZoomOutOfRange, f, e.opts.MaxZoom)
	}
	return e.setStatus(func(s *Status) { s.Zoom = f })
}

func (e *Software) CurrentZoomFactor() float64 { return e.Status().Zoom }

func (e *Software) MaxZoomFactor(cb func(float64)) {
	go cb(e.opts.MaxZoom)
}

func (e *Software) IsFlashAvailable(cb func(bool)) {
	go cb(e.opts.FlashAvailable)
}

func (e *Software) SetFlashEnabled(enabled bool) error {
	if enabled && !e.opts.FlashAvailable {
		return ErrFlashUnavailable
	}
	return e.setStatus(func(s *Status) { s.FlashEnabled = enabled })
}

func (e *Software) SetCamera(pos scanconfig.CameraPosition) error {
	if !pos.Valid() {
		return fmt.Errorf("engine: camera position %d: %w", int(pos), scanconfig.ErrUnknownEnum)
	}
	return e.setStatus(func(s *Status) { s.Camera = pos })
}

func (e *Software) SetDynamicExposure(level int) error {
	return e.setStatus(func(s *Status) { s.DynamicExposure = level })
}

func (e *Software) SetCentricFocusAndExposure(enabled bool) error {
	return e.setStatus(func(s *Status) { s.CentricFocusAndExposure = enabled })
}

func (e *Software) SetVideoStabilization(enabled bool) error {
	return e.setStatus(func(s *Status) { s.VideoStabilization = enabled })
}

func (e *Software) setStatus(fn func(*Status)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	fn(&e.status)
	return nil
}

func (e *Software) LibVersion() string {
	return "gozxing " + version.ModuleVersion(version.DecoderModule)
}

// Close stops scanning and rejects later operations. Idempotent.
func (e *Software) Close() error {
	_ = e.StopScanning()
	e.mu.Lock()
	e.closed = true
	e.status.CameraStarted = false
	e.mu.Unlock()
	return nil
}
