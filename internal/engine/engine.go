// Package engine defines the scanning engine the bridge drives and a
// software implementation that decodes frames from disk.
package engine

import (
	"context"
	"errors"
	"image"

	"github.com/MeKo-Tech/scanbridge/internal/barcode"
	"github.com/MeKo-Tech/scanbridge/internal/scanconfig"
)

var (
	ErrClosed           = errors.New("engine: closed")
	ErrNotScanning      = errors.New("engine: no active scanning session")
	ErrZoomOutOfRange   = errors.New("engine: zoom factor out of range")
	ErrFlashUnavailable = errors.New("engine: flash not available")
	ErrNoFrame          = errors.New("engine: no frame available")
)

// Batch is the outcome of decoding one frame or image.
type Batch struct {
	Results      []barcode.Result
	Thumbnails   []image.Image // parallel to Results when thumbnails are enabled
	Image        image.Image   // full frame when image results are enabled
	SessionEnded bool
}

// ResultFunc receives batches on the engine's worker goroutine, or on the
// caller of StopScanning for the end-of-session batch. It must not block and
// must not call back into the engine synchronously.
type ResultFunc func(Batch)

// ConfigSource yields the configuration to decode a frame with.
type ConfigSource interface {
	Snapshot() *scanconfig.Config
}

// Engine is the scanning engine facade.
//
// MaxZoomFactor and IsFlashAvailable answer through their callback, possibly
// on another goroutine, and never block the caller.
type Engine interface {
	StartCamera(ctx context.Context) error
	StartScanning(cfg ConfigSource, onResult ResultFunc) error
	StopScanning() error
	PauseScanning() error
	FreezeScanning() error
	UnfreezeScanning() error
	CaptureImage() error
	ScanImage(ctx context.Context, img image.Image, cfg *scanconfig.Config, onResult ResultFunc) error

	SetZoomFactor(f float64) error
	CurrentZoomFactor() float64
	MaxZoomFactor(cb func(float64))
	IsFlashAvailable(cb func(bool))
	SetFlashEnabled(enabled bool) error
	SetCamera(pos scanconfig.CameraPosition) error
	SetDynamicExposure(level int) error
	SetCentricFocusAndExposure(enabled bool) error
	SetVideoStabilization(enabled bool) error

	LibVersion() string
	Close() error
}
