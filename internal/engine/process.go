package engine

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MeKo-Tech/scanbridge/internal/barcode"
	"github.com/MeKo-Tech/scanbridge/internal/scanconfig"
	"github.com/MeKo-Tech/scanbridge/internal/utils"
)

// thumbnailPad is the margin kept around a symbol when cropping its thumbnail.
const thumbnailPad = 8

type processor struct {
	backend   barcode.Backend
	thumbSize int
	now       func() time.Time
}

func decodeOptions(cfg *scanconfig.Config, bounds image.Rectangle) barcode.Options {
	opts := barcode.Options{
		Types:        cfg.EnabledTypes(),
		TryHarder:    cfg.Decoder.DecodingSpeed >= scanconfig.SpeedSlow,
		Multi:        cfg.Decoder.MaximumResultsCount > 1,
		CharacterSet: cfg.Decoder.EncodingCharacterSet,
	}
	roi := cfg.ROI
	if roi != (scanconfig.Region{Width: 1, Height: 1}) {
		opts.ROI = utils.NormalizedRect(bounds, roi.Left, roi.Top, roi.Width, roi.Height)
	}
	return opts
}

// process decodes img and applies the configured result filters. A nil
// window disables duplicate suppression.
func (p *processor) process(ctx context.Context, img image.Image, cfg *scanconfig.Config, window *dedupWindow, dedupFor time.Duration) (Batch, error) {
	if len(cfg.EnabledTypes()) == 0 {
		return Batch{}, nil
	}
	found, err := p.backend.Decode(ctx, img, decodeOptions(cfg, img.Bounds()))
	if err != nil {
		return Batch{}, err
	}

	now := p.now()
	var out []barcode.Result
	for _, r := range found {
		if !acceptLength(cfg, r) || !acceptVIN(cfg, r) {
			continue
		}
		r = expandToUPCA(cfg, r)
		if window != nil && !window.admit(r, now, dedupFor) {
			continue
		}
		out = append(out, r)
		if len(out) >= cfg.Decoder.MaximumResultsCount {
			break
		}
	}
	batch := Batch{Results: out}
	if len(out) == 0 {
		return batch, nil
	}

	if cfg.BarcodeThumbnailOnResultEnabled {
		for _, r := range out {
			th, err := utils.Thumbnail(img, r.BBox, thumbnailPad, p.thumbSize)
			if err != nil {
				slog.Debug("Thumbnail failed", "type", r.Type.String(), "error", err)
			}
			batch.Thumbnails = append(batch.Thumbnails, th)
		}
	}
	if cfg.ImageResultEnabled {
		batch.Image = img
		if cfg.LocationInImageResultEnabled {
			rects := make([]image.Rectangle, 0, len(out))
			for _, r := range out {
				rects = append(rects, r.BBox)
			}
			c := cfg.LocationLineColor
			width := int(math.Max(1, math.Round(cfg.LocationLineWidth)))
			batch.Image = utils.DrawOutline(img, rects, color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}, width)
		}
	}
	return batch, nil
}

func acceptLength(cfg *scanconfig.Config, r barcode.Result) bool {
	if !r.Type.SupportsLengthRange() {
		return true
	}
	s := cfg.Decoder.Symbologies[r.Type]
	n := utf8.RuneCountInString(r.Text)
	return n >= s.MinLength && n <= s.MaxLength
}

// acceptVIN keeps only 17 character vehicle identification numbers when VIN
// restrictions are on. Letters I, O and Q never appear in a VIN.
func acceptVIN(cfg *scanconfig.Config, r barcode.Result) bool {
	if !cfg.Decoder.EnableVINRestrictions {
		return true
	}
	if len(r.Text) != 17 {
		return false
	}
	for _, ch := range r.Text {
		isDigit := ch >= '0' && ch <= '9'
		isLetter := ch >= 'A' && ch <= 'Z' && !strings.ContainsRune("IOQ", ch)
		if !isDigit && !isLetter {
			return false
		}
	}
	return true
}

func expandToUPCA(cfg *scanconfig.Config, r barcode.Result) barcode.Result {
	if !r.Type.SupportsExpandToUPCA() || !cfg.Decoder.Symbologies[r.Type].ExpandToUPCA {
		return r
	}
	if full, ok := upcEToUPCA(r.Text); ok {
		r.Text = full
	}
	return r
}

// upcEToUPCA expands an 8 digit UPC-E code (number system, six digits,
// check digit) to its 12 digit UPC-A form.
func upcEToUPCA(upce string) (string, bool) {
	if len(upce) != 8 {
		return "", false
	}
	for _, ch := range upce {
		if ch < '0' || ch > '9' {
			return "", false
		}
	}
	m := upce[1:7]
	var body string
	switch last := m[5]; last {
	case '0', '1', '2':
		body = m[0:2] + string(last) + "0000" + m[2:5]
	case '3':
		body = m[0:3] + "00000" + m[3:5]
	case '4':
		body = m[0:4] + "00000" + m[4:5]
	default:
		body = m[0:5] + "0000" + string(last)
	}
	return upce[:1] + body + upce[7:], true
}
