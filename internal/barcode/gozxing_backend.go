package barcode

import (
	"context"
	"fmt"
	"image"
	"image/draw"

	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/aztec"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// readerBinding binds one gozxing reader to the symbologies it can produce.
type readerBinding struct {
	types     []Type
	newReader func() gozxing.Reader
}

// 2D readers first; they are the common case for camera scanning.
var readerBindings = []readerBinding{
	{types: []Type{QR}, newReader: func() gozxing.Reader { return qrcode.NewQRCodeReader() }},
	{types: []Type{Datamatrix}, newReader: func() gozxing.Reader { return datamatrix.NewDataMatrixReader() }},
	{types: []Type{Aztec, AztecCompact}, newReader: func() gozxing.Reader { return aztec.NewAztecReader() }},
	{types: []Type{Code128}, newReader: func() gozxing.Reader { return oned.NewCode128Reader() }},
	{types: []Type{Code93}, newReader: func() gozxing.Reader { return oned.NewCode93Reader() }},
	{types: []Type{Code39}, newReader: func() gozxing.Reader { return oned.NewCode39Reader() }},
	{types: []Type{Codabar}, newReader: func() gozxing.Reader { return oned.NewCodaBarReader() }},
	{types: []Type{Interleaved25, ITF14}, newReader: func() gozxing.Reader { return oned.NewITFReader() }},
	{types: []Type{Ean13}, newReader: func() gozxing.Reader { return oned.NewEAN13Reader() }},
	{types: []Type{Ean8}, newReader: func() gozxing.Reader { return oned.NewEAN8Reader() }},
	{types: []Type{UpcA}, newReader: func() gozxing.Reader { return oned.NewUPCAReader() }},
	{types: []Type{UpcE}, newReader: func() gozxing.Reader { return oned.NewUPCEReader() }},
}

// Decodable reports whether the default backend can produce results of type t.
func Decodable(t Type) bool {
	for _, rb := range readerBindings {
		for _, st := range rb.types {
			if st == t {
				return true
			}
		}
	}
	return false
}

type gozxingBackend struct{}

func (b *gozxingBackend) Decode(ctx context.Context, img image.Image, opts Options) ([]Result, error) {
	if img == nil {
		return nil, ErrUnsupportedImage
	}
	// Apply ROI if requested and valid
	var offset image.Point
	if !opts.ROI.Empty() {
		if roiImg, ok := subImage(img, opts.ROI); ok {
			offset = opts.ROI.Intersect(img.Bounds()).Min.Sub(img.Bounds().Min)
			img = roiImg
		}
	}

	bitmap, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	hints := make(map[gozxing.DecodeHintType]interface{})
	if opts.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	if opts.CharacterSet != "" {
		hints[gozxing.DecodeHintType_CHARACTER_SET] = opts.CharacterSet
	}

	enabled := enabledSet(opts.Types)
	var out []Result
	for _, rb := range readerBindings {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		t, ok := firstEnabled(rb.types, enabled)
		if !ok {
			continue
		}
		r, err := rb.newReader().Decode(bitmap, hints)
		if err != nil || r == nil {
			// Not found, checksum and format errors all mean "no symbol for this reader".
			continue
		}
		out = append(out, normalize(t, r, offset))
		if !opts.Multi {
			break
		}
	}
	return out, nil
}

func enabledSet(types []Type) map[Type]bool {
	if len(types) == 0 {
		return nil
	}
	set := make(map[Type]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

func firstEnabled(types []Type, enabled map[Type]bool) (Type, bool) {
	if enabled == nil {
		return types[0], true
	}
	for _, t := range types {
		if enabled[t] {
			return t, true
		}
	}
	return 0, false
}

// normalize maps a gozxing result back into full-frame coordinates.
func normalize(t Type, r *gozxing.Result, offset image.Point) Result {
	pts := r.GetResultPoints()
	var points []Point
	if len(pts) > 0 {
		points = make([]Point, 0, len(pts))
		for _, p := range pts {
			points = append(points, Point{X: int(p.GetX()) + offset.X, Y: int(p.GetY()) + offset.Y})
		}
	}
	extra := map[string]string{"format": r.GetBarcodeFormat().String()}
	return Result{
		Type:   t,
		Text:   r.GetText(),
		Points: points,
		BBox:   rectFromPoints(points),
		Extra:  extra,
	}
}

func rectFromPoints(pts []Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// subImage returns a sub-image if supported by the image implementation.
func subImage(img image.Image, r image.Rectangle) (image.Image, bool) {
	rb := r.Intersect(img.Bounds())
	if rb.Empty() {
		return nil, false
	}
	type subImager interface{ SubImage(r image.Rectangle) image.Image }
	if s, ok := img.(subImager); ok {
		return s.SubImage(rb), true
	}
	// Fallback: copy into new RGBA
	dst := image.NewRGBA(image.Rect(0, 0, rb.Dx(), rb.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rb.Min, draw.Src)
	return dst, true
}
