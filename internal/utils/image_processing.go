package utils

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
)

// ImageProcessingError represents errors that can occur during image processing.
type ImageProcessingError struct {
	Operation string
	Err       error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("image processing error in %s: %v", e.Operation, e.Err)
}

func (e *ImageProcessingError) Unwrap() error { return e.Err }

// NormalizedRect maps a normalized rectangle (components in [0,1]) onto bounds.
func NormalizedRect(bounds image.Rectangle, left, top, width, height float64) image.Rectangle {
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	r := image.Rect(
		bounds.Min.X+int(math.Round(left*w)),
		bounds.Min.Y+int(math.Round(top*h)),
		bounds.Min.X+int(math.Round((left+width)*w)),
		bounds.Min.Y+int(math.Round((top+height)*h)),
	)
	return r.Intersect(bounds)
}

// Thumbnail crops rect (grown by pad on each side) out of img and fits the
// result into a size x size box, preserving aspect ratio.
func Thumbnail(img image.Image, rect image.Rectangle, pad, size int) (image.Image, error) {
	if img == nil {
		return nil, &ImageProcessingError{Operation: "thumbnail", Err: errors.New("input image is nil")}
	}
	if size <= 0 {
		return nil, &ImageProcessingError{Operation: "thumbnail", Err: fmt.Errorf("invalid size %d", size)}
	}
	r := rect.Inset(-pad).Intersect(img.Bounds())
	if r.Empty() {
		r = img.Bounds()
	}
	return imaging.Fit(imaging.Crop(img, r), size, size, imaging.Lanczos), nil
}

// DrawOutline returns a copy of img with rects outlined in c.
func DrawOutline(img image.Image, rects []image.Rectangle, c color.Color, width int) *image.NRGBA {
	dst := imaging.Clone(img)
	if width < 1 {
		width = 1
	}
	fill := image.NewUniform(c)
	for _, r := range rects {
		r = r.Sub(img.Bounds().Min)
		edges := []image.Rectangle{
			image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width),
			image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y),
			image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y),
			image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y),
		}
		for _, e := range edges {
			draw.Draw(dst, e.Intersect(dst.Bounds()), fill, image.Point{}, draw.Over)
		}
	}
	return dst
}
