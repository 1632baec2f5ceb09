// Package texture prepares decoded images for GPU upload.
package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // glTF texture formats
	_ "image/png"

	"golang.org/x/image/draw"
)

// DefaultMaxSize bounds either texture dimension.
const DefaultMaxSize = 4096

// Decode decodes PNG or JPEG data and converts it with Prepare.
func Decode(data []byte, maxSize int) (*image.RGBA, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	rgba := Prepare(img, maxSize)
	if rgba == nil {
		return nil, fmt.Errorf("decode image: empty %s image", format)
	}
	return rgba, nil
}

// Prepare converts img to tightly packed RGBA with its origin at (0, 0).
// Images larger than maxSize in either dimension are downscaled with
// bilinear filtering, keeping the aspect ratio. Returns nil for empty images.
func Prepare(img image.Image, maxSize int) *image.RGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}

	dw, dh := FitSize(w, h, maxSize)
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	if dw == w && dh == h {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	} else {
		draw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	}
	return dst
}

// FitSize scales (w, h) down so neither side exceeds maxSize.
// maxSize <= 0 disables the limit.
func FitSize(w, h, maxSize int) (int, int) {
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return w, h
	}
	if w >= h {
		nh := h * maxSize / w
		if nh < 1 {
			nh = 1
		}
		return maxSize, nh
	}
	nw := w * maxSize / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxSize
}
