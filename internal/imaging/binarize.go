// Package imaging normalizes cropped field regions before recognition.
//
// Scanned forms are assumed clean and well-aligned, so normalization is a
// single fixed-threshold binarization that turns the crop into black text
// on a white background. No adaptive thresholding, denoising, or deskewing
// is performed.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// Threshold is the fixed luminance cut on a 0-255 scale. Pixels strictly
// brighter than this become white; everything else becomes black.
const Threshold = 150

// Binarize converts img to a single-channel image containing only pure
// black and pure white. The transform is per-pixel and idempotent:
// binarizing an already-binary image is a no-op.
func Binarize(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if g.Y > Threshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return out
}

// EncodePNG serializes an image to PNG bytes for handing to an OCR engine.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
