package converter

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/gen2brain/webp"
)

func encodeWebP(r io.Reader, quality int) ([]byte, ColorMode, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, 0, fmt.Errorf("decode: %w", err)
	}

	normalized, mode := normalize(img)

	var out bytes.Buffer
	if err := webp.Encode(&out, normalized, webp.Options{Quality: quality, Method: encodeMethod}); err != nil {
		return nil, mode, fmt.Errorf("encode webp: %w", err)
	}
	return out.Bytes(), mode, nil
}

// normalize maps images that can carry alpha or a palette to NRGBA and
// flattens everything else to an opaque RGB image.
func normalize(img image.Image) (image.Image, ColorMode) {
	b := img.Bounds()
	if hasAlphaChannel(img) {
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst, ModeRGBA
	}

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.Opaque, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst, ModeRGB
}

// image/png decodes truecolor without alpha to RGBA/RGBA64 and any image
// with an alpha channel to NRGBA/NRGBA64, so the concrete type tells us the
// source mode.
func hasAlphaChannel(img image.Image) bool {
	switch img.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.Alpha, *image.Alpha16, *image.Paletted:
		return true
	default:
		return false
	}
}
