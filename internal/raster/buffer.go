package raster

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// ErrShortPixels is returned when a pixel slice cannot hold width*height RGBA samples.
var ErrShortPixels = errors.New("pixel data shorter than width*height*4")

// Buffer is a dense row-major RGBA raster, 4 bytes per pixel.
// The analysis code only reads it.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBuffer wraps pix as a width x height raster.
func NewBuffer(width, height int, pix []uint8) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}
	if len(pix) < width*height*4 {
		return nil, fmt.Errorf("raster %dx%d with %d bytes: %w", width, height, len(pix), ErrShortPixels)
	}
	return &Buffer{Width: width, Height: height, Pix: pix}, nil
}

// FromImage copies img into a tight RGBA buffer with origin at (0, 0).
// Colours are non-premultiplied so that alpha and RGB are independent channels.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != w*4 || nrgba.Rect.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}

	return &Buffer{Width: w, Height: h, Pix: nrgba.Pix[:w*h*4]}
}

// Valid reports whether the buffer has a positive area backed by enough bytes.
func (b *Buffer) Valid() bool {
	return b != nil && b.Width > 0 && b.Height > 0 && len(b.Pix) >= b.Width*b.Height*4
}

// Len is the number of pixels, or 0 for an invalid buffer.
func (b *Buffer) Len() int {
	if !b.Valid() {
		return 0
	}
	return b.Width * b.Height
}

// In reports whether (x, y) lies inside the raster.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

// At returns the RGBA sample at (x, y). The caller checks bounds.
func (b *Buffer) At(x, y int) (r, g, bl, a uint8) {
	i := (y*b.Width + x) * 4
	p := b.Pix[i : i+4 : i+4]
	return p[0], p[1], p[2], p[3]
}

// Bytes is the number of bytes a width x height raster occupies.
func Bytes(width, height int) uint64 {
	return uint64(width) * uint64(height) * 4
}
