package docview

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// BytesPerPixel is the fixed RGBA8 layout of a PixelBuffer.
const BytesPerPixel = 4

// PixelBuffer is one rasterized page: tightly packed RGBA8 rows, top row
// first, len(Pix) == Width*Height*4.
type PixelBuffer struct {
	Width  uint32
	Height uint32
	Pix    []byte
}

// NewPixelBuffer allocates a zeroed buffer of the given size.
func NewPixelBuffer(width, height uint32) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, int(width)*int(height)*BytesPerPixel),
	}
}

// PixelBufferFromImage converts img to a tightly packed RGBA8 buffer.
// An *image.RGBA whose stride equals its width is adopted without copying.
func PixelBufferFromImage(img image.Image) *PixelBuffer {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == w*BytesPerPixel && b.Min == (image.Point{}) {
		return &PixelBuffer{Width: uint32(w), Height: uint32(h), Pix: rgba.Pix[:w*h*BytesPerPixel]} //nolint:gosec // image dimensions are non-negative
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return &PixelBuffer{Width: uint32(w), Height: uint32(h), Pix: dst.Pix} //nolint:gosec // image dimensions are non-negative
}

// Validate checks the length invariant.
func (p *PixelBuffer) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidBufferSize)
	}
	if want := uint64(p.Width) * uint64(p.Height) * BytesPerPixel; uint64(len(p.Pix)) != want {
		return fmt.Errorf("%w: %dx%d needs %d bytes, got %d",
			ErrInvalidBufferSize, p.Width, p.Height, want, len(p.Pix))
	}
	return nil
}

// SizeBytes returns len(Pix).
func (p *PixelBuffer) SizeBytes() int { return len(p.Pix) }

// Image returns an *image.RGBA sharing Pix.
func (p *PixelBuffer) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    p.Pix,
		Stride: int(p.Width) * BytesPerPixel,
		Rect:   image.Rect(0, 0, int(p.Width), int(p.Height)),
	}
}

// Fit returns a copy scaled down with Lanczos resampling so neither side
// exceeds maxDim, preserving the aspect ratio. Buffers that already fit
// are returned unchanged.
func (p *PixelBuffer) Fit(maxDim uint32) *PixelBuffer {
	if maxDim == 0 || (p.Width <= maxDim && p.Height <= maxDim) {
		return p
	}
	fitted := imaging.Fit(p.Image(), int(maxDim), int(maxDim), imaging.Lanczos)
	return PixelBufferFromImage(fitted)
}
