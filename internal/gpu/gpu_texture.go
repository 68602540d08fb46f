// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// BytesPerPixel is the fixed RGBA8 pixel size of page textures.
const BytesPerPixel = 4

// PageTexture is a GPU-resident page image: texture, view and a
// linear/clamp sampler created from one RGBA8 pixel buffer.
//
// A PageTexture is never mutated after creation. Showing another page
// means creating a new PageTexture and releasing this one.
type PageTexture struct {
	device  hal.Device
	texture hal.Texture
	view    hal.TextureView
	sampler hal.Sampler

	width  uint32
	height uint32
	format gputypes.TextureFormat
	label  string

	released atomic.Bool
}

// CreatePageTexture validates pix, allocates a texture of the matching
// size, uploads the bytes verbatim and creates the sampler.
//
// It returns ErrInvalidBufferSize when len(pix) != width*height*4 and
// ErrInvalidDimensions for zero-area or oversized textures. Nothing is
// left allocated on error.
func CreatePageTexture(ctx *Context, width, height uint32, pix []byte, label string) (*PageTexture, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if want := uint64(width) * uint64(height) * BytesPerPixel; uint64(len(pix)) != want {
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes, got %d",
			ErrInvalidBufferSize, width, height, want, len(pix))
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if limit := ctx.MaxTextureDimension; limit > 0 && (width > limit || height > limit) {
		return nil, fmt.Errorf("%w: %dx%d exceeds device limit %d",
			ErrInvalidDimensions, width, height, limit)
	}

	t := &PageTexture{
		device: ctx.Device,
		width:  width,
		height: height,
		format: ctx.PageFormat(),
		label:  label,
	}
	if err := t.create(ctx, pix); err != nil {
		t.destroy()
		return nil, err
	}
	slogger().Debug("page texture created", "label", label, "width", width, "height", height)
	return t, nil
}

// create allocates the texture, view and sampler and uploads pix.
// On error the caller destroys whatever was created.
func (t *PageTexture) create(ctx *Context, pix []byte) error {
	tex, err := ctx.Device.CreateTexture(&hal.TextureDescriptor{
		Label:         t.label,
		Size:          hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        t.format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create page texture: %w", classifyHALError(err))
	}
	t.texture = tex

	view, err := ctx.Device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         t.label + "_view",
		Format:        t.format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return fmt.Errorf("create page texture view: %w", classifyHALError(err))
	}
	t.view = view

	sampler, err := ctx.Device.CreateSampler(&hal.SamplerDescriptor{
		Label:        t.label + "_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("create page sampler: %w", classifyHALError(err))
	}
	t.sampler = sampler

	err = ctx.Queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Aspect:   gputypes.TextureAspectAll,
		},
		pix,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  t.width * BytesPerPixel,
			RowsPerImage: t.height,
		},
		&hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("upload page texture: %w", classifyHALError(err))
	}
	return nil
}

// Width returns the texture width in pixels.
func (t *PageTexture) Width() uint32 { return t.width }

// Height returns the texture height in pixels.
func (t *PageTexture) Height() uint32 { return t.height }

// Format returns the texture format.
func (t *PageTexture) Format() gputypes.TextureFormat { return t.format }

// Label returns the debug label.
func (t *PageTexture) Label() string { return t.label }

// SizeBytes returns the size of the uploaded pixel data.
func (t *PageTexture) SizeBytes() uint64 {
	return uint64(t.width) * uint64(t.height) * BytesPerPixel
}

// View returns the texture view bound at binding 0.
func (t *PageTexture) View() hal.TextureView { return t.view }

// Sampler returns the sampler bound at binding 1.
func (t *PageTexture) Sampler() hal.Sampler { return t.sampler }

// IsReleased reports whether Release has been called.
func (t *PageTexture) IsReleased() bool { return t.released.Load() }

// Release destroys the GPU objects. Safe to call more than once.
func (t *PageTexture) Release() {
	if t == nil || t.released.Swap(true) {
		return
	}
	t.destroy()
	slogger().Debug("page texture released", "label", t.label)
}

// destroy releases the GPU objects in reverse creation order.
func (t *PageTexture) destroy() {
	if t.device == nil {
		return
	}
	if t.sampler != nil {
		t.device.DestroySampler(t.sampler)
		t.sampler = nil
	}
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		t.device.DestroyTexture(t.texture)
		t.texture = nil
	}
}

// String returns a string representation of the texture.
func (t *PageTexture) String() string {
	status := "active"
	if t.released.Load() {
		status = "released"
	}
	return fmt.Sprintf("PageTexture[%s %dx%d %s]", t.label, t.width, t.height, status)
}
