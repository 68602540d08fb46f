// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Frame is one acquired drawable.
type Frame struct {
	// View is the color attachment for the frame.
	View hal.TextureView

	// Width and Height are the drawable size in pixels.
	Width, Height uint32

	// Suboptimal is set when the surface still works but should be
	// reconfigured at a convenient time.
	Suboptimal bool

	texture hal.SurfaceTexture
}

// Surface yields one drawable per frame.
//
// Acquire returns ErrSurfaceUnavailable when no drawable can be had this
// frame (reconfigure and retry) and ErrSurfaceLost when the surface is gone.
type Surface interface {
	Configure(width, height uint32) error
	Acquire() (Frame, error)
	Present(frame Frame) error
	Discard(frame Frame)
}

// HALSurface is a Surface over a raw hal.Surface. It owns swapchain
// configuration and presentation.
type HALSurface struct {
	ctx     *Context
	surface hal.Surface
	mode    gputypes.PresentMode

	width, height uint32
	configured    bool
}

// NewHALSurface wraps surface. The swapchain is configured on the first
// Configure call.
func NewHALSurface(ctx *Context, surface hal.Surface) *HALSurface {
	return &HALSurface{ctx: ctx, surface: surface, mode: gputypes.PresentModeFifo}
}

// Configure (re)creates the swapchain for the given size.
func (s *HALSurface) Configure(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: %w", ErrSurfaceUnavailable, hal.ErrZeroArea)
	}
	err := s.surface.Configure(s.ctx.Device, &hal.SurfaceConfiguration{
		Width:       width,
		Height:      height,
		Format:      s.ctx.Format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: s.mode,
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	})
	if err != nil {
		s.configured = false
		return fmt.Errorf("configure surface: %w", classifyHALError(err))
	}
	s.width, s.height = width, height
	s.configured = true
	return nil
}

// Acquire takes the next swapchain texture and creates a view for it.
func (s *HALSurface) Acquire() (Frame, error) {
	if !s.configured {
		return Frame{}, fmt.Errorf("%w: surface not configured", ErrSurfaceUnavailable)
	}
	acquired, err := s.surface.AcquireTexture(nil)
	if err != nil {
		return Frame{}, fmt.Errorf("acquire surface texture: %w", classifyHALError(err))
	}
	view, err := s.ctx.Device.CreateTextureView(acquired.Texture, &hal.TextureViewDescriptor{
		Label:         "surface_view",
		Format:        s.ctx.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		s.surface.DiscardTexture(acquired.Texture)
		return Frame{}, fmt.Errorf("create surface view: %w", classifyHALError(err))
	}
	if acquired.Suboptimal {
		slogger().Debug("surface suboptimal", "width", s.width, "height", s.height)
	}
	return Frame{
		View:       view,
		Width:      s.width,
		Height:     s.height,
		Suboptimal: acquired.Suboptimal,
		texture:    acquired.Texture,
	}, nil
}

// Present queues the frame for display and releases its view.
func (s *HALSurface) Present(frame Frame) error {
	defer s.ctx.Device.DestroyTextureView(frame.View)
	if err := s.ctx.Queue.Present(s.surface, frame.texture, nil); err != nil {
		return fmt.Errorf("present: %w", classifyHALError(err))
	}
	return nil
}

// Discard drops an acquired frame without presenting it.
func (s *HALSurface) Discard(frame Frame) {
	if frame.View != nil {
		s.ctx.Device.DestroyTextureView(frame.View)
	}
	if frame.texture != nil {
		s.surface.DiscardTexture(frame.texture)
	}
}

// Unconfigure releases the swapchain. Call before destroying the device.
func (s *HALSurface) Unconfigure() {
	if s.configured {
		s.surface.Unconfigure(s.ctx.Device)
		s.configured = false
	}
}

// ViewSurface is a Surface whose drawable is supplied by a host toolkit
// that acquires and presents the swapchain itself, such as a gogpu window.
// The host calls SetView before each frame.
type ViewSurface struct {
	view          hal.TextureView
	width, height uint32
}

// SetView installs the drawable for the next frame. A nil view means the
// host has no drawable this frame.
func (s *ViewSurface) SetView(view hal.TextureView, width, height uint32) {
	s.view = view
	s.width, s.height = width, height
}

// Configure records the size. The host owns swapchain configuration.
func (s *ViewSurface) Configure(width, height uint32) error {
	if s.view == nil {
		s.width, s.height = width, height
	}
	return nil
}

// Acquire returns the host-supplied view.
func (s *ViewSurface) Acquire() (Frame, error) {
	if s.view == nil || s.width == 0 || s.height == 0 {
		return Frame{}, fmt.Errorf("%w: host provided no drawable", ErrSurfaceUnavailable)
	}
	return Frame{View: s.view, Width: s.width, Height: s.height}, nil
}

// Present hands the frame back; the host presents it after the draw
// callback returns. The view is consumed.
func (s *ViewSurface) Present(Frame) error {
	s.view = nil
	return nil
}

// Discard drops the frame. The view stays owned by the host.
func (s *ViewSurface) Discard(Frame) {
	s.view = nil
}
