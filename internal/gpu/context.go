// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DefaultSurfaceFormat is used when the host does not report a surface format.
const DefaultSurfaceFormat = gputypes.TextureFormatBGRA8Unorm

// Context is the explicit set of shared GPU handles every component uses.
// It replaces global device state: the device, queue and target format are
// created by the host and passed by reference. Components never mutate it.
type Context struct {
	// Device creates and destroys GPU resources.
	Device hal.Device

	// Queue serializes uploads and command submissions.
	Queue hal.Queue

	// Format is the color format of the render target (the surface).
	Format gputypes.TextureFormat

	// MaxTextureDimension is the largest width or height a page texture may
	// have. Defaults to the WebGPU default limit.
	MaxTextureDimension uint32
}

// NewContext wraps a device and queue opened by the caller.
// A zero format selects DefaultSurfaceFormat.
func NewContext(device hal.Device, queue hal.Queue, format gputypes.TextureFormat) (*Context, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("gpu: device and queue are required")
	}
	if format == gputypes.TextureFormatUndefined {
		format = DefaultSurfaceFormat
	}
	return &Context{
		Device:              device,
		Queue:               queue,
		Format:              format,
		MaxTextureDimension: gputypes.DefaultLimits().MaxTextureDimension2D,
	}, nil
}

// ContextFromProvider builds a Context from a host device provider such as
// gogpu.App.GPUContextProvider(). The provider must expose HalDevice and
// HalQueue; SurfaceFormat is used when present.
func ContextFromProvider(provider any) (*Context, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoProvider)
	}

	format := gputypes.TextureFormatUndefined
	if fp, ok := provider.(interface {
		SurfaceFormat() gputypes.TextureFormat
	}); ok {
		format = fp.SurfaceFormat()
	}
	return NewContext(device, queue, format)
}

// PageFormat returns the texture format used for page images.
//
// Rasterizers produce sRGB-encoded bytes. When the surface is an sRGB
// format the sampler decodes and the target re-encodes, so the page texture
// must be sRGB too; otherwise both sides are linear and the bytes pass
// through untouched.
func (c *Context) PageFormat() gputypes.TextureFormat {
	if c.Format.IsSrgb() {
		return gputypes.TextureFormatRGBA8UnormSrgb
	}
	return gputypes.TextureFormatRGBA8Unorm
}

// WaitIdle blocks until the queue has drained.
func (c *Context) WaitIdle() error {
	return c.Device.WaitIdle()
}
