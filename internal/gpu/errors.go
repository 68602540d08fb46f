// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// Page pipeline errors.
var (
	// ErrInvalidBufferSize is returned when a pixel buffer length is not
	// width*height*4.
	ErrInvalidBufferSize = errors.New("gpu: pixel buffer size does not match dimensions")

	// ErrInvalidDimensions is returned for zero-area textures or textures
	// larger than the device limit.
	ErrInvalidDimensions = errors.New("gpu: invalid texture dimensions")

	// ErrTextureReleased is returned when operating on a released texture.
	ErrTextureReleased = errors.New("gpu: texture has been released")

	// ErrBindingConstruction is returned when a bind group for a page
	// texture cannot be built.
	ErrBindingConstruction = errors.New("gpu: binding construction failed")

	// ErrSurfaceUnavailable is returned when no drawable can be acquired
	// this frame. The surface should be reconfigured and the frame retried.
	ErrSurfaceUnavailable = errors.New("gpu: surface unavailable")

	// ErrSurfaceLost is returned when the surface or device is gone for good.
	ErrSurfaceLost = errors.New("gpu: surface lost")

	// ErrOutOfMemory is returned when the device runs out of memory.
	ErrOutOfMemory = errors.New("gpu: out of memory")

	// ErrNilContext is returned when a nil *Context is passed in.
	ErrNilContext = errors.New("gpu: context is nil")

	// ErrNoProvider is returned when a device provider does not expose
	// HAL device and queue handles.
	ErrNoProvider = errors.New("gpu: provider does not expose HAL types")

	// ErrRendererClosed is returned when rendering after Destroy.
	ErrRendererClosed = errors.New("gpu: renderer has been destroyed")
)

// classifyHALError maps HAL errors to the package taxonomy. Errors that do
// not belong to a known class are returned unchanged.
func classifyHALError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, hal.ErrDeviceOutOfMemory):
		return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	case errors.Is(err, hal.ErrSurfaceLost), errors.Is(err, hal.ErrDeviceLost):
		return fmt.Errorf("%w: %w", ErrSurfaceLost, err)
	case errors.Is(err, hal.ErrSurfaceOutdated), errors.Is(err, hal.ErrTimeout),
		errors.Is(err, hal.ErrNotReady), errors.Is(err, hal.ErrZeroArea):
		return fmt.Errorf("%w: %w", ErrSurfaceUnavailable, err)
	default:
		return err
	}
}
