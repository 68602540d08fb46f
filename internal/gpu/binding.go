// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// BindingSet binds exactly one PageTexture (view and sampler) to bind
// group 0 of the page pipeline.
type BindingSet struct {
	device  hal.Device
	group   hal.BindGroup
	texture *PageTexture

	released atomic.Bool
}

// BuildBindingSet creates the bind group for tex against layout.
//
// Building twice against the same texture yields equivalent bindings. Any
// failure is reported as ErrBindingConstruction and nothing is allocated.
func BuildBindingSet(ctx *Context, layout hal.BindGroupLayout, tex *PageTexture) (*BindingSet, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if layout == nil {
		return nil, fmt.Errorf("%w: nil bind group layout", ErrBindingConstruction)
	}
	if tex == nil {
		return nil, fmt.Errorf("%w: nil texture", ErrBindingConstruction)
	}
	if tex.IsReleased() {
		return nil, fmt.Errorf("%w: %w", ErrBindingConstruction, ErrTextureReleased)
	}

	group, err := ctx.Device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  tex.Label() + "_bind_group",
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: pageTextureBinding, Resource: gputypes.TextureViewBinding{TextureView: tex.View().NativeHandle()}},
			{Binding: pageSamplerBinding, Resource: gputypes.SamplerBinding{Sampler: tex.Sampler().NativeHandle()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBindingConstruction, classifyHALError(err))
	}

	slogger().Debug("page binding built", "texture", tex.Label())
	return &BindingSet{device: ctx.Device, group: group, texture: tex}, nil
}

// Texture returns the texture this binding references.
func (b *BindingSet) Texture() *PageTexture { return b.texture }

// Group returns the HAL bind group.
func (b *BindingSet) Group() hal.BindGroup { return b.group }

// Valid reports whether the binding and its texture are both alive.
func (b *BindingSet) Valid() bool {
	return b != nil && !b.released.Load() && b.texture != nil && !b.texture.IsReleased()
}

// record sets the bind group on rp.
func (b *BindingSet) record(rp hal.RenderPassEncoder) {
	rp.SetBindGroup(PageBindGroup, b.group, nil)
}

// Release destroys the bind group. The texture is not touched.
func (b *BindingSet) Release() {
	if b == nil || b.released.Swap(true) {
		return
	}
	if b.group != nil {
		b.device.DestroyBindGroup(b.group)
		b.group = nil
	}
}
