// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// newTestContext returns a Context over a counting noop device.
func newTestContext(t *testing.T) (*Context, *countingDevice) {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	t.Cleanup(cleanup)
	dev := &countingDevice{Device: device}
	ctx, err := NewContext(dev, queue, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return ctx, dev
}

// rgba returns a w*h*4 buffer filled with a single byte value.
func rgba(w, h int, v byte) []byte {
	pix := make([]byte, w*h*4)
	for i := range pix {
		pix[i] = v
	}
	return pix
}

var errInjected = errors.New("injected failure")

// countingDevice wraps a hal.Device, counts lifetime calls and can fail
// selected creations.
type countingDevice struct {
	hal.Device

	failTexture   bool
	failView      bool
	failSampler   bool
	failBindGroup bool
	failEncoder   bool
	failBuffer    bool

	texturesCreated, texturesDestroyed int
	viewsCreated, viewsDestroyed       int
	samplersCreated, samplersDestroyed int
	groupsCreated, groupsDestroyed     int
	encodersCreated, encodersDestroyed int
	buffersCreated, buffersDestroyed   int
	lastBindGroupDesc                  *hal.BindGroupDescriptor
	lastTextureDesc                    *hal.TextureDescriptor
}

func (d *countingDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	if d.failTexture {
		return nil, errInjected
	}
	d.texturesCreated++
	d.lastTextureDesc = desc
	return d.Device.CreateTexture(desc)
}

func (d *countingDevice) DestroyTexture(tex hal.Texture) {
	d.texturesDestroyed++
	d.Device.DestroyTexture(tex)
}

func (d *countingDevice) CreateTextureView(tex hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error) {
	if d.failView {
		return nil, errInjected
	}
	d.viewsCreated++
	return d.Device.CreateTextureView(tex, desc)
}

func (d *countingDevice) DestroyTextureView(view hal.TextureView) {
	d.viewsDestroyed++
	d.Device.DestroyTextureView(view)
}

func (d *countingDevice) CreateSampler(desc *hal.SamplerDescriptor) (hal.Sampler, error) {
	if d.failSampler {
		return nil, hal.ErrDeviceOutOfMemory
	}
	d.samplersCreated++
	return d.Device.CreateSampler(desc)
}

func (d *countingDevice) DestroySampler(s hal.Sampler) {
	d.samplersDestroyed++
	d.Device.DestroySampler(s)
}

func (d *countingDevice) CreateBindGroup(desc *hal.BindGroupDescriptor) (hal.BindGroup, error) {
	if d.failBindGroup {
		return nil, errInjected
	}
	d.groupsCreated++
	d.lastBindGroupDesc = desc
	return d.Device.CreateBindGroup(desc)
}

func (d *countingDevice) DestroyBindGroup(g hal.BindGroup) {
	d.groupsDestroyed++
	d.Device.DestroyBindGroup(g)
}

func (d *countingDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	if d.failEncoder {
		return nil, errInjected
	}
	d.encodersCreated++
	enc, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &countingEncoder{CommandEncoder: enc, dev: d}, nil
}

func (d *countingDevice) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	if d.failBuffer {
		return nil, errInjected
	}
	d.buffersCreated++
	return d.Device.CreateBuffer(desc)
}

func (d *countingDevice) DestroyBuffer(b hal.Buffer) {
	d.buffersDestroyed++
	d.Device.DestroyBuffer(b)
}

// liveTextures returns how many textures are allocated and not destroyed.
func (d *countingDevice) liveTextures() int { return d.texturesCreated - d.texturesDestroyed }

// countingEncoder records draw calls issued through its render passes.
type countingEncoder struct {
	hal.CommandEncoder
	dev *countingDevice

	passes int
	draws  []drawCall
}

type drawCall struct {
	indexCount, instanceCount uint32
	bindGroupSet              bool
}

func (e *countingEncoder) BeginRenderPass(desc *hal.RenderPassDescriptor) hal.RenderPassEncoder {
	e.passes++
	return &countingPass{RenderPassEncoder: e.CommandEncoder.BeginRenderPass(desc), enc: e}
}

func (e *countingEncoder) Destroy() {
	e.dev.encodersDestroyed++
	e.CommandEncoder.Destroy()
}

type countingPass struct {
	hal.RenderPassEncoder
	enc      *countingEncoder
	boundSet bool
}

func (p *countingPass) SetBindGroup(index uint32, group hal.BindGroup, offsets []uint32) {
	p.boundSet = true
	p.RenderPassEncoder.SetBindGroup(index, group, offsets)
}

func (p *countingPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.enc.draws = append(p.enc.draws, drawCall{indexCount: indexCount, instanceCount: instanceCount, bindGroupSet: p.boundSet})
	p.RenderPassEncoder.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

// laggingQueue reports completion only up to completed, simulating frames
// still in flight on the GPU.
type laggingQueue struct {
	hal.Queue
	submitted uint64
	completed uint64
	failWrite bool
}

func (q *laggingQueue) Submit(bufs []hal.CommandBuffer) (uint64, error) {
	if _, err := q.Queue.Submit(bufs); err != nil {
		return 0, err
	}
	q.submitted++
	return q.submitted, nil
}

func (q *laggingQueue) PollCompleted() uint64 { return q.completed }

func (q *laggingQueue) WriteTexture(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) error {
	if q.failWrite {
		return errInjected
	}
	return q.Queue.WriteTexture(dst, data, layout, size)
}
