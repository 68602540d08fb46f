// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// quadVertexStride is the byte stride per vertex of the page quad.
// Layout per vertex:
//
//	position  (vec2<f32>) = 8 bytes  (location 0)
//	tex_coord (vec2<f32>) = 8 bytes  (location 1)
//
// Total = 16 bytes per vertex.
const quadVertexStride = 16

// QuadVertexCount and QuadIndexCount describe the fullscreen quad.
const (
	QuadVertexCount = 4
	QuadIndexCount  = 6
)

// quadVertices covers clip space. Texture v grows downwards so page row 0
// lands at the top of the viewport.
var quadVertices = [QuadVertexCount][4]float32{
	{-1, 1, 0, 0},  // top left
	{-1, -1, 0, 1}, // bottom left
	{1, -1, 1, 1},  // bottom right
	{1, 1, 1, 0},   // top right
}

// quadIndices forms two counter-clockwise triangles.
var quadIndices = [QuadIndexCount]uint16{0, 1, 2, 0, 2, 3}

// Geometry is the static fullscreen quad. It is uploaded once and never
// modified; pages are scaled to the viewport by the quad, not re-rasterized.
type Geometry struct {
	device    hal.Device
	vertexBuf hal.Buffer
	indexBuf  hal.Buffer
}

// NewGeometry creates and uploads the quad vertex and index buffers.
func NewGeometry(ctx *Context) (*Geometry, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	g := &Geometry{device: ctx.Device}

	vb, err := createAndUploadBuffer(ctx, "page_quad_vertices", buildQuadVertexData(),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	g.vertexBuf = vb

	ib, err := createAndUploadBuffer(ctx, "page_quad_indices", buildQuadIndexData(),
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		g.Destroy()
		return nil, err
	}
	g.indexBuf = ib

	return g, nil
}

// IndexCount returns the number of indices drawn per frame.
func (g *Geometry) IndexCount() uint32 { return QuadIndexCount }

// record binds the quad buffers on rp.
func (g *Geometry) record(rp hal.RenderPassEncoder) {
	rp.SetVertexBuffer(0, g.vertexBuf, 0)
	rp.SetIndexBuffer(g.indexBuf, gputypes.IndexFormatUint16, 0)
}

// Destroy releases both buffers.
func (g *Geometry) Destroy() {
	if g == nil || g.device == nil {
		return
	}
	if g.indexBuf != nil {
		g.device.DestroyBuffer(g.indexBuf)
		g.indexBuf = nil
	}
	if g.vertexBuf != nil {
		g.device.DestroyBuffer(g.vertexBuf)
		g.vertexBuf = nil
	}
}

// quadVertexLayout returns the vertex buffer layout for the page pipeline.
// Matches VertexInput in page_quad.wgsl:
//
//	location 0: position (vec2<f32>)
//	location 1: tex_coord (vec2<f32>)
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // tex_coord
			},
		},
	}
}

// buildQuadVertexData serializes quadVertices as little-endian float32.
func buildQuadVertexData() []byte {
	buf := make([]byte, QuadVertexCount*quadVertexStride)
	off := 0
	for _, v := range quadVertices {
		for _, f := range v {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
			off += 4
		}
	}
	return buf
}

// buildQuadIndexData serializes quadIndices, padded to a 4-byte multiple
// as buffer writes require.
func buildQuadIndexData() []byte {
	n := QuadIndexCount * 2
	buf := make([]byte, (n+3)&^3)
	for i, idx := range quadIndices {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}

// createAndUploadBuffer creates a buffer sized for data and writes data into it.
func createAndUploadBuffer(ctx *Context, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := ctx.Device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, classifyHALError(err))
	}
	if err := ctx.Queue.WriteBuffer(buf, 0, data); err != nil {
		ctx.Device.DestroyBuffer(buf)
		return nil, fmt.Errorf("upload %s: %w", label, classifyHALError(err))
	}
	return buf, nil
}
