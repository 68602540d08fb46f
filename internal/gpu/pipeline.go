// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Embedded page quad shader source.
//
//go:embed shaders/page_quad.wgsl
var pageQuadShaderSource string

// Bind group slots used by the page shader.
const (
	// PageBindGroup is the bind group index of the page texture.
	PageBindGroup = 0

	// pageTextureBinding holds texture_2d<f32> t_page.
	pageTextureBinding = 0

	// pageSamplerBinding holds sampler s_page.
	pageSamplerBinding = 1
)

// PagePipeline is the render pipeline that draws a page texture over the
// fullscreen quad. It is created once per Context and never changes.
type PagePipeline struct {
	device hal.Device
	format gputypes.TextureFormat

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

// NewPagePipeline compiles the page shader and creates the pipeline for
// ctx.Format.
func NewPagePipeline(ctx *Context) (*PagePipeline, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	p := &PagePipeline{device: ctx.Device, format: ctx.Format}
	if err := p.createPipeline(); err != nil {
		p.Destroy()
		return nil, err
	}
	slogger().Debug("page pipeline created", "format", ctx.Format)
	return p, nil
}

// createPipeline builds the shader module, layouts and render pipeline.
func (p *PagePipeline) createPipeline() error {
	if pageQuadShaderSource == "" {
		return fmt.Errorf("page_quad shader source is empty")
	}

	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "page_quad_shader",
		Source: hal.ShaderSource{WGSL: pageQuadShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile page_quad shader: %w", err)
	}
	p.shader = shader

	// Bind group layout:
	//   Binding 0: page texture (texture_2d, fragment)
	//   Binding 1: sampler (fragment)
	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "page_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    pageTextureBinding,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    pageSamplerBinding,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create page bind layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "page_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create page pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "page_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create page pipeline: %w", err)
	}
	p.pipeline = pipeline

	return nil
}

// Format returns the color target format the pipeline was built for.
func (p *PagePipeline) Format() gputypes.TextureFormat { return p.format }

// BindGroupLayout returns the fixed layout page bindings are built against.
func (p *PagePipeline) BindGroupLayout() hal.BindGroupLayout { return p.bindLayout }

// Destroy releases all pipeline resources in reverse creation order.
func (p *PagePipeline) Destroy() {
	if p == nil || p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// PageShaderSource returns the WGSL source of the page shader.
func PageShaderSource() string {
	return pageQuadShaderSource
}
