// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// FrameRenderer records and submits one command sequence per frame:
// clear, bind pipeline, bind page binding, bind quad, draw indexed, present.
//
// It also tracks submissions in flight so that retired page bundles and
// command encoders are only released or reused after the GPU is done with
// them. FrameRenderer is not safe for concurrent use; it runs on the thread
// that owns the viewer.
type FrameRenderer struct {
	ctx      *Context
	pipeline *PagePipeline
	geometry *Geometry

	retired  DestroyQueue
	inFlight []inFlightFrame
	encoders []hal.CommandEncoder

	lastSubmission uint64
	frames         uint64
	destroyed      bool
}

// inFlightFrame is a submitted command buffer and the encoder that
// produced it.
type inFlightFrame struct {
	index   uint64
	encoder hal.CommandEncoder
	cmdBuf  hal.CommandBuffer
}

// NewFrameRenderer creates a renderer drawing with pipeline and geometry.
// The caller keeps ownership of both.
func NewFrameRenderer(ctx *Context, pipeline *PagePipeline, geometry *Geometry) (*FrameRenderer, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if pipeline == nil || geometry == nil {
		return nil, fmt.Errorf("gpu: frame renderer needs a pipeline and geometry")
	}
	return &FrameRenderer{ctx: ctx, pipeline: pipeline, geometry: geometry}, nil
}

// Render draws one frame to surface. When bundle is nil or no longer valid
// only the clear color is drawn.
//
// Acquisition failures are returned as ErrSurfaceUnavailable or
// ErrSurfaceLost. On any failure after acquisition the frame is discarded,
// so a frame is either fully drawn and presented or dropped.
func (r *FrameRenderer) Render(surface Surface, bundle *PageBundle, clear gputypes.Color) error {
	if r.destroyed {
		return ErrRendererClosed
	}
	r.poll()

	frame, err := surface.Acquire()
	if err != nil {
		return err
	}

	encoder, err := r.acquireEncoder()
	if err != nil {
		surface.Discard(frame)
		return err
	}
	if err := encoder.BeginEncoding("page_frame"); err != nil {
		r.encoders = append(r.encoders, encoder)
		surface.Discard(frame)
		return fmt.Errorf("begin encoding: %w", classifyHALError(err))
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "page_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       frame.View,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clear,
		}},
	})
	if bundle != nil && !bundle.IsReleased() && bundle.Binding().Valid() {
		r.recordDraw(rp, bundle)
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.Destroy()
		surface.Discard(frame)
		return fmt.Errorf("end encoding: %w", classifyHALError(err))
	}

	index, err := r.ctx.Queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		encoder.ResetAll([]hal.CommandBuffer{cmdBuf})
		r.encoders = append(r.encoders, encoder)
		surface.Discard(frame)
		return fmt.Errorf("submit: %w", classifyHALError(err))
	}
	r.inFlight = append(r.inFlight, inFlightFrame{index: index, encoder: encoder, cmdBuf: cmdBuf})
	r.lastSubmission = index
	r.frames++

	if err := surface.Present(frame); err != nil {
		return err
	}
	return nil
}

// recordDraw issues the single indexed draw of the page quad.
func (r *FrameRenderer) recordDraw(rp hal.RenderPassEncoder, bundle *PageBundle) {
	rp.SetPipeline(r.pipeline.pipeline)
	bundle.Binding().record(rp)
	r.geometry.record(rp)
	rp.DrawIndexed(r.geometry.IndexCount(), 1, 0, 0, 0)
}

// Retire hands a replaced bundle to the renderer. It is released once the
// last submission issued so far has completed, which is immediately when
// nothing is in flight.
func (r *FrameRenderer) Retire(bundle *PageBundle) {
	if bundle == nil {
		return
	}
	if r.destroyed {
		bundle.Release()
		return
	}
	r.retired.Defer(r.lastSubmission, bundle.Release)
	r.poll()
}

// PendingReleases returns the number of retired resources not yet released.
func (r *FrameRenderer) PendingReleases() int { return r.retired.Len() }

// FramesSubmitted returns how many frames have been submitted.
func (r *FrameRenderer) FramesSubmitted() uint64 { return r.frames }

// poll recycles encoders and releases retired bundles whose submissions
// have completed.
func (r *FrameRenderer) poll() {
	completed := r.ctx.Queue.PollCompleted()
	kept := r.inFlight[:0]
	for _, f := range r.inFlight {
		if f.index <= completed {
			f.encoder.ResetAll([]hal.CommandBuffer{f.cmdBuf})
			r.encoders = append(r.encoders, f.encoder)
			continue
		}
		kept = append(kept, f)
	}
	clear(r.inFlight[len(kept):])
	r.inFlight = kept

	if n := r.retired.Triage(completed); n > 0 {
		slogger().Debug("retired page resources released", "count", n, "completed", completed)
	}
}

// acquireEncoder reuses a recycled encoder or creates a new one.
func (r *FrameRenderer) acquireEncoder() (hal.CommandEncoder, error) {
	if n := len(r.encoders); n > 0 {
		enc := r.encoders[n-1]
		r.encoders[n-1] = nil
		r.encoders = r.encoders[:n-1]
		return enc, nil
	}
	enc, err := r.ctx.Device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "page_frame_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", classifyHALError(err))
	}
	return enc, nil
}

// Destroy waits for the GPU, releases all retired bundles and destroys the
// pooled encoders. Pipeline and geometry are left to their owner.
func (r *FrameRenderer) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true

	if err := r.ctx.WaitIdle(); err != nil {
		slogger().Warn("wait idle before renderer destroy", "err", err)
	}
	for _, f := range r.inFlight {
		f.encoder.ResetAll([]hal.CommandBuffer{f.cmdBuf})
		r.encoders = append(r.encoders, f.encoder)
	}
	r.inFlight = nil
	r.retired.Flush()

	for _, enc := range r.encoders {
		enc.Destroy()
	}
	r.encoders = nil
}
