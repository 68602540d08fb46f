// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpu holds the GPU side of the page viewer.
//
// It owns everything that touches the wgpu HAL: page textures, the bind
// group that exposes a texture to the page shader, the static fullscreen
// quad, the render pipeline and the per-frame command recording.
//
// # Resource model
//
// A page is shown through a [PageBundle], an immutable pair of
// [PageTexture] and [BindingSet]. Bundles are built completely or not at
// all ([BuildPageBundle]), so the caller can keep drawing the previous bundle
// when building a new one fails. A replaced bundle is not destroyed
// immediately: it is handed to the [FrameRenderer], which releases it through
// a [DestroyQueue] once every submission that may reference it has completed.
//
// # Frame recording
//
//	Acquire -> BeginEncoding -> BeginRenderPass(clear)
//	        -> SetPipeline -> SetBindGroup -> SetVertexBuffer -> SetIndexBuffer
//	        -> DrawIndexed(6, 1) -> End -> EndEncoding -> Submit -> Present
//
// Surfaces are abstracted by [Surface] so that the same renderer serves a
// window owned by a host toolkit ([ViewSurface]) and a raw HAL surface
// ([HALSurface]).
package gpu
