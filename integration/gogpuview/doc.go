// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gogpuview binds a docview.Viewer to a gogpu window.
//
// The window owns the swapchain. Each draw callback hands the viewer the
// window's current surface view, the viewer draws the page quad into it,
// and gogpu presents it after the callback returns.
//
// # Usage
//
//	app := gogpu.NewApp(gogpu.DefaultConfig().
//		WithTitle(cfg.Title).
//		WithSize(cfg.Width, cfg.Height).
//		WithContinuousRender(false))
//
//	view := gogpuview.New(func(gctx *docview.GPUContext, opts ...docview.Option) (*docview.Viewer, error) {
//		return docview.Open(gctx, doc, opts...)
//	})
//	view.Bind(app)
//
//	app.OnDraw(func(dc *gogpu.Context) {
//		w, h := dc.SurfaceSize()
//		if err := view.Draw(app.GPUContextProvider(), dc.SurfaceView(), uint32(w), uint32(h)); err != nil {
//			...
//		}
//	})
//	app.OnClose(func() { _ = view.Close() })
//
// # Keys
//
//   - Escape quits
//   - Down and PageDown show the next page, Up and PageUp the previous one
//   - Home and End jump to the first and last page
//   - "=" and "+" zoom in, "-" zooms out
//
// # Integration Without Circular Imports
//
// This package uses interfaces to avoid importing gogpu directly:
//
//   - gpucontext.EventSource for input
//   - gpucontext.WindowProvider for redraw requests
//   - a HAL provider (HalDevice, HalQueue) for the shared device
package gogpuview
