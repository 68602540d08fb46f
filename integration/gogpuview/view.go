// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gogpuview

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/docview"
)

// Common errors returned by View operations.
var (
	// ErrViewClosed is returned when drawing after Close.
	ErrViewClosed = errors.New("gogpuview: view is closed")

	// ErrUnsupportedSurfaceView is returned when the host hands over a
	// surface view of an unknown type.
	ErrUnsupportedSurfaceView = errors.New("gogpuview: unsupported surface view")
)

// OpenFunc creates the viewer once the window's GPU device exists. The
// options carry the surface and viewport size and must be passed on to
// docview.Open.
type OpenFunc func(gctx *docview.GPUContext, opts ...docview.Option) (*docview.Viewer, error)

// Host is the part of gogpu.App the view needs.
type Host interface {
	EventSource() gpucontext.EventSource
	Quit()
}

// View connects window events and draw callbacks to a docview.Viewer.
//
// The viewer is opened lazily on the first Draw, because gogpu creates the
// device only after the window is shown.
type View struct {
	mu      sync.Mutex
	open    OpenFunc
	viewer  *docview.Viewer
	surface *docview.ViewSurface

	width, height uint32

	quit    func()
	redraw  func()
	onError func(error)
	closed  bool
}

// New returns a View that opens its viewer with open.
func New(open OpenFunc) *View {
	return &View{
		open:    open,
		surface: &docview.ViewSurface{},
	}
}

// OnError sets the handler for errors raised by event callbacks, which
// have no caller to return them to. Fatal errors should end the program;
// see docview.IsFatal.
func (v *View) OnError(fn func(error)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onError = fn
}

// Bind subscribes the view to host input and lets Escape quit the host.
func (v *View) Bind(host Host) {
	v.mu.Lock()
	v.quit = host.Quit
	v.mu.Unlock()

	events := host.EventSource()
	events.OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		v.HandleKey(key)
	})
	events.OnMouseMove(v.HandlePointerMove)
	events.OnResize(v.HandleResize)
}

// Viewer returns the viewer, or nil before the first successful Draw.
func (v *View) Viewer() *docview.Viewer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewer
}

// Draw renders one frame into surfaceView, the view gogpu hands out for
// the current swapchain image (dc.SurfaceView()). provider is
// app.GPUContextProvider(); it is only used until the viewer is open.
//
// docview.ErrSurfaceUnavailable means the frame was skipped and the next
// one should be retried. Errors for which docview.IsFatal is true, and any
// error before the viewer is open, are unrecoverable.
func (v *View) Draw(provider any, surfaceView any, width, height uint32) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrViewClosed
	}

	if v.viewer == nil {
		if err := v.openViewer(provider, width, height); err != nil {
			return err
		}
	}

	view, err := halView(surfaceView)
	if err != nil {
		return err
	}
	if width != v.width || height != v.height {
		v.width, v.height = width, height
		if err := v.viewer.SetViewportSize(width, height); err != nil {
			return err
		}
	}
	v.surface.SetView(view, width, height)
	return v.viewer.RenderFrame()
}

func (v *View) openViewer(provider any, width, height uint32) error {
	if provider == nil {
		return fmt.Errorf("%w: no GPU provider yet", docview.ErrSurfaceUnavailable)
	}
	gctx, err := docview.GPUContextFromProvider(provider)
	if err != nil {
		return fmt.Errorf("gogpuview: %w", err)
	}
	if width == 0 || height == 0 {
		width, height = v.width, v.height
	}
	viewer, err := v.open(gctx,
		docview.WithSurface(v.surface),
		docview.WithViewportSize(width, height))
	if err != nil {
		return err
	}
	v.viewer = viewer
	v.width, v.height = width, height
	if wp, ok := provider.(gpucontext.WindowProvider); ok {
		v.redraw = wp.RequestRedraw
	}
	docview.Logger().Info("gogpuview: viewer opened", "width", width, "height", height)
	return nil
}

// halView unwraps the surface view gogpu passes to draw callbacks.
func halView(surfaceView any) (hal.TextureView, error) {
	switch sv := surfaceView.(type) {
	case nil:
		return nil, nil
	case *wgpu.TextureView:
		if sv == nil {
			return nil, nil
		}
		return sv.HalTextureView(), nil
	case hal.TextureView:
		return sv, nil
	case gpucontext.TextureView:
		if sv.IsNil() {
			return nil, nil
		}
		return (*wgpu.TextureView)(sv.Pointer()).HalTextureView(), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedSurfaceView, surfaceView)
	}
}

// HandleKey performs the action bound to key and returns it. Keys other
// than Escape are ignored until the viewer is open.
func (v *View) HandleKey(key gpucontext.Key) Action {
	action := ActionForKey(key)
	if action == ActionNone {
		return action
	}

	v.mu.Lock()
	if action == ActionQuit {
		quit := v.quit
		v.mu.Unlock()
		if quit != nil {
			quit()
		}
		return action
	}
	viewer := v.viewer
	redraw, onError := v.redraw, v.onError
	v.mu.Unlock()
	if viewer == nil {
		return ActionNone
	}

	changed, err := perform(viewer, action)
	if err != nil {
		docview.Logger().Warn("gogpuview: key action failed", "action", action, "err", err)
		if onError != nil {
			onError(err)
		}
	}
	if changed && redraw != nil {
		redraw()
	}
	return action
}

func perform(viewer *docview.Viewer, action Action) (bool, error) {
	switch action {
	case ActionNextPage:
		return viewer.NextPage()
	case ActionPreviousPage:
		return viewer.PreviousPage()
	case ActionFirstPage:
		return viewer.FirstPage()
	case ActionLastPage:
		return viewer.LastPage()
	case ActionZoomIn:
		return viewer.SetScale(min(viewer.Scale()*ZoomStep, docview.MaxScale))
	case ActionZoomOut:
		return viewer.SetScale(viewer.Scale() / ZoomStep)
	default:
		return false, nil
	}
}

// HandleResize records the new window size. Zero sizes (minimized) are
// passed through; the viewer skips surface configuration for them.
func (v *View) HandleResize(width, height int) {
	w, h := uint32(max(width, 0)), uint32(max(height, 0)) //nolint:gosec // clamped to non-negative
	v.mu.Lock()
	v.width, v.height = w, h
	viewer, redraw, onError := v.viewer, v.redraw, v.onError
	v.mu.Unlock()
	if viewer == nil {
		return
	}
	if err := viewer.SetViewportSize(w, h); err != nil && onError != nil {
		onError(err)
	}
	if redraw != nil {
		redraw()
	}
}

// HandlePointerMove tints the clear color after the pointer.
func (v *View) HandlePointerMove(x, y float64) {
	v.mu.Lock()
	viewer, redraw := v.viewer, v.redraw
	v.mu.Unlock()
	if viewer == nil {
		return
	}
	viewer.HandlePointerMove(x, y)
	if redraw != nil {
		redraw()
	}
}

// Close closes the viewer. It must run while the device is still alive,
// typically from app.OnClose. Calling Close more than once is safe.
func (v *View) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.closed = true
	if v.viewer == nil {
		return nil
	}
	return v.viewer.Close()
}
