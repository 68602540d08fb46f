package docview

import "github.com/gogpu/docview/internal/gpu"

// GPUContext is the device, queue and surface format a Viewer renders with.
type GPUContext = gpu.Context

// Surface is a presentable render target. See gpu.HALSurface for a window
// surface and gpu.ViewSurface for host-managed views.
type Surface = gpu.Surface

// Frame is one acquired surface texture.
type Frame = gpu.Frame

// PageTexture is the GPU copy of the page currently shown.
type PageTexture = gpu.PageTexture

// NewGPUContext wraps an opened device and queue. An undefined format
// selects BGRA8Unorm.
var NewGPUContext = gpu.NewContext

// GPUContextFromProvider extracts a GPUContext from a host that exposes
// HAL-level device and queue accessors, such as a gogpu App provider.
var GPUContextFromProvider = gpu.ContextFromProvider

// HALSurface presents directly to a window surface owned by the viewer.
type HALSurface = gpu.HALSurface

// ViewSurface draws into a view supplied by the host toolkit every frame.
type ViewSurface = gpu.ViewSurface

// NewHALSurface wraps a HAL window surface. Configure must be called before
// the first frame; Viewer does this when a viewport size is known.
var NewHALSurface = gpu.NewHALSurface
