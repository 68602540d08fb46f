package docview

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/docview/internal/gpu"
)

// State is the lifecycle state of a Viewer.
type State uint8

const (
	// StateUninitialized is the state before Open completes.
	StateUninitialized State = iota

	// StateLoading is held while a page is rasterized and uploaded.
	StateLoading

	// StateReady means a page texture is bound and frames can be drawn.
	StateReady

	// StateClosed is terminal.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateLoading:
		return "Loading"
	case StateReady:
		return "Ready"
	case StateClosed:
		return "Closed"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// Viewer shows one page of a document at a time on a GPU surface.
//
// The current page index is always in [0, PageCount) and the bound texture
// always holds that page. A failed page change leaves both untouched.
//
// Viewer is safe for concurrent use; event handlers and the draw callback
// may run on different goroutines.
type Viewer struct {
	mu sync.Mutex

	gctx *gpu.Context
	doc  Document

	state State
	page  int
	scale float64

	bundle   *gpu.PageBundle
	pipeline *gpu.PagePipeline
	geometry *gpu.Geometry
	renderer *gpu.FrameRenderer

	surface       Surface
	width, height uint32
	color         gputypes.Color

	cache *pageCache
}

// Open creates a Viewer for doc and shows the initial page.
//
// On success the Viewer owns doc and closes it in Close. On failure doc is
// left open and every GPU resource created so far is released.
func Open(gctx *GPUContext, doc Document, opts ...Option) (*Viewer, error) {
	if gctx == nil {
		return nil, gpu.ErrNilContext
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrDocumentOpen)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := validateScale(o.scale); err != nil {
		return nil, err
	}
	count := doc.PageCount()
	if count <= 0 {
		return nil, ErrNoPages
	}

	v := &Viewer{
		gctx:    gctx,
		doc:     doc,
		state:   StateUninitialized,
		scale:   o.scale,
		surface: o.surface,
		width:   o.width,
		height:  o.height,
		color:   gputypes.Color{R: 0, G: 0, B: 1, A: 1},
		cache:   newPageCache(o.cachePages, o.scale),
	}
	if err := v.initGPU(); err != nil {
		v.releaseGPU()
		return nil, err
	}

	initial := clampPage(o.initialPage, count)
	if err := v.refresh(initial, o.scale, true); err != nil {
		v.releaseGPU()
		return nil, err
	}
	if v.surface != nil && v.width > 0 && v.height > 0 {
		if err := v.surface.Configure(v.width, v.height); err != nil {
			Logger().Warn("docview: surface configuration failed", "err", err)
		}
	}

	Logger().Info("docview: document opened", "pages", count, "scale", o.scale)
	return v, nil
}

// OpenFile opens path with opener and creates a Viewer for it.
// Opener failures are wrapped in ErrDocumentOpen.
func OpenFile(gctx *GPUContext, opener Opener, path string, opts ...Option) (*Viewer, error) {
	if opener == nil {
		return nil, fmt.Errorf("%w: no document backend", ErrDocumentOpen)
	}
	doc, err := opener(path)
	if err != nil {
		if errors.Is(err, ErrDocumentOpen) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrDocumentOpen, path, err)
	}
	v, err := Open(gctx, doc, opts...)
	if err != nil {
		_ = doc.Close()
		return nil, err
	}
	return v, nil
}

func (v *Viewer) initGPU() error {
	var err error
	if v.pipeline, err = gpu.NewPagePipeline(v.gctx); err != nil {
		return err
	}
	if v.geometry, err = gpu.NewGeometry(v.gctx); err != nil {
		return err
	}
	v.renderer, err = gpu.NewFrameRenderer(v.gctx, v.pipeline, v.geometry)
	return err
}

// releaseGPU destroys the renderer first so that in-flight frames finish
// before the resources they reference go away.
func (v *Viewer) releaseGPU() {
	if v.renderer != nil {
		v.renderer.Destroy()
		v.renderer = nil
	}
	if v.bundle != nil {
		v.bundle.Release()
		v.bundle = nil
	}
	if v.geometry != nil {
		v.geometry.Destroy()
		v.geometry = nil
	}
	if v.pipeline != nil {
		v.pipeline.Destroy()
		v.pipeline = nil
	}
}

// RefreshPageTexture rasterizes page at the current scale and binds it.
// On failure the previous page stays bound and the error is returned.
func (v *Viewer) RefreshPageTexture(page int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateClosed {
		return ErrClosed
	}
	return v.refresh(page, v.scale, false)
}

// refresh builds the bundle for page at scale and swaps it in. The old
// bundle is retired only after the new one is complete.
func (v *Viewer) refresh(page int, scale float64, bypassCache bool) error {
	if page < 0 || page >= v.doc.PageCount() {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page, v.doc.PageCount())
	}

	prev := v.state
	v.state = StateLoading
	bundle, buf, err := v.buildBundle(page, scale, bypassCache)
	if err != nil {
		v.state = prev
		Logger().Warn("docview: page not shown", "page", page, "err", err)
		return err
	}

	v.install(page, bundle)
	if scale != v.scale {
		v.scale = scale
		v.cache.reset(scale)
	}
	v.cache.put(page, scale, buf)
	v.state = StateReady
	Logger().Info("docview: page shown", "page", page, "width", buf.Width, "height", buf.Height)
	return nil
}

func (v *Viewer) buildBundle(page int, scale float64, bypassCache bool) (*gpu.PageBundle, *PixelBuffer, error) {
	var buf *PixelBuffer
	if !bypassCache {
		if cached, ok := v.cache.get(page, scale); ok {
			buf = cached
		}
	}
	if buf == nil {
		raster, err := v.doc.Rasterize(page, scale)
		if err != nil {
			if !errors.Is(err, ErrPageDecode) {
				err = fmt.Errorf("%w: page %d: %w", ErrPageDecode, page, err)
			}
			return nil, nil, err
		}
		if raster == nil {
			return nil, nil, fmt.Errorf("%w: page %d: no pixels", ErrPageDecode, page)
		}
		buf = raster
	}
	if err := buf.Validate(); err != nil {
		return nil, nil, err
	}
	if maxDim := v.gctx.MaxTextureDimension; buf.Width > maxDim || buf.Height > maxDim {
		Logger().Debug("docview: page downscaled to fit texture limit",
			"page", page, "width", buf.Width, "height", buf.Height, "max", maxDim)
		buf = buf.Fit(maxDim)
	}

	bundle, err := gpu.BuildPageBundle(v.gctx, v.pipeline, page, buf.Width, buf.Height, buf.Pix)
	if err != nil {
		return nil, nil, err
	}
	return bundle, buf, nil
}

func (v *Viewer) install(page int, bundle *gpu.PageBundle) {
	old := v.bundle
	v.bundle = bundle
	v.page = page
	if old != nil {
		v.renderer.Retire(old)
	}
}

// GoToPage moves delta pages from the current one, clamped to the
// document. It reports whether the page changed. At either end the call is
// a no-op and returns false with a nil error.
func (v *Viewer) GoToPage(delta int) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateClosed {
		return false, ErrClosed
	}
	count := v.doc.PageCount()
	return v.goTo(clampPage(v.page+max(-count, min(delta, count)), count))
}

func (v *Viewer) goTo(target int) (bool, error) {
	if target == v.page {
		return false, nil
	}
	if err := v.refresh(target, v.scale, false); err != nil {
		return false, err
	}
	return true, nil
}

// NextPage advances one page.
func (v *Viewer) NextPage() (bool, error) { return v.GoToPage(1) }

// PreviousPage goes back one page.
func (v *Viewer) PreviousPage() (bool, error) { return v.GoToPage(-1) }

// FirstPage jumps to page 0.
func (v *Viewer) FirstPage() (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateClosed {
		return false, ErrClosed
	}
	return v.goTo(0)
}

// LastPage jumps to the last page.
func (v *Viewer) LastPage() (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateClosed {
		return false, ErrClosed
	}
	return v.goTo(v.doc.PageCount() - 1)
}

// ShowPage jumps to an absolute page index. Unlike GoToPage, indices
// outside the document are rejected with ErrPageOutOfRange.
func (v *Viewer) ShowPage(page int) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateClosed {
		return false, ErrClosed
	}
	if page < 0 || page >= v.doc.PageCount() {
		return false, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page, v.doc.PageCount())
	}
	return v.goTo(page)
}

// SetScale re-rasterizes the current page at scale and drops the page
// cache. Scales outside (0, MaxScale] return ErrInvalidScale. It reports
// whether the scale changed. A failed re-rasterization
// keeps the old scale and texture.
func (v *Viewer) SetScale(scale float64) (bool, error) {
	if err := validateScale(scale); err != nil {
		return false, err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateClosed {
		return false, ErrClosed
	}
	if scale == v.scale {
		return false, nil
	}
	if err := v.refresh(v.page, scale, true); err != nil {
		return false, err
	}
	return true, nil
}

// SetViewportSize records the drawable size and reconfigures the surface.
// A zero width or height (a minimized window) is recorded but the surface
// is left alone.
func (v *Viewer) SetViewportSize(width, height uint32) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateClosed {
		return ErrClosed
	}
	v.width, v.height = width, height
	if width == 0 || height == 0 || v.surface == nil {
		return nil
	}
	return v.surface.Configure(width, height)
}

// HandlePointerMove sets the clear color from the pointer position: red
// follows x and green follows y across the viewport.
func (v *Viewer) HandlePointerMove(x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.width == 0 || v.height == 0 {
		return
	}
	v.color = gputypes.Color{
		R: clampUnit(x / float64(v.width)),
		G: clampUnit(y / float64(v.height)),
		B: 1,
		A: 1,
	}
}

// RenderFrame draws the bound page over the clear color and presents it.
//
// ErrSurfaceUnavailable means the frame was skipped; the surface has been
// reconfigured and the next call is expected to succeed. Errors for which
// IsFatal reports true mean the viewer cannot continue.
func (v *Viewer) RenderFrame() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateClosed {
		return ErrClosed
	}
	if v.surface == nil {
		return fmt.Errorf("%w: no surface attached", ErrSurfaceUnavailable)
	}
	err := v.renderer.Render(v.surface, v.bundle, v.color)
	if errors.Is(err, ErrSurfaceUnavailable) && v.width > 0 && v.height > 0 {
		Logger().Warn("docview: surface unavailable, reconfiguring", "err", err)
		if cerr := v.surface.Configure(v.width, v.height); cerr != nil {
			Logger().Warn("docview: surface reconfiguration failed", "err", cerr)
		}
	}
	return err
}

// SetSurface replaces the surface frames are drawn to.
func (v *Viewer) SetSurface(s Surface) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.surface = s
}

// Close waits for the GPU, releases every resource and closes the
// document. Calling Close more than once is safe.
func (v *Viewer) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateClosed {
		return nil
	}
	v.state = StateClosed
	v.releaseGPU()
	v.cache.reset(v.scale)
	err := v.doc.Close()
	Logger().Info("docview: viewer closed")
	return err
}

// CurrentPage returns the index of the page on screen.
func (v *Viewer) CurrentPage() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// PageCount returns the number of pages in the document.
func (v *Viewer) PageCount() int { return v.doc.PageCount() }

// Scale returns the rasterization scale.
func (v *Viewer) Scale() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scale
}

// State returns the lifecycle state.
func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// ViewportSize returns the last size passed to SetViewportSize.
func (v *Viewer) ViewportSize() (width, height uint32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

// ViewportColor returns the current clear color.
func (v *Viewer) ViewportColor() gputypes.Color {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.color
}

// Texture returns the bound page texture, or nil after Close.
func (v *Viewer) Texture() *PageTexture {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.bundle == nil {
		return nil
	}
	return v.bundle.Texture()
}

// CacheStats reports page cache usage. It is zero when caching is off.
func (v *Viewer) CacheStats() CacheStats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cache.stats()
}

// PendingReleases returns the number of retired page textures still
// waiting for the GPU.
func (v *Viewer) PendingReleases() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.renderer == nil {
		return 0
	}
	return v.renderer.PendingReleases()
}

func validateScale(scale float64) error {
	if scale <= 0 || scale > MaxScale || math.IsNaN(scale) {
		return fmt.Errorf("%w: %v", ErrInvalidScale, scale)
	}
	return nil
}

func clampPage(page, count int) int {
	return max(0, min(page, count-1))
}

func clampUnit(f float64) float64 {
	return max(0, min(f, 1))
}
