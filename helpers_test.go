package docview

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

var (
	errDecoder   = errors.New("decoder exploded")
	errBindGroup = errors.New("bind group rejected")
)

// newTestContext opens a noop device and wraps it in a GPUContext.
func newTestContext(t *testing.T) *GPUContext {
	t.Helper()
	return newWrappedContext(t, func(d hal.Device) hal.Device { return d })
}

// newWrappedContext is newTestContext with the device passed through wrap.
func newWrappedContext(t *testing.T, wrap func(hal.Device) hal.Device) *GPUContext {
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
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	gctx, err := NewGPUContext(wrap(openDev.Device), &laggingQueue{Queue: openDev.Queue, lag: -1}, gputypes.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("NewGPUContext: %v", err)
	}
	return gctx
}

// flakyDevice fails CreateBindGroup while failBindGroup is set.
type flakyDevice struct {
	hal.Device
	failBindGroup bool
}

func (d *flakyDevice) CreateBindGroup(desc *hal.BindGroupDescriptor) (hal.BindGroup, error) {
	if d.failBindGroup {
		return nil, errBindGroup
	}
	return d.Device.CreateBindGroup(desc)
}

// laggingQueue numbers submissions itself. With lag < 0 every submission
// completes at once; otherwise PollCompleted trails by lag submissions.
type laggingQueue struct {
	hal.Queue
	submitted uint64
	lag       int
}

func (q *laggingQueue) Submit(bufs []hal.CommandBuffer) (uint64, error) {
	if _, err := q.Queue.Submit(bufs); err != nil {
		return 0, err
	}
	q.submitted++
	return q.submitted, nil
}

func (q *laggingQueue) PollCompleted() uint64 {
	switch {
	case q.lag < 0:
		return q.submitted
	case q.submitted <= uint64(q.lag):
		return 0
	default:
		return q.submitted - uint64(q.lag)
	}
}

// fakeDocument produces solid pages whose size depends on the page index so
// that tests can tell pages apart by texture dimensions.
type fakeDocument struct {
	pages         int
	width, height int

	fail       map[int]error
	badSize    map[int]bool
	rasterized []int
	closed     int
}

func newFakeDocument(pages int) *fakeDocument {
	return &fakeDocument{pages: pages, width: 20, height: 30}
}

// pageSize is the expected size of page at scale.
func (d *fakeDocument) pageSize(page int, scale float64) (uint32, uint32) {
	return uint32(float64(d.width)*scale) + uint32(page), uint32(float64(d.height) * scale)
}

func (d *fakeDocument) PageCount() int { return d.pages }

func (d *fakeDocument) Rasterize(page int, scale float64) (*PixelBuffer, error) {
	d.rasterized = append(d.rasterized, page)
	if page < 0 || page >= d.pages {
		return nil, fmt.Errorf("%w: %d", ErrPageOutOfRange, page)
	}
	if err := d.fail[page]; err != nil {
		return nil, err
	}
	w, h := d.pageSize(page, scale)
	buf := NewPixelBuffer(w, h)
	for i := range buf.Pix {
		buf.Pix[i] = byte(page + 1)
	}
	if d.badSize[page] {
		buf.Pix = buf.Pix[:len(buf.Pix)-1]
	}
	return buf, nil
}

func (d *fakeDocument) Close() error {
	d.closed++
	return nil
}

// failOn makes page fail with err.
func (d *fakeDocument) failOn(page int, err error) {
	if d.fail == nil {
		d.fail = make(map[int]error)
	}
	d.fail[page] = err
}

// recordingSurface hands out one noop view per frame and records what
// happened to it.
type recordingSurface struct {
	view hal.TextureView

	acquireErr error
	configured [][2]uint32
	presented  int
	discarded  int
}

func newRecordingSurface(t *testing.T, gctx *GPUContext) *recordingSurface {
	t.Helper()
	tex, err := gctx.Device.CreateTexture(&hal.TextureDescriptor{
		Label:         "test_target",
		Size:          hal.Extent3D{Width: 64, Height: 64, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gctx.Format,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	view, err := gctx.Device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: "test_target_view"})
	if err != nil {
		t.Fatalf("CreateTextureView: %v", err)
	}
	t.Cleanup(func() {
		gctx.Device.DestroyTextureView(view)
		gctx.Device.DestroyTexture(tex)
	})
	return &recordingSurface{view: view}
}

func (s *recordingSurface) Configure(width, height uint32) error {
	s.configured = append(s.configured, [2]uint32{width, height})
	return nil
}

func (s *recordingSurface) Acquire() (Frame, error) {
	if s.acquireErr != nil {
		return Frame{}, s.acquireErr
	}
	return Frame{View: s.view, Width: 64, Height: 64}, nil
}

func (s *recordingSurface) Present(Frame) error {
	s.presented++
	return nil
}

func (s *recordingSurface) Discard(Frame) { s.discarded++ }

// openViewer opens a viewer over doc and closes it at cleanup.
func openViewer(t *testing.T, gctx *GPUContext, doc Document, opts ...Option) *Viewer {
	t.Helper()
	v, err := Open(gctx, doc, opts...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = v.Close() })
	return v
}

// assertPage checks the current index and that the bound texture has the
// dimensions the document produces for that page.
func assertPage(t *testing.T, v *Viewer, doc *fakeDocument, want int) {
	t.Helper()
	if got := v.CurrentPage(); got != want {
		t.Fatalf("CurrentPage() = %d, want %d", got, want)
	}
	tex := v.Texture()
	if tex == nil {
		t.Fatal("Texture() = nil")
	}
	w, h := doc.pageSize(want, v.Scale())
	if tex.Width() != w || tex.Height() != h {
		t.Errorf("texture = %dx%d, want %dx%d", tex.Width(), tex.Height(), w, h)
	}
	if tex.IsReleased() {
		t.Error("bound texture is released")
	}
}
