package docview

// DefaultScale is the supersampling factor applied before rasterization.
const DefaultScale = 3.0

// MaxScale bounds the rasterization scale. A US Letter page at MaxScale is
// 4896x6336 pixels, under the common 8192 texture limit.
const MaxScale = 8.0

// Option configures a Viewer during Open.
//
// Example:
//
//	v, err := docview.Open(gctx, doc,
//		docview.WithScale(2),
//		docview.WithPageCache(8))
type Option func(*viewerOptions)

// viewerOptions holds optional configuration for Open.
type viewerOptions struct {
	scale         float64
	initialPage   int
	cachePages    int
	surface       Surface
	width, height uint32
}

// defaultOptions returns the default viewer options.
func defaultOptions() viewerOptions {
	return viewerOptions{
		scale: DefaultScale,
	}
}

// WithScale sets the rasterization scale. Default: 3.0.
func WithScale(scale float64) Option {
	return func(o *viewerOptions) {
		o.scale = scale
	}
}

// WithInitialPage selects the first page shown. Out of range values are
// clamped to the document.
func WithInitialPage(page int) Option {
	return func(o *viewerOptions) {
		o.initialPage = page
	}
}

// WithPageCache keeps the pixel buffers of up to n recently shown pages so
// that revisiting them skips rasterization. The cache is dropped whenever
// the scale changes. n <= 0 disables caching (the default).
func WithPageCache(n int) Option {
	return func(o *viewerOptions) {
		o.cachePages = n
	}
}

// WithSurface sets the surface frames are drawn to.
func WithSurface(s Surface) Option {
	return func(o *viewerOptions) {
		o.surface = s
	}
}

// WithViewportSize sets the initial viewport size in pixels.
func WithViewportSize(width, height uint32) Option {
	return func(o *viewerOptions) {
		o.width = width
		o.height = height
	}
}
