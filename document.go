package docview

// PixelSource rasterizes pages of an opened document.
//
// Rasterize returns a buffer for page (0-based) at scale, a multiplier on
// the page's native size. Implementations return an error wrapping
// ErrPageOutOfRange for bad indices and ErrPageDecode for decoder failures.
type PixelSource interface {
	Rasterize(page int, scale float64) (*PixelBuffer, error)
}

// Document is an opened paged document.
type Document interface {
	PixelSource

	// PageCount returns the number of pages, >= 0. It never changes.
	PageCount() int

	// Close releases the document.
	Close() error
}

// Opener opens the document at path. Failures wrap ErrDocumentOpen.
type Opener func(path string) (Document, error)
