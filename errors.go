package docview

import (
	"errors"
	"fmt"

	"github.com/gogpu/docview/internal/gpu"
)

// Viewer errors.
var (
	// ErrDocumentOpen is returned when the document cannot be opened or
	// parsed. Fatal at startup.
	ErrDocumentOpen = errors.New("docview: cannot open document")

	// ErrPageDecode is returned when a page cannot be rasterized. The
	// viewer keeps showing the previous page.
	ErrPageDecode = errors.New("docview: page decode failed")

	// ErrPageOutOfRange is returned for page indices outside
	// [0, PageCount). It wraps ErrPageDecode.
	ErrPageOutOfRange = fmt.Errorf("%w: page index out of range", ErrPageDecode)

	// ErrNoPages is returned when opening a document without pages.
	// It wraps ErrPageDecode.
	ErrNoPages = fmt.Errorf("%w: document has no pages", ErrPageDecode)

	// ErrInvalidScale is returned for a scale outside (0, MaxScale].
	ErrInvalidScale = errors.New("docview: scale must be in (0, 8]")

	// ErrClosed is returned by operations on a closed viewer.
	ErrClosed = errors.New("docview: viewer is closed")
)

// GPU errors shared with the internal GPU layer so that errors.Is works
// across the package boundary.
var (
	// ErrInvalidBufferSize is returned when a pixel buffer is not
	// width*height*4 bytes long.
	ErrInvalidBufferSize = gpu.ErrInvalidBufferSize

	// ErrBindingConstruction is returned when a page texture cannot be
	// bound to the pipeline.
	ErrBindingConstruction = gpu.ErrBindingConstruction

	// ErrSurfaceUnavailable is returned when a frame cannot be acquired.
	// The surface is reconfigured and the frame retried on the next redraw.
	ErrSurfaceUnavailable = gpu.ErrSurfaceUnavailable

	// ErrSurfaceLost is returned when the surface or device is gone.
	ErrSurfaceLost = gpu.ErrSurfaceLost

	// ErrOutOfMemory is returned when the GPU runs out of memory.
	ErrOutOfMemory = gpu.ErrOutOfMemory
)

// IsFatal reports whether err must terminate the viewer: the document
// could not be opened, the surface was lost, or the device is out of
// memory. All other errors leave the viewer in its last good state.
func IsFatal(err error) bool {
	return errors.Is(err, ErrDocumentOpen) ||
		errors.Is(err, ErrSurfaceLost) ||
		errors.Is(err, ErrOutOfMemory)
}
