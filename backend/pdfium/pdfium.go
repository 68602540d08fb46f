// Package pdfium is a document source backed by PDFium compiled to
// WebAssembly through go-pdfium. It needs no CGo.
//
// Importing the package registers it with the backend registry under the
// name "pdfium":
//
//	import _ "github.com/gogpu/docview/backend/pdfium"
//
// The WebAssembly runtime is started on first use and shared by every
// document; call Shutdown to stop it.
package pdfium

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	gopdfium "github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"

	"github.com/gogpu/docview"
	"github.com/gogpu/docview/backend"
)

// pointsPerInch is the PDF user-space unit; scale 1 renders at 72 DPI.
const pointsPerInch = 72.0

// instanceTimeout bounds the wait for a WebAssembly worker.
const instanceTimeout = 30 * time.Second

func init() {
	backend.Register(backend.BackendPDFium, func(path string) (docview.Document, error) {
		return Open(path)
	})
}

// shared is the single-worker pool. PDFium is not thread-safe, so
// every call goes through mu.
var shared struct {
	mu       sync.Mutex
	pool     gopdfium.Pool
	instance gopdfium.Pdfium
}

func acquire() (gopdfium.Pdfium, error) {
	if shared.instance != nil {
		return shared.instance, nil
	}
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("pdfium: init webassembly: %w", err)
	}
	instance, err := pool.GetInstance(instanceTimeout)
	if err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("pdfium: get instance: %w", err)
	}
	shared.pool = pool
	shared.instance = instance
	docview.Logger().Debug("pdfium: webassembly runtime started")
	return instance, nil
}

// Shutdown stops the WebAssembly runtime. Documents still open become
// unusable. A later Open starts a new runtime.
func Shutdown() error {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	if shared.pool == nil {
		return nil
	}
	err := shared.pool.Close()
	shared.pool = nil
	shared.instance = nil
	return err
}

// Document is a PDFium document.
type Document struct {
	// instance is the worker the document was opened on. After Shutdown
	// the handle belongs to a dead worker and must not be used.
	instance gopdfium.Pdfium
	doc      references.FPDF_DOCUMENT
	pages    int
	path     string
	closed   bool
}

// Open reads path and opens it as a PDF.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: pdfium: %w", docview.ErrDocumentOpen, err)
	}

	shared.mu.Lock()
	defer shared.mu.Unlock()
	instance, err := acquire()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", docview.ErrDocumentOpen, err)
	}

	opened, err := instance.OpenDocument(&requests.OpenDocument{File: &data})
	if err != nil {
		return nil, fmt.Errorf("%w: pdfium: %s: %w", docview.ErrDocumentOpen, path, err)
	}
	count, err := instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{Document: opened.Document})
	if err != nil {
		_, _ = instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: opened.Document})
		return nil, fmt.Errorf("%w: pdfium: page count: %w", docview.ErrDocumentOpen, err)
	}

	docview.Logger().Debug("pdfium: document opened", "path", path, "pages", count.PageCount)
	return &Document{instance: instance, doc: opened.Document, pages: count.PageCount, path: path}, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.pages }

// Rasterize renders page at 72*scale DPI.
func (d *Document) Rasterize(page int, scale float64) (*docview.PixelBuffer, error) {
	if page < 0 || page >= d.pages {
		return nil, fmt.Errorf("%w: %d of %d", docview.ErrPageOutOfRange, page, d.pages)
	}

	shared.mu.Lock()
	defer shared.mu.Unlock()
	if d.closed || shared.instance != d.instance {
		return nil, fmt.Errorf("%w: pdfium: document closed", docview.ErrPageDecode)
	}

	render, err := d.instance.RenderPageInDPI(&requests.RenderPageInDPI{
		DPI: max(1, int(math.Round(pointsPerInch*scale))),
		Page: requests.Page{
			ByIndex: &requests.PageByIndex{
				Document: d.doc,
				Index:    page,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: pdfium: page %d: %w", docview.ErrPageDecode, page, err)
	}
	// The image lives in WebAssembly memory until Cleanup; copy it out first.
	buf := docview.PixelBufferFromImage(render.Result.Image)
	buf.Pix = append([]byte(nil), buf.Pix...)
	render.Cleanup()
	return buf, nil
}

// Close closes the document. Calling Close more than once is safe.
func (d *Document) Close() error {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	if shared.instance != d.instance {
		return nil
	}
	_, err := d.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: d.doc})
	return err
}

// String returns the document path.
func (d *Document) String() string { return "pdfium:" + d.path }
