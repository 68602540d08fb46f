// Package fitz is a document source backed by MuPDF through go-fitz.
//
// Importing the package registers it with the backend registry under the
// name "fitz":
//
//	import _ "github.com/gogpu/docview/backend/fitz"
//
// go-fitz links MuPDF through CGo, or through purego when CGO_ENABLED=0.
// Neither mode links together with gogpu: goffi refuses CGo, and its
// fakecgo duplicates purego's. Programs that open a gogpu window should
// use the pdfium backend; cmd/docview links this one only under the
// docview_fitz build tag.
package fitz

import (
	"fmt"
	"sync"

	gofitz "github.com/gen2brain/go-fitz"

	"github.com/gogpu/docview"
	"github.com/gogpu/docview/backend"
)

// pointsPerInch is the PDF user-space unit; scale 1 renders at 72 DPI.
const pointsPerInch = 72.0

func init() {
	backend.Register(backend.BackendFitz, func(path string) (docview.Document, error) {
		return Open(path)
	})
}

// Document is a MuPDF document.
type Document struct {
	mu    sync.Mutex
	doc   *gofitz.Document
	pages int
	path  string
}

// Open opens path. MuPDF detects the format from the content, so XPS,
// EPUB and CBZ files work as well as PDF.
func Open(path string) (*Document, error) {
	doc, err := gofitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: fitz: %s: %w", docview.ErrDocumentOpen, path, err)
	}
	d := &Document{doc: doc, pages: doc.NumPage(), path: path}
	docview.Logger().Debug("fitz: document opened", "path", path, "pages", d.pages)
	return d, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.pages }

// Rasterize renders page at 72*scale DPI.
func (d *Document) Rasterize(page int, scale float64) (*docview.PixelBuffer, error) {
	if page < 0 || page >= d.pages {
		return nil, fmt.Errorf("%w: %d of %d", docview.ErrPageOutOfRange, page, d.pages)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return nil, fmt.Errorf("%w: fitz: document closed", docview.ErrPageDecode)
	}
	img, err := d.doc.ImageDPI(page, pointsPerInch*scale)
	if err != nil {
		return nil, fmt.Errorf("%w: fitz: page %d: %w", docview.ErrPageDecode, page, err)
	}
	return docview.PixelBufferFromImage(img), nil
}

// Close releases the MuPDF context. Calling Close more than once is safe.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return nil
	}
	err := d.doc.Close()
	d.doc = nil
	return err
}

// String returns the document path.
func (d *Document) String() string { return "fitz:" + d.path }
