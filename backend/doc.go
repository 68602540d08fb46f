// Package backend provides a pluggable document-source abstraction.
//
// A document source opens a file and rasterizes its pages into
// docview.PixelBuffer values. Sources register an opener under a name from
// their init() function and are selected at runtime.
//
// # Backend Registration
//
// Import the sources you want compiled in:
//
//	import (
//		_ "github.com/gogpu/docview/backend/fitz"
//		_ "github.com/gogpu/docview/backend/pdfium"
//	)
//
// # Backend Selection
//
// Use Open with an empty name to pick the best available source, or name
// one explicitly:
//
//	doc, err := backend.Open("", "report.pdf")      // fitz, then pdfium
//	doc, err := backend.Open("pdfium", "report.pdf")
//
// Opener returns the docview.Opener for a name, for use with
// docview.OpenFile.
//
// # Available Backends
//
// - "fitz": MuPDF via go-fitz (CGo); renders PDF, XPS, EPUB, CBZ and images
// - "pdfium": PDFium compiled to WebAssembly via go-pdfium (no CGo)
package backend
