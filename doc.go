// Package docview is a minimal GPU document viewer core.
//
// # Overview
//
// A [Viewer] shows one page of a paged document at a time. The page is
// rasterized by a [PixelSource] into a [PixelBuffer], uploaded as a GPU
// texture and drawn over a fullscreen quad. Navigation replaces the page
// texture and its binding atomically: a page either becomes fully
// displayable or the previous page stays on screen.
//
// # Quick Start
//
//	gctx, _ := docview.NewGPUContext(device, queue, surfaceFormat)
//	v, err := docview.OpenFile(gctx, backend.Opener(""), "paper.pdf",
//		docview.WithScale(3),
//		docview.WithSurface(surface),
//		docview.WithViewportSize(500, 500))
//	if err != nil {
//		log.Fatal(err) // document open and first page failures are fatal
//	}
//	defer v.Close()
//
//	v.NextPage()     // clamped to the last page
//	v.RenderFrame()  // clear, bind, draw indexed, present
//
// # Errors
//
// Document open, surface loss and out-of-memory are fatal ([IsFatal]).
// Everything else (page decode, buffer size, binding construction, an
// unavailable surface) is recoverable and leaves the viewer unchanged.
//
// # Page sources
//
// Rasterizers live in backend/ subpackages and register themselves with
// the backend registry:
//
//	import _ "github.com/gogpu/docview/backend/fitz"   // MuPDF, CGo
//	import _ "github.com/gogpu/docview/backend/pdfium" // PDFium, WebAssembly
//
// # Logging
//
// docview is silent by default. Use [SetLogger] to enable structured
// logging via log/slog.
package docview
