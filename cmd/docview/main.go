// Command docview shows a document one page at a time in a GPU window.
//
// Usage:
//
//	docview <file>
//
// Keys: Escape quits, Down/PageDown and Up/PageUp turn pages, Home/End
// jump to the first/last page, "=" and "-" zoom. Settings are read from
// .env, docview.env and DOCVIEW_* environment variables.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gogpu/gogpu"

	"github.com/gogpu/docview"
	"github.com/gogpu/docview/backend"
	_ "github.com/gogpu/docview/backend/pdfium" // PDFium WebAssembly source
	"github.com/gogpu/docview/integration/gogpuview"
	"github.com/gogpu/docview/internal/config"
)

// defaultBackend is used when DOCVIEW_BACKEND is empty. The MuPDF source
// is only linked in with the docview_fitz build tag (see fitz.go).
var defaultBackend = backend.BackendPDFium

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	cfg, err := config.Load(args)
	if errors.Is(err, config.ErrUsage) {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "docview: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	docview.SetLogger(logger)

	name := backendName(cfg)
	doc, err := backend.Open(name, cfg.Path)
	if err != nil {
		logger.Error("cannot open document", "path", cfg.Path, "backend", name, "err", err)
		return 1
	}

	return show(cfg, doc, logger)
}

func backendName(cfg config.Config) string {
	if cfg.Backend != "" {
		return cfg.Backend
	}
	return defaultBackend
}

// show runs the window until it is closed. The document is owned by the
// viewer once it opens; before that show closes it itself.
func show(cfg config.Config, doc docview.Document, logger *slog.Logger) int {
	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(cfg.Title).
		WithSize(cfg.Width, cfg.Height).
		WithContinuousRender(false))

	exitCode := 0
	fail := func(err error) {
		logger.Error("fatal error", "err", err)
		exitCode = 1
		app.Quit()
	}

	view := gogpuview.New(func(gctx *docview.GPUContext, opts ...docview.Option) (*docview.Viewer, error) {
		opts = append(opts,
			docview.WithScale(cfg.Scale),
			docview.WithPageCache(cfg.CachePages))
		return docview.Open(gctx, doc, opts...)
	})
	view.OnError(func(err error) {
		if docview.IsFatal(err) {
			fail(err)
		}
	})
	view.Bind(app)

	opened := false
	app.OnDraw(func(dc *gogpu.Context) {
		if exitCode != 0 {
			return
		}
		sw, sh := dc.SurfaceSize()
		err := view.Draw(app.GPUContextProvider(), dc.SurfaceView(), uint32(sw), uint32(sh)) //nolint:gosec // surface sizes are small and positive
		if view.Viewer() != nil && !opened {
			opened = true
			logger.Info("viewer ready", "backend", dc.Backend(), "pages", doc.PageCount())
		}
		switch {
		case err == nil:
		case !opened && !errors.Is(err, docview.ErrSurfaceUnavailable):
			fail(err)
		case docview.IsFatal(err):
			fail(err)
		default:
			logger.Debug("frame skipped", "err", err)
		}
	})

	app.OnClose(func() {
		if err := view.Close(); err != nil {
			logger.Warn("close viewer", "err", err)
		}
	})

	if err := app.Run(); err != nil {
		logger.Error("window", "err", err)
		exitCode = 1
	}
	if !opened {
		_ = doc.Close()
	}
	return exitCode
}
