//go:build docview_fitz

package main

import (
	"github.com/gogpu/docview/backend"
	_ "github.com/gogpu/docview/backend/fitz" // MuPDF source
)

// go-fitz without CGo links purego's fakecgo, which collides with the one
// gogpu links through goffi, so this file is opt-in.
func init() {
	defaultBackend = backend.BackendFitz
}
