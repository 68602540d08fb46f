package backend

import (
	"errors"
)

// Backend names.
const (
	BackendFitz   = "fitz"
	BackendPDFium = "pdfium"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered, or when none is registered at all.
	ErrBackendNotAvailable = errors.New("backend: not available")
)
