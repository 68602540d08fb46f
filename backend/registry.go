package backend

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/docview"
)

// registry holds registered document openers.
var (
	registryMu sync.RWMutex
	openers    = make(map[string]docview.Opener)
	// Priority order for backend selection (first available wins).
	// Fitz is preferred when linked. It cannot share a binary with gogpu,
	// so windowed programs only ever see pdfium.
	backendPriority = []string{BackendFitz, BackendPDFium}
)

// Register registers an opener with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, opener docview.Opener) {
	registryMu.Lock()
	defer registryMu.Unlock()
	openers[name] = opener
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(openers, name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(openers))
	for name := range openers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := openers[name]
	return ok
}

// Get returns the opener registered under name, or nil.
func Get(name string) docview.Opener {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return openers[name]
}

// Default returns the name of the best available backend based on
// priority, falling back to the alphabetically first registered one.
// Returns "" if no backends are registered.
func Default() string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range backendPriority {
		if _, ok := openers[name]; ok {
			return name
		}
	}
	if len(openers) == 0 {
		return ""
	}
	names := make([]string, 0, len(openers))
	for name := range openers {
		names = append(names, name)
	}
	return slices.Min(names)
}

// Opener returns the opener for name, or for the default backend when name
// is empty.
func Opener(name string) (docview.Opener, error) {
	if name == "" {
		name = Default()
		if name == "" {
			return nil, fmt.Errorf("%w: no document backend compiled in", ErrBackendNotAvailable)
		}
	}
	opener := Get(name)
	if opener == nil {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrBackendNotAvailable, name, Available())
	}
	return opener, nil
}

// Open opens path with the named backend, or the default one when name is
// empty. Failures wrap docview.ErrDocumentOpen.
func Open(name, path string) (docview.Document, error) {
	opener, err := Opener(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", docview.ErrDocumentOpen, err)
	}
	docview.Logger().Debug("backend: opening document", "backend", name, "path", path)
	return opener(path)
}
