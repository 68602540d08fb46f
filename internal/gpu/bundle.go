// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"
	"sync/atomic"
)

// PageBundle is the complete GPU state for one displayed page: the texture
// and the binding that exposes it to the pipeline. Bundles are immutable;
// replacing the displayed page installs a different bundle.
type PageBundle struct {
	page    int
	texture *PageTexture
	binding *BindingSet

	released atomic.Bool
}

// BuildPageBundle creates texture and binding for one page.
// Either both are built or an error is returned and nothing stays allocated.
func BuildPageBundle(ctx *Context, pipeline *PagePipeline, page int, width, height uint32, pix []byte) (*PageBundle, error) {
	if pipeline == nil {
		return nil, fmt.Errorf("%w: nil pipeline", ErrBindingConstruction)
	}
	tex, err := CreatePageTexture(ctx, width, height, pix, fmt.Sprintf("page_%d", page))
	if err != nil {
		return nil, err
	}
	binding, err := BuildBindingSet(ctx, pipeline.BindGroupLayout(), tex)
	if err != nil {
		tex.Release()
		return nil, err
	}
	return &PageBundle{page: page, texture: tex, binding: binding}, nil
}

// Page returns the page index the bundle was built for.
func (b *PageBundle) Page() int { return b.page }

// Texture returns the page texture.
func (b *PageBundle) Texture() *PageTexture { return b.texture }

// Binding returns the bind group wrapper.
func (b *PageBundle) Binding() *BindingSet { return b.binding }

// IsReleased reports whether Release has been called.
func (b *PageBundle) IsReleased() bool { return b.released.Load() }

// Release destroys the binding first, then the texture it references.
func (b *PageBundle) Release() {
	if b == nil || b.released.Swap(true) {
		return
	}
	b.binding.Release()
	b.texture.Release()
}
