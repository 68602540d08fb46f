// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func newTestPipeline(t *testing.T, ctx *Context) *PagePipeline {
	t.Helper()
	p, err := NewPagePipeline(ctx)
	if err != nil {
		t.Fatalf("NewPagePipeline: %v", err)
	}
	t.Cleanup(p.Destroy)
	return p
}

func TestBuildBindingSet(t *testing.T) {
	ctx, dev := newTestContext(t)
	p := newTestPipeline(t, ctx)

	tex, err := CreatePageTexture(ctx, 8, 8, rgba(8, 8, 7), "page_3")
	if err != nil {
		t.Fatalf("CreatePageTexture: %v", err)
	}
	defer tex.Release()

	b, err := BuildBindingSet(ctx, p.BindGroupLayout(), tex)
	if err != nil {
		t.Fatalf("BuildBindingSet: %v", err)
	}
	defer b.Release()

	if b.Texture() != tex {
		t.Error("binding does not reference the texture")
	}
	if !b.Valid() {
		t.Error("fresh binding must be valid")
	}

	desc := dev.lastBindGroupDesc
	if len(desc.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(desc.Entries))
	}
	if _, ok := desc.Entries[0].Resource.(gputypes.TextureViewBinding); !ok || desc.Entries[0].Binding != 0 {
		t.Errorf("entry 0 = %+v, want texture view at binding 0", desc.Entries[0])
	}
	if _, ok := desc.Entries[1].Resource.(gputypes.SamplerBinding); !ok || desc.Entries[1].Binding != 1 {
		t.Errorf("entry 1 = %+v, want sampler at binding 1", desc.Entries[1])
	}
}

func TestBuildBindingSet_Idempotent(t *testing.T) {
	ctx, dev := newTestContext(t)
	p := newTestPipeline(t, ctx)

	tex, _ := CreatePageTexture(ctx, 2, 2, rgba(2, 2, 0), "page")
	defer tex.Release()

	a, err := BuildBindingSet(ctx, p.BindGroupLayout(), tex)
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	first := *dev.lastBindGroupDesc
	b, err := BuildBindingSet(ctx, p.BindGroupLayout(), tex)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	second := *dev.lastBindGroupDesc

	if a.Texture() != b.Texture() {
		t.Error("bindings reference different textures")
	}
	if first.Label != second.Label || first.Layout != second.Layout || len(first.Entries) != len(second.Entries) {
		t.Errorf("descriptors differ: %+v vs %+v", first, second)
	}
	for i := range first.Entries {
		if first.Entries[i] != second.Entries[i] {
			t.Errorf("entry %d differs: %+v vs %+v", i, first.Entries[i], second.Entries[i])
		}
	}
	a.Release()
	b.Release()
}

func TestBuildBindingSet_Errors(t *testing.T) {
	ctx, dev := newTestContext(t)
	p := newTestPipeline(t, ctx)

	if _, err := BuildBindingSet(ctx, p.BindGroupLayout(), nil); !errors.Is(err, ErrBindingConstruction) {
		t.Errorf("nil texture: err = %v", err)
	}
	if _, err := BuildBindingSet(ctx, nil, nil); !errors.Is(err, ErrBindingConstruction) {
		t.Errorf("nil layout: err = %v", err)
	}

	released, _ := CreatePageTexture(ctx, 1, 1, rgba(1, 1, 0), "gone")
	released.Release()
	_, err := BuildBindingSet(ctx, p.BindGroupLayout(), released)
	if !errors.Is(err, ErrBindingConstruction) || !errors.Is(err, ErrTextureReleased) {
		t.Errorf("released texture: err = %v", err)
	}

	tex, _ := CreatePageTexture(ctx, 1, 1, rgba(1, 1, 0), "ok")
	defer tex.Release()
	dev.failBindGroup = true
	if _, err := BuildBindingSet(ctx, p.BindGroupLayout(), tex); !errors.Is(err, ErrBindingConstruction) {
		t.Errorf("device failure: err = %v", err)
	}
}

func TestBindingSet_ReleaseKeepsTexture(t *testing.T) {
	ctx, dev := newTestContext(t)
	p := newTestPipeline(t, ctx)

	tex, _ := CreatePageTexture(ctx, 1, 1, rgba(1, 1, 0), "page")
	defer tex.Release()
	b, _ := BuildBindingSet(ctx, p.BindGroupLayout(), tex)
	b.Release()
	b.Release()

	if dev.groupsDestroyed != 1 {
		t.Errorf("groupsDestroyed = %d, want 1", dev.groupsDestroyed)
	}
	if tex.IsReleased() {
		t.Error("releasing a binding must not release its texture")
	}
	if b.Valid() {
		t.Error("released binding reports Valid")
	}
}

func TestBuildPageBundle(t *testing.T) {
	ctx, _ := newTestContext(t)
	p := newTestPipeline(t, ctx)

	b, err := BuildPageBundle(ctx, p, 4, 10, 12, rgba(10, 12, 9))
	if err != nil {
		t.Fatalf("BuildPageBundle: %v", err)
	}
	if b.Page() != 4 {
		t.Errorf("Page = %d, want 4", b.Page())
	}
	if b.Texture().Width() != 10 || b.Texture().Height() != 12 {
		t.Errorf("texture = %v", b.Texture())
	}
	if b.Binding().Texture() != b.Texture() {
		t.Error("bundle binding references a foreign texture")
	}

	b.Release()
	if !b.IsReleased() || !b.Texture().IsReleased() || b.Binding().Valid() {
		t.Error("Release must release texture and binding")
	}
}

func TestBuildPageBundle_AllOrNothing(t *testing.T) {
	ctx, dev := newTestContext(t)
	p := newTestPipeline(t, ctx)

	dev.failBindGroup = true
	_, err := BuildPageBundle(ctx, p, 0, 2, 2, rgba(2, 2, 0))
	if !errors.Is(err, ErrBindingConstruction) {
		t.Fatalf("err = %v, want ErrBindingConstruction", err)
	}
	if dev.liveTextures() != 0 {
		t.Errorf("live textures = %d, want 0 after failed bundle", dev.liveTextures())
	}

	dev.failBindGroup = false
	if _, err := BuildPageBundle(ctx, p, 0, 2, 2, rgba(2, 1, 0)); !errors.Is(err, ErrInvalidBufferSize) {
		t.Errorf("err = %v, want ErrInvalidBufferSize", err)
	}
	if _, err := BuildPageBundle(ctx, nil, 0, 1, 1, rgba(1, 1, 0)); !errors.Is(err, ErrBindingConstruction) {
		t.Errorf("nil pipeline: err = %v", err)
	}
}
