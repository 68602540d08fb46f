// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestCreatePageTexture(t *testing.T) {
	ctx, dev := newTestContext(t)

	tex, err := CreatePageTexture(ctx, 30, 20, rgba(30, 20, 0xff), "page_0")
	if err != nil {
		t.Fatalf("CreatePageTexture: %v", err)
	}
	defer tex.Release()

	if tex.Width() != 30 || tex.Height() != 20 {
		t.Errorf("size = %dx%d, want 30x20", tex.Width(), tex.Height())
	}
	if tex.SizeBytes() != 30*20*4 {
		t.Errorf("SizeBytes = %d, want %d", tex.SizeBytes(), 30*20*4)
	}
	if tex.View() == nil || tex.Sampler() == nil {
		t.Error("view and sampler must be created")
	}
	if dev.lastTextureDesc.Format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("format = %v, want RGBA8Unorm for a linear surface", dev.lastTextureDesc.Format)
	}
	if dev.texturesCreated != 1 || dev.viewsCreated != 1 || dev.samplersCreated != 1 {
		t.Errorf("created texture/view/sampler = %d/%d/%d, want 1/1/1",
			dev.texturesCreated, dev.viewsCreated, dev.samplersCreated)
	}
}

func TestCreatePageTexture_InvalidBufferSize(t *testing.T) {
	ctx, dev := newTestContext(t)

	tests := []struct {
		name string
		w, h uint32
		n    int
	}{
		{"short", 4, 4, 4*4*4 - 1},
		{"long", 4, 4, 4*4*4 + 4},
		{"rgb", 4, 4, 4 * 4 * 3},
		{"empty", 2, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreatePageTexture(ctx, tt.w, tt.h, make([]byte, tt.n), "bad")
			if !errors.Is(err, ErrInvalidBufferSize) {
				t.Fatalf("err = %v, want ErrInvalidBufferSize", err)
			}
		})
	}
	if dev.texturesCreated != 0 {
		t.Errorf("texturesCreated = %d, want 0 (validation precedes allocation)", dev.texturesCreated)
	}
}

func TestCreatePageTexture_InvalidDimensions(t *testing.T) {
	ctx, _ := newTestContext(t)

	if _, err := CreatePageTexture(ctx, 0, 0, nil, "zero"); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("zero area: err = %v, want ErrInvalidDimensions", err)
	}

	ctx.MaxTextureDimension = 16
	if _, err := CreatePageTexture(ctx, 17, 1, rgba(17, 1, 0), "wide"); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("oversized: err = %v, want ErrInvalidDimensions", err)
	}
}

func TestCreatePageTexture_CleansUpOnFailure(t *testing.T) {
	ctx, dev := newTestContext(t)
	dev.failSampler = true

	_, err := CreatePageTexture(ctx, 2, 2, rgba(2, 2, 1), "page")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("err = %v, want ErrOutOfMemory classification", err)
	}
	if dev.liveTextures() != 0 {
		t.Errorf("live textures = %d, want 0", dev.liveTextures())
	}
	if dev.viewsCreated != dev.viewsDestroyed {
		t.Errorf("views created/destroyed = %d/%d", dev.viewsCreated, dev.viewsDestroyed)
	}
}

func TestCreatePageTexture_UploadFailure(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()
	dev := &countingDevice{Device: device}
	ctx, _ := NewContext(dev, &laggingQueue{Queue: queue, failWrite: true}, 0)

	if _, err := CreatePageTexture(ctx, 2, 2, rgba(2, 2, 1), "page"); !errors.Is(err, errInjected) {
		t.Fatalf("err = %v, want injected upload failure", err)
	}
	if dev.liveTextures() != 0 || dev.samplersCreated != dev.samplersDestroyed {
		t.Error("resources leaked after failed upload")
	}
}

func TestPageTexture_ReleaseIdempotent(t *testing.T) {
	ctx, dev := newTestContext(t)

	tex, err := CreatePageTexture(ctx, 1, 1, rgba(1, 1, 0), "page")
	if err != nil {
		t.Fatalf("CreatePageTexture: %v", err)
	}
	tex.Release()
	tex.Release()

	if !tex.IsReleased() {
		t.Error("IsReleased = false after Release")
	}
	if dev.texturesDestroyed != 1 || dev.viewsDestroyed != 1 || dev.samplersDestroyed != 1 {
		t.Errorf("destroyed texture/view/sampler = %d/%d/%d, want 1/1/1",
			dev.texturesDestroyed, dev.viewsDestroyed, dev.samplersDestroyed)
	}

	var nilTex *PageTexture
	nilTex.Release()
}

func TestContext_PageFormat(t *testing.T) {
	tests := []struct {
		surface gputypes.TextureFormat
		want    gputypes.TextureFormat
	}{
		{gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatRGBA8Unorm},
		{gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8Unorm},
		{gputypes.TextureFormatBGRA8UnormSrgb, gputypes.TextureFormatRGBA8UnormSrgb},
		{gputypes.TextureFormatRGBA8UnormSrgb, gputypes.TextureFormatRGBA8UnormSrgb},
	}
	for _, tt := range tests {
		ctx := &Context{Format: tt.surface}
		if got := ctx.PageFormat(); got != tt.want {
			t.Errorf("PageFormat(%v) = %v, want %v", tt.surface, got, tt.want)
		}
	}
}
