// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package atlas packs rasterized glyph masks into one single-channel
// texture and hands out their normalized texture rectangles.
package atlas

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/math/f32"
	"golang.org/x/image/math/fixed"
)

// ErrAtlasFull is returned when a glyph mask does not fit in the atlas.
var ErrAtlasFull = errors.New("atlas: texture atlas is full")

// Default atlas settings.
const (
	// DefaultSize is the default atlas dimension.
	DefaultSize = 1024

	// DefaultPadding keeps linear filtering from bleeding between glyphs.
	DefaultPadding = 1
)

// FontID tells fonts sharing one atlas apart. Each Rasterizer gets its own.
type FontID uint32

// Key identifies a rasterized glyph.
type Key struct {
	Font FontID
	GID  font.GID
	Size fixed.Int26_6
}

// Entry is a glyph stored in the atlas.
type Entry struct {
	// Rect is the glyph's texel rectangle. Empty for glyphs without
	// pixels, such as spaces.
	Rect image.Rectangle

	// Bearing is the offset of the mask's top-left corner from the pen
	// position on the baseline, y down.
	Bearing image.Point

	// TexTopLeft and TexBottomRight are Rect in normalized coordinates.
	TexTopLeft, TexBottomRight f32.Vec2
}

// Empty reports whether the glyph has no pixels.
func (e Entry) Empty() bool { return e.Rect.Empty() }

// Atlas is an R8 glyph mask atlas. It is safe for concurrent use.
//
// The atlas tracks the region changed since the last TakeDirty, so a GPU
// copy can be brought up to date without uploading the whole mask.
type Atlas struct {
	mu         sync.RWMutex
	mask       *image.Alpha
	packer     *ShelfPacker
	entries    map[Key]Entry
	generation uint64
	dirty      image.Rectangle
}

// New creates an empty size x size atlas. Non-positive sizes use
// DefaultSize.
func New(size int) *Atlas {
	if size <= 0 {
		size = DefaultSize
	}
	return &Atlas{
		mask:    image.NewAlpha(image.Rect(0, 0, size, size)),
		packer:  NewShelfPacker(size, size, DefaultPadding),
		entries: make(map[Key]Entry),
	}
}

// Add copies a glyph mask into the atlas and records it under key. Adding
// a key twice returns the existing entry. A nil or empty mask records an
// empty entry, so layout still finds the glyph.
func (a *Atlas) Add(key Key, mask *image.Alpha, bearing image.Point) (Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if e, ok := a.entries[key]; ok {
		return e, nil
	}
	if mask == nil || mask.Rect.Empty() {
		e := Entry{Bearing: bearing}
		a.entries[key] = e
		return e, nil
	}

	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	r, ok := a.packer.Pack(w, h)
	if !ok {
		return Entry{}, fmt.Errorf("%w: no room for %dx%d glyph %d", ErrAtlasFull, w, h, key.GID)
	}
	draw.Draw(a.mask, r, mask, mask.Rect.Min, draw.Src)

	size := a.mask.Rect.Size()
	e := Entry{
		Rect:           r,
		Bearing:        bearing,
		TexTopLeft:     f32.Vec2{float32(r.Min.X) / float32(size.X), float32(r.Min.Y) / float32(size.Y)},
		TexBottomRight: f32.Vec2{float32(r.Max.X) / float32(size.X), float32(r.Max.Y) / float32(size.Y)},
	}
	a.entries[key] = e
	a.generation++
	a.dirty = a.dirty.Union(r)
	return e, nil
}

// Lookup returns the entry stored under key.
func (a *Atlas) Lookup(key Key) (Entry, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	e, ok := a.entries[key]
	return e, ok
}

// Len returns the number of stored glyphs.
func (a *Atlas) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

// Generation increases every time pixels are added. Compare it with the
// value seen at the last upload to decide whether the texture is stale.
func (a *Atlas) Generation() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.generation
}

// Image returns a copy of the whole atlas mask.
func (a *Atlas) Image() *image.Alpha {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return copyAlpha(a.mask, a.mask.Rect)
}

// TakeDirty returns a copy of the region changed since the previous call,
// with its bounds placed where the region sits in the atlas, and the
// generation the copy is current for. The image is nil when nothing
// changed. The dirty region is cleared, so an atlas feeds one consumer.
func (a *Atlas) TakeDirty() (*image.Alpha, uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.dirty.Empty() {
		return nil, a.generation
	}
	img := copyAlpha(a.mask, a.dirty)
	a.dirty = image.Rectangle{}
	return img, a.generation
}

func copyAlpha(src *image.Alpha, r image.Rectangle) *image.Alpha {
	dst := image.NewAlpha(r)
	draw.Draw(dst, r, src, r.Min, draw.Src)
	return dst
}

// Reset drops every glyph and clears the mask.
func (a *Atlas) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.mask.Pix)
	clear(a.entries)
	a.packer.Reset()
	a.generation++
	a.dirty = a.mask.Rect
}
