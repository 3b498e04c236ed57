// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package atlas

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/go-text/typesetting/font"
	"github.com/gogpu/glyphbrush"
	"github.com/gogpu/glyphbrush/text"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// nextFontID hands out Rasterizer font IDs.
var nextFontID atomic.Uint32

// Rasterizer renders glyph outlines of one font to coverage masks.
// It is safe for concurrent use.
type Rasterizer struct {
	id   FontID
	font *sfnt.Font

	mu     sync.Mutex
	buffer sfnt.Buffer
	ras    vector.Rasterizer
}

// NewRasterizer parses an OpenType or TrueType font.
func NewRasterizer(data []byte) (*Rasterizer, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("atlas: parse font: %w", err)
	}
	return &Rasterizer{id: FontID(nextFontID.Add(1)), font: f}, nil
}

// ID returns the font ID the rasterizer's glyphs are stored under.
func (r *Rasterizer) ID() FontID { return r.id }

// Rasterize renders glyph gid at size pixels per em. It returns a nil mask
// for glyphs without an outline. bearing is the offset of the mask's
// top-left corner from the pen position, y down.
func (r *Rasterizer) Rasterize(gid font.GID, size fixed.Int26_6) (mask *image.Alpha, bearing image.Point, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	segments, err := r.font.LoadGlyph(&r.buffer, sfnt.GlyphIndex(gid), size, nil)
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("atlas: load glyph %d: %w", gid, err)
	}
	if len(segments) == 0 {
		return nil, image.Point{}, nil
	}

	b := segments.Bounds()
	minX, minY := b.Min.X.Floor(), b.Min.Y.Floor()
	w, h := b.Max.X.Ceil()-minX, b.Max.Y.Ceil()-minY
	if w <= 0 || h <= 0 {
		return nil, image.Point{}, nil
	}

	ox, oy := float32(minX), float32(minY)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X)/64 - ox, float32(p.Y)/64 - oy
	}

	r.ras.Reset(w, h)
	for i, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if i > 0 {
				r.ras.ClosePath()
			}
			r.ras.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			r.ras.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			r.ras.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			dx, dy := pt(seg.Args[2])
			r.ras.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	r.ras.ClosePath()

	mask = image.NewAlpha(image.Rect(0, 0, w, h))
	r.ras.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask, image.Pt(minX, minY), nil
}

// Cache rasterizes glyphs on demand into an Atlas.
type Cache struct {
	atlas *Atlas
	ras   *Rasterizer
}

// NewCache combines a rasterizer and the atlas it fills.
func NewCache(ras *Rasterizer, atlas *Atlas) *Cache {
	return &Cache{atlas: atlas, ras: ras}
}

// Atlas returns the backing atlas.
func (c *Cache) Atlas() *Atlas { return c.atlas }

// Font returns the ID the cache's glyphs are stored under.
func (c *Cache) Font() FontID { return c.ras.ID() }

// Ensure returns the entry for gid at size, rasterizing and packing it on
// first use.
func (c *Cache) Ensure(gid font.GID, size fixed.Int26_6) (Entry, error) {
	key := Key{Font: c.ras.ID(), GID: gid, Size: size}
	if e, ok := c.atlas.Lookup(key); ok {
		return e, nil
	}
	mask, bearing, err := c.ras.Rasterize(gid, size)
	if err != nil {
		return Entry{}, err
	}
	return c.atlas.Add(key, mask, bearing)
}

// Glyph implements text.GlyphSource. Glyphs that fail to rasterize or do
// not fit are reported missing, so layout skips them.
func (c *Cache) Glyph(gid font.GID, size fixed.Int26_6) (text.Glyph, bool) {
	e, err := c.Ensure(gid, size)
	if err != nil {
		glyphbrush.Logger().Warn("glyph skipped", "gid", gid, "size", size, "err", err)
		return text.Glyph{}, false
	}
	return text.Glyph{
		Bearing:        e.Bearing,
		Size:           e.Rect.Size(),
		TexTopLeft:     e.TexTopLeft,
		TexBottomRight: e.TexBottomRight,
	}, true
}
