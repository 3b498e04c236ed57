// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package atlas

import "image"

// shelf is one horizontal strip of the packer.
type shelf struct {
	y      int // top edge
	height int // tallest item so far, padding included
	nextX  int // next free x position
}

// ShelfPacker allocates rectangles in a fixed area with shelf packing:
// items go on the first shelf wide and tall enough for them, otherwise on a
// new shelf below the last one. Only the last shelf may grow taller.
type ShelfPacker struct {
	width, height int
	padding       int
	shelves       []shelf
	used          int
}

// NewShelfPacker creates a packer for a width x height area that keeps
// padding pixels between neighbouring items.
func NewShelfPacker(width, height, padding int) *ShelfPacker {
	return &ShelfPacker{
		width:   max(width, 0),
		height:  max(height, 0),
		padding: max(padding, 0),
	}
}

// Pack reserves a w x h rectangle. It reports false when the area has no
// room left for it.
func (p *ShelfPacker) Pack(w, h int) (image.Rectangle, bool) {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	pw, ph := w+p.padding, h+p.padding
	if pw > p.width+p.padding || ph > p.height+p.padding {
		return image.Rectangle{}, false
	}

	for i := range p.shelves {
		s := &p.shelves[i]
		last := i == len(p.shelves)-1
		if s.nextX+w > p.width {
			continue
		}
		if ph > s.height && !(last && s.y+ph <= p.height+p.padding) {
			continue
		}
		return p.place(s, w, h, pw, ph), true
	}

	y := 0
	if n := len(p.shelves); n > 0 {
		y = p.shelves[n-1].y + p.shelves[n-1].height
	}
	if y+h > p.height {
		return image.Rectangle{}, false
	}
	p.shelves = append(p.shelves, shelf{y: y})
	return p.place(&p.shelves[len(p.shelves)-1], w, h, pw, ph), true
}

func (p *ShelfPacker) place(s *shelf, w, h, pw, ph int) image.Rectangle {
	r := image.Rect(s.nextX, s.y, s.nextX+w, s.y+h)
	s.nextX += pw
	s.height = max(s.height, ph)
	p.used += w * h
	return r
}

// Reset frees every rectangle.
func (p *ShelfPacker) Reset() {
	p.shelves = p.shelves[:0]
	p.used = 0
}

// Utilization returns the fraction of the area covered by packed items.
func (p *ShelfPacker) Utilization() float64 {
	if p.width == 0 || p.height == 0 {
		return 0
	}
	return float64(p.used) / float64(p.width*p.height)
}
