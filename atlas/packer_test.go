// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package atlas

import (
	"image"
	"testing"
)

func TestShelfPacker_FirstShelf(t *testing.T) {
	p := NewShelfPacker(64, 64, 1)

	a, ok := p.Pack(10, 8)
	if !ok {
		t.Fatal("Pack(10, 8) failed on an empty packer")
	}
	if a != image.Rect(0, 0, 10, 8) {
		t.Errorf("first rect = %v, want (0,0)-(10,8)", a)
	}

	b, ok := p.Pack(5, 8)
	if !ok {
		t.Fatal("Pack(5, 8) failed")
	}
	if b != image.Rect(11, 0, 16, 8) {
		t.Errorf("second rect = %v, want (11,0)-(16,8)", b)
	}
}

func TestShelfPacker_NewShelf(t *testing.T) {
	p := NewShelfPacker(20, 64, 1)

	if _, ok := p.Pack(15, 10); !ok {
		t.Fatal("Pack(15, 10) failed")
	}
	r, ok := p.Pack(15, 4)
	if !ok {
		t.Fatal("Pack(15, 4) failed")
	}
	if r.Min.Y != 11 {
		t.Errorf("second shelf y = %d, want 11", r.Min.Y)
	}
}

func TestShelfPacker_OnlyLastShelfGrows(t *testing.T) {
	p := NewShelfPacker(20, 64, 0)

	p.Pack(10, 4) // shelf 0, height 4
	p.Pack(20, 4) // does not fit next to it: shelf 1 at y=4

	// Too tall for shelf 0, which may not grow under shelf 1.
	r, ok := p.Pack(5, 6)
	if !ok {
		t.Fatal("Pack(5, 6) failed")
	}
	if r.Min.Y < 4 {
		t.Errorf("rect %v overlaps shelf 1", r)
	}

	// Short enough for the gap on shelf 0.
	r, ok = p.Pack(5, 3)
	if !ok {
		t.Fatal("Pack(5, 3) failed")
	}
	if r != image.Rect(10, 0, 15, 3) {
		t.Errorf("rect = %v, want (10,0)-(15,3)", r)
	}
}

func TestShelfPacker_NoOverlap(t *testing.T) {
	p := NewShelfPacker(128, 128, 1)
	var rects []image.Rectangle
	for i := range 200 {
		w, h := 3+i%11, 2+i%7
		r, ok := p.Pack(w, h)
		if !ok {
			break
		}
		if r.Dx() != w || r.Dy() != h {
			t.Fatalf("Pack(%d, %d) = %v, wrong size", w, h, r)
		}
		if !r.In(image.Rect(0, 0, 128, 128)) {
			t.Fatalf("rect %v outside the area", r)
		}
		for _, o := range rects {
			if r.Overlaps(o) {
				t.Fatalf("rect %v overlaps %v", r, o)
			}
		}
		rects = append(rects, r)
	}
	if len(rects) < 100 {
		t.Errorf("packed only %d rects", len(rects))
	}
}

func TestShelfPacker_Full(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"too wide", 17, 1},
		{"too tall", 1, 17},
		{"zero width", 0, 4},
		{"negative height", 4, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewShelfPacker(16, 16, 1)
			if r, ok := p.Pack(tt.w, tt.h); ok {
				t.Errorf("Pack(%d, %d) = %v, want failure", tt.w, tt.h, r)
			}
		})
	}

	p := NewShelfPacker(16, 16, 0)
	if _, ok := p.Pack(16, 16); !ok {
		t.Fatal("Pack(16, 16) should fill the area exactly")
	}
	if _, ok := p.Pack(1, 1); ok {
		t.Error("Pack on a full packer should fail")
	}
}

func TestShelfPacker_ResetAndUtilization(t *testing.T) {
	p := NewShelfPacker(10, 10, 0)
	p.Pack(10, 5)
	if got := p.Utilization(); got != 0.5 {
		t.Errorf("Utilization() = %v, want 0.5", got)
	}

	p.Reset()
	if got := p.Utilization(); got != 0 {
		t.Errorf("Utilization() after Reset = %v, want 0", got)
	}
	r, ok := p.Pack(10, 10)
	if !ok || r != image.Rect(0, 0, 10, 10) {
		t.Errorf("Pack after Reset = %v, %v", r, ok)
	}
}
