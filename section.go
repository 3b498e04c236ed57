package glyphbrush

import (
	"iter"

	"golang.org/x/image/math/f32"
)

// Section is an ordered run of glyph instances, typically one logical piece
// of text. Sections are owned by the caller; a Builder iterates each one
// exactly once per draw and never retains it.
type Section iter.Seq[GlyphInstance]

// SliceSection returns a Section over the given instances.
func SliceSection(instances []GlyphInstance) Section {
	return func(yield func(GlyphInstance) bool) {
		for _, g := range instances {
			if !yield(g) {
				return
			}
		}
	}
}

// Placement is where one glyph goes on screen and where its pixels live in
// the atlas. It is what an upstream layout step produces before a color and
// depth are applied.
type Placement struct {
	TopLeft, BottomRight       f32.Vec2
	TexTopLeft, TexBottomRight f32.Vec2
}

// Run is a sequence of placements drawn with one color at one depth.
type Run struct {
	Placements []Placement
	Color      f32.Vec4
	Depth      float32
}

// Section returns the run's placements as glyph instances.
func (r Run) Section() Section {
	return func(yield func(GlyphInstance) bool) {
		for _, p := range r.Placements {
			g := GlyphInstance{
				TopLeft:        p.TopLeft,
				BottomRight:    p.BottomRight,
				TexTopLeft:     p.TexTopLeft,
				TexBottomRight: p.TexBottomRight,
				Color:          r.Color,
				Depth:          r.Depth,
			}
			if !yield(g) {
				return
			}
		}
	}
}
