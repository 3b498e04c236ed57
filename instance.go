package glyphbrush

import (
	"fmt"

	"golang.org/x/image/math/f32"
)

// GlyphInstance is one glyph placement to render: a screen rectangle, the
// atlas rectangle holding the glyph's pixels, a color and a depth.
//
// Both rectangles use the same convention: TopLeft holds the minimum x and y,
// BottomRight the maximum, with y growing downwards. Zero-area rectangles are
// legal and expand to a degenerate quad.
type GlyphInstance struct {
	// TopLeft and BottomRight are the screen-space corners.
	TopLeft, BottomRight f32.Vec2

	// TexTopLeft and TexBottomRight are the normalized atlas corners.
	TexTopLeft, TexBottomRight f32.Vec2

	// Color is straight (non-premultiplied) RGBA. The alpha channel is
	// carried unchanged to the blend stage.
	Color f32.Vec4

	// Depth orders glyphs within a batch. Zero when ordering is not needed.
	Depth float32
}

// Validate reports ErrMalformedInstance when either rectangle is inverted
// (top-left beyond bottom-right on some axis) or holds a NaN corner.
// Equal corners are accepted.
func (g GlyphInstance) Validate() error {
	if !ordered(g.TopLeft, g.BottomRight) {
		return fmt.Errorf("%w: geometry %v..%v is inverted", ErrMalformedInstance, g.TopLeft, g.BottomRight)
	}
	if !ordered(g.TexTopLeft, g.TexBottomRight) {
		return fmt.Errorf("%w: texture %v..%v is inverted", ErrMalformedInstance, g.TexTopLeft, g.TexBottomRight)
	}
	return nil
}

// ordered is false for NaN corners.
func ordered(tl, br f32.Vec2) bool {
	return tl[0] <= br[0] && tl[1] <= br[1]
}

// Vertex is one corner of an expanded glyph quad.
type Vertex struct {
	Position f32.Vec2
	TexCoord f32.Vec2
	Color    f32.Vec4
	Depth    float32
}

// Corner names a rectangle corner as a pair of selector bits: cornerRight
// takes x from the bottom-right point, cornerBottom takes y from it.
type Corner uint8

const (
	cornerRight Corner = 1 << iota
	cornerBottom
)

// The four rectangle corners.
const (
	CornerTopLeft     Corner = 0
	CornerTopRight           = cornerRight
	CornerBottomLeft         = cornerBottom
	CornerBottomRight        = cornerRight | cornerBottom
)

// Pick selects this corner of the rectangle spanned by tl and br.
func (c Corner) Pick(tl, br f32.Vec2) f32.Vec2 {
	p := tl
	if c&cornerRight != 0 {
		p[0] = br[0]
	}
	if c&cornerBottom != 0 {
		p[1] = br[1]
	}
	return p
}

func (c Corner) String() string {
	switch c {
	case CornerTopLeft:
		return "top-left"
	case CornerTopRight:
		return "top-right"
	case CornerBottomLeft:
		return "bottom-left"
	case CornerBottomRight:
		return "bottom-right"
	default:
		return fmt.Sprintf("Corner(%d)", uint8(c))
	}
}

// QuadCorners maps a vertex-in-quad index to its corner. Drawn as a
// triangle strip (0-1-2, 1-2-3) the quad keeps a consistent winding.
// The vertex shader in package gpu holds the same table.
var QuadCorners = [4]Corner{
	CornerBottomLeft,
	CornerTopLeft,
	CornerBottomRight,
	CornerTopRight,
}

// Quad is the four vertices of one glyph, in QuadCorners order.
type Quad [4]Vertex

// Expand maps a glyph instance to its quad. A single corner selector picks
// both the position and the texture coordinate of each vertex, so a screen
// corner always samples the matching atlas corner. Color and depth are
// copied to every vertex unchanged.
//
// Expand never fails; validation is the Builder's job.
func Expand(g GlyphInstance) Quad {
	var q Quad
	for i, c := range QuadCorners {
		q[i] = Vertex{
			Position: c.Pick(g.TopLeft, g.BottomRight),
			TexCoord: c.Pick(g.TexTopLeft, g.TexBottomRight),
			Color:    g.Color,
			Depth:    g.Depth,
		}
	}
	return q
}

// Corner returns the vertex placed at corner c.
func (q Quad) Corner(c Corner) Vertex {
	for i, qc := range QuadCorners {
		if qc == c {
			return q[i]
		}
	}
	panic(fmt.Sprintf("glyphbrush: invalid corner %d", uint8(c)))
}

// Instance reassembles the glyph instance a quad was expanded from.
func (q Quad) Instance() GlyphInstance {
	tl, br := q.Corner(CornerTopLeft), q.Corner(CornerBottomRight)
	return GlyphInstance{
		TopLeft:        tl.Position,
		BottomRight:    br.Position,
		TexTopLeft:     tl.TexCoord,
		TexBottomRight: br.TexCoord,
		Color:          tl.Color,
		Depth:          tl.Depth,
	}
}
