package text

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"
	"github.com/gogpu/glyphbrush"
	"golang.org/x/image/math/f32"
	"golang.org/x/image/math/fixed"
)

// Glyph is a rasterized glyph as stored in an atlas.
type Glyph struct {
	// Bearing is the offset of the mask's top-left corner from the pen
	// position on the baseline, y down.
	Bearing image.Point

	// Size is the mask size in pixels.
	Size image.Point

	// TexTopLeft and TexBottomRight are the normalized atlas corners.
	TexTopLeft, TexBottomRight f32.Vec2
}

// Empty reports whether the glyph has no pixels to draw.
func (g Glyph) Empty() bool { return g.Size.X <= 0 || g.Size.Y <= 0 }

// GlyphSource finds rasterized glyphs.
type GlyphSource interface {
	Glyph(gid font.GID, size fixed.Int26_6) (Glyph, bool)
}

// Layout places the glyphs of a shaped run, starting at origin on the
// baseline. Horizontal runs advance to the right, vertical runs downwards.
// Glyph positions are snapped to whole pixels so masks map texel for pixel.
func Layout(out shaping.Output, origin f32.Vec2, glyphs GlyphSource) []glyphbrush.Placement {
	placements := make([]glyphbrush.Placement, 0, len(out.Glyphs))
	vertical := out.Direction.IsVertical()
	pen := origin

	for _, g := range out.Glyphs {
		// Shaping offsets are y up.
		dotX := math32.Round(pen[0] + toFloat(g.XOffset))
		dotY := math32.Round(pen[1] - toFloat(g.YOffset))

		if gl, ok := glyphs.Glyph(g.GlyphID, out.Size); ok && !gl.Empty() {
			tl := f32.Vec2{dotX + float32(gl.Bearing.X), dotY + float32(gl.Bearing.Y)}
			placements = append(placements, glyphbrush.Placement{
				TopLeft:        tl,
				BottomRight:    f32.Vec2{tl[0] + float32(gl.Size.X), tl[1] + float32(gl.Size.Y)},
				TexTopLeft:     gl.TexTopLeft,
				TexBottomRight: gl.TexBottomRight,
			})
		}

		if vertical {
			pen[1] -= toFloat(g.Advance)
		} else {
			pen[0] += toFloat(g.Advance)
		}
	}
	return placements
}

// LayoutRun is Layout packaged as a run with one color and depth.
func LayoutRun(out shaping.Output, origin f32.Vec2, glyphs GlyphSource, color f32.Vec4, depth float32) glyphbrush.Run {
	return glyphbrush.Run{
		Placements: Layout(out, origin, glyphs),
		Color:      color,
		Depth:      depth,
	}
}

func toFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
