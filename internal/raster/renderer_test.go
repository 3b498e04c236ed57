// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/glyphbrush"
	"github.com/gogpu/glyphbrush/internal/blend"
	"github.com/gogpu/glyphbrush/internal/color"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"
)

var (
	red  = f32.Vec4{1, 0, 0, 1}
	blue = f32.Vec4{0, 0, 1, 1}
)

func rect(x0, y0, x1, y1 float32, c f32.Vec4, depth float32) glyphbrush.GlyphInstance {
	return glyphbrush.GlyphInstance{
		TopLeft:        f32.Vec2{x0, y0},
		BottomRight:    f32.Vec2{x1, y1},
		TexBottomRight: f32.Vec2{1, 1},
		Color:          c,
		Depth:          depth,
	}
}

func draw(t *testing.T, r *Renderer, atlas glyphbrush.Atlas, sections ...[]glyphbrush.GlyphInstance) {
	t.Helper()
	secs := make([]glyphbrush.Section, len(sections))
	for i, s := range sections {
		secs[i] = glyphbrush.SliceSection(s)
	}
	b := r.Bounds()
	sub, err := glyphbrush.NewBuilder(glyphbrush.DefaultConfig()).DrawSections(glyphbrush.Bindings{
		Transform: glyphbrush.PixelToNDC(float32(b.Dx()), float32(b.Dy())),
		Atlas:     atlas,
	}, secs...)
	require.NoError(t, err)
	require.NoError(t, r.Render(sub))
}

func covered(r *Renderer) map[image.Point]bool {
	out := make(map[image.Point]bool)
	b := r.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if r.At(x, y)[3] > 0 {
				out[image.Pt(x, y)] = true
			}
		}
	}
	return out
}

func TestRenderSingleQuad(t *testing.T) {
	r := NewRenderer(Config{Width: 8, Height: 8})
	draw(t, r, nil, []glyphbrush.GlyphInstance{rect(2, 2, 6, 5, red, 0)})

	got := covered(r)
	assert.Len(t, got, 12)
	for y := 2; y < 5; y++ {
		for x := 2; x < 6; x++ {
			assert.Equal(t, red, r.At(x, y), "pixel %d,%d", x, y)
		}
	}
	assert.Equal(t, f32.Vec4{}, r.At(6, 2), "right edge is exclusive")
	assert.Equal(t, f32.Vec4{}, r.At(2, 5), "bottom edge is exclusive")
}

func TestRenderSharedEdgeBlendsOnce(t *testing.T) {
	half := f32.Vec4{1, 1, 1, 0.5}
	r := NewRenderer(Config{Width: 8, Height: 4})
	draw(t, r, nil, []glyphbrush.GlyphInstance{rect(0, 0, 4, 4, half, 0), rect(4, 0, 8, 4, half, 0)})

	for x := range 8 {
		assert.Equal(t, float32(0.5), r.At(x, 1)[3], "pixel %d blended more than once", x)
	}
}

// TestRenderOrder draws overlapping half-transparent glyphs: whichever
// comes later in the batch ends on top, across and within sections.
func TestRenderOrder(t *testing.T) {
	a := rect(0, 0, 4, 4, f32.Vec4{1, 0, 0, 0.5}, 0)
	b := rect(0, 0, 4, 4, f32.Vec4{0, 0, 1, 0.5}, 0)

	ab := NewRenderer(Config{Width: 4, Height: 4})
	draw(t, ab, nil, []glyphbrush.GlyphInstance{a}, []glyphbrush.GlyphInstance{b})
	ba := NewRenderer(Config{Width: 4, Height: 4})
	draw(t, ba, nil, []glyphbrush.GlyphInstance{b, a})

	pab, pba := ab.At(1, 1), ba.At(1, 1)
	assert.Greater(t, pab[2], pab[0], "A then B should be blue dominant: %v", pab)
	assert.Greater(t, pba[0], pba[2], "B then A should be red dominant: %v", pba)
}

func TestRenderAtlasCornersMatch(t *testing.T) {
	// Only the atlas bottom-left texel is set.
	atlas := image.NewAlpha(image.Rect(0, 0, 2, 2))
	atlas.Pix[1*atlas.Stride+0] = 0xff

	r := NewRenderer(Config{Width: 4, Height: 4})
	draw(t, r, atlas, []glyphbrush.GlyphInstance{rect(0, 0, 4, 4, red, 0)})

	want := map[image.Point]bool{
		image.Pt(0, 2): true, image.Pt(1, 2): true,
		image.Pt(0, 3): true, image.Pt(1, 3): true,
	}
	assert.Equal(t, want, covered(r), "bottom-left of the quad samples bottom-left of the atlas")
}

func TestRenderAtlasSubImage(t *testing.T) {
	atlas := image.NewAlpha(image.Rect(0, 0, 4, 4))
	atlas.Pix[2*atlas.Stride+2] = 0xff
	sub := atlas.SubImage(image.Rect(2, 2, 3, 3))

	r := NewRenderer(Config{Width: 2, Height: 2})
	draw(t, r, sub, []glyphbrush.GlyphInstance{rect(0, 0, 2, 2, red, 0)})
	assert.Len(t, covered(r), 4)
}

func TestRenderGrayAtlas(t *testing.T) {
	atlas := image.NewGray(image.Rect(0, 0, 1, 1))
	atlas.Pix[0] = 0x80

	r := NewRenderer(Config{Width: 1, Height: 1, Blend: ptr(blend.Replace())})
	draw(t, r, atlas, []glyphbrush.GlyphInstance{rect(0, 0, 1, 1, red, 0)})
	assert.InDelta(t, float32(0x80)/0xff, r.At(0, 0)[3], 1e-6)
}

func ptr[T any](v T) *T { return &v }

func TestRenderDepthTest(t *testing.T) {
	near := rect(0, 0, 2, 2, red, 0.2)
	far := rect(0, 0, 2, 2, blue, 0.5)

	r := NewRenderer(Config{Width: 2, Height: 2, DepthTest: true})
	draw(t, r, nil, []glyphbrush.GlyphInstance{near, far})
	assert.Equal(t, red, r.At(0, 0), "far glyph drawn later must fail the depth test")

	r = NewRenderer(Config{Width: 2, Height: 2})
	draw(t, r, nil, []glyphbrush.GlyphInstance{near, far})
	assert.Equal(t, blue, r.At(0, 0), "without depth, later wins")

	r = NewRenderer(Config{Width: 2, Height: 2, DepthTest: true, DepthCompare: gputypes.CompareFunctionGreater})
	r.Clear(f32.Vec4{})
	for i := range r.depth {
		r.depth[i] = 0
	}
	draw(t, r, nil, []glyphbrush.GlyphInstance{far, near})
	assert.Equal(t, blue, r.At(0, 0))
}

func TestRenderDegenerate(t *testing.T) {
	r := NewRenderer(Config{Width: 4, Height: 4})
	draw(t, r, nil, []glyphbrush.GlyphInstance{rect(1, 1, 1, 3, red, 0), rect(0, 2, 4, 2, red, 0)})
	assert.Empty(t, covered(r))
}

func TestRenderClipsToTarget(t *testing.T) {
	r := NewRenderer(Config{Width: 4, Height: 4})
	draw(t, r, nil, []glyphbrush.GlyphInstance{rect(-10, -10, 2, 2, red, 0), rect(3, 3, 50, 50, red, 0)})
	assert.Len(t, covered(r), 5)
}

func TestRenderEmpty(t *testing.T) {
	r := NewRenderer(Config{Width: 2, Height: 2})
	require.NoError(t, r.Render(glyphbrush.DrawSubmission{Bindings: glyphbrush.Bindings{Atlas: 42}}))
	assert.Empty(t, covered(r))
}

func TestRenderAtlasBinding(t *testing.T) {
	r := NewRenderer(Config{Width: 2, Height: 2})
	sub, err := glyphbrush.NewBuilder(glyphbrush.Config{}).DrawSections(glyphbrush.Bindings{
		Transform: glyphbrush.PixelToNDC(2, 2),
		Atlas:     "not an image",
	}, glyphbrush.SliceSection([]glyphbrush.GlyphInstance{rect(0, 0, 1, 1, red, 0)}))
	require.NoError(t, err)
	err = r.Render(sub)
	assert.True(t, errors.Is(err, ErrAtlasBinding), "err = %v", err)
}

func TestImage(t *testing.T) {
	r := NewRenderer(Config{Width: 2, Height: 1})
	r.Clear(f32.Vec4{0, 0, 0, 1})
	draw(t, r, nil, []glyphbrush.GlyphInstance{rect(0, 0, 1, 1, f32.Vec4{1, 1, 1, 0.5}, 0)})

	img := r.Image()
	assert.Equal(t, []uint8{128, 128, 128, 255, 0, 0, 0, 255}, img.Pix)
	assert.Equal(t, f32.Vec4{}, r.At(-1, 0))
}

func TestImageSRGB(t *testing.T) {
	r := NewRenderer(Config{Width: 1, Height: 1, SRGB: true})
	r.Clear(f32.Vec4{0, 0, 0, 1})
	draw(t, r, nil, []glyphbrush.GlyphInstance{rect(0, 0, 1, 1, f32.Vec4{1, 1, 1, 0.5}, 0)})

	// Blending is linear; only the stored bytes are encoded.
	assert.InDelta(t, 0.5, r.At(0, 0)[0], 1e-6)
	pix := r.Image().Pix
	assert.Equal(t, color.Encode(0.5), pix[0])
	assert.Greater(t, pix[0], uint8(180))
	assert.Equal(t, uint8(255), pix[3])
}
