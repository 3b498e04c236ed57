// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster draws glyph batches on the CPU with the same rules as the
// GPU pipeline: the batch transform maps quads to clip space, pixel centers
// inside a quad are shaded, the atlas is sampled at the interpolated
// texture coordinate and fragments are blended in submission order.
//
// It serves headless rendering and tests that need to look at pixels.
package raster

import (
	"errors"
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"github.com/gogpu/glyphbrush"
	"github.com/gogpu/glyphbrush/internal/blend"
	"github.com/gogpu/glyphbrush/internal/color"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// ErrAtlasBinding is returned when a submission's atlas is neither nil nor
// an image.Image.
var ErrAtlasBinding = errors.New("raster: atlas binding is not an image")

// Config holds renderer configuration.
type Config struct {
	// Width and Height are the target size in pixels.
	Width, Height int

	// Blend is the color target blend state.
	// Default: straight alpha (gputypes.BlendStateAlpha)
	Blend *gputypes.BlendState

	// BlendConstant feeds the Constant blend factors.
	BlendConstant f32.Vec4

	// DepthTest enables a depth buffer cleared to 1.
	DepthTest bool

	// DepthCompare is used when DepthTest is set.
	// Default: LessEqual
	DepthCompare gputypes.CompareFunction

	// SRGB stores the target like an sRGB texture format: shading and
	// blending stay linear, Image encodes to sRGB bytes.
	SRGB bool
}

// Renderer is a CPU color target with an optional depth buffer.
// A Renderer is not safe for concurrent use.
type Renderer struct {
	config Config
	blend  gputypes.BlendState
	color  []f32.Vec4
	depth  []float32
}

// NewRenderer creates a renderer with a transparent black target.
func NewRenderer(config Config) *Renderer {
	config.Width = max(config.Width, 0)
	config.Height = max(config.Height, 0)
	if config.DepthCompare == gputypes.CompareFunctionUndefined {
		config.DepthCompare = gputypes.CompareFunctionLessEqual
	}
	r := &Renderer{
		config: config,
		blend:  gputypes.BlendStateAlpha(),
		color:  make([]f32.Vec4, config.Width*config.Height),
	}
	if config.Blend != nil {
		r.blend = *config.Blend
	}
	if config.DepthTest {
		r.depth = make([]float32, len(r.color))
	}
	r.Clear(f32.Vec4{})
	return r
}

// Clear fills the target with c and resets the depth buffer.
func (r *Renderer) Clear(c f32.Vec4) {
	for i := range r.color {
		r.color[i] = c
	}
	for i := range r.depth {
		r.depth[i] = 1
	}
}

// Bounds returns the target rectangle.
func (r *Renderer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.config.Width, r.config.Height)
}

// At returns the stored color of pixel (x, y).
func (r *Renderer) At(x, y int) f32.Vec4 {
	if x < 0 || y < 0 || x >= r.config.Width || y >= r.config.Height {
		return f32.Vec4{}
	}
	return r.color[y*r.config.Width+x]
}

// Image returns the target as 8-bit RGBA, channels quantized as a unorm
// color target stores them. With Config.SRGB the color channels are sRGB
// encoded first.
func (r *Renderer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.config.Width, r.config.Height))
	encode := unorm8
	if r.config.SRGB {
		encode = color.Encode
	}
	for i, c := range r.color {
		img.Pix[i*4+0] = encode(c[0])
		img.Pix[i*4+1] = encode(c[1])
		img.Pix[i*4+2] = encode(c[2])
		img.Pix[i*4+3] = unorm8(c[3])
	}
	return img
}

func unorm8(v float32) uint8 {
	return uint8(math32.Round(math32.Max(0, math32.Min(v, 1)) * 255))
}

// Render draws every quad of the submission in order. An empty submission
// draws nothing.
func (r *Renderer) Render(sub glyphbrush.DrawSubmission) error {
	if sub.Empty() {
		return nil
	}
	var atlas image.Image
	if sub.Bindings.Atlas != nil {
		img, ok := sub.Bindings.Atlas.(image.Image)
		if !ok {
			return fmt.Errorf("%w: got %T", ErrAtlasBinding, sub.Bindings.Atlas)
		}
		atlas = img
	}
	for _, q := range sub.Quads() {
		r.drawQuad(sub.Bindings.Transform, q, atlas)
	}
	return nil
}

// screenVertex is a vertex after the transform and viewport mapping.
type screenVertex struct {
	pos   f32.Vec2
	depth float32
}

func (r *Renderer) toScreen(m f32.Mat4, v glyphbrush.Vertex) (screenVertex, bool) {
	clip := glyphbrush.TransformPoint(m, v.Position, v.Depth)
	if clip[3] == 0 {
		return screenVertex{}, false
	}
	ndcX, ndcY, ndcZ := clip[0]/clip[3], clip[1]/clip[3], clip[2]/clip[3]
	return screenVertex{
		pos: f32.Vec2{
			(ndcX + 1) / 2 * float32(r.config.Width),
			(1 - ndcY) / 2 * float32(r.config.Height),
		},
		depth: ndcZ,
	}, true
}

// drawQuad shades the pixel centers covered by the parallelogram spanned by
// the quad's top-left, top-right and bottom-left corners. Coverage is
// half-open in both quad axes so quads sharing an edge never shade a pixel
// twice.
func (r *Renderer) drawQuad(m f32.Mat4, q glyphbrush.Quad, atlas image.Image) {
	tlV := q.Corner(glyphbrush.CornerTopLeft)
	trV := q.Corner(glyphbrush.CornerTopRight)
	blV := q.Corner(glyphbrush.CornerBottomLeft)
	brV := q.Corner(glyphbrush.CornerBottomRight)

	o, ok1 := r.toScreen(m, tlV)
	tr, ok2 := r.toScreen(m, trV)
	bl, ok3 := r.toScreen(m, blV)
	br, ok4 := r.toScreen(m, brV)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return
	}

	e1 := f32.Vec2{tr.pos[0] - o.pos[0], tr.pos[1] - o.pos[1]}
	e2 := f32.Vec2{bl.pos[0] - o.pos[0], bl.pos[1] - o.pos[1]}
	det := e1[0]*e2[1] - e1[1]*e2[0]
	if math32.Abs(det) < 1e-12 {
		return
	}

	minX := math32.Min(math32.Min(o.pos[0], tr.pos[0]), math32.Min(bl.pos[0], br.pos[0]))
	maxX := math32.Max(math32.Max(o.pos[0], tr.pos[0]), math32.Max(bl.pos[0], br.pos[0]))
	minY := math32.Min(math32.Min(o.pos[1], tr.pos[1]), math32.Min(bl.pos[1], br.pos[1]))
	maxY := math32.Max(math32.Max(o.pos[1], tr.pos[1]), math32.Max(bl.pos[1], br.pos[1]))

	x0 := max(int(math32.Floor(minX)), 0)
	y0 := max(int(math32.Floor(minY)), 0)
	x1 := min(int(math32.Ceil(maxX)), r.config.Width)
	y1 := min(int(math32.Ceil(maxY)), r.config.Height)

	texTL, texBR := tlV.TexCoord, brV.TexCoord
	col := tlV.Color

	for y := y0; y < y1; y++ {
		py := float32(y) + 0.5 - o.pos[1]
		for x := x0; x < x1; x++ {
			px := float32(x) + 0.5 - o.pos[0]
			s := (px*e2[1] - py*e2[0]) / det
			t := (e1[0]*py - e1[1]*px) / det
			if s < 0 || s >= 1 || t < 0 || t >= 1 {
				continue
			}

			idx := y*r.config.Width + x
			if r.depth != nil {
				z := o.depth + s*(tr.depth-o.depth) + t*(bl.depth-o.depth)
				if !compare(r.config.DepthCompare, z, r.depth[idx]) {
					continue
				}
				r.depth[idx] = z
			}

			u := texTL[0] + s*(texBR[0]-texTL[0])
			v := texTL[1] + t*(texBR[1]-texTL[1])
			frag := f32.Vec4{col[0], col[1], col[2], col[3] * sample(atlas, u, v)}
			r.color[idx] = blend.Apply(r.blend, frag, r.color[idx], r.config.BlendConstant)
		}
	}
}

// sample returns the coverage at normalized (u, v) with nearest filtering
// and clamp-to-edge addressing. A nil atlas is fully covered.
func sample(atlas image.Image, u, v float32) float32 {
	if atlas == nil {
		return 1
	}
	b := atlas.Bounds()
	if b.Empty() {
		return 0
	}
	x := b.Min.X + clampIndex(int(math32.Floor(u*float32(b.Dx()))), b.Dx())
	y := b.Min.Y + clampIndex(int(math32.Floor(v*float32(b.Dy()))), b.Dy())
	if a, ok := atlas.(*image.Alpha); ok {
		return float32(a.AlphaAt(x, y).A) / 0xff
	}
	// The GPU samples the red channel of the atlas texture.
	red, _, _, _ := atlas.At(x, y).RGBA()
	return float32(red) / 0xffff
}

func clampIndex(i, n int) int {
	return max(0, min(i, n-1))
}

// compare evaluates a depth comparison of a fragment against the stored
// depth.
func compare(f gputypes.CompareFunction, frag, stored float32) bool {
	switch f {
	case gputypes.CompareFunctionNever:
		return false
	case gputypes.CompareFunctionLess:
		return frag < stored
	case gputypes.CompareFunctionEqual:
		return frag == stored
	case gputypes.CompareFunctionLessEqual:
		return frag <= stored
	case gputypes.CompareFunctionGreater:
		return frag > stored
	case gputypes.CompareFunctionNotEqual:
		return frag != stored
	case gputypes.CompareFunctionGreaterEqual:
		return frag >= stored
	default:
		return true
	}
}
