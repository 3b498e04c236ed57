package glyphbrush

import "golang.org/x/image/math/f32"

// Identity returns the identity transform.
func Identity() f32.Mat4 {
	return f32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// PixelToNDC returns the row-major transform mapping a width x height pixel
// space, origin top-left and y down, to normalized device coordinates.
// Depth passes through unchanged.
func PixelToNDC(width, height float32) f32.Mat4 {
	return f32.Mat4{
		2 / width, 0, 0, -1,
		0, -2 / height, 0, 1,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// TransformPoint applies m to the point (p.x, p.y, z, 1) and returns the
// clip-space result, the same product the vertex shader computes.
func TransformPoint(m f32.Mat4, p f32.Vec2, z float32) f32.Vec4 {
	in := f32.Vec4{p[0], p[1], z, 1}
	var out f32.Vec4
	for r := range 4 {
		out[r] = m[r*4]*in[0] + m[r*4+1]*in[1] + m[r*4+2]*in[2] + m[r*4+3]*in[3]
	}
	return out
}
