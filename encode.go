package glyphbrush

import (
	"encoding/binary"
	"math"
	"slices"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// Byte sizes of the GPU-side records.
const (
	// VertexStride is the size of one encoded Vertex:
	// position(8) + tex_coord(8) + color(16) + depth(4).
	VertexStride = 36

	// InstanceStride is the size of one encoded GlyphInstance:
	// top_left(8) + bottom_right(8) + tex_top_left(8) + tex_bottom_right(8)
	// + color(16) + depth(4).
	InstanceStride = 52

	// TransformUniformSize is the size of the transform uniform (mat4x4<f32>).
	TransformUniformSize = 64

	// DrawIndirectArgsSize is the size of an encoded DrawIndirectArgs.
	DrawIndirectArgsSize = 16
)

// VertexBufferLayout describes an expanded vertex buffer:
//
//	location 0: position (vec2<f32>)
//	location 1: tex_coord (vec2<f32>)
//	location 2: color (vec4<f32>)
//	location 3: depth (f32)
func VertexBufferLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: VertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
			{Format: gputypes.VertexFormatFloat32, Offset: 32, ShaderLocation: 3},
		},
	}
}

// InstanceBufferLayout describes a per-instance glyph buffer, stepped once
// per instance and expanded to a quad by the vertex shader:
//
//	location 0: top_left (vec2<f32>)
//	location 1: bottom_right (vec2<f32>)
//	location 2: tex_top_left (vec2<f32>)
//	location 3: tex_bottom_right (vec2<f32>)
//	location 4: color (vec4<f32>)
//	location 5: depth (f32)
func InstanceBufferLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: InstanceStride,
		StepMode:    gputypes.VertexStepModeInstance,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 2},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 3},
			{Format: gputypes.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 4},
			{Format: gputypes.VertexFormatFloat32, Offset: 48, ShaderLocation: 5},
		},
	}
}

// AppendVertexData appends the little-endian encoding of the batch vertices
// to buf, VertexStride bytes per vertex.
func (s DrawSubmission) AppendVertexData(buf []byte) []byte {
	buf = slices.Grow(buf, len(s.Vertices)*VertexStride)
	for _, v := range s.Vertices {
		buf = appendVec2(buf, v.Position)
		buf = appendVec2(buf, v.TexCoord)
		buf = appendVec4(buf, v.Color)
		buf = appendFloat(buf, v.Depth)
	}
	return buf
}

// AppendInstanceData appends the batch as packed glyph instances,
// InstanceStride bytes each, for the instanced draw path.
func (s DrawSubmission) AppendInstanceData(buf []byte) []byte {
	buf = slices.Grow(buf, s.InstanceCount()*InstanceStride)
	for _, q := range s.Quads() {
		g := q.Instance()
		buf = appendVec2(buf, g.TopLeft)
		buf = appendVec2(buf, g.BottomRight)
		buf = appendVec2(buf, g.TexTopLeft)
		buf = appendVec2(buf, g.TexBottomRight)
		buf = appendVec4(buf, g.Color)
		buf = appendFloat(buf, g.Depth)
	}
	return buf
}

// IndexFormat returns the narrowest index format able to address every
// vertex of the batch.
func (s DrawSubmission) IndexFormat() gputypes.IndexFormat {
	if len(s.Vertices) <= math.MaxUint16+1 {
		return gputypes.IndexFormatUint16
	}
	return gputypes.IndexFormatUint32
}

// IndexCount returns the number of indices for drawing the batch as an
// indexed triangle list.
func (s DrawSubmission) IndexCount() int { return s.InstanceCount() * 6 }

// quadIndices lists each quad as two triangles with the same winding as the
// strip 0-1-2, 1-2-3.
var quadIndices = [6]uint32{0, 1, 2, 2, 1, 3}

// AppendIndexData appends index data for drawing the batch as a triangle
// list, encoded in IndexFormat.
func (s DrawSubmission) AppendIndexData(buf []byte) []byte {
	wide := s.IndexFormat() == gputypes.IndexFormatUint32
	if wide {
		buf = slices.Grow(buf, s.IndexCount()*4)
	} else {
		buf = slices.Grow(buf, s.IndexCount()*2)
	}
	for i := range s.InstanceCount() {
		base := uint32(i * 4) //nolint:gosec // bounded by MaxInstances
		for _, idx := range quadIndices {
			if wide {
				buf = binary.LittleEndian.AppendUint32(buf, base+idx)
			} else {
				buf = binary.LittleEndian.AppendUint16(buf, uint16(base+idx)) //nolint:gosec // checked by IndexFormat
			}
		}
	}
	return buf
}

// DrawIndirectArgs mirrors the argument block read by DrawIndirect.
type DrawIndirectArgs struct {
	VertexCount   uint32
	InstanceCount uint32
	FirstVertex   uint32
	FirstInstance uint32
}

// Bytes returns the little-endian encoding of the arguments.
func (a DrawIndirectArgs) Bytes() []byte {
	buf := make([]byte, 0, DrawIndirectArgsSize)
	buf = binary.LittleEndian.AppendUint32(buf, a.VertexCount)
	buf = binary.LittleEndian.AppendUint32(buf, a.InstanceCount)
	buf = binary.LittleEndian.AppendUint32(buf, a.FirstVertex)
	return binary.LittleEndian.AppendUint32(buf, a.FirstInstance)
}

// IndirectArgs returns the arguments of the single instanced strip draw
// covering the batch: four vertices per instance.
func (s DrawSubmission) IndirectArgs() DrawIndirectArgs {
	return DrawIndirectArgs{
		VertexCount:   4,
		InstanceCount: uint32(s.InstanceCount()), //nolint:gosec // bounded by MaxInstances
	}
}

// TransformUniform encodes a row-major transform for a mat4x4<f32> uniform.
// The shader multiplies the row vector by the matrix, which with WGSL's
// column-major storage applies the row-major transform as written.
func TransformUniform(m f32.Mat4) []byte {
	buf := make([]byte, 0, TransformUniformSize)
	for _, v := range m {
		buf = appendFloat(buf, v)
	}
	return buf
}

func appendFloat(buf []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
}

func appendVec2(buf []byte, v f32.Vec2) []byte {
	return appendFloat(appendFloat(buf, v[0]), v[1])
}

func appendVec4(buf []byte, v f32.Vec4) []byte {
	for _, c := range v {
		buf = appendFloat(buf, c)
	}
	return buf
}
