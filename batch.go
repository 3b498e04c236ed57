package glyphbrush

import (
	"fmt"
	"iter"
	"slices"

	"golang.org/x/image/math/f32"
)

// Config holds Builder configuration.
type Config struct {
	// InitialCapacity is the number of instances the vertex buffer is
	// sized for on the first glyph of a batch.
	// Default: 256
	InitialCapacity int

	// MaxInstances is the largest number of glyph instances per batch.
	// The default keeps vertex indices within 16 bits.
	// Default: 16384
	MaxInstances int
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		InitialCapacity: 256,
		MaxInstances:    16384,
	}
}

// Bindings references the caller-owned resources a batch is drawn with.
// The Builder passes them through untouched.
type Bindings struct {
	// Transform maps screen positions to clip space, row-major.
	Transform f32.Mat4

	// Atlas is the sampled glyph texture. Package gpu expects a
	// hal.TextureView, the CPU renderer an image.Image.
	Atlas Atlas
}

// Atlas is a type token for a glyph atlas binding. Consumers type-assert to
// the concrete binding they can sample.
type Atlas any

// DrawSubmission describes one draw call covering a whole batch.
type DrawSubmission struct {
	// Vertices holds four vertices per glyph instance, in QuadCorners order,
	// instances in section order. Nil for an empty batch.
	Vertices []Vertex

	// Bindings are the transform and atlas supplied to Draw.
	Bindings Bindings

	// Sections is the number of sections consumed.
	Sections int
}

// InstanceCount returns the number of glyph instances in the batch.
func (s DrawSubmission) InstanceCount() int { return len(s.Vertices) / 4 }

// VertexCount returns the number of vertices in the batch.
func (s DrawSubmission) VertexCount() int { return len(s.Vertices) }

// Empty reports whether the batch has nothing to draw. Callers should skip
// the draw call entirely for an empty batch.
func (s DrawSubmission) Empty() bool { return len(s.Vertices) == 0 }

// Quad returns the i-th quad of the batch.
func (s DrawSubmission) Quad(i int) Quad {
	var q Quad
	copy(q[:], s.Vertices[i*4:i*4+4])
	return q
}

// Quads iterates the batch quads in draw order.
func (s DrawSubmission) Quads() iter.Seq2[int, Quad] {
	return func(yield func(int, Quad) bool) {
		for i := range s.InstanceCount() {
			if !yield(i, s.Quad(i)) {
				return
			}
		}
	}
}

// Builder collapses any number of sections into a single draw submission.
// A Builder keeps no state between calls and is safe for concurrent use.
type Builder struct {
	config Config
}

// NewBuilder creates a Builder. Non-positive config values are replaced by
// their defaults.
func NewBuilder(config Config) *Builder {
	def := DefaultConfig()
	if config.MaxInstances <= 0 {
		config.MaxInstances = def.MaxInstances
	}
	if config.InitialCapacity <= 0 {
		config.InitialCapacity = def.InitialCapacity
	}
	config.InitialCapacity = min(config.InitialCapacity, config.MaxInstances)
	return &Builder{config: config}
}

// Config returns the builder configuration.
func (b *Builder) Config() Config {
	return b.config
}

// Draw walks the sections in order, and each section's instances in order,
// expanding every instance into the shared vertex buffer. Order matters:
// with equal depth, a glyph later in the batch is painted over an earlier
// one.
//
// The whole batch either succeeds or fails: a malformed instance or a batch
// larger than Config.MaxInstances aborts the call and no submission is
// returned.
func (b *Builder) Draw(bind Bindings, sections iter.Seq[Section]) (DrawSubmission, error) {
	var (
		verts     []Vertex
		nSections int
		count     int
	)
	if sections == nil {
		sections = func(func(Section) bool) {}
	}
	for section := range sections {
		if section == nil {
			nSections++
			continue
		}
		idx := 0
		for g := range section {
			if count == b.config.MaxInstances {
				return DrawSubmission{}, fmt.Errorf("%w: more than %d instances (section %d)",
					ErrCapacityExceeded, b.config.MaxInstances, nSections)
			}
			if err := g.Validate(); err != nil {
				return DrawSubmission{}, fmt.Errorf("section %d, glyph %d: %w", nSections, idx, err)
			}
			if verts == nil {
				verts = make([]Vertex, 0, 4*b.config.InitialCapacity)
			}
			q := Expand(g)
			verts = append(verts, q[:]...)
			count++
			idx++
		}
		nSections++
	}

	Logger().Debug("glyph batch built",
		"sections", nSections, "instances", count, "vertices", len(verts))

	return DrawSubmission{
		Vertices: verts,
		Bindings: bind,
		Sections: nSections,
	}, nil
}

// DrawSections is Draw over a fixed list of sections.
func (b *Builder) DrawSections(bind Bindings, sections ...Section) (DrawSubmission, error) {
	return b.Draw(bind, slices.Values(sections))
}
