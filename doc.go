// Package glyphbrush turns positioned glyphs into GPU-ready quads and
// batches any number of text sections into a single draw call.
//
// # Overview
//
// A GlyphInstance describes one glyph: where it goes on screen, where its
// pixels live in the atlas, its color and its depth. Expand turns an
// instance into the four vertices of a quad, using one corner table for
// both position and texture coordinate so a screen corner always samples
// the matching atlas corner.
//
// A Builder walks a sequence of Sections and collapses every instance into
// one DrawSubmission that shares a single transform and atlas binding:
//
//	b := glyphbrush.NewBuilder(glyphbrush.DefaultConfig())
//	sub, err := b.DrawSections(glyphbrush.Bindings{
//		Transform: glyphbrush.PixelToNDC(800, 600),
//		Atlas:     atlasView,
//	}, title, body)
//	if err != nil {
//		return err
//	}
//	if !sub.Empty() {
//		// upload sub.AppendVertexData(nil) and draw sub.VertexCount() vertices
//	}
//
// Brush adds a frame queue on top: sections are queued while a frame is
// assembled and drained into one submission at draw time.
//
// # Draw Paths
//
// A submission can be drawn three ways. The vertex path uploads the expanded
// quads (VertexBufferLayout) and draws them with AppendIndexData as a
// triangle list. The instanced path uploads one record per glyph
// (InstanceBufferLayout) and lets the vertex shader expand it from the
// built-in vertex index, drawing 4 vertices per instance as a triangle
// strip. IndirectArgs encodes that same draw for DrawIndirect.
//
// Package gpu implements the instanced path on a HAL device. Package
// internal/raster draws submissions on the CPU for tests and headless use.
// Package text shapes strings and lays them out as Runs.
//
// # Ordering
//
// Sections are drawn in the order given and instances in section order.
// With equal depth and an order-dependent blend, later glyphs are painted
// over earlier ones.
//
// # Logging
//
// The package is silent by default. Use SetLogger to route batch
// diagnostics to a slog.Logger.
package glyphbrush
