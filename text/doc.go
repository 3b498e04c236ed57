// Package text turns strings into glyph placements for a glyphbrush batch.
//
// The pipeline has two steps:
//
//   - Shaper: HarfBuzz shaping via go-text/typesetting, producing glyph IDs
//     with advances and offsets
//   - Layout: walks a shaped run from a baseline origin and places every
//     glyph found in a GlyphSource, usually the glyph atlas
//
// # Example usage
//
//	shaper, err := text.NewShaper(goregular.TTF)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out := shaper.Shape("Hello, GoGPU!", text.Options{Size: fixed.I(24)})
//	run := text.LayoutRun(out, f32.Vec2{16, 40}, glyphs, color, 0)
//	brush.QueueRun(run)
//
// Glyphs missing from the GlyphSource, and glyphs without pixels such as
// spaces, still advance the pen but produce no placement.
package text
