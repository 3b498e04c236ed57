//go:build !nogpu

// Package gpu draws glyph batches on a wgpu HAL device.
//
// A Pipeline owns the shader, layouts, sampler and render pipeline for
// instanced glyph quads. Each frame, Prepare uploads a
// glyphbrush.DrawSubmission as one instance buffer plus a transform uniform
// and returns a Frame, which records a single draw into a render pass the
// caller owns:
//
//	p, err := gpu.NewPipeline(device, queue, gpu.DefaultConfig())
//	...
//	frame, err := p.Prepare(sub)
//	if err != nil {
//		return err
//	}
//	defer frame.Release()
//	frame.Record(renderPass)
//
// The vertex shader expands each instance with the same corner table as
// glyphbrush.Expand, so the CPU and GPU paths produce identical quads.
package gpu
