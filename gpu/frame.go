//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/glyphbrush"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Frame holds the per-frame GPU resources of one prepared batch.
type Frame struct {
	device hal.Device

	pipeline    hal.RenderPipeline
	instanceBuf hal.Buffer
	uniformBuf  hal.Buffer
	indirectBuf hal.Buffer
	bindGroup   hal.BindGroup

	instances uint32
}

// Instances returns the number of glyph instances the frame draws.
func (f *Frame) Instances() int {
	if f == nil {
		return 0
	}
	return int(f.instances)
}

// Prepare uploads a submission and returns the frame that draws it.
// An empty submission yields an empty frame that records nothing and
// allocates no GPU resources.
func (p *Pipeline) Prepare(sub glyphbrush.DrawSubmission) (*Frame, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pipeline == nil {
		return nil, ErrPipelineDestroyed
	}
	if sub.Empty() {
		return &Frame{device: p.device}, nil
	}
	view, ok := sub.Bindings.Atlas.(hal.TextureView)
	if !ok || view == nil {
		return nil, fmt.Errorf("%w: got %T", ErrAtlasBinding, sub.Bindings.Atlas)
	}

	f := &Frame{
		device:    p.device,
		pipeline:  p.pipeline,
		instances: uint32(sub.InstanceCount()), //nolint:gosec // bounded by Builder MaxInstances
	}

	var err error
	f.instanceBuf, err = p.createAndUploadBuffer("glyph_instances", sub.AppendInstanceData(nil),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		f.Release()
		return nil, err
	}
	f.uniformBuf, err = p.createAndUploadBuffer("glyph_transform", glyphbrush.TransformUniform(sub.Bindings.Transform),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		f.Release()
		return nil, err
	}
	f.indirectBuf, err = p.createAndUploadBuffer("glyph_indirect", sub.IndirectArgs().Bytes(),
		gputypes.BufferUsageIndirect|gputypes.BufferUsageCopyDst)
	if err != nil {
		f.Release()
		return nil, err
	}

	f.bindGroup, err = p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "glyph_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: f.uniformBuf.NativeHandle(), Offset: 0, Size: glyphbrush.TransformUniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: p.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		f.Release()
		return nil, fmt.Errorf("create glyph bind group: %w", err)
	}

	slogger().Debug("glyph frame prepared",
		"instances", f.instances, "sections", sub.Sections)
	return f, nil
}

// createAndUploadBuffer creates a buffer sized to data and writes data into it.
func (p *Pipeline) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if err := p.queue.WriteBuffer(buf, 0, data); err != nil {
		p.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("write %s: %w", label, err)
	}
	return buf, nil
}

// Record records the batch as one instanced triangle-strip draw into a
// render pass owned by the caller. An empty frame records nothing.
func (f *Frame) Record(rp hal.RenderPassEncoder) {
	if !f.bind(rp) {
		return
	}
	rp.Draw(4, f.instances, 0, 0)
}

// RecordIndirect is Record with the draw arguments read from the frame's
// indirect buffer.
func (f *Frame) RecordIndirect(rp hal.RenderPassEncoder) {
	if !f.bind(rp) {
		return
	}
	rp.DrawIndirect(f.indirectBuf, 0)
}

func (f *Frame) bind(rp hal.RenderPassEncoder) bool {
	if f == nil || f.instances == 0 || f.bindGroup == nil {
		return false
	}
	rp.SetPipeline(f.pipeline)
	rp.SetBindGroup(0, f.bindGroup, nil)
	rp.SetVertexBuffer(0, f.instanceBuf, 0)
	return true
}

// Release destroys the frame's GPU resources. Call it once the command
// buffer recording the frame has completed. Safe to call multiple times.
func (f *Frame) Release() {
	if f == nil || f.device == nil {
		return
	}
	if f.bindGroup != nil {
		f.device.DestroyBindGroup(f.bindGroup)
		f.bindGroup = nil
	}
	for _, buf := range []*hal.Buffer{&f.indirectBuf, &f.uniformBuf, &f.instanceBuf} {
		if *buf != nil {
			f.device.DestroyBuffer(*buf)
			*buf = nil
		}
	}
	f.instances = 0
}
