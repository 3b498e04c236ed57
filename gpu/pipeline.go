//go:build !nogpu

package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/glyphbrush"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Config holds glyph pipeline configuration.
type Config struct {
	// Format is the color target format.
	// Default: BGRA8Unorm, or the provider's surface format.
	Format gputypes.TextureFormat

	// SampleCount is the MSAA sample count of the render pass.
	// Default: 1
	SampleCount uint32

	// DepthFormat enables depth testing against the glyph depth when set.
	// Default: Undefined (no depth attachment)
	DepthFormat gputypes.TextureFormat

	// DepthCompare is used when DepthFormat is set.
	// Default: LessEqual
	DepthCompare gputypes.CompareFunction

	// Blend is the color target blend state.
	// Default: straight alpha (gputypes.BlendStateAlpha)
	Blend *gputypes.BlendState

	// SPIRV compiles the shader to SPIR-V with naga instead of handing the
	// WGSL source to the backend.
	SPIRV bool
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	blend := gputypes.BlendStateAlpha()
	return Config{
		Format:       gputypes.TextureFormatBGRA8Unorm,
		SampleCount:  1,
		DepthCompare: gputypes.CompareFunctionLessEqual,
		Blend:        &blend,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Format == gputypes.TextureFormatUndefined {
		c.Format = def.Format
	}
	if c.SampleCount == 0 {
		c.SampleCount = def.SampleCount
	}
	if c.DepthCompare == gputypes.CompareFunctionUndefined {
		c.DepthCompare = def.DepthCompare
	}
	if c.Blend == nil {
		c.Blend = def.Blend
	}
	return c
}

// Pipeline renders glyph batches with one instanced draw per batch.
// Prepare and Destroy are safe for concurrent use.
type Pipeline struct {
	device hal.Device
	queue  hal.Queue
	config Config

	mu         sync.Mutex
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	sampler    hal.Sampler
	pipeline   hal.RenderPipeline
}

// NewPipeline creates the glyph pipeline on device. Zero config fields are
// replaced by their defaults.
func NewPipeline(device hal.Device, queue hal.Queue, config Config) (*Pipeline, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	p := &Pipeline{
		device: device,
		queue:  queue,
		config: config.withDefaults(),
	}
	if err := p.create(); err != nil {
		p.destroy()
		return nil, err
	}
	slogger().Debug("glyph pipeline created",
		"format", p.config.Format, "samples", p.config.SampleCount, "spirv", p.config.SPIRV)
	return p, nil
}

// NewPipelineFromProvider creates the glyph pipeline on a shared device.
// The provider must also implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue. An undefined config format is taken
// from the provider's surface format.
func NewPipelineFromProvider(provider gpucontext.DeviceProvider, config Config) (*Pipeline, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALProvider)
	}
	if config.Format == gputypes.TextureFormatUndefined {
		config.Format = provider.SurfaceFormat()
	}
	return NewPipeline(device, queue, config)
}

// Config returns the effective pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.config
}

func (p *Pipeline) create() error {
	source := hal.ShaderSource{WGSL: glyphShaderSource}
	if p.config.SPIRV {
		words, err := compileSPIRV(glyphShaderSource)
		if err != nil {
			return err
		}
		source = hal.ShaderSource{SPIRV: words}
	}
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "glyph_shader",
		Source: source,
	})
	if err != nil {
		return fmt.Errorf("create glyph shader: %w", err)
	}
	p.shader = shader

	// Bind group layout:
	//   Binding 0: transform (uniform buffer, vertex)
	//   Binding 1: glyph atlas (texture_2d, fragment)
	//   Binding 2: sampler (fragment)
	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "glyph_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create glyph bind layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "glyph_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create glyph pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "glyph_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("create glyph sampler: %w", err)
	}
	p.sampler = sampler

	desc := &hal.RenderPipelineDescriptor{
		Label:  "glyph_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    []gputypes.VertexBufferLayout{glyphbrush.InstanceBufferLayout()},
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.config.Format,
					Blend:     p.config.Blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleStrip,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: p.config.SampleCount,
			Mask:  0xFFFFFFFF,
		},
	}
	if p.config.DepthFormat != gputypes.TextureFormatUndefined {
		desc.DepthStencil = &hal.DepthStencilState{
			Format:            p.config.DepthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      p.config.DepthCompare,
			StencilFront:      keepStencil(),
			StencilBack:       keepStencil(),
		}
	}
	pipeline, err := p.device.CreateRenderPipeline(desc)
	if err != nil {
		return fmt.Errorf("create glyph pipeline: %w", err)
	}
	p.pipeline = pipeline
	return nil
}

func keepStencil() hal.StencilFaceState {
	return hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
}

// Destroy releases all GPU resources held by the pipeline. Safe to call
// multiple times. Frames prepared earlier must be released separately.
func (p *Pipeline) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.destroy()
}

// destroy releases resources in reverse creation order.
func (p *Pipeline) destroy() {
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
