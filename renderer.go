package cellgrid

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/cellgrid/cellgrid/shaders"
)

type quadVertex struct {
	Pos      mgl32.Vec4
	TexCoord mgl32.Vec2
}

func quadVertices() ([]quadVertex, []uint16) {
	vertices := []quadVertex{
		{Pos: mgl32.Vec4{-1, -1, 1, 1}, TexCoord: mgl32.Vec2{0, 0}},
		{Pos: mgl32.Vec4{1, -1, 1, 1}, TexCoord: mgl32.Vec2{1, 0}},
		{Pos: mgl32.Vec4{1, 1, 1, 1}, TexCoord: mgl32.Vec2{1, 1}},
		{Pos: mgl32.Vec4{-1, 1, 1, 1}, TexCoord: mgl32.Vec2{0, 1}},
	}
	indices := []uint16{0, 1, 2, 2, 3, 0}
	return vertices, indices
}

// Renderer blits the simulation's output texture onto the swapchain
// with a two-triangle quad. The fragment stage samples the texture; the
// vertex stage takes no arguments.
type Renderer struct {
	shader     *wgpu.ShaderModule
	sampler    *Sampler
	vertexBuf  *wgpu.Buffer
	indexBuf   *wgpu.Buffer
	indexCount uint32
	bindGroup  *wgpu.BindGroup
	pipeline   *wgpu.RenderPipeline
}

func NewRenderer(gpu *GpuState, params Bindable, tex *Texture) (*Renderer, error) {
	device := gpu.Device()
	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "cell renderer",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.Present},
	})
	if err != nil {
		return nil, fmt.Errorf("compiling present shader: %w", err)
	}

	vertices, indices := quadVertices()
	vertexBuf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "quad vertices",
		Contents: wgpu.ToBytes(vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		shader.Release()
		return nil, fmt.Errorf("creating vertex buffer: %w", err)
	}
	indexBuf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "quad indices",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		shader.Release()
		vertexBuf.Release()
		return nil, fmt.Errorf("creating index buffer: %w", err)
	}

	sampler, err := NewSampler(device, wgpu.AddressModeRepeat, wgpu.FilterModeLinear)
	if err != nil {
		shader.Release()
		vertexBuf.Release()
		indexBuf.Release()
		return nil, err
	}

	r := &Renderer{
		shader:     shader,
		sampler:    sampler,
		vertexBuf:  vertexBuf,
		indexBuf:   indexBuf,
		indexCount: uint32(len(indices)),
	}
	if err := r.bindUp(gpu, params, tex); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

// bindUp builds the fragment bind group and the render pipeline for the
// current params and texture. Called at construction and on resize.
func (r *Renderer) bindUp(gpu *GpuState, params Bindable, tex *Texture) error {
	device := gpu.Device()
	args := []BindingArg{
		{AccessReadOnly, params},
		{AccessReadSampled, tex},
		{AccessReadSampled, r.sampler},
	}
	layout, err := layoutEntries(args, wgpu.ShaderStageFragment)
	if err != nil {
		return fmt.Errorf("present: %w", err)
	}
	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "present bind group layout",
		Entries: layout,
	})
	if err != nil {
		return fmt.Errorf("present: creating bind group layout: %w", err)
	}
	defer bgl.Release()

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "present bind group",
		Layout:  bgl,
		Entries: groupEntries(args),
	})
	if err != nil {
		return fmt.Errorf("present: creating bind group: %w", err)
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "present pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		bindGroup.Release()
		return fmt.Errorf("present: creating pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "present pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     r.shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(4*4 + 2*4),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x2, Offset: 4 * 4, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     r.shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    gpu.SurfaceFormat(),
					Blend:     nil,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		bindGroup.Release()
		return fmt.Errorf("present: creating render pipeline: %w", err)
	}

	if r.bindGroup != nil {
		r.bindGroup.Release()
	}
	if r.pipeline != nil {
		r.pipeline.Release()
	}
	r.bindGroup = bindGroup
	r.pipeline = pipeline
	return nil
}

// Rebind points the renderer at a new generation of params and texture
// after a resize.
func (r *Renderer) Rebind(gpu *GpuState, params Bindable, tex *Texture) error {
	return r.bindUp(gpu, params, tex)
}

// Render draws the quad into view.
func (r *Renderer) Render(encoder *wgpu.CommandEncoder, view *wgpu.TextureView) error {
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
	})
	defer pass.Release()

	pass.SetPipeline(r.pipeline)
	pass.SetBindGroup(0, r.bindGroup, nil)
	pass.SetIndexBuffer(r.indexBuf, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	pass.SetVertexBuffer(0, r.vertexBuf, 0, wgpu.WholeSize)
	pass.DrawIndexed(r.indexCount, 1, 0, 0, 0)
	if err := pass.End(); err != nil {
		return fmt.Errorf("present: ending render pass: %w", err)
	}
	return nil
}

func (r *Renderer) Release() {
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	if r.bindGroup != nil {
		r.bindGroup.Release()
		r.bindGroup = nil
	}
	if r.sampler != nil {
		r.sampler.Release()
		r.sampler = nil
	}
	if r.indexBuf != nil {
		r.indexBuf.Release()
		r.indexBuf = nil
	}
	if r.vertexBuf != nil {
		r.vertexBuf.Release()
		r.vertexBuf = nil
	}
	if r.shader != nil {
		r.shader.Release()
		r.shader = nil
	}
}
