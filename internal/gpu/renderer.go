package gpu

import (
	_ "embed"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/raytrace"
)

//go:embed shaders/raytracer.wgsl
var raytracerShaderWGSL string

//go:embed shaders/blit.wgsl
var blitShaderWGSL string

// Renderer issues one compute dispatch and one presentation draw per
// frame and rebuilds size-dependent resources when the surface
// changes. It is not safe for concurrent use: Configure and
// RenderFrame must run from a single goroutine, which also guarantees
// no frame ever starts against a half-rebuilt binding.
type Renderer struct {
	ctx *Context

	surfaceFormat wgpu.TextureFormat
	alphaMode     wgpu.CompositeAlphaMode

	computePipeline *wgpu.ComputePipeline
	renderPipeline  *wgpu.RenderPipeline
	computeLayout   *wgpu.BindGroupLayout
	blitLayout      *wgpu.BindGroupLayout

	resources *FrameResources

	width  uint32
	height uint32
}

// NewRenderer builds the two pipelines against the context's surface
// format. Configure must be called once before the first frame.
func NewRenderer(ctx *Context) (*Renderer, error) {
	caps := ctx.surface.GetCapabilities(ctx.adapter)
	if len(caps.Formats) == 0 {
		return nil, fmt.Errorf("gpu: surface reports no formats")
	}

	r := &Renderer{
		ctx:           ctx,
		surfaceFormat: caps.Formats[0],
		alphaMode:     caps.AlphaModes[0],
	}

	if err := r.createComputePipeline(); err != nil {
		r.Release()
		return nil, err
	}
	if err := r.createRenderPipeline(); err != nil {
		r.Release()
		return nil, err
	}

	resources, err := newFrameResources(ctx.device)
	if err != nil {
		r.Release()
		return nil, err
	}
	r.resources = resources

	raytrace.Logger().Info("gpu: pipelines ready", "surfaceFormat", r.surfaceFormat)
	return r, nil
}

// createComputePipeline compiles the ray-tracing kernel and its
// storage-texture binding layout.
func (r *Renderer) createComputePipeline() error {
	module, err := r.ctx.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "raytracer-kernel",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: raytracerShaderWGSL,
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: failed to create kernel shader module: %w", err)
	}
	defer module.Release()

	layout, err := r.ctx.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "raytracer-kernel-layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageCompute,
				StorageTexture: wgpu.StorageTextureBindingLayout{
					Access:        wgpu.StorageTextureAccessWriteOnly,
					Format:        wgpu.TextureFormatRGBA8Unorm,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: failed to create kernel bind group layout: %w", err)
	}
	r.computeLayout = layout

	pipelineLayout, err := r.ctx.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "raytracer-kernel-pipeline-layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return fmt.Errorf("gpu: failed to create kernel pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	pipeline, err := r.ctx.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "raytracer-kernel-pipeline",
		Layout: pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "cs_trace",
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: failed to create compute pipeline: %w", err)
	}
	r.computePipeline = pipeline
	return nil
}

// createRenderPipeline compiles the presentation pass: a 4-vertex
// triangle strip sampling the color image through a bilinear sampler.
func (r *Renderer) createRenderPipeline() error {
	module, err := r.ctx.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "raytracer-blit",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: blitShaderWGSL,
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: failed to create blit shader module: %w", err)
	}
	defer module.Release()

	layout, err := r.ctx.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "raytracer-blit-layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: failed to create blit bind group layout: %w", err)
	}
	r.blitLayout = layout

	pipelineLayout, err := r.ctx.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "raytracer-blit-pipeline-layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return fmt.Errorf("gpu: failed to create blit pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	pipeline, err := r.ctx.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "raytracer-blit-pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_blit",
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_blit",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    r.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleStrip,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: failed to create render pipeline: %w", err)
	}
	r.renderPipeline = pipeline
	return nil
}

// Configure reacts to a surface size change: it clamps the requested
// size, reconfigures the presentation surface, rebuilds the output
// image and its bindings, and renders immediately. Every notification
// triggers a full rebuild; there is no debouncing.
func (r *Renderer) Configure(width, height int) error {
	w, h := clampExtent(width, height, r.ctx.maxTextureDim2D)

	r.ctx.surface.Configure(r.ctx.adapter, r.ctx.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      r.surfaceFormat,
		Width:       w,
		Height:      h,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   r.alphaMode,
	})

	if err := r.resources.Rebuild(r.computeLayout, r.blitLayout, w, h); err != nil {
		return err
	}
	r.width = w
	r.height = h

	raytrace.Logger().Info("gpu: surface configured", "width", w, "height", h)
	return r.RenderFrame()
}

// RenderFrame submits one unit of work: the compute dispatch over the
// current image followed by the presentation draw. The dispatch's
// writes are visible to the draw through intra-submission ordering; no
// explicit synchronization is needed and the host does not wait for
// completion.
func (r *Renderer) RenderFrame() error {
	if r.resources.computeBindGroup == nil {
		return ErrNotBuilt
	}

	surfaceTexture, err := r.ctx.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("gpu: failed to acquire surface texture: %w", err)
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return fmt.Errorf("gpu: failed to create surface view: %w", err)
	}
	defer func() {
		view.Release()
		surfaceTexture.Release()
	}()

	encoder, err := r.ctx.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("gpu: failed to create command encoder: %w", err)
	}
	defer encoder.Release()

	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(r.computePipeline)
	computePass.SetBindGroup(0, r.resources.computeBindGroup, nil)
	groupsX, groupsY := dispatchExtent(r.width, r.height)
	computePass.DispatchWorkgroups(groupsX, groupsY, 1)
	computePass.End()

	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
	})
	renderPass.SetPipeline(r.renderPipeline)
	renderPass.SetBindGroup(0, r.resources.blitBindGroup, nil)
	renderPass.Draw(4, 1, 0, 0)
	renderPass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("gpu: failed to finish command encoder: %w", err)
	}
	r.ctx.queue.Submit(commandBuffer)
	commandBuffer.Release()

	r.ctx.surface.Present()
	return nil
}

// Release drops all pipeline and frame resources. The renderer must
// not be used afterwards.
func (r *Renderer) Release() {
	if r.resources != nil {
		r.resources.Release()
		r.resources = nil
	}
	if r.renderPipeline != nil {
		r.renderPipeline.Release()
		r.renderPipeline = nil
	}
	if r.computePipeline != nil {
		r.computePipeline.Release()
		r.computePipeline = nil
	}
	if r.blitLayout != nil {
		r.blitLayout.Release()
		r.blitLayout = nil
	}
	if r.computeLayout != nil {
		r.computeLayout.Release()
		r.computeLayout = nil
	}
}
