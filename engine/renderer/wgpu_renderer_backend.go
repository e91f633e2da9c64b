package renderer

import (
	_ "embed"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-outline/common"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/blit.wgsl
var blitShaderSource string

const blitPipelineKey = "renderer_blit"

var (
	// ErrNoFrame is returned by pass operations called outside BeginFrame/EndFrame.
	ErrNoFrame = errors.New("renderer: no frame in progress")

	// ErrPassInProgress is returned when a pass begins before the previous one ended.
	ErrPassInProgress = errors.New("renderer: render pass already in progress")

	// ErrNoPass is returned by draw calls issued outside a render pass.
	ErrNoPass = errors.New("renderer: no render pass in progress")

	// ErrFramePending is returned by BeginFrame while the previous surface image is not presented.
	ErrFramePending = errors.New("renderer: previous frame surface not yet presented")
)

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	presentMode   wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)
	sampleCount   MSAASampleCount

	// offscreen targets, recreated by ConfigureSurface
	targets     []*wgpu.Texture
	targetViews []*wgpu.TextureView
	msaaColor   *wgpu.TextureView
	msaaNormal  *wgpu.TextureView
	attachments Attachments

	blit          pipeline.Pipeline
	blitProviders [2]bind_group_provider.BindGroupProvider
	blitBoundGen  uint64

	// frame state shared by every pass of the frame
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuRendererBackend interface {
	Device() *wgpu.Device
	Queue() *wgpu.Queue

	// ConfigureSurface configures the swapchain and recreates the offscreen attachments.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode. Applies on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SampleCount returns the main pass sample count.
	SampleCount() uint32

	// Attachments returns the current offscreen targets.
	Attachments() Attachments

	// SwapColor makes the destination color target the source.
	SwapColor()

	// RegisterRenderPipeline creates the shader modules, pipeline layout and GPU pipeline
	// described by p and stores it on p.
	//
	// Parameters:
	//   - p: the pipeline description
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers uploads vertex and index data and stores the buffers on the provider.
	//
	// Parameters:
	//   - provider: the provider to store the buffers on
	//   - vertexData: the vertex bytes
	//   - indexData: the uint32 index bytes
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: an error if a buffer could not be created
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates missing buffers and the bind group for a layout descriptor.
	// Texture and sampler bindings must already be set on the provider.
	//
	// Parameters:
	//   - provider: the provider holding the resources
	//   - descriptor: the layout descriptor of the group
	//   - bufferUsageOverrides: extra usage flags per binding
	//   - bufferSizeOverrides: buffer sizes per binding, replacing MinBindingSize
	//
	// Returns:
	//   - error: an error if a resource is missing or could not be created
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// WriteBuffers writes staged data to the GPU queue. Writes whose buffer does not exist are skipped.
	//
	// Parameters:
	//   - writes: the buffer writes
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next swapchain image and creates the frame's command encoder.
	//
	// Returns:
	//   - error: an error if the image or encoder could not be acquired
	BeginFrame() error

	// BeginMainPass starts the scene pass writing color, normal and depth.
	//
	// Returns:
	//   - error: ErrNoFrame or ErrPassInProgress
	BeginMainPass() error

	// BeginPostPass starts a fullscreen pass writing the destination color target.
	//
	// Returns:
	//   - error: ErrNoFrame or ErrPassInProgress
	BeginPostPass() error

	// DrawCall encodes an indexed, instanced draw into the current pass.
	//
	// Parameters:
	//   - p: the pipeline
	//   - meshProvider: the provider holding vertex and index buffers
	//   - instanceCount: the number of instances
	//   - bindGroups: providers whose bind groups are set at their slice index
	//
	// Returns:
	//   - error: ErrNoPass if no pass is in progress
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// DrawFullscreen encodes a three vertex draw covering the target.
	//
	// Parameters:
	//   - p: the pipeline
	//   - bindGroups: providers whose bind groups are set at their slice index
	//
	// Returns:
	//   - error: ErrNoPass if no pass is in progress
	DrawFullscreen(p pipeline.Pipeline, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndPass ends the current pass. It is a no-op without one.
	EndPass()

	// BlitToSurface copies the source color target to the swapchain image in its own pass.
	//
	// Returns:
	//   - error: an error if no frame is in progress or the blit resources could not be built
	BlitToSurface() error

	// EndFrame ends any open pass and submits the frame's command buffer.
	EndFrame()

	// Present presents the swapchain image and releases it.
	Present()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) wgpuRendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		sampleCount: max(sampleCount, MSAAOff),
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuRendererBackendImpl) SampleCount() uint32 {
	return uint32(b.sampleCount)
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	width, height = max(width, 1), max(height, 1)

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseTargets()

	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}
	sampled := wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding
	count := uint32(b.sampleCount)

	gen := b.attachments.Generation + 1
	b.attachments = Attachments{
		Width:       size.Width,
		Height:      size.Height,
		Generation:  gen,
		SampleCount: count,
		Depth:       b.createTarget("Depth Attachment", size, AttachmentDepthFormat, sampled, count),
		Normal:      b.createTarget("Normal Attachment", size, AttachmentNormalFormat, sampled, 1),
		Color: [2]*wgpu.TextureView{
			b.createTarget("Color Attachment A", size, AttachmentColorFormat, sampled, 1),
			b.createTarget("Color Attachment B", size, AttachmentColorFormat, sampled, 1),
		},
	}
	b.msaaColor, b.msaaNormal = nil, nil
	if count > 1 {
		// main pass renders into these and resolves into Color[Current] and Normal
		b.msaaColor = b.createTarget("MSAA Color", size, AttachmentColorFormat, wgpu.TextureUsageRenderAttachment, count)
		b.msaaNormal = b.createTarget("MSAA Normal", size, AttachmentNormalFormat, wgpu.TextureUsageRenderAttachment, count)
	}
}

// createTarget creates a 2D render target and its view, tracking both for release.
// Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) createTarget(label string, size wgpu.Extent3D, format wgpu.TextureFormat, usage wgpu.TextureUsage, samples uint32) *wgpu.TextureView {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		panic(err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		panic(err)
	}
	b.targets = append(b.targets, tex)
	b.targetViews = append(b.targetViews, view)
	return view
}

// releaseTargets frees the offscreen targets. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) releaseTargets() {
	for _, v := range b.targetViews {
		v.Release()
	}
	for _, t := range b.targets {
		t.Release()
	}
	b.targets, b.targetViews = nil, nil
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackendImpl) Attachments() Attachments {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attachments
}

func (b *wgpuRendererBackendImpl) SwapColor() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attachments.Current = 1 - b.attachments.Current
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registerRenderPipeline(p)
}

// registerRenderPipeline builds the GPU pipeline. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) registerRenderPipeline(p pipeline.Pipeline) error {
	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)
	if vertexShader == nil || fragmentShader == nil {
		return fmt.Errorf("pipeline %q: both vertex and fragment shaders must be set", p.PipelineKey())
	}

	vs, err := b.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return fmt.Errorf("pipeline %q: vertex module: %w", p.PipelineKey(), err)
	}
	fs, err := b.device.CreateShaderModule(fragmentShader.Module())
	if err != nil {
		return fmt.Errorf("pipeline %q: fragment module: %w", p.PipelineKey(), err)
	}

	merged := pipeline.BindGroupLayoutDescriptors(p)
	maxGroup := -1
	for g := range merged {
		maxGroup = max(maxGroup, g)
	}
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g, desc := range merged {
		layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			return fmt.Errorf("pipeline %q: bind group layout %d: %w", p.PipelineKey(), g, layoutErr)
		}
		bindGroupLayouts[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return fmt.Errorf("pipeline %q: layout: %w", p.PipelineKey(), err)
	}

	var vertexLayouts []wgpu.VertexBufferLayout
	for i := range len(vertexShader.VertexLayouts()) {
		vertexLayouts = append(vertexLayouts, vertexShader.VertexLayouts()[i]...)
	}

	targets := make([]wgpu.ColorTargetState, 0, len(p.ColorFormats()))
	for _, format := range p.ColorFormats() {
		state := wgpu.ColorTargetState{
			Format:    common.Coalesce(format, b.surfaceFormat),
			WriteMask: p.WriteMask(),
		}
		if p.BlendEnabled() {
			state.Blend = p.BlendState()
		}
		targets = append(targets, state)
	}

	var depthStencil *wgpu.DepthStencilState
	if p.DepthFormat() != wgpu.TextureFormatUndefined {
		depthCompare := wgpu.CompareFunctionLess
		if !p.DepthTestEnabled() {
			depthCompare = wgpu.CompareFunctionAlways
		}
		depthStencil = &wgpu.DepthStencilState{
			Format:              p.DepthFormat(),
			DepthWriteEnabled:   p.DepthWriteEnabled(),
			DepthCompare:        depthCompare,
			DepthBias:           p.DepthBias(),
			DepthBiasSlopeScale: p.DepthBiasSlopeScale(),
			StencilFront:        wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:         wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		}
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets:    targets,
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: p.SampleCount(),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: depthStencil,
	})
	if err != nil {
		return fmt.Errorf("pipeline %q: %w", p.PipelineKey(), err)
	}

	p.SetRenderPipeline(created)
	return nil
}

func (b *wgpuRendererBackendImpl) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var vertexBuffer, indexBuffer *wgpu.Buffer
	if len(vertexData) > 0 {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: provider.Label() + " Vertex Buffer",
			Size:  uint64(len(vertexData)),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return err
		}
		b.queue.WriteBuffer(buf, 0, vertexData)
		vertexBuffer = buf
	}
	if len(indexData) > 0 {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: provider.Label() + " Index Buffer",
			Size:  uint64(len(indexData)),
			Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return err
		}
		b.queue.WriteBuffer(buf, 0, indexData)
		indexBuffer = buf
	}

	provider.SetMesh(vertexBuffer, indexBuffer, indexCount)
	return nil
}

func (b *wgpuRendererBackendImpl) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initBindGroup(provider, descriptor, bufferUsageOverrides, bufferSizeOverrides)
}

// initBindGroup creates the bind group. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) initBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	if len(descriptor.Entries) == 0 {
		return nil
	}

	layout := provider.BindGroupLayout()
	if layout == nil {
		var err error
		layout, err = b.device.CreateBindGroupLayout(&descriptor)
		if err != nil {
			return err
		}
		provider.SetBindGroupLayout(layout)
	}

	entries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)

		switch {
		case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			tv := provider.TextureView(binding)
			if tv == nil {
				return fmt.Errorf("%s: texture binding %d has no texture view", provider.Label(), binding)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, TextureView: tv}

		case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			samp := provider.Sampler(binding)
			if samp == nil {
				return fmt.Errorf("%s: sampler binding %d has no sampler", provider.Label(), binding)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, Sampler: samp}

		default:
			buf := provider.Buffer(binding)
			if buf == nil {
				usage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
				if entry.Buffer.Type == wgpu.BufferBindingTypeUniform {
					usage = wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
				}
				if extra, ok := bufferUsageOverrides[binding]; ok {
					usage |= extra
				}
				size := entry.Buffer.MinBindingSize
				if override, ok := bufferSizeOverrides[binding]; ok {
					size = override
				}

				var err error
				buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
					Label: provider.Label() + " Buffer",
					Size:  size,
					Usage: usage,
				})
				if err != nil {
					return err
				}
				provider.SetBuffer(binding, buf)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, Buffer: buf, Size: wgpu.WholeSize}
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(bindGroup)
	return nil
}

// initSampler creates the sampler. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) initSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, s common.SamplerStagingData) error {
	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         provider.Label() + " Sampler",
		AddressModeU:  common.Coalesce(s.AddressModeU, wgpu.AddressModeClampToEdge),
		AddressModeV:  common.Coalesce(s.AddressModeV, wgpu.AddressModeClampToEdge),
		AddressModeW:  common.Coalesce(s.AddressModeW, wgpu.AddressModeClampToEdge),
		MagFilter:     common.Coalesce(s.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(s.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(s.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   s.LodMinClamp,
		LodMaxClamp:   common.Coalesce(s.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(s.MaxAnisotropy, 1),
		Compare:       s.Compare,
	})
	if err != nil {
		return err
	}
	provider.SetSampler(bindingKey, samp)
	return nil
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			continue
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return ErrFramePending
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	b.frameEncoder = encoder
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

// beginPass checks the frame state and opens a pass. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) beginPass(desc *wgpu.RenderPassDescriptor) error {
	if b.frameEncoder == nil {
		return ErrNoFrame
	}
	if b.framePass != nil {
		return ErrPassInProgress
	}
	b.framePass = b.frameEncoder.BeginRenderPass(desc)
	return nil
}

func (b *wgpuRendererBackendImpl) BeginMainPass() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	color := wgpu.RenderPassColorAttachment{
		View:       b.attachments.Source(),
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
	}
	normal := wgpu.RenderPassColorAttachment{
		View:    b.attachments.Normal,
		LoadOp:  wgpu.LoadOpClear,
		StoreOp: wgpu.StoreOpStore,
	}
	if b.msaaColor != nil {
		color.ResolveTarget, color.View, color.StoreOp = color.View, b.msaaColor, wgpu.StoreOpDiscard
		normal.ResolveTarget, normal.View, normal.StoreOp = normal.View, b.msaaNormal, wgpu.StoreOpDiscard
	}

	return b.beginPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color, normal},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.attachments.Depth,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore, // read by post passes
			DepthClearValue: 1.0,
		},
	})
}

func (b *wgpuRendererBackendImpl) BeginPostPass() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.beginPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    b.attachments.Destination(),
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
		}},
	})
}

// setPipelineAndGroups binds the pipeline and bind groups on the current pass.
// Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) setPipelineAndGroups(p pipeline.Pipeline, bindGroups []bind_group_provider.BindGroupProvider) error {
	if b.framePass == nil {
		return ErrNoPass
	}
	if p.RenderPipeline() == nil {
		return fmt.Errorf("pipeline %q has not been registered", p.PipelineKey())
	}
	b.framePass.SetPipeline(p.RenderPipeline())
	for i, bg := range bindGroups {
		b.framePass.SetBindGroup(uint32(i), bg.BindGroup(), nil)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.setPipelineAndGroups(p, bindGroups); err != nil {
		return err
	}
	b.framePass.SetVertexBuffer(0, meshProvider.VertexBuffer(), 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(meshProvider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(meshProvider.IndexCount()), instanceCount, 0, 0, 0)
	return nil
}

func (b *wgpuRendererBackendImpl) DrawFullscreen(p pipeline.Pipeline, bindGroups []bind_group_provider.BindGroupProvider) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.setPipelineAndGroups(p, bindGroups); err != nil {
		return err
	}
	b.framePass.Draw(3, 1, 0, 0)
	return nil
}

func (b *wgpuRendererBackendImpl) EndPass() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.endPass()
}

// endPass closes the current pass if there is one. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) endPass() {
	if b.framePass == nil {
		return
	}
	b.framePass.End()
	b.framePass = nil
}

func (b *wgpuRendererBackendImpl) BlitToSurface() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return ErrNoFrame
	}
	if err := b.prepareBlit(); err != nil {
		return err
	}
	err := b.beginPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    b.frameView,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
		}},
	})
	if err != nil {
		return err
	}
	defer b.endPass()

	provider := b.blitProviders[b.attachments.Current]
	return b.setAndDrawFullscreen(b.blit, []bind_group_provider.BindGroupProvider{provider})
}

func (b *wgpuRendererBackendImpl) setAndDrawFullscreen(p pipeline.Pipeline, bindGroups []bind_group_provider.BindGroupProvider) error {
	if err := b.setPipelineAndGroups(p, bindGroups); err != nil {
		return err
	}
	b.framePass.Draw(3, 1, 0, 0)
	return nil
}

// prepareBlit builds the blit pipeline once and rebinds its source textures after a resize.
// Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) prepareBlit() error {
	if b.blit == nil {
		vs, err := shader.NewShaderFromSource(blitPipelineKey, shader.ShaderTypeVertex, blitShaderSource)
		if err != nil {
			return err
		}
		fs, err := shader.NewShaderFromSource(blitPipelineKey, shader.ShaderTypeFragment, blitShaderSource)
		if err != nil {
			return err
		}
		p := pipeline.NewPipeline(blitPipelineKey,
			pipeline.WithVertexShader(vs),
			pipeline.WithFragmentShader(fs),
			pipeline.WithPostProcess(pipeline.ColorTargetSurface),
		)
		if err := b.registerRenderPipeline(p); err != nil {
			return err
		}
		b.blit = p
		for i := range b.blitProviders {
			b.blitProviders[i] = bind_group_provider.NewBindGroupProvider(fmt.Sprintf("%s_%d", blitPipelineKey, i))
			if err := b.initSampler(b.blitProviders[i], 1, common.SamplerStagingData{}); err != nil {
				return err
			}
		}
	}

	if b.blitBoundGen == b.attachments.Generation {
		return nil
	}
	desc := pipeline.BindGroupLayoutDescriptors(b.blit)[0]
	for i, provider := range b.blitProviders {
		provider.ReleaseBindGroup()
		provider.BorrowTextureView(0, b.attachments.Color[i])
		if err := b.initBindGroup(provider, desc, nil, nil); err != nil {
			return err
		}
	}
	b.blitBoundGen = b.attachments.Generation
	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return
	}
	b.endPass()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		b.releaseFrameSurface()
		return
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}
	b.surface.Present()
	b.releaseFrameSurface()
}

// releaseFrameSurface drops the swapchain image of the frame. Caller must hold the mutex.
func (b *wgpuRendererBackendImpl) releaseFrameSurface() {
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

// MainPassColorFormats lists the color formats a main pass pipeline must declare, in @location order.
//
// Returns:
//   - []wgpu.TextureFormat: the color and normal attachment formats
func MainPassColorFormats() []wgpu.TextureFormat {
	return []wgpu.TextureFormat{AttachmentColorFormat, AttachmentNormalFormat}
}
