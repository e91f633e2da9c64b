package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer defines the interface for the rendering system.
//
// A frame is driven as BeginFrame, BeginMainPass, DrawCall..., EndPass, then any number of
// post passes (BeginPostPass, DrawFullscreen, EndPass, SwapColor), then BlitToSurface,
// EndFrame and Present. Post passes read Attachments().Source() and write Destination().
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines retrieves the entire cache of Pipelines.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a map of pipeline keys to their corresponding Pipeline objects
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines creates the GPU pipeline objects via the backend, then caches them by PipelineKey.
	// Pipelines whose keys are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface and recreates the offscreen attachments.
	// Attachments().Generation changes, so bind groups that borrow attachment views must be rebuilt.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode. A call to Resize is required for it to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SampleCount returns the sample count of the main pass.
	//
	// Returns:
	//   - uint32: the sample count
	SampleCount() uint32

	// InitMeshBuffers creates GPU vertex and index buffers from raw byte data and stores them
	// on the given BindGroupProvider for later use in draw calls.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - indexData: the raw index data bytes to upload to the GPU
	//   - indexCount: the number of indices, used for draw calls
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates GPU buffers and a bind group from a layout descriptor and stores them
	// on the given BindGroupProvider. Textures and samplers must be set on the provider first.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - descriptor: the layout descriptor defining the bind group entries
	//   - bufferUsageOverrides: additional buffer usage flags keyed by binding index (nil safe)
	//   - bufferSizeOverrides: custom buffer sizes keyed by binding index (nil safe)
	//
	// Returns:
	//   - error: an error if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// Attachments returns the offscreen targets of the current surface size.
	//
	// Returns:
	//   - Attachments: the depth, normal and ping-pong color views
	Attachments() Attachments

	// BeginFrame acquires the swapchain texture and creates the frame's command encoder.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// BeginMainPass starts the scene pass that clears and writes color, normal and depth.
	//
	// Returns:
	//   - error: an error if no frame is in progress or a pass is already open
	BeginMainPass() error

	// DrawCall encodes a single instanced draw command within the current pass.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the cached render Pipeline to use
	//   - meshProvider: the BindGroupProvider holding vertex and index buffers
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: BindGroupProviders whose BindGroups are set at their slice index
	//
	// Returns:
	//   - error: an error if the pipeline is not found or no pass is open
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// BeginPostPass starts a fullscreen pass writing Attachments().Destination().
	//
	// Returns:
	//   - error: an error if no frame is in progress or a pass is already open
	BeginPostPass() error

	// DrawFullscreen encodes one fullscreen triangle within the current pass.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the cached render Pipeline to use
	//   - bindGroups: BindGroupProviders whose BindGroups are set at their slice index
	//
	// Returns:
	//   - error: an error if the pipeline is not found or no pass is open
	DrawFullscreen(pipelineKey string, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndPass ends the current pass.
	EndPass()

	// SwapColor swaps the ping-pong color targets so the last post pass output becomes the source.
	SwapColor()

	// BlitToSurface copies Attachments().Source() to the swapchain texture.
	//
	// Returns:
	//   - error: an error if no frame is in progress
	BlitToSurface() error

	// EndFrame ends any open pass and submits the command buffer to the GPU.
	// Call Present() after EndFrame to display the frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	Present()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type and surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - surface: the surface source, typically a window.Window
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x // default
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(surface.Width(), surface.Height())
	return r
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SampleCount() uint32 {
	return r.backend.SampleCount()
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return err
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferUsageOverrides, bufferSizeOverrides)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) Attachments() Attachments {
	return r.backend.Attachments()
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) BeginMainPass() error {
	return r.backend.BeginMainPass()
}

func (r *renderer) lookup(pipelineKey string) (pipeline.Pipeline, error) {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return nil, fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	return p, nil
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	p, err := r.lookup(pipelineKey)
	if err != nil {
		return err
	}
	return r.backend.DrawCall(p, meshProvider, instanceCount, bindGroups)
}

func (r *renderer) BeginPostPass() error {
	return r.backend.BeginPostPass()
}

func (r *renderer) DrawFullscreen(pipelineKey string, bindGroups []bind_group_provider.BindGroupProvider) error {
	p, err := r.lookup(pipelineKey)
	if err != nil {
		return err
	}
	return r.backend.DrawFullscreen(p, bindGroups)
}

func (r *renderer) EndPass() {
	r.backend.EndPass()
}

func (r *renderer) SwapColor() {
	r.backend.SwapColor()
}

func (r *renderer) BlitToSurface() error {
	return r.backend.BlitToSurface()
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}
