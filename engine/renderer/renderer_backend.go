package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately. May tear.
	PresentModeUncapped
)

// MSAASampleCount is the number of samples of the main pass attachments.
// WebGPU guarantees 1 and 4; other counts are adapter-dependent.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisampling. Post-process effects that sample depth per texel need this.
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisampling.
	MSAA4x MSAASampleCount = 4
)

// Attachment formats of the offscreen targets written by the main pass and read by post passes.
const (
	AttachmentColorFormat  = wgpu.TextureFormatRGBA16Float
	AttachmentNormalFormat = wgpu.TextureFormatRGBA16Float
	AttachmentDepthFormat  = wgpu.TextureFormatDepth32Float
)

// Surface is what the renderer needs from a window: a surface descriptor and its size.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
