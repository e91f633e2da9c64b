package pipeline

import (
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// ColorTargetSurface is a placeholder format resolved to the surface format when the
// renderer creates the pipeline.
const ColorTargetSurface wgpu.TextureFormat = wgpu.TextureFormatUndefined

type pipeline struct {
	pipelineKey string

	vertexShader, fragmentShader shader.Shader

	renderPipeline *wgpu.RenderPipeline

	// render state, set through the builder options

	colorFormats        []wgpu.TextureFormat
	depthFormat         wgpu.TextureFormat
	depthTestEnabled    bool
	depthWriteEnabled   bool
	depthBias           int32
	depthBiasSlopeScale float32
	sampleCount         uint32
	blendEnabled        bool
	cullMode            wgpu.CullMode
	topology            wgpu.PrimitiveTopology
	frontFace           wgpu.FrontFace
	writeMask           wgpu.ColorWriteMask
	blendState          *wgpu.BlendState
}

// Pipeline is a render pipeline description plus the GPU object created from it.
// Scene passes keep the default depth state and write color and normal targets;
// post-process passes disable depth and write a single color target at one sample.
type Pipeline interface {
	// PipelineKey returns the unique key of the pipeline.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// Shader returns the shader bound to a stage, or nil.
	//
	// Parameters:
	//   - shaderType: the stage
	//
	// Returns:
	//   - shader.Shader: the stage's shader or nil
	Shader(shaderType shader.ShaderType) shader.Shader

	// RenderPipeline returns the GPU pipeline, or nil before the renderer created it.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the GPU pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// ColorFormats returns the formats of the color targets, in @location order.
	// ColorTargetSurface entries are resolved to the surface format by the renderer.
	//
	// Returns:
	//   - []wgpu.TextureFormat: the color target formats
	ColorFormats() []wgpu.TextureFormat

	// DepthFormat returns the depth attachment format. TextureFormatUndefined means no depth attachment.
	//
	// Returns:
	//   - wgpu.TextureFormat: the depth format
	DepthFormat() wgpu.TextureFormat

	// DepthTestEnabled reports whether fragments are depth tested.
	DepthTestEnabled() bool

	// DepthWriteEnabled reports whether fragments write depth.
	DepthWriteEnabled() bool

	// DepthBias returns the constant depth bias.
	DepthBias() int32

	// DepthBiasSlopeScale returns the slope scaled depth bias.
	DepthBiasSlopeScale() float32

	// SampleCount returns the multisample count of the attachments the pipeline renders into.
	//
	// Returns:
	//   - uint32: the sample count, at least 1
	SampleCount() uint32

	// BlendEnabled reports whether BlendState applies to the color targets.
	BlendEnabled() bool

	// CullMode returns the face culling mode.
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology.
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the winding order of front faces.
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask applied to every color target.
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state used when blending is enabled.
	BlendState() *wgpu.BlendState

	// SetRenderPipeline stores the GPU pipeline created by the renderer.
	//
	// Parameters:
	//   - rp: the GPU pipeline
	SetRenderPipeline(rp *wgpu.RenderPipeline)

	// Release frees the GPU pipeline.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render pipeline description. Defaults: one surface-format color
// target, Depth32Float with test and write enabled, one sample, no culling, triangle lists.
//
// Parameters:
//   - pipelineKey: the unique key of the pipeline
//   - opts: builder options
//
// Returns:
//   - Pipeline: the pipeline description
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		colorFormats:      []wgpu.TextureFormat{ColorTargetSurface},
		depthFormat:       wgpu.TextureFormatDepth32Float,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		sampleCount:       1,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) ColorFormats() []wgpu.TextureFormat {
	return p.colorFormats
}

func (p *pipeline) DepthFormat() wgpu.TextureFormat {
	return p.depthFormat
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthBias() int32 {
	return p.depthBias
}

func (p *pipeline) DepthBiasSlopeScale() float32 {
	return p.depthBiasSlopeScale
}

func (p *pipeline) SampleCount() uint32 {
	return p.sampleCount
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
