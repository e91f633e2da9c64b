package outline

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-outline/engine/render_graph"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Label is the render graph label of the outline node.
const Label render_graph.Label = "Outline"

// PipelineKey is the renderer cache key of the outline pipeline.
const PipelineKey = "outline"

// bind groups of the outline shader
const (
	groupAttachments = 0
	groupSettings    = 1
)

type nodeImpl struct {
	effect    Effect
	validator func(source string) ([]byte, error)

	once     sync.Once
	buildErr error

	mu           sync.Mutex
	textureDesc  wgpu.BindGroupLayoutDescriptor
	settingsDesc wgpu.BindGroupLayoutDescriptor
	textures     [2]bind_group_provider.BindGroupProvider // one per ping-pong source
	texturesGen  uint64
}

// Node is the outline render graph node. It draws one fullscreen pass per outlined view,
// reading the depth, normal and source color attachments and writing the destination color.
// Views of cameras that are not attached to the Effect are skipped. The attachment bind groups
// are shared by all views, so one renderer with one attachment set is assumed.
type Node interface {
	render_graph.Node

	// Prepare validates the shader and builds the pipeline. It runs once; later calls return
	// the first result.
	//
	// Parameters:
	//   - r: the renderer to register the pipeline with
	//
	// Returns:
	//   - error: nil, or an error wrapping ErrPipelineBuild
	Prepare(r renderer.Renderer) error

	// Err returns the pipeline build error, nil before Prepare or after a successful build.
	Err() error
}

var _ Node = &nodeImpl{}

// NewNode creates the outline node for an effect.
//
// Parameters:
//   - effect: the effect whose views are drawn
//   - options: functional options to configure the node
//
// Returns:
//   - Node: the node
func NewNode(effect Effect, options ...NodeBuilderOption) Node {
	n := &nodeImpl{
		effect:    effect,
		validator: shader.Validate,
	}
	for _, option := range options {
		option(n)
	}
	return n
}

func (n *nodeImpl) Err() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.buildErr
}

func (n *nodeImpl) Prepare(r renderer.Renderer) error {
	n.once.Do(func() {
		err := n.build(r)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrPipelineBuild, err)
			Logger().Error("outline pipeline build failed, effect disabled", "error", err)
		}
		n.mu.Lock()
		n.buildErr = err
		n.mu.Unlock()
	})
	return n.Err()
}

func (n *nodeImpl) build(r renderer.Renderer) error {
	if r == nil {
		return errors.New("no renderer")
	}
	if count := r.SampleCount(); count > 1 {
		return fmt.Errorf("main pass has %d samples: %w", count, ErrMultisampled)
	}

	source := ShaderSource()
	if _, err := n.validator(source); err != nil {
		if !errors.Is(err, shader.ErrValidatorLimitation) {
			return err
		}
		Logger().Warn("outline shader: validator limitation, deferring to the device", "error", err)
	}

	vs, err := shader.NewShaderFromSource(PipelineKey, shader.ShaderTypeVertex, source)
	if err != nil {
		return err
	}
	fs, err := shader.NewShaderFromSource(PipelineKey, shader.ShaderTypeFragment, source)
	if err != nil {
		return err
	}
	p := pipeline.NewPipeline(PipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithPostProcess(renderer.AttachmentColorFormat),
	)
	if err := r.RegisterPipelines(p); err != nil {
		return err
	}

	descs := pipeline.BindGroupLayoutDescriptors(p)
	n.mu.Lock()
	n.textureDesc = descs[groupAttachments]
	n.settingsDesc = descs[groupSettings]
	for i := range n.textures {
		n.textures[i] = bind_group_provider.NewBindGroupProvider(fmt.Sprintf("outline_attachments_%d", i))
	}
	n.mu.Unlock()

	Logger().Info("outline pipeline built", "key", PipelineKey, "format", renderer.AttachmentColorFormat)
	return nil
}

func (n *nodeImpl) Run(ctx *render_graph.RenderContext) error {
	if ctx == nil || ctx.Renderer == nil || ctx.Camera == nil {
		return nil
	}
	v := n.effect.View(ctx.Camera)
	if v == nil {
		return nil
	}
	r := ctx.Renderer
	if err := n.Prepare(r); err != nil {
		return err
	}

	att := r.Attachments()
	textures, err := n.bindAttachments(r, att)
	if err != nil {
		return err
	}
	settings, err := n.bindSettings(r, v, ctx.FrameIndex)
	if err != nil {
		return err
	}

	if err := r.BeginPostPass(); err != nil {
		return err
	}
	err = r.DrawFullscreen(PipelineKey, []bind_group_provider.BindGroupProvider{textures, settings})
	r.EndPass()
	if err != nil {
		return err
	}
	r.SwapColor()
	return nil
}

// bindAttachments rebuilds the attachment bind groups after the renderer recreated its targets
// and returns the one reading the current source color.
func (n *nodeImpl) bindAttachments(r renderer.Renderer, att renderer.Attachments) (bind_group_provider.BindGroupProvider, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.texturesGen != att.Generation {
		for i, p := range n.textures {
			p.ReleaseBindGroup()
			p.BorrowTextureView(0, att.Depth)
			p.BorrowTextureView(1, att.Normal)
			p.BorrowTextureView(2, att.Color[i])
			if err := r.InitBindGroup(p, n.textureDesc, nil, nil); err != nil {
				return nil, err
			}
		}
		Logger().Debug("outline attachments rebound", "generation", att.Generation, "width", att.Width, "height", att.Height)
		n.texturesGen = att.Generation
	}
	return n.textures[att.Current], nil
}

// bindSettings creates the GPU buffer of a view's frame slot on first use and seeds it with
// the uniform staged for that slot.
func (n *nodeImpl) bindSettings(r renderer.Renderer, v View, frameIndex uint64) (bind_group_provider.BindGroupProvider, error) {
	p := v.Provider(frameIndex)
	if p.BindGroup() != nil {
		return p, nil
	}

	n.mu.Lock()
	desc := n.settingsDesc
	n.mu.Unlock()
	if err := r.InitBindGroup(p, desc, nil, nil); err != nil {
		return nil, err
	}
	staged := v.Staged(frameIndex)
	r.WriteBuffers([]bind_group_provider.BufferWrite{{Provider: p, Binding: 0, Data: staged.Marshal()}})
	return p, nil
}
