package outline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-outline/engine"
	"github.com/Carmen-Shannon/oxy-outline/engine/render_graph"
)

type pluginImpl struct {
	effect Effect
	node   Node
}

// Plugin installs the outline effect into an engine.App.
//
// Build registers Effect.Sync in the update phase and Effect.Upload in the extract phase, then
// adds the outline node between Tonemapping and EndMainPassPostProcessing. A headless app
// keeps both systems, so staged uniforms stay available to the CPU Kernel, and skips the
// render registration. Finish builds the pipeline.
type Plugin interface {
	engine.Plugin

	// Effect returns the effect cameras attach to.
	Effect() Effect

	// Node returns the render graph node.
	Node() Node
}

var _ Plugin = &pluginImpl{}

// NewPlugin creates the plugin around an effect. A nil effect gets NewEffect().
//
// Parameters:
//   - effect: the effect to install
//   - options: options for the render graph node
//
// Returns:
//   - Plugin: the plugin
func NewPlugin(effect Effect, options ...NodeBuilderOption) Plugin {
	if effect == nil {
		effect = NewEffect()
	}
	return &pluginImpl{
		effect: effect,
		node:   NewNode(effect, options...),
	}
}

func (p *pluginImpl) Name() string {
	return "outline"
}

func (p *pluginImpl) Effect() Effect {
	return p.effect
}

func (p *pluginImpl) Node() Node {
	return p.node
}

func (p *pluginImpl) Build(app engine.App) error {
	app.AddSystem(engine.PhaseUpdate, func(engine.FrameInfo) error {
		p.effect.Sync()
		return nil
	})

	ra := app.RenderApp()
	app.AddSystem(engine.PhaseExtract, func(frame engine.FrameInfo) error {
		writes := p.effect.Upload(frame.Index)
		if ra != nil && ra.Renderer() != nil {
			ra.Renderer().WriteBuffers(writes)
		}
		return nil
	})

	if ra == nil {
		Logger().Info("outline: no render app, skipping render graph registration")
		return nil
	}

	g := ra.Graph()
	for _, l := range []render_graph.Label{render_graph.LabelTonemapping, render_graph.LabelEndMainPassPostProcessing} {
		if !g.HasNode(l) {
			return fmt.Errorf("outline: render graph %s has no %s node: %w", g.Name(), l, render_graph.ErrUnknownNode)
		}
	}
	if err := g.AddNode(Label, p.node); err != nil {
		return err
	}
	return g.AddNodeEdges(render_graph.LabelTonemapping, Label, render_graph.LabelEndMainPassPostProcessing)
}

func (p *pluginImpl) Finish(app engine.App) error {
	ra := app.RenderApp()
	if ra == nil || ra.Renderer() == nil {
		return nil
	}
	return p.node.Prepare(ra.Renderer())
}
