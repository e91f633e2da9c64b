package outline

import (
	"errors"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/engine"
	"github.com/Carmen-Shannon/oxy-outline/engine/render_graph"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer/bind_group_provider"
)

func TestPluginHeadless(t *testing.T) {
	p := NewPlugin(nil)
	if p.Name() != "outline" || p.Effect() == nil || p.Node() == nil {
		t.Fatalf("NewPlugin(nil) = %q %v %v, want a named plugin with effect and node", p.Name(), p.Effect(), p.Node())
	}

	app := engine.NewApp()
	app.AddPlugins(p)
	if err := app.Startup(); err != nil {
		t.Fatalf("Startup() error = %v", err)
	}

	cam := outlinedCamera()
	v, err := p.Effect().Attach(cam, DefaultOutlineSettings())
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if err := app.Frame(0); err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	if got := v.Settings().CameraNear(); got != 0.1 {
		t.Errorf("CameraNear() = %v after a frame, want 0.1", got)
	}
	if got := v.Staged(0).CameraNear; got != 0.1 {
		t.Errorf("Staged(0).CameraNear = %v, want 0.1", got)
	}
}

func TestPluginRegistersNode(t *testing.T) {
	g := render_graph.NewCore3DGraph()
	app := engine.NewApp(engine.WithRenderGraph(g))
	p := NewPlugin(NewEffect(), WithValidator(acceptAll))
	app.AddPlugins(p)
	if err := app.Startup(); err != nil {
		t.Fatalf("Startup() error = %v", err)
	}

	if g.Node(Label) != p.Node() {
		t.Fatalf("graph node %s = %v, want the plugin node", Label, g.Node(Label))
	}
	order, err := g.Order()
	if err != nil {
		t.Fatalf("Order() error = %v", err)
	}
	tonemap := slices.Index(order, render_graph.LabelTonemapping)
	outline := slices.Index(order, Label)
	end := slices.Index(order, render_graph.LabelEndMainPassPostProcessing)
	if tonemap >= outline || outline >= end {
		t.Errorf("Order() = %v, want %s between %s and %s", order, Label, render_graph.LabelTonemapping, render_graph.LabelEndMainPassPostProcessing)
	}

	// no renderer, the pipeline is not built yet
	if err := p.Node().Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestPluginRequiresPostProcessingStages(t *testing.T) {
	g := render_graph.NewGraph("bare")
	app := engine.NewApp(engine.WithRenderGraph(g))
	app.AddPlugins(NewPlugin(nil, WithValidator(acceptAll)))

	if err := app.Startup(); !errors.Is(err, render_graph.ErrUnknownNode) {
		t.Errorf("Startup() error = %v, want ErrUnknownNode", err)
	}
	if g.HasNode(Label) {
		t.Errorf("HasNode(%s) = true, want the node left out of an incomplete graph", Label)
	}
}

func TestPluginRendersAttachedCamera(t *testing.T) {
	r := newFakeRenderer()
	app := engine.NewApp(engine.WithRenderer(r))
	p := NewPlugin(nil, WithValidator(acceptAll))
	app.AddPlugins(p)
	if err := app.Startup(); err != nil {
		t.Fatalf("Startup() error = %v", err)
	}
	if r.registerCalls != 1 {
		t.Errorf("RegisterPipelines() called %d times during Startup, want 1", r.registerCalls)
	}

	outlined := outlinedCamera()
	plain := outlinedCamera()
	if _, err := p.Effect().Attach(outlined, DefaultOutlineSettings()); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	app.RenderApp().AddCamera(outlined)
	app.RenderApp().AddCamera(plain)

	for range 2 {
		if err := app.Frame(0); err != nil {
			t.Fatalf("Frame() error = %v", err)
		}
	}
	if got := len(r.fullscreen); got != 2 {
		t.Errorf("DrawFullscreen() called %d times over 2 frames, want 2 (one outlined camera)", got)
	}
	if r.swaps != 2 {
		t.Errorf("SwapColor() called %d times, want 2", r.swaps)
	}
	v := p.Effect().View(outlined)
	for frame := uint64(0); frame < 2; frame++ {
		if !slices.ContainsFunc(r.writes, func(w bind_group_provider.BufferWrite) bool {
			return w.Provider == v.Provider(frame)
		}) {
			t.Errorf("no uniform write for frame slot %d", frame)
		}
	}
}

func TestPluginStartupFailsOnBuildError(t *testing.T) {
	r := newFakeRenderer()
	r.registerErr = errRegister
	app := engine.NewApp(engine.WithRenderer(r))
	app.AddPlugins(NewPlugin(nil, WithValidator(acceptAll)))

	err := app.Startup()
	if !errors.Is(err, ErrPipelineBuild) || !errors.Is(err, errRegister) {
		t.Errorf("Startup() error = %v, want ErrPipelineBuild wrapping the register error", err)
	}
}
