package engine

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-outline/engine/camera"
	"github.com/Carmen-Shannon/oxy-outline/engine/render_graph"
)

type recordingPlugin struct {
	name      string
	log       *[]string
	buildErr  error
	finishErr error
}

func (p *recordingPlugin) Name() string { return p.name }

func (p *recordingPlugin) Build(App) error {
	*p.log = append(*p.log, p.name+".build")
	return p.buildErr
}

func (p *recordingPlugin) Finish(App) error {
	*p.log = append(*p.log, p.name+".finish")
	return p.finishErr
}

func TestStartupBuildsThenFinishes(t *testing.T) {
	var log []string
	a := NewApp()
	a.AddPlugins(&recordingPlugin{name: "a", log: &log}, &recordingPlugin{name: "b", log: &log})

	if err := a.Startup(); err != nil {
		t.Fatalf("Startup() error = %v", err)
	}
	want := []string{"a.build", "b.build", "a.finish", "b.finish"}
	if !slices.Equal(log, want) {
		t.Errorf("calls = %v, want %v", log, want)
	}
	if err := a.Startup(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Startup() error = %v, want ErrAlreadyStarted", err)
	}
}

func TestStartupStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	var log []string
	a := NewApp()
	a.AddPlugins(
		&recordingPlugin{name: "a", log: &log, finishErr: boom},
		&recordingPlugin{name: "b", log: &log},
	)

	if err := a.Startup(); !errors.Is(err, boom) {
		t.Fatalf("Startup() error = %v, want boom", err)
	}
	want := []string{"a.build", "b.build", "a.finish"}
	if !slices.Equal(log, want) {
		t.Errorf("calls = %v, want %v", log, want)
	}
}

func TestFramePhaseOrder(t *testing.T) {
	var order []string
	g := render_graph.NewGraph("test")
	_ = g.AddNode("draw", render_graph.NodeFunc(func(ctx *render_graph.RenderContext) error {
		order = append(order, "render")
		if ctx.Renderer != nil {
			t.Error("RenderContext.Renderer should be nil without WithRenderer")
		}
		return nil
	}))

	a := NewApp(WithRenderGraph(g))
	a.RenderApp().AddCamera(camera.NewCamera())
	a.AddSystem(PhaseExtract, func(FrameInfo) error { order = append(order, "extract"); return nil })
	a.AddSystem(PhaseUpdate, func(f FrameInfo) error {
		order = append(order, "update")
		if f.Index != 0 {
			t.Errorf("FrameInfo.Index = %d, want 0", f.Index)
		}
		return nil
	})

	if err := a.Frame(time.Millisecond); err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	if want := []string{"update", "extract", "render"}; !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
	if got := a.FrameIndex(); got != 1 {
		t.Errorf("FrameIndex() = %d, want 1", got)
	}
}

func TestHeadlessAppHasNoRenderApp(t *testing.T) {
	if NewApp().RenderApp() != nil {
		t.Error("RenderApp() should be nil without a renderer or graph")
	}
}

func TestFrameSystemError(t *testing.T) {
	boom := errors.New("boom")
	a := NewApp()
	a.AddSystem(PhaseUpdate, func(FrameInfo) error { return boom })
	if err := a.Frame(0); !errors.Is(err, boom) {
		t.Errorf("Frame() error = %v, want boom", err)
	}
}

func TestRenderPanicIsRecovered(t *testing.T) {
	g := render_graph.NewGraph("test")
	_ = g.AddNode("panic", render_graph.NodeFunc(func(*render_graph.RenderContext) error { panic("gpu lost") }))
	a := NewApp(WithRenderGraph(g))
	a.RenderApp().AddCamera(camera.NewCamera())

	if err := a.Frame(0); !errors.Is(err, ErrRenderPanic) {
		t.Errorf("Frame() error = %v, want ErrRenderPanic", err)
	}
}

func TestRunFrameLimit(t *testing.T) {
	frames := 0
	a := NewApp(WithFrameLimit(3), WithTickRate(1000))
	a.AddSystem(PhaseUpdate, func(FrameInfo) error { frames++; return nil })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if frames != 3 {
		t.Errorf("frames = %d, want 3", frames)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewApp().Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
