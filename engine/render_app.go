package engine

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-outline/engine/camera"
	"github.com/Carmen-Shannon/oxy-outline/engine/render_graph"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer"
)

type renderApp struct {
	mu       *sync.Mutex
	renderer renderer.Renderer
	graph    render_graph.Graph
	cameras  []camera.Camera
}

// RenderApp is the rendering half of an App: the renderer, the render graph and the camera
// views the graph runs for.
type RenderApp interface {
	// Renderer returns the renderer, nil when the graph runs without a GPU.
	Renderer() renderer.Renderer

	// Graph returns the render graph.
	Graph() render_graph.Graph

	// AddCamera adds a view. The graph runs once per view per frame, in insertion order.
	//
	// Parameters:
	//   - cam: the camera to render
	AddCamera(cam camera.Camera)

	// RemoveCamera removes a view.
	//
	// Parameters:
	//   - cam: the camera to remove
	RemoveCamera(cam camera.Camera)

	// Cameras returns the views in render order.
	Cameras() []camera.Camera

	// Render runs one frame: acquire the surface, run the graph per view, blit and present.
	//
	// Parameters:
	//   - frameIndex: the frame being rendered
	//
	// Returns:
	//   - error: the first graph error
	Render(frameIndex uint64) error
}

var _ RenderApp = &renderApp{}

func newRenderApp(r renderer.Renderer, g render_graph.Graph) *renderApp {
	if g == nil {
		g = render_graph.NewCore3DGraph()
	}
	return &renderApp{
		mu:       &sync.Mutex{},
		renderer: r,
		graph:    g,
	}
}

func (a *renderApp) Renderer() renderer.Renderer {
	return a.renderer
}

func (a *renderApp) Graph() render_graph.Graph {
	return a.graph
}

func (a *renderApp) AddCamera(cam camera.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if slices.Contains(a.cameras, cam) {
		return
	}
	a.cameras = append(a.cameras, cam)
}

func (a *renderApp) RemoveCamera(cam camera.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cameras = slices.DeleteFunc(a.cameras, func(c camera.Camera) bool { return c == cam })
}

func (a *renderApp) Cameras() []camera.Camera {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.cameras)
}

func (a *renderApp) Render(frameIndex uint64) error {
	r := a.renderer
	if r != nil {
		if err := r.BeginFrame(); err != nil {
			Logger().Debug("frame skipped", "frame", frameIndex, "error", err)
			return nil
		}
	}

	var err error
	for _, cam := range a.Cameras() {
		if err = a.graph.Run(&render_graph.RenderContext{
			FrameIndex: frameIndex,
			Renderer:   r,
			Camera:     cam,
		}); err != nil {
			break
		}
	}

	if r == nil {
		return err
	}
	if err == nil {
		err = r.BlitToSurface()
	}
	r.EndFrame()
	r.Present()
	return err
}
