package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-outline/engine/render_graph"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer"
	"github.com/Carmen-Shannon/oxy-outline/engine/window"
)

// AppBuilderOption is a functional option for configuring an App.
// Use the With* functions to create options that are applied directly to the app instance.
type AppBuilderOption func(*app)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithProfiling(enabled bool) AppBuilderOption {
	return func(a *app) {
		a.profilingEnabled = enabled
	}
}

// WithTickRate sets the frame rate of a windowless Run in frames per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target frames per second (default 60)
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithTickRate(fps float64) AppBuilderOption {
	return func(a *app) {
		if fps <= 0 {
			fps = 60.0
		}
		a.tickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithWindow sets the window whose message loop drives Run.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithWindow(w window.Window) AppBuilderOption {
	return func(a *app) {
		a.window = w
	}
}

// WithRenderer creates the render app around r, with the core 3D graph unless WithRenderGraph
// supplies one.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) AppBuilderOption {
	return func(a *app) {
		if a.renderApp == nil {
			a.renderApp = newRenderApp(r, nil)
			return
		}
		a.renderApp.renderer = r
	}
}

// WithRenderGraph creates the render app with graph g. Without WithRenderer the graph runs
// with a nil renderer, which lets render nodes be exercised without a GPU.
//
// Parameters:
//   - g: the render graph
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithRenderGraph(g render_graph.Graph) AppBuilderOption {
	return func(a *app) {
		if a.renderApp == nil {
			a.renderApp = newRenderApp(nil, g)
			return
		}
		a.renderApp.graph = g
	}
}

// WithFrameLimit makes Run return after n frames. 0 runs until cancelled (default).
//
// Parameters:
//   - n: the number of frames
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithFrameLimit(n uint64) AppBuilderOption {
	return func(a *app) {
		a.frameLimit = n
	}
}
