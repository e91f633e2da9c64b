package render_graph

import (
	"github.com/Carmen-Shannon/oxy-outline/engine/camera"
	"github.com/Carmen-Shannon/oxy-outline/engine/renderer"
)

// RenderContext is passed to every node of a graph run. A graph runs once per camera view.
type RenderContext struct {
	// FrameIndex counts frames since startup. Nodes pick frame-slot resources with it.
	FrameIndex uint64
	// Renderer records the GPU work. Nil in headless runs.
	Renderer renderer.Renderer
	// Camera is the view being rendered.
	Camera camera.Camera
}

// Node is one step of a render graph.
type Node interface {
	// Run records the node's work for one view.
	//
	// Parameters:
	//   - ctx: the frame and view being rendered
	//
	// Returns:
	//   - error: an error aborts the rest of the graph run
	Run(ctx *RenderContext) error
}

// NodeFunc adapts a function into a Node.
type NodeFunc func(ctx *RenderContext) error

// Run calls f(ctx).
func (f NodeFunc) Run(ctx *RenderContext) error {
	return f(ctx)
}

// EmptyNode does nothing. It marks an ordering point such as a stage the host has not filled in.
type EmptyNode struct{}

// Run returns nil.
func (EmptyNode) Run(*RenderContext) error {
	return nil
}
