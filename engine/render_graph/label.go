package render_graph

// Label identifies a node in a render graph.
type Label string

// Core 3D labels, in execution order.
const (
	LabelPrepass                   Label = "Prepass"
	LabelMainPass                  Label = "MainPass"
	LabelTonemapping               Label = "Tonemapping"
	LabelEndMainPassPostProcessing Label = "EndMainPassPostProcessing"
	LabelUpscaling                 Label = "Upscaling"
)

// Core3DName is the name of the graph built by NewCore3DGraph.
const Core3DName = "core3d"
