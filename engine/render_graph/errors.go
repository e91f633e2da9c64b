package render_graph

import "errors"

var (
	// ErrDuplicateNode is returned by AddNode for a label already in the graph.
	ErrDuplicateNode = errors.New("render graph: duplicate node")

	// ErrUnknownNode is returned when an edge or lookup names a label not in the graph.
	ErrUnknownNode = errors.New("render graph: unknown node")

	// ErrSelfEdge is returned by AddEdge when both ends are the same node.
	ErrSelfEdge = errors.New("render graph: edge from a node to itself")

	// ErrGraphHasCycle is returned by AddEdge and AddNodeEdges for an edge that would close a cycle.
	ErrGraphHasCycle = errors.New("render graph: cycle detected")

	// ErrNilNode is returned by AddNode and SetNode for a nil node.
	ErrNilNode = errors.New("render graph: nil node")
)
