package render_graph

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

type graphImpl struct {
	mu    *sync.Mutex
	name  string
	nodes map[Label]Node
	index map[Label]int // insertion order, the tie-break of Order
	dag   graph.Graph[Label, Label]
}

// Graph is an ordered set of render nodes. An edge a -> b means a runs before b.
// Order is deterministic: nodes are released in waves as their dependencies finish, and within a
// wave the node added first runs first. Edges that would close a cycle are rejected on insert.
type Graph interface {
	// Name returns the graph name.
	Name() string

	// AddNode adds a node under a new label.
	//
	// Parameters:
	//   - label: the node label
	//   - node: the node
	//
	// Returns:
	//   - error: ErrDuplicateNode or ErrNilNode
	AddNode(label Label, node Node) error

	// SetNode replaces the node under an existing label, keeping its edges.
	//
	// Parameters:
	//   - label: the node label
	//   - node: the replacement
	//
	// Returns:
	//   - error: ErrUnknownNode or ErrNilNode
	SetNode(label Label, node Node) error

	// HasNode reports whether label is in the graph.
	HasNode(label Label) bool

	// Node returns the node under label, or nil.
	Node(label Label) Node

	// AddEdge makes from run before to. Adding an existing edge is a no-op. An edge that
	// would close a cycle is rejected and the graph is left unchanged.
	//
	// Parameters:
	//   - from: the earlier node
	//   - to: the later node
	//
	// Returns:
	//   - error: ErrUnknownNode, ErrSelfEdge or ErrGraphHasCycle
	AddEdge(from, to Label) error

	// AddNodeEdges chains labels in the given order, adding an edge between each pair.
	// Edges added before the first failing pair are kept.
	//
	// Parameters:
	//   - labels: the chain
	//
	// Returns:
	//   - error: the first AddEdge error
	AddNodeEdges(labels ...Label) error

	// Order returns the execution order.
	//
	// Returns:
	//   - []Label: every label, dependencies first
	//   - error: ErrGraphHasCycle
	Order() ([]Label, error)

	// Run executes every node in Order.
	//
	// Parameters:
	//   - ctx: the frame and view being rendered
	//
	// Returns:
	//   - error: the ordering error or the first node error, wrapped with its label
	Run(ctx *RenderContext) error

	// ToDOT returns the graph in Graphviz DOT syntax.
	ToDOT() string
}

var _ Graph = &graphImpl{}

// NewGraph creates an empty graph.
//
// Parameters:
//   - name: the graph name, used as the DOT graph id
//
// Returns:
//   - Graph: the graph
func NewGraph(name string) Graph {
	return &graphImpl{
		mu:    &sync.Mutex{},
		name:  name,
		nodes: make(map[Label]Node),
		index: make(map[Label]int),
		dag:   graph.New(func(l Label) Label { return l }, graph.Directed(), graph.PreventCycles()),
	}
}

// NewCore3DGraph creates the core 3D chain Prepass -> MainPass -> Tonemapping ->
// EndMainPassPostProcessing -> Upscaling with EmptyNode placeholders. Hosts replace the
// placeholders with SetNode and slot their own nodes between them with AddNodeEdges.
//
// Returns:
//   - Graph: the graph
func NewCore3DGraph() Graph {
	g := NewGraph(Core3DName)
	chain := []Label{LabelPrepass, LabelMainPass, LabelTonemapping, LabelEndMainPassPostProcessing, LabelUpscaling}
	for _, l := range chain {
		_ = g.AddNode(l, EmptyNode{})
	}
	_ = g.AddNodeEdges(chain...)
	return g
}

func (g *graphImpl) Name() string {
	return g.name
}

func (g *graphImpl) AddNode(label Label, node Node) error {
	if node == nil {
		return fmt.Errorf("%w: %q", ErrNilNode, label)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.nodes[label]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, label)
	}
	if err := g.dag.AddVertex(label, graph.VertexAttribute("shape", "box")); err != nil {
		return fmt.Errorf("render graph %s, node %q: %w", g.name, label, err)
	}
	g.nodes[label] = node
	g.index[label] = len(g.index)
	return nil
}

func (g *graphImpl) SetNode(label Label, node Node) error {
	if node == nil {
		return fmt.Errorf("%w: %q", ErrNilNode, label)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.nodes[label]; !exists {
		return fmt.Errorf("%w: %q", ErrUnknownNode, label)
	}
	g.nodes[label] = node
	return nil
}

func (g *graphImpl) HasNode(label Label) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, exists := g.nodes[label]
	return exists
}

func (g *graphImpl) Node(label Label) Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nodes[label]
}

func (g *graphImpl) AddEdge(from, to Label) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addEdge(from, to)
}

// addEdge records an edge. Caller must hold the mutex.
func (g *graphImpl) addEdge(from, to Label) error {
	for _, l := range []Label{from, to} {
		if _, exists := g.nodes[l]; !exists {
			return fmt.Errorf("%w: %q", ErrUnknownNode, l)
		}
	}
	if from == to {
		return fmt.Errorf("%w: %q", ErrSelfEdge, from)
	}
	err := g.dag.AddEdge(from, to)
	switch {
	case err == nil, errors.Is(err, graph.ErrEdgeAlreadyExists):
		return nil
	case errors.Is(err, graph.ErrEdgeCreatesCycle):
		return fmt.Errorf("%w: %q -> %q", ErrGraphHasCycle, from, to)
	default:
		return fmt.Errorf("render graph %s, edge %q -> %q: %w", g.name, from, to, err)
	}
}

func (g *graphImpl) AddNodeEdges(labels ...Label) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := 1; i < len(labels); i++ {
		if err := g.addEdge(labels[i-1], labels[i]); err != nil {
			return err
		}
	}
	return nil
}

func (g *graphImpl) Order() ([]Label, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sorted()
}

// sorted orders the nodes topologically, picking the earliest inserted ready node first.
// Caller must hold the mutex.
func (g *graphImpl) sorted() ([]Label, error) {
	order, err := graph.StableTopologicalSort(g.dag, func(a, b Label) bool {
		return g.index[a] < g.index[b]
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGraphHasCycle, err)
	}
	return order, nil
}

func (g *graphImpl) Run(ctx *RenderContext) error {
	g.mu.Lock()
	order, err := g.sorted()
	nodes := make([]Node, len(order))
	for i, l := range order {
		nodes[i] = g.nodes[l]
	}
	g.mu.Unlock()
	if err != nil {
		return err
	}

	for i, n := range nodes {
		if err := n.Run(ctx); err != nil {
			return fmt.Errorf("render graph %s, node %q: %w", g.name, order[i], err)
		}
	}
	return nil
}

func (g *graphImpl) ToDOT() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	// the only error source is the writer, and bytes.Buffer never fails
	var buf bytes.Buffer
	_ = draw.DOT(g.dag, &buf,
		draw.GraphAttribute("label", g.name),
		draw.GraphAttribute("rankdir", "LR"),
	)
	return buf.String()
}
