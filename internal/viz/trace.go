// Package viz exposes a finished expression graph to diagram renderers.
//
// Trace takes a read-only snapshot of everything reachable from a root node;
// WriteDOT encodes a snapshot as Graphviz DOT, drawing every operation as its
// own node between its operands and its result, and Render lays the same
// diagram out into an SVG, PNG or JPEG image. None of them mutates the arena.
// Take the trace after Backward has returned: gradients are not meaningful
// while a pass is running.
package viz

import (
	"fmt"

	"github.com/born-ml/gradgraph/internal/autodiff"
)

// Edge connects an operand to the node consuming it.
type Edge struct {
	From int // Operand id
	To   int // Consumer id
}

// Trace is a snapshot of the nodes reachable from Root, leaves first.
type Trace struct {
	Root  int
	Nodes []autodiff.NodeView
}

// NewTrace snapshots every node reachable from root. Nodes are ordered so
// that operands precede the nodes using them.
func NewTrace(a *autodiff.Arena, root autodiff.Handle) (*Trace, error) {
	order, err := a.TopologicalOrder(root)
	if err != nil {
		return nil, fmt.Errorf("viz: %w", err)
	}

	nodes := make([]autodiff.NodeView, len(order))
	for i, h := range order {
		view, err := a.Inspect(h)
		if err != nil {
			return nil, fmt.Errorf("viz: %w", err)
		}
		nodes[len(order)-1-i] = view
	}
	return &Trace{Root: root.ID(), Nodes: nodes}, nil
}

// Edges returns one edge per operand slot, in node order. A node used twice
// by the same consumer (x * x) yields two edges.
func (t *Trace) Edges() []Edge {
	var edges []Edge
	for _, n := range t.Nodes {
		for _, operand := range n.Operands {
			edges = append(edges, Edge{From: operand, To: n.ID})
		}
	}
	return edges
}

// Lookup returns the node with the given id.
func (t *Trace) Lookup(id int) (autodiff.NodeView, bool) {
	for _, n := range t.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return autodiff.NodeView{}, false
}
