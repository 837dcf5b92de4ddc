package autodiff

import (
	"fmt"

	"github.com/google/uuid"
)

// Arena owns every node of an expression graph.
//
// Nodes are created by Leaf (and Const) or by applying an operation to
// existing handles, and are never removed individually. Discard the whole
// arena when the expression is no longer needed, typically at the start of
// the next training step.
//
// Usage:
//
//	a := autodiff.NewArena()
//	x := a.Leaf(2, "x")
//	y := a.Leaf(-3, "y")
//	z, err := a.Apply(autodiff.OpMul, x, y)
type Arena struct {
	id     uuid.UUID
	nodes  []node
	consts int // Counter for constant-lifted leaf labels
	state  State
}

// NewArena creates an empty arena with a fresh identity.
func NewArena() *Arena {
	return &Arena{
		id:    uuid.New(),
		nodes: make([]node, 0, 64), // Pre-allocate for common case
	}
}

// ID returns the arena identity carried by all of its handles.
func (a *Arena) ID() uuid.UUID {
	return a.id
}

// Len returns the number of nodes in the arena.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// State returns the lifecycle state of the arena.
func (a *Arena) State() State {
	return a.state
}

// Leaf creates an input node holding value. The label is display-only
// and may be empty.
func (a *Arena) Leaf(value float64, label string) Handle {
	return a.push(node{value: value, op: OpLeaf, label: label})
}

// Apply creates a node computing op over operands.
//
// It fails with ErrUnknownOp for an unknown tag, ErrInvalidArity when the
// operand count does not match the operation (Leaf nodes are only created
// through Leaf), ErrUnknownHandle for foreign operands, and with the
// operation's own forward error (ErrDivisionByZero, ErrDomain). On failure
// the arena is left unchanged.
func (a *Arena) Apply(op Op, operands ...Handle) (Handle, error) {
	if !op.Valid() {
		return Handle{}, &OpError{Op: op, Err: ErrUnknownOp}
	}
	rule := op.Rule()
	if op == OpLeaf || len(operands) != rule.Arity {
		return Handle{}, &OpError{
			Op:     op,
			Err:    ErrInvalidArity,
			Detail: fmt.Sprintf("got %d operands, want %d", len(operands), rule.Arity),
		}
	}

	ids := make([]int, len(operands))
	in := make([]float64, len(operands))
	for i, h := range operands {
		id, err := a.lookup(h)
		if err != nil {
			return Handle{}, &OpError{Op: op, Err: err, Detail: fmt.Sprintf("operand %d", i)}
		}
		ids[i] = id
		in[i] = a.nodes[id].value
	}

	value, err := rule.Forward(in)
	if err != nil {
		return Handle{}, &OpError{Op: op, Err: err}
	}

	return a.push(node{value: value, op: op, operands: ids}), nil
}

// ResetGradients zeroes every gradient and returns the arena to Built.
func (a *Arena) ResetGradients() {
	for i := range a.nodes {
		a.nodes[i].grad = 0
	}
	a.state = Built
}

// Value returns the forward value of h.
func (a *Arena) Value(h Handle) (float64, error) {
	id, err := a.lookup(h)
	if err != nil {
		return 0, err
	}
	return a.nodes[id].value, nil
}

// Grad returns the accumulated gradient of h.
func (a *Arena) Grad(h Handle) (float64, error) {
	id, err := a.lookup(h)
	if err != nil {
		return 0, err
	}
	return a.nodes[id].grad, nil
}

// SetLabel replaces the display label of h.
func (a *Arena) SetLabel(h Handle, label string) error {
	id, err := a.lookup(h)
	if err != nil {
		return err
	}
	a.nodes[id].label = label
	return nil
}

// Inspect returns a snapshot of h.
func (a *Arena) Inspect(h Handle) (NodeView, error) {
	id, err := a.lookup(h)
	if err != nil {
		return NodeView{}, err
	}
	return a.view(id), nil
}

// Handle returns the handle of the node with the given id.
func (a *Arena) Handle(id int) (Handle, error) {
	if id < 0 || id >= len(a.nodes) {
		return Handle{}, fmt.Errorf("node id %d: %w", id, ErrUnknownHandle)
	}
	return Handle{arena: a.id, id: id}, nil
}

// Nodes returns snapshots of every node in creation order.
func (a *Arena) Nodes() []NodeView {
	out := make([]NodeView, len(a.nodes))
	for i := range a.nodes {
		out[i] = a.view(i)
	}
	return out
}

func (a *Arena) push(n node) Handle {
	id := len(a.nodes)
	a.nodes = append(a.nodes, n)
	return Handle{arena: a.id, id: id}
}

// truncate drops nodes created after a failed multi-step construction.
func (a *Arena) truncate(n, consts int) {
	a.nodes = a.nodes[:n]
	a.consts = consts
}

func (a *Arena) lookup(h Handle) (int, error) {
	if h.arena != a.id || h.id < 0 || h.id >= len(a.nodes) {
		return 0, fmt.Errorf("%v: %w", h, ErrUnknownHandle)
	}
	return h.id, nil
}

func (a *Arena) view(id int) NodeView {
	n := &a.nodes[id]
	var operands []int
	if len(n.operands) > 0 {
		operands = append([]int(nil), n.operands...)
	}
	return NodeView{
		ID:       id,
		Label:    n.label,
		Op:       n.op,
		Value:    n.value,
		Grad:     n.grad,
		Operands: operands,
	}
}
