package autodiff

import (
	"fmt"

	"github.com/google/uuid"
)

// Handle is a non-owning reference to a node inside one Arena.
//
// Handles are plain values: copy them freely and use the same handle as an
// operand of any number of nodes. The zero Handle belongs to no arena.
type Handle struct {
	arena uuid.UUID
	id    int
}

// ID returns the node id, unique within the owning arena.
func (h Handle) ID() int {
	return h.id
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h.arena == uuid.Nil
}

// String implements fmt.Stringer.
func (h Handle) String() string {
	if h.IsZero() {
		return "handle(nil)"
	}
	return fmt.Sprintf("handle(%d@%s)", h.id, h.arena.String()[:8])
}

// node is the arena-owned record of one graph node.
type node struct {
	value    float64 // Forward value, immutable after construction
	grad     float64 // Accumulated gradient
	op       Op
	operands []int // Operand ids, all smaller than this node's id
	label    string
}

// NodeView is a read-only snapshot of a node.
type NodeView struct {
	ID       int
	Label    string
	Op       Op
	Value    float64
	Grad     float64
	Operands []int // Operand ids in operand order
}

// Name returns the label, or a generated "n<id>" name for unlabeled nodes.
func (v NodeView) Name() string {
	if v.Label != "" {
		return v.Label
	}
	return fmt.Sprintf("n%d", v.ID)
}

// IsLeaf reports whether the node has no operands.
func (v NodeView) IsLeaf() bool {
	return v.Op == OpLeaf
}
