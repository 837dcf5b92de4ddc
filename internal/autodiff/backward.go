package autodiff

import "fmt"

// Backward computes the gradient of out with respect to every node it
// depends on and adds it to those nodes' accumulators.
//
// Algorithm:
//  1. Order the ancestors of out in reverse topological order (out first)
//  2. Seed the gradient of out with 1.0
//  3. Walk the order, applying each node's local rule; a node only
//     propagates after all of its consumers have contributed to it
//  4. Add the gradients of this pass to the node accumulators
//
// Gradients of one pass are computed in a scratch buffer and added at the
// end, so a second call without ResetGradients doubles every gradient,
// including the seed on out. Call ResetGradients between passes that must
// not accumulate. An invalid handle fails before any gradient changes.
func (a *Arena) Backward(out Handle) error {
	root, err := a.lookup(out)
	if err != nil {
		return fmt.Errorf("backward: %w", err)
	}

	order := a.postOrder(root)

	local := make(map[int]float64, len(order))
	local[root] = 1.0
	a.state = Seeded

	var in, dst [2]float64 // no operation takes more than two operands
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		n := &a.nodes[id]
		if n.op == OpLeaf {
			continue
		}
		rule := n.op.Rule()
		for j, operand := range n.operands {
			in[j] = a.nodes[operand].value
		}
		rule.Backward(local[id], n.value, in[:rule.Arity], dst[:rule.Arity])
		for j, operand := range n.operands {
			local[operand] += dst[j]
		}
	}

	for _, id := range order {
		a.nodes[id].grad += local[id]
	}
	a.state = Propagated
	return nil
}

// TopologicalOrder returns the nodes reachable from out in processing order:
// out first, every node before its operands, leaves last.
func (a *Arena) TopologicalOrder(out Handle) ([]Handle, error) {
	root, err := a.lookup(out)
	if err != nil {
		return nil, err
	}
	order := a.postOrder(root)
	handles := make([]Handle, len(order))
	for i, id := range order {
		handles[len(order)-1-i] = Handle{arena: a.id, id: id}
	}
	return handles, nil
}

// postOrder returns the ancestors of root in depth-first post-order:
// every node appears after all of its operands. The visited set makes each
// node appear once however many consumers reference it.
func (a *Arena) postOrder(root int) []int {
	type frame struct {
		id   int
		next int // Next operand to explore
	}

	visited := map[int]bool{root: true}
	order := make([]int, 0, 16)
	stack := []frame{{id: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		operands := a.nodes[top.id].operands
		if top.next < len(operands) {
			child := operands[top.next]
			top.next++
			if !visited[child] {
				visited[child] = true
				stack = append(stack, frame{id: child})
			}
			continue
		}
		order = append(order, top.id)
		stack = stack[:len(stack)-1]
	}

	return order
}
