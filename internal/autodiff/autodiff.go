// Package autodiff implements reverse-mode automatic differentiation for
// scalar expressions.
//
// Architecture:
//   - Arena: owns every node of one expression graph and hands out Handles
//   - Builder methods (Add, Sub, Mul, Div, ...): compute the value eagerly
//     and record the operation and its operands in the arena
//   - Backward: orders the ancestors of an output in reverse topological
//     order and replays each node's local rule, accumulating gradients
//
// Nodes are never owned by other nodes. A node reused by several
// sub-expressions is simply referenced by several handles, so its gradient
// receives the sum of every contribution (multivariable chain rule).
//
// Usage:
//
//	a := autodiff.NewArena()
//	x := a.Var(3, "x")
//	y := x.Mul(x).AddConst(1) // y = x² + 1
//	if err := y.Backward(); err != nil {
//	    return err
//	}
//	fmt.Println(x.Grad()) // dy/dx = 2x = 6
//
// An Arena is not safe for concurrent use. Independent expressions built
// concurrently need independent arenas.
package autodiff

import "github.com/born-ml/gradgraph/internal/autodiff/ops"

// Op re-exports the operation tag so callers rarely import ops directly.
type Op = ops.Op

// Operation tags.
const (
	OpLeaf = ops.Leaf
	OpAdd  = ops.Add
	OpSub  = ops.Sub
	OpMul  = ops.Mul
	OpDiv  = ops.Div
	OpPow  = ops.Pow
	OpNeg  = ops.Neg
	OpExp  = ops.Exp
	OpTanh = ops.Tanh
	OpReLU = ops.ReLU
)
