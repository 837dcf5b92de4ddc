// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation of
// scalar expressions.
//
// Every node lives in an Arena and is addressed by a Handle. Builder
// methods compute values eagerly; Backward fills in the gradient of an
// output with respect to every node it depends on.
//
// Example:
//
//	import "github.com/born-ml/gradgraph/autodiff"
//
//	func main() {
//	    a := autodiff.NewArena()
//	    x1 := a.Var(2, "x1")
//	    x2 := a.Var(0, "x2")
//	    w1 := a.Var(-3, "w1")
//	    w2 := a.Var(1, "w2")
//	    b := a.Var(6.8813735870195432, "b")
//
//	    n := x1.Mul(w1).Add(x2.Mul(w2)).Add(b)
//	    o := n.Tanh()
//	    if err := o.Backward(); err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(w1.Grad()) // 1.0
//	}
package autodiff

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
)

// Arena owns the nodes of one expression graph.
type Arena = autodiff.Arena

// NewArena creates an empty arena.
func NewArena() *Arena {
	return autodiff.NewArena()
}

// Handle identifies a node within its arena.
type Handle = autodiff.Handle

// Expr is a fluent view of a node that carries the first construction error.
type Expr = autodiff.Expr

// NodeView is a read-only snapshot of a node.
type NodeView = autodiff.NodeView

// Op is the tag of a node's operation.
type Op = autodiff.Op

// State is the lifecycle state of an arena.
type State = autodiff.State

// OpError reports a failed node construction.
type OpError = autodiff.OpError

// Operation tags.
const (
	OpLeaf = autodiff.OpLeaf
	OpAdd  = autodiff.OpAdd
	OpSub  = autodiff.OpSub
	OpMul  = autodiff.OpMul
	OpDiv  = autodiff.OpDiv
	OpPow  = autodiff.OpPow
	OpNeg  = autodiff.OpNeg
	OpExp  = autodiff.OpExp
	OpTanh = autodiff.OpTanh
	OpReLU = autodiff.OpReLU
)

// Arena states.
const (
	Built      = autodiff.Built
	Seeded     = autodiff.Seeded
	Propagated = autodiff.Propagated
)

// Errors returned by arena operations.
var (
	ErrInvalidArity   = autodiff.ErrInvalidArity
	ErrUnknownHandle  = autodiff.ErrUnknownHandle
	ErrUnknownOp      = autodiff.ErrUnknownOp
	ErrDivisionByZero = autodiff.ErrDivisionByZero
	ErrDomain         = autodiff.ErrDomain
)
