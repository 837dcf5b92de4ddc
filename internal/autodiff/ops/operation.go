// Package ops defines the closed set of scalar operations known to the
// autodiff engine and their local derivative rules.
//
// Each operation is identified by an Op tag. The forward formula and the
// local backward rule of every tag live in a single dispatch table, so the
// engine never stores function values on nodes:
//   - Leaf: no operands, value supplied directly
//   - Add: a + b (d/da = 1, d/db = 1)
//   - Sub: a - b (d/da = 1, d/db = -1)
//   - Mul: a * b (d/da = b, d/db = a)
//   - Div: a / b (d/da = 1/b, d/db = -a/b²)
//   - Pow: a ^ b (d/da = b·a^(b-1), d/db = a^b·ln a)
//   - Neg, Exp, Tanh, ReLU: unary functions
package ops

import "fmt"

// Op tags how a node was produced.
type Op uint8

// Supported operations. New operations are added here and in the rules table.
const (
	Leaf Op = iota
	Add
	Sub
	Mul
	Div
	Pow
	Neg
	Exp
	Tanh
	ReLU

	numOps
)

// ForwardFunc computes an operation's value from its operand values.
type ForwardFunc func(in []float64) (float64, error)

// BackwardFunc distributes the node gradient to its operands.
//
// grad is the (final) gradient of the node, out its forward value and in the
// operand values. The contribution for operand i is written into dst[i];
// the caller adds it to that operand's accumulator.
type BackwardFunc func(grad, out float64, in, dst []float64)

// Rule is the table entry describing one operation.
type Rule struct {
	Name     string // Lower-case name, also used as function name in graph files
	Symbol   string // Short display symbol for diagrams
	Arity    int    // Required operand count
	Forward  ForwardFunc
	Backward BackwardFunc
}

var rules = [numOps]Rule{
	Leaf: {Name: "leaf", Symbol: "leaf", Arity: 0},
	Add:  {Name: "add", Symbol: "+", Arity: 2, Forward: addForward, Backward: addBackward},
	Sub:  {Name: "sub", Symbol: "-", Arity: 2, Forward: subForward, Backward: subBackward},
	Mul:  {Name: "mul", Symbol: "*", Arity: 2, Forward: mulForward, Backward: mulBackward},
	Div:  {Name: "div", Symbol: "/", Arity: 2, Forward: divForward, Backward: divBackward},
	Pow:  {Name: "pow", Symbol: "^", Arity: 2, Forward: powForward, Backward: powBackward},
	Neg:  {Name: "neg", Symbol: "neg", Arity: 1, Forward: negForward, Backward: negBackward},
	Exp:  {Name: "exp", Symbol: "exp", Arity: 1, Forward: expForward, Backward: expBackward},
	Tanh: {Name: "tanh", Symbol: "tanh", Arity: 1, Forward: tanhForward, Backward: tanhBackward},
	ReLU: {Name: "relu", Symbol: "relu", Arity: 1, Forward: reluForward, Backward: reluBackward},
}

// Valid reports whether o is a known operation.
func (o Op) Valid() bool {
	return o < numOps
}

// Rule returns the table entry for o. It panics on an unknown tag;
// use Valid first when the tag comes from outside the package.
func (o Op) Rule() Rule {
	if !o.Valid() {
		panic(fmt.Sprintf("ops: unknown operation %d", o))
	}
	return rules[o]
}

// Arity returns the number of operands o requires, or -1 for unknown tags.
func (o Op) Arity() int {
	if !o.Valid() {
		return -1
	}
	return rules[o].Arity
}

// Symbol returns the display symbol of o.
func (o Op) Symbol() string {
	if !o.Valid() {
		return "?"
	}
	return rules[o].Symbol
}

// String implements fmt.Stringer.
func (o Op) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Op(%d)", o)
	}
	return rules[o].Name
}

// Lookup finds an operation by its lower-case name.
func Lookup(name string) (Op, bool) {
	for i := range rules {
		if rules[i].Name == name {
			return Op(i), true
		}
	}
	return Leaf, false
}

// All returns every non-leaf operation in table order.
func All() []Op {
	out := make([]Op, 0, numOps-1)
	for o := Add; o < numOps; o++ {
		out = append(out, o)
	}
	return out
}
