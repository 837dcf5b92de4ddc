package graphfile

import (
	"errors"
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/autodiff/ops"
)

// ErrNoOutput is returned by Compile when the definition names no output.
var ErrNoOutput = errors.New("graph has no output")

// Graph is a compiled definition.
type Graph struct {
	Arena  *autodiff.Arena
	Output autodiff.Handle
	Names  map[string]autodiff.Handle // Every leaf and value by name
}

// Compile builds the definition into a. A nil arena gets a fresh one.
//
// Leaves listed in bound reuse the given handles instead of creating new
// leaves, which lets callers rebuild the same expression around their own
// inputs. Names of bound leaves must be declared leaves.
//
// Syntax problems are reported as hcl.Diagnostics; failed operations wrap
// the autodiff error (for example autodiff.ErrDivisionByZero). On error the
// arena may hold nodes of the partially built graph and should be dropped.
func (d *Definition) Compile(a *autodiff.Arena, bound map[string]autodiff.Handle) (*Graph, error) {
	if d.Output == "" {
		return nil, ErrNoOutput
	}
	if a == nil {
		a = autodiff.NewArena()
	}

	c := &compiler{
		def:      d,
		arena:    a,
		names:    make(map[string]autodiff.Handle, len(d.Leaves)+len(d.Values)),
		visiting: make(map[string]bool),
	}

	for name := range bound {
		if _, ok := d.leafIndex[name]; !ok {
			return nil, fmt.Errorf("bound name %q is not a declared leaf", name)
		}
	}
	for _, l := range d.Leaves {
		if h, ok := bound[l.Name]; ok {
			c.names[l.Name] = h
			continue
		}
		c.names[l.Name] = a.Leaf(l.Value, l.Name)
	}

	for _, v := range d.Values {
		if _, err := c.resolve(v.Name, v.Range); err != nil {
			return nil, err
		}
	}

	out, err := c.resolve(d.Output, hcl.Range{Filename: d.Filename})
	if err != nil {
		return nil, err
	}
	return &Graph{Arena: a, Output: out, Names: c.names}, nil
}

type compiler struct {
	def      *Definition
	arena    *autodiff.Arena
	names    map[string]autodiff.Handle
	visiting map[string]bool
}

// resolve returns the handle of a leaf or value, compiling values on first use.
func (c *compiler) resolve(name string, ref hcl.Range) (autodiff.Handle, error) {
	if h, ok := c.names[name]; ok {
		return h, nil
	}

	idx, ok := c.def.valueIndex[name]
	if !ok {
		return autodiff.Handle{}, diagError("Unknown name", fmt.Sprintf("There is no leaf or value named %q.", name), ref)
	}
	if c.visiting[name] {
		return autodiff.Handle{}, diagError("Reference cycle", fmt.Sprintf("The value %q depends on itself.", name), ref)
	}

	c.visiting[name] = true
	defer delete(c.visiting, name)

	v := c.def.Values[idx]
	h, err := c.compile(v.Expr)
	if err != nil {
		return autodiff.Handle{}, err
	}
	if !isReference(v.Expr) {
		if err := c.arena.SetLabel(h, name); err != nil {
			return autodiff.Handle{}, err
		}
	}
	c.names[name] = h
	return h, nil
}

func (c *compiler) compile(expr hclsyntax.Expression) (autodiff.Handle, error) {
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		return c.literal(e)

	case *hclsyntax.ScopeTraversalExpr:
		if len(e.Traversal) != 1 {
			return autodiff.Handle{}, diagError("Unsupported reference", "Only plain names can be referenced; attribute and index access are not supported.", e.SrcRange)
		}
		return c.resolve(e.Traversal.RootName(), e.SrcRange)

	case *hclsyntax.ParenthesesExpr:
		return c.compile(e.Expression)

	case *hclsyntax.UnaryOpExpr:
		if e.Op != hclsyntax.OpNegate {
			return autodiff.Handle{}, diagError("Unsupported operator", "Only unary minus is supported.", e.SrcRange)
		}
		return c.apply(ops.Neg, e.SrcRange, e.Val)

	case *hclsyntax.BinaryOpExpr:
		op, ok := binaryOps[e.Op]
		if !ok {
			return autodiff.Handle{}, diagError("Unsupported operator", "Only +, -, * and / are supported.", e.SrcRange)
		}
		return c.apply(op, e.SrcRange, e.LHS, e.RHS)

	case *hclsyntax.FunctionCallExpr:
		op, ok := ops.Lookup(e.Name)
		if !ok || op == ops.Leaf {
			return autodiff.Handle{}, diagError("Unknown function", fmt.Sprintf("There is no function named %q.", e.Name), e.NameRange)
		}
		if e.ExpandFinal {
			return autodiff.Handle{}, diagError("Unsupported syntax", "Argument expansion is not supported.", e.Range())
		}
		if len(e.Args) != op.Arity() {
			return autodiff.Handle{}, diagError("Wrong number of arguments", fmt.Sprintf("Function %q takes %d arguments, got %d.", e.Name, op.Arity(), len(e.Args)), e.Range())
		}
		return c.apply(op, e.Range(), e.Args...)

	default:
		return autodiff.Handle{}, diagError("Unsupported expression", "Only arithmetic on numbers, names and functions is supported.", expr.Range())
	}
}

func (c *compiler) literal(e *hclsyntax.LiteralValueExpr) (autodiff.Handle, error) {
	v := e.Val
	if v.IsNull() || !v.IsKnown() || v.Type() != cty.Number {
		return autodiff.Handle{}, diagError("Invalid literal", fmt.Sprintf("Expected a number, got %s.", v.Type().FriendlyName()), e.SrcRange)
	}
	f, _ := v.AsBigFloat().Float64()
	if math.IsInf(f, 0) {
		return autodiff.Handle{}, diagError("Invalid literal", fmt.Sprintf("Number %s is out of range for a 64-bit float.", v.AsBigFloat().Text('g', 10)), e.SrcRange)
	}
	return c.arena.Const(f), nil
}

func (c *compiler) apply(op ops.Op, rng hcl.Range, args ...hclsyntax.Expression) (autodiff.Handle, error) {
	operands := make([]autodiff.Handle, len(args))
	for i, arg := range args {
		h, err := c.compile(arg)
		if err != nil {
			return autodiff.Handle{}, err
		}
		operands[i] = h
	}
	h, err := c.arena.Apply(op, operands...)
	if err != nil {
		return autodiff.Handle{}, fmt.Errorf("%s: %w", rng, err)
	}
	return h, nil
}

var binaryOps = map[*hclsyntax.Operation]ops.Op{
	hclsyntax.OpAdd:      ops.Add,
	hclsyntax.OpSubtract: ops.Sub,
	hclsyntax.OpMultiply: ops.Mul,
	hclsyntax.OpDivide:   ops.Div,
}

// isReference reports whether expr only names another node.
func isReference(expr hclsyntax.Expression) bool {
	for {
		switch e := expr.(type) {
		case *hclsyntax.ParenthesesExpr:
			expr = e.Expression
		case *hclsyntax.ScopeTraversalExpr:
			return true
		default:
			return false
		}
	}
}

func diagError(summary, detail string, rng hcl.Range) error {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  rng.Ptr(),
	}}
}
