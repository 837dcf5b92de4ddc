package autodiff_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/born-ml/gradgraph/internal/autodiff"
)

// numericalGradient computes the derivative of f at x using central differences.
func numericalGradient(f func(float64) float64, x, epsilon float64) float64 {
	return fd.Derivative(f, x, &fd.Settings{Formula: fd.Central, Step: epsilon})
}

// build constructs an expression of one variable in a fresh arena.
type build func(x autodiff.Expr) autodiff.Expr

func evalAt(t *testing.T, fn build, x float64) float64 {
	t.Helper()
	a := autodiff.NewArena()
	out := fn(a.Var(x, "x"))
	require.NoError(t, out.Err())
	return out.Value()
}

func TestNumericalGradient(t *testing.T) {
	tests := []struct {
		name string
		at   float64
		fn   build
	}{
		{"square", 3, func(x autodiff.Expr) autodiff.Expr { return x.Mul(x) }},
		{"composite", 5, func(x autodiff.Expr) autodiff.Expr { return x.AddConst(2).MulConst(3) }},
		{"polynomial", 2, func(x autodiff.Expr) autodiff.Expr {
			// x³ - 2x² + x
			x2 := x.Mul(x)
			return x2.Mul(x).Sub(x2.MulConst(2)).Add(x)
		}},
		{"rational", 1.5, func(x autodiff.Expr) autodiff.Expr {
			// (x + 1) / (x² + 1)
			return x.AddConst(1).Div(x.Mul(x).AddConst(1))
		}},
		{"tanh of exp", -0.4, func(x autodiff.Expr) autodiff.Expr { return x.Exp().Tanh() }},
		{"relu mix", 0.8, func(x autodiff.Expr) autodiff.Expr { return x.ReLU().Mul(x).Add(x.Neg().ReLU()) }},
		{"pow variable exponent", 1.7, func(x autodiff.Expr) autodiff.Expr { return x.Pow(x) }},
		{"reused reciprocal", 0.9, func(x autodiff.Expr) autodiff.Expr {
			r := x.ConstDiv(1)
			return r.Mul(r).Add(r.Mul(x)).Sub(r)
		}},
	}

	const epsilon = 1e-6
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := autodiff.NewArena()
			x := a.Var(tt.at, "x")
			out := tt.fn(x)
			require.NoError(t, out.Err())
			require.NoError(t, out.Backward())

			numerical := numericalGradient(func(v float64) float64 { return evalAt(t, tt.fn, v) }, tt.at, epsilon)
			assert.InDelta(t, numerical, x.Grad(), 1e-5*math.Max(1, math.Abs(numerical)))
		})
	}
}
