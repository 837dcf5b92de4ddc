package autodiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradgraph/internal/autodiff"
)

func TestExpr_Neuron(t *testing.T) {
	// o = tanh(x1*w1 + x2*w2 + b)
	a := autodiff.NewArena()
	x1 := a.Var(2, "x1")
	x2 := a.Var(0, "x2")
	w1 := a.Var(-3, "w1")
	w2 := a.Var(1, "w2")
	b := a.Var(6.8813735870195432, "b")

	o := x1.Mul(w1).Add(x2.Mul(w2)).Add(b).Tanh().Label("o")
	require.NoError(t, o.Err())
	assert.InDelta(t, 0.7071, o.Value(), 1e-4)

	require.NoError(t, o.Backward())
	assert.InDelta(t, -1.5, x1.Grad(), 1e-4)
	assert.InDelta(t, 0.5, x2.Grad(), 1e-4)
	assert.InDelta(t, 1.0, w1.Grad(), 1e-4)
	assert.InDelta(t, 0.0, w2.Grad(), 1e-4)
	assert.InDelta(t, 0.5, b.Grad(), 1e-4)

	view, err := a.Inspect(o.Handle())
	require.NoError(t, err)
	assert.Equal(t, "o", view.Label)
}

func TestExpr_StickyError(t *testing.T) {
	a := autodiff.NewArena()
	x := a.Var(2, "x")

	y := x.DivConst(0)
	require.ErrorIs(t, y.Err(), autodiff.ErrDivisionByZero)
	n := a.Len()

	z := y.AddConst(1).Mul(x).Tanh().Label("z")
	assert.ErrorIs(t, z.Err(), autodiff.ErrDivisionByZero)
	assert.True(t, z.Handle().IsZero())
	assert.Equal(t, 0.0, z.Value())
	assert.Equal(t, 0.0, z.Grad())
	assert.ErrorIs(t, z.Backward(), autodiff.ErrDivisionByZero)
	assert.Equal(t, n, a.Len(), "no nodes after the first failure")

	w := x.Add(y)
	assert.ErrorIs(t, w.Err(), autodiff.ErrDivisionByZero)
}

func TestExpr_ForeignHandle(t *testing.T) {
	a := autodiff.NewArena()
	other := autodiff.NewArena()
	h := other.Leaf(1, "y")

	e := a.Expr(h)
	assert.ErrorIs(t, e.Err(), autodiff.ErrUnknownHandle)

	x := a.Var(1, "x")
	y := other.Var(1, "y")
	assert.ErrorIs(t, x.Add(y).Err(), autodiff.ErrUnknownHandle)
}

func TestExpr_WrapExisting(t *testing.T) {
	a := autodiff.NewArena()
	h := a.Leaf(3, "x")
	e := a.Expr(h)
	require.NoError(t, e.Err())
	assert.Equal(t, h, e.Handle())
	assert.Same(t, a, e.Arena())

	sq := e.Pow(a.Var(2, "two"))
	require.NoError(t, sq.Backward())
	assert.Equal(t, 9.0, sq.Value())
	assert.InDelta(t, 6.0, e.Grad(), 1e-12)
}

func TestExpr_ConstHelpers(t *testing.T) {
	a := autodiff.NewArena()
	x := a.Var(4, "x")

	assert.Equal(t, 6.0, x.AddConst(2).Value())
	assert.Equal(t, 2.0, x.SubConst(2).Value())
	assert.Equal(t, 8.0, x.MulConst(2).Value())
	assert.Equal(t, 2.0, x.DivConst(2).Value())
	assert.Equal(t, 16.0, x.PowConst(2).Value())
	assert.Equal(t, 1.0, x.Sub(a.Var(3, "y")).Value())
	assert.Equal(t, -4.0, x.Neg().Value())
	assert.Equal(t, -2.0, x.ConstSub(2).Value())
	assert.Equal(t, 0.5, x.ConstDiv(2).Value())
}
