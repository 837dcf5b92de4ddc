package ops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

// numericalPartial estimates d op / d in[i] with a central difference.
func numericalPartial(t *testing.T, op Op, in []float64, i int) float64 {
	t.Helper()
	point := append([]float64(nil), in...)
	return fd.Derivative(func(x float64) float64 {
		point[i] = x
		out, err := op.Rule().Forward(point)
		require.NoError(t, err)
		return out
	}, in[i], &fd.Settings{Formula: fd.Central, Step: 1e-6})
}

func TestRules_BackwardMatchesFiniteDifference(t *testing.T) {
	tests := []struct {
		op Op
		in []float64
	}{
		{Add, []float64{2, -3}},
		{Sub, []float64{2, -3}},
		{Mul, []float64{2, -3}},
		{Div, []float64{2, -3}},
		{Pow, []float64{1.5, 3}},
		{Pow, []float64{2, 0.5}},
		{Neg, []float64{4}},
		{Exp, []float64{0.7}},
		{Tanh, []float64{0.3}},
		{ReLU, []float64{1.2}},
		{ReLU, []float64{-1.2}},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			rule := tt.op.Rule()
			require.Len(t, tt.in, rule.Arity)

			out, err := rule.Forward(tt.in)
			require.NoError(t, err)

			dst := make([]float64, rule.Arity)
			rule.Backward(1, out, tt.in, dst)

			for i := range tt.in {
				assert.InDelta(t, numericalPartial(t, tt.op, tt.in, i), dst[i], 1e-5, "operand %d", i)
			}
		})
	}
}

func TestRules_BackwardScalesWithGradient(t *testing.T) {
	in := []float64{3, 4}
	out, err := Mul.Rule().Forward(in)
	require.NoError(t, err)

	dst := make([]float64, 2)
	Mul.Rule().Backward(0.5, out, in, dst)
	assert.Equal(t, []float64{2, 1.5}, dst)
}

func TestDiv_ZeroDivisor(t *testing.T) {
	_, err := Div.Rule().Forward([]float64{1, 0})
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestPow_Domain(t *testing.T) {
	_, err := Pow.Rule().Forward([]float64{-8, 1.0 / 3})
	assert.ErrorIs(t, err, ErrDomain)

	_, err = Pow.Rule().Forward([]float64{10, 400})
	assert.ErrorIs(t, err, ErrDomain)
}

func TestPow_NonPositiveBaseExponentGradient(t *testing.T) {
	in := []float64{-2, 2}
	out, err := Pow.Rule().Forward(in)
	require.NoError(t, err)
	assert.Equal(t, 4.0, out)

	dst := make([]float64, 2)
	Pow.Rule().Backward(1, out, in, dst)
	assert.Equal(t, -4.0, dst[0])
	assert.Equal(t, 0.0, dst[1])
}

func TestPow_ZeroExponentAtZeroBase(t *testing.T) {
	in := []float64{0, 0}
	out, err := Pow.Rule().Forward(in)
	require.NoError(t, err)
	assert.Equal(t, 1.0, out)

	dst := make([]float64, 2)
	Pow.Rule().Backward(1, out, in, dst)
	assert.Equal(t, []float64{0, 0}, dst)
}

func TestDiv_TinyOperandsGradient(t *testing.T) {
	in := []float64{1e-300, 1e-200}
	out, err := Div.Rule().Forward(in)
	require.NoError(t, err)

	dst := make([]float64, 2)
	Div.Rule().Backward(1, out, in, dst)
	assert.False(t, math.IsInf(dst[1], 0))
	assert.InEpsilon(t, -1e100, dst[1], 1e-12)
	assert.InEpsilon(t, 1e200, dst[0], 1e-12)
}

func TestExp_Overflow(t *testing.T) {
	_, err := Exp.Rule().Forward([]float64{1000})
	assert.ErrorIs(t, err, ErrDomain)
}

func TestOp_Metadata(t *testing.T) {
	assert.Equal(t, 0, Leaf.Arity())
	for _, op := range []Op{Add, Sub, Mul, Div, Pow} {
		assert.Equal(t, 2, op.Arity(), op.String())
	}
	for _, op := range []Op{Neg, Exp, Tanh, ReLU} {
		assert.Equal(t, 1, op.Arity(), op.String())
	}

	assert.Equal(t, "+", Add.Symbol())
	assert.Equal(t, "mul", Mul.String())
	assert.False(t, Op(200).Valid())
	assert.Equal(t, -1, Op(200).Arity())
	assert.Equal(t, "Op(200)", Op(200).String())
	assert.Panics(t, func() { Op(200).Rule() })
}

func TestLookup(t *testing.T) {
	for _, op := range All() {
		got, ok := Lookup(op.String())
		require.True(t, ok, op.String())
		assert.Equal(t, op, got)
	}

	_, ok := Lookup("sqrt")
	assert.False(t, ok)
	assert.NotContains(t, All(), Leaf)
}

func TestTanh_Saturation(t *testing.T) {
	out, err := Tanh.Rule().Forward([]float64{30})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, out, 1e-12)

	dst := make([]float64, 1)
	Tanh.Rule().Backward(1, out, []float64{30}, dst)
	assert.False(t, math.IsNaN(dst[0]))
	assert.InDelta(t, 0.0, dst[0], 1e-12)
}
