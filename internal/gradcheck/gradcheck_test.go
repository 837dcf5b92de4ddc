package gradcheck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/parallel"
)

// neuron builds tanh(x1*w1 + x2*w2 + b).
func neuron(a *autodiff.Arena, in []autodiff.Handle) (autodiff.Handle, error) {
	x1, w1, x2, w2, b := a.Expr(in[0]), a.Expr(in[1]), a.Expr(in[2]), a.Expr(in[3]), a.Expr(in[4])
	o := x1.Mul(w1).Add(x2.Mul(w2)).Add(b).Tanh()
	return o.Handle(), o.Err()
}

func TestCheck_Neuron(t *testing.T) {
	at := []float64{2, -3, 0, 1, 6.8813735870195432}
	report, err := Check(context.Background(), neuron, at, Options{
		Names: []string{"x1", "w1", "x2", "w2", "b"},
	})
	require.NoError(t, err)

	assert.True(t, report.OK(), "failures: %+v", report.Failures())
	assert.InDelta(t, 0.7071, report.Value, 1e-4)
	require.Len(t, report.Results, 5)
	assert.Equal(t, "w1", report.Results[1].Name)
	assert.InDelta(t, 1.0, report.Results[1].Analytic, 1e-4)
	assert.InDelta(t, 1.0, report.Results[1].Numeric, 1e-4)
}

func TestCheck_Sequential(t *testing.T) {
	ratio := func(a *autodiff.Arena, in []autodiff.Handle) (autodiff.Handle, error) {
		num, err := a.Mul(in[0], in[1])
		if err != nil {
			return autodiff.Handle{}, err
		}
		den, err := a.AddConst(in[1], 2)
		if err != nil {
			return autodiff.Handle{}, err
		}
		return a.Div(num, den)
	}

	report, err := Check(context.Background(), ratio, []float64{1.5, 0.5}, Options{
		Parallel: parallel.Config{Enabled: false},
	})
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, "x0", report.Results[0].Name)
	assert.Equal(t, "x1", report.Results[1].Name)
}

func TestCheck_DetectsWrongGradient(t *testing.T) {
	// ReLU at its kink: analytic gradient 0, central difference 0.5.
	kink := func(a *autodiff.Arena, in []autodiff.Handle) (autodiff.Handle, error) {
		return a.ReLU(in[0])
	}

	report, err := Check(context.Background(), kink, []float64{0}, Options{Step: 1e-3})
	require.NoError(t, err)
	assert.False(t, report.OK())
	require.Len(t, report.Failures(), 1)
	assert.InDelta(t, 0.5, report.Failures()[0].Numeric, 1e-9)
	assert.Equal(t, 0.0, report.Failures()[0].Analytic)
}

func TestCheck_BuildError(t *testing.T) {
	inverse := func(a *autodiff.Arena, in []autodiff.Handle) (autodiff.Handle, error) {
		return a.ConstDiv(1, in[0])
	}

	_, err := Check(context.Background(), inverse, []float64{0}, Options{})
	assert.ErrorIs(t, err, autodiff.ErrDivisionByZero)
}

func TestCheck_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	square := func(a *autodiff.Arena, in []autodiff.Handle) (autodiff.Handle, error) {
		return a.Mul(in[0], in[0])
	}
	_, err := Check(ctx, square, []float64{1, 2}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
