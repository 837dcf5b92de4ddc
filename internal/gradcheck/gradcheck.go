// Package gradcheck verifies analytic gradients against finite differences.
//
// The expression under test is given as a Func that builds it inside an
// arena from a set of input leaves. Check builds it once to run a backward
// pass, then rebuilds it in fresh arenas at perturbed inputs to estimate
// every partial derivative numerically with a central difference.
//
// Example:
//
//	square := func(a *autodiff.Arena, in []autodiff.Handle) (autodiff.Handle, error) {
//	    return a.Mul(in[0], in[0])
//	}
//	report, err := gradcheck.Check(ctx, square, []float64{3}, gradcheck.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(report.OK()) // true: d(x²)/dx = 6 both ways
package gradcheck

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/ctxlog"
	"github.com/born-ml/gradgraph/internal/parallel"
)

// Func builds the expression under test from its input leaves and returns
// the output handle.
type Func func(a *autodiff.Arena, inputs []autodiff.Handle) (autodiff.Handle, error)

// Options configures Check.
type Options struct {
	Step      float64         // Finite difference step (default: 1e-6)
	Tolerance float64         // Allowed error, relative above magnitude 1 (default: 1e-4)
	Names     []string        // Input labels; "x<i>" when missing
	Parallel  parallel.Config // Concurrency for numeric estimates (default: parallel.DefaultConfig())
}

// Result compares the two gradients of one input.
type Result struct {
	Index    int
	Name     string
	Analytic float64
	Numeric  float64
	AbsErr   float64
	OK       bool
}

// Report is the outcome of one Check.
type Report struct {
	Value   float64 // Output value at the checked point
	Results []Result
}

// OK reports whether every input passed.
func (r *Report) OK() bool {
	return len(r.Failures()) == 0
}

// Failures returns the inputs whose gradients disagree.
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.OK {
			out = append(out, res)
		}
	}
	return out
}

func (o Options) withDefaults() Options {
	if o.Step == 0 {
		o.Step = 1e-6
	}
	if o.Tolerance == 0 {
		o.Tolerance = 1e-4
	}
	if o.Parallel == (parallel.Config{}) {
		o.Parallel = parallel.DefaultConfig()
	}
	return o
}

func (o Options) name(i int) string {
	if i < len(o.Names) && o.Names[i] != "" {
		return o.Names[i]
	}
	return fmt.Sprintf("x%d", i)
}

// Check compares the analytic gradient of fn at the point at with a
// numeric estimate for every input.
//
// Each evaluation uses its own arena, so inputs are estimated concurrently
// according to opts.Parallel. Errors from fn (for example a division by
// zero at a perturbed point) abort the check.
func Check(ctx context.Context, fn Func, at []float64, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	logger := ctxlog.FromContext(ctx)

	value, analytic, err := analyticGradient(fn, at, opts)
	if err != nil {
		return nil, fmt.Errorf("gradcheck: analytic pass: %w", err)
	}

	numeric := make([]float64, len(at))
	settings := &fd.Settings{
		Formula: fd.Central,
		Step:    opts.Step,
	}

	err = parallel.ForErr(len(at), func(i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		point := append([]float64(nil), at...)
		var evalErr error
		numeric[i] = fd.Derivative(func(x float64) float64 {
			point[i] = x
			v, err := evaluate(fn, point, opts)
			if err != nil && evalErr == nil {
				evalErr = err
			}
			return v
		}, at[i], settings)
		if evalErr != nil {
			return fmt.Errorf("gradcheck: input %s: %w", opts.name(i), evalErr)
		}
		return nil
	}, opts.Parallel)
	if err != nil {
		return nil, err
	}

	report := &Report{Value: value, Results: make([]Result, len(at))}
	for i := range at {
		absErr := math.Abs(analytic[i] - numeric[i])
		scale := math.Max(1, math.Max(math.Abs(analytic[i]), math.Abs(numeric[i])))
		res := Result{
			Index:    i,
			Name:     opts.name(i),
			Analytic: analytic[i],
			Numeric:  numeric[i],
			AbsErr:   absErr,
			OK:       absErr <= opts.Tolerance*scale,
		}
		report.Results[i] = res
		logger.Debug("Gradient checked.", "input", res.Name, "analytic", res.Analytic, "numeric", res.Numeric, "ok", res.OK)
	}

	return report, nil
}

func build(fn Func, at []float64, opts Options) (*autodiff.Arena, autodiff.Handle, []autodiff.Handle, error) {
	a := autodiff.NewArena()
	inputs := make([]autodiff.Handle, len(at))
	for i, v := range at {
		inputs[i] = a.Leaf(v, opts.name(i))
	}
	out, err := fn(a, inputs)
	if err != nil {
		return nil, autodiff.Handle{}, nil, err
	}
	return a, out, inputs, nil
}

func evaluate(fn Func, at []float64, opts Options) (float64, error) {
	a, out, _, err := build(fn, at, opts)
	if err != nil {
		return math.NaN(), err
	}
	return a.Value(out)
}

func analyticGradient(fn Func, at []float64, opts Options) (float64, []float64, error) {
	a, out, inputs, err := build(fn, at, opts)
	if err != nil {
		return 0, nil, err
	}
	if err := a.Backward(out); err != nil {
		return 0, nil, err
	}

	value, err := a.Value(out)
	if err != nil {
		return 0, nil, err
	}
	grads := make([]float64, len(inputs))
	for i, h := range inputs {
		if grads[i], err = a.Grad(h); err != nil {
			return 0, nil, err
		}
	}
	return value, grads, nil
}
