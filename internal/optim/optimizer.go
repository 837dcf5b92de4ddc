// Package optim implements gradient-based optimizers for scalar parameters.
//
// This package provides:
//   - Parameter: a named scalar that survives across arenas
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Parameter values live outside any arena. Each training step binds them as
// leaves of a fresh arena, builds the loss, runs Backward and lets the
// optimizer read the gradients back through the bound handles:
//
//	w := optim.NewParameter("w", 0.5)
//	opt := optim.NewSGD([]*optim.Parameter{w}, optim.SGDConfig{LR: 0.1})
//
//	for step := range steps {
//	    a := autodiff.NewArena()
//	    loss := w.Bind(a).MulConst(x).SubConst(y).PowConst(2)
//	    if err := loss.Backward(); err != nil {
//	        return err
//	    }
//	    if err := opt.Step(a); err != nil {
//	        return err
//	    }
//	    opt.ZeroGrad()
//	}
package optim

import (
	"errors"

	"github.com/born-ml/gradgraph/internal/autodiff"
)

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply gradient updates to parameters
//   - ZeroGrad: Clear gradients before next iteration
//   - GetLR: Get current learning rate (for monitoring/scheduling)
type Optimizer interface {
	// Step reads the gradients of the parameters bound in a and updates
	// their values. Parameters not bound in a are skipped.
	Step(a *autodiff.Arena) error

	// ZeroGrad clears the gradients recorded on all parameters.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float64
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float64 // Learning rate
}

// Parameter is a trainable scalar.
type Parameter struct {
	name   string
	value  float64
	grad   float64
	handle autodiff.Handle // Leaf of the most recent Bind
}

// NewParameter creates a new trainable parameter.
func NewParameter(name string, value float64) *Parameter {
	return &Parameter{name: name, value: value}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Value returns the current value.
func (p *Parameter) Value() float64 {
	return p.value
}

// SetValue overwrites the current value.
func (p *Parameter) SetValue(v float64) {
	p.value = v
}

// Grad returns the gradient collected by the last Step.
func (p *Parameter) Grad() float64 {
	return p.grad
}

// ZeroGrad clears the collected gradient.
func (p *Parameter) ZeroGrad() {
	p.grad = 0
}

// Leaf creates a leaf for the parameter in a and remembers its handle.
func (p *Parameter) Leaf(a *autodiff.Arena) autodiff.Handle {
	p.handle = a.Leaf(p.value, p.name)
	return p.handle
}

// Bind is Leaf wrapped as an expression.
func (p *Parameter) Bind(a *autodiff.Arena) autodiff.Expr {
	return a.Expr(p.Leaf(a))
}

// collect reads the parameter gradient from a. It reports false when the
// parameter is not bound in a.
func (p *Parameter) collect(a *autodiff.Arena) (bool, error) {
	if p.handle.IsZero() {
		return false, nil
	}
	g, err := a.Grad(p.handle)
	if errors.Is(err, autodiff.ErrUnknownHandle) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	p.grad = g
	return true, nil
}
