package optim

import (
	"fmt"

	"github.com/born-ml/gradgraph/internal/autodiff"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type SGD struct {
	params     []*Parameter
	lr         float64
	momentum   float64
	velocities map[*Parameter]float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(params []*Parameter, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*Parameter]float64),
	}
}

// Step performs a single optimization step.
func (s *SGD) Step(a *autodiff.Arena) error {
	for _, param := range s.params {
		ok, err := param.collect(a)
		if err != nil {
			return fmt.Errorf("sgd: parameter %q: %w", param.name, err)
		}
		if !ok {
			// Parameter didn't participate in forward pass, skip
			continue
		}

		if s.momentum == 0 {
			param.value -= s.lr * param.grad
			continue
		}

		velocity := s.momentum*s.velocities[param] + param.grad
		s.velocities[param] = velocity
		param.value -= s.lr * velocity
	}
	return nil
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	for _, param := range s.params {
		param.ZeroGrad()
	}
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// StateDict returns the momentum buffers keyed "velocity.{param_index}".
// Without momentum, returns an empty map.
func (s *SGD) StateDict() map[string]float64 {
	stateDict := make(map[string]float64)
	if s.momentum == 0 {
		return stateDict
	}
	for i, param := range s.params {
		if v, exists := s.velocities[param]; exists {
			stateDict[fmt.Sprintf("velocity.%d", i)] = v
		}
	}
	return stateDict
}

// LoadStateDict restores momentum buffers saved by StateDict.
func (s *SGD) LoadStateDict(stateDict map[string]float64) {
	if s.momentum == 0 {
		return
	}
	s.velocities = make(map[*Parameter]float64)
	for i, param := range s.params {
		if v, exists := stateDict[fmt.Sprintf("velocity.%d", i)]; exists {
			s.velocities[param] = v
		}
	}
}
