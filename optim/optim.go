// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/gradgraph/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Config represents the base configuration for optimizers.
type Config = optim.Config

// Parameter is a trainable scalar.
type Parameter = optim.Parameter

// NewParameter creates a new trainable parameter.
func NewParameter(name string, value float64) *Parameter {
	return optim.NewParameter(name, value)
}

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	optimizer := optim.NewSGD(
//	    []*optim.Parameter{w, b},
//	    optim.SGDConfig{
//	        LR:       0.01,
//	        Momentum: 0.9,
//	    },
//	)
func NewSGD(params []*Parameter, config SGDConfig) *SGD {
	return optim.NewSGD(params, config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
//
// Example:
//
//	optimizer := optim.NewAdam(
//	    []*optim.Parameter{w, b},
//	    optim.AdamConfig{
//	        LR:    0.001,
//	        Betas: [2]float64{0.9, 0.999},
//	        Eps:   1e-8,
//	    },
//	)
func NewAdam(params []*Parameter, config AdamConfig) *Adam {
	return optim.NewAdam(params, config)
}
