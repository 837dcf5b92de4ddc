// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for scalar parameters.
//
// # Overview
//
// This package contains:
//   - Parameter: a named scalar that outlives the arenas it is bound into
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// # Training Loop Pattern
//
//	w := optim.NewParameter("w", 0)
//	b := optim.NewParameter("b", 0)
//	optimizer := optim.NewAdam(
//	    []*optim.Parameter{w, b},
//	    optim.AdamConfig{LR: 0.05},
//	)
//
//	for step := range numSteps {
//	    // 1. Bind parameters into a fresh arena
//	    a := autodiff.NewArena()
//	    pred := w.Bind(a).MulConst(x).Add(b.Bind(a))
//	    loss := pred.SubConst(y).PowConst(2)
//
//	    // 2. Backward pass
//	    if err := loss.Backward(); err != nil {
//	        return err
//	    }
//
//	    // 3. Update parameters
//	    if err := optimizer.Step(a); err != nil {
//	        return err
//	    }
//	    optimizer.ZeroGrad()
//	}
package optim
