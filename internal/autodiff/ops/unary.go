package ops

import "math"

// Negation: out = -a, grad_a = -grad.
func negForward(in []float64) (float64, error) {
	return -in[0], nil
}

func negBackward(grad, _ float64, _, dst []float64) {
	dst[0] = -grad
}

// Exponential: out = e^a, grad_a = out * grad.
func expForward(in []float64) (float64, error) {
	out := math.Exp(in[0])
	if math.IsInf(out, 0) || math.IsNaN(out) {
		return 0, ErrDomain
	}
	return out, nil
}

func expBackward(grad, out float64, _, dst []float64) {
	dst[0] = out * grad
}

// Hyperbolic tangent: out = tanh(a), grad_a = (1 - out²) * grad.
func tanhForward(in []float64) (float64, error) {
	return math.Tanh(in[0]), nil
}

func tanhBackward(grad, out float64, _, dst []float64) {
	dst[0] = (1 - out*out) * grad
}

// Rectified linear unit: out = max(0, a), grad_a = grad if out > 0 else 0.
func reluForward(in []float64) (float64, error) {
	if in[0] > 0 {
		return in[0], nil
	}
	return 0, nil
}

func reluBackward(grad, out float64, _, dst []float64) {
	if out > 0 {
		dst[0] = grad
	} else {
		dst[0] = 0
	}
}
