package ops

// Subtraction: out = a - b.
//
// Backward pass:
//   - d(a-b)/da = 1, so grad_a = grad
//   - d(a-b)/db = -1, so grad_b = -grad
func subForward(in []float64) (float64, error) {
	return in[0] - in[1], nil
}

func subBackward(grad, _ float64, _, dst []float64) {
	dst[0] = grad
	dst[1] = -grad
}
