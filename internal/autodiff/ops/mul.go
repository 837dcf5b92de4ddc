package ops

// Multiplication: out = a * b.
//
// Backward pass:
//   - d(a*b)/da = b, so grad_a = b * grad
//   - d(a*b)/db = a, so grad_b = a * grad
func mulForward(in []float64) (float64, error) {
	return in[0] * in[1], nil
}

func mulBackward(grad, _ float64, in, dst []float64) {
	dst[0] = in[1] * grad
	dst[1] = in[0] * grad
}
