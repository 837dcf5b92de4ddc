package ops

// Division: out = a / b.
//
// Backward pass:
//   - d(a/b)/da = 1/b, so grad_a = grad / b
//   - d(a/b)/db = -a/b², so grad_b = -(grad * a / b) / b
//
// The forward pass rejects an exact zero divisor, so b is never zero here.
func divForward(in []float64) (float64, error) {
	if in[1] == 0 {
		return 0, ErrDivisionByZero
	}
	return in[0] / in[1], nil
}

func divBackward(grad, _ float64, in, dst []float64) {
	a, b := in[0], in[1]
	dst[0] = grad / b
	dst[1] = -(grad * a / b) / b
}
