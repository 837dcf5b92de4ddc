package ops

import "math"

// Power: out = a ^ b.
//
// Backward pass:
//   - d(a^b)/da = b * a^(b-1), zero when b = 0 (a^0 is constant, even at a = 0)
//   - d(a^b)/db = a^b * ln(a), defined for a > 0 only; zero otherwise
//
// Negative bases with fractional exponents and overflowing results fail
// with ErrDomain at construction time.
func powForward(in []float64) (float64, error) {
	out := math.Pow(in[0], in[1])
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, ErrDomain
	}
	return out, nil
}

func powBackward(grad, out float64, in, dst []float64) {
	a, b := in[0], in[1]
	if b == 0 {
		dst[0] = 0
	} else {
		dst[0] = b * math.Pow(a, b-1) * grad
	}
	if a > 0 {
		dst[1] = out * math.Log(a) * grad
	} else {
		dst[1] = 0
	}
}
