package autodiff

import "fmt"

// Add returns a node for x + y.
func (a *Arena) Add(x, y Handle) (Handle, error) {
	return a.Apply(OpAdd, x, y)
}

// Sub returns a node for x - y.
func (a *Arena) Sub(x, y Handle) (Handle, error) {
	return a.Apply(OpSub, x, y)
}

// Mul returns a node for x * y.
func (a *Arena) Mul(x, y Handle) (Handle, error) {
	return a.Apply(OpMul, x, y)
}

// Div returns a node for x / y. It fails with ErrDivisionByZero when the
// value of y is exactly zero.
func (a *Arena) Div(x, y Handle) (Handle, error) {
	return a.Apply(OpDiv, x, y)
}

// Pow returns a node for x ^ y.
func (a *Arena) Pow(x, y Handle) (Handle, error) {
	return a.Apply(OpPow, x, y)
}

// Neg returns a node for -x.
func (a *Arena) Neg(x Handle) (Handle, error) {
	return a.Apply(OpNeg, x)
}

// Exp returns a node for e^x.
func (a *Arena) Exp(x Handle) (Handle, error) {
	return a.Apply(OpExp, x)
}

// Tanh returns a node for tanh(x).
func (a *Arena) Tanh(x Handle) (Handle, error) {
	return a.Apply(OpTanh, x)
}

// ReLU returns a node for max(0, x).
func (a *Arena) ReLU(x Handle) (Handle, error) {
	return a.Apply(OpReLU, x)
}

// Const lifts c into a fresh leaf labeled "const#N", N counting the
// constants of this arena. Constants are never deduplicated; reuse the
// returned handle to share one constant between expressions.
func (a *Arena) Const(c float64) Handle {
	a.consts++
	return a.Leaf(c, fmt.Sprintf("const#%d", a.consts))
}

// AddConst returns a node for x + c.
func (a *Arena) AddConst(x Handle, c float64) (Handle, error) {
	return a.withConst(c, func(k Handle) (Handle, error) { return a.Add(x, k) })
}

// SubConst returns a node for x - c.
func (a *Arena) SubConst(x Handle, c float64) (Handle, error) {
	return a.withConst(c, func(k Handle) (Handle, error) { return a.Sub(x, k) })
}

// MulConst returns a node for x * c.
func (a *Arena) MulConst(x Handle, c float64) (Handle, error) {
	return a.withConst(c, func(k Handle) (Handle, error) { return a.Mul(x, k) })
}

// DivConst returns a node for x / c.
func (a *Arena) DivConst(x Handle, c float64) (Handle, error) {
	return a.withConst(c, func(k Handle) (Handle, error) { return a.Div(x, k) })
}

// PowConst returns a node for x ^ c.
func (a *Arena) PowConst(x Handle, c float64) (Handle, error) {
	return a.withConst(c, func(k Handle) (Handle, error) { return a.Pow(x, k) })
}

// ConstSub returns a node for c - x.
func (a *Arena) ConstSub(c float64, x Handle) (Handle, error) {
	return a.withConst(c, func(k Handle) (Handle, error) { return a.Sub(k, x) })
}

// ConstDiv returns a node for c / x.
func (a *Arena) ConstDiv(c float64, x Handle) (Handle, error) {
	return a.withConst(c, func(k Handle) (Handle, error) { return a.Div(k, x) })
}

// withConst lifts c and applies build to it. If build fails the lifted
// leaf is removed again, so a failed call leaves the arena unchanged.
func (a *Arena) withConst(c float64, build func(k Handle) (Handle, error)) (Handle, error) {
	n, consts := len(a.nodes), a.consts
	h, err := build(a.Const(c))
	if err != nil {
		a.truncate(n, consts)
		return Handle{}, err
	}
	return h, nil
}
