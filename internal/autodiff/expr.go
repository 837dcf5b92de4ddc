package autodiff

// Expr pairs a handle with its arena for fluent expression building.
//
// Errors are sticky: once an operation fails, every Expr derived from it
// carries the first error and creates no further nodes.
//
//	x := a.Var(2, "x")
//	y := x.Mul(x).DivConst(0).AddConst(1)
//	errors.Is(y.Err(), autodiff.ErrDivisionByZero) // true
type Expr struct {
	arena *Arena
	h     Handle
	err   error
}

// Var creates a labeled leaf and wraps it.
func (a *Arena) Var(value float64, label string) Expr {
	return Expr{arena: a, h: a.Leaf(value, label)}
}

// Expr wraps an existing handle of a.
func (a *Arena) Expr(h Handle) Expr {
	if _, err := a.lookup(h); err != nil {
		return Expr{arena: a, err: err}
	}
	return Expr{arena: a, h: h}
}

// Handle returns the wrapped handle (zero if Err is set).
func (e Expr) Handle() Handle {
	return e.h
}

// Arena returns the owning arena.
func (e Expr) Arena() *Arena {
	return e.arena
}

// Err returns the first error met while building e.
func (e Expr) Err() error {
	return e.err
}

// Value returns the forward value, or 0 if e failed.
func (e Expr) Value() float64 {
	if e.err != nil {
		return 0
	}
	v, _ := e.arena.Value(e.h)
	return v
}

// Grad returns the accumulated gradient, or 0 if e failed.
func (e Expr) Grad() float64 {
	if e.err != nil {
		return 0
	}
	g, _ := e.arena.Grad(e.h)
	return g
}

// Label sets the display label and returns e.
func (e Expr) Label(label string) Expr {
	if e.err != nil {
		return e
	}
	if err := e.arena.SetLabel(e.h, label); err != nil {
		return Expr{arena: e.arena, err: err}
	}
	return e
}

// Backward runs a backward pass from e.
func (e Expr) Backward() error {
	if e.err != nil {
		return e.err
	}
	return e.arena.Backward(e.h)
}

// Add returns e + o.
func (e Expr) Add(o Expr) Expr { return e.binary(o, e.arena.Add) }

// Sub returns e - o.
func (e Expr) Sub(o Expr) Expr { return e.binary(o, e.arena.Sub) }

// Mul returns e * o.
func (e Expr) Mul(o Expr) Expr { return e.binary(o, e.arena.Mul) }

// Div returns e / o.
func (e Expr) Div(o Expr) Expr { return e.binary(o, e.arena.Div) }

// Pow returns e ^ o.
func (e Expr) Pow(o Expr) Expr { return e.binary(o, e.arena.Pow) }

// AddConst returns e + c.
func (e Expr) AddConst(c float64) Expr { return e.withConst(c, e.arena.AddConst) }

// SubConst returns e - c.
func (e Expr) SubConst(c float64) Expr { return e.withConst(c, e.arena.SubConst) }

// MulConst returns e * c.
func (e Expr) MulConst(c float64) Expr { return e.withConst(c, e.arena.MulConst) }

// DivConst returns e / c.
func (e Expr) DivConst(c float64) Expr { return e.withConst(c, e.arena.DivConst) }

// PowConst returns e ^ c.
func (e Expr) PowConst(c float64) Expr { return e.withConst(c, e.arena.PowConst) }

// ConstSub returns c - e.
func (e Expr) ConstSub(c float64) Expr {
	return e.withConst(c, func(x Handle, c float64) (Handle, error) { return e.arena.ConstSub(c, x) })
}

// ConstDiv returns c / e.
func (e Expr) ConstDiv(c float64) Expr {
	return e.withConst(c, func(x Handle, c float64) (Handle, error) { return e.arena.ConstDiv(c, x) })
}

// Neg returns -e.
func (e Expr) Neg() Expr { return e.unary(e.arena.Neg) }

// Exp returns exp(e).
func (e Expr) Exp() Expr { return e.unary(e.arena.Exp) }

// Tanh returns tanh(e).
func (e Expr) Tanh() Expr { return e.unary(e.arena.Tanh) }

// ReLU returns max(0, e).
func (e Expr) ReLU() Expr { return e.unary(e.arena.ReLU) }

func (e Expr) binary(o Expr, apply func(x, y Handle) (Handle, error)) Expr {
	if e.err != nil {
		return e
	}
	if o.err != nil {
		return Expr{arena: e.arena, err: o.err}
	}
	return e.wrap(apply(e.h, o.h))
}

func (e Expr) unary(apply func(x Handle) (Handle, error)) Expr {
	if e.err != nil {
		return e
	}
	return e.wrap(apply(e.h))
}

func (e Expr) withConst(c float64, apply func(x Handle, c float64) (Handle, error)) Expr {
	if e.err != nil {
		return e
	}
	return e.wrap(apply(e.h, c))
}

func (e Expr) wrap(h Handle, err error) Expr {
	if err != nil {
		return Expr{arena: e.arena, err: err}
	}
	return Expr{arena: e.arena, h: h}
}
