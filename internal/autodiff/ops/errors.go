package ops

import "errors"

// Forward failures. Only Div, Pow and Exp can fail.
var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrDomain         = errors.New("result is not a finite number")
)
