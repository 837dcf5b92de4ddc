package autodiff

import (
	"errors"
	"fmt"

	"github.com/born-ml/gradgraph/internal/autodiff/ops"
)

// Common errors.
var (
	ErrInvalidArity   = errors.New("invalid operand count")
	ErrUnknownHandle  = errors.New("handle does not belong to this arena")
	ErrUnknownOp      = errors.New("unknown operation")
	ErrDivisionByZero = ops.ErrDivisionByZero
	ErrDomain         = ops.ErrDomain
)

// OpError reports a failed node construction.
type OpError struct {
	Op     Op    // Operation being applied
	Err    error // Underlying cause (one of the Err* values)
	Detail string
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("autodiff: %s: %v: %s", e.Op, e.Err, e.Detail)
	}
	return fmt.Sprintf("autodiff: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error so errors.Is works on sentinels.
func (e *OpError) Unwrap() error {
	return e.Err
}
