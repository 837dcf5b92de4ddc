package autodiff

// State tracks where an arena is in the differentiation lifecycle.
type State uint8

// Arena states.
const (
	// Built: graph constructed, gradients zero.
	Built State = iota
	// Seeded: a backward pass has seeded its output and is propagating.
	Seeded
	// Propagated: the last backward pass finished.
	Propagated
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Built:
		return "built"
	case Seeded:
		return "seeded"
	case Propagated:
		return "propagated"
	default:
		return "unknown"
	}
}
