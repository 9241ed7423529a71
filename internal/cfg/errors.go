package cfg

import "fmt"

// BuildError is raised by the AST-to-CFG builder on malformed input it
// cannot translate (spec.md §7, malformed-input).
type BuildError struct {
	Kind    string
	Message string
}

func (e BuildError) Error() string {
	return fmt.Sprintf("build error (%v): %v", e.Kind, e.Message)
}

// InvariantError is raised when a CFG surgery produces a structure
// violating spec.md §3.3's invariants (spec.md §7, invariant-violation).
type InvariantError struct {
	Kind    string
	Message string
}

func (e InvariantError) Error() string {
	return fmt.Sprintf("invariant violation (%v): %v", e.Kind, e.Message)
}
