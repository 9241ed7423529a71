// Package normalize implements the loop-reduction normalizer of spec.md
// §4.4: the back-edge fixpoint driver and its three algebraic rewrites
// (sequential-loops, nested-loop, alternative-loops), built entirely from
// the cfg package's surgery primitives (spec.md §4.5).
package normalize

import "fmt"

// Context holds the per-transformation state the normalizer needs: the
// fresh-flag-name counter of spec.md §4.4.5. Encapsulating it in a value
// rather than a package-level global is the "per-transformation context"
// design note of spec.md §9 — it lifts the single-threaded restriction of
// §5 and makes the flag names deterministic without a global reset.
type Context struct {
	nextFlag int
}

// NewContext returns a Context whose flag counter starts at zero.
func NewContext() *Context {
	return &Context{}
}

// Fresh allocates the next mode-flag name. The specification fixes the
// prefix convention but not the exact string (spec.md §4.4.5); this
// module uses "__nflag_N".
func (ctx *Context) Fresh() string {
	name := fmt.Sprintf("__nflag_%d", ctx.nextFlag)
	ctx.nextFlag++
	return name
}
