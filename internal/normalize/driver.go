package normalize

import (
	"fmt"

	"github.com/wlang/wnorm/internal/cfg"
)

// Options configures the normalizer driver.
type Options struct {
	// MaxIterations bounds the driver's fixpoint loop (spec.md §9's third
	// open question). Zero or negative falls back to the default.
	MaxIterations int
}

// DefaultOptions returns the normalizer's default bounded-retry budget.
func DefaultOptions() Options {
	return Options{MaxIterations: 10000}
}

// Normalize reduces c in place to the single-loop invariant of spec.md
// §4.4, using DefaultOptions.
func Normalize(c *cfg.CFG) error {
	return NormalizeWithOptions(c, DefaultOptions())
}

// NormalizeWithOptions reduces c in place, applying the sequential-loops,
// nested-loop, and alternative-loops rewrites (spec.md §4.4.2-§4.4.4)
// until at most one back-edge remains. Each full iteration must strictly
// decrease the back-edge count (spec.md §4.4.1); failing that, or
// exceeding opts.MaxIterations, returns a ProgressError rather than
// looping forever.
func NormalizeWithOptions(c *cfg.CFG, opts Options) error {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}
	ctx := NewContext()

	passes := []func(*cfg.CFG, *Context) (bool, error){
		applySequentialPass,
		applyNestedPass,
		applyAlternativePass,
	}

	iterations := 0
	for c.NumBackEdges() > 1 {
		if iterations >= opts.MaxIterations {
			return ProgressError{
				Kind:    "progress-failure",
				Message: fmt.Sprintf("normalizer exceeded %d iterations without reaching the single-loop invariant", opts.MaxIterations),
			}
		}

		before := c.NumBackEdges()
		changedAny := false
		for _, pass := range passes {
			changed, err := pass(c, ctx)
			if err != nil {
				return err
			}
			if changed {
				changedAny = true
			}
		}

		if !changedAny {
			return ProgressError{
				Kind:    "progress-failure",
				Message: "normalizer pass found no applicable rewrite but more than one back-edge remains",
			}
		}

		after := c.NumBackEdges()
		if after >= before {
			return ProgressError{
				Kind:    "progress-failure",
				Message: fmt.Sprintf("normalizer iteration did not strictly decrease the back-edge count (%d -> %d)", before, after),
			}
		}
		iterations++
	}
	return nil
}

func applySequentialPass(c *cfg.CFG, ctx *Context) (bool, error) {
	t := findSequential(c, c.Entry)
	if t == nil {
		return false, nil
	}
	rewriteSequential(c, ctx, t)
	if err := cfg.CheckInvariants(c); err != nil {
		return false, err
	}
	return true, nil
}

func applyNestedPass(c *cfg.CFG, ctx *Context) (bool, error) {
	t := findNested(c, c.Entry)
	if t == nil {
		return false, nil
	}
	rewriteNested(c, ctx, t)
	if err := cfg.CheckInvariants(c); err != nil {
		return false, err
	}
	return true, nil
}

func applyAlternativePass(c *cfg.CFG, ctx *Context) (bool, error) {
	t := findAlternative(c, c.Entry)
	if t == nil {
		return false, nil
	}
	rewriteAlternative(c, ctx, t)
	if err := cfg.CheckInvariants(c); err != nil {
		return false, err
	}
	return true, nil
}
