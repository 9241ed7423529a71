package normalize

import (
	"github.com/wlang/wnorm/internal/cfg"
	"github.com/wlang/wnorm/internal/lang"
)

// seqTrigger names two LOOP units found adjacent-or-not within a single
// straight-line segment, the pattern spec.md §4.4.2 rewrites.
type seqTrigger struct {
	units []cfg.Handle
	i, j  int
}

// findSequential searches the whole CFG, starting from start, for the
// first segment containing two LOOP units (spec.md §4.4.2).
func findSequential(c *cfg.CFG, start cfg.NodeID) *seqTrigger {
	return findSequentialInUnits(c, segmentUnits(c, start))
}

func findSequentialInUnits(c *cfg.CFG, units []cfg.Handle) *seqTrigger {
	li := -1
	for idx, u := range units {
		if c.Node(u.Entry).Tag == lang.LOOP {
			if li == -1 {
				li = idx
				continue
			}
			return &seqTrigger{units: units, i: li, j: idx}
		}
	}

	// No two LOOP units share this segment; search one level deeper,
	// inside each unit's own sub-structure.
	for _, u := range units {
		switch c.Node(u.Entry).Tag {
		case lang.AMB:
			left, right, restore := branchSegments(c, u.Entry)
			if t := findSequentialInUnits(c, left); t != nil {
				restore()
				return t
			}
			if t := findSequentialInUnits(c, right); t != nil {
				restore()
				return t
			}
			restore()
		case lang.LOOP:
			body, restore := bodySegment(c, u.Entry)
			if t := findSequentialInUnits(c, body); t != nil {
				restore()
				return t
			}
			restore()
		}
	}
	return nil
}

// rewriteSequential applies spec.md §4.4.2's literal rewrite: two loops in
// sequence become one loop guarded by a fresh mode flag that runs the
// first loop's body, then the inter-loop code once, then the second
// loop's body.
func rewriteSequential(c *cfg.CFG, ctx *Context, t *seqTrigger) {
	units := t.units
	header1, header2 := units[t.i].Entry, units[t.j].Entry

	body1 := loopBody(c, header1)
	body2 := loopBody(c, header2)

	pre := chainRange(units, 0, t.i)
	inter := chainRange(units, t.i+1, t.j)
	post := chainRange(units, t.j+1, len(units))

	bd := captureBoundary(c, units[0].Entry, units[len(units)-1].Exit)

	cfg.NukeLoop(c, header1)
	cfg.NukeLoop(c, header2)

	flag := ctx.Fresh()

	setTrue := cfg.MakeFlag(c, flag, cfg.FlagAssign, true)
	assumeTrue1 := cfg.MakeFlag(c, flag, cfg.FlagAssume, true)
	setFalse := cfg.MakeFlag(c, flag, cfg.FlagAssign, false)
	branchA := cfg.ChainAll(c, &assumeTrue1, &setFalse, inter)
	assumeFalse1 := cfg.MakeFlag(c, flag, cfg.FlagAssume, false)
	innerAMB1 := cfg.MakeAMB(c, branchA, assumeFalse1)

	assumeTrue2 := cfg.MakeFlag(c, flag, cfg.FlagAssume, true)
	branchB1 := cfg.Chain(c, assumeTrue2, body1)
	assumeFalse2 := cfg.MakeFlag(c, flag, cfg.FlagAssume, false)
	branchB2 := cfg.Chain(c, assumeFalse2, body2)
	innerAMB2 := cfg.MakeAMB(c, branchB1, branchB2)

	outerAMB := cfg.MakeAMB(c, innerAMB1, innerAMB2)
	loop := cfg.MakeLoop(c, outerAMB)
	assumeFalseFinal := cfg.MakeFlag(c, flag, cfg.FlagAssume, false)

	full := cfg.ChainAll(c, pre, &setTrue, &loop, &assumeFalseFinal, post)
	bd.splice(c, full)
}
