package normalize

import (
	"github.com/wlang/wnorm/internal/cfg"
	"github.com/wlang/wnorm/internal/lang"
)

// altTrigger names an AMB unit (ambIdx, within containerUnits) whose two
// branches (left, right) each contain a LOOP unit (leftIdx, rightIdx) —
// the pattern spec.md §4.4.4 rewrites.
type altTrigger struct {
	containerUnits    []cfg.Handle
	ambIdx            int
	left, right       []cfg.Handle
	leftIdx, rightIdx int
}

func findAlternative(c *cfg.CFG, start cfg.NodeID) *altTrigger {
	return findAlternativeInUnits(c, segmentUnits(c, start))
}

func findAlternativeInUnits(c *cfg.CFG, units []cfg.Handle) *altTrigger {
	for idx, u := range units {
		if c.Node(u.Entry).Tag != lang.AMB {
			continue
		}
		left, right, restore := branchSegments(c, u.Entry)
		li := firstLoopIndex(c, left)
		ri := firstLoopIndex(c, right)
		if li >= 0 && ri >= 0 {
			restore()
			return &altTrigger{containerUnits: units, ambIdx: idx, left: left, right: right, leftIdx: li, rightIdx: ri}
		}
		if t := findAlternativeInUnits(c, left); t != nil {
			restore()
			return t
		}
		if t := findAlternativeInUnits(c, right); t != nil {
			restore()
			return t
		}
		restore()
	}

	for _, u := range units {
		if c.Node(u.Entry).Tag == lang.LOOP {
			body, restore := bodySegment(c, u.Entry)
			if t := findAlternativeInUnits(c, body); t != nil {
				restore()
				return t
			}
			restore()
		}
	}
	return nil
}

// rewriteAlternative applies spec.md §4.4.4's literal rewrite: two loops
// in alternative (AMB) branches become one loop guarded by a fresh mode
// flag, picking which loop's prefix/body/suffix to run once up front and
// sticking with that choice for the duration of the merged loop.
func rewriteAlternative(c *cfg.CFG, ctx *Context, t *altTrigger) {
	leftHeader := t.left[t.leftIdx].Entry
	rightHeader := t.right[t.rightIdx].Entry
	ambEntry := t.containerUnits[t.ambIdx].Entry

	pre1 := chainRange(t.left, 0, t.leftIdx)
	body1 := loopBody(c, leftHeader)
	post1 := chainRange(t.left, t.leftIdx+1, len(t.left))

	pre2 := chainRange(t.right, 0, t.rightIdx)
	body2 := loopBody(c, rightHeader)
	post2 := chainRange(t.right, t.rightIdx+1, len(t.right))

	before := chainRange(t.containerUnits, 0, t.ambIdx)
	after := chainRange(t.containerUnits, t.ambIdx+1, len(t.containerUnits))

	bd := captureBoundary(c, t.containerUnits[0].Entry, t.containerUnits[len(t.containerUnits)-1].Exit)

	cfg.NukeLoop(c, leftHeader)
	cfg.NukeLoop(c, rightHeader)
	cfg.NukeAMB(c, ambEntry)

	flag := ctx.Fresh()

	setTrue := cfg.MakeFlag(c, flag, cfg.FlagAssign, true)
	b1 := cfg.ChainAll(c, &setTrue, pre1)
	setFalse := cfg.MakeFlag(c, flag, cfg.FlagAssign, false)
	b2 := cfg.ChainAll(c, &setFalse, pre2)
	ambPre := cfg.MakeAMB(c, b1, b2)

	assumeTrue1 := cfg.MakeFlag(c, flag, cfg.FlagAssume, true)
	lb1 := cfg.Chain(c, assumeTrue1, body1)
	assumeFalse1 := cfg.MakeFlag(c, flag, cfg.FlagAssume, false)
	lb2 := cfg.Chain(c, assumeFalse1, body2)
	loopAmb := cfg.MakeAMB(c, lb1, lb2)
	loop := cfg.MakeLoop(c, loopAmb)

	assumeTrue2 := cfg.MakeFlag(c, flag, cfg.FlagAssume, true)
	pb1 := cfg.ChainAll(c, &assumeTrue2, post1)
	assumeFalse2 := cfg.MakeFlag(c, flag, cfg.FlagAssume, false)
	pb2 := cfg.ChainAll(c, &assumeFalse2, post2)
	ambPost := cfg.MakeAMB(c, pb1, pb2)

	scaffold := cfg.ChainAll(c, &ambPre, &loop, &ambPost)
	full := cfg.ChainAll(c, before, &scaffold, after)
	bd.splice(c, full)
}
