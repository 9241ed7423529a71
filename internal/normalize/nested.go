package normalize

import (
	"github.com/wlang/wnorm/internal/cfg"
	"github.com/wlang/wnorm/internal/lang"
)

// nestedTrigger names a LOOP unit (innerIdx, within bodyUnits) found
// inside another LOOP unit's body (outerIdx, within containerUnits) —
// the pattern spec.md §4.4.3 rewrites.
type nestedTrigger struct {
	containerUnits []cfg.Handle
	outerIdx       int
	bodyUnits      []cfg.Handle
	innerIdx       int
}

func findNested(c *cfg.CFG, start cfg.NodeID) *nestedTrigger {
	return findNestedInUnits(c, segmentUnits(c, start))
}

func findNestedInUnits(c *cfg.CFG, units []cfg.Handle) *nestedTrigger {
	for idx, u := range units {
		if c.Node(u.Entry).Tag != lang.LOOP {
			continue
		}
		body, restore := bodySegment(c, u.Entry)
		innerIdx := firstLoopIndex(c, body)
		if innerIdx >= 0 {
			restore()
			return &nestedTrigger{containerUnits: units, outerIdx: idx, bodyUnits: body, innerIdx: innerIdx}
		}
		restore()
	}

	for _, u := range units {
		switch c.Node(u.Entry).Tag {
		case lang.AMB:
			left, right, restore := branchSegments(c, u.Entry)
			if t := findNestedInUnits(c, left); t != nil {
				restore()
				return t
			}
			if t := findNestedInUnits(c, right); t != nil {
				restore()
				return t
			}
			restore()
		case lang.LOOP:
			body, restore := bodySegment(c, u.Entry)
			if t := findNestedInUnits(c, body); t != nil {
				restore()
				return t
			}
			restore()
		}
	}
	return nil
}

// rewriteNested applies spec.md §4.4.3's literal rewrite: an inner loop
// nested inside an outer loop's body becomes one loop guarded by a fresh
// mode flag that is chosen once, before the loop, and never reassigned
// inside it: on TRUE the outer prefix runs, the merged loop repeats the
// outer suffix followed by a copy of the prefix, and a copy of the suffix
// follows the loop; on FALSE the merged loop repeats the inner body.
func rewriteNested(c *cfg.CFG, ctx *Context, t *nestedTrigger) {
	outerHeader := t.containerUnits[t.outerIdx].Entry
	innerHeader := t.bodyUnits[t.innerIdx].Entry

	pre := chainRange(t.bodyUnits, 0, t.innerIdx)
	post := chainRange(t.bodyUnits, t.innerIdx+1, len(t.bodyUnits))
	body := loopBody(c, innerHeader)

	before := chainRange(t.containerUnits, 0, t.outerIdx)
	after := chainRange(t.containerUnits, t.outerIdx+1, len(t.containerUnits))

	bd := captureBoundary(c, t.containerUnits[0].Entry, t.containerUnits[len(t.containerUnits)-1].Exit)

	var preCopy, postCopy *cfg.Handle
	if pre != nil {
		h := cfg.DeepCopy(c, *pre)
		preCopy = &h
	}
	if post != nil {
		h := cfg.DeepCopy(c, *post)
		postCopy = &h
	}

	cfg.NukeLoop(c, innerHeader)
	cfg.NukeLoop(c, outerHeader)

	flag := ctx.Fresh()

	setTrue := cfg.MakeFlag(c, flag, cfg.FlagAssign, true)
	amb1L := cfg.ChainAll(c, &setTrue, pre)
	setFalse := cfg.MakeFlag(c, flag, cfg.FlagAssign, false)
	amb1 := cfg.MakeAMB(c, amb1L, setFalse)

	assumeTrue1 := cfg.MakeFlag(c, flag, cfg.FlagAssume, true)
	loopAmbL := cfg.ChainAll(c, &assumeTrue1, post, preCopy)
	assumeFalse1 := cfg.MakeFlag(c, flag, cfg.FlagAssume, false)
	loopAmbR := cfg.Chain(c, assumeFalse1, body)
	loopAmb := cfg.MakeAMB(c, loopAmbL, loopAmbR)
	loop := cfg.MakeLoop(c, loopAmb)

	assumeTrue2 := cfg.MakeFlag(c, flag, cfg.FlagAssume, true)
	var amb2L cfg.Handle
	if postCopy != nil {
		amb2L = cfg.Chain(c, assumeTrue2, *postCopy)
	} else {
		amb2L = assumeTrue2
	}
	assumeFalse2 := cfg.MakeFlag(c, flag, cfg.FlagAssume, false)
	amb2 := cfg.MakeAMB(c, amb2L, assumeFalse2)

	scaffold := cfg.ChainAll(c, &amb1, &loop, &amb2)
	full := cfg.ChainAll(c, before, &scaffold, after)
	bd.splice(c, full)
}
