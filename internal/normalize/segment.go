package normalize

import (
	"github.com/wlang/wnorm/internal/cfg"
	"github.com/wlang/wnorm/internal/lang"
)

// unitHandle returns the Handle of the single structural unit rooted at
// n: the two-node ASSIGN/ASSUME span, the AMB split/exit pair, or the
// LOOP header (entry == exit).
func unitHandle(c *cfg.CFG, n cfg.NodeID) cfg.Handle {
	node := c.Node(n)
	switch node.Tag {
	case lang.AMB:
		return cfg.Handle{Entry: n, Exit: node.AMBExit}
	case lang.LOOP:
		return cfg.Handle{Entry: n, Exit: n}
	default:
		// ASSIGN/ASSUME: the single outgoing edge's endpoint is this
		// unit's exit node.
		for _, eid := range node.Out {
			return cfg.Handle{Entry: n, Exit: c.Edge(eid).To}
		}
		return cfg.Handle{Entry: n, Exit: n}
	}
}

// segmentUnits walks forward via cfg.NextSeq from start, collecting the
// linear sequence of structural units that make up one straight-line
// segment (spec.md §4.4.2's "single straight-line segment").
func segmentUnits(c *cfg.CFG, start cfg.NodeID) []cfg.Handle {
	var units []cfg.Handle
	cur := start
	for {
		units = append(units, unitHandle(c, cur))
		next, ok := cfg.NextSeq(c, cur)
		if !ok {
			break
		}
		cur = next
	}
	return units
}

// loopBody returns the Handle of a LOOP node's body sub-CFG, read
// directly off its LOOP_ENTRY/LOOP_BACK edges.
func loopBody(c *cfg.CFG, header cfg.NodeID) cfg.Handle {
	node := c.Node(header)
	var h cfg.Handle
	for _, eid := range node.Out {
		if e := c.Edge(eid); e.Tag == lang.LoopEntry {
			h.Entry = e.To
		}
	}
	for _, eid := range node.In {
		if e := c.Edge(eid); e.Tag == lang.LoopBack {
			h.Exit = e.From
		}
	}
	return h
}

// bodySegment returns the unit sequence of a LOOP node's body, having
// temporarily detached the LOOP_BACK edge so the walk stops exactly at
// the body's boundary (mirroring how the CFG→AST converter bounds its own
// recursion in spec.md §4.3). The caller must invoke restore once done.
func bodySegment(c *cfg.CFG, header cfg.NodeID) (units []cfg.Handle, restore func()) {
	node := c.Node(header)
	var backEdgeID cfg.EdgeID
	for _, eid := range node.In {
		if c.Edge(eid).Tag == lang.LoopBack {
			backEdgeID = eid
			break
		}
	}
	backEdge := c.DetachEdge(backEdgeID)

	var bodyEntry cfg.NodeID
	for _, eid := range node.Out {
		if c.Edge(eid).Tag == lang.LoopEntry {
			bodyEntry = c.Edge(eid).To
			break
		}
	}

	units = segmentUnits(c, bodyEntry)
	restore = func() { c.ReattachEdge(backEdge) }
	return units, restore
}

// branchSegments returns the unit sequences of both branches of an AMB
// node, having temporarily detached the AMB_JOIN edges so each walk stops
// exactly at its branch boundary (spec.md §4.3). The caller must invoke
// restore once done.
func branchSegments(c *cfg.CFG, ambEntry cfg.NodeID) (left, right []cfg.Handle, restore func()) {
	node := c.Node(ambEntry)
	exitNode := c.Node(node.AMBExit)

	joinIDs := append([]cfg.EdgeID{}, exitNode.In...)
	detached := make([]*cfg.Edge, len(joinIDs))
	for i, eid := range joinIDs {
		detached[i] = c.DetachEdge(eid)
	}

	leftEntry := c.Edge(node.Out[0]).To
	rightEntry := c.Edge(node.Out[1]).To
	left = segmentUnits(c, leftEntry)
	right = segmentUnits(c, rightEntry)

	restore = func() {
		for _, e := range detached {
			c.ReattachEdge(e)
		}
	}
	return left, right, restore
}

// chainRange returns a Handle spanning units[lo:hi] by re-pointing
// existing node references (no copying, no new edges: the units are
// already connected in sequence) — spec.md §4.4.2's "standalone CFG
// handles". Returns nil if the range is empty, realizing the "omit the
// scaffolding block" edge case of spec.md §4.4.6.
func chainRange(units []cfg.Handle, lo, hi int) *cfg.Handle {
	if lo >= hi {
		return nil
	}
	h := cfg.Handle{Entry: units[lo].Entry, Exit: units[hi-1].Exit}
	return &h
}

func firstLoopIndex(c *cfg.CFG, units []cfg.Handle) int {
	for idx, u := range units {
		if c.Node(u.Entry).Tag == lang.LOOP {
			return idx
		}
	}
	return -1
}

// boundary captures the edges connecting a segment to its surrounding
// context, so the segment can be replaced and the surgery re-wired to
// whatever used to point at it. The edges are fully detached (not merely
// read) by captureBoundary, and their tag and payload are carried here so
// splice can recreate them with the same structural meaning instead of a
// generic sequencing edge — the enclosing node may require its own
// specific edge tag (LOOP_ENTRY/LOOP_BACK on an enclosing LOOP header,
// AMB_SPLIT/AMB_JOIN on an enclosing AMB) to keep passing CheckInvariants.
type boundary struct {
	pred *cfg.Edge // fed into the segment from outside; nil if the segment started at c.Entry
	succ *cfg.Edge // the segment fed out to outside; nil if the segment ended at c.Exit
}

// captureBoundary detaches the external predecessor/successor edges of the
// segment [entry, exit] before it is torn down, so that a rewrite's own
// Nuke* calls never have to (and never accidentally do) delete an edge
// that actually belongs to an enclosing structure. When entry (or exit) is
// itself a LOOP header, its own LOOP_BACK (or LOOP_ENTRY) edge is internal
// to the segment and must not be mistaken for an external link.
func captureBoundary(c *cfg.CFG, entry, exit cfg.NodeID) boundary {
	entryIsLoop := c.Node(entry).Tag == lang.LOOP
	exitIsLoop := c.Node(exit).Tag == lang.LOOP

	var bd boundary
	for _, eid := range c.Node(entry).In {
		e := c.Edge(eid)
		if entryIsLoop && e.Tag == lang.LoopBack {
			continue
		}
		bd.pred = c.DetachEdge(eid)
		break
	}
	for _, eid := range c.Node(exit).Out {
		e := c.Edge(eid)
		if exitIsLoop && e.Tag == lang.LoopEntry {
			continue
		}
		bd.succ = c.DetachEdge(eid)
		break
	}
	return bd
}

// splice connects h into the place the original segment occupied,
// recreating the detached boundary edges with their original tag and
// payload so an enclosing LOOP/AMB node's own invariants still hold. If
// the segment had no external predecessor/successor, it was the CFG's own
// entry/exit, so that pointer is updated instead of adding an edge.
func (bd boundary) splice(c *cfg.CFG, h cfg.Handle) {
	if bd.pred != nil {
		c.NewEdge(bd.pred.From, h.Entry, bd.pred.Payload, bd.pred.Tag)
	} else {
		c.Entry = h.Entry
	}
	if bd.succ != nil {
		c.NewEdge(h.Exit, bd.succ.To, bd.succ.Payload, bd.succ.Tag)
	} else {
		c.Exit = h.Exit
	}
}
