package cfg

import "github.com/wlang/wnorm/internal/lang"

// NextSeq returns the node that follows the structural unit rooted at n
// in sequence, per spec.md §4.3.1. It is shared between the CFG→AST
// converter (to "chain with the SEQ successor") and the normalizer's
// forward walk that locates sequential LOOP nodes (spec.md §4.4.2).
func NextSeq(c *CFG, n NodeID) (NodeID, bool) {
	node := c.Node(n)
	switch node.Tag {
	case lang.ASSUME, lang.ASSIGN:
		// Hop over the "exit" node of the two-node ASSIGN/ASSUME unit.
		mid, ok := singleOut(c, n)
		if !ok {
			return 0, false
		}
		return singleOut(c, mid)

	case lang.AMB:
		return singleOut(c, node.AMBExit)

	case lang.LOOP:
		for _, eid := range node.Out {
			e := c.Edge(eid)
			if e.Tag != lang.LoopEntry {
				return e.To, true
			}
		}
		return 0, false

	default:
		return singleOut(c, n)
	}
}

// singleOut returns the endpoint of n's single outgoing edge, if it has
// exactly one.
func singleOut(c *CFG, n NodeID) (NodeID, bool) {
	out := c.Node(n).Out
	if len(out) != 1 {
		return 0, false
	}
	return c.Edge(out[0]).To, true
}
