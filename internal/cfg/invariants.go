package cfg

import (
	"fmt"

	"github.com/wlang/wnorm/internal/lang"
)

// CheckInvariants verifies spec.md §3.3's invariants. Per spec.md
// §7, these checks run on every pass and are never disabled: the cost of
// a late malformation detection is complete output corruption.
func CheckInvariants(c *CFG) error {
	if err := checkReachability(c); err != nil {
		return err
	}
	for id, n := range c.nodes {
		if err := checkNode(c, id, n); err != nil {
			return err
		}
	}
	for _, e := range c.edges {
		if err := checkEdgeTagConsistency(c, e); err != nil {
			return err
		}
	}
	return nil
}

func checkReachability(c *CFG) error {
	seen := map[NodeID]bool{c.Entry: true}
	queue := []NodeID{c.Entry}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		node := c.Node(cur)
		if node == nil {
			return InvariantError{Kind: "DanglingReference", Message: fmt.Sprintf("node %d is reachable but not registered", cur)}
		}
		for _, eid := range node.Out {
			e := c.Edge(eid)
			if e == nil {
				return InvariantError{Kind: "DanglingReference", Message: fmt.Sprintf("edge %d is referenced but not registered", eid)}
			}
			if !seen[e.To] {
				seen[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	for id := range c.edges {
		e := c.edges[id]
		if !seen[e.From] {
			return InvariantError{Kind: "UnreachableEdge", Message: fmt.Sprintf("edge %d sourced from unreachable node %d", id, e.From)}
		}
	}
	return nil
}

func checkNode(c *CFG, id NodeID, n *Node) error {
	if id != c.Entry && len(n.In) == 0 {
		return InvariantError{Kind: "MissingIncoming", Message: fmt.Sprintf("node %d is not the entry but has no incoming edge", id)}
	}
	if id != c.Exit && len(n.Out) == 0 {
		return InvariantError{Kind: "MissingOutgoing", Message: fmt.Sprintf("node %d is not the exit but has no outgoing edge", id)}
	}

	switch n.Tag {
	case lang.LOOP:
		backCount, otherCount := 0, 0
		for _, eid := range n.In {
			if c.Edge(eid).Tag == lang.LoopBack {
				backCount++
			} else {
				otherCount++
			}
		}
		if backCount != 1 || otherCount > 1 || (otherCount == 0 && id != c.Entry) {
			return InvariantError{Kind: "LoopArity", Message: fmt.Sprintf("LOOP node %d must have exactly one LOOP_BACK and one other incoming edge, has %d/%d", id, backCount, otherCount)}
		}
		entryCount, seqCount := 0, 0
		for _, eid := range n.Out {
			if c.Edge(eid).Tag == lang.LoopEntry {
				entryCount++
			} else {
				seqCount++
			}
		}
		if entryCount != 1 || seqCount > 1 {
			return InvariantError{Kind: "LoopArity", Message: fmt.Sprintf("LOOP node %d must have exactly one LOOP_ENTRY and at most one other outgoing edge, has %d/%d", id, entryCount, seqCount)}
		}

	case lang.AMB:
		if !n.HasAMBExit {
			return InvariantError{Kind: "MissingAMBExit", Message: fmt.Sprintf("AMB node %d has no paired exit", id)}
		}
		if len(n.Out) != 2 {
			return InvariantError{Kind: "AMBArity", Message: fmt.Sprintf("AMB node %d must have exactly two outgoing AMB_SPLIT edges, has %d", id, len(n.Out))}
		}
		for _, eid := range n.Out {
			if c.Edge(eid).Tag != lang.AmbSplit {
				return InvariantError{Kind: "AMBArity", Message: fmt.Sprintf("AMB node %d's outgoing edges must all be AMB_SPLIT", id)}
			}
		}

	default:
		nonLoopEntry := 0
		for _, eid := range n.Out {
			if c.Edge(eid).Tag != lang.LoopEntry {
				nonLoopEntry++
			}
		}
		if nonLoopEntry > 1 {
			return InvariantError{Kind: "FanOut", Message: fmt.Sprintf("non-AMB node %d has more than one outgoing edge besides LOOP_ENTRY", id)}
		}
	}
	return nil
}

func checkEdgeTagConsistency(c *CFG, e *Edge) error {
	from, to := c.Node(e.From), c.Node(e.To)
	switch e.Tag {
	case lang.LoopBack:
		if to == nil || to.Tag != lang.LOOP {
			return InvariantError{Kind: "TagMismatch", Message: fmt.Sprintf("LOOP_BACK edge %d must terminate at a LOOP node", e.ID)}
		}
	case lang.LoopEntry:
		if from == nil || from.Tag != lang.LOOP {
			return InvariantError{Kind: "TagMismatch", Message: fmt.Sprintf("LOOP_ENTRY edge %d must originate from a LOOP node", e.ID)}
		}
	case lang.AmbSplit:
		if from == nil || from.Tag != lang.AMB {
			return InvariantError{Kind: "TagMismatch", Message: fmt.Sprintf("AMB_SPLIT edge %d must originate from an AMB node", e.ID)}
		}
	case lang.AmbJoin:
		if to == nil {
			return InvariantError{Kind: "TagMismatch", Message: fmt.Sprintf("AMB_JOIN edge %d has no destination", e.ID)}
		}
	}
	return nil
}
