package cfg

import "github.com/wlang/wnorm/internal/lang"

// Connect inserts an ε-edge tagged SEQ_TRANS from a to b (spec.md §4.5).
func Connect(c *CFG, a, b NodeID) EdgeID {
	return c.NewEdge(a, b, lang.Epsilon, lang.SeqTrans)
}

// Chain concatenates two CFG handles into one (spec.md §4.5).
func Chain(c *CFG, l, r Handle) Handle {
	Connect(c, l.Exit, r.Entry)
	return Handle{l.Entry, r.Exit}
}

// ChainAll concatenates a sequence of optional handles, skipping nil
// entries. This realizes the "omit the scaffolding block rather than wrap
// an empty CFG" edge case of spec.md §4.4.6 uniformly across all three
// rewrites: a nil handle contributes nothing to the chain. At least one
// handle must be non-nil.
func ChainAll(c *CFG, handles ...*Handle) Handle {
	var result *Handle
	for _, h := range handles {
		if h == nil {
			continue
		}
		if result == nil {
			cp := *h
			result = &cp
			continue
		}
		*result = Chain(c, *result, *h)
	}
	return *result
}

// MakeAMB builds a fresh AMB split/exit pair around two branch handles
// (spec.md §4.2, §4.5): a fresh exit node, then a fresh entry node tagged
// AMB, two AMB_SPLIT edges from entry, two AMB_JOIN edges into exit.
func MakeAMB(c *CFG, l, r Handle) Handle {
	exit := c.NewNode(lang.Untagged)
	entry := c.NewNode(lang.AMB)
	c.SetAMBExit(entry, exit)
	c.NewEdge(entry, l.Entry, lang.Epsilon, lang.AmbSplit)
	c.NewEdge(entry, r.Entry, lang.Epsilon, lang.AmbSplit)
	c.NewEdge(l.Exit, exit, lang.Epsilon, lang.AmbJoin)
	c.NewEdge(r.Exit, exit, lang.Epsilon, lang.AmbJoin)
	return Handle{entry, exit}
}

// MakeLoop builds a fresh LOOP node with LOOP_ENTRY/LOOP_BACK edges
// around a body handle (spec.md §4.2, §4.5).
func MakeLoop(c *CFG, body Handle) Handle {
	header := c.NewNode(lang.LOOP)
	c.NewEdge(header, body.Entry, lang.Epsilon, lang.LoopEntry)
	c.NewEdge(body.Exit, header, lang.Epsilon, lang.LoopBack)
	return Handle{header, header}
}

// FlagForm selects whether MakeFlag builds an assignment or a guard.
type FlagForm int

const (
	FlagAssign FlagForm = iota
	FlagAssume
)

// MakeFlag builds a two-node CFG carrying either ASSIGN("name = val") or
// ASSUME("name == val") (spec.md §4.5).
func MakeFlag(c *CFG, name string, form FlagForm, value bool) Handle {
	val := "FALSE"
	if value {
		val = "TRUE"
	}
	switch form {
	case FlagAssign:
		s := c.NewNode(lang.ASSIGN)
		t := c.NewNode(lang.Untagged)
		c.NewEdge(s, t, name+" = "+val, lang.Untagged)
		return Handle{s, t}
	default:
		s := c.NewNode(lang.ASSUME)
		t := c.NewNode(lang.Untagged)
		c.NewEdge(s, t, name+" == "+val, lang.Untagged)
		return Handle{s, t}
	}
}

// NukeLoop deletes the (up to four) edges incident to a LOOP node and
// deregisters the node itself (spec.md §4.5).
func NukeLoop(c *CFG, header NodeID) {
	n := c.Node(header)
	ids := append(append([]EdgeID{}, n.In...), n.Out...)
	for _, id := range ids {
		c.DeleteEdge(id)
	}
	c.DeleteNode(header)
}

// NukeAMB deletes every edge incident to an AMB split/exit pair (the
// AMB_SPLIT and AMB_JOIN edges, plus any edge into the split or out of the
// exit) and deregisters both nodes (spec.md §4.5).
func NukeAMB(c *CFG, entry NodeID) {
	n := c.Node(entry)
	exit := c.Node(n.AMBExit)
	ids := append(append(append(append([]EdgeID{}, n.In...), n.Out...), exit.In...), exit.Out...)
	for _, id := range ids {
		c.DeleteEdge(id)
	}
	c.DeleteNode(entry)
	c.DeleteNode(n.AMBExit)
}

// DeepCopy produces a fresh isomorphic sub-CFG with new node identifiers
// and edges, remapping endpoints via a translation table built by a BFS
// from h.Entry (spec.md §4.5, §9). At h.Exit it follows only a LOOP
// exit's own LOOP_ENTRY edge (so a trailing loop's body is copied too) and
// never walks past the sub-CFG's boundary, and it updates the AMB-exit
// back-reference of any translated AMB nodes.
func DeepCopy(c *CFG, h Handle) Handle {
	trans := map[NodeID]NodeID{}
	trans[h.Entry] = c.NewNode(c.Node(h.Entry).Tag)

	queue := []NodeID{h.Entry}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, eid := range c.Node(cur).Out {
			e := c.Edge(eid)
			if cur == h.Exit && e.Tag != lang.LoopEntry {
				continue
			}
			if _, ok := trans[e.To]; !ok {
				trans[e.To] = c.NewNode(c.Node(e.To).Tag)
				queue = append(queue, e.To)
			}
		}
	}

	for oldID, newID := range trans {
		for _, eid := range c.Node(oldID).Out {
			e := c.Edge(eid)
			if newTo, ok := trans[e.To]; ok {
				c.NewEdge(newID, newTo, e.Payload, e.Tag)
			}
		}
	}

	for oldID, newID := range trans {
		old := c.Node(oldID)
		if old.HasAMBExit {
			if newExit, ok := trans[old.AMBExit]; ok {
				c.SetAMBExit(newID, newExit)
			}
		}
	}

	return Handle{trans[h.Entry], trans[h.Exit]}
}
