// Package cfg implements the structured control-flow graph of spec.md
// §3.3: an arena of nodes and edges addressed by index (not pointer), per
// the design note in spec.md §9, so that the inherently cyclic CFG (loops
// carry back-edges) never needs owning pointers into a cycle.
package cfg

import "github.com/wlang/wnorm/internal/lang"

// NodeID indexes a Node in a CFG's arena.
type NodeID int

// EdgeID indexes an Edge in a CFG's arena.
type EdgeID int

// Node is a CFG node: an identifier, an optional structural tag, and its
// incident edge sets. The tag is populated only for structural markers
// (LOOP header, AMB split, ASSUME/ASSIGN statement source); "plain"
// join/exit nodes carry the zero Tag.
type Node struct {
	ID  NodeID
	Tag lang.Tag

	// AMBExit is the paired exit node of an AMB-tagged node, set only
	// when Tag == lang.AMB (spec.md §3.3).
	AMBExit    NodeID
	HasAMBExit bool

	In  []EdgeID
	Out []EdgeID
}

// Edge is a CFG edge: endpoints, a payload string (statement text or the
// epsilon marker), and a structural tag.
type Edge struct {
	ID      EdgeID
	From    NodeID
	To      NodeID
	Payload string
	Tag     lang.EdgeTag
}

// Handle names a self-contained sub-CFG already living in a CFG's arena:
// "standalone CFG handles" in spec.md §4.4.2's sense — a pair of node
// references, not a copy. entry == exit is the canonical shape of a LOOP
// sub-CFG (spec.md §3.3).
type Handle struct {
	Entry NodeID
	Exit  NodeID
}

// CFG is the single owning arena for one AST-to-CFG build (or one
// normalization session): every node and edge allocated during that
// session lives here, addressed by NodeID/EdgeID.
type CFG struct {
	Entry NodeID
	Exit  NodeID

	nodes map[NodeID]*Node
	edges map[EdgeID]*Edge

	nextNode NodeID
	nextEdge EdgeID
}

// New returns an empty arena.
func New() *CFG {
	return &CFG{
		nodes: make(map[NodeID]*Node),
		edges: make(map[EdgeID]*Edge),
	}
}

// NewNode allocates a fresh node with the given structural tag (the zero
// Tag for a plain join/exit node).
func (c *CFG) NewNode(tag lang.Tag) NodeID {
	id := c.nextNode
	c.nextNode++
	c.nodes[id] = &Node{ID: id, Tag: tag}
	return id
}

// SetAMBExit records the paired exit node of an AMB-tagged node.
func (c *CFG) SetAMBExit(amb, exit NodeID) {
	n := c.nodes[amb]
	n.AMBExit = exit
	n.HasAMBExit = true
}

// NewEdge allocates a fresh edge and registers it on both endpoints.
func (c *CFG) NewEdge(from, to NodeID, payload string, tag lang.EdgeTag) EdgeID {
	id := c.nextEdge
	c.nextEdge++
	e := &Edge{ID: id, From: from, To: to, Payload: payload, Tag: tag}
	c.edges[id] = e
	c.nodes[from].Out = append(c.nodes[from].Out, id)
	c.nodes[to].In = append(c.nodes[to].In, id)
	return id
}

// Node returns the node for id, or nil if it has been removed.
func (c *CFG) Node(id NodeID) *Node {
	return c.nodes[id]
}

// Edge returns the edge for id, or nil if it has been removed or is
// currently detached.
func (c *CFG) Edge(id EdgeID) *Edge {
	return c.edges[id]
}

// NumBackEdges counts LOOP_BACK edges, the quantity the normalizer driver
// of spec.md §4.4.1 watches for a strict decrease each iteration.
func (c *CFG) NumBackEdges() int {
	n := 0
	for _, e := range c.edges {
		if e.Tag.IsBackEdge() {
			n++
		}
	}
	return n
}

// DetachEdge removes an edge from the arena and both endpoints' edge
// sets, returning it so it can be restored later with ReattachEdge. This
// is the "temporarily detach" operation the converter uses in spec.md
// §4.3 to isolate sub-structures without losing the edge's identity.
func (c *CFG) DetachEdge(id EdgeID) *Edge {
	e := c.edges[id]
	if e == nil {
		return nil
	}
	delete(c.edges, id)
	removeEdgeID(&c.nodes[e.From].Out, id)
	removeEdgeID(&c.nodes[e.To].In, id)
	return e
}

// ReattachEdge restores an edge detached by DetachEdge.
func (c *CFG) ReattachEdge(e *Edge) {
	if e == nil {
		return
	}
	c.edges[e.ID] = e
	c.nodes[e.From].Out = append(c.nodes[e.From].Out, e.ID)
	c.nodes[e.To].In = append(c.nodes[e.To].In, e.ID)
}

// DeleteEdge permanently removes an edge (used by the surgery primitives,
// as opposed to the converter's temporary DetachEdge/ReattachEdge pair).
func (c *CFG) DeleteEdge(id EdgeID) {
	c.DetachEdge(id)
}

// DeleteNode permanently removes a node. Callers must have already
// deleted its incident edges.
func (c *CFG) DeleteNode(id NodeID) {
	delete(c.nodes, id)
}

func removeEdgeID(s *[]EdgeID, id EdgeID) {
	out := (*s)[:0]
	for _, e := range *s {
		if e != id {
			out = append(out, e)
		}
	}
	*s = out
}
