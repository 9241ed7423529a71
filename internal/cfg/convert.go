package cfg

import (
	"fmt"

	"github.com/wlang/wnorm/internal/ast"
	"github.com/wlang/wnorm/internal/lang"
)

// ToAST walks the CFG forward from entry and produces the equivalent AST,
// per spec.md §4.3. It uses a fresh ast.Builder so the resulting tree's
// node identifiers are deterministic (spec.md §3.2).
func ToAST(c *CFG) (*ast.Node, error) {
	b := ast.NewBuilder()
	return toASTNode(c, b, c.Entry)
}

func toASTNode(c *CFG, b *ast.Builder, n NodeID) (*ast.Node, error) {
	node := c.Node(n)

	switch node.Tag {
	case lang.ASSIGN:
		eid, ok := singleOutEdge(node)
		if !ok {
			return nil, InvariantError{Kind: "ArityMismatch", Message: fmt.Sprintf("ASSIGN node %d lacks a single outgoing edge", n)}
		}
		variable, rhs, err := parseAssignPayload(b, c.Edge(eid).Payload)
		if err != nil {
			return nil, err
		}
		stmt, err := b.Assign(variable, rhs)
		if err != nil {
			return nil, err
		}
		return chainSeq(c, b, n, stmt)

	case lang.ASSUME:
		eid, ok := singleOutEdge(node)
		if !ok {
			return nil, InvariantError{Kind: "ArityMismatch", Message: fmt.Sprintf("ASSUME node %d lacks a single outgoing edge", n)}
		}
		expr, err := parseAssumePayload(b, c.Edge(eid).Payload)
		if err != nil {
			return nil, err
		}
		stmt, err := b.Assume(expr)
		if err != nil {
			return nil, err
		}
		return chainSeq(c, b, n, stmt)

	case lang.AMB:
		if !node.HasAMBExit {
			return nil, InvariantError{Kind: "MissingAMBExit", Message: fmt.Sprintf("AMB node %d has no paired exit", n)}
		}
		if len(node.Out) != 2 {
			return nil, InvariantError{Kind: "ArityMismatch", Message: fmt.Sprintf("AMB node %d does not have exactly two AMB_SPLIT edges", n)}
		}
		exitNode := c.Node(node.AMBExit)
		joinEdges := append([]EdgeID{}, exitNode.In...)
		detached := make([]*Edge, len(joinEdges))
		for i, eid := range joinEdges {
			detached[i] = c.DetachEdge(eid)
		}
		restore := func() {
			for _, e := range detached {
				c.ReattachEdge(e)
			}
		}

		leftEntry := c.Edge(node.Out[0]).To
		rightEntry := c.Edge(node.Out[1]).To

		left, err := toASTNode(c, b, leftEntry)
		if err != nil {
			restore()
			return nil, err
		}
		right, err := toASTNode(c, b, rightEntry)
		if err != nil {
			restore()
			return nil, err
		}
		restore()

		stmt, err := b.Amb(left, right)
		if err != nil {
			return nil, err
		}
		return chainSeq(c, b, n, stmt)

	case lang.LOOP:
		var backEdgeID EdgeID
		found := false
		for _, eid := range node.In {
			if c.Edge(eid).Tag == lang.LoopBack {
				backEdgeID = eid
				found = true
				break
			}
		}
		if !found {
			return nil, InvariantError{Kind: "MissingBackEdge", Message: fmt.Sprintf("LOOP node %d has no LOOP_BACK edge", n)}
		}
		backEdge := c.DetachEdge(backEdgeID)

		var bodyEntry NodeID
		foundEntry := false
		for _, eid := range node.Out {
			if c.Edge(eid).Tag == lang.LoopEntry {
				bodyEntry = c.Edge(eid).To
				foundEntry = true
				break
			}
		}
		if !foundEntry {
			c.ReattachEdge(backEdge)
			return nil, InvariantError{Kind: "MissingLoopEntry", Message: fmt.Sprintf("LOOP node %d has no LOOP_ENTRY edge", n)}
		}

		body, err := toASTNode(c, b, bodyEntry)
		c.ReattachEdge(backEdge)
		if err != nil {
			return nil, err
		}

		stmt, err := b.Loop(body)
		if err != nil {
			return nil, err
		}
		return chainSeq(c, b, n, stmt)

	default:
		return nil, InvariantError{Kind: "UnexpectedNode", Message: fmt.Sprintf("node %d (untagged) is not a structural unit", n)}
	}
}

// chainSeq implements "chain with the SEQ successor" (spec.md §4.3.1): if
// a successor exists, wrap (current, next) as SEQ; otherwise return
// current unchanged.
func chainSeq(c *CFG, b *ast.Builder, n NodeID, current *ast.Node) (*ast.Node, error) {
	next, ok := NextSeq(c, n)
	if !ok {
		return current, nil
	}
	nextStmt, err := toASTNode(c, b, next)
	if err != nil {
		return nil, err
	}
	return b.Seq(current, nextStmt)
}

func singleOutEdge(n *Node) (EdgeID, bool) {
	if len(n.Out) != 1 {
		return 0, false
	}
	return n.Out[0], true
}
