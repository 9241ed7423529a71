package cfg

import (
	"fmt"

	"github.com/wlang/wnorm/internal/ast"
	"github.com/wlang/wnorm/internal/lang"
)

// Build translates an AST into a CFG, per spec.md §4.2.
func Build(root *ast.Node) (*CFG, error) {
	c := New()
	h, err := buildNode(c, root)
	if err != nil {
		return nil, err
	}
	c.Entry = h.Entry
	c.Exit = h.Exit
	return c, nil
}

func buildNode(c *CFG, n *ast.Node) (Handle, error) {
	if n == nil {
		return Handle{}, BuildError{Kind: "ArityMismatch", Message: "nil statement"}
	}

	switch n.Tag {
	case lang.ASSIGN:
		payload, err := renderAssignPayload(n.Left, n.Right)
		if err != nil {
			return Handle{}, err
		}
		s := c.NewNode(lang.ASSIGN)
		t := c.NewNode(lang.Untagged)
		c.NewEdge(s, t, payload, lang.Untagged)
		return Handle{s, t}, nil

	case lang.ASSUME:
		payload, err := renderAssumePayload(n.Left)
		if err != nil {
			return Handle{}, err
		}
		s := c.NewNode(lang.ASSUME)
		t := c.NewNode(lang.Untagged)
		c.NewEdge(s, t, payload, lang.Untagged)
		return Handle{s, t}, nil

	case lang.SEQ:
		pre, err := buildNode(c, n.Left)
		if err != nil {
			return Handle{}, err
		}
		post, err := buildNode(c, n.Right)
		if err != nil {
			return Handle{}, err
		}
		c.NewEdge(pre.Exit, post.Entry, lang.Epsilon, lang.SeqTrans)
		return Handle{pre.Entry, post.Exit}, nil

	case lang.AMB:
		lcfg, err := buildNode(c, n.Left)
		if err != nil {
			return Handle{}, err
		}
		rcfg, err := buildNode(c, n.Right)
		if err != nil {
			return Handle{}, err
		}
		return MakeAMB(c, lcfg, rcfg), nil

	case lang.LOOP:
		header := c.NewNode(lang.LOOP)
		bcfg, err := buildNode(c, n.Left)
		if err != nil {
			return Handle{}, err
		}
		c.NewEdge(header, bcfg.Entry, lang.Epsilon, lang.LoopEntry)
		c.NewEdge(bcfg.Exit, header, lang.Epsilon, lang.LoopBack)
		return Handle{header, header}, nil

	default:
		return Handle{}, BuildError{Kind: "UnknownHead", Message: fmt.Sprintf("unrecognized statement tag %q", n.Tag)}
	}
}
