package cfg

import (
	"testing"

	"github.com/wlang/wnorm/internal/lang"
)

func TestChainAllSkipsNilHandles(t *testing.T) {
	c := New()
	s := c.NewNode(lang.ASSIGN)
	tNode := c.NewNode(lang.Untagged)
	c.NewEdge(s, tNode, "x = TRUE", lang.Untagged)
	h := Handle{s, tNode}

	full := ChainAll(c, nil, &h, nil)
	if full.Entry != h.Entry || full.Exit != h.Exit {
		t.Fatalf("ChainAll with surrounding nils should return h unchanged, got %+v", full)
	}
}

func TestMakeAMBInvariants(t *testing.T) {
	c := New()
	s1 := c.NewNode(lang.ASSUME)
	t1 := c.NewNode(lang.Untagged)
	c.NewEdge(s1, t1, "x == y", lang.Untagged)
	s2 := c.NewNode(lang.ASSUME)
	t2 := c.NewNode(lang.Untagged)
	c.NewEdge(s2, t2, "x != y", lang.Untagged)

	h := MakeAMB(c, Handle{s1, t1}, Handle{s2, t2})
	c.Entry = h.Entry
	c.Exit = h.Exit

	if err := CheckInvariants(c); err != nil {
		t.Fatalf("CheckInvariants failed: %v", err)
	}
	if c.NumBackEdges() != 0 {
		t.Fatalf("expected no back edges in a plain AMB")
	}
}

func TestNukeLoopRemovesBackEdge(t *testing.T) {
	c := New()
	s := c.NewNode(lang.ASSUME)
	tNode := c.NewNode(lang.Untagged)
	c.NewEdge(s, tNode, "x == y", lang.Untagged)
	loop := MakeLoop(c, Handle{s, tNode})
	c.Entry, c.Exit = loop.Entry, loop.Exit

	if c.NumBackEdges() != 1 {
		t.Fatalf("expected 1 back edge before nuking")
	}
	NukeLoop(c, loop.Entry)
	if c.NumBackEdges() != 0 {
		t.Fatalf("expected 0 back edges after nuking")
	}
}

func TestDeepCopyProducesFreshIdentifiers(t *testing.T) {
	c := New()
	s := c.NewNode(lang.ASSIGN)
	tNode := c.NewNode(lang.Untagged)
	c.NewEdge(s, tNode, "x = TRUE", lang.Untagged)
	h := Handle{s, tNode}

	copyH := DeepCopy(c, h)
	if copyH.Entry == h.Entry || copyH.Exit == h.Exit {
		t.Fatalf("DeepCopy should allocate fresh node identifiers")
	}
	if c.Node(copyH.Entry).Tag != lang.ASSIGN {
		t.Fatalf("DeepCopy should preserve node tags")
	}
}
