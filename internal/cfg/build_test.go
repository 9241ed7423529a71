package cfg

import (
	"testing"

	"github.com/wlang/wnorm/internal/ast"
)

func buildFrom(t *testing.T, text string) *CFG {
	t.Helper()
	root, err := ast.Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	c, err := Build(root)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return c
}

func TestBuildSingleLoopHasOneBackEdge(t *testing.T) {
	c := buildFrom(t, "LOOP(ASSUME(x == y))")
	if got := c.NumBackEdges(); got != 1 {
		t.Fatalf("expected 1 back edge, got %d", got)
	}
	if err := CheckInvariants(c); err != nil {
		t.Fatalf("CheckInvariants failed: %v", err)
	}
}

func TestBuildSequentialLoopsHaveTwoBackEdges(t *testing.T) {
	c := buildFrom(t, "SEQ(LOOP(ASSUME(x == y)), LOOP(ASSUME(x != y)))")
	if got := c.NumBackEdges(); got != 2 {
		t.Fatalf("expected 2 back edges, got %d", got)
	}
	if err := CheckInvariants(c); err != nil {
		t.Fatalf("CheckInvariants failed: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	texts := []string{
		"ASSIGN(x, TRUE)",
		"SEQ(ASSIGN(x, TRUE), ASSUME(x == x))",
		"LOOP(ASSUME(x == y))",
		"AMB(ASSUME(x == y), ASSUME(x != y))",
		"SEQ(LOOP(ASSUME(x == y)), LOOP(ASSUME(x != y)))",
		"LOOP(LOOP(ASSUME(x == y)))",
		"SEQ(ASSIGN(x, TRUE), AMB(LOOP(ASSUME(x == y)), LOOP(ASSUME(x != y))))",
	}
	for _, text := range texts {
		root, err := ast.Parse(text)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", text, err)
		}
		c, err := Build(root)
		if err != nil {
			t.Fatalf("Build(%q) failed: %v", text, err)
		}
		back, err := ToAST(c)
		if err != nil {
			t.Fatalf("ToAST(%q) failed: %v", text, err)
		}
		if root.String() != back.String() {
			t.Fatalf("round-trip mismatch for %q:\nwant:\n%s\ngot:\n%s", text, root.String(), back.String())
		}
	}
}

func TestBuildDeterministicIDs(t *testing.T) {
	text := "SEQ(ASSIGN(x, TRUE), LOOP(ASSUME(x == y)))"
	root1, _ := ast.Parse(text)
	c1, err := Build(root1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	root2, _ := ast.Parse(text)
	c2, err := Build(root2)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(c1.nodes) != len(c2.nodes) || len(c1.edges) != len(c2.edges) {
		t.Fatalf("expected identical arena sizes across identical builds")
	}
}
