package normalize

import (
	"strings"
	"testing"

	"github.com/wlang/wnorm/internal/ast"
	"github.com/wlang/wnorm/internal/cfg"
	"github.com/wlang/wnorm/internal/lang"
)

func buildFrom(t *testing.T, text string) *cfg.CFG {
	t.Helper()
	root, err := ast.Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", text, err)
	}
	c, err := cfg.Build(root)
	if err != nil {
		t.Fatalf("Build(%q) failed: %v", text, err)
	}
	return c
}

// collectIdents walks an AST collecting every IDENT name mentioned,
// including variables on the left of ASSIGN.
func collectIdents(n *ast.Node, seen map[string]bool) {
	if n == nil {
		return
	}
	if n.Tag == lang.IDENT {
		seen[n.Name] = true
	}
	collectIdents(n.Left, seen)
	collectIdents(n.Right, seen)
}

func TestNormalizeSingleLoopUnchanged(t *testing.T) {
	c := buildFrom(t, "LOOP(ASSUME(x == y))")
	if err := Normalize(c); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got := c.NumBackEdges(); got != 1 {
		t.Fatalf("expected 1 back edge, got %d", got)
	}
	if err := cfg.CheckInvariants(c); err != nil {
		t.Fatalf("CheckInvariants failed: %v", err)
	}
}

func TestNormalizeSequentialLoops(t *testing.T) {
	c := buildFrom(t, "SEQ(LOOP(ASSUME(x == y)), LOOP(ASSUME(x != y)))")
	if err := Normalize(c); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got := c.NumBackEdges(); got > 1 {
		t.Fatalf("expected at most 1 back edge after normalizing, got %d", got)
	}
	if err := cfg.CheckInvariants(c); err != nil {
		t.Fatalf("CheckInvariants failed: %v", err)
	}
}

func TestNormalizeNestedLoops(t *testing.T) {
	c := buildFrom(t, "LOOP(SEQ(ASSIGN(x, TRUE), LOOP(ASSUME(x == y))))")
	if err := Normalize(c); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got := c.NumBackEdges(); got > 1 {
		t.Fatalf("expected at most 1 back edge after normalizing, got %d", got)
	}
	if err := cfg.CheckInvariants(c); err != nil {
		t.Fatalf("CheckInvariants failed: %v", err)
	}
}

func TestNormalizeAlternativeLoops(t *testing.T) {
	c := buildFrom(t, "AMB(LOOP(ASSUME(x == y)), LOOP(ASSUME(x != y)))")
	if err := Normalize(c); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got := c.NumBackEdges(); got > 1 {
		t.Fatalf("expected at most 1 back edge after normalizing, got %d", got)
	}
	if err := cfg.CheckInvariants(c); err != nil {
		t.Fatalf("CheckInvariants failed: %v", err)
	}
}

func TestNormalizeDeeplyMixed(t *testing.T) {
	c := buildFrom(t, "SEQ(LOOP(ASSUME(a == b)), SEQ(AMB(LOOP(ASSUME(c == d)), LOOP(ASSUME(c != d))), LOOP(ASSIGN(e, FALSE))))")
	if err := Normalize(c); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got := c.NumBackEdges(); got > 1 {
		t.Fatalf("expected at most 1 back edge after normalizing, got %d", got)
	}
	if err := cfg.CheckInvariants(c); err != nil {
		t.Fatalf("CheckInvariants failed: %v", err)
	}
}

// TestNormalizeSequentialLoopsNestedInEnclosingLoop covers a
// sequential-loops trigger found one level inside an enclosing LOOP's
// body (the findSequentialInUnits recursive-search branch), where the
// matched segment's own entry/exit are themselves LOOP headers whose
// LOOP_ENTRY/LOOP_BACK edges actually belong to the *enclosing* loop. A
// boundary-splice that drops or mistags those edges leaves the enclosing
// LOOP node without its required LOOP_ENTRY/LOOP_BACK pair, which
// CheckInvariants (run immediately after every rewrite) must reject.
func TestNormalizeSequentialLoopsNestedInEnclosingLoop(t *testing.T) {
	c := buildFrom(t, "LOOP(SEQ(LOOP(ASSIGN(x, TRUE)), LOOP(ASSIGN(y, FALSE))))")
	if err := Normalize(c); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got := c.NumBackEdges(); got > 1 {
		t.Fatalf("expected at most 1 back edge after normalizing, got %d", got)
	}
	if err := cfg.CheckInvariants(c); err != nil {
		t.Fatalf("CheckInvariants failed: %v", err)
	}
}

// TestNormalizeAlternativeLoopsNestedInEnclosingLoop covers an
// alternative-loops trigger (an AMB whose branches are each a LOOP) found
// one level inside an enclosing LOOP's body via bodySegment, where the
// matched segment's entry/exit are plain nodes but their captured
// boundary edges are the enclosing loop's own LOOP_ENTRY/LOOP_BACK edges.
func TestNormalizeAlternativeLoopsNestedInEnclosingLoop(t *testing.T) {
	c := buildFrom(t, "LOOP(SEQ(ASSIGN(z, TRUE), AMB(LOOP(ASSIGN(x, TRUE)), LOOP(ASSIGN(y, FALSE)))))")
	if err := Normalize(c); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got := c.NumBackEdges(); got > 1 {
		t.Fatalf("expected at most 1 back edge after normalizing, got %d", got)
	}
	if err := cfg.CheckInvariants(c); err != nil {
		t.Fatalf("CheckInvariants failed: %v", err)
	}
}

// TestNormalizeTwoPassesReachesDeeperScaffolding runs the normalizer on a
// program whose first fixpoint iteration only partially reduces the
// back-edge count (an alternative-loops rewrite nested inside a
// surrounding loop, per the case above), forcing a second driver
// iteration to find and rewrite a trigger sitting inside the flag
// scaffolding synthesized by the first rewrite.
func TestNormalizeTwoPassesReachesDeeperScaffolding(t *testing.T) {
	c := buildFrom(t, "LOOP(SEQ(ASSIGN(z, TRUE), AMB(LOOP(SEQ(ASSIGN(x, TRUE), LOOP(ASSUME(x == x)))), LOOP(ASSIGN(y, FALSE)))))")
	if err := Normalize(c); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got := c.NumBackEdges(); got > 1 {
		t.Fatalf("expected at most 1 back edge after normalizing, got %d", got)
	}
	if err := cfg.CheckInvariants(c); err != nil {
		t.Fatalf("CheckInvariants failed: %v", err)
	}
}

func TestNormalizeAtomPreservation(t *testing.T) {
	text := "SEQ(LOOP(ASSUME(x == y)), LOOP(ASSUME(x != y)))"
	root, err := ast.Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	before := map[string]bool{}
	collectIdents(root, before)

	c, err := cfg.Build(root)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := Normalize(c); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	result, err := cfg.ToAST(c)
	if err != nil {
		t.Fatalf("ToAST failed: %v", err)
	}
	after := map[string]bool{}
	collectIdents(result, after)

	for name := range before {
		if !after[name] {
			t.Fatalf("variable %q from the original program is missing after normalization", name)
		}
	}
	for name := range after {
		if before[name] {
			continue
		}
		if !strings.HasPrefix(name, "__nflag_") {
			t.Fatalf("unexpected new variable %q: only fresh flag names should be introduced", name)
		}
	}
}

func TestNormalizeFreshFlagsAreDistinct(t *testing.T) {
	c := buildFrom(t, "SEQ(LOOP(ASSUME(a == b)), SEQ(LOOP(ASSUME(c == d)), LOOP(ASSUME(e == f))))")
	if err := Normalize(c); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	root, err := cfg.ToAST(c)
	if err != nil {
		t.Fatalf("ToAST failed: %v", err)
	}
	seen := map[string]bool{}
	collectIdents(root, seen)
	flags := 0
	for name := range seen {
		if strings.HasPrefix(name, "__nflag_") {
			flags++
		}
	}
	if flags < 2 {
		t.Fatalf("expected at least 2 distinct fresh flags across two merges, got %d", flags)
	}
}
