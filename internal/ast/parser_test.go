package ast

import (
	"testing"

	"github.com/wlang/wnorm/internal/lang"
)

func TestParseAssign(t *testing.T) {
	n, err := Parse("ASSIGN(x, TRUE)")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if n.Tag != lang.ASSIGN {
		t.Fatalf("expected ASSIGN, got %v", n.Tag)
	}
	if n.Left.Tag != lang.IDENT || n.Left.Name != "x" {
		t.Fatalf("expected variable IDENT(x), got %+v", n.Left)
	}
	if n.Right.Tag != lang.TRUE {
		t.Fatalf("expected rhs TRUE, got %v", n.Right.Tag)
	}
}

func TestParseSeqLoop(t *testing.T) {
	n, err := Parse("SEQ(ASSIGN(x, FALSE), LOOP(ASSUME(x == y)))")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if n.Tag != lang.SEQ {
		t.Fatalf("expected SEQ, got %v", n.Tag)
	}
	if n.Right.Tag != lang.LOOP {
		t.Fatalf("expected LOOP, got %v", n.Right.Tag)
	}
	assume := n.Right.Left
	if assume.Tag != lang.ASSUME {
		t.Fatalf("expected ASSUME, got %v", assume.Tag)
	}
	if assume.Left.Tag != lang.EQ {
		t.Fatalf("expected ==, got %v", assume.Left.Tag)
	}
}

func TestParseAmbAndNot(t *testing.T) {
	n, err := Parse("AMB(ASSUME(NOT(p)), ASSUME(p))")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if n.Tag != lang.AMB {
		t.Fatalf("expected AMB, got %v", n.Tag)
	}
	if n.Left.Left.Tag != lang.NOT {
		t.Fatalf("expected NOT, got %v", n.Left.Left.Tag)
	}
}

func TestParseWhitespaceIgnored(t *testing.T) {
	a, err := Parse("SEQ(ASSIGN(x,TRUE),ASSUME(x==x))")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	b, err := Parse(`
		SEQ( ASSIGN(x, TRUE),
		     ASSUME(x == x) )
	`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if a.String() != b.String() {
		t.Fatalf("whitespace should not affect the parse: %q vs %q", a.String(), b.String())
	}
}

func TestParseDeterministicIDs(t *testing.T) {
	text := "SEQ(ASSIGN(x, TRUE), LOOP(ASSUME(x == x)))"
	a, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	b, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if a.String() != b.String() {
		t.Fatalf("two parses of the same text should assign identical IDs")
	}
}

func TestParseRejectsUnknownHead(t *testing.T) {
	_, err := Parse("FROB(x, y)")
	if err == nil {
		t.Fatal("expected a parse error for an unknown head")
	}
}

func TestParseRejectsMissingBracket(t *testing.T) {
	_, err := Parse("SEQ(ASSIGN(x, TRUE), ASSUME(x == x)")
	if err == nil {
		t.Fatal("expected a parse error for a missing closing bracket")
	}
}
