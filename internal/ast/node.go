// Package ast implements the While-language abstract syntax tree of
// spec.md §3.2: a binary tree of tagged nodes with deterministic,
// per-build identifiers, plus the surface-grammar parser of §4.1.
package ast

import (
	"fmt"
	"strings"

	"github.com/wlang/wnorm/internal/lang"
)

// Node is a statement or expression node. Which fields are meaningful
// depends on Tag, matching the arity table of spec.md §3.2:
//
//	SEQ, AMB      Left, Right are statements
//	LOOP          Left is the body statement, Right unused
//	ASSUME        Left is an expression, Right unused
//	ASSIGN        Left is the variable (an IDENT expression), Right is the RHS expression
//	TRUE, FALSE   no children
//	NOT           Left is an expression, Right unused
//	IDENT         Name holds the identifier/literal text
//	==,!=,<,<=,>,>= (relations)  Left, Right are expression operands
type Node struct {
	ID          int
	Tag         lang.Tag
	Left, Right *Node
	Name        string
}

// IsExpr reports whether n is an expression node rather than a statement.
func (n *Node) IsExpr() bool {
	switch n.Tag {
	case lang.TRUE, lang.FALSE, lang.NOT, lang.IDENT:
		return true
	default:
		return n.Tag.IsRelation()
	}
}

// Builder assigns monotonically increasing node identifiers, reset at the
// start of each AST build (spec.md §3.2) so that results are deterministic.
// Encapsulating the counter in a value, rather than a package-level
// global, is the "per-transformation context" design note of spec.md §9.
type Builder struct {
	next int
}

// NewBuilder returns a Builder whose counter starts at zero.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) alloc() int {
	id := b.next
	b.next++
	return id
}

// Seq builds a SEQ(left, right) statement node.
func (b *Builder) Seq(left, right *Node) (*Node, error) {
	if err := requireStatement("SEQ", "left", left); err != nil {
		return nil, err
	}
	if err := requireStatement("SEQ", "right", right); err != nil {
		return nil, err
	}
	return &Node{ID: b.alloc(), Tag: lang.SEQ, Left: left, Right: right}, nil
}

// Amb builds an AMB(left, right) statement node.
func (b *Builder) Amb(left, right *Node) (*Node, error) {
	if err := requireStatement("AMB", "left", left); err != nil {
		return nil, err
	}
	if err := requireStatement("AMB", "right", right); err != nil {
		return nil, err
	}
	return &Node{ID: b.alloc(), Tag: lang.AMB, Left: left, Right: right}, nil
}

// Loop builds a LOOP(body) statement node.
func (b *Builder) Loop(body *Node) (*Node, error) {
	if err := requireStatement("LOOP", "body", body); err != nil {
		return nil, err
	}
	return &Node{ID: b.alloc(), Tag: lang.LOOP, Left: body}, nil
}

// Assume builds an ASSUME(expr) statement node.
func (b *Builder) Assume(expr *Node) (*Node, error) {
	if err := requireExpr("ASSUME", "expr", expr); err != nil {
		return nil, err
	}
	return &Node{ID: b.alloc(), Tag: lang.ASSUME, Left: expr}, nil
}

// Assign builds an ASSIGN(variable, rhs) statement node. variable must be
// an IDENT expression node (spec.md §3.2: "ASSIGN | expression (variable)").
func (b *Builder) Assign(variable, rhs *Node) (*Node, error) {
	if variable == nil || variable.Tag != lang.IDENT {
		return nil, ParseError{Kind: "ArityMismatch", Message: "ASSIGN requires an identifier on the left"}
	}
	if err := requireExpr("ASSIGN", "rhs", rhs); err != nil {
		return nil, err
	}
	return &Node{ID: b.alloc(), Tag: lang.ASSIGN, Left: variable, Right: rhs}, nil
}

// Ident builds an identifier/literal leaf expression node.
func (b *Builder) Ident(name string) *Node {
	return &Node{ID: b.alloc(), Tag: lang.IDENT, Name: name}
}

// Bool builds a TRUE or FALSE leaf expression node.
func (b *Builder) Bool(value bool) *Node {
	tag := lang.FALSE
	if value {
		tag = lang.TRUE
	}
	return &Node{ID: b.alloc(), Tag: tag}
}

// Not builds a NOT(expr) expression node.
func (b *Builder) Not(expr *Node) (*Node, error) {
	if err := requireExpr("NOT", "expr", expr); err != nil {
		return nil, err
	}
	return &Node{ID: b.alloc(), Tag: lang.NOT, Left: expr}, nil
}

// Binary builds an `op`-tagged binary relation expression node.
func (b *Builder) Binary(op lang.Tag, left, right *Node) (*Node, error) {
	if !op.IsRelation() {
		return nil, ParseError{Kind: "UnknownHead", Message: fmt.Sprintf("%q is not a relation operator", op)}
	}
	if err := requireExpr(string(op), "left", left); err != nil {
		return nil, err
	}
	if err := requireExpr(string(op), "right", right); err != nil {
		return nil, err
	}
	return &Node{ID: b.alloc(), Tag: op, Left: left, Right: right}, nil
}

func requireStatement(head, slot string, n *Node) error {
	if n == nil || !n.Tag.IsStatement() {
		return ParseError{Kind: "ArityMismatch", Message: fmt.Sprintf("%s: %s must be a statement", head, slot)}
	}
	return nil
}

func requireExpr(head, slot string, n *Node) error {
	if n == nil || !n.IsExpr() {
		return ParseError{Kind: "ArityMismatch", Message: fmt.Sprintf("%s: %s must be an expression", head, slot)}
	}
	return nil
}

// String renders an indented tree dump, grounded on the original source's
// ast.py __str__. It is a debugging aid, not part of the public AST/CFG
// boundary.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b, 0)
	return b.String()
}

func (n *Node) write(b *strings.Builder, depth int) {
	if n == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	switch n.Tag {
	case lang.IDENT:
		fmt.Fprintf(b, "IDENT(%s)\n", n.Name)
		return
	case lang.TRUE, lang.FALSE:
		fmt.Fprintf(b, "%s\n", n.Tag)
		return
	}
	fmt.Fprintf(b, "%s#%d\n", n.Tag, n.ID)
	n.Left.write(b, depth+1)
	n.Right.write(b, depth+1)
}
