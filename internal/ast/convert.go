package ast

import (
	"fmt"

	"github.com/wlang/wnorm/internal/lang"
)

func convertGrammar(b *Builder, g *grammar) (*Node, error) {
	if g == nil || g.Stmt == nil {
		return nil, ParseError{Kind: "InvalidSyntax", Message: "empty input"}
	}
	return convertStmt(b, g.Stmt)
}

func convertStmt(b *Builder, s *stmtAST) (*Node, error) {
	switch {
	case s.Seq != nil:
		left, err := convertStmt(b, s.Seq.Left)
		if err != nil {
			return nil, err
		}
		right, err := convertStmt(b, s.Seq.Right)
		if err != nil {
			return nil, err
		}
		return b.Seq(left, right)

	case s.Amb != nil:
		left, err := convertStmt(b, s.Amb.Left)
		if err != nil {
			return nil, err
		}
		right, err := convertStmt(b, s.Amb.Right)
		if err != nil {
			return nil, err
		}
		return b.Amb(left, right)

	case s.Loop != nil:
		body, err := convertStmt(b, s.Loop.Body)
		if err != nil {
			return nil, err
		}
		return b.Loop(body)

	case s.Assume != nil:
		expr, err := convertExpr(b, s.Assume.Expr)
		if err != nil {
			return nil, err
		}
		return b.Assume(expr)

	case s.Assign != nil:
		variable, err := convertExpr(b, s.Assign.Variable)
		if err != nil {
			return nil, err
		}
		rhs, err := convertExpr(b, s.Assign.RHS)
		if err != nil {
			return nil, err
		}
		return b.Assign(variable, rhs)

	default:
		return nil, ParseError{Kind: "UnknownHead", Message: "statement has no recognized head"}
	}
}

func convertExpr(b *Builder, e *exprAST) (*Node, error) {
	left, err := convertAtom(b, e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op == nil {
		return left, nil
	}
	right, err := convertAtom(b, e.Right)
	if err != nil {
		return nil, err
	}
	op, ok := relationTag(*e.Op)
	if !ok {
		return nil, ParseError{Kind: "UnknownHead", Message: fmt.Sprintf("unknown relation operator %q", *e.Op)}
	}
	return b.Binary(op, left, right)
}

func convertAtom(b *Builder, a *atomAST) (*Node, error) {
	switch {
	case a.True:
		return b.Bool(true), nil
	case a.False:
		return b.Bool(false), nil
	case a.Not != nil:
		inner, err := convertExpr(b, a.Not)
		if err != nil {
			return nil, err
		}
		return b.Not(inner)
	case a.Ident != nil:
		return b.Ident(*a.Ident), nil
	default:
		return nil, ParseError{Kind: "UnknownHead", Message: "expression has no recognized head"}
	}
}

func relationTag(op string) (lang.Tag, bool) {
	switch op {
	case "==":
		return lang.EQ, true
	case "!=":
		return lang.NE, true
	case "<":
		return lang.LT, true
	case "<=":
		return lang.LE, true
	case ">":
		return lang.GT, true
	case ">=":
		return lang.GE, true
	default:
		return "", false
	}
}
