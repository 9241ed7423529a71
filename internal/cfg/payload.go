package cfg

import (
	"fmt"
	"strings"

	"github.com/wlang/wnorm/internal/ast"
	"github.com/wlang/wnorm/internal/lang"
)

// renderAtomic renders a TRUE/FALSE/IDENT leaf expression, the only kind
// of operand the shallow statement-level grammar allows (spec.md §3.1).
func renderAtomic(n *ast.Node) (string, error) {
	switch n.Tag {
	case lang.TRUE:
		return "TRUE", nil
	case lang.FALSE:
		return "FALSE", nil
	case lang.IDENT:
		return n.Name, nil
	default:
		return "", BuildError{Kind: "NonFlatExpression", Message: fmt.Sprintf("expected an atom, found %v", n.Tag)}
	}
}

// renderBare renders an expression with none of the ASSIGN-specific
// wrapping parens §6.1 adds around a binary relation.
func renderBare(n *ast.Node) (string, error) {
	switch {
	case n.Tag == lang.NOT:
		inner, err := renderBare(n.Left)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("NOT(%s)", inner), nil
	case n.Tag.IsRelation():
		left, err := renderAtomic(n.Left)
		if err != nil {
			return "", err
		}
		right, err := renderAtomic(n.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", left, n.Tag, right), nil
	default:
		return renderAtomic(n)
	}
}

// renderAssumePayload implements the ASSUME row of spec.md §6.1's
// canonical-payload table.
func renderAssumePayload(expr *ast.Node) (string, error) {
	return renderBare(expr)
}

// renderAssignPayload implements the ASSIGN rows of spec.md §6.1's
// canonical-payload table: a binary relation on the right-hand side gets
// wrapped in parens, atoms and NOT do not.
func renderAssignPayload(variable, rhs *ast.Node) (string, error) {
	v, err := renderAtomic(variable)
	if err != nil {
		return "", err
	}
	var rhsText string
	if rhs.Tag.IsRelation() {
		bare, err := renderBare(rhs)
		if err != nil {
			return "", err
		}
		rhsText = fmt.Sprintf("(%s)", bare)
	} else {
		rhsText, err = renderBare(rhs)
		if err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%s = %s", v, rhsText), nil
}

// parseExprBare is the inverse of renderBare.
func parseExprBare(b *ast.Builder, s string) (*ast.Node, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "TRUE":
		return b.Bool(true), nil
	case "FALSE":
		return b.Bool(false), nil
	}
	if strings.HasPrefix(s, "NOT(") && strings.HasSuffix(s, ")") {
		inner, err := parseExprBare(b, s[len("NOT(") : len(s)-1])
		if err != nil {
			return nil, err
		}
		return b.Not(inner)
	}
	if left, op, right, ok := splitRelation(s); ok {
		tag, ok := relationByText(op)
		if !ok {
			return nil, ast.ParseError{Kind: "UnknownHead", Message: fmt.Sprintf("unknown relation operator %q", op)}
		}
		l, err := parseExprBare(b, left)
		if err != nil {
			return nil, err
		}
		r, err := parseExprBare(b, right)
		if err != nil {
			return nil, err
		}
		return b.Binary(tag, l, r)
	}
	if s == "" {
		return nil, ast.ParseError{Kind: "MalformedInput", Message: "empty expression payload"}
	}
	return b.Ident(s), nil
}

// parseAssumePayload is the inverse of renderAssumePayload.
func parseAssumePayload(b *ast.Builder, s string) (*ast.Node, error) {
	return parseExprBare(b, s)
}

// parseAssignPayload is the inverse of renderAssignPayload.
func parseAssignPayload(b *ast.Builder, s string) (variable, rhs *ast.Node, err error) {
	idx := strings.Index(s, " = ")
	if idx < 0 {
		return nil, nil, ast.ParseError{Kind: "MalformedInput", Message: fmt.Sprintf("malformed ASSIGN payload %q", s)}
	}
	v := strings.TrimSpace(s[:idx])
	rhsText := strings.TrimSpace(s[idx+len(" = "):])
	if strings.HasPrefix(rhsText, "(") && strings.HasSuffix(rhsText, ")") {
		rhsText = rhsText[1 : len(rhsText)-1]
	}
	rhs, err = parseExprBare(b, rhsText)
	if err != nil {
		return nil, nil, err
	}
	return b.Ident(v), rhs, nil
}

// splitRelation finds the first occurrence (in the fixed priority order
// of lang.Relations, so "<=" is tried before its prefix "<") of a
// space-delimited relation operator, matching how renderBare renders one.
func splitRelation(s string) (left, op, right string, ok bool) {
	for _, tag := range lang.Relations {
		sep := " " + string(tag) + " "
		if idx := strings.Index(s, sep); idx >= 0 {
			return s[:idx], string(tag), s[idx+len(sep):], true
		}
	}
	return "", "", "", false
}

func relationByText(op string) (lang.Tag, bool) {
	tag := lang.Tag(op)
	if tag.IsRelation() {
		return tag, true
	}
	return "", false
}
