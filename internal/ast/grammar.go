package ast

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// whileLexer tokenizes the flattened prefix grammar of spec.md §4.1.
// Keywords are case-sensitive, matching §6.1 ("Tokens are case-sensitive
// uppercase keywords").
var whileLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `\b(SEQ|AMB|LOOP|ASSUME|ASSIGN|NOT|TRUE|FALSE)\b`},
	{Name: "RelOp", Pattern: `==|!=|<=|>=|<|>`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*|[0-9]+`},
	{Name: "Punct", Pattern: `[(),]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// grammar is the top-level parse tree produced from one prefix-grammar
// statement.
type grammar struct {
	Stmt *stmtAST `parser:"@@"`
}

// stmtAST dispatches on the statement head keyword.
type stmtAST struct {
	Seq    *seqAST    `parser:"  \"SEQ\" \"(\" @@ \")\""`
	Amb    *ambAST    `parser:"| \"AMB\" \"(\" @@ \")\""`
	Loop   *loopAST   `parser:"| \"LOOP\" \"(\" @@ \")\""`
	Assume *assumeAST `parser:"| \"ASSUME\" \"(\" @@ \")\""`
	Assign *assignAST `parser:"| \"ASSIGN\" \"(\" @@ \")\""`
}

type seqAST struct {
	Left  *stmtAST `parser:"@@ \",\""`
	Right *stmtAST `parser:"@@"`
}

type ambAST struct {
	Left  *stmtAST `parser:"@@ \",\""`
	Right *stmtAST `parser:"@@"`
}

type loopAST struct {
	Body *stmtAST `parser:"@@"`
}

type assumeAST struct {
	Expr *exprAST `parser:"@@"`
}

type assignAST struct {
	Variable *exprAST `parser:"@@ \",\""`
	RHS      *exprAST `parser:"@@"`
}

// exprAST is the shallow expression grammar of spec.md §4.1: an atom,
// optionally followed by exactly one binary relation over a second atom.
// Chained relations without NOT (a == b == c) are rejected by the grammar,
// because Left/Right can only ever be atomAST. An atom may be NOT(...)
// wrapping a full expression, so a relation over a NOT(a == b) operand
// does parse; the cfg payload renderer rejects it as non-flat.
type exprAST struct {
	Left  *atomAST `parser:"@@"`
	Op    *string  `parser:"( @(\"==\" | \"!=\" | \"<=\" | \">=\" | \"<\" | \">\")"`
	Right *atomAST `parser:"  @@ )?"`
}

// atomAST is a constant, identifier, or NOT applied to a nested expression.
type atomAST struct {
	True  bool     `parser:"  @\"TRUE\""`
	False bool     `parser:"| @\"FALSE\""`
	Not   *exprAST `parser:"| \"NOT\" \"(\" @@ \")\""`
	Ident *string  `parser:"| @Ident"`
}

var whileParser = participle.MustBuild[grammar](
	participle.Lexer(whileLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)
