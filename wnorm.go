// Package wnorm implements the While-language loop-reduction normalizer:
// parse source into an AST, build the equivalent structured CFG, rewrite
// it down to a single back-edge, and convert back to an AST. See
// SPEC_FULL.md for the full specification this package implements.
package wnorm

import (
	"github.com/wlang/wnorm/internal/ast"
	"github.com/wlang/wnorm/internal/cfg"
	"github.com/wlang/wnorm/internal/normalize"
)

type (
	// ParseError reports a malformed-input failure (spec.md §7) from
	// ParseAST: unknown head, wrong arity, missing bracket, or a
	// non-flat expression.
	ParseError = ast.ParseError
	// BuildError reports a malformed-input failure from ASTToCFG.
	BuildError = cfg.BuildError
	// InvariantError reports an invariant-violation failure (spec.md
	// §7): a CFG surgery produced a structure violating §3.3.
	InvariantError = cfg.InvariantError
	// ProgressError reports a progress-failure (spec.md §7): the
	// normalizer driver completed a full pass without decreasing the
	// back-edge count, or exceeded its iteration bound.
	ProgressError = normalize.ProgressError
)

// Node is the AST node type: see internal/ast for its exported shape.
type Node = ast.Node

// CFG is the structured control-flow graph type.
type CFG = cfg.CFG

// Options configures Normalize's bounded-retry safety net.
type Options = normalize.Options

// DefaultOptions returns the normalizer's default iteration bound.
func DefaultOptions() Options {
	return normalize.DefaultOptions()
}

// ParseAST parses While-language source text into an AST (spec.md §6.2,
// entry point 1).
func ParseAST(text string) (*Node, error) {
	return ast.Parse(text)
}

// ASTToCFG builds the structured CFG equivalent to root (spec.md §6.2,
// entry point 2).
func ASTToCFG(root *Node) (*CFG, error) {
	return cfg.Build(root)
}

// CFGToAST converts a structured CFG back into an AST (spec.md §6.2,
// entry point 3).
func CFGToAST(c *CFG) (*Node, error) {
	return cfg.ToAST(c)
}

// Normalize parses, builds, reduces to the single-loop invariant, and
// converts back to an AST in one call (spec.md §6.2, entry point 4),
// using DefaultOptions.
func Normalize(text string) (*Node, error) {
	return NormalizeWithOptions(text, DefaultOptions())
}

// NormalizeWithOptions is Normalize with an explicit bounded-retry
// Options value.
func NormalizeWithOptions(text string, opts Options) (*Node, error) {
	root, err := ast.Parse(text)
	if err != nil {
		return nil, err
	}
	graph, err := cfg.Build(root)
	if err != nil {
		return nil, err
	}
	if err := normalize.NormalizeWithOptions(graph, opts); err != nil {
		return nil, err
	}
	return cfg.ToAST(graph)
}
