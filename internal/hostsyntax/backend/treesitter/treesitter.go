//go:build cgo && xcsc_cgo

// Package treesitter is a cgo tree-sitter backend for hostsyntax, parsing
// host code as C#. It is wired and importable but not selected by
// default: its runtime prerequisite (a compiled C# grammar reachable from
// Go's cgo toolchain) is outside this repository's control, so it sits
// behind a build tag.
package treesitter

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c_sharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"

	"github.com/xcs-lang/xcsc/internal/hostsyntax"
)

const factoryName = "treesitter-csharp"

// parenthesizedExpressionNode is the C# grammar's node kind for `(expr)`.
const parenthesizedExpressionNode = "parenthesized_expression"

type factory struct{}

var _ hostsyntax.Factory = factory{}

// NewFactory returns the tree-sitter-backed host-syntax factory.
func NewFactory() hostsyntax.Factory {
	return factory{}
}

func (factory) Name() string { return factoryName }

func (factory) NewParser() (hostsyntax.Parser, error) {
	lang := sitter.NewLanguage(tree_sitter_c_sharp.Language())
	if lang == nil {
		return nil, errors.New("failed to load C# tree-sitter grammar")
	}
	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, fmt.Errorf("set language: %w", err)
	}
	return &parser{p: p}, nil
}

type parser struct {
	p *sitter.Parser
}

var _ hostsyntax.Parser = (*parser)(nil)

func (pr *parser) Close() {
	if pr.p != nil {
		pr.p.Close()
	}
}

func (pr *parser) Parse(ctx context.Context, src []byte) (*hostsyntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tree := pr.p.Parse(src, nil)
	if tree == nil {
		return nil, errors.New("tree-sitter parse returned nil")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, errors.New("tree-sitter root node is nil")
	}

	out := &hostsyntax.Tree{}
	walk(root, func(n *sitter.Node) {
		if n.Kind() == parenthesizedExpressionNode {
			out.Candidates = append(out.Candidates, hostsyntax.ParenCandidate{
				OpenParenOffset: int(n.StartByte()),
			})
		}
	})
	return out, nil
}

func walk(n *sitter.Node, visit func(*sitter.Node)) {
	if n == nil {
		return
	}
	visit(n)
	cursor := n.Walk()
	defer cursor.Close()
	children := n.Children(cursor)
	for i := range children {
		walk(&children[i], visit)
	}
}
