// Package hostsyntax defines the black-box host-language parser
// boundary: the expression locator (internal/locator) needs nothing more
// from the host parser than the byte offset of every
// ParenthesizedExpression node's opening '(' in the file. This package
// defines that contract as Factory/Parser and ships two backends under
// backend/.
package hostsyntax

import "context"

// ParenCandidate is one ParenthesizedExpression node the host parser found,
// reduced to the one fact the locator needs: where its '(' sits.
type ParenCandidate struct {
	// OpenParenOffset is the absolute byte offset of the '(' character.
	OpenParenOffset int
}

// Tree is the walkable result of parsing one file: every parenthesized
// expression the host grammar recognizes, in source order.
type Tree struct {
	Candidates []ParenCandidate
}

// Parser parses one file's bytes into a Tree.
type Parser interface {
	Parse(ctx context.Context, src []byte) (*Tree, error)
	Close()
}

// Factory creates Parser instances for a specific backend implementation.
type Factory interface {
	Name() string
	NewParser() (Parser, error)
}
