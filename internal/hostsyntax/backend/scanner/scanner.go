// Package scanner is the default host-syntax backend: a small, real,
// hand-written lexer grounded on internal/lexer's cursor/scanner style, good
// enough to find every candidate parenthesized-expression open offset
// without requiring a working host-language grammar.
//
// It does not attempt a real expression grammar: it finds '(' bytes that
// are not inside a string/char literal or comment, which is exactly the
// candidate set the expression locator (internal/locator) re-verifies
// against raw text anyway, regardless of what the host parser reports.
package scanner

import (
	"context"

	"github.com/xcs-lang/xcsc/internal/hostsyntax"
)

const factoryName = "scanner"

type factory struct{}

var _ hostsyntax.Factory = factory{}

// NewFactory returns the default host-syntax backend factory.
func NewFactory() hostsyntax.Factory {
	return factory{}
}

func (factory) Name() string { return factoryName }

func (factory) NewParser() (hostsyntax.Parser, error) {
	return &parser{}, nil
}

type parser struct{}

var _ hostsyntax.Parser = (*parser)(nil)

func (p *parser) Close() {}

// Parse scans src and records every '(' byte offset outside string/char
// literals, line comments, and block comments.
func (p *parser) Parse(ctx context.Context, src []byte) (*hostsyntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := &scan{src: src}
	s.run()
	return &hostsyntax.Tree{Candidates: s.candidates}, nil
}

type scan struct {
	src        []byte
	i          int
	candidates []hostsyntax.ParenCandidate
}

func (s *scan) eof() bool { return s.i >= len(s.src) }

func (s *scan) run() {
	for !s.eof() {
		c := s.src[s.i]
		switch {
		case c == '/' && s.peek(1) == '/':
			s.skipLineComment()
		case c == '/' && s.peek(1) == '*':
			s.skipBlockComment()
		case c == '"':
			s.skipStringLiteral()
		case c == '\'':
			s.skipCharLiteral()
		case c == '(':
			s.candidates = append(s.candidates, hostsyntax.ParenCandidate{OpenParenOffset: s.i})
			s.i++
		default:
			s.i++
		}
	}
}

func (s *scan) peek(off int) byte {
	if s.i+off >= len(s.src) {
		return 0
	}
	return s.src[s.i+off]
}

func (s *scan) skipLineComment() {
	for !s.eof() && s.src[s.i] != '\n' {
		s.i++
	}
}

func (s *scan) skipBlockComment() {
	s.i += 2
	for !s.eof() {
		if s.src[s.i] == '*' && s.peek(1) == '/' {
			s.i += 2
			return
		}
		s.i++
	}
}

func (s *scan) skipStringLiteral() {
	s.i++
	for !s.eof() {
		c := s.src[s.i]
		if c == '\\' && s.i+1 < len(s.src) {
			s.i += 2
			continue
		}
		if c == '"' {
			s.i++
			return
		}
		s.i++
	}
}

func (s *scan) skipCharLiteral() {
	s.i++
	for !s.eof() {
		c := s.src[s.i]
		if c == '\\' && s.i+1 < len(s.src) {
			s.i += 2
			continue
		}
		if c == '\'' {
			s.i++
			return
		}
		s.i++
	}
}
