// Package lexer scans one embedded markup region into a flat token vector.
package lexer

import (
	"fmt"

	"github.com/xcs-lang/xcsc/internal/text"
)

// TokenKind identifies the syntactic category of a token produced by the
// markup lexer.
type TokenKind uint16

const (
	TokenUnknown TokenKind = iota
	TokenEOF

	TokenTagOpen                // "<" or "</"
	TokenTagClose               // ">" or "/>"
	TokenTagName                // run of letters/digits/-/_
	TokenAttributeName          // bare attribute name, quoted string value, or text run
	TokenAttributeEquals        // "="
	TokenAttributeStringLiteral // a quoted attribute value, quotes included
	TokenAttributeExpression    // "{" ... "}" inclusive
	TokenLeftParen              // "(" at the host-bridge boundary
	TokenRightParen             // ")" swallowed by the expression lexer
	TokenSemicolon              // ";"
)

func (k TokenKind) String() string {
	switch k {
	case TokenUnknown:
		return "Unknown"
	case TokenEOF:
		return "EOF"
	case TokenTagOpen:
		return "TagOpen"
	case TokenTagClose:
		return "TagClose"
	case TokenTagName:
		return "TagName"
	case TokenAttributeName:
		return "AttributeName"
	case TokenAttributeEquals:
		return "AttributeEquals"
	case TokenAttributeStringLiteral:
		return "AttributeStringLiteral"
	case TokenAttributeExpression:
		return "AttributeExpression"
	case TokenLeftParen:
		return "LeftParen"
	case TokenRightParen:
		return "RightParen"
	case TokenSemicolon:
		return "Semicolon"
	default:
		return fmt.Sprintf("TokenKind(%d)", k)
	}
}

// Token is a value-typed, non-owning lexeme: kind plus an absolute byte span.
type Token struct {
	Kind TokenKind
	Span text.Span
}

// Bytes returns the token's source bytes, or nil if the span is out of
// range for src. Tokens never own their text.
func (t Token) Bytes(src []byte) []byte {
	return bytesForSpan(src, t.Span)
}

func bytesForSpan(src []byte, sp text.Span) []byte {
	if !sp.IsValid() {
		return nil
	}
	if sp.End > text.ByteOffset(len(src)) {
		return nil
	}
	return src[sp.Start:sp.End]
}
