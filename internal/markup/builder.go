package markup

import (
	"strings"

	"github.com/xcs-lang/xcsc/internal/lexer"
)

// Build turns a token vector produced by internal/lexer into a tree of
// AstNodes, honoring nesting and hybrid host-inside-markup recursion.
// src is the character span the tokens were produced over; token
// spans are absolute offsets into it (or into the enclosing file, when a
// non-zero startOffset was supplied to the lexer).
func Build(tokens []lexer.Token, src []byte) []Node {
	b := &builder{tokens: tokens, src: src}
	return b.parseSiblings("")
}

type builder struct {
	tokens []lexer.Token
	src    []byte
	i      int
}

func (b *builder) eof() bool { return b.i >= len(b.tokens) }

func (b *builder) peek() lexer.Token {
	if b.eof() {
		return lexer.Token{Kind: lexer.TokenEOF}
	}
	return b.tokens[b.i]
}

func (b *builder) text(t lexer.Token) string {
	return string(t.Bytes(b.src))
}

// parseSiblings accumulates nodes until a closing tag is encountered or
// the token vector is exhausted. It stops on *any* closing tag, not only
// one matching stopAtTag: a mismatched closing tag makes this inner loop
// return, and the outer parseElement recovers by scanning until it
// matches or runs out (consumeClosingTag, below). Matching the name is
// the caller's job, not this loop's.
func (b *builder) parseSiblings(stopAtTag string) []Node {
	var out []Node
	for !b.eof() {
		if b.atClosingTag() {
			return out
		}
		n := b.parseNode()
		if n == nil {
			if b.eof() {
				break
			}
			continue
		}
		out = append(out, n)
	}
	return out
}

// atClosingTag reports whether the cursor sits on a TagOpen "</" token. It
// does not consume tokens, and does not check the tag name: any closing
// tag — matching or not — ends a sibling run (see parseSiblings).
func (b *builder) atClosingTag() bool {
	t := b.peek()
	if t.Kind != lexer.TokenTagOpen || b.text(t) != "</" {
		return false
	}
	if b.i+1 >= len(b.tokens) {
		return true
	}
	return b.tokens[b.i+1].Kind == lexer.TokenTagName
}

// parseNode parses one sibling-position node, or returns nil on a
// structural break.
func (b *builder) parseNode() Node {
	t := b.peek()
	switch t.Kind {
	case lexer.TokenTagOpen:
		if b.text(t) == "</" {
			// Caller (parseSiblings / parseBridgeChildren) is expected to
			// stop on atClosingTag before reaching here; consume
			// defensively so this can never be reached on the same
			// un-advanced token twice in a row.
			b.i++
			return nil
		}
		return b.parseElement()
	case lexer.TokenAttributeExpression:
		return b.parseExpression()
	case lexer.TokenAttributeName:
		b.i++
		raw := b.text(t)
		if isAllWhitespace(raw) {
			return nil
		}
		start, end := spanOf(t)
		return &StringLiteral{Value: raw, SourceStart: start, SourceEnd: end}
	case lexer.TokenRightParen, lexer.TokenSemicolon:
		b.i++
		return nil
	default:
		// Unrecognized/structural token in node position: skip it so the
		// cursor remains monotone.
		b.i++
		return nil
	}
}

// parseExpression constructs an Expression node, resolving the two hybrid
// cases: a header AttributeExpression immediately followed by a LeftParen
// token is the lexer's host-bridge marker, a lambda/callback head whose
// body embeds nested markup, parsed recursively as this node's Children;
// and an opaque `{...}` whose raw text itself carries a tag (markup
// embedded without a guarding call, e.g. `{cond && <span/>}`) is re-lexed
// and re-built from the stripped content (parseRawHybrid).
func (b *builder) parseExpression() Node {
	t := b.peek()
	b.i++
	raw := b.text(t)
	start, end := spanOf(t)

	if b.peek().Kind != lexer.TokenLeftParen {
		if expr := b.parseRawHybrid(raw, start, end); expr != nil {
			return expr
		}
		return &Expression{Text: raw, SourceStart: start, SourceEnd: end}
	}

	parenTok := b.peek()
	b.i++ // consume the host-bridge LeftParen
	_, parenEnd := spanOf(parenTok)

	// The expression sub-lexer's recursive call performs its own initial
	// skip straight to the nested markup's opening '<', so any
	// lambda-parameter/arrow text between '(' and '<' — e.g. "x => " in
	// `xs.map(x => <tag/>)` — is never tokenized. Recover it directly from
	// src so the generator can still reproduce it verbatim.
	bridgeGap := ""
	if !b.eof() {
		nextStart, _ := spanOf(b.peek())
		if parenEnd <= nextStart && nextStart <= len(b.src) {
			bridgeGap = string(b.src[parenEnd:nextStart])
		}
	}

	expr := &Expression{
		Text:        raw + "(" + bridgeGap,
		SourceStart: start,
		SourceEnd:   end,
	}

	expr.Children = b.parseBridgeChildren()

	// Swallow any trailing RightParen tokens the lambda body closes with;
	// append them to text and extend sourceEnd so the generator can close
	// the call it reopens.
	for b.peek().Kind == lexer.TokenRightParen {
		rp := b.peek()
		b.i++
		expr.Text += ")"
		_, rpEnd := spanOf(rp)
		if rpEnd > expr.SourceEnd {
			expr.SourceEnd = rpEnd
		}
	}

	// The final trailing AttributeExpression (the lambda tail, including
	// the closing brace) belongs to this same hybrid node's text.
	if b.peek().Kind == lexer.TokenAttributeExpression {
		tail := b.peek()
		b.i++
		expr.Text += b.text(tail)
		_, tailEnd := spanOf(tail)
		if tailEnd > expr.SourceEnd {
			expr.SourceEnd = tailEnd
		}
	}

	return expr
}

// parseRawHybrid resolves the non-bridged hybrid case: the lexer emits
// `{cond && <span/>}` or a bare `{<span/>}` as one opaque
// AttributeExpression, since no `(` guards the nested markup. When the raw
// text begins with '{', ends with '}', and carries a tag, the outer braces
// are stripped, the content is run through a fresh lex + build, and the
// resulting nodes become this node's Children. Text keeps only the header
// up to the first tag; the fresh lexer's initial skip discards the same
// bytes on its side. Returns nil when the text carries no tag.
func (b *builder) parseRawHybrid(raw string, start, end int) *Expression {
	if len(raw) < 2 || raw[0] != '{' || raw[len(raw)-1] != '}' {
		return nil
	}
	if end-start != len(raw) || end-1 > len(b.src) {
		return nil
	}
	inner := raw[1 : len(raw)-1]
	lt := markupTagIndex(inner)
	if lt < 0 || strings.IndexByte(inner[lt:], '>') < 0 {
		return nil
	}

	tokens := lexer.Lex(b.src[start+1:end-1], start+1, true).Tokens
	children := Build(tokens, b.src)
	if len(children) == 0 {
		return nil
	}

	return &Expression{
		Text:        "{" + strings.TrimSpace(inner[:lt]),
		Children:    children,
		SourceStart: start,
		SourceEnd:   end,
	}
}

// markupTagIndex finds the first '<' in s that opens a tag (its next byte
// starts an identifier), or -1. A bare comparison '<' never matches.
func markupTagIndex(s string) int {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '<' && isIdentStartByte(s[i+1]) {
			return i
		}
	}
	return -1
}

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// parseBridgeChildren accumulates the nested-markup node(s) embedded in a
// hybrid expression's body. Unlike parseSiblings, it also stops at an
// AttributeExpression, RightParen, or Semicolon token: those mark the
// lambda tail (the host code the bridge recursion returns control to),
// not another sibling to parse.
func (b *builder) parseBridgeChildren() []Node {
	var out []Node
	for !b.eof() {
		switch b.peek().Kind {
		case lexer.TokenAttributeExpression, lexer.TokenRightParen, lexer.TokenSemicolon:
			return out
		}
		if b.atClosingTag() {
			return out
		}
		n := b.parseNode()
		if n == nil {
			if b.eof() {
				break
			}
			continue
		}
		out = append(out, n)
	}
	return out
}

// parseElement parses one element from its TagOpen through its
// self-closing or matching closing tag.
func (b *builder) parseElement() *Element {
	openTok := b.peek()
	b.i++ // TagOpen "<"
	elStart, _ := spanOf(openTok)

	el := &Element{SourceStart: elStart}
	if b.peek().Kind == lexer.TokenTagName {
		nameTok := b.peek()
		b.i++
		el.TagName = b.text(nameTok)
	}

	for !b.eof() {
		t := b.peek()
		if t.Kind == lexer.TokenTagClose {
			b.i++
			_, closeEnd := spanOf(t)
			selfClosing := b.text(t) == "/>"
			if selfClosing {
				el.SourceEnd = closeEnd
				return el
			}
			break
		}
		attr, ok := b.parseAttribute()
		if !ok {
			// Cannot make progress; avoid an infinite loop.
			b.i++
			continue
		}
		el.Attributes = append(el.Attributes, attr)
	}

	el.Children = b.parseSiblings(el.TagName)

	// Consume the matching closing tag, recovering by scanning forward if
	// the immediate tokens don't match (a mismatched closing tag makes the
	// inner parseSiblings return early, leaving this call to recover).
	end := b.consumeClosingTag(el.TagName)
	el.SourceEnd = end
	return el
}

// parseAttribute consumes one (name, value) pair, or an AttributeExpression
// used as a standalone spread attribute.
func (b *builder) parseAttribute() (Attribute, bool) {
	t := b.peek()
	switch t.Kind {
	case lexer.TokenAttributeExpression:
		b.i++
		raw := b.text(t)
		start, end := spanOf(t)
		return Attribute{Value: &Expression{Text: raw, SourceStart: start, SourceEnd: end}}, true
	case lexer.TokenAttributeName:
		b.i++
		name := b.text(t)
		if isAllWhitespace(name) {
			return Attribute{}, false
		}
		if b.peek().Kind != lexer.TokenAttributeEquals {
			// Bare attribute name with no value; treat the name itself as a
			// StringLiteral-valued boolean-style attribute.
			start, end := spanOf(t)
			return Attribute{Name: name, Value: &StringLiteral{Value: "true", SourceStart: start, SourceEnd: end}}, true
		}
		b.i++ // "="
		return b.parseAttributeValue(name)
	default:
		return Attribute{}, false
	}
}

func (b *builder) parseAttributeValue(name string) (Attribute, bool) {
	t := b.peek()
	switch t.Kind {
	case lexer.TokenAttributeName: // quoted string literal, per lexer contract
		b.i++
		start, end := spanOf(t)
		return Attribute{Name: name, Value: &StringLiteral{Value: b.text(t), SourceStart: start, SourceEnd: end}}, true
	case lexer.TokenAttributeExpression:
		b.i++
		start, end := spanOf(t)
		return Attribute{Name: name, Value: &Expression{Text: b.text(t), SourceStart: start, SourceEnd: end}}, true
	default:
		return Attribute{Name: name, Value: nil}, true
	}
}

func (b *builder) consumeClosingTag(tagName string) int {
	for !b.eof() {
		t := b.peek()
		if t.Kind == lexer.TokenTagOpen && b.text(t) == "</" {
			nameMatches := tagName == ""
			if b.i+1 < len(b.tokens) {
				nameTok := b.tokens[b.i+1]
				if nameTok.Kind == lexer.TokenTagName && b.text(nameTok) == tagName {
					nameMatches = true
				}
			}
			if nameMatches {
				b.i += 2 // "</" + name
				for !b.eof() && b.peek().Kind != lexer.TokenTagClose {
					b.i++
				}
				if !b.eof() {
					closeTok := b.peek()
					b.i++
					_, end := spanOf(closeTok)
					return end
				}
				_, end := spanOf(t)
				return end
			}
		}
		_, end := spanOf(t)
		b.i++
		if b.eof() {
			return end
		}
	}
	return len(b.src)
}

func spanOf(t lexer.Token) (int, int) {
	return int(t.Span.Start), int(t.Span.End)
}

func isAllWhitespace(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			continue
		default:
			return false
		}
	}
	return true
}
