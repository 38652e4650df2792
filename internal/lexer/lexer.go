package lexer

import "github.com/xcs-lang/xcsc/internal/text"

// Result is the output of a single Lex invocation: a flat token vector with
// absolute offsets.
type Result struct {
	Tokens []Token
}

// Lex scans one markup region. startOffset is added to every emitted
// token's span so the caller may feed a region-relative slice while still
// getting file-absolute offsets back. isRoot controls structural-stop
// behavior: a root scan silently skips a stray ')' or ';' and keeps
// going; a non-root (nested, inside-expression) scan returns control to
// its caller at that byte instead.
func Lex(src []byte, startOffset int, isRoot bool) Result {
	s := &scanner{src: src, startOffset: startOffset}
	s.run(isRoot)
	return Result{Tokens: s.tokens}
}

type scanner struct {
	src         []byte
	i           int
	startOffset int
	tokens      []Token
}

func (s *scanner) eof() bool { return s.i >= len(s.src) }

func (s *scanner) emit(kind TokenKind, start, end int) {
	s.tokens = append(s.tokens, Token{
		Kind: kind,
		Span: text.Span{
			Start: text.ByteOffset(s.startOffset + start),
			End:   text.ByteOffset(s.startOffset + end),
		},
	})
}

// run drives the top-level production dispatch: TAG, TAG_CLOSE_BRACKET,
// EXPRESSION, STRUCTURAL_STOP, TEXT.
func (s *scanner) run(isRoot bool) {
	s.skipToFirstTag()
	for !s.eof() {
		c := s.src[s.i]
		switch {
		case c == '<':
			s.scanTag()
		case c == '{':
			s.scanExpression()
		case c == ')' || c == ';':
			if isRoot {
				s.i++
				continue
			}
			return
		case c == '}':
			// A stray '}' at this level belongs to an enclosing expression
			// this call was never meant to consume; hand control back.
			return
		case c == '>':
			start := s.i
			s.i++
			s.emit(TokenTagClose, start, s.i)
		default:
			s.scanText()
		}
	}
}

// skipToFirstTag implements the "initial skip" step. It is a no-op when
// the cursor already sits on '<', which makes it safe to call both from a
// fresh weaver-supplied region and from the host-bridge recursion. A scan
// that opens directly on an expression '{' is not skipped either, so
// `{xs.map(x => <p/>)}` goes through the expression production instead of
// jumping straight to its nested tag.
func (s *scanner) skipToFirstTag() {
	if !s.eof() && s.src[s.i] == '{' {
		return
	}
	for !s.eof() && s.src[s.i] != '<' {
		s.i++
	}
}

func (s *scanner) scanTag() {
	start := s.i
	s.i++ // '<'
	isClose := false
	if !s.eof() && s.src[s.i] == '/' {
		isClose = true
		s.i++
	}
	s.emit(TokenTagOpen, start, s.i)

	nameStart := s.i
	for !s.eof() && isTagNameByte(s.src[s.i]) {
		s.i++
	}
	if s.i > nameStart {
		s.emit(TokenTagName, nameStart, s.i)
	}

	if isClose {
		s.skipHSpace()
		if !s.eof() && s.src[s.i] == '>' {
			cstart := s.i
			s.i++
			s.emit(TokenTagClose, cstart, s.i)
		}
		return
	}
	s.scanAttributes()
}

func (s *scanner) scanAttributes() {
	for {
		s.skipWhitespace()
		if s.eof() {
			return
		}
		c := s.src[s.i]
		switch {
		case c == '>':
			start := s.i
			s.i++
			s.emit(TokenTagClose, start, s.i)
			return
		case c == '/' && s.peekAt(1) == '>':
			start := s.i
			s.i += 2
			s.emit(TokenTagClose, start, s.i)
			return
		case c == '{':
			s.scanExpression()
		default:
			s.scanAttribute()
		}
	}
}

func (s *scanner) scanAttribute() {
	nameStart := s.i
	for !s.eof() && !isAttrNameStop(s.src[s.i]) {
		s.i++
	}
	if s.i == nameStart {
		// Unrecognized byte in attribute position; advance to avoid
		// looping forever on malformed input.
		s.i++
		return
	}
	s.emit(TokenAttributeName, nameStart, s.i)

	save := s.i
	s.skipWhitespace()
	if s.eof() || s.src[s.i] != '=' {
		s.i = save
		return
	}
	eqStart := s.i
	s.i++
	s.emit(TokenAttributeEquals, eqStart, s.i)
	s.skipWhitespace()
	if s.eof() {
		return
	}
	switch s.src[s.i] {
	case '"', '\'':
		s.scanQuotedString()
	case '{':
		s.scanExpression()
	}
}

func (s *scanner) scanQuotedString() {
	quote := s.src[s.i]
	start := s.i
	s.i++
	for !s.eof() {
		c := s.src[s.i]
		if c == '\\' && s.i+1 < len(s.src) {
			s.i += 2
			continue
		}
		if c == quote {
			s.i++
			s.emit(TokenAttributeName, start, s.i)
			return
		}
		s.i++
	}
	// Unterminated quoted value: lexer run-off. No token is emitted; the
	// remainder of the region is still available.
}

// scanText implements the TEXT production: consume a run of bytes up to
// the next structural character and emit it unless it is pure whitespace.
func (s *scanner) scanText() {
	start := s.i
loop:
	for !s.eof() {
		switch s.src[s.i] {
		case '<', '{', ')', ';', '}':
			break loop
		}
		s.i++
	}
	if s.i > start && !isAllWhitespace(s.src[start:s.i]) {
		s.emit(TokenAttributeName, start, s.i)
	}
}

// scanExpression scans one {...} expression: brace-depth tracking with
// the host-inside-markup bridge recursion.
func (s *scanner) scanExpression() {
	start := s.i // positioned at '{'
	depth := 0
	for !s.eof() {
		c := s.src[s.i]
		switch {
		case c == '{':
			depth++
			s.i++
		case c == '}':
			depth--
			s.i++
			if depth == 0 {
				s.emit(TokenAttributeExpression, start, s.i)
				return
			}
		case depth == 1 && c == '(' && s.bridgesToMarkup():
			s.emit(TokenAttributeExpression, start, s.i)
			parenStart := s.i
			s.i++
			s.emit(TokenLeftParen, parenStart, s.i)
			s.run(false)
			start = s.i
		default:
			s.i++
		}
	}
	// Unterminated expression: no AttributeExpression is emitted for the
	// dangling head.
}

// bridgesToMarkup looks past the current '(' for the host-inside-markup
// bridge pattern: either a tag opens immediately, or a lambda parameter
// list (a bare identifier or a parenthesized list) and an optional "=>"
// arrow lead into one. The lambda form is the whole point: in
// `xs.map(x => <tag/>)`, the byte right after '(' is the parameter name
// `x`, not '<', so a bare next-byte peek would never recognize the
// bridge at all.
func (s *scanner) bridgesToMarkup() bool {
	j := s.i + 1
	j = skipHSpaceFrom(s.src, j)
	if j < len(s.src) && s.src[j] == '(' {
		depth := 1
		j++
		for j < len(s.src) && depth > 0 {
			switch s.src[j] {
			case '(':
				depth++
			case ')':
				depth--
			}
			j++
		}
	} else {
		for j < len(s.src) && isIdentByte(s.src[j]) {
			j++
		}
	}
	j = skipHSpaceFrom(s.src, j)
	if j+1 < len(s.src) && s.src[j] == '=' && s.src[j+1] == '>' {
		j += 2
		j = skipHSpaceFrom(s.src, j)
	}
	if j >= len(s.src) || s.src[j] != '<' {
		return false
	}
	k := j + 1
	return k < len(s.src) && isIdentStart(s.src[k])
}

func skipHSpaceFrom(src []byte, j int) int {
	for j < len(src) && isHorizontalSpace(src[j]) {
		j++
	}
	return j
}

func (s *scanner) skipWhitespace() {
	for !s.eof() && isSpaceByte(s.src[s.i]) {
		s.i++
	}
}

func (s *scanner) skipHSpace() {
	for !s.eof() && isHorizontalSpace(s.src[s.i]) {
		s.i++
	}
}

func (s *scanner) peekAt(off int) byte {
	if s.i+off >= len(s.src) {
		return 0
	}
	return s.src[s.i+off]
}

func isHorizontalSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func isAllWhitespace(b []byte) bool {
	for _, c := range b {
		if !isSpaceByte(c) {
			return false
		}
	}
	return true
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentByte(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isTagNameByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '-' || b == '_':
		return true
	default:
		return false
	}
}

func isAttrNameStop(b byte) bool {
	return isSpaceByte(b) || b == '=' || b == '>' || b == '/'
}
