// Package text defines the byte-offset and position types threaded
// through the compiler core: lexer token spans, source-map entries, and
// the diagnostic translator's line/column output, plus the UTF-16
// positions the IDE server speaks over LSP at its edges. Everything else
// in the pipeline stays in byte offsets; UTF-16 only exists here, at the
// boundary back out to an editor.
package text

// ByteOffset is a byte index into a UTF-8 source buffer.
type ByteOffset int

// IsValid reports whether the offset is non-negative.
func (o ByteOffset) IsValid() bool {
	return o >= 0
}

// Span is the half-open byte range [Start, End) a lexer token, AST node, or
// source-map endpoint covers in its originating buffer.
type Span struct {
	Start ByteOffset // inclusive
	End   ByteOffset // exclusive
}

// IsValid reports whether the span bounds are well-formed: non-negative and
// non-inverted. Token.Bytes (internal/lexer) relies on this to refuse to
// slice a malformed span rather than panic.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() && s.End >= s.Start
}

// Point is the 0-based line, byte-column location the diagnostic translator
// reports in Translated.Line/Column.
type Point struct {
	Line   int // 0-based
	Column int // byte column
}

// UTF16Position is the LSP-facing position the IDE server
// converts to and from at its protocol boundary; nothing upstream of the
// server package ever constructs one.
type UTF16Position struct {
	Line      int
	Character int
}
