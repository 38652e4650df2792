package markup

import (
	"strings"

	"github.com/xcs-lang/xcsc/internal/sourcemap"
)

// IndentUnit is the number of spaces emitted per nesting level. The exact
// width is not contractual; tests must not assert on it.
const IndentUnit = 4

// Generate walks nodes and emits factory-call host code plus per-node local
// position mappings. factory and method are the configurable
// `F.M(...)` identifiers.
// Returned map offsets are absolute in the original file for Original* and
// zero-based within the returned string for Transformed*.
func Generate(nodes []Node, factory, method string) (string, []sourcemap.Entry) {
	g := &generator{factory: factory, method: method}
	g.emitSiblings(nodes, 0)
	if len(nodes) > 1 && g.buf.Len() > 0 {
		// With multiple root siblings the ",\n" separators between them fall
		// outside every per-node entry; a coarse whole-region entry keeps
		// every generated byte accounted for.
		first, _ := nodes[0].Span()
		_, last := nodes[len(nodes)-1].Span()
		g.record(first, last, 0, g.buf.Len())
	}
	return g.buf.String(), g.maps
}

type generator struct {
	buf     strings.Builder
	maps    []sourcemap.Entry
	factory string
	method  string
}

func (g *generator) indent(level int) string {
	return strings.Repeat(" ", level*IndentUnit)
}

func (g *generator) pos() int { return g.buf.Len() }

func (g *generator) record(origStart, origEnd, transStart, transEnd int) {
	if origEnd <= origStart {
		return
	}
	g.maps = append(g.maps, sourcemap.Entry{
		OriginalStart:    origStart,
		OriginalEnd:      origEnd,
		TransformedStart: transStart,
		TransformedEnd:   transEnd,
	})
}

func (g *generator) emitSiblings(nodes []Node, level int) {
	for i, n := range nodes {
		if i > 0 {
			g.buf.WriteString(",\n")
		}
		g.emitNode(n, level)
	}
}

// emitNode dispatches on n's concrete type and, before returning, records a
// full-span coverage entry mapping n's entire source range to the bytes it
// just emitted. Finer entries recorded inside (tag name, attribute values)
// sit narrower and win the diagnostic translator's smallest-covering
// lookup; this wrapping entry exists so every generated byte, including
// call-shape punctuation with no finer mapping of its own, is still
// accounted for.
func (g *generator) emitNode(n Node, level int) {
	start, end := n.Span()
	transStart := g.pos()
	switch v := n.(type) {
	case *Element:
		g.emitElement(v, level)
	case *Expression:
		g.emitExpression(v, level)
	case *StringLiteral:
		g.emitStringLiteral(v, level)
	default:
		// Unreachable for the closed Node union; emit nothing rather than
		// panic across a pipeline stage.
		return
	}
	g.record(start, end, transStart, g.pos())
}

// emitElement emits the factory-call shape:
// `F.M("tag", new <Pascal(tag)>Props { ... }, child1, ...)`.
func (g *generator) emitElement(e *Element, level int) {
	ind := g.indent(level)
	ind1 := g.indent(level + 1)

	g.buf.WriteString(ind)
	g.buf.WriteString(g.factory)
	g.buf.WriteByte('.')
	g.buf.WriteString(g.method)
	g.buf.WriteString("(\n")

	g.buf.WriteString(ind1)
	g.buf.WriteByte('"')
	tagNameStart := g.pos()
	g.buf.WriteString(e.TagName)
	tagNameEnd := g.pos()
	g.buf.WriteString("\",\n")

	// The tag name is mapped separately so tag-name highlighting can be
	// derived when a diagnostic lands on the element.
	g.record(e.SourceStart+1, e.SourceStart+1+len(e.TagName), tagNameStart, tagNameEnd)

	g.buf.WriteString(ind1)
	if len(e.Attributes) == 0 {
		g.buf.WriteString("new ")
		g.buf.WriteString(pascalCase(e.TagName))
		g.buf.WriteString("Props()")
	} else {
		g.buf.WriteString("new ")
		g.buf.WriteString(pascalCase(e.TagName))
		g.buf.WriteString("Props { ")
		for i, attr := range e.Attributes {
			if i > 0 {
				g.buf.WriteString(", ")
			}
			g.emitAttribute(attr)
		}
		g.buf.WriteString(" }")
	}

	if len(e.Children) > 0 {
		g.buf.WriteString("\n")
		for _, child := range e.Children {
			g.buf.WriteString(ind1)
			g.buf.WriteString(", ")
			g.emitNodeInline(child, level+1)
			g.buf.WriteString("\n")
		}
	} else {
		g.buf.WriteString("\n")
	}

	g.buf.WriteString(ind)
	g.buf.WriteByte(')')
}

// emitNodeInline emits a child node without re-indenting its first line
// (the caller already wrote the ", " prefix on the current line), but
// allows multi-line children (nested elements) to indent their continuation
// lines normally.
func (g *generator) emitNodeInline(n Node, level int) {
	start, end := n.Span()
	transStart := g.pos()
	switch v := n.(type) {
	case *Element:
		g.emitElementInline(v, level)
	case *Expression:
		g.emitExpression(v, level)
	case *StringLiteral:
		g.emitStringLiteral(v, level)
	default:
		return
	}
	g.record(start, end, transStart, g.pos())
}

func (g *generator) emitElementInline(e *Element, level int) {
	// Same as emitElement but without the leading indent on the first line.
	ind1 := g.indent(level + 1)

	g.buf.WriteString(g.factory)
	g.buf.WriteByte('.')
	g.buf.WriteString(g.method)
	g.buf.WriteString("(\n")

	g.buf.WriteString(ind1)
	g.buf.WriteByte('"')
	tagNameStart := g.pos()
	g.buf.WriteString(e.TagName)
	tagNameEnd := g.pos()
	g.buf.WriteString("\",\n")
	g.record(e.SourceStart+1, e.SourceStart+1+len(e.TagName), tagNameStart, tagNameEnd)

	g.buf.WriteString(ind1)
	if len(e.Attributes) == 0 {
		g.buf.WriteString("new ")
		g.buf.WriteString(pascalCase(e.TagName))
		g.buf.WriteString("Props()")
	} else {
		g.buf.WriteString("new ")
		g.buf.WriteString(pascalCase(e.TagName))
		g.buf.WriteString("Props { ")
		for i, attr := range e.Attributes {
			if i > 0 {
				g.buf.WriteString(", ")
			}
			g.emitAttribute(attr)
		}
		g.buf.WriteString(" }")
	}

	if len(e.Children) > 0 {
		g.buf.WriteString("\n")
		for _, child := range e.Children {
			g.buf.WriteString(ind1)
			g.buf.WriteString(", ")
			g.emitNodeInline(child, level+1)
			g.buf.WriteString("\n")
		}
	} else {
		g.buf.WriteString("\n")
	}

	g.buf.WriteString(g.indent(level))
	g.buf.WriteByte(')')
}

func (g *generator) emitAttribute(attr Attribute) {
	g.buf.WriteString(pascalCase(attr.Name))
	g.buf.WriteString(" = ")
	if attr.Value == nil {
		// An attribute slot without a resolved value node emits as null.
		g.buf.WriteString("null")
		return
	}
	switch v := attr.Value.(type) {
	case *StringLiteral:
		g.emitStringLiteralValue(v)
	case *Expression:
		g.emitExpressionValue(v)
	}
}

// emitStringLiteralValue emits a StringLiteral used as an attribute value:
// quotes stripped, re-quoted, embedded quotes escaped.
func (g *generator) emitStringLiteralValue(s *StringLiteral) {
	val := unquote(s.Value)
	transStart := g.pos()
	g.buf.WriteByte('"')
	g.buf.WriteString(escapeQuotes(val))
	g.buf.WriteByte('"')
	transEnd := g.pos()
	g.record(s.SourceStart, s.SourceEnd, transStart, transEnd)
}

// emitExpressionValue emits an Expression used as an attribute value: outer
// braces stripped, trimmed, text emitted verbatim. The recorded
// map entry covers only the trimmed value's own original bytes (not the
// surrounding braces or whitespace), so a diagnostic anywhere inside the
// emitted identifier projects back onto that identifier alone.
func (g *generator) emitExpressionValue(e *Expression) {
	inner := stripBraces(e.Text)
	leadingTrim := len(inner) - len(strings.TrimLeft(inner, " \t\n\r\v\f"))
	val := strings.TrimSpace(inner)
	origStart := e.SourceStart + 1 + leadingTrim // +1 skips the '{'

	transStart := g.pos()
	g.buf.WriteString(val)
	transEnd := g.pos()
	g.record(origStart, origStart+len(val), transStart, transEnd)
}

// emitExpression emits a top-level Expression node (as an element child or
// bare siblings entry). Non-hybrid: text verbatim. Hybrid: split at "=>"
// (or the first '<') and recurse into children.
func (g *generator) emitExpression(e *Expression, level int) {
	ind := g.indent(level)
	if !e.IsHybrid() {
		val := strings.TrimSpace(stripBraces(e.Text))
		transStart := g.pos()
		g.buf.WriteString(ind)
		g.buf.WriteString(val)
		transEnd := g.pos()
		g.record(e.SourceStart, e.SourceEnd, transStart, transEnd)
		return
	}
	g.emitHybridExpression(e, level, true)
}

func (g *generator) emitHybridExpression(e *Expression, level int, withIndent bool) {
	raw := strings.TrimPrefix(e.Text, "{")
	raw = strings.TrimSuffix(raw, "}")

	head := raw
	trailingParen := false
	if strings.HasSuffix(strings.TrimRight(raw, " \t\n"), ")") {
		trailingParen = true
	}
	if idx := strings.Index(raw, "=>"); idx >= 0 {
		head = raw[:idx+2]
	} else if idx := strings.IndexByte(raw, '<'); idx >= 0 {
		head = raw[:idx]
	}
	head = strings.TrimRight(head, ")")
	head = strings.TrimSpace(head)

	transStart := g.pos()
	if withIndent {
		g.buf.WriteString(g.indent(level))
	}
	g.buf.WriteString(head)
	g.buf.WriteString(" (\n")
	g.emitSiblingsIndented(e.Children, level+1)
	g.buf.WriteString("\n")
	g.buf.WriteString(g.indent(level))
	g.buf.WriteByte(')')
	if trailingParen {
		g.buf.WriteByte(')')
	}
	transEnd := g.pos()
	g.record(e.SourceStart, e.SourceEnd, transStart, transEnd)
}

func (g *generator) emitSiblingsIndented(nodes []Node, level int) {
	for i, n := range nodes {
		if i > 0 {
			g.buf.WriteString(",\n")
		}
		g.emitNode(n, level)
	}
}

// emitStringLiteral emits free text inside an element. Empty (after trim)
// values emit nothing and record no map entry.
func (g *generator) emitStringLiteral(s *StringLiteral, level int) {
	val := strings.TrimSpace(s.Value)
	if val == "" {
		return
	}
	transStart := g.pos()
	g.buf.WriteString(g.indent(level))
	g.buf.WriteByte('"')
	g.buf.WriteString(escapeQuotes(val))
	g.buf.WriteByte('"')
	transEnd := g.pos()
	g.record(s.SourceStart, s.SourceEnd, transStart, transEnd)
}

// pascalCase upper-cases the first code point of s and leaves the rest
// verbatim.
func pascalCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = toUpperRune(r[0])
	return string(r)
}

func toUpperRune(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && last == first {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func stripBraces(s string) string {
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	return s
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
