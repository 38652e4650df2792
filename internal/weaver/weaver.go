// Package weaver implements the file weaver and source-map composer: for
// one file, it interleaves identity-mapped host slices with
// locator-found regions routed through Lexer -> AST Builder -> Code
// Generator, producing derived text and a global position-map list.
package weaver

import (
	"bytes"

	"github.com/xcs-lang/xcsc/internal/lexer"
	"github.com/xcs-lang/xcsc/internal/locator"
	"github.com/xcs-lang/xcsc/internal/markup"
	"github.com/xcs-lang/xcsc/internal/sourcemap"
)

// Options configures the factory-call identifiers emitted for each
// Element: F.M("tag", ...).
type Options struct {
	Factory string
	Method  string
}

// DefaultOptions returns the suggested default factory/method identifiers.
func DefaultOptions() Options {
	return Options{Factory: "Document", Method: "CreateElement"}
}

// Payload is the unit of output of the core: the complete derived text
// and the ordered source-map entries spanning it. The originating path is
// carried by the caller's event (internal/coordinator.Transformed), not
// here.
type Payload struct {
	Content    string
	SourceMaps []sourcemap.Entry
}

// Weave runs a single pass over src and regions, producing the derived text and the composed global source map. regions
// must already be sorted by Start ascending (internal/locator.Locate
// guarantees this).
func Weave(src []byte, regions []locator.Region, opts Options) Payload {
	if opts.Factory == "" || opts.Method == "" {
		d := DefaultOptions()
		if opts.Factory == "" {
			opts.Factory = d.Factory
		}
		if opts.Method == "" {
			opts.Method = d.Method
		}
	}

	var out bytes.Buffer
	var maps []sourcemap.Entry

	lastPos := 0
	transformedOffset := 0

	for _, r := range regions {
		if r.Start < lastPos {
			// Overlap guard: only the first yielded region of a group of
			// overlapping ones is processed.
			continue
		}
		if lastPos < r.Start {
			chunkLen := r.Start - lastPos
			maps = append(maps, sourcemap.Entry{
				OriginalStart:    lastPos,
				OriginalEnd:      r.Start,
				TransformedStart: transformedOffset,
				TransformedEnd:   transformedOffset + chunkLen,
			})
			out.Write(src[lastPos:r.Start])
			transformedOffset += chunkLen
		}

		raw := src[r.Start:r.End]
		prefix, xmlOnly, xmlRelStart, suffix := splitRegion(raw)

		out.Write(prefix)
		transformedOffset += len(prefix)

		tokens := lexer.Lex(xmlOnly, 0, true).Tokens
		nodes := markup.Build(tokens, xmlOnly)
		generated, localMaps := markup.Generate(nodes, opts.Factory, opts.Method)

		codeStart := transformedOffset
		out.WriteString(generated)
		transformedOffset += len(generated)

		regionBase := r.Start + xmlRelStart
		for _, lm := range localMaps {
			maps = append(maps, sourcemap.Entry{
				OriginalStart:    regionBase + lm.OriginalStart,
				OriginalEnd:      regionBase + lm.OriginalEnd,
				TransformedStart: codeStart + lm.TransformedStart,
				TransformedEnd:   codeStart + lm.TransformedEnd,
			})
		}

		out.Write(suffix)
		transformedOffset += len(suffix)

		lastPos = r.End
	}

	if lastPos < len(src) {
		maps = append(maps, sourcemap.Entry{
			OriginalStart:    lastPos,
			OriginalEnd:      len(src),
			TransformedStart: transformedOffset,
			TransformedEnd:   transformedOffset + (len(src) - lastPos),
		})
		out.Write(src[lastPos:])
	}

	sourcemap.SortByTransformedStart(maps)
	return Payload{Content: out.String(), SourceMaps: maps}
}

// splitRegion splits a locator-yielded raw region into its leading
// whitespace-and-optional-'(' prefix, the markup-only middle, and its
// trailing whitespace-and-optional-')' suffix. xmlRelStart is
// xmlOffsetOf(raw): the byte index of the first non-whitespace, non-'('
// byte within raw, used by the caller to translate local map offsets back
// to absolute file offsets.
func splitRegion(raw []byte) (prefix, xmlOnly []byte, xmlRelStart int, suffix []byte) {
	start := 0
	for start < len(raw) && (isSpace(raw[start]) || raw[start] == '(') {
		start++
	}
	end := len(raw)
	for end > start && (isSpace(raw[end-1]) || raw[end-1] == ')') {
		end--
	}
	return raw[:start], raw[start:end], start, raw[end:]
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}
