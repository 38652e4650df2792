// Package diagnostic implements the diagnostic translator: given a
// generated-file diagnostic range, it looks up the covering
// source-map entry and projects the range back into original-file
// coordinates, widening to the owning tag name when the covering node is a
// property container.
package diagnostic

import (
	"github.com/xcs-lang/xcsc/internal/sourcemap"
	itext "github.com/xcs-lang/xcsc/internal/text"
)

// Diagnostic is one downstream-compiler diagnostic referring to a derived
// file.
type Diagnostic struct {
	File        string
	StartOffset int
	Length      int
	Code        string
	Severity    string
	Message     string
}

// Translated is a Diagnostic re-expressed in original-file coordinates.
type Translated struct {
	Start    int
	End      int
	Line     int // 0-based
	Column   int // 0-based byte column
	Code     string
	Severity string
	Message  string
}

// propsSuffix marks a property container: an object-creation expression
// whose type identifier ends with "Props".
const propsSuffix = "Props"

// Translate projects a derived-file diagnostic back into original-file
// coordinates. isPropError and containerStart come from the caller's
// classification of the derived file's syntactic context (an
// object-creation expression whose type name ends in "Props");
// containerStart is ignored when isPropError is false. sourceMaps
// is the FileMetadata's source-map list for the derived file diag refers to;
// source is the corresponding original source text, used for line/column
// computation and the tag-name-width scan. It returns false if no map entry
// applies at all, in which case the diagnostic is dropped rather than
// mis-reported.
func Translate(diag Diagnostic, isPropError bool, containerStart int, sourceMaps []sourcemap.Entry, source []byte) (Translated, bool) {
	lookupPos := diag.StartOffset
	if isPropError {
		lookupPos = containerStart
	}

	entry, ok := sourcemap.CoveringSmallest(sourceMaps, lookupPos)
	if !ok {
		return Translated{}, false
	}

	rel := 0
	if !isPropError {
		rel = lookupPos - entry.TransformedStart
		if rel < 0 {
			rel = 0
		}
	}
	origPos := clamp(entry.OriginalStart+rel, 0, len(source))

	width := 1
	switch {
	case isPropError:
		width = tagNameWidth(source, origPos)
	case diag.Length > 1:
		width = diag.Length
	}
	end := clamp(origPos+width, 0, len(source))

	li := itext.NewLineIndex(source)
	startPt, err := li.OffsetToPoint(itext.ByteOffset(origPos))
	if err != nil {
		return Translated{}, false
	}

	return Translated{
		Start:    origPos,
		End:      end,
		Line:     startPt.Line,
		Column:   startPt.Column,
		Code:     diag.Code,
		Severity: diag.Severity,
		Message:  diag.Message,
	}, true
}

// tagNameWidth scans source from pos to compute the width of an optional
// leading '<' followed by the maximal run of letters, digits, '_', '.',
// with a minimum width of 1.
func tagNameWidth(source []byte, pos int) int {
	i := pos
	if i < len(source) && source[i] == '<' {
		i++
	}
	start := i
	for i < len(source) && isTagNameRune(source[i]) {
		i++
	}
	if i == start {
		return 1
	}
	return i - pos
}

func isTagNameRune(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '_' || b == '.':
		return true
	default:
		return false
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// HasPropsSuffix reports whether typeName ends with the "Props" suffix
// that marks an object-creation expression as a property container. A name
// that is exactly "Props", with nothing before the suffix, does not count.
func HasPropsSuffix(typeName string) bool {
	if len(typeName) <= len(propsSuffix) {
		return false
	}
	return typeName[len(typeName)-len(propsSuffix):] == propsSuffix
}
