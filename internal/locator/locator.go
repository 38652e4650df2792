// Package locator implements the expression locator: it walks the
// host-parsed syntax tree's candidate parenthesized-expression nodes and
// finds every one that opens with a markup tag, returning absolute
// (start,end) byte ranges over the original file.
package locator

import (
	"context"
	"sort"

	"github.com/xcs-lang/xcsc/internal/hostsyntax"
)

// Region is one embedded markup region: the (start,end) span of the
// markup itself, from the first '<' to one past the last '>' of the
// parenthesized expression that carries it.
type Region struct {
	Start int
	End   int
}

// Locate walks tree's candidate parenthesized-expression nodes and yields
// every qualifying markup region, sorted by Start ascending.
// src must be the same byte slice the tree was parsed from.
func Locate(ctx context.Context, tree *hostsyntax.Tree, src []byte) ([]Region, error) {
	if tree == nil {
		return nil, nil
	}
	var regions []Region
	for _, cand := range tree.Candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, ok := locateOne(src, cand.OpenParenOffset)
		if !ok {
			continue
		}
		regions = append(regions, r)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].Start < regions[j].Start })
	return regions, nil
}

// locateOne resolves a single candidate open paren offset to a markup
// region, or reports that it does not qualify.
func locateOne(src []byte, openParen int) (Region, bool) {
	if openParen < 0 || openParen >= len(src) || src[openParen] != '(' {
		return Region{}, false
	}

	// The first inner token must be '<': skipping anything other than
	// whitespace would carve markup regions out of ordinary host syntax
	// like casts and generic invocations — `(IEnumerable<string>)items`,
	// `(list.OfType<Foo>())`.
	xmlStart := nextNonSpace(src, openParen+1)
	if xmlStart < 0 || src[xmlStart] != '<' || !qualifies(src, xmlStart) {
		return Region{}, false
	}

	closeParen := matchingCloseParen(src, openParen)
	if closeParen < 0 {
		// Locator-unreachable region: skipped, caller logs.
		return Region{}, false
	}

	xmlEnd := lastCloseAngleBefore(src, closeParen)
	if xmlEnd < 0 || xmlEnd <= xmlStart {
		return Region{}, false
	}

	return Region{Start: xmlStart, End: xmlEnd}, true
}

// nextNonSpace finds the index of the first non-whitespace byte at or
// after from, or -1 if only whitespace remains.
func nextNonSpace(src []byte, from int) int {
	for i := from; i < len(src); i++ {
		if !isSpaceByte(src[i]) {
			return i
		}
	}
	return -1
}

// qualifies reports whether the '<' at idx is followed immediately by an
// identifier byte, distinguishing a markup tag from an arithmetic '<'.
func qualifies(src []byte, idx int) bool {
	if idx+1 >= len(src) {
		return false
	}
	return isIdentStart(src[idx+1])
}

// matchingCloseParen scans forward from openParen tracking '(' / ')'
// balance in the raw text, ignoring the host parser's own close-paren
// position.
func matchingCloseParen(src []byte, openParen int) int {
	depth := 0
	for i := openParen; i < len(src); i++ {
		switch src[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// lastCloseAngleBefore finds one past the index of the last '>' strictly
// before limit.
func lastCloseAngleBefore(src []byte, limit int) int {
	for i := limit - 1; i >= 0; i-- {
		if src[i] == '>' {
			return i + 1
		}
	}
	return -1
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func isIdentStart(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
		return true
	case b == '_':
		return true
	default:
		return false
	}
}
