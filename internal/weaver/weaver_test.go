package weaver

import (
	"context"
	"strings"
	"testing"

	"github.com/xcs-lang/xcsc/internal/hostsyntax/backend/scanner"
	"github.com/xcs-lang/xcsc/internal/locator"
	"github.com/xcs-lang/xcsc/internal/sourcemap"
)

func weave(t *testing.T, src string) Payload {
	t.Helper()
	factory := scanner.NewFactory()
	parser, err := factory.NewParser()
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	defer parser.Close()

	ctx := context.Background()
	tree, err := parser.Parse(ctx, []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	regions, err := locator.Locate(ctx, tree, []byte(src))
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	return Weave([]byte(src), regions, DefaultOptions())
}

func TestWeaveIdentityOnPureHost(t *testing.T) {
	src := `class C { var x = 1; }`
	payload := weave(t, src)
	if payload.Content != src {
		t.Fatalf("got %q, want identity output %q", payload.Content, src)
	}
	if len(payload.SourceMaps) != 1 {
		t.Fatalf("expected 1 identity map entry, got %d", len(payload.SourceMaps))
	}
	e := payload.SourceMaps[0]
	if !e.IsIdentity() || e.OriginalStart != 0 || e.OriginalEnd != len(src) {
		t.Fatalf("expected a full-file identity entry, got %+v", e)
	}
}

func TestWeavePreservesHostTextAroundRegion(t *testing.T) {
	src := `class C { var e = (<div/>); }`
	payload := weave(t, src)
	if !strings.HasPrefix(payload.Content, "class C { var e = (") {
		t.Fatalf("expected host prefix preserved, got %q", payload.Content)
	}
	if !strings.HasSuffix(payload.Content, "); }") {
		t.Fatalf("expected host suffix preserved, got %q", payload.Content)
	}
}

func TestWeaveTotalCoverage(t *testing.T) {
	src := `class C { var e = (<div onclick={H}>hi</div>); }`
	payload := weave(t, src)
	covered := make([]bool, len(payload.Content))
	for _, e := range payload.SourceMaps {
		for i := e.TransformedStart; i < e.TransformedEnd; i++ {
			covered[i] = true
		}
	}
	for i, ok := range covered {
		if !ok {
			t.Fatalf("byte %d of derived output is not covered by any map entry: %q", i, payload.Content)
		}
	}
}

func TestWeaveMonotoneOrdering(t *testing.T) {
	src := `class C { var e = (<div>hello<span/></div>); }`
	payload := weave(t, src)
	sourcemap.SortByTransformedStart(payload.SourceMaps)
	for i := 1; i < len(payload.SourceMaps); i++ {
		if payload.SourceMaps[i].TransformedStart < payload.SourceMaps[i-1].TransformedStart {
			t.Fatalf("map entries not sorted ascending by TransformedStart: %+v", payload.SourceMaps)
		}
	}
}

func TestWeaveEmptyRegionIsPreservedVerbatim(t *testing.T) {
	// Bypasses the locator: an empty "()" region is woven directly to exercise Weave's own handling of a region whose
	// markup-only slice is empty, independent of whether the scanner
	// backend would ever surface such a region on its own.
	src := `var e = ();`
	openParen := strings.IndexByte(src, '(')
	closeParen := strings.IndexByte(src, ')')
	payload := Weave([]byte(src), []locator.Region{{Start: openParen, End: closeParen + 1}}, DefaultOptions())
	if payload.Content != src {
		t.Fatalf("got %q, want identity output %q", payload.Content, src)
	}
}

func TestWeaveOverlapSafety(t *testing.T) {
	// Two overlapping regions over the same markup, fed directly: only the
	// first (by Start) is processed, and the derived text stays well-formed.
	src := `f((<b/>));`
	start := strings.Index(src, "<b/>")
	regions := []locator.Region{
		{Start: start, End: start + len("<b/>")},
		{Start: start + 1, End: start + len("<b/>")},
	}
	payload := Weave([]byte(src), regions, DefaultOptions())
	if strings.Count(payload.Content, `"b"`) != 1 {
		t.Fatalf("expected the overlapping region to be woven exactly once, got %q", payload.Content)
	}
	if !strings.HasPrefix(payload.Content, "f((") || !strings.HasSuffix(payload.Content, "));") {
		t.Fatalf("expected host text around the region preserved, got %q", payload.Content)
	}
}
