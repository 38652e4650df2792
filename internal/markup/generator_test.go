package markup

import (
	"strings"
	"testing"

	"github.com/xcs-lang/xcsc/internal/lexer"
	"github.com/xcs-lang/xcsc/internal/sourcemap"
)

func generate(src string) (string, []sourcemap.Entry) {
	toks := lexer.Lex([]byte(src), 0, true).Tokens
	nodes := Build(toks, []byte(src))
	return Generate(nodes, "Document", "CreateElement")
}

func TestGeneratePlainElement(t *testing.T) {
	out, maps := generate(`<div/>`)
	if !strings.Contains(out, `"div"`) || !strings.Contains(out, "new DivProps()") {
		t.Fatalf("unexpected output: %q", out)
	}
	if len(maps) == 0 {
		t.Fatal("expected at least one map entry")
	}
}

func TestGenerateExpressionAttribute(t *testing.T) {
	out, maps := generate(`<btn onclick={H}/>`)
	if !strings.Contains(out, "new BtnProps { Onclick = H }") {
		t.Fatalf("unexpected output: %q", out)
	}
	idx := strings.Index(out, "Onclick = H") + len("Onclick = ")
	entry, ok := sourcemap.CoveringSmallest(maps, idx)
	if !ok {
		t.Fatal("expected a covering map entry")
	}
	if entry.TransformedEnd-entry.TransformedStart != 1 {
		t.Fatalf("expected a width-1 entry covering H, got width %d", entry.TransformedEnd-entry.TransformedStart)
	}
	src := []byte(`<btn onclick={H}/>`)
	got := string(src[entry.OriginalStart:entry.OriginalEnd])
	if got != "H" {
		t.Fatalf("got original text %q, want H", got)
	}
}

func TestGenerateNestedChildren(t *testing.T) {
	out, _ := generate(`<div>hello<span/></div>`)
	for _, want := range []string{`"div"`, "new DivProps()", `"hello"`, `"span"`, "new SpanProps()"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestGenerateLambdaWithNestedMarkup(t *testing.T) {
	out, _ := generate(`<ul>{xs.Map(x => <li/>)}</ul>`)
	for _, want := range []string{`"ul"`, "new UlProps()", "xs.Map(x =>", `"li"`, "new LiProps()"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestGenerateRawHybridExpression(t *testing.T) {
	out, _ := generate(`<div>{cond && <span/>}</div>`)
	for _, want := range []string{`"div"`, "cond && (", `"span"`, "new SpanProps()"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
	if strings.Contains(out, "<span/>") {
		t.Fatalf("raw markup leaked into generated output: %q", out)
	}
}

func TestGenerateNullAttributeValue(t *testing.T) {
	nodes := []Node{&Element{TagName: "div", Attributes: []Attribute{{Name: "onclick", Value: nil}}}}
	out, _ := Generate(nodes, "Document", "CreateElement")
	if !strings.Contains(out, "Onclick = null") {
		t.Fatalf("expected null attribute value, got %q", out)
	}
}

func TestGenerateEmptyNodesYieldsEmptyOutput(t *testing.T) {
	out, maps := Generate(nil, "Document", "CreateElement")
	if out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
	if len(maps) != 0 {
		t.Fatalf("expected no map entries, got %d", len(maps))
	}
}
