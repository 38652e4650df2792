package diagnostic

import (
	"context"
	"strings"
	"testing"

	"github.com/xcs-lang/xcsc/internal/hostsyntax/backend/scanner"
	"github.com/xcs-lang/xcsc/internal/locator"
	"github.com/xcs-lang/xcsc/internal/weaver"
)

func weaveSrc(t *testing.T, src []byte) weaver.Payload {
	t.Helper()
	factory := scanner.NewFactory()
	parser, err := factory.NewParser()
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	defer parser.Close()

	ctx := context.Background()
	tree, err := parser.Parse(ctx, src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	regions, err := locator.Locate(ctx, tree, src)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	return weaver.Weave(src, regions, weaver.DefaultOptions())
}

func TestTranslateProjectsExpressionAttributeValue(t *testing.T) {
	src := []byte(`var e = (<btn onclick={H}/>);`)
	payload := weaveSrc(t, src)

	idx := strings.Index(payload.Content, "Onclick = H") + len("Onclick = ")
	diag := Diagnostic{StartOffset: idx, Length: 1, Code: "CS0103", Severity: "error", Message: "name does not exist"}
	got, ok := Translate(diag, false, 0, payload.SourceMaps, src)
	if !ok {
		t.Fatal("expected a covering source-map entry")
	}
	if string(src[got.Start:got.End]) != "H" {
		t.Fatalf("got original text %q, want H", string(src[got.Start:got.End]))
	}
}

func TestTranslatePropErrorWidensToTagName(t *testing.T) {
	src := []byte(`var e = (<btn onclick={H}/>);`)
	payload := weaveSrc(t, src)

	idx := strings.Index(payload.Content, "Onclick")
	if idx < 0 {
		t.Fatalf("generated output missing Onclick: %q", payload.Content)
	}
	isProp, containerStart := ClassifyContext([]byte(payload.Content), idx)
	if !isProp {
		t.Fatalf("expected offset %d to classify as a property-container error", idx)
	}

	diag := Diagnostic{StartOffset: idx, Length: 7, Code: "CS0117", Severity: "error", Message: "no such member"}
	got, ok := Translate(diag, isProp, containerStart, payload.SourceMaps, src)
	if !ok {
		t.Fatal("expected a covering source-map entry")
	}
	if string(src[got.Start:got.End]) != "<btn" {
		t.Fatalf("got original text %q, want the owning tag name \"<btn\"", string(src[got.Start:got.End]))
	}
}

func TestClassifyContextOutsideInitializerIsNotPropError(t *testing.T) {
	derived := []byte(`Document.CreateElement("btn", new BtnProps { Onclick = H })`)
	isProp, _ := ClassifyContext(derived, strings.Index(string(derived), `"btn"`))
	if isProp {
		t.Fatal("expected an offset outside the initializer to not classify as a prop error")
	}
}

func TestTranslateNoCoveringEntryIsDropped(t *testing.T) {
	_, ok := Translate(Diagnostic{StartOffset: 0}, false, 0, nil, []byte("x"))
	if ok {
		t.Fatal("expected Translate to report no covering entry for an empty map")
	}
}

func TestHasPropsSuffix(t *testing.T) {
	cases := map[string]bool{
		"BtnProps": true,
		"Btn":      false,
		"Props":    false,
		"":         false,
	}
	for in, want := range cases {
		if got := HasPropsSuffix(in); got != want {
			t.Errorf("HasPropsSuffix(%q) = %v, want %v", in, got, want)
		}
	}
}
