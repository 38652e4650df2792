// Package selftest implements the CLI's --dev mode: an in-memory run of a
// fixed battery of end-to-end scenarios against the live pipeline, with no
// dependency on the filesystem or the testing package.
package selftest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xcs-lang/xcsc/internal/diagnostic"
	"github.com/xcs-lang/xcsc/internal/gate"
	"github.com/xcs-lang/xcsc/internal/hostsyntax"
	"github.com/xcs-lang/xcsc/internal/hostsyntax/backend/scanner"
	"github.com/xcs-lang/xcsc/internal/locator"
	"github.com/xcs-lang/xcsc/internal/weaver"
)

// Case is one self-test scenario's outcome.
type Case struct {
	Name   string
	Passed bool
	Detail string
}

// Run executes every scenario in-process and returns one Case per
// scenario, in a fixed order.
func Run(ctx context.Context) []Case {
	factory := scanner.NewFactory()
	return []Case{
		runWeave(ctx, factory, "A plain element", scenarioA),
		runWeave(ctx, factory, "B expression attribute", scenarioB),
		runWeave(ctx, factory, "C nested children", scenarioC),
		runWeave(ctx, factory, "D lambda with nested markup", scenarioD),
		scenarioE(),
		scenarioF(),
	}
}

// AllPassed reports whether every case passed.
func AllPassed(cases []Case) bool {
	for _, c := range cases {
		if !c.Passed {
			return false
		}
	}
	return true
}

type scenario struct {
	src    string
	assert func(payload string) (bool, string)
}

func runWeave(ctx context.Context, factory hostsyntax.Factory, name string, sc scenario) Case {
	src := []byte(sc.src)
	parser, err := factory.NewParser()
	if err != nil {
		return Case{Name: name, Passed: false, Detail: fmt.Sprintf("new parser: %v", err)}
	}
	defer parser.Close()

	tree, err := parser.Parse(ctx, src)
	if err != nil {
		return Case{Name: name, Passed: false, Detail: fmt.Sprintf("parse: %v", err)}
	}
	regions, err := locator.Locate(ctx, tree, src)
	if err != nil {
		return Case{Name: name, Passed: false, Detail: fmt.Sprintf("locate: %v", err)}
	}
	payload := weaver.Weave(src, regions, weaver.DefaultOptions())

	ok, detail := sc.assert(payload.Content)
	return Case{Name: name, Passed: ok, Detail: detail}
}

var scenarioA = scenario{
	src: `class C { var e = (<div/>); }`,
	assert: func(out string) (bool, string) {
		if !strings.HasPrefix(out, `class C { var e = (Document.CreateElement(`) {
			return false, fmt.Sprintf("unexpected prefix: %q", out)
		}
		return containsAll(out, `"div"`, `new DivProps()`)
	},
}

var scenarioB = scenario{
	src: `var e = (<btn onclick={H}/>);`,
	assert: func(out string) (bool, string) {
		return containsAll(out, `"btn"`, `new BtnProps { Onclick = H }`)
	},
}

var scenarioC = scenario{
	src: `var e = (<div>hello<span/></div>);`,
	assert: func(out string) (bool, string) {
		return containsAll(out, `"div"`, `new DivProps()`, `"hello"`, `"span"`, `new SpanProps()`)
	},
}

var scenarioD = scenario{
	src: `var e = (<ul>{xs.Map(x => <li/>)}</ul>);`,
	assert: func(out string) (bool, string) {
		return containsAll(out, `"ul"`, `new UlProps()`, `xs.Map(x =>`, `"li"`, `new LiProps()`)
	},
}

func containsAll(out string, substrs ...string) (bool, string) {
	for _, want := range substrs {
		if !strings.Contains(out, want) {
			return false, fmt.Sprintf("missing %q in %q", want, out)
		}
	}
	return true, ""
}

// scenarioE runs the diagnostic-projection scenario directly against
// internal/diagnostic, since it operates on a derived-file diagnostic
// rather than on the weaver's own output shape.
func scenarioE() Case {
	const name = "E diagnostic projection"
	source := []byte(`var e = (<btn onclick={H}/>);`)

	factory := scanner.NewFactory()
	parser, err := factory.NewParser()
	if err != nil {
		return Case{Name: name, Passed: false, Detail: err.Error()}
	}
	defer parser.Close()

	ctx := context.Background()
	tree, err := parser.Parse(ctx, source)
	if err != nil {
		return Case{Name: name, Passed: false, Detail: err.Error()}
	}
	regions, err := locator.Locate(ctx, tree, source)
	if err != nil {
		return Case{Name: name, Passed: false, Detail: err.Error()}
	}
	payload := weaver.Weave(source, regions, weaver.DefaultOptions())

	genIdx := strings.Index(payload.Content, "Onclick = H")
	if genIdx < 0 {
		return Case{Name: name, Passed: false, Detail: fmt.Sprintf("generated output missing Onclick = H: %q", payload.Content)}
	}
	offsetOfH := genIdx + len("Onclick = ")

	diag := diagnostic.Diagnostic{StartOffset: offsetOfH, Length: 1, Code: "CS0103", Severity: "error", Message: "name does not exist"}
	translated, ok := diagnostic.Translate(diag, false, 0, payload.SourceMaps, source)
	if !ok {
		return Case{Name: name, Passed: false, Detail: "no covering source-map entry"}
	}
	got := string(source[translated.Start:translated.End])
	if got != "H" {
		return Case{Name: name, Passed: false, Detail: fmt.Sprintf("translated range covers %q, want \"H\"", got)}
	}
	return Case{Name: name, Passed: true}
}

// scenarioF runs the debounce-coalescing scenario directly against
// internal/gate, using real timers: three events 20ms apart fire once, and
// a fourth after the debounce window fires again.
func scenarioF() Case {
	const name = "F debounce coalescing"
	g := gate.New()

	var fireCount int
	fired := make(chan struct{}, 4)
	fire := func(string) {
		fireCount++
		fired <- struct{}{}
	}

	g.OnChange("a.xcs", fire)
	time.Sleep(20 * time.Millisecond)
	g.OnChange("a.xcs", fire)
	time.Sleep(20 * time.Millisecond)
	g.OnChange("a.xcs", fire)

	select {
	case <-fired:
	case <-time.After(gate.DebounceDelay + 100*time.Millisecond):
		return Case{Name: name, Passed: false, Detail: "first coalesced transformation never fired"}
	}
	if fireCount != 1 {
		return Case{Name: name, Passed: false, Detail: fmt.Sprintf("expected exactly 1 invocation from the coalesced burst, got %d", fireCount)}
	}

	g.Release("a.xcs")
	time.Sleep(300 * time.Millisecond)
	g.OnChange("a.xcs", fire)

	select {
	case <-fired:
	case <-time.After(gate.DebounceDelay + 100*time.Millisecond):
		return Case{Name: name, Passed: false, Detail: "second invocation never fired"}
	}
	if fireCount != 2 {
		return Case{Name: name, Passed: false, Detail: fmt.Sprintf("expected exactly 2 invocations total, got %d", fireCount)}
	}
	return Case{Name: name, Passed: true}
}
