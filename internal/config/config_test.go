package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSuppressionsFromFileSplitsOnSemicolonAndComma(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "proj.csproj")
	data := `<Project>
  <PropertyGroup>
    <NoWarn>1701;1702,CS0618</NoWarn>
  </PropertyGroup>
</Project>`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := LoadSuppressionsFromFile(path)
	if err != nil {
		t.Fatalf("LoadSuppressionsFromFile: %v", err)
	}
	want := map[string]bool{"CS1701": true, "CS1702": true, "CS0618": true}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for code := range want {
		if !got[code] {
			t.Fatalf("missing suppressed code %q in %v", code, got)
		}
	}
}

func TestFindProjectFileWalksParents(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "app.csproj"), []byte(`<Project/>`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	nested := filepath.Join(root, "src", "sub")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	path, foundRoot, err := FindProjectFile(nested)
	if err != nil {
		t.Fatalf("FindProjectFile: %v", err)
	}
	if foundRoot != root {
		t.Fatalf("got root %q, want %q", foundRoot, root)
	}
	if filepath.Base(path) != "app.csproj" {
		t.Fatalf("got path %q, want app.csproj", path)
	}
}

func TestLoadSuppressionsReturnsEmptyWhenNoProjectFile(t *testing.T) {
	dir := t.TempDir()
	got, err := LoadSuppressions(dir)
	if err != nil {
		t.Fatalf("LoadSuppressions: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty suppression set, got %v", got)
	}
}

func TestNormalizeCode(t *testing.T) {
	cases := map[string]string{
		"1701":    "CS1701",
		"CS0618":  "CS0618",
		"IDE0044": "IDE0044",
		"":        "",
	}
	for in, want := range cases {
		if got := normalizeCode(in); got != want {
			t.Errorf("normalizeCode(%q) = %q, want %q", in, got, want)
		}
	}
}
