package writer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDerivedPathComputesGeneratedLayout(t *testing.T) {
	root := "/proj"
	got, err := DerivedPath(root, "/proj/pages/home.xcs")
	if err != nil {
		t.Fatalf("DerivedPath: %v", err)
	}
	want := filepath.Join(root, "Generated", "pages", "home.cs")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDerivedPathRejectsPathOutsideRoot(t *testing.T) {
	_, err := DerivedPath("/proj", "/other/home.xcs")
	if err != ErrOutsideRoot {
		t.Fatalf("got err %v, want ErrOutsideRoot", err)
	}
}

func TestIsGenerated(t *testing.T) {
	if !IsGenerated("/proj/Generated/pages/home.cs") {
		t.Fatal("expected path under Generated/ to be reported as generated")
	}
	if IsGenerated("/proj/pages/home.xcs") {
		t.Fatal("expected ordinary source path to not be reported as generated")
	}
}

func TestWriteThenRemove(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "pages"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	sourcePath := filepath.Join(root, "pages", "home.xcs")

	derivedPath, err := Write(root, sourcePath, []byte("class Home {}"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := os.ReadFile(derivedPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "class Home {}" {
		t.Fatalf("got content %q", got)
	}

	if err := Remove(root, sourcePath); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(derivedPath); !os.IsNotExist(err) {
		t.Fatalf("expected derived file to be removed, stat err = %v", err)
	}
}

func TestRemoveIsNoOpWhenAlreadyAbsent(t *testing.T) {
	root := t.TempDir()
	sourcePath := filepath.Join(root, "home.xcs")
	if err := Remove(root, sourcePath); err != nil {
		t.Fatalf("Remove on absent derived file: %v", err)
	}
}
