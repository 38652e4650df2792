package coordinator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/xcs-lang/xcsc/internal/hostsyntax/backend/scanner"
)

func TestFileParsedWritesDerivedFileAndUpdatesStore(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "home.xcs")
	src := []byte(`class Home { var e = (<div/>); }`)

	var got Transformed
	c := New(root, scanner.NewFactory())
	c.OnTransformed = func(ev Transformed) { got = ev }

	if err := c.FileParsed(context.Background(), path, src); err != nil {
		t.Fatalf("FileParsed: %v", err)
	}

	if got.SourcePath != path {
		t.Fatalf("got SourcePath %q, want %q", got.SourcePath, path)
	}
	if got.CorrelationID == "" {
		t.Fatal("expected a non-empty correlation ID")
	}
	if _, err := os.Stat(got.DerivedPath); err != nil {
		t.Fatalf("expected derived file to exist: %v", err)
	}

	meta, ok := c.Store.Get(path)
	if !ok {
		t.Fatal("expected workspace store to hold metadata for path")
	}
	if meta.TargetPath != got.DerivedPath {
		t.Fatalf("got store TargetPath %q, want %q", meta.TargetPath, got.DerivedPath)
	}
}

func TestFileParsedIgnoresNonSourceExtension(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "readme.md")
	c := New(root, scanner.NewFactory())
	called := false
	c.OnTransformed = func(Transformed) { called = true }

	if err := c.FileParsed(context.Background(), path, []byte("hello")); err != nil {
		t.Fatalf("FileParsed: %v", err)
	}
	if called {
		t.Fatal("expected OnTransformed not to fire for a non-source path")
	}
}

func TestFileParsedIgnoresGeneratedPath(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Generated", "home.xcs")
	c := New(root, scanner.NewFactory())
	called := false
	c.OnTransformed = func(Transformed) { called = true }

	if err := c.FileParsed(context.Background(), path, []byte("class Home {}")); err != nil {
		t.Fatalf("FileParsed: %v", err)
	}
	if called {
		t.Fatal("expected OnTransformed not to fire for a path under Generated/")
	}
}

func TestFileRemovedDeletesDerivedFileAndStoreEntry(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "home.xcs")
	c := New(root, scanner.NewFactory())
	if err := c.FileParsed(context.Background(), path, []byte(`class Home { var e = (<div/>); }`)); err != nil {
		t.Fatalf("FileParsed: %v", err)
	}
	meta, ok := c.Store.Get(path)
	if !ok {
		t.Fatal("expected store entry after FileParsed")
	}

	if err := c.FileRemoved(path); err != nil {
		t.Fatalf("FileRemoved: %v", err)
	}
	if _, err := os.Stat(meta.TargetPath); !os.IsNotExist(err) {
		t.Fatalf("expected derived file to be removed, stat err = %v", err)
	}
	if _, ok := c.Store.Get(path); ok {
		t.Fatal("expected store entry to be deleted")
	}
}
