// Package coordinator implements the transformation coordinator: a
// passive wiring layer binding the expression locator and file weaver to
// externally supplied events ("a file was parsed" -> transform;
// "a file was removed" -> delete its derived counterpart), owning the
// workspace shadow-state map.
package coordinator

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/xcs-lang/xcsc/internal/hostsyntax"
	"github.com/xcs-lang/xcsc/internal/locator"
	"github.com/xcs-lang/xcsc/internal/weaver"
	"github.com/xcs-lang/xcsc/internal/workspace"
	"github.com/xcs-lang/xcsc/internal/writer"
)

// Transformed is the FileTransformed event dispatched after a successful
// transformation. CorrelationID stamps the event for log correlation
// across the debounce -> transform -> write -> diagnostic-translate
// pipeline.
type Transformed struct {
	CorrelationID string
	SourcePath    string
	DerivedPath   string
	Payload       weaver.Payload
}

// Coordinator binds the locator and weaver to the two workspace events
// above. It owns no state of its own beyond the workspace store and the
// project root; it performs no I/O scheduling (that belongs to
// internal/gate and the caller).
type Coordinator struct {
	Root          string
	Factory       hostsyntax.Factory
	WeaverOptions weaver.Options
	Store         *workspace.Store

	// OnTransformed, if set, is invoked after a successful transformation
	// and write, after Store already holds the new entry.
	OnTransformed func(Transformed)
}

// New constructs a Coordinator backed by a fresh workspace store.
func New(root string, factory hostsyntax.Factory) *Coordinator {
	return &Coordinator{
		Root:          root,
		Factory:       factory,
		WeaverOptions: weaver.DefaultOptions(),
		Store:         workspace.NewStore(),
	}
}

// FileParsed handles the "a file was parsed" event: if path ends with
// the distinguished extension and is not under Generated/, it runs the
// locator + weaver and dispatches a Transformed event. It is a no-op for
// any other path.
func (c *Coordinator) FileParsed(ctx context.Context, path string, src []byte) error {
	if !eligible(path) {
		return nil
	}

	parser, err := c.Factory.NewParser()
	if err != nil {
		return fmt.Errorf("init host-syntax parser: %w", err)
	}
	defer parser.Close()

	tree, err := parser.Parse(ctx, src)
	if err != nil {
		return fmt.Errorf("parse host syntax: %w", err)
	}

	regions, err := locator.Locate(ctx, tree, src)
	if err != nil {
		return fmt.Errorf("locate markup regions: %w", err)
	}

	payload := weaver.Weave(src, regions, c.WeaverOptions)

	derivedPath, err := writer.Write(c.Root, path, []byte(payload.Content))
	if err != nil {
		// Writer I/O failure: the transformation result is discarded for
		// this file; the caller is expected to release the processing gate
		// regardless so the next change event can retry.
		return fmt.Errorf("write derived file: %w", err)
	}

	c.Store.Put(path, workspace.FileMetadata{
		TargetPath:         derivedPath,
		TransformedContent: payload.Content,
		SourceMaps:         payload.SourceMaps,
	})

	if c.OnTransformed != nil {
		c.OnTransformed(Transformed{
			CorrelationID: uuid.NewString(),
			SourcePath:    path,
			DerivedPath:   derivedPath,
			Payload:       payload,
		})
	}
	return nil
}

// FileRemoved handles the "a file was removed" event: if a
// derived counterpart exists on disk, it is deleted, and the path's
// workspace shadow state is dropped.
func (c *Coordinator) FileRemoved(path string) error {
	if !eligible(path) {
		return nil
	}
	if err := writer.Remove(c.Root, path); err != nil {
		return fmt.Errorf("remove derived file: %w", err)
	}
	c.Store.Delete(path)
	return nil
}

func eligible(path string) bool {
	if writer.IsGenerated(path) {
		return false
	}
	return hasSuffix(path, writer.SourceExt)
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
