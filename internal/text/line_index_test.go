package text

import "testing"

func TestOffsetToPointOverMarkupSource(t *testing.T) {
	t.Parallel()

	// A two-line XCS file: the second line's opening tag starts at offset 11.
	src := []byte("let a = 1;\n<div/>")
	idx := NewLineIndex(src)

	tests := map[ByteOffset]Point{
		0:  {Line: 0, Column: 0},
		10: {Line: 0, Column: 10}, // just before '\n'
		11: {Line: 1, Column: 0},  // '<'
		12: {Line: 1, Column: 1},  // 'd'
	}

	for off, want := range tests {
		got, err := idx.OffsetToPoint(off)
		if err != nil {
			t.Fatalf("OffsetToPoint(%d) error = %v", off, err)
		}
		if got != want {
			t.Fatalf("OffsetToPoint(%d) = %+v, want %+v", off, got, want)
		}
	}
}

func TestOffsetToPointOutOfRange(t *testing.T) {
	t.Parallel()

	idx := NewLineIndex([]byte("<p/>"))
	if _, err := idx.OffsetToPoint(ByteOffset(-1)); err == nil {
		t.Fatal("expected error for negative offset")
	}
	if _, err := idx.OffsetToPoint(ByteOffset(100)); err == nil {
		t.Fatal("expected error for offset past end of source")
	}
}

func TestOffsetToPointCRLFAndMixedNewlines(t *testing.T) {
	t.Parallel()

	src := []byte("a\r\nb\n\nc")
	idx := NewLineIndex(src)

	// Offsets at newline bytes stay on the preceding line for byte-column positions.
	cases := []struct {
		off  ByteOffset
		want Point
	}{
		{off: 0, want: Point{Line: 0, Column: 0}},
		{off: 1, want: Point{Line: 0, Column: 1}}, // '\r'
		{off: 2, want: Point{Line: 0, Column: 2}}, // '\n'
		{off: 3, want: Point{Line: 1, Column: 0}},
		{off: 4, want: Point{Line: 1, Column: 1}}, // '\n'
		{off: 5, want: Point{Line: 2, Column: 0}}, // empty line
		{off: 6, want: Point{Line: 3, Column: 0}},
		{off: 7, want: Point{Line: 3, Column: 1}}, // EOF
	}

	for _, tc := range cases {
		got, err := idx.OffsetToPoint(tc.off)
		if err != nil {
			t.Fatalf("OffsetToPoint(%d) error = %v", tc.off, err)
		}
		if got != tc.want {
			t.Fatalf("OffsetToPoint(%d) = %+v, want %+v", tc.off, got, tc.want)
		}
	}
}

// TestUTF16BridgeRoundTrip exercises the conversions the IDE server
// performs for published diagnostics and completion requests: an
// original-coordinate offset out to the UTF-16 position LSP expects, and a
// client-supplied UTF-16 completion position back to a byte offset.
func TestUTF16BridgeRoundTrip(t *testing.T) {
	t.Parallel()

	// Attribute value containing "é" (2 bytes, 1 UTF-16 unit) and an emoji
	// (4 bytes, 2 UTF-16 units), the kind of text an LSP client's editor
	// buffer indexes in UTF-16 but the weaver never sees as anything but bytes.
	src := []byte("aé😀\r\nz")
	idx := NewLineIndex(src)

	offsetCases := []struct {
		off  ByteOffset
		want UTF16Position
	}{
		{off: 0, want: UTF16Position{Line: 0, Character: 0}},
		{off: 1, want: UTF16Position{Line: 0, Character: 1}},
		{off: 3, want: UTF16Position{Line: 0, Character: 2}},
		{off: 7, want: UTF16Position{Line: 0, Character: 4}},
		{off: 8, want: UTF16Position{Line: 0, Character: 4}},  // '\r' canonicalized to line end
		{off: 9, want: UTF16Position{Line: 1, Character: 0}},  // start of next line
		{off: 10, want: UTF16Position{Line: 1, Character: 1}}, // EOF
	}

	for _, tc := range offsetCases {
		got, err := idx.OffsetToUTF16Position(tc.off)
		if err != nil {
			t.Fatalf("OffsetToUTF16Position(%d) error = %v", tc.off, err)
		}
		if got != tc.want {
			t.Fatalf("OffsetToUTF16Position(%d) = %+v, want %+v", tc.off, got, tc.want)
		}
	}

	for _, tc := range offsetCases {
		got, err := idx.UTF16PositionToOffset(tc.want)
		if err != nil {
			t.Fatalf("UTF16PositionToOffset(%+v) error = %v", tc.want, err)
		}
		if got != tc.off && tc.off != 8 { // 8 canonicalizes to the same position as 7
			t.Fatalf("UTF16PositionToOffset(%+v) = %d, want %d", tc.want, got, tc.off)
		}
	}

	if _, err := idx.UTF16PositionToOffset(UTF16Position{Line: 0, Character: 3}); err == nil {
		t.Fatal("expected error for surrogate-pair split position")
	}
	if _, err := idx.UTF16PositionToOffset(UTF16Position{Line: 0, Character: 5}); err == nil {
		t.Fatal("expected error for out-of-range UTF-16 character")
	}
	if _, err := idx.UTF16PositionToOffset(UTF16Position{Line: -1, Character: 0}); err == nil {
		t.Fatal("expected error for negative line")
	}
	if _, err := idx.UTF16PositionToOffset(UTF16Position{Line: 10, Character: 0}); err == nil {
		t.Fatal("expected error for out-of-range line")
	}
}

func TestUTF16ConversionsInvalidUTF8(t *testing.T) {
	t.Parallel()

	idx := NewLineIndex([]byte{0xff})
	if _, err := idx.OffsetToUTF16Position(1); err == nil {
		t.Fatal("expected error for invalid UTF-8 in OffsetToUTF16Position")
	}
	if _, err := idx.UTF16PositionToOffset(UTF16Position{Line: 0, Character: 1}); err == nil {
		t.Fatal("expected error for invalid UTF-8 in UTF16PositionToOffset")
	}
}
