package edit

import (
	"errors"
	"testing"

	"github.com/corvidae/nib/internal/buffer"
	"github.com/corvidae/nib/internal/cursor"
)

func TestFromEditsNonOverlappingDeletes(t *testing.T) {
	b := FromEdits([]Edit{
		Delete(15, 20),
		Delete(5, 10),
		Delete(25, 30),
	})
	edits := b.Edits()
	if len(edits) != 3 {
		t.Fatalf("len = %d, want 3", len(edits))
	}
	want := []Edit{Delete(5, 10), Delete(15, 20), Delete(25, 30)}
	for i, w := range want {
		if edits[i].Pos != w.Pos || edits[i].End != w.End {
			t.Errorf("edits[%d] = %+v, want %+v", i, edits[i], w)
		}
	}
}

func TestFromEditsClipsOverlappingDeletes(t *testing.T) {
	b := FromEdits([]Edit{
		Delete(10, 20),
		Delete(5, 15),
	})
	edits := b.Edits()
	if len(edits) != 2 {
		t.Fatalf("len = %d, want 2", len(edits))
	}
	if edits[0].Pos != 5 || edits[0].End != 10 {
		t.Fatalf("edits[0] = %+v, want Delete(5,10)", edits[0])
	}
	if edits[1].Pos != 10 || edits[1].End != 20 {
		t.Fatalf("edits[1] = %+v, want Delete(10,20)", edits[1])
	}
}

func TestFromEditsInsertBeforeDeleteAtSamePos(t *testing.T) {
	b := FromEdits([]Edit{Delete(10, 20), Insert(10, []byte("text"))})
	edits := b.Edits()
	if edits[0].Kind != KindInsert {
		t.Fatalf("edits[0].Kind = %v, want Insert first at equal pos", edits[0].Kind)
	}
}

// Spec scenario 6: edits [Delete(5..15), Insert(12,"mid"), Delete(20..30)]
// canonicalize to [Delete(5..12), Insert(12,"mid"), Delete(20..30)].
func TestFromEditsScenario6(t *testing.T) {
	b := FromEdits([]Edit{
		Delete(5, 15),
		Insert(12, []byte("mid")),
		Delete(20, 30),
	})
	edits := b.Edits()
	if len(edits) != 3 {
		t.Fatalf("len = %d, want 3", len(edits))
	}
	if edits[0].Kind != KindDelete || edits[0].Pos != 5 || edits[0].End != 12 {
		t.Errorf("edits[0] = %+v, want Delete(5,12)", edits[0])
	}
	if edits[1].Kind != KindInsert || edits[1].Pos != 12 || string(edits[1].Text) != "mid" {
		t.Errorf("edits[1] = %+v, want Insert(12,mid)", edits[1])
	}
	if edits[2].Kind != KindDelete || edits[2].Pos != 20 || edits[2].End != 30 {
		t.Errorf("edits[2] = %+v, want Delete(20,30)", edits[2])
	}
}

// Spec scenario 2: buffer "abab"; two cursors (0,anchor=2),(2,anchor=4);
// insert_with_cursors("x") yields "xx".
func TestInsertWithCursorsSameOffsetScenario(t *testing.T) {
	buf := buffer.NewRopeBufferFromBytes([]byte("abab"))
	mc := cursor.NewMultiCursor()
	mc.Primary().Offset = 0
	mc.SelectTo(buf, cursor.Right(2))
	if mc.Primary().Offset != 2 {
		t.Fatalf("primary offset after SelectTo Right(2) = %d, want 2", mc.Primary().Offset)
	}
	mc.SpawnNewPrimary(cursor.NewWithAnchor(2, 4))
	if mc.CursorCount() != 2 {
		t.Fatalf("CursorCount() = %d, want 2", mc.CursorCount())
	}

	batch := InsertWithCursors(mc, []byte("x"))
	Apply(buf, mc, batch, nil)
	if got := string(buf.Bytes()); got != "xx" {
		t.Fatalf("buffer = %q, want %q", got, "xx")
	}
}

// Spec scenario 3: buffer "hello xxxxx world"; cursor at offset 12;
// delete_word yields "hello world".
func TestDeleteWordAcrossSpaceScenario(t *testing.T) {
	buf := buffer.NewRopeBufferFromBytes([]byte("hello xxxxx world"))
	mc := cursor.NewMultiCursor()
	mc.MoveTo(buf, cursor.Right(12))
	if mc.Primary().Offset != 12 {
		t.Fatalf("offset = %d, want 12", mc.Primary().Offset)
	}

	batch := DeleteWord(mc, buf)
	Apply(buf, mc, batch, nil)
	if got := string(buf.Bytes()); got != "hello world" {
		t.Fatalf("buffer = %q, want %q", got, "hello world")
	}
}

// Spec scenario 4: buffer of 5 spaces; cursor at end; delete_backward
// with indent_width=4 yields a buffer of length 4.
func TestDeleteBackwardToTabStopScenario(t *testing.T) {
	buf := buffer.NewRopeBufferFromBytes([]byte("     "))
	mc := cursor.NewMultiCursor()
	mc.MoveTo(buf, cursor.End())

	batch := DeleteBackward(mc, buf, 4)
	Apply(buf, mc, batch, nil)
	if got := buf.Len(); got != 4 {
		t.Fatalf("Len() = %d, want 4", got)
	}
}

// Tab-stop width table: (indent length in spaces, indent_width) ->
// spaces remaining after one DeleteBackward from end-of-indent.
func TestDeleteBackwardTabStopWidths(t *testing.T) {
	cases := []struct {
		spaces, indentWidth, wantLen int
	}{
		{5, 4, 4},
		{7, 4, 4},
		{8, 4, 4},
		{2, 2, 0},
		{7, 2, 6},
		{7, 8, 0},
		{15, 8, 8},
	}
	for _, tc := range cases {
		buf := buffer.NewRopeBufferFromBytes(bytesRepeat(' ', tc.spaces))
		mc := cursor.NewMultiCursor()
		mc.MoveTo(buf, cursor.End())

		batch := DeleteBackward(mc, buf, tc.indentWidth)
		Apply(buf, mc, batch, nil)
		if got := buf.Len(); got != tc.wantLen {
			t.Errorf("spaces=%d indentWidth=%d: Len() = %d, want %d", tc.spaces, tc.indentWidth, got, tc.wantLen)
		}
	}
}

// Tabs in the prefix are never treated as a tab-stop run: DeleteBackward
// falls back to deleting a single grapheme.
func TestDeleteBackwardTabsFallBackToSingleGrapheme(t *testing.T) {
	cases := []struct{ before, after string }{
		{"", ""},
		{"\t", ""},
		{"\t\t", "\t"},
		{"\t\t ", "\t\t"},
		{"\t\t  ", "\t\t "},
	}
	for _, tc := range cases {
		buf := buffer.NewRopeBufferFromBytes([]byte(tc.before))
		mc := cursor.NewMultiCursor()
		mc.MoveTo(buf, cursor.End())

		batch := DeleteBackward(mc, buf, 4)
		Apply(buf, mc, batch, nil)
		if got := string(buf.Bytes()); got != tc.after {
			t.Errorf("before=%q: after=%q, want %q", tc.before, got, tc.after)
		}
	}
}

func bytesRepeat(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

// Spec scenario 5: buffer "    abc"; cursor at offset 2;
// insert_newline_keep_indent(eol="\n") yields "  \n    abc".
func TestInsertNewlineKeepIndentScenario(t *testing.T) {
	buf := buffer.NewRopeBufferFromBytes([]byte("    abc"))
	mc := cursor.NewMultiCursor()
	mc.MoveTo(buf, cursor.Right(2))

	batch := InsertNewlineKeepIndent(mc, buf, []byte("\n"))
	Apply(buf, mc, batch, nil)
	if got := string(buf.Bytes()); got != "  \n    abc" {
		t.Fatalf("buffer = %q, want %q", got, "  \n    abc")
	}
}

func TestMoveLinesUpSynthesizesTrailingNewline(t *testing.T) {
	buf := buffer.NewRopeBufferFromBytes([]byte("A\nB"))
	mc := cursor.NewMultiCursor()
	mc.MoveTo(buf, cursor.Down(1)) // cursor now on line "B"

	batch := MoveLinesUp(mc, buf)
	Apply(buf, mc, batch, nil)
	if got := string(buf.Bytes()); got != "B\nA\n" {
		t.Fatalf("buffer = %q, want %q", got, "B\nA\n")
	}
}

func TestMoveLinesDownSynthesizesTrailingNewline(t *testing.T) {
	buf := buffer.NewRopeBufferFromBytes([]byte("A\nB"))
	mc := cursor.NewMultiCursor() // cursor on line "A"

	batch := MoveLinesDown(mc, buf)
	Apply(buf, mc, batch, nil)
	if got := string(buf.Bytes()); got != "B\nA\n" {
		t.Fatalf("buffer = %q, want %q", got, "B\nA\n")
	}
}

func TestApplyProducesInverseThatUndoesBatch(t *testing.T) {
	buf := buffer.NewRopeBufferFromBytes([]byte("hello world"))
	mc := cursor.NewMultiCursor()
	mc.MoveTo(buf, cursor.AtByteOffset(5))

	batch := InsertWithCursors(mc, []byte(","))
	inverse := Apply(buf, mc, batch, nil)
	if got := string(buf.Bytes()); got != "hello, world" {
		t.Fatalf("after apply = %q", got)
	}

	Apply(buf, mc, inverse, nil)
	if got := string(buf.Bytes()); got != "hello world" {
		t.Fatalf("after inverse apply = %q, want original", got)
	}
}

func TestIndentDedentRoundTrip(t *testing.T) {
	buf := buffer.NewRopeBufferFromBytes([]byte("a\nb\n"))
	mc := cursor.NewMultiCursor()
	mc.SelectTo(buf, cursor.Down(1))
	mc.SelectTo(buf, cursor.Right(1))

	batch := Indent(mc, buf, []byte("  "))
	Apply(buf, mc, batch, nil)
	if got := string(buf.Bytes()); got != "  a\n  b\n" {
		t.Fatalf("after indent = %q", got)
	}

	dbatch := Dedent(mc, buf, 2, 4)
	Apply(buf, mc, dbatch, nil)
	if got := string(buf.Bytes()); got != "a\nb\n" {
		t.Fatalf("after dedent = %q, want original", got)
	}
}

func TestApplyInverseUndoesMultiCursorInsertWithoutPanicking(t *testing.T) {
	buf := buffer.NewRopeBufferFromBytes([]byte("abab"))
	mc := cursor.NewMultiCursor()
	mc.Primary().Offset = 0
	anchor := 2
	mc.Primary().Anchor = &anchor
	mc.SpawnNewPrimary(cursor.NewWithAnchor(2, 4))

	batch := InsertWithCursors(mc, []byte("x"))
	inverse := Apply(buf, mc, batch, nil)
	if got := string(buf.Bytes()); got != "xx" {
		t.Fatalf("after apply = %q, want %q", got, "xx")
	}

	Apply(buf, mc, inverse, nil)
	if got := string(buf.Bytes()); got != "abab" {
		t.Fatalf("after inverse apply = %q, want original %q", got, "abab")
	}
}

func TestApplyInverseUndoesMultiLineIndent(t *testing.T) {
	buf := buffer.NewRopeBufferFromBytes([]byte("a\nb\n"))
	mc := cursor.NewMultiCursor()
	mc.SelectTo(buf, cursor.Down(1))
	mc.SelectTo(buf, cursor.Right(1))

	batch := Indent(mc, buf, []byte("  "))
	inverse := Apply(buf, mc, batch, nil)
	if got := string(buf.Bytes()); got != "  a\n  b\n" {
		t.Fatalf("after indent = %q", got)
	}

	Apply(buf, mc, inverse, nil)
	if got := string(buf.Bytes()); got != "a\nb\n" {
		t.Fatalf("after inverse apply = %q, want original %q", got, "a\nb\n")
	}
}

func TestApplyPanicsOnOutOfRangeBatch(t *testing.T) {
	buf := buffer.NewRopeBufferFromBytes([]byte("abc"))
	mc := cursor.NewMultiCursor()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Apply with an out-of-range edit did not panic")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrInvariant) {
			t.Fatalf("recovered value = %v, want an error wrapping ErrInvariant", r)
		}
	}()

	batch := FromEdits([]Edit{Delete(0, 10)})
	Apply(buf, mc, batch, nil)
}
