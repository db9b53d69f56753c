package history

import (
	"testing"

	"github.com/corvidae/nib/internal/buffer"
	"github.com/corvidae/nib/internal/cursor"
	"github.com/corvidae/nib/internal/edit"
)

func TestUndoRedoRoundTrip(t *testing.T) {
	buf := buffer.NewRopeBufferFromBytes([]byte("hello world"))
	mc := cursor.NewMultiCursor()
	mc.MoveTo(buf, cursor.AtByteOffset(5))
	h := New(0)

	before := mc.Clone()
	batch := edit.InsertWithCursors(mc, []byte(","))
	inverse := edit.Apply(buf, mc, batch, nil)
	h.Push(inverse, before)

	if got := string(buf.Bytes()); got != "hello, world" {
		t.Fatalf("after insert = %q", got)
	}
	if !h.CanUndo() || h.CanRedo() {
		t.Fatalf("CanUndo/CanRedo after one edit = %v/%v, want true/false", h.CanUndo(), h.CanRedo())
	}

	if ok := h.Undo(buf, mc, nil); !ok {
		t.Fatal("Undo() = false, want true")
	}
	if got := string(buf.Bytes()); got != "hello world" {
		t.Fatalf("after undo = %q, want original", got)
	}
	if mc.Primary().Offset != 5 {
		t.Fatalf("cursor after undo = %d, want 5", mc.Primary().Offset)
	}
	if h.CanUndo() || !h.CanRedo() {
		t.Fatalf("CanUndo/CanRedo after undo = %v/%v, want false/true", h.CanUndo(), h.CanRedo())
	}

	if ok := h.Redo(buf, mc, nil); !ok {
		t.Fatal("Redo() = false, want true")
	}
	if got := string(buf.Bytes()); got != "hello, world" {
		t.Fatalf("after redo = %q", got)
	}
	if mc.Primary().Offset != 6 {
		t.Fatalf("cursor after redo = %d, want 6", mc.Primary().Offset)
	}
}

func TestUndoOnEmptyStackIsNoop(t *testing.T) {
	buf := buffer.NewRopeBufferFromBytes([]byte("abc"))
	mc := cursor.NewMultiCursor()
	h := New(0)
	if h.Undo(buf, mc, nil) {
		t.Fatal("Undo() on empty history = true, want false")
	}
	if h.Redo(buf, mc, nil) {
		t.Fatal("Redo() on empty history = true, want false")
	}
}

func TestPushSkipsEmptyBatch(t *testing.T) {
	h := New(0)
	mc := cursor.NewMultiCursor()
	h.Push(edit.FromEdits(nil), mc)
	if h.CanUndo() {
		t.Fatal("Push(empty batch) recorded an undo entry")
	}
}

func TestPushClearsRedo(t *testing.T) {
	buf := buffer.NewRopeBufferFromBytes([]byte("ab"))
	mc := cursor.NewMultiCursor()
	h := New(0)

	before := mc.Clone()
	batch := edit.InsertWithCursors(mc, []byte("x"))
	inverse := edit.Apply(buf, mc, batch, nil)
	h.Push(inverse, before)
	h.Undo(buf, mc, nil)
	if !h.CanRedo() {
		t.Fatal("expected a redo entry after undo")
	}

	before2 := mc.Clone()
	batch2 := edit.InsertWithCursors(mc, []byte("y"))
	inverse2 := edit.Apply(buf, mc, batch2, nil)
	h.Push(inverse2, before2)

	if h.CanRedo() {
		t.Fatal("a fresh edit should clear the redo stack")
	}
}

func TestModifiedCookieTracksSaveState(t *testing.T) {
	buf := buffer.NewRopeBufferFromBytes([]byte("ab"))
	mc := cursor.NewMultiCursor()
	h := New(0)

	saved := h.SaveCookie()
	if h.Modified(saved) {
		t.Fatal("fresh history reports modified against its own cookie")
	}

	before := mc.Clone()
	batch := edit.InsertWithCursors(mc, []byte("x"))
	inverse := edit.Apply(buf, mc, batch, nil)
	h.Push(inverse, before)
	if !h.Modified(saved) {
		t.Fatal("history after an edit should report modified against the pre-edit cookie")
	}

	saved = h.SaveCookie()
	if h.Modified(saved) {
		t.Fatal("re-saving should clear modified status")
	}

	h.Undo(buf, mc, nil)
	if !h.Modified(saved) {
		t.Fatal("undoing past the save point should report modified")
	}
}
