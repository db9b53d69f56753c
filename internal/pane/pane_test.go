package pane

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/corvidae/nib/internal/config"
	"github.com/corvidae/nib/internal/cursor"
)

func newTestPane(content string) *Pane {
	p := New(config.DefaultSettings(), 4, nil)
	if content != "" {
		p.buf.Insert(0, []byte(content))
	}
	return p
}

func TestHandleInsertAndUndo(t *testing.T) {
	p := newTestPane("hello world")
	p.Handle(MoveTo(cursor.AtByteOffset(5)))

	p.Handle(Insert(","))
	if got := string(p.buf.Bytes()); got != "hello, world" {
		t.Fatalf("after insert = %q", got)
	}
	if !p.Modified() {
		t.Fatal("Modified() = false after an edit")
	}

	p.Handle(Undo())
	if got := string(p.buf.Bytes()); got != "hello world" {
		t.Fatalf("after undo = %q, want original", got)
	}

	p.Handle(Redo())
	if got := string(p.buf.Bytes()); got != "hello, world" {
		t.Fatalf("after redo = %q", got)
	}
}

func TestHandleSelectAllThenDeleteBackward(t *testing.T) {
	p := newTestPane("abc")
	p.Handle(SelectAll())
	if start, end, ok := p.cursors.Primary().Selection(); !ok || start != 0 || end != 3 {
		t.Fatalf("selection after SelectAll = (%d,%d,%v), want (0,3,true)", start, end, ok)
	}

	p.Handle(DeleteBackward())
	if got := string(p.buf.Bytes()); got != "" {
		t.Fatalf("after deleting full selection = %q, want empty", got)
	}
}

func TestHandleFindWrapsAndReportsMiss(t *testing.T) {
	p := newTestPane("foo bar foo")
	p.Handle(Find("foo"))
	if start, end, ok := p.cursors.Primary().Selection(); !ok || start != 0 || end != 3 {
		t.Fatalf("first Find selection = (%d,%d,%v), want (0,3,true)", start, end, ok)
	}

	p.Handle(RepeatFind())
	if start, end, ok := p.cursors.Primary().Selection(); !ok || start != 8 || end != 11 {
		t.Fatalf("second Find selection = (%d,%d,%v), want (8,11,true)", start, end, ok)
	}

	p.Handle(RepeatFind())
	if start, end, ok := p.cursors.Primary().Selection(); !ok || start != 0 || end != 3 {
		t.Fatalf("wrapped Find selection = (%d,%d,%v), want (0,3,true)", start, end, ok)
	}

	p.Handle(Find("xyz"))
	msg, isErr := p.StatusMessage()
	if msg == "" || isErr {
		t.Fatalf("status after a miss = (%q,%v), want a non-error message", msg, isErr)
	}
}

func TestHandleQuickAddNextSpawnsCursor(t *testing.T) {
	p := newTestPane("foo bar foo bar foo")
	p.cursors.Primary().Offset = 0
	p.cursors.Primary().SelectTo(p.buf, cursor.Right(3))

	p.Handle(QuickAddNext())
	if p.cursors.CursorCount() != 2 {
		t.Fatalf("CursorCount() = %d, want 2", p.cursors.CursorCount())
	}
	start, end, ok := p.cursors.Primary().Selection()
	if !ok || start != 8 || end != 11 {
		t.Fatalf("new primary selection = (%d,%d,%v), want (8,11,true)", start, end, ok)
	}
}

func TestSaveAppliesTransformsWithoutMutatingBuffer(t *testing.T) {
	settings := config.DefaultSettings()
	settings.TrimTrailingWhitespace = true
	settings.InsertFinalNewline = true

	p := New(settings, 4, nil)
	p.buf.Insert(0, []byte("line one   \nline two"))

	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	p.Handle(SaveAs(path))

	if got := string(p.buf.Bytes()); got != "line one   \nline two" {
		t.Fatalf("live buffer was mutated by save: %q", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := string(data); got != "line one\nline two\n" {
		t.Fatalf("saved file = %q, want trimmed+final-newline form", got)
	}
	if p.Modified() {
		t.Fatal("Modified() = true immediately after a successful save")
	}
}

func TestSaveWithNoPathRecordsError(t *testing.T) {
	p := newTestPane("x")
	p.Handle(Save())
	msg, isErr := p.StatusMessage()
	if !isErr || msg == "" {
		t.Fatalf("StatusMessage() = (%q,%v), want an error", msg, isErr)
	}
}

func TestAdjustViewportKeepsPrimaryCursorPadded(t *testing.T) {
	p := newTestPane("")
	for i := 0; i < 30; i++ {
		p.buf.Insert(p.buf.Len(), []byte("line\n"))
	}
	p.SetViewportSize(80, 10)

	p.Handle(MoveTo(cursor.Location(25, 1)))
	if p.viewportRow == 0 {
		t.Fatal("viewport did not scroll to keep line 25 visible")
	}
	lastVisible := p.viewportRow + 10
	if 24 < p.viewportRow+2 || 24 >= lastVisible-2 {
		t.Fatalf("line 24 (0-based) not within padded viewport [%d,%d)", p.viewportRow, lastVisible)
	}
}
