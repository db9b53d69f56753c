package edit

import "github.com/corvidae/nib/internal/buffer"

// Point is a zero-based (line, byte-column) position within a buffer,
// matching tree-sitter's convention rather than the Navigator's
// grapheme-column convention — this is for incremental reparsing, not
// display.
type Point struct {
	Line int
	Col  int
}

// Notification is the buffer-relative edit-delta record the Edit
// Applicator emits once per Insert/Delete it performs: the byte and
// point ranges tree-sitter's incremental Tree.Edit expects. It carries
// no dependency on go-tree-sitter itself; translating it into a
// sitter.EditInput is internal/highlight's job.
type Notification struct {
	StartByte, OldEndByte, NewEndByte    int
	StartPoint, OldEndPoint, NewEndPoint Point
}

// Notifier receives one Notification per mutation the Edit Applicator
// performs. internal/highlight is the only implementation in this
// tree; the core never imports it back.
type Notifier interface {
	NotifyEdit(Notification)
}

func pointAt(buf buffer.Buffer, offset int) Point {
	line := buf.ByteToLine(offset)
	return Point{Line: line, Col: offset - buf.LineToByte(line)}
}

// advancePoint walks text from start, counting '\n'-terminated lines,
// and returns the point just past it.
func advancePoint(start Point, text []byte) Point {
	p := start
	for _, b := range text {
		if b == '\n' {
			p.Line++
			p.Col = 0
		} else {
			p.Col++
		}
	}
	return p
}
