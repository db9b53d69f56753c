// Package edit implements the Edit Batch and Edit Applicator: a
// canonicalized list of Insert/Delete operations built by one of the
// named constructors below, and the applicator that replays a
// canonical batch against a buffer and cursor set, producing the
// inverse batch undo needs.
package edit

import (
	"bytes"
	"math"
	"sort"

	"github.com/corvidae/nib/internal/buffer"
	"github.com/corvidae/nib/internal/cursor"
)

// Kind tags an Edit as an insertion or a deletion.
type Kind int

const (
	KindInsert Kind = iota
	KindDelete
)

// Edit is a single Insert(pos, text) or Delete(pos, end), carrying
// absolute pre-batch offsets into the buffer the batch targets.
type Edit struct {
	Kind Kind
	Pos  int
	End  int // meaningful for KindDelete only
	Text []byte
}

// Insert returns an insertion of s at pos.
func Insert(pos int, s []byte) Edit {
	return Edit{Kind: KindInsert, Pos: pos, Text: s}
}

// Delete returns a deletion of the half-open range [start, end).
func Delete(start, end int) Edit {
	return Edit{Kind: KindDelete, Pos: start, End: end}
}

// EditBatch is a sorted, non-overlapping list of edits satisfying the
// canonicalization rules of FromEdits.
type EditBatch struct {
	edits []Edit
}

// IsEmpty reports whether the batch has no edits.
func (b *EditBatch) IsEmpty() bool {
	return b == nil || len(b.edits) == 0
}

// Edits returns the batch's edits in canonical (ascending-position)
// order. Callers must not mutate the returned slice.
func (b *EditBatch) Edits() []Edit {
	if b == nil {
		return nil
	}
	return b.edits
}

// FirstEditOffset returns the position of the batch's first edit, if
// any.
func (b *EditBatch) FirstEditOffset() (int, bool) {
	if b.IsEmpty() {
		return 0, false
	}
	return b.edits[0].Pos, true
}

func lessEdit(a, b Edit) bool {
	if a.Pos != b.Pos {
		return a.Pos < b.Pos
	}
	if a.Kind == KindInsert && b.Kind == KindDelete {
		return true
	}
	if a.Kind == KindDelete && b.Kind == KindInsert {
		return false
	}
	if a.Kind == KindDelete && b.Kind == KindDelete {
		return a.End < b.End
	}
	return false
}

// FromEdits sorts edits and clips overlapping deletes against
// whatever comes after them, so the result can be applied
// right-to-left against the un-mutated buffer without offset
// arithmetic. Empty deletes left over after clipping are dropped.
func FromEdits(edits []Edit) *EditBatch {
	sort.SliceStable(edits, func(i, j int) bool { return lessEdit(edits[i], edits[j]) })

	nextStart := math.MaxInt
	for i := len(edits) - 1; i >= 0; i-- {
		e := &edits[i]
		if e.Kind == KindDelete {
			if e.End > nextStart {
				e.End = nextStart
			}
			nextStart = e.Pos
		} else {
			nextStart = e.Pos
		}
	}

	out := edits[:0]
	for _, e := range edits {
		if e.Kind == KindDelete && e.End <= e.Pos {
			continue
		}
		out = append(out, e)
	}
	return &EditBatch{edits: out}
}

// InsertWithCursors builds the batch for inserting s at every cursor,
// replacing its selection if it has one.
func InsertWithCursors(cursors *cursor.MultiCursor, s []byte) *EditBatch {
	var edits []Edit
	for _, c := range cursors.Cursors() {
		edits = append(edits, Insert(c.Offset, s))
		if start, end, ok := c.Selection(); ok {
			edits = append(edits, Delete(start, end))
		}
	}
	return FromEdits(edits)
}

// InsertNewlineKeepIndent builds the batch for pressing Enter: insert
// eol followed by the cursor's current line indentation, replacing any
// selection.
func InsertNewlineKeepIndent(cursors *cursor.MultiCursor, buf buffer.Buffer, eol []byte) *EditBatch {
	var edits []Edit
	for _, c := range cursors.Cursors() {
		indent := c.CurrentLineIndentation(buf)
		ins := make([]byte, 0, len(eol)+len(indent))
		ins = append(ins, eol...)
		ins = append(ins, indent...)
		edits = append(edits, Insert(c.Offset, ins))
		if start, end, ok := c.Selection(); ok {
			edits = append(edits, Delete(start, end))
		}
	}
	return FromEdits(edits)
}

// InsertFromClipboard builds the batch for pasting clips: one clip per
// cursor if the counts match (multi-cursor paste), else the joined
// clips inserted at every cursor.
func InsertFromClipboard(cursors *cursor.MultiCursor, clips [][]byte) *EditBatch {
	if len(clips) == cursors.CursorCount() {
		var edits []Edit
		for i, c := range cursors.Cursors() {
			edits = append(edits, Insert(c.Offset, clips[i]))
			if start, end, ok := c.Selection(); ok {
				edits = append(edits, Delete(start, end))
			}
		}
		return FromEdits(edits)
	}
	return InsertWithCursors(cursors, bytes.Join(clips, nil))
}

// TransformSelections builds the batch that replaces each cursor's
// selection with transform(selectionText), when transform returns ok.
// A selection with no transformation result is simply deleted.
func TransformSelections(cursors *cursor.MultiCursor, buf buffer.Buffer, transform func([]byte) ([]byte, bool)) *EditBatch {
	var edits []Edit
	for _, c := range cursors.Cursors() {
		start, end, ok := c.Selection()
		if !ok {
			continue
		}
		if replacement, ok2 := transform(buf.Slice(start, end)); ok2 {
			edits = append(edits, Insert(start, replacement))
		}
		edits = append(edits, Delete(start, end))
	}
	return FromEdits(edits)
}

// Cut builds the batch for cutting: each cursor's selection if it has
// one, else its whole line (content only, terminator excluded, same
// as EndOfLine/StartOfLine).
func Cut(cursors *cursor.MultiCursor, buf buffer.Buffer) *EditBatch {
	var edits []Edit
	for _, c := range cursors.Cursors() {
		if start, end, ok := c.Selection(); ok {
			edits = append(edits, Delete(start, end))
			continue
		}
		edits = append(edits, Delete(c.LineStartOffset(buf), c.LineEndOffset(buf)))
	}
	return FromEdits(edits)
}

func isAllSpaces(b []byte) bool {
	for _, c := range b {
		if c != ' ' {
			return false
		}
	}
	return len(b) > 0
}

// DeleteBackward builds the batch for Backspace: each cursor's
// selection if it has one; otherwise one grapheme cluster, except when
// everything from the line's start up to the cursor is spaces (and
// there is at least one), in which case it deletes back to the
// previous tab stop instead.
func DeleteBackward(cursors *cursor.MultiCursor, buf buffer.Buffer, indentWidth int) *EditBatch {
	var edits []Edit
	for _, c := range cursors.Cursors() {
		if start, end, ok := c.Selection(); ok {
			edits = append(edits, Delete(start, end))
			continue
		}
		deletedCount := 1
		lineStart := c.LineStartOffset(buf)
		prefix := buf.Slice(lineStart, c.Offset)
		if isAllSpaces(prefix) {
			n := len(prefix) % indentWidth
			if n == 0 {
				n = indentWidth
			}
			deletedCount = n
		}
		a := c.LeftOffset(buf, deletedCount)
		b := c.Offset
		if a != b {
			edits = append(edits, Delete(a, b))
		}
	}
	return FromEdits(edits)
}

// DeleteWord builds the batch for word-backward delete: each cursor's
// selection if it has one; otherwise back to the previous word
// boundary, extending across a single separating space to the word
// before it.
func DeleteWord(cursors *cursor.MultiCursor, buf buffer.Buffer) *EditBatch {
	var edits []Edit
	for _, c := range cursors.Cursors() {
		if start, end, ok := c.Selection(); ok {
			edits = append(edits, Delete(start, end))
			continue
		}
		a := c.WordBoundaryLeftOffset(buf)
		b := c.Offset
		if a+1 == b && buf.Byte(a) == ' ' {
			probe := cursor.New(a)
			a = probe.WordBoundaryLeftOffset(buf)
		}
		edits = append(edits, Delete(a, b))
	}
	return FromEdits(edits)
}

// DeleteForward builds the batch for Delete: each cursor's selection
// if it has one; otherwise the one grapheme cluster to its right.
func DeleteForward(cursors *cursor.MultiCursor, buf buffer.Buffer) *EditBatch {
	var edits []Edit
	for _, c := range cursors.Cursors() {
		if start, end, ok := c.Selection(); ok {
			edits = append(edits, Delete(start, end))
			continue
		}
		a := c.Offset
		b := c.RightOffset(buf, 1)
		if a != b {
			edits = append(edits, Delete(a, b))
		}
	}
	return FromEdits(edits)
}

// Indent builds the batch that prepends indent to every line spanned
// by every cursor.
func Indent(cursors *cursor.MultiCursor, buf buffer.Buffer, indent []byte) *EditBatch {
	var edits []Edit
	for _, c := range cursors.Cursors() {
		first, lastExclusive := c.LineSpan(buf)
		for line := first; line < lastExclusive; line++ {
			edits = append(edits, Insert(buf.LineToByte(line), indent))
		}
	}
	return FromEdits(edits)
}

// Dedent builds the batch that removes up to indentWidth columns of
// leading whitespace (tabs counting as tabWidth columns) from every
// line spanned by every cursor.
func Dedent(cursors *cursor.MultiCursor, buf buffer.Buffer, indentWidth, tabWidth int) *EditBatch {
	var edits []Edit
	for _, c := range cursors.Cursors() {
		first, lastExclusive := c.LineSpan(buf)
		for line := first; line < lastExclusive; line++ {
			start := buf.LineToByte(line)
			end := start
			removedWidth := 0
		dedentLine:
			for removedWidth < indentWidth && end < buf.Len() {
				switch buf.Byte(end) {
				case ' ':
					removedWidth++
				case '\t':
					removedWidth += tabWidth
				default:
					break dedentLine
				}
				end++
			}
			if end > start {
				edits = append(edits, Delete(start, end))
			}
		}
	}
	return FromEdits(edits)
}

func lineHasTerminator(buf buffer.Buffer, line int) bool {
	content := buf.Line(line)
	n := len(content)
	if n == 0 {
		return false
	}
	return content[n-1] == '\n' || content[n-1] == '\r'
}

// MoveLinesUp builds the batch that swaps every cursor's line span
// with the line immediately above it (equivalent to moving that
// previous line down, which keeps cursor offsets on the moved lines
// correct without special-casing). Synthesizes a missing trailing
// newline when the moved span was the buffer's unterminated last line.
func MoveLinesUp(cursors *cursor.MultiCursor, buf buffer.Buffer) *EditBatch {
	ranges := cursors.LineRanges(buf)
	var edits []Edit
	for i := len(ranges) - 1; i >= 0; i-- {
		span := ranges[i]
		if span.Start == 0 {
			continue
		}
		prevStart := buf.LineToByte(span.Start - 1)
		prevEnd := buf.LineToByte(span.Start)
		end := buf.LineToByte(span.EndExclusive)

		moved := append([]byte{}, buf.Slice(prevStart, prevEnd)...)
		lastMovedLine := span.EndExclusive - 1
		if !lineHasTerminator(buf, lastMovedLine) {
			moved = append([]byte("\n"), moved...)
		}
		edits = append(edits, Insert(end, moved))
		edits = append(edits, Delete(prevStart, prevEnd))
	}
	return FromEdits(edits)
}

// MoveLinesDown is the symmetric counterpart of MoveLinesUp: it moves
// the line immediately following each cursor's span up past it. If
// there is no following line, a bare "\n" is synthesized.
func MoveLinesDown(cursors *cursor.MultiCursor, buf buffer.Buffer) *EditBatch {
	ranges := cursors.LineRanges(buf)
	var edits []Edit
	for i := len(ranges) - 1; i >= 0; i-- {
		span := ranges[i]
		start := buf.LineToByte(span.Start)
		nextLineIdx := span.EndExclusive

		var moved []byte
		if nextLineIdx >= buf.LineCount() {
			moved = []byte("\n")
		} else {
			nextStart := buf.LineToByte(nextLineIdx)
			nextEnd := nextStart + len(buf.Line(nextLineIdx))
			if nextStart == nextEnd {
				moved = []byte("\n")
			} else {
				moved = append([]byte{}, buf.Slice(nextStart, nextEnd)...)
				if !lineHasTerminator(buf, nextLineIdx) {
					moved = append(moved, '\n')
				}
				edits = append(edits, Delete(nextStart, nextEnd))
			}
		}
		edits = append(edits, Insert(start, moved))
	}
	return FromEdits(edits)
}
