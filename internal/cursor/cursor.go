package cursor

import "github.com/corvidae/nib/internal/buffer"

// Offset is a byte offset into a Buffer, always required to land on a
// grapheme-cluster boundary.
type Offset = int

// Cursor is a single insertion point plus an optional selection
// anchor. A nil Anchor means no selection; Anchor == Offset is
// normalized away to nil by every mutator (an empty selection is not
// a selection).
type Cursor struct {
	Offset Offset
	Anchor *Offset

	// stickyColumn remembers the grapheme column the cursor had at the
	// first Up/Down of a run, so that the rest of the run tracks a
	// consistent visual column across lines of varying length,
	// instead of snapping to whatever the line happens to clamp to.
	// Reset by every motion other than Up/Down.
	stickyColumn *int
}

// New returns a cursor with no selection at offset.
func New(offset Offset) *Cursor {
	return &Cursor{Offset: offset}
}

// NewWithAnchor returns a cursor with offset and an active selection
// anchored at anchor, unless they are equal (no selection).
func NewWithAnchor(offset, anchor Offset) *Cursor {
	c := &Cursor{Offset: offset}
	if anchor != offset {
		a := anchor
		c.Anchor = &a
	}
	return c
}

// HasSelection reports whether the cursor has a non-empty selection.
func (c *Cursor) HasSelection() bool {
	return c.Anchor != nil && *c.Anchor != c.Offset
}

// Selection returns the normalized [start, end) selection range, and
// whether one exists.
func (c *Cursor) Selection() (start, end Offset, ok bool) {
	if c.Anchor == nil || *c.Anchor == c.Offset {
		return 0, 0, false
	}
	a := *c.Anchor
	if a < c.Offset {
		return a, c.Offset, true
	}
	return c.Offset, a, true
}

// Deselect drops any active selection, leaving Offset unchanged.
func (c *Cursor) Deselect() {
	c.Anchor = nil
}

func (c *Cursor) normalizeAnchor() {
	if c.Anchor != nil && *c.Anchor == c.Offset {
		c.Anchor = nil
	}
}

// MoveTo resolves target and repositions the cursor there, collapsing
// any selection. As a special case, Left(1) and Right(1) against an
// active selection move to the near/far edge of that selection instead
// of stepping one grapheme cluster from Offset — matching the
// "escape a selection" idiom most modal-free editors use for the bare
// arrow keys.
func (c *Cursor) MoveTo(buf buffer.Buffer, target MoveTarget) {
	if target.Kind == TargetLeft && target.N == 1 {
		if start, _, ok := c.Selection(); ok {
			c.Offset = start
			c.Anchor = nil
			c.stickyColumn = nil
			return
		}
	}
	if target.Kind == TargetRight && target.N == 1 {
		if _, end, ok := c.Selection(); ok {
			c.Offset = end
			c.Anchor = nil
			c.stickyColumn = nil
			return
		}
	}
	c.Offset = c.resolve(buf, target)
	c.Anchor = nil
	if !target.isVertical() {
		c.stickyColumn = nil
	}
}

// SelectTo resolves target and extends the selection to it, planting
// an anchor at the current Offset first if none exists yet.
func (c *Cursor) SelectTo(buf buffer.Buffer, target MoveTarget) {
	if c.Anchor == nil {
		a := c.Offset
		c.Anchor = &a
	}
	c.Offset = c.resolve(buf, target)
	c.normalizeAnchor()
	if !target.isVertical() {
		c.stickyColumn = nil
	}
}

// SetSelectionAnchorOffset places the selection directly at [anchor,
// offset), bypassing MoveTarget resolution — used by search-driven
// selection (Pane.Find/QuickAddNext) rather than grapheme-stepped
// motion. Resets stickyColumn like any other non-vertical repositioning.
func (c *Cursor) SetSelectionAnchorOffset(anchor, offset Offset) {
	c.Offset = offset
	if anchor == offset {
		c.Anchor = nil
	} else {
		a := anchor
		c.Anchor = &a
	}
	c.stickyColumn = nil
}

// IsAtStartOfLine reports whether Offset sits at the first byte of its
// line.
func (c *Cursor) IsAtStartOfLine(buf buffer.Buffer) bool {
	line := buf.ByteToLine(c.Offset)
	return c.Offset == buf.LineToByte(line)
}

// CurrentLineIndentation returns the leading run of spaces and tabs on
// the cursor's line, used by insert_newline_keep_indent.
func (c *Cursor) CurrentLineIndentation(buf buffer.Buffer) []byte {
	line := buf.ByteToLine(c.Offset)
	start := buf.LineToByte(line)
	end := lineContentEnd(buf, line)
	content := buf.Slice(start, end)
	i := 0
	for i < len(content) && (content[i] == ' ' || content[i] == '\t') {
		i++
	}
	return content[:i]
}

// LineSpan returns the half-open line range [first, last+1) the
// cursor's selection (or bare position, if none) touches.
func (c *Cursor) LineSpan(buf buffer.Buffer) (first, lastExclusive int) {
	lo, hi := c.Offset, c.Offset
	if start, end, ok := c.Selection(); ok {
		lo, hi = start, end
	}
	first = buf.ByteToLine(lo)
	last := buf.ByteToLine(hi)
	return first, last + 1
}

// LineStartOffset returns the first byte of the cursor's current line,
// without mutating the cursor.
func (c *Cursor) LineStartOffset(buf buffer.Buffer) Offset {
	return c.resolve(buf, StartOfLine())
}

// LineEndOffset returns the byte just before the cursor's current
// line's terminator (or the buffer's length on the last unterminated
// line), without mutating the cursor.
func (c *Cursor) LineEndOffset(buf buffer.Buffer) Offset {
	return c.resolve(buf, EndOfLine())
}

// LeftOffset returns the offset n grapheme clusters to the left of the
// cursor, clamped at the start of the buffer, without mutating it.
func (c *Cursor) LeftOffset(buf buffer.Buffer, n int) Offset {
	return c.resolve(buf, Left(n))
}

// RightOffset returns the offset n grapheme clusters to the right of
// the cursor, clamped at the end of the buffer, without mutating it.
func (c *Cursor) RightOffset(buf buffer.Buffer, n int) Offset {
	return c.resolve(buf, Right(n))
}

// WordBoundaryLeftOffset returns the nearest Unicode word boundary to
// the left of the cursor, without mutating it.
func (c *Cursor) WordBoundaryLeftOffset(buf buffer.Buffer) Offset {
	return c.resolve(buf, NextWordBoundaryLeft())
}

// WordBoundaryRightOffset returns the nearest Unicode word boundary to
// the right of the cursor, without mutating it.
func (c *Cursor) WordBoundaryRightOffset(buf buffer.Buffer) Offset {
	return c.resolve(buf, NextWordBoundaryRight())
}

func (c *Cursor) resolve(buf buffer.Buffer, target MoveTarget) Offset {
	switch target.Kind {
	case TargetLeft:
		off := c.Offset
		for i := 0; i < target.N; i++ {
			prev, ok := buf.Navigator().PrevBoundary(off)
			if !ok {
				break
			}
			off = prev
		}
		return off

	case TargetRight:
		off := c.Offset
		for i := 0; i < target.N; i++ {
			next, ok := buf.Navigator().NextBoundary(off)
			if !ok {
				break
			}
			off = next
		}
		return off

	case TargetUp, TargetDown:
		col := c.stickyColumn
		if col == nil {
			cc := buf.ByteToColumn(c.Offset)
			col = &cc
			c.stickyColumn = col
		}
		curLine := buf.ByteToLine(c.Offset)
		var targetLine int
		if target.Kind == TargetUp {
			targetLine = curLine - target.N
		} else {
			targetLine = curLine + target.N
		}
		if targetLine < 0 {
			targetLine = 0
		}
		if targetLine >= buf.LineCount() {
			targetLine = buf.LineCount() - 1
		}
		lineStart := buf.LineToByte(targetLine)
		lineEnd := lineContentEnd(buf, targetLine)
		return columnToOffset(buf, lineStart, lineEnd, *col)

	case TargetStart:
		return 0

	case TargetEnd:
		return buf.Len()

	case TargetStartOfLine:
		line := buf.ByteToLine(c.Offset)
		return buf.LineToByte(line)

	case TargetEndOfLine:
		line := buf.ByteToLine(c.Offset)
		return lineContentEnd(buf, line)

	case TargetLocation:
		line := target.Line - 1
		if line < 0 {
			line = 0
		}
		if line >= buf.LineCount() {
			line = buf.LineCount() - 1
		}
		lineStart := buf.LineToByte(line)
		lineEnd := lineContentEnd(buf, line)
		col := target.Col - 1
		if col < 0 {
			col = 0
		}
		return columnToOffset(buf, lineStart, lineEnd, col)

	case TargetByteOffset:
		off := target.N
		if off < 0 {
			off = 0
		}
		if off > buf.Len() {
			off = buf.Len()
		}
		return off

	case TargetNextWordBoundaryLeft:
		if prev, ok := buf.Navigator().PrevWordBoundary(c.Offset); ok {
			return prev
		}
		return 0

	case TargetNextWordBoundaryRight:
		if next, ok := buf.Navigator().NextWordBoundary(c.Offset); ok {
			return next
		}
		return buf.Len()

	case TargetMatchingPair:
		if m, ok := matchingPair(buf, c.Offset); ok {
			return m
		}
		return c.Offset
	}
	return c.Offset
}

// lineContentEnd returns the byte offset just before line's terminator
// (or the line's length, on an unterminated final line).
func lineContentEnd(buf buffer.Buffer, line int) int {
	start := buf.LineToByte(line)
	content := buf.Line(line)
	end := start + len(content)
	n := len(content)
	if n >= 2 && content[n-2] == '\r' && content[n-1] == '\n' {
		return end - 2
	}
	if n >= 1 && (content[n-1] == '\n' || content[n-1] == '\r') {
		return end - 1
	}
	return end
}

// columnToOffset walks col grapheme clusters forward from lineStart,
// clamped to lineEnd.
func columnToOffset(buf buffer.Buffer, lineStart, lineEnd, col int) Offset {
	nav := buf.Navigator()
	offset := lineStart
	for i := 0; i < col; i++ {
		next, ok := nav.NextBoundary(offset)
		if !ok || next > lineEnd {
			break
		}
		offset = next
	}
	if offset > lineEnd {
		offset = lineEnd
	}
	return offset
}

var bracketClose = map[byte]byte{'(': ')', '[': ']', '{': '}'}
var bracketOpen = map[byte]byte{')': '(', ']': '[', '}': '{'}

// matchingPair scans for the bracket that balances the one at offset,
// if any, by simple nesting depth in the appropriate direction.
func matchingPair(buf buffer.Buffer, offset int) (Offset, bool) {
	if offset >= buf.Len() {
		return 0, false
	}
	b := buf.Byte(offset)
	if close, ok := bracketClose[b]; ok {
		depth := 0
		for i := offset; i < buf.Len(); i++ {
			switch buf.Byte(i) {
			case b:
				depth++
			case close:
				depth--
				if depth == 0 {
					return i, true
				}
			}
		}
		return 0, false
	}
	if open, ok := bracketOpen[b]; ok {
		depth := 0
		for i := offset; i >= 0; i-- {
			switch buf.Byte(i) {
			case b:
				depth++
			case open:
				depth--
				if depth == 0 {
					return i, true
				}
			}
			if i == 0 {
				break
			}
		}
		return 0, false
	}
	return 0, false
}
