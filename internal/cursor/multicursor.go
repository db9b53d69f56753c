package cursor

import (
	"sort"

	"github.com/corvidae/nib/internal/buffer"
)

// MultiCursor is the ordered, non-empty set of cursors a pane edits
// through, with a distinguished primary.
type MultiCursor struct {
	cursors []*Cursor
	primary int
}

// NewMultiCursor returns a set containing a single cursor at offset 0.
func NewMultiCursor() *MultiCursor {
	return &MultiCursor{cursors: []*Cursor{New(0)}, primary: 0}
}

// Primary returns the primary cursor.
func (m *MultiCursor) Primary() *Cursor {
	return m.cursors[m.primary]
}

// Cursors returns the live cursor slice in insertion order. Callers
// may mutate the returned cursors directly (the Rust original's
// iter_mut equivalent); they must not retain the slice across a
// SpawnNewPrimary or Dedup call, which may reallocate it.
func (m *MultiCursor) Cursors() []*Cursor {
	return m.cursors
}

// CursorCount returns the number of live cursors.
func (m *MultiCursor) CursorCount() int {
	return len(m.cursors)
}

// SpawnNewPrimary appends c to the set and makes it the new primary.
func (m *MultiCursor) SpawnNewPrimary(c *Cursor) {
	m.cursors = append(m.cursors, c)
	m.primary = len(m.cursors) - 1
}

// Esc clears every selection and drops every cursor but the current
// primary, which becomes cursor 0.
func (m *MultiCursor) Esc() {
	p := m.Primary()
	p.Deselect()
	m.cursors = []*Cursor{p}
	m.primary = 0
}

// MoveTo applies target to every cursor via Cursor.MoveTo.
func (m *MultiCursor) MoveTo(buf buffer.Buffer, target MoveTarget) {
	for _, c := range m.cursors {
		c.MoveTo(buf, target)
	}
}

// SelectTo applies target to every cursor via Cursor.SelectTo.
func (m *MultiCursor) SelectTo(buf buffer.Buffer, target MoveTarget) {
	for _, c := range m.cursors {
		c.SelectTo(buf, target)
	}
}

// UpdatePositionsInsertion shifts every cursor's offset and anchor to
// account for an insertion of length l at pos: o >= pos becomes o+l.
func (m *MultiCursor) UpdatePositionsInsertion(pos, l int) {
	for _, c := range m.cursors {
		if c.Offset >= pos {
			c.Offset += l
		}
		if c.Anchor != nil && *c.Anchor >= pos {
			*c.Anchor += l
		}
		c.normalizeAnchor()
	}
}

// UpdatePositionsDeletion shifts every cursor's offset and anchor to
// account for the removal of [s, e): offsets in [0,s] are unchanged,
// offsets in (s,e] clamp to s, offsets > e shift down by (e-s).
func (m *MultiCursor) UpdatePositionsDeletion(s, e int) {
	shift := func(o int) int {
		switch {
		case o <= s:
			return o
		case o <= e:
			return s
		default:
			return o - (e - s)
		}
	}
	for _, c := range m.cursors {
		c.Offset = shift(c.Offset)
		if c.Anchor != nil {
			a := shift(*c.Anchor)
			c.Anchor = &a
		}
		c.normalizeAnchor()
	}
}

// Dedup collapses cursors sharing an identical (offset, anchor) pair,
// keeping the primary's identity when it participates in a collapsed
// group. Must be called after every applied edit batch.
func (m *MultiCursor) Dedup() {
	primary := m.cursors[m.primary]
	type key struct {
		offset int
		anchor int
		has    bool
	}
	keyOf := func(c *Cursor) key {
		if c.Anchor == nil {
			return key{offset: c.Offset}
		}
		return key{offset: c.Offset, anchor: *c.Anchor, has: true}
	}

	seen := make(map[key]*Cursor, len(m.cursors))
	order := make([]*Cursor, 0, len(m.cursors))

	// Place the primary's group representative first so ties resolve
	// in its favor, then walk the rest in original order.
	pk := keyOf(primary)
	seen[pk] = primary
	order = append(order, primary)
	for _, c := range m.cursors {
		if c == primary {
			continue
		}
		k := keyOf(c)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = c
		order = append(order, c)
	}

	m.cursors = order
	for i, c := range order {
		if c == primary {
			m.primary = i
			break
		}
	}
}

// Clone returns a deep copy of m, safe to retain across further
// mutation of the original (used by History to snapshot cursors before
// an apply).
func (m *MultiCursor) Clone() *MultiCursor {
	out := &MultiCursor{cursors: make([]*Cursor, len(m.cursors)), primary: m.primary}
	for i, c := range m.cursors {
		cc := *c
		if c.Anchor != nil {
			a := *c.Anchor
			cc.Anchor = &a
		}
		if c.stickyColumn != nil {
			s := *c.stickyColumn
			cc.stickyColumn = &s
		}
		out.cursors[i] = &cc
	}
	return out
}

// CloneFrom overwrites m's cursor set with a deep copy of other's,
// preserving m's identity for callers holding a pointer to it.
func (m *MultiCursor) CloneFrom(other *MultiCursor) {
	clone := other.Clone()
	m.cursors = clone.cursors
	m.primary = clone.primary
}

// Equal reports whether m and other have the same cursors (offset,
// anchor value, and primary index) in the same order.
func (m *MultiCursor) Equal(other *MultiCursor) bool {
	if other == nil || len(m.cursors) != len(other.cursors) || m.primary != other.primary {
		return false
	}
	for i, c := range m.cursors {
		o := other.cursors[i]
		if c.Offset != o.Offset {
			return false
		}
		if (c.Anchor == nil) != (o.Anchor == nil) {
			return false
		}
		if c.Anchor != nil && *c.Anchor != *o.Anchor {
			return false
		}
	}
	return true
}

// LineRange is a half-open [Start, EndExclusive) range of line indices.
type LineRange struct {
	Start        int
	EndExclusive int
}

// LineRanges returns the deduplicated, sorted, merged set of line
// ranges every cursor's selection (or bare position) touches.
func (m *MultiCursor) LineRanges(buf buffer.Buffer) []LineRange {
	ranges := make([]LineRange, 0, len(m.cursors))
	for _, c := range m.cursors {
		first, lastExclusive := c.LineSpan(buf)
		ranges = append(ranges, LineRange{Start: first, EndExclusive: lastExclusive})
	}
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].Start != ranges[j].Start {
			return ranges[i].Start < ranges[j].Start
		}
		return ranges[i].EndExclusive < ranges[j].EndExclusive
	})

	merged := ranges[:0:0]
	for _, r := range ranges {
		if n := len(merged); n > 0 && r.Start <= merged[n-1].EndExclusive {
			if r.EndExclusive > merged[n-1].EndExclusive {
				merged[n-1].EndExclusive = r.EndExclusive
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}
