// Package history implements the undo/redo stacks for the text-editing
// engine: two stacks of {inverse edit batch, cursor snapshot} records,
// built on top of internal/edit's canonicalized batches and
// internal/cursor's MultiCursor.
package history

import (
	"sync"

	"github.com/corvidae/nib/internal/buffer"
	"github.com/corvidae/nib/internal/cursor"
	"github.com/corvidae/nib/internal/edit"
	"github.com/corvidae/nib/internal/logger"
)

// DefaultMaxHistory bounds the undo stack depth; the oldest record is
// evicted once this is exceeded.
const DefaultMaxHistory = 100

// Record is one reversible step: the batch that undoes whatever
// produced it, plus the cursor set to restore when it is later
// re-applied.
type Record struct {
	InverseBatch *edit.EditBatch
	CursorsBefore *cursor.MultiCursor
}

// History holds the undo and redo stacks for a single pane.
type History struct {
	mutex      sync.Mutex
	undo       []*Record
	redo       []*Record
	maxHistory int
}

// New returns an empty History. maxHistory <= 0 uses DefaultMaxHistory.
func New(maxHistory int) *History {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &History{maxHistory: maxHistory}
}

// Push records a just-applied batch's inverse and the cursor set as it
// stood immediately before that batch was applied. Empty batches
// (inverse.IsEmpty()) are not recorded. Any push clears the redo stack.
func (h *History) Push(inverse *edit.EditBatch, cursorsBefore *cursor.MultiCursor) {
	if inverse == nil || inverse.IsEmpty() {
		return
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.redo = h.redo[:0]
	h.undo = append(h.undo, &Record{InverseBatch: inverse, CursorsBefore: cursorsBefore.Clone()})
	if len(h.undo) > h.maxHistory {
		h.undo = h.undo[len(h.undo)-h.maxHistory:]
	}
	logger.Debugf("history: pushed record, undo depth %d", len(h.undo))
}

// Undo pops the top undo record, applies its inverse to buf and
// cursorsNow, restores cursorsNow to the recorded pre-edit snapshot,
// and pushes the resulting new inverse onto redo. Returns false if the
// undo stack was empty.
func (h *History) Undo(buf buffer.Buffer, cursorsNow *cursor.MultiCursor, notifier edit.Notifier) bool {
	return h.step(&h.undo, &h.redo, buf, cursorsNow, notifier)
}

// Redo is the mirror of Undo: it replays the top redo record.
func (h *History) Redo(buf buffer.Buffer, cursorsNow *cursor.MultiCursor, notifier edit.Notifier) bool {
	return h.step(&h.redo, &h.undo, buf, cursorsNow, notifier)
}

func (h *History) step(from, to *[]*Record, buf buffer.Buffer, cursorsNow *cursor.MultiCursor, notifier edit.Notifier) bool {
	h.mutex.Lock()
	if len(*from) == 0 {
		h.mutex.Unlock()
		return false
	}
	rec := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]
	h.mutex.Unlock()

	snapshotBefore := cursorsNow.Clone()
	newInverse := edit.Apply(buf, cursorsNow, rec.InverseBatch, notifier)
	cursorsNow.CloneFrom(rec.CursorsBefore)

	h.mutex.Lock()
	*to = append(*to, &Record{InverseBatch: newInverse, CursorsBefore: snapshotBefore})
	h.mutex.Unlock()
	return true
}

// Clear resets both stacks, e.g. when a pane loads a new file.
func (h *History) Clear() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.undo = nil
	h.redo = nil
}

// CanUndo reports whether Undo would do anything.
func (h *History) CanUndo() bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.undo) > 0
}

// CanRedo reports whether Redo would do anything.
func (h *History) CanRedo() bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.redo) > 0
}

// Cookie is an opaque snapshot of undo-stack identity, taken at save
// time and later compared against by Modified.
type Cookie struct {
	depth int
	top   *Record
}

// SaveCookie captures the current undo-stack identity.
func (h *History) SaveCookie() Cookie {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if len(h.undo) == 0 {
		return Cookie{}
	}
	return Cookie{depth: len(h.undo), top: h.undo[len(h.undo)-1]}
}

// Modified reports whether the current undo-stack identity differs
// from the one captured in saved — i.e. whether the buffer has changed
// since that save.
func (h *History) Modified(saved Cookie) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	var top *Record
	if len(h.undo) > 0 {
		top = h.undo[len(h.undo)-1]
	}
	return len(h.undo) != saved.depth || top != saved.top
}
