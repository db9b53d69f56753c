// Package pane implements the Pane Editing Surface: the owner of one
// buffer, one multi-cursor set, and one undo/redo history, exposing
// the fixed action set terminal input is translated into.
package pane

import (
	"bytes"
	"fmt"
	"os"

	"github.com/corvidae/nib/internal/buffer"
	"github.com/corvidae/nib/internal/config"
	"github.com/corvidae/nib/internal/cursor"
	"github.com/corvidae/nib/internal/edit"
	"github.com/corvidae/nib/internal/history"
)

// Pane owns exactly one TextBuffer, one MultiCursor, and one History,
// created together and mutated only through Handle.
type Pane struct {
	title string
	path  string

	buf     buffer.Buffer
	cursors *cursor.MultiCursor
	hist    *history.History

	Settings config.Settings
	TabWidth int

	viewportRow    int
	viewportHeight int
	viewportWidth  int

	lastSearch    string
	statusMsg     string
	statusIsError bool
	saveCookie    history.Cookie

	notifier edit.Notifier
}

// New returns an empty, untitled pane.
func New(settings config.Settings, tabWidth int, notifier edit.Notifier) *Pane {
	p := &Pane{
		title:    "untitled",
		buf:      buffer.NewRopeBuffer(),
		cursors:  cursor.NewMultiCursor(),
		hist:     history.New(0),
		Settings: settings,
		TabWidth: tabWidth,
		notifier: notifier,
	}
	p.saveCookie = p.hist.SaveCookie()
	return p
}

// Open replaces the pane's buffer, cursors, and history with the
// contents of path, optionally placing the primary cursor at a 1-based
// (line, col) location. A missing file is not an error (buffer.Load's
// "open creates on first save" rule).
func (p *Pane) Open(path string, line, col int) error {
	buf := buffer.NewRopeBuffer()
	if err := buf.Load(path); err != nil {
		p.setStatus(fmt.Sprintf("Unable to open %s: %v", path, err), true)
		return err
	}
	p.buf = buf
	p.title = path
	p.path = path
	p.cursors = cursor.NewMultiCursor()
	p.hist = history.New(0)
	p.saveCookie = p.hist.SaveCookie()
	if line > 0 {
		if col <= 0 {
			col = 1
		}
		p.cursors.Primary().MoveTo(p.buf, cursor.Location(line, col))
	}
	p.adjustViewport()
	return nil
}

func (p *Pane) Buffer() buffer.Buffer         { return p.buf }
func (p *Pane) Cursors() *cursor.MultiCursor  { return p.cursors }
func (p *Pane) Title() string                 { return p.title }
func (p *Pane) Path() string                  { return p.path }
func (p *Pane) ViewportRow() int              { return p.viewportRow }
func (p *Pane) StatusMessage() (string, bool) { return p.statusMsg, p.statusIsError }

// Modified reports whether the pane has unsaved changes, per the
// undo-stack snapshot-identity rule.
func (p *Pane) Modified() bool {
	return p.hist.Modified(p.saveCookie)
}

func (p *Pane) setStatus(msg string, isError bool) {
	p.statusMsg = msg
	p.statusIsError = isError
}

// SetStatus posts msg to the pane's status line, for callers outside
// the package (command dispatch results) that need to surface a
// message without going through an Action.
func (p *Pane) SetStatus(msg string, isError bool) {
	p.setStatus(msg, isError)
}

// ClearStatus drops the current status-line message.
func (p *Pane) ClearStatus() {
	p.statusMsg = ""
	p.statusIsError = false
}

// Esc collapses multi-cursor state to a single cursor with no
// selection, or (when already single-cursor with no selection) just
// clears the status line.
func (p *Pane) Esc() {
	if p.cursors.CursorCount() > 1 || p.cursors.Primary().HasSelection() {
		p.cursors.Esc()
	}
	p.ClearStatus()
}

// SetViewportSize records the pane's visible rows/columns and
// re-centers the viewport on the primary cursor.
func (p *Pane) SetViewportSize(width, height int) {
	p.viewportWidth = width
	p.viewportHeight = height
	p.adjustViewport()
}

func (p *Pane) adjustViewport() {
	p.adjustViewportToShowLine(p.buf.ByteToLine(p.cursors.Primary().Offset))
}

// adjustViewportToShowLine keeps lineNumber within the viewport with a
// 2-line pad at top and bottom, scrolling the minimum amount needed.
func (p *Pane) adjustViewportToShowLine(lineNumber int) {
	const pad = 2
	vh := p.viewportHeight
	lastVisible := p.viewportRow + vh

	switch {
	case lineNumber < p.viewportRow+pad:
		p.viewportRow = lineNumber - pad
		if p.viewportRow < 0 {
			p.viewportRow = 0
		}
	case lineNumber >= lastVisible-pad:
		desired := lineNumber + pad + 1
		if desired > p.buf.LineCount() {
			desired = p.buf.LineCount()
		}
		p.viewportRow = desired - vh
		if p.viewportRow < 0 {
			p.viewportRow = 0
		}
	}
}

// applyEditBatch runs batch through the edit applicator, pushes the
// resulting inverse onto history alongside the pre-edit cursor
// snapshot, and re-centers the viewport.
func (p *Pane) applyEditBatch(batch *edit.EditBatch) {
	before := p.cursors.Clone()
	inverse := edit.Apply(p.buf, p.cursors, batch, p.notifier)
	p.hist.Push(inverse, before)
	p.adjustViewport()
}

// Handle dispatches a single drained action against the pane.
func (p *Pane) Handle(a Action) {
	switch a.Kind {
	case ActionMoveTo:
		p.cursors.MoveTo(p.buf, a.Target)
		p.adjustViewport()

	case ActionSelectTo:
		p.cursors.SelectTo(p.buf, a.Target)
		p.adjustViewport()

	case ActionSelectAll:
		p.cursors.Esc()
		primary := p.cursors.Primary()
		primary.Offset = 0
		primary.SelectTo(p.buf, cursor.End())
		p.adjustViewport()

	case ActionInsert:
		batch := edit.InsertWithCursors(p.cursors, []byte(a.Text))
		deselectAll(p.cursors)
		p.applyEditBatch(batch)

	case ActionDeleteBackward:
		batch := edit.DeleteBackward(p.cursors, p.buf, p.Settings.IndentSize)
		deselectAll(p.cursors)
		p.applyEditBatch(batch)

	case ActionDeleteForward:
		batch := edit.DeleteForward(p.cursors, p.buf)
		deselectAll(p.cursors)
		p.applyEditBatch(batch)

	case ActionDeleteWord:
		batch := edit.DeleteWord(p.cursors, p.buf)
		deselectAll(p.cursors)
		p.applyEditBatch(batch)

	case ActionIndent:
		indent := []byte(p.Settings.IndentString(p.TabWidth))
		p.applyEditBatch(edit.Indent(p.cursors, p.buf, indent))

	case ActionDedent:
		p.applyEditBatch(edit.Dedent(p.cursors, p.buf, p.Settings.IndentSize, p.TabWidth))

	case ActionMoveLinesUp:
		p.applyEditBatch(edit.MoveLinesUp(p.cursors, p.buf))

	case ActionMoveLinesDown:
		p.applyEditBatch(edit.MoveLinesDown(p.cursors, p.buf))

	case ActionUndo:
		if p.hist.Undo(p.buf, p.cursors, p.notifier) {
			p.adjustViewport()
		}

	case ActionRedo:
		if p.hist.Redo(p.buf, p.cursors, p.notifier) {
			p.adjustViewport()
		}

	case ActionFind:
		p.lastSearch = a.Text
		p.find(a.Text, true)

	case ActionRepeatFind:
		if p.lastSearch != "" {
			p.find(p.lastSearch, true)
		}

	case ActionRepeatFindBackward:
		if p.lastSearch != "" {
			p.find(p.lastSearch, false)
		}

	case ActionQuickAddNext:
		p.quickAddNext()

	case ActionSave:
		p.save(p.path)

	case ActionSaveAs:
		p.save(a.Path)

	case ActionScrollUp:
		p.viewportRow -= a.N
		if p.viewportRow < 0 {
			p.viewportRow = 0
		}

	case ActionScrollDown:
		max := p.buf.LineCount() - 1
		if max < 0 {
			max = 0
		}
		p.viewportRow += a.N
		if p.viewportRow > max {
			p.viewportRow = max
		}
	}
}

func deselectAll(mc *cursor.MultiCursor) {
	for _, c := range mc.Cursors() {
		c.Deselect()
	}
}

// find searches every cursor independently from its own selection end
// (forward) or selection start (backward), wrapping once through the
// whole buffer if nothing is found past that point, and replaces each
// hit cursor's selection with the match. A miss on every cursor
// records a status message.
func (p *Pane) find(needle string, forward bool) {
	if needle == "" {
		return
	}
	found := false
	for _, c := range p.cursors.Cursors() {
		var start, end int
		var ok bool
		if forward {
			start, end, ok = searchForward(p.buf, needle, c)
		} else {
			start, end, ok = searchBackward(p.buf, needle, c)
		}
		if !ok {
			continue
		}
		found = true
		if forward {
			c.SetSelectionAnchorOffset(start, end)
		} else {
			c.SetSelectionAnchorOffset(end, start)
		}
	}
	if !found {
		p.setStatus(fmt.Sprintf("%q not found", needle), false)
	}
	p.adjustViewport()
}

func searchForward(buf buffer.Buffer, needle string, c *cursor.Cursor) (start, end int, ok bool) {
	data := buf.Bytes()
	from := c.Offset
	if _, e, sel := c.Selection(); sel {
		from = e
	}
	if from <= len(data) {
		if idx := bytes.Index(data[from:], []byte(needle)); idx >= 0 {
			s := from + idx
			return s, s + len(needle), true
		}
	}
	if idx := bytes.Index(data, []byte(needle)); idx >= 0 {
		return idx, idx + len(needle), true
	}
	return 0, 0, false
}

func searchBackward(buf buffer.Buffer, needle string, c *cursor.Cursor) (start, end int, ok bool) {
	data := buf.Bytes()
	to := c.Offset
	if s, _, sel := c.Selection(); sel {
		to = s
	}
	if to <= len(data) {
		if idx := bytes.LastIndex(data[:to], []byte(needle)); idx >= 0 {
			return idx, idx + len(needle), true
		}
	}
	if idx := bytes.LastIndex(data, []byte(needle)); idx >= 0 {
		return idx, idx + len(needle), true
	}
	return 0, 0, false
}

// quickAddNext spawns a new primary cursor selecting the next cyclic
// occurrence of the primary cursor's current selection text, unless
// that occurrence is the selection the primary already has.
func (p *Pane) quickAddNext() {
	start, end, ok := p.cursors.Primary().Selection()
	if !ok {
		return
	}
	needle := p.buf.Slice(start, end)
	data := p.buf.Bytes()

	matchStart := -1
	if idx := bytes.Index(data[end:], needle); idx >= 0 {
		matchStart = end + idx
	} else if idx := bytes.Index(data, needle); idx >= 0 {
		matchStart = idx
	}
	if matchStart < 0 || matchStart == start {
		p.adjustViewport()
		return
	}
	matchEnd := matchStart + len(needle)
	p.cursors.SpawnNewPrimary(cursor.NewWithAnchor(matchEnd, matchStart))
	p.adjustViewport()
}

// Selections returns the text under every cursor's selection, in
// cursor order, skipping cursors with no selection.
func (p *Pane) Selections() []string {
	var out []string
	for _, c := range p.cursors.Cursors() {
		if start, end, ok := c.Selection(); ok {
			out = append(out, string(p.buf.Slice(start, end)))
		}
	}
	return out
}

// InsertFromClipboard builds and applies an insert batch from external
// clipboard content, one clip per cursor if the counts line up.
func (p *Pane) InsertFromClipboard(clips []string) {
	bclips := make([][]byte, len(clips))
	for i, c := range clips {
		bclips[i] = []byte(c)
	}
	p.applyEditBatch(edit.InsertFromClipboard(p.cursors, bclips))
}

// TransformSelections replaces each cursor's selection with the result
// of running it through transform, used by the "to" command surface.
// Cursors with no selection are left untouched.
func (p *Pane) TransformSelections(transform func([]byte) ([]byte, bool)) {
	p.applyEditBatch(edit.TransformSelections(p.cursors, p.buf, transform))
}

// save writes the buffer to path (or the pane's existing path) after
// applying the save-time transforms to a copy of its bytes; the live
// buffer is never mutated by this.
func (p *Pane) save(path string) {
	if path == "" {
		path = p.path
	}
	if path == "" {
		p.setStatus("Unable to save: no path specified", true)
		return
	}
	data := applySaveTransforms(p.buf.Bytes(), p.Settings)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		p.setStatus(fmt.Sprintf("Unable to save: %v", err), true)
		return
	}
	p.buf.MarkSaved(path)
	p.path = path
	p.title = path
	p.saveCookie = p.hist.SaveCookie()
	p.setStatus(fmt.Sprintf("Saved %s (%d bytes)", path, len(data)), false)
}
