// internal/buffer/rope_buffer.go
package buffer

import (
	"errors"
	"fmt"
	"os"

	"github.com/corvidae/nib/internal/text"
)

// RopeBuffer is the default Buffer implementation: a rope-backed
// document plus the grapheme navigator that sits over it.
type RopeBuffer struct {
	rope     *text.Rope
	nav      *text.Navigator
	filePath string
	modified bool
}

// NewRopeBuffer creates an empty RopeBuffer.
func NewRopeBuffer() *RopeBuffer {
	r := text.NewRope(nil)
	return &RopeBuffer{rope: r, nav: text.NewNavigator(r)}
}

// NewRopeBufferFromBytes creates a RopeBuffer pre-populated with data,
// useful for tests and for constructing panes from clipboard-style
// in-memory content.
func NewRopeBufferFromBytes(data []byte) *RopeBuffer {
	r := text.NewRope(data)
	return &RopeBuffer{rope: r, nav: text.NewNavigator(r)}
}

// Load reads a file into the buffer, replacing existing content. A
// missing file is not an error: it yields an empty buffer associated
// with that path, matching the "open creates on first save" idiom.
func (rb *RopeBuffer) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			rb.rope = text.NewRope(nil)
			rb.nav = text.NewNavigator(rb.rope)
			rb.filePath = filePath
			rb.modified = false
			return nil
		}
		return fmt.Errorf("buffer: open %q: %w", filePath, err)
	}
	rb.rope = text.NewRope(data)
	rb.nav = text.NewNavigator(rb.rope)
	rb.filePath = filePath
	rb.modified = false
	return nil
}

// Save writes the buffer verbatim to filePath (or the buffer's
// existing path if filePath is empty). Save-time transforms
// (trim-trailing-whitespace, insert-final-newline, EOL normalization)
// are applied by the caller (see internal/pane) against a copy of
// Bytes(), never against the live rope.
func (rb *RopeBuffer) Save(filePath string) error {
	path := rb.filePath
	if filePath != "" {
		path = filePath
	}
	if path == "" {
		return fmt.Errorf("buffer: %w", ErrNoFilePath)
	}
	if err := os.WriteFile(path, rb.rope.Bytes(), 0o644); err != nil {
		return fmt.Errorf("buffer: write %q: %w", path, err)
	}
	rb.filePath = path
	rb.modified = false
	return nil
}

// ErrNoFilePath is returned by Save when no path has ever been
// associated with the buffer and none was supplied.
var ErrNoFilePath = errors.New("no file path specified for saving")

// MarkSaved records filePath and clears the modified flag without
// writing anything.
func (rb *RopeBuffer) MarkSaved(filePath string) {
	rb.filePath = filePath
	rb.modified = false
}

func (rb *RopeBuffer) Len() int                       { return rb.rope.Len() }
func (rb *RopeBuffer) LineCount() int                 { return rb.rope.LineCount() }
func (rb *RopeBuffer) LineToByte(line int) int        { return rb.rope.LineToByte(line) }
func (rb *RopeBuffer) ByteToLine(offset int) int      { return rb.rope.ByteToLine(offset) }
func (rb *RopeBuffer) Byte(offset int) byte           { return rb.rope.Byte(offset) }
func (rb *RopeBuffer) Slice(start, end int) []byte    { return rb.rope.Slice(start, end) }
func (rb *RopeBuffer) Bytes() []byte                  { return rb.rope.Bytes() }
func (rb *RopeBuffer) Line(i int) []byte              { return rb.rope.Line(i) }
func (rb *RopeBuffer) Navigator() *text.Navigator     { return rb.nav }
func (rb *RopeBuffer) FilePath() string               { return rb.filePath }
func (rb *RopeBuffer) IsModified() bool               { return rb.modified }

// ByteToColumn counts grapheme clusters from the line's start to
// offset — the visual column for cursor status display, per spec 4.B.
func (rb *RopeBuffer) ByteToColumn(offset int) int {
	lineStart := rb.rope.LineToByte(rb.rope.ByteToLine(offset))
	return text.CountGraphemeClusters(rb.rope.Slice(lineStart, offset))
}

func (rb *RopeBuffer) Lines() *LineIter {
	return &LineIter{buf: rb}
}

// Insert splices data into the document at offset; offset must be a
// grapheme/char boundary, enforced (as a programmer-error panic) by
// the underlying rope.
func (rb *RopeBuffer) Insert(offset int, data []byte) {
	rb.rope.Insert(offset, data)
	rb.modified = true
}

// Remove deletes the byte range [start, end).
func (rb *RopeBuffer) Remove(start, end int) {
	rb.rope.Remove(start, end)
	rb.modified = true
}

var _ Buffer = (*RopeBuffer)(nil)
