// Package buffer implements the Text Buffer component: a
// byte-offset-addressed, rope-backed in-memory document with
// line/column conversions, built on the chunked store and grapheme
// navigator in internal/text.
package buffer

import "github.com/corvidae/nib/internal/text"

// Buffer is an ordered sequence of UTF-8 bytes logically split into
// lines, addressed by byte offset.
type Buffer interface {
	Len() int
	LineCount() int
	LineToByte(line int) int
	ByteToLine(offset int) int
	ByteToColumn(offset int) int
	Byte(offset int) byte
	Slice(start, end int) []byte
	Bytes() []byte
	Line(i int) []byte
	Lines() *LineIter
	Insert(offset int, data []byte)
	Remove(start, end int)
	Navigator() *text.Navigator

	Load(filePath string) error
	Save(filePath string) error
	FilePath() string
	IsModified() bool

	// MarkSaved records that the in-memory content as of this call was
	// durably written to filePath, without writing anything itself.
	// Callers that write a transformed copy of Bytes() (save-time
	// whitespace/EOL transforms) use this instead of Save so the live
	// rope is never touched by the transform.
	MarkSaved(filePath string)
}

// LineIter is a lazy iterator over a Buffer's lines.
type LineIter struct {
	buf Buffer
	idx int
}

// Next returns the next line (including its trailing terminator except
// possibly on the final line) and whether one was available.
func (it *LineIter) Next() ([]byte, bool) {
	if it.idx >= it.buf.LineCount() {
		return nil, false
	}
	line := it.buf.Line(it.idx)
	it.idx++
	return line, true
}
