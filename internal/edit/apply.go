package edit

import (
	"github.com/corvidae/nib/internal/buffer"
	"github.com/corvidae/nib/internal/cursor"
)

// Apply replays batch against buf in reverse (largest positions
// first), rewriting cursors as it goes, and returns the canonical
// inverse batch undo needs. notifier may be nil; when non-nil it
// receives one Notification per Insert/Delete performed.
func Apply(buf buffer.Buffer, cursors *cursor.MultiCursor, batch *EditBatch, notifier Notifier) *EditBatch {
	edits := batch.Edits()
	inverse := make([]Edit, len(edits))

	// shift[i] is the net byte-length change every edit to its left
	// (lower Pos, or an Insert at the same Pos — both occur earlier in
	// the text stream) contributes once the whole batch has been
	// applied. edits[i].Pos is a pre-batch offset; edits[i].Pos +
	// shift[i] is the corresponding post-batch offset, which is what
	// the inverse edit must target so it applies cleanly against the
	// buffer Apply leaves behind rather than the one it started from.
	shift := make([]int, len(edits))
	running := 0
	for i, e := range edits {
		shift[i] = running
		if e.Kind == KindInsert {
			running += len(e.Text)
		} else {
			running -= e.End - e.Pos
		}
	}

	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		if e.Pos < 0 || e.Pos > buf.Len() || (e.Kind == KindDelete && (e.End < e.Pos || e.End > buf.Len())) {
			panic(invariantf("edit offset out of range: %+v against buffer of length %d", e, buf.Len()))
		}
		switch e.Kind {
		case KindDelete:
			deleted := append([]byte(nil), buf.Slice(e.Pos, e.End)...)
			startPoint := pointAt(buf, e.Pos)
			oldEndPoint := advancePoint(startPoint, deleted)

			buf.Remove(e.Pos, e.End)
			cursors.UpdatePositionsDeletion(e.Pos, e.End)

			if notifier != nil {
				notifier.NotifyEdit(Notification{
					StartByte: e.Pos, OldEndByte: e.End, NewEndByte: e.Pos,
					StartPoint: startPoint, OldEndPoint: oldEndPoint, NewEndPoint: startPoint,
				})
			}
			inverse[i] = Insert(e.Pos+shift[i], deleted)

		case KindInsert:
			startPoint := pointAt(buf, e.Pos)
			newEndPoint := advancePoint(startPoint, e.Text)

			buf.Insert(e.Pos, e.Text)
			cursors.UpdatePositionsInsertion(e.Pos, len(e.Text))

			if notifier != nil {
				notifier.NotifyEdit(Notification{
					StartByte: e.Pos, OldEndByte: e.Pos, NewEndByte: e.Pos + len(e.Text),
					StartPoint: startPoint, OldEndPoint: startPoint, NewEndPoint: newEndPoint,
				})
			}
			pos := e.Pos + shift[i]
			inverse[i] = Delete(pos, pos+len(e.Text))
		}
	}

	cursors.Dedup()
	return FromEdits(inverse)
}
