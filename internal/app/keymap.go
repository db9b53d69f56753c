package app

import (
	"github.com/corvidae/nib/internal/cursor"
	"github.com/corvidae/nib/internal/pane"
	"github.com/gdamore/tcell/v2"
)

// metaKind names the handful of things a key can trigger that are not
// a plain pane.Action — quitting, entering the command prompt, and
// clipboard transfer, all of which need state the Pane itself doesn't
// own (the quit flag, the clipboard adapter).
type metaKind int

const (
	metaNone metaKind = iota
	metaForceQuit
	metaEnterCommandMode
	metaEnterFindMode
	metaEscape
	metaCopy
	metaCut
	metaPaste
)

// decoded is what translateKey resolves one tcell.EventKey into: at
// most one of a pane.Action or a meta operation.
type decoded struct {
	action pane.Action
	meta   metaKind
	isMeta bool
}

func paneDecoded(a pane.Action) decoded { return decoded{action: a} }
func metaDecoded(m metaKind) decoded    { return decoded{meta: m, isMeta: true} }

// translateKey maps one terminal key event onto the pane's action set
// plus the small meta set above: modifier+key combinations are
// checked first, then bare special keys, then plain runes default to
// insertion.
func translateKey(ev *tcell.EventKey) (decoded, bool) {
	key := ev.Key()
	mod := ev.Modifiers()

	if mod&tcell.ModCtrl != 0 {
		if d, ok := ctrlKeymap[key]; ok {
			return d, true
		}
	}

	shift := mod&tcell.ModShift != 0

	switch key {
	case tcell.KeyUp:
		return paneDecoded(moveOrSelect(cursor.Up(1), shift)), true
	case tcell.KeyDown:
		return paneDecoded(moveOrSelect(cursor.Down(1), shift)), true
	case tcell.KeyLeft:
		return paneDecoded(moveOrSelect(cursor.Left(1), shift)), true
	case tcell.KeyRight:
		return paneDecoded(moveOrSelect(cursor.Right(1), shift)), true
	case tcell.KeyHome:
		return paneDecoded(moveOrSelect(cursor.StartOfLine(), shift)), true
	case tcell.KeyEnd:
		return paneDecoded(moveOrSelect(cursor.EndOfLine(), shift)), true
	case tcell.KeyPgUp:
		return paneDecoded(pane.ScrollUp(pageSize)), true
	case tcell.KeyPgDn:
		return paneDecoded(pane.ScrollDown(pageSize)), true
	case tcell.KeyEnter:
		return paneDecoded(pane.Insert("\n")), true
	case tcell.KeyTab:
		return paneDecoded(pane.Indent()), true
	case tcell.KeyBacktab:
		return paneDecoded(pane.Dedent()), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return paneDecoded(pane.DeleteBackward()), true
	case tcell.KeyDelete:
		return paneDecoded(pane.DeleteForward()), true
	case tcell.KeyEscape:
		return metaDecoded(metaEscape), true
	}

	if key == tcell.KeyRune {
		if ev.Rune() == ':' {
			return metaDecoded(metaEnterCommandMode), true
		}
		return paneDecoded(pane.Insert(string(ev.Rune()))), true
	}

	return decoded{}, false
}

// pageSize is the number of lines PgUp/PgDn scroll by. Tying it to the
// viewport height at render time instead would need the keymap to
// reach into the app's layout state, so a fixed page is used here and
// the app's render loop is free to pass a narrower jump near the
// buffer edges (ScrollUp/ScrollDown already clamp).
const pageSize = 20

func moveOrSelect(target cursor.MoveTarget, shift bool) pane.Action {
	if shift {
		return pane.SelectTo(target)
	}
	return pane.MoveTo(target)
}

// ctrlKeymap covers the fixed set of Ctrl+key bindings that don't fit
// the plain-key switch above: save/undo/redo, find, quick-add-next,
// select-all, and clipboard transfer.
var ctrlKeymap = map[tcell.Key]decoded{
	tcell.KeyCtrlS: paneDecoded(pane.Save()),
	tcell.KeyCtrlZ: paneDecoded(pane.Undo()),
	tcell.KeyCtrlY: paneDecoded(pane.Redo()),
	tcell.KeyCtrlF: metaDecoded(metaEnterFindMode),
	tcell.KeyCtrlD: paneDecoded(pane.QuickAddNext()),
	tcell.KeyCtrlA: paneDecoded(pane.SelectAll()),
	tcell.KeyCtrlC: metaDecoded(metaCopy),
	tcell.KeyCtrlX: metaDecoded(metaCut),
	tcell.KeyCtrlV: metaDecoded(metaPaste),
	tcell.KeyCtrlQ: metaDecoded(metaForceQuit),
	tcell.KeyCtrlG: paneDecoded(pane.RepeatFind()),
}
