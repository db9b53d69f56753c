package app

import (
	"testing"

	"github.com/corvidae/nib/internal/pane"
	"github.com/gdamore/tcell/v2"
)

func TestTranslateKeyPlainRuneInserts(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)
	d, ok := translateKey(ev)
	if !ok || d.isMeta {
		t.Fatalf("translateKey('x') = %+v, %v, want plain insert action", d, ok)
	}
	if d.action != pane.Insert("x") {
		t.Fatalf("translateKey('x').action = %+v, want Insert(\"x\")", d.action)
	}
}

func TestTranslateKeyColonEntersCommandMode(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyRune, ':', tcell.ModNone)
	d, ok := translateKey(ev)
	if !ok || !d.isMeta || d.meta != metaEnterCommandMode {
		t.Fatalf("translateKey(':') = %+v, %v, want metaEnterCommandMode", d, ok)
	}
}

func TestTranslateKeyArrowsMoveOrSelect(t *testing.T) {
	plain := tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)
	d, ok := translateKey(plain)
	if !ok || d.isMeta {
		t.Fatalf("translateKey(Right) = %+v, %v, want a plain pane action", d, ok)
	}

	shifted := tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModShift)
	sd, ok := translateKey(shifted)
	if !ok || sd.isMeta {
		t.Fatalf("translateKey(Shift+Right) = %+v, %v, want a plain pane action", sd, ok)
	}
	if d.action == sd.action {
		t.Fatal("Shift+Right produced the same action as bare Right, want SelectTo rather than MoveTo")
	}
}

func TestTranslateKeyEscapeIsMeta(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)
	d, ok := translateKey(ev)
	if !ok || !d.isMeta || d.meta != metaEscape {
		t.Fatalf("translateKey(Escape) = %+v, %v, want metaEscape", d, ok)
	}
}

func TestTranslateKeyCtrlBindings(t *testing.T) {
	cases := []struct {
		key  tcell.Key
		meta metaKind
	}{
		{tcell.KeyCtrlF, metaEnterFindMode},
		{tcell.KeyCtrlC, metaCopy},
		{tcell.KeyCtrlX, metaCut},
		{tcell.KeyCtrlV, metaPaste},
		{tcell.KeyCtrlQ, metaForceQuit},
	}
	for _, tc := range cases {
		ev := tcell.NewEventKey(tc.key, 0, tcell.ModCtrl)
		d, ok := translateKey(ev)
		if !ok || !d.isMeta || d.meta != tc.meta {
			t.Fatalf("translateKey(Ctrl-key %v) = %+v, %v, want meta %v", tc.key, d, ok, tc.meta)
		}
	}
}

func TestTranslateKeyCtrlSIsSaveNotMeta(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl)
	d, ok := translateKey(ev)
	if !ok || d.isMeta {
		t.Fatalf("translateKey(Ctrl-S) = %+v, %v, want a plain Save action", d, ok)
	}
	if d.action != pane.Save() {
		t.Fatalf("translateKey(Ctrl-S).action = %+v, want Save()", d.action)
	}
}

func TestTranslateKeyBackspaceDeletesBackward(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone)
	d, ok := translateKey(ev)
	if !ok || d.isMeta || d.action != pane.DeleteBackward() {
		t.Fatalf("translateKey(Backspace2) = %+v, %v, want DeleteBackward()", d, ok)
	}
}
