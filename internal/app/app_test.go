package app

import (
	"bytes"
	"testing"

	"github.com/corvidae/nib/internal/clipboard"
	"github.com/corvidae/nib/internal/command"
	"github.com/corvidae/nib/internal/config"
	"github.com/corvidae/nib/internal/cursor"
	"github.com/corvidae/nib/internal/pane"
	"github.com/gdamore/tcell/v2"
)

// newTestApp builds an App with a real Pane and Dispatcher but no
// terminal, for exercising event handling and command dispatch
// directly without a tcell screen.
func newTestApp(t *testing.T, clipOut *bytes.Buffer) *App {
	t.Helper()
	a := &App{
		pane:   pane.New(config.DefaultSettings(), 4, nil),
		redraw: make(chan struct{}, 1),
	}
	a.dispatcher = command.NewDispatcher(nil, nil, nil)
	a.clip = clipboard.New(clipOut)
	return a
}

func TestHandleKeyInsertsPlainRune(t *testing.T) {
	a := newTestApp(t, &bytes.Buffer{})
	a.handleKey(tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModNone))
	a.handleKey(tcell.NewEventKey(tcell.KeyRune, 'i', tcell.ModNone))

	if got := string(a.pane.Buffer().Bytes()); got != "hi" {
		t.Fatalf("buffer = %q, want %q", got, "hi")
	}
}

func TestHandleKeyColonEntersCommandModeAndCapturesInput(t *testing.T) {
	a := newTestApp(t, &bytes.Buffer{})
	a.handleKey(tcell.NewEventKey(tcell.KeyRune, ':', tcell.ModNone))
	if a.mode != promptCommand {
		t.Fatalf("mode = %v, want promptCommand", a.mode)
	}

	for _, r := range "bogus" {
		a.handleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	if a.promptBuf != "bogus" {
		t.Fatalf("promptBuf = %q, want %q", a.promptBuf, "bogus")
	}

	a.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	if a.mode != promptNone || a.promptBuf != "" {
		t.Fatalf("after Enter: mode=%v promptBuf=%q, want promptNone and empty", a.mode, a.promptBuf)
	}

	msg, isErr := a.pane.StatusMessage()
	if !isErr || msg == "" {
		t.Fatalf("StatusMessage() = (%q, %v), want an error message for an unknown command", msg, isErr)
	}
}

func TestHandleKeyEscapeCancelsPrompt(t *testing.T) {
	a := newTestApp(t, &bytes.Buffer{})
	a.mode = promptCommand
	a.promptBuf = "something"
	a.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	if a.mode != promptNone || a.promptBuf != "" {
		t.Fatalf("after Escape: mode=%v promptBuf=%q, want cleared", a.mode, a.promptBuf)
	}
}

func TestHandleKeyBackspaceTrimsPromptBuffer(t *testing.T) {
	a := newTestApp(t, &bytes.Buffer{})
	a.mode = promptCommand
	a.promptBuf = "abc"
	a.handleKey(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	if a.promptBuf != "ab" {
		t.Fatalf("promptBuf after Backspace = %q, want %q", a.promptBuf, "ab")
	}
}

func TestRunCommandLineQuitSetsFlags(t *testing.T) {
	a := newTestApp(t, &bytes.Buffer{})
	a.runCommandLine("q!")
	if !a.quit || !a.forceQuit {
		t.Fatalf("after \"q!\": quit=%v forceQuit=%v, want both true", a.quit, a.forceQuit)
	}
}

func TestRunCommandLineSurfacesMessageOnStatusLine(t *testing.T) {
	a := newTestApp(t, &bytes.Buffer{})
	a.runCommandLine("set indent_size 2")

	msg, isErr := a.pane.StatusMessage()
	if isErr || msg == "" {
		t.Fatalf("StatusMessage() = (%q, %v), want a non-error confirmation message", msg, isErr)
	}
}

func TestCopySelectionWritesToClipboardFallback(t *testing.T) {
	var out bytes.Buffer
	a := newTestApp(t, &out)
	for _, r := range "hello" {
		a.pane.Handle(pane.Insert(string(r)))
	}
	a.pane.Handle(pane.MoveTo(cursor.Start()))
	a.pane.Handle(pane.SelectAll())

	a.copySelection()

	if out.Len() == 0 {
		t.Fatal("copySelection() produced no OSC52 fallback output; clipboard write did not occur")
	}
}

func TestRequestRedrawIsNonBlocking(t *testing.T) {
	a := newTestApp(t, &bytes.Buffer{})
	a.requestRedraw()
	a.requestRedraw() // must not block even though the channel is already full
	select {
	case <-a.redraw:
	default:
		t.Fatal("expected a pending redraw signal")
	}
}
