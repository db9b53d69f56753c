// Package app wires the Pane Editing Surface to a terminal: a
// cooperative event loop that polls tcell for input, translates it
// into pane actions or one of a small set of meta operations (quit,
// command prompt, clipboard transfer), and redraws on a fixed
// quantum. No rendering or highlighting decision lives above this
// package; drawing only reads what Pane and the highlight Manager
// already computed.
package app

import (
	"fmt"
	"os"
	"time"

	"github.com/corvidae/nib/internal/buffer"
	"github.com/corvidae/nib/internal/clipboard"
	"github.com/corvidae/nib/internal/command"
	"github.com/corvidae/nib/internal/config"
	"github.com/corvidae/nib/internal/highlight"
	"github.com/corvidae/nib/internal/highlighter"
	"github.com/corvidae/nib/internal/logger"
	"github.com/corvidae/nib/internal/pane"
	"github.com/corvidae/nib/internal/theme"
	"github.com/corvidae/nib/internal/tui"
	"github.com/gdamore/tcell/v2"
)

// promptMode names which of the two prompt surfaces (if any) is
// currently capturing keystrokes instead of the pane.
type promptMode int

const (
	promptNone promptMode = iota
	promptCommand
	promptFind
)

// quantum is the main loop's redraw tick: input is drained and
// applied continuously, but the screen is repainted at most this
// often, so a burst of keystrokes or a storm of highlight-ready
// notifications doesn't force one frame per event.
const quantum = 16 * time.Millisecond

// App owns the terminal, the single pane, and the small amount of
// state (prompt buffer, clipboard, quit flag) a Pane itself has no
// business owning.
type App struct {
	tui        *tui.TUI
	pane       *pane.Pane
	dispatcher *command.Dispatcher
	clip       *clipboard.Clipboard
	highlightM *highlight.Manager
	themes     *theme.Manager
	redraw     chan struct{}

	mode      promptMode
	promptBuf string

	quit      bool
	forceQuit bool
}

// New builds an App around a single pane opened at filePath (empty
// for an untitled buffer) with the cursor placed at the given 1-based
// (line, col), ready to Run. line and col are ignored when filePath is
// empty or either is <= 0.
func New(filePath string, line, col int, cfg *config.Config) (*App, error) {
	scr, err := tui.New()
	if err != nil {
		return nil, fmt.Errorf("app: terminal initialization failed: %w", err)
	}

	a := &App{
		tui:    scr,
		themes: theme.NewManager(),
		redraw: make(chan struct{}, 1),
	}

	a.highlightM = highlight.NewManager(paneProvider{a}, highlighter.NewHighlighter(), a.requestRedraw)
	a.pane = pane.New(cfg.Settings, cfg.Editor.TabWidth, a.highlightM)

	if filePath != "" {
		if err := a.pane.Open(filePath, line, col); err != nil {
			logger.Warnf("app: %v", err)
		}
		a.highlightM.Reparse()
	}

	a.clip = clipboard.New(os.Stdout)
	a.dispatcher = command.NewDispatcher(newProcessRunner(), cfg.Editor.ExecCommands, cfg.Editor.LintCommands)
	a.dispatcher.SetThemeSwitcher(a.themes)

	w, h := scr.Size()
	a.pane.SetViewportSize(w, h-1)

	return a, nil
}

// paneProvider indirects highlight.Manager's view of the pane through
// the App, since the Manager is constructed before the Pane it will
// read from (the Pane needs the Manager as its edit.Notifier).
type paneProvider struct{ app *App }

func (p paneProvider) Buffer() buffer.Buffer { return p.app.pane.Buffer() }
func (p paneProvider) Path() string          { return p.app.pane.Path() }

func (a *App) requestRedraw() {
	select {
	case a.redraw <- struct{}{}:
	default:
	}
}

// Run starts the cooperative loop: poll for one terminal event,
// translate and apply it, then repaint at most once per quantum.
// Returns when the user quits or the screen yields no more events.
func (a *App) Run() (err error) {
	defer a.tui.Close()
	defer a.highlightM.Shutdown()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("app: recovered from panic: %v", r)
		}
	}()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := a.tui.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(quantum)
	defer ticker.Stop()

	needsRedraw := true
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			a.handleEvent(ev)
			needsRedraw = true
			if a.quit {
				return nil
			}
		case <-a.redraw:
			needsRedraw = true
		case <-ticker.C:
			if needsRedraw {
				a.draw()
				needsRedraw = false
			}
		}
	}
}

func (a *App) handleEvent(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventResize:
		a.tui.GetScreen().Sync()
	case *tcell.EventKey:
		a.handleKey(e)
	}
}

func (a *App) handleKey(ev *tcell.EventKey) {
	if a.mode != promptNone {
		a.handlePromptKey(ev)
		return
	}

	d, ok := translateKey(ev)
	if !ok {
		return
	}
	if !d.isMeta {
		a.pane.Handle(d.action)
		return
	}

	switch d.meta {
	case metaEscape:
		a.pane.Esc()
	case metaForceQuit:
		a.quit = true
		a.forceQuit = true
	case metaEnterCommandMode:
		a.mode = promptCommand
		a.promptBuf = ""
	case metaEnterFindMode:
		a.mode = promptFind
		a.promptBuf = ""
	case metaCopy:
		a.copySelection()
	case metaCut:
		a.cutSelection()
	case metaPaste:
		a.pasteClipboard()
	}
}

func (a *App) handlePromptKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.mode = promptNone
		a.promptBuf = ""
	case tcell.KeyEnter:
		line := a.promptBuf
		mode := a.mode
		a.mode = promptNone
		a.promptBuf = ""
		if mode == promptFind {
			line = "find " + line
		}
		a.runCommandLine(line)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(a.promptBuf); n > 0 {
			a.promptBuf = a.promptBuf[:n-1]
		}
	case tcell.KeyRune:
		a.promptBuf += string(ev.Rune())
	}
}

func (a *App) runCommandLine(line string) {
	result := a.dispatcher.Dispatch(a.pane, line)
	if result.Quit {
		a.quit = true
		a.forceQuit = result.ForceQuit
		return
	}
	if result.Message != "" {
		a.pane.SetStatus(result.Message, result.IsError)
	}
}

func (a *App) copySelection() {
	sels := a.pane.Selections()
	if len(sels) == 0 {
		return
	}
	if err := a.clip.Write(sels[0]); err != nil {
		logger.Warnf("app: clipboard write failed: %v", err)
	}
}

func (a *App) cutSelection() {
	sels := a.pane.Selections()
	if len(sels) == 0 {
		return
	}
	if err := a.clip.Write(sels[0]); err != nil {
		logger.Warnf("app: clipboard write failed: %v", err)
		return
	}
	a.pane.TransformSelections(func([]byte) ([]byte, bool) { return nil, false })
}

func (a *App) pasteClipboard() {
	text, err := a.clip.Read()
	if err != nil {
		logger.Warnf("app: clipboard read failed: %v", err)
		return
	}
	a.pane.InsertFromClipboard([]string{text})
}

func (a *App) draw() {
	w, h := a.tui.Size()
	a.pane.SetViewportSize(w, h-1)
	drawPane(a.tui.GetScreen(), a.pane, a.highlightM.Highlights(), a.themes.Current(),
		a.promptBuf, a.mode != promptNone)
	a.tui.Show()
}
