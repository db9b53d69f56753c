// Package highlight is a thin tree-sitter boundary: it turns edit
// notifications from internal/edit into a debounced, incremental
// re-parse and exposes the resulting styled spans. It owns no
// rendering decisions — it is a pure "buffer bytes in, styled spans
// out" service consumed by whatever draws the pane.
package highlight

import (
	"context"
	"sync"
	"time"

	"github.com/corvidae/nib/internal/buffer"
	"github.com/corvidae/nib/internal/edit"
	"github.com/corvidae/nib/internal/highlighter"
	"github.com/corvidae/nib/internal/logger"
	sitter "github.com/smacker/go-tree-sitter"
)

// PaneProvider is the minimal slice of pane.Pane the highlighter
// needs: the live buffer to reparse, and the path used to pick a
// tree-sitter grammar.
type PaneProvider interface {
	Buffer() buffer.Buffer
	Path() string
}

// DebounceHighlightDuration is how long the manager waits after the
// last edit notification before starting a reparse.
const DebounceHighlightDuration = 65 * time.Millisecond

// Manager implements edit.Notifier, accumulating edit notifications
// and running a debounced, incremental re-highlight in the
// background. Safe for concurrent use.
type Manager struct {
	pane        PaneProvider
	highlighter *highlighter.Highlighter
	requestDraw func()

	mu           sync.Mutex
	timer        *time.Timer
	pendingCtx   context.Context
	cancelFunc   context.CancelFunc
	isRunning    bool
	pendingEdits []edit.Notification
	tree         *sitter.Tree
	highlights   highlighter.HighlightResult
}

// NewManager returns a Manager. requestDraw is called (possibly from
// a background goroutine) whenever fresh highlights become available,
// so the caller can schedule a redraw.
func NewManager(pane PaneProvider, hl *highlighter.Highlighter, requestDraw func()) *Manager {
	return &Manager{
		pane:        pane,
		highlighter: hl,
		requestDraw: requestDraw,
		highlights:  make(highlighter.HighlightResult),
	}
}

// Highlights returns the most recently computed highlight result.
func (m *Manager) Highlights() highlighter.HighlightResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.highlights
}

// NotifyEdit implements edit.Notifier: every buffer mutation is
// queued and debounced into a single reparse.
func (m *Manager) NotifyEdit(n edit.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pendingEdits = append(m.pendingEdits, n)
	logger.DebugTagf("highlight", "Manager: accumulated edit notification: %+v", n)

	if m.timer != nil {
		m.timer.Reset(DebounceHighlightDuration)
		return
	}
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.pendingCtx, m.cancelFunc = context.WithCancel(context.Background())
	m.timer = time.AfterFunc(DebounceHighlightDuration, m.runHighlightUpdate)
}

// Reparse forces an immediate (non-debounced) full highlight, used on
// Open when there is no prior tree to incrementally edit.
func (m *Manager) Reparse() {
	m.mu.Lock()
	m.tree = nil
	m.mu.Unlock()
	m.runHighlightUpdate()
}

func (m *Manager) runHighlightUpdate() {
	m.mu.Lock()
	m.timer = nil

	if m.isRunning {
		m.mu.Unlock()
		return
	}

	m.isRunning = true
	ctx := m.pendingCtx
	if ctx == nil {
		ctx = context.Background()
	}
	m.pendingCtx = nil
	m.cancelFunc = nil

	edits := make([]edit.Notification, len(m.pendingEdits))
	copy(edits, m.pendingEdits)
	m.pendingEdits = m.pendingEdits[:0]

	buf := m.pane.Buffer()
	path := m.pane.Path()
	oldTree := m.tree
	m.mu.Unlock()

	go func(buf buffer.Buffer, path string, edits []edit.Notification, taskCtx context.Context) {
		defer func() {
			m.mu.Lock()
			m.isRunning = false
			m.mu.Unlock()
		}()

		if oldTree != nil {
			for _, n := range edits {
				oldTree.Edit(sitter.EditInput{
					StartIndex:  uint32(n.StartByte),
					OldEndIndex: uint32(n.OldEndByte),
					NewEndIndex: uint32(n.NewEndByte),
					StartPoint:  toSitterPoint(n.StartPoint),
					OldEndPoint: toSitterPoint(n.OldEndPoint),
					NewEndPoint: toSitterPoint(n.NewEndPoint),
				})
			}
		}

		lang, queryBytes := m.highlighter.GetLanguage(path)
		if lang == nil {
			m.setResult(make(highlighter.HighlightResult), nil)
			m.requestDraw()
			return
		}

		newHighlights, newTree, err := m.highlighter.HighlightBuffer(taskCtx, buf.Bytes(), lang, queryBytes, oldTree)
		if err != nil {
			if taskCtx.Err() != context.Canceled {
				logger.Warnf("highlight: reparse failed: %v", err)
				m.setResult(make(highlighter.HighlightResult), nil)
			}
			m.requestDraw()
			return
		}

		m.setResult(newHighlights, newTree)
		m.requestDraw()
	}(buf, path, edits, ctx)
}

func (m *Manager) setResult(h highlighter.HighlightResult, tree *sitter.Tree) {
	m.mu.Lock()
	m.highlights = h
	m.tree = tree
	m.mu.Unlock()
}

func toSitterPoint(p edit.Point) sitter.Point {
	return sitter.Point{Row: uint32(p.Line), Column: uint32(p.Col)}
}

// Shutdown cancels any pending or running reparse.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelFunc != nil {
		m.cancelFunc()
		m.cancelFunc = nil
	}
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
