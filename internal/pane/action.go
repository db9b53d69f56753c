package pane

import "github.com/corvidae/nib/internal/cursor"

// ActionKind discriminates the fixed set of pane-level operations a
// terminal event maps to. Actions are built with the package-level
// constructors below rather than assembled as a struct literal.
type ActionKind int

const (
	ActionMoveTo ActionKind = iota
	ActionSelectTo
	ActionSelectAll
	ActionInsert
	ActionDeleteBackward
	ActionDeleteForward
	ActionDeleteWord
	ActionIndent
	ActionDedent
	ActionMoveLinesUp
	ActionMoveLinesDown
	ActionUndo
	ActionRedo
	ActionFind
	ActionRepeatFind
	ActionRepeatFindBackward
	ActionQuickAddNext
	ActionSave
	ActionSaveAs
	ActionScrollUp
	ActionScrollDown
)

// Action is one entry drained from the event loop's action queue and
// dispatched to a Pane via Handle.
type Action struct {
	Kind   ActionKind
	Target cursor.MoveTarget
	Text   string
	Path   string
	N      int
}

func MoveTo(t cursor.MoveTarget) Action    { return Action{Kind: ActionMoveTo, Target: t} }
func SelectTo(t cursor.MoveTarget) Action  { return Action{Kind: ActionSelectTo, Target: t} }
func SelectAll() Action                    { return Action{Kind: ActionSelectAll} }
func Insert(s string) Action               { return Action{Kind: ActionInsert, Text: s} }
func DeleteBackward() Action               { return Action{Kind: ActionDeleteBackward} }
func DeleteForward() Action                { return Action{Kind: ActionDeleteForward} }
func DeleteWord() Action                   { return Action{Kind: ActionDeleteWord} }
func Indent() Action                       { return Action{Kind: ActionIndent} }
func Dedent() Action                       { return Action{Kind: ActionDedent} }
func MoveLinesUp() Action                  { return Action{Kind: ActionMoveLinesUp} }
func MoveLinesDown() Action                { return Action{Kind: ActionMoveLinesDown} }
func Undo() Action                         { return Action{Kind: ActionUndo} }
func Redo() Action                         { return Action{Kind: ActionRedo} }
func Find(needle string) Action            { return Action{Kind: ActionFind, Text: needle} }
func RepeatFind() Action                   { return Action{Kind: ActionRepeatFind} }
func RepeatFindBackward() Action           { return Action{Kind: ActionRepeatFindBackward} }
func QuickAddNext() Action                 { return Action{Kind: ActionQuickAddNext} }
func Save() Action                         { return Action{Kind: ActionSave} }
func SaveAs(path string) Action            { return Action{Kind: ActionSaveAs, Path: path} }
func ScrollUp(n int) Action                { return Action{Kind: ActionScrollUp, N: n} }
func ScrollDown(n int) Action              { return Action{Kind: ActionScrollDown, N: n} }
