package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/corvidae/nib/internal/config"
	"github.com/corvidae/nib/internal/cursor"
	"github.com/corvidae/nib/internal/pane"
)

// fakeRunner records the last invocation and returns a canned result,
// standing in for os/exec.CommandContext in tests.
type fakeRunner struct {
	stdout  []byte
	err     error
	lastCmd string
	lastArg []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string, _ []byte) ([]byte, error) {
	f.lastCmd = name
	f.lastArg = args
	return f.stdout, f.err
}

func newTestPane(content string) *pane.Pane {
	p := pane.New(config.DefaultSettings(), 4, nil)
	if content != "" {
		p.Buffer().Insert(0, []byte(content))
	}
	return p
}

func selectAll(p *pane.Pane, content string) {
	p.Cursors().Primary().Offset = 0
	p.Cursors().Primary().SelectTo(p.Buffer(), cursor.End())
	_ = content
}

func saveTempFile(t *testing.T, p *pane.Pane) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "f.txt")
	p.Handle(pane.SaveAs(path))
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("SaveAs did not write %s: %v", path, err)
	}
	return path
}

func TestDispatchQuit(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	p := newTestPane("")
	for _, name := range []string{"quit", "q", ":q", "exit"} {
		r := d.Dispatch(p, name)
		if !r.Quit || r.ForceQuit {
			t.Fatalf("Dispatch(%q) = %+v, want Quit without ForceQuit", name, r)
		}
	}
	r := d.Dispatch(p, "q!")
	if !r.Quit || !r.ForceQuit {
		t.Fatalf("Dispatch(q!) = %+v, want Quit+ForceQuit", r)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	p := newTestPane("")
	r := d.Dispatch(p, "bogus")
	if !r.IsError {
		t.Fatalf("Dispatch(bogus) = %+v, want IsError", r)
	}
}

func TestDispatchGotoLineAndByteOffset(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	p := newTestPane("line one\nline two\nline three")

	if r := d.Dispatch(p, "goto 2:3"); r.IsError {
		t.Fatalf("goto 2:3 errored: %+v", r)
	}
	if got := p.Cursors().Primary().Offset; got != 11 {
		t.Fatalf("offset after goto 2:3 = %d, want 11", got)
	}

	if r := d.Dispatch(p, "goto B0"); r.IsError {
		t.Fatalf("goto B0 errored: %+v", r)
	}
	if got := p.Cursors().Primary().Offset; got != 0 {
		t.Fatalf("offset after goto B0 = %d, want 0", got)
	}
}

func TestDispatchSetValidAndInvalidKey(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	p := newTestPane("")

	if r := d.Dispatch(p, "set indent_size 2"); r.IsError {
		t.Fatalf("set indent_size 2 errored: %+v", r)
	}
	if p.Settings.IndentSize != 2 {
		t.Fatalf("IndentSize = %d, want 2", p.Settings.IndentSize)
	}

	if r := d.Dispatch(p, "set bogus_key x"); !r.IsError {
		t.Fatal("set with an unknown key did not error")
	}
}

func TestDispatchInsertCharHexDecimalAndName(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	p := newTestPane("")

	if r := d.Dispatch(p, "insertchar U+0041,66,EM DASH"); r.IsError {
		t.Fatalf("insertchar errored: %+v", r)
	}
	if got := string(p.Buffer().Bytes()); got != "AB—" {
		t.Fatalf("buffer = %q, want \"AB\\u2014\"", got)
	}
}

func TestDispatchInsertCharUnknownName(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	p := newTestPane("")
	r := d.Dispatch(p, "insertchar NOT A REAL NAME")
	if !r.IsError {
		t.Fatal("insertchar with an unknown name did not error")
	}
}

func TestDispatchToUpperLowerListQuotedRepeat(t *testing.T) {
	cases := []struct {
		content, arg, want string
	}{
		{"hello", "upper", "HELLO"},
		{"HELLO", "lower", "hello"},
		{"a b c", "list", "[a, b, c]"},
		{"a b", "quoted", `"a" "b"`},
		{"ab", "*3", "ababab"},
	}
	for _, tc := range cases {
		d := NewDispatcher(nil, nil, nil)
		p := newTestPane(tc.content)
		selectAll(p, tc.content)
		if r := d.Dispatch(p, "to "+tc.arg); r.IsError {
			t.Fatalf("to %s errored: %+v", tc.arg, r)
		}
		if got := string(p.Buffer().Bytes()); got != tc.want {
			t.Fatalf("to %s: buffer = %q, want %q", tc.arg, got, tc.want)
		}
	}
}

func TestDispatchToWithBadArgErrors(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	p := newTestPane("x")
	selectAll(p, "x")
	if r := d.Dispatch(p, "to sideways"); !r.IsError {
		t.Fatal("to with an invalid transformation did not error")
	}
}

func TestDispatchExecUsesConfiguredCommand(t *testing.T) {
	runner := &fakeRunner{stdout: []byte("ran ok\n")}
	d := NewDispatcher(runner, map[string][]string{"python": {"uv", "run"}}, nil)
	p := newTestPane("print(1)")
	p.Settings.FileType = "python"
	path := saveTempFile(t, p)

	r := d.Dispatch(p, "exec")
	if r.IsError {
		t.Fatalf("exec errored: %+v", r)
	}
	if runner.lastCmd != "uv" {
		t.Fatalf("runner.lastCmd = %q, want uv", runner.lastCmd)
	}
	if len(runner.lastArg) == 0 || runner.lastArg[len(runner.lastArg)-1] != path {
		t.Fatalf("runner.lastArg = %v, want to end with %q", runner.lastArg, path)
	}
}

func TestDispatchExecWithNoMappingErrors(t *testing.T) {
	runner := &fakeRunner{}
	d := NewDispatcher(runner, map[string][]string{}, nil)
	p := newTestPane("x")
	p.Settings.FileType = "cobol"
	saveTempFile(t, p)

	r := d.Dispatch(p, "exec")
	if !r.IsError {
		t.Fatal("exec with no ft mapping did not error")
	}
}

func TestDispatchLintRequiresSavedChanges(t *testing.T) {
	d := NewDispatcher(&fakeRunner{}, nil, map[string][]string{"go": {"golint"}})
	p := newTestPane("x")
	p.Settings.FileType = "go"
	r := d.Dispatch(p, "lint")
	if !r.IsError {
		t.Fatal("lint on a modified, unsaved pane did not error")
	}
}

func TestDispatchLintParsesDiagnosticsAndMovesCursor(t *testing.T) {
	runner := &fakeRunner{}
	d := NewDispatcher(runner, nil, map[string][]string{"go": {"golint"}})
	p := newTestPane("line one\nline two\nline three")
	p.Settings.FileType = "go"
	path := saveTempFile(t, p)
	runner.stdout = []byte(path + ":2:1: something is wrong\n")

	r := d.Dispatch(p, "lint")
	if r.IsError {
		t.Fatalf("lint errored: %+v", r)
	}
	if got := p.Cursors().Primary().Offset; got != 9 {
		t.Fatalf("offset after lint = %d, want 9 (start of line 2)", got)
	}
}

func TestDispatchPipeSelectionReplacesItWithStdout(t *testing.T) {
	runner := &fakeRunner{stdout: []byte("PIPED")}
	d := NewDispatcher(runner, nil, nil)
	p := newTestPane("hello world")
	selectAll(p, "hello world")

	r := d.Dispatch(p, "| tr a-z A-Z")
	if r.IsError {
		t.Fatalf("pipe errored: %+v", r)
	}
	if got := string(p.Buffer().Bytes()); got != "PIPED" {
		t.Fatalf("buffer = %q, want PIPED", got)
	}
}

func TestDispatchFindSetsStatusOnMiss(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	p := newTestPane("abc")
	r := d.Dispatch(p, "find zzz")
	if !r.IsError && r.Message == "" {
		t.Fatal("find miss produced no status message")
	}
}

type fakeThemes struct {
	names    []string
	setErr   error
	lastName string
}

func (f *fakeThemes) SetTheme(name string) error {
	f.lastName = name
	return f.setErr
}

func (f *fakeThemes) ListThemes() []string { return f.names }

func TestDispatchThemeWithNoSwitcherErrors(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	p := newTestPane("")
	r := d.Dispatch(p, "theme Dark")
	if !r.IsError {
		t.Fatalf("Dispatch(theme Dark) with no switcher = %+v, want IsError", r)
	}
}

func TestDispatchThemeSwitchesByName(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	ft := &fakeThemes{names: []string{"Dark", "Light"}}
	d.SetThemeSwitcher(ft)
	p := newTestPane("")

	r := d.Dispatch(p, "theme Dark")
	if r.IsError {
		t.Fatalf("Dispatch(theme Dark) = %+v, want success", r)
	}
	if ft.lastName != "Dark" {
		t.Fatalf("SetTheme called with %q, want %q", ft.lastName, "Dark")
	}
}

func TestDispatchThemeWithNoArgListsThemes(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	ft := &fakeThemes{names: []string{"Dark", "Light"}}
	d.SetThemeSwitcher(ft)
	p := newTestPane("")

	r := d.Dispatch(p, "theme")
	if r.IsError || r.Message == "" {
		t.Fatalf("Dispatch(theme) = %+v, want a non-error listing message", r)
	}
}

func TestDispatchThemeUnknownNamePropagatesError(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)
	ft := &fakeThemes{setErr: fmt.Errorf("theme 'Bogus' not found")}
	d.SetThemeSwitcher(ft)
	p := newTestPane("")

	r := d.Dispatch(p, "theme Bogus")
	if !r.IsError {
		t.Fatalf("Dispatch(theme Bogus) = %+v, want IsError", r)
	}
}
