// Package command implements the colon command surface: a line of
// text typed at the command prompt is tokenized into a name and the
// rest of the line, dispatched to a small static table of handlers,
// and turned into one status-line Result. No handler mutates pane
// state on an error path.
package command

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/corvidae/nib/internal/cliposition"
	"github.com/corvidae/nib/internal/cursor"
	"github.com/corvidae/nib/internal/pane"
)

// Result is what every command produces; the caller turns it into a
// status-line message and, if Quit is set, begins shutdown.
type Result struct {
	Message   string
	IsError   bool
	Quit      bool
	ForceQuit bool
}

func okResult(msg string) Result  { return Result{Message: msg} }
func errResult(msg string) Result { return Result{Message: msg, IsError: true} }

// Runner is the external-process collaborator behind "exec" and
// "lint": a single shell-out call, swappable in tests.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdin []byte) (stdout []byte, err error)
}

// ThemeSwitcher is the collaborator behind the "theme" command: naming
// and switching the active display theme. *theme.Manager satisfies
// this directly.
type ThemeSwitcher interface {
	SetTheme(name string) error
	ListThemes() []string
}

// Dispatcher holds the collaborators commands other than pure pane
// actions need: a Runner for exec/lint, a per-filetype exec/lint
// command table (keyed by the pane's ftype setting), and an optional
// ThemeSwitcher for the "theme" command.
type Dispatcher struct {
	runner      Runner
	execCommand map[string][]string
	lintCommand map[string][]string
	themes      ThemeSwitcher
	timeout     time.Duration
}

// SetThemeSwitcher wires the "theme" command to a collaborator; left
// unset, "theme" reports an error instead of panicking.
func (d *Dispatcher) SetThemeSwitcher(t ThemeSwitcher) {
	d.themes = t
}

// NewDispatcher returns a Dispatcher. execCommand/lintCommand map a
// ftype setting (e.g. "python") to the argv that runs/lints a file;
// either may be nil to disable that surface entirely.
func NewDispatcher(runner Runner, execCommand, lintCommand map[string][]string) *Dispatcher {
	return &Dispatcher{
		runner:      runner,
		execCommand: execCommand,
		lintCommand: lintCommand,
		timeout:     10 * time.Second,
	}
}

// Dispatch tokenizes line on its first run of whitespace into (name,
// rest) and routes it to the matching handler. A leading "|" is
// special-cased ahead of tokenization: the remainder is a shell
// pipeline the primary selection is piped through.
func (d *Dispatcher) Dispatch(p *pane.Pane, line string) Result {
	if rest, ok := strings.CutPrefix(line, "|"); ok {
		return d.pipeSelection(p, rest)
	}

	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "quit", "q", ":q", "exit":
		return Result{Quit: true}
	case "q!":
		return Result{Quit: true, ForceQuit: true}
	case "find":
		p.ClearStatus()
		p.Handle(pane.Find(rest))
		return d.paneStatus(p)
	case "goto":
		return gotoCmd(p, rest)
	case "open":
		return openCmd(p, rest)
	case "save":
		if rest == "" {
			p.Handle(pane.Save())
		} else {
			p.Handle(pane.SaveAs(rest))
		}
		return d.paneStatus(p)
	case "set":
		return setCmd(p, rest)
	case "insertchar", "c":
		return insertCharCmd(p, rest)
	case "to":
		return toCmd(p, rest)
	case "exec", "ex", "execute":
		return d.execCmd(p, rest)
	case "lint":
		return d.lintCmd(p)
	case "theme":
		return d.themeCmd(rest)
	case "":
		return Result{}
	default:
		return errResult(fmt.Sprintf("Unknown command: %s", name))
	}
}

// paneStatus reports the pane's own last status message, set by the
// Action it just handled (Save and SaveAs always set one; Find sets
// one only on a miss, and Dispatch clears the status before a find).
func (d *Dispatcher) paneStatus(p *pane.Pane) Result {
	msg, isErr := p.StatusMessage()
	return Result{Message: msg, IsError: isErr}
}

// themeCmd switches the active theme by name, or with no argument
// lists the themes available to switch to.
func (d *Dispatcher) themeCmd(arg string) Result {
	if d.themes == nil {
		return errResult("theme switching not available")
	}
	if arg == "" {
		return okResult("Available themes: " + strings.Join(d.themes.ListThemes(), ", "))
	}
	if err := d.themes.SetTheme(arg); err != nil {
		return errResult(err.Error())
	}
	return okResult("Theme set to " + arg)
}

func gotoCmd(p *pane.Pane, arg string) Result {
	target, ok := parseGotoTarget(arg)
	if !ok {
		return errResult(fmt.Sprintf("goto error: %q is not a valid target", arg))
	}
	p.Handle(pane.MoveTo(target))
	return Result{}
}

// parseGotoTarget accepts "B<byteoffset>", "LINE:COL", or bare "LINE".
func parseGotoTarget(s string) (cursor.MoveTarget, bool) {
	if rest, ok := strings.CutPrefix(s, "B"); ok {
		if n, err := strconv.Atoi(rest); err == nil {
			return cursor.AtByteOffset(n), true
		}
		return cursor.MoveTarget{}, false
	}
	if line, col, ok := strings.Cut(s, ":"); ok {
		lineN, err1 := strconv.Atoi(line)
		colN, err2 := strconv.Atoi(col)
		if err1 == nil && err2 == nil {
			return cursor.Location(lineN, colN), true
		}
		return cursor.MoveTarget{}, false
	}
	if lineN, err := strconv.Atoi(s); err == nil {
		return cursor.Location(lineN, 1), true
	}
	return cursor.MoveTarget{}, false
}

func openCmd(p *pane.Pane, arg string) Result {
	if arg == "" {
		return errResult("open error: correct usage is 'open PATH[:LINE[:COL]]'")
	}
	pos := cliposition.Parse(arg)
	if err := p.Open(pos.Path, pos.Line, pos.Col); err != nil {
		return errResult(fmt.Sprintf("Unable to open %s: %v", pos.Path, err))
	}
	return Result{}
}

func setCmd(p *pane.Pane, arg string) Result {
	key, value, ok := strings.Cut(arg, " ")
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return errResult("set error: correct usage is 'set KEY VALUE'")
	}
	if err := p.Settings.Set(key, value); err != nil {
		return errResult(fmt.Sprintf("set error: %v", err))
	}
	return okResult(fmt.Sprintf("%s set to %s", key, value))
}

// insertCharCmd inserts one character per comma-separated token in
// arg, each parsed as a "U+XXXX" codepoint, a bare decimal codepoint,
// or a name from a small built-in Unicode name table.
func insertCharCmd(p *pane.Pane, arg string) Result {
	var out strings.Builder
	for _, tok := range strings.Split(arg, ",") {
		tok = strings.TrimSpace(tok)
		r, ok := parseCharSpec(tok)
		if !ok {
			return errResult(fmt.Sprintf("No character with name %q", tok))
		}
		out.WriteRune(r)
	}
	p.Handle(pane.Insert(out.String()))
	return Result{}
}

func parseCharSpec(tok string) (rune, bool) {
	if hex, ok := strings.CutPrefix(tok, "U+"); ok {
		if n, err := strconv.ParseInt(hex, 16, 32); err == nil {
			return rune(n), true
		}
		return 0, false
	}
	if tok != "" && allDigits(tok) {
		if n, err := strconv.Atoi(tok); err == nil {
			return rune(n), true
		}
	}
	if r, ok := namedChars[strings.ToUpper(tok)]; ok {
		return r, true
	}
	return 0, false
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// namedChars is a small, curated subset of Unicode character names —
// there is no equivalent of unicode_names2's full database in the
// dependency set, so only the handful of characters worth typing by
// name are covered; everything else goes through U+XXXX or decimal.
var namedChars = map[string]rune{
	"SPACE":                 ' ',
	"NO-BREAK SPACE":        ' ',
	"NBSP":                  ' ',
	"EM DASH":               '—',
	"EN DASH":               '–',
	"HORIZONTAL ELLIPSIS":   '…',
	"ELLIPSIS":              '…',
	"BULLET":                '•',
	"COPYRIGHT SIGN":        '©',
	"REGISTERED SIGN":       '®',
	"DEGREE SIGN":           '°',
	"LEFT DOUBLE QUOTATION MARK":  '“',
	"RIGHT DOUBLE QUOTATION MARK": '”',
	"LEFT SINGLE QUOTATION MARK":  '‘',
	"RIGHT SINGLE QUOTATION MARK": '’',
}

// toCmd applies one of the fixed selection transforms: lower/upper
// case-fold, quoted (wrap each whitespace-separated word in escaped
// double quotes), list ("[a, b, c]" from whitespace-separated words),
// or "*N" to repeat the selection text N times.
func toCmd(p *pane.Pane, arg string) Result {
	transform, ok := parseToTransform(arg)
	if !ok {
		return errResult(fmt.Sprintf("to error: %q is not a valid transformation", arg))
	}
	p.TransformSelections(transform)
	return Result{}
}

func parseToTransform(arg string) (func([]byte) ([]byte, bool), bool) {
	switch {
	case arg == "upper":
		return func(s []byte) ([]byte, bool) { return bytes.ToUpper(s), true }, true
	case arg == "lower":
		return func(s []byte) ([]byte, bool) { return bytes.ToLower(s), true }, true
	case arg == "list":
		return func(s []byte) ([]byte, bool) {
			words := strings.Fields(string(s))
			return []byte("[" + strings.Join(words, ", ") + "]"), true
		}, true
	case arg == "quoted":
		return func(s []byte) ([]byte, bool) { return []byte(quoteWords(string(s))), true }, true
	case strings.HasPrefix(arg, "*"):
		n, err := strconv.Atoi(arg[1:])
		if err != nil || n < 0 {
			return nil, false
		}
		return func(s []byte) ([]byte, bool) { return bytes.Repeat(s, n), true }, true
	}
	return nil, false
}

// quoteWords wraps each whitespace-separated run of non-space
// characters in double quotes, backslash-escaping embedded quotes and
// backslashes, leaving the original whitespace between words intact.
func quoteWords(s string) string {
	var out strings.Builder
	inWord := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if inWord {
				out.WriteByte('"')
				inWord = false
			}
			out.WriteRune(r)
			continue
		}
		if !inWord {
			out.WriteByte('"')
			inWord = true
		}
		if r == '"' || r == '\\' {
			out.WriteByte('\\')
		}
		out.WriteRune(r)
	}
	if inWord {
		out.WriteByte('"')
	}
	return out.String()
}

// execCmd runs the configured command for the pane's current
// filetype against its file path and reports the exit outcome; output
// capture is best-effort and never executed synchronously against
// buffer state.
func (d *Dispatcher) execCmd(p *pane.Pane, _ string) Result {
	if d.runner == nil {
		return errResult("exec error: no runner configured")
	}
	path := p.Path()
	if path == "" {
		return errResult("exec error: pane has no file path")
	}
	argv, has := d.execCommand[p.Settings.FileType]
	if !has || len(argv) == 0 {
		return errResult(fmt.Sprintf("exec error: no exec command for ft:%s", p.Settings.FileType))
	}
	args := append(append([]string{}, argv[1:]...), path)
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	out, err := d.runner.Run(ctx, argv[0], args, nil)
	if err != nil {
		return errResult(fmt.Sprintf("exec error: %v", err))
	}
	return okResult(fmt.Sprintf("exec ok: %s", firstLine(out)))
}

// lintCmd runs the configured linter for the pane's filetype, parses
// "file:line:col: message" output lines, moves the cursor to the
// first reported error, and reports a summary.
func (d *Dispatcher) lintCmd(p *pane.Pane) Result {
	if p.Modified() {
		return errResult("lint error: save your changes before linting")
	}
	if d.runner == nil {
		return errResult("lint error: no runner configured")
	}
	path := p.Path()
	if path == "" {
		return errResult("lint error: pane has no file path")
	}
	argv, has := d.lintCommand[p.Settings.FileType]
	if !has || len(argv) == 0 {
		return errResult(fmt.Sprintf("lint error: no lint command for ft:%s", p.Settings.FileType))
	}
	args := append(append([]string{}, argv[1:]...), path)
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	out, err := d.runner.Run(ctx, argv[0], args, nil)
	diags := parseDiagnostics(string(out), path)
	if len(diags) > 0 {
		p.Handle(pane.MoveTo(cursor.Location(diags[0].Line, diags[0].Col)))
	}
	if err != nil && len(diags) == 0 {
		return errResult(fmt.Sprintf("lint error: %v", err))
	}
	return okResult(fmt.Sprintf("linted (%d diagnostic(s))", len(diags)))
}

// diagnostic is one file:line:col: message match from linter output.
type diagnostic struct {
	Line, Col int
	Message   string
}

// parseDiagnostics extracts "path:line:col: message" lines belonging
// to path from a linter's combined output; non-matching lines (notes,
// summaries) are ignored.
func parseDiagnostics(output, path string) []diagnostic {
	var out []diagnostic
	for _, line := range strings.Split(output, "\n") {
		fields := strings.SplitN(line, ":", 4)
		if len(fields) != 4 || fields[0] != path {
			continue
		}
		lineN, err1 := strconv.Atoi(fields[1])
		colN, err2 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, diagnostic{Line: lineN, Col: colN, Message: strings.TrimSpace(fields[3])})
	}
	return out
}

func firstLine(b []byte) string {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

// pipeSelection shells out through a user-supplied pipeline with the
// primary selection on stdin, replacing that selection with stdout on
// success. A thin external-process collaborator, not reimplemented
// shell logic.
func (d *Dispatcher) pipeSelection(p *pane.Pane, shellCommand string) Result {
	shellCommand = strings.TrimSpace(shellCommand)
	if shellCommand == "" {
		return errResult("| error: empty shell command")
	}
	if d.runner == nil {
		return errResult("| error: no runner configured")
	}
	sels := p.Selections()
	if len(sels) == 0 {
		return errResult("| error: no selection to pipe")
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	out, err := d.runner.Run(ctx, "sh", []string{"-c", shellCommand}, []byte(sels[0]))
	if err != nil {
		return errResult(fmt.Sprintf("| error: %v", err))
	}
	p.TransformSelections(func([]byte) ([]byte, bool) { return out, true })
	return Result{}
}
