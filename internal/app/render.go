package app

import (
	"fmt"
	"math"

	"github.com/corvidae/nib/internal/highlighter"
	"github.com/corvidae/nib/internal/pane"
	"github.com/corvidae/nib/internal/theme"
	"github.com/corvidae/nib/internal/types"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// drawPane paints the pane's visible lines, selections, and syntax
// highlights onto screen, followed by the status/command line on the
// final row, and positions the terminal cursor. Horizontal scrolling
// is not modeled — Pane only tracks a vertical viewport — so very long
// lines simply run off the right edge of the screen.
func drawPane(screen tcell.Screen, p *pane.Pane, highlights highlighter.HighlightResult, activeTheme *theme.Theme, promptLine string, promptActive bool) {
	width, height := screen.Size()
	if width <= 0 || height <= 0 {
		return
	}

	defaultStyle := activeTheme.GetStyle("Default")
	lineNumberStyle := activeTheme.GetStyle("LineNumber")
	selectionStyle := activeTheme.GetStyle("Selection")

	footerHeight := 1
	viewHeight := height - footerHeight
	if viewHeight <= 0 {
		viewHeight = 1
	}

	buf := p.Buffer()
	lineCount := buf.LineCount()
	if lineCount == 0 {
		lineCount = 1
	}
	maxDigits := int(math.Log10(float64(lineCount))) + 1
	gutterWidth := maxDigits + 1
	if gutterWidth >= width {
		gutterWidth = 0
	}
	textAreaWidth := width - gutterWidth

	tabWidth := p.TabWidth
	if tabWidth <= 0 {
		tabWidth = 8
	}

	selRanges := selectionsByLine(p)
	viewY := p.ViewportRow()

	for screenY := 0; screenY < viewHeight; screenY++ {
		lineIdx := screenY + viewY

		for x := 0; x < width; x++ {
			screen.SetContent(x, screenY, ' ', nil, defaultStyle)
		}

		if gutterWidth > 0 && lineIdx < buf.LineCount() {
			numStr := fmt.Sprintf("%*d", maxDigits, lineIdx+1)
			for i, r := range numStr {
				screen.SetContent(i, screenY, r, nil, lineNumberStyle)
			}
		}

		if lineIdx < 0 || lineIdx >= buf.LineCount() {
			continue
		}

		lineBytes := buf.Line(lineIdx)
		lineStyles := highlights[lineIdx]
		lineSel := selRanges[lineIdx]

		drawLine(screen, lineBytes, screenY, gutterWidth, textAreaWidth, tabWidth,
			defaultStyle, selectionStyle, activeTheme, lineStyles, lineSel)
	}

	drawFooter(screen, p, height-1, width, promptLine, promptActive, activeTheme)
	positionCursor(screen, p, gutterWidth, viewHeight, tabWidth, promptLine, promptActive, width)
}

type lineSelection struct{ startCol, endCol int }

// selectionsByLine converts every cursor's byte-offset selection into
// per-line rune-column ranges for highlighting.
func selectionsByLine(p *pane.Pane) map[int][]lineSelection {
	buf := p.Buffer()
	out := make(map[int][]lineSelection)
	for _, c := range p.Cursors().Cursors() {
		start, end, ok := c.Selection()
		if !ok {
			continue
		}
		startLine := buf.ByteToLine(start)
		endLine := buf.ByteToLine(end)
		for line := startLine; line <= endLine; line++ {
			var sCol, eCol int
			lineStart := buf.LineToByte(line)
			if line == startLine {
				sCol = runeCount(buf.Slice(lineStart, start))
			} else {
				sCol = 0
			}
			if line == endLine {
				eCol = runeCount(buf.Slice(lineStart, end))
			} else {
				eCol = runeCount(buf.Line(line))
			}
			out[line] = append(out[line], lineSelection{startCol: sCol, endCol: eCol})
		}
	}
	return out
}

func runeCount(b []byte) int {
	n := 0
	for range string(b) {
		n++
	}
	return n
}

func drawLine(screen tcell.Screen, lineBytes []byte, screenY, gutterWidth, textAreaWidth, tabWidth int,
	defaultStyle, selectionStyle tcell.Style, activeTheme *theme.Theme,
	styles []types.StyledRange, sel []lineSelection) {

	width := gutterWidth + textAreaWidth
	gr := uniseg.NewGraphemes(string(lineBytes))
	visualX := 0
	runeIdx := 0

	for gr.Next() {
		runes := gr.Runes()
		if len(runes) == 0 {
			continue
		}
		clusterWidth := gr.Width()
		screenX := visualX + gutterWidth

		if runes[0] == '\t' {
			spaces := tabWidth - (visualX % tabWidth)
			for dx := 0; dx < spaces; dx++ {
				x := screenX + dx
				if x >= gutterWidth && x < width {
					screen.SetContent(x, screenY, ' ', nil, defaultStyle)
				}
			}
			visualX += spaces
			runeIdx++
			continue
		}

		style := defaultStyle
		for _, s := range styles {
			if runeIdx >= s.StartCol && runeIdx < s.EndCol {
				style = activeTheme.GetStyle(s.StyleName)
				break
			}
		}
		for _, s := range sel {
			if runeIdx >= s.startCol && runeIdx < s.endCol {
				style = selectionStyle
				break
			}
		}

		if screenX >= gutterWidth && screenX < width {
			screen.SetContent(screenX, screenY, runes[0], runes[1:], style)
			for cw := 1; cw < clusterWidth; cw++ {
				if screenX+cw < width {
					screen.SetContent(screenX+cw, screenY, ' ', nil, style)
				}
			}
		}

		visualX += clusterWidth
		runeIdx += len(runes)
		if visualX >= textAreaWidth {
			break
		}
	}
}

func drawFooter(screen tcell.Screen, p *pane.Pane, row, width int, promptLine string, promptActive bool, activeTheme *theme.Theme) {
	style := activeTheme.GetStyle("StatusBar")
	for x := 0; x < width; x++ {
		screen.SetContent(x, row, ' ', nil, style)
	}

	var text string
	if promptActive {
		text = ":" + promptLine
	} else if msg, isErr := p.StatusMessage(); msg != "" {
		if isErr {
			style = activeTheme.GetStyle("Error")
		}
		text = msg
	} else {
		name := p.Title()
		if p.Modified() {
			name += " [+]"
		}
		text = name
	}

	for i, r := range text {
		if i >= width {
			break
		}
		screen.SetContent(i, row, r, nil, style)
	}
}

func positionCursor(screen tcell.Screen, p *pane.Pane, gutterWidth, viewHeight, tabWidth int, promptLine string, promptActive bool, width int) {
	if promptActive {
		col := 1 + len([]rune(promptLine))
		if col >= width {
			col = width - 1
		}
		screen.ShowCursor(col, viewHeight)
		return
	}

	c := p.Cursors().Primary()
	buf := p.Buffer()
	line := buf.ByteToLine(c.Offset)
	screenY := line - p.ViewportRow()
	if screenY < 0 || screenY >= viewHeight {
		screen.HideCursor()
		return
	}

	lineStart := buf.LineToByte(line)
	visualCol := visualColumn(buf.Slice(lineStart, c.Offset), tabWidth)
	screenX := visualCol + gutterWidth
	if screenX < gutterWidth || screenX >= width {
		screen.HideCursor()
		return
	}
	screen.ShowCursor(screenX, screenY)
}

func visualColumn(prefix []byte, tabWidth int) int {
	col := 0
	gr := uniseg.NewGraphemes(string(prefix))
	for gr.Next() {
		runes := gr.Runes()
		if len(runes) > 0 && runes[0] == '\t' {
			col += tabWidth - (col % tabWidth)
		} else {
			col += gr.Width()
		}
	}
	return col
}
