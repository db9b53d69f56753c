package pane

import (
	"bytes"

	"github.com/corvidae/nib/internal/config"
)

// splitLine is one line's content plus its original terminator bytes
// (nil on the buffer's final, possibly-unterminated line).
type splitLine struct {
	content []byte
	term    []byte
}

func splitLines(data []byte) []splitLine {
	var lines []splitLine
	start := 0
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\n':
			lines = append(lines, splitLine{content: data[start:i], term: []byte("\n")})
			start = i + 1
		case '\r':
			if i+1 < len(data) && data[i+1] == '\n' {
				lines = append(lines, splitLine{content: data[start:i], term: []byte("\r\n")})
				i++
				start = i + 1
			} else {
				lines = append(lines, splitLine{content: data[start:i], term: []byte("\r")})
				start = i + 1
			}
		}
	}
	lines = append(lines, splitLine{content: data[start:], term: nil})
	return lines
}

func joinLines(lines []splitLine) []byte {
	var out bytes.Buffer
	for _, l := range lines {
		out.Write(l.content)
		out.Write(l.term)
	}
	return out.Bytes()
}

// applySaveTransforms runs the save-time-only transforms over data, in
// order: trim_trailing_whitespace, insert_final_newline,
// normalize_end_of_line. It never touches the live buffer — the caller
// writes its return value to disk directly.
func applySaveTransforms(data []byte, settings config.Settings) []byte {
	lines := splitLines(data)

	if settings.TrimTrailingWhitespace {
		for i := range lines {
			lines[i].content = bytes.TrimRight(lines[i].content, " \t")
		}
	}

	if settings.InsertFinalNewline {
		if n := len(lines); n > 0 && len(lines[n-1].content) > 0 && lines[n-1].term == nil {
			lines[n-1].term = settings.EOL.Bytes()
		}
	}

	if settings.NormalizeEndOfLine {
		eol := settings.EOL.Bytes()
		for i := range lines {
			if lines[i].term != nil {
				lines[i].term = eol
			}
		}
	}

	return joinLines(lines)
}
