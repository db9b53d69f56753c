// internal/config/settings.go
package config

import (
	"fmt"
	"strconv"
)

// IndentStyle selects whether Indent/Dedent operate with spaces or tabs.
type IndentStyle string

const (
	IndentStyleSpaces IndentStyle = "spaces"
	IndentStyleTabs   IndentStyle = "tabs"
)

// EOL names the line terminator written to disk at save time.
type EOL string

const (
	EOLLF   EOL = "lf"
	EOLCRLF EOL = "crlf"
	EOLCR   EOL = "cr"
)

// Bytes returns the on-disk byte sequence for the terminator.
func (e EOL) Bytes() []byte {
	switch e {
	case EOLCRLF:
		return []byte("\r\n")
	case EOLCR:
		return []byte("\r")
	default:
		return []byte("\n")
	}
}

// AutoIndent selects whether a newline carries forward the current
// line's indentation.
type AutoIndent string

const (
	AutoIndentOff  AutoIndent = "off"
	AutoIndentKeep AutoIndent = "keep"
)

// Debug toggles scope-tracing diagnostics.
type Debug string

const (
	DebugOff    Debug = "off"
	DebugScopes Debug = "scopes"
)

// Settings is the pane-scoped, per-buffer subset of configuration: the
// options in spec section 6's "recognized options" table. It is decoded
// from TOML and may also be mutated at runtime via the `set` command.
type Settings struct {
	AutoIndent             AutoIndent  `toml:"autoindent"`
	Debug                  Debug       `toml:"debug"`
	EOL                    EOL         `toml:"eol"`
	FileType               string      `toml:"ftype"`
	IndentSize             int         `toml:"indent_size"`
	IndentStyle            IndentStyle `toml:"indent_style"`
	InsertFinalNewline     bool        `toml:"insert_final_newline"`
	NormalizeEndOfLine     bool        `toml:"normalize_end_of_line"`
	TrimTrailingWhitespace bool        `toml:"trim_trailing_whitespace"`
}

// DefaultSettings returns the editor's out-of-the-box settings.
func DefaultSettings() Settings {
	return Settings{
		AutoIndent:             AutoIndentKeep,
		Debug:                  DebugOff,
		EOL:                    EOLLF,
		FileType:               "",
		IndentSize:             4,
		IndentStyle:            IndentStyleSpaces,
		InsertFinalNewline:     true,
		NormalizeEndOfLine:     false,
		TrimTrailingWhitespace: false,
	}
}

// Validate clamps out-of-range values to their defaults rather than
// rejecting the whole settings block, mirroring EditorConfig's own
// validate().
func (s *Settings) Validate() {
	defaults := DefaultSettings()
	if s.IndentSize < 0 || s.IndentSize > 32 {
		s.IndentSize = defaults.IndentSize
	}
	switch s.EOL {
	case EOLLF, EOLCRLF, EOLCR:
	default:
		s.EOL = defaults.EOL
	}
	switch s.IndentStyle {
	case IndentStyleSpaces, IndentStyleTabs:
	default:
		s.IndentStyle = defaults.IndentStyle
	}
	switch s.AutoIndent {
	case AutoIndentOff, AutoIndentKeep:
	default:
		s.AutoIndent = defaults.AutoIndent
	}
	switch s.Debug {
	case DebugOff, DebugScopes:
	default:
		s.Debug = defaults.Debug
	}
}

// Set applies a single `set KEY VALUE` command to the settings block,
// returning a command-error on an unknown key or malformed value (spec
// section 7's "Command error" kind) rather than panicking.
func (s *Settings) Set(key, value string) error {
	switch key {
	case "autoindent":
		switch value {
		case "off", "keep":
			s.AutoIndent = AutoIndent(value)
		default:
			return fmt.Errorf("unknown setting autoindent: %q", value)
		}
	case "debug":
		switch value {
		case "off", "scopes":
			s.Debug = Debug(value)
		default:
			return fmt.Errorf("unknown setting debug: %q", value)
		}
	case "eol":
		switch value {
		case "lf", "crlf", "cr":
			s.EOL = EOL(value)
		default:
			return fmt.Errorf("unknown setting eol: %q", value)
		}
	case "ftype":
		s.FileType = value
	case "indent_size":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > 32 {
			return fmt.Errorf("invalid indent_size: %q", value)
		}
		s.IndentSize = n
	case "indent_style":
		switch value {
		case "spaces", "tabs":
			s.IndentStyle = IndentStyle(value)
		default:
			return fmt.Errorf("unknown setting indent_style: %q", value)
		}
	case "insert_final_newline":
		b, err := parseOnOff(value)
		if err != nil {
			return err
		}
		s.InsertFinalNewline = b
	case "normalize_end_of_line":
		b, err := parseOnOff(value)
		if err != nil {
			return err
		}
		s.NormalizeEndOfLine = b
	case "trim_trailing_whitespace":
		b, err := parseOnOff(value)
		if err != nil {
			return err
		}
		s.TrimTrailingWhitespace = b
	default:
		return fmt.Errorf("unknown setting: %q", key)
	}
	return nil
}

func parseOnOff(value string) (bool, error) {
	switch value {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("expected on/off, got %q", value)
	}
}

// IndentString renders the configured indent unit as literal text,
// mirroring the tab_width-aware tab-fill used when IndentStyle is tabs.
func (s Settings) IndentString(tabWidth int) string {
	if s.IndentStyle == IndentStyleSpaces || tabWidth <= 0 {
		n := s.IndentSize
		out := make([]byte, n)
		for i := range out {
			out[i] = ' '
		}
		return string(out)
	}
	width := 0
	var out []byte
	for width+tabWidth <= s.IndentSize {
		out = append(out, '\t')
		width += tabWidth
	}
	for ; width < s.IndentSize; width++ {
		out = append(out, ' ')
	}
	return string(out)
}
