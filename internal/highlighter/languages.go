package highlighter

import (
	"embed"

	"github.com/corvidae/nib/internal/highlighter/lang"
	"github.com/corvidae/nib/internal/logger"

	gosrc "github.com/smacker/go-tree-sitter/golang"
	jssrc "github.com/smacker/go-tree-sitter/javascript" // also used for JSON
	pythonsrc "github.com/smacker/go-tree-sitter/python"
	rustsrc "github.com/smacker/go-tree-sitter/rust"
)

//go:embed queries/*/*.scm
var embeddedQueries embed.FS

// RegisterLanguages wires the built-in tree-sitter grammars and their
// embedded highlight queries into the lang registry. Called once from
// NewHighlighter.
func RegisterLanguages() {
	if lang.QueryFS == nil {
		lang.QueryFS = embeddedQueries
	}

	lang.Register(&lang.Language{
		Name:           "Go",
		TreeSitterLang: gosrc.GetLanguage(),
		Extensions:     []string{".go"},
		QueryPath:      "go",
	})

	lang.Register(&lang.Language{
		Name:           "Python",
		TreeSitterLang: pythonsrc.GetLanguage(),
		Extensions:     []string{".py", ".pyw"},
		QueryPath:      "python",
	})

	lang.Register(&lang.Language{
		Name:           "JavaScript",
		TreeSitterLang: jssrc.GetLanguage(),
		Extensions:     []string{".js", ".mjs", ".cjs"},
		QueryPath:      "javascript",
	})

	lang.Register(&lang.Language{
		Name:           "JSON",
		TreeSitterLang: jssrc.GetLanguage(),
		Extensions:     []string{".json"},
		QueryPath:      "json",
	})

	lang.Register(&lang.Language{
		Name:           "Rust",
		TreeSitterLang: rustsrc.GetLanguage(),
		Extensions:     []string{".rs"},
		QueryPath:      "rust",
	})

	logger.Debugf("highlighter: registered %d languages", len(lang.GetAll()))
}
