package highlighter

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/corvidae/nib/internal/highlighter/lang"
	"github.com/corvidae/nib/internal/highlighter/utils"
	"github.com/corvidae/nib/internal/logger"
	"github.com/corvidae/nib/internal/types"
	sitter "github.com/smacker/go-tree-sitter"
)

// HighlightResult maps a line index to the styled ranges a query
// produced on that line.
type HighlightResult map[int][]types.StyledRange

// Highlighter owns one tree-sitter parser and runs it against whole
// buffer snapshots, incrementally against the previous parse tree
// when one is supplied.
type Highlighter struct {
	parser *sitter.Parser
}

func NewHighlighter() *Highlighter {
	lang.Initialize()
	RegisterLanguages()

	return &Highlighter{parser: sitter.NewParser()}
}

// GetLanguage resolves the tree-sitter grammar and highlight query for
// filePath's extension, or (nil, nil) if none is registered.
func (h *Highlighter) GetLanguage(filePath string) (*sitter.Language, []byte) {
	language := lang.GetForFile(filePath)
	if language == nil {
		logger.Debugf("No language found for file: %s", filePath)
		return nil, nil
	}
	return language.TreeSitterLang, language.GetQuery()
}

// HighlightBuffer parses sourceCode (incrementally against oldTree if
// non-nil) and runs queryBytes over the result, returning per-line
// styled ranges alongside the new tree ownership passes to the caller.
func (h *Highlighter) HighlightBuffer(ctx context.Context, sourceCode []byte, language *sitter.Language, queryBytes []byte, oldTree *sitter.Tree) (HighlightResult, *sitter.Tree, error) {
	if language == nil {
		return make(HighlightResult), oldTree, fmt.Errorf("no language provided for highlighting")
	}

	h.parser.SetLanguage(language)
	tree, err := h.parser.ParseCtx(ctx, oldTree, sourceCode)
	if err != nil {
		if oldTree != nil {
			oldTree.Close()
		}
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		logger.Errorf("Tree-sitter parsing error: %v", err)
		return make(HighlightResult), nil, fmt.Errorf("parsing failed: %w", err)
	}

	if queryBytes == nil {
		logger.Debugf("No query available for language, skipping highlighting")
		return make(HighlightResult), tree, nil
	}

	query, err := sitter.NewQuery(queryBytes, language)
	if err != nil {
		logger.Errorf("Failed to parse highlight query: %v", err)
		tree.Close()
		return make(HighlightResult), nil, fmt.Errorf("query parse failed: %w", err)
	}
	defer query.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	// Split once up front so processLine/processMultiLine never rescan
	// for newlines per capture.
	lines := bytes.Split(sourceCode, []byte("\n"))

	highlights := make(HighlightResult)
	matchCount, captureCount := 0, 0

	for {
		match, exists := qc.NextMatch()
		if !exists {
			break
		}
		if ctx.Err() != nil {
			logger.Debugf("Context cancelled during query processing")
			tree.Close()
			return nil, nil, ctx.Err()
		}
		matchCount++

		for _, capture := range match.Captures {
			captureCount++
			styleName := utils.CaptureNameToStyleName(query.CaptureNameForId(capture.Index))
			node := capture.Node
			startPoint, endPoint := node.StartPoint(), node.EndPoint()
			startLine, endLine := int(startPoint.Row), int(endPoint.Row)

			if startLine == endLine {
				processLine(lines, highlights, startLine, styleName,
					int(startPoint.Column), int(endPoint.Column))
			} else {
				processMultiLine(lines, highlights, startLine, endLine, styleName,
					int(startPoint.Column), int(endPoint.Column))
			}
		}
	}

	logger.Debugf("Processed %d matches with %d captures, found highlights on %d lines",
		matchCount, captureCount, len(highlights))

	return highlights, tree, nil
}

// processLine records styleName over [startByteCol, endByteCol) on
// lines[lineIdx], converting byte columns to rune columns and clamping
// to the line's bounds.
func processLine(lines [][]byte, highlights HighlightResult, lineIdx int, styleName string, startByteCol, endByteCol int) {
	if lineIdx < 0 || lineIdx >= len(lines) {
		logger.Warnf("processLine: Invalid line index %d (total lines %d)", lineIdx, len(lines))
		return
	}
	lineBytes := lines[lineIdx]

	if startByteCol < 0 {
		startByteCol = 0
	}
	if endByteCol > len(lineBytes) {
		endByteCol = len(lineBytes)
	}
	if startByteCol > len(lineBytes) {
		startByteCol = len(lineBytes)
	}
	if startByteCol >= endByteCol {
		return
	}

	startRuneCol := utils.ByteOffsetToRuneIndex(lineBytes, startByteCol)
	endRuneCol := utils.ByteOffsetToRuneIndex(lineBytes, endByteCol)
	if endRuneCol > startRuneCol {
		highlights[lineIdx] = append(highlights[lineIdx], types.StyledRange{
			StartCol: startRuneCol, EndCol: endRuneCol, StyleName: styleName,
		})
	}
}

// processMultiLine records styleName across a capture spanning
// startLine..endLine: from startByteCol to the end of startLine, all
// of each line strictly between, and the start of endLine up to
// endByteCol.
func processMultiLine(lines [][]byte, highlights HighlightResult, startLine, endLine int, styleName string, startByteCol, endByteCol int) {
	if startLine >= 0 && startLine < len(lines) {
		lineBytes := lines[startLine]
		startBC := startByteCol
		if startBC < 0 {
			startBC = 0
		}
		if startBC > len(lineBytes) {
			startBC = len(lineBytes)
		}

		startRuneCol := utils.ByteOffsetToRuneIndex(lineBytes, startBC)
		endRuneCol := utf8.RuneCount(lineBytes)
		if endRuneCol > startRuneCol {
			highlights[startLine] = append(highlights[startLine], types.StyledRange{
				StartCol: startRuneCol, EndCol: endRuneCol, StyleName: styleName,
			})
		}
	} else {
		logger.Warnf("processMultiLine: Invalid start line index %d", startLine)
	}

	for lineIdx := startLine + 1; lineIdx < endLine; lineIdx++ {
		if lineIdx < 0 || lineIdx >= len(lines) {
			logger.Warnf("processMultiLine: Invalid middle line index %d", lineIdx)
			continue
		}
		endRuneCol := utf8.RuneCount(lines[lineIdx])
		if endRuneCol > 0 {
			highlights[lineIdx] = append(highlights[lineIdx], types.StyledRange{
				StartCol: 0, EndCol: endRuneCol, StyleName: styleName,
			})
		}
	}

	if endLine >= 0 && endLine < len(lines) {
		lineBytes := lines[endLine]
		endBC := endByteCol
		if endBC < 0 {
			endBC = 0
		}
		if endBC > len(lineBytes) {
			endBC = len(lineBytes)
		}

		endRuneCol := utils.ByteOffsetToRuneIndex(lineBytes, endBC)
		if endRuneCol > 0 {
			highlights[endLine] = append(highlights[endLine], types.StyledRange{
				StartCol: 0, EndCol: endRuneCol, StyleName: styleName,
			})
		}
	} else {
		logger.Warnf("processMultiLine: Invalid end line index %d", endLine)
	}
}
