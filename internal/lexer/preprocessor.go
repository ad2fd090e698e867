package lexer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Preprocessed is the (content, positions) pair the preprocessor hands to
// the lexer: content is the scrubbed source, positions[i] is the original
// (line, column) of content[i].
type Preprocessed struct {
	Content   string
	Positions []Position
}

// Preprocess reads the whole of r, strips line (//) and nestable block
// (/* … */) comments outside of string/char literals, and returns the
// scrubbed content together with a byte-aligned position table.
//
// This matches the teacher lexer's BOM-stripping convention (New strips a
// leading UTF-8 BOM) by performing that step here instead, since BOM
// handling is a source-scrubbing concern and belongs in the preprocessor
// rather than the lexer proper. The BOM itself is stripped via
// golang.org/x/text's BOM-aware transform rather than a hand-rolled byte
// check, so a UTF-16 BOM is also caught instead of silently passing through.
func Preprocess(r io.Reader) (*Preprocessed, error) {
	raw, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	src := string(raw)

	var out strings.Builder
	var positions []Position

	line, col := 1, 0
	blockDepth := 0
	inString := false
	inChar := false

	push := func(b byte, l, c int) {
		out.WriteByte(b)
		positions = append(positions, Position{Line: l, Column: c})
	}

	i := 0
	n := len(src)
	for i < n {
		ch := src[i]

		// Track line/column before consuming ch.
		curLine, curCol := line, col+1

		if ch == '\n' {
			if blockDepth == 0 {
				push('\n', curLine, curCol)
			}
			line++
			col = 0
			i++
			continue
		}
		col++

		if inString || inChar {
			if ch == '\\' && i+1 < n {
				push(ch, curLine, curCol)
				push(src[i+1], line, col+1)
				i += 2
				col++
				continue
			}
			push(ch, curLine, curCol)
			if (inString && ch == '"') || (inChar && ch == '\'') {
				inString = false
				inChar = false
			}
			i++
			continue
		}

		if blockDepth > 0 {
			if ch == '/' && i+1 < n && src[i+1] == '*' {
				blockDepth++
				i += 2
				col++
				continue
			}
			if ch == '*' && i+1 < n && src[i+1] == '/' {
				blockDepth--
				i += 2
				col++
				continue
			}
			i++
			continue
		}

		if ch == '/' && i+1 < n && src[i+1] == '/' {
			for i < n && src[i] != '\n' {
				i++
			}
			continue
		}
		if ch == '/' && i+1 < n && src[i+1] == '*' {
			blockDepth = 1
			i += 2
			col++
			continue
		}

		if ch == '"' {
			inString = true
		} else if ch == '\'' {
			inChar = true
		}

		push(ch, curLine, curCol)
		i++
	}

	if blockDepth > 0 {
		return nil, fmt.Errorf("preprocess: unterminated block comment")
	}

	if out.Len() == 0 || out.String()[out.Len()-1] != '\n' {
		push('\n', line, col+1)
	}

	return &Preprocessed{Content: out.String(), Positions: positions}, nil
}
