// Package scanner locates the end of a JSON-like structure embedded in arbitrary text.
//
// The scan is a single pass heuristic, not a parser: it tracks brace and bracket
// nesting while ignoring structural characters inside double-quoted strings.
package scanner

// Boundary returns the byte offset just after the character closing the outermost
// structure that text starts with.
//
// text is expected to start, possibly after whitespace, with '{' or '['.
// ok is false if the nesting never returns to zero within text.
func Boundary(text string) (end int, ok bool) {
	var (
		braces   int
		brackets int
		inString bool
		escaped  bool
	)

	for i := 0; i < len(text); i++ {
		c := text[i]

		if escaped {
			escaped = false
			continue
		}

		switch {
		case c == '\\':
			escaped = true
			continue
		case c == '"':
			inString = !inString
			continue
		case inString:
			continue
		}

		switch c {
		case '{':
			braces++
		case '}':
			braces--
		case '[':
			brackets++
		case ']':
			brackets--
		default:
			continue
		}

		if braces == 0 && brackets == 0 && (c == '}' || c == ']') {
			return i + 1, true
		}
	}

	return 0, false
}
