package essay

import (
	"fmt"
	"strings"
)

// ExtractJSONObject returns the first balanced {...} span in text. Braces inside JSON
// string literals are ignored, so prose, code fences or trailing commentary around the
// object do not matter. A span that never closes (truncated output) is an error.
func ExtractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", fmt.Errorf("%w: no json object found", ErrMalformedResponse)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("%w: unterminated json object", ErrMalformedResponse)
}
