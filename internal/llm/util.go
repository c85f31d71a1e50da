// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanJSONBlock removes markdown code block wrappers and conversational
// preamble or trailing text from JSON responses.
// Models often wrap JSON in ```json ... ``` blocks even in JSON mode.
func CleanJSONBlock(text string) string {
	text = stripCodeFence(strings.TrimSpace(text))

	switch {
	case strings.HasPrefix(text, "{"):
		if obj := extractJSONObject(text); obj != "" {
			return obj
		}
		return text
	case strings.HasPrefix(text, "["):
		if arr := extractJSONArray(text); arr != "" {
			return arr
		}
		return text
	}

	// Preamble before the payload: start at the first opening bracket.
	objIdx := strings.Index(text, "{")
	arrIdx := strings.Index(text, "[")
	if arrIdx >= 0 && (objIdx < 0 || arrIdx < objIdx) {
		if arr := extractJSONArray(text[arrIdx:]); arr != "" {
			return arr
		}
	}
	if objIdx >= 0 {
		if obj := extractJSONObject(text[objIdx:]); obj != "" {
			return obj
		}
	}

	return text
}

// stripCodeFence removes a surrounding ``` fence and its language identifier.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		firstLine := text[:idx]
		// A short token without spaces or braces is a language identifier
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// extractJSONObject returns the balanced {...} value at the start of s, or "".
func extractJSONObject(s string) string {
	return extractBalanced(s, '{', '}')
}

// extractJSONArray returns the balanced [...] value at the start of s, or "".
func extractJSONArray(s string) string {
	return extractBalanced(s, '[', ']')
}

func extractBalanced(s string, open, closing byte) string {
	if s == "" || s[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
