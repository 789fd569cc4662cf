package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedOutput marks model output that could not be parsed into the
// expected shape. Callers must treat it as terminal, never coerce.
var ErrMalformedOutput = errors.New("malformed model output")

// MalformedOutputError carries the raw model output alongside the reason it
// was rejected, so failures can be logged and diagnosed.
type MalformedOutputError struct {
	Reason string
	Raw    string
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed model output: %s", e.Reason)
}

func (e *MalformedOutputError) Unwrap() error { return ErrMalformedOutput }

// ExtractJSONSpan locates the JSON object embedded in free-form model output.
// It prefers the first fenced code block, falling back to the largest balanced
// brace span in the whole text. The scanner is string- and escape-aware so
// nested braces inside values do not break extraction.
func ExtractJSONSpan(text string) (string, bool) {
	if fenced, ok := fencedBlock(text); ok {
		if span, ok := largestBraceSpan(fenced); ok {
			return span, true
		}
	}
	return largestBraceSpan(text)
}

func fencedBlock(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return "", false
	}
	rest := text[start+3:]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	block := rest[:end]
	// Drop an optional language tag like "json" on the opening fence.
	block = strings.TrimPrefix(strings.TrimLeft(block, " \t"), "json")
	return block, true
}

func largestBraceSpan(text string) (string, bool) {
	best := ""
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		end, ok := scanBalanced(text, i)
		if !ok {
			continue
		}
		if span := text[i : end+1]; len(span) > len(best) {
			best = span
		}
		i = end
	}
	return best, best != ""
}

func scanBalanced(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch ch {
			case '\\':
				escaped = true
			case '"':
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
				return i, true
			}
		}
	}
	return 0, false
}
