package intent

import (
	"encoding/json"
	"strings"
)

// extractIntent pulls an intent JSON object out of completion output. The
// strategies run in fixed order and the chain stops at the first one whose
// candidate text unmarshals: direct parse, fenced code block, brace scan.
func extractIntent(output string) (Intent, bool) {
	strategies := []func(string) (string, bool){
		wholeText,
		fencedBlock,
		braceScan,
	}
	for _, strategy := range strategies {
		candidate, ok := strategy(output)
		if !ok {
			continue
		}
		var parsed Intent
		if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
			continue
		}
		if strings.TrimSpace(parsed.ActionID) == "" {
			continue
		}
		return parsed, true
	}
	return Intent{}, false
}

func wholeText(output string) (string, bool) {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

// fencedBlock extracts the body of the first ``` code fence, tolerating an
// optional language tag on the opening line.
func fencedBlock(output string) (string, bool) {
	start := strings.Index(output, "```")
	if start < 0 {
		return "", false
	}
	rest := output[start+3:]
	if newline := strings.IndexByte(rest, '\n'); newline >= 0 {
		firstLine := strings.TrimSpace(rest[:newline])
		if firstLine == "" || isLanguageTag(firstLine) {
			rest = rest[newline+1:]
		}
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	body := strings.TrimSpace(rest[:end])
	if body == "" {
		return "", false
	}
	return body, true
}

// braceScan extracts the first balanced top-level JSON object, honoring
// string literals and escapes.
func braceScan(output string) (string, bool) {
	start := strings.IndexByte(output, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(output); i++ {
		c := output[i]
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return output[start : i+1], true
			}
		}
	}
	return "", false
}

func isLanguageTag(line string) bool {
	for _, r := range line {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
