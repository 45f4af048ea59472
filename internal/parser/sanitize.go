package parser

import (
	"errors"
	"strings"
)

var errEmptyPayload = errors.New("empty model payload")

// StripCodeFences removes markdown code-fence wrapping from an LLM response.
// Models sometimes wrap JSON in ```json ... ``` despite being told not to.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// DecodeModelJSON strips fences and returns the cleaned text, flagging an
// empty payload as a format error.
func DecodeModelJSON(text string) (string, error) {
	cleaned := StripCodeFences(text)
	if cleaned == "" {
		return "", &ResponseFormatError{Err: errEmptyPayload, Raw: text}
	}
	return cleaned, nil
}
