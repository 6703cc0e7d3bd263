package normalize

import (
	"encoding/json"
	"strings"
)

// DecodeModelOutput parses the explanation step's text into a JSON object.
// Code fences and chatter around the object are tolerated. ok is false when
// no object could be decoded, in which case an empty map is returned.
func DecodeModelOutput(raw string) (map[string]any, bool) {
	s := cleanModelJSON(raw)
	if s == "" {
		return map[string]any{}, false
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
		return map[string]any{}, false
	}
	return out, true
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// ```json ... ``` or ``` ... ```
	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return ""
		}
		s = strings.TrimSpace(s[idx+1:])
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}

	return s
}
