package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseModelJSON recovers a JSON object from raw model output. Models
// wrap JSON in prose, markdown fences, or trailing commentary; the
// strategies run in fixed order and the first success wins:
//
//  1. parse the raw text directly
//  2. strip markdown code fences, then parse
//  3. scan for the first balanced {...} span, then parse
//
// All three failing is an error; callers fall back to regex extraction.
func ParseModelJSON(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty model output")
	}

	if obj, err := parseObject(raw); err == nil {
		return obj, nil
	}
	if obj, err := parseObject(stripCodeFences(raw)); err == nil {
		return obj, nil
	}
	if span := firstBalancedObject(raw); span != "" {
		if obj, err := parseObject(span); err == nil {
			return obj, nil
		}
	}
	return nil, fmt.Errorf("no recoverable JSON object in model output (%d bytes)", len(raw))
}

func parseObject(s string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("JSON null is not an object")
	}
	return obj, nil
}

// stripCodeFences removes markdown ``` fences (with or without a
// language tag) around the payload.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop a language tag like "json" on the opening fence line.
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		first := strings.TrimSpace(s[:nl])
		if len(first) <= 10 && !strings.ContainsAny(first, "{}") {
			s = s[nl+1:]
		}
	}
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

// firstBalancedObject returns the first {...} span with balanced braces,
// ignoring braces inside JSON string literals. Returns "" when no
// balanced object exists.
func firstBalancedObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}
