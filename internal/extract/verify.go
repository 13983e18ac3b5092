package extract

import (
	"fmt"
	"strings"

	"github.com/hirelens/hirelens/internal/normalize"
)

// verifiedScalarFields are the extracted fields that must be traceable
// to the source text. Anything the model invented gets nulled here,
// before validation ever sees it.
var verifiedScalarFields = []string{"name", "email", "phone", "position"}

// verifiedArrayFields are list fields whose items are filtered down to
// the traceable ones.
var verifiedArrayFields = []string{"skills", "certifications", "languages"}

// VerifyAgainstSource drops extracted values that cannot be traced back
// to the resume text. Scalars are nulled wholesale; array items are
// filtered individually; experience entries survive when their company
// or role is traceable. Returns the warnings describing what was
// removed.
func VerifyAgainstSource(data map[string]any, source string) []string {
	folded := foldForSearch(source)
	digits := onlyDigits(source)
	var warnings []string

	for _, field := range verifiedScalarFields {
		val, ok := data[field].(string)
		if !ok || val == "" {
			continue
		}
		traceable := false
		switch field {
		case "phone":
			// Formatting differs between model output and source;
			// compare digit streams.
			d := onlyDigits(val)
			traceable = len(d) >= 7 && strings.Contains(digits, d)
		case "name":
			traceable = nameTraceable(val, folded)
		default:
			traceable = strings.Contains(folded, foldForSearch(val))
		}
		if !traceable {
			data[field] = nil
			warnings = append(warnings, fmt.Sprintf("%s %q not found in source text", field, val))
		}
	}

	for _, field := range verifiedArrayFields {
		items, ok := data[field].([]any)
		if !ok {
			continue
		}
		kept := make([]any, 0, len(items))
		dropped := 0
		for _, it := range items {
			s, isStr := it.(string)
			if !isStr {
				kept = append(kept, it)
				continue
			}
			if strings.Contains(folded, foldForSearch(s)) {
				kept = append(kept, it)
			} else {
				dropped++
			}
		}
		if dropped > 0 {
			data[field] = kept
			warnings = append(warnings, fmt.Sprintf("%d %s item(s) not found in source text", dropped, field))
		}
	}

	if items, ok := data["experience"].([]any); ok {
		kept := make([]any, 0, len(items))
		dropped := 0
		for _, it := range items {
			entry, isMap := it.(map[string]any)
			if !isMap {
				kept = append(kept, it)
				continue
			}
			if experienceTraceable(entry, folded) {
				kept = append(kept, it)
			} else {
				dropped++
			}
		}
		if dropped > 0 {
			data["experience"] = kept
			warnings = append(warnings, fmt.Sprintf("%d experience entr(ies) not found in source text", dropped))
		}
	}

	return warnings
}

// nameTraceable requires every substantial name word (>2 letters) to
// appear in the source. Short particles ("de", "al") are not required.
func nameTraceable(name, folded string) bool {
	words := strings.Fields(foldForSearch(name))
	checked := 0
	for _, w := range words {
		if len(w) <= 2 {
			continue
		}
		checked++
		if !strings.Contains(folded, w) {
			return false
		}
	}
	return checked > 0
}

// experienceTraceable accepts an entry when its company or role text
// appears in the source.
func experienceTraceable(entry map[string]any, folded string) bool {
	for _, key := range []string{"company", "role", "position", "title"} {
		if s, ok := entry[key].(string); ok && s != "" {
			if strings.Contains(folded, foldForSearch(s)) {
				return true
			}
		}
	}
	return false
}

// foldForSearch lowercases and strips diacritics so "José" in the model
// output matches "Jose" in the source and vice versa.
func foldForSearch(s string) string {
	return strings.ToLower(normalize.FoldDiacritics(s))
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
