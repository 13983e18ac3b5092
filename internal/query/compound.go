package query

import (
	"regexp"
	"strings"
)

// CompoundQuery is a parsed boolean search expression.
type CompoundQuery struct {
	MustHave   []string `json:"must_have"`
	ShouldHave []string `json:"should_have"`
	MustNot    []string `json:"must_not"`
}

// IsEmpty reports whether the query has no terms at all.
func (q CompoundQuery) IsEmpty() bool {
	return len(q.MustHave) == 0 && len(q.ShouldHave) == 0 && len(q.MustNot) == 0
}

// notPattern captures the term (up to two words) following a negation
// marker.
var notPattern = regexp.MustCompile(`(?i)\b(?:not|except|excluding|without)\s+([\w+#.\-]+(?:\s+[\w+#.\-]+)?)`)

var (
	andSplit = regexp.MustCompile(`(?i)\s+and\s+`)
	orSplit  = regexp.MustCompile(`(?i)\s+or\s+`)
)

// ParseCompound parses a free-text search expression into a
// CompoundQuery. Negated terms come out first ("python not django"),
// then the remainder splits on an explicit and/or into must_have or
// should_have; with neither marker, each non-stopword token becomes a
// must_have term.
func (e *Engine) ParseCompound(text string) CompoundQuery {
	var q CompoundQuery
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" {
		return q
	}

	for _, m := range notPattern.FindAllStringSubmatch(text, -1) {
		term := e.trimStopwordTail(strings.TrimSpace(m[1]))
		if term != "" {
			q.MustNot = append(q.MustNot, term)
		}
	}
	text = strings.TrimSpace(notPattern.ReplaceAllString(text, " "))

	switch {
	case andSplit.MatchString(text):
		q.MustHave = e.cleanTerms(andSplit.Split(text, -1))
	case orSplit.MatchString(text):
		q.ShouldHave = e.cleanTerms(orSplit.Split(text, -1))
	default:
		for _, tok := range strings.Fields(text) {
			tok = strings.Trim(tok, ",.;")
			if tok == "" || e.IsStopword(tok) {
				continue
			}
			q.MustHave = append(q.MustHave, tok)
		}
	}
	return q
}

// cleanTerms trims phrase terms and drops the ones that are empty or
// pure stopwords.
func (e *Engine) cleanTerms(terms []string) []string {
	var out []string
	for _, t := range terms {
		t = strings.Trim(strings.TrimSpace(t), ",.;")
		t = e.stripStopwordPrefix(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// stripStopwordPrefix removes leading filler words from a phrase term
// ("all employees with python" → "python").
func (e *Engine) stripStopwordPrefix(term string) string {
	words := strings.Fields(term)
	for len(words) > 0 && e.IsStopword(words[0]) {
		words = words[1:]
	}
	return strings.Join(words, " ")
}

// trimStopwordTail removes trailing filler captured after a negation
// marker ("not django in" → "not django").
func (e *Engine) trimStopwordTail(term string) string {
	words := strings.Fields(term)
	for len(words) > 0 && e.IsStopword(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// Matches applies the compound query to one record's searchable text
// (typically the concatenation of several fields): every must_have term
// present, at least one should_have term present when any are given,
// and no must_not term present.
func (q CompoundQuery) Matches(text string) bool {
	haystack := strings.ToLower(text)

	for _, t := range q.MustNot {
		if strings.Contains(haystack, t) {
			return false
		}
	}
	for _, t := range q.MustHave {
		if !strings.Contains(haystack, t) {
			return false
		}
	}
	if len(q.ShouldHave) > 0 {
		any := false
		for _, t := range q.ShouldHave {
			if strings.Contains(haystack, t) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	return true
}

// ApplyCompound filters a catalog by searchable text. texts[i] is the
// concatenated field text of record i; the returned slice holds the
// indexes of the records that match, in input order.
func ApplyCompound(texts []string, q CompoundQuery) []int {
	var kept []int
	for i, t := range texts {
		if q.Matches(t) {
			kept = append(kept, i)
		}
	}
	return kept
}
