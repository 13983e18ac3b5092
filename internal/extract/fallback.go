package extract

import (
	"regexp"
	"strings"

	"github.com/hirelens/hirelens/internal/config"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// Phone shapes, most specific first. All require at least 10 digits
	// overall so street numbers and years never match.
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+\d{1,3}[\s\-.]?\(?\d{2,4}\)?[\s\-.]?\d{3,4}[\s\-.]?\d{3,4}`),
		regexp.MustCompile(`\(\d{3}\)[\s\-.]?\d{3}[\s\-.]?\d{4}`),
		regexp.MustCompile(`\d{3}[\s\-.]\d{3}[\s\-.]\d{4}`),
		regexp.MustCompile(`\b\d{10,12}\b`),
	}
)

// placeholderDomains never belong to a real candidate.
var placeholderDomains = []string{"example.com", "test.com", "domain.com", "email.com"}

// imageExtensions flag matches that are really filenames ("photo@2x.png").
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".svg"}

// FallbackEmail scans resume text for the first plausible email address,
// skipping placeholder domains and image filenames. Returns "" when
// nothing usable is found.
func FallbackEmail(text string) string {
	for _, m := range emailPattern.FindAllString(text, -1) {
		lower := strings.ToLower(m)
		skip := false
		for _, d := range placeholderDomains {
			if strings.HasSuffix(lower, "@"+d) || strings.Contains(lower, d) {
				skip = true
				break
			}
		}
		for _, ext := range imageExtensions {
			if strings.HasSuffix(lower, ext) {
				skip = true
				break
			}
		}
		if !skip {
			return m
		}
	}
	return ""
}

// FallbackPhone scans resume text for the first phone-shaped string with
// at least 10 digits. Patterns run in order of specificity.
func FallbackPhone(text string) string {
	for _, p := range phonePatterns {
		for _, m := range p.FindAllString(text, -1) {
			if digitCount(m) >= 10 {
				return strings.TrimSpace(m)
			}
		}
	}
	return ""
}

// FallbackSkills scans resume text for known programming languages when
// the model produced no skills at all. Order follows the catalog, not
// the text, so output is deterministic.
func FallbackSkills(text string, cfg *config.Config) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, lang := range cfg.ProgrammingLanguages {
		if containsWord(lower, lang) {
			found = append(found, lang)
		}
	}
	return found
}

// containsWord reports whether word occurs in text on its own, not as a
// substring of a larger identifier. Handles symbols like "c++" that
// regexp word boundaries get wrong.
func containsWord(text, word string) bool {
	for idx := 0; ; {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		i += idx
		before := byte(' ')
		if i > 0 {
			before = text[i-1]
		}
		after := byte(' ')
		if j := i + len(word); j < len(text) {
			after = text[j]
		}
		if !isWordByte(before) && !isWordByte(after) {
			return true
		}
		idx = i + len(word)
	}
}

// '+' and '#' count as word bytes so "c" does not match inside "c++"
// or "c#".
func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '+' || c == '#'
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
