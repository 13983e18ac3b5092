// Package normalize provides deterministic text canonicalization for
// employee-name matching and query parsing.
//
// The pipeline is fixed: honorific/suffix stripping, diacritic folding,
// lowercasing, separator collapsing. Everything here is pure — the tables
// are supplied once at construction and never mutated, so a single
// Normalizer is safe for concurrent use.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalizer canonicalizes free text against closed vocabularies of
// honorifics and abbreviations.
type Normalizer struct {
	honorifics    map[string]struct{}
	abbreviations map[string]string
}

// New builds a Normalizer from the honorific vocabulary and the
// abbreviation expansion table.
func New(honorifics []string, abbreviations map[string]string) *Normalizer {
	n := &Normalizer{
		honorifics:    make(map[string]struct{}, len(honorifics)),
		abbreviations: make(map[string]string, len(abbreviations)),
	}
	for _, h := range honorifics {
		n.honorifics[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}
	for abbr, full := range abbreviations {
		n.abbreviations[strings.ToLower(strings.TrimSpace(abbr))] = full
	}
	return n
}

// Normalize canonicalizes text for comparison: strips honorific and suffix
// tokens, folds diacritics to ASCII, lowercases, and collapses
// hyphens/underscores and repeated whitespace to single spaces.
func (n *Normalizer) Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	words := strings.Fields(text)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		probe := strings.ToLower(strings.Trim(w, ".,"))
		if _, drop := n.honorifics[probe]; drop {
			continue
		}
		kept = append(kept, w)
	}

	s := strings.Join(kept, " ")
	s = FoldDiacritics(s)
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		if r == '-' || r == '_' || unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimSpace(b.String())
}

// ExpandAbbreviations replaces known title/department abbreviations with
// their canonical full words, word by word. Unknown tokens pass through
// unchanged. Comparison is case-insensitive; output words come from the
// table verbatim.
func (n *Normalizer) ExpandAbbreviations(text string) string {
	if text == "" {
		return ""
	}
	words := strings.Fields(text)
	out := make([]string, 0, len(words))
	for _, w := range words {
		probe := strings.ToLower(strings.Trim(w, "."))
		if full, ok := n.abbreviations[probe]; ok {
			out = append(out, full)
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

// asciiFold maps common accented letters directly to their base ASCII
// letter. Explicit entries cover the frequent cases (and a few ligatures
// NFD cannot split); the combining-mark strip below handles the rest.
var asciiFold = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'ä': "a", 'å': "a",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i",
	'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ö': "o", 'ø': "o",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u",
	'ý': "y", 'ÿ': "y",
	'ñ': "n", 'ç': "c", 'š': "s", 'ž': "z",
	'À': "A", 'Á': "A", 'Â': "A", 'Ã': "A", 'Ä': "A", 'Å': "A",
	'È': "E", 'É': "E", 'Ê': "E", 'Ë': "E",
	'Ì': "I", 'Í': "I", 'Î': "I", 'Ï': "I",
	'Ò': "O", 'Ó': "O", 'Ô': "O", 'Õ': "O", 'Ö': "O", 'Ø': "O",
	'Ù': "U", 'Ú': "U", 'Û': "U", 'Ü': "U",
	'Ý': "Y", 'Ñ': "N", 'Ç': "C", 'Š': "S", 'Ž': "Z",
	'ß': "ss", 'æ': "ae", 'Æ': "AE", 'œ': "oe", 'Œ': "OE",
	'đ': "d", 'Đ': "D", 'ł': "l", 'Ł': "L",
}

// FoldDiacritics converts accented letters to their base ASCII form using
// the explicit table first, then NFD decomposition with combining marks
// stripped for anything the table misses.
func FoldDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 {
			b.WriteRune(r)
			continue
		}
		if folded, ok := asciiFold[r]; ok {
			b.WriteString(folded)
			continue
		}
		for _, d := range norm.NFD.String(string(r)) {
			if unicode.Is(unicode.Mn, d) {
				continue
			}
			b.WriteRune(d)
		}
	}
	return b.String()
}
