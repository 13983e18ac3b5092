package normalize

import (
	"strings"
	"unicode"
)

// soundexCodes maps consonants to their Soundex digit class. Vowels and
// the letters h/w/y carry no code.
var soundexCodes = map[rune]byte{
	'b': '1', 'f': '1', 'p': '1', 'v': '1',
	'c': '2', 'g': '2', 'j': '2', 'k': '2', 'q': '2', 's': '2', 'x': '2', 'z': '2',
	'd': '3', 't': '3',
	'l': '4',
	'm': '5', 'n': '5',
	'r': '6',
}

// Soundex returns the classic 4-character phonetic code of a word: first
// letter uppercased, then digit codes for subsequent consonant classes
// with adjacent duplicates collapsed, zero-padded or truncated to length 4.
// Non-alphabetic input yields "".
func Soundex(word string) string {
	word = strings.ToLower(strings.TrimSpace(word))
	runes := []rune(word)

	start := -1
	for i, r := range runes {
		if unicode.IsLetter(r) {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}

	first := runes[start]
	code := []byte{byte(unicode.ToUpper(first))}
	prev := soundexCodes[first]

	for _, r := range runes[start+1:] {
		if !unicode.IsLetter(r) {
			continue
		}
		// h and w are transparent: they neither code nor break a run of
		// same-class consonants. Vowels (and y) break the run.
		if r == 'h' || r == 'w' {
			continue
		}
		c, ok := soundexCodes[r]
		if !ok {
			prev = 0
			continue
		}
		if c == prev {
			continue
		}
		code = append(code, c)
		prev = c
		if len(code) == 4 {
			break
		}
	}

	for len(code) < 4 {
		code = append(code, '0')
	}
	return string(code)
}
