// Package resolve matches free-text employee references ("john", "Dr.
// Smith", "EMP-0042") against a catalog snapshot.
//
// Scoring is a fixed rubric, not a learned model: each rule has a
// constant score and the rules run in descending priority, so a
// reference earns exactly one score per catalog entry. The resolver
// never guesses among near-ties — anything short of a unique,
// actionable top score comes back as an ambiguous candidate list for
// the caller to disambiguate.
package resolve

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hirelens/hirelens/internal/normalize"
)

// Match scores per rubric rule. Kept as named constants so they can be
// tuned without touching the rule logic.
const (
	ScoreExact       = 100 // identical text after trimming
	ScoreNormalized  = 95  // identical after normalization (case, honorifics, accents)
	ScoreCompact     = 90  // identical once hyphens/spaces are removed
	ScoreWordOrder   = 85  // same words, different order
	ScoreRefInName   = 70  // reference contained in name
	ScoreNameInRef   = 65  // name contained in reference
	ScoreToken       = 50  // a reference token found inside the name
	ScoreTokenPrefix = 40  // a name token starts with / contains a short reference token
	ScorePhonetic    = 35  // Soundex equality on first or last token
	ScoreEmail       = 30  // matched via email local part
)

// MatchType labels which rubric rule produced a candidate's score.
type MatchType string

const (
	MatchID          MatchType = "id"
	MatchExact       MatchType = "exact"
	MatchNormalized  MatchType = "normalized"
	MatchCompact     MatchType = "compact"
	MatchWordOrder   MatchType = "word_order"
	MatchRefInName   MatchType = "ref_in_name"
	MatchNameInRef   MatchType = "name_in_ref"
	MatchToken       MatchType = "token"
	MatchTokenPrefix MatchType = "token_prefix"
	MatchPhonetic    MatchType = "phonetic"
	MatchEmail       MatchType = "email"
)

// Identity is the slice of an employee record the resolver needs. The
// catalog is a caller-owned, read-only snapshot.
type Identity struct {
	ID         int64  `json:"id"`
	DisplayID  string `json:"display_id"` // zero-padded external id, e.g. "EMP-0042"
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
}

// Candidate is one scored possible match with an explanation.
type Candidate struct {
	Employee  Identity  `json:"employee"`
	Score     int       `json:"score"`
	MatchType MatchType `json:"match_type"`
	Reason    string    `json:"reason"`
}

// Resolver scores catalog entries against references.
type Resolver struct {
	norm       *normalize.Normalizer
	actionable int
}

// NewResolver builds a Resolver. actionable is the minimum score at
// which a unique top candidate is auto-selected.
func NewResolver(norm *normalize.Normalizer, actionable int) *Resolver {
	return &Resolver{norm: norm, actionable: actionable}
}

var (
	numericIDPattern = regexp.MustCompile(`^\d+$`)
	displayIDPattern = regexp.MustCompile(`(?i)^emp-?\d+$`)
)

// Resolve matches reference against the catalog. It returns the single
// matched employee when the resolution is unambiguous and actionable,
// otherwise nil plus the scored candidates (score descending, catalog
// order on ties) for the caller to disambiguate.
//
// Identifier-shaped references resolve exactly or not at all; fuzzy
// scoring never applies to IDs.
func (r *Resolver) Resolve(reference string, catalog []Identity) (*Identity, []Candidate) {
	reference = strings.TrimSpace(reference)
	if reference == "" || len(catalog) == 0 {
		return nil, nil
	}

	if numericIDPattern.MatchString(reference) || displayIDPattern.MatchString(reference) {
		return r.resolveByID(reference, catalog)
	}
	return r.resolveByName(reference, catalog)
}

func (r *Resolver) resolveByID(reference string, catalog []Identity) (*Identity, []Candidate) {
	refDigits := strings.TrimLeft(digitsOf(reference), "0")
	for i := range catalog {
		e := catalog[i]
		match := strings.EqualFold(reference, e.DisplayID) ||
			(refDigits != "" && refDigits == fmt.Sprintf("%d", e.ID))
		if match {
			c := Candidate{
				Employee:  e,
				Score:     ScoreExact,
				MatchType: MatchID,
				Reason:    fmt.Sprintf("id %q matches employee #%d", reference, e.ID),
			}
			return &catalog[i], []Candidate{c}
		}
	}
	return nil, nil
}

func (r *Resolver) resolveByName(reference string, catalog []Identity) (*Identity, []Candidate) {
	var candidates []Candidate
	for _, e := range catalog {
		if c, ok := r.scoreEntry(reference, e); ok {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	// Stable: catalog order breaks ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	top := candidates[0]
	uniqueTop := len(candidates) == 1 || candidates[1].Score < top.Score
	if uniqueTop && top.Score >= r.actionable {
		return &top.Employee, []Candidate{top}
	}
	return nil, candidates
}

// scoreEntry applies the rubric rules in descending priority; the first
// rule that fires decides the score.
func (r *Resolver) scoreEntry(reference string, e Identity) (Candidate, bool) {
	rawRef := strings.TrimSpace(reference)
	rawName := strings.TrimSpace(e.Name)
	normRef := r.norm.Normalize(rawRef)
	normName := r.norm.Normalize(rawName)
	if normRef == "" || normName == "" {
		return Candidate{}, false
	}

	score, mt, reason := 0, MatchType(""), ""
	switch {
	case rawRef == rawName:
		score, mt, reason = ScoreExact, MatchExact, "exact name match"
	case normRef == normName:
		score, mt, reason = ScoreNormalized, MatchNormalized, "name matches after normalization"
	case compact(normRef) == compact(normName):
		score, mt, reason = ScoreCompact, MatchCompact, "name matches ignoring spaces and hyphens"
	case sameWordSet(normRef, normName):
		score, mt, reason = ScoreWordOrder, MatchWordOrder, "same name words in different order"
	case strings.Contains(normName, normRef):
		score, mt, reason = ScoreRefInName, MatchRefInName, fmt.Sprintf("%q contained in name", rawRef)
	case strings.Contains(normRef, normName):
		score, mt, reason = ScoreNameInRef, MatchNameInRef, "full name contained in reference"
	default:
		score, mt, reason = r.scoreTokens(normRef, normName, e.Email)
	}
	if score == 0 {
		return Candidate{}, false
	}
	return Candidate{Employee: e, Score: score, MatchType: mt, Reason: reason}, true
}

// scoreTokens handles the weaker token, phonetic and email rules.
func (r *Resolver) scoreTokens(normRef, normName, email string) (int, MatchType, string) {
	refTokens := strings.Fields(normRef)
	nameTokens := strings.Fields(normName)

	for _, t := range refTokens {
		if len(t) >= 3 && strings.Contains(normName, t) {
			return ScoreToken, MatchToken, fmt.Sprintf("token %q found in name", t)
		}
	}

	for _, nt := range nameTokens {
		if len(nt) < 4 {
			continue
		}
		for _, rt := range refTokens {
			if len(rt) >= 2 && strings.Contains(nt, rt) {
				return ScoreTokenPrefix, MatchTokenPrefix,
					fmt.Sprintf("name token %q contains %q", nt, rt)
			}
		}
	}

	if phoneticMatch(refTokens, nameTokens) {
		return ScorePhonetic, MatchPhonetic, "name sounds alike (soundex)"
	}

	if local := emailLocalPart(email); local != "" {
		for _, t := range refTokens {
			if len(t) >= 3 && strings.Contains(local, t) {
				return ScoreEmail, MatchEmail, fmt.Sprintf("token %q found in email address", t)
			}
		}
		if c := compact(normRef); c != "" && strings.Contains(local, c) {
			return ScoreEmail, MatchEmail, "reference found in email address"
		}
	}

	return 0, "", ""
}

// phoneticMatch compares the Soundex codes of the first and last tokens
// on each side.
func phoneticMatch(refTokens, nameTokens []string) bool {
	if len(refTokens) == 0 || len(nameTokens) == 0 {
		return false
	}
	refCodes := edgeSoundex(refTokens)
	nameCodes := edgeSoundex(nameTokens)
	for _, rc := range refCodes {
		if rc == "" {
			continue
		}
		for _, nc := range nameCodes {
			if rc == nc {
				return true
			}
		}
	}
	return false
}

func edgeSoundex(tokens []string) []string {
	codes := []string{normalize.Soundex(tokens[0])}
	if len(tokens) > 1 {
		codes = append(codes, normalize.Soundex(tokens[len(tokens)-1]))
	}
	return codes
}

func sameWordSet(a, b string) bool {
	aw, bw := strings.Fields(a), strings.Fields(b)
	if len(aw) < 2 || len(aw) != len(bw) {
		return false
	}
	set := make(map[string]int, len(aw))
	for _, w := range aw {
		set[w]++
	}
	for _, w := range bw {
		if set[w] == 0 {
			return false
		}
		set[w]--
	}
	return true
}

func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, s)
}

func emailLocalPart(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return ""
	}
	return strings.ToLower(email[:at])
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
