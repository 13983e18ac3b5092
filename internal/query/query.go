// Package query implements the search-side primitives: synonym
// expansion for skills and locations, seniority scoring for titles,
// flexible date and duration parsing, and compound boolean queries.
//
// Everything here is pure and table-driven; the tables come from
// config and are read-only after construction, so an Engine is safe
// for concurrent use. Functions that depend on "today" take the
// reference time as a parameter.
package query

import (
	"strings"

	"github.com/hirelens/hirelens/internal/config"
)

// Engine holds the lookup tables for query processing.
type Engine struct {
	cfg       *config.Config
	stopwords map[string]bool
	// reverse maps every synonym variant back to its canonical key.
	skillCanon map[string]string
	cityCanon  map[string]string
}

// NewEngine builds an Engine over the configured vocabularies.
func NewEngine(cfg *config.Config) *Engine {
	e := &Engine{
		cfg:        cfg,
		stopwords:  make(map[string]bool, len(cfg.Stopwords)),
		skillCanon: reverseIndex(cfg.SkillSynonyms),
		cityCanon:  reverseIndex(cfg.CitySynonyms),
	}
	for _, w := range cfg.Stopwords {
		e.stopwords[strings.ToLower(w)] = true
	}
	return e
}

func reverseIndex(table map[string][]string) map[string]string {
	idx := make(map[string]string)
	for canon, variants := range table {
		idx[strings.ToLower(canon)] = canon
		for _, v := range variants {
			idx[strings.ToLower(v)] = canon
		}
	}
	return idx
}

// ExpandSkill returns the full synonym set for a skill term. A term
// matching a canonical key or any variant expands to the whole set;
// unknown terms come back as themselves.
func (e *Engine) ExpandSkill(term string) []string {
	return expand(term, e.skillCanon, e.cfg.SkillSynonyms)
}

// ExpandCity returns the full synonym set for a location term, with
// the same matching rules as ExpandSkill.
func (e *Engine) ExpandCity(term string) []string {
	return expand(term, e.cityCanon, e.cfg.CitySynonyms)
}

func expand(term string, canon map[string]string, table map[string][]string) []string {
	key := strings.ToLower(strings.TrimSpace(term))
	c, ok := canon[key]
	if !ok {
		return []string{term}
	}
	variants := table[c]
	out := make([]string, 0, len(variants)+1)
	out = append(out, c)
	for _, v := range variants {
		if !strings.EqualFold(v, c) {
			out = append(out, v)
		}
	}
	return out
}

// Seniority maps a job title to a 0-10 level: exact lookup first, then
// the highest-scoring keyword contained in the title, then a small set
// of generic fallbacks, else 0.
func (e *Engine) Seniority(title string) int {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return 0
	}
	if score, ok := e.cfg.TitleSeniority[t]; ok {
		return score
	}

	// Word-boundary containment: "coordinator" must not match "coo".
	padded := " " + t + " "
	best := 0
	for keyword, score := range e.cfg.TitleSeniority {
		if strings.Contains(padded, " "+keyword+" ") && score > best {
			best = score
		}
	}
	if best > 0 {
		return best
	}

	switch {
	case strings.Contains(t, "engineer"), strings.Contains(t, "developer"):
		return 4
	case strings.Contains(t, "manager"):
		return 6
	case strings.Contains(t, "analyst"):
		return 3
	}
	return 0
}

// IsStopword reports whether the token carries no search meaning.
func (e *Engine) IsStopword(token string) bool {
	return e.stopwords[strings.ToLower(token)]
}
