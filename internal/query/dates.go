package query

import (
	"regexp"
	"strings"
	"time"
)

// presentWords mark an open-ended or current date.
var presentWords = map[string]bool{
	"present": true, "current": true, "now": true, "today": true,
	"ongoing": true, "till date": true, "til date": true, "till now": true,
}

var yearPattern = regexp.MustCompile(`^\d{4}$`)
var anyYearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// monthYearLayouts cover "January 2020", "Jan 2020", "01/2020", "2020-01".
var monthYearLayouts = []string{
	"January 2006", "Jan 2006", "January, 2006", "Jan, 2006",
	"01/2006", "1/2006", "2006-01", "01-2006",
}

// dayFirstLayouts are tried before monthFirstLayouts: resumes written
// outside the US dominate this corpus.
var dayFirstLayouts = []string{
	"02/01/2006", "02-01-2006", "02.01.2006",
	"2 January 2006", "2 Jan 2006", "02 January 2006", "02 Jan 2006",
}

var monthFirstLayouts = []string{
	"01/02/2006", "01-02-2006",
	"January 2, 2006", "Jan 2, 2006", "2006-01-02",
}

// ParseDate parses the flexible date formats found in resume duration
// strings. "Present"-like words resolve to now; a bare 4-digit year
// becomes January 1 of that year. Returns false when nothing parses.
func ParseDate(text string, now time.Time) (time.Time, bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return time.Time{}, false
	}
	if presentWords[s] {
		return now, true
	}
	if yearPattern.MatchString(s) {
		y, _ := time.Parse("2006", s)
		return y, true
	}

	title := titleCaseMonths(text)
	for _, layouts := range [][]string{monthYearLayouts, dayFirstLayouts, monthFirstLayouts} {
		for _, layout := range layouts {
			if d, err := time.Parse(layout, title); err == nil {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// titleCaseMonths normalizes month-name casing so time.Parse accepts
// "january 2020" and "JAN 2020".
func titleCaseMonths(s string) string {
	words := strings.Fields(strings.TrimSpace(s))
	for i, w := range words {
		trimmed := strings.Trim(w, ",.")
		if len(trimmed) < 3 {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, m := range monthNames {
			if lower == m || lower == m[:3] {
				words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
				break
			}
		}
	}
	return strings.Join(words, " ")
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// rangeSeparators are tried in order; spaced separators first so
// "2019-03 - 2020-05" splits on the middle dash, not the inner ones.
var rangeSeparators = []string{" - ", " to ", " – ", " — ", " -- ", "→", "–", "—", "-"}

// DurationToMonths parses a duration range ("Jan 2020 - Mar 2022",
// "2019 to present") and returns whole calendar months, never negative.
// An open or unparseable end date defaults to now. Returns false when
// no start date can be recovered.
func DurationToMonths(text string, now time.Time) (int, bool) {
	start, end, ok := parseRange(text, now)
	if !ok {
		return 0, false
	}
	return monthsBetween(start, end), true
}

func parseRange(text string, now time.Time) (time.Time, time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, time.Time{}, false
	}

	for _, sep := range rangeSeparators {
		parts := strings.SplitN(text, sep, 2)
		if len(parts) != 2 {
			continue
		}
		start, ok := ParseDate(parts[0], now)
		if !ok {
			continue
		}
		end, ok := ParseDate(parts[1], now)
		if !ok {
			end = now
		}
		return start, end, true
	}

	// No separator worked; salvage two 4-digit years.
	years := anyYearPattern.FindAllString(text, 2)
	switch len(years) {
	case 2:
		start, _ := ParseDate(years[0], now)
		end, _ := ParseDate(years[1], now)
		return start, end, true
	case 1:
		start, _ := ParseDate(years[0], now)
		return start, now, true
	}
	return time.Time{}, time.Time{}, false
}

// monthsBetween returns full calendar months from a to b, clamped at 0.
func monthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// OverlapKind classifies how two closed date intervals relate.
type OverlapKind string

const (
	OverlapNone      OverlapKind = "none"
	OverlapContained OverlapKind = "contained" // first inside second
	OverlapContains  OverlapKind = "contains"  // first encloses second
	OverlapPartial   OverlapKind = "overlaps"
)

// Overlap reports whether [s1,e1] and [s2,e2] intersect and how.
func Overlap(s1, e1, s2, e2 time.Time) (bool, OverlapKind) {
	if s1.After(e2) || e1.Before(s2) {
		return false, OverlapNone
	}
	switch {
	case !s1.Before(s2) && !e1.After(e2):
		return true, OverlapContained
	case !s2.Before(s1) && !e2.After(e1):
		return true, OverlapContains
	default:
		return true, OverlapPartial
	}
}
