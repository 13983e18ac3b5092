package query

import (
	"testing"
	"time"
)

// refNow pins "today" so duration arithmetic is reproducible.
var refNow = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in     string
		want   time.Time
		wantOK bool
	}{
		{"present", refNow, true},
		{"Current", refNow, true},
		{"till date", refNow, true},
		{"2020", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"January 2020", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"jan 2020", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"03/2021", time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"2021-03", time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), true},
		// Day-first preferred over month-first.
		{"02/03/2020", time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC), true},
		{"15 March 2020", time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"gibberish", time.Time{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseDate(tc.in, refNow)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && !got.Equal(tc.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDurationToMonths(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"2020 to present", 48},
		{"2022 - present", 24},
		{"Jan 2020 - Mar 2022", 26},
		{"2019 – 2021", 24},
		{"2019-2021", 24}, // bare dash separator
		{"March 2020 → September 2020", 6},
		{"joined in 2023, still here 2024", 12}, // year salvage
		{"2025 - 2020", 0},                      // never negative
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := DurationToMonths(tc.in, refNow)
			if !ok {
				t.Fatal("expected parse success")
			}
			if got != tc.want {
				t.Errorf("DurationToMonths(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}

	if _, ok := DurationToMonths("no dates here", refNow); ok {
		t.Error("expected failure with no recoverable dates")
	}
}

func TestMonthsBetweenPartialMonth(t *testing.T) {
	a := time.Date(2020, 1, 20, 0, 0, 0, 0, time.UTC)
	b := time.Date(2020, 3, 10, 0, 0, 0, 0, time.UTC)
	// Jan 20 → Mar 10 is one full month plus change.
	if got := monthsBetween(a, b); got != 1 {
		t.Errorf("monthsBetween = %d, want 1", got)
	}
}

func TestOverlap(t *testing.T) {
	d := func(y int, m time.Month) time.Time {
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
		kind           OverlapKind
	}{
		{"disjoint", d(2020, 1), d(2020, 6), d(2021, 1), d(2021, 6), false, OverlapNone},
		{"contained", d(2020, 3), d(2020, 4), d(2020, 1), d(2020, 12), true, OverlapContained},
		{"contains", d(2020, 1), d(2020, 12), d(2020, 3), d(2020, 4), true, OverlapContains},
		{"partial", d(2020, 1), d(2020, 6), d(2020, 4), d(2020, 9), true, OverlapPartial},
		{"touching edges", d(2020, 1), d(2020, 6), d(2020, 6), d(2020, 9), true, OverlapPartial},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, kind := Overlap(tc.s1, tc.e1, tc.s2, tc.e2)
			if got != tc.want || kind != tc.kind {
				t.Errorf("Overlap = (%v, %s), want (%v, %s)", got, kind, tc.want, tc.kind)
			}
		})
	}
}
