package extract

import (
	"testing"

	"github.com/hirelens/hirelens/internal/config"
)

func TestFallbackEmail(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"plain", "Contact: john.smith@acme.com or call", "john.smith@acme.com"},
		{"skips placeholder", "sample@example.com then real@acme.io", "real@acme.io"},
		{"skips image", "logo@2x.png and jane@corp.net", "jane@corp.net"},
		{"none", "no contact details here", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FallbackEmail(tc.text); got != tc.want {
				t.Errorf("FallbackEmail = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFallbackPhone(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"international", "Phone: +1 555 123 4567", "+1 555 123 4567"},
		{"parenthesized", "(555) 123-4567 is my number", "(555) 123-4567"},
		{"dotted", "reach me at 555.123.4567", "555.123.4567"},
		{"bare digits", "mobile 5551234567 ok", "5551234567"},
		{"year is not a phone", "graduated 2019, joined 2021", ""},
		{"short number skipped", "ext 12345", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FallbackPhone(tc.text); got != tc.want {
				t.Errorf("FallbackPhone = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFallbackSkills(t *testing.T) {
	cfg := config.Default()
	text := "Built services in Go and Python; some C++ on the side. Gopher at heart."
	got := FallbackSkills(text, cfg)

	want := map[string]bool{"go": true, "python": true, "c++": true}
	for _, s := range got {
		if !want[s] {
			t.Errorf("unexpected skill %q", s)
		}
		delete(want, s)
	}
	for missing := range want {
		t.Errorf("missing skill %q", missing)
	}
}

func TestContainsWordBoundaries(t *testing.T) {
	if containsWord("gopher at heart", "go") {
		t.Error("'go' should not match inside 'gopher'")
	}
	if !containsWord("c, c++, and go", "c++") {
		t.Error("'c++' should match")
	}
	if !containsWord("c, c++, and go", "c") {
		t.Error("standalone 'c' should match")
	}
}
