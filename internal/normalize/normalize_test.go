package normalize

import "testing"

func testNormalizer() *Normalizer {
	return New(
		[]string{"mr", "mrs", "ms", "dr", "prof", "jr", "sr", "phd"},
		map[string]string{
			"sr":  "senior",
			"mgr": "manager",
			"qa":  "quality assurance",
			"dev": "developer",
		},
	)
}

func TestNormalize(t *testing.T) {
	n := testNormalizer()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "John Smith", "john smith"},
		{"honorific prefix", "Dr. John Smith", "john smith"},
		{"suffix", "John Smith Jr.", "john smith"},
		{"diacritics", "José García", "jose garcia"},
		{"hyphen", "Mary-Jane O'Brien", "mary jane o'brien"},
		{"underscore and runs", "john__smith   doe", "john smith doe"},
		{"mixed case", "JOHN smith", "john smith"},
		{"empty", "   ", ""},
		{"honorific only as word", "Drake Smith", "drake smith"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := n.Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := testNormalizer()
	inputs := []string{"Dr. José García-López Jr.", "  Mary   ANNE  ", "Łukasz Müller"}
	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent on %q: %q != %q", in, once, twice)
		}
	}
}

func TestExpandAbbreviations(t *testing.T) {
	n := testNormalizer()

	cases := []struct {
		in   string
		want string
	}{
		{"Sr. Dev", "senior developer"},
		{"QA Mgr", "quality assurance manager"},
		{"Product Owner", "Product Owner"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := n.ExpandAbbreviations(tc.in); got != tc.want {
			t.Errorf("ExpandAbbreviations(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFoldDiacritics(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"José", "Jose"},
		{"Müller", "Muller"},
		{"Łukasz", "Lukasz"},
		{"Straße", "Strasse"},
		{"plain ascii", "plain ascii"},
	}
	for _, tc := range cases {
		if got := FoldDiacritics(tc.in); got != tc.want {
			t.Errorf("FoldDiacritics(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
