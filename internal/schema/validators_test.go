package schema

import (
	"math"
	"testing"

	"github.com/hirelens/hirelens/internal/config"
)

func testValidator() *Validator {
	return NewValidator(config.Default())
}

func TestValidateName(t *testing.T) {
	v := testValidator()

	cases := []struct {
		name      string
		in        string
		wantValid bool
		wantConf  float64
	}{
		{"proper caps", "John Smith", true, 0.95},
		{"hyphenated", "Mary-Jane Watson", true, 0.95},
		{"all lower", "john smith", true, 0.85},
		{"with initial dot", "John Q. Smith", true, 0.85},
		{"too short", "J", false, 0},
		{"digits only", "12345", false, 0},
		{"test data", "Test User", false, 0},
		{"document title", "Resume of John", false, 0},
		{"no letters", "!!! ???", false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := v.ValidateField("name", tc.in)
			if f.IsValid != tc.wantValid {
				t.Fatalf("IsValid = %v, want %v (errors: %v, warnings: %v)", f.IsValid, tc.wantValid, f.Errors, f.Warnings)
			}
			if !f.IsValid && f.Value != nil {
				t.Error("invalid field must carry nil value")
			}
			if tc.wantValid && f.Confidence != tc.wantConf {
				t.Errorf("Confidence = %v, want %v", f.Confidence, tc.wantConf)
			}
		})
	}
}

func TestValidateNameSentinels(t *testing.T) {
	v := testValidator()
	for _, s := range []string{"null", "None", "N/A", "Unknown", "Pending extraction...", ""} {
		f := v.ValidateField("name", s)
		if !f.IsValid || f.Value != nil || f.Confidence != 0 {
			t.Errorf("sentinel %q: got %+v, want absent", s, f)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	v := testValidator()

	f := v.ValidateField("email", "John.Smith@Example.ORG")
	if !f.IsValid || f.Value != "john.smith@example.org" || f.Confidence != 0.95 {
		t.Errorf("clean email: got %+v", f)
	}

	f = v.ValidateField("email", "john@gmial.com")
	if !f.IsValid || f.Confidence != 0.7 || len(f.Warnings) == 0 {
		t.Errorf("typo domain should pass at 0.7 with warning, got %+v", f)
	}

	for _, bad := range []string{"not-an-email", "john@", "@example.com", "a b@c.com"} {
		f = v.ValidateField("email", bad)
		if f.IsValid {
			t.Errorf("email %q should be invalid", bad)
		}
		if f.Value != nil {
			t.Errorf("invalid email %q must carry nil value", bad)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	v := testValidator()

	f := v.ValidateField("phone", "+1 (555) 123-4567")
	if !f.IsValid || f.Confidence != 0.9 || f.Value != "+1 (555) 123-4567" {
		t.Errorf("well-formed phone: got %+v", f)
	}

	f = v.ValidateField("phone", "call me at 5551234567 anytime")
	if !f.IsValid || f.Confidence != 0.7 || f.Value != "5551234567" {
		t.Errorf("noisy phone should be salvaged to digits, got %+v", f)
	}

	for _, bad := range []string{"12345", "1234567890123456", "no digits here"} {
		f = v.ValidateField("phone", bad)
		if f.IsValid {
			t.Errorf("phone %q should be invalid", bad)
		}
	}
}

func TestValidateDepartment(t *testing.T) {
	v := testValidator()

	cases := []struct {
		in       string
		want     string
		wantConf float64
	}{
		{"IT", "IT", 0.95},
		{"it", "IT", 0.9},
		{"human resources", "Human Resources", 0.9},
		{"Quality", "Quality Assurance", 0.7},
		{"Basket Weaving", "Basket Weaving", 0.5},
	}
	for _, tc := range cases {
		f := v.ValidateField("department", tc.in)
		if !f.IsValid {
			t.Fatalf("department %q unexpectedly invalid", tc.in)
		}
		if f.Value != tc.want || f.Confidence != tc.wantConf {
			t.Errorf("department %q: got (%v, %v), want (%q, %v)",
				tc.in, f.Value, f.Confidence, tc.want, tc.wantConf)
		}
	}
}

func TestValidateURL(t *testing.T) {
	v := testValidator()

	f := v.ValidateField("linkedin_url", "linkedin.com/in/jsmith")
	if !f.IsValid || f.Value != "https://linkedin.com/in/jsmith" || f.Confidence != 0.95 {
		t.Errorf("scheme should be prepended, got %+v", f)
	}

	f = v.ValidateField("github_url", "https://gitlab.com/jsmith")
	if !f.IsValid || f.Confidence != 0.6 || len(f.Warnings) == 0 {
		t.Errorf("wrong host should downgrade confidence, got %+v", f)
	}

	f = v.ValidateField("github_url", "not a url at all")
	if f.IsValid {
		t.Errorf("junk url should be invalid, got %+v", f)
	}
}

func TestValidateArray(t *testing.T) {
	v := testValidator()

	f := v.ValidateField("skills", []any{"Go", "  Python ", "go", "", "null", "SQL"})
	if !f.IsValid || f.Confidence != 0.9 {
		t.Fatalf("skills: got %+v", f)
	}
	got := f.Value.([]any)
	want := []any{"Go", "Python", "SQL"}
	if len(got) != len(want) {
		t.Fatalf("skills = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("skills[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestValidateArrayTruncation(t *testing.T) {
	cfg := config.Default()
	cfg.Thresholds.MaxArrayItems = 3
	v := NewValidator(cfg)

	f := v.ValidateField("skills", []any{"a1", "b2", "c3", "d4", "e5"})
	if len(f.Value.([]any)) != 3 {
		t.Errorf("expected truncation to 3 items, got %v", f.Value)
	}
	if f.Confidence != 0.8 || len(f.Warnings) == 0 {
		t.Errorf("truncation should warn at 0.8, got %+v", f)
	}
}

func TestValidateArrayOfObjects(t *testing.T) {
	v := testValidator()
	f := v.ValidateField("experience", []any{
		map[string]any{"company": "Acme", "role": "Engineer"},
		map[string]any{"role": "Engineer", "company": "Acme"}, // dup, key order differs
		map[string]any{},
	})
	if got := len(f.Value.([]any)); got != 1 {
		t.Errorf("expected 1 deduped entry, got %d", got)
	}
}

func TestEnforce(t *testing.T) {
	v := testValidator()
	rec := v.Enforce(map[string]any{
		"name":   "John Smith",
		"email":  "john.smith@acme.com",
		"phone":  "not a phone",
		"skills": []any{"Go"},
		"bogus":  "dropped",
	})

	if f := rec.Fields["phone"]; f.IsValid || f.Value != nil {
		t.Errorf("invalid phone must be nulled, got %+v", f)
	}
	if f := rec.Fields["department"]; !f.IsValid || f.Value != nil || f.Confidence != 0 {
		t.Errorf("missing field should be absent, got %+v", f)
	}

	// Mean over positive confidences only: name .95, email .95, skills .9.
	want := (0.95 + 0.95 + 0.9) / 3
	if math.Abs(rec.OverallConfidence-want) > 1e-9 {
		t.Errorf("OverallConfidence = %v, want %v", rec.OverallConfidence, want)
	}

	found := false
	for _, w := range rec.Warnings {
		if w == "dropped unknown fields: bogus" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected unknown-field warning, got %v", rec.Warnings)
	}
}

func TestEnforceAllInvalid(t *testing.T) {
	v := testValidator()
	rec := v.Enforce(map[string]any{"name": "12345", "phone": "123"})
	if rec.OverallConfidence != 0 {
		t.Errorf("no positive confidences should yield overall 0, got %v", rec.OverallConfidence)
	}
}

func TestCheckConsistency(t *testing.T) {
	v := testValidator()

	rec := v.Enforce(map[string]any{
		"name":  "John Smith",
		"email": "totally.unrelated@acme.com",
	})
	if len(rec.Warnings) == 0 {
		t.Error("expected email/name mismatch warning")
	}

	rec = v.Enforce(map[string]any{
		"name":  "John Smith",
		"email": "jsmith@acme.com", // initials form
	})
	for _, w := range rec.Warnings {
		t.Errorf("unexpected warning: %s", w)
	}

	rec = v.Enforce(map[string]any{
		"position":   "Senior Software Developer",
		"department": "Finance",
	})
	if len(rec.Warnings) == 0 {
		t.Error("expected department/position mismatch warning")
	}
}

func TestInferDepartment(t *testing.T) {
	v := testValidator()
	cases := []struct {
		position string
		want     string
	}{
		{"Senior Web Developer", "IT"},
		{"Scrum Master", "Project Management"},
		{"QA Engineer", "Quality Assurance"},
		{"HR Business Partner", "Human Resources"},
		{"Chief Basket Weaver", ""},
	}
	for _, tc := range cases {
		if got := v.InferDepartment(tc.position); got != tc.want {
			t.Errorf("InferDepartment(%q) = %q, want %q", tc.position, got, tc.want)
		}
	}
}
