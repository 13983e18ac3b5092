package extract

import "testing"

const sampleResume = `John Smith
Senior Software Developer at Acme Corp
Email: john.smith@acme.com | Phone: +1 (555) 123-4567
Skills: Go, Python, Kubernetes
Previously: Backend Engineer, Initech (2018-2021)`

func TestVerifyAgainstSourceKeepsTraceable(t *testing.T) {
	data := map[string]any{
		"name":     "John Smith",
		"email":    "john.smith@acme.com",
		"phone":    "555-123-4567",
		"position": "Senior Software Developer",
		"skills":   []any{"Go", "Python"},
	}
	warnings := VerifyAgainstSource(data, sampleResume)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if data["name"] != "John Smith" || data["phone"] != "555-123-4567" {
		t.Errorf("traceable values were modified: %v", data)
	}
}

func TestVerifyAgainstSourceNullsInvented(t *testing.T) {
	data := map[string]any{
		"name":  "Johnathan Smitherson", // model embellishment
		"email": "fabricated@nowhere.io",
		"phone": "+44 20 9999 8888",
	}
	warnings := VerifyAgainstSource(data, sampleResume)
	for _, field := range []string{"name", "email", "phone"} {
		if data[field] != nil {
			t.Errorf("%s should be nulled, got %v", field, data[field])
		}
	}
	if len(warnings) != 3 {
		t.Errorf("expected 3 warnings, got %v", warnings)
	}
}

func TestVerifyPhoneComparesDigits(t *testing.T) {
	// Model reformats the number; digits still trace to the source.
	data := map[string]any{"phone": "15551234567"}
	if w := VerifyAgainstSource(data, sampleResume); len(w) != 0 {
		t.Fatalf("unexpected warnings: %v", w)
	}
	if data["phone"] != "15551234567" {
		t.Errorf("phone should survive digit-level match, got %v", data["phone"])
	}
}

func TestVerifyNameDiacriticFold(t *testing.T) {
	data := map[string]any{"name": "José García"}
	source := "Jose Garcia\nDeveloper\njose.garcia@corp.com"
	if w := VerifyAgainstSource(data, source); len(w) != 0 {
		t.Fatalf("folded name should trace, got warnings: %v", w)
	}
}

func TestVerifyFiltersArrayItems(t *testing.T) {
	data := map[string]any{
		"skills": []any{"Go", "Haskell", "Python"},
	}
	warnings := VerifyAgainstSource(data, sampleResume)
	skills := data["skills"].([]any)
	if len(skills) != 2 || skills[0] != "Go" || skills[1] != "Python" {
		t.Errorf("skills = %v, want [Go Python]", skills)
	}
	if len(warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", warnings)
	}
}

func TestVerifyExperienceEntries(t *testing.T) {
	data := map[string]any{
		"experience": []any{
			map[string]any{"company": "Initech", "role": "Backend Engineer"},
			map[string]any{"company": "Globex", "role": "Wizard"},
		},
	}
	VerifyAgainstSource(data, sampleResume)
	exp := data["experience"].([]any)
	if len(exp) != 1 {
		t.Fatalf("expected 1 surviving entry, got %v", exp)
	}
	if exp[0].(map[string]any)["company"] != "Initech" {
		t.Errorf("wrong entry survived: %v", exp[0])
	}
}
