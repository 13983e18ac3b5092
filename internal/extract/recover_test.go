package extract

import "testing"

func TestParseModelJSON(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		wantKey string
		wantVal string
		wantErr bool
	}{
		{
			name:    "direct",
			in:      `{"name": "John Smith"}`,
			wantKey: "name", wantVal: "John Smith",
		},
		{
			name:    "fenced",
			in:      "```json\n{\"name\": \"Jane Doe\"}\n```",
			wantKey: "name", wantVal: "Jane Doe",
		},
		{
			name:    "fenced no tag",
			in:      "```\n{\"email\": \"a@b.co\"}\n```",
			wantKey: "email", wantVal: "a@b.co",
		},
		{
			name:    "prose wrapped",
			in:      "Here is the extracted data:\n{\"name\": \"Bob\"}\nLet me know if you need more.",
			wantKey: "name", wantVal: "Bob",
		},
		{
			name:    "braces in strings",
			in:      `noise {"summary": "loves {curly} braces", "name": "Ann"} trailing`,
			wantKey: "summary", wantVal: "loves {curly} braces",
		},
		{name: "empty", in: "", wantErr: true},
		{name: "no json", in: "I could not find any information.", wantErr: true},
		{name: "unbalanced", in: `{"name": "Bob"`, wantErr: true},
		{name: "array not object", in: `["a", "b"]`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			obj, err := ParseModelJSON(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", obj)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := obj[tc.wantKey]; got != tc.wantVal {
				t.Errorf("obj[%q] = %v, want %q", tc.wantKey, got, tc.wantVal)
			}
		})
	}
}

func TestParseModelJSONNestedObject(t *testing.T) {
	in := `prefix {"experience": [{"company": "Acme", "role": "Dev"}], "name": "Cy"} suffix`
	obj, err := ParseModelJSON(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exp, ok := obj["experience"].([]any)
	if !ok || len(exp) != 1 {
		t.Fatalf("experience = %v", obj["experience"])
	}
}

func TestFirstBalancedObjectEscapedQuotes(t *testing.T) {
	in := `{"summary": "says \"hi {\" sometimes"}`
	if got := firstBalancedObject(in); got != in {
		t.Errorf("got %q, want whole input", got)
	}
}
