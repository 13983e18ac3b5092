package schema

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/hirelens/hirelens/internal/config"
)

var (
	emailPattern      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneShapePattern = regexp.MustCompile(`^\+?[\d\s().\-]{7,20}$`)

	// Name shapes, checked from most to least trustworthy.
	properCapsPattern  = regexp.MustCompile(`^[A-Z][a-z]+([\s'\-][A-Z][a-z]+)*$`)
	nameLettersPattern = regexp.MustCompile(`^[a-zA-Z\s'.\-]+$`)

	// Strings that are clearly not a person's name.
	numericOnlyPattern = regexp.MustCompile(`^\d+$`)
	noLettersPattern   = regexp.MustCompile(`^[^a-zA-Z]+$`)
	testNamePattern    = regexp.MustCompile(`(?i)\b(test|example|sample|dummy|placeholder)\b`)
	docWordPattern     = regexp.MustCompile(`(?i)\b(resume|cv|curriculum)\b`)
)

// typoDomains are frequent misspellings of common mail providers. Mail
// to these bounces, but the intended address is usually recoverable.
var typoDomains = []string{"gmial", "gamil", "yaho.", "yahooo", "hotmal", "outlok"}

// nullSentinels are literal strings LLMs emit instead of omitting a
// field. They are treated as absent, not as values.
var nullSentinels = map[string]bool{
	"": true, "null": true, "none": true, "n/a": true, "na": true, "nil": true,
}

// nameNullSentinels extends nullSentinels for the name field.
var nameNullSentinels = map[string]bool{
	"unknown": true, "pending extraction...": true, "not found": true,
}

// Validator applies per-field validation rules using the configured
// vocabularies and limits.
type Validator struct {
	cfg *config.Config
}

// NewValidator builds a Validator over the given configuration.
func NewValidator(cfg *config.Config) *Validator {
	return &Validator{cfg: cfg}
}

// IsNullSentinel reports whether s is a null-like placeholder for the
// named field. Upstream stages use it to treat sentinel model output
// as absence before gap-filling runs.
func IsNullSentinel(field, s string) bool { return isNull(field, s) }

// isNull reports whether s is a null sentinel for the named field.
func isNull(field, s string) bool {
	key := strings.ToLower(strings.TrimSpace(s))
	if nullSentinels[key] {
		return true
	}
	return field == "name" && nameNullSentinels[key]
}

// ValidateField dispatches to the field-specific validator. Fields with
// no dedicated rules pass through with moderate confidence.
func (v *Validator) ValidateField(name string, value any) Field {
	if IsArrayField(name) {
		return v.validateArray(name, value)
	}

	s, isStr := value.(string)
	if isStr && isNull(name, s) {
		return absent()
	}

	switch name {
	case "name":
		return v.validateName(s, isStr)
	case "email":
		return v.validateEmail(s, isStr)
	case "phone":
		return v.validatePhone(s, isStr)
	case "department":
		return v.validateDepartment(s, isStr)
	case "linkedin_url":
		return v.validateURL(s, isStr, "linkedin.com")
	case "github_url":
		return v.validateURL(s, isStr, "github.com")
	default:
		return v.validateGeneric(value)
	}
}

func (v *Validator) validateName(s string, isStr bool) Field {
	if !isStr {
		return invalid("name is not a string")
	}
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return invalid("name too short")
	}
	if len(s) > v.cfg.Thresholds.MaxNameLength {
		return invalid(fmt.Sprintf("name exceeds %d characters", v.cfg.Thresholds.MaxNameLength))
	}
	switch {
	case numericOnlyPattern.MatchString(s), noLettersPattern.MatchString(s):
		return invalid("name has no letters")
	case testNamePattern.MatchString(s):
		return invalid("name looks like test data")
	case docWordPattern.MatchString(s):
		return invalid("name looks like a document title")
	}

	conf := 0.8
	switch {
	case properCapsPattern.MatchString(s):
		conf = 0.95
	case nameLettersPattern.MatchString(s):
		conf = 0.85
	}
	return Field{Value: s, Confidence: conf, IsValid: true}
}

func (v *Validator) validateEmail(s string, isStr bool) Field {
	if !isStr {
		return invalid("email is not a string")
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) > v.cfg.Thresholds.MaxEmailLength {
		return invalid("email too long")
	}
	if !emailPattern.MatchString(s) {
		return invalid(fmt.Sprintf("malformed email %q", s))
	}
	domain := s[strings.LastIndexByte(s, '@')+1:]
	for _, typo := range typoDomains {
		if strings.Contains(domain, typo) {
			return Field{
				Value:      s,
				Confidence: 0.7,
				IsValid:    true,
				Warnings:   []string{fmt.Sprintf("domain %q looks like a typo", domain)},
			}
		}
	}
	return Field{Value: s, Confidence: 0.95, IsValid: true}
}

func (v *Validator) validatePhone(s string, isStr bool) Field {
	if !isStr {
		return invalid("phone is not a string")
	}
	s = strings.TrimSpace(s)
	digits := countDigits(s)
	if digits < 7 || digits > 15 {
		return invalid(fmt.Sprintf("phone has %d digits, want 7-15", digits))
	}
	if phoneShapePattern.MatchString(s) {
		return Field{Value: s, Confidence: 0.9, IsValid: true}
	}
	// Shape is off (stray words, weird separators) but the digits are
	// plausible: salvage just the number.
	salvaged := extractDigits(s)
	if strings.HasPrefix(s, "+") {
		salvaged = "+" + salvaged
	}
	return Field{
		Value:      salvaged,
		Confidence: 0.7,
		IsValid:    true,
		Warnings:   []string{"phone reformatted from noisy input"},
	}
}

func (v *Validator) validateDepartment(s string, isStr bool) Field {
	if !isStr {
		return invalid("department is not a string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return absent()
	}

	for _, d := range v.cfg.Departments {
		if s == d {
			return Field{Value: d, Confidence: 0.95, IsValid: true}
		}
	}
	lower := strings.ToLower(s)
	for _, d := range v.cfg.Departments {
		if lower == strings.ToLower(d) {
			return Field{Value: d, Confidence: 0.9, IsValid: true}
		}
	}
	for _, d := range v.cfg.Departments {
		dl := strings.ToLower(d)
		if strings.Contains(dl, lower) || strings.Contains(lower, dl) {
			return Field{Value: d, Confidence: 0.7, IsValid: true}
		}
	}
	return Field{
		Value:      s,
		Confidence: 0.5,
		IsValid:    true,
		Warnings:   []string{fmt.Sprintf("department %q not in catalog", s)},
	}
}

func (v *Validator) validateURL(s string, isStr bool, wantHost string) Field {
	if !isStr {
		return invalid("url is not a string")
	}
	s = strings.TrimSpace(s)
	if len(s) > v.cfg.Thresholds.MaxURLLength {
		return invalid("url too long")
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || !strings.Contains(u.Host, ".") {
		return invalid(fmt.Sprintf("malformed url %q", s))
	}
	if strings.Contains(strings.ToLower(u.Host), wantHost) {
		return Field{Value: s, Confidence: 0.95, IsValid: true}
	}
	return Field{
		Value:      s,
		Confidence: 0.6,
		IsValid:    true,
		Warnings:   []string{fmt.Sprintf("host %q does not look like %s", u.Host, wantHost)},
	}
}

// validateArray cleans list fields: drops empty/null items, dedups
// while preserving first-seen order, and truncates oversized lists.
func (v *Validator) validateArray(name string, value any) Field {
	items, ok := value.([]any)
	if !ok {
		// A bare string where a list belongs becomes a one-item list.
		if s, isStr := value.(string); isStr {
			if isNull(name, s) {
				return Field{Value: []any{}, Confidence: 0, IsValid: true}
			}
			items = []any{s}
		} else {
			return invalid(fmt.Sprintf("%s is not a list", name))
		}
	}

	cleaned := make([]any, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		switch x := it.(type) {
		case string:
			s := strings.TrimSpace(x)
			if isNull(name, s) {
				continue
			}
			key := strings.ToLower(s)
			if seen[key] {
				continue
			}
			seen[key] = true
			cleaned = append(cleaned, s)
		case map[string]any:
			if len(x) == 0 {
				continue
			}
			key := mapKey(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			cleaned = append(cleaned, x)
		}
	}

	var warnings []string
	conf := 0.9
	if max := v.cfg.Thresholds.MaxArrayItems; len(cleaned) > max {
		cleaned = cleaned[:max]
		warnings = append(warnings, fmt.Sprintf("%s truncated to %d items", name, max))
		conf = 0.8
	}
	if len(cleaned) == 0 {
		return Field{Value: []any{}, Confidence: 0, IsValid: true}
	}
	return Field{Value: cleaned, Confidence: conf, IsValid: true, Warnings: warnings}
}

// validateGeneric accepts any non-null scalar with moderate confidence.
func (v *Validator) validateGeneric(value any) Field {
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return absent()
		}
		return Field{Value: s, Confidence: 0.7, IsValid: true}
	}
	return Field{Value: value, Confidence: 0.7, IsValid: true}
}

// mapKey builds a stable dedup key for an object item from its sorted
// key=value pairs.
func mapKey(m map[string]any) string {
	parts := make([]string, 0, len(m))
	for k, v := range m {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	// Order must not depend on map iteration.
	for i := 1; i < len(parts); i++ {
		for j := i; j > 0 && parts[j] < parts[j-1]; j-- {
			parts[j], parts[j-1] = parts[j-1], parts[j]
		}
	}
	return strings.ToLower(strings.Join(parts, "|"))
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func extractDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
