// Package schema enforces the employee record shape on extracted data.
//
// Every known field runs through a validator that returns the cleaned
// value, a confidence in [0,1], and any errors or warnings. The one
// hard rule:
// a field that fails validation carries a nil value — invalid data
// never leaks downstream with a value attached. Overall record
// confidence is the mean of the strictly-positive field confidences,
// so absent fields do not drag the score down.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// FieldOrder is the canonical field catalog. Enforcement, verification
// and ensemble merging all iterate in this order so output is
// deterministic regardless of map iteration.
var FieldOrder = []string{
	"name", "email", "phone", "department", "position", "location",
	"summary", "skills", "experience", "education", "certifications",
	"languages", "linkedin_url", "github_url",
}

// arrayFields are the catalog fields that hold lists.
var arrayFields = map[string]bool{
	"skills":         true,
	"experience":     true,
	"education":      true,
	"certifications": true,
	"languages":      true,
}

// IsArrayField reports whether the catalog field holds a list.
func IsArrayField(name string) bool { return arrayFields[name] }

// Field is the validation outcome for a single record field. Errors
// record why a value was rejected; warnings flag accepted values that
// deserve a second look.
type Field struct {
	Value      any      `json:"value"`
	Confidence float64  `json:"confidence"`
	IsValid    bool     `json:"is_valid"`
	Errors     []string `json:"errors,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// invalid builds a failed Field. The value is always nil so callers
// cannot accidentally use rejected data.
func invalid(errors ...string) Field {
	return Field{Value: nil, Confidence: 0, IsValid: false, Errors: errors}
}

// absent is the outcome for a field that was simply not present. It is
// valid (absence is not an error) but carries zero confidence, which
// excludes it from the overall mean.
func absent() Field {
	return Field{Value: nil, Confidence: 0, IsValid: true}
}

// Record is the enforcement result for one extracted employee. Errors
// aggregate the per-field rejections; warnings carry record-level
// diagnostics (dropped keys, consistency checks).
type Record struct {
	Fields            map[string]Field `json:"fields"`
	OverallConfidence float64          `json:"overall_confidence"`
	Errors            []string         `json:"errors,omitempty"`
	Warnings          []string         `json:"warnings,omitempty"`
}

// String returns the field's value as a string, or "" when the field is
// absent, invalid, or not a string.
func (r *Record) String(field string) string {
	f, ok := r.Fields[field]
	if !ok || !f.IsValid || f.Value == nil {
		return ""
	}
	s, _ := f.Value.(string)
	return s
}

// Strings returns the field's value as a string slice, flattening any
// []any items that are strings.
func (r *Record) Strings(field string) []string {
	f, ok := r.Fields[field]
	if !ok || f.Value == nil {
		return nil
	}
	items, ok := f.Value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Enforce validates every catalog field of raw and computes the overall
// confidence. Unknown keys in raw are dropped with a warning; missing
// catalog fields come back as absent.
func (v *Validator) Enforce(raw map[string]any) *Record {
	rec := &Record{Fields: make(map[string]Field, len(FieldOrder))}

	for _, name := range FieldOrder {
		val, ok := raw[name]
		if !ok || val == nil {
			rec.Fields[name] = absent()
			continue
		}
		rec.Fields[name] = v.ValidateField(name, val)
	}

	var unknown []string
	for k := range raw {
		known := false
		for _, name := range FieldOrder {
			if k == name {
				known = true
				break
			}
		}
		if !known {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		rec.Warnings = append(rec.Warnings,
			fmt.Sprintf("dropped unknown fields: %s", strings.Join(unknown, ", ")))
	}

	for _, name := range FieldOrder {
		for _, e := range rec.Fields[name].Errors {
			rec.Errors = append(rec.Errors, fmt.Sprintf("%s: %s", name, e))
		}
	}

	rec.OverallConfidence = overallConfidence(rec.Fields)
	rec.Warnings = append(rec.Warnings, v.CheckConsistency(rec)...)
	return rec
}

// overallConfidence averages the strictly-positive field confidences.
// A record where nothing scored returns 0.
func overallConfidence(fields map[string]Field) float64 {
	var sum float64
	var n int
	for _, name := range FieldOrder {
		f, ok := fields[name]
		if !ok || f.Confidence <= 0 {
			continue
		}
		sum += f.Confidence
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
