package schema

import (
	"fmt"
	"strings"
)

// CheckConsistency cross-checks validated fields against each other and
// returns human-readable warnings. Warnings never invalidate a field;
// they flag records worth a second look.
func (v *Validator) CheckConsistency(rec *Record) []string {
	var warnings []string

	if w := v.emailMatchesName(rec); w != "" {
		warnings = append(warnings, w)
	}
	if w := v.departmentMatchesPosition(rec); w != "" {
		warnings = append(warnings, w)
	}
	return warnings
}

// emailMatchesName warns when no part of the person's name shows up in
// the email local part. Initials-only addresses pass via the first
// letters check.
func (v *Validator) emailMatchesName(rec *Record) string {
	name := rec.String("name")
	email := rec.String("email")
	if name == "" || email == "" {
		return ""
	}
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return ""
	}
	local := strings.ToLower(email[:at])

	var initials strings.Builder
	for _, tok := range strings.Fields(strings.ToLower(name)) {
		tok = strings.Trim(tok, ".'-")
		if tok == "" {
			continue
		}
		initials.WriteByte(tok[0])
		if len(tok) > 2 && strings.Contains(local, tok) {
			return ""
		}
	}
	if ini := initials.String(); len(ini) >= 2 && strings.Contains(local, ini) {
		return ""
	}
	return fmt.Sprintf("email %q does not appear to match name %q", email, name)
}

// departmentMatchesPosition warns when the stated department disagrees
// with the one the position title implies.
func (v *Validator) departmentMatchesPosition(rec *Record) string {
	dept := rec.String("department")
	position := rec.String("position")
	if dept == "" || position == "" {
		return ""
	}
	inferred := v.InferDepartment(position)
	if inferred == "" || strings.EqualFold(inferred, dept) {
		return ""
	}
	return fmt.Sprintf("position %q suggests department %q, record says %q", position, inferred, dept)
}

// InferDepartment maps a job title to a department using the ordered
// keyword rules. The first rule whose keyword occurs in the title wins;
// no rule matching yields "".
func (v *Validator) InferDepartment(position string) string {
	title := strings.ToLower(position)
	for _, rule := range v.cfg.DepartmentRules {
		if strings.Contains(title, rule.Keyword) {
			return rule.Department
		}
	}
	return ""
}
