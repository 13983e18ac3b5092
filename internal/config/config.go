// Package config loads the closed vocabularies and numeric thresholds the
// matching and validation pipelines depend on.
//
// All tables ship with compiled-in defaults and can be overridden from a
// YAML file so synonym lists and score thresholds are tunable without
// touching algorithm code. Loading happens once at process start; the
// resulting Config is read-only afterwards and safe to share across
// goroutines. A missing file falls back to defaults, but a file that
// exists and fails to parse — or a table that ends up empty — is a hard
// startup error: every downstream guarantee depends on these tables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the conventional config location.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".hirelens", "config.yaml")
}

// DepartmentRule maps a job-title keyword to the department it implies.
// Rules are ordered; the first keyword found in a title wins.
type DepartmentRule struct {
	Keyword    string `yaml:"keyword"`
	Department string `yaml:"department"`
}

// Thresholds holds the tunable numeric knobs.
type Thresholds struct {
	// ActionableScore is the minimum match score at which a unique top
	// candidate is auto-selected during entity resolution.
	ActionableScore int `yaml:"actionable_score"`
	// MaxArrayItems caps list fields (skills, education, ...) per record.
	MaxArrayItems int `yaml:"max_array_items"`
	// MaxNameLength caps accepted person-name length.
	MaxNameLength int `yaml:"max_name_length"`
	// MaxEmailLength is the RFC 5321 overall limit.
	MaxEmailLength int `yaml:"max_email_length"`
	// MaxURLLength caps accepted URL length.
	MaxURLLength int `yaml:"max_url_length"`
}

// Config aggregates every vocabulary and threshold used by the pipelines.
type Config struct {
	Honorifics           []string            `yaml:"honorifics"`
	Abbreviations        map[string]string   `yaml:"abbreviations"`
	Departments          []string            `yaml:"departments"`
	DepartmentRules      []DepartmentRule    `yaml:"department_rules"`
	ProgrammingLanguages []string            `yaml:"programming_languages"`
	SkillSynonyms        map[string][]string `yaml:"skill_synonyms"`
	CitySynonyms         map[string][]string `yaml:"city_synonyms"`
	TitleSeniority       map[string]int      `yaml:"title_seniority"`
	Stopwords            []string            `yaml:"stopwords"`
	Thresholds           Thresholds          `yaml:"thresholds"`
}

// Load reads the YAML file at path and merges it over the compiled-in
// defaults. A missing file is fine (defaults apply); a present-but-broken
// file or a config that fails validation is a startup error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) == "" {
		path = DefaultConfigPath()
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var override Config
	if err := yaml.Unmarshal(b, &override); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.merge(&override)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// merge overlays non-empty override tables onto c. Overrides replace whole
// tables rather than appending, so a file can both extend and shrink a
// vocabulary.
func (c *Config) merge(o *Config) {
	if len(o.Honorifics) > 0 {
		c.Honorifics = o.Honorifics
	}
	if len(o.Abbreviations) > 0 {
		c.Abbreviations = o.Abbreviations
	}
	if len(o.Departments) > 0 {
		c.Departments = o.Departments
	}
	if len(o.DepartmentRules) > 0 {
		c.DepartmentRules = o.DepartmentRules
	}
	if len(o.ProgrammingLanguages) > 0 {
		c.ProgrammingLanguages = o.ProgrammingLanguages
	}
	if len(o.SkillSynonyms) > 0 {
		c.SkillSynonyms = o.SkillSynonyms
	}
	if len(o.CitySynonyms) > 0 {
		c.CitySynonyms = o.CitySynonyms
	}
	if len(o.TitleSeniority) > 0 {
		c.TitleSeniority = o.TitleSeniority
	}
	if len(o.Stopwords) > 0 {
		c.Stopwords = o.Stopwords
	}
	if o.Thresholds.ActionableScore > 0 {
		c.Thresholds.ActionableScore = o.Thresholds.ActionableScore
	}
	if o.Thresholds.MaxArrayItems > 0 {
		c.Thresholds.MaxArrayItems = o.Thresholds.MaxArrayItems
	}
	if o.Thresholds.MaxNameLength > 0 {
		c.Thresholds.MaxNameLength = o.Thresholds.MaxNameLength
	}
	if o.Thresholds.MaxEmailLength > 0 {
		c.Thresholds.MaxEmailLength = o.Thresholds.MaxEmailLength
	}
	if o.Thresholds.MaxURLLength > 0 {
		c.Thresholds.MaxURLLength = o.Thresholds.MaxURLLength
	}
}

// Validate rejects configurations that would silently disable a pipeline.
func (c *Config) Validate() error {
	type table struct {
		name string
		size int
	}
	tables := []table{
		{"honorifics", len(c.Honorifics)},
		{"abbreviations", len(c.Abbreviations)},
		{"departments", len(c.Departments)},
		{"department_rules", len(c.DepartmentRules)},
		{"programming_languages", len(c.ProgrammingLanguages)},
		{"skill_synonyms", len(c.SkillSynonyms)},
		{"city_synonyms", len(c.CitySynonyms)},
		{"title_seniority", len(c.TitleSeniority)},
	}
	for _, tb := range tables {
		if tb.size == 0 {
			return fmt.Errorf("table %q is empty", tb.name)
		}
	}

	if c.Thresholds.ActionableScore < 1 || c.Thresholds.ActionableScore > 100 {
		return fmt.Errorf("actionable_score %d out of range [1,100]", c.Thresholds.ActionableScore)
	}
	if c.Thresholds.MaxArrayItems < 1 {
		return fmt.Errorf("max_array_items must be positive, got %d", c.Thresholds.MaxArrayItems)
	}
	for title, score := range c.TitleSeniority {
		if score < 0 || score > 10 {
			return fmt.Errorf("title_seniority[%q] = %d out of range [0,10]", title, score)
		}
	}
	return nil
}
