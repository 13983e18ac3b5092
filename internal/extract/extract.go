// Package extract turns raw resume text into validated employee
// records.
//
// The pipeline runs in a fixed order: model completion, JSON recovery,
// regex fallback for contact fields the model missed, source-text
// verification that nulls anything the model invented, and finally
// schema enforcement. A dead or incoherent model degrades the pipeline
// to regex-only extraction instead of failing the ingest.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hirelens/hirelens/internal/config"
	"github.com/hirelens/hirelens/internal/llm"
	"github.com/hirelens/hirelens/internal/schema"
)

// Opts configures a single extraction run.
type Opts struct {
	MaxTokens   int     // completion budget for the model
	Temperature float64 // 0 = deterministic, what we want for parsing
}

// DefaultOpts returns the standard extraction options.
func DefaultOpts() Opts {
	return Opts{MaxTokens: 2000, Temperature: 0}
}

// Result is the outcome of one extraction.
type Result struct {
	Record       *schema.Record     // validated record
	Raw          map[string]any     // post-verification raw fields
	Provider     string             // provider that produced the data
	UsedFallback bool               // true when the model output was unusable
	Agreement    map[string]float64 // per-field agreement (ensemble only)
	Warnings     []string           // pipeline-level warnings
}

// Pipeline orchestrates extraction for one provider.
type Pipeline struct {
	provider  llm.Provider
	validator *schema.Validator
	cfg       *config.Config
	logger    *slog.Logger
}

// NewPipeline builds an extraction pipeline. A nil logger disables
// pipeline logging.
func NewPipeline(provider llm.Provider, cfg *config.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		provider:  provider,
		validator: schema.NewValidator(cfg),
		cfg:       cfg,
		logger:    logger,
	}
}

// Extract runs the full pipeline on resumeText.
func (p *Pipeline) Extract(ctx context.Context, resumeText string) (*Result, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, fmt.Errorf("empty resume text")
	}

	res := &Result{Provider: p.provider.Name()}

	data, warn := p.modelExtract(ctx, resumeText)
	if warn != "" {
		res.UsedFallback = true
		res.Warnings = append(res.Warnings, warn)
	}

	p.postprocess(data, resumeText)
	res.Warnings = append(res.Warnings, VerifyAgainstSource(data, resumeText)...)

	res.Raw = data
	res.Record = p.validator.Enforce(data)

	p.logger.Debug("extraction complete",
		"provider", res.Provider,
		"fallback", res.UsedFallback,
		"overall_confidence", res.Record.OverallConfidence,
		"warnings", len(res.Warnings))
	return res, nil
}

// modelExtract asks the model for structured output and recovers the
// JSON. Any failure degrades to an empty record plus a warning; the
// regex fallbacks still run.
func (p *Pipeline) modelExtract(ctx context.Context, resumeText string) (map[string]any, string) {
	out, err := p.provider.Complete(ctx, BuildExtractionPrompt(resumeText), llm.CompletionOpts{
		MaxTokens:   DefaultOpts().MaxTokens,
		Temperature: DefaultOpts().Temperature,
		Format:      "json",
		System:      extractionSystem,
	})
	if err != nil {
		p.logger.Warn("model completion failed, using regex fallback", "provider", p.provider.Name(), "error", err)
		return map[string]any{}, fmt.Sprintf("model unavailable (%v); regex fallback only", err)
	}

	data, err := ParseModelJSON(out)
	if err != nil {
		p.logger.Warn("model output unparseable, using regex fallback", "provider", p.provider.Name(), "error", err)
		return map[string]any{}, fmt.Sprintf("model output unparseable (%v); regex fallback only", err)
	}
	return data, ""
}

// postprocess fills gaps the model left: contact fields from regex
// scans, department inferred from the position title, skills from the
// programming-language catalog.
func (p *Pipeline) postprocess(data map[string]any, resumeText string) {
	// Sentinel strings ("null", "N/A") count as absence. Scrub them
	// first so the fallbacks below fire for fields the model hedged on.
	for _, field := range schema.FieldOrder {
		if s, ok := data[field].(string); ok && schema.IsNullSentinel(field, s) {
			delete(data, field)
		}
	}

	if isEmptyField(data["email"]) {
		if email := FallbackEmail(resumeText); email != "" {
			data["email"] = email
		}
	}
	if isEmptyField(data["phone"]) {
		if phone := FallbackPhone(resumeText); phone != "" {
			data["phone"] = phone
		}
	}
	if isEmptyField(data["department"]) {
		if dept := p.validator.InferDepartment(departmentHint(data)); dept != "" {
			data["department"] = dept
		}
	}
	// Models routinely file Python under spoken languages.
	if items, ok := data["languages"].([]any); ok {
		data["languages"] = dropProgrammingLanguages(items, p.cfg)
	}
	if items, ok := data["skills"].([]any); !ok || len(items) == 0 {
		if skills := FallbackSkills(resumeText, p.cfg); len(skills) > 0 {
			arr := make([]any, len(skills))
			for i, s := range skills {
				arr[i] = s
			}
			data["skills"] = arr
		}
	}
}

// EnsembleExtract runs the pipeline once per provider and merges the
// results by weighted vote. Weights align with providers by index;
// missing or non-positive weights count as 1. Providers that error out
// entirely are skipped; all of them failing is an error.
func EnsembleExtract(ctx context.Context, providers []llm.Provider, weights []float64, cfg *config.Config, logger *slog.Logger, resumeText string) (*Result, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers for ensemble")
	}

	var votes []Vote
	var warnings []string
	for i, provider := range providers {
		p := NewPipeline(provider, cfg, logger)
		r, err := p.Extract(ctx, resumeText)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("provider %s failed: %v", provider.Name(), err))
			continue
		}
		w := 1.0
		if i < len(weights) && weights[i] > 0 {
			w = weights[i]
		}
		votes = append(votes, Vote{Provider: provider.Name(), Weight: w, Data: r.Raw})
		warnings = append(warnings, r.Warnings...)
	}
	if len(votes) == 0 {
		return nil, fmt.Errorf("all %d ensemble providers failed", len(providers))
	}

	merged, agreement := MergeEnsemble(votes)
	validator := schema.NewValidator(cfg)
	return &Result{
		Record:    validator.Enforce(merged),
		Raw:       merged,
		Provider:  fmt.Sprintf("ensemble(%d)", len(votes)),
		Agreement: agreement,
		Warnings:  warnings,
	}, nil
}

// departmentHint picks the text to infer a department from: the
// position title when present, else the role of the first experience
// entry.
func departmentHint(data map[string]any) string {
	if position, ok := data["position"].(string); ok && position != "" {
		return position
	}
	entries, ok := data["experience"].([]any)
	if !ok || len(entries) == 0 {
		return ""
	}
	entry, ok := entries[0].(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range []string{"role", "position", "title"} {
		if s, ok := entry[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func dropProgrammingLanguages(items []any, cfg *config.Config) []any {
	kept := make([]any, 0, len(items))
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			kept = append(kept, it)
			continue
		}
		lower := strings.ToLower(strings.TrimSpace(s))
		isCode := false
		for _, lang := range cfg.ProgrammingLanguages {
			if lower == lang {
				isCode = true
				break
			}
		}
		if !isCode {
			kept = append(kept, it)
		}
	}
	return kept
}

func isEmptyField(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
