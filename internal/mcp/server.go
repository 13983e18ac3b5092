// Package mcp provides a Model Context Protocol server for hirelens.
//
// It exposes the resume pipeline (ingest, search, resolve, CRUD,
// stats) as MCP tools, and catalog statistics plus recent hires as MCP
// resources. Runs over stdio for editor and assistant integrations.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hirelens/hirelens/internal/config"
	"github.com/hirelens/hirelens/internal/embed"
	"github.com/hirelens/hirelens/internal/extract"
	"github.com/hirelens/hirelens/internal/llm"
	"github.com/hirelens/hirelens/internal/normalize"
	"github.com/hirelens/hirelens/internal/query"
	"github.com/hirelens/hirelens/internal/resolve"
	"github.com/hirelens/hirelens/internal/store"
	"github.com/hirelens/hirelens/internal/vector"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Store    store.Store
	Config   *config.Config
	Version  string         // version string for MCP server info
	Provider llm.Provider   // optional, for model-backed ingest
	Embedder embed.Embedder // optional, for semantic search
	Index    *vector.Index  // optional, paired with Embedder
	Logger   *slog.Logger
}

// dbMu serializes all MCP tool calls that touch the database.
// The mcp-go library dispatches handlers concurrently via goroutines.
// SQLite (even with WAL) supports only one writer at a time, and
// concurrent reads during writes can return stale results. A global
// mutex ensures correct ordering: an ingest completes before searches
// see its data.
var dbMu sync.Mutex

// NewServer creates a configured MCP server with all hirelens tools
// and resources.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}
	if cfg.Config == nil {
		cfg.Config = config.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	s := server.NewMCPServer(
		"hirelens",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)

	queryEngine := query.NewEngine(cfg.Config)
	norm := normFromConfig(cfg.Config)
	resolver := resolve.NewResolver(norm, cfg.Config.Thresholds.ActionableScore)

	registerIngestTool(s, cfg)
	registerSearchTool(s, cfg, queryEngine)
	registerResolveTool(s, cfg.Store, resolver)
	registerCrudTool(s, cfg)
	registerStatsTool(s, cfg)

	registerStatsResource(s, cfg)
	registerRecentResource(s, cfg.Store)

	return s
}

func normFromConfig(cfg *config.Config) *normalize.Normalizer {
	return normalize.New(cfg.Honorifics, cfg.Abbreviations)
}

// --- Tools ---

func registerIngestTool(s *server.MCPServer, cfg ServerConfig) {
	tool := mcp.NewTool("resume_ingest",
		mcp.WithDescription("Ingest a resume. Extracts structured fields with the configured model (falling back to regex extraction when the model is unavailable), verifies every field against the source text, validates the schema, and stores the employee. Returns the new employee with per-run warnings."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("resume_text",
			mcp.Required(),
			mcp.Description("The raw resume text to ingest"),
		),
		mcp.WithString("source",
			mcp.Description("Source identifier (e.g. filename). Defaults to 'mcp-ingest'."),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		resumeText, err := req.RequireString("resume_text")
		if err != nil || strings.TrimSpace(resumeText) == "" {
			return mcp.NewToolResultError("resume_text is required"), nil
		}
		resumeText = strings.ReplaceAll(resumeText, "\x00", "")

		source := "mcp-ingest"
		if src, err := req.RequireString("source"); err == nil && src != "" {
			source = src
		}

		if cfg.Provider == nil {
			return mcp.NewToolResultError("no model configured; start the server with --llm"), nil
		}

		jobID := uuid.NewString()
		pipeline := extract.NewPipeline(cfg.Provider, cfg.Config, cfg.Logger)
		res, err := pipeline.Extract(ctx, resumeText)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("extraction error: %v", err)), nil
		}

		emp := employeeFromRecord(res, resumeText)
		id, err := cfg.Store.AddEmployee(ctx, emp)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("storing employee: %v", err)), nil
		}

		_ = cfg.Store.LogEvent(ctx, &store.IngestEvent{
			JobID:      jobID,
			EventType:  "ingest",
			EmployeeID: id,
			Detail:     fmt.Sprintf("source=%s provider=%s confidence=%.2f", source, res.Provider, res.Record.OverallConfidence),
		})

		// Index for semantic search; ingest succeeds even if this fails.
		if cfg.Embedder != nil && cfg.Index != nil {
			if vec, err := cfg.Embedder.Embed(ctx, resumeText); err == nil {
				if err := cfg.Index.Add(id, vec); err != nil {
					cfg.Logger.Warn("vector index add failed", "employee_id", id, "error", err)
				}
			} else {
				cfg.Logger.Warn("embedding failed", "employee_id", id, "error", err)
			}
		}

		result := map[string]any{
			"job_id":        jobID,
			"employee_id":   id,
			"display_id":    store.FormatDisplayID(id),
			"name":          emp.Name,
			"department":    emp.Department,
			"confidence":    res.Record.OverallConfidence,
			"used_fallback": res.UsedFallback,
			"errors":        res.Record.Errors,
			"warnings":      append(res.Warnings, res.Record.Warnings...),
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerSearchTool(s *server.MCPServer, cfg ServerConfig, engine *query.Engine) {
	tool := mcp.NewTool("employee_search",
		mcp.WithDescription("Search the employee catalog. 'keyword' runs full-text search, 'semantic' uses embeddings (requires an embedder), 'compound' parses and/or/not operators with skill and city synonym expansion (default)."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query, e.g. 'python and kubernetes not manual testing'"),
		),
		mcp.WithString("mode",
			mcp.Description("Search mode: keyword, semantic, or compound (default: compound)"),
			mcp.Enum("keyword", "semantic", "compound"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 10, max: 50)"),
		),
		mcp.WithString("department",
			mcp.Description("Restrict results to one department"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		q, err := req.RequireString("query")
		if err != nil || strings.TrimSpace(q) == "" {
			return mcp.NewToolResultError("query is required"), nil
		}

		mode := "compound"
		if m, err := req.RequireString("mode"); err == nil && m != "" {
			mode = m
		}
		limit := 10
		if v, err := req.RequireFloat("limit"); err == nil {
			limit = int(v)
			if limit > 50 {
				limit = 50
			}
			if limit <= 0 {
				limit = 10
			}
		}
		department := ""
		if d, err := req.RequireString("department"); err == nil {
			department = d
		}

		var hits []*store.SearchResult
		switch mode {
		case "keyword":
			hits, err = cfg.Store.SearchText(ctx, q, limit*2)
		case "semantic":
			hits, err = searchSemantic(ctx, cfg, q, limit*2)
		case "compound":
			hits, err = searchCompound(ctx, cfg.Store, engine, q, limit*2)
		default:
			return mcp.NewToolResultError(fmt.Sprintf("invalid mode: %q", mode)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search error: %v", err)), nil
		}

		out := make([]map[string]any, 0, limit)
		for _, h := range hits {
			if department != "" && !strings.EqualFold(h.Employee.Department, department) {
				continue
			}
			out = append(out, map[string]any{
				"employee_id": h.Employee.ID,
				"display_id":  h.Employee.DisplayID(),
				"name":        h.Employee.Name,
				"position":    h.Employee.Position,
				"department":  h.Employee.Department,
				"location":    h.Employee.Location,
				"skills":      h.Employee.Skills,
				"score":       h.Score,
			})
			if len(out) == limit {
				break
			}
		}
		data, _ := json.MarshalIndent(map[string]any{
			"mode": mode, "count": len(out), "results": out,
		}, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerResolveTool(s *server.MCPServer, st store.Store, resolver *resolve.Resolver) {
	tool := mcp.NewTool("employee_resolve",
		mcp.WithDescription("Resolve a free-text employee reference (name, nickname, misspelling, numeric id, or EMP-#### display id) against the catalog. Returns the single match when one candidate clearly wins, otherwise the scored candidate list; never guesses among ties."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("reference",
			mcp.Required(),
			mcp.Description("The reference to resolve, e.g. 'Jon Smyth' or 'EMP-0007'"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		ref, err := req.RequireString("reference")
		if err != nil || strings.TrimSpace(ref) == "" {
			return mcp.NewToolResultError("reference is required"), nil
		}

		catalog, err := st.Snapshot(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("loading catalog: %v", err)), nil
		}

		match, candidates := resolver.Resolve(ref, catalog)
		result := map[string]any{
			"reference":  ref,
			"resolved":   match != nil,
			"match":      match,
			"candidates": candidates,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerStatsTool(s *server.MCPServer, cfg ServerConfig) {
	tool := mcp.NewTool("hirelens_stats",
		mcp.WithDescription("Get catalog statistics: employee count, per-department headcount, ingest event count, database size, and vector index size."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		data, err := statsPayload(ctx, cfg)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("stats error: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func statsPayload(ctx context.Context, cfg ServerConfig) ([]byte, error) {
	st, err := cfg.Store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{
		"employees":     st.EmployeeCount,
		"events":        st.EventCount,
		"departments":   st.Departments,
		"db_size_bytes": st.DBSizeBytes,
	}
	if cfg.Index != nil {
		payload["indexed_vectors"] = cfg.Index.Len()
	}
	return json.MarshalIndent(payload, "", "  ")
}

// --- Search helpers ---

func searchSemantic(ctx context.Context, cfg ServerConfig, q string, limit int) ([]*store.SearchResult, error) {
	if cfg.Embedder == nil || cfg.Index == nil {
		return nil, fmt.Errorf("semantic search requires an embedder; start the server with --embed")
	}
	vec, err := cfg.Embedder.Embed(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	hits, err := cfg.Index.Search(vec, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*store.SearchResult, 0, len(hits))
	for _, h := range hits {
		emp, err := cfg.Store.GetEmployee(ctx, h.ID)
		if err != nil {
			// Index can lag behind deletes.
			continue
		}
		out = append(out, &store.SearchResult{Employee: *emp, Score: float64(h.Score)})
	}
	return out, nil
}

func searchCompound(ctx context.Context, st store.Store, engine *query.Engine, q string, limit int) ([]*store.SearchResult, error) {
	cq := engine.ParseCompound(q)
	if cq.IsEmpty() {
		return nil, fmt.Errorf("query reduced to nothing after stopword filtering")
	}

	employees, err := st.ListEmployees(ctx, store.ListOpts{Limit: 10000})
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	var out []*store.SearchResult
	for _, emp := range employees {
		text := employeeSearchText(emp)
		if !compoundMatches(engine, cq, text) {
			continue
		}
		out = append(out, &store.SearchResult{Employee: *emp})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// compoundMatches evaluates a compound query with synonym expansion:
// a term matches when any of its skill or city variants appears.
func compoundMatches(engine *query.Engine, q query.CompoundQuery, text string) bool {
	lower := strings.ToLower(text)
	termHit := func(term string) bool {
		for _, v := range engine.ExpandSkill(term) {
			if strings.Contains(lower, v) {
				return true
			}
		}
		for _, v := range engine.ExpandCity(term) {
			if strings.Contains(lower, v) {
				return true
			}
		}
		return false
	}

	for _, term := range q.MustNot {
		if termHit(term) {
			return false
		}
	}
	for _, term := range q.MustHave {
		if !termHit(term) {
			return false
		}
	}
	if len(q.ShouldHave) > 0 {
		for _, term := range q.ShouldHave {
			if termHit(term) {
				return true
			}
		}
		return false
	}
	return true
}

func employeeSearchText(e *store.Employee) string {
	parts := []string{e.Name, e.Position, e.Department, e.Location, e.Summary}
	parts = append(parts, e.Skills...)
	parts = append(parts, e.RawText)
	return strings.Join(parts, "\n")
}

// employeeFromRecord maps a validated extraction onto a storable
// employee. Invalid fields were already nulled, so missing values come
// through as empty strings.
func employeeFromRecord(res *extract.Result, rawText string) *store.Employee {
	r := res.Record
	return &store.Employee{
		Name:       r.String("name"),
		Email:      r.String("email"),
		Phone:      r.String("phone"),
		Department: r.String("department"),
		Position:   r.String("position"),
		Location:   r.String("location"),
		Summary:    r.String("summary"),
		Skills:     r.Strings("skills"),
		RawText:    rawText,
		Confidence: r.OverallConfidence,
	}
}
