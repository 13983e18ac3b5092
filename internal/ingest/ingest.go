// Package ingest provides the batch resume importer.
//
// It walks files or directories of plain-text resumes, runs each one
// through the extraction pipeline, and stores the resulting employees.
// Provenance is preserved: every stored employee gets an audit event
// carrying the batch job id and source file.
package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hirelens/hirelens/internal/extract"
	"github.com/hirelens/hirelens/internal/store"
)

// DefaultMaxFileSize is 10MB. Resumes larger than this are skipped.
const DefaultMaxFileSize = 10 * 1024 * 1024

var resumeExtensions = map[string]bool{
	".txt":  true,
	".text": true,
	".md":   true,
}

// Options configures a batch ingest.
type Options struct {
	Recursive   bool
	DryRun      bool  // extract and report, store nothing
	MaxFileSize int64 // bytes, default 10MB
	ProgressFn  func(current, total int, file string)
}

// IngestError records a non-fatal error during a batch.
type IngestError struct {
	File    string
	Message string
}

// Result summarizes a batch ingest.
type Result struct {
	JobID         string
	FilesScanned  int
	FilesIngested int
	FilesSkipped  int
	EmployeeIDs   []int64
	Errors        []IngestError
}

// Add merges another Result into this one.
func (r *Result) Add(other *Result) {
	r.FilesScanned += other.FilesScanned
	r.FilesIngested += other.FilesIngested
	r.FilesSkipped += other.FilesSkipped
	r.EmployeeIDs = append(r.EmployeeIDs, other.EmployeeIDs...)
	r.Errors = append(r.Errors, other.Errors...)
}

// Engine runs batch ingests against one store and one extraction
// pipeline.
type Engine struct {
	store    store.Store
	pipeline *extract.Pipeline
	logger   *slog.Logger
}

// NewEngine creates a batch ingest engine. A nil logger disables
// logging.
func NewEngine(st store.Store, pipeline *extract.Pipeline, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{store: st, pipeline: pipeline, logger: logger}
}

// IngestPath ingests one file, or every resume file under a directory.
// Per-file failures are collected in the result; only setup failures
// (bad path, unreadable directory) return an error.
func (e *Engine) IngestPath(ctx context.Context, path string, opts Options) (*Result, error) {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = collectResumeFiles(path, opts.Recursive)
		if err != nil {
			return nil, err
		}
	}

	result := &Result{JobID: uuid.NewString()}
	for i, file := range files {
		if opts.ProgressFn != nil {
			opts.ProgressFn(i+1, len(files), file)
		}
		e.ingestFile(ctx, file, opts, result)
	}

	e.logger.Info("batch ingest complete",
		"job_id", result.JobID,
		"scanned", result.FilesScanned,
		"ingested", result.FilesIngested,
		"skipped", result.FilesSkipped,
		"errors", len(result.Errors))
	return result, nil
}

func (e *Engine) ingestFile(ctx context.Context, path string, opts Options, result *Result) {
	result.FilesScanned++

	info, err := os.Stat(path)
	if err != nil {
		result.Errors = append(result.Errors, IngestError{File: path, Message: err.Error()})
		return
	}
	if info.Size() > opts.MaxFileSize {
		result.FilesSkipped++
		e.logger.Warn("skipping oversized file", "file", path, "size", info.Size())
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, IngestError{File: path, Message: err.Error()})
		return
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		result.FilesSkipped++
		return
	}

	res, err := e.pipeline.Extract(ctx, text)
	if err != nil {
		result.Errors = append(result.Errors, IngestError{File: path, Message: err.Error()})
		return
	}

	if opts.DryRun {
		result.FilesIngested++
		return
	}

	emp := employeeFromResult(res, text)
	id, err := e.store.AddEmployee(ctx, emp)
	if err != nil {
		result.Errors = append(result.Errors, IngestError{File: path, Message: err.Error()})
		return
	}
	_ = e.store.LogEvent(ctx, &store.IngestEvent{
		JobID:      result.JobID,
		EventType:  "ingest",
		EmployeeID: id,
		Detail:     fmt.Sprintf("source=%s provider=%s confidence=%.2f", filepath.Base(path), res.Provider, res.Record.OverallConfidence),
	})

	result.FilesIngested++
	result.EmployeeIDs = append(result.EmployeeIDs, id)
}

func collectResumeFiles(dir string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if resumeExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return files, nil
}

func employeeFromResult(res *extract.Result, rawText string) *store.Employee {
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

// FormatResult renders a batch result for the CLI.
func FormatResult(r *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Job %s\n", r.JobID)
	fmt.Fprintf(&b, "  Files scanned:  %d\n", r.FilesScanned)
	fmt.Fprintf(&b, "  Ingested:       %d\n", r.FilesIngested)
	fmt.Fprintf(&b, "  Skipped:        %d\n", r.FilesSkipped)
	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, "  Errors:         %d\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "    %s: %s\n", e.File, e.Message)
		}
	}
	return b.String()
}
