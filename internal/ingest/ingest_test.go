package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hirelens/hirelens/internal/config"
	"github.com/hirelens/hirelens/internal/extract"
	"github.com/hirelens/hirelens/internal/llm"
	"github.com/hirelens/hirelens/internal/store"
)

type mockProvider struct {
	response string
	err      error
}

func (m *mockProvider) Complete(ctx context.Context, prompt string, opts llm.CompletionOpts) (string, error) {
	return m.response, m.err
}

func (m *mockProvider) Name() string { return "mock" }

const resumeText = "John Smith\nSenior Software Developer at Acme Corp\n" +
	"Email: john.smith@acme.com | Phone: +1 (555) 123-4567\n" +
	"Skills: Go, Python, Kubernetes"

const modelJSON = `{
	"name": "John Smith",
	"email": "john.smith@acme.com",
	"phone": "+1 (555) 123-4567",
	"position": "Senior Software Developer",
	"skills": ["Go", "Python", "Kubernetes"]
}`

func testEngine(t *testing.T, provider llm.Provider) (*Engine, store.Store) {
	t.Helper()
	s, err := store.NewStore(store.Config{DBPath: ":memory:"})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	pipeline := extract.NewPipeline(provider, config.Default(), nil)
	return NewEngine(s, pipeline, nil), s
}

func writeResume(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestIngestSingleFile(t *testing.T) {
	engine, s := testEngine(t, &mockProvider{response: modelJSON})
	path := writeResume(t, t.TempDir(), "john.txt", resumeText)

	result, err := engine.IngestPath(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("IngestPath: %v", err)
	}
	if result.FilesIngested != 1 || len(result.EmployeeIDs) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.JobID == "" {
		t.Error("missing job id")
	}

	emp, err := s.GetEmployee(context.Background(), result.EmployeeIDs[0])
	if err != nil {
		t.Fatalf("GetEmployee: %v", err)
	}
	if emp.Name != "John Smith" || emp.Department != "IT" {
		t.Errorf("unexpected employee: %+v", emp)
	}

	events, err := s.ListEvents(context.Background(), emp.ID, 10)
	if err != nil || len(events) != 1 {
		t.Fatalf("ListEvents: %v %v", events, err)
	}
	if events[0].JobID != result.JobID || !strings.Contains(events[0].Detail, "john.txt") {
		t.Errorf("event provenance wrong: %+v", events[0])
	}
}

func TestIngestDirectory(t *testing.T) {
	engine, _ := testEngine(t, &mockProvider{response: modelJSON})
	dir := t.TempDir()
	writeResume(t, dir, "a.txt", resumeText)
	writeResume(t, dir, "b.md", resumeText)
	writeResume(t, dir, "ignore.pdf", "binary")
	writeResume(t, dir, "empty.txt", "   ")

	sub := filepath.Join(dir, "nested")
	os.Mkdir(sub, 0o755)
	writeResume(t, sub, "c.txt", resumeText)

	// Non-recursive skips the nested directory.
	result, err := engine.IngestPath(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("IngestPath: %v", err)
	}
	if result.FilesIngested != 2 || result.FilesSkipped != 1 {
		t.Errorf("non-recursive result: %+v", result)
	}

	recursive, err := engine.IngestPath(context.Background(), dir, Options{Recursive: true})
	if err != nil {
		t.Fatalf("IngestPath recursive: %v", err)
	}
	if recursive.FilesIngested != 3 {
		t.Errorf("recursive result: %+v", recursive)
	}
}

func TestIngestDryRun(t *testing.T) {
	engine, s := testEngine(t, &mockProvider{response: modelJSON})
	path := writeResume(t, t.TempDir(), "john.txt", resumeText)

	result, err := engine.IngestPath(context.Background(), path, Options{DryRun: true})
	if err != nil {
		t.Fatalf("IngestPath: %v", err)
	}
	if result.FilesIngested != 1 || len(result.EmployeeIDs) != 0 {
		t.Errorf("dry run result: %+v", result)
	}
	all, _ := s.ListEmployees(context.Background(), store.ListOpts{})
	if len(all) != 0 {
		t.Errorf("dry run wrote %d employees", len(all))
	}
}

func TestIngestOversizedFileSkipped(t *testing.T) {
	engine, _ := testEngine(t, &mockProvider{response: modelJSON})
	path := writeResume(t, t.TempDir(), "big.txt", strings.Repeat("x", 100))

	result, err := engine.IngestPath(context.Background(), path, Options{MaxFileSize: 10})
	if err != nil {
		t.Fatalf("IngestPath: %v", err)
	}
	if result.FilesSkipped != 1 || result.FilesIngested != 0 {
		t.Errorf("oversized file not skipped: %+v", result)
	}
}

func TestIngestMissingPath(t *testing.T) {
	engine, _ := testEngine(t, &mockProvider{response: modelJSON})
	if _, err := engine.IngestPath(context.Background(), "/nonexistent/path", Options{}); err == nil {
		t.Error("missing path should error")
	}
}

func TestIngestModelDownStillIngests(t *testing.T) {
	// A dead model degrades to regex extraction, not a failed batch.
	engine, s := testEngine(t, &mockProvider{err: context.DeadlineExceeded})
	path := writeResume(t, t.TempDir(), "john.txt", resumeText)

	result, err := engine.IngestPath(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("IngestPath: %v", err)
	}
	if result.FilesIngested != 1 {
		t.Fatalf("fallback ingest failed: %+v", result)
	}
	emp, _ := s.GetEmployee(context.Background(), result.EmployeeIDs[0])
	if emp.Email != "john.smith@acme.com" {
		t.Errorf("regex fallback missed email: %+v", emp)
	}
}

func TestResultAdd(t *testing.T) {
	a := &Result{FilesScanned: 2, FilesIngested: 1, EmployeeIDs: []int64{1}}
	b := &Result{FilesScanned: 3, FilesSkipped: 1, Errors: []IngestError{{File: "x"}}}
	a.Add(b)
	if a.FilesScanned != 5 || a.FilesSkipped != 1 || len(a.Errors) != 1 {
		t.Errorf("Add wrong: %+v", a)
	}
}

func TestFormatResult(t *testing.T) {
	out := FormatResult(&Result{
		JobID: "job-1", FilesScanned: 3, FilesIngested: 2, FilesSkipped: 1,
		Errors: []IngestError{{File: "bad.txt", Message: "boom"}},
	})
	for _, want := range []string{"job-1", "scanned:  3", "bad.txt: boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
