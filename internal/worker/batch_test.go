package worker

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ppiankov/clausula/internal/checklist"
	"github.com/ppiankov/clausula/internal/logging"
	"github.com/ppiankov/clausula/internal/model"
	"github.com/ppiankov/clausula/internal/reader"
	"github.com/ppiankov/clausula/internal/rulebook"
)

// stubAnalyzer returns canned results keyed by document name
type stubAnalyzer struct {
	results map[string]*model.AnalysisResult
}

func (s *stubAnalyzer) Analyze(ctx context.Context, doc *model.ParsedDocument) (*model.AnalysisResult, error) {
	if r, ok := s.results[doc.Name]; ok {
		return r, nil
	}
	return nil, model.ErrInputDocument
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestProcessPaths_Summary(t *testing.T) {
	dir := t.TempDir()
	aoaPath := writeDoc(t, dir, "aoa.txt", "ARTICLES OF ASSOCIATION\nGoverned by ADGM.")
	resPath := writeDoc(t, dir, "res.txt", "BOARD RESOLUTION\nResolved under ADGM.")
	missingPath := filepath.Join(dir, "missing.txt")

	analyzer := &stubAnalyzer{results: map[string]*model.AnalysisResult{
		"aoa.txt": {
			DocumentName: "aoa.txt",
			DocumentType: model.TypeArticlesOfAssociation,
			Status:       model.StatusComplete,
			Issues: []model.Issue{
				{SourceKind: model.SourceRuleBased, Severity: model.SeverityCritical, Topic: "jurisdiction:difc"},
			},
		},
		"res.txt": {
			DocumentName: "res.txt",
			DocumentType: model.TypeBoardResolution,
			Status:       model.StatusPartialWithWarnings,
			Issues: []model.Issue{
				{SourceKind: model.SourceAISuggestion, Severity: model.SeverityMedium, Topic: "ai:language"},
			},
		},
	}}

	b := NewBatchProcessor(analyzer, reader.NewRegistry(), checklist.NewVerifier(rulebook.Default()), 2, logging.Nop())
	summary := b.ProcessPaths(context.Background(), []string{aoaPath, resPath, missingPath})

	if summary.Total != 3 || summary.Complete != 1 || summary.Partial != 1 || summary.Failed != 1 {
		t.Errorf("counts = %d/%d/%d/%d, want total 3, complete 1, partial 1, failed 1",
			summary.Total, summary.Complete, summary.Partial, summary.Failed)
	}
	if summary.SeverityBreakdown[model.SeverityCritical] != 1 || summary.SeverityBreakdown[model.SeverityMedium] != 1 {
		t.Errorf("severity breakdown = %v", summary.SeverityBreakdown)
	}
	if summary.SourceBreakdown[model.SourceRuleBased] != 1 || summary.SourceBreakdown[model.SourceAISuggestion] != 1 {
		t.Errorf("source breakdown = %v", summary.SourceBreakdown)
	}
	if summary.Errors["missing.txt"] == "" {
		t.Errorf("errors = %v, want an entry for missing.txt", summary.Errors)
	}

	if len(summary.Documents) != 2 {
		t.Fatalf("documents = %d, want 2", len(summary.Documents))
	}
	if summary.Documents[0].DocumentName != "aoa.txt" || summary.Documents[1].DocumentName != "res.txt" {
		t.Errorf("document order = %s, %s; want path order",
			summary.Documents[0].DocumentName, summary.Documents[1].DocumentName)
	}

	if summary.Process == nil {
		t.Fatal("expected a process verdict")
	}
	if summary.Process.Process != checklist.ProcessIncorporation {
		t.Errorf("process = %s, want %s", summary.Process.Process, checklist.ProcessIncorporation)
	}
	wantPresent := []string{"Articles of Association", "Board Resolution"}
	if !reflect.DeepEqual(summary.Process.PresentDocs, wantPresent) {
		t.Errorf("present docs = %v, want %v", summary.Process.PresentDocs, wantPresent)
	}
	if len(summary.Process.MissingDocs) != 3 {
		t.Errorf("missing docs = %v, want 3 entries", summary.Process.MissingDocs)
	}
}

func TestProcessPaths_Empty(t *testing.T) {
	b := NewBatchProcessor(&stubAnalyzer{}, reader.NewRegistry(), nil, 2, logging.Nop())

	summary := b.ProcessPaths(context.Background(), nil)

	if summary.Total != 0 || summary.Failed != 0 {
		t.Errorf("counts = %d/%d, want zero", summary.Total, summary.Failed)
	}
	if summary.Process != nil {
		t.Errorf("process = %v, want none", summary.Process)
	}
	if len(summary.Documents) != 0 {
		t.Errorf("documents = %v, want none", summary.Documents)
	}
}

func TestDocumentPaths_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "b.html", "<html><body><p>x</p></body></html>")
	writeDoc(t, dir, "a.txt", "text")
	writeDoc(t, dir, "c.bin", "binary")
	writeDoc(t, dir, ".hidden.txt", "hidden")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	paths, err := DocumentPaths(dir)
	if err != nil {
		t.Fatalf("DocumentPaths: %v", err)
	}

	want := []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.html")}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestProcessDir(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "contract.txt", "EMPLOYMENT AGREEMENT\nSigned under ADGM.")
	writeDoc(t, dir, "ignored.bin", "binary")

	analyzer := &stubAnalyzer{results: map[string]*model.AnalysisResult{
		"contract.txt": {
			DocumentName: "contract.txt",
			DocumentType: model.TypeEmploymentContract,
			Status:       model.StatusComplete,
		},
	}}
	b := NewBatchProcessor(analyzer, reader.NewRegistry(), nil, 1, logging.Nop())

	summary, err := b.ProcessDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessDir: %v", err)
	}
	if summary.Total != 1 || summary.Complete != 1 {
		t.Errorf("counts = %d/%d, want 1/1", summary.Total, summary.Complete)
	}
}
