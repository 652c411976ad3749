package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/clausula/internal/checklist"
	"github.com/ppiankov/clausula/internal/logging"
	"github.com/ppiankov/clausula/internal/model"
	"github.com/ppiankov/clausula/internal/reader"
)

// Analyzer is the slice of the engine the batch processor needs
type Analyzer interface {
	Analyze(ctx context.Context, doc *model.ParsedDocument) (*model.AnalysisResult, error)
}

// AnalyzeJob parses one document from disk and runs it through the analyzer
type AnalyzeJob struct {
	Path     string
	Readers  *reader.Registry
	Analyzer Analyzer
}

// Execute implements Job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	doc, err := j.Readers.ParseFile(j.Path)
	if err != nil {
		return &DocumentResult{Path: j.Path, Error: err}
	}
	result, err := j.Analyzer.Analyze(ctx, doc)
	if err != nil {
		return &DocumentResult{Path: j.Path, Error: err}
	}
	return &DocumentResult{Path: j.Path, Result: result}
}

// DocumentResult is the outcome of one batched document
type DocumentResult struct {
	Path   string
	Result *model.AnalysisResult
	Error  error
}

// Err implements Result
func (r *DocumentResult) Err() error { return r.Error }

// BatchProcessor analyzes document sets concurrently and folds the outcomes
// into one summary with a process checklist verdict
type BatchProcessor struct {
	analyzer Analyzer
	readers  *reader.Registry
	verifier *checklist.Verifier
	workers  int
	log      logging.Logger
}

// NewBatchProcessor creates a batch processor. verifier may be nil; the
// summary then carries no process verdict.
func NewBatchProcessor(analyzer Analyzer, readers *reader.Registry, verifier *checklist.Verifier, workers int, log logging.Logger) *BatchProcessor {
	return &BatchProcessor{
		analyzer: analyzer,
		readers:  readers,
		verifier: verifier,
		workers:  workers,
		log:      logging.OrNop(log),
	}
}

// ProcessDir analyzes every supported document directly under dir
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) (*model.BatchSummary, error) {
	paths, err := DocumentPaths(dir)
	if err != nil {
		return nil, err
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ProcessPaths analyzes the given documents concurrently. Individual failures
// land in the summary's error map; the batch itself always returns. Cancelling
// the context aborts outstanding documents.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) *model.BatchSummary {
	summary := &model.BatchSummary{
		StartedAt:         time.Now().UTC(),
		Total:             len(paths),
		SeverityBreakdown: make(map[model.Severity]int),
		SourceBreakdown:   make(map[model.SourceKind]int),
	}
	if len(paths) == 0 {
		summary.FinishedAt = time.Now().UTC()
		return summary
	}

	pool := NewPool(b.workers)
	pool.Start()
	for _, path := range paths {
		pool.Submit(&AnalyzeJob{Path: path, Readers: b.readers, Analyzer: b.analyzer})
	}

	// Propagate caller cancellation into the pool
	watcherDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-watcherDone:
		}
	}()
	results := pool.Wait()
	close(watcherDone)

	// Completion order is nondeterministic; report in path order
	docResults := make([]*DocumentResult, 0, len(results))
	for _, r := range results {
		docResults = append(docResults, r.(*DocumentResult))
	}
	sort.Slice(docResults, func(i, j int) bool { return docResults[i].Path < docResults[j].Path })

	var types []model.DocumentType
	for _, dr := range docResults {
		name := filepath.Base(dr.Path)
		if dr.Error != nil {
			summary.Failed++
			if summary.Errors == nil {
				summary.Errors = make(map[string]string)
			}
			summary.Errors[name] = dr.Error.Error()
			b.log.Warn("document analysis failed", "path", dr.Path, "error", dr.Error)
			continue
		}

		if dr.Result.Status == model.StatusPartialWithWarnings {
			summary.Partial++
		} else {
			summary.Complete++
		}
		for _, issue := range dr.Result.Issues {
			summary.SeverityBreakdown[issue.Severity]++
			summary.SourceBreakdown[issue.SourceKind]++
		}
		types = append(types, dr.Result.DocumentType)
		summary.Documents = append(summary.Documents, dr.Result)
	}

	if b.verifier != nil && len(summary.Documents) > 0 {
		summary.Process = b.verifier.Verify(types)
	}
	summary.FinishedAt = time.Now().UTC()

	b.log.Info("batch complete",
		"total", summary.Total,
		"complete", summary.Complete,
		"partial", summary.Partial,
		"failed", summary.Failed,
		"took", summary.FinishedAt.Sub(summary.StartedAt))
	return summary
}

// documentExts are the file extensions the batch collector picks up
var documentExts = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
}

// DocumentPaths lists the analyzable files directly under dir, sorted by name.
// Dotfiles and subdirectories are skipped.
func DocumentPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read batch directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !documentExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
