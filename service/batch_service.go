package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CaseExtractor is the part of ExtractionService the batch runner drives
type CaseExtractor interface {
	ListCases(ctx context.Context) ([]string, error)
	HasAnalysis(ctx context.Context, filename string) (bool, error)
	ExtractCase(ctx context.Context, filename string, force bool) (*ExtractCaseResult, error)
}

// BatchService runs the extraction pipeline over every case document
type BatchService struct {
	extractor   CaseExtractor
	concurrency int
	logger      *zap.Logger
}

// BatchServiceOption is a functional option for BatchService
type BatchServiceOption func(*BatchService)

// BatchWithExtractionService sets the per-case extractor
func BatchWithExtractionService(extractor CaseExtractor) BatchServiceOption {
	return func(s *BatchService) {
		s.extractor = extractor
	}
}

// BatchWithConcurrency sets the default number of cases processed at once
func BatchWithConcurrency(n int) BatchServiceOption {
	return func(s *BatchService) {
		s.concurrency = n
	}
}

// BatchWithLogger sets the logger
func BatchWithLogger(logger *zap.Logger) BatchServiceOption {
	return func(s *BatchService) {
		s.logger = logger
	}
}

// NewBatchService creates a new batch service
func NewBatchService(opts ...BatchServiceOption) *BatchService {
	s := &BatchService{concurrency: 1, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BatchStatus reports how many case documents have a cached analysis
type BatchStatus struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
}

// RunBatchRequest represents a request to run a batch
type RunBatchRequest struct {
	Limit       int // 0 processes every case
	Concurrency int // 0 uses the service default
}

// RunBatchResult holds the counters of a finished batch
type RunBatchResult struct {
	Found     int `json:"found"`
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

// Status counts case documents and cached analyses
func (s *BatchService) Status(ctx context.Context) (*BatchStatus, error) {
	if s.extractor == nil {
		return nil, errExtractorNotSet
	}

	files, err := s.extractor.ListCases(ctx)
	if err != nil {
		return nil, err
	}

	status := &BatchStatus{Total: len(files)}
	for _, file := range files {
		ok, err := s.extractor.HasAnalysis(ctx, file)
		if err != nil {
			return nil, err
		}
		if ok {
			status.Processed++
		}
	}
	return status, nil
}

// Run extracts the first Limit case documents in filename order.
// Progress messages are delivered one at a time. A failing case is counted
// and reported without stopping the batch; cancelling ctx stops scheduling new cases.
func (s *BatchService) Run(ctx context.Context, req RunBatchRequest, progress func(string)) (*RunBatchResult, error) {
	if s.extractor == nil {
		return nil, errExtractorNotSet
	}
	if progress == nil {
		progress = func(string) {}
	}

	files, err := s.extractor.ListCases(ctx)
	if err != nil {
		return nil, err
	}

	toProcess := files
	if req.Limit > 0 && req.Limit < len(files) {
		toProcess = files[:req.Limit]
	}

	concurrency := req.Concurrency
	if concurrency <= 0 {
		concurrency = s.concurrency
	}
	if concurrency < 1 {
		concurrency = 1
	}

	result := &RunBatchResult{Found: len(files)}
	var mu sync.Mutex
	report := func(update func(), message string) {
		mu.Lock()
		defer mu.Unlock()
		update()
		progress(message)
	}

	progress(fmt.Sprintf("Found %d cases. Processing %d...", len(files), len(toProcess)))

	var g errgroup.Group
	g.SetLimit(concurrency)

	for _, file := range toProcess {
		if ctx.Err() != nil {
			break
		}

		file := file
		g.Go(func() error {
			res, err := s.extractor.ExtractCase(ctx, file, false)
			switch {
			case err != nil:
				s.logger.Warn("batch case failed", zap.String("filename", file), zap.Error(err))
				report(func() { result.Errors++ }, fmt.Sprintf("Error processing %s: %v", file, err))
			case res.Skipped:
				report(func() { result.Skipped++ }, "Skipped: "+file)
			default:
				report(func() { result.Processed++ }, "Completed: "+file)
			}
			return nil
		})
	}

	_ = g.Wait()

	progress(fmt.Sprintf("Done. Processed: %d, Skipped: %d, Errors: %d", result.Processed, result.Skipped, result.Errors))

	s.logger.Info("batch finished",
		zap.Int("found", result.Found),
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", result.Errors),
	)

	return result, ctx.Err()
}
