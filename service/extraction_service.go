package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"caseatlas-backend/models"
	"caseatlas-backend/repository"
	"caseatlas-backend/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CaseRecordStore persists classified case records
type CaseRecordStore interface {
	Upsert(ctx context.Context, record *models.CaseRecord) error
	GetByID(ctx context.Context, id string) (*models.CaseRecord, error)
	List(ctx context.Context) ([]*models.CaseRecord, error)
}

// ExtractionJobStore persists extraction jobs
type ExtractionJobStore interface {
	Create(ctx context.Context, job *models.ExtractionJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ExtractionJob, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ExtractionJobStatus) error
	UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.ExtractionSteps) error
	Complete(ctx context.Context, id uuid.UUID) error
	Fail(ctx context.Context, id uuid.UUID, errorMessage string) error
}

// ExtractionService runs the case extraction pipeline
type ExtractionService struct {
	store     storage.Storage
	records   CaseRecordStore
	jobs      ExtractionJobStore
	extractor Extractor
	logger    *zap.Logger
}

// ExtractionServiceOption is a functional option for ExtractionService
type ExtractionServiceOption func(*ExtractionService)

// ExtractionWithStorage sets the case document storage
func ExtractionWithStorage(store storage.Storage) ExtractionServiceOption {
	return func(s *ExtractionService) {
		s.store = store
	}
}

// ExtractionWithCaseRecordRepository sets the case record repository
func ExtractionWithCaseRecordRepository(repo CaseRecordStore) ExtractionServiceOption {
	return func(s *ExtractionService) {
		s.records = repo
	}
}

// ExtractionWithJobRepository sets the extraction job repository
func ExtractionWithJobRepository(repo ExtractionJobStore) ExtractionServiceOption {
	return func(s *ExtractionService) {
		s.jobs = repo
	}
}

// ExtractionWithExtractor sets the model backed extractor
func ExtractionWithExtractor(extractor Extractor) ExtractionServiceOption {
	return func(s *ExtractionService) {
		s.extractor = extractor
	}
}

// ExtractionWithLogger sets the logger
func ExtractionWithLogger(logger *zap.Logger) ExtractionServiceOption {
	return func(s *ExtractionService) {
		s.logger = logger
	}
}

// NewExtractionService creates a new extraction service
func NewExtractionService(opts ...ExtractionServiceOption) *ExtractionService {
	s := &ExtractionService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrInvalidFilename   = errors.New("invalid case filename")
	ErrCaseNotFound      = errors.New("case not found")
	ErrAnalysisNotFound  = errors.New("case analysis not found")
	ErrRecordNotFound    = errors.New("case record not found")
	ErrJobCreationFailed = errors.New("failed to create extraction job")
	ErrJobNotFound       = errors.New("extraction job not found")
	ErrInvalidDocument   = errors.New("invalid case document")
	errStorageNotSet     = errors.New("storage not set")
	errRecordRepoNotSet  = errors.New("case record repository not set")
	errJobRepoNotSet     = errors.New("extraction job repository not set")
	errExtractorNotSet   = errors.New("extractor not set")
)

// Extraction job steps, in pipeline order
const (
	StepLoadDocument    = "Loading Case Document"
	StepExtractAnalysis = "Extracting Analysis"
	StepClassifyCase    = "Classifying Case"
	StepSaveRecord      = "Saving Record"
)

var extractionSteps = []struct {
	name        string
	description string
}{
	{StepLoadDocument, "Reading the case document and joining its opinions"},
	{StepExtractAnalysis, "Extracting facts, issues, reasonings and outcome"},
	{StepClassifyCase, "Classifying the case as criminal or civil"},
	{StepSaveRecord, "Storing the classified case record"},
}

// StartExtractionRequest represents a request to start an extraction job
type StartExtractionRequest struct {
	Filename string
}

// StartExtractionResult represents the result of creating an extraction job
type StartExtractionResult struct {
	JobID uuid.UUID
}

// ExtractCaseResult represents the outcome of running the pipeline on one case
type ExtractCaseResult struct {
	Filename string
	Skipped  bool
	Analysis *models.Analysis
	Record   *models.CaseRecord
}

// ListCases returns the sorted filenames of all case documents
func (s *ExtractionService) ListCases(ctx context.Context) ([]string, error) {
	if s.store == nil {
		return nil, errStorageNotSet
	}

	keys, err := s.store.List(ctx, storage.CaseDocumentPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list case documents: %w", err)
	}

	files := make([]string, 0, len(keys))
	for _, key := range keys {
		name := path.Base(key)
		if strings.HasSuffix(name, ".json") {
			files = append(files, name)
		}
	}
	return files, nil
}

// OpenCaseHTML returns the rendered HTML of a case document
func (s *ExtractionService) OpenCaseHTML(ctx context.Context, filename string) ([]byte, error) {
	if err := s.checkFilename(filename); err != nil {
		return nil, err
	}

	data, err := storage.ReadAll(ctx, s.store, storage.CaseHTMLKey(filename))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCaseNotFound, filename)
	}
	return data, err
}

// ImportCase stores a case document and, when given, its rendered HTML.
// The document must parse and carry at least one opinion.
func (s *ExtractionService) ImportCase(ctx context.Context, filename string, document, html []byte) error {
	if err := s.checkFilename(filename); err != nil {
		return err
	}

	doc := &models.CaseDocument{}
	if err := json.Unmarshal(document, doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if len(doc.CaseBody.Opinions) == 0 {
		return fmt.Errorf("%w: no opinions in casebody", ErrInvalidDocument)
	}

	if err := s.store.Put(ctx, storage.CaseDocumentKey(filename), bytes.NewReader(document)); err != nil {
		return fmt.Errorf("failed to store case document: %w", err)
	}
	if len(html) > 0 {
		if err := s.store.Put(ctx, storage.CaseHTMLKey(filename), bytes.NewReader(html)); err != nil {
			return fmt.Errorf("failed to store case HTML: %w", err)
		}
	}

	s.logger.Info("case imported", zap.String("filename", filename), zap.Int("opinions", len(doc.CaseBody.Opinions)))
	return nil
}

// HasAnalysis reports whether a stage 1 analysis is cached for the case
func (s *ExtractionService) HasAnalysis(ctx context.Context, filename string) (bool, error) {
	if err := s.checkFilename(filename); err != nil {
		return false, err
	}
	return s.store.Exists(ctx, storage.AnalysisKey(filename))
}

// GetAnalysis loads the cached stage 1 analysis for the case
func (s *ExtractionService) GetAnalysis(ctx context.Context, filename string) (*models.Analysis, error) {
	if err := s.checkFilename(filename); err != nil {
		return nil, err
	}

	data, err := storage.ReadAll(ctx, s.store, storage.AnalysisKey(filename))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAnalysisNotFound, filename)
	}
	if err != nil {
		return nil, err
	}

	analysis := &models.Analysis{}
	if err := json.Unmarshal(data, analysis); err != nil {
		return nil, fmt.Errorf("failed to decode analysis for %s: %w", filename, err)
	}
	return analysis, nil
}

// GetRecord retrieves the classified record of a case
func (s *ExtractionService) GetRecord(ctx context.Context, id string) (*models.CaseRecord, error) {
	if s.records == nil {
		return nil, errRecordRepoNotSet
	}

	record, err := s.records.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return record, err
}

// StartExtraction creates an extraction job and returns immediately.
// The caller runs ProcessExtraction in the background.
func (s *ExtractionService) StartExtraction(ctx context.Context, req StartExtractionRequest) (*StartExtractionResult, error) {
	if s.jobs == nil {
		return nil, errJobRepoNotSet
	}
	if err := s.checkFilename(req.Filename); err != nil {
		return nil, err
	}

	exists, err := s.store.Exists(ctx, storage.CaseDocumentKey(req.Filename))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrCaseNotFound, req.Filename)
	}

	job := &models.ExtractionJob{
		ID:       uuid.New(),
		Filename: req.Filename,
		Status:   models.JobStatusPending,
		Steps:    initializeSteps(),
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		s.logger.Error("failed to create extraction job", zap.String("filename", req.Filename), zap.Error(err))
		return nil, ErrJobCreationFailed
	}

	return &StartExtractionResult{JobID: job.ID}, nil
}

// GetJobStatus retrieves an extraction job with its steps
func (s *ExtractionService) GetJobStatus(ctx context.Context, id uuid.UUID) (*models.ExtractionJob, error) {
	if s.jobs == nil {
		return nil, errJobRepoNotSet
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("failed to load extraction job", zap.Stringer("job_id", id), zap.Error(err))
		}
		return nil, ErrJobNotFound
	}
	return job, nil
}

func initializeSteps() models.ExtractionSteps {
	steps := make(models.ExtractionSteps, 0, len(extractionSteps))
	for _, step := range extractionSteps {
		steps = append(steps, models.ExtractionStep{
			Name:        step.name,
			Status:      models.StepPending,
			Description: step.description,
		})
	}
	return steps
}

// ProcessExtraction runs an extraction job, recording step progress as it goes
func (s *ExtractionService) ProcessExtraction(ctx context.Context, jobID uuid.UUID) error {
	if s.jobs == nil {
		return errJobRepoNotSet
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load extraction job: %w", err)
	}

	if err := s.jobs.UpdateStatus(ctx, jobID, models.JobStatusInProgress); err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	logger := s.logger.With(zap.Stringer("job_id", jobID), zap.String("filename", job.Filename))
	steps := job.Steps
	if len(steps) == 0 {
		steps = initializeSteps()
	}

	onStep := func(name, status string) error {
		steps.SetStatus(name, status)
		return s.jobs.UpdateProgress(ctx, jobID, name, steps)
	}

	if _, err := s.runPipeline(ctx, job.Filename, true, onStep); err != nil {
		logger.Error("extraction job failed", zap.Error(err))
		s.markJobFailed(ctx, jobID, err.Error())
		return err
	}

	if err := s.jobs.Complete(ctx, jobID); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	logger.Info("extraction job completed")
	return nil
}

// ExtractCase runs the pipeline synchronously for one case document.
// A case with a cached analysis and a stored record is skipped unless force is set.
func (s *ExtractionService) ExtractCase(ctx context.Context, filename string, force bool) (*ExtractCaseResult, error) {
	return s.runPipeline(ctx, filename, force, nil)
}

func (s *ExtractionService) runPipeline(
	ctx context.Context,
	filename string,
	force bool,
	onStep func(name, status string) error,
) (*ExtractCaseResult, error) {
	if err := s.checkFilename(filename); err != nil {
		return nil, err
	}
	if s.records == nil {
		return nil, errRecordRepoNotSet
	}
	if s.extractor == nil {
		return nil, errExtractorNotSet
	}

	var current string
	step := func(name string) error {
		if onStep == nil {
			current = name
			return nil
		}
		if current != "" {
			if err := onStep(current, models.StepCompleted); err != nil {
				return fmt.Errorf("failed to update step: %w", err)
			}
		}
		current = name
		if err := onStep(name, models.StepInProgress); err != nil {
			return fmt.Errorf("failed to update step: %w", err)
		}
		return nil
	}
	fail := func(err error) (*ExtractCaseResult, error) {
		if onStep != nil && current != "" {
			_ = onStep(current, models.StepFailed)
		}
		return nil, err
	}

	result := &ExtractCaseResult{Filename: filename}

	// A cached analysis is reused, and the case is skipped once its record exists too
	var analysis *models.Analysis
	if !force {
		cached, err := s.GetAnalysis(ctx, filename)
		switch {
		case err == nil:
			if _, err := s.records.GetByID(ctx, filename); err == nil {
				result.Skipped = true
				result.Analysis = cached
				return result, nil
			}
			analysis = cached
		case !errors.Is(err, ErrAnalysisNotFound):
			return nil, err
		}
	}

	if err := step(StepLoadDocument); err != nil {
		return fail(err)
	}

	if analysis == nil {
		doc, err := s.loadDocument(ctx, filename)
		if err != nil {
			return fail(err)
		}

		if err := step(StepExtractAnalysis); err != nil {
			return fail(err)
		}

		analysis, err = s.extractor.Analyze(ctx, doc.FullOpinion())
		if err != nil {
			return fail(fmt.Errorf("failed to extract analysis for %s: %w", filename, err))
		}

		if err := s.saveAnalysis(ctx, filename, analysis); err != nil {
			return fail(err)
		}
	} else if err := step(StepExtractAnalysis); err != nil {
		return fail(err)
	}
	result.Analysis = analysis

	if err := step(StepClassifyCase); err != nil {
		return fail(err)
	}

	classification, err := s.extractor.Classify(ctx, analysis)
	if err != nil {
		return fail(fmt.Errorf("failed to classify %s: %w", filename, err))
	}
	classification.Normalize()

	if err := step(StepSaveRecord); err != nil {
		return fail(err)
	}

	record := classification.ToRecord(filename)
	if err := s.records.Upsert(ctx, record); err != nil {
		return fail(fmt.Errorf("failed to store case record: %w", err))
	}
	result.Record = record

	if onStep != nil {
		if err := onStep(current, models.StepCompleted); err != nil {
			return nil, fmt.Errorf("failed to update step: %w", err)
		}
	}

	s.logger.Info("case extracted",
		zap.String("filename", filename),
		zap.String("case_type", string(record.CaseType)),
	)
	return result, nil
}

func (s *ExtractionService) loadDocument(ctx context.Context, filename string) (*models.CaseDocument, error) {
	data, err := storage.ReadAll(ctx, s.store, storage.CaseDocumentKey(filename))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCaseNotFound, filename)
	}
	if err != nil {
		return nil, err
	}

	doc := &models.CaseDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse case document %s: %w", filename, err)
	}
	return doc, nil
}

func (s *ExtractionService) saveAnalysis(ctx context.Context, filename string, analysis *models.Analysis) error {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	if err := s.store.Put(ctx, storage.AnalysisKey(filename), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save analysis for %s: %w", filename, err)
	}
	return nil
}

// checkFilename rejects anything that is not a bare case document name
func (s *ExtractionService) checkFilename(filename string) error {
	if s.store == nil {
		return errStorageNotSet
	}
	if !storage.ValidFilename(filename) {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	return nil
}

// markJobFailed marks a job as failed with an error message
func (s *ExtractionService) markJobFailed(ctx context.Context, jobID uuid.UUID, errorMessage string) {
	if err := s.jobs.Fail(ctx, jobID, errorMessage); err != nil {
		s.logger.Error("failed to mark job failed", zap.Stringer("job_id", jobID), zap.Error(err))
	}
}
