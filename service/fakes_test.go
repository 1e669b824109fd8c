package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"caseatlas-backend/models"
	"caseatlas-backend/repository"
	"caseatlas-backend/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeRecordRepo struct {
	mu      sync.Mutex
	records map[string]*models.CaseRecord
	err     error
}

func newFakeRecordRepo(records ...*models.CaseRecord) *fakeRecordRepo {
	r := &fakeRecordRepo{records: map[string]*models.CaseRecord{}}
	for _, record := range records {
		r.records[record.ID] = record
	}
	return r
}

func (r *fakeRecordRepo) Upsert(ctx context.Context, record *models.CaseRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records[record.ID] = record
	return nil
}

func (r *fakeRecordRepo) GetByID(ctx context.Context, id string) (*models.CaseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return record, nil
}

func (r *fakeRecordRepo) List(ctx context.Context) ([]*models.CaseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*models.CaseRecord, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*models.ExtractionJob
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[uuid.UUID]*models.ExtractionJob{}}
}

func (r *fakeJobRepo) Create(ctx context.Context, job *models.ExtractionJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *job
	stored.Steps = append(models.ExtractionSteps{}, job.Steps...)
	r.jobs[job.ID] = &stored
	return nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ExtractionJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *job
	copied.Steps = append(models.ExtractionSteps{}, job.Steps...)
	return &copied, nil
}

func (r *fakeJobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ExtractionJobStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[id].Status = status
	return nil
}

func (r *fakeJobRepo) UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.ExtractionSteps) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[id].CurrentStep = &currentStep
	r.jobs[id].Steps = append(models.ExtractionSteps{}, steps...)
	return nil
}

func (r *fakeJobRepo) Complete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[id].Status = models.JobStatusCompleted
	return nil
}

func (r *fakeJobRepo) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[id].Status = models.JobStatusFailed
	r.jobs[id].ErrorMessage = &errorMessage
	return nil
}

type fakeExtractor struct {
	mu             sync.Mutex
	analyzeCalls   int
	classifyCalls  int
	analysis       *models.Analysis
	classification *models.Classification
	analyzeErr     error
	classifyErr    error
}

func (e *fakeExtractor) Analyze(ctx context.Context, opinion string) (*models.Analysis, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.analyzeCalls++
	if e.analyzeErr != nil {
		return nil, e.analyzeErr
	}
	if e.analysis != nil {
		return e.analysis, nil
	}
	return &models.Analysis{Facts: []string{opinion}, Outcomes: "Affirmed"}, nil
}

func (e *fakeExtractor) Classify(ctx context.Context, analysis *models.Analysis) (*models.Classification, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.classifyCalls++
	if e.classifyErr != nil {
		return nil, e.classifyErr
	}
	if e.classification != nil {
		copied := *e.classification
		return &copied, nil
	}
	return &models.Classification{
		CaseType: "Criminal",
		Criminal: &models.CriminalAttributes{OffenseSeverity: "Felony", Charges: []string{"Theft"}},
		Civil:    &models.CivilAttributes{CauseOfAction: "stray"},
		Issues:   []string{"Sufficiency of evidence"},
	}, nil
}

var errBoom = errors.New("boom")

// newTestStore returns local storage seeded with case documents named after opinions
func newTestStore(t *testing.T, opinions map[string]string) storage.Storage {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for name, text := range opinions {
		doc := `{"name":"` + name + `","casebody":{"opinions":[{"text":"` + text + `"}]}}`
		require.NoError(t, store.Put(context.Background(), storage.CaseDocumentKey(name), strings.NewReader(doc)))
	}
	return store
}
