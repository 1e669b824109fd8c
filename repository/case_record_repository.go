package repository

import (
	"context"
	"errors"

	"caseatlas-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lookup by id matches no row
var ErrNotFound = errors.New("record not found")

// CaseRecordRepository handles database operations for classified case records
type CaseRecordRepository struct {
	db *pgxpool.Pool
}

// NewCaseRecordRepository creates a new case record repository
func NewCaseRecordRepository(db *pgxpool.Pool) *CaseRecordRepository {
	return &CaseRecordRepository{db: db}
}

const caseRecordColumns = `id, case_type, criminal, civil, issues, outcome_category,
			outcome_details, created_at, updated_at`

// Upsert inserts a case record or replaces the classification of an existing one
func (r *CaseRecordRepository) Upsert(ctx context.Context, record *models.CaseRecord) error {
	query := `
		INSERT INTO case_records (
			id, case_type, criminal, civil, issues, outcome_category, outcome_details
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			case_type = EXCLUDED.case_type,
			criminal = EXCLUDED.criminal,
			civil = EXCLUDED.civil,
			issues = EXCLUDED.issues,
			outcome_category = EXCLUDED.outcome_category,
			outcome_details = EXCLUDED.outcome_details,
			updated_at = NOW()
		RETURNING created_at, updated_at`

	var caseType *string
	if record.CaseType != "" {
		ct := string(record.CaseType)
		caseType = &ct
	}

	issues := record.Issues
	if issues == nil {
		issues = []string{}
	}

	err := r.db.QueryRow(
		ctx, query,
		record.ID,
		caseType,
		record.Criminal,
		record.Civil,
		issues,
		record.OutcomeCategory,
		record.OutcomeDetails,
	).Scan(&record.CreatedAt, &record.UpdatedAt)

	return err
}

// GetByID retrieves a case record by its source filename
func (r *CaseRecordRepository) GetByID(ctx context.Context, id string) (*models.CaseRecord, error) {
	query := `
		SELECT ` + caseRecordColumns + `
		FROM case_records
		WHERE id = $1`

	record, err := scanCaseRecord(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return record, err
}

// List retrieves all case records ordered by id
func (r *CaseRecordRepository) List(ctx context.Context) ([]*models.CaseRecord, error) {
	query := `
		SELECT ` + caseRecordColumns + `
		FROM case_records
		ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*models.CaseRecord{}
	for rows.Next() {
		record, err := scanCaseRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Count returns the number of stored case records
func (r *CaseRecordRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM case_records`).Scan(&count)
	return count, err
}

// Delete deletes a case record
func (r *CaseRecordRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM case_records WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCaseRecord(row rowScanner) (*models.CaseRecord, error) {
	record := &models.CaseRecord{}
	var caseType *string

	err := row.Scan(
		&record.ID,
		&caseType,
		&record.Criminal,
		&record.Civil,
		&record.Issues,
		&record.OutcomeCategory,
		&record.OutcomeDetails,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if caseType != nil {
		record.CaseType = models.CaseType(*caseType)
	}

	return record, nil
}
