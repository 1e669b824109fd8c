package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ExtractionJobStatus represents the status of an extraction job
type ExtractionJobStatus string

const (
	JobStatusPending    ExtractionJobStatus = "pending"
	JobStatusInProgress ExtractionJobStatus = "in_progress"
	JobStatusCompleted  ExtractionJobStatus = "completed"
	JobStatusFailed     ExtractionJobStatus = "failed"
)

// Step statuses
const (
	StepPending    = "pending"
	StepInProgress = "in_progress"
	StepCompleted  = "completed"
	StepFailed     = "failed"
)

// ExtractionStep represents a step in the extraction pipeline
type ExtractionStep struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

// ExtractionSteps represents a list of extraction steps
type ExtractionSteps []ExtractionStep

// Value implements driver.Valuer for JSONB
func (s ExtractionSteps) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB
func (s *ExtractionSteps) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	}

	if len(bytes) == 0 {
		*s = make(ExtractionSteps, 0)
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// SetStatus updates the status of the named step and reports whether it exists
func (s ExtractionSteps) SetStatus(name, status string) bool {
	for i := range s {
		if s[i].Name == name {
			s[i].Status = status
			return true
		}
	}
	return false
}

// ExtractionJob tracks one background run of the extraction pipeline for a case file
type ExtractionJob struct {
	ID           uuid.UUID           `json:"id"`
	Filename     string              `json:"filename"`
	Status       ExtractionJobStatus `json:"status"`
	CurrentStep  *string             `json:"current_step,omitempty"`
	Steps        ExtractionSteps     `json:"steps"`
	ErrorMessage *string             `json:"error_message,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
}
