package models

import (
	"strings"
	"time"
)

// CaseType represents the classification of a case
type CaseType string

const (
	CaseTypeCriminal CaseType = "criminal"
	CaseTypeCivil    CaseType = "civil"
)

// Normalize lower-cases and trims a case type as emitted by the classifier
func (t CaseType) Normalize() CaseType {
	return CaseType(strings.ToLower(strings.TrimSpace(string(t))))
}

// CriminalAttributes holds the attributes extracted for criminal cases
type CriminalAttributes struct {
	OffenseSeverity     string   `json:"offense_severity"`
	Charges             []string `json:"charges"`
	WeaponType          string   `json:"weapon_type"`
	VictimCount         *float64 `json:"victim_count"`
	EvidenceTypes       []string `json:"evidence_types"`
	AggravatingFactors  []string `json:"aggravating_factors"`
	PriorRecordSeverity string   `json:"prior_record_severity"`
}

// CivilAttributes holds the attributes extracted for civil cases
type CivilAttributes struct {
	CauseOfAction           string   `json:"cause_of_action"`
	DutyOfCareSource        string   `json:"duty_of_care_source"`
	BreachDescription       string   `json:"breach_description"`
	ProximateCausationScore *float64 `json:"proximate_causation_score"`
	DamagesClaimed          *float64 `json:"damages_claimed"`
	IsSettlement            *bool    `json:"is_settlement"`
}

// CaseRecord represents a classified case, identified by its source filename.
// Records are produced by the extraction pipeline and treated as read-only afterwards.
type CaseRecord struct {
	ID              string              `json:"id"`
	CaseType        CaseType            `json:"case_type,omitempty"`
	Criminal        *CriminalAttributes `json:"criminal,omitempty"`
	Civil           *CivilAttributes    `json:"civil,omitempty"`
	Issues          []string            `json:"issues,omitempty"`
	OutcomeCategory string              `json:"outcome_category,omitempty"`
	OutcomeDetails  string              `json:"outcome_details,omitempty"`
	CreatedAt       time.Time           `json:"created_at,omitempty"`
	UpdatedAt       time.Time           `json:"updated_at,omitempty"`
}

// Classification is the stage 2 output of the extraction pipeline
type Classification struct {
	CaseType        CaseType            `json:"case_type"`
	Criminal        *CriminalAttributes `json:"criminal"`
	Civil           *CivilAttributes    `json:"civil"`
	Issues          []string            `json:"issues"`
	OutcomeCategory string              `json:"outcome_category"`
	OutcomeDetails  string              `json:"outcome_details"`
}

// Normalize keeps only the attribute bag matching the case type.
// An unrecognized case type drops both bags and clears the type.
func (c *Classification) Normalize() {
	c.CaseType = c.CaseType.Normalize()
	switch c.CaseType {
	case CaseTypeCriminal:
		c.Civil = nil
	case CaseTypeCivil:
		c.Criminal = nil
	default:
		c.CaseType = ""
		c.Criminal = nil
		c.Civil = nil
	}
}

// ToRecord builds the case record for the given source filename
func (c *Classification) ToRecord(id string) *CaseRecord {
	return &CaseRecord{
		ID:              id,
		CaseType:        c.CaseType,
		Criminal:        c.Criminal,
		Civil:           c.Civil,
		Issues:          c.Issues,
		OutcomeCategory: c.OutcomeCategory,
		OutcomeDetails:  c.OutcomeDetails,
	}
}
