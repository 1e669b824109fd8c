package models

import (
	"errors"
	"strings"
)

// Analysis is the stage 1 output of the extraction pipeline
type Analysis struct {
	Facts      []string `json:"facts"`
	Issues     []string `json:"issues"`
	Reasonings []string `json:"reasonings"`
	Outcomes   string   `json:"outcomes"`
}

// Validate checks that the analysis carries the content stage 2 needs
func (a *Analysis) Validate() error {
	if len(a.Facts) == 0 && len(a.Reasonings) == 0 && a.Outcomes == "" {
		return errors.New("analysis has no facts, reasonings or outcomes")
	}
	return nil
}

// CaseDocument is the source case law document (the fields the pipeline reads)
type CaseDocument struct {
	Name     string `json:"name,omitempty"`
	CaseBody struct {
		Opinions []struct {
			Type   string `json:"type,omitempty"`
			Author string `json:"author,omitempty"`
			Text   string `json:"text"`
		} `json:"opinions"`
	} `json:"casebody"`
}

// FullOpinion concatenates the text of every opinion in the document
func (d *CaseDocument) FullOpinion() string {
	var builder strings.Builder
	for _, opinion := range d.CaseBody.Opinions {
		builder.WriteString(opinion.Text)
	}
	return builder.String()
}
