package handlers

import (
	"bytes"
	"html/template"
	"strings"

	"caseatlas-backend/models"
)

var analysisCard = template.Must(template.New("analysis").Parse(
	`<div class='stage1-card'>` +
		`<div class='stage1-header'><span class='stage1-label'>Case Type</span><span class='stage1-badge'>{{.CaseType}}</span></div>` +
		`{{range .Sections}}<div class='stage1-section'><div class='stage1-section-title'>{{.Title}}</div><ul class='stage1-list'>{{range .Items}}<li>{{.}}</li>{{end}}</ul></div>{{end}}` +
		`<div class='stage1-section'><div class='stage1-section-title'>Outcome</div><p class='stage1-outcome'>{{.Outcome}}</p></div>` +
		`</div>`,
))

type cardSection struct {
	Title string
	Items []string
}

// renderAnalysisCard renders a stage 1 analysis as the HTML card shown next to a case
func renderAnalysisCard(analysis *models.Analysis, caseType models.CaseType) (string, error) {
	badge := "Not Classified"
	if caseType != "" {
		badge = strings.ToUpper(string(caseType))
	}

	data := struct {
		CaseType string
		Sections []cardSection
		Outcome  string
	}{
		CaseType: badge,
		Sections: []cardSection{
			{Title: "Facts", Items: analysis.Facts},
			{Title: "Legal Issues", Items: analysis.Issues},
			{Title: "Reasonings", Items: analysis.Reasonings},
		},
		Outcome: analysis.Outcomes,
	}

	var buf bytes.Buffer
	if err := analysisCard.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
