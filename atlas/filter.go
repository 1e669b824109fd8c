package atlas

import (
	"strings"

	"caseatlas-backend/models"
)

// Requirement is the case type a record must have to be grouped by a chain
type Requirement int

const (
	RequireNone Requirement = iota
	RequireCriminal
	RequireCivil
	// RequireImpossible is produced by chains mixing criminal and civil fields.
	// No record carries both attribute bags, so nothing passes.
	RequireImpossible
)

func (r Requirement) String() string {
	switch r {
	case RequireCriminal:
		return "criminal"
	case RequireCivil:
		return "civil"
	case RequireImpossible:
		return "impossible"
	default:
		return "none"
	}
}

// RequiredDomainFor derives the case type requirement from the domains of the axes.
// Unknown ids contribute no domain.
func RequiredDomainFor(axes []FieldID) Requirement {
	var criminal, civil bool
	for _, id := range axes {
		domain, err := FieldDomain(id)
		if err != nil {
			continue
		}
		switch domain {
		case DomainCriminal:
			criminal = true
		case DomainCivil:
			civil = true
		}
	}

	switch {
	case criminal && civil:
		return RequireImpossible
	case criminal:
		return RequireCriminal
	case civil:
		return RequireCivil
	default:
		return RequireNone
	}
}

// FilterRecords keeps the records that satisfy the chain's domain requirement and
// hold a valid value for every axis. Input order is preserved.
func FilterRecords(records []*models.CaseRecord, axes []FieldID) []*models.CaseRecord {
	required := RequiredDomainFor(axes)
	if required == RequireImpossible {
		return []*models.CaseRecord{}
	}

	filtered := make([]*models.CaseRecord, 0, len(records))
	for _, record := range records {
		if record == nil || !matchesRequirement(record, required) {
			continue
		}
		if hasValidValues(record, axes) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

func matchesRequirement(record *models.CaseRecord, required Requirement) bool {
	switch required {
	case RequireCriminal:
		return strings.EqualFold(strings.TrimSpace(string(record.CaseType)), string(models.CaseTypeCriminal))
	case RequireCivil:
		return strings.EqualFold(strings.TrimSpace(string(record.CaseType)), string(models.CaseTypeCivil))
	case RequireImpossible:
		return false
	default:
		return true
	}
}

func hasValidValues(record *models.CaseRecord, axes []FieldID) bool {
	for _, id := range axes {
		if !isValidValue(FieldValue(record, id)) {
			return false
		}
	}
	return true
}
