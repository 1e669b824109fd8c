package atlas

import (
	"testing"

	"caseatlas-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestRequiredDomainFor(t *testing.T) {
	tests := []struct {
		name string
		axes []FieldID
		want Requirement
	}{
		{"no axes", nil, RequireNone},
		{"general only", []FieldID{FieldCaseType}, RequireNone},
		{"criminal", []FieldID{FieldCaseType, FieldCharges}, RequireCriminal},
		{"civil", []FieldID{FieldIsSettlement}, RequireCivil},
		{"mixed", []FieldID{FieldWeaponType, FieldCaseType, FieldDamagesClaimed}, RequireImpossible},
		{"unknown ignored", []FieldID{"judge_name", FieldCharges}, RequireCriminal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequiredDomainFor(tt.axes))
		})
	}
}

func TestFilterRecords_DomainRequirement(t *testing.T) {
	records := sampleRecords()

	assert.Equal(t,
		[]string{"c1.json", "c2.json", "c3.json"},
		recordIDs(FilterRecords(records, []FieldID{FieldOffenseSeverity})))

	assert.Equal(t,
		[]string{"v1.json", "v2.json"},
		recordIDs(FilterRecords(records, []FieldID{FieldCauseOfAction})))

	assert.Equal(t,
		[]string{"c1.json", "c2.json", "c3.json", "v1.json", "v2.json", "u1.json"},
		recordIDs(FilterRecords(records, []FieldID{FieldCaseType})))
}

func TestFilterRecords_RequiresValidValues(t *testing.T) {
	records := sampleRecords()

	// c3 has no weapon type
	assert.Equal(t,
		[]string{"c1.json", "c2.json"},
		recordIDs(FilterRecords(records, []FieldID{FieldWeaponType})))

	// c3 has no evidence types
	assert.Equal(t,
		[]string{"c1.json", "c2.json"},
		recordIDs(FilterRecords(records, []FieldID{FieldEvidenceTypes})))

	// v2 has no causation score
	assert.Equal(t,
		[]string{"v1.json"},
		recordIDs(FilterRecords(records, []FieldID{FieldProximateCausationScore})))
}

func TestFilterRecords_WhitespaceIsInvalid(t *testing.T) {
	records := []*models.CaseRecord{
		criminalRecord("a.json", models.CriminalAttributes{WeaponType: "   "}),
		criminalRecord("b.json", models.CriminalAttributes{WeaponType: "Gun"}),
	}

	assert.Equal(t, []string{"b.json"}, recordIDs(FilterRecords(records, []FieldID{FieldWeaponType})))
}

func TestFilterRecords_CaseTypeComparisonIgnoresCase(t *testing.T) {
	records := []*models.CaseRecord{
		{ID: "a.json", CaseType: "Criminal", Criminal: &models.CriminalAttributes{Charges: []string{"Theft"}}},
	}

	assert.Len(t, FilterRecords(records, []FieldID{FieldCharges}), 1)
}

func TestFilterRecords_MixedDomainsAlwaysEmpty(t *testing.T) {
	// a record carrying both bags still cannot satisfy both exclusive domains
	both := &models.CaseRecord{
		ID:       "both.json",
		CaseType: models.CaseTypeCriminal,
		Criminal: &models.CriminalAttributes{Charges: []string{"Fraud"}},
		Civil:    &models.CivilAttributes{CauseOfAction: "Fraud"},
	}
	records := append(sampleRecords(), both)

	got := FilterRecords(records, []FieldID{FieldCharges, FieldCauseOfAction})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFilterRecords_UnknownAxisFiltersEverything(t *testing.T) {
	assert.Empty(t, FilterRecords(sampleRecords(), []FieldID{"judge_name"}))
}

func TestFilterRecords_DoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	before := recordIDs(records)

	FilterRecords(records, []FieldID{FieldCharges})

	assert.Equal(t, before, recordIDs(records))
}
