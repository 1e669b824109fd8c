package atlas

import (
	"testing"

	"caseatlas-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestFieldValue(t *testing.T) {
	records := sampleRecords()
	c1, v1, u1 := records[0], records[3], records[5]

	assert.Equal(t, "criminal", FieldValue(c1, FieldCaseType))
	assert.Equal(t, "Unknown", FieldValue(u1, FieldCaseType))
	assert.Equal(t, []string{"Theft"}, FieldValue(c1, FieldCharges))
	assert.Equal(t, 1.0, FieldValue(c1, FieldVictimCount))
	assert.Equal(t, 50000.0, FieldValue(v1, FieldDamagesClaimed))
	assert.Equal(t, true, FieldValue(v1, FieldIsSettlement))

	// field of the other domain, absent bag and unknown field all resolve to nil
	assert.Nil(t, FieldValue(c1, FieldCauseOfAction))
	assert.Nil(t, FieldValue(u1, FieldCharges))
	assert.Nil(t, FieldValue(c1, "judge_name"))
	assert.Nil(t, FieldValue(nil, FieldCaseType))
}

func TestFieldValue_NilPointersStayUntyped(t *testing.T) {
	record := civilRecord("v.json", models.CivilAttributes{})

	assert.Nil(t, FieldValue(record, FieldDamagesClaimed))
	assert.Nil(t, FieldValue(record, FieldIsSettlement))
	assert.Nil(t, FieldValue(criminalRecord("c.json", models.CriminalAttributes{}), FieldVictimCount))
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		raw   any
		field FieldID
		want  string
	}{
		{"nil", nil, FieldWeaponType, "N/A"},
		{"true", true, FieldIsSettlement, "Yes"},
		{"false", false, FieldIsSettlement, "No"},
		{"case type upper", "criminal", FieldCaseType, "CRIMINAL"},
		{"unknown case type", "Unknown", FieldCaseType, "UNKNOWN"},
		{"plain string", "Knife", FieldWeaponType, "Knife"},
		{"plain number", 3.5, FieldOffenseSeverity, "3.5"},
		{"integral number", 42.0, FieldOffenseSeverity, "42"},
		{"list", []string{"a", "b"}, FieldCharges, "a,b"},
		{"other type", struct{ X int }{7}, FieldWeaponType, "{7}"},

		{"victims 0", 0.0, FieldVictimCount, "0 victims"},
		{"victims 1", 1.0, FieldVictimCount, "1 victim"},
		{"victims 2", 2.0, FieldVictimCount, "2-5 victims"},
		{"victims 5", 5.0, FieldVictimCount, "2-5 victims"},
		{"victims 6", 6.0, FieldVictimCount, "6+ victims"},
		{"victims int", 1, FieldVictimCount, "1 victim"},

		{"causation 0", 0.0, FieldProximateCausationScore, "Low (0-25%)"},
		{"causation 0.25", 0.25, FieldProximateCausationScore, "Low (0-25%)"},
		{"causation 0.5", 0.5, FieldProximateCausationScore, "Medium (26-50%)"},
		{"causation 0.75", 0.75, FieldProximateCausationScore, "High (51-75%)"},
		{"causation 0.8", 0.8, FieldProximateCausationScore, "Very High (76-100%)"},

		{"damages 9999", 9999.0, FieldDamagesClaimed, "Under $10K"},
		{"damages 10000", 10000.0, FieldDamagesClaimed, "$10K - $100K"},
		{"damages 50000", 50000.0, FieldDamagesClaimed, "$10K - $100K"},
		{"damages 100000", 100000.0, FieldDamagesClaimed, "$100K - $1M"},
		{"damages 1000000", 1000000.0, FieldDamagesClaimed, "Over $1M"},

		{"non numeric on bucket field", "lots", FieldDamagesClaimed, "lots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.raw, tt.field))
		})
	}
}
