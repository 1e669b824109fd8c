package atlas

import (
	"strings"
	"testing"

	"caseatlas-backend/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestBuildView_MirrorsTree(t *testing.T) {
	records := []*models.CaseRecord{
		criminalRecord("R1", models.CriminalAttributes{Charges: []string{"Theft"}}),
		criminalRecord("R2", models.CriminalAttributes{Charges: []string{"Theft", "Assault"}}),
	}
	axes := []FieldID{FieldCaseType, FieldCharges}

	view := BuildView(ComputeGroups(records, axes), axes)

	want := View{
		Axes:  axes,
		Total: 3,
		Groups: []ViewNode{
			{
				Key:   "CRIMINAL",
				Count: 3,
				Children: []ViewNode{
					{Key: "Assault", Count: 1, Cases: []string{"R2"}},
					{Key: "Theft", Count: 2, Cases: []string{"R1", "R2"}},
				},
			},
		},
	}
	if diff := cmp.Diff(want, view); diff != "" {
		t.Errorf("view mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildView_EmptyChainListsCases(t *testing.T) {
	records := sampleRecords()[:2]

	view := BuildView(ComputeGroups(records, nil), nil)

	assert.Equal(t, 2, view.Total)
	assert.Equal(t, []string{"c1.json", "c2.json"}, view.Cases)
	assert.Empty(t, view.Groups)
}

func TestBuildView_NilTree(t *testing.T) {
	view := BuildView(nil, []FieldID{FieldCaseType})

	assert.Equal(t, 0, view.Total)
	assert.NotNil(t, view.Groups)
}

func TestRenderText(t *testing.T) {
	records := sampleRecords()
	axes := []FieldID{FieldOffenseSeverity, FieldWeaponType}

	out := RenderText(BuildView(ComputeGroups(records, axes), axes))

	assert.Contains(t, out, "Grouped by: Offense Severity > Weapon Type")
	assert.Contains(t, out, "Total: 2")
	assert.Contains(t, out, "Felony (1)")
	assert.Contains(t, out, "Misdemeanor (1)")
	assert.Contains(t, out, "Knife (1)")
	assert.Contains(t, out, "c2.json")
	assert.Less(t, strings.Index(out, "Felony"), strings.Index(out, "Misdemeanor"))
}

func TestRenderText_Empty(t *testing.T) {
	out := RenderText(BuildView(ComputeGroups(nil, []FieldID{FieldCharges}), []FieldID{FieldCharges}))

	assert.Equal(t, "Grouped by: Charges\nTotal: 0\n", out)
}
