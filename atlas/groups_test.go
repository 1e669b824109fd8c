package atlas

import (
	"testing"

	"caseatlas-backend/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shape reduces a tree to nested keys and leaf record ids for comparison
func shape(tree *GroupTree) any {
	if tree.IsLeaf() {
		return recordIDs(tree.Records)
	}
	out := map[string]any{}
	for _, g := range tree.Groups {
		out[g.Key] = shape(g.Tree)
	}
	return out
}

func TestComputeGroups_EndToEnd(t *testing.T) {
	records := []*models.CaseRecord{
		criminalRecord("R1", models.CriminalAttributes{Charges: []string{"Theft"}}),
		criminalRecord("R2", models.CriminalAttributes{Charges: []string{"Theft", "Assault"}}),
		civilRecord("R3", models.CivilAttributes{CauseOfAction: "Negligence"}),
	}

	tree := ComputeGroups(records, []FieldID{FieldCaseType, FieldCharges})

	want := map[string]any{
		"CRIMINAL": map[string]any{
			"Theft":   []string{"R1", "R2"},
			"Assault": []string{"R2"},
		},
	}
	if diff := cmp.Diff(want, shape(tree)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"Assault", "Theft"}, tree.Child("CRIMINAL").Keys())
	assert.Equal(t, 3, CountCases(tree))
}

func TestComputeGroups_DepthMatchesChain(t *testing.T) {
	records := sampleRecords()
	chains := [][]FieldID{
		{},
		{FieldCaseType},
		{FieldCaseType, FieldOffenseSeverity},
		{FieldOffenseSeverity, FieldCharges, FieldVictimCount},
		{FieldCaseType, FieldCauseOfAction, FieldDamagesClaimed, FieldIsSettlement},
	}

	for _, axes := range chains {
		tree := ComputeGroups(records, axes)
		assert.Equal(t, len(axes), tree.Depth(), "axes %v", axes)
		assertUniformDepth(t, tree, len(axes))
	}
}

func assertUniformDepth(t *testing.T, tree *GroupTree, depth int) {
	t.Helper()
	if depth == 0 {
		assert.True(t, tree.IsLeaf())
		return
	}
	require.False(t, tree.IsLeaf())
	for _, g := range tree.Groups {
		assertUniformDepth(t, g.Tree, depth-1)
	}
}

func TestComputeGroups_NoFanOutCountsEachRecordOnce(t *testing.T) {
	records := sampleRecords()
	axes := []FieldID{FieldCaseType, FieldOffenseSeverity, FieldVictimCount}

	tree := ComputeGroups(records, axes)

	assert.Equal(t, len(FilterRecords(records, axes)), CountCases(tree))
	assert.Equal(t, 3, CountCases(tree))
}

func TestComputeGroups_FanOut(t *testing.T) {
	records := sampleRecords()

	tree := ComputeGroups(records, []FieldID{FieldCharges})

	assert.Equal(t, []string{"Assault", "Burglary", "Theft"}, tree.Keys())
	assert.Equal(t, []string{"c2.json"}, recordIDs(tree.Child("Assault").Records))
	// c2 lists Theft twice but appears once under it
	assert.Equal(t, []string{"c1.json", "c2.json"}, recordIDs(tree.Child("Theft").Records))
	// 3 distinct records, 4 leaf entries
	assert.Equal(t, 4, CountCases(tree))
}

func TestComputeGroups_Bucketization(t *testing.T) {
	records := sampleRecords()

	victims := ComputeGroups(records, []FieldID{FieldVictimCount})
	assert.Equal(t, []string{"0 victims", "1 victim", "2-5 victims"}, victims.Keys())

	damages := ComputeGroups(records, []FieldID{FieldDamagesClaimed})
	assert.Equal(t, []string{"$10K - $100K", "Over $1M"}, damages.Keys())

	settled := ComputeGroups(records, []FieldID{FieldIsSettlement})
	assert.Equal(t, []string{"No", "Yes"}, settled.Keys())
}

func TestComputeGroups_OrderingNotApplicableLast(t *testing.T) {
	records := []*models.CaseRecord{
		criminalRecord("a.json", models.CriminalAttributes{WeaponType: "N/A"}),
		criminalRecord("b.json", models.CriminalAttributes{WeaponType: "Zip gun"}),
		criminalRecord("c.json", models.CriminalAttributes{WeaponType: "Knife"}),
		criminalRecord("d.json", models.CriminalAttributes{WeaponType: "firearm"}),
		criminalRecord("e.json", models.CriminalAttributes{WeaponType: "Axe"}),
	}

	tree := ComputeGroups(records, []FieldID{FieldWeaponType})

	// locale-aware: "firearm" sorts between "Axe" and "Knife" regardless of case
	assert.Equal(t, []string{"Axe", "firearm", "Knife", "Zip gun", "N/A"}, tree.Keys())
}

func TestComputeGroups_Idempotent(t *testing.T) {
	records := sampleRecords()
	axes := []FieldID{FieldCaseType, FieldCharges, FieldEvidenceTypes}

	first := ComputeGroups(records, axes)
	second := ComputeGroups(records, axes)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("recomputation differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, first.Keys(), second.Keys())
}

func TestComputeGroups_MixedDomainsAlwaysEmpty(t *testing.T) {
	inputs := [][]*models.CaseRecord{
		nil,
		sampleRecords(),
		{criminalRecord("x.json", models.CriminalAttributes{WeaponType: "Gun"})},
	}

	for _, records := range inputs {
		tree := ComputeGroups(records, []FieldID{FieldWeaponType, FieldCauseOfAction})
		assert.False(t, tree.IsLeaf())
		assert.Empty(t, tree.Groups)
		assert.Equal(t, 0, CountCases(tree))
	}
}

func TestComputeGroups_EmptyInput(t *testing.T) {
	tree := ComputeGroups(nil, []FieldID{FieldCaseType})

	assert.Empty(t, tree.Groups)
	assert.Equal(t, 0, CountCases(tree))
	assert.Equal(t, 0, CountCases(nil))
}

func TestComputeGroups_DoesNotMutateRecords(t *testing.T) {
	records := sampleRecords()
	snapshot := sampleRecords()

	ComputeGroups(records, []FieldID{FieldCaseType, FieldCharges})

	if diff := cmp.Diff(snapshot, records); diff != "" {
		t.Errorf("records mutated (-before +after):\n%s", diff)
	}
}

func TestComputeGroups_LeafPreservesInputOrder(t *testing.T) {
	records := []*models.CaseRecord{
		criminalRecord("z.json", models.CriminalAttributes{OffenseSeverity: "Felony"}),
		criminalRecord("a.json", models.CriminalAttributes{OffenseSeverity: "Felony"}),
		criminalRecord("m.json", models.CriminalAttributes{OffenseSeverity: "Felony"}),
	}

	tree := ComputeGroups(records, []FieldID{FieldOffenseSeverity})

	assert.Equal(t, []string{"z.json", "a.json", "m.json"}, recordIDs(tree.Child("Felony").Records))
}
