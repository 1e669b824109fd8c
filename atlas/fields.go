// Package atlas implements the Case Atlas grouping engine: a fixed catalog of
// groupable fields, an editable chain of grouping axes, the record filter and
// the recursive partitioning of classified case records into a group tree.
//
// Everything in this package is synchronous and free of I/O. ComputeGroups is a
// pure function of its inputs and is recomputed from scratch on every call.
package atlas

import (
	"errors"
	"fmt"
)

// FieldID identifies a groupable field
type FieldID string

const (
	FieldCaseType FieldID = "case_type"

	FieldOffenseSeverity     FieldID = "offense_severity"
	FieldCharges             FieldID = "charges"
	FieldWeaponType          FieldID = "weapon_type"
	FieldVictimCount         FieldID = "victim_count"
	FieldEvidenceTypes       FieldID = "evidence_types"
	FieldAggravatingFactors  FieldID = "aggravating_factors"
	FieldPriorRecordSeverity FieldID = "prior_record_severity"

	FieldCauseOfAction           FieldID = "cause_of_action"
	FieldDutyOfCareSource        FieldID = "duty_of_care_source"
	FieldBreachDescription       FieldID = "breach_description"
	FieldProximateCausationScore FieldID = "proximate_causation_score"
	FieldDamagesClaimed          FieldID = "damages_claimed"
	FieldIsSettlement            FieldID = "is_settlement"
)

// Domain is the case domain a field belongs to
type Domain string

const (
	DomainGeneral  Domain = "general"
	DomainCriminal Domain = "criminal"
	DomainCivil    Domain = "civil"
)

// Restricted reports whether fields of this domain only exist on one case type
func (d Domain) Restricted() bool {
	return d == DomainCriminal || d == DomainCivil
}

// Opposite returns the other restricted domain, or "" for the general domain
func (d Domain) Opposite() Domain {
	switch d {
	case DomainCriminal:
		return DomainCivil
	case DomainCivil:
		return DomainCriminal
	default:
		return ""
	}
}

// ValueKind describes the shape of a field's values
type ValueKind string

const (
	KindCategorical ValueKind = "categorical"
	KindMultiValued ValueKind = "multi_valued"
	KindBoolean     ValueKind = "boolean"
	KindContinuous  ValueKind = "continuous"
)

// FieldSpec describes one groupable field
type FieldSpec struct {
	ID     FieldID   `json:"id"`
	Label  string    `json:"label"`
	Domain Domain    `json:"domain"`
	Kind   ValueKind `json:"kind"`
}

// ErrUnknownField is returned when a field id is not in the catalog
var ErrUnknownField = errors.New("unknown field")

var catalog = []FieldSpec{
	{ID: FieldCaseType, Label: "Case Type", Domain: DomainGeneral, Kind: KindCategorical},

	{ID: FieldOffenseSeverity, Label: "Offense Severity", Domain: DomainCriminal, Kind: KindCategorical},
	{ID: FieldCharges, Label: "Charges", Domain: DomainCriminal, Kind: KindMultiValued},
	{ID: FieldWeaponType, Label: "Weapon Type", Domain: DomainCriminal, Kind: KindCategorical},
	{ID: FieldVictimCount, Label: "Victim Count", Domain: DomainCriminal, Kind: KindContinuous},
	{ID: FieldEvidenceTypes, Label: "Evidence Types", Domain: DomainCriminal, Kind: KindMultiValued},
	{ID: FieldAggravatingFactors, Label: "Aggravating Factors", Domain: DomainCriminal, Kind: KindMultiValued},
	{ID: FieldPriorRecordSeverity, Label: "Prior Record Severity", Domain: DomainCriminal, Kind: KindCategorical},

	{ID: FieldCauseOfAction, Label: "Cause of Action", Domain: DomainCivil, Kind: KindCategorical},
	{ID: FieldDutyOfCareSource, Label: "Duty of Care Source", Domain: DomainCivil, Kind: KindCategorical},
	{ID: FieldBreachDescription, Label: "Breach Description", Domain: DomainCivil, Kind: KindCategorical},
	{ID: FieldProximateCausationScore, Label: "Proximate Causation Score", Domain: DomainCivil, Kind: KindContinuous},
	{ID: FieldDamagesClaimed, Label: "Damages Claimed", Domain: DomainCivil, Kind: KindContinuous},
	{ID: FieldIsSettlement, Label: "Settlement", Domain: DomainCivil, Kind: KindBoolean},
}

var catalogIndex = func() map[FieldID]FieldSpec {
	index := make(map[FieldID]FieldSpec, len(catalog))
	for _, spec := range catalog {
		index[spec.ID] = spec
	}
	return index
}()

// Fields returns the catalog in its fixed order
func Fields() []FieldSpec {
	fields := make([]FieldSpec, len(catalog))
	copy(fields, catalog)
	return fields
}

// LookupField returns the spec for a field id
func LookupField(id FieldID) (FieldSpec, error) {
	spec, ok := catalogIndex[id]
	if !ok {
		return FieldSpec{}, fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	return spec, nil
}

// FieldDomain returns the domain of a field
func FieldDomain(id FieldID) (Domain, error) {
	spec, err := LookupField(id)
	if err != nil {
		return "", err
	}
	return spec.Domain, nil
}

// ValueKindOf returns the value kind of a field
func ValueKindOf(id FieldID) (ValueKind, error) {
	spec, err := LookupField(id)
	if err != nil {
		return "", err
	}
	return spec.Kind, nil
}
