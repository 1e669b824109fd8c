package atlas

import (
	"fmt"
	"strconv"
	"strings"

	"caseatlas-backend/models"
)

// NotApplicable is the group key for a missing value. It always sorts last.
const NotApplicable = "N/A"

// unknownCaseType is the value of case_type for records without a classification
const unknownCaseType = "Unknown"

// FieldValue resolves the raw value of a field on a record.
// The result is a string, []string, float64, bool or nil when absent.
func FieldValue(record *models.CaseRecord, id FieldID) any {
	if record == nil {
		return nil
	}
	if id == FieldCaseType {
		if strings.TrimSpace(string(record.CaseType)) == "" {
			return unknownCaseType
		}
		return string(record.CaseType)
	}
	if v, ok := criminalValue(record.Criminal, id); ok {
		return v
	}
	if v, ok := civilValue(record.Civil, id); ok {
		return v
	}
	return nil
}

func criminalValue(c *models.CriminalAttributes, id FieldID) (any, bool) {
	if c == nil {
		return nil, false
	}
	switch id {
	case FieldOffenseSeverity:
		return c.OffenseSeverity, true
	case FieldCharges:
		return c.Charges, true
	case FieldWeaponType:
		return c.WeaponType, true
	case FieldVictimCount:
		return floatValue(c.VictimCount), true
	case FieldEvidenceTypes:
		return c.EvidenceTypes, true
	case FieldAggravatingFactors:
		return c.AggravatingFactors, true
	case FieldPriorRecordSeverity:
		return c.PriorRecordSeverity, true
	}
	return nil, false
}

func civilValue(c *models.CivilAttributes, id FieldID) (any, bool) {
	if c == nil {
		return nil, false
	}
	switch id {
	case FieldCauseOfAction:
		return c.CauseOfAction, true
	case FieldDutyOfCareSource:
		return c.DutyOfCareSource, true
	case FieldBreachDescription:
		return c.BreachDescription, true
	case FieldProximateCausationScore:
		return floatValue(c.ProximateCausationScore), true
	case FieldDamagesClaimed:
		return floatValue(c.DamagesClaimed), true
	case FieldIsSettlement:
		if c.IsSettlement == nil {
			return nil, true
		}
		return *c.IsSettlement, true
	}
	return nil, false
}

// floatValue unwraps an optional number, keeping nil untyped
func floatValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// isValidValue reports whether a raw value can be grouped:
// not nil, not a blank string and not an empty list.
func isValidValue(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(value) != ""
	case []string:
		return len(value) > 0
	default:
		return true
	}
}

// FormatValue turns a raw field value into its group key
func FormatValue(raw any, id FieldID) string {
	switch v := raw.(type) {
	case nil:
		return NotApplicable
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case float64:
		return formatNumber(v, id)
	case int:
		return formatNumber(float64(v), id)
	case string:
		if id == FieldCaseType {
			return strings.ToUpper(v)
		}
		return v
	case []string:
		return strings.Join(v, ",")
	default:
		return fmt.Sprint(v)
	}
}

func formatNumber(v float64, id FieldID) string {
	switch id {
	case FieldVictimCount:
		switch {
		case v <= 0:
			return "0 victims"
		case v <= 1:
			return "1 victim"
		case v <= 5:
			return "2-5 victims"
		default:
			return "6+ victims"
		}
	case FieldProximateCausationScore:
		switch {
		case v <= 0.25:
			return "Low (0-25%)"
		case v <= 0.5:
			return "Medium (26-50%)"
		case v <= 0.75:
			return "High (51-75%)"
		default:
			return "Very High (76-100%)"
		}
	case FieldDamagesClaimed:
		switch {
		case v < 10000:
			return "Under $10K"
		case v < 100000:
			return "$10K - $100K"
		case v < 1000000:
			return "$100K - $1M"
		default:
			return "Over $1M"
		}
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
