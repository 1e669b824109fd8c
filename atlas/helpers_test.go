package atlas

import "caseatlas-backend/models"

func ptr[T any](v T) *T {
	return &v
}

func criminalRecord(id string, attrs models.CriminalAttributes) *models.CaseRecord {
	return &models.CaseRecord{ID: id, CaseType: models.CaseTypeCriminal, Criminal: &attrs}
}

func civilRecord(id string, attrs models.CivilAttributes) *models.CaseRecord {
	return &models.CaseRecord{ID: id, CaseType: models.CaseTypeCivil, Civil: &attrs}
}

func recordIDs(records []*models.CaseRecord) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

// sampleRecords is a mixed collection used across tests
func sampleRecords() []*models.CaseRecord {
	return []*models.CaseRecord{
		criminalRecord("c1.json", models.CriminalAttributes{
			OffenseSeverity: "Felony",
			Charges:         []string{"Theft"},
			WeaponType:      "None",
			VictimCount:     ptr(1.0),
			EvidenceTypes:   []string{"Testimony", "Video"},
		}),
		criminalRecord("c2.json", models.CriminalAttributes{
			OffenseSeverity: "Misdemeanor",
			Charges:         []string{"Theft", "Assault", "Theft"},
			WeaponType:      "Knife",
			VictimCount:     ptr(3.0),
			EvidenceTypes:   []string{"Video"},
		}),
		criminalRecord("c3.json", models.CriminalAttributes{
			OffenseSeverity: "Felony",
			Charges:         []string{"Burglary"},
			VictimCount:     ptr(0.0),
		}),
		civilRecord("v1.json", models.CivilAttributes{
			CauseOfAction:           "Negligence",
			ProximateCausationScore: ptr(0.8),
			DamagesClaimed:          ptr(50000.0),
			IsSettlement:            ptr(true),
		}),
		civilRecord("v2.json", models.CivilAttributes{
			CauseOfAction:  "Breach of Contract",
			DamagesClaimed: ptr(2500000.0),
			IsSettlement:   ptr(false),
		}),
		{ID: "u1.json"},
	}
}
