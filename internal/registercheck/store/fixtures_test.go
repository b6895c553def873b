package store

import (
	"time"

	"regcheck/internal/registercheck/models"
	id "regcheck/pkg/domain"
)

func pendingCheck(code id.JurisdictionCode, ref string, createdAt time.Time) *models.RegisterCheck {
	dob := id.Date{Year: 1980, Month: time.March, Day: 4}
	return &models.RegisterCheck{
		ID:                  id.NewCheckID(),
		CorrelationID:       id.NewCorrelationID(),
		SourceReference:     ref,
		SourceCorrelationID: "src-" + ref,
		SourceType:          models.SourceTypeVoterCard,
		JurisdictionCode:    code,
		Status:              models.StatusPending,
		PersonalDetail: models.PersonalDetail{
			FirstName:   "Ada",
			Surname:     "Lovelace",
			DateOfBirth: &dob,
			Address:     models.Address{Street: "1 High St", Postcode: "L1 1AB"},
		},
		CreatedBy: models.SystemCreator,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}
