package handler

import (
	"time"

	"regcheck/internal/registercheck/models"
)

// PendingCheckResponse is one check offered to the matching service.
type PendingCheckResponse struct {
	RequestID        string                `json:"requestId"`
	JurisdictionCode string                `json:"jurisdictionCode"`
	CreatedBy        string                `json:"createdBy"`
	CreatedAt        time.Time             `json:"createdAt"`
	PersonalDetail   models.PersonalDetail `json:"personalDetail"`
}

// PendingChecksResponse is the body of GET /registerchecks.
type PendingChecksResponse struct {
	PendingRegisterChecks []PendingCheckResponse `json:"pendingRegisterChecks"`
	PageSize              int                    `json:"pageSize"`
}

func toPendingResponse(checks []*models.RegisterCheck, pageSize int) PendingChecksResponse {
	out := PendingChecksResponse{
		PendingRegisterChecks: make([]PendingCheckResponse, 0, len(checks)),
		PageSize:              pageSize,
	}
	for _, c := range checks {
		out.PendingRegisterChecks = append(out.PendingRegisterChecks, PendingCheckResponse{
			RequestID:        c.CorrelationID.String(),
			JurisdictionCode: c.JurisdictionCode.String(),
			CreatedBy:        c.CreatedBy,
			CreatedAt:        c.CreatedAt,
			PersonalDetail:   c.PersonalDetail,
		})
	}
	return out
}
