package handler

import (
	"time"

	"credshare/internal/consent/models"
)

type ConsentResponse struct {
	ConsentID string    `json:"consent_id"`
	Owner     string    `json:"owner"`
	Requester string    `json:"requester"`
	Status    string    `json:"status"`
	// DerivedStatus carries the read-time lifecycle label (it reports
	// Expired for a Granted record past its end date) on detail reads.
	DerivedStatus string    `json:"derived_status,omitempty"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CheckResponse struct {
	Owner     string `json:"owner"`
	Requester string `json:"requester"`
	Granted   bool   `json:"granted"`
}

func toConsentResponse(record *models.Record) *ConsentResponse {
	return &ConsentResponse{
		ConsentID: record.ID.String(),
		Owner:     record.Owner.Hex(),
		Requester: record.Requester.Hex(),
		Status:    record.Status.String(),
		StartDate: record.StartDate,
		EndDate:   record.EndDate,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
