package handler

import (
	"time"

	"credshare/internal/identity/models"
)

type IdentityResponse struct {
	Owner          string    `json:"owner"`
	CreditTier     uint8     `json:"credit_tier"`
	CreditTierName string    `json:"credit_tier_name"`
	IncomeBand     uint8     `json:"income_band"`
	IncomeBandName string    `json:"income_band_name"`
	DataPointer    string    `json:"data_pointer"`
	RegisteredAt   time.Time `json:"registered_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toIdentityResponse(record *models.Identity) *IdentityResponse {
	return &IdentityResponse{
		Owner:          record.Owner.Hex(),
		CreditTier:     uint8(record.CreditTier),
		CreditTierName: record.CreditTier.String(),
		IncomeBand:     uint8(record.IncomeBand),
		IncomeBandName: record.IncomeBand.String(),
		DataPointer:    record.DataPointer.String(),
		RegisteredAt:   record.RegisteredAt,
		UpdatedAt:      record.UpdatedAt,
	}
}

type ClassificationResponse struct {
	Owner string `json:"owner"`
	Field string `json:"field"`
	Value uint8  `json:"value"`
	Name  string `json:"name"`
}

type VerifyOwnershipResponse struct {
	Valid bool `json:"valid"`
}
