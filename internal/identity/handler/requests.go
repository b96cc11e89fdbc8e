package handler

import (
	"strings"

	"credshare/pkg/validation"
)

// HTTP request DTOs. Classification fields travel as ordinals so the wire
// values stay stable if display names ever change.

type UpdateDataPointerRequest struct {
	DataPointer string `json:"data_pointer" validate:"required,notblank"`
}

func (r *UpdateDataPointerRequest) Normalize() {
	r.DataPointer = strings.TrimSpace(r.DataPointer)
}

func (r *UpdateDataPointerRequest) Validate() error {
	return validation.Validate(r)
}

type UpdateProfileRequest struct {
	Owner      string `json:"owner" validate:"required,notblank"`
	CreditTier uint8  `json:"credit_tier"`
	IncomeBand uint8  `json:"income_band"`
}

func (r *UpdateProfileRequest) Normalize() {
	r.Owner = strings.TrimSpace(r.Owner)
}

func (r *UpdateProfileRequest) Validate() error {
	return validation.Validate(r)
}

type VerifyOwnershipRequest struct {
	Owner     string `json:"owner" validate:"required,notblank"`
	Message   string `json:"message" validate:"required"`
	Signature string `json:"signature" validate:"required,notblank"`
}

func (r *VerifyOwnershipRequest) Normalize() {
	r.Owner = strings.TrimSpace(r.Owner)
	r.Signature = strings.TrimSpace(r.Signature)
}

func (r *VerifyOwnershipRequest) Validate() error {
	return validation.Validate(r)
}
