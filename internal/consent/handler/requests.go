package handler

import (
	"strings"
	"time"

	"credshare/pkg/validation"
)

type CreateConsentRequest struct {
	Requester string    `json:"requester" validate:"required,notblank"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

func (r *CreateConsentRequest) Normalize() {
	r.Requester = strings.TrimSpace(r.Requester)
}

func (r *CreateConsentRequest) Validate() error {
	return validation.Validate(r)
}

type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,notblank"`
}

func (r *ChangeStatusRequest) Normalize() {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
}

func (r *ChangeStatusRequest) Validate() error {
	return validation.Validate(r)
}
