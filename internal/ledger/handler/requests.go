package handler

import (
	"math/big"
	"strings"

	dErrors "credshare/pkg/domain-errors"
	"credshare/pkg/validation"
)

type TransferRequest struct {
	To     string `json:"to" validate:"required,notblank"`
	Amount string `json:"amount" validate:"required,notblank"`
}

func (r *TransferRequest) Normalize() {
	r.To = strings.TrimSpace(r.To)
	r.Amount = strings.TrimSpace(r.Amount)
}

func (r *TransferRequest) Validate() error {
	return validation.Validate(r)
}

type ApproveRequest struct {
	Spender string `json:"spender" validate:"required,notblank"`
	Amount  string `json:"amount" validate:"required,notblank"`
}

func (r *ApproveRequest) Normalize() {
	r.Spender = strings.TrimSpace(r.Spender)
	r.Amount = strings.TrimSpace(r.Amount)
}

func (r *ApproveRequest) Validate() error {
	return validation.Validate(r)
}

type TransferFromRequest struct {
	From   string `json:"from" validate:"required,notblank"`
	To     string `json:"to" validate:"required,notblank"`
	Amount string `json:"amount" validate:"required,notblank"`
}

func (r *TransferFromRequest) Normalize() {
	r.From = strings.TrimSpace(r.From)
	r.To = strings.TrimSpace(r.To)
	r.Amount = strings.TrimSpace(r.Amount)
}

func (r *TransferFromRequest) Validate() error {
	return validation.Validate(r)
}

type MintRequest struct {
	To     string `json:"to" validate:"required,notblank"`
	Amount string `json:"amount" validate:"required,notblank"`
}

func (r *MintRequest) Normalize() {
	r.To = strings.TrimSpace(r.To)
	r.Amount = strings.TrimSpace(r.Amount)
}

func (r *MintRequest) Validate() error {
	return validation.Validate(r)
}

type AddMinterRequest struct {
	Address string `json:"address" validate:"required,notblank"`
}

func (r *AddMinterRequest) Normalize() {
	r.Address = strings.TrimSpace(r.Address)
}

func (r *AddMinterRequest) Validate() error {
	return validation.Validate(r)
}

// parseAmount parses a non-negative decimal token amount.
func parseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok || amount.Sign() < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "amount must be a non-negative decimal")
	}
	return amount, nil
}
