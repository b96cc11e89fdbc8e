package audit

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out. The dashboard
// collaborator filters these by owner.
type Event struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	Action       Action         `json:"action"`
	Owner        common.Address `json:"owner"`
	Counterparty common.Address `json:"counterparty,omitempty"`
	ConsentID    string         `json:"consent_id,omitempty"`
	Field        string         `json:"field,omitempty"`
	CreditTier   string         `json:"credit_tier,omitempty"`
	IncomeBand   string         `json:"income_band,omitempty"`
	Status       string         `json:"status,omitempty"`
	Reason       string         `json:"reason,omitempty"`
	Amount       string         `json:"amount,omitempty"`
}

// Action identifies what happened.
type Action string

const (
	ActionIdentityRegistered   Action = "identity_registered"
	ActionProfileUpdated       Action = "profile_updated"
	ActionConsentCreated       Action = "consent_created"
	ActionConsentStatusChanged Action = "consent_status_changed"
	ActionDataAccessGranted    Action = "data_access_granted"
	ActionDataAccessDenied     Action = "data_access_denied"
	ActionRewardDistributed    Action = "reward_distributed"
	ActionTransfer             Action = "transfer"
	ActionApproval             Action = "approval"
	ActionMinterAdded          Action = "minter_added"
	ActionMinterRemoved        Action = "minter_removed"
)

// Denial reasons on data_access_denied events.
const (
	ReasonUserNotRegistered = "user_not_registered"
	ReasonNoValidConsent    = "no_valid_consent"
)
