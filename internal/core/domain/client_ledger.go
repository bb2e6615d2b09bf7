package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerStatus tracks the lifecycle of a client trust ledger.
type LedgerStatus string

const (
	LedgerActive  LedgerStatus = "active"
	LedgerDormant LedgerStatus = "dormant"
	LedgerClosed  LedgerStatus = "closed"
)

// ClientTrustLedger tracks one client's (optionally one matter's) share of a
// trust account's funds. The sum of all ledger balances under a trust account
// must equal the account's current balance.
type ClientTrustLedger struct {
	LedgerID       string          `json:"ledgerID"` // Primary Key (UUID)
	TrustAccountID string          `json:"trustAccountID"`
	ClientID       string          `json:"clientID"`
	MatterID       *string         `json:"matterID"` // Nullable
	LedgerName     string          `json:"ledgerName"`
	Balance        decimal.Decimal `json:"balance"`
	Currency       string          `json:"currency"` // Inherited from the trust account
	Status         LedgerStatus    `json:"status"`
	LastActivityAt *time.Time      `json:"lastActivityAt"`
	AuditFields
}
