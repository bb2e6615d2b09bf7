package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrustAccountType distinguishes the regulatory flavor of a trust account.
type TrustAccountType string

const (
	AccountIOLTA       TrustAccountType = "IOLTA"
	AccountClientTrust TrustAccountType = "client_trust"
	AccountEscrow      TrustAccountType = "escrow"
)

// TrustAccount is a bank account holding client funds, owned by exactly one
// organization. CurrentBalance is maintained transactionally alongside the
// client ledgers; the two must always agree (no commingling).
type TrustAccount struct {
	TrustAccountID        string           `json:"trustAccountID"` // Primary Key (UUID)
	OrganizationID        string           `json:"organizationID"`
	AccountName           string           `json:"accountName"`
	BankName              string           `json:"bankName"`
	AccountNumber         string           `json:"accountNumber"`
	AccountType           TrustAccountType `json:"accountType"`
	Currency              string           `json:"currency"`
	Jurisdiction          string           `json:"jurisdiction"`
	CurrentBalance        decimal.Decimal  `json:"currentBalance"`
	LastReconciledDate    *time.Time       `json:"lastReconciledDate"`
	LastReconciledBalance *decimal.Decimal `json:"lastReconciledBalance"`
	IsActive              bool             `json:"isActive"` // Accounts are deactivated, never deleted
	AuditFields
}
