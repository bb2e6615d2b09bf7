package dto

import (
	"time"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTrustAccountRequest is the payload for opening a trust account.
type CreateTrustAccountRequest struct {
	OrganizationID string                  `json:"organizationId" binding:"required"`
	AccountName    string                  `json:"accountName" binding:"required"`
	BankName       string                  `json:"bankName" binding:"required"`
	AccountNumber  string                  `json:"accountNumber" binding:"required"`
	AccountType    domain.TrustAccountType `json:"accountType" binding:"omitempty,oneof=IOLTA client_trust escrow"`
	Currency       string                  `json:"currency" binding:"omitempty,len=3"`
	Jurisdiction   string                  `json:"jurisdiction" binding:"required"`
}

// UpdateTrustAccountRequest is the payload for updating trust account details.
// Only the provided fields change; balances and activity are never updatable here.
type UpdateTrustAccountRequest struct {
	OrganizationID string  `json:"organizationId" binding:"required"`
	AccountName    *string `json:"accountName"`
	BankName       *string `json:"bankName"`
	Jurisdiction   *string `json:"jurisdiction"`
}

// TrustAccountResponse is the API shape of a trust account.
type TrustAccountResponse struct {
	TrustAccountID        string                  `json:"trustAccountID"`
	OrganizationID        string                  `json:"organizationID"`
	AccountName           string                  `json:"accountName"`
	BankName              string                  `json:"bankName"`
	AccountNumber         string                  `json:"accountNumber"`
	AccountType           domain.TrustAccountType `json:"accountType"`
	Currency              string                  `json:"currency"`
	Jurisdiction          string                  `json:"jurisdiction"`
	CurrentBalance        decimal.Decimal         `json:"currentBalance"`
	LastReconciledDate    *time.Time              `json:"lastReconciledDate"`
	LastReconciledBalance *decimal.Decimal        `json:"lastReconciledBalance"`
	IsActive              bool                    `json:"isActive"`
}

// ToTrustAccountResponse converts a domain trust account to its response shape.
func ToTrustAccountResponse(a *domain.TrustAccount) TrustAccountResponse {
	return TrustAccountResponse{
		TrustAccountID:        a.TrustAccountID,
		OrganizationID:        a.OrganizationID,
		AccountName:           a.AccountName,
		BankName:              a.BankName,
		AccountNumber:         a.AccountNumber,
		AccountType:           a.AccountType,
		Currency:              a.Currency,
		Jurisdiction:          a.Jurisdiction,
		CurrentBalance:        a.CurrentBalance,
		LastReconciledDate:    a.LastReconciledDate,
		LastReconciledBalance: a.LastReconciledBalance,
		IsActive:              a.IsActive,
	}
}

// ToTrustAccountResponses converts a slice of domain trust accounts.
func ToTrustAccountResponses(accounts []domain.TrustAccount) []TrustAccountResponse {
	out := make([]TrustAccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToTrustAccountResponse(&accounts[i])
	}
	return out
}

// CreateClientLedgerRequest is the payload for opening a client trust ledger.
type CreateClientLedgerRequest struct {
	OrganizationID string  `json:"organizationId" binding:"required"`
	ClientID       string  `json:"clientId" binding:"required"`
	MatterID       *string `json:"matterId"`
	LedgerName     string  `json:"ledgerName" binding:"required"`
}

// ClientLedgerResponse is the API shape of a client trust ledger.
type ClientLedgerResponse struct {
	LedgerID       string              `json:"ledgerID"`
	TrustAccountID string              `json:"trustAccountID"`
	ClientID       string              `json:"clientID"`
	MatterID       *string             `json:"matterID"`
	LedgerName     string              `json:"ledgerName"`
	Balance        decimal.Decimal     `json:"balance"`
	Currency       string              `json:"currency"`
	Status         domain.LedgerStatus `json:"status"`
	LastActivityAt *time.Time          `json:"lastActivityAt"`
}

// ToClientLedgerResponse converts a domain ledger to its response shape.
func ToClientLedgerResponse(l *domain.ClientTrustLedger) ClientLedgerResponse {
	return ClientLedgerResponse{
		LedgerID:       l.LedgerID,
		TrustAccountID: l.TrustAccountID,
		ClientID:       l.ClientID,
		MatterID:       l.MatterID,
		LedgerName:     l.LedgerName,
		Balance:        l.Balance,
		Currency:       l.Currency,
		Status:         l.Status,
		LastActivityAt: l.LastActivityAt,
	}
}

// ToClientLedgerResponses converts a slice of domain ledgers.
func ToClientLedgerResponses(ledgers []domain.ClientTrustLedger) []ClientLedgerResponse {
	out := make([]ClientLedgerResponse, len(ledgers))
	for i := range ledgers {
		out[i] = ToClientLedgerResponse(&ledgers[i])
	}
	return out
}
