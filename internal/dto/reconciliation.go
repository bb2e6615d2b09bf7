package dto

import (
	"time"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StartReconciliationRequest is the payload for opening a reconciliation period.
type StartReconciliationRequest struct {
	OrganizationID string          `json:"organizationId" binding:"required"`
	PeriodStart    time.Time       `json:"periodStart" binding:"required"`
	PeriodEnd      time.Time       `json:"periodEnd" binding:"required"`
	BankBalance    decimal.Decimal `json:"bankBalance" binding:"required"`
}

// CompleteReconciliationRequest is the payload for completing a reconciliation.
type CompleteReconciliationRequest struct {
	OrganizationID string `json:"organizationId" binding:"required"`
	Notes          string `json:"notes"`
}

// ReconciliationScopeRequest scopes a reconciliation mutation to an organization.
type ReconciliationScopeRequest struct {
	OrganizationID string `json:"organizationId" binding:"required"`
}

// ListReconciliationsParams holds query parameters for listing reconciliations.
type ListReconciliationsParams struct {
	TrustAccountID string
	Status         domain.ReconciliationStatus
	Limit          int
	Offset         int
}

// ReconciliationResponse is the API shape of a trust reconciliation.
type ReconciliationResponse struct {
	ReconciliationID    string                      `json:"reconciliationID"`
	TrustAccountID      string                      `json:"trustAccountID"`
	ReconciliationDate  time.Time                   `json:"reconciliationDate"`
	PeriodStart         time.Time                   `json:"periodStart"`
	PeriodEnd           time.Time                   `json:"periodEnd"`
	BankBalance         decimal.Decimal             `json:"bankBalance"`
	LedgerBalance       decimal.Decimal             `json:"ledgerBalance"`
	ClientLedgersTotal  decimal.Decimal             `json:"clientLedgersTotal"`
	OutstandingDeposits decimal.Decimal             `json:"outstandingDeposits"`
	OutstandingChecks   decimal.Decimal             `json:"outstandingChecks"`
	AdjustedBankBalance decimal.Decimal             `json:"adjustedBankBalance"`
	Variance            decimal.Decimal             `json:"variance"`
	IsBalanced          bool                        `json:"isBalanced"`
	Status              domain.ReconciliationStatus `json:"status"`
	Notes               string                      `json:"notes,omitempty"`
	ReconciledBy        string                      `json:"reconciledBy"`
	ApprovedBy          *string                     `json:"approvedBy"`
	ApprovedAt          *time.Time                  `json:"approvedAt"`
}

// ToReconciliationResponse converts a domain reconciliation to its response shape.
func ToReconciliationResponse(r *domain.TrustReconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		ReconciliationID:    r.ReconciliationID,
		TrustAccountID:      r.TrustAccountID,
		ReconciliationDate:  r.ReconciliationDate,
		PeriodStart:         r.PeriodStart,
		PeriodEnd:           r.PeriodEnd,
		BankBalance:         r.BankBalance,
		LedgerBalance:       r.LedgerBalance,
		ClientLedgersTotal:  r.ClientLedgersTotal,
		OutstandingDeposits: r.OutstandingDeposits,
		OutstandingChecks:   r.OutstandingChecks,
		AdjustedBankBalance: r.AdjustedBankBalance,
		Variance:            r.Variance,
		IsBalanced:          r.IsBalanced,
		Status:              r.Status,
		Notes:               r.Notes,
		ReconciledBy:        r.ReconciledBy,
		ApprovedBy:          r.ApprovedBy,
		ApprovedAt:          r.ApprovedAt,
	}
}

// ToReconciliationResponses converts a slice of domain reconciliations.
func ToReconciliationResponses(recons []domain.TrustReconciliation) []ReconciliationResponse {
	out := make([]ReconciliationResponse, len(recons))
	for i := range recons {
		out[i] = ToReconciliationResponse(&recons[i])
	}
	return out
}
