package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus models the human-in-the-loop reconciliation workflow.
// Approved is terminal; nothing transitions out of it.
type ReconciliationStatus string

const (
	ReconDraft      ReconciliationStatus = "draft"
	ReconInProgress ReconciliationStatus = "in_progress"
	ReconCompleted  ReconciliationStatus = "completed"
	ReconApproved   ReconciliationStatus = "approved"
)

// BalanceTolerance is the largest absolute variance still considered balanced.
// Matches the cent-rounding tolerance used when comparing bank and ledger figures.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// TrustReconciliation records a three-way reconciliation of one trust account
// for a period: bank statement balance vs internal ledger balance vs the sum
// of client ledgers.
type TrustReconciliation struct {
	ReconciliationID    string               `json:"reconciliationID"` // Primary Key (UUID)
	TrustAccountID      string               `json:"trustAccountID"`
	ReconciliationDate  time.Time            `json:"reconciliationDate"`
	PeriodStart         time.Time            `json:"periodStart"`
	PeriodEnd           time.Time            `json:"periodEnd"`
	BankBalance         decimal.Decimal      `json:"bankBalance"`
	LedgerBalance       decimal.Decimal      `json:"ledgerBalance"`
	ClientLedgersTotal  decimal.Decimal      `json:"clientLedgersTotal"`
	OutstandingDeposits decimal.Decimal      `json:"outstandingDeposits"`
	OutstandingChecks   decimal.Decimal      `json:"outstandingChecks"`
	AdjustedBankBalance decimal.Decimal      `json:"adjustedBankBalance"`
	Variance            decimal.Decimal      `json:"variance"` // adjusted bank balance minus ledger balance
	IsBalanced          bool                 `json:"isBalanced"`
	Status              ReconciliationStatus `json:"status"`
	Notes               string               `json:"notes,omitempty"`
	ReconciledBy        string               `json:"reconciledBy"`
	ApprovedBy          *string              `json:"approvedBy"`
	ApprovedAt          *time.Time           `json:"approvedAt"`
	AuditFields
}

// CanComplete reports whether completion is a legal transition from the
// current status. Draft is accepted alongside in_progress: the workflow
// allows completing directly from a freshly opened reconciliation.
func (r *TrustReconciliation) CanComplete() bool {
	return r.Status == ReconDraft || r.Status == ReconInProgress
}

// IsTerminal reports whether the reconciliation can no longer be mutated.
func (r *TrustReconciliation) IsTerminal() bool {
	return r.Status == ReconApproved
}
