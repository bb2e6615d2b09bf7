package repositories

import (
	"context"
	"time"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
)

// ListTransactionsFilters narrows transaction listing queries.
type ListTransactionsFilters struct {
	TrustAccountID  string
	ClientLedgerID  string
	TransactionType domain.TrustTransactionType
	StartDate       *time.Time
	EndDate         *time.Time
	IsReconciled    *bool
	IncludeVoided   bool
	Limit           int
	NextToken       *string
}

// TransactionRepository defines persistence operations for trust transactions.
// Balance-affecting methods run inside a single database transaction with
// row-level locks on the ledger and account rows; two concurrent approvals of
// transactions on the same ledger serialize on those locks.
type TransactionRepository interface {
	SaveTransaction(ctx context.Context, txn domain.TrustTransaction, audit domain.TrustAuditLog) error
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.TrustTransaction, error)
	ListTransactionsByOrganization(ctx context.Context, organizationID string, filters ListTransactionsFilters) ([]domain.TrustTransaction, *string, error)

	// ApproveTransactionWithBalance transitions a pending transaction to
	// approved and applies its signed amount to the owning ledger and trust
	// account balances atomically. Returns apperrors.ErrConflict when the
	// transaction is not pending and apperrors.ErrInsufficientFunds when a
	// debit would drive the ledger balance below zero; in both cases no
	// state is written.
	ApproveTransactionWithBalance(ctx context.Context, transactionID, approverID string, now time.Time, audit domain.AuditContext) (*domain.TrustTransaction, error)

	// VoidTransactionWithBalance marks a transaction voided with the given
	// reason. Voiding an approved transaction reverses its balance effect
	// atomically; voiding a pending one touches no balances. Returns
	// apperrors.ErrConflict when already voided or reconciled.
	VoidTransactionWithBalance(ctx context.Context, transactionID, voiderID, reason string, now time.Time, audit domain.AuditContext) (*domain.TrustTransaction, error)

	// ListForReconciliation returns approved, non-voided transactions of the
	// account dated within [periodStart, periodEnd].
	ListForReconciliation(ctx context.Context, trustAccountID string, periodStart, periodEnd time.Time) ([]domain.TrustTransaction, error)

	// ListMatchCandidates returns approved, unreconciled, non-voided
	// transactions of the account dated within the window, excluding those
	// already matched to a statement line.
	ListMatchCandidates(ctx context.Context, trustAccountID string, windowStart, windowEnd time.Time) ([]domain.TrustTransaction, error)
}
