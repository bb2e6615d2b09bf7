package services

import (
	"context"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	"github.com/praxislegal/trust_accounting_app/internal/dto"
)

// TransactionSvcFacade bundles trust transaction operations. Approve and void
// are the only paths that mutate ledger balances.
type TransactionSvcFacade interface {
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string, audit domain.AuditContext) (*domain.TrustTransaction, error)
	GetTransaction(ctx context.Context, organizationID, transactionID, userID string) (*domain.TrustTransaction, error)
	ListTransactions(ctx context.Context, organizationID, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	ApproveTransaction(ctx context.Context, organizationID, transactionID, approverID string, audit domain.AuditContext) (*domain.TrustTransaction, error)
	VoidTransaction(ctx context.Context, organizationID, transactionID, voiderID, reason string, audit domain.AuditContext) (*domain.TrustTransaction, error)
	GetTransactionAuditTrail(ctx context.Context, organizationID, transactionID, userID string) ([]domain.TrustAuditLog, error)
}
