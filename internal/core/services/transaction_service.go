package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/praxislegal/trust_accounting_app/internal/apperrors"
	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	portsrepo "github.com/praxislegal/trust_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/praxislegal/trust_accounting_app/internal/core/ports/services"
	"github.com/praxislegal/trust_accounting_app/internal/dto"
	"github.com/praxislegal/trust_accounting_app/internal/middleware"
)

// TransactionService handles the trust transaction ledger. Transactions are
// created pending; only approval and void touch balances, and both delegate
// the balance mutation to the repository so it runs under row locks.
type TransactionService struct {
	txnRepo     portsrepo.TransactionRepository
	accountRepo portsrepo.TrustAccountRepository
	auditRepo   portsrepo.AuditRepository
	authorizer  portssvc.OrganizationAuthorizerSvc
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(tr portsrepo.TransactionRepository, ar portsrepo.TrustAccountRepository, audr portsrepo.AuditRepository, authorizer portssvc.OrganizationAuthorizerSvc) portssvc.TransactionSvcFacade {
	return &TransactionService{txnRepo: tr, accountRepo: ar, auditRepo: audr, authorizer: authorizer}
}

var _ portssvc.TransactionSvcFacade = (*TransactionService)(nil)

// CreateTransaction records a pending trust transaction against a client
// ledger. Balances are untouched until approval.
func (s *TransactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string, audit domain.AuditContext) (*domain.TrustTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, creatorUserID, req.OrganizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindTrustAccountByID(ctx, req.TrustAccountID)
	if err != nil {
		return nil, err
	}
	if account.OrganizationID != req.OrganizationID {
		return nil, apperrors.ErrNotFound
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: trust account is inactive", apperrors.ErrValidation)
	}

	ledger, err := s.accountRepo.FindClientLedgerByID(ctx, req.ClientLedgerID)
	if err != nil {
		return nil, err
	}
	if ledger.TrustAccountID != req.TrustAccountID {
		return nil, fmt.Errorf("%w: ledger does not belong to the trust account", apperrors.ErrValidation)
	}
	if ledger.Status == domain.LedgerClosed {
		return nil, fmt.Errorf("%w: client ledger is closed", apperrors.ErrValidation)
	}

	now := time.Now()
	txn := domain.TrustTransaction{
		TransactionID:   uuid.NewString(),
		TrustAccountID:  req.TrustAccountID,
		ClientLedgerID:  req.ClientLedgerID,
		TransactionType: req.TransactionType,
		Amount:          req.Amount,
		Currency:        account.Currency,
		Description:     req.Description,
		CheckNumber:     req.CheckNumber,
		ReferenceNumber: req.ReferenceNumber,
		Payee:           req.Payee,
		TransactionDate: req.TransactionDate,
		Status:          domain.TxnPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	txnID := txn.TransactionID
	auditEntry := domain.TrustAuditLog{
		AuditID:       uuid.NewString(),
		TransactionID: &txnID,
		EventType:     domain.EventTxnCreated,
		EventData: map[string]any{
			"transactionType": string(txn.TransactionType),
			"amount":          txn.Amount.String(),
			"clientLedgerID":  txn.ClientLedgerID,
		},
		UserID:    creatorUserID,
		IPAddress: audit.IPAddress,
		UserAgent: audit.UserAgent,
		CreatedAt: now,
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn, auditEntry); err != nil {
		logger.Error("Failed to save trust transaction", slog.String("error", err.Error()), slog.String("client_ledger_id", req.ClientLedgerID))
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	logger.Info("Trust transaction created", slog.String("transaction_id", txn.TransactionID), slog.String("transaction_type", string(txn.TransactionType)), slog.String("amount", txn.Amount.String()))
	return &txn, nil
}

// GetTransaction retrieves one transaction after the organization gate.
func (s *TransactionService) GetTransaction(ctx context.Context, organizationID, transactionID, userID string) (*domain.TrustTransaction, error) {
	if err := s.authorizer.AuthorizeUserAction(ctx, userID, organizationID); err != nil {
		return nil, err
	}
	return s.findTransactionInOrg(ctx, organizationID, transactionID)
}

// ListTransactions lists the organization's transactions with cursor pagination.
func (s *TransactionService) ListTransactions(ctx context.Context, organizationID, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, userID, organizationID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	txns, nextToken, err := s.txnRepo.ListTransactionsByOrganization(ctx, organizationID, portsrepo.ListTransactionsFilters{
		TrustAccountID:  params.TrustAccountID,
		ClientLedgerID:  params.ClientLedgerID,
		TransactionType: params.TransactionType,
		StartDate:       params.StartDate,
		EndDate:         params.EndDate,
		IsReconciled:    params.IsReconciled,
		IncludeVoided:   params.IncludeVoided,
		Limit:           limit,
		NextToken:       params.NextToken,
	})
	if err != nil {
		logger.Error("Failed to list trust transactions", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// ApproveTransaction approves a pending transaction and applies its amount to
// the ledger and account balances. The repository performs the state check and
// balance mutation atomically under row locks, so concurrent approvals of the
// same ledger serialize and a failed approval leaves every balance untouched.
func (s *TransactionService) ApproveTransaction(ctx context.Context, organizationID, transactionID, approverID string, audit domain.AuditContext) (*domain.TrustTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, approverID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := s.findTransactionInOrg(ctx, organizationID, transactionID); err != nil {
		return nil, err
	}

	approved, err := s.txnRepo.ApproveTransactionWithBalance(ctx, transactionID, approverID, time.Now(), audit)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrInsufficientFunds) {
			logger.Warn("Transaction approval rejected", slog.String("transaction_id", transactionID), slog.String("reason", err.Error()))
			return nil, err
		}
		logger.Error("Failed to approve trust transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to approve transaction %s: %w", transactionID, err)
	}

	logger.Info("Trust transaction approved", slog.String("transaction_id", transactionID), slog.String("approver_id", approverID))
	return approved, nil
}

// VoidTransaction voids a transaction with a mandatory reason. Voiding an
// approved transaction reverses its balance effect; voiding a pending one
// touches no balances. Reconciled transactions cannot be voided.
func (s *TransactionService) VoidTransaction(ctx context.Context, organizationID, transactionID, voiderID, reason string, audit domain.AuditContext) (*domain.TrustTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if reason == "" {
		return nil, fmt.Errorf("%w: void reason is required", apperrors.ErrValidation)
	}
	if err := s.authorizer.AuthorizeUserAction(ctx, voiderID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := s.findTransactionInOrg(ctx, organizationID, transactionID); err != nil {
		return nil, err
	}

	voided, err := s.txnRepo.VoidTransactionWithBalance(ctx, transactionID, voiderID, reason, time.Now(), audit)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Transaction void rejected", slog.String("transaction_id", transactionID), slog.String("reason", err.Error()))
			return nil, err
		}
		logger.Error("Failed to void trust transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to void transaction %s: %w", transactionID, err)
	}

	logger.Info("Trust transaction voided", slog.String("transaction_id", transactionID), slog.String("voider_id", voiderID))
	return voided, nil
}

// GetTransactionAuditTrail returns a transaction's audit entries oldest
// first: creation, approval, void, with whoever performed each step.
func (s *TransactionService) GetTransactionAuditTrail(ctx context.Context, organizationID, transactionID, userID string) ([]domain.TrustAuditLog, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, userID, organizationID); err != nil {
		return nil, err
	}
	if _, err := s.findTransactionInOrg(ctx, organizationID, transactionID); err != nil {
		return nil, err
	}

	entries, err := s.auditRepo.ListAuditLogsByTransaction(ctx, transactionID)
	if err != nil {
		logger.Error("Failed to list transaction audit entries", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to load audit trail for transaction %s: %w", transactionID, err)
	}
	if entries == nil {
		return []domain.TrustAuditLog{}, nil
	}
	return entries, nil
}

// findTransactionInOrg loads a transaction and verifies its trust account
// belongs to the organization, reporting cross-organization transactions as
// not found.
func (s *TransactionService) findTransactionInOrg(ctx context.Context, organizationID, transactionID string) (*domain.TrustTransaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find trust transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	account, err := s.accountRepo.FindTrustAccountByID(ctx, txn.TrustAccountID)
	if err != nil {
		return nil, err
	}
	if account.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return txn, nil
}
