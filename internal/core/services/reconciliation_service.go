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
	"github.com/shopspring/decimal"
)

// ReconciliationService drives the three-way reconciliation workflow:
// bank statement balance vs the trust account's internal balance vs the sum
// of its client ledgers.
type ReconciliationService struct {
	reconRepo   portsrepo.ReconciliationRepository
	txnRepo     portsrepo.TransactionRepository
	accountRepo portsrepo.TrustAccountRepository
	auditRepo   portsrepo.AuditRepository
	authorizer  portssvc.OrganizationAuthorizerSvc
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(rr portsrepo.ReconciliationRepository, tr portsrepo.TransactionRepository, ar portsrepo.TrustAccountRepository, audr portsrepo.AuditRepository, authorizer portssvc.OrganizationAuthorizerSvc) portssvc.ReconciliationSvcFacade {
	return &ReconciliationService{
		reconRepo:   rr,
		txnRepo:     tr,
		accountRepo: ar,
		auditRepo:   audr,
		authorizer:  authorizer,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*ReconciliationService)(nil)

// StartReconciliation opens a draft reconciliation for the account and
// period, computing the three-way figures from current data: the internal
// ledger balance, the sum of client ledgers, and the bank balance adjusted
// for approved items that have not cleared yet.
func (s *ReconciliationService) StartReconciliation(ctx context.Context, trustAccountID string, req dto.StartReconciliationRequest, userID string) (*domain.TrustReconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, userID, req.OrganizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	account, err := s.findAccountInOrg(ctx, req.OrganizationID, trustAccountID)
	if err != nil {
		return nil, err
	}
	if !req.PeriodEnd.After(req.PeriodStart) {
		return nil, fmt.Errorf("%w: period end must be after period start", apperrors.ErrValidation)
	}

	ledgers, err := s.accountRepo.ListClientLedgersByAccount(ctx, trustAccountID)
	if err != nil {
		logger.Error("Failed to list client ledgers for reconciliation", slog.String("error", err.Error()), slog.String("trust_account_id", trustAccountID))
		return nil, fmt.Errorf("failed to load client ledgers: %w", err)
	}
	clientLedgersTotal := decimal.Zero
	for _, l := range ledgers {
		clientLedgersTotal = clientLedgersTotal.Add(l.Balance)
	}

	periodTxns, err := s.txnRepo.ListForReconciliation(ctx, trustAccountID, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		logger.Error("Failed to list period transactions for reconciliation", slog.String("error", err.Error()), slog.String("trust_account_id", trustAccountID))
		return nil, fmt.Errorf("failed to load period transactions: %w", err)
	}

	// Approved items the bank has not seen yet: deposits in transit raise the
	// adjusted bank balance, outstanding checks lower it.
	outstandingDeposits := decimal.Zero
	outstandingChecks := decimal.Zero
	for _, t := range periodTxns {
		if t.IsReconciled {
			continue
		}
		if t.TransactionType.IsDebit() {
			outstandingChecks = outstandingChecks.Add(t.Amount)
		} else {
			outstandingDeposits = outstandingDeposits.Add(t.Amount)
		}
	}

	ledgerBalance := account.CurrentBalance
	adjustedBank := req.BankBalance.Add(outstandingDeposits).Sub(outstandingChecks)
	variance := adjustedBank.Sub(ledgerBalance)
	isBalanced := variance.Abs().LessThanOrEqual(domain.BalanceTolerance) &&
		ledgerBalance.Sub(clientLedgersTotal).Abs().LessThanOrEqual(domain.BalanceTolerance)

	now := time.Now()
	recon := domain.TrustReconciliation{
		ReconciliationID:    uuid.NewString(),
		TrustAccountID:      trustAccountID,
		ReconciliationDate:  now,
		PeriodStart:         req.PeriodStart,
		PeriodEnd:           req.PeriodEnd,
		BankBalance:         req.BankBalance,
		LedgerBalance:       ledgerBalance,
		ClientLedgersTotal:  clientLedgersTotal,
		OutstandingDeposits: outstandingDeposits,
		OutstandingChecks:   outstandingChecks,
		AdjustedBankBalance: adjustedBank,
		Variance:            variance,
		IsBalanced:          isBalanced,
		Status:              domain.ReconDraft,
		ReconciledBy:        userID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.reconRepo.SaveReconciliation(ctx, recon); err != nil {
		logger.Error("Failed to save reconciliation", slog.String("error", err.Error()), slog.String("trust_account_id", trustAccountID))
		return nil, fmt.Errorf("failed to start reconciliation: %w", err)
	}

	s.appendAudit(ctx, domain.EventReconStarted, userID, map[string]any{
		"reconciliationID": recon.ReconciliationID,
		"trustAccountID":   trustAccountID,
		"variance":         variance.String(),
		"isBalanced":       isBalanced,
	})

	logger.Info("Reconciliation started", slog.String("reconciliation_id", recon.ReconciliationID), slog.String("trust_account_id", trustAccountID), slog.String("variance", variance.String()))
	return &recon, nil
}

// GetReconciliation retrieves one reconciliation after the organization gate.
func (s *ReconciliationService) GetReconciliation(ctx context.Context, organizationID, reconciliationID, userID string) (*domain.TrustReconciliation, error) {
	if err := s.authorizer.AuthorizeUserAction(ctx, userID, organizationID); err != nil {
		return nil, err
	}
	return s.findReconInOrg(ctx, organizationID, reconciliationID)
}

// ListReconciliations lists the organization's reconciliations.
func (s *ReconciliationService) ListReconciliations(ctx context.Context, organizationID, userID string, params dto.ListReconciliationsParams) ([]domain.TrustReconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, userID, organizationID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	recons, err := s.reconRepo.ListReconciliationsByOrganization(ctx, organizationID, portsrepo.ListReconciliationsFilters{
		TrustAccountID: params.TrustAccountID,
		Status:         params.Status,
		Limit:          limit,
		Offset:         params.Offset,
	})
	if err != nil {
		logger.Error("Failed to list reconciliations", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list reconciliations: %w", err)
	}
	if recons == nil {
		return []domain.TrustReconciliation{}, nil
	}
	return recons, nil
}

// BeginReconciliationReview moves a draft reconciliation into review.
func (s *ReconciliationService) BeginReconciliationReview(ctx context.Context, organizationID, reconciliationID, userID string) (*domain.TrustReconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, userID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	recon, err := s.findReconInOrg(ctx, organizationID, reconciliationID)
	if err != nil {
		return nil, err
	}
	if recon.Status != domain.ReconDraft {
		return nil, fmt.Errorf("%w: reconciliation is %s, expected draft", apperrors.ErrConflict, recon.Status)
	}

	now := time.Now()
	if err := s.reconRepo.UpdateReconciliationStatus(ctx, reconciliationID, domain.ReconDraft, domain.ReconInProgress, userID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Reconciliation left draft before review began", slog.String("reconciliation_id", reconciliationID))
			return nil, err
		}
		logger.Error("Failed to move reconciliation into review", slog.String("error", err.Error()), slog.String("reconciliation_id", reconciliationID))
		return nil, fmt.Errorf("failed to begin reconciliation review: %w", err)
	}

	recon.Status = domain.ReconInProgress
	recon.LastUpdatedAt = now
	recon.LastUpdatedBy = userID
	logger.Info("Reconciliation review started", slog.String("reconciliation_id", reconciliationID), slog.String("user_id", userID))
	return recon, nil
}

// CompleteReconciliation completes a reconciliation from draft or in_progress,
// recording notes, marking the period's approved transactions reconciled and
// stamping the account's last reconciled date and balance atomically.
func (s *ReconciliationService) CompleteReconciliation(ctx context.Context, organizationID, reconciliationID, notes, userID string) (*domain.TrustReconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, userID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	recon, err := s.findReconInOrg(ctx, organizationID, reconciliationID)
	if err != nil {
		return nil, err
	}
	if !recon.CanComplete() {
		return nil, fmt.Errorf("%w: reconciliation is %s and cannot be completed", apperrors.ErrConflict, recon.Status)
	}

	completed, err := s.reconRepo.CompleteReconciliation(ctx, *recon, notes, time.Now())
	if err != nil {
		logger.Error("Failed to complete reconciliation", slog.String("error", err.Error()), slog.String("reconciliation_id", reconciliationID))
		return nil, fmt.Errorf("failed to complete reconciliation: %w", err)
	}

	s.appendAudit(ctx, domain.EventReconCompleted, userID, map[string]any{
		"reconciliationID": reconciliationID,
		"variance":         completed.Variance.String(),
		"isBalanced":       completed.IsBalanced,
	})

	logger.Info("Reconciliation completed", slog.String("reconciliation_id", reconciliationID), slog.String("user_id", userID))
	return completed, nil
}

// ApproveReconciliation finalizes a completed reconciliation. A nonzero
// variance must be explained in the notes; approved reconciliations are
// immutable.
func (s *ReconciliationService) ApproveReconciliation(ctx context.Context, organizationID, reconciliationID, approverID string) (*domain.TrustReconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, approverID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	recon, err := s.findReconInOrg(ctx, organizationID, reconciliationID)
	if err != nil {
		return nil, err
	}
	if recon.Status != domain.ReconCompleted {
		return nil, fmt.Errorf("%w: reconciliation is %s, expected completed", apperrors.ErrConflict, recon.Status)
	}
	if !recon.IsBalanced && recon.Notes == "" {
		if recon.Variance.Abs().GreaterThan(domain.BalanceTolerance) {
			return nil, fmt.Errorf("%w: variance of %s has no explanation", apperrors.ErrUnreconciledVariance, recon.Variance.String())
		}
		return nil, fmt.Errorf("%w: account balance %s does not match client ledgers total %s and has no explanation", apperrors.ErrUnreconciledVariance, recon.LedgerBalance.String(), recon.ClientLedgersTotal.String())
	}

	approved, err := s.reconRepo.ApproveReconciliation(ctx, reconciliationID, approverID, time.Now())
	if err != nil {
		logger.Error("Failed to approve reconciliation", slog.String("error", err.Error()), slog.String("reconciliation_id", reconciliationID))
		return nil, fmt.Errorf("failed to approve reconciliation: %w", err)
	}

	s.appendAudit(ctx, domain.EventReconApproved, approverID, map[string]any{
		"reconciliationID": reconciliationID,
	})

	logger.Info("Reconciliation approved", slog.String("reconciliation_id", reconciliationID), slog.String("approver_id", approverID))
	return approved, nil
}

// appendAudit records a reconciliation workflow event. Audit failures are
// logged, not propagated; the workflow transition itself already committed.
func (s *ReconciliationService) appendAudit(ctx context.Context, event domain.AuditEventType, userID string, data map[string]any) {
	entry := domain.TrustAuditLog{
		AuditID:   uuid.NewString(),
		EventType: event,
		EventData: data,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := s.auditRepo.SaveAuditLog(ctx, entry); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to append reconciliation audit entry", slog.String("error", err.Error()), slog.String("event_type", string(event)))
	}
}

func (s *ReconciliationService) findAccountInOrg(ctx context.Context, organizationID, trustAccountID string) (*domain.TrustAccount, error) {
	account, err := s.accountRepo.FindTrustAccountByID(ctx, trustAccountID)
	if err != nil {
		return nil, err
	}
	if account.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

func (s *ReconciliationService) findReconInOrg(ctx context.Context, organizationID, reconciliationID string) (*domain.TrustReconciliation, error) {
	recon, err := s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find reconciliation", slog.String("error", err.Error()), slog.String("reconciliation_id", reconciliationID))
		}
		return nil, err
	}
	if _, err := s.findAccountInOrg(ctx, organizationID, recon.TrustAccountID); err != nil {
		return nil, err
	}
	return recon, nil
}
