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

// TrustAccountService handles business logic for trust accounts and their
// client ledgers.
type TrustAccountService struct {
	accountRepo portsrepo.TrustAccountRepository
	authorizer  portssvc.OrganizationAuthorizerSvc
}

// NewTrustAccountService creates a new TrustAccountService.
func NewTrustAccountService(ar portsrepo.TrustAccountRepository, authorizer portssvc.OrganizationAuthorizerSvc) portssvc.TrustAccountSvcFacade {
	return &TrustAccountService{accountRepo: ar, authorizer: authorizer}
}

var _ portssvc.TrustAccountSvcFacade = (*TrustAccountService)(nil)

// CreateTrustAccount opens a new trust account under the organization.
func (s *TrustAccountService) CreateTrustAccount(ctx context.Context, req dto.CreateTrustAccountRequest, creatorUserID string) (*domain.TrustAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, creatorUserID, req.OrganizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	accountType := req.AccountType
	if accountType == "" {
		accountType = domain.AccountIOLTA
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	now := time.Now()
	account := domain.TrustAccount{
		TrustAccountID: uuid.NewString(),
		OrganizationID: req.OrganizationID,
		AccountName:    req.AccountName,
		BankName:       req.BankName,
		AccountNumber:  req.AccountNumber,
		AccountType:    accountType,
		Currency:       currency,
		Jurisdiction:   req.Jurisdiction,
		CurrentBalance: decimal.Zero,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveTrustAccount(ctx, account); err != nil {
		logger.Error("Failed to save trust account", slog.String("error", err.Error()), slog.String("organization_id", req.OrganizationID))
		return nil, fmt.Errorf("failed to create trust account: %w", err)
	}

	logger.Info("Trust account created", slog.String("trust_account_id", account.TrustAccountID), slog.String("organization_id", req.OrganizationID))
	return &account, nil
}

// GetTrustAccount retrieves a trust account after the organization gate.
// Accounts belonging to other organizations surface as not found.
func (s *TrustAccountService) GetTrustAccount(ctx context.Context, organizationID, trustAccountID, userID string) (*domain.TrustAccount, error) {
	if err := s.authorizer.AuthorizeUserAction(ctx, userID, organizationID); err != nil {
		return nil, err
	}
	return s.findAccountInOrg(ctx, organizationID, trustAccountID)
}

// ListTrustAccounts lists the organization's trust accounts.
func (s *TrustAccountService) ListTrustAccounts(ctx context.Context, organizationID, userID string, activeOnly bool) ([]domain.TrustAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, userID, organizationID); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.ListTrustAccountsByOrganization(ctx, organizationID, activeOnly)
	if err != nil {
		logger.Error("Failed to list trust accounts", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list trust accounts: %w", err)
	}
	if accounts == nil {
		return []domain.TrustAccount{}, nil
	}
	return accounts, nil
}

// UpdateTrustAccount applies partial detail updates to a trust account.
// Balance fields are never updatable here; only transactions move balances.
func (s *TrustAccountService) UpdateTrustAccount(ctx context.Context, trustAccountID string, req dto.UpdateTrustAccountRequest, userID string) (*domain.TrustAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, userID, req.OrganizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	account, err := s.findAccountInOrg(ctx, req.OrganizationID, trustAccountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.AccountName != nil {
		account.AccountName = *req.AccountName
		updated = true
	}
	if req.BankName != nil {
		account.BankName = *req.BankName
		updated = true
	}
	if req.Jurisdiction != nil {
		account.Jurisdiction = *req.Jurisdiction
		updated = true
	}
	if !updated {
		logger.Debug("No fields provided for trust account update", slog.String("trust_account_id", trustAccountID))
		return account, nil
	}

	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateTrustAccountDetails(ctx, *account); err != nil {
		logger.Error("Failed to update trust account", slog.String("error", err.Error()), slog.String("trust_account_id", trustAccountID))
		return nil, fmt.Errorf("failed to update trust account: %w", err)
	}

	logger.Info("Trust account updated", slog.String("trust_account_id", trustAccountID), slog.String("user_id", userID))
	return account, nil
}

// DeactivateTrustAccount deactivates a trust account. Accounts holding client
// funds cannot be deactivated; the balance must be zero first.
func (s *TrustAccountService) DeactivateTrustAccount(ctx context.Context, organizationID, trustAccountID, userID string) (*domain.TrustAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, userID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	account, err := s.findAccountInOrg(ctx, organizationID, trustAccountID)
	if err != nil {
		return nil, err
	}

	if !account.CurrentBalance.IsZero() {
		return nil, fmt.Errorf("%w: trust account holds a non-zero balance", apperrors.ErrValidation)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: trust account already inactive", apperrors.ErrConflict)
	}

	if err := s.accountRepo.SetTrustAccountActive(ctx, trustAccountID, false, userID); err != nil {
		logger.Error("Failed to deactivate trust account", slog.String("error", err.Error()), slog.String("trust_account_id", trustAccountID))
		return nil, fmt.Errorf("failed to deactivate trust account: %w", err)
	}

	account.IsActive = false
	account.LastUpdatedBy = userID
	account.LastUpdatedAt = time.Now()
	logger.Info("Trust account deactivated", slog.String("trust_account_id", trustAccountID), slog.String("user_id", userID))
	return account, nil
}

// CreateClientLedger opens a client ledger under a trust account. The ledger
// inherits the account's currency.
func (s *TrustAccountService) CreateClientLedger(ctx context.Context, trustAccountID string, req dto.CreateClientLedgerRequest, creatorUserID string) (*domain.ClientTrustLedger, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, creatorUserID, req.OrganizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	account, err := s.findAccountInOrg(ctx, req.OrganizationID, trustAccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: trust account is inactive", apperrors.ErrValidation)
	}

	now := time.Now()
	ledger := domain.ClientTrustLedger{
		LedgerID:       uuid.NewString(),
		TrustAccountID: trustAccountID,
		ClientID:       req.ClientID,
		MatterID:       req.MatterID,
		LedgerName:     req.LedgerName,
		Balance:        decimal.Zero,
		Currency:       account.Currency,
		Status:         domain.LedgerActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveClientLedger(ctx, ledger); err != nil {
		logger.Error("Failed to save client ledger", slog.String("error", err.Error()), slog.String("trust_account_id", trustAccountID))
		return nil, fmt.Errorf("failed to create client ledger: %w", err)
	}

	logger.Info("Client ledger created", slog.String("ledger_id", ledger.LedgerID), slog.String("trust_account_id", trustAccountID))
	return &ledger, nil
}

// ListClientLedgers lists the ledgers under one trust account.
func (s *TrustAccountService) ListClientLedgers(ctx context.Context, organizationID, trustAccountID, userID string) ([]domain.ClientTrustLedger, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.authorizer.AuthorizeUserAction(ctx, userID, organizationID); err != nil {
		return nil, err
	}
	if _, err := s.findAccountInOrg(ctx, organizationID, trustAccountID); err != nil {
		return nil, err
	}

	ledgers, err := s.accountRepo.ListClientLedgersByAccount(ctx, trustAccountID)
	if err != nil {
		logger.Error("Failed to list client ledgers", slog.String("error", err.Error()), slog.String("trust_account_id", trustAccountID))
		return nil, fmt.Errorf("failed to list client ledgers: %w", err)
	}
	if ledgers == nil {
		return []domain.ClientTrustLedger{}, nil
	}
	return ledgers, nil
}

// findAccountInOrg loads the account and verifies organization ownership,
// reporting cross-organization accounts as not found.
func (s *TrustAccountService) findAccountInOrg(ctx context.Context, organizationID, trustAccountID string) (*domain.TrustAccount, error) {
	account, err := s.accountRepo.FindTrustAccountByID(ctx, trustAccountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find trust account", slog.String("error", err.Error()), slog.String("trust_account_id", trustAccountID))
		}
		return nil, err
	}
	if account.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}
