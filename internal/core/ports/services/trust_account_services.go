package services

import (
	"context"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	"github.com/praxislegal/trust_accounting_app/internal/dto"
)

// TrustAccountSvcFacade bundles trust account and client ledger operations.
type TrustAccountSvcFacade interface {
	CreateTrustAccount(ctx context.Context, req dto.CreateTrustAccountRequest, creatorUserID string) (*domain.TrustAccount, error)
	GetTrustAccount(ctx context.Context, organizationID, trustAccountID, userID string) (*domain.TrustAccount, error)
	ListTrustAccounts(ctx context.Context, organizationID, userID string, activeOnly bool) ([]domain.TrustAccount, error)
	UpdateTrustAccount(ctx context.Context, trustAccountID string, req dto.UpdateTrustAccountRequest, userID string) (*domain.TrustAccount, error)
	DeactivateTrustAccount(ctx context.Context, organizationID, trustAccountID, userID string) (*domain.TrustAccount, error)

	CreateClientLedger(ctx context.Context, trustAccountID string, req dto.CreateClientLedgerRequest, creatorUserID string) (*domain.ClientTrustLedger, error)
	ListClientLedgers(ctx context.Context, organizationID, trustAccountID, userID string) ([]domain.ClientTrustLedger, error)
}
