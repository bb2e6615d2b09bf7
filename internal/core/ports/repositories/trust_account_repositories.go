package repositories

import (
	"context"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
)

// TrustAccountRepository defines persistence operations for trust accounts
// and their client ledgers.
type TrustAccountRepository interface {
	SaveTrustAccount(ctx context.Context, account domain.TrustAccount) error
	FindTrustAccountByID(ctx context.Context, trustAccountID string) (*domain.TrustAccount, error)
	ListTrustAccountsByOrganization(ctx context.Context, organizationID string, activeOnly bool) ([]domain.TrustAccount, error)
	UpdateTrustAccountDetails(ctx context.Context, account domain.TrustAccount) error
	SetTrustAccountActive(ctx context.Context, trustAccountID string, active bool, updatedBy string) error

	SaveClientLedger(ctx context.Context, ledger domain.ClientTrustLedger) error
	FindClientLedgerByID(ctx context.Context, ledgerID string) (*domain.ClientTrustLedger, error)
	ListClientLedgersByAccount(ctx context.Context, trustAccountID string) ([]domain.ClientTrustLedger, error)
	ListClientLedgersByOrganization(ctx context.Context, organizationID string) ([]domain.ClientTrustLedger, error)
}
