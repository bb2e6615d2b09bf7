package repositories

import (
	"context"
	"time"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
)

// ListReconciliationsFilters narrows reconciliation listing queries.
type ListReconciliationsFilters struct {
	TrustAccountID string
	Status         domain.ReconciliationStatus
	Limit          int
	Offset         int
}

// ReconciliationRepository defines persistence operations for trust reconciliations.
type ReconciliationRepository interface {
	SaveReconciliation(ctx context.Context, recon domain.TrustReconciliation) error
	FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.TrustReconciliation, error)
	ListReconciliationsByOrganization(ctx context.Context, organizationID string, filters ListReconciliationsFilters) ([]domain.TrustReconciliation, error)
	// UpdateReconciliationStatus moves the reconciliation from one status to
	// another. The from status is enforced in the same statement; a conflict
	// is returned when the row is no longer in that status.
	UpdateReconciliationStatus(ctx context.Context, reconciliationID string, from, to domain.ReconciliationStatus, updatedBy string, now time.Time) error

	// CompleteReconciliation transitions the reconciliation to completed,
	// records notes, marks the period's approved transactions reconciled and
	// stamps the account's last reconciled date and balance, all atomically.
	CompleteReconciliation(ctx context.Context, recon domain.TrustReconciliation, notes string, now time.Time) (*domain.TrustReconciliation, error)

	// ApproveReconciliation stamps the approver and transitions to approved.
	ApproveReconciliation(ctx context.Context, reconciliationID, approverID string, now time.Time) (*domain.TrustReconciliation, error)
}
