package services

import (
	"context"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	"github.com/praxislegal/trust_accounting_app/internal/dto"
)

// ReconciliationSvcFacade drives the draft → in_progress → completed →
// approved reconciliation workflow. Approved is terminal.
type ReconciliationSvcFacade interface {
	StartReconciliation(ctx context.Context, trustAccountID string, req dto.StartReconciliationRequest, userID string) (*domain.TrustReconciliation, error)
	GetReconciliation(ctx context.Context, organizationID, reconciliationID, userID string) (*domain.TrustReconciliation, error)
	ListReconciliations(ctx context.Context, organizationID, userID string, params dto.ListReconciliationsParams) ([]domain.TrustReconciliation, error)
	BeginReconciliationReview(ctx context.Context, organizationID, reconciliationID, userID string) (*domain.TrustReconciliation, error)
	CompleteReconciliation(ctx context.Context, organizationID, reconciliationID, notes, userID string) (*domain.TrustReconciliation, error)
	ApproveReconciliation(ctx context.Context, organizationID, reconciliationID, approverID string) (*domain.TrustReconciliation, error)
}
