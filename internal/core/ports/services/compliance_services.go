package services

import (
	"context"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
)

// ComplianceSvcFacade evaluates the jurisdictional rule set against current
// trust balances. Stateless and idempotent; safe to call repeatedly.
type ComplianceSvcFacade interface {
	RunComplianceCheck(ctx context.Context, organizationID, userID string) ([]domain.ComplianceAlert, error)
}
