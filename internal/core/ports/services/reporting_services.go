package services

import (
	"context"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
)

// ReportingSvcFacade bundles the read-only trust reports. Repeated calls over
// unchanged data must return identical output.
type ReportingSvcFacade interface {
	ClientLedgerReport(ctx context.Context, organizationID, userID string, filters domain.ReportFilters) (*domain.ClientLedgerReport, error)
	TransactionRegister(ctx context.Context, organizationID, userID string, filters domain.ReportFilters) (*domain.TransactionRegister, error)
}
