package repositories

import (
	"context"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
)

// ReportingRepository defines the read-only aggregation queries behind reports.
// Implementations must order rows chronologically with a stable tie-break on
// creation order then transaction ID, so that repeated calls over unchanged
// data produce identical output.
type ReportingRepository interface {
	GetClientLedgerData(ctx context.Context, organizationID string, filters domain.ReportFilters) ([]domain.LedgerReportSection, error)
	GetTransactionRegisterData(ctx context.Context, organizationID string, filters domain.ReportFilters) ([]domain.RegisterRow, error)
}
