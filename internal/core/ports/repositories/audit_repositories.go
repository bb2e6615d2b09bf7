package repositories

import (
	"context"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
)

// AuditRepository defines append/read operations for the trust audit log.
type AuditRepository interface {
	SaveAuditLog(ctx context.Context, entry domain.TrustAuditLog) error
	ListAuditLogsByTransaction(ctx context.Context, transactionID string) ([]domain.TrustAuditLog, error)
}
