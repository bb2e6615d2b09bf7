package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/praxislegal/trust_accounting_app/internal/apperrors"
	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	portsrepo "github.com/praxislegal/trust_accounting_app/internal/core/ports/repositories"
)

// PgxAuditRepository appends to and reads the append-only trust audit log.
type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

func (r *PgxAuditRepository) SaveAuditLog(ctx context.Context, entry domain.TrustAuditLog) error {
	query := `
		INSERT INTO trust_audit_logs (audit_id, transaction_id, event_type, event_data, user_id, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		entry.AuditID,
		entry.TransactionID,
		entry.EventType,
		entry.EventData,
		entry.UserID,
		entry.IPAddress,
		entry.UserAgent,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit log entry", err)
	}
	return nil
}

func (r *PgxAuditRepository) ListAuditLogsByTransaction(ctx context.Context, transactionID string) ([]domain.TrustAuditLog, error) {
	query := `
		SELECT audit_id, transaction_id, event_type, event_data, user_id, ip_address, user_agent, created_at
		FROM trust_audit_logs
		WHERE transaction_id = $1
		ORDER BY created_at, audit_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit logs", err)
	}
	defer rows.Close()

	var entries []domain.TrustAuditLog
	for rows.Next() {
		var e domain.TrustAuditLog
		if err := rows.Scan(
			&e.AuditID,
			&e.TransactionID,
			&e.EventType,
			&e.EventData,
			&e.UserID,
			&e.IPAddress,
			&e.UserAgent,
			&e.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit log entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating audit log rows", err)
	}
	return entries, nil
}
