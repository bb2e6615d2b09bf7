package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/praxislegal/trust_accounting_app/internal/apperrors"
	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	portsrepo "github.com/praxislegal/trust_accounting_app/internal/core/ports/repositories"
)

type PgxReconciliationRepository struct {
	BaseRepository
}

func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepository {
	return &PgxReconciliationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReconciliationRepository = (*PgxReconciliationRepository)(nil)

const reconciliationColumns = `
	reconciliation_id, trust_account_id, reconciliation_date, period_start, period_end,
	bank_balance, ledger_balance, client_ledgers_total, outstanding_deposits,
	outstanding_checks, adjusted_bank_balance, variance, is_balanced, status, notes,
	reconciled_by, approved_by, approved_at,
	created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxReconciliationRepository) SaveReconciliation(ctx context.Context, recon domain.TrustReconciliation) error {
	query := `
		INSERT INTO trust_reconciliations (` + reconciliationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	_, err := r.Pool.Exec(ctx, query,
		recon.ReconciliationID,
		recon.TrustAccountID,
		recon.ReconciliationDate,
		recon.PeriodStart,
		recon.PeriodEnd,
		recon.BankBalance,
		recon.LedgerBalance,
		recon.ClientLedgersTotal,
		recon.OutstandingDeposits,
		recon.OutstandingChecks,
		recon.AdjustedBankBalance,
		recon.Variance,
		recon.IsBalanced,
		recon.Status,
		recon.Notes,
		recon.ReconciledBy,
		recon.ApprovedBy,
		recon.ApprovedAt,
		recon.CreatedAt,
		recon.CreatedBy,
		recon.LastUpdatedAt,
		recon.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert reconciliation "+recon.ReconciliationID, err)
	}
	return nil
}

func (r *PgxReconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.TrustReconciliation, error) {
	query := `SELECT ` + reconciliationColumns + ` FROM trust_reconciliations WHERE reconciliation_id = $1;`
	return scanReconciliation(r.Pool.QueryRow(ctx, query, reconciliationID))
}

func (r *PgxReconciliationRepository) ListReconciliationsByOrganization(ctx context.Context, organizationID string, filters portsrepo.ListReconciliationsFilters) ([]domain.TrustReconciliation, error) {
	query := `
		SELECT rec.reconciliation_id, rec.trust_account_id, rec.reconciliation_date, rec.period_start, rec.period_end,
		       rec.bank_balance, rec.ledger_balance, rec.client_ledgers_total, rec.outstanding_deposits,
		       rec.outstanding_checks, rec.adjusted_bank_balance, rec.variance, rec.is_balanced, rec.status, rec.notes,
		       rec.reconciled_by, rec.approved_by, rec.approved_at,
		       rec.created_at, rec.created_by, rec.last_updated_at, rec.last_updated_by
		FROM trust_reconciliations rec
		JOIN trust_accounts a ON a.trust_account_id = rec.trust_account_id
		WHERE a.organization_id = $1`
	args := []any{organizationID}

	if filters.TrustAccountID != "" {
		args = append(args, filters.TrustAccountID)
		query += fmt.Sprintf(" AND rec.trust_account_id = $%d", len(args))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		query += fmt.Sprintf(" AND rec.status = $%d", len(args))
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY rec.reconciliation_date DESC, rec.reconciliation_id DESC LIMIT $%d", len(args))
	if filters.Offset > 0 {
		args = append(args, filters.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	query += ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query reconciliations", err)
	}
	defer rows.Close()

	var recons []domain.TrustReconciliation
	for rows.Next() {
		recon, err := scanReconciliation(rows)
		if err != nil {
			return nil, err
		}
		recons = append(recons, *recon)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating reconciliation rows", err)
	}
	return recons, nil
}

// UpdateReconciliationStatus transitions a reconciliation between statuses.
// The current status is part of the predicate so a row another caller has
// already moved on is never dragged back; zero rows updated is a conflict.
func (r *PgxReconciliationRepository) UpdateReconciliationStatus(ctx context.Context, reconciliationID string, from, to domain.ReconciliationStatus, updatedBy string, now time.Time) error {
	query := `
		UPDATE trust_reconciliations
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE reconciliation_id = $1 AND status = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, reconciliationID, to, now, updatedBy, from)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update reconciliation status", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: reconciliation is no longer %s", apperrors.ErrConflict, from)
	}
	return nil
}

// CompleteReconciliation transitions the reconciliation to completed, marks
// the period's approved transactions reconciled and stamps the account's last
// reconciled date and balance, all inside one database transaction.
func (r *PgxReconciliationRepository) CompleteReconciliation(ctx context.Context, recon domain.TrustReconciliation, notes string, now time.Time) (*domain.TrustReconciliation, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	reconQuery := `
		UPDATE trust_reconciliations
		SET status = $2, notes = $3, last_updated_at = $4, last_updated_by = $5
		WHERE reconciliation_id = $1 AND status IN ($6, $7);
	`
	tag, err := tx.Exec(ctx, reconQuery,
		recon.ReconciliationID,
		domain.ReconCompleted,
		notes,
		now,
		recon.ReconciledBy,
		domain.ReconDraft,
		domain.ReconInProgress,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to complete reconciliation "+recon.ReconciliationID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: reconciliation is no longer completable", apperrors.ErrConflict)
	}

	markQuery := `
		UPDATE trust_transactions
		SET is_reconciled = TRUE, reconciled_at = $4, last_updated_at = $4, last_updated_by = $5
		WHERE trust_account_id = $1 AND status = $2
		  AND transaction_date >= $3 AND transaction_date <= $6
		  AND is_reconciled = FALSE;
	`
	if _, err := tx.Exec(ctx, markQuery, recon.TrustAccountID, domain.TxnApproved, recon.PeriodStart, now, recon.ReconciledBy, recon.PeriodEnd); err != nil {
		return nil, apperrors.NewAppError(500, "failed to mark period transactions reconciled", err)
	}

	accountQuery := `
		UPDATE trust_accounts
		SET last_reconciled_date = $2, last_reconciled_balance = $3, last_updated_at = $2, last_updated_by = $4
		WHERE trust_account_id = $1;
	`
	if _, err := tx.Exec(ctx, accountQuery, recon.TrustAccountID, now, recon.LedgerBalance, recon.ReconciledBy); err != nil {
		return nil, apperrors.NewAppError(500, "failed to stamp trust account reconciliation", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	recon.Status = domain.ReconCompleted
	recon.Notes = notes
	recon.LastUpdatedAt = now
	recon.LastUpdatedBy = recon.ReconciledBy
	return &recon, nil
}

// ApproveReconciliation stamps the approver on a completed reconciliation.
func (r *PgxReconciliationRepository) ApproveReconciliation(ctx context.Context, reconciliationID, approverID string, now time.Time) (*domain.TrustReconciliation, error) {
	query := `
		UPDATE trust_reconciliations
		SET status = $2, approved_by = $3, approved_at = $4, last_updated_at = $4, last_updated_by = $3
		WHERE reconciliation_id = $1 AND status = $5
		RETURNING ` + reconciliationColumns + `;
	`
	recon, err := scanReconciliation(r.Pool.QueryRow(ctx, query, reconciliationID, domain.ReconApproved, approverID, now, domain.ReconCompleted))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: reconciliation is not completed", apperrors.ErrConflict)
		}
		return nil, err
	}
	return recon, nil
}

func scanReconciliation(row pgx.Row) (*domain.TrustReconciliation, error) {
	var rec domain.TrustReconciliation
	err := row.Scan(
		&rec.ReconciliationID,
		&rec.TrustAccountID,
		&rec.ReconciliationDate,
		&rec.PeriodStart,
		&rec.PeriodEnd,
		&rec.BankBalance,
		&rec.LedgerBalance,
		&rec.ClientLedgersTotal,
		&rec.OutstandingDeposits,
		&rec.OutstandingChecks,
		&rec.AdjustedBankBalance,
		&rec.Variance,
		&rec.IsBalanced,
		&rec.Status,
		&rec.Notes,
		&rec.ReconciledBy,
		&rec.ApprovedBy,
		&rec.ApprovedAt,
		&rec.CreatedAt,
		&rec.CreatedBy,
		&rec.LastUpdatedAt,
		&rec.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan reconciliation", err)
	}
	return &rec, nil
}
