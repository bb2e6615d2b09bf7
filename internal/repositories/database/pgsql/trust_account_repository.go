package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/praxislegal/trust_accounting_app/internal/apperrors"
	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	portsrepo "github.com/praxislegal/trust_accounting_app/internal/core/ports/repositories"
)

type PgxTrustAccountRepository struct {
	BaseRepository
}

func newPgxTrustAccountRepository(pool *pgxpool.Pool) portsrepo.TrustAccountRepository {
	return &PgxTrustAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TrustAccountRepository = (*PgxTrustAccountRepository)(nil)

const trustAccountColumns = `
	trust_account_id, organization_id, account_name, bank_name, account_number,
	account_type, currency, jurisdiction, current_balance,
	last_reconciled_date, last_reconciled_balance, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxTrustAccountRepository) SaveTrustAccount(ctx context.Context, account domain.TrustAccount) error {
	query := `
		INSERT INTO trust_accounts (` + trustAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.TrustAccountID,
		account.OrganizationID,
		account.AccountName,
		account.BankName,
		account.AccountNumber,
		account.AccountType,
		account.Currency,
		account.Jurisdiction,
		account.CurrentBalance,
		account.LastReconciledDate,
		account.LastReconciledBalance,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert trust account "+account.TrustAccountID, err)
	}
	return nil
}

func (r *PgxTrustAccountRepository) FindTrustAccountByID(ctx context.Context, trustAccountID string) (*domain.TrustAccount, error) {
	query := `SELECT ` + trustAccountColumns + ` FROM trust_accounts WHERE trust_account_id = $1;`
	account, err := scanTrustAccount(r.Pool.QueryRow(ctx, query, trustAccountID))
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *PgxTrustAccountRepository) ListTrustAccountsByOrganization(ctx context.Context, organizationID string, activeOnly bool) ([]domain.TrustAccount, error) {
	query := `SELECT ` + trustAccountColumns + ` FROM trust_accounts WHERE organization_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY account_name;`

	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query trust accounts for organization "+organizationID, err)
	}
	defer rows.Close()

	var accounts []domain.TrustAccount
	for rows.Next() {
		account, err := scanTrustAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating trust account rows", err)
	}
	return accounts, nil
}

func (r *PgxTrustAccountRepository) UpdateTrustAccountDetails(ctx context.Context, account domain.TrustAccount) error {
	query := `
		UPDATE trust_accounts
		SET account_name = $2, bank_name = $3, jurisdiction = $4, last_updated_at = $5, last_updated_by = $6
		WHERE trust_account_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		account.TrustAccountID,
		account.AccountName,
		account.BankName,
		account.Jurisdiction,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update trust account "+account.TrustAccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTrustAccountRepository) SetTrustAccountActive(ctx context.Context, trustAccountID string, active bool, updatedBy string) error {
	query := `
		UPDATE trust_accounts
		SET is_active = $2, last_updated_at = $3, last_updated_by = $4
		WHERE trust_account_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, trustAccountID, active, time.Now(), updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update trust account active flag", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const clientLedgerColumns = `
	ledger_id, trust_account_id, client_id, matter_id, ledger_name,
	balance, currency, status, last_activity_at,
	created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxTrustAccountRepository) SaveClientLedger(ctx context.Context, ledger domain.ClientTrustLedger) error {
	query := `
		INSERT INTO client_trust_ledgers (` + clientLedgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		ledger.LedgerID,
		ledger.TrustAccountID,
		ledger.ClientID,
		ledger.MatterID,
		ledger.LedgerName,
		ledger.Balance,
		ledger.Currency,
		ledger.Status,
		ledger.LastActivityAt,
		ledger.CreatedAt,
		ledger.CreatedBy,
		ledger.LastUpdatedAt,
		ledger.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert client ledger "+ledger.LedgerID, err)
	}
	return nil
}

func (r *PgxTrustAccountRepository) FindClientLedgerByID(ctx context.Context, ledgerID string) (*domain.ClientTrustLedger, error) {
	query := `SELECT ` + clientLedgerColumns + ` FROM client_trust_ledgers WHERE ledger_id = $1;`
	return scanClientLedger(r.Pool.QueryRow(ctx, query, ledgerID))
}

func (r *PgxTrustAccountRepository) ListClientLedgersByAccount(ctx context.Context, trustAccountID string) ([]domain.ClientTrustLedger, error) {
	query := `SELECT ` + clientLedgerColumns + ` FROM client_trust_ledgers WHERE trust_account_id = $1 ORDER BY ledger_name;`
	return r.queryLedgers(ctx, query, trustAccountID)
}

func (r *PgxTrustAccountRepository) ListClientLedgersByOrganization(ctx context.Context, organizationID string) ([]domain.ClientTrustLedger, error) {
	query := `
		SELECT l.ledger_id, l.trust_account_id, l.client_id, l.matter_id, l.ledger_name,
		       l.balance, l.currency, l.status, l.last_activity_at,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by
		FROM client_trust_ledgers l
		JOIN trust_accounts a ON a.trust_account_id = l.trust_account_id
		WHERE a.organization_id = $1
		ORDER BY l.ledger_name;
	`
	return r.queryLedgers(ctx, query, organizationID)
}

func (r *PgxTrustAccountRepository) queryLedgers(ctx context.Context, query string, arg any) ([]domain.ClientTrustLedger, error) {
	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query client ledgers", err)
	}
	defer rows.Close()

	var ledgers []domain.ClientTrustLedger
	for rows.Next() {
		ledger, err := scanClientLedger(rows)
		if err != nil {
			return nil, err
		}
		ledgers = append(ledgers, *ledger)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating client ledger rows", err)
	}
	return ledgers, nil
}

func scanTrustAccount(row pgx.Row) (*domain.TrustAccount, error) {
	var a domain.TrustAccount
	err := row.Scan(
		&a.TrustAccountID,
		&a.OrganizationID,
		&a.AccountName,
		&a.BankName,
		&a.AccountNumber,
		&a.AccountType,
		&a.Currency,
		&a.Jurisdiction,
		&a.CurrentBalance,
		&a.LastReconciledDate,
		&a.LastReconciledBalance,
		&a.IsActive,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan trust account", err)
	}
	return &a, nil
}

func scanClientLedger(row pgx.Row) (*domain.ClientTrustLedger, error) {
	var l domain.ClientTrustLedger
	err := row.Scan(
		&l.LedgerID,
		&l.TrustAccountID,
		&l.ClientID,
		&l.MatterID,
		&l.LedgerName,
		&l.Balance,
		&l.Currency,
		&l.Status,
		&l.LastActivityAt,
		&l.CreatedAt,
		&l.CreatedBy,
		&l.LastUpdatedAt,
		&l.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan client ledger", err)
	}
	return &l, nil
}
