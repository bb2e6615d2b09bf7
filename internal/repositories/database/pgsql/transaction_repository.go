package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/praxislegal/trust_accounting_app/internal/apperrors"
	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	portsrepo "github.com/praxislegal/trust_accounting_app/internal/core/ports/repositories"
	"github.com/praxislegal/trust_accounting_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// PgxTransactionRepository persists trust transactions. Approve and void run
// inside a single database transaction with FOR UPDATE locks on the
// transaction, ledger and account rows, so concurrent balance mutations on
// the same ledger serialize.
type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

const trustTransactionColumns = `
	transaction_id, trust_account_id, client_ledger_id, transaction_type, amount,
	running_balance, currency, description, check_number, reference_number, payee,
	transaction_date, status, approved_by, approved_at, voided_by, voided_at,
	void_reason, is_reconciled, reconciled_at,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveTransaction inserts a pending transaction and its creation audit entry
// atomically.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.TrustTransaction, audit domain.TrustAuditLog) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO trust_transactions (` + trustTransactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24);
	`
	_, err = tx.Exec(ctx, query,
		txn.TransactionID,
		txn.TrustAccountID,
		txn.ClientLedgerID,
		txn.TransactionType,
		txn.Amount,
		txn.RunningBalance,
		txn.Currency,
		txn.Description,
		txn.CheckNumber,
		txn.ReferenceNumber,
		txn.Payee,
		txn.TransactionDate,
		txn.Status,
		txn.ApprovedBy,
		txn.ApprovedAt,
		txn.VoidedBy,
		txn.VoidedAt,
		txn.VoidReason,
		txn.IsReconciled,
		txn.ReconciledAt,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert trust transaction "+txn.TransactionID, err)
	}

	if err := insertAuditLogTx(ctx, tx, audit); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.TrustTransaction, error) {
	query := `SELECT ` + trustTransactionColumns + ` FROM trust_transactions WHERE transaction_id = $1;`
	return scanTrustTransaction(r.Pool.QueryRow(ctx, query, transactionID))
}

// ListTransactionsByOrganization lists transactions with keyset pagination
// ordered newest first on (transaction_date, created_at, transaction_id).
func (r *PgxTransactionRepository) ListTransactionsByOrganization(ctx context.Context, organizationID string, filters portsrepo.ListTransactionsFilters) ([]domain.TrustTransaction, *string, error) {
	query := `
		SELECT t.transaction_id, t.trust_account_id, t.client_ledger_id, t.transaction_type, t.amount,
		       t.running_balance, t.currency, t.description, t.check_number, t.reference_number, t.payee,
		       t.transaction_date, t.status, t.approved_by, t.approved_at, t.voided_by, t.voided_at,
		       t.void_reason, t.is_reconciled, t.reconciled_at,
		       t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
		FROM trust_transactions t
		JOIN trust_accounts a ON a.trust_account_id = t.trust_account_id
		WHERE a.organization_id = $1`
	args := []any{organizationID}

	addArg := func(clause string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}

	if filters.TrustAccountID != "" {
		addArg(" AND t.trust_account_id = $%d", filters.TrustAccountID)
	}
	if filters.ClientLedgerID != "" {
		addArg(" AND t.client_ledger_id = $%d", filters.ClientLedgerID)
	}
	if filters.TransactionType != "" {
		addArg(" AND t.transaction_type = $%d", filters.TransactionType)
	}
	if filters.StartDate != nil {
		addArg(" AND t.transaction_date >= $%d", *filters.StartDate)
	}
	if filters.EndDate != nil {
		addArg(" AND t.transaction_date <= $%d", *filters.EndDate)
	}
	if filters.IsReconciled != nil {
		addArg(" AND t.is_reconciled = $%d", *filters.IsReconciled)
	}
	if !filters.IncludeVoided {
		query += fmt.Sprintf(" AND t.status != '%s'", domain.TxnVoided)
	}

	if filters.NextToken != nil && *filters.NextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*filters.NextToken)
		if err != nil || len(fields) != 3 {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		txnDate, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		createdAt, err := time.Parse(time.RFC3339Nano, fields[1])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		args = append(args, txnDate, createdAt, fields[2])
		query += fmt.Sprintf(" AND (t.transaction_date, t.created_at, t.transaction_id) < ($%d, $%d, $%d)", len(args)-2, len(args)-1, len(args))
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY t.transaction_date DESC, t.created_at DESC, t.transaction_id DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query trust transactions", err)
	}
	defer rows.Close()

	var txns []domain.TrustTransaction
	for rows.Next() {
		txn, err := scanTrustTransaction(rows)
		if err != nil {
			return nil, nil, err
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating trust transaction rows", err)
	}

	var nextToken *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeMultiFieldToken(
			last.TransactionDate.Format(time.RFC3339Nano),
			last.CreatedAt.Format(time.RFC3339Nano),
			last.TransactionID,
		)
		nextToken = &token
	}
	return txns, nextToken, nil
}

// ApproveTransactionWithBalance approves a pending transaction and applies
// its signed amount to the ledger and account balances. Any rejection leaves
// every row untouched.
func (r *PgxTransactionRepository) ApproveTransactionWithBalance(ctx context.Context, transactionID, approverID string, now time.Time, audit domain.AuditContext) (*domain.TrustTransaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	txn, err := lockTransaction(ctx, tx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status != domain.TxnPending {
		return nil, fmt.Errorf("%w: transaction is %s, expected pending", apperrors.ErrConflict, txn.Status)
	}

	ledgerBalance, accountBalance, err := lockBalances(ctx, tx, txn.ClientLedgerID, txn.TrustAccountID)
	if err != nil {
		return nil, err
	}

	newLedgerBalance, newAccountBalance, err := txn.ApplyToBalances(ledgerBalance, accountBalance)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInsufficientFunds, err)
	}

	if err := updateBalances(ctx, tx, txn.ClientLedgerID, txn.TrustAccountID, newLedgerBalance, newAccountBalance, approverID, now); err != nil {
		return nil, err
	}

	updateQuery := `
		UPDATE trust_transactions
		SET status = $2, approved_by = $3, approved_at = $4, running_balance = $5,
		    last_updated_at = $4, last_updated_by = $3
		WHERE transaction_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, transactionID, domain.TxnApproved, approverID, now, newLedgerBalance); err != nil {
		return nil, apperrors.NewAppError(500, "failed to update transaction status", err)
	}

	if err := insertAuditLogTx(ctx, tx, domain.TrustAuditLog{
		AuditID:       uuid.NewString(),
		TransactionID: &transactionID,
		EventType:     domain.EventTxnApproved,
		EventData: map[string]any{
			"runningBalance": newLedgerBalance.String(),
			"amount":         txn.Amount.String(),
		},
		UserID:    approverID,
		IPAddress: audit.IPAddress,
		UserAgent: audit.UserAgent,
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	txn.Status = domain.TxnApproved
	txn.ApprovedBy = &approverID
	txn.ApprovedAt = &now
	txn.RunningBalance = newLedgerBalance
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = approverID
	return txn, nil
}

// VoidTransactionWithBalance voids a transaction, reversing its balance
// effect when it was approved. Reconciled and already-voided transactions are
// rejected.
func (r *PgxTransactionRepository) VoidTransactionWithBalance(ctx context.Context, transactionID, voiderID, reason string, now time.Time, audit domain.AuditContext) (*domain.TrustTransaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	txn, err := lockTransaction(ctx, tx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status == domain.TxnVoided {
		return nil, fmt.Errorf("%w: transaction already voided", apperrors.ErrConflict)
	}
	if txn.IsReconciled {
		return nil, fmt.Errorf("%w: reconciled transactions cannot be voided", apperrors.ErrConflict)
	}

	if txn.Status == domain.TxnApproved {
		ledgerBalance, accountBalance, err := lockBalances(ctx, tx, txn.ClientLedgerID, txn.TrustAccountID)
		if err != nil {
			return nil, err
		}
		newLedgerBalance, newAccountBalance := txn.ReverseFromBalances(ledgerBalance, accountBalance)
		if err := updateBalances(ctx, tx, txn.ClientLedgerID, txn.TrustAccountID, newLedgerBalance, newAccountBalance, voiderID, now); err != nil {
			return nil, err
		}
	}

	updateQuery := `
		UPDATE trust_transactions
		SET status = $2, voided_by = $3, voided_at = $4, void_reason = $5,
		    last_updated_at = $4, last_updated_by = $3
		WHERE transaction_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, transactionID, domain.TxnVoided, voiderID, now, reason); err != nil {
		return nil, apperrors.NewAppError(500, "failed to update transaction status", err)
	}

	if err := insertAuditLogTx(ctx, tx, domain.TrustAuditLog{
		AuditID:       uuid.NewString(),
		TransactionID: &transactionID,
		EventType:     domain.EventTxnVoided,
		EventData: map[string]any{
			"voidReason":     reason,
			"previousStatus": string(txn.Status),
		},
		UserID:    voiderID,
		IPAddress: audit.IPAddress,
		UserAgent: audit.UserAgent,
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	txn.Status = domain.TxnVoided
	txn.VoidedBy = &voiderID
	txn.VoidedAt = &now
	txn.VoidReason = reason
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = voiderID
	return txn, nil
}

// ListForReconciliation returns the account's approved transactions dated
// within the period, ordered chronologically.
func (r *PgxTransactionRepository) ListForReconciliation(ctx context.Context, trustAccountID string, periodStart, periodEnd time.Time) ([]domain.TrustTransaction, error) {
	query := `
		SELECT ` + trustTransactionColumns + `
		FROM trust_transactions
		WHERE trust_account_id = $1 AND status = $2
		  AND transaction_date >= $3 AND transaction_date <= $4
		ORDER BY transaction_date, created_at, transaction_id;
	`
	return r.queryTransactions(ctx, query, trustAccountID, domain.TxnApproved, periodStart, periodEnd)
}

// ListMatchCandidates returns approved, unreconciled transactions dated in
// the window that no statement line has matched yet.
func (r *PgxTransactionRepository) ListMatchCandidates(ctx context.Context, trustAccountID string, windowStart, windowEnd time.Time) ([]domain.TrustTransaction, error) {
	query := `
		SELECT ` + trustTransactionColumns + `
		FROM trust_transactions t
		WHERE t.trust_account_id = $1 AND t.status = $2 AND t.is_reconciled = FALSE
		  AND t.transaction_date >= $3 AND t.transaction_date <= $4
		  AND NOT EXISTS (
		      SELECT 1 FROM bank_statement_lines l WHERE l.matched_transaction_id = t.transaction_id
		  )
		ORDER BY t.transaction_date, t.created_at, t.transaction_id;
	`
	return r.queryTransactions(ctx, query, trustAccountID, domain.TxnApproved, windowStart, windowEnd)
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.TrustTransaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query trust transactions", err)
	}
	defer rows.Close()

	var txns []domain.TrustTransaction
	for rows.Next() {
		txn, err := scanTrustTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating trust transaction rows", err)
	}
	return txns, nil
}

// lockTransaction loads a transaction row under FOR UPDATE.
func lockTransaction(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.TrustTransaction, error) {
	query := `SELECT ` + trustTransactionColumns + ` FROM trust_transactions WHERE transaction_id = $1 FOR UPDATE;`
	return scanTrustTransaction(tx.QueryRow(ctx, query, transactionID))
}

// lockBalances locks the ledger and account rows in a fixed order and returns
// their current balances.
func lockBalances(ctx context.Context, tx pgx.Tx, ledgerID, trustAccountID string) (ledgerBalance, accountBalance decimal.Decimal, err error) {
	err = tx.QueryRow(ctx, `SELECT balance FROM client_trust_ledgers WHERE ledger_id = $1 FOR UPDATE;`, ledgerID).Scan(&ledgerBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to lock client ledger "+ledgerID, err)
	}
	err = tx.QueryRow(ctx, `SELECT current_balance FROM trust_accounts WHERE trust_account_id = $1 FOR UPDATE;`, trustAccountID).Scan(&accountBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to lock trust account "+trustAccountID, err)
	}
	return ledgerBalance, accountBalance, nil
}

func updateBalances(ctx context.Context, tx pgx.Tx, ledgerID, trustAccountID string, ledgerBalance, accountBalance decimal.Decimal, userID string, now time.Time) error {
	ledgerQuery := `
		UPDATE client_trust_ledgers
		SET balance = $2, last_activity_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE ledger_id = $1;
	`
	if _, err := tx.Exec(ctx, ledgerQuery, ledgerID, ledgerBalance, now, userID); err != nil {
		return apperrors.NewAppError(500, "failed to update client ledger balance", err)
	}
	accountQuery := `
		UPDATE trust_accounts
		SET current_balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE trust_account_id = $1;
	`
	if _, err := tx.Exec(ctx, accountQuery, trustAccountID, accountBalance, now, userID); err != nil {
		return apperrors.NewAppError(500, "failed to update trust account balance", err)
	}
	return nil
}

// insertAuditLogTx appends an audit entry inside an open transaction.
func insertAuditLogTx(ctx context.Context, tx pgx.Tx, entry domain.TrustAuditLog) error {
	query := `
		INSERT INTO trust_audit_logs (audit_id, transaction_id, event_type, event_data, user_id, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, query,
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

func scanTrustTransaction(row pgx.Row) (*domain.TrustTransaction, error) {
	var t domain.TrustTransaction
	err := row.Scan(
		&t.TransactionID,
		&t.TrustAccountID,
		&t.ClientLedgerID,
		&t.TransactionType,
		&t.Amount,
		&t.RunningBalance,
		&t.Currency,
		&t.Description,
		&t.CheckNumber,
		&t.ReferenceNumber,
		&t.Payee,
		&t.TransactionDate,
		&t.Status,
		&t.ApprovedBy,
		&t.ApprovedAt,
		&t.VoidedBy,
		&t.VoidedAt,
		&t.VoidReason,
		&t.IsReconciled,
		&t.ReconciledAt,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan trust transaction", err)
	}
	return &t, nil
}
