package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/praxislegal/trust_accounting_app/internal/apperrors"
	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	portsrepo "github.com/praxislegal/trust_accounting_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// PgxReportingRepository runs the read-only aggregation queries behind
// reports. Every query orders rows on (transaction_date, created_at,
// transaction_id) so repeated runs over unchanged data return identical
// output.
type PgxReportingRepository struct {
	BaseRepository
}

func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetClientLedgerData builds per-ledger sections with opening balance,
// chronological rows carrying running balances, and closing balance.
func (r *PgxReportingRepository) GetClientLedgerData(ctx context.Context, organizationID string, filters domain.ReportFilters) ([]domain.LedgerReportSection, error) {
	ledgerQuery := `
		SELECT l.ledger_id, l.ledger_name, l.client_id
		FROM client_trust_ledgers l
		JOIN trust_accounts a ON a.trust_account_id = l.trust_account_id
		WHERE a.organization_id = $1`
	ledgerArgs := []any{organizationID}
	if filters.TrustAccountID != "" {
		ledgerArgs = append(ledgerArgs, filters.TrustAccountID)
		ledgerQuery += fmt.Sprintf(" AND l.trust_account_id = $%d", len(ledgerArgs))
	}
	if filters.ClientLedgerID != "" {
		ledgerArgs = append(ledgerArgs, filters.ClientLedgerID)
		ledgerQuery += fmt.Sprintf(" AND l.ledger_id = $%d", len(ledgerArgs))
	}
	ledgerQuery += " ORDER BY l.ledger_name, l.ledger_id;"

	rows, err := r.Pool.Query(ctx, ledgerQuery, ledgerArgs...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query report ledgers", err)
	}
	sections := []domain.LedgerReportSection{}
	sectionIndex := map[string]int{}
	for rows.Next() {
		var s domain.LedgerReportSection
		if err := rows.Scan(&s.LedgerID, &s.LedgerName, &s.ClientID); err != nil {
			rows.Close()
			return nil, apperrors.NewAppError(500, "failed to scan report ledger", err)
		}
		s.OpeningBalance = decimal.Zero
		s.ClosingBalance = decimal.Zero
		s.Rows = []domain.LedgerReportRow{}
		sectionIndex[s.LedgerID] = len(sections)
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, apperrors.NewAppError(500, "error iterating report ledger rows", err)
	}
	rows.Close()

	if filters.StartDate != nil {
		if err := r.loadOpeningBalances(ctx, organizationID, filters, sections, sectionIndex); err != nil {
			return nil, err
		}
	}

	txnQuery := `
		SELECT t.transaction_id, t.client_ledger_id, t.transaction_date, t.transaction_type,
		       t.description, t.amount, t.status, t.created_at
		FROM trust_transactions t
		JOIN trust_accounts a ON a.trust_account_id = t.trust_account_id
		WHERE a.organization_id = $1`
	args := []any{organizationID}
	txnQuery, args = appendReportFilters(txnQuery, args, filters)
	if !filters.IncludeVoided {
		args = append(args, domain.TxnApproved)
		txnQuery += fmt.Sprintf(" AND t.status = $%d", len(args))
	} else {
		args = append(args, domain.TxnApproved, domain.TxnVoided)
		txnQuery += fmt.Sprintf(" AND t.status IN ($%d, $%d)", len(args)-1, len(args))
	}
	txnQuery += " ORDER BY t.transaction_date, t.created_at, t.transaction_id;"

	txnRows, err := r.Pool.Query(ctx, txnQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query report transactions", err)
	}
	defer txnRows.Close()

	running := make([]decimal.Decimal, len(sections))
	for i := range sections {
		running[i] = sections[i].OpeningBalance
	}

	for txnRows.Next() {
		var (
			row      domain.LedgerReportRow
			ledgerID string
			status   domain.TrustTransactionStatus
		)
		if err := txnRows.Scan(&row.TransactionID, &ledgerID, &row.TransactionDate, &row.TransactionType, &row.Description, &row.Amount, &status, &row.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan report transaction", err)
		}
		idx, ok := sectionIndex[ledgerID]
		if !ok {
			continue
		}
		row.Voided = status == domain.TxnVoided
		if row.Voided {
			row.SignedAmount = decimal.Zero
		} else if row.TransactionType.IsDebit() {
			row.SignedAmount = row.Amount.Neg()
		} else {
			row.SignedAmount = row.Amount
		}
		running[idx] = running[idx].Add(row.SignedAmount)
		row.RunningBalance = running[idx]
		sections[idx].Rows = append(sections[idx].Rows, row)
	}
	if err := txnRows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating report transaction rows", err)
	}

	for i := range sections {
		sections[i].ClosingBalance = running[i]
	}
	return sections, nil
}

// loadOpeningBalances sums the signed approved amounts dated before the
// report's start date into each section's opening balance.
func (r *PgxReportingRepository) loadOpeningBalances(ctx context.Context, organizationID string, filters domain.ReportFilters, sections []domain.LedgerReportSection, sectionIndex map[string]int) error {
	query := `
		SELECT t.client_ledger_id,
		       COALESCE(SUM(CASE WHEN t.transaction_type IN ('disbursement', 'transfer_to_operating', 'refund') THEN -t.amount ELSE t.amount END), 0)
		FROM trust_transactions t
		JOIN trust_accounts a ON a.trust_account_id = t.trust_account_id
		WHERE a.organization_id = $1 AND t.status = $2 AND t.transaction_date < $3
		GROUP BY t.client_ledger_id;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, domain.TxnApproved, *filters.StartDate)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query opening balances", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ledgerID string
			opening  decimal.Decimal
		)
		if err := rows.Scan(&ledgerID, &opening); err != nil {
			return apperrors.NewAppError(500, "failed to scan opening balance", err)
		}
		if idx, ok := sectionIndex[ledgerID]; ok {
			sections[idx].OpeningBalance = opening
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewAppError(500, "error iterating opening balance rows", err)
	}
	return nil
}

// GetTransactionRegisterData builds the flat chronological register.
func (r *PgxReportingRepository) GetTransactionRegisterData(ctx context.Context, organizationID string, filters domain.ReportFilters) ([]domain.RegisterRow, error) {
	query := `
		SELECT t.transaction_id, t.transaction_date, t.trust_account_id, t.client_ledger_id,
		       l.ledger_name, t.transaction_type, t.status, t.description, t.check_number, t.payee, t.amount
		FROM trust_transactions t
		JOIN trust_accounts a ON a.trust_account_id = t.trust_account_id
		JOIN client_trust_ledgers l ON l.ledger_id = t.client_ledger_id
		WHERE a.organization_id = $1`
	args := []any{organizationID}
	query, args = appendReportFilters(query, args, filters)
	if !filters.IncludeVoided {
		args = append(args, domain.TxnVoided)
		query += fmt.Sprintf(" AND t.status != $%d", len(args))
	}
	query += " ORDER BY t.transaction_date, t.created_at, t.transaction_id;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transaction register", err)
	}
	defer rows.Close()

	var register []domain.RegisterRow
	for rows.Next() {
		var (
			row    domain.RegisterRow
			amount decimal.Decimal
		)
		if err := rows.Scan(&row.TransactionID, &row.TransactionDate, &row.TrustAccountID, &row.LedgerID, &row.LedgerName, &row.TransactionType, &row.Status, &row.Description, &row.CheckNumber, &row.Payee, &amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan register row", err)
		}
		row.Debit = decimal.Zero
		row.Credit = decimal.Zero
		if row.Status != domain.TxnVoided {
			if row.TransactionType.IsDebit() {
				row.Debit = amount
			} else {
				row.Credit = amount
			}
		}
		register = append(register, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating register rows", err)
	}
	return register, nil
}

// appendReportFilters adds the shared account/ledger/type/date filters.
func appendReportFilters(query string, args []any, filters domain.ReportFilters) (string, []any) {
	add := func(clause string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}
	if filters.TrustAccountID != "" {
		add(" AND t.trust_account_id = $%d", filters.TrustAccountID)
	}
	if filters.ClientLedgerID != "" {
		add(" AND t.client_ledger_id = $%d", filters.ClientLedgerID)
	}
	if filters.TransactionType != "" {
		add(" AND t.transaction_type = $%d", filters.TransactionType)
	}
	if filters.StartDate != nil {
		add(" AND t.transaction_date >= $%d", *filters.StartDate)
	}
	if filters.EndDate != nil {
		add(" AND t.transaction_date <= $%d", *filters.EndDate)
	}
	return query, args
}
