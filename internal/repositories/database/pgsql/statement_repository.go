package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/praxislegal/trust_accounting_app/internal/apperrors"
	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	portsrepo "github.com/praxislegal/trust_accounting_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type PgxStatementRepository struct {
	BaseRepository
}

func newPgxStatementRepository(pool *pgxpool.Pool) portsrepo.StatementRepository {
	return &PgxStatementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.StatementRepository = (*PgxStatementRepository)(nil)

const statementColumns = `
	statement_id, trust_account_id, statement_date, period_start, period_end,
	opening_balance, closing_balance,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveStatement inserts the statement header and all its lines atomically.
func (r *PgxStatementRepository) SaveStatement(ctx context.Context, statement domain.BankStatement, lines []domain.BankStatementLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	headerQuery := `
		INSERT INTO bank_statements (` + statementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, headerQuery,
		statement.StatementID,
		statement.TrustAccountID,
		statement.StatementDate,
		statement.PeriodStart,
		statement.PeriodEnd,
		statement.OpeningBalance,
		statement.ClosingBalance,
		statement.CreatedAt,
		statement.CreatedBy,
		statement.LastUpdatedAt,
		statement.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert bank statement "+statement.StatementID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO bank_statement_lines (line_id, statement_id, transaction_date, description, amount, direction, check_number, matched_transaction_id, match_confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, line := range lines {
		batch.Queue(lineQuery,
			line.LineID,
			line.StatementID,
			line.TransactionDate,
			line.Description,
			line.Amount,
			line.Direction,
			line.CheckNumber,
			line.MatchedTransactionID,
			line.MatchConfidence,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert statement lines for "+statement.StatementID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxStatementRepository) FindStatementByID(ctx context.Context, statementID string) (*domain.BankStatement, error) {
	query := `SELECT ` + statementColumns + ` FROM bank_statements WHERE statement_id = $1;`
	return scanStatement(r.Pool.QueryRow(ctx, query, statementID))
}

func (r *PgxStatementRepository) ListStatementLines(ctx context.Context, statementID string) ([]domain.BankStatementLine, error) {
	query := `
		SELECT line_id, statement_id, transaction_date, description, amount, direction, check_number, matched_transaction_id, match_confidence
		FROM bank_statement_lines
		WHERE statement_id = $1
		ORDER BY transaction_date, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, statementID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query statement lines", err)
	}
	defer rows.Close()

	var lines []domain.BankStatementLine
	for rows.Next() {
		var l domain.BankStatementLine
		if err := rows.Scan(
			&l.LineID,
			&l.StatementID,
			&l.TransactionDate,
			&l.Description,
			&l.Amount,
			&l.Direction,
			&l.CheckNumber,
			&l.MatchedTransactionID,
			&l.MatchConfidence,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan statement line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating statement line rows", err)
	}
	return lines, nil
}

func (r *PgxStatementRepository) ListStatementsByAccount(ctx context.Context, trustAccountID string, limit, offset int) ([]domain.BankStatement, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + statementColumns + `
		FROM bank_statements
		WHERE trust_account_id = $1
		ORDER BY statement_date DESC, statement_id DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, trustAccountID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query bank statements", err)
	}
	defer rows.Close()

	var statements []domain.BankStatement
	for rows.Next() {
		s, err := scanStatement(rows)
		if err != nil {
			return nil, err
		}
		statements = append(statements, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating bank statement rows", err)
	}
	return statements, nil
}

// AssignLineMatch records a confidence-scored match on an unmatched line.
func (r *PgxStatementRepository) AssignLineMatch(ctx context.Context, lineID, transactionID string, confidence decimal.Decimal) error {
	query := `
		UPDATE bank_statement_lines
		SET matched_transaction_id = $2, match_confidence = $3
		WHERE line_id = $1 AND matched_transaction_id IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query, lineID, transactionID, confidence)
	if err != nil {
		return apperrors.NewAppError(500, "failed to assign statement line match", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

func scanStatement(row pgx.Row) (*domain.BankStatement, error) {
	var s domain.BankStatement
	err := row.Scan(
		&s.StatementID,
		&s.TrustAccountID,
		&s.StatementDate,
		&s.PeriodStart,
		&s.PeriodEnd,
		&s.OpeningBalance,
		&s.ClosingBalance,
		&s.CreatedAt,
		&s.CreatedBy,
		&s.LastUpdatedAt,
		&s.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan bank statement", err)
	}
	return &s, nil
}
