package repositories

import (
	"context"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatementRepository defines persistence operations for bank statements and their lines.
type StatementRepository interface {
	SaveStatement(ctx context.Context, statement domain.BankStatement, lines []domain.BankStatementLine) error
	FindStatementByID(ctx context.Context, statementID string) (*domain.BankStatement, error)
	ListStatementLines(ctx context.Context, statementID string) ([]domain.BankStatementLine, error)
	ListStatementsByAccount(ctx context.Context, trustAccountID string, limit, offset int) ([]domain.BankStatement, error)
	AssignLineMatch(ctx context.Context, lineID, transactionID string, confidence decimal.Decimal) error
}
