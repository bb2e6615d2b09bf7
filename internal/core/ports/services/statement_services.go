package services

import (
	"context"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	"github.com/praxislegal/trust_accounting_app/internal/dto"
)

// StatementSvcFacade bundles bank statement import and auto-matching.
type StatementSvcFacade interface {
	ImportStatement(ctx context.Context, trustAccountID string, req dto.ImportStatementRequest, userID string) (*domain.BankStatement, []domain.BankStatementLine, error)
	AutoMatchStatement(ctx context.Context, organizationID, statementID, userID string) (*domain.MatchResult, error)
}
