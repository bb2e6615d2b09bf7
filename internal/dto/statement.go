package dto

import (
	"time"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatementLineInput is one line of an imported bank statement.
type StatementLineInput struct {
	TransactionDate time.Time                     `json:"transactionDate" binding:"required"`
	Description     string                        `json:"description" binding:"required"`
	Amount          decimal.Decimal               `json:"amount" binding:"required"`
	Direction       domain.StatementLineDirection `json:"direction" binding:"required,oneof=debit credit"`
	CheckNumber     string                        `json:"checkNumber"`
}

// ImportStatementRequest is the payload for importing a bank statement.
type ImportStatementRequest struct {
	OrganizationID string               `json:"organizationId" binding:"required"`
	StatementDate  time.Time            `json:"statementDate" binding:"required"`
	PeriodStart    time.Time            `json:"periodStart" binding:"required"`
	PeriodEnd      time.Time            `json:"periodEnd" binding:"required"`
	OpeningBalance decimal.Decimal      `json:"openingBalance"`
	ClosingBalance decimal.Decimal      `json:"closingBalance"`
	Lines          []StatementLineInput `json:"lines" binding:"required,min=1,dive"`
}

// MatchStatementRequest scopes an auto-match run to an organization.
type MatchStatementRequest struct {
	OrganizationID string `json:"organizationId" binding:"required"`
}

// StatementResponse is the API shape of an imported statement.
type StatementResponse struct {
	StatementID    string          `json:"statementID"`
	TrustAccountID string          `json:"trustAccountID"`
	StatementDate  time.Time       `json:"statementDate"`
	PeriodStart    time.Time       `json:"periodStart"`
	PeriodEnd      time.Time       `json:"periodEnd"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	LineCount      int             `json:"lineCount"`
}

// ToStatementResponse converts a domain statement to its response shape.
func ToStatementResponse(s *domain.BankStatement, lineCount int) StatementResponse {
	return StatementResponse{
		StatementID:    s.StatementID,
		TrustAccountID: s.TrustAccountID,
		StatementDate:  s.StatementDate,
		PeriodStart:    s.PeriodStart,
		PeriodEnd:      s.PeriodEnd,
		OpeningBalance: s.OpeningBalance,
		ClosingBalance: s.ClosingBalance,
		LineCount:      lineCount,
	}
}
