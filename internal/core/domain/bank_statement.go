package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementLineDirection is the direction of a statement line from the bank's
// perspective: a credit adds funds to the trust account, a debit removes them.
type StatementLineDirection string

const (
	LineCredit StatementLineDirection = "credit"
	LineDebit  StatementLineDirection = "debit"
)

// BankStatement is an imported statement for a trust account covering a period.
type BankStatement struct {
	StatementID    string          `json:"statementID"` // Primary Key (UUID)
	TrustAccountID string          `json:"trustAccountID"`
	StatementDate  time.Time       `json:"statementDate"`
	PeriodStart    time.Time       `json:"periodStart"`
	PeriodEnd      time.Time       `json:"periodEnd"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	AuditFields
}

// BankStatementLine is a single line item on an imported statement. Matching
// against trust transactions produces a confidence-scored association, never a
// guaranteed one-to-one mapping.
type BankStatementLine struct {
	LineID               string                 `json:"lineID"` // Primary Key (UUID)
	StatementID          string                 `json:"statementID"`
	TransactionDate      time.Time              `json:"transactionDate"`
	Description          string                 `json:"description"`
	Amount               decimal.Decimal        `json:"amount"` // Positive value
	Direction            StatementLineDirection `json:"direction"`
	CheckNumber          string                 `json:"checkNumber,omitempty"`
	MatchedTransactionID *string                `json:"matchedTransactionID"`
	MatchConfidence      *decimal.Decimal       `json:"matchConfidence"`
}

// MatchResult summarizes an auto-match run over a statement.
type MatchResult struct {
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
	Ambiguous int `json:"ambiguous"`
}
