package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerReportRow is one transaction line in a client ledger report.
type LedgerReportRow struct {
	TransactionID   string               `json:"transactionID"`
	TransactionDate time.Time            `json:"transactionDate"`
	TransactionType TrustTransactionType `json:"transactionType"`
	Description     string               `json:"description"`
	Amount          decimal.Decimal      `json:"amount"`
	SignedAmount    decimal.Decimal      `json:"signedAmount"`
	RunningBalance  decimal.Decimal      `json:"runningBalance"`
	Voided          bool                 `json:"voided"`
	CreatedAt       time.Time            `json:"-"`
}

// LedgerReportSection groups one client ledger's rows between opening and
// closing balances.
type LedgerReportSection struct {
	LedgerID       string          `json:"ledgerID"`
	LedgerName     string          `json:"ledgerName"`
	ClientID       string          `json:"clientID"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Rows           []LedgerReportRow
}

// ClientLedgerReport is the full client ledger report for an organization.
type ClientLedgerReport struct {
	OrganizationID string                `json:"organizationID"`
	GeneratedAt    time.Time             `json:"generatedAt"`
	Sections       []LedgerReportSection `json:"sections"`
}

// RegisterRow is one line in a transaction register report.
type RegisterRow struct {
	TransactionID   string                 `json:"transactionID"`
	TransactionDate time.Time              `json:"transactionDate"`
	TrustAccountID  string                 `json:"trustAccountID"`
	LedgerID        string                 `json:"ledgerID"`
	LedgerName      string                 `json:"ledgerName"`
	TransactionType TrustTransactionType   `json:"transactionType"`
	Status          TrustTransactionStatus `json:"status"`
	Description     string                 `json:"description"`
	CheckNumber     string                 `json:"checkNumber,omitempty"`
	Payee           string                 `json:"payee,omitempty"`
	Debit           decimal.Decimal        `json:"debit"`
	Credit          decimal.Decimal        `json:"credit"`
}

// TransactionRegister is a flat chronological register with totals.
type TransactionRegister struct {
	OrganizationID string          `json:"organizationID"`
	GeneratedAt    time.Time       `json:"generatedAt"`
	Rows           []RegisterRow   `json:"rows"`
	TotalDebits    decimal.Decimal `json:"totalDebits"`
	TotalCredits   decimal.Decimal `json:"totalCredits"`
	NetMovement    decimal.Decimal `json:"netMovement"`
}

// ReportFilters narrows report queries. Zero values mean "no filter".
type ReportFilters struct {
	TrustAccountID  string
	ClientLedgerID  string
	TransactionType TrustTransactionType
	StartDate       *time.Time
	EndDate         *time.Time
	IncludeVoided   bool
}
