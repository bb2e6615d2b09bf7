package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TrustTransactionType identifies what kind of money movement a transaction records.
type TrustTransactionType string

const (
	TxnDeposit             TrustTransactionType = "deposit"
	TxnInterest            TrustTransactionType = "interest"
	TxnDisbursement        TrustTransactionType = "disbursement"
	TxnTransferToOperating TrustTransactionType = "transfer_to_operating"
	TxnRefund              TrustTransactionType = "refund"
)

// TrustTransactionStatus tracks the approval lifecycle of a transaction.
// Only approved transactions affect balances; voided ones are retained with a reason.
type TrustTransactionStatus string

const (
	TxnPending  TrustTransactionStatus = "pending"
	TxnApproved TrustTransactionStatus = "approved"
	TxnVoided   TrustTransactionStatus = "voided"
)

// TrustTransaction is an entry against a client trust ledger. Amount is always
// positive; the type determines the balance direction. Transactions are never
// hard-deleted.
type TrustTransaction struct {
	TransactionID   string                 `json:"transactionID"` // Primary Key (UUID)
	TrustAccountID  string                 `json:"trustAccountID"`
	ClientLedgerID  string                 `json:"clientLedgerID"`
	TransactionType TrustTransactionType   `json:"transactionType"`
	Amount          decimal.Decimal        `json:"amount"` // Positive value
	RunningBalance  decimal.Decimal        `json:"runningBalance"`
	Currency        string                 `json:"currency"`
	Description     string                 `json:"description"`
	CheckNumber     string                 `json:"checkNumber,omitempty"`
	ReferenceNumber string                 `json:"referenceNumber,omitempty"`
	Payee           string                 `json:"payee,omitempty"`
	TransactionDate time.Time              `json:"transactionDate"`
	Status          TrustTransactionStatus `json:"status"`
	ApprovedBy      *string                `json:"approvedBy"`
	ApprovedAt      *time.Time             `json:"approvedAt"`
	VoidedBy        *string                `json:"voidedBy"`
	VoidedAt        *time.Time             `json:"voidedAt"`
	VoidReason      string                 `json:"voidReason,omitempty"`
	IsReconciled    bool                   `json:"isReconciled"`
	ReconciledAt    *time.Time             `json:"reconciledAt"`
	AuditFields
}

// IsDebit reports whether this transaction type draws funds out of the ledger.
func (t TrustTransactionType) IsDebit() bool {
	switch t {
	case TxnDisbursement, TxnTransferToOperating, TxnRefund:
		return true
	}
	return false
}

// SignedAmount returns the amount with the sign its type implies for balances:
// deposits and interest positive, disbursements negative.
func (t *TrustTransaction) SignedAmount() decimal.Decimal {
	if t.TransactionType.IsDebit() {
		return t.Amount.Neg()
	}
	return t.Amount
}

// ApplyToBalances returns the client ledger and trust account balances after
// this transaction's signed amount is applied, as approval does. A debit that
// would drive either balance negative is rejected and the inputs come back
// unchanged.
func (t *TrustTransaction) ApplyToBalances(ledgerBalance, accountBalance decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	signed := t.SignedAmount()
	newLedger := ledgerBalance.Add(signed)
	newAccount := accountBalance.Add(signed)
	if newLedger.IsNegative() {
		return ledgerBalance, accountBalance, fmt.Errorf("ledger balance would fall to %s", newLedger.String())
	}
	if newAccount.IsNegative() {
		return ledgerBalance, accountBalance, fmt.Errorf("account balance would fall to %s", newAccount.String())
	}
	return newLedger, newAccount, nil
}

// ReverseFromBalances backs this transaction's effect out of the balances, as
// voiding an approved transaction does. Applying and then reversing restores
// the original balances exactly.
func (t *TrustTransaction) ReverseFromBalances(ledgerBalance, accountBalance decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	reversal := t.SignedAmount().Neg()
	return ledgerBalance.Add(reversal), accountBalance.Add(reversal)
}
