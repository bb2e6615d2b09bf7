package dto

import (
	"time"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest is the payload for recording a trust transaction.
// The transaction is created pending; balances move only on approval.
type CreateTransactionRequest struct {
	OrganizationID  string                      `json:"organizationId" binding:"required"`
	TrustAccountID  string                      `json:"trustAccountId" binding:"required"`
	ClientLedgerID  string                      `json:"clientLedgerId" binding:"required"`
	TransactionType domain.TrustTransactionType `json:"transactionType" binding:"required,oneof=deposit interest disbursement transfer_to_operating refund"`
	Amount          decimal.Decimal             `json:"amount" binding:"required"`
	Description     string                      `json:"description" binding:"required"`
	CheckNumber     string                      `json:"checkNumber"`
	ReferenceNumber string                      `json:"referenceNumber"`
	Payee           string                      `json:"payee"`
	TransactionDate time.Time                   `json:"transactionDate" binding:"required"`
}

// VoidTransactionRequest is the payload for voiding a transaction.
type VoidTransactionRequest struct {
	OrganizationID string `json:"organizationId" binding:"required"`
	VoidReason     string `json:"voidReason" binding:"required"`
}

// ApproveTransactionRequest scopes an approval to an organization.
type ApproveTransactionRequest struct {
	OrganizationID string `json:"organizationId" binding:"required"`
}

// ListTransactionsParams holds query parameters for listing transactions.
type ListTransactionsParams struct {
	TrustAccountID  string
	ClientLedgerID  string
	TransactionType domain.TrustTransactionType
	StartDate       *time.Time
	EndDate         *time.Time
	IsReconciled    *bool
	IncludeVoided   bool
	Limit           int
	NextToken       *string
}

// TransactionResponse is the API shape of a trust transaction.
type TransactionResponse struct {
	TransactionID   string                        `json:"transactionID"`
	TrustAccountID  string                        `json:"trustAccountID"`
	ClientLedgerID  string                        `json:"clientLedgerID"`
	TransactionType domain.TrustTransactionType   `json:"transactionType"`
	Amount          decimal.Decimal               `json:"amount"`
	RunningBalance  decimal.Decimal               `json:"runningBalance"`
	Currency        string                        `json:"currency"`
	Description     string                        `json:"description"`
	CheckNumber     string                        `json:"checkNumber,omitempty"`
	ReferenceNumber string                        `json:"referenceNumber,omitempty"`
	Payee           string                        `json:"payee,omitempty"`
	TransactionDate time.Time                     `json:"transactionDate"`
	Status          domain.TrustTransactionStatus `json:"status"`
	ApprovedBy      *string                       `json:"approvedBy"`
	ApprovedAt      *time.Time                    `json:"approvedAt"`
	VoidedBy        *string                       `json:"voidedBy"`
	VoidedAt        *time.Time                    `json:"voidedAt"`
	VoidReason      string                        `json:"voidReason,omitempty"`
	IsReconciled    bool                          `json:"isReconciled"`
}

// ToTransactionResponse converts a domain transaction to its response shape.
func ToTransactionResponse(t *domain.TrustTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   t.TransactionID,
		TrustAccountID:  t.TrustAccountID,
		ClientLedgerID:  t.ClientLedgerID,
		TransactionType: t.TransactionType,
		Amount:          t.Amount,
		RunningBalance:  t.RunningBalance,
		Currency:        t.Currency,
		Description:     t.Description,
		CheckNumber:     t.CheckNumber,
		ReferenceNumber: t.ReferenceNumber,
		Payee:           t.Payee,
		TransactionDate: t.TransactionDate,
		Status:          t.Status,
		ApprovedBy:      t.ApprovedBy,
		ApprovedAt:      t.ApprovedAt,
		VoidedBy:        t.VoidedBy,
		VoidedAt:        t.VoidedAt,
		VoidReason:      t.VoidReason,
		IsReconciled:    t.IsReconciled,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.TrustTransaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}

// ListTransactionsResponse is the paginated transaction listing.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// AuditLogResponse is the API shape of one audit trail entry.
type AuditLogResponse struct {
	AuditID   string                `json:"auditID"`
	EventType domain.AuditEventType `json:"eventType"`
	EventData map[string]any        `json:"eventData,omitempty"`
	UserID    string                `json:"userID"`
	IPAddress string                `json:"ipAddress,omitempty"`
	UserAgent string                `json:"userAgent,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
}

// TransactionAuditTrailResponse lists a transaction's audit entries oldest first.
type TransactionAuditTrailResponse struct {
	Entries []AuditLogResponse `json:"entries"`
}

// ToAuditLogResponses converts domain audit entries to their response shape.
func ToAuditLogResponses(entries []domain.TrustAuditLog) []AuditLogResponse {
	out := make([]AuditLogResponse, len(entries))
	for i, e := range entries {
		out[i] = AuditLogResponse{
			AuditID:   e.AuditID,
			EventType: e.EventType,
			EventData: e.EventData,
			UserID:    e.UserID,
			IPAddress: e.IPAddress,
			UserAgent: e.UserAgent,
			CreatedAt: e.CreatedAt,
		}
	}
	return out
}
