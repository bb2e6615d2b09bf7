package domain

import "time"

// AuditEventType identifies what happened to a trust entity.
type AuditEventType string

const (
	EventTxnCreated     AuditEventType = "transaction_created"
	EventTxnApproved    AuditEventType = "transaction_approved"
	EventTxnVoided      AuditEventType = "transaction_voided"
	EventReconStarted   AuditEventType = "reconciliation_started"
	EventReconCompleted AuditEventType = "reconciliation_completed"
	EventReconApproved  AuditEventType = "reconciliation_approved"
)

// TrustAuditLog is an append-only record of a balance-affecting event,
// including the forensic request context it originated from.
type TrustAuditLog struct {
	AuditID       string         `json:"auditID"` // Primary Key (UUID)
	TransactionID *string        `json:"transactionID"`
	EventType     AuditEventType `json:"eventType"`
	EventData     map[string]any `json:"eventData"`
	UserID        string         `json:"userID"`
	IPAddress     string         `json:"ipAddress,omitempty"`
	UserAgent     string         `json:"userAgent,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}
