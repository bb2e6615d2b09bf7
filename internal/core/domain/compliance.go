package domain

// ComplianceAlertType identifies which rule produced an alert.
type ComplianceAlertType string

const (
	AlertNegativeBalance       ComplianceAlertType = "negative_balance"
	AlertCommingling           ComplianceAlertType = "commingling"
	AlertDormant               ComplianceAlertType = "dormant"
	AlertMissingReconciliation ComplianceAlertType = "missing_reconciliation"
	AlertCurrencyMismatch      ComplianceAlertType = "currency_mismatch"
)

// AlertSeverity grades how urgently an alert needs attention.
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityWarning  AlertSeverity = "warning"
	SeverityInfo     AlertSeverity = "info"
)

// ComplianceEntityType names the kind of entity an alert points at.
type ComplianceEntityType string

const (
	EntityLedger  ComplianceEntityType = "ledger"
	EntityAccount ComplianceEntityType = "account"
)

// ComplianceAlert is produced fresh on every compliance check run.
// Alerts are computed, not persisted; the check is side-effect-free.
type ComplianceAlert struct {
	Type       ComplianceAlertType  `json:"type"`
	Severity   AlertSeverity        `json:"severity"`
	Message    string               `json:"message"`
	EntityID   string               `json:"entityID"`
	EntityType ComplianceEntityType `json:"entityType"`
	Details    map[string]any       `json:"details,omitempty"`
}

// JurisdictionRule holds the per-jurisdiction parameters the compliance check
// evaluates trust accounts against.
type JurisdictionRule struct {
	Code                       string `json:"code"`
	Name                       string `json:"name"`
	Currency                   string `json:"currency"`
	ReconciliationFrequencyDay int    `json:"reconciliationFrequencyDays"`
	RegulatoryBody             string `json:"regulatoryBody"`
}
