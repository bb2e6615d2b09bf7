package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// AuditContext carries the request-level forensic details stamped onto
// trust audit log entries. Trust accounting regulators expect every
// balance-affecting action to be attributable to an origin.
type AuditContext struct {
	IPAddress string `json:"ipAddress"`
	UserAgent string `json:"userAgent"`
}
