package domain

import "time"

// Organization represents a law firm tenant. All trust accounts, ledgers
// and reconciliations are owned through an organization.
type Organization struct {
	OrganizationID string `json:"organizationID"` // Primary Key (UUID)
	Name           string `json:"name"`
	Jurisdiction   string `json:"jurisdiction"` // e.g. "CA", "NY", "UK-SRA"
	IsActive       bool   `json:"isActive"`
	AuditFields
}

// OrganizationRole defines the possible roles a user can have within an organization.
type OrganizationRole string

const (
	RoleOwner  OrganizationRole = "OWNER"
	RoleAdmin  OrganizationRole = "ADMIN"
	RoleMember OrganizationRole = "MEMBER"
)

// MembershipStatus tracks whether a membership is currently active.
type MembershipStatus string

const (
	MembershipActive  MembershipStatus = "active"
	MembershipRemoved MembershipStatus = "removed"
)

// OrganizationMember represents the membership of a User in an Organization.
type OrganizationMember struct {
	UserID         string           `json:"userID"`
	OrganizationID string           `json:"organizationID"`
	Role           OrganizationRole `json:"role"`
	Status         MembershipStatus `json:"status"`
	JoinedAt       time.Time        `json:"joinedAt"`
}
