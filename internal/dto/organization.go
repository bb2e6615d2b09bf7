package dto

import (
	"time"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
)

// CreateOrganizationRequest is the payload for creating an organization.
type CreateOrganizationRequest struct {
	Name         string `json:"name" binding:"required"`
	Jurisdiction string `json:"jurisdiction" binding:"required"`
}

// AddMemberRequest is the payload for adding a user to an organization.
type AddMemberRequest struct {
	UserID string                  `json:"userID" binding:"required"`
	Role   domain.OrganizationRole `json:"role" binding:"required,oneof=OWNER ADMIN MEMBER"`
}

// OrganizationResponse is the API shape of an organization.
type OrganizationResponse struct {
	OrganizationID string    `json:"organizationID"`
	Name           string    `json:"name"`
	Jurisdiction   string    `json:"jurisdiction"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToOrganizationResponse converts a domain organization to its response shape.
func ToOrganizationResponse(o *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID: o.OrganizationID,
		Name:           o.Name,
		Jurisdiction:   o.Jurisdiction,
		IsActive:       o.IsActive,
		CreatedAt:      o.CreatedAt,
	}
}

// ToOrganizationResponses converts a slice of domain organizations.
func ToOrganizationResponses(orgs []domain.Organization) []OrganizationResponse {
	out := make([]OrganizationResponse, len(orgs))
	for i := range orgs {
		out[i] = ToOrganizationResponse(&orgs[i])
	}
	return out
}
