package repositories

import (
	"context"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
)

// OrganizationRepository defines persistence operations for organizations and memberships.
type OrganizationRepository interface {
	SaveOrganization(ctx context.Context, org domain.Organization) error
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)
	ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error)
	AddMember(ctx context.Context, membership domain.OrganizationMember) error
	// FindMembership returns apperrors.ErrNotFound when the user has no active
	// membership in the organization.
	FindMembership(ctx context.Context, userID, organizationID string) (*domain.OrganizationMember, error)
}
