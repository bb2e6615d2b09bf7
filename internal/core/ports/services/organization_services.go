package services

import (
	"context"

	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	"github.com/praxislegal/trust_accounting_app/internal/dto"
)

// OrganizationAuthorizerSvc is the single membership gate every trust service
// consults. Returns apperrors.ErrNotFound when the user has no active
// membership (hiding the organization's existence) and apperrors.ErrForbidden
// when the membership role is not in the allowlist. Owners always pass.
type OrganizationAuthorizerSvc interface {
	AuthorizeUserAction(ctx context.Context, userID, organizationID string, allowedRoles ...domain.OrganizationRole) error
}

// OrganizationSvcFacade bundles organization management operations.
type OrganizationSvcFacade interface {
	OrganizationAuthorizerSvc
	CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error)
	ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error)
	AddUserToOrganization(ctx context.Context, addingUserID, targetUserID, organizationID string, role domain.OrganizationRole) error
}
