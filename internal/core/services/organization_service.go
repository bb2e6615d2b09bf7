package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/praxislegal/trust_accounting_app/internal/apperrors"
	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	portsrepo "github.com/praxislegal/trust_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/praxislegal/trust_accounting_app/internal/core/ports/services"
	"github.com/praxislegal/trust_accounting_app/internal/dto"
	"github.com/praxislegal/trust_accounting_app/internal/middleware"
)

// OrganizationService handles business logic for organizations and memberships.
type OrganizationService struct {
	orgRepo portsrepo.OrganizationRepository
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(or portsrepo.OrganizationRepository) portssvc.OrganizationSvcFacade {
	return &OrganizationService{orgRepo: or}
}

var _ portssvc.OrganizationSvcFacade = (*OrganizationService)(nil)

// CreateOrganization creates a new organization and makes the creator its owner.
func (s *OrganizationService) CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	org := domain.Organization{
		OrganizationID: uuid.NewString(),
		Name:           req.Name,
		Jurisdiction:   req.Jurisdiction,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.orgRepo.SaveOrganization(ctx, org); err != nil {
		logger.Error("Failed to save organization in repository", slog.String("error", err.Error()), slog.String("organization_name", req.Name))
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	membership := domain.OrganizationMember{
		UserID:         creatorUserID,
		OrganizationID: org.OrganizationID,
		Role:           domain.RoleOwner,
		Status:         domain.MembershipActive,
		JoinedAt:       now,
	}
	if err := s.orgRepo.AddMember(ctx, membership); err != nil {
		logger.Error("Failed to add creator as owner of new organization", slog.String("error", err.Error()), slog.String("organization_id", org.OrganizationID), slog.String("user_id", creatorUserID))
		return nil, fmt.Errorf("failed to add creator membership: %w", err)
	}

	logger.Info("Organization created", slog.String("organization_id", org.OrganizationID), slog.String("creator_user_id", creatorUserID))
	return &org, nil
}

// ListUserOrganizations retrieves the organizations the user is an active member of.
func (s *OrganizationService) ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	orgs, err := s.orgRepo.ListOrganizationsByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to list organizations for user", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list organizations for user %s: %w", userID, err)
	}
	if orgs == nil {
		return []domain.Organization{}, nil
	}
	return orgs, nil
}

// AddUserToOrganization adds a user to an organization with a specific role.
// Only owners and admins may add members.
func (s *OrganizationService) AddUserToOrganization(ctx context.Context, addingUserID, targetUserID, organizationID string, role domain.OrganizationRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, addingUserID, organizationID, domain.RoleAdmin); err != nil {
		return err
	}

	membership := domain.OrganizationMember{
		UserID:         targetUserID,
		OrganizationID: organizationID,
		Role:           role,
		Status:         domain.MembershipActive,
		JoinedAt:       time.Now(),
	}
	if err := s.orgRepo.AddMember(ctx, membership); err != nil {
		logger.Error("Failed to add member to organization", slog.String("error", err.Error()), slog.String("target_user_id", targetUserID), slog.String("organization_id", organizationID))
		return fmt.Errorf("failed to add user %s to organization %s: %w", targetUserID, organizationID, err)
	}

	logger.Info("Member added to organization", slog.String("target_user_id", targetUserID), slog.String("organization_id", organizationID), slog.String("role", string(role)), slog.String("added_by_user_id", addingUserID))
	return nil
}

// AuthorizeUserAction checks that the user is an active member of the
// organization with one of the allowed roles. Returns apperrors.ErrNotFound
// when there is no active membership, hiding the organization's existence
// from outsiders, and apperrors.ErrForbidden when the membership role is not
// in the allowlist. Owners are always authorized; an empty allowlist means
// any active member passes.
func (s *OrganizationService) AuthorizeUserAction(ctx context.Context, userID, organizationID string, allowedRoles ...domain.OrganizationRole) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	membership, err := s.orgRepo.FindMembership(ctx, userID, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Authorization failed: no active membership", slog.String("user_id", userID), slog.String("organization_id", organizationID))
			return apperrors.ErrNotFound
		}
		logger.Error("Failed to check organization membership", slog.String("error", err.Error()), slog.String("user_id", userID), slog.String("organization_id", organizationID))
		return fmt.Errorf("failed to check authorization: %w", err)
	}

	if membership.Status != domain.MembershipActive {
		logger.Warn("Authorization failed: membership not active", slog.String("user_id", userID), slog.String("organization_id", organizationID))
		return apperrors.ErrNotFound
	}

	if membership.Role == domain.RoleOwner || len(allowedRoles) == 0 {
		return nil
	}
	for _, role := range allowedRoles {
		if membership.Role == role {
			return nil
		}
	}

	logger.Warn("Authorization failed: role not allowed", slog.String("user_id", userID), slog.String("organization_id", organizationID), slog.String("user_role", string(membership.Role)))
	return apperrors.ErrForbidden
}
