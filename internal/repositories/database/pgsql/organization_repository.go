package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/praxislegal/trust_accounting_app/internal/apperrors"
	"github.com/praxislegal/trust_accounting_app/internal/core/domain"
	portsrepo "github.com/praxislegal/trust_accounting_app/internal/core/ports/repositories"
)

type PgxOrganizationRepository struct {
	BaseRepository
}

func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepository {
	return &PgxOrganizationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OrganizationRepository = (*PgxOrganizationRepository)(nil)

func (r *PgxOrganizationRepository) SaveOrganization(ctx context.Context, org domain.Organization) error {
	query := `
		INSERT INTO organizations (organization_id, name, jurisdiction, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		org.OrganizationID,
		org.Name,
		org.Jurisdiction,
		org.IsActive,
		org.CreatedAt,
		org.CreatedBy,
		org.LastUpdatedAt,
		org.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert organization "+org.OrganizationID, err)
	}
	return nil
}

func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	query := `
		SELECT organization_id, name, jurisdiction, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM organizations
		WHERE organization_id = $1;
	`
	var org domain.Organization
	err := r.Pool.QueryRow(ctx, query, organizationID).Scan(
		&org.OrganizationID,
		&org.Name,
		&org.Jurisdiction,
		&org.IsActive,
		&org.CreatedAt,
		&org.CreatedBy,
		&org.LastUpdatedAt,
		&org.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan organization", err)
	}
	return &org, nil
}

func (r *PgxOrganizationRepository) ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error) {
	query := `
		SELECT o.organization_id, o.name, o.jurisdiction, o.is_active, o.created_at, o.created_by, o.last_updated_at, o.last_updated_by
		FROM organizations o
		JOIN organization_members m ON m.organization_id = o.organization_id
		WHERE m.user_id = $1 AND m.status = $2
		ORDER BY o.name;
	`
	rows, err := r.Pool.Query(ctx, query, userID, domain.MembershipActive)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query organizations for user "+userID, err)
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		var org domain.Organization
		if err := rows.Scan(
			&org.OrganizationID,
			&org.Name,
			&org.Jurisdiction,
			&org.IsActive,
			&org.CreatedAt,
			&org.CreatedBy,
			&org.LastUpdatedAt,
			&org.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan organization row", err)
		}
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating organization rows", err)
	}
	return orgs, nil
}

// AddMember inserts a membership; re-adding an existing membership revives it
// with the new role.
func (r *PgxOrganizationRepository) AddMember(ctx context.Context, membership domain.OrganizationMember) error {
	query := `
		INSERT INTO organization_members (user_id, organization_id, role, status, joined_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, organization_id)
		DO UPDATE SET role = EXCLUDED.role, status = EXCLUDED.status;
	`
	_, err := r.Pool.Exec(ctx, query,
		membership.UserID,
		membership.OrganizationID,
		membership.Role,
		membership.Status,
		membership.JoinedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert organization membership", err)
	}
	return nil
}

func (r *PgxOrganizationRepository) FindMembership(ctx context.Context, userID, organizationID string) (*domain.OrganizationMember, error) {
	query := `
		SELECT user_id, organization_id, role, status, joined_at
		FROM organization_members
		WHERE user_id = $1 AND organization_id = $2;
	`
	var m domain.OrganizationMember
	err := r.Pool.QueryRow(ctx, query, userID, organizationID).Scan(
		&m.UserID,
		&m.OrganizationID,
		&m.Role,
		&m.Status,
		&m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan organization membership", err)
	}
	return &m, nil
}
