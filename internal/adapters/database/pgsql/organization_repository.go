package pgsql

import (
	"context"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
)

// OrganizationRepository reads and registers tenants. Onboarding owns the
// table; the ledger only needs rows to exist for its foreign keys.
type OrganizationRepository struct {
	BaseRepository
}

func newOrganizationRepository(db DBTX) *OrganizationRepository {
	return &OrganizationRepository{BaseRepository: BaseRepository{DB: db}}
}

// Organizations exposes tenant registration for operator tooling.
func (s *Store) Organizations() *OrganizationRepository {
	return newOrganizationRepository(s.pool)
}

// EnsureOrganization inserts the organization unless one with the same id
// exists. A slug held by a different id is reported as a duplicate.
func (r *OrganizationRepository) EnsureOrganization(ctx context.Context, org domain.Organization) (*domain.Organization, bool, error) {
	tag, err := r.DB.Exec(ctx, `
		INSERT INTO organizations (organization_id, slug, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (organization_id) DO NOTHING`,
		org.OrganizationID, org.Slug, org.Name)
	if err != nil {
		return nil, false, translateError(err, "create organization")
	}

	existing, err := r.FindOrganizationByID(ctx, org.OrganizationID)
	if err != nil {
		return nil, false, err
	}
	return existing, tag.RowsAffected() == 1, nil
}

// FindOrganizationByID loads one organization.
func (r *OrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	return r.findOne(ctx, `WHERE organization_id = $1`, organizationID)
}

// FindOrganizationBySlug loads an organization by its slug.
func (r *OrganizationRepository) FindOrganizationBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	return r.findOne(ctx, `WHERE slug = $1`, slug)
}

func (r *OrganizationRepository) findOne(ctx context.Context, where string, arg string) (*domain.Organization, error) {
	var org domain.Organization
	err := r.DB.QueryRow(ctx, `SELECT organization_id, slug, name FROM organizations `+where, arg).
		Scan(&org.OrganizationID, &org.Slug, &org.Name)
	if err != nil {
		return nil, translateError(err, "organization "+arg)
	}
	return &org, nil
}
