package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nabl-labs/accounts-api/internal/domain/entity"
	"github.com/nabl-labs/accounts-api/internal/domain/repository"
)

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

// OrganizationRepo implements the OrganizationRepository port over PostgreSQL.
type OrganizationRepo struct {
	db DB
}

func NewOrganizationRepository(db DB) *OrganizationRepo {
	return &OrganizationRepo{db: db}
}

const orgColumns = `id, name, description, address, phone, email, website, status, created_at, updated_at`

func (r *OrganizationRepo) Create(ctx context.Context, org *entity.Organization) error {
	query := `
		INSERT INTO organizations (id, name, description, address, phone, email,
			website, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		org.ID, org.Name, org.Description, org.Address, org.Phone, org.Email,
		org.Website, org.Status, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

func (r *OrganizationRepo) GetByID(ctx context.Context, id string) (*entity.Organization, error) {
	return r.getOne(ctx, `SELECT `+orgColumns+` FROM organizations WHERE id = $1`, id)
}

func (r *OrganizationRepo) GetByName(ctx context.Context, name string) (*entity.Organization, error) {
	return r.getOne(ctx, `SELECT `+orgColumns+` FROM organizations WHERE name = $1 LIMIT 1`, name)
}

func (r *OrganizationRepo) List(ctx context.Context) ([]*entity.Organization, error) {
	rows, err := r.db.Query(ctx, `SELECT `+orgColumns+` FROM organizations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var list []*entity.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		list = append(list, org)
	}
	return list, rows.Err()
}

func (r *OrganizationRepo) Update(ctx context.Context, org *entity.Organization) error {
	query := `
		UPDATE organizations SET name = $2, description = $3, address = $4,
			phone = $5, email = $6, website = $7, status = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		org.ID, org.Name, org.Description, org.Address, org.Phone, org.Email,
		org.Website, org.Status, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	return nil
}

func (r *OrganizationRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}
	return nil
}

func (r *OrganizationRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Organization, error) {
	org, err := scanOrganization(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return org, nil
}

func scanOrganization(row pgx.Row) (*entity.Organization, error) {
	var org entity.Organization
	err := row.Scan(
		&org.ID, &org.Name, &org.Description, &org.Address, &org.Phone,
		&org.Email, &org.Website, &org.Status, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &org, nil
}
