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

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implements the LocationRepository port over PostgreSQL.
type LocationRepo struct {
	db DB
}

func NewLocationRepository(db DB) *LocationRepo {
	return &LocationRepo{db: db}
}

const locationColumns = `
	id, user_id, location_name, address, city, state, country, postal_code,
	latitude, longitude, location_type, is_primary, is_active, phone, email,
	notes, created_at, updated_at`

func (r *LocationRepo) Create(ctx context.Context, loc *entity.Location) error {
	query := `
		INSERT INTO users_locations (id, user_id, location_name, address, city,
			state, country, postal_code, latitude, longitude, location_type,
			is_primary, is_active, phone, email, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.db.Exec(ctx, query,
		loc.ID, loc.UserID, loc.LocationName, loc.Address, loc.City, loc.State,
		loc.Country, loc.PostalCode, loc.Latitude, loc.Longitude, loc.LocationType,
		loc.IsPrimary, loc.IsActive, loc.Phone, loc.Email, loc.Notes,
		loc.CreatedAt, loc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	return r.getOne(ctx, `SELECT `+locationColumns+` FROM users_locations WHERE id = $1`, id)
}

func (r *LocationRepo) GetWithOwner(ctx context.Context, id string) (*repository.LocationWithOwner, error) {
	query := `
		SELECT l.id, l.user_id, l.location_name, l.address, l.city, l.state,
			l.country, l.postal_code, l.latitude, l.longitude, l.location_type,
			l.is_primary, l.is_active, l.phone, l.email, l.notes, l.created_at, l.updated_at,
			u.id, u.username, u.email, u.firstname, u.lastname
		FROM users_locations l
		JOIN users u ON u.id = l.user_id
		WHERE l.id = $1`
	lw, err := scanLocationWithOwner(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location with owner: %w", err)
	}
	return lw, nil
}

func (r *LocationRepo) ListActiveByUser(ctx context.Context, userID string) ([]*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM users_locations
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY is_primary DESC, created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *LocationRepo) ListActiveByUserAndType(ctx context.Context, userID, locationType string) ([]*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM users_locations
		WHERE user_id = $1 AND location_type = $2 AND is_active = TRUE
		ORDER BY is_primary DESC, created_at DESC`
	return r.list(ctx, query, userID, locationType)
}

func (r *LocationRepo) ListAllWithOwner(ctx context.Context) ([]*repository.LocationWithOwner, error) {
	query := `
		SELECT l.id, l.user_id, l.location_name, l.address, l.city, l.state,
			l.country, l.postal_code, l.latitude, l.longitude, l.location_type,
			l.is_primary, l.is_active, l.phone, l.email, l.notes, l.created_at, l.updated_at,
			u.id, u.username, u.email, u.firstname, u.lastname
		FROM users_locations l
		JOIN users u ON u.id = l.user_id
		ORDER BY l.created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list locations with owner: %w", err)
	}
	defer rows.Close()

	var list []*repository.LocationWithOwner
	for rows.Next() {
		lw, err := scanLocationWithOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location with owner: %w", err)
		}
		list = append(list, lw)
	}
	return list, rows.Err()
}

func (r *LocationRepo) GetPrimaryByUser(ctx context.Context, userID string) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM users_locations
		WHERE user_id = $1 AND is_primary = TRUE AND is_active = TRUE
		LIMIT 1`
	return r.getOne(ctx, query, userID)
}

// ClearPrimary demotes the user's primary locations, skipping exceptID when
// non-empty.
func (r *LocationRepo) ClearPrimary(ctx context.Context, userID, exceptID string) error {
	query := `UPDATE users_locations SET is_primary = FALSE, updated_at = now()
		WHERE user_id = $1 AND is_primary = TRUE AND ($2 = '' OR id <> $2::uuid)`
	if _, err := r.db.Exec(ctx, query, userID, exceptID); err != nil {
		return fmt.Errorf("clear primary location: %w", err)
	}
	return nil
}

func (r *LocationRepo) Update(ctx context.Context, loc *entity.Location) error {
	query := `
		UPDATE users_locations SET location_name = $2, address = $3, city = $4,
			state = $5, country = $6, postal_code = $7, latitude = $8,
			longitude = $9, location_type = $10, is_primary = $11, is_active = $12,
			phone = $13, email = $14, notes = $15, updated_at = $16
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		loc.ID, loc.LocationName, loc.Address, loc.City, loc.State, loc.Country,
		loc.PostalCode, loc.Latitude, loc.Longitude, loc.LocationType,
		loc.IsPrimary, loc.IsActive, loc.Phone, loc.Email, loc.Notes, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

func (r *LocationRepo) SetPrimary(ctx context.Context, id string) error {
	query := `UPDATE users_locations SET is_primary = TRUE, updated_at = now() WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("set primary location: %w", err)
	}
	return nil
}

func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM users_locations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}

func (r *LocationRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Location, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var list []*entity.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, loc)
	}
	return list, rows.Err()
}

func (r *LocationRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Location, error) {
	loc, err := scanLocation(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return loc, nil
}

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var loc entity.Location
	err := row.Scan(
		&loc.ID, &loc.UserID, &loc.LocationName, &loc.Address, &loc.City,
		&loc.State, &loc.Country, &loc.PostalCode, &loc.Latitude, &loc.Longitude,
		&loc.LocationType, &loc.IsPrimary, &loc.IsActive, &loc.Phone, &loc.Email,
		&loc.Notes, &loc.CreatedAt, &loc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func scanLocationWithOwner(row pgx.Row) (*repository.LocationWithOwner, error) {
	var lw repository.LocationWithOwner
	err := row.Scan(
		&lw.Location.ID, &lw.Location.UserID, &lw.Location.LocationName,
		&lw.Location.Address, &lw.Location.City, &lw.Location.State,
		&lw.Location.Country, &lw.Location.PostalCode, &lw.Location.Latitude,
		&lw.Location.Longitude, &lw.Location.LocationType, &lw.Location.IsPrimary,
		&lw.Location.IsActive, &lw.Location.Phone, &lw.Location.Email,
		&lw.Location.Notes, &lw.Location.CreatedAt, &lw.Location.UpdatedAt,
		&lw.Owner.ID, &lw.Owner.Username, &lw.Owner.Email, &lw.Owner.Firstname, &lw.Owner.Lastname,
	)
	if err != nil {
		return nil, err
	}
	return &lw, nil
}
