package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nabl-labs/accounts-api/internal/domain"
	"github.com/nabl-labs/accounts-api/internal/domain/entity"
	"github.com/nabl-labs/accounts-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implements the UserRepository port over PostgreSQL.
type UserRepo struct {
	db DB
}

// NewUserRepository builds the persistence adapter for users. db may be a
// pool or a transaction.
func NewUserRepository(db DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `
	id, username, email, password_hash, password_salt, firstname, lastname,
	role, manager, organization_id, user_type, avatar,
	refresh_token, reset_token, reset_token_expires_at, created_at, updated_at`

// Create persists a new user.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, password_salt,
			firstname, lastname, role, manager, organization_id, user_type,
			avatar, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.PasswordSalt,
		user.Firstname, user.Lastname, user.Role, user.Manager, nullIfEmpty(user.OrganizationID),
		user.UserType, user.Avatar, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID fetches a user by id; (nil, nil) when absent.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail fetches a user by email; (nil, nil) when absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByUsername fetches a user by username; (nil, nil) when absent.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// GetByEmailOrUsername fetches whichever user matches either identifier
// (registration uniqueness check).
func (r *UserRepo) GetByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR username = $2 LIMIT 1`
	return r.getOne(ctx, query, email, username)
}

// GetByLiveResetToken fetches the user holding this reset token while it is
// still unexpired at now. Expired or unknown tokens both return (nil, nil).
func (r *UserRepo) GetByLiveResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE reset_token = $1 AND reset_token_expires_at > $2`
	return r.getOne(ctx, query, token, now)
}

// List returns all users, newest first.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Update rewrites the mutable profile columns.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET username = $2, email = $3, firstname = $4, lastname = $5,
			role = $6, manager = $7, user_type = $8, avatar = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.Firstname, user.Lastname,
		user.Role, user.Manager, user.UserType, user.Avatar, time.Now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// UpdateProfile applies a partial profile update; nil fields keep their value.
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, firstname, lastname, username *string) error {
	query := `
		UPDATE users SET
			firstname = COALESCE($2, firstname),
			lastname  = COALESCE($3, lastname),
			username  = COALESCE($4, username),
			updated_at = now()
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, firstname, lastname, username)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// UpdateUserType stores the user's type.
func (r *UserRepo) UpdateUserType(ctx context.Context, id, userType string) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET user_type = $2, updated_at = now() WHERE id = $1`, id, userType)
	if err != nil {
		return fmt.Errorf("update user type: %w", err)
	}
	return nil
}

// UpdatePassword replaces the hash and salt.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash, salt string) error {
	query := `UPDATE users SET password_hash = $2, password_salt = $3, updated_at = now() WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, hash, salt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// RotatePasswordAndClearReset replaces the hash and salt and clears the reset
// pair in one statement, so a redeemed token cannot be redeemed again.
func (r *UserRepo) RotatePasswordAndClearReset(ctx context.Context, id, hash, salt string) error {
	query := `
		UPDATE users SET password_hash = $2, password_salt = $3,
			reset_token = NULL, reset_token_expires_at = NULL, updated_at = now()
		WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, hash, salt); err != nil {
		return fmt.Errorf("rotate password: %w", err)
	}
	return nil
}

// SetRefreshToken stores the session slot; last writer wins.
func (r *UserRepo) SetRefreshToken(ctx context.Context, id, token string) error {
	if _, err := r.db.Exec(ctx, `UPDATE users SET refresh_token = $2 WHERE id = $1`, id, token); err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	return nil
}

// ClearRefreshTokenByValue nulls the slot of whichever user holds this exact
// token value. Zero matched rows is not an error.
func (r *UserRepo) ClearRefreshTokenByValue(ctx context.Context, token string) error {
	if _, err := r.db.Exec(ctx, `UPDATE users SET refresh_token = NULL WHERE refresh_token = $1`, token); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// SetResetToken stores the reset pair, overwriting any unredeemed prior one.
func (r *UserRepo) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	query := `UPDATE users SET reset_token = $2, reset_token_expires_at = $3 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, token, expiresAt); err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	return nil
}

// CountByOrganization counts users referencing an organization.
func (r *UserRepo) CountByOrganization(ctx context.Context, organizationID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM users WHERE organization_id = $1`, organizationID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (r *UserRepo) getOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// scanUser maps a row onto the entity, folding nullable columns.
func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u            entity.User
		orgID        sql.NullString
		refreshToken sql.NullString
		resetToken   sql.NullString
		resetExpires sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.PasswordSalt,
		&u.Firstname, &u.Lastname, &u.Role, &u.Manager, &orgID, &u.UserType,
		&u.Avatar, &refreshToken, &resetToken, &resetExpires, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.OrganizationID = orgID.String
	u.RefreshToken = refreshToken.String
	u.ResetToken = resetToken.String
	u.ResetTokenExpiresAt = resetExpires.Time
	return &u, nil
}

// nullIfEmpty maps "" to NULL for nullable foreign keys.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
