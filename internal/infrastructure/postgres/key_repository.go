package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nabl-labs/accounts-api/internal/domain"
	"github.com/nabl-labs/accounts-api/internal/domain/entity"
	"github.com/nabl-labs/accounts-api/internal/domain/repository"
)

var _ repository.KeyRepository = (*KeyRepo)(nil)

// KeyRepo implements the KeyRepository port over PostgreSQL.
type KeyRepo struct {
	db DB
}

func NewKeyRepository(db DB) *KeyRepo {
	return &KeyRepo{db: db}
}

const keyColumns = `
	id, key, user_id, key_type, description, is_active,
	expires_at, last_used_at, usage_count, created_at, updated_at`

func (r *KeyRepo) Create(ctx context.Context, key *entity.Key) error {
	query := `
		INSERT INTO keys (id, key, user_id, key_type, description, is_active,
			expires_at, usage_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		key.ID, key.Key, key.UserID, key.KeyType, key.Description, key.IsActive,
		key.ExpiresAt, key.UsageCount, key.CreatedAt, key.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert key: %w", err)
	}
	return nil
}

func (r *KeyRepo) GetByID(ctx context.Context, id string) (*entity.Key, error) {
	return r.getOne(ctx, `SELECT `+keyColumns+` FROM keys WHERE id = $1`, id)
}

func (r *KeyRepo) GetByKeyAndUser(ctx context.Context, key, userID string) (*entity.Key, error) {
	return r.getOne(ctx, `SELECT `+keyColumns+` FROM keys WHERE key = $1 AND user_id = $2`, key, userID)
}

func (r *KeyRepo) ListActiveByUser(ctx context.Context, userID string) ([]*entity.Key, error) {
	query := `SELECT ` + keyColumns + ` FROM keys
		WHERE user_id = $1 AND is_active = TRUE ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var list []*entity.Key
	for rows.Next() {
		k, err := scanKey(rows)
		if err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		list = append(list, k)
	}
	return list, rows.Err()
}

func (r *KeyRepo) ListAllWithOwner(ctx context.Context) ([]*repository.KeyWithOwner, error) {
	query := `
		SELECT k.id, k.key, k.user_id, k.key_type, k.description, k.is_active,
			k.expires_at, k.last_used_at, k.usage_count, k.created_at, k.updated_at,
			u.id, u.username, u.email, u.firstname, u.lastname
		FROM keys k
		JOIN users u ON u.id = k.user_id
		ORDER BY k.created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list keys with owner: %w", err)
	}
	defer rows.Close()

	var list []*repository.KeyWithOwner
	for rows.Next() {
		kw, err := scanKeyWithOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan key with owner: %w", err)
		}
		list = append(list, kw)
	}
	return list, rows.Err()
}

func (r *KeyRepo) GetWithOwner(ctx context.Context, id string) (*repository.KeyWithOwner, error) {
	query := `
		SELECT k.id, k.key, k.user_id, k.key_type, k.description, k.is_active,
			k.expires_at, k.last_used_at, k.usage_count, k.created_at, k.updated_at,
			u.id, u.username, u.email, u.firstname, u.lastname
		FROM keys k
		JOIN users u ON u.id = k.user_id
		WHERE k.id = $1`
	kw, err := scanKeyWithOwner(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get key with owner: %w", err)
	}
	return kw, nil
}

func (r *KeyRepo) Update(ctx context.Context, key *entity.Key) error {
	query := `
		UPDATE keys SET key = $2, key_type = $3, description = $4, is_active = $5,
			expires_at = $6, last_used_at = $7, usage_count = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		key.ID, key.Key, key.KeyType, key.Description, key.IsActive,
		key.ExpiresAt, key.LastUsedAt, key.UsageCount, time.Now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update key: %w", err)
	}
	return nil
}

func (r *KeyRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM keys WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete key: %w", err)
	}
	return nil
}

func (r *KeyRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Key, error) {
	k, err := scanKey(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get key: %w", err)
	}
	return k, nil
}

func scanKey(row pgx.Row) (*entity.Key, error) {
	var k entity.Key
	err := row.Scan(
		&k.ID, &k.Key, &k.UserID, &k.KeyType, &k.Description, &k.IsActive,
		&k.ExpiresAt, &k.LastUsedAt, &k.UsageCount, &k.CreatedAt, &k.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func scanKeyWithOwner(row pgx.Row) (*repository.KeyWithOwner, error) {
	var kw repository.KeyWithOwner
	err := row.Scan(
		&kw.Key.ID, &kw.Key.Key, &kw.Key.UserID, &kw.Key.KeyType, &kw.Key.Description,
		&kw.Key.IsActive, &kw.Key.ExpiresAt, &kw.Key.LastUsedAt, &kw.Key.UsageCount,
		&kw.Key.CreatedAt, &kw.Key.UpdatedAt,
		&kw.Owner.ID, &kw.Owner.Username, &kw.Owner.Email, &kw.Owner.Firstname, &kw.Owner.Lastname,
	)
	if err != nil {
		return nil, err
	}
	return &kw, nil
}
