package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/user/model"
	"blog-backend/pkg/database"
)

// querier is the subset of pgxpool.Pool and pgx.Tx the queries need
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const userColumns = `id, username, email, password_hash, is_active, is_staff, last_login_at, created_at, updated_at`

// postgresRepository là concrete implementation của UserRepository và TokenRepository
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepository(pool *pgxpool.Pool) UserRepository {
	return &postgresRepository{pool: pool}
}

func NewPostgresTokenRepository(pool *pgxpool.Pool) TokenRepository {
	return &postgresRepository{pool: pool}
}

// ========================================
// USERS
// ========================================

func (r *postgresRepository) CreateWithToken(ctx context.Context, u *model.User, tokenKey string) (string, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (string, error) {
		query := `
			INSERT INTO users (id, username, email, password_hash, is_active, is_staff, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			RETURNING created_at, updated_at
		`
		err := tx.QueryRow(ctx, query,
			u.ID, u.Username, u.Email, u.PasswordHash, u.IsActive, u.IsStaff,
		).Scan(&u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return "", model.ErrUsernameTaken
			}
			return "", fmt.Errorf("failed to create user: %w", err)
		}

		return upsertToken(ctx, tx, u.ID, tokenKey)
	})
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *postgresRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// ========================================
// TOKENS
// ========================================

func (r *postgresRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, candidateKey string) (string, error) {
	key, err := upsertToken(ctx, r.pool, userID, candidateKey)
	if err != nil && database.IsForeignKeyViolation(err) {
		return "", model.ErrUserNotFound
	}
	return key, err
}

func (r *postgresRepository) GetUserByKey(ctx context.Context, key string) (*model.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.is_active, u.is_staff,
		       u.last_login_at, u.created_at, u.updated_at
		FROM auth_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.key = $1
	`
	user, err := scanUser(r.pool.QueryRow(ctx, query, key))
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, model.ErrTokenNotFound
	}
	return user, err
}

func (r *postgresRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM auth_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete token: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// upsertToken is the atomic get-or-create: the unique index on user_id decides
// the winner and the no-op update makes RETURNING yield the surviving key.
func upsertToken(ctx context.Context, q querier, userID uuid.UUID, candidateKey string) (string, error) {
	query := `
		INSERT INTO auth_tokens (key, user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING key
	`
	var key string
	if err := q.QueryRow(ctx, query, candidateKey, userID).Scan(&key); err != nil {
		return "", fmt.Errorf("failed to get or create token: %w", err)
	}
	return key, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.IsActive,
		&u.IsStaff,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return u, nil
}
