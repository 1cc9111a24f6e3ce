package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"blog-backend/internal/domains/post/model"
	usermodel "blog-backend/internal/domains/user/model"
	"blog-backend/internal/shared/utils"
	"blog-backend/pkg/database"
	"blog-backend/pkg/logger"
)

const selectPost = `
	SELECT p.id, p.title, p.slug, p.content, p.status, p.author_id, p.category_id,
	       p.created_at, p.updated_at,
	       u.username, u.email, c.name
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id
`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// ========================================
// POSTS
// ========================================

func (r *postgresRepository) Create(ctx context.Context, p *model.Post) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	query := `
		INSERT INTO posts (id, title, slug, content, status, author_id, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		p.ID, p.Title, p.Slug, p.Content, string(p.Status), p.AuthorID, p.CategoryID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "create")
	}
	return nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	return r.getOne(ctx, selectPost+` WHERE p.slug = $1`, slug)
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	return r.getOne(ctx, selectPost+` WHERE p.id = $1`, id)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, arg any) (*model.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check post: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) Count(ctx context.Context, filter model.Filter) (int, error) {
	whereClause, args := buildWhereClause(filter)

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts p WHERE `+whereClause, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return total, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.Filter, limit, offset int) ([]model.Post, error) {
	whereClause, args := buildWhereClause(filter)

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $%d OFFSET $%d
	`, selectPost, whereClause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0, limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return posts, nil
}

func (r *postgresRepository) Update(ctx context.Context, p *model.Post) error {
	query := `
		UPDATE posts
		SET title = $2, content = $3, status = $4, category_id = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		p.ID, p.Title, p.Content, string(p.Status), p.CategoryID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrPostNotFound
		}
		return mapWriteError(err, "update")
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

// ========================================
// LIKES
// ========================================

func (r *postgresRepository) Like(ctx context.Context, postID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO post_likes (user_id, post_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, post_id) DO NOTHING
	`, userID, postID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return model.ErrPostNotFound
		}
		return fmt.Errorf("failed to like post: %w", err)
	}
	return nil
}

func (r *postgresRepository) Unlike(ctx context.Context, postID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM post_likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return fmt.Errorf("failed to unlike post: %w", err)
	}
	return nil
}

func (r *postgresRepository) LikedBy(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]usermodel.UserSummary, error) {
	result := make(map[uuid.UUID][]usermodel.UserSummary, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	ids := make([]string, len(postIDs))
	for i, id := range postIDs {
		ids[i] = id.String()
	}

	rows, err := r.pool.Query(ctx, `
		SELECT l.post_id, u.id, u.username, u.email
		FROM post_likes l
		JOIN users u ON u.id = l.user_id
		WHERE l.post_id = ANY($1::uuid[])
		ORDER BY l.created_at ASC, u.username ASC
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID uuid.UUID
		var u usermodel.UserSummary
		if err := rows.Scan(&postID, &u.ID, &u.Username, &u.Email); err != nil {
			return nil, fmt.Errorf("failed to scan like: %w", err)
		}
		result[postID] = append(result[postID], u)
	}
	return result, rows.Err()
}

// ========================================
// HELPERS
// ========================================

// buildWhereClause - Construct WHERE clause dynamically
func buildWhereClause(filter model.Filter) (string, []interface{}) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIndex := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argIndex))
		args = append(args, string(filter.Status))
		argIndex++
	}

	// mỗi term phải match title hoặc content
	for _, term := range filter.SearchTerms {
		placeholder := fmt.Sprintf("$%d", argIndex)
		conditions = append(conditions, "("+utils.JoinWithOr([]string{
			"p.title ILIKE " + placeholder,
			"p.content ILIKE " + placeholder,
		})+")")
		args = append(args, "%"+utils.EscapeLike(term)+"%")
		argIndex++
	}

	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argIndex))
		args = append(args, *filter.CategoryID)
		argIndex++
	}

	if filter.AuthorID != nil {
		conditions = append(conditions, fmt.Sprintf("p.author_id = $%d", argIndex))
		args = append(args, *filter.AuthorID)
		argIndex++
	}

	return utils.JoinWithAnd(conditions), args
}

func mapWriteError(err error, op string) error {
	if constraint, ok := database.ConstraintViolation(err, database.CodeUniqueViolation); ok {
		if constraint == "posts_slug_key" {
			return model.ErrSlugTaken
		}
		logger.Debug("post " + op + ": unexpected unique violation on " + constraint)
	}
	if constraint, ok := database.ConstraintViolation(err, database.CodeForeignKeyViolation); ok && constraint == "posts_category_id_fkey" {
		return model.ErrCategoryNotFound
	}
	return fmt.Errorf("failed to %s post: %w", op, err)
}

func scanPost(row pgx.Row) (*model.Post, error) {
	var p model.Post
	var status string
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &status, &p.AuthorID, &p.CategoryID,
		&p.CreatedAt, &p.UpdatedAt,
		&p.AuthorUsername, &p.AuthorEmail, &p.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	p.Status = model.Status(status)
	return &p, nil
}
