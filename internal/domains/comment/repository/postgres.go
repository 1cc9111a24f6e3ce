package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"blog-backend/internal/domains/comment/model"
	"blog-backend/pkg/database"
)

const selectComment = `
	SELECT c.id, c.post_id, c.author_id, c.content, c.created_at, c.updated_at,
	       u.username, u.email
	FROM comments c
	JOIN users u ON u.id = c.author_id
`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, c *model.Comment) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	// Insert and read back the author in one round trip
	query := `
		WITH inserted AS (
			INSERT INTO comments (id, post_id, author_id, content, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			RETURNING created_at, updated_at, author_id
		)
		SELECT i.created_at, i.updated_at, u.username, u.email
		FROM inserted i
		JOIN users u ON u.id = i.author_id
	`
	err := r.pool.QueryRow(ctx, query, c.ID, c.PostID, c.AuthorID, c.Content).
		Scan(&c.CreatedAt, &c.UpdatedAt, &c.AuthorUsername, &c.AuthorEmail)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return model.ErrPostNotFound
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	c, err := scanComment(r.pool.QueryRow(ctx, selectComment+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

func (r *postgresRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]model.Comment, error) {
	rows, err := r.pool.Query(ctx, selectComment+` WHERE c.post_id = $1 ORDER BY c.created_at ASC, c.id ASC`, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

func (r *postgresRepository) ListByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]model.Comment, error) {
	result := make(map[uuid.UUID][]model.Comment, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	ids := make([]string, len(postIDs))
	for i, id := range postIDs {
		ids[i] = id.String()
	}

	rows, err := r.pool.Query(ctx,
		selectComment+` WHERE c.post_id = ANY($1::uuid[]) ORDER BY c.created_at ASC, c.id ASC`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to batch load comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		result[c.PostID] = append(result[c.PostID], *c)
	}
	return result, rows.Err()
}

func (r *postgresRepository) UpdateContent(ctx context.Context, c *model.Comment) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE comments SET content = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
		c.ID, c.Content,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrCommentNotFound
		}
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

func scanComment(row pgx.Row) (*model.Comment, error) {
	var c model.Comment
	err := row.Scan(
		&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
		&c.AuthorUsername, &c.AuthorEmail,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
