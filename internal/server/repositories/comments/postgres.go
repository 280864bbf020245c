package comments

import (
	"context"
	"fmt"

	"github.com/secretspace/secretspace/internal/dbx"
	"github.com/secretspace/secretspace/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {

	query :=
		`INSERT INTO comments (user_id, post_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		comment.UserID, comment.PostID, comment.Content).
		Scan(&comment.ID, &comment.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return comment, nil
}

func (r *PostgresRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	query :=
		`SELECT c.id, COALESCE(c.user_id::text, ''), c.post_id, c.content, c.created_at,
		        COALESCE(u.username, ''), COALESCE(u.image, '')
		 FROM comments c
		 LEFT JOIN users u ON u.id = c.user_id
		 WHERE c.post_id = $1
		 ORDER BY c.created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c := &models.Comment{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.PostID, &c.Content, &c.CreatedAt,
			&c.AuthorUsername, &c.AuthorImage); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return comments, nil
}

func (r *PostgresRepository) DeleteByPost(ctx context.Context, postID string) error {
	query :=
		`DELETE FROM comments
		 WHERE post_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, postID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	query :=
		`DELETE FROM comments
		 WHERE user_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
