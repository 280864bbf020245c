package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/secretspace/secretspace/internal/common"
	"github.com/secretspace/secretspace/internal/dbx"
	"github.com/secretspace/secretspace/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {

	query :=
		`INSERT INTO posts (user_id, image_url, storage_key, text)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		post.UserID, post.ImageURL, post.StorageKey, post.Text).
		Scan(&post.ID, &post.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query :=
		`SELECT id, COALESCE(user_id::text, ''), image_url, storage_key, text, likes, comments, created_at
		 FROM posts
		 WHERE id = $1
		 `

	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.UserID, &post.ImageURL, &post.StorageKey,
		&post.Text, &post.Likes, &post.Comments, &post.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

// Feed joins post authors in one query. Authorless posts stay in the feed
// and surface as "Anonymous" at the service layer.
func (r *PostgresRepository) Feed(ctx context.Context, excludeUserID string) ([]*models.FeedPost, error) {
	query :=
		`SELECT p.id, COALESCE(p.user_id::text, ''), p.image_url, p.storage_key, p.text, p.likes, p.comments, p.created_at,
		        COALESCE(u.id::text, ''), COALESCE(u.username, ''), COALESCE(u.image, '')
		 FROM posts p
		 LEFT JOIN users u ON u.id = p.user_id
		 WHERE $1 = '' OR p.user_id IS NULL OR p.user_id::text <> $1
		 ORDER BY p.created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var feed []*models.FeedPost
	for rows.Next() {
		fp := &models.FeedPost{}
		if err := rows.Scan(&fp.ID, &fp.UserID, &fp.ImageURL, &fp.StorageKey,
			&fp.Text, &fp.Likes, &fp.Comments, &fp.CreatedAt,
			&fp.Author.ID, &fp.Author.Username, &fp.Author.Image); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		feed = append(feed, fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return feed, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	query :=
		`SELECT id, COALESCE(user_id::text, ''), image_url, storage_key, text, likes, comments, created_at
		 FROM posts
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post := &models.Post{}
		if err := rows.Scan(&post.ID, &post.UserID, &post.ImageURL, &post.StorageKey,
			&post.Text, &post.Likes, &post.Comments, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return posts, nil
}

func (r *PostgresRepository) AdjustLikeCount(ctx context.Context, id string, delta int64) error {
	query :=
		`UPDATE posts SET likes = GREATEST(likes + $2, 0)
		 WHERE id = $1
		 `

	return r.exec(ctx, query, id, delta)
}

func (r *PostgresRepository) AdjustCommentCount(ctx context.Context, id string, delta int64) error {
	query :=
		`UPDATE posts SET comments = GREATEST(comments + $2, 0)
		 WHERE id = $1
		 `

	return r.exec(ctx, query, id, delta)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM posts
		 WHERE id = $1
		 `

	return r.exec(ctx, query, id)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
