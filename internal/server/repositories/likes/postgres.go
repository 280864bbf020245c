package likes

import (
	"context"
	"fmt"

	"github.com/secretspace/secretspace/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Exists(ctx context.Context, userID, postID string) (bool, error) {
	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM likes WHERE user_id = $1 AND post_id = $2
		 )`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, postID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) Create(ctx context.Context, userID, postID string) error {
	query :=
		`INSERT INTO likes (user_id, post_id)
		 VALUES ($1, $2)
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, postID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, postID string) error {
	query :=
		`DELETE FROM likes
		 WHERE user_id = $1 AND post_id = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, postID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByPost(ctx context.Context, postID string) error {
	query :=
		`DELETE FROM likes
		 WHERE post_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, postID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	query :=
		`DELETE FROM likes
		 WHERE user_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
