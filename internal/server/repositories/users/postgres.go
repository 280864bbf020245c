package users

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

func (r *PostgresRepository) Upsert(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (external_id, email, username, full_name, image)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (external_id) DO UPDATE
		 SET email = EXCLUDED.email, username = EXCLUDED.username,
		     full_name = EXCLUDED.full_name, image = EXCLUDED.image
		 RETURNING id, posts, searchable, email_notifications
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ExternalID, user.Email, user.Username, user.FullName, user.Image).
		Scan(&user.ID, &user.Posts, &user.Searchable, &user.EmailNotifications)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	query :=
		`SELECT id, external_id, email, username, full_name, image, posts, searchable, email_notifications
		 FROM users
		 WHERE external_id = $1
		 `

	return r.getOne(ctx, query, externalID)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, external_id, email, username, full_name, image, posts, searchable, email_notifications
		 FROM users
		 WHERE email = $1
		 `

	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.ExternalID, &user.Email, &user.Username, &user.FullName,
		&user.Image, &user.Posts, &user.Searchable, &user.EmailNotifications)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// SearchByEmail returns discoverable users whose email starts with prefix.
// Users with searchable = false never appear; excluding the caller is the
// service's job.
func (r *PostgresRepository) SearchByEmail(ctx context.Context, prefix string) ([]*models.UserSearchResult, error) {
	query :=
		`SELECT id, email, username, full_name, image
		 FROM users
		 WHERE email LIKE $1 || '%' AND searchable
		 ORDER BY email
		 `

	rows, err := r.db.QueryContext(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var results []*models.UserSearchResult
	for rows.Next() {
		u := &models.UserSearchResult{}
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.FullName, &u.Image); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		results = append(results, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return results, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id, fullName, username, image string) error {
	query :=
		`UPDATE users SET full_name = $2, username = $3, image = $4
		 WHERE id = $1
		 `

	return r.exec(ctx, query, id, fullName, username, image)
}

func (r *PostgresRepository) UpdateSettings(ctx context.Context, id string, searchable, emailNotifications bool) error {
	query :=
		`UPDATE users SET searchable = $2, email_notifications = $3
		 WHERE id = $1
		 `

	return r.exec(ctx, query, id, searchable, emailNotifications)
}

// AdjustPostCount shifts the lifetime post counter, clamped at zero.
func (r *PostgresRepository) AdjustPostCount(ctx context.Context, id string, delta int64) error {
	query :=
		`UPDATE users SET posts = GREATEST(posts + $2, 0)
		 WHERE id = $1
		 `

	return r.exec(ctx, query, id, delta)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM users
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
