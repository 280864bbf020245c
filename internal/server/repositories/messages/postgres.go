package messages

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

func (r *PostgresRepository) Create(ctx context.Context, msg *models.SecretMessage) (*models.SecretMessage, error) {

	query :=
		`INSERT INTO secret_messages (uuid, user_id, sender_external_id, encrypted_content, expires_at, recipient_email)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		msg.UUID, msg.UserID, msg.SenderExternalID, msg.EncryptedContent,
		msg.ExpiresAt, msg.RecipientEmail).Scan(&msg.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return msg, nil
}

func (r *PostgresRepository) Claim(ctx context.Context, uuid, recipientEmail string, nowMillis int64) (*models.SecretMessage, error) {
	query :=
		`DELETE FROM secret_messages
		 WHERE uuid = $1 AND recipient_email = $2 AND expires_at > $3
		 RETURNING id, uuid, user_id, sender_external_id, encrypted_content, expires_at, recipient_email
		 `

	msg := &models.SecretMessage{}
	err := r.db.QueryRowContext(ctx, query, uuid, recipientEmail, nowMillis).Scan(
		&msg.ID, &msg.UUID, &msg.UserID, &msg.SenderExternalID,
		&msg.EncryptedContent, &msg.ExpiresAt, &msg.RecipientEmail)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return msg, nil
}

func (r *PostgresRepository) ExistsUnexpired(ctx context.Context, uuid string, nowMillis int64) (bool, error) {
	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM secret_messages WHERE uuid = $1 AND expires_at > $2
		 )`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, uuid, nowMillis).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

// ListInbox projects away the ciphertext and sender fields: the inbox view
// exists for navigation only and must not be able to preview content.
func (r *PostgresRepository) ListInbox(ctx context.Context, recipientEmail string, nowMillis int64) ([]*models.InboxItem, error) {
	query :=
		`SELECT id, uuid, expires_at FROM secret_messages
		 WHERE recipient_email = $1 AND expires_at > $2
		 ORDER BY expires_at
		 `

	rows, err := r.db.QueryContext(ctx, query, recipientEmail, nowMillis)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var items []*models.InboxItem
	for rows.Next() {
		item := &models.InboxItem{}
		if err := rows.Scan(&item.ID, &item.UUID, &item.ExpiresAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return items, nil
}

func (r *PostgresRepository) ListBySender(ctx context.Context, senderExternalID string) ([]*models.SecretMessage, error) {
	query :=
		`SELECT id, uuid, user_id, sender_external_id, encrypted_content, expires_at, recipient_email
		 FROM secret_messages
		 WHERE sender_external_id = $1
		 ORDER BY expires_at
		 `

	rows, err := r.db.QueryContext(ctx, query, senderExternalID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var msgs []*models.SecretMessage
	for rows.Next() {
		msg := &models.SecretMessage{}
		if err := rows.Scan(&msg.ID, &msg.UUID, &msg.UserID, &msg.SenderExternalID,
			&msg.EncryptedContent, &msg.ExpiresAt, &msg.RecipientEmail); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return msgs, nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, nowMillis int64) (int64, error) {
	query :=
		`DELETE FROM secret_messages
		 WHERE expires_at < $1
		 `

	res, err := r.db.ExecContext(ctx, query, nowMillis)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return deleted, nil
}

func (r *PostgresRepository) DeleteBySender(ctx context.Context, senderExternalID string) error {
	query :=
		`DELETE FROM secret_messages
		 WHERE sender_external_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, senderExternalID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByRecipient(ctx context.Context, recipientEmail string) error {
	query :=
		`DELETE FROM secret_messages
		 WHERE recipient_email = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, recipientEmail); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
