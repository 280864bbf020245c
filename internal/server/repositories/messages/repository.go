package messages

import (
	"context"

	"github.com/secretspace/secretspace/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, msg *models.SecretMessage) (*models.SecretMessage, error)

	// Claim is the single-shot retrieval primitive: it deletes the record
	// addressed to recipientEmail and not yet expired at nowMillis, and
	// returns the prior row. A conditional delete makes retrieval atomic,
	// so two concurrent readers can never both see the plaintext.
	// common.ErrorNotFound means no row matched all three conditions.
	Claim(ctx context.Context, uuid, recipientEmail string, nowMillis int64) (*models.SecretMessage, error)

	// ExistsUnexpired reports whether a live record with this uuid exists,
	// regardless of recipient. Used only to tell "wrong recipient" apart
	// from "expired or already viewed" after a failed claim.
	ExistsUnexpired(ctx context.Context, uuid string, nowMillis int64) (bool, error)

	ListInbox(ctx context.Context, recipientEmail string, nowMillis int64) ([]*models.InboxItem, error)
	ListBySender(ctx context.Context, senderExternalID string) ([]*models.SecretMessage, error)

	// DeleteExpired removes every record past expiry and returns the count.
	DeleteExpired(ctx context.Context, nowMillis int64) (int64, error)

	DeleteBySender(ctx context.Context, senderExternalID string) error
	DeleteByRecipient(ctx context.Context, recipientEmail string) error
}
