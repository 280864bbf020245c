package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/secretspace/secretspace/internal/common"
	"github.com/secretspace/secretspace/internal/logging"
	"github.com/secretspace/secretspace/internal/mailx"
	"github.com/secretspace/secretspace/internal/server/config"
	"github.com/secretspace/secretspace/internal/server/models"
	"github.com/secretspace/secretspace/internal/server/repositories/repomanager"
)

// MessageService implements the secret message lifecycle: create with
// notification dispatch, one-time claim, inbox and sent listings.
//
// Content is opaque to the service. Encryption and decryption happen on the
// client, so nothing here can read a message body.
type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
	dispatcher  Dispatcher
	logger      logging.Logger

	// now is epoch milliseconds, swappable in tests.
	now func() int64
	// notifyAsync runs the notification dispatch; the default detaches it
	// from the request so delivery can never delay or fail a create.
	notifyAsync func(f func())
}

func NewMessageService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, d Dispatcher, logger logging.Logger) *MessageService {
	return &MessageService{
		db:          db,
		repomanager: m,
		config:      cfg,
		dispatcher:  d,
		logger:      logger,
		now:         func() int64 { return time.Now().UnixMilli() },
		notifyAsync: func(f func()) { go f() },
	}
}

// CreateResult is returned to the sender after a successful create.
type CreateResult struct {
	Message *models.SecretMessage
	// ShareLink is the one-time view URL handed to the sender.
	ShareLink string
}

// Create persists an already-encrypted message and kicks off the recipient
// notification. expiresAt must be in the future; the TTL choice itself is a
// client concern.
func (s *MessageService) Create(ctx context.Context, senderExternalID string, msg *models.SecretMessage) (*CreateResult, error) {
	if msg.UUID == "" || msg.EncryptedContent == "" || msg.RecipientEmail == "" {
		return nil, common.ErrorValidation
	}
	if msg.ExpiresAt <= s.now() {
		return nil, common.ErrorValidation
	}

	sender, err := s.repomanager.Users(s.db).GetByExternalID(ctx, senderExternalID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error resolving sender: %w", err)
	}

	msg.UserID = sender.ID
	msg.SenderExternalID = senderExternalID
	msg.RecipientEmail = mailx.Normalize(msg.RecipientEmail)

	repo := s.repomanager.Messages(s.db)
	created, err := repo.Create(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("error creating message: %w", err)
	}

	s.notifyAsync(func() { s.notifyRecipient(created.RecipientEmail) })

	return &CreateResult{
		Message:   created,
		ShareLink: fmt.Sprintf("%s/secret-messages/%s", s.config.BaseURL, created.UUID),
	}, nil
}

// notifyRecipient looks up the recipient's profile for personalization and
// dispatches the email. Unknown recipients still get a generic notification;
// recipients who opted out get nothing. Failures are logged only, the sender
// never learns the outcome.
func (s *MessageService) notifyRecipient(recipientEmail string) {
	ctx := context.Background()

	n := Notification{ToEmail: recipientEmail}

	userRepo := s.repomanager.Users(s.db)
	user, err := userRepo.GetByEmail(ctx, recipientEmail)
	switch {
	case err == nil:
		if !user.EmailNotifications {
			return
		}
		n.FirstName, n.LastName = mailx.SplitFullName(user.FullName)
		n.ProfileImage = user.Image
	case errors.Is(err, common.ErrorNotFound):
		// not registered yet, send unpersonalized
	default:
		s.logger.Error(ctx, "recipient lookup failed", "error", err)
		return
	}

	id, err := s.dispatcher.Notify(ctx, n)
	if err != nil {
		s.logger.Error(ctx, "notification failed", "recipient", recipientEmail, "error", err)
		return
	}
	s.logger.Info(ctx, "notification sent", "recipient", recipientEmail, "id", id)
}

// Claim atomically removes the message and returns it, so each message is
// revealed at most once even under concurrent requests. When nothing matches,
// a follow-up existence probe separates "addressed to someone else" from
// "gone or expired".
func (s *MessageService) Claim(ctx context.Context, recipientEmail, uuid string) (*models.SecretMessage, error) {
	recipientEmail = mailx.Normalize(recipientEmail)
	nowMillis := s.now()

	repo := s.repomanager.Messages(s.db)
	msg, err := repo.Claim(ctx, uuid, recipientEmail, nowMillis)
	if err == nil {
		return msg, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error claiming message: %w", err)
	}

	exists, probeErr := repo.ExistsUnexpired(ctx, uuid, nowMillis)
	if probeErr != nil {
		return nil, fmt.Errorf("error claiming message: %w", probeErr)
	}
	if exists {
		return nil, common.ErrWrongRecipient
	}
	return nil, common.ErrMessageNotFoundOrExpired
}

// Inbox lists live messages addressed to the caller. Only navigation fields
// are returned; the ciphertext stays server-side until a claim.
func (s *MessageService) Inbox(ctx context.Context, recipientEmail string) ([]*models.InboxItem, error) {
	repo := s.repomanager.Messages(s.db)
	items, err := repo.ListInbox(ctx, mailx.Normalize(recipientEmail), s.now())
	if err != nil {
		return nil, fmt.Errorf("error listing inbox: %w", err)
	}
	return items, nil
}

// Sent lists messages the caller created, including ones already expired or
// claimed out of existence elsewhere.
func (s *MessageService) Sent(ctx context.Context, senderExternalID string) ([]*models.SecretMessage, error) {
	repo := s.repomanager.Messages(s.db)
	msgs, err := repo.ListBySender(ctx, senderExternalID)
	if err != nil {
		return nil, fmt.Errorf("error listing sent messages: %w", err)
	}
	return msgs, nil
}

// DeleteExpired removes every lapsed message and returns the count. The
// sweeper calls this on a timer; it is safe to run concurrently.
func (s *MessageService) DeleteExpired(ctx context.Context) (int64, error) {
	repo := s.repomanager.Messages(s.db)
	n, err := repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("error deleting expired messages: %w", err)
	}
	return n, nil
}
