package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/secretspace/secretspace/internal/common"
	"github.com/secretspace/secretspace/internal/dbx"
	"github.com/secretspace/secretspace/internal/mailx"
	"github.com/secretspace/secretspace/internal/server/models"
	"github.com/secretspace/secretspace/internal/server/repositories/repomanager"
)

// UserService manages the user directory: identity-provider sync, profile and
// settings updates, recipient search and account deletion.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	posts       *PostService
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, posts *PostService) *UserService {
	return &UserService{db: db, repomanager: m, posts: posts}
}

// Sync upserts the directory record from identity-provider claims. Called on
// every sign-in, so profile fields follow the provider.
func (s *UserService) Sync(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ExternalID == "" || user.Email == "" {
		return nil, common.ErrorValidation
	}
	user.Email = mailx.Normalize(user.Email)

	repo := s.repomanager.Users(s.db)
	u, err := repo.Upsert(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error syncing user: %w", err)
	}
	return u, nil
}

// Get returns the directory record for an external id.
func (s *UserService) Get(ctx context.Context, externalID string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	u, err := repo.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return u, nil
}

// UpdateProfile changes the editable profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, externalID, fullName, username, image string) error {
	repo := s.repomanager.Users(s.db)
	u, err := repo.GetByExternalID(ctx, externalID)
	if err != nil {
		return fmt.Errorf("error getting user: %w", err)
	}
	if err := repo.UpdateProfile(ctx, u.ID, fullName, username, image); err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}
	return nil
}

// UpdateSettings toggles discoverability and email notifications.
func (s *UserService) UpdateSettings(ctx context.Context, externalID string, searchable, emailNotifications bool) error {
	repo := s.repomanager.Users(s.db)
	u, err := repo.GetByExternalID(ctx, externalID)
	if err != nil {
		return fmt.Errorf("error getting user: %w", err)
	}
	if err := repo.UpdateSettings(ctx, u.ID, searchable, emailNotifications); err != nil {
		return fmt.Errorf("error updating settings: %w", err)
	}
	return nil
}

// Search finds searchable users by email prefix, excluding the caller so
// nobody sends a secret message to themselves by accident.
func (s *UserService) Search(ctx context.Context, callerEmail, prefix string) ([]*models.UserSearchResult, error) {
	prefix = mailx.Normalize(prefix)
	if prefix == "" {
		return nil, common.ErrorValidation
	}
	callerEmail = mailx.Normalize(callerEmail)

	repo := s.repomanager.Users(s.db)
	found, err := repo.SearchByEmail(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("error searching users: %w", err)
	}

	results := make([]*models.UserSearchResult, 0, len(found))
	for _, r := range found {
		if r.Email == callerEmail {
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

// DeleteAccount removes the user and everything attached to them. Posts go
// first through the post cascade, which also deletes their stored images;
// likes and comments left on other posts, secret messages sent and received,
// and the user row itself then go in one transaction.
func (s *UserService) DeleteAccount(ctx context.Context, externalID string) error {
	userRepo := s.repomanager.Users(s.db)
	user, err := userRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error getting user: %w", err)
	}

	if err := s.posts.DeleteAllByUser(ctx, externalID); err != nil {
		return fmt.Errorf("error deleting posts: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		likeRepo := s.repomanager.Likes(tx)
		commentRepo := s.repomanager.Comments(tx)
		msgRepo := s.repomanager.Messages(tx)

		if err := likeRepo.DeleteByUser(ctx, user.ID); err != nil {
			return err
		}
		if err := commentRepo.DeleteByUser(ctx, user.ID); err != nil {
			return err
		}
		if err := msgRepo.DeleteBySender(ctx, externalID); err != nil {
			return err
		}
		if err := msgRepo.DeleteByRecipient(ctx, user.Email); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, user.ID)
	})
	if err != nil {
		return fmt.Errorf("error deleting account: %w", err)
	}
	return nil
}
