package users

import (
	"context"

	"github.com/secretspace/secretspace/internal/server/models"
)

type Repository interface {
	// Upsert creates the user on first sign-in or refreshes profile fields
	// on subsequent identity-provider syncs, keyed by external id.
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SearchByEmail(ctx context.Context, prefix string) ([]*models.UserSearchResult, error)
	UpdateProfile(ctx context.Context, id, fullName, username, image string) error
	UpdateSettings(ctx context.Context, id string, searchable, emailNotifications bool) error
	AdjustPostCount(ctx context.Context, id string, delta int64) error
	Delete(ctx context.Context, id string) error
}
