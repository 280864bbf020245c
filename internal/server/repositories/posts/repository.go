package posts

import (
	"context"

	"github.com/secretspace/secretspace/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// Feed returns posts newest first with authors joined, excluding
	// excludeUserID's own posts when non-empty.
	Feed(ctx context.Context, excludeUserID string) ([]*models.FeedPost, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Post, error)
	AdjustLikeCount(ctx context.Context, id string, delta int64) error
	AdjustCommentCount(ctx context.Context, id string, delta int64) error
	Delete(ctx context.Context, id string) error
}
