package comments

import (
	"context"

	"github.com/secretspace/secretspace/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	DeleteByPost(ctx context.Context, postID string) error
	DeleteByUser(ctx context.Context, userID string) error
}
