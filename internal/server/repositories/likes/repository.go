package likes

import "context"

type Repository interface {
	// Exists reports whether the user already likes the post.
	Exists(ctx context.Context, userID, postID string) (bool, error)
	Create(ctx context.Context, userID, postID string) error
	Delete(ctx context.Context, userID, postID string) error
	DeleteByPost(ctx context.Context, postID string) error
	DeleteByUser(ctx context.Context, userID string) error
}
