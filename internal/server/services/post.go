package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/secretspace/secretspace/internal/common"
	"github.com/secretspace/secretspace/internal/dbx"
	"github.com/secretspace/secretspace/internal/logging"
	"github.com/secretspace/secretspace/internal/server/models"
	"github.com/secretspace/secretspace/internal/server/repositories/repomanager"
)

// anonymousAuthor is attached to feed posts whose author record is gone.
var anonymousAuthor = models.PostAuthor{Username: "Anonymous"}

// PostService implements the confession feed: posts, likes and comments.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     *StorageService
	logger      logging.Logger
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, storage *StorageService, logger logging.Logger) *PostService {
	return &PostService{db: db, repomanager: m, storage: storage, logger: logger}
}

func (s *PostService) resolveUser(ctx context.Context, externalID string) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error resolving user: %w", err)
	}
	return u, nil
}

// resolveImageURL swaps a post's storage key for a short-lived presigned GET
// URL so the stored image is viewable. Resolution failures leave ImageURL
// untouched; a broken image beats a broken feed.
func (s *PostService) resolveImageURL(ctx context.Context, post *models.Post) {
	if post.StorageKey == "" || s.storage == nil {
		return
	}
	url, err := s.storage.GetPresignedGetURL(ctx, post.StorageKey)
	if err != nil {
		s.logger.Warn(ctx, "stored image not resolved", "key", post.StorageKey, "error", err)
		return
	}
	post.ImageURL = url
}

// Create stores a confession and bumps the author's lifetime counter in the
// same transaction.
func (s *PostService) Create(ctx context.Context, externalID string, post *models.Post) (*models.Post, error) {
	if post.ImageURL == "" && post.StorageKey == "" && post.Text == "" {
		return nil, common.ErrorValidation
	}

	user, err := s.resolveUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	post.UserID = user.ID

	var created *models.Post
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var txErr error
		created, txErr = s.repomanager.Posts(tx).Create(ctx, post)
		if txErr != nil {
			return txErr
		}
		return s.repomanager.Users(tx).AdjustPostCount(ctx, user.ID, 1)
	})
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	s.resolveImageURL(ctx, created)
	return created, nil
}

// Feed returns posts newest first with authors attached. The caller's own
// posts are excluded when callerExternalID resolves to a known user; posts
// whose author is gone are shown as Anonymous. Images uploaded through the
// presigned flow are resolved to fresh GET URLs at read time, since the URLs
// expire.
func (s *PostService) Feed(ctx context.Context, callerExternalID string) ([]*models.FeedPost, error) {
	excludeUserID := ""
	if callerExternalID != "" {
		user, err := s.repomanager.Users(s.db).GetByExternalID(ctx, callerExternalID)
		if err == nil {
			excludeUserID = user.ID
		} else if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("error resolving caller: %w", err)
		}
	}

	feed, err := s.repomanager.Posts(s.db).Feed(ctx, excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("error loading feed: %w", err)
	}
	for _, p := range feed {
		if p.Author.ID == "" {
			p.Author = anonymousAuthor
		}
		s.resolveImageURL(ctx, &p.Post)
	}
	return feed, nil
}

// ToggleLike likes the post if the caller has not, unlikes otherwise, and
// returns the resulting liked state. Counter and like row move together.
func (s *PostService) ToggleLike(ctx context.Context, externalID, postID string) (bool, error) {
	user, err := s.resolveUser(ctx, externalID)
	if err != nil {
		return false, err
	}

	if _, err := s.repomanager.Posts(s.db).GetByID(ctx, postID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, common.ErrorNotFound
		}
		return false, fmt.Errorf("error getting post: %w", err)
	}

	var liked bool
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		likeRepo := s.repomanager.Likes(tx)
		postRepo := s.repomanager.Posts(tx)

		exists, err := likeRepo.Exists(ctx, user.ID, postID)
		if err != nil {
			return err
		}
		if exists {
			if err := likeRepo.Delete(ctx, user.ID, postID); err != nil {
				return err
			}
			liked = false
			return postRepo.AdjustLikeCount(ctx, postID, -1)
		}
		if err := likeRepo.Create(ctx, user.ID, postID); err != nil {
			return err
		}
		liked = true
		return postRepo.AdjustLikeCount(ctx, postID, 1)
	})
	if err != nil {
		return false, fmt.Errorf("error toggling like: %w", err)
	}
	return liked, nil
}

// AddComment stores a comment and bumps the post's comment counter.
func (s *PostService) AddComment(ctx context.Context, externalID, postID, content string) (*models.Comment, error) {
	if content == "" {
		return nil, common.ErrorValidation
	}
	user, err := s.resolveUser(ctx, externalID)
	if err != nil {
		return nil, err
	}

	var created *models.Comment
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var txErr error
		created, txErr = s.repomanager.Comments(tx).Create(ctx, &models.Comment{
			UserID:  user.ID,
			PostID:  postID,
			Content: content,
		})
		if txErr != nil {
			return txErr
		}
		return s.repomanager.Posts(tx).AdjustCommentCount(ctx, postID, 1)
	})
	if err != nil {
		return nil, fmt.Errorf("error adding comment: %w", err)
	}
	return created, nil
}

// ListComments returns the post's comments with author info, oldest first.
func (s *PostService) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	comments, err := s.repomanager.Comments(s.db).ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	return comments, nil
}

// Delete removes the caller's own post together with its likes, comments and
// stored image, and decrements the author's counter.
func (s *PostService) Delete(ctx context.Context, externalID, postID string) error {
	user, err := s.resolveUser(ctx, externalID)
	if err != nil {
		return err
	}

	post, err := s.repomanager.Posts(s.db).GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error getting post: %w", err)
	}
	if post.UserID != user.ID {
		return common.ErrorNotOwner
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Likes(tx).DeleteByPost(ctx, postID); err != nil {
			return err
		}
		if err := s.repomanager.Comments(tx).DeleteByPost(ctx, postID); err != nil {
			return err
		}
		if err := s.repomanager.Posts(tx).Delete(ctx, postID); err != nil {
			return err
		}
		return s.repomanager.Users(tx).AdjustPostCount(ctx, user.ID, -1)
	})
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}

	if post.StorageKey != "" && s.storage != nil {
		if err := s.storage.DeleteObject(ctx, post.StorageKey); err != nil {
			s.logger.Warn(ctx, "stored image not removed", "key", post.StorageKey, "error", err)
		}
	}
	return nil
}

// DeleteAllByUser removes every post the user authored, with cascades.
func (s *PostService) DeleteAllByUser(ctx context.Context, externalID string) error {
	user, err := s.resolveUser(ctx, externalID)
	if err != nil {
		return err
	}

	posts, err := s.repomanager.Posts(s.db).ListByUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("error listing posts: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, p := range posts {
			if err := s.repomanager.Likes(tx).DeleteByPost(ctx, p.ID); err != nil {
				return err
			}
			if err := s.repomanager.Comments(tx).DeleteByPost(ctx, p.ID); err != nil {
				return err
			}
			if err := s.repomanager.Posts(tx).Delete(ctx, p.ID); err != nil {
				return err
			}
		}
		return s.repomanager.Users(tx).AdjustPostCount(ctx, user.ID, -int64(len(posts)))
	})
	if err != nil {
		return fmt.Errorf("error deleting posts: %w", err)
	}

	for _, p := range posts {
		if p.StorageKey == "" || s.storage == nil {
			continue
		}
		if err := s.storage.DeleteObject(ctx, p.StorageKey); err != nil {
			s.logger.Warn(ctx, "stored image not removed", "key", p.StorageKey, "error", err)
		}
	}
	return nil
}
