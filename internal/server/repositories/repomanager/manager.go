// Package repomanager builds repository instances over a shared database
// handle. Repositories are created per call against a dbx.DBTX, so the same
// factory serves both plain and transactional access.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/secretspace/secretspace/internal/dbx"
	"github.com/secretspace/secretspace/internal/server/repositories/comments"
	"github.com/secretspace/secretspace/internal/server/repositories/feedback"
	"github.com/secretspace/secretspace/internal/server/repositories/likes"
	"github.com/secretspace/secretspace/internal/server/repositories/messages"
	"github.com/secretspace/secretspace/internal/server/repositories/posts"
	"github.com/secretspace/secretspace/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Messages(db dbx.DBTX) messages.Repository
	Posts(db dbx.DBTX) posts.Repository
	Likes(db dbx.DBTX) likes.Repository
	Comments(db dbx.DBTX) comments.Repository
	Feedback(db dbx.DBTX) feedback.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
