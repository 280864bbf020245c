// Package httpapi exposes the public HTTP surface: user directory, secret
// messages, the confession feed, uploads and feedback.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/secretspace/secretspace/internal/logging"
	"github.com/secretspace/secretspace/internal/server/config"
	"github.com/secretspace/secretspace/internal/server/models"
	"github.com/secretspace/secretspace/internal/server/services"
)

// The provider interfaces mirror the service layer so handlers can be tested
// against fakes.

type UserProvider interface {
	Sync(ctx context.Context, user *models.User) (*models.User, error)
	Get(ctx context.Context, externalID string) (*models.User, error)
	UpdateProfile(ctx context.Context, externalID, fullName, username, image string) error
	UpdateSettings(ctx context.Context, externalID string, searchable, emailNotifications bool) error
	Search(ctx context.Context, callerEmail, prefix string) ([]*models.UserSearchResult, error)
	DeleteAccount(ctx context.Context, externalID string) error
}

type MessageProvider interface {
	Create(ctx context.Context, senderExternalID string, msg *models.SecretMessage) (*services.CreateResult, error)
	Claim(ctx context.Context, recipientEmail, uuid string) (*models.SecretMessage, error)
	Inbox(ctx context.Context, recipientEmail string) ([]*models.InboxItem, error)
	Sent(ctx context.Context, senderExternalID string) ([]*models.SecretMessage, error)
}

type PostProvider interface {
	Create(ctx context.Context, externalID string, post *models.Post) (*models.Post, error)
	Feed(ctx context.Context, callerExternalID string) ([]*models.FeedPost, error)
	ToggleLike(ctx context.Context, externalID, postID string) (bool, error)
	AddComment(ctx context.Context, externalID, postID, content string) (*models.Comment, error)
	ListComments(ctx context.Context, postID string) ([]*models.Comment, error)
	Delete(ctx context.Context, externalID, postID string) error
}

type UploadProvider interface {
	GetPresignedPutURL(ctx context.Context) (string, string, error)
}

type FeedbackProvider interface {
	SubmitFeedback(ctx context.Context, callerExternalID string, fb *models.Feedback) (*models.Feedback, error)
	ReportIssue(ctx context.Context, callerExternalID string, report *models.IssueReport) (*models.IssueReport, error)
}

type Server struct {
	config   *config.Config
	logger   logging.Logger
	users    UserProvider
	messages MessageProvider
	posts    PostProvider
	uploads  UploadProvider
	feedback FeedbackProvider
}

func NewServer(cfg *config.Config, logger logging.Logger,
	users UserProvider, messages MessageProvider, posts PostProvider,
	uploads UploadProvider, feedback FeedbackProvider) *Server {
	return &Server{
		config:   cfg,
		logger:   logger,
		users:    users,
		messages: messages,
		posts:    posts,
		uploads:  uploads,
		feedback: feedback,
	}
}

// Router builds the gin engine with all public routes mounted.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	open := api.Group("", s.optionalAuth())
	open.GET("/posts", s.handleFeed)
	open.GET("/posts/:id/comments", s.handleListComments)
	open.POST("/feedback", s.handleSubmitFeedback)
	open.POST("/reports", s.handleReportIssue)

	authed := api.Group("", s.requireAuth())
	authed.POST("/users/sync", s.handleUserSync)
	authed.GET("/users/me", s.handleUserMe)
	authed.PUT("/users/me", s.handleUpdateProfile)
	authed.PUT("/users/me/settings", s.handleUpdateSettings)
	authed.DELETE("/users/me", s.handleDeleteAccount)
	authed.GET("/users/search", s.handleUserSearch)

	authed.POST("/secret-messages", s.handleCreateMessage)
	authed.POST("/secret-messages/:uuid/claim", s.handleClaimMessage)
	authed.GET("/secret-messages/inbox", s.handleInbox)
	authed.GET("/secret-messages/sent", s.handleSent)

	authed.POST("/posts", s.handleCreatePost)
	authed.DELETE("/posts/:id", s.handleDeletePost)
	authed.POST("/posts/:id/like", s.handleToggleLike)
	authed.POST("/posts/:id/comments", s.handleAddComment)

	authed.POST("/uploads", s.handleCreateUpload)

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.config.EndpointAddr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info(ctx, "http server started", "addr", s.config.EndpointAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	}
}
