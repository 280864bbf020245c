package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/secretspace/secretspace/internal/common"
	"github.com/secretspace/secretspace/internal/dbx"
	"github.com/secretspace/secretspace/internal/logging"
	"github.com/secretspace/secretspace/internal/server/models"
	commentsrepo "github.com/secretspace/secretspace/internal/server/repositories/comments"
	feedbackrepo "github.com/secretspace/secretspace/internal/server/repositories/feedback"
	likesrepo "github.com/secretspace/secretspace/internal/server/repositories/likes"
	messagesrepo "github.com/secretspace/secretspace/internal/server/repositories/messages"
	postsrepo "github.com/secretspace/secretspace/internal/server/repositories/posts"
	usersrepo "github.com/secretspace/secretspace/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	byExternalID map[string]*models.User
	byEmail      map[string]*models.User
	searchOut    []*models.UserSearchResult
	searchErr    error

	upserted      *models.User
	upsertErr     error
	deletedIDs    []string
	postCountLog  []int64
	profileCalls  int
	settingsCalls int
}

func (f *fakeUsersRepo) Upsert(ctx context.Context, u *models.User) (*models.User, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	f.upserted = u
	return u, nil
}
func (f *fakeUsersRepo) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	if u, ok := f.byExternalID[externalID]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}
func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}
func (f *fakeUsersRepo) SearchByEmail(ctx context.Context, prefix string) ([]*models.UserSearchResult, error) {
	return f.searchOut, f.searchErr
}
func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, id, fullName, username, image string) error {
	f.profileCalls++
	return nil
}
func (f *fakeUsersRepo) UpdateSettings(ctx context.Context, id string, searchable, emailNotifications bool) error {
	f.settingsCalls++
	return nil
}
func (f *fakeUsersRepo) AdjustPostCount(ctx context.Context, id string, delta int64) error {
	f.postCountLog = append(f.postCountLog, delta)
	return nil
}
func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

type fakeMessagesRepo struct {
	createOut *models.SecretMessage
	createErr error

	claimOut *models.SecretMessage
	claimErr error

	exists    bool
	existsErr error

	inboxOut []*models.InboxItem
	sentOut  []*models.SecretMessage

	deletedExpired    int64
	deletedSenders    []string
	deletedRecipients []string
}

func (f *fakeMessagesRepo) Create(ctx context.Context, m *models.SecretMessage) (*models.SecretMessage, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return m, nil
}
func (f *fakeMessagesRepo) Claim(ctx context.Context, uuid, recipientEmail string, nowMillis int64) (*models.SecretMessage, error) {
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	return f.claimOut, nil
}
func (f *fakeMessagesRepo) ExistsUnexpired(ctx context.Context, uuid string, nowMillis int64) (bool, error) {
	return f.exists, f.existsErr
}
func (f *fakeMessagesRepo) ListInbox(ctx context.Context, recipientEmail string, nowMillis int64) ([]*models.InboxItem, error) {
	return f.inboxOut, nil
}
func (f *fakeMessagesRepo) ListBySender(ctx context.Context, senderExternalID string) ([]*models.SecretMessage, error) {
	return f.sentOut, nil
}
func (f *fakeMessagesRepo) DeleteExpired(ctx context.Context, nowMillis int64) (int64, error) {
	return f.deletedExpired, nil
}
func (f *fakeMessagesRepo) DeleteBySender(ctx context.Context, senderExternalID string) error {
	f.deletedSenders = append(f.deletedSenders, senderExternalID)
	return nil
}
func (f *fakeMessagesRepo) DeleteByRecipient(ctx context.Context, recipientEmail string) error {
	f.deletedRecipients = append(f.deletedRecipients, recipientEmail)
	return nil
}

type fakePostsRepo struct {
	createOut *models.Post
	createErr error

	byID    map[string]*models.Post
	feedOut []*models.FeedPost
	feedErr error
	listOut []*models.Post

	likeDeltas    []int64
	commentDeltas []int64
	deletedIDs    []string
}

func (f *fakePostsRepo) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return p, nil
}
func (f *fakePostsRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, common.ErrorNotFound
}
func (f *fakePostsRepo) Feed(ctx context.Context, excludeUserID string) ([]*models.FeedPost, error) {
	return f.feedOut, f.feedErr
}
func (f *fakePostsRepo) ListByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	return f.listOut, nil
}
func (f *fakePostsRepo) AdjustLikeCount(ctx context.Context, id string, delta int64) error {
	f.likeDeltas = append(f.likeDeltas, delta)
	return nil
}
func (f *fakePostsRepo) AdjustCommentCount(ctx context.Context, id string, delta int64) error {
	f.commentDeltas = append(f.commentDeltas, delta)
	return nil
}
func (f *fakePostsRepo) Delete(ctx context.Context, id string) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

type fakeLikesRepo struct {
	exists bool

	created        []string
	deleted        []string
	deletedByPost  []string
	deletedByUsers []string
}

func (f *fakeLikesRepo) Exists(ctx context.Context, userID, postID string) (bool, error) {
	return f.exists, nil
}
func (f *fakeLikesRepo) Create(ctx context.Context, userID, postID string) error {
	f.created = append(f.created, postID)
	return nil
}
func (f *fakeLikesRepo) Delete(ctx context.Context, userID, postID string) error {
	f.deleted = append(f.deleted, postID)
	return nil
}
func (f *fakeLikesRepo) DeleteByPost(ctx context.Context, postID string) error {
	f.deletedByPost = append(f.deletedByPost, postID)
	return nil
}
func (f *fakeLikesRepo) DeleteByUser(ctx context.Context, userID string) error {
	f.deletedByUsers = append(f.deletedByUsers, userID)
	return nil
}

type fakeCommentsRepo struct {
	createOut *models.Comment
	listOut   []*models.Comment
	listErr   error

	deletedByPost  []string
	deletedByUsers []string
}

func (f *fakeCommentsRepo) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	if f.createOut != nil {
		return f.createOut, nil
	}
	return c, nil
}
func (f *fakeCommentsRepo) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	return f.listOut, f.listErr
}
func (f *fakeCommentsRepo) DeleteByPost(ctx context.Context, postID string) error {
	f.deletedByPost = append(f.deletedByPost, postID)
	return nil
}
func (f *fakeCommentsRepo) DeleteByUser(ctx context.Context, userID string) error {
	f.deletedByUsers = append(f.deletedByUsers, userID)
	return nil
}

type fakeFeedbackRepo struct {
	feedbackOut *models.Feedback
	feedbackErr error
	reportOut   *models.IssueReport
	reportErr   error
}

func (f *fakeFeedbackRepo) CreateFeedback(ctx context.Context, fb *models.Feedback) (*models.Feedback, error) {
	if f.feedbackErr != nil {
		return nil, f.feedbackErr
	}
	if f.feedbackOut != nil {
		return f.feedbackOut, nil
	}
	return fb, nil
}
func (f *fakeFeedbackRepo) CreateIssueReport(ctx context.Context, r *models.IssueReport) (*models.IssueReport, error) {
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	if f.reportOut != nil {
		return f.reportOut, nil
	}
	return r, nil
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	m  *fakeMessagesRepo
	p  *fakePostsRepo
	l  *fakeLikesRepo
	c  *fakeCommentsRepo
	fb *fakeFeedbackRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u:  &fakeUsersRepo{byExternalID: map[string]*models.User{}, byEmail: map[string]*models.User{}},
		m:  &fakeMessagesRepo{},
		p:  &fakePostsRepo{byID: map[string]*models.Post{}},
		l:  &fakeLikesRepo{},
		c:  &fakeCommentsRepo{},
		fb: &fakeFeedbackRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Messages(db dbx.DBTX) messagesrepo.Repository { return m.m }
func (m *fakeRepoManager) Posts(db dbx.DBTX) postsrepo.Repository       { return m.p }
func (m *fakeRepoManager) Likes(db dbx.DBTX) likesrepo.Repository       { return m.l }
func (m *fakeRepoManager) Comments(db dbx.DBTX) commentsrepo.Repository { return m.c }
func (m *fakeRepoManager) Feedback(db dbx.DBTX) feedbackrepo.Repository { return m.fb }

type nopLogger struct{}

func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (l nopLogger) With(args ...any) logging.Logger                  { return l }

// fakeDispatcher records notifications instead of sending them.
type fakeDispatcher struct {
	sent []Notification
	err  error
}

func (f *fakeDispatcher) Notify(ctx context.Context, n Notification) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, n)
	return "msg-id", nil
}
