package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/secretspace/secretspace/internal/common"
	"github.com/secretspace/secretspace/internal/server/models"
)

func newUserService(db *sql.DB, rm *fakeRepoManager) *UserService {
	return NewUserService(db, rm, NewPostService(db, rm, nil, nopLogger{}))
}

func TestUserSync(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	rm := newFakeRepoManager()
	svc := newUserService(db, rm)

	_, err := svc.Sync(context.Background(), &models.User{Email: "a@b.com"})
	if !errors.Is(err, common.ErrorValidation) {
		t.Errorf("missing external id: expected validation error, got %v", err)
	}

	u, err := svc.Sync(context.Background(), &models.User{
		ExternalID: "ext-1",
		Email:      " Jane@Example.COM ",
		FullName:   "Jane Doe",
	})
	if err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if u.Email != "jane@example.com" {
		t.Errorf("email not normalized: %q", u.Email)
	}
	if rm.u.upserted == nil {
		t.Error("upsert not called")
	}
}

func TestUserSearch_ExcludesCaller(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	rm := newFakeRepoManager()
	rm.u.searchOut = []*models.UserSearchResult{
		{ID: "1", Email: "caller@x.com"},
		{ID: "2", Email: "callee@x.com"},
	}
	svc := newUserService(db, rm)

	res, err := svc.Search(context.Background(), "Caller@X.com", "call")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(res) != 1 || res[0].Email != "callee@x.com" {
		t.Errorf("caller not excluded: %+v", res)
	}
}

func TestUserSearch_EmptyPrefix(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	svc := newUserService(db, newFakeRepoManager())

	_, err := svc.Search(context.Background(), "c@x.com", "   ")
	if !errors.Is(err, common.ErrorValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestUserUpdateProfileAndSettings(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	rm := newFakeRepoManager()
	rm.u.byExternalID["ext-1"] = &models.User{ID: "id-1"}
	svc := newUserService(db, rm)

	if err := svc.UpdateProfile(context.Background(), "ext-1", "Jane Doe", "jane", ""); err != nil {
		t.Errorf("UpdateProfile error: %v", err)
	}
	if err := svc.UpdateSettings(context.Background(), "ext-1", false, true); err != nil {
		t.Errorf("UpdateSettings error: %v", err)
	}
	if rm.u.profileCalls != 1 || rm.u.settingsCalls != 1 {
		t.Errorf("repo calls: profile=%d settings=%d", rm.u.profileCalls, rm.u.settingsCalls)
	}
}

func TestUserDeleteAccount(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.u.byExternalID["ext-1"] = &models.User{ID: "id-1", ExternalID: "ext-1", Email: "jane@x.com"}
	rm.p.listOut = []*models.Post{{ID: "p1", UserID: "id-1"}, {ID: "p2", UserID: "id-1"}}
	svc := newUserService(db, rm)

	// post cascade runs in its own transaction first
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	if err := svc.DeleteAccount(context.Background(), "ext-1"); err != nil {
		t.Fatalf("DeleteAccount error: %v", err)
	}

	if got := rm.p.deletedIDs; len(got) != 2 {
		t.Errorf("posts deleted = %v", got)
	}
	if len(rm.l.deletedByPost) != 2 || len(rm.c.deletedByPost) != 2 {
		t.Errorf("cascades missed: likes=%v comments=%v", rm.l.deletedByPost, rm.c.deletedByPost)
	}
	if len(rm.m.deletedSenders) != 1 || rm.m.deletedSenders[0] != "ext-1" {
		t.Errorf("sent messages not removed: %v", rm.m.deletedSenders)
	}
	if len(rm.m.deletedRecipients) != 1 || rm.m.deletedRecipients[0] != "jane@x.com" {
		t.Errorf("received messages not removed: %v", rm.m.deletedRecipients)
	}
	if len(rm.u.deletedIDs) != 1 || rm.u.deletedIDs[0] != "id-1" {
		t.Errorf("user row not removed: %v", rm.u.deletedIDs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("tx expectations: %v", err)
	}
}

func TestUserDeleteAccount_RollsBackOnError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.u.byExternalID["ext-1"] = &models.User{ID: "id-1", Email: "jane@x.com"}
	svc := newUserService(db, rm)

	mock.ExpectBegin().WillReturnError(sqlmock.ErrCancelled)

	if err := svc.DeleteAccount(context.Background(), "ext-1"); err == nil {
		t.Error("expected error when transaction cannot start")
	}
}

func TestUserDeleteAccount_RemovesStoredImages(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	stubS3(t)

	origDel := deleteS3Object
	t.Cleanup(func() { deleteS3Object = origDel })
	var deletedKeys []string
	deleteS3Object = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		deletedKeys = append(deletedKeys, *in.Key)
		return &s3.DeleteObjectOutput{}, nil
	}

	rm := newFakeRepoManager()
	rm.u.byExternalID["ext-1"] = &models.User{ID: "id-1", ExternalID: "ext-1", Email: "jane@x.com"}
	rm.p.listOut = []*models.Post{
		{ID: "p1", UserID: "id-1", StorageKey: "uploads/2026/9/1/a"},
		{ID: "p2", UserID: "id-1", Text: "no image"},
	}
	posts := NewPostService(db, rm, newStorageService(), nopLogger{})
	svc := NewUserService(db, rm, posts)

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	if err := svc.DeleteAccount(context.Background(), "ext-1"); err != nil {
		t.Fatalf("DeleteAccount error: %v", err)
	}
	if len(deletedKeys) != 1 || deletedKeys[0] != "uploads/2026/9/1/a" {
		t.Errorf("stored objects deleted = %v", deletedKeys)
	}
}
