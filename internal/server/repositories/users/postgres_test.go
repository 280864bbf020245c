package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/secretspace/secretspace/internal/common"
	"github.com/secretspace/secretspace/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestUpsert_InsertsAndReturnsDefaults(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(external_id,\s*email,\s*username,\s*full_name,\s*image\).*ON\s+CONFLICT\s*\(external_id\)\s+DO\s+UPDATE.*RETURNING\s+id,\s*posts,\s*searchable,\s*email_notifications\s*$`

	rows := sqlmock.NewRows([]string{"id", "posts", "searchable", "email_notifications"}).
		AddRow("u-1", int64(0), true, true)
	mock.ExpectQuery(q).
		WithArgs("clerk-1", "a@b.com", "alice", "Alice A", "http://img").
		WillReturnRows(rows)

	u := &models.User{ExternalID: "clerk-1", Email: "a@b.com", Username: "alice", FullName: "Alice A", Image: "http://img"}
	got, err := repo.Upsert(context.Background(), u)
	if err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	if got.ID != "u-1" || !got.Searchable || !got.EmailNotifications {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUpsert_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Upsert(context.Background(), &models.User{ExternalID: "clerk-1"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByExternalID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "external_id", "email", "username", "full_name", "image", "posts", "searchable", "email_notifications"}).
		AddRow("u-1", "clerk-1", "a@b.com", "alice", "Alice A", "", int64(3), true, false)
	mock.ExpectQuery(`SELECT .* FROM\s+users\s+WHERE\s+external_id\s*=\s*\$1`).
		WithArgs("clerk-1").
		WillReturnRows(rows)

	got, err := repo.GetByExternalID(context.Background(), "clerk-1")
	if err != nil {
		t.Fatalf("GetByExternalID error: %v", err)
	}
	if got.Email != "a@b.com" || got.Posts != 3 || got.EmailNotifications {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM\s+users\s+WHERE\s+email\s*=\s*\$1`).
		WithArgs("ghost@b.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@b.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestSearchByEmail_FiltersUnsearchableInQuery(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "email", "username", "full_name", "image"}).
		AddRow("u-1", "a@b.com", "alice", "Alice A", "").
		AddRow("u-2", "ab@b.com", "abe", "Abe B", "http://img")
	mock.ExpectQuery(`(?s)SELECT .* FROM\s+users\s+WHERE\s+email\s+LIKE\s+\$1\s*\|\|\s*'%'\s+AND\s+searchable`).
		WithArgs("a").
		WillReturnRows(rows)

	got, err := repo.SearchByEmail(context.Background(), "a")
	if err != nil {
		t.Fatalf("SearchByEmail error: %v", err)
	}
	if len(got) != 2 || got[0].Email != "a@b.com" || got[1].Username != "abe" {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestUpdateSettings_NoRowsMeansNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+searchable`).
		WithArgs("u-404", false, true).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateSettings(context.Background(), "u-404", false, true)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestAdjustPostCount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET\s+posts\s*=\s*GREATEST\(posts\s*\+\s*\$2,\s*0\)`).
		WithArgs("u-1", int64(-1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.AdjustPostCount(context.Background(), "u-1", -1); err != nil {
		t.Fatalf("AdjustPostCount error: %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "u-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}
