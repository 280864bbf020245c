package comments

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
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

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Now()
	q := `(?s)INSERT\s+INTO\s+comments\s*\(user_id,\s*post_id,\s*content\).*RETURNING\s+id,\s*created_at`
	mock.ExpectQuery(q).
		WithArgs("u-1", "p-1", "nice one").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("c-1", created))

	got, err := repo.Create(context.Background(), &models.Comment{
		UserID: "u-1", PostID: "p-1", Content: "nice one",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "c-1" || !got.CreatedAt.Equal(created) {
		t.Errorf("unexpected comment: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+comments`).WillReturnError(errors.New("db down"))

	if _, err := repo.Create(context.Background(), &models.Comment{}); err == nil {
		t.Error("expected error")
	}
}

func TestListByPost(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)SELECT\s+c\.id.*FROM\s+comments\s+c\s+LEFT\s+JOIN\s+users\s+u.*WHERE\s+c\.post_id\s*=\s*\$1\s+ORDER\s+BY\s+c\.created_at`

	rows := sqlmock.NewRows([]string{"id", "user_id", "post_id", "content", "created_at", "username", "image"}).
		AddRow("c-1", "u-1", "p-1", "first", time.Now(), "jane", "https://img").
		AddRow("c-2", "", "p-1", "orphaned", time.Now(), "", "")
	mock.ExpectQuery(q).WithArgs("p-1").WillReturnRows(rows)

	got, err := repo.ListByPost(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("ListByPost error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].AuthorUsername != "jane" {
		t.Errorf("author not joined: %+v", got[0])
	}
	if got[1].UserID != "" || got[1].AuthorUsername != "" {
		t.Errorf("orphaned comment should have empty author: %+v", got[1])
	}
}

func TestDeleteByPostAndUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+comments\s+WHERE\s+post_id\s*=\s*\$1`).
		WithArgs("p-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE\s+FROM\s+comments\s+WHERE\s+user_id\s*=\s*\$1`).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteByPost(context.Background(), "p-1"); err != nil {
		t.Fatalf("DeleteByPost error: %v", err)
	}
	if err := repo.DeleteByUser(context.Background(), "u-1"); err != nil {
		t.Fatalf("DeleteByUser error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
