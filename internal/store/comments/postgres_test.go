package comments

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/avolkov/pawshare/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestSelectAll_OldestFirstWithAuthor(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "post_id", "profile_id", "content", "created_at", "username", "avatar_url"}).
		AddRow("c-1", "p-1", "acc-2", "what a good boy", now.Add(-time.Minute), "bob", "").
		AddRow("c-2", "p-1", "acc-1", "thanks!", now, "alice", "http://cdn/a.png")

	mock.ExpectQuery(`(?s)SELECT.*FROM\s+post_comments\s+c\s+JOIN\s+profiles\s+pr\s+ON\s+pr\.id\s*=\s*c\.profile_id\s+ORDER\s+BY\s+c\.created_at\s+ASC`).
		WillReturnRows(rows)

	got, err := repo.SelectAll(context.Background())
	if err != nil {
		t.Fatalf("SelectAll error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(got))
	}
	if got[0].AuthorUsername != "bob" || got[1].Content != "thanks!" {
		t.Fatalf("unexpected comments: %+v", got)
	}
}

func TestCreate_FillsGeneratedFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Now()
	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+post_comments.*RETURNING\s+id,\s*created_at`).
		WithArgs("p-1", "acc-1", "what a good boy").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("c-7", created))

	c := &models.Comment{PostID: "p-1", ProfileID: "acc-1", Content: "what a good boy"}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if c.ID != "c-7" || !c.CreatedAt.Equal(created) {
		t.Fatalf("generated fields not filled: %+v", c)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	cause := errors.New("db down")
	mock.ExpectQuery(`INSERT\s+INTO\s+post_comments`).
		WithArgs("p-1", "acc-1", "hello").
		WillReturnError(cause)

	err := repo.Create(context.Background(), &models.Comment{PostID: "p-1", ProfileID: "acc-1", Content: "hello"})
	if err == nil || !errors.Is(err, cause) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
