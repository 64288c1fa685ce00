package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCreateComment(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO comments (id, user_id, target_id, target_kind, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)).
		WithArgs(sqlmock.AnyArg(), "u-1", "A1", "artist", "great live", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := s.CreateComment(context.Background(), "u-1", "A1", "artist", "great live")
	if err != nil {
		t.Fatalf("CreateComment error: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty comment id")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCommentsByTargetKeepsInsertionOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, user_id, target_id, target_kind, body, created_at
		FROM comments
		WHERE target_id = $1
		ORDER BY seq ASC
	`)).
		WithArgs("A1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "target_id", "target_kind", "body", "created_at",
		}).
			AddRow("c-1", "u-1", "A1", "artist", "first", now).
			AddRow("c-2", "u-2", "A1", "artist", "second", now).
			AddRow("c-3", "u-1", "A1", "artist", "third", now))

	comments, err := s.CommentsByTarget(context.Background(), "A1")
	if err != nil {
		t.Fatalf("CommentsByTarget error: %v", err)
	}

	if len(comments) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(comments))
	}
	for i, want := range []string{"first", "second", "third"} {
		if comments[i].Text != want {
			t.Fatalf("comment %d: expected %q, got %q", i, want, comments[i].Text)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
