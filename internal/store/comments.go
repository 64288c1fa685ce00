package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Comment is a free-text note attached to a catalog entity. Comments are
// immutable once created.
type Comment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	TargetID   string    `json:"targetId"`
	TargetKind string    `json:"targetKind"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateComment persists a comment with a server-assigned id and timestamp
// and returns the id.
func (s *Store) CreateComment(ctx context.Context, userID, targetID, targetKind, text string) (string, error) {
	id := uuid.New().String()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, user_id, target_id, target_kind, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, userID, targetID, targetKind, text, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("insert comment: %w", err)
	}

	return id, nil
}

// CommentsByTarget lists all comments for a target in insertion order. The
// order is part of the contract: the seq column grows monotonically with
// each insert and the result is never re-sorted.
func (s *Store) CommentsByTarget(ctx context.Context, targetID string) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, target_id, target_kind, body, created_at
		FROM comments
		WHERE target_id = $1
		ORDER BY seq ASC
	`, targetID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.TargetID, &c.TargetKind, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}
