package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type FollowStore struct {
	db *sqlx.DB
}

func NewFollowStore(db *sqlx.DB) *FollowStore {
	return &FollowStore{db: db}
}

// Add creates the (follower, following) row. A duplicate follow is a
// no-op, not an error.
func (s *FollowStore) Add(ctx context.Context, followerID, followingID int64) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"INSERT INTO follows (follower_id, following_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		followerID, followingID,
	)
	if err != nil {
		return fmt.Errorf("insert follow: %w", err)
	}
	return nil
}

// Remove deletes the follow row and reports whether one existed.
func (s *FollowStore) Remove(ctx context.Context, followerID, followingID int64) (bool, error) {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"DELETE FROM follows WHERE follower_id = $1 AND following_id = $2",
		followerID, followingID,
	)
	if err != nil {
		return false, fmt.Errorf("delete follow: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete follow rows affected: %w", err)
	}
	return affected > 0, nil
}

func (s *FollowStore) Exists(ctx context.Context, followerID, followingID int64) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &exists,
		"SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)",
		followerID, followingID,
	)
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return exists, nil
}
