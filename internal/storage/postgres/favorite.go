package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// FavoriteStore manages the (article, user) favorite join rows. The
// composite primary key plus ON CONFLICT DO NOTHING makes both toggles
// idempotent under concurrent requests.
type FavoriteStore struct {
	db *sqlx.DB
}

func NewFavoriteStore(db *sqlx.DB) *FavoriteStore {
	return &FavoriteStore{db: db}
}

func (s *FavoriteStore) Add(ctx context.Context, articleID, userID int64) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"INSERT INTO favorites (article_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		articleID, userID,
	)
	if err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

func (s *FavoriteStore) Remove(ctx context.Context, articleID, userID int64) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"DELETE FROM favorites WHERE article_id = $1 AND user_id = $2",
		articleID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}
