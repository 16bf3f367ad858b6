package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

type TagStore struct {
	db *sqlx.DB
}

func NewTagStore(db *sqlx.DB) *TagStore {
	return &TagStore{db: db}
}

// List returns every distinct tag in use, alphabetically.
func (s *TagStore) List(ctx context.Context) ([]string, error) {
	tags := []string{}
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &tags,
		"SELECT DISTINCT tag FROM article_tags ORDER BY tag")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// ReplaceForArticle swaps an article's tag set for the given one.
func (s *TagStore) ReplaceForArticle(ctx context.Context, articleID int64, tags []string) error {
	ex := GetExecutor(ctx, s.db)

	_, err := ex.ExecContext(ctx,
		"DELETE FROM article_tags WHERE article_id = $1",
		articleID,
	)
	if err != nil {
		return fmt.Errorf("clear article tags: %w", err)
	}

	if len(tags) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO article_tags (article_id, tag) VALUES ")
	valueArgs := make([]interface{}, 0, len(tags)+1)
	valueArgs = append(valueArgs, articleID)

	for i, tag := range tags {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($1, $%d)", i+2)
		valueArgs = append(valueArgs, tag)
	}
	sb.WriteString(" ON CONFLICT DO NOTHING")

	if _, err := ex.ExecContext(ctx, sb.String(), valueArgs...); err != nil {
		return fmt.Errorf("insert article tags: %w", err)
	}
	return nil
}
