package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"conduit/internal/domain"
)

type CommentStore struct {
	db *sqlx.DB
}

func NewCommentStore(db *sqlx.DB) *CommentStore {
	return &CommentStore{db: db}
}

type commentRow struct {
	ID             int64     `db:"id"`
	ArticleID      int64     `db:"article_id"`
	AuthorID       int64     `db:"author_id"`
	Body           string    `db:"body"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	AuthorUsername string    `db:"username"`
	AuthorBio      *string   `db:"bio"`
	AuthorImage    *string   `db:"image"`
	Following      bool      `db:"following"`
}

func (r commentRow) toDomain() domain.Comment {
	return domain.Comment{
		ID:        r.ID,
		ArticleID: r.ArticleID,
		AuthorID:  r.AuthorID,
		Body:      r.Body,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Author: domain.Profile{
			Username:  r.AuthorUsername,
			Bio:       r.AuthorBio,
			Image:     r.AuthorImage,
			Following: r.Following,
		},
	}
}

func (s *CommentStore) Add(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (article_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		comment.ArticleID,
		comment.AuthorID,
		comment.Body,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// ListByArticle returns an article's comments, oldest first, with the
// author's following flag computed against the viewer.
func (s *CommentStore) ListByArticle(ctx context.Context, viewerID *int64, articleID int64) ([]domain.Comment, error) {
	query := `
		SELECT c.id, c.article_id, c.author_id, c.body, c.created_at, c.updated_at,
		       u.username, u.bio, u.image,
		       CASE WHEN $2::bigint IS NULL THEN FALSE
		            ELSE EXISTS(SELECT 1 FROM follows w WHERE w.follower_id = $2 AND w.following_id = c.author_id)
		       END AS following
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.article_id = $1
		ORDER BY c.created_at ASC, c.id ASC`

	var rows []commentRow
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query, articleID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments := make([]domain.Comment, len(rows))
	for i, r := range rows {
		comments[i] = r.toDomain()
	}
	return comments, nil
}

func (s *CommentStore) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	query := `
		SELECT c.id, c.article_id, c.author_id, c.body, c.created_at, c.updated_at,
		       u.username, u.bio, u.image, FALSE AS following
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1`

	var row commentRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}

	comment := row.toDomain()
	return &comment, nil
}

func (s *CommentStore) Delete(ctx context.Context, id int64) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete comment rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
