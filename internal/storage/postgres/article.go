package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"conduit/internal/domain"
)

type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

type articleRow struct {
	ID             int64     `db:"id"`
	Slug           string    `db:"slug"`
	Title          string    `db:"title"`
	Description    string    `db:"description"`
	Body           string    `db:"body"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	AuthorID       int64     `db:"author_id"`
	AuthorUsername string    `db:"username"`
	AuthorBio      *string   `db:"bio"`
	AuthorImage    *string   `db:"image"`
	FavoritesCount int       `db:"favorites_count"`
	Favorited      bool      `db:"favorited"`
	Following      bool      `db:"following"`
}

func (r articleRow) toDomain() domain.Article {
	return domain.Article{
		ID:             r.ID,
		Slug:           r.Slug,
		Title:          r.Title,
		Description:    r.Description,
		Body:           r.Body,
		TagList:        []string{},
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Favorited:      r.Favorited,
		FavoritesCount: r.FavoritesCount,
		AuthorID:       r.AuthorID,
		Author: domain.Profile{
			Username:  r.AuthorUsername,
			Bio:       r.AuthorBio,
			Image:     r.AuthorImage,
			Following: r.Following,
		},
	}
}

// selectArticles builds the shared projection: article columns, author
// profile, favorites count, and the viewer-relative favorited/following
// flags. An anonymous viewer gets constant FALSE for both flags.
func (s *ArticleStore) selectArticles(viewerID *int64) sq.SelectBuilder {
	b := sq.Select(
		"a.id", "a.slug", "a.title", "a.description", "a.body",
		"a.created_at", "a.updated_at", "a.author_id",
		"u.username", "u.bio", "u.image",
	).
		Column(sq.Expr("(SELECT COUNT(*) FROM favorites f WHERE f.article_id = a.id) AS favorites_count")).
		From("articles a").
		Join("users u ON u.id = a.author_id").
		PlaceholderFormat(sq.Dollar)

	if viewerID != nil {
		b = b.
			Column(sq.Expr("EXISTS(SELECT 1 FROM favorites f WHERE f.article_id = a.id AND f.user_id = ?) AS favorited", *viewerID)).
			Column(sq.Expr("EXISTS(SELECT 1 FROM follows w WHERE w.follower_id = ? AND w.following_id = a.author_id) AS following", *viewerID))
	} else {
		b = b.
			Column("FALSE AS favorited").
			Column("FALSE AS following")
	}

	return b
}

func filterPredicates(f domain.ArticleFilter) []sq.Sqlizer {
	preds := make([]sq.Sqlizer, 0, 3)
	if f.Tag != "" {
		preds = append(preds, sq.Expr(
			"EXISTS(SELECT 1 FROM article_tags t WHERE t.article_id = a.id AND t.tag = ?)", f.Tag))
	}
	if f.Author != "" {
		preds = append(preds, sq.Eq{"u.username": f.Author})
	}
	if f.Favorited != "" {
		preds = append(preds, sq.Expr(
			"EXISTS(SELECT 1 FROM favorites f2 JOIN users fu ON fu.id = f2.user_id WHERE f2.article_id = a.id AND fu.username = ?)", f.Favorited))
	}
	return preds
}

// List returns a page of the global feed plus the total number of
// articles matching the filters (not the page length). Ordering is
// created_at DESC, id DESC so pagination is deterministic.
func (s *ArticleStore) List(ctx context.Context, viewerID *int64, f domain.ArticleFilter) ([]domain.Article, int, error) {
	f.Normalize()
	preds := filterPredicates(f)

	b := s.selectArticles(viewerID)
	for _, p := range preds {
		b = b.Where(p)
	}
	b = b.
		OrderBy("a.created_at DESC", "a.id DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	articles, err := s.queryArticles(ctx, b)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}

	cb := sq.Select("COUNT(*)").
		From("articles a").
		Join("users u ON u.id = a.author_id").
		PlaceholderFormat(sq.Dollar)
	for _, p := range preds {
		cb = cb.Where(p)
	}

	query, args, err := cb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &total, query, args...); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	return articles, total, nil
}

// Feed returns a page of articles authored by users the viewer follows,
// newest first, plus the total count of such articles.
func (s *ArticleStore) Feed(ctx context.Context, viewerID int64, limit, offset int) ([]domain.Article, int, error) {
	f := domain.ArticleFilter{Limit: limit, Offset: offset}
	f.Normalize()

	followed := sq.Expr(
		"EXISTS(SELECT 1 FROM follows w2 WHERE w2.follower_id = ? AND w2.following_id = a.author_id)", viewerID)

	b := s.selectArticles(&viewerID).
		Where(followed).
		OrderBy("a.created_at DESC", "a.id DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))

	articles, err := s.queryArticles(ctx, b)
	if err != nil {
		return nil, 0, fmt.Errorf("feed articles: %w", err)
	}

	query, args, err := sq.Select("COUNT(*)").
		From("articles a").
		Where(followed).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build feed count query: %w", err)
	}

	var total int
	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &total, query, args...); err != nil {
		return nil, 0, fmt.Errorf("count feed articles: %w", err)
	}

	return articles, total, nil
}

func (s *ArticleStore) GetBySlug(ctx context.Context, viewerID *int64, slug string) (*domain.Article, error) {
	query, args, err := s.selectArticles(viewerID).
		Where(sq.Eq{"a.slug": slug}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build article query: %w", err)
	}

	var row articleRow
	err = sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get article by slug: %w", err)
	}

	article := row.toDomain()
	if err := s.attachTags(ctx, []*domain.Article{&article}); err != nil {
		return nil, err
	}
	return &article, nil
}

func (s *ArticleStore) Create(ctx context.Context, article *domain.Article) error {
	query := `
		INSERT INTO articles (slug, title, description, body, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		article.Slug,
		article.Title,
		article.Description,
		article.Body,
		article.AuthorID,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// Update changes the mutable fields only. The slug is immutable after
// creation, so a title change never rewrites it.
func (s *ArticleStore) Update(ctx context.Context, article *domain.Article) error {
	query := `
		UPDATE articles
		SET title = $1, description = $2, body = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`

	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		article.Title,
		article.Description,
		article.Body,
		article.ID,
	).Scan(&article.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

func (s *ArticleStore) Delete(ctx context.Context, id int64) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete article rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *ArticleStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &exists,
		"SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1)", slug)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

func (s *ArticleStore) queryArticles(ctx context.Context, b sq.SelectBuilder) ([]domain.Article, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []articleRow
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query, args...); err != nil {
		return nil, err
	}

	articles := make([]domain.Article, len(rows))
	refs := make([]*domain.Article, len(rows))
	for i, r := range rows {
		articles[i] = r.toDomain()
		refs[i] = &articles[i]
	}

	if err := s.attachTags(ctx, refs); err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *ArticleStore) attachTags(ctx context.Context, articles []*domain.Article) error {
	if len(articles) == 0 {
		return nil
	}

	ids := make([]int64, len(articles))
	byID := make(map[int64]*domain.Article, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
		byID[a.ID] = a
	}

	rows, err := GetExecutor(ctx, s.db).QueryContext(ctx,
		"SELECT article_id, tag FROM article_tags WHERE article_id = ANY($1) ORDER BY tag",
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("query article tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var articleID int64
		var tag string
		if err := rows.Scan(&articleID, &tag); err != nil {
			return fmt.Errorf("scan article tag: %w", err)
		}
		if a := byID[articleID]; a != nil {
			a.TagList = append(a.TagList, tag)
		}
	}
	return rows.Err()
}
