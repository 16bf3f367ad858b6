package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"conduit/internal/domain"
)

// Article event actions published on mutations.
const (
	ArticleCreated = "created"
	ArticleUpdated = "updated"
	ArticleDeleted = "deleted"
)

type ArticleService struct {
	articles  ArticleStore
	favorites FavoriteStore
	comments  CommentStore
	tags      TagStore
	txManager TransactionManager
	publisher Publisher
	logger    *slog.Logger
}

func NewArticleService(
	articles ArticleStore,
	favorites FavoriteStore,
	comments CommentStore,
	tags TagStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
) *ArticleService {
	return &ArticleService{
		articles:  articles,
		favorites: favorites,
		comments:  comments,
		tags:      tags,
		txManager: txManager,
		publisher: publisher,
		logger:    logger,
	}
}

type ArticleInput struct {
	Title       string
	Description string
	Body        string
	TagList     []string
}

// ArticleUpdate carries a partial update; nil fields are left untouched.
type ArticleUpdate struct {
	Title       *string
	Description *string
	Body        *string
}

func (s *ArticleService) List(ctx context.Context, viewerID *int64, f domain.ArticleFilter) ([]domain.Article, int, error) {
	return s.articles.List(ctx, viewerID, f)
}

func (s *ArticleService) Feed(ctx context.Context, viewerID int64, limit, offset int) ([]domain.Article, int, error) {
	return s.articles.Feed(ctx, viewerID, limit, offset)
}

func (s *ArticleService) Get(ctx context.Context, viewerID *int64, slug string) (*domain.Article, error) {
	return s.articles.GetBySlug(ctx, viewerID, slug)
}

func (s *ArticleService) Create(ctx context.Context, authorID int64, input ArticleInput) (*domain.Article, error) {
	if err := validateArticleInput(input); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, input.Title)
	if err != nil {
		return nil, err
	}

	article := &domain.Article{
		Slug:        slug,
		Title:       input.Title,
		Description: input.Description,
		Body:        input.Body,
		AuthorID:    authorID,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.articles.Create(txCtx, article); err != nil {
			return fmt.Errorf("create article: %w", err)
		}
		if len(input.TagList) > 0 {
			if err := s.tags.ReplaceForArticle(txCtx, article.ID, input.TagList); err != nil {
				return fmt.Errorf("set article tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.articles.GetBySlug(ctx, &authorID, slug)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, created, ArticleCreated)
	return created, nil
}

func (s *ArticleService) Update(ctx context.Context, viewerID int64, slug string, update ArticleUpdate) (*domain.Article, error) {
	article, err := s.articles.GetBySlug(ctx, &viewerID, slug)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != viewerID {
		return nil, domain.ErrForbidden
	}

	if update.Title != nil {
		article.Title = *update.Title
	}
	if update.Description != nil {
		article.Description = *update.Description
	}
	if update.Body != nil {
		article.Body = *update.Body
	}
	if article.Title == "" {
		return nil, domain.Invalid("title", "can't be blank")
	}

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}

	updated, err := s.articles.GetBySlug(ctx, &viewerID, slug)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, updated, ArticleUpdated)
	return updated, nil
}

func (s *ArticleService) Delete(ctx context.Context, viewerID int64, slug string) error {
	article, err := s.articles.GetBySlug(ctx, &viewerID, slug)
	if err != nil {
		return err
	}
	if article.AuthorID != viewerID {
		return domain.ErrForbidden
	}

	if err := s.articles.Delete(ctx, article.ID); err != nil {
		return err
	}

	s.publish(ctx, article, ArticleDeleted)
	return nil
}

// Favorite marks the article as favorited by the viewer. Repeating the
// call is a no-op: the row insert is idempotent and the returned count
// reflects the stored state, not the request.
func (s *ArticleService) Favorite(ctx context.Context, viewerID int64, slug string) (*domain.Article, error) {
	article, err := s.articles.GetBySlug(ctx, &viewerID, slug)
	if err != nil {
		return nil, err
	}

	if err := s.favorites.Add(ctx, article.ID, viewerID); err != nil {
		return nil, err
	}

	return s.articles.GetBySlug(ctx, &viewerID, slug)
}

func (s *ArticleService) Unfavorite(ctx context.Context, viewerID int64, slug string) (*domain.Article, error) {
	article, err := s.articles.GetBySlug(ctx, &viewerID, slug)
	if err != nil {
		return nil, err
	}

	if err := s.favorites.Remove(ctx, article.ID, viewerID); err != nil {
		return nil, err
	}

	return s.articles.GetBySlug(ctx, &viewerID, slug)
}

func (s *ArticleService) AddComment(ctx context.Context, viewerID int64, slug, body string) (*domain.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, domain.Invalid("body", "can't be blank")
	}

	article, err := s.articles.GetBySlug(ctx, &viewerID, slug)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ArticleID: article.ID,
		AuthorID:  viewerID,
		Body:      body,
	}
	if err := s.comments.Add(ctx, comment); err != nil {
		return nil, err
	}

	full, err := s.comments.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	return full, nil
}

func (s *ArticleService) ListComments(ctx context.Context, viewerID *int64, slug string) ([]domain.Comment, error) {
	article, err := s.articles.GetBySlug(ctx, viewerID, slug)
	if err != nil {
		return nil, err
	}
	return s.comments.ListByArticle(ctx, viewerID, article.ID)
}

func (s *ArticleService) DeleteComment(ctx context.Context, viewerID, commentID int64) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != viewerID {
		return domain.ErrForbidden
	}
	return s.comments.Delete(ctx, commentID)
}

func (s *ArticleService) Tags(ctx context.Context) ([]string, error) {
	return s.tags.List(ctx)
}

// publish is fire-and-forget: event delivery never fails the request.
func (s *ArticleService) publish(ctx context.Context, article *domain.Article, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishArticle(ctx, article, action); err != nil {
		s.logger.Error("publish article event failed",
			"slug", article.Slug,
			"action", action,
			"error", err,
		)
	}
}

// uniqueSlug slugifies the title and, on collision, appends a random
// suffix. The slug never changes after creation.
func (s *ArticleService) uniqueSlug(ctx context.Context, title string) (string, error) {
	slug := slugify(title)

	exists, err := s.articles.SlugExists(ctx, slug)
	if err != nil {
		return "", err
	}
	if !exists {
		return slug, nil
	}
	return slug + "-" + uuid.NewString()[:8], nil
}

func slugify(title string) string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			lastDash = false
		case !lastDash:
			sb.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(sb.String(), "-")
}

func validateArticleInput(input ArticleInput) error {
	errs := domain.NewValidationError()
	if strings.TrimSpace(input.Title) == "" {
		errs.Add("title", "can't be blank")
	}
	if strings.TrimSpace(input.Description) == "" {
		errs.Add("description", "can't be blank")
	}
	if strings.TrimSpace(input.Body) == "" {
		errs.Add("body", "can't be blank")
	}
	if errs.Empty() {
		return nil
	}
	return errs
}
