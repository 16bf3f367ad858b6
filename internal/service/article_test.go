package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"conduit/internal/domain"
	"conduit/internal/service/mocks"
)

type ArticleServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	articles  *mocks.MockArticleStore
	favorites *mocks.MockFavoriteStore
	comments  *mocks.MockCommentStore
	tags      *mocks.MockTagStore
	txManager *mocks.MockTransactionManager
	publisher *mocks.MockPublisher

	service *ArticleService
	logger  *slog.Logger
}

func (s *ArticleServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.articles = mocks.NewMockArticleStore(s.ctrl)
	s.favorites = mocks.NewMockFavoriteStore(s.ctrl)
	s.comments = mocks.NewMockCommentStore(s.ctrl)
	s.tags = mocks.NewMockTagStore(s.ctrl)
	s.txManager = mocks.NewMockTransactionManager(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)

	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.service = NewArticleService(
		s.articles,
		s.favorites,
		s.comments,
		s.tags,
		s.txManager,
		s.publisher,
		s.logger,
	)
}

func (s *ArticleServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestArticleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ArticleServiceTestSuite))
}

func (s *ArticleServiceTestSuite) TestCreate_WithTags() {
	ctx := context.Background()
	authorID := int64(7)

	input := ArticleInput{
		Title:       "How to Train Your Dragon",
		Description: "Ever wonder how?",
		Body:        "You have to believe",
		TagList:     []string{"dragons", "training"},
	}

	s.articles.EXPECT().SlugExists(ctx, "how-to-train-your-dragon").Return(false, nil)

	s.txManager.EXPECT().WithTransaction(ctx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)

	s.articles.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, article *domain.Article) error {
			s.Equal("how-to-train-your-dragon", article.Slug)
			s.Equal(authorID, article.AuthorID)
			article.ID = 42
			return nil
		},
	)

	s.tags.EXPECT().ReplaceForArticle(ctx, int64(42), []string{"dragons", "training"}).Return(nil)

	created := &domain.Article{
		ID:       42,
		Slug:     "how-to-train-your-dragon",
		Title:    input.Title,
		AuthorID: authorID,
		TagList:  []string{"dragons", "training"},
	}
	s.articles.EXPECT().GetBySlug(ctx, &authorID, "how-to-train-your-dragon").Return(created, nil)

	s.publisher.EXPECT().PublishArticle(ctx, created, ArticleCreated).Return(nil)

	got, err := s.service.Create(ctx, authorID, input)

	s.NoError(err)
	s.Equal(created, got)
}

func (s *ArticleServiceTestSuite) TestCreate_SlugCollision() {
	ctx := context.Background()
	authorID := int64(7)

	input := ArticleInput{
		Title:       "How to Train Your Dragon",
		Description: "Ever wonder how?",
		Body:        "You have to believe",
	}

	s.articles.EXPECT().SlugExists(ctx, "how-to-train-your-dragon").Return(true, nil)

	var slug string
	s.txManager.EXPECT().WithTransaction(ctx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)
	s.articles.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, article *domain.Article) error {
			slug = article.Slug
			s.True(strings.HasPrefix(slug, "how-to-train-your-dragon-"))
			s.Len(slug, len("how-to-train-your-dragon-")+8)
			article.ID = 43
			return nil
		},
	)
	s.articles.EXPECT().GetBySlug(ctx, &authorID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *int64, got string) (*domain.Article, error) {
			s.Equal(slug, got)
			return &domain.Article{ID: 43, Slug: got, AuthorID: authorID}, nil
		},
	)
	s.publisher.EXPECT().PublishArticle(ctx, gomock.Any(), ArticleCreated).Return(nil)

	_, err := s.service.Create(ctx, authorID, input)

	s.NoError(err)
}

func (s *ArticleServiceTestSuite) TestCreate_MissingFields() {
	_, err := s.service.Create(context.Background(), 7, ArticleInput{})

	ve, ok := domain.AsValidation(err)
	s.True(ok)
	s.Contains(ve.Fields, "title")
	s.Contains(ve.Fields, "description")
	s.Contains(ve.Fields, "body")
}

func (s *ArticleServiceTestSuite) TestUpdate_NotOwner() {
	ctx := context.Background()
	viewerID := int64(9)

	s.articles.EXPECT().GetBySlug(ctx, &viewerID, "some-slug").Return(
		&domain.Article{ID: 1, Slug: "some-slug", AuthorID: 7}, nil,
	)

	title := "New title"
	_, err := s.service.Update(ctx, viewerID, "some-slug", ArticleUpdate{Title: &title})

	s.ErrorIs(err, domain.ErrForbidden)
}

func (s *ArticleServiceTestSuite) TestUpdate_SlugImmutable() {
	ctx := context.Background()
	viewerID := int64(7)

	stored := &domain.Article{ID: 1, Slug: "old-slug", Title: "Old", AuthorID: viewerID}
	s.articles.EXPECT().GetBySlug(ctx, &viewerID, "old-slug").Return(stored, nil)

	s.articles.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, article *domain.Article) error {
			s.Equal("old-slug", article.Slug)
			s.Equal("Completely Different Title", article.Title)
			return nil
		},
	)

	updated := &domain.Article{ID: 1, Slug: "old-slug", Title: "Completely Different Title", AuthorID: viewerID}
	s.articles.EXPECT().GetBySlug(ctx, &viewerID, "old-slug").Return(updated, nil)
	s.publisher.EXPECT().PublishArticle(ctx, updated, ArticleUpdated).Return(nil)

	title := "Completely Different Title"
	got, err := s.service.Update(ctx, viewerID, "old-slug", ArticleUpdate{Title: &title})

	s.NoError(err)
	s.Equal("old-slug", got.Slug)
}

func (s *ArticleServiceTestSuite) TestDelete_Owner() {
	ctx := context.Background()
	viewerID := int64(7)

	article := &domain.Article{ID: 1, Slug: "some-slug", AuthorID: viewerID}
	s.articles.EXPECT().GetBySlug(ctx, &viewerID, "some-slug").Return(article, nil)
	s.articles.EXPECT().Delete(ctx, int64(1)).Return(nil)
	s.publisher.EXPECT().PublishArticle(ctx, article, ArticleDeleted).Return(nil)

	s.NoError(s.service.Delete(ctx, viewerID, "some-slug"))
}

func (s *ArticleServiceTestSuite) TestDelete_PublishFailureIgnored() {
	ctx := context.Background()
	viewerID := int64(7)

	article := &domain.Article{ID: 1, Slug: "some-slug", AuthorID: viewerID}
	s.articles.EXPECT().GetBySlug(ctx, &viewerID, "some-slug").Return(article, nil)
	s.articles.EXPECT().Delete(ctx, int64(1)).Return(nil)
	s.publisher.EXPECT().PublishArticle(ctx, article, ArticleDeleted).Return(errors.New("broker down"))

	s.NoError(s.service.Delete(ctx, viewerID, "some-slug"))
}

func (s *ArticleServiceTestSuite) TestFavorite() {
	ctx := context.Background()
	viewerID := int64(9)

	before := &domain.Article{ID: 1, Slug: "some-slug", Favorited: false, FavoritesCount: 2}
	after := &domain.Article{ID: 1, Slug: "some-slug", Favorited: true, FavoritesCount: 3}

	s.articles.EXPECT().GetBySlug(ctx, &viewerID, "some-slug").Return(before, nil)
	s.favorites.EXPECT().Add(ctx, int64(1), viewerID).Return(nil)
	s.articles.EXPECT().GetBySlug(ctx, &viewerID, "some-slug").Return(after, nil)

	got, err := s.service.Favorite(ctx, viewerID, "some-slug")

	s.NoError(err)
	s.True(got.Favorited)
	s.Equal(3, got.FavoritesCount)
}

func (s *ArticleServiceTestSuite) TestFavorite_AlreadyFavorited() {
	ctx := context.Background()
	viewerID := int64(9)

	state := &domain.Article{ID: 1, Slug: "some-slug", Favorited: true, FavoritesCount: 3}

	s.articles.EXPECT().GetBySlug(ctx, &viewerID, "some-slug").Return(state, nil).Times(2)
	s.favorites.EXPECT().Add(ctx, int64(1), viewerID).Return(nil)

	got, err := s.service.Favorite(ctx, viewerID, "some-slug")

	s.NoError(err)
	s.True(got.Favorited)
	s.Equal(3, got.FavoritesCount)
}

func (s *ArticleServiceTestSuite) TestFavorite_UnknownSlug() {
	ctx := context.Background()
	viewerID := int64(9)

	s.articles.EXPECT().GetBySlug(ctx, &viewerID, "missing").Return(nil, domain.ErrNotFound)

	_, err := s.service.Favorite(ctx, viewerID, "missing")

	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *ArticleServiceTestSuite) TestUnfavorite_NotFavorited() {
	ctx := context.Background()
	viewerID := int64(9)

	state := &domain.Article{ID: 1, Slug: "some-slug", Favorited: false, FavoritesCount: 0}

	s.articles.EXPECT().GetBySlug(ctx, &viewerID, "some-slug").Return(state, nil).Times(2)
	s.favorites.EXPECT().Remove(ctx, int64(1), viewerID).Return(nil)

	got, err := s.service.Unfavorite(ctx, viewerID, "some-slug")

	s.NoError(err)
	s.False(got.Favorited)
	s.Equal(0, got.FavoritesCount)
}

func (s *ArticleServiceTestSuite) TestAddComment() {
	ctx := context.Background()
	viewerID := int64(9)

	s.articles.EXPECT().GetBySlug(ctx, &viewerID, "some-slug").Return(
		&domain.Article{ID: 1, Slug: "some-slug"}, nil,
	)
	s.comments.EXPECT().Add(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, comment *domain.Comment) error {
			s.Equal(int64(1), comment.ArticleID)
			s.Equal(viewerID, comment.AuthorID)
			s.Equal("Nice post!", comment.Body)
			comment.ID = 5
			return nil
		},
	)
	full := &domain.Comment{ID: 5, ArticleID: 1, AuthorID: viewerID, Body: "Nice post!"}
	s.comments.EXPECT().GetByID(ctx, int64(5)).Return(full, nil)

	got, err := s.service.AddComment(ctx, viewerID, "some-slug", "Nice post!")

	s.NoError(err)
	s.Equal(full, got)
}

func (s *ArticleServiceTestSuite) TestAddComment_BlankBody() {
	_, err := s.service.AddComment(context.Background(), 9, "some-slug", "   ")

	ve, ok := domain.AsValidation(err)
	s.True(ok)
	s.Contains(ve.Fields, "body")
}

func (s *ArticleServiceTestSuite) TestDeleteComment_NotAuthor() {
	ctx := context.Background()

	s.comments.EXPECT().GetByID(ctx, int64(5)).Return(
		&domain.Comment{ID: 5, AuthorID: 7}, nil,
	)

	err := s.service.DeleteComment(ctx, 9, 5)

	s.ErrorIs(err, domain.ErrForbidden)
}

func (s *ArticleServiceTestSuite) TestDeleteComment_Author() {
	ctx := context.Background()

	s.comments.EXPECT().GetByID(ctx, int64(5)).Return(
		&domain.Comment{ID: 5, AuthorID: 9}, nil,
	)
	s.comments.EXPECT().Delete(ctx, int64(5)).Return(nil)

	s.NoError(s.service.DeleteComment(ctx, 9, 5))
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"How to Train Your Dragon", "how-to-train-your-dragon"},
		{"Hello, World!", "hello-world"},
		{"  spaces   everywhere  ", "spaces-everywhere"},
		{"already-slugged", "already-slugged"},
		{"100% Pure Go", "100-pure-go"},
		{"***", ""},
	}
	for _, tc := range cases {
		if got := slugify(tc.title); got != tc.want {
			t.Errorf("slugify(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}
