package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"conduit/internal/domain"
)

type ArticleStore interface {
	List(ctx context.Context, viewerID *int64, f domain.ArticleFilter) ([]domain.Article, int, error)
	Feed(ctx context.Context, viewerID int64, limit, offset int) ([]domain.Article, int, error)
	GetBySlug(ctx context.Context, viewerID *int64, slug string) (*domain.Article, error)
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id int64) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type FavoriteStore interface {
	Add(ctx context.Context, articleID, userID int64) error
	Remove(ctx context.Context, articleID, userID int64) error
}

type FollowStore interface {
	Add(ctx context.Context, followerID, followingID int64) error
	Remove(ctx context.Context, followerID, followingID int64) (bool, error)
	Exists(ctx context.Context, followerID, followingID int64) (bool, error)
}

type CommentStore interface {
	Add(ctx context.Context, comment *domain.Comment) error
	ListByArticle(ctx context.Context, viewerID *int64, articleID int64) ([]domain.Comment, error)
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type TagStore interface {
	List(ctx context.Context) ([]string, error)
	ReplaceForArticle(ctx context.Context, articleID int64, tags []string) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher emits article lifecycle events. A nil Publisher disables
// publishing.
type Publisher interface {
	PublishArticle(ctx context.Context, article *domain.Article, action string) error
	Close() error
}

type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}
