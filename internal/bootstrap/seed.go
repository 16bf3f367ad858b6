// Package bootstrap seeds an empty database with demo content so a
// fresh deployment has something to show.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"conduit/internal/auth"
	"conduit/internal/domain"
	"conduit/internal/storage/postgres"
)

const (
	demoUsername = "johndoe"
	demoEmail    = "john.doe@example.com"
	demoPassword = "Password123!"

	demoSlug = "how-to-learn-javascript-efficiently"
)

// Seed inserts the demo author and article unless they already exist.
// Safe to run on every startup.
func Seed(
	ctx context.Context,
	users *postgres.UserStore,
	articles *postgres.ArticleStore,
	tags *postgres.TagStore,
	txManager *postgres.TransactionManager,
	logger *slog.Logger,
) error {
	exists, err := articles.SlugExists(ctx, demoSlug)
	if err != nil {
		return fmt.Errorf("check seed article: %w", err)
	}
	if exists {
		logger.Debug("seed data already present", "slug", demoSlug)
		return nil
	}

	author, err := users.GetByUsername(ctx, demoUsername)
	if errors.Is(err, domain.ErrNotFound) {
		author, err = createDemoUser(ctx, users)
	}
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	article := &domain.Article{
		Slug:        demoSlug,
		Title:       "How to Learn JavaScript Efficiently",
		Description: "A practical roadmap for picking up JavaScript without drowning in tutorials.",
		Body: "Start with the language itself before any framework. Work through " +
			"the basics of values, functions and the event loop, then build a few " +
			"small projects end to end. Reading other people's code teaches you " +
			"more than another video course ever will.",
		AuthorID: author.ID,
	}
	tagList := []string{"beginners", "javascript", "programming", "webdev"}

	err = txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := articles.Create(txCtx, article); err != nil {
			return err
		}
		return tags.ReplaceForArticle(txCtx, article.ID, tagList)
	})
	if err != nil {
		return fmt.Errorf("seed article: %w", err)
	}

	logger.Info("seeded demo data", "author", demoUsername, "slug", demoSlug)
	return nil
}

func createDemoUser(ctx context.Context, users *postgres.UserStore) (*domain.User, error) {
	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return nil, err
	}

	bio := "I'm a software developer sharing what I learn along the way."
	user := &domain.User{
		Username:     demoUsername,
		Email:        demoEmail,
		PasswordHash: hash,
		Bio:          &bio,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
