// Package httpapi exposes the blogging service over a JSON REST API.
// Request and response bodies wrap entities in named envelopes and
// errors are reported as {"errors": {field: [messages]}}.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"conduit/internal/auth"
	"conduit/internal/service"
)

type API struct {
	articles *service.ArticleService
	profiles *service.ProfileService
	users    *service.UserService
	tokens   *auth.Tokens
	logger   *slog.Logger
}

func NewAPI(
	articles *service.ArticleService,
	profiles *service.ProfileService,
	users *service.UserService,
	tokens *auth.Tokens,
	logger *slog.Logger,
) *API {
	return &API{
		articles: articles,
		profiles: profiles,
		users:    users,
		tokens:   tokens,
		logger:   logger,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("pong")); err != nil {
			a.logger.Error("write ping response", "error", err)
		}
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(a.resolvePrincipal)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", a.registerUser)
			r.Post("/login", a.loginUser)
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", a.currentUser)
			r.Put("/", a.updateUser)
		})

		r.Route("/profiles/{username}", func(r chi.Router) {
			r.Get("/", a.getProfile)
			r.With(requireAuth).Post("/follow", a.followProfile)
			r.With(requireAuth).Delete("/follow", a.unfollowProfile)
		})

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", a.listArticles)
			r.With(requireAuth).Get("/feed", a.feedArticles)
			r.With(requireAuth).Post("/", a.createArticle)

			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", a.getArticle)
				r.With(requireAuth).Put("/", a.updateArticle)
				r.With(requireAuth).Delete("/", a.deleteArticle)

				r.With(requireAuth).Post("/favorite", a.favoriteArticle)
				r.With(requireAuth).Delete("/favorite", a.unfavoriteArticle)

				r.Get("/comments", a.listComments)
				r.With(requireAuth).Post("/comments", a.addComment)
				r.With(requireAuth).Delete("/comments/{id}", a.deleteComment)
			})
		})

		r.Get("/tags", a.listTags)
	})

	return r
}

func (a *API) render(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		a.logger.Error("render response failed", "error", err)
	}
}
