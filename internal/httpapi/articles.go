package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"conduit/internal/domain"
)

func (a *API) listArticles(w http.ResponseWriter, r *http.Request) {
	filter := domain.ArticleFilter{
		Tag:       r.URL.Query().Get("tag"),
		Author:    r.URL.Query().Get("author"),
		Favorited: r.URL.Query().Get("favorited"),
		Limit:     queryInt(r, "limit"),
		Offset:    queryInt(r, "offset"),
	}

	articles, total, err := a.articles.List(r.Context(), viewerFrom(r.Context()), filter)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	a.render(w, r, newArticlesResponse(articles, total))
}

func (a *API) feedArticles(w http.ResponseWriter, r *http.Request) {
	articles, total, err := a.articles.Feed(
		r.Context(),
		mustPrincipal(r.Context()),
		queryInt(r, "limit"),
		queryInt(r, "offset"),
	)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	a.render(w, r, newArticlesResponse(articles, total))
}

func (a *API) getArticle(w http.ResponseWriter, r *http.Request) {
	article, err := a.articles.Get(r.Context(), viewerFrom(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	a.render(w, r, newArticleResponse(article))
}

func (a *API) createArticle(w http.ResponseWriter, r *http.Request) {
	data := &articleRequest{}
	if err := render.Bind(r, data); err != nil {
		a.render(w, r, errMalformedBody())
		return
	}

	article, err := a.articles.Create(r.Context(), mustPrincipal(r.Context()), data.input())
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	a.render(w, r, newArticleResponse(article))
}

func (a *API) updateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articleRequest{}
	if err := render.Bind(r, data); err != nil {
		a.render(w, r, errMalformedBody())
		return
	}

	article, err := a.articles.Update(
		r.Context(),
		mustPrincipal(r.Context()),
		chi.URLParam(r, "slug"),
		data.update(),
	)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	a.render(w, r, newArticleResponse(article))
}

func (a *API) deleteArticle(w http.ResponseWriter, r *http.Request) {
	err := a.articles.Delete(r.Context(), mustPrincipal(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	render.NoContent(w, r)
}

func (a *API) favoriteArticle(w http.ResponseWriter, r *http.Request) {
	article, err := a.articles.Favorite(r.Context(), mustPrincipal(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	a.render(w, r, newArticleResponse(article))
}

func (a *API) unfavoriteArticle(w http.ResponseWriter, r *http.Request) {
	article, err := a.articles.Unfavorite(r.Context(), mustPrincipal(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	a.render(w, r, newArticleResponse(article))
}

func (a *API) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := a.articles.Tags(r.Context())
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	a.render(w, r, newTagsResponse(tags))
}

// queryInt parses an integer query parameter; absent or malformed
// values fall back to zero and pagination normalization takes over.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}
