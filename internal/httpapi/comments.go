package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"conduit/internal/domain"
)

func (a *API) listComments(w http.ResponseWriter, r *http.Request) {
	comments, err := a.articles.ListComments(r.Context(), viewerFrom(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	a.render(w, r, newCommentsResponse(comments))
}

func (a *API) addComment(w http.ResponseWriter, r *http.Request) {
	data := &commentRequest{}
	if err := render.Bind(r, data); err != nil {
		a.render(w, r, errMalformedBody())
		return
	}

	comment, err := a.articles.AddComment(
		r.Context(),
		mustPrincipal(r.Context()),
		chi.URLParam(r, "slug"),
		data.Comment.Body,
	)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	a.render(w, r, newCommentResponse(comment))
}

func (a *API) deleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		a.renderError(w, r, domain.ErrNotFound)
		return
	}

	if err := a.articles.DeleteComment(r.Context(), mustPrincipal(r.Context()), commentID); err != nil {
		a.renderError(w, r, err)
		return
	}

	render.NoContent(w, r)
}
