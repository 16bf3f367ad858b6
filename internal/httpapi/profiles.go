package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *API) getProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	profile, err := a.profiles.Get(r.Context(), viewerFrom(r.Context()), username)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	a.render(w, r, newProfileResponse(profile))
}

func (a *API) followProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	profile, err := a.profiles.Follow(r.Context(), mustPrincipal(r.Context()), username)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	a.render(w, r, newProfileResponse(profile))
}

func (a *API) unfollowProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	profile, err := a.profiles.Unfollow(r.Context(), mustPrincipal(r.Context()), username)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	a.render(w, r, newProfileResponse(profile))
}
