package httpapi

import (
	"net/http"

	"github.com/go-chi/render"

	"conduit/internal/service"
)

func (a *API) registerUser(w http.ResponseWriter, r *http.Request) {
	data := &userRequest{}
	if err := render.Bind(r, data); err != nil {
		a.render(w, r, errMalformedBody())
		return
	}

	au, err := a.users.Register(r.Context(), service.RegisterInput{
		Username: data.User.Username,
		Email:    data.User.Email,
		Password: data.User.Password,
	})
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	a.render(w, r, newUserResponse(au))
}

func (a *API) loginUser(w http.ResponseWriter, r *http.Request) {
	data := &userRequest{}
	if err := render.Bind(r, data); err != nil {
		a.render(w, r, errMalformedBody())
		return
	}

	au, err := a.users.Login(r.Context(), data.User.Email, data.User.Password)
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	a.render(w, r, newUserResponse(au))
}

func (a *API) currentUser(w http.ResponseWriter, r *http.Request) {
	au, err := a.users.Current(r.Context(), mustPrincipal(r.Context()))
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	a.render(w, r, newUserResponse(au))
}

func (a *API) updateUser(w http.ResponseWriter, r *http.Request) {
	data := &userRequest{}
	if err := render.Bind(r, data); err != nil {
		a.render(w, r, errMalformedBody())
		return
	}

	au, err := a.users.Update(r.Context(), mustPrincipal(r.Context()), service.UserUpdate{
		Username: data.User.Username,
		Email:    data.User.Email,
		Password: data.User.Password,
		Bio:      data.User.Bio,
		Image:    data.User.Image,
	})
	if err != nil {
		a.renderError(w, r, err)
		return
	}

	a.render(w, r, newUserResponse(au))
}
